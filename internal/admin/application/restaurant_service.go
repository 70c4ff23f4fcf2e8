package application

import (
	"context"
	"fmt"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

// restaurantService implements RestaurantService. Every mutation is a full
// fetch, an in-memory transition, and one compare-and-swap write.
type restaurantService struct {
	repo CatalogRepository
}

func NewRestaurantService(repo CatalogRepository) RestaurantService {
	return &restaurantService{repo: repo}
}

func (s *restaurantService) Create(ctx context.Context, cmd UpsertRestaurantCommand) (catalog.Restaurant, error) {
	doc, tag, err := s.repo.Fetch(ctx)
	if err != nil {
		return catalog.Restaurant{}, err
	}
	record := restaurantFromCommand(cmd)
	if record.ID.IsZero() {
		record.ID = catalog.NewRestaurantID()
	}
	if err := doc.AddRestaurant(record); err != nil {
		return catalog.Restaurant{}, err
	}
	message := fmt.Sprintf("Add restaurant: %s", record.Name)
	if err := s.repo.CompareAndSwap(ctx, doc, tag, message); err != nil {
		return catalog.Restaurant{}, err
	}
	return record, nil
}

func (s *restaurantService) Update(ctx context.Context, cmd UpsertRestaurantCommand) (catalog.Restaurant, error) {
	doc, tag, err := s.repo.Fetch(ctx)
	if err != nil {
		return catalog.Restaurant{}, err
	}
	record := restaurantFromCommand(cmd)
	if err := doc.ReplaceRestaurant(record); err != nil {
		return catalog.Restaurant{}, err
	}
	message := fmt.Sprintf("Update restaurant: %s", record.Name)
	if err := s.repo.CompareAndSwap(ctx, doc, tag, message); err != nil {
		return catalog.Restaurant{}, err
	}
	return record, nil
}

func (s *restaurantService) Delete(ctx context.Context, id string) (catalog.Restaurant, error) {
	doc, tag, err := s.repo.Fetch(ctx)
	if err != nil {
		return catalog.Restaurant{}, err
	}
	removed, err := doc.RemoveRestaurant(id)
	if err != nil {
		return catalog.Restaurant{}, err
	}
	message := fmt.Sprintf("Delete restaurant: %s", removed.Name)
	if err := s.repo.CompareAndSwap(ctx, doc, tag, message); err != nil {
		return catalog.Restaurant{}, err
	}
	return removed, nil
}

func restaurantFromCommand(cmd UpsertRestaurantCommand) catalog.Restaurant {
	return catalog.Restaurant{
		ID:                  cmd.ID,
		Name:                cmd.Name,
		FoodTypes:           append([]string{}, cmd.FoodTypes...),
		ServiceTypes:        append([]string{}, cmd.ServiceTypes...),
		Profiles:            append([]string{}, cmd.Profiles...),
		DietaryRestrictions: append([]string{}, cmd.DietaryRestrictions...),
		OrderMethod:         cmd.OrderMethod,
		MenuLink:            cmd.MenuLink,
		Address:             cmd.Address,
		Phone:               cmd.Phone,
		Notes:               cmd.Notes,
	}
}
