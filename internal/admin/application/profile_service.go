package application

import (
	"context"
	"fmt"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

// profileService implements ProfileService.
type profileService struct {
	repo CatalogRepository
}

func NewProfileService(repo CatalogRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) Create(ctx context.Context, cmd ProfileCommand) (catalog.Profile, error) {
	doc, tag, err := s.repo.Fetch(ctx)
	if err != nil {
		return catalog.Profile{}, err
	}
	profile := catalog.Profile{ID: cmd.ID, Name: cmd.Name}
	if err := doc.AddProfile(profile); err != nil {
		return catalog.Profile{}, err
	}
	message := fmt.Sprintf("Add profile: %s", profile.ID)
	if err := s.repo.CompareAndSwap(ctx, doc, tag, message); err != nil {
		return catalog.Profile{}, err
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, cmd ProfileCommand) (catalog.Profile, error) {
	doc, tag, err := s.repo.Fetch(ctx)
	if err != nil {
		return catalog.Profile{}, err
	}
	updated, err := doc.RenameProfile(cmd.ID, cmd.Name)
	if err != nil {
		return catalog.Profile{}, err
	}
	message := fmt.Sprintf("Update profile: %s", updated.ID)
	if err := s.repo.CompareAndSwap(ctx, doc, tag, message); err != nil {
		return catalog.Profile{}, err
	}
	return updated, nil
}

func (s *profileService) Delete(ctx context.Context, id string) (catalog.Profile, error) {
	doc, tag, err := s.repo.Fetch(ctx)
	if err != nil {
		return catalog.Profile{}, err
	}
	removed, err := doc.RemoveProfile(id)
	if err != nil {
		return catalog.Profile{}, err
	}
	message := fmt.Sprintf("Delete profile: %s", removed.ID)
	if err := s.repo.CompareAndSwap(ctx, doc, tag, message); err != nil {
		return catalog.Profile{}, err
	}
	return removed, nil
}
