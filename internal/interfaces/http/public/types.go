package public

import (
	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

type authRequest struct {
	Password string `json:"password"`
}

type authSuccessResponse struct {
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token"`
}

type authErrorResponse struct {
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error"`
}

type restaurantPayload struct {
	ID                  catalog.ID `json:"id"`
	Name                string     `json:"name"`
	FoodTypes           []string   `json:"foodTypes"`
	ServiceTypes        []string   `json:"serviceTypes"`
	Profiles            []string   `json:"profiles"`
	DietaryRestrictions []string   `json:"dietaryRestrictions,omitempty"`
	OrderMethod         string     `json:"orderMethod,omitempty"`
	MenuLink            string     `json:"menuLink,omitempty"`
	Address             string     `json:"address,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	Notes               string     `json:"notes,omitempty"`
}

type profilePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type catalogResponse struct {
	Restaurants []restaurantPayload `json:"restaurants"`
	Profiles    []profilePayload    `json:"profiles"`
}

type profileListResponse struct {
	Profiles []profilePayload `json:"profiles"`
}

// buildRestaurantPayload は Restaurant ドメインモデルを表示用 DTO に変換する。
func buildRestaurantPayload(record catalog.Restaurant) restaurantPayload {
	return restaurantPayload{
		ID:                  record.ID,
		Name:                record.Name,
		FoodTypes:           append([]string{}, record.FoodTypes...),
		ServiceTypes:        append([]string{}, record.ServiceTypes...),
		Profiles:            append([]string{}, record.Profiles...),
		DietaryRestrictions: append([]string{}, record.DietaryRestrictions...),
		OrderMethod:         record.OrderMethod,
		MenuLink:            record.MenuLink,
		Address:             record.Address,
		Phone:               record.Phone,
		Notes:               record.Notes,
	}
}

func buildRestaurantPayloads(records []catalog.Restaurant) []restaurantPayload {
	items := make([]restaurantPayload, 0, len(records))
	for _, record := range records {
		items = append(items, buildRestaurantPayload(record))
	}
	return items
}

func buildProfilePayloads(profiles []catalog.Profile) []profilePayload {
	items := make([]profilePayload, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, profilePayload{ID: profile.ID, Name: profile.Name})
	}
	return items
}
