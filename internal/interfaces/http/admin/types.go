package admin

import (
	"encoding/json"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

// restaurantUpsertRequest keeps list fields raw so handlers can tell an
// absent field apart from a present-but-wrongly-typed one.
type restaurantUpsertRequest struct {
	ID                  catalog.ID      `json:"id"`
	Name                string          `json:"name"`
	FoodTypes           json.RawMessage `json:"foodTypes"`
	ServiceTypes        json.RawMessage `json:"serviceTypes"`
	Profiles            json.RawMessage `json:"profiles"`
	DietaryRestrictions json.RawMessage `json:"dietaryRestrictions"`
	OrderMethod         string          `json:"orderMethod"`
	MenuLink            string          `json:"menuLink"`
	Address             string          `json:"address"`
	Phone               string          `json:"phone"`
	Notes               string          `json:"notes"`
}

type profileUpsertRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type adminRestaurantPayload struct {
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

type adminProfilePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type restaurantMutationResponse struct {
	Success    bool                   `json:"success"`
	Restaurant adminRestaurantPayload `json:"restaurant"`
}

type restaurantDeleteResponse struct {
	Success bool                   `json:"success"`
	Deleted adminRestaurantPayload `json:"deleted"`
}

type profileMutationResponse struct {
	Success bool                `json:"success"`
	Profile adminProfilePayload `json:"profile"`
}

type profileDeleteResponse struct {
	Success bool                `json:"success"`
	Deleted adminProfilePayload `json:"deleted"`
}
