package application

import (
	"context"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

// CatalogRepository is the versioned document store behind admin mutations.
// Fetch returns the current document together with an opaque version tag.
// CompareAndSwap persists a full replacement and fails when the tag has been
// superseded by a concurrent write; conflicts are terminal for the request
// (no retry, no merge).
type CatalogRepository interface {
	Fetch(ctx context.Context) (catalog.Catalog, string, error)
	CompareAndSwap(ctx context.Context, doc catalog.Catalog, versionTag, message string) error
}

// RestaurantService describes admin restaurant use-cases.
type RestaurantService interface {
	Create(ctx context.Context, cmd UpsertRestaurantCommand) (catalog.Restaurant, error)
	Update(ctx context.Context, cmd UpsertRestaurantCommand) (catalog.Restaurant, error)
	Delete(ctx context.Context, id string) (catalog.Restaurant, error)
}

// ProfileService describes admin profile use-cases.
type ProfileService interface {
	Create(ctx context.Context, cmd ProfileCommand) (catalog.Profile, error)
	Update(ctx context.Context, cmd ProfileCommand) (catalog.Profile, error)
	Delete(ctx context.Context, id string) (catalog.Profile, error)
}

// UpsertRestaurantCommand contains validated inputs for restaurant writes.
// A zero ID on create means "generate one".
type UpsertRestaurantCommand struct {
	ID                  catalog.ID
	Name                string
	FoodTypes           []string
	ServiceTypes        []string
	Profiles            []string
	DietaryRestrictions []string
	OrderMethod         string
	MenuLink            string
	Address             string
	Phone               string
	Notes               string
}

// ProfileCommand contains validated inputs for profile writes.
type ProfileCommand struct {
	ID   string
	Name string
}
