package application

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

var errStoreConflict = errors.New("version tag superseded")

// fakeCatalogRepository records the write so tests can inspect the exact
// document and message the service attempted to persist.
type fakeCatalogRepository struct {
	doc       catalog.Catalog
	tag       string
	fetchErr  error
	casErr    error
	saved     *catalog.Catalog
	savedTag  string
	savedMsg  string
	casCalled bool
}

func (f *fakeCatalogRepository) Fetch(context.Context) (catalog.Catalog, string, error) {
	if f.fetchErr != nil {
		return catalog.Catalog{}, "", f.fetchErr
	}
	return f.doc, f.tag, nil
}

func (f *fakeCatalogRepository) CompareAndSwap(_ context.Context, doc catalog.Catalog, versionTag, message string) error {
	f.casCalled = true
	f.savedTag = versionTag
	f.savedMsg = message
	if f.casErr != nil {
		return f.casErr
	}
	f.saved = &doc
	return nil
}

func seededRepository() *fakeCatalogRepository {
	return &fakeCatalogRepository{
		doc: catalog.Catalog{
			Profiles: []catalog.Profile{
				catalog.NewReservedProfile(),
				{ID: "quick-lunch", Name: "Quick Lunch"},
			},
			Restaurants: []catalog.Restaurant{
				{
					ID:           catalog.StringID("r-1"),
					Name:         "Ramen Taro",
					FoodTypes:    []string{"ramen"},
					ServiceTypes: []string{"dine-in"},
					Profiles:     []string{"quick-lunch"},
				},
			},
		},
		tag: "sha-1",
	}
}

func TestRestaurantServiceCreate(t *testing.T) {
	ctx := context.Background()
	uuidShape := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	t.Run("generates an id when the command has none", func(t *testing.T) {
		repo := seededRepository()
		service := NewRestaurantService(repo)

		record, err := service.Create(ctx, UpsertRestaurantCommand{
			Name:         "Green Bowl",
			FoodTypes:    []string{"salad"},
			ServiceTypes: []string{"takeout"},
		})
		require.NoError(t, err)
		assert.Regexp(t, uuidShape, record.ID.String())
		assert.Equal(t, "sha-1", repo.savedTag)
		assert.Equal(t, "Add restaurant: Green Bowl", repo.savedMsg)
		require.NotNil(t, repo.saved)
		assert.Len(t, repo.saved.Restaurants, 2)
	})

	t.Run("keeps a client-supplied id", func(t *testing.T) {
		repo := seededRepository()
		service := NewRestaurantService(repo)

		record, err := service.Create(ctx, UpsertRestaurantCommand{
			ID:           catalog.StringID("custom-id"),
			Name:         "Green Bowl",
			FoodTypes:    []string{"salad"},
			ServiceTypes: []string{"takeout"},
		})
		require.NoError(t, err)
		assert.Equal(t, "custom-id", record.ID.String())
	})

	t.Run("rejects a duplicate id without writing", func(t *testing.T) {
		repo := seededRepository()
		service := NewRestaurantService(repo)

		_, err := service.Create(ctx, UpsertRestaurantCommand{
			ID:           catalog.StringID("r-1"),
			Name:         "Imposter",
			FoodTypes:    []string{"ramen"},
			ServiceTypes: []string{"dine-in"},
		})
		assert.ErrorIs(t, err, catalog.ErrRestaurantExists)
		assert.False(t, repo.casCalled)
	})

	t.Run("surfaces a write conflict", func(t *testing.T) {
		repo := seededRepository()
		repo.casErr = errStoreConflict
		service := NewRestaurantService(repo)

		_, err := service.Create(ctx, UpsertRestaurantCommand{
			Name:         "Green Bowl",
			FoodTypes:    []string{"salad"},
			ServiceTypes: []string{"takeout"},
		})
		assert.ErrorIs(t, err, errStoreConflict)
	})

	t.Run("surfaces a fetch failure", func(t *testing.T) {
		repo := &fakeCatalogRepository{fetchErr: errors.New("store unreachable")}
		service := NewRestaurantService(repo)

		_, err := service.Create(ctx, UpsertRestaurantCommand{Name: "Green Bowl"})
		assert.Error(t, err)
		assert.False(t, repo.casCalled)
	})
}

func TestRestaurantServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the whole record", func(t *testing.T) {
		repo := seededRepository()
		service := NewRestaurantService(repo)

		record, err := service.Update(ctx, UpsertRestaurantCommand{
			ID:           catalog.StringID("r-1"),
			Name:         "Ramen Taro Honten",
			FoodTypes:    []string{"ramen", "gyoza"},
			ServiceTypes: []string{"dine-in", "takeout"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Update restaurant: Ramen Taro Honten", repo.savedMsg)
		require.NotNil(t, repo.saved)
		assert.Equal(t, "Ramen Taro Honten", repo.saved.Restaurants[0].Name)
		assert.Empty(t, repo.saved.Restaurants[0].Profiles)
		assert.Equal(t, record.Name, repo.saved.Restaurants[0].Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := seededRepository()
		service := NewRestaurantService(repo)

		_, err := service.Update(ctx, UpsertRestaurantCommand{
			ID:           catalog.StringID("missing"),
			Name:         "Ghost",
			FoodTypes:    []string{"air"},
			ServiceTypes: []string{"takeout"},
		})
		assert.ErrorIs(t, err, catalog.ErrRestaurantNotFound)
		assert.False(t, repo.casCalled)
	})
}

func TestRestaurantServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and reports the record", func(t *testing.T) {
		repo := seededRepository()
		service := NewRestaurantService(repo)

		removed, err := service.Delete(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, "Ramen Taro", removed.Name)
		assert.Equal(t, "Delete restaurant: Ramen Taro", repo.savedMsg)
		require.NotNil(t, repo.saved)
		assert.Empty(t, repo.saved.Restaurants)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := seededRepository()
		service := NewRestaurantService(repo)

		_, err := service.Delete(ctx, "missing")
		assert.ErrorIs(t, err, catalog.ErrRestaurantNotFound)
		assert.False(t, repo.casCalled)
	})
}
