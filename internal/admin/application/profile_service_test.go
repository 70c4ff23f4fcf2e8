package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

func TestProfileServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("appends and writes", func(t *testing.T) {
		repo := seededRepository()
		service := NewProfileService(repo)

		profile, err := service.Create(ctx, ProfileCommand{ID: "date-night", Name: "Date Night"})
		require.NoError(t, err)
		assert.Equal(t, catalog.Profile{ID: "date-night", Name: "Date Night"}, profile)
		assert.Equal(t, "Add profile: date-night", repo.savedMsg)
		require.NotNil(t, repo.saved)
		assert.Len(t, repo.saved.Profiles, 3)
	})

	t.Run("initializes a missing collection with the reserved entry", func(t *testing.T) {
		repo := &fakeCatalogRepository{doc: catalog.Catalog{}, tag: "sha-1"}
		service := NewProfileService(repo)

		_, err := service.Create(ctx, ProfileCommand{ID: "date-night", Name: "Date Night"})
		require.NoError(t, err)
		require.NotNil(t, repo.saved)
		require.Len(t, repo.saved.Profiles, 2)
		assert.Equal(t, catalog.ReservedProfileID, repo.saved.Profiles[0].ID)
	})

	t.Run("duplicate id", func(t *testing.T) {
		repo := seededRepository()
		service := NewProfileService(repo)

		_, err := service.Create(ctx, ProfileCommand{ID: "quick-lunch", Name: "Again"})
		assert.ErrorIs(t, err, catalog.ErrProfileExists)
		assert.False(t, repo.casCalled)
	})

	t.Run("reserved id", func(t *testing.T) {
		repo := seededRepository()
		service := NewProfileService(repo)

		_, err := service.Create(ctx, ProfileCommand{ID: catalog.ReservedProfileID, Name: "Everything"})
		assert.ErrorIs(t, err, catalog.ErrProfileReserved)
		assert.False(t, repo.casCalled)
	})
}

func TestProfileServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("renames in place", func(t *testing.T) {
		repo := seededRepository()
		service := NewProfileService(repo)

		updated, err := service.Update(ctx, ProfileCommand{ID: "quick-lunch", Name: "Lunch Break"})
		require.NoError(t, err)
		assert.Equal(t, "Lunch Break", updated.Name)
		assert.Equal(t, "Update profile: quick-lunch", repo.savedMsg)
		require.NotNil(t, repo.saved)
		assert.Equal(t, "Lunch Break", repo.saved.Profiles[1].Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := seededRepository()
		service := NewProfileService(repo)

		_, err := service.Update(ctx, ProfileCommand{ID: "missing", Name: "Nope"})
		assert.ErrorIs(t, err, catalog.ErrProfileNotFound)
	})

	t.Run("reserved id", func(t *testing.T) {
		repo := seededRepository()
		service := NewProfileService(repo)

		_, err := service.Update(ctx, ProfileCommand{ID: catalog.ReservedProfileID, Name: "Everything"})
		assert.ErrorIs(t, err, catalog.ErrProfileReserved)
	})
}

func TestProfileServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades into restaurants within the same write", func(t *testing.T) {
		repo := seededRepository()
		service := NewProfileService(repo)

		removed, err := service.Delete(ctx, "quick-lunch")
		require.NoError(t, err)
		assert.Equal(t, "quick-lunch", removed.ID)
		assert.Equal(t, "Delete profile: quick-lunch", repo.savedMsg)

		require.NotNil(t, repo.saved)
		assert.Len(t, repo.saved.Profiles, 1)
		assert.Equal(t, []string{}, repo.saved.Restaurants[0].Profiles)
		assert.Equal(t, "Ramen Taro", repo.saved.Restaurants[0].Name)
	})

	t.Run("conflict discards the cascade", func(t *testing.T) {
		repo := seededRepository()
		repo.casErr = errStoreConflict
		service := NewProfileService(repo)

		_, err := service.Delete(ctx, "quick-lunch")
		assert.ErrorIs(t, err, errStoreConflict)
		assert.Nil(t, repo.saved)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := seededRepository()
		service := NewProfileService(repo)

		_, err := service.Delete(ctx, "missing")
		assert.ErrorIs(t, err, catalog.ErrProfileNotFound)
		assert.False(t, repo.casCalled)
	})

	t.Run("reserved id", func(t *testing.T) {
		repo := seededRepository()
		service := NewProfileService(repo)

		_, err := service.Delete(ctx, catalog.ReservedProfileID)
		assert.ErrorIs(t, err, catalog.ErrProfileReserved)
		assert.False(t, repo.casCalled)
	})
}
