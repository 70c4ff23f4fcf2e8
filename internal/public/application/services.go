package application

import (
	"context"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

// CatalogReader abstracts read access to the catalog document.
// CatalogReader は Public コンテキストでカタログを読み取るためのポート。
type CatalogReader interface {
	Fetch(ctx context.Context) (catalog.Catalog, string, error)
}

// CatalogQueryService describes read use-cases.
// CatalogQueryService はルーレット画面向けの読み取りユースケースを提供する。
type CatalogQueryService interface {
	Catalog(ctx context.Context) (catalog.Catalog, error)
	Profiles(ctx context.Context) ([]catalog.Profile, error)
}
