package application

import (
	"context"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

// catalogQueryService implements CatalogQueryService. The version tag from
// the reader is dropped: readers never write, so staleness is acceptable.
type catalogQueryService struct {
	reader CatalogReader
}

func NewCatalogQueryService(reader CatalogReader) CatalogQueryService {
	return &catalogQueryService{reader: reader}
}

func (s *catalogQueryService) Catalog(ctx context.Context) (catalog.Catalog, error) {
	doc, _, err := s.reader.Fetch(ctx)
	if err != nil {
		return catalog.Catalog{}, err
	}
	return doc, nil
}

func (s *catalogQueryService) Profiles(ctx context.Context) ([]catalog.Profile, error) {
	doc, _, err := s.reader.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Profiles, nil
}
