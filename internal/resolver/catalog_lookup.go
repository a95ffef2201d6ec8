package resolver

import (
	"context"

	repository "github.com/servease/household-services-platform/internal/repositories"
)

// CatalogLookup resolves references against the local catalog store. Used
// in the monolith wiring; split deployments point at the HTTP client in
// pkg/lookup instead.
type CatalogLookup struct {
	catalog repository.CatalogRepository
}

func NewCatalogLookup(catalog repository.CatalogRepository) *CatalogLookup {
	return &CatalogLookup{catalog: catalog}
}

func (l *CatalogLookup) LookupRef(ctx context.Context, kind, ref string) (string, error) {
	return l.catalog.ResolveRef(ctx, kind, ref)
}
