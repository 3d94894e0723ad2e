package price

import (
	"context"

	"lumera/internal/domain"
)

// Repository looks up price rows by product ref. Refs with no row are simply
// absent from the result map.
type Repository interface {
	ListByRefs(ctx context.Context, refs []string) (map[string]domain.PriceInfo, error)
	Upsert(ctx context.Context, ref string, info domain.PriceInfo) error
}
