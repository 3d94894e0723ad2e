package cartstore

import (
	"context"
	"time"

	"lumera/internal/domain"
)

// SchemaVersion is the current cart record schema. A persisted record with a
// different version is discarded on load, no migration is attempted.
const SchemaVersion = "1.0"

// Record is the persisted cart shape.
type Record struct {
	Items       []domain.CartItem `json:"items"`
	LastUpdated time.Time         `json:"lastUpdated"`
	Version     string            `json:"version"`
}

// Store persists cart records per session. Save is best-effort: callers treat
// failures as log-only, the in-memory cart stays authoritative.
type Store interface {
	Save(ctx context.Context, sessionID string, rec Record) error
	Load(ctx context.Context, sessionID string) (*Record, error)
	Delete(ctx context.Context, sessionID string) error
}

// Sanitize drops items without a product ref and coerces quantity/price into
// their valid ranges. Persisted records from older clients can carry junk.
func Sanitize(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.ProductRef == "" {
			continue
		}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		if it.UnitPrice < 0 {
			it.UnitPrice = 0
		}
		it.TotalPrice = it.UnitPrice * float64(it.Quantity)
		out = append(out, it)
	}
	return out
}
