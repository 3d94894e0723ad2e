package product

import (
	"context"

	"lumera/internal/domain"
)

// SearchInput captures the catalog filters. Page is 1-based.
type SearchInput struct {
	Search   string
	Line     string
	Type     string
	SkinType string
	Page     int
	PageSize int
}

type Repository interface {
	Search(ctx context.Context, in SearchInput) ([]domain.Product, error)
	GetByRef(ctx context.Context, ref string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
