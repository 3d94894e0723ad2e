package order

import (
	"context"

	"lumera/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Patch(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error)
}
