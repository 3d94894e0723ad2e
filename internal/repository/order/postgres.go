package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lumera/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, customer_name, customer_email, customer_phone, items, total, status, payment_status, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO orders (id, customer_name, customer_email, customer_phone, items, total, status, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + orderColumns
	out, err := scanOrder(r.pool.QueryRow(ctx, q,
		o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, itemsJSON, o.Total, o.Status, o.PaymentStatus))
	if err != nil {
		r.logger.Printf("order repo: create id=%s error=%v", o.ID, err)
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s total=%.2f", out.ID, out.Total)
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	out, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Patch(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error) {
	// COALESCE keeps columns untouched when the corresponding patch field is
	// absent; items are replaced wholesale when present.
	var itemsJSON []byte
	if patch.Items != nil {
		b, err := json.Marshal(*patch.Items)
		if err != nil {
			return nil, err
		}
		itemsJSON = b
	}

	const q = `
UPDATE orders
SET status = COALESCE($2, status),
    payment_status = COALESCE($3, payment_status),
    items = COALESCE($4, items),
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns
	out, err := scanOrder(r.pool.QueryRow(ctx, q, id, patch.Status, patch.PaymentStatus, itemsJSON))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: patch id=%s error=%v", id, err)
		return nil, err
	}
	r.logger.Printf("order repo: patched id=%s status=%s payment=%s", out.ID, out.Status, out.PaymentStatus)
	return out, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var itemsJSON []byte
	if err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&itemsJSON,
		&o.Total,
		&o.Status,
		&o.PaymentStatus,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, err
		}
	}
	return &o, nil
}
