package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Ref       string
	NameEN    string
	NameFR    string
	Desc      string
	Size      string
	Line      string
	Types     []string
	SkinType  string
	Stock     string
	UnitPrice float64
	Tier      string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Ref:       "LUM-001",
			NameEN:    "Gentle Foaming Cleanser",
			NameFR:    "Nettoyant Moussant Doux",
			Desc:      "Sulfate-free daily cleanser",
			Size:      "150ml",
			Line:      "pure",
			Types:     []string{"cleanser"},
			SkinType:  "sensitive",
			Stock:     "42",
			UnitPrice: 14.90,
			Tier:      "standard",
		},
		{
			Ref:       "LUM-002",
			NameEN:    "Hydra Day Cream",
			NameFR:    "Crème de Jour Hydra",
			Desc:      "Hyaluronic day moisturizer",
			Size:      "50ml",
			Line:      "hydra",
			Types:     []string{"moisturizer"},
			SkinType:  "dry",
			Stock:     "0",
			UnitPrice: 24.50,
			Tier:      "standard",
		},
		{
			Ref:       "LUM-003",
			NameEN:    "Clarifying Serum",
			NameFR:    "Sérum Clarifiant",
			Desc:      "Niacinamide 10% serum",
			Size:      "30ml",
			Line:      "clear",
			Types:     []string{"serum", "treatment"},
			SkinType:  "oily",
			Stock:     "17",
			UnitPrice: 32.00,
			Tier:      "professional",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Ref, err)
		}
	}

	if err := upsertCustomer(ctx, pool, "pro@lumera.example", "professional"); err != nil {
		return fmt.Errorf("upsert pro customer: %w", err)
	}
	if err := upsertCustomer(ctx, pool, "shopper@lumera.example", "retail"); err != nil {
		return fmt.Errorf("upsert retail customer: %w", err)
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const productQ = `
INSERT INTO products (ref, name_en, name_fr, short_description, size, line, types, skin_type, stock_quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (ref) DO UPDATE
SET name_en = EXCLUDED.name_en,
    name_fr = EXCLUDED.name_fr,
    short_description = EXCLUDED.short_description,
    size = EXCLUDED.size,
    line = EXCLUDED.line,
    types = EXCLUDED.types,
    skin_type = EXCLUDED.skin_type,
    stock_quantity = EXCLUDED.stock_quantity
`
	if _, err := pool.Exec(ctx, productQ, p.Ref, p.NameEN, p.NameFR, p.Desc, p.Size, p.Line, p.Types, p.SkinType, p.Stock); err != nil {
		return err
	}

	const priceQ = `
INSERT INTO prices (product_ref, unit_price, currency, price_tier)
VALUES ($1, $2, 'EUR', $3)
ON CONFLICT (product_ref) DO UPDATE
SET unit_price = EXCLUDED.unit_price,
    price_tier = EXCLUDED.price_tier,
    updated_at = now()
`
	_, err := pool.Exec(ctx, priceQ, p.Ref, p.UnitPrice, p.Tier)
	return err
}

func upsertCustomer(ctx context.Context, pool *pgxpool.Pool, email, role string) error {
	// Seed accounts all share the password "lumera-demo".
	hash, err := bcrypt.GenerateFromPassword([]byte("lumera-demo"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO customers (email, password_hash, role)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role
`
	_, err = pool.Exec(ctx, q, email, string(hash), role)
	return err
}
