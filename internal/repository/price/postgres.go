package price

import (
	"context"
	"io"
	"log"

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

func (r *postgresRepo) ListByRefs(ctx context.Context, refs []string) (map[string]domain.PriceInfo, error) {
	if len(refs) == 0 {
		return map[string]domain.PriceInfo{}, nil
	}

	const q = `
SELECT product_ref, unit_price, currency, discount_price, price_tier, updated_at
FROM prices
WHERE product_ref = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, refs)
	if err != nil {
		r.logger.Printf("price repo: list refs=%d error=%v", len(refs), err)
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]domain.PriceInfo, len(refs))
	for rows.Next() {
		var ref string
		var info domain.PriceInfo
		if err := rows.Scan(&ref, &info.UnitPrice, &info.Currency, &info.DiscountPrice, &info.PriceTier, &info.UpdatedAt); err != nil {
			return nil, err
		}
		result[ref] = info
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("price repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("price repo: list refs=%d found=%d", len(refs), len(result))
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, ref string, info domain.PriceInfo) error {
	const q = `
INSERT INTO prices (product_ref, unit_price, currency, discount_price, price_tier, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (product_ref) DO UPDATE SET
    unit_price = EXCLUDED.unit_price,
    currency = EXCLUDED.currency,
    discount_price = EXCLUDED.discount_price,
    price_tier = EXCLUDED.price_tier,
    updated_at = now()
`
	tier := info.PriceTier
	if tier == "" {
		tier = "standard"
	}
	_, err := r.pool.Exec(ctx, q, ref, info.UnitPrice, info.Currency, info.DiscountPrice, tier)
	if err != nil {
		r.logger.Printf("price repo: upsert ref=%s error=%v", ref, err)
	}
	return err
}
