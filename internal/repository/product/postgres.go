package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

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

const productColumns = `id::text, ref, name_en, name_fr, short_description, image_url, size, line, types, skin_type, stock_quantity, created_at`

func (r *postgresRepo) Search(ctx context.Context, in SearchInput) ([]domain.Product, error) {
	// Rows with NULL/blank stock_quantity are excluded here at the source:
	// unknown stock never reaches the catalog, zero stock does.
	where := []string{"stock_quantity IS NOT NULL", "btrim(stock_quantity) <> ''"}
	args := []interface{}{}

	if s := strings.TrimSpace(in.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name_en ILIKE $%d OR name_fr ILIKE $%d OR ref ILIKE $%d)", n, n, n))
	}
	if l := strings.TrimSpace(in.Line); l != "" {
		args = append(args, l)
		where = append(where, fmt.Sprintf("line = $%d", len(args)))
	}
	if t := strings.TrimSpace(in.Type); t != "" {
		args = append(args, t)
		where = append(where, fmt.Sprintf("$%d = ANY(types)", len(args)))
	}
	if st := strings.TrimSpace(in.SkinType); st != "" {
		args = append(args, st)
		where = append(where, fmt.Sprintf("skin_type = $%d", len(args)))
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	args = append(args, pageSize, (page-1)*pageSize)

	q := fmt.Sprintf(`
SELECT %s
FROM products
WHERE %s
ORDER BY name_en ASC, ref ASC
LIMIT $%d OFFSET $%d
`, productColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: search page=%d error=%v", page, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: search rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: search page=%d count=%d", page, len(result))
	return result, nil
}

func (r *postgresRepo) GetByRef(ctx context.Context, ref string) (*domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE ref = $1`, productColumns)
	row := r.pool.QueryRow(ctx, q, ref)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get ref=%s not found", ref)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get ref=%s error=%v", ref, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (ref, name_en, name_fr, short_description, image_url, size, line, types, skin_type, stock_quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (ref) DO UPDATE SET
    name_en = EXCLUDED.name_en,
    name_fr = EXCLUDED.name_fr,
    short_description = EXCLUDED.short_description,
    image_url = EXCLUDED.image_url,
    size = EXCLUDED.size,
    line = EXCLUDED.line,
    types = EXCLUDED.types,
    skin_type = EXCLUDED.skin_type,
    stock_quantity = EXCLUDED.stock_quantity
RETURNING id::text, created_at
`
	types := product.Types
	if types == nil {
		types = []string{}
	}
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.Ref,
		product.NameEN,
		product.NameFR,
		product.ShortDescription,
		product.ImageURL,
		product.Size,
		product.Line,
		types,
		product.SkinType,
		product.StockQuantity,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert ref=%s error=%v", product.Ref, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted ref=%s id=%s", res.Ref, res.ID)
	return &res, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Ref,
		&p.NameEN,
		&p.NameFR,
		&p.ShortDescription,
		&p.ImageURL,
		&p.Size,
		&p.Line,
		&p.Types,
		&p.SkinType,
		&p.StockQuantity,
		&p.CreatedAt,
	)
	return p, err
}
