package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"lumera/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type PriceWriter interface {
	Upsert(ctx context.Context, ref string, info domain.PriceInfo) error
}

// JSONImporter reads a product feed (a JSON array of loosely-shaped objects
// accumulated over several legacy exports) and upserts products and price
// rows. All field-alias tolerance lives in normalizeRecord; nothing past
// that boundary sees the legacy shapes.
type JSONImporter struct {
	reader   io.Reader
	products ProductWriter
	prices   PriceWriter
	logger   *log.Logger
}

func NewJSONImporter(r io.Reader, products ProductWriter, prices PriceWriter, logger *log.Logger) *JSONImporter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &JSONImporter{reader: r, products: products, prices: prices, logger: logger}
}

// Run parses the feed and upserts every record with a usable ref. Records
// without one are skipped with a warning rather than aborting the import.
func (i *JSONImporter) Run(ctx context.Context) (int, error) {
	var raw []map[string]interface{}
	dec := json.NewDecoder(i.reader)
	if err := dec.Decode(&raw); err != nil {
		return 0, fmt.Errorf("decode feed: %w", err)
	}

	imported := 0
	for n, rec := range raw {
		product, price := normalizeRecord(rec)
		if product.Ref == "" {
			i.logger.Printf("importer: record %d has no ref, skipped", n)
			continue
		}
		if product.NameEN == "" {
			i.logger.Printf("importer: record %d (ref=%s) has no name, skipped", n, product.Ref)
			continue
		}

		if _, err := i.products.Upsert(ctx, product); err != nil {
			return imported, fmt.Errorf("upsert product ref=%s: %w", product.Ref, err)
		}
		if price != nil && i.prices != nil {
			if err := i.prices.Upsert(ctx, product.Ref, *price); err != nil {
				return imported, fmt.Errorf("upsert price ref=%s: %w", product.Ref, err)
			}
		}
		imported++
	}

	i.logger.Printf("importer: imported=%d of %d", imported, len(raw))
	return imported, nil
}
