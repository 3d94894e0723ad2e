package importer

import (
	"context"
	"strings"
	"testing"

	"lumera/internal/domain"
)

type captureProducts struct {
	products []domain.Product
}

func (c *captureProducts) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	c.products = append(c.products, p)
	return &p, nil
}

type capturePrices struct {
	prices map[string]domain.PriceInfo
}

func (c *capturePrices) Upsert(_ context.Context, ref string, info domain.PriceInfo) error {
	if c.prices == nil {
		c.prices = make(map[string]domain.PriceInfo)
	}
	c.prices[ref] = info
	return nil
}

func TestNormalizeRecordAliases(t *testing.T) {
	raw := map[string]interface{}{
		"productName":  "Hydra Creme",
		"nom":          "Crème Hydra",
		"reference":    "LUM-010",
		"mainImage":    "https://cdn.example/hydra.jpg",
		"productLine":  "hydra",
		"skinType":     "dry",
		"product_type": "moisturizer",
		"unitType":     "50ml jar",
		"stock":        float64(12),
		"price":        24.9,
		"promo_price":  19.9,
	}

	p, price := normalizeRecord(raw)

	if p.Ref != "LUM-010" || p.NameEN != "Hydra Creme" || p.NameFR != "Crème Hydra" {
		t.Fatalf("aliases not normalized: %+v", p)
	}
	if p.Line != "hydra" || p.SkinType != "dry" || p.Size != "50ml jar" {
		t.Fatalf("attributes not normalized: %+v", p)
	}
	if len(p.Types) != 1 || p.Types[0] != "moisturizer" {
		t.Fatalf("types not normalized: %+v", p.Types)
	}
	if p.StockQuantity == nil || *p.StockQuantity != "12" {
		t.Fatalf("stock not normalized: %+v", p.StockQuantity)
	}
	if price == nil || price.UnitPrice != 24.9 || price.DiscountPrice == nil || *price.DiscountPrice != 19.9 {
		t.Fatalf("price not normalized: %+v", price)
	}
	if price.Currency != "EUR" {
		t.Fatalf("expected default currency, got %s", price.Currency)
	}
}

func TestNormalizeRecordCanonicalNamesWin(t *testing.T) {
	raw := map[string]interface{}{
		"ref":     "LUM-001",
		"sku":     "IGNORED",
		"name_en": "Canonical",
		"name":    "Legacy",
	}
	p, _ := normalizeRecord(raw)
	if p.Ref != "LUM-001" || p.NameEN != "Canonical" {
		t.Fatalf("canonical fields should win: %+v", p)
	}
}

func TestNormalizeRecordZeroStockKept(t *testing.T) {
	p, _ := normalizeRecord(map[string]interface{}{"ref": "A", "name": "N", "stock_quantity": float64(0)})
	if p.StockQuantity == nil || *p.StockQuantity != "0" {
		t.Fatalf("zero stock must survive as a known value: %+v", p.StockQuantity)
	}
	if !p.HasKnownStock() {
		t.Fatalf("zero stock counts as known")
	}

	p, _ = normalizeRecord(map[string]interface{}{"ref": "A", "name": "N"})
	if p.HasKnownStock() {
		t.Fatalf("absent stock is unknown")
	}
}

func TestRunImportsFeed(t *testing.T) {
	feed := `[
		{"ref":"LUM-001","name":"Cleanser","line":"pure","stock":"8","price":12.5},
		{"reference":"LUM-002","productName":"Toner","stockQuantity":0},
		{"name":"No Ref Product"},
		{"ref":"LUM-003"}
	]`
	products := &captureProducts{}
	prices := &capturePrices{}
	imp := NewJSONImporter(strings.NewReader(feed), products, prices, nil)

	n, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported, got %d", n)
	}
	if len(products.products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products.products))
	}
	if _, ok := prices.prices["LUM-001"]; !ok {
		t.Fatalf("expected price row for LUM-001")
	}
	if _, ok := prices.prices["LUM-002"]; ok {
		t.Fatalf("LUM-002 has no price data")
	}
}

func TestRunRejectsMalformedFeed(t *testing.T) {
	imp := NewJSONImporter(strings.NewReader(`{not json`), &captureProducts{}, nil, nil)
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
