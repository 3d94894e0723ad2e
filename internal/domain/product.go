package domain

import (
	"strings"
	"time"
)

// Product is a catalog row. Ref is the stable external reference printed on
// packaging and used by the pricing tables; ID is the internal database id.
type Product struct {
	ID               string    `json:"id"`
	Ref              string    `json:"ref"`
	NameEN           string    `json:"nameEn"`
	NameFR           string    `json:"nameFr,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	Size             string    `json:"size,omitempty"`
	Line             string    `json:"line,omitempty"`
	Types            []string  `json:"types,omitempty"`
	SkinType         string    `json:"skinType,omitempty"`
	StockQuantity    *string   `json:"stockQuantity,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// HasKnownStock reports whether the stock field carries a usable value.
// NULL or blank means the quantity was never recorded; such rows are kept out
// of the catalog. Zero stock is a known value and stays visible.
func (p Product) HasKnownStock() bool {
	return p.StockQuantity != nil && strings.TrimSpace(*p.StockQuantity) != ""
}
