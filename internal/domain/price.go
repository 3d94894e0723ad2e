package domain

import "time"

// PriceInfo is one price row keyed by product ref. Price data lives apart
// from the catalog so it can be withheld from callers without entitlement.
type PriceInfo struct {
	UnitPrice     float64   `json:"unitPrice"`
	Currency      string    `json:"currency"`
	DiscountPrice *float64  `json:"discountPrice,omitempty"`
	PriceTier     string    `json:"priceTier,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
