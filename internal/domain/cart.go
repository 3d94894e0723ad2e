package domain

import "time"

// ProductSnapshot is the display subset embedded in a cart item so the UI can
// render a line without re-fetching the product.
type ProductSnapshot struct {
	NameEN   string `json:"nameEn,omitempty"`
	NameFR   string `json:"nameFr,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Line     string `json:"line,omitempty"`
}

// CartItem is one line of a cart, unique by ProductRef.
type CartItem struct {
	ProductRef string           `json:"product_id"`
	Quantity   int              `json:"quantity"`
	UnitPrice  float64          `json:"unit_price"`
	TotalPrice float64          `json:"total_price"`
	UnitType   string           `json:"unit_type,omitempty"`
	Notes      string           `json:"notes,omitempty"`
	Snapshot   *ProductSnapshot `json:"product,omitempty"`
}

// Cart holds the session's line items plus derived totals. Totals are always
// recomputed from the items, never adjusted incrementally.
type Cart struct {
	Items       []CartItem `json:"items"`
	Subtotal    float64    `json:"subtotal"`
	Total       float64    `json:"total"`
	ItemCount   int        `json:"itemCount"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// Recompute rebuilds subtotal, total and itemCount from the current items.
// Total is a composition point for tax/shipping and currently passes through.
func (c *Cart) Recompute() {
	var subtotal float64
	var count int
	for i := range c.Items {
		c.Items[i].TotalPrice = c.Items[i].UnitPrice * float64(c.Items[i].Quantity)
		subtotal += c.Items[i].TotalPrice
		count += c.Items[i].Quantity
	}
	c.Subtotal = subtotal
	c.Total = subtotal
	c.ItemCount = count
}

// Find returns a pointer to the item with the given ref, or nil.
func (c *Cart) Find(ref string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductRef == ref {
			return &c.Items[i]
		}
	}
	return nil
}
