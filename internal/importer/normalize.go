package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lumera/internal/domain"
)

// Legacy feeds disagree on field names; every known alias for a concept maps
// here, once, into the canonical product shape. Order matters: the first
// alias with a non-empty value wins.
var (
	refAliases      = []string{"ref", "reference", "product_ref", "sku", "code"}
	nameENAliases   = []string{"name_en", "nameEn", "name", "productName", "title"}
	nameFRAliases   = []string{"name_fr", "nameFr", "nom"}
	descAliases     = []string{"short_description", "shortDescription", "description", "desc"}
	imageAliases    = []string{"image_url", "imageUrl", "image", "mainImage", "main_image"}
	sizeAliases     = []string{"size", "unit_type", "unitType", "packaging"}
	lineAliases     = []string{"line", "product_line", "productLine", "collection"}
	skinTypeAliases = []string{"skin_type", "skinType"}
	stockAliases    = []string{"stock_quantity", "stockQuantity", "stock", "qty_in_stock"}
	typeAliases     = []string{"types", "product_types", "productTypes", "type", "product_type", "productType"}
	priceAliases    = []string{"unit_price", "unitPrice", "price"}
	discountAliases = []string{"discount_price", "discountPrice", "promo_price"}
	currencyAliases = []string{"currency", "currency_code", "currencyCode"}
	tierAliases     = []string{"price_tier", "priceTier", "tier"}
)

// normalizeRecord maps one raw feed object into a canonical product and,
// when the record carries price data, a price row.
func normalizeRecord(raw map[string]interface{}) (domain.Product, *domain.PriceInfo) {
	p := domain.Product{
		Ref:              firstString(raw, refAliases),
		NameEN:           firstString(raw, nameENAliases),
		NameFR:           firstString(raw, nameFRAliases),
		ShortDescription: firstString(raw, descAliases),
		ImageURL:         firstString(raw, imageAliases),
		Size:             firstString(raw, sizeAliases),
		Line:             firstString(raw, lineAliases),
		SkinType:         firstString(raw, skinTypeAliases),
		Types:            firstStringList(raw, typeAliases),
	}

	// Stock stays textual: blank and absent both mean "unknown", which the
	// catalog excludes, while "0" is a real value that stays visible.
	for _, key := range stockAliases {
		if v, ok := raw[key]; ok && v != nil {
			s := stringify(v)
			p.StockQuantity = &s
			break
		}
	}

	var price *domain.PriceInfo
	if v, ok := firstNumber(raw, priceAliases); ok {
		info := domain.PriceInfo{
			UnitPrice: v,
			Currency:  firstString(raw, currencyAliases),
			PriceTier: firstString(raw, tierAliases),
			UpdatedAt: time.Now().UTC(),
		}
		if info.Currency == "" {
			info.Currency = "EUR"
		}
		if d, ok := firstNumber(raw, discountAliases); ok {
			info.DiscountPrice = &d
		}
		price = &info
	}

	return p, price
}

func firstString(raw map[string]interface{}, aliases []string) string {
	for _, key := range aliases {
		if v, ok := raw[key]; ok {
			if s := strings.TrimSpace(stringify(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstStringList(raw map[string]interface{}, aliases []string) []string {
	for _, key := range aliases {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch list := v.(type) {
		case []interface{}:
			var out []string
			for _, item := range list {
				if s := strings.TrimSpace(stringify(item)); s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case []string:
			if len(list) > 0 {
				return list
			}
		default:
			if s := strings.TrimSpace(stringify(v)); s != "" {
				return []string{s}
			}
		}
	}
	return nil
}

func firstNumber(raw map[string]interface{}, aliases []string) (float64, bool) {
	for _, key := range aliases {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers decode as float64; stock counts are integral.
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
