package entity

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Quantity keys in precedence order. Older app builds wrote "qty".
const (
	quantityKey       = "quantity"
	legacyQuantityKey = "qty"
)

// QuantitySource records which field a line item's quantity was read from.
type QuantitySource int

const (
	QuantityDefault QuantitySource = iota
	QuantityPrimary
	QuantityLegacy
)

func (s QuantitySource) String() string {
	switch s {
	case QuantityPrimary:
		return quantityKey
	case QuantityLegacy:
		return legacyQuantityKey
	default:
		return "default"
	}
}

// RawOrderItem is one element of the stored items array, before normalization.
type RawOrderItem map[string]any

// OrderItem is a normalized line item. Price is 0 when the stored value was missing or
// not numeric; Quantity has been resolved through ResolveQuantity.
type OrderItem struct {
	Name           string         `json:"name"`
	Unit           string         `json:"unit"`
	Price          float64        `json:"price"`
	Quantity       float64        `json:"quantity"`
	QuantitySource QuantitySource `json:"-"`
}

// ResolveQuantity reads the quantity field, then the legacy qty field, and
// falls back to 0. It never fails.
func ResolveQuantity(item RawOrderItem) float64 {
	q, _ := resolveQuantity(item)
	return q
}

func resolveQuantity(item RawOrderItem) (float64, QuantitySource) {
	if q, ok := toNumber(item[quantityKey]); ok {
		return q, QuantityPrimary
	}
	if q, ok := toNumber(item[legacyQuantityKey]); ok {
		return q, QuantityLegacy
	}
	return 0, QuantityDefault
}

// NormalizeItem converts a raw stored item into its canonical form.
func NormalizeItem(item RawOrderItem) OrderItem {
	price, _ := toNumber(item["price"])
	qty, source := resolveQuantity(item)
	return OrderItem{
		Name:           toText(item["name"]),
		Unit:           toText(item["unit"]),
		Price:          price,
		Quantity:       qty,
		QuantitySource: source,
	}
}

// NormalizeItems decodes the stored items column. Anything that is not a JSON array
// yields an empty slice; array elements that are not objects become empty items so
// positions stay aligned with the stored array.
func NormalizeItems(raw []byte) []OrderItem {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []OrderItem{}
	}

	items := make([]OrderItem, 0, len(elems))
	for _, elem := range elems {
		var fields RawOrderItem
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			fields = RawOrderItem{}
		}
		items = append(items, NormalizeItem(fields))
	}
	return items
}

// toNumber accepts JSON numbers and numeric strings. Booleans, blanks, NaN and
// infinities are rejected.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		v = s
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toText(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}
