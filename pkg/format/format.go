// Package format renders raw values in the delivery note's display conventions
// (fixed de-DE locale). Nothing here depends on the process locale.
package format

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Placeholder is shown wherever a scalar value is missing.
const Placeholder = "–"

const currencySuffix = " €"

// Payment methods as stored on orders.
const (
	PaymentCash    = "bar"
	PaymentInvoice = "rechnung"
)

// timestampLayouts are tried in order when parsing stored timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Currency formats value with two decimals, a decimal comma and a trailing euro sign.
// nil, non-numeric, NaN and infinite values are treated as 0.
func Currency(value any) string {
	v, ok := number(value)
	if !ok {
		v = 0
	}
	fixed := decimal.NewFromFloat(v).StringFixed(2)
	if fixed == "-0.00" {
		fixed = "0.00"
	}
	return strings.Replace(fixed, ".", ",", 1) + currencySuffix
}

func number(value any) (float64, bool) {
	var v float64
	switch n := value.(type) {
	case float64:
		v = n
	case *float64:
		if n == nil {
			return 0, false
		}
		v = *n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case decimal.Decimal:
		v = n.InexactFloat64()
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseTimestamp parses the ISO-like timestamps the store emits.
func ParseTimestamp(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders value as D.M.YYYY in loc. Unparseable input is returned unchanged,
// blank input yields the placeholder.
func Date(value string, loc *time.Location) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	t, ok := ParseTimestamp(value)
	if !ok {
		return value
	}
	return t.In(location(loc)).Format("2.1.2006")
}

// DateTime renders value as DD.MM.YY, HH:MM in loc, with the same fallbacks as Date.
func DateTime(value string, loc *time.Location) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	t, ok := ParseTimestamp(value)
	if !ok {
		return value
	}
	return t.In(location(loc)).Format("02.01.06, 15:04")
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// PaymentLabel maps a stored payment method to its display text.
func PaymentLabel(method string) string {
	switch strings.TrimSpace(method) {
	case PaymentCash:
		return "Barzahlung"
	case PaymentInvoice:
		return "Auf Rechnung"
	default:
		return Placeholder
	}
}
