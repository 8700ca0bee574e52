package document

import (
	"math"

	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
)

// LineTotal is unit price times resolved quantity. Nothing is rounded here.
func LineTotal(item entity.OrderItem) float64 {
	return item.Price * item.Quantity
}

// Subtotal returns the stored order total when it is a finite number. Otherwise it
// sums the line totals in item order.
func Subtotal(order *entity.Order, items []entity.OrderItem) float64 {
	if order != nil && order.TotalPrice != nil {
		if v := *order.TotalPrice; !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	}

	var sum float64
	for _, item := range items {
		sum += LineTotal(item)
	}
	return sum
}
