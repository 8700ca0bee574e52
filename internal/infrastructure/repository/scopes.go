package repository

import (
	"strings"

	"github.com/sangkips/cactus-admin-api/internal/domain/enum"
	"gorm.io/gorm"
)

// searchColumns are matched case-insensitively by OrderSearchScope.
var searchColumns = []string{
	"orders.customer_number",
	"orders.delivery_note",
	"customers.name",
	"customers.owner_name",
	"customers.phone",
	"customers.email",
	"customers.city",
	"customers.street",
}

// OrderSearchScope filters orders by free text over the order and its customer.
// A blank search returns the query unchanged.
func OrderSearchScope(search string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		s := strings.TrimSpace(search)
		if s == "" {
			return db
		}

		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		conds := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			conds[i] = "LOWER(COALESCE(" + col + ", '')) LIKE ?"
			args[i] = pattern
		}

		return db.
			Joins("LEFT JOIN customers ON customers.customer_number = orders.customer_number").
			Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// OrderStatusScope filters by exact status when one is given.
func OrderStatusScope(status *enum.OrderStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("orders.status = ?", *status)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
