package repository

import (
	"testing"

	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=test dbname=test sslmode=disable",
		PreferSimpleProtocol: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestOrderScopes(t *testing.T) {
	db := dryRunDB(t)
	delivered := enum.OrderStatusDelivered

	tests := []struct {
		name    string
		search  string
		status  *enum.OrderStatus
		want    []string
		notWant []string
	}{
		{
			name:    "no_filters",
			notWant: []string{"JOIN", "WHERE"},
		},
		{
			name:   "search_joins_customers_and_escapes",
			search: "  Foo_% ",
			want: []string{
				"LEFT JOIN customers ON customers.customer_number = orders.customer_number",
				"LOWER(COALESCE(customers.name, '')) LIKE '%foo\\_\\%%'",
				"LOWER(COALESCE(orders.delivery_note, '')) LIKE",
			},
		},
		{
			name:    "status",
			status:  &delivered,
			want:    []string{"orders.status = 'geliefert'"},
			notWant: []string{"JOIN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				var orders []entity.Order
				return tx.Model(&entity.Order{}).
					Scopes(OrderSearchScope(tt.search), OrderStatusScope(tt.status)).
					Find(&orders)
			})

			for _, w := range tt.want {
				assert.Contains(t, sql, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, sql, w)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
