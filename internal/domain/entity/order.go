package entity

import (
	"strings"

	"github.com/sangkips/cactus-admin-api/internal/domain/enum"
	"gorm.io/datatypes"
)

// Order represents a customer order placed through the app.
// Items is kept as raw JSON because upstream writers are not consistent about its shape;
// use LineItems to read it.
type Order struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerNumber string           `gorm:"size:64;not null;index" json:"customer_number"`
	Items          datatypes.JSON   `gorm:"type:jsonb" json:"items"`
	TotalPrice     *float64         `gorm:"type:numeric(12,2)" json:"total_price"`
	TotalItems     *int             `json:"total_items"`
	Status         enum.OrderStatus `gorm:"size:32;not null;default:neu;index" json:"status"`
	PaymentMethod  *string          `gorm:"size:32" json:"payment_method"`
	DeliveryNote   *string          `gorm:"type:text" json:"delivery_note"`
	CreatedAt      string           `gorm:"type:timestamptz;not null;default:now();index" json:"created_at"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// LineItems returns the normalized line items in stored order.
func (o *Order) LineItems() []OrderItem {
	return NormalizeItems(o.Items)
}

// PaymentMethodValue returns the payment method or "" when unset.
func (o *Order) PaymentMethodValue() string {
	if o.PaymentMethod == nil {
		return ""
	}
	return *o.PaymentMethod
}

// DeliveryInstructions returns the delivery note when it has visible content.
func (o *Order) DeliveryInstructions() (string, bool) {
	if o.DeliveryNote == nil || strings.TrimSpace(*o.DeliveryNote) == "" {
		return "", false
	}
	return *o.DeliveryNote, true
}
