package enum

import (
	"database/sql/driver"
	"fmt"
)

// OrderStatus is the lifecycle state of an order as stored in the orders table.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "neu"
	OrderStatusProcessing OrderStatus = "in_bearbeitung"
	OrderStatusInTransit  OrderStatus = "unterwegs"
	OrderStatusDelivered  OrderStatus = "geliefert"
	OrderStatusCancelled  OrderStatus = "storniert"
)

// OrderStatuses lists every status in workflow order.
var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusProcessing,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusNew:        "Neu",
	OrderStatusProcessing: "In Bearbeitung",
	OrderStatusInTransit:  "Unterwegs",
	OrderStatusDelivered:  "Geliefert",
	OrderStatusCancelled:  "Storniert",
}

func (s OrderStatus) String() string {
	return string(s)
}

// Label returns the admin panel display text, or the raw value for unknown statuses.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// ParseOrderStatus validates a status coming from a request.
func ParseOrderStatus(value string) (OrderStatus, error) {
	s := OrderStatus(value)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", value)
	}
	return s, nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusNew
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", value)
	}
	return nil
}
