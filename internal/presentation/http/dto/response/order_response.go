package response

import (
	"fmt"
	"time"

	"github.com/sangkips/cactus-admin-api/internal/application/service"
	"github.com/sangkips/cactus-admin-api/internal/document"
	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/pkg/format"
	"github.com/sangkips/cactus-admin-api/pkg/pagination"
)

// CustomerResponse is a customer as shown in the admin panel
type CustomerResponse struct {
	CustomerNumber string  `json:"customer_number"`
	Name           *string `json:"name"`
	OwnerName      *string `json:"owner_name"`
	Street         *string `json:"street"`
	Zip            *string `json:"zip"`
	City           *string `json:"city"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	IsActive       *bool   `json:"is_active"`
}

// OrderItemResponse is a normalized line item
type OrderItemResponse struct {
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// OrderResponse is an order with its customer and computed totals
type OrderResponse struct {
	ID              int64               `json:"id"`
	CustomerNumber  string              `json:"customer_number"`
	Customer        *CustomerResponse   `json:"customer"`
	Items           []OrderItemResponse `json:"items"`
	TotalPrice      *float64            `json:"total_price"`
	TotalItems      *int                `json:"total_items"`
	Subtotal        float64             `json:"subtotal"`
	SubtotalLabel   string              `json:"subtotal_label"`
	Status          string              `json:"status"`
	StatusLabel     string              `json:"status_label"`
	PaymentMethod   *string             `json:"payment_method"`
	PaymentLabel    string              `json:"payment_label"`
	DeliveryNote    *string             `json:"delivery_note"`
	CreatedAt       string              `json:"created_at"`
	DeliveryNoteURL string              `json:"lieferschein_url"`
}

// LoginResponse carries the issued admin token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewCustomerResponse maps a customer entity; nil stays nil.
func NewCustomerResponse(c *entity.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		CustomerNumber: c.CustomerNumber,
		Name:           c.Name,
		OwnerName:      c.OwnerName,
		Street:         c.Street,
		Zip:            c.Zip,
		City:           c.City,
		Phone:          c.Phone,
		Email:          c.Email,
		IsActive:       c.IsActive,
	}
}

// NewCustomerList maps a list of customers
func NewCustomerList(customers []entity.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *NewCustomerResponse(&customers[i]))
	}
	return out
}

// NewOrderResponse maps an order with its details
func NewOrderResponse(d *service.OrderDetails) OrderResponse {
	o := d.Order
	items := make([]OrderItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, OrderItemResponse{
			Name:      it.Name,
			Unit:      it.Unit,
			Price:     it.Price,
			Quantity:  it.Quantity,
			LineTotal: document.LineTotal(it),
		})
	}

	subtotal := document.Subtotal(&o, d.Items)
	return OrderResponse{
		ID:              o.ID,
		CustomerNumber:  o.CustomerNumber,
		Customer:        NewCustomerResponse(d.Customer),
		Items:           items,
		TotalPrice:      o.TotalPrice,
		TotalItems:      o.TotalItems,
		Subtotal:        subtotal,
		SubtotalLabel:   format.Currency(subtotal),
		Status:          o.Status.String(),
		StatusLabel:     o.Status.Label(),
		PaymentMethod:   o.PaymentMethod,
		PaymentLabel:    format.PaymentLabel(o.PaymentMethodValue()),
		DeliveryNote:    o.DeliveryNote,
		CreatedAt:       o.CreatedAt,
		DeliveryNoteURL: fmt.Sprintf("/api/v1/orders/%d/lieferschein", o.ID),
	}
}

// NewOrderPage maps a page of orders
func NewOrderPage(res *pagination.PaginatedResult[service.OrderDetails]) *pagination.PaginatedResult[OrderResponse] {
	items := make([]OrderResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, NewOrderResponse(&res.Items[i]))
	}
	return pagination.NewPaginatedResult(items, res.Pagination)
}
