package service

import (
	"context"
	"strings"

	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/internal/domain/enum"
	"github.com/sangkips/cactus-admin-api/internal/domain/repository"
	"github.com/sangkips/cactus-admin-api/pkg/apperror"
	"github.com/sangkips/cactus-admin-api/pkg/pagination"
)

// OrderService handles order-related operations
type OrderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository, customerRepo repository.CustomerRepository) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
	}
}

// OrderDetails is an order with its normalized items and, when known, its customer.
type OrderDetails struct {
	Order    entity.Order
	Items    []entity.OrderItem
	Customer *entity.Customer
}

// ListOrders lists orders newest first with their customers attached.
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[OrderDetails], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	customers, err := s.customersFor(ctx, orders)
	if err != nil {
		return nil, err
	}

	details := make([]OrderDetails, 0, len(orders))
	for _, o := range orders {
		details = append(details, OrderDetails{
			Order:    o,
			Items:    o.LineItems(),
			Customer: customers[strings.TrimSpace(o.CustomerNumber)],
		})
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(details, pag), nil
}

func (s *OrderService) customersFor(ctx context.Context, orders []entity.Order) (map[string]*entity.Customer, error) {
	seen := make(map[string]bool)
	var numbers []string
	for _, o := range orders {
		n := strings.TrimSpace(o.CustomerNumber)
		if n != "" && !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}

	byNumber := make(map[string]*entity.Customer, len(numbers))
	if len(numbers) == 0 {
		return byNumber, nil
	}

	customers, err := s.customerRepo.GetByNumbers(ctx, numbers)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		byNumber[customers[i].CustomerNumber] = &customers[i]
	}
	return byNumber, nil
}

// GetOrder retrieves an order by its raw id
func (s *OrderService) GetOrder(ctx context.Context, rawID string) (*OrderDetails, error) {
	id, err := ParseOrderID(rawID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order not found")
	}

	details := &OrderDetails{Order: *order, Items: order.LineItems()}
	if n := strings.TrimSpace(order.CustomerNumber); n != "" {
		customer, err := s.customerRepo.GetByNumber(ctx, n)
		if err != nil {
			return nil, err
		}
		details.Customer = customer
	}
	return details, nil
}

// UpdateOrderStatus sets the status of an order. Setting the current status again
// is a no-op.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, rawID, rawStatus string) (*entity.Order, error) {
	id, err := ParseOrderID(rawID)
	if err != nil {
		return nil, err
	}
	status, err := enum.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, apperror.NewInvalidInputError(err.Error())
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order not found")
	}
	if order.Status == status {
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}
