package repository

import (
	"context"

	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/internal/domain/enum"
	"github.com/sangkips/cactus-admin-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations.
// GetByID returns (nil, nil) when the order does not exist.
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id int64, status enum.OrderStatus) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
}
