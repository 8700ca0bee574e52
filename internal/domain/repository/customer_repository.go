package repository

import (
	"context"

	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
)

// CustomerRepository defines the interface for customer data operations.
// GetByNumber returns (nil, nil) when no customer has that number.
type CustomerRepository interface {
	GetByNumber(ctx context.Context, customerNumber string) (*entity.Customer, error)
	GetByNumbers(ctx context.Context, customerNumbers []string) ([]entity.Customer, error)
	List(ctx context.Context) ([]entity.Customer, error)
}
