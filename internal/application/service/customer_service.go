package service

import (
	"context"

	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/internal/domain/repository"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// ListCustomers lists all customers ordered by customer number
func (s *CustomerService) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	return s.customerRepo.List(ctx)
}
