package repository

import (
	"context"
	"errors"

	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	domainRepo "github.com/sangkips/cactus-admin-api/internal/domain/repository"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByNumber(ctx context.Context, customerNumber string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "customer_number = ?", customerNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByNumbers(ctx context.Context, customerNumbers []string) ([]entity.Customer, error) {
	var customers []entity.Customer
	if len(customerNumbers) == 0 {
		return customers, nil
	}
	err := r.db.WithContext(ctx).
		Where("customer_number IN ?", customerNumbers).
		Find(&customers).Error
	return customers, err
}

func (r *customerRepository) List(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := r.db.WithContext(ctx).
		Order("customer_number ASC").
		Find(&customers).Error
	return customers, err
}
