package entity

import "strings"

// Customer is a wholesale customer, keyed by the customer number printed on orders.
type Customer struct {
	CustomerNumber string  `gorm:"primaryKey;size:64" json:"customer_number"`
	Name           *string `gorm:"size:255" json:"name"`
	OwnerName      *string `gorm:"size:255" json:"owner_name"`
	Street         *string `gorm:"size:255" json:"street"`
	Zip            *string `gorm:"size:16" json:"zip"`
	City           *string `gorm:"size:128" json:"city"`
	Phone          *string `gorm:"size:64" json:"phone"`
	Email          *string `gorm:"size:255" json:"email"`
	IsActive       *bool   `json:"is_active"`
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// Field returns the trimmed value of an optional column.
func Field(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
