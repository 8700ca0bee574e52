package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cactus-admin-api/internal/application/service"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers
// @Summary List customers
// @Tags customers
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customers retrieved successfully", response.NewCustomerList(customers))
}
