package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cactus-admin-api/internal/application/service"
	"github.com/sangkips/cactus-admin-api/internal/domain/enum"
	"github.com/sangkips/cactus-admin-api/internal/domain/repository"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cactus-admin-api/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders, newest first
// @Summary List orders
// @Tags orders
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param search query string false "Customer number or name"
// @Param status query string false "Order status"
// @Success 200 {object} response.APIResponse
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search: c.Query("search"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := enum.ParseOrderStatus(statusStr)
		if err != nil {
			response.BadRequest(c, "Invalid status filter")
			return
		}
		params.Status = &status
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", response.NewOrderPage(result))
}

// Get handles getting a single order
// @Summary Get order
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	details, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", response.NewOrderResponse(details))
}

// UpdateStatus handles changing an order's status
// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body request.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated", gin.H{
		"id":           order.ID,
		"status":       order.Status.String(),
		"status_label": order.Status.Label(),
	})
}

// Statuses lists the selectable order statuses
// @Summary List order statuses
// @Tags orders
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /orders/statuses [get]
func (h *OrderHandler) Statuses(c *gin.Context) {
	out := make([]gin.H, 0, len(enum.OrderStatuses))
	for _, s := range enum.OrderStatuses {
		out = append(out, gin.H{"value": s.String(), "label": s.Label()})
	}
	response.OK(c, "Order statuses retrieved", out)
}
