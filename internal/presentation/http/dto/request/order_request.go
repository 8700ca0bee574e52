package request

// UpdateOrderStatusRequest represents a status change of an order
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
