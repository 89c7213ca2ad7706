package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/repository"
	"github.com/tablehive/backoffice/internal/transport/http/middleware"
	"github.com/tablehive/backoffice/internal/usecase"
)

// OrderHandler serves the back-office view of orders. Orders are created by
// the customer-facing channel, so only reads and status changes live here.
type OrderHandler struct {
	orders *usecase.OrderService
}

func NewOrderHandler(orders *usecase.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Get returns one order by ID.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "order not found"},
		}, http.StatusInternalServerError, "failed to load order")
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// List returns a page of orders.
func (h *OrderHandler) List(c *gin.Context) {
	result, err := h.orders.ListOrders(c.Request.Context(), parseListQuery(c))
	if err != nil {
		RespondWithMappedError(c, err, nil,
			http.StatusInternalServerError, "failed to list orders")
		return
	}

	data := make([]OrderResponse, 0, len(result.Orders))
	for _, order := range result.Orders {
		data = append(data, toOrderResponse(order))
	}

	c.JSON(http.StatusOK, ListResponse{
		Data:            data,
		RecordsFiltered: result.RecordsFiltered,
		RecordsTotal:    result.RecordsTotal,
	})
}

// UpdateStatus advances an order through its lifecycle.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status payload"))
		return
	}

	actor := middleware.CurrentUser(c)
	if err := h.orders.UpdateOrderStatus(c.Request.Context(), actor.ID, c.Param("orderId"), req.StatusID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Errors: []error{usecase.ErrUnknownStatus},
				Status: http.StatusBadRequest, Message: "unknown status"},
			{Errors: []error{repository.ErrNotFound},
				Status: http.StatusNotFound, Message: "order not found"},
		}, http.StatusInternalServerError, "failed to update order status")
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Message: "order status updated"})
}
