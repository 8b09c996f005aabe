package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veloara/go-storefront-api/internal/dto"
	"github.com/veloara/go-storefront-api/internal/middleware"
	"github.com/veloara/go-storefront-api/internal/model"
	"github.com/veloara/go-storefront-api/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrNoItems) {
			c.JSON(http.StatusBadRequest, errBody(kindValidation, "order has no items"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.orderService.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orderService.ListAll(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			c.JSON(http.StatusForbidden, errBody(kindForbidden, "access denied"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, "invalid order ID"))
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), middleware.GetUserID(c), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			c.JSON(http.StatusForbidden, errBody(kindForbidden, "access denied"))
		case errors.Is(err, service.ErrUnknownStatus):
			c.JSON(http.StatusBadRequest, errBody(kindValidation, "unknown order status"))
		case errors.Is(err, service.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, errBody(kindValidation, "status transition not allowed"))
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "order not found"))
		default:
			c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		}
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return resp
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}
	addr := order.ShippingAddress
	return dto.OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		Items:       items,
		TotalAmount: order.TotalAmount,
		ShippingAddress: dto.ShippingAddressRequest{
			FullName:     addr.FullName,
			Phone:        addr.Phone,
			AddressLine1: addr.AddressLine1,
			AddressLine2: addr.AddressLine2,
			City:         addr.City,
			State:        addr.State,
			Pincode:      addr.Pincode,
		},
		Status:    order.Status,
		OrderDate: order.OrderDate,
	}
}
