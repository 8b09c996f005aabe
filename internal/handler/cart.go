package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/veloara/go-storefront-api/internal/dto"
	"github.com/veloara/go-storefront-api/internal/middleware"
	"github.com/veloara/go-storefront-api/internal/model"
	"github.com/veloara/go-storefront-api/internal/service"
)

type CartHandler struct {
	svc *service.CartService
	log *slog.Logger
}

func NewCartHandler(svc *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{svc: svc, log: log}
}

func toCartResponse(items []model.CartItem) []dto.CartItemResponse {
	resp := make([]dto.CartItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, dto.CartItemResponse{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return resp
}

func (h *CartHandler) GetCart(c *gin.Context) {
	items, err := h.svc.GetCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toCartResponse(items))
}

func (h *CartHandler) GetDetailedCart(c *gin.Context) {
	userID := middleware.GetUserID(c)
	res, err := h.svc.DetailedCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}

	if len(res.Orphaned) > 0 {
		h.log.Warn("cart entries without catalog match", "user_id", userID, "product_ids", res.Orphaned)
	}

	items := make([]dto.DetailedCartItemResponse, 0, len(res.Rows))
	for _, row := range res.Rows {
		product := row.Product
		items = append(items, dto.DetailedCartItemResponse{
			Product:   service.ToProductResponse(&product),
			Quantity:  row.Quantity,
			LineTotal: product.FinalPrice().Mul(decimal.NewFromInt(int64(row.Quantity))),
		})
	}
	c.JSON(http.StatusOK, dto.DetailedCartResponse{Items: items, Total: res.Total, Orphaned: res.Orphaned})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	items, err := h.svc.AddItem(c.Request.Context(), middleware.GetUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusBadRequest, errBody(kindValidation, "product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toCartResponse(items))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	items, err := h.svc.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, errBody(kindValidation, "quantity must be at least 1"))
		case errors.Is(err, service.ErrCartItemNotFound):
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "item not found in cart"))
		default:
			c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		}
		return
	}
	c.JSON(http.StatusOK, toCartResponse(items))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, "invalid product ID"))
		return
	}

	items, err := h.svc.RemoveItem(c.Request.Context(), middleware.GetUserID(c), productID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "item not found in cart"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toCartResponse(items))
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, dto.ClearCartResponse{Message: "Cart cleared", Cart: []dto.CartItemResponse{}})
}

func (h *CartHandler) Dedupe(c *gin.Context) {
	items, err := h.svc.Dedupe(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toCartResponse(items))
}
