package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veloara/go-storefront-api/internal/dto"
	"github.com/veloara/go-storefront-api/internal/middleware"
	"github.com/veloara/go-storefront-api/internal/model"
	"github.com/veloara/go-storefront-api/internal/service"
)

type WishlistHandler struct {
	svc *service.WishlistService
}

func NewWishlistHandler(svc *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{svc: svc}
}

func toWishlistResponse(items []model.WishlistItem) []dto.WishlistItemResponse {
	resp := make([]dto.WishlistItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, dto.WishlistItemResponse{ProductID: item.ProductID, AddedAt: item.AddedAt})
	}
	return resp
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	items, err := h.svc.GetWishlist(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toWishlistResponse(items))
}

func (h *WishlistHandler) AddItem(c *gin.Context) {
	var req dto.AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	items, err := h.svc.AddItem(c.Request.Context(), middleware.GetUserID(c), req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusBadRequest, errBody(kindValidation, "product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toWishlistResponse(items))
}

func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, "invalid product ID"))
		return
	}

	items, err := h.svc.RemoveItem(c.Request.Context(), middleware.GetUserID(c), productID)
	if err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "item not found in wishlist"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toWishlistResponse(items))
}

func (h *WishlistHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, dto.ClearWishlistResponse{Message: "Wishlist cleared", Wishlist: []dto.WishlistItemResponse{}})
}
