package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/veloara/go-storefront-api/internal/dto"
	"github.com/veloara/go-storefront-api/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func parseProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, "invalid product ID"))
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) List(c *gin.Context) {
	items, err := h.productService.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) Search(c *gin.Context) {
	var req dto.SearchProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	items, err := h.productService.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrBadPriceFilter) {
			c.JSON(http.StatusBadRequest, errBody(kindValidation, "invalid price filter"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	resp, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	resp, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	resp, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.Status(http.StatusNoContent)
}
