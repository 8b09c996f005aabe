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

type AddressHandler struct {
	svc *service.AddressService
}

func NewAddressHandler(svc *service.AddressService) *AddressHandler {
	return &AddressHandler{svc: svc}
}

func toAddressResponse(a *model.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:           a.ID,
		FullName:     a.FullName,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
		CreatedAt:    a.CreatedAt,
	}
}

func (h *AddressHandler) List(c *gin.Context) {
	addresses, err := h.svc.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	resp := make([]dto.AddressResponse, 0, len(addresses))
	for i := range addresses {
		resp = append(resp, toAddressResponse(&addresses[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AddressHandler) Create(c *gin.Context) {
	var req dto.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	address, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusCreated, toAddressResponse(address))
}

func (h *AddressHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, "invalid address ID"))
		return
	}

	var req dto.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	address, err := h.svc.Update(c.Request.Context(), middleware.GetUserID(c), id, req)
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "address not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, toAddressResponse(address))
}

func (h *AddressHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, "invalid address ID"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "address not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
