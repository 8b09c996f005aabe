package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veloara/go-storefront-api/internal/dto"
	"github.com/veloara/go-storefront-api/internal/middleware"
	"github.com/veloara/go-storefront-api/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(kindValidation, err.Error()))
		return
	}

	resp, err := h.svc.GoogleLogin(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.svc.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, errBody(kindNotFound, "user not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errBody(kindInternal, "internal server error"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
