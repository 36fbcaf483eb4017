package handler

import (
	"net/http"

	"ezstore/internal/config"
	"ezstore/internal/middleware"
	"ezstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /me配下のHTTP（住所・支払い方法の保存）
type UserHandler struct {
	uc *usecase.UserUsecase
}

// DI
func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type SavePaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// /me を登録（要ログイン）
func (h *UserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/me")
	g.Use(middleware.AuthJWT(cfg))

	g.PUT("/shipping-address", h.saveAddress)
	g.PUT("/payment-method", h.savePaymentMethod)
}

func (h *UserHandler) saveAddress(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}

	var req usecase.SaveAddressInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid body"})
	}

	if err := h.uc.SaveShippingAddress(c.Request().Context(), userID, req); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "shipping address saved"})
}

func (h *UserHandler) savePaymentMethod(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
	}

	var req SavePaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid body"})
	}

	if err := h.uc.SavePaymentMethod(c.Request().Context(), userID, req.PaymentMethod); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "payment method saved"})
}
