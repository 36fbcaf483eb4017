package handler

import (
	"errors"
	"net/http"

	"ezstore/internal/middleware"
	repo "ezstore/internal/repository"
	"ezstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	//注文確定の前提が欠けているときに誘導する画面
	RedirectTo string `json:"redirect_to,omitempty"`
}

// 業務エラー→HTTPステータスの変換を1箇所に集める
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	//決済プロバイダ由来はメッセージそのまま502
	var ge *usecase.GatewayError
	if errors.As(err, &ge) {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Message: ge.Error()})
	}

	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, usecase.ErrNoSession),
		errors.Is(err, usecase.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, usecase.ErrUserInactive):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, usecase.ErrProductNotFound),
		errors.Is(err, usecase.ErrCartNotFound),
		errors.Is(err, usecase.ErrItemNotFound),
		errors.Is(err, usecase.ErrOrderNotFound),
		errors.Is(err, repo.ErrUserNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, usecase.ErrInsufficientStock),
		errors.Is(err, usecase.ErrAlreadyPaid),
		errors.Is(err, usecase.ErrEmailTaken):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, usecase.ErrEmptyCart),
		errors.Is(err, usecase.ErrNoShippingAddress),
		errors.Is(err, usecase.ErrNoPaymentMethod),
		errors.Is(err, usecase.ErrPaymentValidation),
		errors.Is(err, usecase.ErrInvalidSort),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidPaymentMethod):
		status = http.StatusBadRequest
		message = err.Error()
	}

	return c.JSON(status, ErrorResponse{
		Message:    message,
		RedirectTo: usecase.RedirectTarget(err),
	})
}

// contextからログインユーザーIDを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func isAdminFromContext(c echo.Context) bool {
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return role == "ADMIN"
}

// ownerKeyFromContext はカートの持ち主を決める。
// ログインしていればuser_id、していなければsession cookieのID。
func ownerKeyFromContext(c echo.Context) repo.OwnerKey {
	owner := repo.OwnerKey{}

	if id, ok := getUserIDFromContext(c); ok {
		owner.UserID = &id
	}
	if sid, ok := c.Get(middleware.CtxSessionCartIDKey).(string); ok {
		owner.SessionCartID = sid
	}

	return owner
}
