package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCartCookie   = "session_cart_id"
	CtxSessionCartIDKey = "session_cart_id" // string
)

const sessionCartTTL = 30 * 24 * time.Hour

// SessionCart はゲストカート識別用のCookieを配る。
// 無ければuuidを発行してセットし、以後のリクエストで同じカートに辿り着けるようにする。
func SessionCart() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sessionID string

			cookie, err := c.Cookie(SessionCartCookie)
			if err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			} else {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCartCookie,
					Value:    sessionID,
					Path:     "/",
					Expires:  time.Now().Add(sessionCartTTL),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxSessionCartIDKey, sessionID)
			return next(c)
		}
	}
}
