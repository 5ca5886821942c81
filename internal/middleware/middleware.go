package middleware

import (
	"net/http"
	"strings"

	"auth-app/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserKey = "user"
	// TokenHeader 客戶端放置原始 JWT 的 header
	TokenHeader = "x-auth-token"
)

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// TokenVerifier 由 *service.TokenManager 實作
type TokenVerifier interface {
	Verify(token string) (*service.Claims, error)
}

// extractToken 優先讀 x-auth-token，其次才是 Authorization: Bearer
func extractToken(c echo.Context) string {
	h := c.Request().Header
	if tok := strings.TrimSpace(h.Get(TokenHeader)); tok != "" {
		return tok
	}
	parts := strings.SplitN(h.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth 驗證令牌後把 *service.Claims 放進 context；失敗時 next 不會被呼叫
func RequireAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := extractToken(c)
			if tok == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgNoToken)
			}
			claims, err := v.Verify(tok)
			if err != nil {
				c.Logger().Debugf("reject token: %v", err)
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// UserID 取出 RequireAuth 放入的使用者 ID
func UserID(c echo.Context) (int, bool) {
	claims, ok := c.Get(ContextUserKey).(*service.Claims)
	if !ok || claims == nil {
		return 0, false
	}
	return claims.ID, true
}
