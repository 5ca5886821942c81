// File: internal/handler/auth/profile.go
package auth

import (
	"net/http"

	"auth-app/internal/api"
	"auth-app/internal/middleware"

	"github.com/labstack/echo/v4"
)

// ProfileHandler 取得當前使用者資料（需通過 RequireAuth）
// @Summary     取得個人資料
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.HTTPError
// @Failure     404 {object} api.HTTPError
// @Failure     500 {object} api.HTTPError
// @Security    ApiKeyAuth
// @Router      /auth/profile [get]
func ProfileHandler(svc Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
		}

		p, err := svc.GetProfile(c.Request().Context(), userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(*p))
	}
}
