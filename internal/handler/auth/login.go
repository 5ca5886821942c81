// File: internal/handler/auth/login.go
package auth

import (
	"net/http"

	"auth-app/internal/api"

	"github.com/labstack/echo/v4"
)

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳存取令牌；帳號不存在與密碼錯誤回傳相同訊息
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.AuthResponse
// @Failure     400  {object} api.HTTPError
// @Failure     500  {object} api.HTTPError
// @Router      /auth/login [post]
func LoginHandler(svc Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if he := bindAndValidate(c, &req); he != nil {
			return c.JSON(http.StatusBadRequest, he)
		}
		// 已儲存的密碼不可能超過上限，直接視為帳密錯誤
		if passwordTooLong(req.Password) {
			return c.JSON(http.StatusBadRequest, api.HTTPError{Message: msgInvalidCreds})
		}

		res, err := svc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, authResponse(msgLoggedIn, res))
	}
}
