// File: internal/handler/auth/register.go
package auth

import (
	"net/http"

	"auth-app/internal/api"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 建立帳號並直接回傳令牌
// @Summary     註冊使用者
// @Description 以 username、email、password 建立帳號，成功時回傳存取令牌與公開的使用者欄位
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.AuthResponse
// @Failure     400  {object} api.HTTPError
// @Failure     500  {object} api.HTTPError
// @Router      /auth/register [post]
func RegisterHandler(svc Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if he := bindAndValidate(c, &req); he != nil {
			return c.JSON(http.StatusBadRequest, he)
		}
		if passwordTooLong(req.Password) {
			return c.JSON(http.StatusBadRequest, api.HTTPError{Message: msgPasswordLong})
		}

		res, err := svc.Register(c.Request().Context(), req.Username, req.Email, req.Password)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, authResponse(msgRegistered, res))
	}
}
