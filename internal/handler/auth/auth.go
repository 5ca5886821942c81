// File: internal/handler/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"auth-app/internal/api"
	"auth-app/internal/model"
	"auth-app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	msgRegistered   = "User registered successfully"
	msgLoggedIn     = "Login successful"
	msgUserExists   = "User already exists"
	msgInvalidCreds = "Invalid credentials"
	msgUserNotFound = "User not found"
	msgServerError  = "Server error"
	msgTokenError   = "Error generating authentication token"
	msgBadRequest   = "Invalid request data"
	msgPasswordLong = "Password must be at most 72 bytes"
)

// Authenticator 由 *service.Authenticator 實作
type Authenticator interface {
	Register(ctx context.Context, username, email, password string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetProfile(ctx context.Context, userID int) (*model.Profile, error)
}

// bindAndValidate 先 Bind 再交給 go-playground/validator，失敗時回傳 400 的內容
func bindAndValidate(c echo.Context, req any) *api.HTTPError {
	if err := c.Bind(req); err != nil {
		return &api.HTTPError{Message: msgBadRequest}
	}
	if err := c.Validate(req); err != nil {
		return &api.HTTPError{Message: validationMessage(err)}
	}
	return nil
}

// validationMessage 只回傳第一個欄位錯誤的簡短說明，不暴露 Go 型別名稱
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgBadRequest
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please include a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return "Invalid " + strings.ToLower(fe.Field())
	}
}

// passwordTooLong bcrypt 的上限以 byte 計算，validator 的 max 以字元計算
func passwordTooLong(pw string) bool {
	return len(pw) > service.MaxPasswordBytes
}

// writeError 將 service 錯誤對應到狀態碼；500 只回傳通用訊息
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrDuplicateUser):
		return c.JSON(http.StatusBadRequest, api.HTTPError{Message: msgUserExists})
	case errors.Is(err, service.ErrPasswordTooLong):
		return c.JSON(http.StatusBadRequest, api.HTTPError{Message: msgPasswordLong})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusBadRequest, api.HTTPError{Message: msgInvalidCreds})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, api.HTTPError{Message: msgUserNotFound})
	case errors.Is(err, service.ErrSigning), errors.Is(err, service.ErrSigningKeyMissing):
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, api.HTTPError{Message: msgTokenError})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, api.HTTPError{Message: msgServerError})
	}
}

func authResponse(msg string, res *service.AuthResult) api.AuthResponse {
	return api.AuthResponse{Message: msg, Token: res.Token, User: api.NewUserResponse(res.User)}
}
