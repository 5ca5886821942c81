package service

import "errors"

// Handler 以 errors.Is 對應 HTTP 狀態碼；ErrStore / ErrSigning 只記錄在伺服器端
var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("user not found")
	ErrSigning            = errors.New("error generating authentication token")
	ErrSigningKeyMissing  = errors.New("JWT_SECRET not set")
	ErrStore              = errors.New("store error")
)
