// File: internal/api/auth_request.go
package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=100" example:"alice"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255" example:"a@x.com"`
	// bcrypt 只處理前 72 bytes
	Password string `json:"password" form:"password" validate:"required,min=6,max=72" example:"secret1"`
}

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"a@x.com"`
	Password string `json:"password" form:"password" validate:"required" example:"secret1"`
}
