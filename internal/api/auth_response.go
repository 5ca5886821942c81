// File: internal/api/auth_response.go
package api

import "auth-app/internal/model"

// swagger:model api.UserResponse
type UserResponse struct {
	ID       int    `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"a@x.com"`
}

// swagger:model api.AuthResponse
type AuthResponse struct {
	Message string       `json:"message" example:"Login successful"`
	Token   string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User    UserResponse `json:"user"`
}

func NewUserResponse(p model.Profile) UserResponse {
	return UserResponse{ID: p.ID, Username: p.Username, Email: p.Email}
}
