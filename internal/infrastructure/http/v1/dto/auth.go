package dto

import (
	"garmentpos/internal/domain/auth"
)

// LoginRequest for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToDomain converts to domain credentials.
func (r LoginRequest) ToDomain() auth.Credentials {
	return auth.Credentials{
		Username: r.Username,
		Password: r.Password,
	}
}

// RegisterUserRequest for POST /auth/register (admin only).
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// ToDomain converts to domain register request.
func (r RegisterUserRequest) ToDomain() auth.RegisterRequest {
	return auth.RegisterRequest{
		Username: r.Username,
		Password: r.Password,
		FullName: r.FullName,
		Role:     auth.Role(r.Role),
	}
}

// ChangePasswordRequest for POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// SetActiveRequest for POST /auth/users/:id/active (admin only).
type SetActiveRequest struct {
	Active bool `json:"active"`
}
