package dto

import (
	"time"

	"automl-platform-service/internal/core/domain"
)

type InitUserRequest struct {
	UserID string `json:"user_id" binding:"required,max=100"`
	Email  string `json:"email" binding:"required"`
	Name   string `json:"name"`
}

type UserResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
