package dto

import "github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"

type RegisterRequest struct {
	Name     string `json:"name" example:"Meera Shah"`
	Email    string `json:"email" example:"meera@example.com"`
	Password string `json:"password" example:"password123"`
	Role     string `json:"role,omitempty" example:"CUSTOMER" enums:"ADMIN,CUSTOMER"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"meera@example.com"`
	Password string `json:"password" example:"password123"`
}

type UserResponse struct {
	ID        int    `json:"id" example:"1"`
	Name      string `json:"name" example:"Meera Shah"`
	Email     string `json:"email" example:"meera@example.com"`
	Role      string `json:"role" example:"CUSTOMER"`
	CreatedAt string `json:"created_at" example:"2024-05-01T10:00:00.000Z"`
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type VerifyResponse struct {
	Valid bool          `json:"valid"`
	User  *UserResponse `json:"user"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: ISOTime(u.CreatedAt),
	}
}
