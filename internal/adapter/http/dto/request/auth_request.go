package request

import "gestao_oficina/internal/usecase"

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@oficina.com"`
	Password string `json:"password" binding:"required"`
}

type UserCreateRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required" example:"mecanico"`
}

func (r UserCreateRequest) ToInput() usecase.UserInput {
	return usecase.UserInput{Email: r.Email, FullName: r.FullName, Password: r.Password, Role: r.Role}
}

type ProfileUpdateRequest struct {
	FullName string `json:"full_name" binding:"required" example:"Ana Souza"`
}
