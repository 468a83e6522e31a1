package request

import "gestao_oficina/internal/usecase"

type ClientRequest struct {
	Name   string `json:"name" binding:"required" example:"Maria Souza"`
	Email  string `json:"email" example:"maria@example.com"`
	Phone  string `json:"phone" example:"11999990000"`
	Status string `json:"status" example:"ativo"`
}

func (r ClientRequest) ToInput(userID string) usecase.ClientInput {
	return usecase.ClientInput{Name: r.Name, Email: r.Email, Phone: r.Phone, Status: r.Status, UserID: userID}
}

type VehicleRequest struct {
	ClientID     string `json:"client_id" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required" example:"ABC1D23"`
	Make         string `json:"make" binding:"required" example:"Fiat"`
	Model        string `json:"model" binding:"required" example:"Uno"`
	Year         int    `json:"year" example:"2015"`
}

func (r VehicleRequest) ToInput(userID string) usecase.VehicleInput {
	return usecase.VehicleInput{
		ClientID:     r.ClientID,
		LicensePlate: r.LicensePlate,
		Make:         r.Make,
		Model:        r.Model,
		Year:         r.Year,
		UserID:       userID,
	}
}
