package entities

import "time"

// Client is a shop customer. Vehicles and service orders reference it by ID.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Status    string
	UserID    string
	CreatedAt time.Time
}

// Vehicle belongs to exactly one client.
type Vehicle struct {
	ID           string
	ClientID     string
	LicensePlate string
	Make         string
	Model        string
	Year         int
	UserID       string
	CreatedAt    time.Time
}
