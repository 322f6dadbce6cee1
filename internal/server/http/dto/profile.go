package dto

import "time"

// ProfileRequest holds patient data entered in the wizard or account page.
type ProfileRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PESEL       string `json:"pesel" binding:"required,pesel"`
	DateOfBirth string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Address     string `json:"address" binding:"required"`
	HouseNumber string `json:"house_number" binding:"required"`
	FlatNumber  string `json:"flat_number"`
	PostalCode  string `json:"postal_code" binding:"required,postal_code"`
	City        string `json:"city" binding:"required"`
}

// ProfileResponse is the stored account profile.
type ProfileResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PESEL       string    `json:"pesel"`
	DateOfBirth string    `json:"date_of_birth"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	HouseNumber string    `json:"house_number"`
	FlatNumber  string    `json:"flat_number,omitempty"`
	PostalCode  string    `json:"postal_code"`
	City        string    `json:"city"`
	UpdatedAt   time.Time `json:"updated_at"`
}
