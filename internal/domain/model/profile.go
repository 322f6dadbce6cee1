package model

import "time"

// Profile holds personal and contact data of the person requesting leave.
type Profile struct {
	ID          string
	UserID      *int64
	FirstName   string
	LastName    string
	PESEL       string
	DateOfBirth time.Time
	Email       string
	PhoneNumber string
	Address     string
	HouseNumber string
	FlatNumber  string
	PostalCode  string
	City        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
