package dto

import "time"

// Request DTOs

type CreatePractitionerRequest struct {
	PractitionerRequest
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type PractitionerRequest struct {
	FirstName     string  `json:"first_name" validate:"required,min=2,max=100"`
	MiddleName    *string `json:"middle_name,omitempty" validate:"omitempty,max=100"`
	PaternalName  string  `json:"paternal_name" validate:"required,min=2,max=100"`
	MaternalName  *string `json:"maternal_name,omitempty" validate:"omitempty,max=100"`
	Specialty     string  `json:"specialty" validate:"required,min=3,max=100"`
	LicenseNumber string  `json:"license_number" validate:"required,license"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email,max=150"`
	RFC           string  `json:"rfc" validate:"required,rfc"`
	Phone         string  `json:"phone" validate:"required,phone"`
	Site          *string `json:"site,omitempty" validate:"omitempty,max=150"`
}

// Response DTOs

type PractitionerResponse struct {
	ID            int64     `json:"id"`
	CredentialID  *int64    `json:"credential_id,omitempty"`
	FirstName     string    `json:"first_name"`
	MiddleName    *string   `json:"middle_name,omitempty"`
	PaternalName  string    `json:"paternal_name"`
	MaternalName  *string   `json:"maternal_name,omitempty"`
	FullName      string    `json:"full_name"`
	Specialty     string    `json:"specialty"`
	LicenseNumber string    `json:"license_number"`
	Email         *string   `json:"email,omitempty"`
	RFC           string    `json:"rfc"`
	Phone         string    `json:"phone"`
	Site          *string   `json:"site,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PractitionerListResponse struct {
	Practitioners []PractitionerResponse `json:"practitioners"`
	Total         int                    `json:"total"`
}
