package dto

import "time"

// Request DTOs

type PatientRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string  `json:"last_name" validate:"required,min=2,max=100"`
	BirthDate string  `json:"birth_date" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
	Gender    string  `json:"gender" validate:"required,oneof=M F"`
	BloodType string  `json:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O- Desconocido"`
	Allergies *string `json:"allergies,omitempty" validate:"omitempty,max=1000"`
}

// Response DTOs

type PatientResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	BirthDate string    `json:"birth_date"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	BloodType string    `json:"blood_type"`
	Allergies *string   `json:"allergies,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
