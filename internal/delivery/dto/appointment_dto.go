package dto

import "time"

// Request DTOs

type AppointmentRequest struct {
	PatientID      int64  `json:"patient_id" validate:"required,gt=0"`
	PractitionerID int64  `json:"practitioner_id" validate:"required,gt=0"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
	Time           string `json:"time" validate:"required,hhmm"`                // Format: HH:MM
	Reason         string `json:"reason" validate:"required,min=10,max=500"`
}

type RescheduleAppointmentRequest struct {
	AppointmentRequest
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}

// Response DTOs

type AppointmentResponse struct {
	ID               int64     `json:"id"`
	PatientID        int64     `json:"patient_id"`
	PatientName      string    `json:"patient_name,omitempty"`
	PractitionerID   int64     `json:"practitioner_id"`
	PractitionerName string    `json:"practitioner_name,omitempty"`
	Specialty        string    `json:"specialty,omitempty"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Reason           string    `json:"reason"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// AppointmentActionResponse reports a status transition. Changed is false
// when the appointment was already terminal.
type AppointmentActionResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	Changed     bool                `json:"changed"`
}
