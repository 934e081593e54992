package dto

import "time"

// Request DTOs

type VitalsRequest struct {
	WeightKg         *float64 `json:"weight_kg,omitempty" validate:"omitempty,gt=0,lte=500"`
	HeightM          *float64 `json:"height_m,omitempty" validate:"omitempty,gt=0,lte=3"`
	TemperatureC     *float64 `json:"temperature_c,omitempty" validate:"omitempty,gte=30,lte=45"`
	HeartRateBPM     *int     `json:"heart_rate_bpm,omitempty" validate:"omitempty,gte=30,lte=200"`
	OxygenSaturation *float64 `json:"oxygen_saturation,omitempty" validate:"omitempty,gte=70,lte=100"`
	GlucoseMgDL      *float64 `json:"glucose_mg_dl,omitempty" validate:"omitempty,gte=50,lte=500"`
}

// ClinicalNotesRequest is the narrative shared by every way of recording an
// examination.
type ClinicalNotesRequest struct {
	Vitals           VitalsRequest `json:"vitals"`
	Symptoms         string        `json:"symptoms" validate:"required,min=10,max=2000"`
	Diagnosis        string        `json:"diagnosis" validate:"required,min=10,max=2000"`
	Treatment        string        `json:"treatment" validate:"required,min=10,max=2000"`
	RequestedStudies *string       `json:"requested_studies,omitempty" validate:"omitempty,max=2000"`
}

type ExaminationRequest struct {
	AppointmentID  *int64 `json:"appointment_id,omitempty" validate:"omitempty,gt=0"`
	PatientID      int64  `json:"patient_id" validate:"required,gt=0"`
	PractitionerID int64  `json:"practitioner_id" validate:"required,gt=0"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
	ClinicalNotesRequest
}

// Response DTOs

type VitalsResponse struct {
	WeightKg         *string `json:"weight_kg,omitempty"`
	HeightM          *string `json:"height_m,omitempty"`
	TemperatureC     *string `json:"temperature_c,omitempty"`
	HeartRateBPM     *int    `json:"heart_rate_bpm,omitempty"`
	OxygenSaturation *string `json:"oxygen_saturation,omitempty"`
	GlucoseMgDL      *string `json:"glucose_mg_dl,omitempty"`
}

type ExaminationResponse struct {
	ID               int64          `json:"id"`
	AppointmentID    *int64         `json:"appointment_id,omitempty"`
	PatientID        int64          `json:"patient_id"`
	PatientName      string         `json:"patient_name,omitempty"`
	PractitionerID   int64          `json:"practitioner_id"`
	PractitionerName string         `json:"practitioner_name,omitempty"`
	Date             string         `json:"date"`
	Vitals           VitalsResponse `json:"vitals"`
	Symptoms         string         `json:"symptoms"`
	Diagnosis        string         `json:"diagnosis"`
	Treatment        string         `json:"treatment"`
	RequestedStudies *string        `json:"requested_studies,omitempty"`
	Active           bool           `json:"active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ExaminationListResponse struct {
	Examinations []ExaminationResponse `json:"examinations"`
	Total        int                   `json:"total"`
}
