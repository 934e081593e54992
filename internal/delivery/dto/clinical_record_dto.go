package dto

import "time"

// Request DTOs

// CompileRecordRequest builds a record from an examination. Zero patient or
// practitioner ids default to the examination's, and a blank primary
// diagnosis defaults to the examination's diagnosis.
type CompileRecordRequest struct {
	ExaminationID    int64  `json:"examination_id" validate:"required,gt=0"`
	PatientID        int64  `json:"patient_id,omitempty" validate:"omitempty,gt=0"`
	PractitionerID   int64  `json:"practitioner_id,omitempty" validate:"omitempty,gt=0"`
	PrimaryDiagnosis string `json:"primary_diagnosis" validate:"max=2000"`
	RecordDetails
}

type UpdateRecordRequest struct {
	PrimaryDiagnosis string `json:"primary_diagnosis" validate:"required,min=10,max=2000"`
	RecordDetails
}

type RecordDetails struct {
	SecondaryDiagnoses   *string `json:"secondary_diagnoses,omitempty" validate:"omitempty,max=2000"`
	TreatmentPlan        *string `json:"treatment_plan,omitempty" validate:"omitempty,max=2000"`
	PrescribedMedication *string `json:"prescribed_medication,omitempty" validate:"omitempty,max=2000"`
	ClinicalNotes        *string `json:"clinical_notes,omitempty" validate:"omitempty,max=4000"`
	Recommendations      *string `json:"recommendations,omitempty" validate:"omitempty,max=2000"`
}

// Response DTOs

type ClinicalRecordResponse struct {
	ID                   int64     `json:"id"`
	RecordNumber         string    `json:"record_number"`
	ExaminationID        int64     `json:"examination_id"`
	ExaminationDate      string    `json:"examination_date,omitempty"`
	PatientID            int64     `json:"patient_id"`
	PatientName          string    `json:"patient_name,omitempty"`
	PractitionerID       int64     `json:"practitioner_id"`
	PractitionerName     string    `json:"practitioner_name,omitempty"`
	PrimaryDiagnosis     string    `json:"primary_diagnosis"`
	SecondaryDiagnoses   *string   `json:"secondary_diagnoses,omitempty"`
	TreatmentPlan        *string   `json:"treatment_plan,omitempty"`
	PrescribedMedication *string   `json:"prescribed_medication,omitempty"`
	ClinicalNotes        *string   `json:"clinical_notes,omitempty"`
	Recommendations      *string   `json:"recommendations,omitempty"`
	Active               bool      `json:"active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type ClinicalRecordListResponse struct {
	Records []ClinicalRecordResponse `json:"records"`
	Total   int                      `json:"total"`
}
