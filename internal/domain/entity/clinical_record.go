package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClinicalRecord (expediente) is compiled from exactly one examination and
// numbered YYYY-NNNN, sequential within the calendar year.
type ClinicalRecord struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RecordNumber         string    `gorm:"type:varchar(16);not null;uniqueIndex" json:"record_number"`
	ExaminationID        int64     `gorm:"not null;uniqueIndex" json:"examination_id"`
	PatientID            int64     `gorm:"not null;index" json:"patient_id"`
	PractitionerID       int64     `gorm:"not null;index" json:"practitioner_id"`
	PrimaryDiagnosis     string    `gorm:"type:text;not null" json:"primary_diagnosis"`
	SecondaryDiagnoses   *string   `gorm:"type:text" json:"secondary_diagnoses,omitempty"`
	TreatmentPlan        *string   `gorm:"type:text" json:"treatment_plan,omitempty"`
	PrescribedMedication *string   `gorm:"type:text" json:"prescribed_medication,omitempty"`
	ClinicalNotes        *string   `gorm:"type:text" json:"clinical_notes,omitempty"`
	Recommendations      *string   `gorm:"type:text" json:"recommendations,omitempty"`
	Active               bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Patient      *Patient      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Practitioner *Practitioner `gorm:"foreignKey:PractitionerID" json:"practitioner,omitempty"`
	Examination  *Examination  `gorm:"foreignKey:ExaminationID" json:"examination,omitempty"`
}

func (ClinicalRecord) TableName() string {
	return "clinical_records"
}

// RecordNumberPrefix is the LIKE pattern prefix for a year's records.
func RecordNumberPrefix(year int) string {
	return fmt.Sprintf("%d-", year)
}

// NextRecordNumber returns the number following last within year. An empty or
// malformed last value restarts the sequence at 0001.
func NextRecordNumber(year int, last string) string {
	next := 1
	prefix := RecordNumberPrefix(year)
	if suffix, ok := strings.CutPrefix(last, prefix); ok {
		if n, err := strconv.Atoi(suffix); err == nil && n > 0 {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, next)
}
