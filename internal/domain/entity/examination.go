package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vitals are all optional. A NULL column means "not measured".
type Vitals struct {
	WeightKg         decimal.NullDecimal `gorm:"column:weight_kg;type:decimal(5,2)" json:"weight_kg"`
	HeightM          decimal.NullDecimal `gorm:"column:height_m;type:decimal(3,2)" json:"height_m"`
	TemperatureC     decimal.NullDecimal `gorm:"column:temperature_c;type:decimal(4,1)" json:"temperature_c"`
	HeartRateBPM     *int                `gorm:"column:heart_rate_bpm" json:"heart_rate_bpm,omitempty"`
	OxygenSaturation decimal.NullDecimal `gorm:"column:oxygen_saturation;type:decimal(5,2)" json:"oxygen_saturation"`
	GlucoseMgDL      decimal.NullDecimal `gorm:"column:glucose_mg_dl;type:decimal(5,1)" json:"glucose_mg_dl"`
}

// Examination is one clinical encounter. AppointmentID is nil for ad hoc
// examinations; an appointment backs at most one visible examination.
type Examination struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID    *int64    `gorm:"uniqueIndex:idx_examinations_appointment,where:active = true" json:"appointment_id,omitempty"`
	PatientID        int64     `gorm:"not null;index" json:"patient_id"`
	PractitionerID   int64     `gorm:"not null;index" json:"practitioner_id"`
	Date             time.Time `gorm:"column:exam_date;type:date;not null" json:"date"`
	Vitals           Vitals    `gorm:"embedded" json:"vitals"`
	Symptoms         string    `gorm:"type:text;not null" json:"symptoms"`
	Diagnosis        string    `gorm:"type:text;not null" json:"diagnosis"`
	Treatment        string    `gorm:"type:text;not null" json:"treatment"`
	RequestedStudies *string   `gorm:"type:text" json:"requested_studies,omitempty"`
	Active           bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Patient      *Patient      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Practitioner *Practitioner `gorm:"foreignKey:PractitionerID" json:"practitioner,omitempty"`
	Appointment  *Appointment  `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (Examination) TableName() string {
	return "examinations"
}
