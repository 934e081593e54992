package entity

import (
	"strings"
	"time"
)

const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// BloodTypeUnknown is stored when the patient's group has not been tested.
const BloodTypeUnknown = "Desconocido"

var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-", BloodTypeUnknown}

// Patient is an independently owned aggregate root.
type Patient struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birth_date"`
	Gender    string    `gorm:"type:varchar(1);not null" json:"gender"`
	BloodType string    `gorm:"type:varchar(12);not null;default:Desconocido" json:"blood_type"`
	Allergies *string   `gorm:"type:text" json:"allergies,omitempty"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// AgeAt returns the completed years between the birth date and ref.
func (p *Patient) AgeAt(ref time.Time) int {
	return YearsBetween(p.BirthDate, ref)
}

// YearsBetween counts whole years from birth to ref, subtracting one when the
// birthday has not yet come around in ref's year.
func YearsBetween(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
