package entity

import "time"

// Wire and column layouts for calendar dates and slot times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment books a practitioner's (date, time) slot for a patient.
// Date is YYYY-MM-DD and Time is HH:MM, both in the clinic's zone, so they
// compare correctly as strings.
//
// The slot index only covers visible, non-cancelled rows.
type Appointment struct {
	ID             int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID      int64             `gorm:"not null;index" json:"patient_id"`
	PractitionerID int64             `gorm:"not null;index;uniqueIndex:idx_appointments_slot,priority:1,where:status <> 'cancelled' AND active = true" json:"practitioner_id"`
	Date           string            `gorm:"column:appointment_date;type:varchar(10);not null;index;uniqueIndex:idx_appointments_slot,priority:2" json:"date"`
	Time           string            `gorm:"column:appointment_time;type:varchar(5);not null;uniqueIndex:idx_appointments_slot,priority:3" json:"time"`
	Reason         string            `gorm:"type:text;not null" json:"reason"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;default:scheduled;index" json:"status"`
	Active         bool              `gorm:"not null;default:true;index" json:"active"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Patient      *Patient      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Practitioner *Practitioner `gorm:"foreignKey:PractitionerID" json:"practitioner,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsTerminal reports whether no further status transition is possible.
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusCancelled
}
