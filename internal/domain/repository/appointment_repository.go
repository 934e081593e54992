package repository

import (
	"medical-center/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	Update(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id int64) (*entity.Appointment, error)
	// IsSlotTaken reports whether a visible, non-cancelled appointment holds the
	// practitioner's slot. excludeID is ignored when zero.
	IsSlotTaken(db *gorm.DB, practitionerID int64, date, time string, excludeID int64) (bool, error)
	// TransitionStatus moves a visible scheduled appointment to status. Zero rows
	// affected means the appointment is missing, hidden or already terminal.
	TransitionStatus(db *gorm.DB, id int64, status entity.AppointmentStatus) (int64, error)
	SoftDelete(db *gorm.DB, id int64) (int64, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)
	FindUpcoming(db *gorm.DB, today string, limit int) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID int64) ([]entity.Appointment, error)
	FindByPractitionerID(db *gorm.DB, practitionerID int64) ([]entity.Appointment, error)
	CountScheduledByPatient(db *gorm.DB, patientID int64) (int64, error)
	CountScheduledByPractitioner(db *gorm.DB, practitionerID int64) (int64, error)
}
