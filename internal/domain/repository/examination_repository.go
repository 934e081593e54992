package repository

import (
	"medical-center/internal/domain/entity"

	"gorm.io/gorm"
)

type ExaminationRepository interface {
	Create(db *gorm.DB, examination *entity.Examination) error
	Update(db *gorm.DB, examination *entity.Examination) error
	// FindByID returns hidden examinations too; callers check Active.
	FindByID(db *gorm.DB, id int64) (*entity.Examination, error)
	FindActiveByAppointmentID(db *gorm.DB, appointmentID int64) (*entity.Examination, error)
	FindAll(db *gorm.DB) ([]entity.Examination, error)
	FindByPatientID(db *gorm.DB, patientID int64) ([]entity.Examination, error)
	FindByPractitionerID(db *gorm.DB, practitionerID int64) ([]entity.Examination, error)
	SoftDelete(db *gorm.DB, id int64) (int64, error)
}
