package repository

import (
	"medical-center/internal/domain/entity"

	"gorm.io/gorm"
)

type ClinicalRecordRepository interface {
	Create(db *gorm.DB, record *entity.ClinicalRecord) error
	Update(db *gorm.DB, record *entity.ClinicalRecord) error
	FindByID(db *gorm.DB, id int64) (*entity.ClinicalRecord, error)
	// ExistsForExamination ignores the active flag: an examination backs at
	// most one record, ever.
	ExistsForExamination(db *gorm.DB, examinationID int64) (bool, error)
	// LastNumberForYear returns the highest record number issued in year, or
	// "" when none exists.
	LastNumberForYear(db *gorm.DB, year int) (string, error)
	FindAll(db *gorm.DB) ([]entity.ClinicalRecord, error)
	FindRecent(db *gorm.DB, limit int) ([]entity.ClinicalRecord, error)
	FindByPatientID(db *gorm.DB, patientID int64) ([]entity.ClinicalRecord, error)
	FindByPractitionerID(db *gorm.DB, practitionerID int64) ([]entity.ClinicalRecord, error)
	Search(db *gorm.DB, term string) ([]entity.ClinicalRecord, error)
	SoftDelete(db *gorm.DB, id int64) (int64, error)
}
