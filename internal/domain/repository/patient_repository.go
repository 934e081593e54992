package repository

import (
	"medical-center/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	Update(db *gorm.DB, patient *entity.Patient) error
	// FindByID resolves inactive patients too.
	FindByID(db *gorm.DB, id int64) (*entity.Patient, error)
	FindAllActive(db *gorm.DB) ([]entity.Patient, error)
	Search(db *gorm.DB, term string) ([]entity.Patient, error)
	SoftDelete(db *gorm.DB, id int64) (int64, error)
}
