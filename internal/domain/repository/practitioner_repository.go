package repository

import (
	"medical-center/internal/domain/entity"

	"gorm.io/gorm"
)

type PractitionerRepository interface {
	Create(db *gorm.DB, practitioner *entity.Practitioner) error
	Update(db *gorm.DB, practitioner *entity.Practitioner) error
	// FindByID resolves inactive practitioners too.
	FindByID(db *gorm.DB, id int64) (*entity.Practitioner, error)
	FindAllActive(db *gorm.DB) ([]entity.Practitioner, error)
	Search(db *gorm.DB, term string) ([]entity.Practitioner, error)
	SoftDelete(db *gorm.DB, id int64) (int64, error)
}
