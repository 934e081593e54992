package repository

import (
	"errors"

	"medical-center/internal/domain/entity"
	domainRepo "medical-center/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type practitionerRepository struct{}

func NewPractitionerRepository() domainRepo.PractitionerRepository {
	return &practitionerRepository{}
}

func (r *practitionerRepository) Create(db *gorm.DB, practitioner *entity.Practitioner) error {
	return db.Omit(clause.Associations).Create(practitioner).Error
}

func (r *practitionerRepository) Update(db *gorm.DB, practitioner *entity.Practitioner) error {
	return db.Omit(clause.Associations).Save(practitioner).Error
}

func (r *practitionerRepository) FindByID(db *gorm.DB, id int64) (*entity.Practitioner, error) {
	var practitioner entity.Practitioner
	err := db.Where("id = ?", id).First(&practitioner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &practitioner, nil
}

func (r *practitionerRepository) FindAllActive(db *gorm.DB) ([]entity.Practitioner, error) {
	var practitioners []entity.Practitioner
	err := db.Where("active = ?", true).
		Order("paternal_name ASC, first_name ASC, id ASC").
		Find(&practitioners).Error
	if err != nil {
		return nil, err
	}
	return practitioners, nil
}

func (r *practitionerRepository) Search(db *gorm.DB, term string) ([]entity.Practitioner, error) {
	var practitioners []entity.Practitioner
	err := matchAny(db.Where("active = ?", true), term,
		"first_name || ' ' || paternal_name",
		"middle_name",
		"maternal_name",
		"specialty",
	).Order("paternal_name ASC, first_name ASC, id ASC").
		Find(&practitioners).Error
	if err != nil {
		return nil, err
	}
	return practitioners, nil
}

func (r *practitionerRepository) SoftDelete(db *gorm.DB, id int64) (int64, error) {
	result := db.Model(&entity.Practitioner{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return result.RowsAffected, result.Error
}
