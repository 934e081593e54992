package repository

import (
	"errors"

	"medical-center/internal/domain/entity"
	domainRepo "medical-center/internal/domain/repository"

	"gorm.io/gorm"
)

type credentialRepository struct{}

func NewCredentialRepository() domainRepo.CredentialRepository {
	return &credentialRepository{}
}

func (r *credentialRepository) Create(db *gorm.DB, credential *entity.Credential) error {
	return db.Create(credential).Error
}

func (r *credentialRepository) FindByID(db *gorm.DB, id int64) (*entity.Credential, error) {
	var credential entity.Credential
	err := db.Where("id = ?", id).First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credential, nil
}

func (r *credentialRepository) FindActiveByIdentifier(db *gorm.DB, identifier string) (*entity.Credential, error) {
	var credential entity.Credential
	err := db.Where("identifier = ? AND active = ?", identifier, true).First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credential, nil
}

func (r *credentialRepository) FindAllActive(db *gorm.DB) ([]entity.Credential, error) {
	var credentials []entity.Credential
	err := db.Where("active = ?", true).Order("identifier ASC").Find(&credentials).Error
	if err != nil {
		return nil, err
	}
	return credentials, nil
}

func (r *credentialRepository) UpdatePasswordHash(db *gorm.DB, id int64, hash string) error {
	return db.Model(&entity.Credential{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *credentialRepository) UpdatePrivilege(db *gorm.DB, id int64, privilege int) (int64, error) {
	result := db.Model(&entity.Credential{}).
		Where("id = ? AND active = ?", id, true).
		Update("privilege", privilege)
	return result.RowsAffected, result.Error
}

func (r *credentialRepository) UpdateIdentifier(db *gorm.DB, id int64, identifier string) error {
	return db.Model(&entity.Credential{}).Where("id = ?", id).Update("identifier", identifier).Error
}

func (r *credentialRepository) SoftDelete(db *gorm.DB, id int64) (int64, error) {
	result := db.Model(&entity.Credential{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return result.RowsAffected, result.Error
}
