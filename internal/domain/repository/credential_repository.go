package repository

import (
	"medical-center/internal/domain/entity"

	"gorm.io/gorm"
)

type CredentialRepository interface {
	Create(db *gorm.DB, credential *entity.Credential) error
	FindByID(db *gorm.DB, id int64) (*entity.Credential, error)
	FindActiveByIdentifier(db *gorm.DB, identifier string) (*entity.Credential, error)
	FindAllActive(db *gorm.DB) ([]entity.Credential, error)
	UpdatePasswordHash(db *gorm.DB, id int64, hash string) error
	UpdatePrivilege(db *gorm.DB, id int64, privilege int) (int64, error)
	UpdateIdentifier(db *gorm.DB, id int64, identifier string) error
	SoftDelete(db *gorm.DB, id int64) (int64, error)
}
