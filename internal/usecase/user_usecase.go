package usecase

import (
	"context"
	"strings"

	"medical-center/internal/converter"
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
	"medical-center/internal/domain/repository"
	"medical-center/internal/service"
	"medical-center/pkg/validator"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserUsecase manages login identities. Every operation requires an elevated
// caller; the gate sits in the HTTP layer.
type UserUsecase interface {
	GetAll(ctx context.Context) (*dto.CredentialListResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CredentialResponse, error)
	UpdatePrivilege(ctx context.Context, id int64, req *dto.UpdatePrivilegeRequest) (*dto.CredentialResponse, error)
	Delete(ctx context.Context, actor entity.Principal, id int64) error
}

type userUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	validator      *validator.CustomValidator
	credentialRepo repository.CredentialRepository
	auditService   service.AuditService
	sessions       service.SessionStore
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	credentialRepo repository.CredentialRepository,
	auditService service.AuditService,
	sessions service.SessionStore,
) UserUsecase {
	return &userUsecase{
		db:             db,
		log:            log,
		validator:      validator,
		credentialRepo: credentialRepo,
		auditService:   auditService,
		sessions:       sessions,
	}
}

func (u *userUsecase) GetAll(ctx context.Context) (*dto.CredentialListResponse, error) {
	credentials, err := u.credentialRepo.FindAllActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all credentials: %+v", err)
		return nil, storageError(err)
	}

	return &dto.CredentialListResponse{
		Users: converter.CredentialsToResponses(credentials),
		Total: len(credentials),
	}, nil
}

func (u *userUsecase) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CredentialResponse, error) {
	req.Identifier = strings.ToUpper(strings.TrimSpace(req.Identifier))
	if errs := validate(u.validator, req); len(errs) > 0 {
		return nil, errs
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	credential := &entity.Credential{
		Identifier:   req.Identifier,
		PasswordHash: string(hashedPassword),
		Privilege:    req.Privilege,
		Active:       true,
	}
	if err := u.credentialRepo.Create(tx, credential); err != nil {
		if isDuplicateKeyError(err, "identifier") {
			return nil, ErrIdentifierTaken
		}
		u.log.Warnf("Failed to create credential: %+v", err)
		return nil, storageError(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionCredentialCreate, "credential", credential.ID, credential); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Credential %d created with privilege %d", credential.ID, credential.Privilege)
	return converter.CredentialToResponse(credential), nil
}

// UpdatePrivilege changes the credential's tier. Open sessions keep the tier
// they were issued with, so they are revoked.
func (u *userUsecase) UpdatePrivilege(ctx context.Context, id int64, req *dto.UpdatePrivilegeRequest) (*dto.CredentialResponse, error) {
	if errs := validate(u.validator, req); len(errs) > 0 {
		return nil, errs
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	credential, err := u.credentialRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find credential by id: %+v", err)
		return nil, storageError(err)
	}
	if credential == nil || !credential.Active {
		return nil, ErrCredentialNotFound
	}

	old := map[string]int{"privilege": credential.Privilege}
	if _, err := u.credentialRepo.UpdatePrivilege(tx, id, req.Privilege); err != nil {
		u.log.Warnf("Failed to update privilege: %+v", err)
		return nil, storageError(err)
	}
	credential.Privilege = req.Privilege

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionCredentialUpdate, "credential", id, old, map[string]int{"privilege": req.Privilege}); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	if err := u.sessions.RevokeAll(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke sessions for credential %d: %+v", id, err)
		return nil, storageError(err)
	}

	return converter.CredentialToResponse(credential), nil
}

func (u *userUsecase) Delete(ctx context.Context, actor entity.Principal, id int64) error {
	if actor.CredentialID == id {
		return ErrSelfDelete
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.credentialRepo.SoftDelete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete credential: %+v", err)
		return storageError(err)
	}
	if rows == 0 {
		return ErrCredentialNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionCredentialDelete, "credential", id, nil); err != nil {
		return storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storageError(err)
	}

	if err := u.sessions.RevokeAll(ctx, id); err != nil {
		return storageError(err)
	}

	u.log.Infof("Credential %d deleted", id)
	return nil
}
