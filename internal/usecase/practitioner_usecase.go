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

type PractitionerUsecase interface {
	Create(ctx context.Context, req *dto.CreatePractitionerRequest) (*dto.PractitionerResponse, error)
	Update(ctx context.Context, id int64, req *dto.PractitionerRequest) (*dto.PractitionerResponse, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*dto.PractitionerResponse, error)
	GetAll(ctx context.Context) (*dto.PractitionerListResponse, error)
	Search(ctx context.Context, term string) (*dto.PractitionerListResponse, error)
}

type practitionerUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validator        *validator.CustomValidator
	practitionerRepo repository.PractitionerRepository
	credentialRepo   repository.CredentialRepository
	appointmentRepo  repository.AppointmentRepository
	auditService     service.AuditService
	sessions         service.SessionStore
}

func NewPractitionerUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	practitionerRepo repository.PractitionerRepository,
	credentialRepo repository.CredentialRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	sessions service.SessionStore,
) PractitionerUsecase {
	return &practitionerUsecase{
		db:               db,
		log:              log,
		validator:        validator,
		practitionerRepo: practitionerRepo,
		credentialRepo:   credentialRepo,
		appointmentRepo:  appointmentRepo,
		auditService:     auditService,
		sessions:         sessions,
	}
}

func normalizePractitioner(req *dto.PractitionerRequest) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.MiddleName = trimOptional(req.MiddleName)
	req.PaternalName = strings.TrimSpace(req.PaternalName)
	req.MaternalName = trimOptional(req.MaternalName)
	req.Specialty = strings.TrimSpace(req.Specialty)
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	req.Email = trimOptional(req.Email)
	req.RFC = strings.ToUpper(strings.TrimSpace(req.RFC))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Site = trimOptional(req.Site)
}

func applyPractitioner(p *entity.Practitioner, req *dto.PractitionerRequest) {
	p.FirstName = req.FirstName
	p.MiddleName = req.MiddleName
	p.PaternalName = req.PaternalName
	p.MaternalName = req.MaternalName
	p.Specialty = req.Specialty
	p.LicenseNumber = req.LicenseNumber
	p.Email = req.Email
	p.RFC = req.RFC
	p.Phone = req.Phone
	p.Site = req.Site
}

// Create registers the practitioner together with the staff credential they
// log in with. Both rows are written or neither is.
func (u *practitionerUsecase) Create(ctx context.Context, req *dto.CreatePractitionerRequest) (*dto.PractitionerResponse, error) {
	normalizePractitioner(&req.PractitionerRequest)
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
		Identifier:   req.RFC,
		PasswordHash: string(hashedPassword),
		Privilege:    entity.PrivilegeStaff,
		Active:       true,
	}
	if err := u.credentialRepo.Create(tx, credential); err != nil {
		if isDuplicateKeyError(err, "identifier") {
			return nil, ErrIdentifierTaken
		}
		u.log.Warnf("Failed to create credential: %+v", err)
		return nil, storageError(err)
	}

	practitioner := &entity.Practitioner{CredentialID: &credential.ID, Active: true}
	applyPractitioner(practitioner, &req.PractitionerRequest)

	if err := u.practitionerRepo.Create(tx, practitioner); err != nil {
		if isDuplicateKeyError(err, "license") {
			return nil, ErrLicenseTaken
		}
		u.log.Warnf("Failed to create practitioner: %+v", err)
		return nil, storageError(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionPractitionerCreate, "practitioner", practitioner.ID, practitioner); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Practitioner %d created with credential %d", practitioner.ID, credential.ID)
	return converter.PractitionerToResponse(practitioner), nil
}

// Update overwrites the practitioner. A changed RFC is carried over to the
// linked credential, so the login identifier follows it.
func (u *practitionerUsecase) Update(ctx context.Context, id int64, req *dto.PractitionerRequest) (*dto.PractitionerResponse, error) {
	normalizePractitioner(req)
	if errs := validate(u.validator, req); len(errs) > 0 {
		return nil, errs
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	practitioner, err := u.practitionerRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find practitioner by id: %+v", err)
		return nil, storageError(err)
	}
	if practitioner == nil || !practitioner.Active {
		return nil, ErrPractitionerNotFound
	}

	old := *practitioner
	applyPractitioner(practitioner, req)

	if err := u.practitionerRepo.Update(tx, practitioner); err != nil {
		if isDuplicateKeyError(err, "license") {
			return nil, ErrLicenseTaken
		}
		u.log.Warnf("Failed to update practitioner: %+v", err)
		return nil, storageError(err)
	}

	if practitioner.CredentialID != nil && old.RFC != practitioner.RFC {
		if err := u.credentialRepo.UpdateIdentifier(tx, *practitioner.CredentialID, practitioner.RFC); err != nil {
			if isDuplicateKeyError(err, "identifier") {
				return nil, ErrIdentifierTaken
			}
			u.log.Warnf("Failed to update credential identifier: %+v", err)
			return nil, storageError(err)
		}
	}

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionPractitionerUpdate, "practitioner", practitioner.ID, old, practitioner); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	return converter.PractitionerToResponse(practitioner), nil
}

// Delete hides the practitioner and disables their login. It is refused while
// scheduled appointments still reference them.
func (u *practitionerUsecase) Delete(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	practitioner, err := u.practitionerRepo.FindByID(forUpdate(tx), id)
	if err != nil {
		u.log.Warnf("Failed to find practitioner by id: %+v", err)
		return storageError(err)
	}
	if practitioner == nil || !practitioner.Active {
		return ErrPractitionerNotFound
	}

	pending, err := u.appointmentRepo.CountScheduledByPractitioner(tx, id)
	if err != nil {
		u.log.Warnf("Failed to count practitioner appointments: %+v", err)
		return storageError(err)
	}
	if pending > 0 {
		return ErrPractitionerHasAppointments
	}

	if _, err := u.practitionerRepo.SoftDelete(tx, id); err != nil {
		u.log.Warnf("Failed to delete practitioner: %+v", err)
		return storageError(err)
	}
	if practitioner.CredentialID != nil {
		if _, err := u.credentialRepo.SoftDelete(tx, *practitioner.CredentialID); err != nil {
			u.log.Warnf("Failed to delete credential: %+v", err)
			return storageError(err)
		}
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionPractitionerDelete, "practitioner", id, practitioner); err != nil {
		return storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storageError(err)
	}

	// Sessions live outside the transaction.
	if practitioner.CredentialID != nil {
		if err := u.sessions.RevokeAll(ctx, *practitioner.CredentialID); err != nil {
			u.log.Warnf("Failed to revoke sessions for credential %d: %+v", *practitioner.CredentialID, err)
		}
	}

	u.log.Infof("Practitioner %d deleted", id)
	return nil
}

// GetByID resolves inactive practitioners as well; the response carries the flag.
func (u *practitionerUsecase) GetByID(ctx context.Context, id int64) (*dto.PractitionerResponse, error) {
	practitioner, err := u.practitionerRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find practitioner by id: %+v", err)
		return nil, storageError(err)
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}

	return converter.PractitionerToResponse(practitioner), nil
}

func (u *practitionerUsecase) GetAll(ctx context.Context) (*dto.PractitionerListResponse, error) {
	practitioners, err := u.practitionerRepo.FindAllActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all practitioners: %+v", err)
		return nil, storageError(err)
	}

	return &dto.PractitionerListResponse{
		Practitioners: converter.PractitionersToResponses(practitioners),
		Total:         len(practitioners),
	}, nil
}

func (u *practitionerUsecase) Search(ctx context.Context, term string) (*dto.PractitionerListResponse, error) {
	if strings.TrimSpace(term) == "" {
		return u.GetAll(ctx)
	}

	practitioners, err := u.practitionerRepo.Search(u.db.WithContext(ctx), term)
	if err != nil {
		u.log.Warnf("Failed to search practitioners: %+v", err)
		return nil, storageError(err)
	}

	return &dto.PractitionerListResponse{
		Practitioners: converter.PractitionersToResponses(practitioners),
		Total:         len(practitioners),
	}, nil
}
