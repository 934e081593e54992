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
	"gorm.io/gorm"
)

// maxPatientAgeDays bounds birth dates to roughly one hundred years back.
const maxPatientAgeDays = 36500

type PatientUsecase interface {
	Create(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error)
	Update(ctx context.Context, id int64, req *dto.PatientRequest) (*dto.PatientResponse, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*dto.PatientResponse, error)
	GetAll(ctx context.Context) (*dto.PatientListResponse, error)
	Search(ctx context.Context, term string) (*dto.PatientListResponse, error)
}

type patientUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	clock           Clock
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	clock Clock,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		clock:           clock,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

func normalizePatient(req *dto.PatientRequest) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.BirthDate = strings.TrimSpace(req.BirthDate)
	req.Gender = strings.ToUpper(strings.TrimSpace(req.Gender))
	req.BloodType = strings.TrimSpace(req.BloodType)
	if req.BloodType == "" {
		req.BloodType = entity.BloodTypeUnknown
	}
	req.Allergies = trimOptional(req.Allergies)
}

// validatePatient checks the request and builds the patient it describes.
func (u *patientUsecase) validatePatient(req *dto.PatientRequest) (*entity.Patient, error) {
	normalizePatient(req)
	errs := validate(u.validator, req)

	patient := &entity.Patient{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		BloodType: req.BloodType,
		Allergies: req.Allergies,
		Active:    true,
	}

	if _, bad := errs["birth_date"]; !bad {
		birth, err := parseDate(req.BirthDate)
		today := u.clock.Today()
		switch {
		case err != nil:
			errs["birth_date"] = "birth_date must use the format YYYY-MM-DD"
		case !birth.Before(today):
			errs["birth_date"] = "birth_date must be in the past"
		case today.Sub(birth).Hours()/24 > maxPatientAgeDays:
			errs["birth_date"] = "birth_date must be within the last 100 years"
		default:
			patient.BirthDate = birth
		}
	}

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return patient, nil
}

func (u *patientUsecase) Create(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	patient, err := u.validatePatient(req)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patientRepo.Create(tx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, storageError(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionPatientCreate, "patient", patient.ID, patient); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Patient %d created", patient.ID)
	return converter.PatientToResponse(patient, u.clock.Today()), nil
}

func (u *patientUsecase) Update(ctx context.Context, id int64, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	updated, err := u.validatePatient(req)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient by id: %+v", err)
		return nil, storageError(err)
	}
	if patient == nil || !patient.Active {
		return nil, ErrPatientNotFound
	}

	old := *patient
	patient.FirstName = updated.FirstName
	patient.LastName = updated.LastName
	patient.BirthDate = updated.BirthDate
	patient.Gender = updated.Gender
	patient.BloodType = updated.BloodType
	patient.Allergies = updated.Allergies

	if err := u.patientRepo.Update(tx, patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, storageError(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionPatientUpdate, "patient", patient.ID, old, patient); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	return converter.PatientToResponse(patient, u.clock.Today()), nil
}

// Delete hides the patient. It is refused while scheduled appointments still
// reference them.
func (u *patientUsecase) Delete(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(forUpdate(tx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient by id: %+v", err)
		return storageError(err)
	}
	if patient == nil || !patient.Active {
		return ErrPatientNotFound
	}

	pending, err := u.appointmentRepo.CountScheduledByPatient(tx, id)
	if err != nil {
		u.log.Warnf("Failed to count patient appointments: %+v", err)
		return storageError(err)
	}
	if pending > 0 {
		return ErrPatientHasAppointments
	}

	if _, err := u.patientRepo.SoftDelete(tx, id); err != nil {
		u.log.Warnf("Failed to delete patient: %+v", err)
		return storageError(err)
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionPatientDelete, "patient", id, patient); err != nil {
		return storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storageError(err)
	}

	u.log.Infof("Patient %d deleted", id)
	return nil
}

// GetByID resolves inactive patients as well; the response carries the flag.
func (u *patientUsecase) GetByID(ctx context.Context, id int64) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient by id: %+v", err)
		return nil, storageError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient, u.clock.Today()), nil
}

func (u *patientUsecase) GetAll(ctx context.Context) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.FindAllActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all patients: %+v", err)
		return nil, storageError(err)
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients, u.clock.Today()),
		Total:    len(patients),
	}, nil
}

func (u *patientUsecase) Search(ctx context.Context, term string) (*dto.PatientListResponse, error) {
	if strings.TrimSpace(term) == "" {
		return u.GetAll(ctx)
	}

	patients, err := u.patientRepo.Search(u.db.WithContext(ctx), term)
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, storageError(err)
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients, u.clock.Today()),
		Total:    len(patients),
	}, nil
}
