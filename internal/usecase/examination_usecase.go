package usecase

import (
	"context"
	"strings"

	"medical-center/internal/converter"
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
	"medical-center/internal/domain/repository"
	"medical-center/internal/infrastructure/metrics"
	"medical-center/internal/service"
	"medical-center/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ExaminationUsecase interface {
	Record(ctx context.Context, req *dto.ExaminationRequest) (*dto.ExaminationResponse, error)
	RecordFromAppointment(ctx context.Context, appointmentID int64, req *dto.ClinicalNotesRequest) (*dto.ExaminationResponse, error)
	Update(ctx context.Context, id int64, req *dto.ExaminationRequest) (*dto.ExaminationResponse, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*dto.ExaminationResponse, error)
	GetAll(ctx context.Context) (*dto.ExaminationListResponse, error)
	GetByPatient(ctx context.Context, patientID int64) (*dto.ExaminationListResponse, error)
	GetByPractitioner(ctx context.Context, practitionerID int64) (*dto.ExaminationListResponse, error)
	Render(ctx context.Context, id int64) (*service.Document, error)
}

type examinationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validator        *validator.CustomValidator
	clock            Clock
	clinicName       string
	metrics          *metrics.Metrics
	examinationRepo  repository.ExaminationRepository
	appointmentRepo  repository.AppointmentRepository
	patientRepo      repository.PatientRepository
	practitionerRepo repository.PractitionerRepository
	auditService     service.AuditService
	renderer         service.ReportRenderer
}

func NewExaminationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	clock Clock,
	clinicName string,
	metrics *metrics.Metrics,
	examinationRepo repository.ExaminationRepository,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	practitionerRepo repository.PractitionerRepository,
	auditService service.AuditService,
	renderer service.ReportRenderer,
) ExaminationUsecase {
	return &examinationUsecase{
		db:               db,
		log:              log,
		validator:        validator,
		clock:            clock,
		clinicName:       clinicName,
		metrics:          metrics,
		examinationRepo:  examinationRepo,
		appointmentRepo:  appointmentRepo,
		patientRepo:      patientRepo,
		practitionerRepo: practitionerRepo,
		auditService:     auditService,
		renderer:         renderer,
	}
}

func normalizeNotes(req *dto.ClinicalNotesRequest) {
	req.Symptoms = strings.TrimSpace(req.Symptoms)
	req.Diagnosis = strings.TrimSpace(req.Diagnosis)
	req.Treatment = strings.TrimSpace(req.Treatment)
	req.RequestedStudies = trimOptional(req.RequestedStudies)
}

// checkRequest validates the request and its references. current is the
// examination being updated, or nil; references it already holds may point at
// parties that have since been deactivated.
func (u *examinationUsecase) checkRequest(tx *gorm.DB, req *dto.ExaminationRequest, current *entity.Examination) (*entity.Examination, error) {
	req.Date = strings.TrimSpace(req.Date)
	normalizeNotes(&req.ClinicalNotesRequest)

	errs := validate(u.validator, req)

	exam := &entity.Examination{
		AppointmentID:    req.AppointmentID,
		PatientID:        req.PatientID,
		PractitionerID:   req.PractitionerID,
		Vitals:           converter.VitalsFromRequest(req.Vitals),
		Symptoms:         req.Symptoms,
		Diagnosis:        req.Diagnosis,
		Treatment:        req.Treatment,
		RequestedStudies: req.RequestedStudies,
		Active:           true,
	}

	if _, bad := errs["date"]; !bad {
		date, err := parseDate(req.Date)
		if err != nil {
			errs["date"] = "date must use the format YYYY-MM-DD"
		} else {
			exam.Date = date
		}
	}

	if _, bad := errs["patient_id"]; !bad {
		patient, err := u.patientRepo.FindByID(tx, req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient by id: %+v", err)
			return nil, storageError(err)
		}
		kept := current != nil && current.PatientID == req.PatientID
		if patient == nil || (!patient.Active && !kept) {
			errs["patient_id"] = "patient does not exist or is inactive"
		}
	}

	if _, bad := errs["practitioner_id"]; !bad {
		practitioner, err := u.practitionerRepo.FindByID(tx, req.PractitionerID)
		if err != nil {
			u.log.Warnf("Failed to find practitioner by id: %+v", err)
			return nil, storageError(err)
		}
		kept := current != nil && current.PractitionerID == req.PractitionerID
		if practitioner == nil || (!practitioner.Active && !kept) {
			errs["practitioner_id"] = "practitioner does not exist or is inactive"
		}
	}

	if current != nil {
		if !sameID(current.AppointmentID, req.AppointmentID) {
			errs["appointment_id"] = "appointment_id cannot be changed"
		}
	} else if req.AppointmentID != nil {
		if _, bad := errs["appointment_id"]; !bad {
			if err := u.checkAppointment(tx, req, errs); err != nil {
				return nil, err
			}
		}
	}

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return exam, nil
}

// checkAppointment requires the linked appointment to be visible, not
// cancelled and booked for the same patient and practitioner.
func (u *examinationUsecase) checkAppointment(tx *gorm.DB, req *dto.ExaminationRequest, errs ValidationError) error {
	appointment, err := u.appointmentRepo.FindByID(tx, *req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment by id: %+v", err)
		return storageError(err)
	}
	switch {
	case appointment == nil:
		errs["appointment_id"] = "appointment does not exist"
	case appointment.Status == entity.AppointmentStatusCancelled:
		errs["appointment_id"] = "appointment was cancelled"
	case appointment.PatientID != req.PatientID || appointment.PractitionerID != req.PractitionerID:
		errs["appointment_id"] = "appointment belongs to a different patient or practitioner"
	}
	return nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Record stores a new examination. When it is linked to an appointment the
// appointment is completed in the same transaction.
func (u *examinationUsecase) Record(ctx context.Context, req *dto.ExaminationRequest) (*dto.ExaminationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exam, err := u.checkRequest(tx, req, nil)
	if err != nil {
		return nil, err
	}

	if exam.AppointmentID != nil {
		existing, err := u.examinationRepo.FindActiveByAppointmentID(tx, *exam.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find examination by appointment: %+v", err)
			return nil, storageError(err)
		}
		if existing != nil {
			return nil, ErrExaminationExists
		}
	}

	if err := u.examinationRepo.Create(tx, exam); err != nil {
		if isDuplicateKeyError(err, "appointment") {
			return nil, ErrExaminationExists
		}
		u.log.Warnf("Failed to create examination: %+v", err)
		return nil, storageError(err)
	}

	if exam.AppointmentID != nil {
		if _, err := u.appointmentRepo.TransitionStatus(tx, *exam.AppointmentID, entity.AppointmentStatusCompleted); err != nil {
			u.log.Warnf("Failed to complete appointment: %+v", err)
			return nil, storageError(err)
		}
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionExaminationCreate, "examination", exam.ID, exam); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.metrics.ExaminationsRecorded.Inc()
	u.log.Infof("Examination %d recorded for patient %d", exam.ID, exam.PatientID)
	return u.GetByID(ctx, exam.ID)
}

// RecordFromAppointment records today's examination for an appointment,
// taking the patient and practitioner from it.
func (u *examinationUsecase) RecordFromAppointment(ctx context.Context, appointmentID int64, req *dto.ClinicalNotesRequest) (*dto.ExaminationResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment by id: %+v", err)
		return nil, storageError(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.Status == entity.AppointmentStatusCancelled {
		return nil, ErrAppointmentClosed
	}

	return u.Record(ctx, &dto.ExaminationRequest{
		AppointmentID:        &appointment.ID,
		PatientID:            appointment.PatientID,
		PractitionerID:       appointment.PractitionerID,
		Date:                 u.clock.TodayString(),
		ClinicalNotesRequest: *req,
	})
}

// Update overwrites every field of a visible examination.
func (u *examinationUsecase) Update(ctx context.Context, id int64, req *dto.ExaminationRequest) (*dto.ExaminationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	current, err := u.examinationRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find examination by id: %+v", err)
		return nil, storageError(err)
	}
	if current == nil || !current.Active {
		return nil, ErrExaminationNotFound
	}

	exam, err := u.checkRequest(tx, req, current)
	if err != nil {
		return nil, err
	}

	old := *current
	old.Patient, old.Practitioner = nil, nil

	exam.ID = current.ID
	exam.CreatedAt = current.CreatedAt

	if err := u.examinationRepo.Update(tx, exam); err != nil {
		u.log.Warnf("Failed to update examination: %+v", err)
		return nil, storageError(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionExaminationUpdate, "examination", id, old, exam); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	return u.GetByID(ctx, id)
}

func (u *examinationUsecase) Delete(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.examinationRepo.SoftDelete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete examination: %+v", err)
		return storageError(err)
	}
	if rows == 0 {
		return ErrExaminationNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionExaminationDelete, "examination", id, nil); err != nil {
		return storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storageError(err)
	}

	u.log.Infof("Examination %d deleted", id)
	return nil
}

// GetByID resolves hidden examinations as well; the response carries the flag.
func (u *examinationUsecase) GetByID(ctx context.Context, id int64) (*dto.ExaminationResponse, error) {
	exam, err := u.examinationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find examination by id: %+v", err)
		return nil, storageError(err)
	}
	if exam == nil {
		return nil, ErrExaminationNotFound
	}

	return converter.ExaminationToResponse(exam), nil
}

func examinationList(exams []entity.Examination) *dto.ExaminationListResponse {
	return &dto.ExaminationListResponse{
		Examinations: converter.ExaminationsToResponses(exams),
		Total:        len(exams),
	}
}

func (u *examinationUsecase) GetAll(ctx context.Context) (*dto.ExaminationListResponse, error) {
	exams, err := u.examinationRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all examinations: %+v", err)
		return nil, storageError(err)
	}
	return examinationList(exams), nil
}

func (u *examinationUsecase) GetByPatient(ctx context.Context, patientID int64) (*dto.ExaminationListResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient by id: %+v", err)
		return nil, storageError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	exams, err := u.examinationRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient examinations: %+v", err)
		return nil, storageError(err)
	}
	return examinationList(exams), nil
}

func (u *examinationUsecase) GetByPractitioner(ctx context.Context, practitionerID int64) (*dto.ExaminationListResponse, error) {
	db := u.db.WithContext(ctx)

	practitioner, err := u.practitionerRepo.FindByID(db, practitionerID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner by id: %+v", err)
		return nil, storageError(err)
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}

	exams, err := u.examinationRepo.FindByPractitionerID(db, practitionerID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner examinations: %+v", err)
		return nil, storageError(err)
	}
	return examinationList(exams), nil
}

// Render produces the examination's PDF. Every failure, including an unknown
// or hidden examination, is a RenderError carrying the id.
func (u *examinationUsecase) Render(ctx context.Context, id int64) (*service.Document, error) {
	exam, err := u.examinationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find examination by id: %+v", err)
		return nil, &RenderError{ExaminationID: id, Err: storageError(err)}
	}
	if exam == nil || !exam.Active {
		return nil, &RenderError{ExaminationID: id, Err: ErrExaminationNotFound}
	}

	doc, err := u.renderer.Render(examinationReport(u.clinicName, exam))
	if err != nil {
		u.metrics.ReportsRendered.WithLabelValues(metrics.ResultFailure).Inc()
		u.log.Warnf("Failed to render examination %d: %+v", id, err)
		return nil, &RenderError{ExaminationID: id, Err: err}
	}

	u.metrics.ReportsRendered.WithLabelValues(metrics.ResultSuccess).Inc()
	doc.Filename = ExaminationReportFilename(id)
	return doc, nil
}
