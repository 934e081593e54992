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

type AppointmentUsecase interface {
	Schedule(ctx context.Context, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, id int64, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id int64) (*dto.AppointmentActionResponse, error)
	Complete(ctx context.Context, id int64) (*dto.AppointmentActionResponse, error)
	Remove(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*dto.AppointmentResponse, error)
	GetAll(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetUpcoming(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetByPatient(ctx context.Context, patientID int64) (*dto.AppointmentListResponse, error)
	GetByPractitioner(ctx context.Context, practitionerID int64) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validator        *validator.CustomValidator
	clock            Clock
	upcomingLimit    int
	metrics          *metrics.Metrics
	appointmentRepo  repository.AppointmentRepository
	patientRepo      repository.PatientRepository
	practitionerRepo repository.PractitionerRepository
	auditService     service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	clock Clock,
	upcomingLimit int,
	metrics *metrics.Metrics,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	practitionerRepo repository.PractitionerRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	if upcomingLimit <= 0 {
		upcomingLimit = 10
	}
	return &appointmentUsecase{
		db:               db,
		log:              log,
		validator:        validator,
		clock:            clock,
		upcomingLimit:    upcomingLimit,
		metrics:          metrics,
		appointmentRepo:  appointmentRepo,
		patientRepo:      patientRepo,
		practitionerRepo: practitionerRepo,
		auditService:     auditService,
	}
}

// checkRequest validates an appointment request against the clinic clock and
// the registries. whole is the struct carrying the tags, which may embed req.
func (u *appointmentUsecase) checkRequest(tx *gorm.DB, whole interface{}, req *dto.AppointmentRequest) (ValidationError, error) {
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Reason = strings.TrimSpace(req.Reason)

	errs := validate(u.validator, whole)

	if _, bad := errs["date"]; !bad {
		today := u.clock.TodayString()
		switch {
		case req.Date < today:
			errs["date"] = "date cannot be in the past"
		case req.Date == today:
			if _, bad := errs["time"]; !bad && req.Time < u.clock.TimeString() {
				errs["time"] = "time has already passed today"
			}
		}
	}

	if _, bad := errs["patient_id"]; !bad {
		patient, err := u.patientRepo.FindByID(forUpdate(tx), req.PatientID)
		if err != nil {
			u.log.Warnf("Failed to find patient by id: %+v", err)
			return nil, storageError(err)
		}
		if patient == nil || !patient.Active {
			errs["patient_id"] = "patient does not exist or is inactive"
		}
	}

	if _, bad := errs["practitioner_id"]; !bad {
		practitioner, err := u.practitionerRepo.FindByID(forUpdate(tx), req.PractitionerID)
		if err != nil {
			u.log.Warnf("Failed to find practitioner by id: %+v", err)
			return nil, storageError(err)
		}
		if practitioner == nil || !practitioner.Active {
			errs["practitioner_id"] = "practitioner does not exist or is inactive"
		}
	}

	return errs, nil
}

func (u *appointmentUsecase) slotTaken() error {
	u.metrics.AppointmentConflicts.Inc()
	return ErrSlotTaken
}

// Schedule books a slot. The availability check and the insert share one
// transaction, and the slot index turns a lost race into ErrSlotTaken.
func (u *appointmentUsecase) Schedule(ctx context.Context, req *dto.AppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	errs, err := u.checkRequest(tx, req, req)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	taken, err := u.appointmentRepo.IsSlotTaken(tx, req.PractitionerID, req.Date, req.Time, 0)
	if err != nil {
		u.log.Warnf("Failed to check slot availability: %+v", err)
		return nil, storageError(err)
	}
	if taken {
		return nil, u.slotTaken()
	}

	appointment := &entity.Appointment{
		PatientID:      req.PatientID,
		PractitionerID: req.PractitionerID,
		Date:           req.Date,
		Time:           req.Time,
		Reason:         req.Reason,
		Status:         entity.AppointmentStatusScheduled,
		Active:         true,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "") {
			return nil, u.slotTaken()
		}
		if isForeignKeyError(err, "") {
			return nil, ValidationError{"patient_id": "patient does not exist or is inactive"}
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, storageError(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionAppointmentCreate, "appointment", appointment.ID, appointment); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, "") {
			return nil, u.slotTaken()
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.metrics.AppointmentsScheduled.Inc()
	u.log.Infof("Appointment %d scheduled for practitioner %d at %s %s", appointment.ID, appointment.PractitionerID, appointment.Date, appointment.Time)
	return u.GetByID(ctx, appointment.ID)
}

// Reschedule overwrites every field of a visible appointment, re-running the
// full validation. The appointment's own slot does not count against it.
// Completed and cancelled are final: their other fields may still be edited,
// but the status may not move.
func (u *appointmentUsecase) Reschedule(ctx context.Context, id int64, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment by id: %+v", err)
		return nil, storageError(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	errs, err := u.checkRequest(tx, req, &req.AppointmentRequest)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	status := entity.AppointmentStatus(req.Status)
	if appointment.IsTerminal() && status != appointment.Status {
		return nil, ErrAppointmentFinalized
	}
	if status != entity.AppointmentStatusCancelled {
		taken, err := u.appointmentRepo.IsSlotTaken(tx, req.PractitionerID, req.Date, req.Time, id)
		if err != nil {
			u.log.Warnf("Failed to check slot availability: %+v", err)
			return nil, storageError(err)
		}
		if taken {
			return nil, u.slotTaken()
		}
	}

	old := *appointment
	old.Patient, old.Practitioner = nil, nil

	appointment.PatientID = req.PatientID
	appointment.PractitionerID = req.PractitionerID
	appointment.Date = req.Date
	appointment.Time = req.Time
	appointment.Reason = req.Reason
	appointment.Status = status
	appointment.Patient, appointment.Practitioner = nil, nil

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "") {
			return nil, u.slotTaken()
		}
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, storageError(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionAppointmentUpdate, "appointment", id, old, appointment); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	return u.GetByID(ctx, id)
}

func (u *appointmentUsecase) Cancel(ctx context.Context, id int64) (*dto.AppointmentActionResponse, error) {
	return u.transition(ctx, id, entity.AppointmentStatusCancelled, entity.AuditActionAppointmentCancel)
}

func (u *appointmentUsecase) Complete(ctx context.Context, id int64) (*dto.AppointmentActionResponse, error) {
	return u.transition(ctx, id, entity.AppointmentStatusCompleted, entity.AuditActionAppointmentComplete)
}

// transition moves a scheduled appointment to a terminal status. Applying it
// to an already terminal appointment is a no-op.
func (u *appointmentUsecase) transition(ctx context.Context, id int64, status entity.AppointmentStatus, action string) (*dto.AppointmentActionResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.appointmentRepo.TransitionStatus(tx, id, status)
	if err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, storageError(err)
	}

	if rows == 0 {
		appointment, err := u.appointmentRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find appointment by id: %+v", err)
			return nil, storageError(err)
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		return &dto.AppointmentActionResponse{
			Appointment: *converter.AppointmentToResponse(appointment),
			Changed:     false,
		}, nil
	}

	metadata := map[string]string{"status": string(status)}
	if err := u.auditService.LogUpdate(ctx, tx, action, "appointment", id, map[string]string{"status": string(entity.AppointmentStatusScheduled)}, metadata); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Appointment %d %s", id, status)

	appointment, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.AppointmentActionResponse{Appointment: *appointment, Changed: true}, nil
}

// Remove hides the appointment. It reports false, without error, when there
// was nothing visible to remove.
func (u *appointmentUsecase) Remove(ctx context.Context, id int64) (bool, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.appointmentRepo.SoftDelete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete appointment: %+v", err)
		return false, storageError(err)
	}
	if rows == 0 {
		return false, nil
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionAppointmentDelete, "appointment", id, nil); err != nil {
		return false, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return false, storageError(err)
	}

	u.log.Infof("Appointment %d removed", id)
	return true, nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment by id: %+v", err)
		return nil, storageError(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func appointmentList(appointments []entity.Appointment) *dto.AppointmentListResponse {
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}
}

func (u *appointmentUsecase) GetAll(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all appointments: %+v", err)
		return nil, storageError(err)
	}
	return appointmentList(appointments), nil
}

func (u *appointmentUsecase) GetUpcoming(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindUpcoming(u.db.WithContext(ctx), u.clock.TodayString(), u.upcomingLimit)
	if err != nil {
		u.log.Warnf("Failed to find upcoming appointments: %+v", err)
		return nil, storageError(err)
	}
	return appointmentList(appointments), nil
}

func (u *appointmentUsecase) GetByPatient(ctx context.Context, patientID int64) (*dto.AppointmentListResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient by id: %+v", err)
		return nil, storageError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointments, err := u.appointmentRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient appointments: %+v", err)
		return nil, storageError(err)
	}
	return appointmentList(appointments), nil
}

func (u *appointmentUsecase) GetByPractitioner(ctx context.Context, practitionerID int64) (*dto.AppointmentListResponse, error) {
	db := u.db.WithContext(ctx)

	practitioner, err := u.practitionerRepo.FindByID(db, practitionerID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner by id: %+v", err)
		return nil, storageError(err)
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}

	appointments, err := u.appointmentRepo.FindByPractitionerID(db, practitionerID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner appointments: %+v", err)
		return nil, storageError(err)
	}
	return appointmentList(appointments), nil
}
