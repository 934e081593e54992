package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

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

const (
	maxRecordNumberAttempts = 3
	recentRecordsLimit      = 10
	minDiagnosisLength      = 10
)

// errRecordNumberTaken means a concurrent compile claimed the number first.
var errRecordNumberTaken = errors.New("record number taken")

type ClinicalRecordUsecase interface {
	Compile(ctx context.Context, req *dto.CompileRecordRequest) (*dto.ClinicalRecordResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateRecordRequest) (*dto.ClinicalRecordResponse, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*dto.ClinicalRecordResponse, error)
	GetAll(ctx context.Context) (*dto.ClinicalRecordListResponse, error)
	GetRecent(ctx context.Context) (*dto.ClinicalRecordListResponse, error)
	GetByPatient(ctx context.Context, patientID int64) (*dto.ClinicalRecordListResponse, error)
	GetByPractitioner(ctx context.Context, practitionerID int64) (*dto.ClinicalRecordListResponse, error)
	Search(ctx context.Context, term string) (*dto.ClinicalRecordListResponse, error)
	Render(ctx context.Context, id int64) (*service.Document, error)
}

type clinicalRecordUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validator        *validator.CustomValidator
	clock            Clock
	clinicName       string
	metrics          *metrics.Metrics
	recordRepo       repository.ClinicalRecordRepository
	examinationRepo  repository.ExaminationRepository
	patientRepo      repository.PatientRepository
	practitionerRepo repository.PractitionerRepository
	auditService     service.AuditService
	renderer         service.ReportRenderer
}

func NewClinicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	clock Clock,
	clinicName string,
	metrics *metrics.Metrics,
	recordRepo repository.ClinicalRecordRepository,
	examinationRepo repository.ExaminationRepository,
	patientRepo repository.PatientRepository,
	practitionerRepo repository.PractitionerRepository,
	auditService service.AuditService,
	renderer service.ReportRenderer,
) ClinicalRecordUsecase {
	return &clinicalRecordUsecase{
		db:               db,
		log:              log,
		validator:        validator,
		clock:            clock,
		clinicName:       clinicName,
		metrics:          metrics,
		recordRepo:       recordRepo,
		examinationRepo:  examinationRepo,
		patientRepo:      patientRepo,
		practitionerRepo: practitionerRepo,
		auditService:     auditService,
		renderer:         renderer,
	}
}

func normalizeDetails(d *dto.RecordDetails) {
	d.SecondaryDiagnoses = trimOptional(d.SecondaryDiagnoses)
	d.TreatmentPlan = trimOptional(d.TreatmentPlan)
	d.PrescribedMedication = trimOptional(d.PrescribedMedication)
	d.ClinicalNotes = trimOptional(d.ClinicalNotes)
	d.Recommendations = trimOptional(d.Recommendations)
}

func applyDetails(r *entity.ClinicalRecord, d *dto.RecordDetails) {
	r.SecondaryDiagnoses = d.SecondaryDiagnoses
	r.TreatmentPlan = d.TreatmentPlan
	r.PrescribedMedication = d.PrescribedMedication
	r.ClinicalNotes = d.ClinicalNotes
	r.Recommendations = d.Recommendations
}

// Compile turns an examination into a numbered clinical record. The
// existence check, numbering and insert run in one transaction; losing a
// race for the number retries with the next one.
func (u *clinicalRecordUsecase) Compile(ctx context.Context, req *dto.CompileRecordRequest) (*dto.ClinicalRecordResponse, error) {
	req.PrimaryDiagnosis = strings.TrimSpace(req.PrimaryDiagnosis)
	normalizeDetails(&req.RecordDetails)

	if errs := validate(u.validator, req); len(errs) > 0 {
		return nil, errs
	}

	for attempt := 1; attempt <= maxRecordNumberAttempts; attempt++ {
		record, err := u.compileOnce(ctx, req)
		if errors.Is(err, errRecordNumberTaken) {
			u.log.Warnf("Record number collision on attempt %d for examination %d", attempt, req.ExaminationID)
			continue
		}
		if err != nil {
			return nil, err
		}

		u.metrics.ClinicalRecordsCompiled.Inc()
		u.log.Infof("Clinical record %s compiled from examination %d", record.RecordNumber, record.ExaminationID)
		return u.GetByID(ctx, record.ID)
	}

	return nil, ErrRecordNumberExhausted
}

func (u *clinicalRecordUsecase) compileOnce(ctx context.Context, req *dto.CompileRecordRequest) (*entity.ClinicalRecord, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exam, err := u.examinationRepo.FindByID(tx, req.ExaminationID)
	if err != nil {
		u.log.Warnf("Failed to find examination by id: %+v", err)
		return nil, storageError(err)
	}
	if exam == nil || !exam.Active {
		return nil, ValidationError{"examination_id": "examination does not exist"}
	}

	record := &entity.ClinicalRecord{
		ExaminationID:    exam.ID,
		PatientID:        req.PatientID,
		PractitionerID:   req.PractitionerID,
		PrimaryDiagnosis: req.PrimaryDiagnosis,
		Active:           true,
	}
	applyDetails(record, &req.RecordDetails)

	if record.PatientID == 0 {
		record.PatientID = exam.PatientID
	}
	if record.PractitionerID == 0 {
		record.PractitionerID = exam.PractitionerID
	}
	if record.PrimaryDiagnosis == "" {
		record.PrimaryDiagnosis = strings.TrimSpace(exam.Diagnosis)
	}

	errs := ValidationError{}
	if record.PatientID != exam.PatientID {
		errs["patient_id"] = "patient does not match the examination"
	}
	if record.PractitionerID != exam.PractitionerID {
		errs["practitioner_id"] = "practitioner does not match the examination"
	}
	if utf8.RuneCountInString(record.PrimaryDiagnosis) < minDiagnosisLength {
		errs["primary_diagnosis"] = "primary_diagnosis must be at least 10 characters"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	exists, err := u.recordRepo.ExistsForExamination(tx, exam.ID)
	if err != nil {
		u.log.Warnf("Failed to check clinical record existence: %+v", err)
		return nil, storageError(err)
	}
	if exists {
		return nil, ErrRecordExists
	}

	year := u.clock.Now().Year()
	last, err := u.recordRepo.LastNumberForYear(tx, year)
	if err != nil {
		u.log.Warnf("Failed to read last record number: %+v", err)
		return nil, storageError(err)
	}
	record.RecordNumber = entity.NextRecordNumber(year, last)

	if err := u.recordRepo.Create(tx, record); err != nil {
		return nil, u.createError(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionRecordCreate, "clinical_record", record.ID, record); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, u.createError(err)
	}

	return record, nil
}

func (u *clinicalRecordUsecase) createError(err error) error {
	switch {
	case isDuplicateKeyError(err, "examination_id"):
		return ErrRecordExists
	case isDuplicateKeyError(err, "record_number"):
		return errRecordNumberTaken
	}
	u.log.Warnf("Failed to create clinical record: %+v", err)
	return storageError(err)
}

// Update overwrites the record's clinical fields. The record number and the
// examination it came from never change.
func (u *clinicalRecordUsecase) Update(ctx context.Context, id int64, req *dto.UpdateRecordRequest) (*dto.ClinicalRecordResponse, error) {
	req.PrimaryDiagnosis = strings.TrimSpace(req.PrimaryDiagnosis)
	normalizeDetails(&req.RecordDetails)

	if errs := validate(u.validator, req); len(errs) > 0 {
		return nil, errs
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.recordRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find clinical record by id: %+v", err)
		return nil, storageError(err)
	}
	if record == nil || !record.Active {
		return nil, ErrClinicalRecordNotFound
	}

	record.Patient, record.Practitioner, record.Examination = nil, nil, nil
	old := *record

	record.PrimaryDiagnosis = req.PrimaryDiagnosis
	applyDetails(record, &req.RecordDetails)

	if err := u.recordRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to update clinical record: %+v", err)
		return nil, storageError(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionRecordUpdate, "clinical_record", id, old, record); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	return u.GetByID(ctx, id)
}

func (u *clinicalRecordUsecase) Delete(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.recordRepo.SoftDelete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete clinical record: %+v", err)
		return storageError(err)
	}
	if rows == 0 {
		return ErrClinicalRecordNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionRecordDelete, "clinical_record", id, nil); err != nil {
		return storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storageError(err)
	}

	u.log.Infof("Clinical record %d deleted", id)
	return nil
}

// GetByID resolves hidden records as well; the response carries the flag.
func (u *clinicalRecordUsecase) GetByID(ctx context.Context, id int64) (*dto.ClinicalRecordResponse, error) {
	record, err := u.recordRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find clinical record by id: %+v", err)
		return nil, storageError(err)
	}
	if record == nil {
		return nil, ErrClinicalRecordNotFound
	}

	return converter.ClinicalRecordToResponse(record), nil
}

func recordList(records []entity.ClinicalRecord) *dto.ClinicalRecordListResponse {
	return &dto.ClinicalRecordListResponse{
		Records: converter.ClinicalRecordsToResponses(records),
		Total:   len(records),
	}
}

func (u *clinicalRecordUsecase) GetAll(ctx context.Context) (*dto.ClinicalRecordListResponse, error) {
	records, err := u.recordRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all clinical records: %+v", err)
		return nil, storageError(err)
	}
	return recordList(records), nil
}

func (u *clinicalRecordUsecase) GetRecent(ctx context.Context) (*dto.ClinicalRecordListResponse, error) {
	records, err := u.recordRepo.FindRecent(u.db.WithContext(ctx), recentRecordsLimit)
	if err != nil {
		u.log.Warnf("Failed to find recent clinical records: %+v", err)
		return nil, storageError(err)
	}
	return recordList(records), nil
}

func (u *clinicalRecordUsecase) GetByPatient(ctx context.Context, patientID int64) (*dto.ClinicalRecordListResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient by id: %+v", err)
		return nil, storageError(err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	records, err := u.recordRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient clinical records: %+v", err)
		return nil, storageError(err)
	}
	return recordList(records), nil
}

func (u *clinicalRecordUsecase) GetByPractitioner(ctx context.Context, practitionerID int64) (*dto.ClinicalRecordListResponse, error) {
	db := u.db.WithContext(ctx)

	practitioner, err := u.practitionerRepo.FindByID(db, practitionerID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner by id: %+v", err)
		return nil, storageError(err)
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}

	records, err := u.recordRepo.FindByPractitionerID(db, practitionerID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner clinical records: %+v", err)
		return nil, storageError(err)
	}
	return recordList(records), nil
}

func (u *clinicalRecordUsecase) Search(ctx context.Context, term string) (*dto.ClinicalRecordListResponse, error) {
	if strings.TrimSpace(term) == "" {
		return u.GetAll(ctx)
	}

	records, err := u.recordRepo.Search(u.db.WithContext(ctx), term)
	if err != nil {
		u.log.Warnf("Failed to search clinical records: %+v", err)
		return nil, storageError(err)
	}
	return recordList(records), nil
}

// Render produces the record's report: the examination report followed by
// the record's own fields.
func (u *clinicalRecordUsecase) Render(ctx context.Context, id int64) (*service.Document, error) {
	record, err := u.recordRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find clinical record by id: %+v", err)
		return nil, &RenderError{Err: storageError(err)}
	}
	if record == nil || !record.Active || record.Examination == nil {
		return nil, &RenderError{Err: ErrClinicalRecordNotFound}
	}

	exam := record.Examination
	exam.Patient = record.Patient
	exam.Practitioner = record.Practitioner

	doc, err := u.renderer.Render(recordReport(u.clinicName, record, exam))
	if err != nil {
		u.metrics.ReportsRendered.WithLabelValues(metrics.ResultFailure).Inc()
		u.log.Warnf("Failed to render clinical record %d: %+v", id, err)
		return nil, &RenderError{ExaminationID: exam.ID, Err: err}
	}

	u.metrics.ReportsRendered.WithLabelValues(metrics.ResultSuccess).Inc()
	doc.Filename = RecordReportFilename(exam.ID)
	return doc, nil
}
