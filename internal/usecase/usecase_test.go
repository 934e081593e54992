package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical-center/config"
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
	"medical-center/internal/infrastructure/metrics"
	"medical-center/internal/repository"
	"medical-center/internal/service"
	"medical-center/internal/testutil"
	"medical-center/pkg/jwt"
	"medical-center/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Tuesday morning in the clinic's zone.
var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	clock    *testutil.Clock
	metrics  *metrics.Metrics
	redis    *miniredis.Miniredis
	sessions service.SessionStore
	jwt      *jwt.JWTService
	renderer *stubRenderer

	patients      PatientUsecase
	practitioners PractitionerUsecase
	appointments  AppointmentUsecase
	examinations  ExaminationUsecase
	records       ClinicalRecordUsecase
	auth          AuthUsecase
	users         UserUsecase
	auditLogs     AuditLogUsecase
}

// stubRenderer wraps the real PDF renderer and can be told to fail.
type stubRenderer struct {
	fail  error
	last  service.ReportInput
	pdf   service.ReportRenderer
	calls int
}

func (r *stubRenderer) Render(in service.ReportInput) (*service.Document, error) {
	r.calls++
	r.last = in
	if r.fail != nil {
		return nil, r.fail
	}
	return r.pdf.Render(in)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	v := validator.NewValidator("MX")
	clk := testutil.NewClock(testNow)
	clock := NewClock(clk.Now, time.UTC)
	m := metrics.New(nil)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := service.NewRedisSessionStore(client, log)

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
	renderer := &stubRenderer{pdf: service.NewPDFRenderer()}

	patientRepo := repository.NewPatientRepository()
	practitionerRepo := repository.NewPractitionerRepository()
	credentialRepo := repository.NewCredentialRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	examinationRepo := repository.NewExaminationRepository()
	recordRepo := repository.NewClinicalRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	audit := service.NewAuditService(log, auditLogRepo)

	return &fixture{
		db:       db,
		clock:    clk,
		metrics:  m,
		redis:    mr,
		sessions: sessions,
		jwt:      jwtService,
		renderer: renderer,

		patients:      NewPatientUsecase(db, log, v, clock, patientRepo, appointmentRepo, audit),
		practitioners: NewPractitionerUsecase(db, log, v, practitionerRepo, credentialRepo, appointmentRepo, audit, sessions),
		appointments:  NewAppointmentUsecase(db, log, v, clock, 10, m, appointmentRepo, patientRepo, practitionerRepo, audit),
		examinations:  NewExaminationUsecase(db, log, v, clock, "Clínica Central", m, examinationRepo, appointmentRepo, patientRepo, practitionerRepo, audit, renderer),
		records:       NewClinicalRecordUsecase(db, log, v, clock, "Clínica Central", m, recordRepo, examinationRepo, patientRepo, practitionerRepo, audit, renderer),
		auth:          NewAuthUsecase(db, log, v, m, credentialRepo, audit, jwtService, sessions),
		users:         NewUserUsecase(db, log, v, credentialRepo, audit, sessions),
		auditLogs:     NewAuditLogUsecase(db, log, v, auditLogRepo),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func patientRequest() *dto.PatientRequest {
	return &dto.PatientRequest{
		FirstName: "Ana",
		LastName:  "Lopez",
		BirthDate: "1990-05-01",
		Gender:    "F",
		BloodType: "O+",
	}
}

func (f *fixture) createPatient(t *testing.T) *dto.PatientResponse {
	t.Helper()
	p, err := f.patients.Create(context.Background(), patientRequest())
	require.NoError(t, err)
	return p
}

func practitionerRequest(license, rfc string) *dto.CreatePractitionerRequest {
	return &dto.CreatePractitionerRequest{
		PractitionerRequest: dto.PractitionerRequest{
			FirstName:     "Jose",
			PaternalName:  "Perez",
			MaternalName:  ptr("Garcia"),
			Specialty:     "Medicina General",
			LicenseNumber: license,
			Email:         ptr("jose.perez@example.com"),
			RFC:           rfc,
			Phone:         "5512345678",
		},
		Password:             "s3cret-pass",
		PasswordConfirmation: "s3cret-pass",
	}
}

func (f *fixture) createPractitioner(t *testing.T, license, rfc string) *dto.PractitionerResponse {
	t.Helper()
	p, err := f.practitioners.Create(context.Background(), practitionerRequest(license, rfc))
	require.NoError(t, err)
	return p
}

func (f *fixture) schedule(t *testing.T, patientID, practitionerID int64, date, tm string) *dto.AppointmentResponse {
	t.Helper()
	a, err := f.appointments.Schedule(context.Background(), &dto.AppointmentRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           date,
		Time:           tm,
		Reason:         "Annual checkup visit",
	})
	require.NoError(t, err)
	return a
}

func notes() dto.ClinicalNotesRequest {
	return dto.ClinicalNotesRequest{
		Vitals: dto.VitalsRequest{
			TemperatureC: ptr(36.5),
			HeartRateBPM: ptr(72),
		},
		Symptoms:  "Dolor de cabeza persistente",
		Diagnosis: "Cefalea tensional leve",
		Treatment: "Paracetamol 500mg cada 8 horas",
	}
}

func (f *fixture) recordExam(t *testing.T, patientID, practitionerID int64) *dto.ExaminationResponse {
	t.Helper()
	e, err := f.examinations.Record(context.Background(), &dto.ExaminationRequest{
		PatientID:            patientID,
		PractitionerID:       practitionerID,
		Date:                 "2026-03-10",
		ClinicalNotesRequest: notes(),
	})
	require.NoError(t, err)
	return e
}

func validationFields(t *testing.T, err error) ValidationError {
	t.Helper()
	var verr ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr
}

func entityPrincipal(id int64, privilege int) entity.Principal {
	return entity.Principal{CredentialID: id, Privilege: privilege, TokenID: "t-1"}
}
