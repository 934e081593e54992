package repository

import (
	"fmt"
	"testing"
	"time"

	"medical-center/internal/domain/entity"
	"medical-center/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPatient(t *testing.T, db *gorm.DB, first, last string) *entity.Patient {
	t.Helper()
	p := &entity.Patient{
		FirstName: first,
		LastName:  last,
		BirthDate: time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC),
		Gender:    entity.GenderFemale,
		BloodType: "O+",
		Active:    true,
	}
	require.NoError(t, NewPatientRepository().Create(db, p))
	return p
}

func seedPractitioner(t *testing.T, db *gorm.DB, license, specialty string) *entity.Practitioner {
	t.Helper()
	p := &entity.Practitioner{
		FirstName:     "Jose",
		PaternalName:  "Perez",
		Specialty:     specialty,
		LicenseNumber: license,
		RFC:           "PEPJ800101AB" + license[len(license)-1:],
		Phone:         "5512345678",
		Active:        true,
	}
	require.NoError(t, NewPractitionerRepository().Create(db, p))
	return p
}

func seedAppointment(t *testing.T, db *gorm.DB, patientID, practitionerID int64, date, tm string) *entity.Appointment {
	t.Helper()
	a := &entity.Appointment{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           date,
		Time:           tm,
		Reason:         "Annual checkup visit",
		Status:         entity.AppointmentStatusScheduled,
		Active:         true,
	}
	require.NoError(t, NewAppointmentRepository().Create(db, a))
	return a
}

func TestAppointmentRepository_SlotIndex(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	patient := seedPatient(t, db, "Ana", "Lopez")
	doctor := seedPractitioner(t, db, "1234567", "Cardiologia")

	first := seedAppointment(t, db, patient.ID, doctor.ID, "2030-01-10", "10:00")

	taken, err := repo.IsSlotTaken(db, doctor.ID, "2030-01-10", "10:00", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.IsSlotTaken(db, doctor.ID, "2030-01-10", "10:00", first.ID)
	require.NoError(t, err)
	assert.False(t, taken, "the appointment being edited does not block itself")

	dup := &entity.Appointment{
		PatientID: patient.ID, PractitionerID: doctor.ID, Date: "2030-01-10", Time: "10:00",
		Reason: "Second booking attempt", Status: entity.AppointmentStatusScheduled, Active: true,
	}
	err = repo.Create(db, dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")

	rows, err := repo.TransitionStatus(db, first.ID, entity.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	taken, err = repo.IsSlotTaken(db, doctor.ID, "2030-01-10", "10:00", 0)
	require.NoError(t, err)
	assert.False(t, taken, "cancelled appointments free the slot")
	require.NoError(t, repo.Create(db, dup))
}

func TestAppointmentRepository_TransitionOnlyFromScheduled(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	patient := seedPatient(t, db, "Ana", "Lopez")
	doctor := seedPractitioner(t, db, "1234567", "Cardiologia")
	a := seedAppointment(t, db, patient.ID, doctor.ID, "2030-01-10", "10:00")

	rows, err := repo.TransitionStatus(db, a.ID, entity.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.TransitionStatus(db, a.ID, entity.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	got, err := repo.FindByID(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentStatusCompleted, got.Status)
}

func TestAppointmentRepository_ListsHideInactiveParties(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	ana := seedPatient(t, db, "Ana", "Lopez")
	luis := seedPatient(t, db, "Luis", "Garcia")
	doctor := seedPractitioner(t, db, "1234567", "Cardiologia")

	seedAppointment(t, db, ana.ID, doctor.ID, "2030-01-10", "10:00")
	seedAppointment(t, db, luis.ID, doctor.ID, "2030-01-11", "09:00")
	seedAppointment(t, db, ana.ID, doctor.ID, "2030-01-09", "08:30")

	_, err := NewPatientRepository().SoftDelete(db, luis.ID)
	require.NoError(t, err)

	all, err := repo.FindAll(db)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2030-01-10", all[0].Date, "newest first")
	require.NotNil(t, all[0].Patient)
	assert.Equal(t, "Ana Lopez", all[0].Patient.FullName())

	upcoming, err := repo.FindUpcoming(db, "2030-01-01", 1)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "2030-01-09", upcoming[0].Date, "soonest first")

	count, err := repo.CountScheduledByPractitioner(db, doctor.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count, "counting ignores patient visibility")
}

func TestPatientRepository_SearchAndSoftDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPatientRepository()
	ana := seedPatient(t, db, "Ana", "Lopez")
	seedPatient(t, db, "Mariana", "Ruiz")
	seedPatient(t, db, "Pedro", "Sanchez")

	found, err := repo.Search(db, "ANA")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Search(db, "  ana lopez ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ana.ID, found[0].ID)

	seedPatient(t, db, "Sofia", "100%_Real")
	for term, want := range map[string]int{"%": 1, "_": 1, "100%_": 1, "a%z": 0, "r_iz": 0} {
		found, err = repo.Search(db, term)
		require.NoError(t, err)
		assert.Len(t, found, want, term)
	}

	rows, err := repo.SoftDelete(db, ana.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.SoftDelete(db, ana.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	found, err = repo.Search(db, "ana")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mariana", found[0].FirstName)

	byID, err := repo.FindByID(db, ana.ID)
	require.NoError(t, err)
	require.NotNil(t, byID, "inactive patients still resolve by id")
	assert.False(t, byID.Active)

	missing, err := repo.FindByID(db, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPractitionerRepository_LicenseUniqueAmongActive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPractitionerRepository()
	first := seedPractitioner(t, db, "1234567", "Cardiologia")

	dup := &entity.Practitioner{
		FirstName: "Maria", PaternalName: "Diaz", Specialty: "Pediatria",
		LicenseNumber: "1234567", RFC: "DIAM800101AB1", Phone: "5512345678", Active: true,
	}
	require.Error(t, repo.Create(db, dup))

	_, err := repo.SoftDelete(db, first.ID)
	require.NoError(t, err)

	dup.ID = 0
	require.NoError(t, repo.Create(db, dup), "a retired license can be reissued")

	found, err := repo.Search(db, "pediat")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Maria", found[0].FirstName)

	found, err = repo.Search(db, "maria diaz")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, dup.ID, found[0].ID)
}

func TestClinicalRecordRepository_LastNumberForYear(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClinicalRecordRepository()
	patient := seedPatient(t, db, "Ana", "Lopez")
	doctor := seedPractitioner(t, db, "1234567", "Cardiologia")

	last, err := repo.LastNumberForYear(db, 2026)
	require.NoError(t, err)
	assert.Equal(t, "", last)

	for i, number := range []string{"2025-0007", "2026-0009", "2026-10000", "2026-0010"} {
		exam := &entity.Examination{
			PatientID: patient.ID, PractitionerID: doctor.ID,
			Date:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			Symptoms: "Dolor de cabeza persistente", Diagnosis: "Migrana cronica leve",
			Treatment: "Reposo e hidratacion", Active: true,
		}
		require.NoError(t, NewExaminationRepository().Create(db, exam))
		require.NoError(t, repo.Create(db, &entity.ClinicalRecord{
			RecordNumber: number, ExaminationID: exam.ID, PatientID: patient.ID, PractitionerID: doctor.ID,
			PrimaryDiagnosis: fmt.Sprintf("Diagnostico numero %d", i), Active: true,
		}))

		exists, err := repo.ExistsForExamination(db, exam.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	}

	last, err = repo.LastNumberForYear(db, 2026)
	require.NoError(t, err)
	assert.Equal(t, "2026-10000", last)

	last, err = repo.LastNumberForYear(db, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0007", last)

	found, err := repo.Search(db, "2026-00")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Search(db, "lopez")
	require.NoError(t, err)
	assert.Len(t, found, 4)

	found, err = repo.Search(db, "Ana Lopez")
	require.NoError(t, err)
	assert.Len(t, found, 4)

	// Wildcards are literal: "_" would otherwise match the dash.
	for _, term := range []string{"2026_00", "%", "2026%0009"} {
		found, err = repo.Search(db, term)
		require.NoError(t, err)
		assert.Empty(t, found, term)
	}
}

func TestAuditLogRepository_Filter(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuditLogRepository()

	actor := int64(3)
	for _, l := range []entity.AuditLog{
		{Action: entity.AuditActionPatientCreate, ActorID: &actor},
		{Action: entity.AuditActionPatientUpdate},
		{Action: entity.AuditActionLogin, ActorID: &actor},
	} {
		l := l
		require.NoError(t, repo.Create(db, &l))
	}

	all, err := repo.FindAll(db, entity.AuditLogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	patient, err := repo.FindAll(db, entity.AuditLogFilter{Action: "patient"})
	require.NoError(t, err)
	assert.Len(t, patient, 2, "entity prefix matches every action of it")

	exact, err := repo.FindAll(db, entity.AuditLogFilter{Action: entity.AuditActionPatientUpdate})
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Nil(t, exact[0].ActorID)

	byActor, err := repo.FindAll(db, entity.AuditLogFilter{ActorID: actor, Limit: 1})
	require.NoError(t, err)
	require.Len(t, byActor, 1)
	assert.Equal(t, entity.AuditActionLogin, byActor[0].Action, "newest first")
}
