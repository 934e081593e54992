package usecase

import (
	"context"
	"errors"
	"testing"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExaminationUsecase_Record(t *testing.T) {
	f := newFixture(t)
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")

	exam := f.recordExam(t, patient.ID, d.ID)
	assert.Equal(t, "2026-03-10", exam.Date)
	assert.Equal(t, "Ana Lopez", exam.PatientName)
	require.NotNil(t, exam.Vitals.TemperatureC)
	assert.Equal(t, "36.5", *exam.Vitals.TemperatureC)
	assert.Nil(t, exam.Vitals.WeightKg, "absent vitals stay absent")
	assert.True(t, exam.Active)
}

func TestExaminationUsecase_VitalBoundaries(t *testing.T) {
	f := newFixture(t)
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")

	cases := []struct {
		name   string
		vitals dto.VitalsRequest
		field  string
	}{
		{"temperature at the ceiling", dto.VitalsRequest{TemperatureC: ptr(45.0)}, ""},
		{"temperature above the ceiling", dto.VitalsRequest{TemperatureC: ptr(46.0)}, "temperature_c"},
		{"zero weight", dto.VitalsRequest{WeightKg: ptr(0.0)}, "weight_kg"},
		{"saturation over 100", dto.VitalsRequest{OxygenSaturation: ptr(101.0)}, "oxygen_saturation"},
		{"slow heart", dto.VitalsRequest{HeartRateBPM: ptr(20)}, "heart_rate_bpm"},
		{"nothing measured", dto.VitalsRequest{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := notes()
			n.Vitals = tc.vitals
			_, err := f.examinations.Record(context.Background(), &dto.ExaminationRequest{
				PatientID:            patient.ID,
				PractitionerID:       d.ID,
				Date:                 "2026-03-10",
				ClinicalNotesRequest: n,
			})
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, validationFields(t, err), tc.field)
		})
	}
}

func TestExaminationUsecase_RecordFromAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	a := f.schedule(t, patient.ID, d.ID, "2026-03-10", "10:00")

	n := notes()
	exam, err := f.examinations.RecordFromAppointment(ctx, a.ID, &n)
	require.NoError(t, err)
	require.NotNil(t, exam.AppointmentID)
	assert.Equal(t, a.ID, *exam.AppointmentID)
	assert.Equal(t, patient.ID, exam.PatientID)
	assert.Equal(t, "2026-03-10", exam.Date)

	got, err := f.appointments.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)

	n = notes()
	_, err = f.examinations.RecordFromAppointment(ctx, a.ID, &n)
	assert.ErrorIs(t, err, ErrExaminationExists)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestExaminationUsecase_RecordFromCancelledAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	a := f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")
	_, err := f.appointments.Cancel(ctx, a.ID)
	require.NoError(t, err)

	n := notes()
	_, err = f.examinations.RecordFromAppointment(ctx, a.ID, &n)
	assert.ErrorIs(t, err, ErrAppointmentClosed)

	_, err = f.examinations.RecordFromAppointment(ctx, 999, &n)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExaminationUsecase_AppointmentMustMatchParties(t *testing.T) {
	f := newFixture(t)
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	other := f.createPractitioner(t, "7654321", "LOAA900101AB2")
	a := f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")

	_, err := f.examinations.Record(context.Background(), &dto.ExaminationRequest{
		AppointmentID:        &a.ID,
		PatientID:            patient.ID,
		PractitionerID:       other.ID,
		Date:                 "2026-03-11",
		ClinicalNotesRequest: notes(),
	})
	assert.Contains(t, validationFields(t, err), "appointment_id")
}

func TestExaminationUsecase_UpdateKeepsAppointmentLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	exam := f.recordExam(t, patient.ID, d.ID)

	req := &dto.ExaminationRequest{
		PatientID:            patient.ID,
		PractitionerID:       d.ID,
		Date:                 "2026-03-09",
		ClinicalNotesRequest: notes(),
	}
	req.Diagnosis = "Migraña sin aura confirmada"

	updated, err := f.examinations.Update(ctx, exam.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Migraña sin aura confirmada", updated.Diagnosis)
	assert.Equal(t, "2026-03-09", updated.Date)

	req.AppointmentID = ptr(int64(1))
	_, err = f.examinations.Update(ctx, exam.ID, req)
	assert.Contains(t, validationFields(t, err), "appointment_id")
}

func TestExaminationUsecase_DeleteHidesFromListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	exam := f.recordExam(t, patient.ID, d.ID)

	require.NoError(t, f.examinations.Delete(ctx, exam.ID))
	assert.ErrorIs(t, f.examinations.Delete(ctx, exam.ID), ErrExaminationNotFound)

	list, err := f.examinations.GetByPatient(ctx, patient.ID)
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	got, err := f.examinations.GetByID(ctx, exam.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	_, err = f.examinations.Update(ctx, exam.ID, &dto.ExaminationRequest{
		PatientID: patient.ID, PractitionerID: d.ID, Date: "2026-03-10", ClinicalNotesRequest: notes(),
	})
	assert.ErrorIs(t, err, ErrExaminationNotFound)
}

func TestExaminationUsecase_Render(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	exam := f.recordExam(t, patient.ID, d.ID)

	doc, err := f.examinations.Render(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, ExaminationReportFilename(exam.ID), doc.Filename)
	assert.Equal(t, service.ContentTypePDF, doc.ContentType)
	assert.True(t, len(doc.Body) > 0)

	in := f.renderer.last
	assert.Equal(t, "Clínica Central", in.ClinicName)
	assert.Equal(t, "10/03/2026", in.ExamDate)
	assert.Contains(t, in.Patient, service.ReportField{Label: "Edad", Value: "35 años"})
	assert.Contains(t, in.Vitals, service.ReportField{Label: "Peso", Value: service.NotRecorded})
	assert.Contains(t, in.Vitals, service.ReportField{Label: "Frecuencia cardiaca", Value: "72 lpm"})
}

func TestExaminationUsecase_RenderFailureCarriesID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	exam := f.recordExam(t, patient.ID, d.ID)

	boom := errors.New("font missing")
	f.renderer.fail = boom

	_, err := f.examinations.Render(ctx, exam.ID)
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, exam.ID, rerr.ExaminationID)
	assert.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, boom)

	// The examination itself is untouched.
	got, err := f.examinations.GetByID(ctx, exam.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	_, err = f.examinations.Render(ctx, 999)
	assert.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, ErrNotFound)
}
