package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentUsecase_ScheduleShowsInUpcoming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")

	a := f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")
	assert.Equal(t, string(entity.AppointmentStatusScheduled), a.Status)
	assert.Equal(t, "Ana Lopez", a.PatientName)
	assert.Equal(t, "Jose Perez Garcia", a.PractitionerName)

	upcoming, err := f.appointments.GetUpcoming(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, upcoming.Total)
	assert.Equal(t, a.ID, upcoming.Appointments[0].ID)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.AppointmentsScheduled))
}

func TestAppointmentUsecase_ScheduleRejectsPast(t *testing.T) {
	f := newFixture(t)
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")

	cases := []struct {
		name      string
		date, tm  string
		wantField string
	}{
		{"yesterday", "2026-03-09", "10:00", "date"},
		{"earlier today", "2026-03-10", "09:00", "time"},
		{"bad time", "2026-03-11", "25:00", "time"},
		{"bad date", "11/03/2026", "10:00", "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.appointments.Schedule(context.Background(), &dto.AppointmentRequest{
				PatientID:      patient.ID,
				PractitionerID: d.ID,
				Date:           tc.date,
				Time:           tc.tm,
				Reason:         "Annual checkup visit",
			})
			assert.Contains(t, validationFields(t, err), tc.wantField)
		})
	}

	// The current minute is still bookable.
	f.schedule(t, patient.ID, d.ID, "2026-03-10", "09:30")
}

func TestAppointmentUsecase_ScheduleRejectsUnknownParties(t *testing.T) {
	f := newFixture(t)
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	require.NoError(t, f.patients.Delete(context.Background(), patient.ID))

	_, err := f.appointments.Schedule(context.Background(), &dto.AppointmentRequest{
		PatientID:      patient.ID,
		PractitionerID: d.ID + 100,
		Date:           "2026-03-11",
		Time:           "10:00",
		Reason:         "short",
	})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "patient_id")
	assert.Contains(t, fields, "practitioner_id")
	assert.Contains(t, fields, "reason")
}

func TestAppointmentUsecase_ConcurrentDoubleBooking(t *testing.T) {
	f := newFixture(t)
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")

	const attempts = 5
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.appointments.Schedule(context.Background(), &dto.AppointmentRequest{
				PatientID:      patient.ID,
				PractitionerID: d.ID,
				Date:           "2026-03-12",
				Time:           "11:30",
				Reason:         "Follow up on results",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotTaken)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, float64(attempts-1), promtest.ToFloat64(f.metrics.AppointmentConflicts))
}

func TestAppointmentUsecase_CancelledSlotIsReusable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	first := f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")

	_, err := f.appointments.Schedule(ctx, &dto.AppointmentRequest{
		PatientID: patient.ID, PractitionerID: d.ID, Date: "2026-03-11", Time: "10:00", Reason: "Another visit here",
	})
	require.ErrorIs(t, err, ErrSlotTaken)

	_, err = f.appointments.Cancel(ctx, first.ID)
	require.NoError(t, err)

	f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")
}

func TestAppointmentUsecase_Reschedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	a := f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")
	other := f.schedule(t, patient.ID, d.ID, "2026-03-11", "11:00")

	req := func(tm, status string) *dto.RescheduleAppointmentRequest {
		return &dto.RescheduleAppointmentRequest{
			AppointmentRequest: dto.AppointmentRequest{
				PatientID: patient.ID, PractitionerID: d.ID, Date: "2026-03-11", Time: tm, Reason: "Moved by the patient",
			},
			Status: status,
		}
	}

	t.Run("own slot does not conflict", func(t *testing.T) {
		got, err := f.appointments.Reschedule(ctx, a.ID, req("10:00", "scheduled"))
		require.NoError(t, err)
		assert.Equal(t, "Moved by the patient", got.Reason)
	})

	t.Run("another booking conflicts", func(t *testing.T) {
		_, err := f.appointments.Reschedule(ctx, a.ID, req("11:00", "scheduled"))
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("cancelled skips the slot check", func(t *testing.T) {
		got, err := f.appointments.Reschedule(ctx, a.ID, req("11:00", "cancelled"))
		require.NoError(t, err)
		assert.Equal(t, "cancelled", got.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.appointments.Reschedule(ctx, other.ID, req("11:00", "pending"))
		assert.Contains(t, validationFields(t, err), "status")
	})

	t.Run("missing appointment", func(t *testing.T) {
		_, err := f.appointments.Reschedule(ctx, 999, req("12:00", "scheduled"))
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestAppointmentUsecase_RescheduleKeepsFinalStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	cancelled := f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")
	completed := f.schedule(t, patient.ID, d.ID, "2026-03-11", "11:00")

	_, err := f.appointments.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)
	_, err = f.examinations.RecordFromAppointment(ctx, completed.ID, ptr(notes()))
	require.NoError(t, err)

	req := func(tm, status string) *dto.RescheduleAppointmentRequest {
		return &dto.RescheduleAppointmentRequest{
			AppointmentRequest: dto.AppointmentRequest{
				PatientID: patient.ID, PractitionerID: d.ID, Date: "2026-03-12", Time: tm, Reason: "Moved by the patient",
			},
			Status: status,
		}
	}

	tests := []struct {
		name   string
		id     int64
		status string
		want   string
	}{
		{"cancelled cannot be reopened", cancelled.ID, "scheduled", "cancelled"},
		{"cancelled cannot be completed", cancelled.ID, "completed", "cancelled"},
		{"completed cannot be cancelled", completed.ID, "cancelled", "completed"},
		{"completed cannot be reopened", completed.ID, "scheduled", "completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.appointments.Reschedule(ctx, tt.id, req("09:00", tt.status))
			assert.ErrorIs(t, err, ErrAppointmentFinalized)
			assert.ErrorIs(t, err, ErrConflict)

			got, err := f.appointments.GetByID(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, "2026-03-11", got.Date, "refused reschedule leaves the row untouched")
		})
	}

	// Keeping the final status still allows editing the other fields.
	got, err := f.appointments.Reschedule(ctx, cancelled.ID, req("09:00", "cancelled"))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-12", got.Date)
	assert.Equal(t, "cancelled", got.Status)
}

func TestAppointmentUsecase_TransitionsAreIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	a := f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")

	res, err := f.appointments.Complete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "completed", res.Appointment.Status)

	res, err = f.appointments.Complete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)

	// A completed appointment stays completed.
	res, err = f.appointments.Cancel(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "completed", res.Appointment.Status)

	_, err = f.appointments.Cancel(ctx, 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAppointmentUsecase_Remove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	a := f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")

	removed, err := f.appointments.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.appointments.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = f.appointments.GetByID(ctx, a.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// A removed appointment frees its slot.
	f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")
}

func TestAppointmentUsecase_ListingsHideInactiveParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")
	a := f.schedule(t, patient.ID, d.ID, "2026-03-11", "10:00")
	_, err := f.appointments.Cancel(ctx, a.ID)
	require.NoError(t, err)
	require.NoError(t, f.practitioners.Delete(ctx, d.ID))

	all, err := f.appointments.GetAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, all.Total)

	byPatient, err := f.appointments.GetByPatient(ctx, patient.ID)
	require.NoError(t, err)
	assert.Zero(t, byPatient.Total)

	_, err = f.appointments.GetByPractitioner(ctx, 999)
	assert.ErrorIs(t, err, ErrPractitionerNotFound)
}

func TestAppointmentUsecase_UpcomingOrderAndLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t)
	d := f.createPractitioner(t, "1234567", "PEGJ800101AB1")

	f.schedule(t, patient.ID, d.ID, "2026-03-12", "08:00")
	f.schedule(t, patient.ID, d.ID, "2026-03-10", "16:00")
	f.schedule(t, patient.ID, d.ID, "2026-03-11", "09:00")

	// Tomorrow, yesterday's bookings drop out of the list.
	f.clock.Set(testNow.Add(24 * time.Hour))

	upcoming, err := f.appointments.GetUpcoming(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, upcoming.Total)
	assert.Equal(t, "2026-03-11", upcoming.Appointments[0].Date)
	assert.Equal(t, "2026-03-12", upcoming.Appointments[1].Date)
}
