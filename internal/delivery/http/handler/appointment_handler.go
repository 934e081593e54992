package handler

import (
	"context"
	"net/http"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/usecase"
	"medical-center/pkg/response"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
	}
}

func (h *AppointmentHandler) ScheduleAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.AppointmentRequest
	if !decode(w, r, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Schedule(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to schedule appointment", req)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment scheduled successfully", appointment)
}

func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetAll(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get appointments", nil)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetUpcomingAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetUpcoming(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get upcoming appointments", nil)
		return
	}

	response.Success(w, http.StatusOK, "Upcoming appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), appointmentID)
	if err != nil {
		respondError(w, err, "Failed to get appointment", nil)
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if !decode(w, r, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Reschedule(r.Context(), appointmentID, &req)
	if err != nil {
		respondError(w, err, "Failed to update appointment", req)
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.Cancel, "Appointment cancelled successfully")
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.Complete, "Appointment completed successfully")
}

type transitionFunc func(ctx context.Context, id int64) (*dto.AppointmentActionResponse, error)

func (h *AppointmentHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc, message string) {
	appointmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := fn(r.Context(), appointmentID)
	if err != nil {
		respondError(w, err, "Failed to update appointment status", nil)
		return
	}

	if !result.Changed {
		message = "Appointment is already " + result.Appointment.Status
	}
	response.Success(w, http.StatusOK, message, result)
}

func (h *AppointmentHandler) RemoveAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	removed, err := h.appointmentUsecase.Remove(r.Context(), appointmentID)
	if err != nil {
		respondError(w, err, "Failed to delete appointment", nil)
		return
	}
	if !removed {
		response.NotFound(w, "Appointment not found")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

func (h *AppointmentHandler) GetPatientAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.GetByPatient(r.Context(), patientID)
	if err != nil {
		respondError(w, err, "Failed to get patient appointments", nil)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetPractitionerAppointments(w http.ResponseWriter, r *http.Request) {
	practitionerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.GetByPractitioner(r.Context(), practitionerID)
	if err != nil {
		respondError(w, err, "Failed to get practitioner appointments", nil)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}
