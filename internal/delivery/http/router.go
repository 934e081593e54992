package http

import (
	"net/http"

	"medical-center/internal/delivery/http/handler"
	"medical-center/internal/delivery/http/middleware"
	"medical-center/internal/infrastructure/metrics"

	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	Patient        *handler.PatientHandler
	Practitioner   *handler.PractitionerHandler
	Appointment    *handler.AppointmentHandler
	Examination    *handler.ExaminationHandler
	ClinicalRecord *handler.ClinicalRecordHandler
	AuditLog       *handler.AuditLogHandler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	requestMiddleware *middleware.RequestMiddleware
	metrics           *metrics.Metrics
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	requestMiddleware *middleware.RequestMiddleware,
	metrics *metrics.Metrics,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		requestMiddleware: requestMiddleware,
		metrics:           metrics,
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Everything below needs a live session
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/auth/password", h.Auth.ChangePassword).Methods(http.MethodPut)

	// Patients
	protected.HandleFunc("/patients", h.Patient.CreatePatient).Methods(http.MethodPost)
	protected.HandleFunc("/patients", h.Patient.GetAllPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients/search", h.Patient.SearchPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", h.Patient.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{id}", h.Patient.DeletePatient).Methods(http.MethodDelete)
	protected.HandleFunc("/patients/{id}/appointments", h.Appointment.GetPatientAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}/examinations", h.Examination.GetPatientExaminations).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}/records", h.ClinicalRecord.GetPatientRecords).Methods(http.MethodGet)

	// Practitioners (reads)
	protected.HandleFunc("/practitioners", h.Practitioner.GetAllPractitioners).Methods(http.MethodGet)
	protected.HandleFunc("/practitioners/search", h.Practitioner.SearchPractitioners).Methods(http.MethodGet)
	protected.HandleFunc("/practitioners/{id}", h.Practitioner.GetPractitioner).Methods(http.MethodGet)
	protected.HandleFunc("/practitioners/{id}/appointments", h.Appointment.GetPractitionerAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/practitioners/{id}/examinations", h.Examination.GetPractitionerExaminations).Methods(http.MethodGet)
	protected.HandleFunc("/practitioners/{id}/records", h.ClinicalRecord.GetPractitionerRecords).Methods(http.MethodGet)

	// Practitioners (elevated writes)
	practitioners := protected.PathPrefix("/practitioners").Subrouter()
	practitioners.Use(middleware.RequireElevated)
	practitioners.HandleFunc("", h.Practitioner.CreatePractitioner).Methods(http.MethodPost)
	practitioners.HandleFunc("/{id}", h.Practitioner.UpdatePractitioner).Methods(http.MethodPut)
	practitioners.HandleFunc("/{id}", h.Practitioner.DeletePractitioner).Methods(http.MethodDelete)

	// Appointments
	protected.HandleFunc("/appointments", h.Appointment.ScheduleAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", h.Appointment.GetAllAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/upcoming", h.Appointment.GetUpcomingAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", h.Appointment.RescheduleAppointment).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id}", h.Appointment.RemoveAppointment).Methods(http.MethodDelete)
	protected.HandleFunc("/appointments/{id}/cancel", h.Appointment.CancelAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}/complete", h.Appointment.CompleteAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}/examination", h.Examination.RecordFromAppointment).Methods(http.MethodPost)

	// Examinations
	protected.HandleFunc("/examinations", h.Examination.RecordExamination).Methods(http.MethodPost)
	protected.HandleFunc("/examinations", h.Examination.GetAllExaminations).Methods(http.MethodGet)
	protected.HandleFunc("/examinations/{id}", h.Examination.GetExamination).Methods(http.MethodGet)
	protected.HandleFunc("/examinations/{id}", h.Examination.UpdateExamination).Methods(http.MethodPut)
	protected.HandleFunc("/examinations/{id}", h.Examination.DeleteExamination).Methods(http.MethodDelete)
	protected.HandleFunc("/examinations/{id}/report", h.Examination.GetExaminationReport).Methods(http.MethodGet)

	// Clinical records
	protected.HandleFunc("/records", h.ClinicalRecord.CompileRecord).Methods(http.MethodPost)
	protected.HandleFunc("/records", h.ClinicalRecord.GetAllRecords).Methods(http.MethodGet)
	protected.HandleFunc("/records/recent", h.ClinicalRecord.GetRecentRecords).Methods(http.MethodGet)
	protected.HandleFunc("/records/search", h.ClinicalRecord.SearchRecords).Methods(http.MethodGet)
	protected.HandleFunc("/records/{id}", h.ClinicalRecord.GetRecord).Methods(http.MethodGet)
	protected.HandleFunc("/records/{id}", h.ClinicalRecord.UpdateRecord).Methods(http.MethodPut)
	protected.HandleFunc("/records/{id}", h.ClinicalRecord.DeleteRecord).Methods(http.MethodDelete)
	protected.HandleFunc("/records/{id}/report", h.ClinicalRecord.GetRecordReport).Methods(http.MethodGet)

	// Admin routes (protected - elevated only)
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireElevated)
	admin.HandleFunc("/users", h.User.GetAllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.User.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/privilege", h.User.UpdatePrivilege).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", h.User.DeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	// Preflight requests only need the CORS headers
	r.router.Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	r.router.Use(r.requestMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
