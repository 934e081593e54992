package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/service"
	"medical-center/internal/usecase"
	"medical-center/pkg/response"
)

const examinationsPath = "/api/v1/examinations"

type ExaminationHandler struct {
	examinationUsecase usecase.ExaminationUsecase
}

func NewExaminationHandler(examinationUsecase usecase.ExaminationUsecase) *ExaminationHandler {
	return &ExaminationHandler{
		examinationUsecase: examinationUsecase,
	}
}

// saved answers a successful write. With ?render=true the report is produced
// right away; a failure there leaves the write in place and answers 502.
func (h *ExaminationHandler) saved(w http.ResponseWriter, r *http.Request, status int, message string, exam *dto.ExaminationResponse) {
	if !wantsRender(r) {
		response.Success(w, status, message, exam)
		return
	}

	doc, err := h.examinationUsecase.Render(r.Context(), exam.ID)
	if err != nil {
		renderFailed(w, "Examination", examinationsPath, exam.ID, exam, err)
		return
	}
	sendDocument(w, exam.ID, examinationsPath, doc)
}

func sendDocument(w http.ResponseWriter, id int64, base string, doc *service.Document) {
	w.Header().Set("Location", fmt.Sprintf("%s/%d", base, id))
	w.Header().Set("X-Resource-ID", strconv.FormatInt(id, 10))
	response.File(w, doc.Filename, doc.ContentType, doc.Body)
}

func (h *ExaminationHandler) RecordExamination(w http.ResponseWriter, r *http.Request) {
	var req dto.ExaminationRequest
	if !decode(w, r, &req) {
		return
	}

	exam, err := h.examinationUsecase.Record(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to record examination", req)
		return
	}

	h.saved(w, r, http.StatusCreated, "Examination recorded successfully", exam)
}

func (h *ExaminationHandler) RecordFromAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.ClinicalNotesRequest
	if !decode(w, r, &req) {
		return
	}

	exam, err := h.examinationUsecase.RecordFromAppointment(r.Context(), appointmentID, &req)
	if err != nil {
		respondError(w, err, "Failed to record examination", req)
		return
	}

	h.saved(w, r, http.StatusCreated, "Examination recorded and appointment completed", exam)
}

func (h *ExaminationHandler) GetAllExaminations(w http.ResponseWriter, r *http.Request) {
	exams, err := h.examinationUsecase.GetAll(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get examinations", nil)
		return
	}

	response.Success(w, http.StatusOK, "Examinations retrieved successfully", exams)
}

func (h *ExaminationHandler) GetExamination(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	exam, err := h.examinationUsecase.GetByID(r.Context(), examID)
	if err != nil {
		respondError(w, err, "Failed to get examination", nil)
		return
	}

	response.Success(w, http.StatusOK, "Examination retrieved successfully", exam)
}

func (h *ExaminationHandler) UpdateExamination(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.ExaminationRequest
	if !decode(w, r, &req) {
		return
	}

	exam, err := h.examinationUsecase.Update(r.Context(), examID, &req)
	if err != nil {
		respondError(w, err, "Failed to update examination", req)
		return
	}

	h.saved(w, r, http.StatusOK, "Examination updated successfully", exam)
}

func (h *ExaminationHandler) DeleteExamination(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.examinationUsecase.Delete(r.Context(), examID); err != nil {
		respondError(w, err, "Failed to delete examination", nil)
		return
	}

	response.Success(w, http.StatusOK, "Examination deleted successfully", nil)
}

func (h *ExaminationHandler) GetExaminationReport(w http.ResponseWriter, r *http.Request) {
	examID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.examinationUsecase.Render(r.Context(), examID)
	if err != nil {
		respondError(w, err, "Failed to generate report", nil)
		return
	}

	response.File(w, doc.Filename, doc.ContentType, doc.Body)
}

func (h *ExaminationHandler) GetPatientExaminations(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	exams, err := h.examinationUsecase.GetByPatient(r.Context(), patientID)
	if err != nil {
		respondError(w, err, "Failed to get patient examinations", nil)
		return
	}

	response.Success(w, http.StatusOK, "Examinations retrieved successfully", exams)
}

func (h *ExaminationHandler) GetPractitionerExaminations(w http.ResponseWriter, r *http.Request) {
	practitionerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	exams, err := h.examinationUsecase.GetByPractitioner(r.Context(), practitionerID)
	if err != nil {
		respondError(w, err, "Failed to get practitioner examinations", nil)
		return
	}

	response.Success(w, http.StatusOK, "Examinations retrieved successfully", exams)
}
