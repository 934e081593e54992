package handler

import (
	"net/http"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/usecase"
	"medical-center/pkg/response"
)

const recordsPath = "/api/v1/records"

type ClinicalRecordHandler struct {
	recordUsecase usecase.ClinicalRecordUsecase
}

func NewClinicalRecordHandler(recordUsecase usecase.ClinicalRecordUsecase) *ClinicalRecordHandler {
	return &ClinicalRecordHandler{
		recordUsecase: recordUsecase,
	}
}

func (h *ClinicalRecordHandler) saved(w http.ResponseWriter, r *http.Request, status int, message string, record *dto.ClinicalRecordResponse) {
	if !wantsRender(r) {
		response.Success(w, status, message, record)
		return
	}

	doc, err := h.recordUsecase.Render(r.Context(), record.ID)
	if err != nil {
		renderFailed(w, "Clinical record", recordsPath, record.ID, record, err)
		return
	}
	sendDocument(w, record.ID, recordsPath, doc)
}

func (h *ClinicalRecordHandler) CompileRecord(w http.ResponseWriter, r *http.Request) {
	var req dto.CompileRecordRequest
	if !decode(w, r, &req) {
		return
	}

	record, err := h.recordUsecase.Compile(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to compile clinical record", req)
		return
	}

	h.saved(w, r, http.StatusCreated, "Clinical record "+record.RecordNumber+" compiled successfully", record)
}

func (h *ClinicalRecordHandler) GetAllRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordUsecase.GetAll(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get clinical records", nil)
		return
	}

	response.Success(w, http.StatusOK, "Clinical records retrieved successfully", records)
}

func (h *ClinicalRecordHandler) GetRecentRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordUsecase.GetRecent(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get recent clinical records", nil)
		return
	}

	response.Success(w, http.StatusOK, "Clinical records retrieved successfully", records)
}

func (h *ClinicalRecordHandler) SearchRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordUsecase.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, err, "Failed to search clinical records", nil)
		return
	}

	response.Success(w, http.StatusOK, "Clinical records retrieved successfully", records)
}

func (h *ClinicalRecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	record, err := h.recordUsecase.GetByID(r.Context(), recordID)
	if err != nil {
		respondError(w, err, "Failed to get clinical record", nil)
		return
	}

	response.Success(w, http.StatusOK, "Clinical record retrieved successfully", record)
}

func (h *ClinicalRecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateRecordRequest
	if !decode(w, r, &req) {
		return
	}

	record, err := h.recordUsecase.Update(r.Context(), recordID, &req)
	if err != nil {
		respondError(w, err, "Failed to update clinical record", req)
		return
	}

	h.saved(w, r, http.StatusOK, "Clinical record updated successfully", record)
}

func (h *ClinicalRecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.recordUsecase.Delete(r.Context(), recordID); err != nil {
		respondError(w, err, "Failed to delete clinical record", nil)
		return
	}

	response.Success(w, http.StatusOK, "Clinical record deleted successfully", nil)
}

func (h *ClinicalRecordHandler) GetRecordReport(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.recordUsecase.Render(r.Context(), recordID)
	if err != nil {
		respondError(w, err, "Failed to generate report", nil)
		return
	}

	response.File(w, doc.Filename, doc.ContentType, doc.Body)
}

func (h *ClinicalRecordHandler) GetPatientRecords(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	records, err := h.recordUsecase.GetByPatient(r.Context(), patientID)
	if err != nil {
		respondError(w, err, "Failed to get patient clinical records", nil)
		return
	}

	response.Success(w, http.StatusOK, "Clinical records retrieved successfully", records)
}

func (h *ClinicalRecordHandler) GetPractitionerRecords(w http.ResponseWriter, r *http.Request) {
	practitionerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	records, err := h.recordUsecase.GetByPractitioner(r.Context(), practitionerID)
	if err != nil {
		respondError(w, err, "Failed to get practitioner clinical records", nil)
		return
	}

	response.Success(w, http.StatusOK, "Clinical records retrieved successfully", records)
}
