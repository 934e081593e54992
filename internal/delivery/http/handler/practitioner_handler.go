package handler

import (
	"net/http"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/usecase"
	"medical-center/pkg/response"
)

type PractitionerHandler struct {
	practitionerUsecase usecase.PractitionerUsecase
}

func NewPractitionerHandler(practitionerUsecase usecase.PractitionerUsecase) *PractitionerHandler {
	return &PractitionerHandler{
		practitionerUsecase: practitionerUsecase,
	}
}

func (h *PractitionerHandler) CreatePractitioner(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePractitionerRequest
	if !decode(w, r, &req) {
		return
	}

	practitioner, err := h.practitionerUsecase.Create(r.Context(), &req)
	if err != nil {
		// Never echo passwords back.
		respondError(w, err, "Failed to create practitioner", req.PractitionerRequest)
		return
	}

	response.Success(w, http.StatusCreated, "Practitioner registered successfully", practitioner)
}

func (h *PractitionerHandler) GetAllPractitioners(w http.ResponseWriter, r *http.Request) {
	practitioners, err := h.practitionerUsecase.GetAll(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get practitioners", nil)
		return
	}

	response.Success(w, http.StatusOK, "Practitioners retrieved successfully", practitioners)
}

func (h *PractitionerHandler) SearchPractitioners(w http.ResponseWriter, r *http.Request) {
	practitioners, err := h.practitionerUsecase.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, err, "Failed to search practitioners", nil)
		return
	}

	response.Success(w, http.StatusOK, "Practitioners retrieved successfully", practitioners)
}

func (h *PractitionerHandler) GetPractitioner(w http.ResponseWriter, r *http.Request) {
	practitionerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	practitioner, err := h.practitionerUsecase.GetByID(r.Context(), practitionerID)
	if err != nil {
		respondError(w, err, "Failed to get practitioner", nil)
		return
	}

	response.Success(w, http.StatusOK, "Practitioner retrieved successfully", practitioner)
}

func (h *PractitionerHandler) UpdatePractitioner(w http.ResponseWriter, r *http.Request) {
	practitionerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.PractitionerRequest
	if !decode(w, r, &req) {
		return
	}

	practitioner, err := h.practitionerUsecase.Update(r.Context(), practitionerID, &req)
	if err != nil {
		respondError(w, err, "Failed to update practitioner", req)
		return
	}

	response.Success(w, http.StatusOK, "Practitioner updated successfully", practitioner)
}

func (h *PractitionerHandler) DeletePractitioner(w http.ResponseWriter, r *http.Request) {
	practitionerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.practitionerUsecase.Delete(r.Context(), practitionerID); err != nil {
		respondError(w, err, "Failed to delete practitioner", nil)
		return
	}

	response.Success(w, http.StatusOK, "Practitioner deleted successfully", nil)
}
