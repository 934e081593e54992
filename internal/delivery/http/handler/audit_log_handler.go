package handler

import (
	"net/http"
	"strconv"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/usecase"
	"medical-center/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	auditLogID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	auditLog, err := h.auditLogUsecase.GetByID(r.Context(), auditLogID)
	if err != nil {
		respondError(w, err, "Failed to get audit log", nil)
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs accepts ?action=, ?actor_id= and ?limit=.
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := dto.AuditLogQuery{Action: params.Get("action")}

	var ok bool
	if query.ActorID, ok = queryInt(w, params.Get("actor_id"), "actor_id"); !ok {
		return
	}
	limit, ok := queryInt(w, params.Get("limit"), "limit")
	if !ok {
		return
	}
	query.Limit = int(limit)

	auditLogs, err := h.auditLogUsecase.List(r.Context(), &query)
	if err != nil {
		respondError(w, err, "Failed to get audit logs", query)
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs)
}

// queryInt parses an optional integer query parameter, answering 400 itself on failure.
func queryInt(w http.ResponseWriter, raw, name string) (int64, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name, nil)
		return 0, false
	}
	return v, true
}
