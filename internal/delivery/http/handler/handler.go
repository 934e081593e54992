package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"medical-center/internal/usecase"
	"medical-center/pkg/response"

	"github.com/gorilla/mux"
)

// decode reads a JSON body into dst, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}

// pathID parses a positive integer route variable, answering 400 itself on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

func wantsRender(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("render"))
	return v
}

// respondError maps usecase error classes to HTTP. submitted, when non-nil,
// is echoed back on validation and conflict failures of form operations.
func respondError(w http.ResponseWriter, err error, fallback string, submitted interface{}) {
	var verr usecase.ValidationError
	var rerr *usecase.RenderError

	switch {
	case errors.As(err, &verr):
		response.Rejected(w, http.StatusBadRequest, "Validation failed", verr, submitted)
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrUnauthorized):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrConflict):
		if submitted != nil {
			response.Rejected(w, http.StatusConflict, err.Error(), nil, submitted)
			return
		}
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrStorage):
		response.ServiceUnavailable(w, "Storage is unavailable, try again later")
	case errors.As(err, &rerr):
		response.Error(w, http.StatusBadGateway, "Report could not be generated", rerr.Err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

// SavedButNotRendered is the body of a 502 returned after a successful write
// whose report failed. ReportURL retries just the rendering.
type SavedButNotRendered struct {
	ID        int64       `json:"id"`
	ReportURL string      `json:"report_url"`
	Saved     interface{} `json:"saved"`
}

func renderFailed(w http.ResponseWriter, what, base string, id int64, saved interface{}, err error) {
	reason := err.Error()
	var rerr *usecase.RenderError
	if errors.As(err, &rerr) {
		reason = rerr.Err.Error()
	}
	response.JSON(w, http.StatusBadGateway, response.Response{
		Success: false,
		Message: fmt.Sprintf("%s saved, but the report could not be generated", what),
		Data: SavedButNotRendered{
			ID:        id,
			ReportURL: fmt.Sprintf("%s/%d/report", base, id),
			Saved:     saved,
		},
		Error: reason,
	})
}
