package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejected_EchoesSubmittedValues(t *testing.T) {
	rec := httptest.NewRecorder()
	Rejected(rec, http.StatusBadRequest, "Validation failed",
		map[string]string{"reason": "reason must be at least 10 characters"},
		map[string]string{"reason": "short"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "short", body["data"].(map[string]interface{})["reason"])
	assert.Contains(t, body["error"].(map[string]interface{})["reason"], "at least 10")
}

func TestFile(t *testing.T) {
	rec := httptest.NewRecorder()
	File(rec, "exploracion_7.pdf", "application/pdf", []byte("%PDF-1.3"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="exploracion_7.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}
