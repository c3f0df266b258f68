package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusServiceUnavailable, "store_unavailable")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "store_unavailable", body["error"])
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"level": 42}`))
	var dst struct {
		Level int `json:"level"`
	}
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, 42, dst.Level)

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"level":`))
	assert.Error(t, DecodeJSON(bad, &dst))
}
