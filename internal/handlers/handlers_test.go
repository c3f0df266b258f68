package handlers

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"smartbin-backend/internal/database"
)

var binColumns = []string{
	"bin_id", "latitude", "longitude", "address", "area", "level", "distance",
	"capacity", "waste_type", "status", "sensor_status", "last_updated", "last_collected",
	"sensor_raw_distance", "sensor_level", "sensor_timestamp", "sensor_battery", "sensor_signal",
	"collection_schedule", "created_at", "updated_at",
}

func binRow(id string, level int, sensorStatus string) []driver.Value {
	return []driver.Value{
		id, 6.8519, 79.8774, "Galle Road", "Dehiwala", level, 20.0,
		240, "general", "active", sensorStatus, int64(1700000000), nil,
		20.0, level, int64(1700000000000), nil, nil,
		"Daily 6:00 AM", int64(1700000000), int64(1700000000),
	}
}

func newMockStore(t *testing.T) (*database.Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return database.NewStore(sqlx.NewDb(mockDB, "sqlmock")), mock
}

// offlineStore behaves like a store whose database never came up
func offlineStore() *database.Store {
	return database.NewStore(nil)
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decodeBody(t, rec, &body)
	require.False(t, body.Success)
	return body.Error
}
