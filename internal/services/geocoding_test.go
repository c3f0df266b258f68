package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, body string) *GeocodingService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "6.851900,79.877400", r.URL.Query().Get("latlng"))
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	g := NewGeocodingService("key")
	g.baseURL = server.URL
	return g
}

func TestNewGeocodingService_NoKey(t *testing.T) {
	assert.Nil(t, NewGeocodingService(""))
}

func TestReverseGeocode(t *testing.T) {
	g := newTestGeocoder(t, `{"status":"OK","results":[{"formatted_address":"Galle Rd, Dehiwala-Mount Lavinia"}]}`)

	address, err := g.ReverseGeocode(context.Background(), DEPOT_LAT, DEPOT_LNG)
	require.NoError(t, err)
	assert.Equal(t, "Galle Rd, Dehiwala-Mount Lavinia", address)
}

func TestReverseGeocode_ZeroResults(t *testing.T) {
	g := newTestGeocoder(t, `{"status":"ZERO_RESULTS","results":[]}`)

	_, err := g.ReverseGeocode(context.Background(), DEPOT_LAT, DEPOT_LNG)
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestReverseGeocode_Denied(t *testing.T) {
	g := newTestGeocoder(t, `{"status":"REQUEST_DENIED"}`)

	_, err := g.ReverseGeocode(context.Background(), DEPOT_LAT, DEPOT_LNG)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoAddress)
}
