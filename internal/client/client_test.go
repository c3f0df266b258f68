package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbin-backend/internal/models"
)

func TestListBins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bins", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Header().Set("X-Data-Source", "cache")
		json.NewEncoder(w).Encode([]models.BinResponse{{BinID: "DHW001", Level: 85}})
	}))
	defer server.Close()

	c := NewClient(server.URL+"/api/", WithToken("abc"))
	bins, source, err := c.ListBins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cache", source)
	require.Len(t, bins, 1)
	assert.Equal(t, 85, bins[0].Level)
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"not_found"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).GetBin(context.Background(), "NOPE")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestLoginKeepsToken(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "token": "tok"})
		default:
			seen = r.Header.Get("Authorization")
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	_, err = c.ListReports(context.Background(), "pending")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", seen)
}

func TestChain_FirstSuccessWins(t *testing.T) {
	calls := []string{}
	chain := NewChain(
		Provider[int]{Name: "down", Fetch: func(ctx context.Context) (int, error) {
			calls = append(calls, "down")
			return 0, errors.New("connection refused")
		}},
		Provider[int]{Name: "up", Fetch: func(ctx context.Context) (int, error) {
			calls = append(calls, "up")
			return 7, nil
		}},
		Provider[int]{Name: "never", Fetch: func(ctx context.Context) (int, error) {
			calls = append(calls, "never")
			return 9, nil
		}},
	)

	value, source, err := chain.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, value)
	assert.Equal(t, "up", source)
	assert.Equal(t, []string{"down", "up"}, calls)
}

func TestChain_PerProviderTimeout(t *testing.T) {
	chain := NewChain(
		Provider[string]{Name: "slow", Timeout: 20 * time.Millisecond, Fetch: func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}},
		Provider[string]{Name: "fast", Timeout: time.Second, Fetch: func(ctx context.Context) (string, error) {
			return "ok", nil
		}},
	)

	start := time.Now()
	value, source, err := chain.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, "fast", source)
	assert.Less(t, time.Since(start), time.Second)
}

func TestChain_AllFail(t *testing.T) {
	boom := errors.New("boom")
	chain := NewChain(Provider[int]{Name: "only", Fetch: func(ctx context.Context) (int, error) {
		return 0, boom
	}})

	_, _, err := chain.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.ErrorIs(t, err, boom)
}

func TestBinChain_FallsBackToDevice(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer api.Close()

	device := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bins", r.URL.Path)
		w.Write([]byte(`{"binId":"DHW001","level":64}`))
	}))
	defer device.Close()

	chain := NewBinChain(NewClient(api.URL), device.URL, nil)
	bins, source, err := chain.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "device", source)
	require.Len(t, bins, 1)
	assert.Equal(t, 64, bins[0].Level)
}

func TestDecodeBins(t *testing.T) {
	bins, err := DecodeBins([]byte(`[{"binId":"A"},{"binId":"B"}]`))
	require.NoError(t, err)
	assert.Len(t, bins, 2)

	bins, err = DecodeBins([]byte(`{"bins":[{"binId":"A"}]}`))
	require.NoError(t, err)
	assert.Len(t, bins, 1)

	_, err = DecodeBins([]byte(`{"status":"ok"}`))
	assert.Error(t, err)
}
