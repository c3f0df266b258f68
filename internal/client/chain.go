package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"smartbin-backend/internal/models"
)

// ErrAllProvidersFailed is returned by Chain.Fetch when no provider succeeded
var ErrAllProvidersFailed = errors.New("all data sources failed")

// Provider is one named data source of a Chain
type Provider[T any] struct {
	Name    string
	Timeout time.Duration
	Fetch   func(ctx context.Context) (T, error)
}

// Chain tries its providers in order and returns the first success
type Chain[T any] struct {
	providers []Provider[T]
}

func NewChain[T any](providers ...Provider[T]) *Chain[T] {
	return &Chain[T]{providers: providers}
}

// Fetch returns the value and the name of the provider that produced it.
// Every provider runs under its own timeout.
func (c *Chain[T]) Fetch(ctx context.Context) (T, string, error) {
	var zero T
	var errs []error

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		value, err := fetchWithTimeout(ctx, p)
		if err == nil {
			return value, p.Name, nil
		}
		log.Printf("❌ %s failed: %v", p.Name, err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}

	return zero, "", fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
}

func fetchWithTimeout[T any](ctx context.Context, p Provider[T]) (T, error) {
	if p.Timeout <= 0 {
		return p.Fetch(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	return p.Fetch(ctx)
}

// Default provider timeouts for the bin chain
const (
	APITimeout    = 5 * time.Second
	DeviceTimeout = 3 * time.Second
)

// NewBinChain fetches bins from the API and falls back to reading a sensor
// gateway directly. deviceURL may be empty.
func NewBinChain(api *Client, deviceURL string, httpClient *http.Client) *Chain[[]models.BinResponse] {
	providers := []Provider[[]models.BinResponse]{
		{
			Name:    "api",
			Timeout: APITimeout,
			Fetch: func(ctx context.Context) ([]models.BinResponse, error) {
				bins, _, err := api.ListBins(ctx)
				return bins, err
			},
		},
	}

	if deviceURL != "" {
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		providers = append(providers, Provider[[]models.BinResponse]{
			Name:    "device",
			Timeout: DeviceTimeout,
			Fetch: func(ctx context.Context) ([]models.BinResponse, error) {
				return fetchDeviceBins(ctx, httpClient, strings.TrimRight(deviceURL, "/")+"/bins")
			},
		})
	}

	return NewChain(providers...)
}

func fetchDeviceBins(ctx context.Context, httpClient *http.Client, target string) ([]models.BinResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return DecodeBins(raw)
}

// DecodeBins accepts the shapes sensor gateways answer with: an array of
// bins, an object with a "bins" array, or a single bin.
func DecodeBins(raw []byte) ([]models.BinResponse, error) {
	var list []models.BinResponse
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Bins []models.BinResponse `json:"bins"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Bins != nil {
		return wrapped.Bins, nil
	}

	var single models.BinResponse
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("failed to decode bins: %w", err)
	}
	if single.BinID == "" {
		return nil, errors.New("failed to decode bins: no bin id")
	}
	return []models.BinResponse{single}, nil
}
