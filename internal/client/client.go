package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smartbin-backend/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client talks to the smart bin REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new API client. baseURL includes the /api prefix.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets a custom timeout for the HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sends a bearer token on every request
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// APIError is returned for any response with status >= 400
type APIError struct {
	StatusCode int
	Code       string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// doRequest performs an HTTP request, decodes a JSON response into out and
// returns the response headers
func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) (http.Header, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Code = payload.Error
		}
		return resp.Header, apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.Header, nil
}

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status           string `json:"status"`
	Database         string `json:"database"`
	Timestamp        string `json:"timestamp"`
	WebsocketClients int    `json:"websocketClients"`
}

// Health checks if the API is up
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var health HealthStatus
	if _, err := c.doRequest(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// ListBins returns the active bins and where the server got them from
// (live, cache or sample)
func (c *Client) ListBins(ctx context.Context) ([]models.BinResponse, string, error) {
	var bins []models.BinResponse
	header, err := c.doRequest(ctx, http.MethodGet, "/bins", nil, &bins)
	if err != nil {
		return nil, "", err
	}
	return bins, header.Get("X-Data-Source"), nil
}

// GetBin returns a single bin
func (c *Client) GetBin(ctx context.Context, binID string) (*models.BinResponse, error) {
	var bin models.BinResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/bins/"+url.PathEscape(binID), nil, &bin); err != nil {
		return nil, err
	}
	return &bin, nil
}

// UpdateLevelResult is the body returned by the sensor ingest endpoint
type UpdateLevelResult struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Bin     models.BinResponse `json:"bin"`
	Alerts  []models.Alert     `json:"alerts"`
}

// UpdateLevel posts a sensor reading the way an ESP32 does
func (c *Client) UpdateLevel(ctx context.Context, binID string, reading models.SensorReadingRequest) (*UpdateLevelResult, error) {
	var result UpdateLevelResult
	path := "/bins/" + url.PathEscape(binID) + "/update-level"
	if _, err := c.doRequest(ctx, http.MethodPost, path, reading, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListReports returns reports, optionally filtered by status
func (c *Client) ListReports(ctx context.Context, status string) ([]models.ReportResponse, error) {
	path := "/reports"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var reports []models.ReportResponse
	if _, err := c.doRequest(ctx, http.MethodGet, path, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// CreateReport files a new report
func (c *Client) CreateReport(ctx context.Context, req models.CreateReportRequest) (*models.ReportResponse, error) {
	var body struct {
		Report models.ReportResponse `json:"report"`
	}
	if _, err := c.doRequest(ctx, http.MethodPost, "/reports", req, &body); err != nil {
		return nil, err
	}
	return &body.Report, nil
}

// ResolveReport marks a report resolved
func (c *Client) ResolveReport(ctx context.Context, id string, req models.ResolveReportRequest) (*models.ReportResponse, error) {
	var body struct {
		Report models.ReportResponse `json:"report"`
	}
	path := "/reports/" + url.PathEscape(id) + "/resolve"
	if _, err := c.doRequest(ctx, http.MethodPatch, path, req, &body); err != nil {
		return nil, err
	}
	return &body.Report, nil
}

// ListNotices returns the active notices
func (c *Client) ListNotices(ctx context.Context) ([]models.NoticeResponse, error) {
	var notices []models.NoticeResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/notices", nil, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

// Dashboard returns the analytics summary
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if _, err := c.doRequest(ctx, http.MethodGet, "/analytics/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CollectionRoute returns the prioritized route. optimize may be "" or "distance".
func (c *Client) CollectionRoute(ctx context.Context, optimize string) (*models.CollectionRoute, error) {
	path := "/collection-route"
	if optimize != "" {
		path += "?optimize=" + url.QueryEscape(optimize)
	}

	var route models.CollectionRoute
	if _, err := c.doRequest(ctx, http.MethodGet, path, nil, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// LoginResult is the body of a successful login
type LoginResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// Login exchanges credentials for a token. The client keeps using the token afterwards.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	var result LoginResult
	if _, err := c.doRequest(ctx, http.MethodPost, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}
