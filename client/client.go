// Package client is a Go SDK for the UniMatch API and holds the interactive
// application wizard that drives it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jagravi04/unimatch-finder/database"
	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/model"
)

// Client is a Go SDK for the UniMatch API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new client for the API at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a rejected request. For submissions Code is one of the gateway
// error codes and Details is the human readable explanation.
type APIError struct {
	Status  int
	Code    string
	Details string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d %s: %s", e.Status, e.Code, e.Details)
}

// SubmitResult is the gateway answer for an accepted application
type SubmitResult struct {
	ApplicationID string `json:"application_id"`
	Message       string `json:"message"`
}

// envelope is the shape of catalog responses
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ListUniversities returns the catalog filtered by c, with eligibility computed from c's scores
func (c *Client) ListUniversities(ctx context.Context, criteria eligibility.Criteria) ([]eligibility.Evaluated, error) {
	query := url.Values{}
	if criteria.Country != "" {
		query.Set("country", criteria.Country)
	}
	if criteria.DegreeLevel != "" {
		query.Set("degree_level", criteria.DegreeLevel)
	}
	setFloat(query, "min_tuition", criteria.MinTuition)
	setFloat(query, "max_tuition", criteria.MaxTuition)
	setFloat(query, "user_gpa", criteria.UserGPA)
	setFloat(query, "user_ielts", criteria.UserIELTS)

	path := "/api/v1/universities"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var rows []eligibility.Evaluated
	if err := c.getData(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetUniversity retrieves a university by ID
func (c *Client) GetUniversity(ctx context.Context, id string) (*model.University, error) {
	var university model.University
	if err := c.getData(ctx, "/api/v1/universities/"+url.PathEscape(id), &university); err != nil {
		return nil, err
	}
	return &university, nil
}

// Compare retrieves up to three universities in the given order
func (c *Client) Compare(ctx context.Context, ids []string) ([]model.University, error) {
	query := url.Values{"ids": {strings.Join(ids, ",")}}

	var universities []model.University
	if err := c.getData(ctx, "/api/v1/universities/compare?"+query.Encode(), &universities); err != nil {
		return nil, err
	}
	return universities, nil
}

// CatalogOptions returns the distinct countries and degree levels
func (c *Client) CatalogOptions(ctx context.Context) (*database.CatalogOptions, error) {
	var opts database.CatalogOptions
	if err := c.getData(ctx, "/api/v1/catalog/options", &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// SubmitApplication sends app to the submission gateway. A rejection is returned as *APIError.
func (c *Client) SubmitApplication(ctx context.Context, app Application) (*SubmitResult, error) {
	body, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	status, resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/applications", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var result struct {
		Success       bool   `json:"success"`
		Message       string `json:"message"`
		ApplicationID string `json:"application_id"`
		Error         string `json:"error"`
		Details       string `json:"details"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response (HTTP %d): %w", status, err)
	}

	if !result.Success {
		return nil, &APIError{Status: status, Code: result.Error, Details: result.Details}
	}

	return &SubmitResult{ApplicationID: result.ApplicationID, Message: result.Message}, nil
}

func (c *Client) getData(ctx context.Context, path string, dest interface{}) error {
	status, resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	var result envelope
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response (HTTP %d): %w", status, err)
	}

	if !result.Success {
		apiErr := &APIError{Status: status}
		if result.Error != nil {
			apiErr.Code = result.Error.Code
			apiErr.Details = result.Error.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(result.Data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}

// doRequest returns the status and body of any response the server produced
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

func setFloat(query url.Values, key string, v *float64) {
	if v != nil {
		query.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}
