// Package restapi provides the client for the remote restaurant API.
// It lists restaurants and creates new ones; it does not retry, back off or
// deduplicate, so a repeated create produces a repeated remote record.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xcalota/panel/internal/core/catalog"
	"github.com/xcalota/panel/internal/core/domain"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://3.138.190.230/api"

// Name fields accepted by known backends.
const (
	NameFieldName = "name"
	NameFieldNome = "nome"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// =============================================================================
// Client Interface
// =============================================================================

// Client defines the restaurant API operations used by the panel.
type Client interface {
	// List returns the restaurants known to the API.
	List(ctx context.Context) ([]domain.Restaurant, error)

	// Create submits a draft and returns the record the API created.
	Create(ctx context.Context, draft domain.Draft) (domain.Restaurant, error)
}

// =============================================================================
// HTTP Client Implementation
// =============================================================================

// Config holds configuration for the HTTP client.
type Config struct {
	BaseURL   string        // API base URL, e.g. "http://localhost:3000/api"
	NameField string        // JSON key for the name on create ("name" or "nome")
	Timeout   time.Duration // Per-request timeout
}

// DefaultConfig returns default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		NameField: NameFieldName,
		Timeout:   10 * time.Second,
	}
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL    string
	nameField  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates a new restaurant API client.
func NewHTTPClient(cfg Config, logger *slog.Logger) *HTTPClient {
	initMetrics()

	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.NameField == "" {
		cfg.NameField = NameFieldName
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		nameField: cfg.NameField,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the normalized API base URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// List fetches GET {base}/restaurants.
func (c *HTTPClient) List(ctx context.Context) (list []domain.Restaurant, err error) {
	start := time.Now()
	defer func() { observe("list", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/restaurants", nil)
	if err != nil {
		return nil, newError("List", 0, msgCreateRequest, ErrListFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError("List", 0, msgSendRequest, ErrListFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, newError("List", resp.StatusCode, msgReadResponse, ErrListFailed, err)
	}

	if !isSuccess(resp.StatusCode) {
		return nil, newError("List", resp.StatusCode, msgStatus, ErrListFailed, nil)
	}

	list, err = catalog.DecodeList(body)
	if err != nil {
		return nil, newError("List", resp.StatusCode, msgDecodeResponse, ErrListFailed, err)
	}

	c.logger.Debug("listed restaurants", "count", len(list))
	return list, nil
}

// Create sends POST {base}/restaurants with the draft's name and slug.
// When a successful response carries no readable record, including a body
// cut short mid-read, the draft itself is returned as the created record:
// the status already says the API stored it.
func (c *HTTPClient) Create(ctx context.Context, draft domain.Draft) (created domain.Restaurant, err error) {
	start := time.Now()
	defer func() { observe("create", start, err) }()

	payload := map[string]string{
		c.nameField: draft.Name,
		"slug":      draft.Slug,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Restaurant{}, newError("Create", 0, msgMarshalRequest, ErrCreateFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/restaurants", bytes.NewReader(body))
	if err != nil {
		return domain.Restaurant{}, newError("Create", 0, msgCreateRequest, ErrCreateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Restaurant{}, newError("Create", 0, msgSendRequest, ErrCreateFailed, err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if readErr != nil {
		c.logger.Debug("failed to read create response", "status", resp.StatusCode, "error", readErr)
	}

	if !isSuccess(resp.StatusCode) {
		cause := serverMessage(respBody)
		if cause == nil {
			cause = readErr
		}
		return domain.Restaurant{}, newError("Create", resp.StatusCode, msgStatus, ErrCreateFailed, cause)
	}

	created, err = catalog.DecodeRecord(respBody)
	if err != nil || (created.Name == "" && created.Slug == "") {
		c.logger.Debug("create response without record, using draft", "slug", draft.Slug)
		return draft.Record(), nil
	}
	return created, nil
}

// =============================================================================
// Helpers
// =============================================================================

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// serverMessage turns an error body into a cause, if there is one.
func serverMessage(body []byte) error {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return nil
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Errorf("server said: %s", msg)
}
