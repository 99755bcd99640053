// Package e2e provides end-to-end testing utilities for the Xcalota panel.
package e2e

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xcalota/panel/internal/shell/panel"
	"github.com/xcalota/panel/internal/shell/restapi"
	"github.com/xcalota/panel/internal/shell/store"
	"github.com/xcalota/panel/internal/shell/stub"
	"github.com/xcalota/panel/internal/shell/webui"
)

// =============================================================================
// Stack
// =============================================================================

// Stack is a stub API plus a panel web UI pointed at it.
type Stack struct {
	Store    store.Store
	Panel    *panel.Panel
	StubURL  string
	PanelURL string
}

// StackConfig tunes one stack.
type StackConfig struct {
	Stub      stub.Config
	NameField string // panel's create payload key
	DSN       string
}

// NewStack starts a stack for one test and tears it down with the test.
func NewStack(t *testing.T, cfg StackConfig) *Stack {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.NewSQLiteStore(cfg.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg.Stub.Store = st
	cfg.Stub.Logger = logger
	api := httptest.NewServer(stub.NewServer(cfg.Stub).Routes())
	t.Cleanup(api.Close)

	client := restapi.NewHTTPClient(restapi.Config{
		BaseURL:   api.URL + "/api",
		NameField: cfg.NameField,
		Timeout:   5 * time.Second,
	}, logger)

	p := panel.New(panel.Config{Client: client, Logger: logger})
	ui, err := webui.NewServer(webui.Config{APIBaseURL: client.BaseURL()}, p, logger)
	require.NoError(t, err)
	web := httptest.NewServer(ui.Routes())
	t.Cleanup(web.Close)

	require.NoError(t, waitForReady(api.URL+"/health", 5*time.Second))
	require.NoError(t, waitForReady(web.URL+"/health", 5*time.Second))

	return &Stack{
		Store:    st,
		Panel:    p,
		StubURL:  api.URL,
		PanelURL: web.URL,
	}
}

// =============================================================================
// Browser-like helpers
// =============================================================================

// browser follows redirects the way a form submit does.
var browser = &http.Client{Timeout: 10 * time.Second}

// Page fetches a panel page and returns its HTML.
func (s *Stack) Page(t *testing.T, path string) string {
	t.Helper()
	resp, err := browser.Get(s.PanelURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// SubmitForm posts the create form and returns the page it lands on.
func (s *Stack) SubmitForm(t *testing.T, name, slug string) string {
	t.Helper()
	resp, err := browser.PostForm(s.PanelURL+"/restaurants", url.Values{
		"nome": {name},
		"slug": {slug},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// waitForReady polls the health endpoint until it responds.
func waitForReady(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}
