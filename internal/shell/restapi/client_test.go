package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalota/panel/internal/core/domain"
)

func mustDraft(t *testing.T, name, slug string) domain.Draft {
	t.Helper()
	d, err := domain.NewDraft(name, slug)
	require.NoError(t, err)
	return d
}

// truncatedServer answers with status and a body that stops short of its
// declared Content-Length, then drops the connection.
func truncatedServer(t *testing.T, status int, partial string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		conn, buf, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		defer conn.Close()
		fmt.Fprintf(buf, "HTTP/1.1 %d %s\r\nContent-Type: application/json\r\nContent-Length: 256\r\n\r\n%s",
			status, http.StatusText(status), partial)
		buf.Flush()
	}))
	t.Cleanup(server.Close)
	return server
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewHTTPClient_Defaults(t *testing.T) {
	client := NewHTTPClient(Config{}, nil)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, NameFieldName, client.nameField)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
}

func TestNewHTTPClient_TrimsTrailingSlash(t *testing.T) {
	client := NewHTTPClient(Config{BaseURL: "http://localhost:3000/api/"}, nil)
	assert.Equal(t, "http://localhost:3000/api", client.BaseURL())
}

// =============================================================================
// List Tests
// =============================================================================

func TestHTTPClient_List_BareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/restaurants", r.URL.Path)
		w.Write([]byte(`[{"id":"1","name":"Pizza Joe","slug":"pizza-joe"}]`))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL + "/api"}, nil)
	list, err := client.List(context.Background())
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, domain.Restaurant{ID: "1", Name: "Pizza Joe", Slug: "pizza-joe"}, list[0])
}

func TestHTTPClient_List_ItemsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{ "items": [{ "name": "X", "slug": "x" }] }`))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	list, err := client.List(context.Background())
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "/r/x", list[0].PublicPath())
}

func TestHTTPClient_List_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	_, err := client.List(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrListFailed)
	assert.NotErrorIs(t, err, ErrCreateFailed)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPClient_List_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	_, err := client.List(context.Background())
	assert.ErrorIs(t, err, ErrListFailed)
}

func TestHTTPClient_List_TruncatedBody(t *testing.T) {
	server := truncatedServer(t, http.StatusOK, `[{"id":"1","name":"Pizza`)

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	_, err := client.List(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrListFailed)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusOK, StatusCode(err))
	assert.Contains(t, err.Error(), "read response")
	assert.Equal(t, "read_error", outcome(err))
}

func TestHTTPClient_List_NetworkError(t *testing.T) {
	client := NewHTTPClient(Config{
		BaseURL: "http://localhost:99999",
		Timeout: time.Second,
	}, nil)

	_, err := client.List(context.Background())
	assert.ErrorIs(t, err, ErrListFailed)
	assert.Equal(t, 0, StatusCode(err))
}

func TestHTTPClient_List_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewHTTPClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := client.List(context.Background())
	assert.ErrorIs(t, err, ErrListFailed)
}

// =============================================================================
// Create Tests
// =============================================================================

func TestHTTPClient_Create_SendsNameAndSlug(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/restaurants", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"r-1","name":"Pizza Joe","slug":"pizza-joe"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	created, err := client.Create(context.Background(), mustDraft(t, "Pizza Joe", ""))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"name": "Pizza Joe", "slug": "pizza-joe"}, received)
	assert.Equal(t, domain.Restaurant{ID: "r-1", Name: "Pizza Joe", Slug: "pizza-joe"}, created)
}

func TestHTTPClient_Create_LegacyNameField(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL, NameField: NameFieldNome}, nil)
	_, err := client.Create(context.Background(), mustDraft(t, "Maria Açaí", ""))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"nome": "Maria Açaí", "slug": "maria-acai"}, received)
}

func TestHTTPClient_Create_EmptySuccessBodyUsesDraft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	created, err := client.Create(context.Background(), mustDraft(t, "Cantina", ""))
	require.NoError(t, err)

	assert.Equal(t, domain.Restaurant{Name: "Cantina", Slug: "cantina"}, created)
}

func TestHTTPClient_Create_TruncatedSuccessBodyUsesDraft(t *testing.T) {
	server := truncatedServer(t, http.StatusCreated, `{"id":"42","name":"Cant`)

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	created, err := client.Create(context.Background(), mustDraft(t, "Cantina", ""))
	require.NoError(t, err)

	assert.Equal(t, domain.Restaurant{Name: "Cantina", Slug: "cantina"}, created)
}

func TestHTTPClient_Create_TruncatedErrorBodyKeepsReadError(t *testing.T) {
	server := truncatedServer(t, http.StatusInternalServerError, "")

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	_, err := client.Create(context.Background(), mustDraft(t, "Cantina", ""))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateFailed)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "http_error", outcome(err))
}

func TestHTTPClient_Create_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"slug already taken"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	_, err := client.Create(context.Background(), mustDraft(t, "Cantina", ""))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateFailed)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
	assert.Contains(t, err.Error(), "slug already taken")
}

func TestHTTPClient_Create_NetworkError(t *testing.T) {
	client := NewHTTPClient(Config{
		BaseURL: "http://localhost:99999",
		Timeout: time.Second,
	}, nil)

	_, err := client.Create(context.Background(), mustDraft(t, "Cantina", ""))
	assert.ErrorIs(t, err, ErrCreateFailed)
}

func TestHTTPClient_Create_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewHTTPClient(Config{BaseURL: server.URL}, nil)
	_, err := client.Create(ctx, mustDraft(t, "Cantina", ""))

	assert.ErrorIs(t, err, ErrCreateFailed)
	assert.True(t, errors.Is(err, context.Canceled))
}

// =============================================================================
// Error Tests
// =============================================================================

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "ok"},
		{"no response", newError("List", 0, msgSendRequest, ErrListFailed, errors.New("refused")), "transport_error"},
		{"plain error", errors.New("boom"), "transport_error"},
		{"bad status", newError("List", 503, msgStatus, ErrListFailed, nil), "http_error"},
		{"body cut short", newError("List", 200, msgReadResponse, ErrListFailed, io.ErrUnexpectedEOF), "read_error"},
		{"undecodable body", newError("List", 200, msgDecodeResponse, ErrListFailed, nil), "decode_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcome(tt.err))
		})
	}
}

func TestError_Message(t *testing.T) {
	err := newError("List", 503, "unexpected status", ErrListFailed, nil)
	assert.Equal(t, "List: unexpected status (HTTP 503)", err.Error())

	err = newError("Create", 0, "send request", ErrCreateFailed, errors.New("connection refused"))
	assert.Equal(t, "Create: send request: connection refused", err.Error())
}
