package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driven/api"
)

// TestNewClient tests configuration validation
func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"valid", "http://localhost:7139/api", false},
		{"trailing slash", "http://localhost:7139/api/", false},
		{"empty", "", true},
		{"no scheme", "localhost:7139", true},
		{"garbage", "::", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := api.NewClient(api.ClientConfig{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:7139/api", c.BaseURL())
			assert.Equal(t, "api", c.Name())
		})
	}
}

// TestClient_PostJSON tests headers, path joining and decoding
func TestClient_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))
		_, _ = w.Write([]byte(`{"b":"two"}`))
	}))
	defer srv.Close()

	c, err := api.NewClient(api.ClientConfig{
		BaseURL: srv.URL + "/api/",
		Headers: map[string]string{"X-Test": "yes"},
	})
	require.NoError(t, err)

	var out struct {
		B string `json:"b"`
	}
	require.NoError(t, c.PostJSON(context.Background(), "/echo", map[string]int{"a": 1}, &out))
	assert.Equal(t, "two", out.B)
}

// TestClient_StatusError tests non-2xx handling
func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := api.NewClient(api.ClientConfig{Name: "svc", BaseURL: srv.URL})
	require.NoError(t, err)

	err = c.GetJSON(context.Background(), "x", nil)
	var statusErr *api.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "svc error (status 500): nope", statusErr.Error())
}

// TestClient_DecodeError tests invalid JSON responses
func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c, err := api.NewClient(api.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	var out map[string]any
	err = c.GetJSON(context.Background(), "", &out)
	assert.ErrorContains(t, err, "decode response")
}

// TestClient_PostMultipart tests file part encoding
func TestClient_PostMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF", string(data))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := api.NewClient(api.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	err = c.PostMultipart(context.Background(), "upload", api.FilePart{
		Name:     "report.pdf",
		MimeType: "application/pdf",
		Content:  strings.NewReader("%PDF"),
	}, nil)
	assert.NoError(t, err)
}

// TestClient_TooManyRequests tests that a 429 delays later requests
func TestClient_TooManyRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := api.NewClient(api.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	require.Error(t, c.GetJSON(context.Background(), "", nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = c.GetJSON(ctx, "", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
