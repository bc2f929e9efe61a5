package static

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexHTML = "<!doctype html><title>AI Financial Analyst</title>"

func newBundle(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(indexHTML), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log('ok')"), 0o644))
	return dir
}

func TestHandler(t *testing.T) {
	h, err := NewHandler(newBundle(t), "index.html")
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"root serves entry document", http.MethodGet, "/", http.StatusOK, indexHTML},
		{"entry document by name", http.MethodGet, "/index.html", http.StatusOK, indexHTML},
		{"asset", http.MethodGet, "/assets/app.js", http.StatusOK, "console.log('ok')"},
		{"client route falls back", http.MethodGet, "/dashboard/loans", http.StatusOK, indexHTML},
		{"directory falls back", http.MethodGet, "/assets/", http.StatusOK, indexHTML},
		{"missing asset", http.MethodGet, "/assets/missing.css", http.StatusNotFound, ""},
		{"traversal stays in root", http.MethodGet, "/../../etc/passwd", http.StatusOK, indexHTML},
		{"post not allowed", http.MethodPost, "/", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestNewHandler_MissingBundle(t *testing.T) {
	_, err := NewHandler(filepath.Join(t.TempDir(), "dist"), "index.html")
	assert.ErrorContains(t, err, "does not exist")

	_, err = NewHandler(t.TempDir(), "index.html")
	assert.ErrorContains(t, err, "entry document")
}
