package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/SpiderCare/internal/core"
	db "github.com/markdave123-py/SpiderCare/internal/core/database"
)

type fakeObjects map[string]string

func (f fakeObjects) UploadFile(context.Context, string, string, io.Reader, string) (string, error) {
	return "", errors.New("read only")
}

func (f fakeObjects) GetObjectReader(_ context.Context, _ string, key string) (io.ReadCloser, error) {
	body, ok := f[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return io.NopCloser(bytes.NewBufferString(body)), nil
}

func serveStatic(t *testing.T, h *StaticHandler, p string) *httptest.ResponseRecorder {
	t.Helper()
	resp, err := h.Serve(httptest.NewRequest(http.MethodGet, "/"+p, nil), []string{p})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	resp.Write(rec)
	return rec
}

func TestCleanAssetPath(t *testing.T) {
	tests := map[string]string{
		"":           "index.html",
		"js/":        "js/index.html",
		"css/a.css":  "css/a.css",
		"./js//x.js": "js/x.js",
	}
	for in, want := range tests {
		got, ok := cleanAssetPath(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := cleanAssetPath("../etc/passwd")
	assert.False(t, ok)
}

func TestStaticHandler_BucketThenDirThenPlaceholder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "app.js"), []byte("local()"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("local-css"), 0o644))

	h := NewStaticHandler(fakeObjects{"style.css": "bucket-css"}, "web", dir)

	rec := serveStatic(t, h, "style.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bucket-css", rec.Body.String())
	assert.Equal(t, "text/css", rec.Header().Get("Content-Type"))

	rec = serveStatic(t, h, "js/app.js")
	assert.Equal(t, "local()", rec.Body.String())
	assert.Equal(t, "text/javascript", rec.Header().Get("Content-Type"))

	rec = serveStatic(t, h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "index.html")

	rec = serveStatic(t, h, "missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticHandler_NoBucket(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hi</h1>"), 0o644))

	rec := serveStatic(t, NewStaticHandler(nil, "", dir), "")
	assert.Equal(t, "<h1>hi</h1>", rec.Body.String())
}

type downStore struct{ *db.MemoryClient }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler(t *testing.T) {
	resp, err := NewHealthHandler(db.NewMemoryClient()).Health(httptest.NewRequest(http.MethodGet, "/api/health", nil), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	resp, err = NewHealthHandler(downStore{db.NewMemoryClient()}).Health(httptest.NewRequest(http.MethodGet, "/api/health", nil), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.NotContains(t, string(resp.Body), "connection refused")
}
