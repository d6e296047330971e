package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/api/router"
	"github.com/markdave123-py/SpiderCare/internal/core"
	"github.com/markdave123-py/SpiderCare/internal/mimetype"
	"github.com/markdave123-py/SpiderCare/internal/security"
)

// StaticHandler serves the frontend. Files are looked up in the asset
// bucket first, then in the local directory. A missing index.html is
// replaced by a placeholder page.
type StaticHandler struct {
	objects core.ObjectClient
	bucket  string
	dir     string
}

// NewStaticHandler accepts a nil objects client when no bucket is configured.
func NewStaticHandler(objects core.ObjectClient, bucket, dir string) *StaticHandler {
	return &StaticHandler{objects: objects, bucket: bucket, dir: dir}
}

func (h *StaticHandler) Serve(r *http.Request, params []string) (*router.Response, error) {
	name, ok := cleanAssetPath(param(params))
	if !ok {
		return router.NotFound(), nil
	}
	ct := mimetype.ForName(name)

	body, err := h.read(r.Context(), name)
	switch {
	case err == nil:
		return router.Raw(http.StatusOK, ct, body), nil
	case !errors.Is(err, core.ErrNotFound):
		log.Error().Err(err).Str("asset", name).Msg("serve static")
		return router.Error(http.StatusInternalServerError, "Error serving static file", nil), nil
	case name == "index.html":
		return router.Raw(http.StatusOK, "text/html", placeholderPage(name)), nil
	}
	return router.NotFound(), nil
}

func (h *StaticHandler) read(ctx context.Context, name string) ([]byte, error) {
	if h.objects != nil && h.bucket != "" {
		rc, err := h.objects.GetObjectReader(ctx, h.bucket, name)
		if err == nil {
			defer rc.Close()
			return io.ReadAll(rc)
		}
		if !errors.Is(err, core.ErrNotFound) {
			log.Warn().Err(err).Str("asset", name).Msg("asset bucket lookup failed, trying local dir")
		}
	}
	if h.dir == "" {
		return nil, core.ErrNotFound
	}
	b, err := os.ReadFile(filepath.Join(h.dir, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	return b, nil
}

// cleanAssetPath turns the captured path into a relative slash path. An
// empty path means index.html; paths escaping the root are rejected.
func cleanAssetPath(p string) (string, bool) {
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", false
		}
	}
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	if clean == "" {
		return "", false
	}
	return clean, true
}

func placeholderPage(name string) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>SpiderCare</title>
  <style>
    body { font-family: 'Montserrat', sans-serif; color: #e0e6f2; background-color: #0a1428; padding: 2rem; line-height: 1.6; }
    .container { max-width: 800px; margin: 0 auto; background-color: #111c33; padding: 2rem; border-radius: 20px; }
    h1 { color: #e62429; }
    code { background-color: #0d2456; padding: 0.2rem 0.4rem; border-radius: 4px; }
  </style>
</head>
<body>
  <div class="container">
    <h1>SpiderCare</h1>
    <p>The API is running but no frontend build was found.</p>
    <p>Set <code>STATIC_DIR</code> to a local build or <code>ASSET_BUCKET</code> to a bucket published with <code>cmd/assets</code>.</p>
    <p>You requested the file: <code>%s</code></p>
  </div>
</body>
</html>
`, security.SanitizeString(name)))
}
