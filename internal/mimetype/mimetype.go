// Package mimetype maps asset file names to the content type they are
// served and stored with.
package mimetype

import (
	"path"
	"strings"
)

const fallback = "text/plain"

var byExt = map[string]string{
	".html":  "text/html",
	".css":   "text/css",
	".js":    "text/javascript",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".txt":   "text/plain",
	".pdf":   "application/pdf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".eot":   "application/vnd.ms-fontobject",
}

// ForName returns the type for name's extension, case-insensitively.
func ForName(name string) string {
	if ct, ok := byExt[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return fallback
}
