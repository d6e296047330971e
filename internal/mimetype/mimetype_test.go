package mimetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"index.html", "text/html"},
		{"css/app.css", "text/css"},
		{"js/app.js", "text/javascript"},
		{"f.WOFF2", "font/woff2"},
		{"img/logo.svg", "image/svg+xml"},
		{"README", "text/plain"},
		{"archive.tar.gz", "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForName(tt.name))
		})
	}
}
