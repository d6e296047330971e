package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestCount(t *testing.T, method, route, status string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, HttpRequestsTotal.WithLabelValues(method, route, status).Write(&m))
	return m.GetCounter().GetValue()
}

func TestMiddleware_CountsByRouteLabel(t *testing.T) {
	h := Middleware(func(*http.Request) string { return "/api/history/:id" })(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}),
	)

	before := requestCount(t, http.MethodGet, "/api/history/:id", "404")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/history/abc", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/history/def", nil))

	assert.Equal(t, 2.0, requestCount(t, http.MethodGet, "/api/history/:id", "404")-before)
}

func TestMiddleware_DefaultStatus(t *testing.T) {
	h := Middleware(func(*http.Request) string { return "ok-route" })(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("hi")) }),
	)
	before := requestCount(t, http.MethodPost, "ok-route", "200")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, 1.0, requestCount(t, http.MethodPost, "ok-route", "200")-before)
}
