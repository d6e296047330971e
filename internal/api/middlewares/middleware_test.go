package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/SpiderCare/internal/api/router"
	"github.com/markdave123-py/SpiderCare/internal/apierr"
	"github.com/markdave123-py/SpiderCare/internal/models"
	"github.com/markdave123-py/SpiderCare/internal/requestdata"
)

type fakeAuth map[string]error

func (f fakeAuth) Authenticate(_ context.Context, token string) (*requestdata.RequestData, error) {
	if err, ok := f[token]; ok {
		return nil, err
	}
	return &requestdata.RequestData{
		User:    models.PublicUser{ID: "u-1", Username: "peter", Email: "p@x.io"},
		Session: models.Session{ID: "s-1", Token: token},
	}, nil
}

var auth = fakeAuth{
	"expired": apierr.Unauthorized("Invalid or expired token"),
	"orphan":  apierr.Unauthorized("User not found"),
	"broken":  apierr.Internal("Authentication error", errors.New("db down")),
	"raw":     errors.New("unexpected"),
}

func whoami(r *http.Request, _ []string) (*router.Response, error) {
	return router.Success(map[string]any{"user": requestdata.UserID(r.Context())}), nil
}

func call(t *testing.T, mw router.Middleware, header string) (int, map[string]any) {
	t.Helper()
	rt := router.New(router.Exact("/me", router.Methods{http.MethodGet: whoami}, mw))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"no header", "", http.StatusUnauthorized, "Authentication required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Authentication required"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Invalid token format"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "Invalid or expired token"},
		{"orphan", "Bearer orphan", http.StatusUnauthorized, "User not found"},
		{"store failure", "Bearer broken", http.StatusInternalServerError, "Authentication error"},
		{"plain error", "Bearer raw", http.StatusInternalServerError, "Authentication error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := call(t, RequireAuth(auth), tt.header)
			assert.Equal(t, tt.status, code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.msg, body["message"])
		})
	}

	t.Run("valid", func(t *testing.T) {
		code, body := call(t, RequireAuth(auth), "Bearer good")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "u-1", body["user"])
	})
}

func TestOptionalAuth(t *testing.T) {
	for _, h := range []string{"", "Bearer ", "Bearer expired", "Bearer broken"} {
		code, body := call(t, OptionalAuth(auth), h)
		assert.Equal(t, http.StatusOK, code, h)
		assert.Equal(t, "", body["user"], h)
	}

	code, body := call(t, OptionalAuth(auth), "Bearer good")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "u-1", body["user"])
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := BearerToken(r)
	assert.False(t, ok)

	r.Header.Set("Authorization", "Bearer  abc ")
	tok, ok := BearerToken(r)
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, time.Minute)
	rt := router.New(router.Exact("/login", router.Methods{http.MethodPost: whoami}, rl.Middleware()))

	hit := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2:1111"), "buckets are per ip")
}

func TestRateLimiter_Evict(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	rl.get("a")
	rl.evict(time.Now().Add(2 * time.Minute))
	assert.Empty(t, rl.m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, rl.Run(ctx))
}
