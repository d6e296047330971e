package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/SpiderCare/internal/apierr"
)

type ctxKey struct{}

func ok(body string) Handler {
	return func(r *http.Request, params []string) (*Response, error) {
		return Success(map[string]any{"message": body, "params": params}), nil
	}
}

func serve(t *testing.T, rt *Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestDispatch_ExactAndPattern(t *testing.T) {
	rt := New(
		Exact("/api/history/search", Methods{http.MethodGet: ok("search")}),
		Pattern(`^/api/history/([a-zA-Z0-9-]+)$`, Methods{http.MethodGet: ok("conversation")}),
	)

	rec := serve(t, rt, http.MethodGet, "/api/history/search")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "search", decode(t, rec)["message"])

	rec = serve(t, rt, http.MethodGet, "/api/history/abc-123")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "conversation", body["message"])
	assert.Equal(t, []any{"abc-123"}, body["params"])
	assert.Equal(t, true, body["success"])
}

func TestDispatch_FirstMatchWins(t *testing.T) {
	rt := New(
		Pattern(`^/(.*)$`, Methods{http.MethodGet: ok("catch-all")}),
		Exact("/api/greeting", Methods{http.MethodGet: ok("greeting")}),
	)
	rec := serve(t, rt, http.MethodGet, "/api/greeting")
	assert.Equal(t, "catch-all", decode(t, rec)["message"])
}

func TestDispatch_NotFound(t *testing.T) {
	rt := New(Exact("/api/greeting", Methods{http.MethodGet: ok("greeting")}))
	rec := serve(t, rt, http.MethodGet, "/api/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not found", body["message"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDispatch_MethodNotAllowed(t *testing.T) {
	rt := New(Exact("/api/user/settings", Methods{
		http.MethodGet: ok("get"),
		http.MethodPut: ok("put"),
	}))
	rec := serve(t, rt, http.MethodDelete, "/api/user/settings")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, PUT", rec.Header().Get("Allow"))
	assert.Equal(t, "Method not allowed", decode(t, rec)["message"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDispatch_Preflight(t *testing.T) {
	called := false
	rt := New(Exact("/api/chat", Methods{http.MethodPost: func(r *http.Request, _ []string) (*Response, error) {
		called = true
		return Message("x"), nil
	}}))

	for _, path := range []string{"/api/chat", "/not/a/route"} {
		rec := serve(t, rt, http.MethodOptions, path)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	}
	assert.False(t, called)
}

func TestDispatch_MiddlewareOrderAndShortCircuit(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(r *http.Request) (context.Context, *Response) {
			order = append(order, name)
			return context.WithValue(r.Context(), ctxKey{}, name), nil
		}
	}
	deny := func(r *http.Request) (context.Context, *Response) {
		order = append(order, "deny")
		return nil, Error(http.StatusUnauthorized, "Authentication required", nil)
	}
	handler := func(r *http.Request, _ []string) (*Response, error) {
		order = append(order, "handler")
		return Message(r.Context().Value(ctxKey{}).(string)), nil
	}

	rt := New(
		Exact("/open", Methods{http.MethodGet: handler}, tag("first"), tag("second")),
		Exact("/closed", Methods{http.MethodGet: handler}, tag("first"), deny, tag("never")),
	)

	rec := serve(t, rt, http.MethodGet, "/open")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "second", decode(t, rec)["message"])
	assert.Equal(t, []string{"first", "second", "handler"}, order)

	order = nil
	rec = serve(t, rt, http.MethodGet, "/closed")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", decode(t, rec)["message"])
	assert.Equal(t, []string{"first", "deny"}, order)
}

func TestDispatch_HandlerFailures(t *testing.T) {
	rt := New(
		Exact("/panic", Methods{http.MethodGet: func(r *http.Request, _ []string) (*Response, error) {
			panic("boom")
		}}),
		Exact("/error", Methods{http.MethodGet: func(r *http.Request, _ []string) (*Response, error) {
			return nil, errors.New("db down: password=hunter2")
		}}),
		Exact("/apierr", Methods{http.MethodGet: func(r *http.Request, _ []string) (*Response, error) {
			return nil, apierr.Internal("An error occurred while fetching settings", errors.New("db down"))
		}}),
		Exact("/conflict", Methods{http.MethodGet: func(r *http.Request, _ []string) (*Response, error) {
			return nil, apierr.Conflict("A user with this email already exists.")
		}}),
		Exact("/nil", Methods{http.MethodGet: func(r *http.Request, _ []string) (*Response, error) {
			return nil, nil
		}}),
	)

	for _, path := range []string{"/panic", "/error", "/nil"} {
		rec := serve(t, rt, http.MethodGet, path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		body := decode(t, rec)
		assert.Equal(t, "Internal server error", body["message"], path)
		assert.NotContains(t, rec.Body.String(), "hunter2")
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	rec := serve(t, rt, http.MethodGet, "/apierr")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An error occurred while fetching settings", decode(t, rec)["message"])
	assert.NotContains(t, rec.Body.String(), "db down")

	rec = serve(t, rt, http.MethodGet, "/conflict")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDispatch_SharedApierrNotMutated(t *testing.T) {
	shared := &apierr.Error{Status: http.StatusTeapot}
	rt := New(Exact("/tea", Methods{http.MethodGet: func(r *http.Request, _ []string) (*Response, error) {
		return nil, shared
	}}))

	for i := 0; i < 2; i++ {
		rec := serve(t, rt, http.MethodGet, "/tea")
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, http.StatusText(http.StatusTeapot), decode(t, rec)["message"])
	}
	assert.Empty(t, shared.Message)
}

func TestDispatch_ValidationFields(t *testing.T) {
	rt := New(Exact("/form", Methods{http.MethodPost: func(r *http.Request, _ []string) (*Response, error) {
		return nil, apierr.Validation("Validation failed", map[string]string{"email": "email is required"})
	}}))
	rec := serve(t, rt, http.MethodPost, "/form")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, map[string]any{"email": "email is required"}, body["errors"])
}

func TestResponse_RawKeepsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	Raw(http.StatusOK, "text/css", []byte("body{}")).Write(rec)

	assert.Equal(t, "text/css", rec.Header().Get("Content-Type"))
	assert.Equal(t, "body{}", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Label(t *testing.T) {
	rt := New(
		Exact("/api/history", Methods{http.MethodGet: ok("list")}),
		Pattern(`^/api/history/([a-z0-9-]+)$`, Methods{http.MethodGet: ok("one")}),
	)
	label := func(path string) string {
		return rt.Label(httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, "/api/history", label("/api/history"))
	assert.Equal(t, `^/api/history/([a-z0-9-]+)$`, label("/api/history/abc-1"))
	assert.Equal(t, "unmatched", label("/nope"))
}
