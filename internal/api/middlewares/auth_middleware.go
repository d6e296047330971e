package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/api/router"
	"github.com/markdave123-py/SpiderCare/internal/apierr"
	"github.com/markdave123-py/SpiderCare/internal/requestdata"
)

// Authenticator resolves a bearer token to the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*requestdata.RequestData, error)
}

const bearerPrefix = "Bearer "

// BearerToken returns the token of a "Bearer <token>" header. ok is false
// when the scheme is missing.
func BearerToken(r *http.Request) (token string, ok bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix)), true
}

// RequireAuth rejects requests without a live session and attaches the
// resolved user and session to the request context otherwise.
func RequireAuth(auth Authenticator) router.Middleware {
	return func(r *http.Request) (context.Context, *router.Response) {
		token, ok := BearerToken(r)
		if !ok {
			return nil, router.Error(http.StatusUnauthorized, "Authentication required", nil)
		}
		if token == "" {
			return nil, router.Error(http.StatusUnauthorized, "Invalid token format", nil)
		}

		rd, err := auth.Authenticate(r.Context(), token)
		if err != nil {
			if e, ok := apierr.As(err); ok && e.Status < http.StatusInternalServerError {
				return nil, router.Error(e.Status, e.Message, nil)
			}
			log.Error().Err(err).Str("path", r.URL.Path).Msg("auth middleware")
			return nil, router.Error(http.StatusInternalServerError, "Authentication error", nil)
		}
		return requestdata.WithRequestData(r.Context(), rd), nil
	}
}

// OptionalAuth attaches the caller when a valid token is presented and
// otherwise lets the request through anonymously.
func OptionalAuth(auth Authenticator) router.Middleware {
	return func(r *http.Request) (context.Context, *router.Response) {
		token, ok := BearerToken(r)
		if !ok || token == "" {
			return nil, nil
		}
		rd, err := auth.Authenticate(r.Context(), token)
		if err != nil {
			if e, ok := apierr.As(err); !ok || e.Status >= http.StatusInternalServerError {
				log.Warn().Err(err).Msg("optional auth lookup failed")
			}
			return nil, nil
		}
		return requestdata.WithRequestData(r.Context(), rd), nil
	}
}
