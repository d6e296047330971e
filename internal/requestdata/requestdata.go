// Package requestdata threads the authenticated principal through a request
// context.
package requestdata

import (
	"context"

	"github.com/markdave123-py/SpiderCare/internal/models"
)

type requestDataKey struct{}

// RequestData is attached by the auth middleware for downstream handlers.
type RequestData struct {
	User    models.PublicUser
	Session models.Session
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

// GetRequestData returns nil for anonymous requests.
func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the authenticated user's id, or "" when anonymous.
func UserID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.User.ID
	}
	return ""
}
