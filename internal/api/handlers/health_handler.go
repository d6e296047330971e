package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/api/router"
	"github.com/markdave123-py/SpiderCare/internal/core"
)

type HealthHandler struct {
	db core.DbClient
}

func NewHealthHandler(db core.DbClient) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(r *http.Request, _ []string) (*router.Response, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("health check: store unreachable")
		return router.JSON(http.StatusServiceUnavailable, map[string]any{
			"success":  false,
			"status":   "degraded",
			"database": "unreachable",
		}), nil
	}
	return router.Success(map[string]any{"status": "ok", "database": "ok"}), nil
}
