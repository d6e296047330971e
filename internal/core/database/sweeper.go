package db

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/core"
	"github.com/markdave123-py/SpiderCare/internal/metrics"
)

// RunSessionSweeper deletes expired sessions once immediately and then on
// every tick until ctx is done. Read paths re-check expiry on their own.
func RunSessionSweeper(ctx context.Context, store core.DbClient, every time.Duration) error {
	sweep := func() {
		n, err := store.CleanupExpiredSessions(ctx, time.Now())
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("session sweep failed")
			}
			return
		}
		if n > 0 {
			metrics.SessionsSweptTotal.Add(float64(n))
			log.Info().Int64("removed", n).Msg("expired sessions removed")
		}
	}

	sweep()

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			sweep()
		}
	}
}
