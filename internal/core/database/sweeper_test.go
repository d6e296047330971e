package db

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/SpiderCare/internal/models"
)

type countingStore struct {
	*MemoryClient
	calls atomic.Int32
}

func (c *countingStore) CleanupExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	c.calls.Add(1)
	return c.MemoryClient.CleanupExpiredSessions(ctx, now)
}

func TestRunSessionSweeper_SweepsAtStartAndStops(t *testing.T) {
	store := &countingStore{MemoryClient: NewMemoryClient()}
	seedUser(t, store.MemoryClient, "u-1", "a@x.io")
	require.NoError(t, store.CreateSession(context.Background(), &models.Session{
		UserID: "u-1", Token: "old", ExpiresAt: time.Now().Add(-time.Minute),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunSessionSweeper(ctx, store, time.Hour) }()

	assert.Eventually(t, func() bool { return store.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.Empty(t, store.sessions)
}

func TestRunSessionSweeper_Ticks(t *testing.T) {
	store := &countingStore{MemoryClient: NewMemoryClient()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = RunSessionSweeper(ctx, store, 10*time.Millisecond) }()

	assert.Eventually(t, func() bool { return store.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}
