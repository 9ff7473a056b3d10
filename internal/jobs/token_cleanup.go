package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TokenStore is the part of the token repository the cleanup job uses
type TokenStore interface {
	DeleteExpiredTokens(ctx context.Context) error
	CleanupRevokedTokens(ctx context.Context) error
}

// TokenCleanup periodically removes refresh tokens that can never be
// used again: expired rows, and revoked rows past their retention
// window.
type TokenCleanup struct {
	store    TokenStore
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewTokenCleanup creates a new token cleanup job
func NewTokenCleanup(store TokenStore, interval time.Duration) *TokenCleanup {
	if interval == 0 {
		interval = 1 * time.Hour
	}
	return &TokenCleanup{
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the cleanup job
func (j *TokenCleanup) Start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run()
	slog.Info("token cleanup started", "interval", j.interval)
}

// Stop gracefully stops the cleanup job
func (j *TokenCleanup) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	j.mu.Unlock()

	close(j.stopCh)
	j.wg.Wait()
	slog.Info("token cleanup stopped")
}

func (j *TokenCleanup) run() {
	defer j.wg.Done()

	// Run immediately on start
	j.sweep()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopCh:
			return
		}
	}
}

func (j *TokenCleanup) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.store.DeleteExpiredTokens(ctx); err != nil {
		slog.Error("failed to delete expired tokens", "error", err)
	}
	if err := j.store.CleanupRevokedTokens(ctx); err != nil {
		slog.Error("failed to clean up revoked tokens", "error", err)
	}
}
