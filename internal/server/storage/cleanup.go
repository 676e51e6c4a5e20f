package storage

import (
	"context"
	"log/slog"
	"time"

	"wfs/internal/server/database"
)

// CleanupService periodically removes expired snapshots from both
// the database and archive storage.
type CleanupService struct {
	repo     *database.Repository
	store    Store
	interval time.Duration
	done     chan struct{}
}

// NewCleanupService creates a new cleanup service.
func NewCleanupService(repo *database.Repository, store Store, interval time.Duration) *CleanupService {
	return &CleanupService{
		repo:     repo,
		store:    store,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup loop in a background goroutine.
func (cs *CleanupService) Start(ctx context.Context) {
	slog.Info("cleanup service started", "interval", cs.interval)

	go func() {
		ticker := time.NewTicker(cs.interval)
		defer ticker.Stop()

		// Run once immediately on start
		cs.runCleanup(ctx)

		for {
			select {
			case <-ticker.C:
				cs.runCleanup(ctx)
			case <-ctx.Done():
				slog.Info("cleanup service stopping")
				close(cs.done)
				return
			}
		}
	}()
}

// Wait blocks until the cleanup service has fully stopped.
func (cs *CleanupService) Wait() {
	<-cs.done
}

func (cs *CleanupService) runCleanup(ctx context.Context) {
	slog.Info("running cleanup cycle")

	expired, err := cs.repo.GetExpired(ctx)
	if err != nil {
		slog.Error("failed to get expired snapshots", "error", err)
		return
	}

	if len(expired) == 0 {
		slog.Info("no expired snapshots to clean up")
		return
	}

	var cleaned, failed int
	for _, snap := range expired {
		// Delete archive from storage
		if err := cs.store.Delete(snap.ID); err != nil {
			slog.Error("failed to delete archive",
				"snapshot_id", snap.ID,
				"error", err,
			)
			failed++
			continue
		}

		// Delete record from database
		if err := cs.repo.Delete(ctx, snap.ID); err != nil {
			slog.Error("failed to delete db record",
				"snapshot_id", snap.ID,
				"error", err,
			)
			failed++
			continue
		}

		cleaned++
		slog.Info("cleaned up expired snapshot",
			"snapshot_id", snap.ID,
			"label", snap.Label,
			"expired_at", snap.ExpiresAt,
		)
	}

	slog.Info("cleanup cycle complete",
		"cleaned", cleaned,
		"failed", failed,
		"total_expired", len(expired),
	)
}
