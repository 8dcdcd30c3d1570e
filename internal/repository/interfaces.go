package repository

import (
	"context"
	"time"

	"github.com/iconidentify/vidgrab/internal/domain"
)

// DownloadLogRepository persists the append-only download log.
type DownloadLogRepository interface {
	// Append inserts one log entry. Entries are never mutated or
	// deleted individually; only retention pruning removes rows.
	Append(ctx context.Context, entry *domain.DownloadLogEntry) error

	// ListRecent returns up to n entries, newest first.
	ListRecent(ctx context.Context, n int) ([]*domain.DownloadLogEntry, error)

	// Prune removes entries created before the horizon and reports how
	// many rows were removed.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	// Close releases the underlying store.
	Close() error
}
