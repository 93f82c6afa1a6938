package storage

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable reports that no snapshot exists or the backing store
	// cannot be reached. Callers treat it as "start empty", not as fatal.
	ErrUnavailable = errors.New("snapshot storage unavailable")

	// ErrCorrupt reports that stored content exists but cannot be parsed.
	ErrCorrupt = errors.New("snapshot storage corrupt")
)

// Store reads and writes whole bank snapshots.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
