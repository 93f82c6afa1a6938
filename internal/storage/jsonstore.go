package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONStore persists snapshots as a single JSON file. Writes are atomic:
// the snapshot goes to a temp file first and replaces the real file with a
// rename, so a crash mid-write never leaves a half-written snapshot behind.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads and parses the snapshot file. A missing file maps to
// ErrUnavailable, unparsable content to ErrCorrupt.
func (s *JSONStore) Load(_ context.Context) (Snapshot, error) {
	var snap Snapshot

	f, err := os.Open(s.path)
	if err != nil {
		return snap, fmt.Errorf("%w: %s", ErrUnavailable, s.path)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return snap, nil
}

// Save writes the snapshot to the file, replacing whatever was there.
func (s *JSONStore) Save(_ context.Context, snap Snapshot) error {
	snap.Meta.Storage = "json_snapshot"
	snap.Meta.Version = SchemaVersion
	snap.Meta.WrittenAt = time.Now()

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	// Indented output so the file stays hand-inspectable.
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}
