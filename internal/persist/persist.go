// Package persist provides snapshot backends for the memory store.
package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/hippocampus/internal/model"
)

// SchemaVersion is the snapshot version written by this package.
// Legacy snapshots (bare entry arrays) report version 0.
const SchemaVersion = 1

// ErrNotFound is returned by Load when no snapshot exists yet.
var ErrNotFound = errors.New("snapshot not found")

// PersistenceError reports an I/O or decoding failure other than a
// missing snapshot.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// RawEntry is an entry as stored on disk. Pointer fields let the loader
// tell a missing field apart from an empty one.
type RawEntry struct {
	ID         *string  `json:"id,omitempty"`
	Timestamp  *string  `json:"timestamp,omitempty"`
	Experience *string  `json:"experience,omitempty"`
	Tags       []string `json:"tags"`
}

// Snapshot is the durable form of a memory store. The tag index is not
// stored; it is derived from Entries on load.
type Snapshot struct {
	Version  int        `json:"version"`
	Entries  []RawEntry `json:"entries"`
	Promoted []string   `json:"promoted,omitempty"`
}

// Legacy reports whether the snapshot came from an unversioned file.
func (s Snapshot) Legacy() bool { return s.Version == 0 }

// NewSnapshot builds a current-version snapshot.
func NewSnapshot(entries []model.Entry, promoted []string) Snapshot {
	raw := make([]RawEntry, len(entries))
	for i, e := range entries {
		id, ts, exp := e.ID, e.Timestamp, e.Experience
		raw[i] = RawEntry{Timestamp: &ts, Experience: &exp, Tags: e.Tags}
		if id != "" {
			raw[i].ID = &id
		}
	}
	return Snapshot{Version: SchemaVersion, Entries: raw, Promoted: promoted}
}

// Backend stores and retrieves snapshots.
type Backend interface {
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error

	// Load returns the stored snapshot, or ErrNotFound.
	Load(ctx context.Context) (Snapshot, error)

	// Location describes where snapshots live (usually a file path).
	Location() string

	// Close releases any held resources.
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
)

// Open returns the backend of the given kind rooted at path.
func Open(kind, path string) (Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	switch kind {
	case "", KindJSON:
		return NewJSONFile(path), nil
	case KindSQLite:
		return NewSQLite(path), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (valid: json, sqlite)", kind)
	}
}
