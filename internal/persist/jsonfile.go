package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONFile stores snapshots as an indented JSON document.
type JSONFile struct {
	path string
}

// NewJSONFile returns a JSON backend for path. Nothing is touched on disk
// until Save or Load is called.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Location() string { return j.path }

func (j *JSONFile) Close() error { return nil }

// Load reads either the versioned document or the legacy bare array.
func (j *JSONFile) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	f, err := os.Open(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, &PersistenceError{Op: "open", Path: j.path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Snapshot{}, &PersistenceError{Op: "read", Path: j.path, Err: err}
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return Snapshot{}, &PersistenceError{Op: "decode", Path: j.path, Err: err}
	}
	return snap, nil
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Snapshot{}, fmt.Errorf("empty document")
	}

	// Legacy logs are a bare array of entries.
	if trimmed[0] == '[' {
		var entries []RawEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Version: 0, Entries: entries}, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return Snapshot{}, err
	}
	if snap.Version > SchemaVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d (max %d)", snap.Version, SchemaVersion)
	}
	return snap, nil
}

// Save writes the snapshot to a temp file and renames it into place.
func (j *JSONFile) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Op: "mkdir", Path: dir, Err: err}
	}

	if snap.Entries == nil {
		snap.Entries = []RawEntry{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "encode", Path: j.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return &PersistenceError{Op: "create", Path: j.path, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		return &PersistenceError{Op: "write", Path: j.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &PersistenceError{Op: "sync", Path: j.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "close", Path: j.path, Err: err}
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		committed = true
		return &PersistenceError{Op: "rename", Path: j.path, Err: err}
	}
	committed = true
	return nil
}
