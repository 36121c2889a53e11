package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLite stores snapshots in a SQLite database.
type SQLite struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewSQLite returns a SQLite backend for dbPath. The database is opened
// on first use.
func NewSQLite(dbPath string) *SQLite {
	return &SQLite{path: dbPath}
}

func (s *SQLite) Location() string { return s.path }

func (s *SQLite) open() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s.db = db
	return db, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entries (
		seq        INTEGER PRIMARY KEY,
		id         TEXT,
		timestamp  TEXT,
		experience TEXT,
		tags       TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp DESC);

	CREATE TABLE IF NOT EXISTS promoted_tags (
		tag TEXT PRIMARY KEY
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	var raw string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, strconv.Itoa(SchemaVersion))
		return err
	case err != nil:
		return err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("bad schema_version %q", raw)
	}
	if v > SchemaVersion {
		return fmt.Errorf("unsupported schema version %d (max %d)", v, SchemaVersion)
	}
	return nil
}

// Load reads the stored snapshot. A missing database file is ErrNotFound.
func (s *SQLite) Load(ctx context.Context) (Snapshot, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, &PersistenceError{Op: "stat", Path: s.path, Err: err}
	}

	db, err := s.open()
	if err != nil {
		return Snapshot{}, &PersistenceError{Op: "open", Path: s.path, Err: err}
	}

	snap := Snapshot{Version: SchemaVersion, Entries: []RawEntry{}}

	rows, err := db.QueryContext(ctx, `SELECT id, timestamp, experience, tags FROM entries ORDER BY seq`)
	if err != nil {
		return Snapshot{}, &PersistenceError{Op: "query", Path: s.path, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return Snapshot{}, &PersistenceError{Op: "scan", Path: s.path, Err: err}
		}
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, &PersistenceError{Op: "scan", Path: s.path, Err: err}
	}

	tagRows, err := db.QueryContext(ctx, `SELECT tag FROM promoted_tags ORDER BY tag`)
	if err != nil {
		return Snapshot{}, &PersistenceError{Op: "query", Path: s.path, Err: err}
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return Snapshot{}, &PersistenceError{Op: "scan", Path: s.path, Err: err}
		}
		snap.Promoted = append(snap.Promoted, tag)
	}
	if err := tagRows.Err(); err != nil {
		return Snapshot{}, &PersistenceError{Op: "scan", Path: s.path, Err: err}
	}

	return snap, nil
}

// Save replaces all stored entries and promoted tags in one transaction.
func (s *SQLite) Save(ctx context.Context, snap Snapshot) error {
	db, err := s.open()
	if err != nil {
		return &PersistenceError{Op: "open", Path: s.path, Err: err}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "begin", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return &PersistenceError{Op: "clear entries", Path: s.path, Err: err}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM promoted_tags`); err != nil {
		return &PersistenceError{Op: "clear promoted", Path: s.path, Err: err}
	}

	for i, e := range snap.Entries {
		var tagsJSON *string
		if e.Tags != nil {
			b, err := json.Marshal(e.Tags)
			if err != nil {
				return &PersistenceError{Op: "encode tags", Path: s.path, Err: err}
			}
			v := string(b)
			tagsJSON = &v
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries (seq, id, timestamp, experience, tags) VALUES (?, ?, ?, ?, ?)`,
			i, e.ID, e.Timestamp, e.Experience, tagsJSON)
		if err != nil {
			return &PersistenceError{Op: "insert entry", Path: s.path, Err: err}
		}
	}

	for _, tag := range snap.Promoted {
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO promoted_tags (tag) VALUES (?)`, tag)
		if err != nil {
			return &PersistenceError{Op: "insert promoted", Path: s.path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit", Path: s.path, Err: err}
	}
	return nil
}

// Close closes the database if it was opened.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (RawEntry, error) {
	var e RawEntry
	var id, ts, exp, tagsJSON sql.NullString

	if err := row.Scan(&id, &ts, &exp, &tagsJSON); err != nil {
		return e, err
	}

	if id.Valid {
		e.ID = &id.String
	}
	if ts.Valid {
		e.Timestamp = &ts.String
	}
	if exp.Valid {
		e.Experience = &exp.String
	}
	if tagsJSON.Valid {
		if err := json.Unmarshal([]byte(tagsJSON.String), &e.Tags); err != nil {
			return e, fmt.Errorf("decode tags: %w", err)
		}
	}
	return e, nil
}
