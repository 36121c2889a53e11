// Package memory implements the hippocampus: an append-only log of tagged
// experiences with a derived tag index.
//
// Store is safe for concurrent use. Mutations are serialized under a
// single write lock; reads share a read lock.
package memory

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/rcliao/hippocampus/internal/model"
	"github.com/rcliao/hippocampus/internal/persist"
)

// ErrNoBackend is returned by Persist and Load on a store built without
// a backend.
var ErrNoBackend = errors.New("no persistence backend configured")

// record is a log slot. at is the effective time used for ordering and
// decay: the parsed timestamp, or the import time when it did not parse.
type record struct {
	entry  model.Entry
	at     time.Time
	parsed bool
}

// Store owns the memory log, the tag index and the promoted tag set.
type Store struct {
	mu       sync.RWMutex
	log      []*record
	index    map[string][]*record
	ids      map[string]struct{}
	promoted map[string]struct{}
	// last is the newest parsed time in the log; encode never stamps earlier.
	last time.Time

	backend persist.Backend
	now     func() time.Time
	logger  zerolog.Logger
	entropy *rand.Rand
}

// Option configures a Store.
type Option func(*Store)

// WithBackend sets where Persist and Load read and write snapshots.
func WithBackend(b persist.Backend) Option {
	return func(s *Store) { s.backend = b }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for load and decay events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		index:    make(map[string][]*record),
		ids:      make(map[string]struct{}),
		promoted: make(map[string]struct{}),
		now:      time.Now,
		logger:   zerolog.Nop(),
		entropy:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the backend, if any.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// Location reports the backend location, or "" without a backend.
func (s *Store) Location() string {
	if s.backend == nil {
		return ""
	}
	return s.backend.Location()
}

// newID must be called with the write lock held; entropy is not shared-safe.
func (s *Store) newID(t time.Time) string {
	id, err := ulid.New(ulid.Timestamp(t), s.entropy)
	if err != nil {
		// Timestamps outside the ULID range fall back to the clock.
		id = ulid.MustNew(ulid.Timestamp(s.now()), s.entropy)
	}
	return id.String()
}

// Encode appends an experience stamped with the current time. Without
// tags the entry is indexed under "untagged".
func (s *Store) Encode(experience string, tags ...string) model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encodeLocked(experience, model.NormalizeTags(tags, model.UntaggedTag))
}

// AppendThread encodes a threaded entry such as a conversation. Without
// tags the entry is indexed under "thread".
func (s *Store) AppendThread(thread string, tags ...string) model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encodeLocked(thread, model.NormalizeTags(tags, model.ThreadTag))
}

func (s *Store) encodeLocked(experience string, tags []string) model.Entry {
	now := s.now().UTC()
	if now.Before(s.last) {
		now = s.last
	}

	if strings.TrimSpace(experience) == "" {
		experience = model.NoContent
	}

	e := model.Entry{
		ID:         s.newID(now),
		Timestamp:  model.FormatTimestamp(now),
		Experience: experience,
		Tags:       tags,
	}
	s.appendLocked(&record{entry: e, at: now, parsed: true})
	return cloneEntry(e)
}

// Strip is a preformatted entry replayed from another log. Empty fields
// count as missing.
type Strip struct {
	ID         string   `json:"id,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Ingest appends a preformatted entry, keeping its timestamp. A missing
// timestamp becomes the current time, a missing experience becomes the
// "no content" sentinel and missing tags become "untagged". A supplied ID
// already present in the log is replaced with a fresh one.
func (s *Store) Ingest(strip Strip) model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strip.ID
	if _, taken := s.ids[id]; taken {
		s.logger.Debug().Str("id", id).Msg("ingested id already in log, re-keying")
		id = ""
	}
	rec := s.newRecordLocked(id, strip.Timestamp, strip.Experience, strip.Tags)
	s.appendLocked(rec)
	return cloneEntry(rec.entry)
}

func (s *Store) newRecordLocked(id, ts, experience string, tags []string) *record {
	imported := s.now().UTC()

	at, parsed := imported, false
	if ts == "" {
		ts = model.FormatTimestamp(imported)
		parsed = true
	} else if t, ok := model.ParseTimestamp(ts); ok {
		at, parsed = t, true
	}

	if experience == "" {
		experience = model.NoContent
	}
	if id == "" {
		id = s.newID(at)
	}

	return &record{
		entry: model.Entry{
			ID:         id,
			Timestamp:  ts,
			Experience: experience,
			Tags:       model.NormalizeTags(tags, model.UntaggedTag),
		},
		at:     at,
		parsed: parsed,
	}
}

func (s *Store) appendLocked(r *record) {
	s.log = append(s.log, r)
	s.indexLocked(r)
}

func (s *Store) indexLocked(r *record) {
	for _, tag := range r.entry.Tags {
		s.index[tag] = append(s.index[tag], r)
	}
	s.ids[r.entry.ID] = struct{}{}
	if r.parsed && r.at.After(s.last) {
		s.last = r.at
	}
}

// rebuildIndexLocked derives the tag index and ID set from the log.
func (s *Store) rebuildIndexLocked() {
	s.index = make(map[string][]*record)
	s.ids = make(map[string]struct{}, len(s.log))
	for _, r := range s.log {
		s.indexLocked(r)
	}
}

func (s *Store) resetLocked() {
	s.log = nil
	s.index = make(map[string][]*record)
	s.ids = make(map[string]struct{})
	s.promoted = make(map[string]struct{})
}

// Len returns the number of entries in the log.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}

// Entries returns a copy of the log in insertion order.
func (s *Store) Entries() []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entriesOf(s.log)
}

func entriesOf(recs []*record) []model.Entry {
	out := make([]model.Entry, len(recs))
	for i, r := range recs {
		out[i] = cloneEntry(r.entry)
	}
	return out
}

func cloneEntry(e model.Entry) model.Entry {
	e.Tags = append([]string(nil), e.Tags...)
	return e
}
