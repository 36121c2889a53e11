package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rcliao/hippocampus/internal/model"
	"github.com/rcliao/hippocampus/internal/persist"
)

// LoadResult reports the outcome of Load.
type LoadResult struct {
	Loaded   int  `json:"loaded" yaml:"loaded"`
	Skipped  int  `json:"skipped" yaml:"skipped"`
	NotFound bool `json:"not_found,omitempty" yaml:"not_found,omitempty"`
	Legacy   bool `json:"legacy,omitempty" yaml:"legacy,omitempty"`
}

// Persist writes the log and promoted tags through the backend. The tag
// index is not stored.
func (s *Store) Persist(ctx context.Context) error {
	if s.backend == nil {
		return ErrNoBackend
	}

	s.mu.RLock()
	snap := persist.NewSnapshot(entriesOf(s.log), s.promotedLocked())
	s.mu.RUnlock()

	if err := s.backend.Save(ctx, snap); err != nil {
		return err
	}
	s.logger.Debug().Str("path", s.backend.Location()).Int("entries", len(snap.Entries)).Msg("memory log persisted")
	return nil
}

// Load replaces the log with the stored snapshot and rebuilds the tag
// index. A missing snapshot resets the store to empty and is not an error.
// Entries without an experience are skipped and counted.
func (s *Store) Load(ctx context.Context) (LoadResult, error) {
	if s.backend == nil {
		return LoadResult{}, ErrNoBackend
	}

	snap, err := s.backend.Load(ctx)
	if errors.Is(err, persist.ErrNotFound) {
		s.mu.Lock()
		s.resetLocked()
		s.mu.Unlock()
		s.logger.Info().Str("path", s.backend.Location()).Msg("no memory log found, starting empty")
		return LoadResult{NotFound: true}, nil
	}
	if err != nil {
		return LoadResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := LoadResult{Legacy: snap.Legacy()}
	recs := make([]*record, 0, len(snap.Entries))
	seen := make(map[string]struct{}, len(snap.Entries))
	for i, raw := range snap.Entries {
		if raw.Experience == nil || *raw.Experience == "" {
			res.Skipped++
			s.logger.Warn().Int("position", i).Msg("skipping memory entry without experience")
			continue
		}
		id := deref(raw.ID)
		if _, dup := seen[id]; dup {
			id = ""
		}
		r := s.newRecordLocked(id, deref(raw.Timestamp), *raw.Experience, raw.Tags)
		seen[r.entry.ID] = struct{}{}
		recs = append(recs, r)
	}
	res.Loaded = len(recs)

	s.log = recs
	s.last = time.Time{}
	s.rebuildIndexLocked()
	if !snap.Legacy() {
		s.promoted = make(map[string]struct{}, len(snap.Promoted))
		for _, tag := range snap.Promoted {
			s.promoted[tag] = struct{}{}
		}
	}

	ev := s.logger.Info()
	if res.Skipped > 0 {
		ev = s.logger.Warn()
	}
	ev.Str("path", s.backend.Location()).
		Int("loaded", res.Loaded).
		Int("skipped", res.Skipped).
		Bool("legacy", res.Legacy).
		Msg("memory log loaded")

	return res, nil
}

// LoadAffirmations encodes every phrase of a JSON string array under the
// symbolic, anchor and truth tags. It returns the number encoded.
func (s *Store) LoadAffirmations(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open affirmations: %w", err)
	}
	defer f.Close()

	var phrases []string
	if err := json.NewDecoder(f).Decode(&phrases); err != nil {
		return 0, fmt.Errorf("decode affirmations: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, phrase := range phrases {
		s.encodeLocked(phrase, model.NormalizeTags(model.AffirmationTags, model.UntaggedTag))
	}
	return len(phrases), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
