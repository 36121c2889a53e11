package memory

import (
	"sort"
	"strings"
	"time"
)

// DefaultSummaryLimit is the summary size used when limit is not positive.
const DefaultSummaryLimit = 5

// CountReferences counts entries whose experience contains substr.
// Matching is case-sensitive.
func (s *Store) CountReferences(substr string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.log {
		if strings.Contains(r.entry.Experience, substr) {
			n++
		}
	}
	return n
}

// Summarize renders the limit most recently appended entries, oldest
// first, as "timestamp[:19] :: experience".
func (s *Store) Summarize(limit int) []string {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := s.log
	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	lines := make([]string, len(recent))
	for i, r := range recent {
		lines[i] = r.entry.Summary()
	}
	return lines
}

// TagCount is a tag with the number of entries indexed under it.
type TagCount struct {
	Tag      string `json:"tag" yaml:"tag"`
	Count    int    `json:"count" yaml:"count"`
	Promoted bool   `json:"promoted,omitempty" yaml:"promoted,omitempty"`
}

// Stats holds store statistics.
type Stats struct {
	Location string     `json:"location,omitempty" yaml:"location,omitempty"`
	Entries  int        `json:"entries" yaml:"entries"`
	Oldest   *time.Time `json:"oldest,omitempty" yaml:"oldest,omitempty"`
	Newest   *time.Time `json:"newest,omitempty" yaml:"newest,omitempty"`
	Promoted []string   `json:"promoted" yaml:"promoted"`
	Tags     []TagCount `json:"tags" yaml:"tags"`
}

// Stats returns entry and tag statistics, tags ordered by count then name.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Location: s.Location(),
		Entries:  len(s.log),
		Promoted: s.promotedLocked(),
		Tags:     make([]TagCount, 0, len(s.index)),
	}

	for _, r := range s.log {
		at := r.at
		if st.Oldest == nil || at.Before(*st.Oldest) {
			st.Oldest = &at
		}
		if st.Newest == nil || at.After(*st.Newest) {
			st.Newest = &at
		}
	}

	for tag, recs := range s.index {
		_, promoted := s.promoted[tag]
		st.Tags = append(st.Tags, TagCount{Tag: tag, Count: len(recs), Promoted: promoted})
	}
	sort.Slice(st.Tags, func(i, j int) bool {
		if st.Tags[i].Count != st.Tags[j].Count {
			return st.Tags[i].Count > st.Tags[j].Count
		}
		return st.Tags[i].Tag < st.Tags[j].Tag
	})

	return st
}
