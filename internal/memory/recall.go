package memory

import (
	"sort"

	"github.com/rcliao/hippocampus/internal/model"
)

// DefaultTopK is the recall size used when topK is not positive.
const DefaultTopK = 3

// Recall returns up to topK entries indexed under tag, newest first.
// Entries with equal times keep their log order. An unknown tag yields
// an empty result.
func (s *Store) Recall(tag string, topK int) []model.Entry {
	if topK <= 0 {
		topK = DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.index[tag]
	if len(candidates) == 0 {
		return []model.Entry{}
	}

	sorted := make([]*record, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].at.After(sorted[j].at)
	})

	if len(sorted) > topK {
		sorted = sorted[:topK]
	}
	return entriesOf(sorted)
}

// Promote marks tag as long-term relevant. Promoting twice is a no-op.
func (s *Store) Promote(tag string) {
	if tag == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promoted[tag] = struct{}{}
}

// Promoted returns the promoted tags in sorted order.
func (s *Store) Promoted() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.promotedLocked()
}

func (s *Store) promotedLocked() []string {
	tags := make([]string, 0, len(s.promoted))
	for tag := range s.promoted {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// GetPromoted concatenates the indexed entries of every promoted tag. An
// entry carrying two promoted tags appears twice.
func (s *Store) GetPromoted() []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Entry
	for _, tag := range s.promotedLocked() {
		out = append(out, entriesOf(s.index[tag])...)
	}
	if out == nil {
		out = []model.Entry{}
	}
	return out
}
