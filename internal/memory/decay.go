package memory

import "time"

// DefaultMaxAgeDays is the decay horizon used when none is given.
const DefaultMaxAgeDays = 30

// DecayResult reports what a decay pass removed.
type DecayResult struct {
	Cutoff   time.Time `json:"cutoff" yaml:"cutoff"`
	Purged   int       `json:"purged" yaml:"purged"`
	Retained int       `json:"retained" yaml:"retained"`
}

// Decay purges entries older than maxAgeDays and rebuilds the tag index so
// no tag references a purged entry. Entries whose timestamp does not parse
// are always retained.
func (s *Store) Decay(maxAgeDays int) DecayResult {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultMaxAgeDays
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// AddDate keeps the cutoff in range for any day count.
	cutoff := s.now().UTC().AddDate(0, 0, -maxAgeDays)

	kept := s.log[:0:0]
	for _, r := range s.log {
		if r.parsed && r.at.Before(cutoff) {
			continue
		}
		kept = append(kept, r)
	}

	res := DecayResult{
		Cutoff:   cutoff,
		Purged:   len(s.log) - len(kept),
		Retained: len(kept),
	}
	s.log = kept
	s.rebuildIndexLocked()

	s.logger.Info().
		Int("max_age_days", maxAgeDays).
		Int("purged", res.Purged).
		Int("retained", res.Retained).
		Msg("memory log decayed")

	return res
}
