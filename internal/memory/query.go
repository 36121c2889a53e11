package memory

import (
	"strings"

	"github.com/rcliao/hippocampus/internal/model"
)

const (
	// MatchThreshold is the relevance a query match must exceed.
	MatchThreshold = 0.3

	// PromoteThreshold is the relevance above which matched tags are
	// promoted.
	PromoteThreshold = 0.7
)

// QueryMatch is one entry scored against a free-text query. Label is the
// entry's tags joined with ", ".
type QueryMatch struct {
	Label   string      `json:"label" yaml:"label"`
	Content string      `json:"content" yaml:"content"`
	Score   float64     `json:"score" yaml:"score"`
	Entry   model.Entry `json:"entry" yaml:"entry"`
}

// Query scores every entry against text. Half the score comes from any tag
// containing the query, half from the experience containing it, both
// case-insensitive. Entries above MatchThreshold are returned in log order;
// above PromoteThreshold the matching tags are promoted.
func (s *Store) Query(text string) []QueryMatch {
	q := strings.ToLower(strings.TrimSpace(text))
	matches := []QueryMatch{}
	if q == "" {
		return matches
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	promotedNow := 0
	for _, r := range s.log {
		matchedTags := tagsContaining(r.entry.Tags, q)
		score := relevance(q, len(matchedTags) > 0, r.entry.Experience)
		if score <= MatchThreshold {
			continue
		}

		matches = append(matches, QueryMatch{
			Label:   strings.Join(r.entry.Tags, ", "),
			Content: r.entry.Experience,
			Score:   score,
			Entry:   cloneEntry(r.entry),
		})

		if score > PromoteThreshold {
			for _, tag := range matchedTags {
				if _, ok := s.promoted[tag]; !ok {
					s.promoted[tag] = struct{}{}
					promotedNow++
				}
			}
		}
	}

	if promotedNow > 0 {
		s.logger.Debug().Str("query", text).Int("promoted", promotedNow).Msg("query promoted tags")
	}
	return matches
}

func relevance(q string, labelMatch bool, content string) float64 {
	score := 0.0
	if labelMatch {
		score += 0.5
	}
	if strings.Contains(strings.ToLower(content), q) {
		score += 0.5
	}
	return score
}

func tagsContaining(tags []string, q string) []string {
	var out []string
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			out = append(out, t)
		}
	}
	return out
}
