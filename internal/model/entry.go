// Package model defines the core memory data types.
package model

import (
	"strings"
	"time"
)

// TimestampLayout is the fixed-width UTC layout used for new entries.
// Fixed width keeps lexical and chronological order in agreement.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

const (
	// UntaggedTag indexes entries stored without any tags.
	UntaggedTag = "untagged"

	// ThreadTag is the default tag for threaded entries.
	ThreadTag = "thread"

	// NoContent replaces a missing experience on ingest.
	NoContent = "🧠 No content."
)

// AffirmationTags are attached to every loaded affirmation.
var AffirmationTags = []string{"symbolic", "anchor", "truth"}

// Entry represents one stored experience.
type Entry struct {
	ID         string   `json:"id,omitempty" yaml:"id,omitempty"`
	Timestamp  string   `json:"timestamp" yaml:"timestamp"`
	Experience string   `json:"experience" yaml:"experience"`
	Tags       []string `json:"tags" yaml:"tags"`
}

// HasTag reports whether the entry carries tag.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Summary renders the entry as "timestamp[:19] :: experience".
func (e Entry) Summary() string {
	ts := e.Timestamp
	if len(ts) > 19 {
		ts = ts[:19]
	}
	return ts + " :: " + e.Experience
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 variants found in memory logs.
// Timestamps without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp formats t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NormalizeTags trims, drops empties and de-duplicates while keeping order.
// An empty result falls back to the given default tag.
func NormalizeTags(tags []string, fallback string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 && fallback != "" {
		out = append(out, fallback)
	}
	return out
}
