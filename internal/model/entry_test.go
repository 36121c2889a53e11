package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 2, 3, 4, 5, 123456000, time.UTC)

	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{"fixed width", "2024-01-02T03:04:05.123456Z", want, true},
		{"python isoformat", "2024-01-02T03:04:05.123456", want, true},
		{"no fraction", "2024-01-02T03:04:05", want.Truncate(time.Second), true},
		{"offset", "2024-01-02T05:04:05.123456+02:00", want, true},
		{"space separated", "2024-01-02 03:04:05.123456", want, true},
		{"date only", "2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "yesterday", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestFormatTimestamp_SortsLexically(t *testing.T) {
	a := FormatTimestamp(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := FormatTimestamp(time.Date(2026, 1, 1, 0, 0, 0, 500, time.UTC))
	c := FormatTimestamp(time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC))

	assert.Equal(t, "2026-01-01T00:00:00.000000Z", a)
	assert.Len(t, c, len(a))
	assert.LessOrEqual(t, a, b)
	assert.Less(t, b, c)

	parsed, ok := ParseTimestamp(c)
	assert.True(t, ok)
	assert.Equal(t, 1, parsed.Second())
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"untagged"}, NormalizeTags(nil, UntaggedTag))
	assert.Equal(t, []string{"untagged"}, NormalizeTags([]string{" ", ""}, UntaggedTag))
	assert.Equal(t, []string{"b", "a"}, NormalizeTags([]string{"b", "a", "b", " a"}, UntaggedTag))
	assert.Empty(t, NormalizeTags(nil, ""))
}

func TestEntrySummary(t *testing.T) {
	e := Entry{Timestamp: "2026-10-01T12:00:00.000000Z", Experience: "saw a bird"}
	assert.Equal(t, "2026-10-01T12:00:00 :: saw a bird", e.Summary())

	e.Timestamp = "short"
	assert.Equal(t, "short :: saw a bird", e.Summary())
}

func TestEntryHasTag(t *testing.T) {
	e := Entry{Tags: []string{"nature", "pets"}}
	assert.True(t, e.HasTag("pets"))
	assert.False(t, e.HasTag("work"))
}
