package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/hippocampus/internal/model"
)

func TestDecay_PurgesOldEntries(t *testing.T) {
	s, _ := newTestStore(t)

	old := model.FormatTimestamp(epoch.Add(-40 * 24 * time.Hour))
	recent := model.FormatTimestamp(epoch.Add(-24 * time.Hour))
	s.Ingest(Strip{Timestamp: old, Experience: "old", Tags: []string{"shared", "gone"}})
	s.Ingest(Strip{Timestamp: recent, Experience: "recent", Tags: []string{"shared"}})

	res := s.Decay(30)
	assert.Equal(t, 1, res.Purged)
	assert.Equal(t, 1, res.Retained)

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "recent", entries[0].Experience)

	assert.Empty(t, s.Recall("gone", 5))
	shared := s.Recall("shared", 5)
	require.Len(t, shared, 1)
	assert.Equal(t, "recent", shared[0].Experience)
	assertIndexConsistent(t, s)
}

func TestDecay_DefaultHorizon(t *testing.T) {
	s, _ := newTestStore(t)

	s.Ingest(Strip{Timestamp: model.FormatTimestamp(epoch.Add(-31 * 24 * time.Hour)), Experience: "a"})
	s.Ingest(Strip{Timestamp: model.FormatTimestamp(epoch.Add(-29 * 24 * time.Hour)), Experience: "b"})

	res := s.Decay(0)
	assert.Equal(t, 1, res.Purged)
	assert.Equal(t, 1, s.Len())
}

func TestDecay_KeepsUnparseableTimestamps(t *testing.T) {
	s, clock := newTestStore(t)

	s.Ingest(Strip{Timestamp: "yesterday-ish", Experience: "garbled", Tags: []string{"x"}})

	// Far in the future the import time itself is old, but the entry stays.
	clock.Set(epoch.Add(365 * 24 * time.Hour))
	res := s.Decay(30)

	assert.Equal(t, 0, res.Purged)
	require.Len(t, s.Recall("x", 1), 1)
	assert.Equal(t, "yesterday-ish", s.Entries()[0].Timestamp)
}

func TestDecay_LegacyNaiveTimestamps(t *testing.T) {
	s, _ := newTestStore(t)

	s.Ingest(Strip{Timestamp: "2026-08-01T09:30:00.123456", Experience: "naive old"})
	s.Ingest(Strip{Timestamp: "2026-09-30T09:30:00.123456", Experience: "naive recent"})

	res := s.Decay(30)
	assert.Equal(t, 1, res.Purged)
	assert.Equal(t, "naive recent", s.Entries()[0].Experience)
}

func TestDecay_EmptyStore(t *testing.T) {
	s, _ := newTestStore(t)
	res := s.Decay(30)
	assert.Equal(t, 0, res.Purged)
	assert.Equal(t, 0, res.Retained)
}

func TestDecay_HugeHorizonPurgesNothing(t *testing.T) {
	s, _ := newTestStore(t)

	s.Ingest(Strip{Timestamp: model.FormatTimestamp(epoch.Add(-24 * time.Hour)), Experience: "yesterday"})
	s.Encode("today")

	res := s.Decay(200000)
	assert.Equal(t, 0, res.Purged)
	assert.Equal(t, 2, res.Retained)
	assert.True(t, res.Cutoff.Before(epoch))
}
