package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecall_MostRecentFirst(t *testing.T) {
	s, _ := newTestStore(t)

	s.Encode("saw a bird", "nature")
	s.Encode("saw a cat", "nature", "pets")

	got := s.Recall("nature", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "saw a cat", got[0].Experience)

	got = s.Recall("nature", 5)
	require.Len(t, got, 2)
	assert.Equal(t, "saw a cat", got[0].Experience)
	assert.Equal(t, "saw a bird", got[1].Experience)
}

func TestRecall_LimitAndOrder(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 0; i < 10; i++ {
		s.Encode("tick", "clock")
	}
	s.Encode("other", "noise")

	got := s.Recall("clock", 4)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Timestamp, got[i].Timestamp)
	}
	for _, e := range got {
		assert.True(t, e.HasTag("clock"))
	}
}

func TestRecall_DefaultTopK(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 0; i < 5; i++ {
		s.Encode("x", "t")
	}
	assert.Len(t, s.Recall("t", 0), DefaultTopK)
}

func TestRecall_UsesParsedTimeNotInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)

	s.Ingest(Strip{Timestamp: "2026-09-01T00:00:00Z", Experience: "newer", Tags: []string{"t"}})
	s.Ingest(Strip{Timestamp: "2026-08-01T00:00:00Z", Experience: "older", Tags: []string{"t"}})

	got := s.Recall("t", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Experience)
}

func TestRecall_TiesKeepLogOrder(t *testing.T) {
	s, _ := newTestStore(t)

	ts := "2026-09-01T00:00:00Z"
	s.Ingest(Strip{Timestamp: ts, Experience: "first", Tags: []string{"t"}})
	s.Ingest(Strip{Timestamp: ts, Experience: "second", Tags: []string{"t"}})

	got := s.Recall("t", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Experience)
	assert.Equal(t, "second", got[1].Experience)
}

func TestRecall_UnknownTag(t *testing.T) {
	s, _ := newTestStore(t)
	s.Encode("x", "a")

	got := s.Recall("missing", 3)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPromote_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)

	s.Promote("nature")
	once := s.Promoted()
	s.Promote("nature")
	assert.Equal(t, once, s.Promoted())
	assert.Equal(t, []string{"nature"}, s.Promoted())
}

func TestPromote_EmptyTagIgnored(t *testing.T) {
	s, _ := newTestStore(t)
	s.Promote("")
	assert.Empty(t, s.Promoted())
}

func TestGetPromoted(t *testing.T) {
	s, _ := newTestStore(t)

	s.Encode("bird", "nature")
	s.Encode("cat", "nature", "pets")
	s.Encode("code", "work")

	assert.Empty(t, s.GetPromoted())

	s.Promote("nature")
	s.Promote("pets")
	s.Promote("never-used")

	got := s.GetPromoted()
	// nature: bird, cat; pets: cat. The shared entry appears twice.
	require.Len(t, got, 3)

	var experiences []string
	for _, e := range got {
		experiences = append(experiences, e.Experience)
	}
	assert.ElementsMatch(t, []string{"bird", "cat", "cat"}, experiences)
}
