package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Scoring(t *testing.T) {
	s, _ := newTestStore(t)

	s.Encode("walked through the Forest", "forest", "walk") // tag + content
	s.Encode("saw a deer", "forest")                        // tag only
	s.Encode("forest fire on the news")                     // content only
	s.Encode("nothing relevant", "city")                    // neither

	matches := s.Query("FOREST")
	require.Len(t, matches, 3)

	assert.Equal(t, 1.0, matches[0].Score)
	assert.Equal(t, "forest, walk", matches[0].Label)
	assert.Equal(t, "walked through the Forest", matches[0].Content)

	assert.Equal(t, 0.5, matches[1].Score)
	assert.Equal(t, "saw a deer", matches[1].Content)

	assert.Equal(t, 0.5, matches[2].Score)
	assert.Equal(t, "untagged", matches[2].Label)
}

func TestQuery_PromotesOnFullMatch(t *testing.T) {
	s, _ := newTestStore(t)

	s.Encode("saw a deer", "forest")
	s.Query("forest")
	assert.Empty(t, s.Promoted(), "half match must not promote")

	s.Encode("deep forest trail", "forest", "hiking")
	s.Query("forest")
	assert.Equal(t, []string{"forest"}, s.Promoted(), "only the matching tag is promoted")
}

func TestQuery_Empty(t *testing.T) {
	s, _ := newTestStore(t)
	s.Encode("x", "y")

	assert.Empty(t, s.Query(""))
	assert.Empty(t, s.Query("   "))
	assert.Empty(t, s.Query("zzz"))
}

func TestCountReferences_CaseSensitive(t *testing.T) {
	s, _ := newTestStore(t)

	s.Encode("the Bird sang")
	s.Encode("a bird flew")
	s.Encode("birdsong at dawn")

	assert.Equal(t, 2, s.CountReferences("bird"))
	assert.Equal(t, 1, s.CountReferences("Bird"))
	assert.Equal(t, 0, s.CountReferences("cat"))
}

func TestSummarize(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Empty(t, s.Summarize(5))

	for _, exp := range []string{"a", "b", "c", "d", "e", "f"} {
		s.Encode(exp)
	}

	lines := s.Summarize(0)
	require.Len(t, lines, DefaultSummaryLimit)
	assert.Equal(t, "2026-10-01T12:00:01 :: b", lines[0])
	assert.Equal(t, "2026-10-01T12:00:05 :: f", lines[4])

	lines = s.Summarize(2)
	assert.Equal(t, []string{"2026-10-01T12:00:04 :: e", "2026-10-01T12:00:05 :: f"}, lines)
}

func TestSummarize_ShortTimestamp(t *testing.T) {
	s, _ := newTestStore(t)
	s.Ingest(Strip{Timestamp: "2026-10-01", Experience: "date only"})

	assert.Equal(t, []string{"2026-10-01 :: date only"}, s.Summarize(1))
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t)

	s.Encode("a", "x", "y")
	s.Encode("b", "x")
	s.Promote("y")

	st := s.Stats()
	assert.Equal(t, 2, st.Entries)
	assert.Equal(t, []string{"y"}, st.Promoted)
	require.Len(t, st.Tags, 2)
	assert.Equal(t, TagCount{Tag: "x", Count: 2}, st.Tags[0])
	assert.Equal(t, TagCount{Tag: "y", Count: 1, Promoted: true}, st.Tags[1])
	require.NotNil(t, st.Oldest)
	require.NotNil(t, st.Newest)
	assert.True(t, st.Newest.After(*st.Oldest))
}
