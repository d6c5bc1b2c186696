package match

import (
	"strings"
	"testing"

	"github.com/poiesic/chunkmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(newTestProvider(), WithPoolSize(2))
	require.NoError(t, err)
	t.Cleanup(m.Release)
	return m
}

func TestInterpolation_BetweenNeighbors(t *testing.T) {
	doc := strings.Repeat("a", 100)
	chunks := []core.SourceChunk{
		{ID: "left", Text: strings.Repeat("l", 10), OriginalStart: 0, OriginalEnd: 10, SequenceIndex: 0},
		{ID: "mid", Text: strings.Repeat("m", 20), OriginalStart: 10, OriginalEnd: 30, SequenceIndex: 1},
		{ID: "right", Text: strings.Repeat("r", 10), OriginalStart: 30, OriginalEnd: 40, SequenceIndex: 2},
	}
	rs := newTestRunState(doc, chunks...)
	rs.resolve(chunks[0], &core.MatchResult{ChunkID: "left", Start: 0, End: 20, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})
	rs.resolve(chunks[2], &core.MatchResult{ChunkID: "right", Start: 80, End: 100, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})

	m := newTestMatcher(t)
	m.runInterpolationLayer(rs, []core.SourceChunk{chunks[1]})

	res, ok := rs.results["mid"]
	require.True(t, ok)
	assert.Equal(t, core.ConfidenceSynthetic, res.Confidence)
	assert.Equal(t, core.MethodInterpolation, res.Method)
	assert.Equal(t, 21, res.Start)
	assert.Equal(t, 79, res.End)
	assert.Greater(t, res.Start, 20, "interpolated start must sit strictly after the predecessor")
	assert.Less(t, res.End, 80, "interpolated end must sit strictly before the successor")
	assert.Len(t, rs.stats.Warnings, 1)
	assert.Contains(t, rs.stats.Warnings[0], "mid")
}

func TestInterpolation_SharedGapSplitsProportionally(t *testing.T) {
	doc := strings.Repeat("a", 100)
	chunks := []core.SourceChunk{
		{ID: "left", Text: "xxxxxxxxxx", OriginalStart: 0, OriginalEnd: 10, SequenceIndex: 0},
		{ID: "p1", Text: strings.Repeat("b", 30), OriginalStart: 10, OriginalEnd: 40, SequenceIndex: 1},
		{ID: "p2", Text: strings.Repeat("c", 10), OriginalStart: 40, OriginalEnd: 50, SequenceIndex: 2},
		{ID: "right", Text: "yyyyyyyyyy", OriginalStart: 50, OriginalEnd: 60, SequenceIndex: 3},
	}
	rs := newTestRunState(doc, chunks...)
	rs.resolve(chunks[0], &core.MatchResult{ChunkID: "left", Start: 0, End: 20, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})
	rs.resolve(chunks[3], &core.MatchResult{ChunkID: "right", Start: 60, End: 100, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})

	m := newTestMatcher(t)
	m.runInterpolationLayer(rs, []core.SourceChunk{chunks[1], chunks[2]})

	// Gap interior [21,59) shared 3:1 between the two pending chunks.
	p1 := rs.results["p1"]
	p2 := rs.results["p2"]
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	assert.Equal(t, 21, p1.Start)
	assert.Equal(t, 49, p1.End)
	assert.Equal(t, 49, p2.Start)
	assert.Equal(t, 59, p2.End)
	assert.Greater(t, p1.Start, 20)
	assert.Less(t, p2.End, 60)
}

func TestInterpolation_OnlyPredecessor(t *testing.T) {
	doc := strings.Repeat("a", 50)
	chunks := []core.SourceChunk{
		{ID: "left", Text: "xxxxx", OriginalStart: 0, OriginalEnd: 5, SequenceIndex: 0},
		{ID: "tail", Text: strings.Repeat("t", 10), OriginalStart: 5, OriginalEnd: 15, SequenceIndex: 1},
	}
	rs := newTestRunState(doc, chunks...)
	rs.resolve(chunks[0], &core.MatchResult{ChunkID: "left", Start: 0, End: 30, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})

	m := newTestMatcher(t)
	m.runInterpolationLayer(rs, []core.SourceChunk{chunks[1]})

	res := rs.results["tail"]
	require.NotNil(t, res)
	assert.Equal(t, 30, res.Start)
	assert.Equal(t, 40, res.End)
}

func TestInterpolation_OnlySuccessor(t *testing.T) {
	doc := strings.Repeat("a", 50)
	chunks := []core.SourceChunk{
		{ID: "head", Text: strings.Repeat("h", 10), OriginalStart: 0, OriginalEnd: 10, SequenceIndex: 0},
		{ID: "right", Text: "xxxxx", OriginalStart: 10, OriginalEnd: 15, SequenceIndex: 1},
	}
	rs := newTestRunState(doc, chunks...)
	rs.resolve(chunks[1], &core.MatchResult{ChunkID: "right", Start: 25, End: 50, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})

	m := newTestMatcher(t)
	m.runInterpolationLayer(rs, []core.SourceChunk{chunks[0]})

	res := rs.results["head"]
	require.NotNil(t, res)
	assert.Equal(t, 15, res.Start)
	assert.Equal(t, 25, res.End)
}

func TestInterpolation_NoNeighborsScalesOriginalOffsets(t *testing.T) {
	doc := strings.Repeat("a", 50) // original was 100 long
	chunks := []core.SourceChunk{
		{ID: "only", Text: strings.Repeat("o", 20), OriginalStart: 40, OriginalEnd: 60, SequenceIndex: 0},
		{ID: "last", Text: strings.Repeat("z", 20), OriginalStart: 80, OriginalEnd: 100, SequenceIndex: 1},
	}
	rs := newTestRunState(doc, chunks...)

	m := newTestMatcher(t)
	m.runInterpolationLayer(rs, chunks)

	res := rs.results["only"]
	require.NotNil(t, res)
	assert.Equal(t, 20, res.Start)
	assert.Equal(t, 30, res.End)
}

func TestInterpolation_ZeroGapStillYieldsValidSpan(t *testing.T) {
	doc := strings.Repeat("a", 40)
	chunks := []core.SourceChunk{
		{ID: "left", Text: "xxxxx", OriginalStart: 0, OriginalEnd: 5, SequenceIndex: 0},
		{ID: "squeezed", Text: strings.Repeat("s", 10), OriginalStart: 5, OriginalEnd: 15, SequenceIndex: 1},
		{ID: "right", Text: "yyyyy", OriginalStart: 15, OriginalEnd: 20, SequenceIndex: 2},
	}
	rs := newTestRunState(doc, chunks...)
	// Neighbors touch: there is no room for the middle chunk.
	rs.resolve(chunks[0], &core.MatchResult{ChunkID: "left", Start: 0, End: 20, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})
	rs.resolve(chunks[2], &core.MatchResult{ChunkID: "right", Start: 20, End: 40, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})

	m := newTestMatcher(t)
	m.runInterpolationLayer(rs, []core.SourceChunk{chunks[1]})

	res := rs.results["squeezed"]
	require.NotNil(t, res)
	assert.GreaterOrEqual(t, res.Start, 0)
	assert.Less(t, res.Start, res.End)
	assert.LessOrEqual(t, res.End, len(doc))
}

func TestInterpolation_NarrowGapFallsBack(t *testing.T) {
	doc := strings.Repeat("a", 40)
	chunks := []core.SourceChunk{
		{ID: "left", Text: "xxxxx", OriginalStart: 0, OriginalEnd: 5, SequenceIndex: 0},
		{ID: "mid", Text: strings.Repeat("m", 10), OriginalStart: 5, OriginalEnd: 15, SequenceIndex: 1},
		{ID: "right", Text: "yyyyy", OriginalStart: 15, OriginalEnd: 20, SequenceIndex: 2},
	}
	rs := newTestRunState(doc, chunks...)
	// A two-byte gap leaves no room for margins off the neighbors.
	rs.resolve(chunks[0], &core.MatchResult{ChunkID: "left", Start: 0, End: 19, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})
	rs.resolve(chunks[2], &core.MatchResult{ChunkID: "right", Start: 21, End: 40, Confidence: core.ConfidenceExact, Method: core.MethodExactMatch})

	m := newTestMatcher(t)
	m.runInterpolationLayer(rs, []core.SourceChunk{chunks[1]})

	res := rs.results["mid"]
	require.NotNil(t, res)
	assert.Equal(t, 19, res.Start)
	assert.Equal(t, 21, res.End)
}

func TestInterpolation_AlwaysResolvesEveryChunk(t *testing.T) {
	doc := "some rewritten document body with enough text to spread chunks over"
	var pending []core.SourceChunk
	for i := 0; i < 7; i++ {
		pending = append(pending, core.SourceChunk{
			ID:            string(rune('a' + i)),
			Text:          strings.Repeat("x", 5+i),
			OriginalStart: i * 10,
			OriginalEnd:   i*10 + 10,
			SequenceIndex: i,
		})
	}
	rs := newTestRunState(doc, pending...)

	m := newTestMatcher(t)
	m.runInterpolationLayer(rs, pending)

	require.Len(t, rs.results, len(pending))
	for _, c := range pending {
		res := rs.results[c.ID]
		require.NotNil(t, res, "chunk %s missing", c.ID)
		assert.NoError(t, core.ValidateResult(res, len(doc)))
	}
	assert.Len(t, rs.stats.Warnings, len(pending))
}
