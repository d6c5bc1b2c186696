package match

import (
	"strings"
	"testing"

	"github.com/poiesic/chunkmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunState(doc string, chunks ...core.SourceChunk) *runState {
	rs := &runState{
		doc:     doc,
		norm:    normalize(doc),
		origLen: estimateOriginalLength(chunks, len(doc)),
		chunks:  chunks,
		index:   make(map[string]int, len(chunks)),
		results: make(map[string]*core.MatchResult, len(chunks)),
		stats:   core.NewMatchStatistics("test-run", len(chunks)),
	}
	for i, c := range chunks {
		rs.index[c.ID] = i
	}
	return rs
}

func TestMatchChunkExact_Verbatim(t *testing.T) {
	doc := "Some leading text. The exact chunk content sits here. Trailing text."
	chunk := core.SourceChunk{
		ID:            "c1",
		Text:          "The exact chunk content sits here.",
		OriginalStart: 19,
		OriginalEnd:   54,
		SequenceIndex: 0,
	}
	rs := newTestRunState(doc, chunk)

	res := matchChunkExact(rs, chunk, DefaultConfig())
	require.NotNil(t, res)
	assert.Equal(t, core.ConfidenceExact, res.Confidence)
	assert.Equal(t, core.MethodExactMatch, res.Method)
	assert.Equal(t, strings.Index(doc, chunk.Text), res.Start)
	assert.Equal(t, chunk.Text, doc[res.Start:res.End])
	assert.Equal(t, 1.0, res.SimilarityScore)
}

func TestMatchChunkExact_MultipleOccurrencesUsesPrior(t *testing.T) {
	phrase := "repeated phrase"
	doc := phrase + strings.Repeat("x", 35) + phrase + strings.Repeat("x", 35)
	require.Equal(t, 100, len(doc))

	// The chunk sat near the end of the original document, so the second
	// occurrence is the right one.
	chunk := core.SourceChunk{
		ID:            "c1",
		Text:          phrase,
		OriginalStart: 60,
		OriginalEnd:   75,
		SequenceIndex: 0,
	}
	rs := newTestRunState(doc, chunk)

	res := matchChunkExact(rs, chunk, DefaultConfig())
	require.NotNil(t, res)
	assert.Equal(t, core.MethodExactMatch, res.Method)
	assert.Equal(t, 50, res.Start)
	assert.Equal(t, 65, res.End)
}

func TestMatchChunkExact_NormalizedMatch(t *testing.T) {
	// Case, quote style, and whitespace changed but the words survive.
	doc := "Intro.  THE  “EXACT”  chunk   content. Outro."
	chunk := core.SourceChunk{
		ID:            "c1",
		Text:          "the 'exact' chunk content.",
		OriginalStart: 7,
		OriginalEnd:   33,
		SequenceIndex: 0,
	}
	rs := newTestRunState(doc, chunk)

	res := matchChunkExact(rs, chunk, DefaultConfig())
	require.NotNil(t, res)
	assert.Equal(t, core.ConfidenceExact, res.Confidence)
	assert.Equal(t, core.MethodExactMatch, res.Method)
	assert.Contains(t, doc[res.Start:res.End], "EXACT")
}

func TestMatchChunkExact_MultiAnchor(t *testing.T) {
	chunk := core.SourceChunk{
		ID:            "c1",
		Text:          "The committee reviewed the proposal in detail and concluded that the funding request should be approved for the next fiscal year.",
		OriginalStart: 0,
		OriginalEnd:   130,
		SequenceIndex: 0,
	}
	// The middle of the sentence was rewritten; the start and end survive.
	doc := "The committee reviewed the proposal in detail and determined after considerable debate that the funding request should be approved for the next fiscal year."
	rs := newTestRunState(doc, chunk)

	res := matchChunkExact(rs, chunk, DefaultConfig())
	require.NotNil(t, res)
	assert.Equal(t, core.ConfidenceHigh, res.Confidence)
	assert.Equal(t, core.MethodMultiAnchor, res.Method)
	assert.Equal(t, 0, res.Start)
	assert.Equal(t, len(doc), res.End)
	assert.Greater(t, res.SimilarityScore, 0.5)
}

func TestMatchChunkExact_SlidingWindow(t *testing.T) {
	chunk := core.SourceChunk{
		ID:            "c1",
		Text:          "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu nu xi omicron pi rho sigma tau upsilon",
		OriginalStart: 0,
		OriginalEnd:   105,
		SequenceIndex: 0,
	}
	// Typos scattered through all three anchor regions defeat anchor search
	// but leave the text highly similar overall.
	doc := "alpha beta gamma delt epsilon zeta eta thet iota kappa lambda mu nu xi omicro pi rho sigm tau upsilon"
	rs := newTestRunState(doc, chunk)

	res := matchChunkExact(rs, chunk, DefaultConfig())
	require.NotNil(t, res)
	assert.Equal(t, core.ConfidenceHigh, res.Confidence)
	assert.Equal(t, core.MethodSlidingWindow, res.Method)
	assert.GreaterOrEqual(t, res.SimilarityScore, 0.80)
}

func TestMatchChunkExact_ShortChunkNeedsHigherSimilarity(t *testing.T) {
	chunk := core.SourceChunk{
		ID:            "c1",
		Text:          "hello world",
		OriginalStart: 0,
		OriginalEnd:   11,
		SequenceIndex: 0,
	}
	// Two substitutions in eleven bytes sits between the regular and the
	// short-chunk thresholds.
	rs := newTestRunState("jello w0rld", chunk)

	res := matchChunkExact(rs, chunk, DefaultConfig())
	assert.Nil(t, res)
}

func TestMatchChunkExact_NoMatch(t *testing.T) {
	chunk := core.SourceChunk{
		ID:            "c1",
		Text:          "completely unrelated content about quantum physics",
		OriginalStart: 0,
		OriginalEnd:   51,
		SequenceIndex: 0,
	}
	rs := newTestRunState("a cookbook chapter describing how to braise short ribs slowly", chunk)

	res := matchChunkExact(rs, chunk, DefaultConfig())
	assert.Nil(t, res)
}

func TestExtractAnchors_LongChunk(t *testing.T) {
	text := strings.Repeat("abcde ", 30) // 180 bytes
	anchors := extractAnchors(strings.TrimSpace(text), DefaultConfig())
	require.Len(t, anchors, 3)
	assert.Equal(t, 0, anchors[0].offset)
	for i := 1; i < len(anchors); i++ {
		assert.Greater(t, anchors[i].offset, anchors[i-1].offset)
	}
}

func TestExtractAnchors_ShortChunkCollapses(t *testing.T) {
	anchors := extractAnchors("just a few words", DefaultConfig())
	assert.Len(t, anchors, 1)
}

func TestExtractAnchors_TooShort(t *testing.T) {
	anchors := extractAnchors("tiny", DefaultConfig())
	assert.Empty(t, anchors)
}

func TestAllOccurrences(t *testing.T) {
	occ := allOccurrences("abcabcabc", "abc", 10)
	assert.Equal(t, []int{0, 3, 6}, occ)

	occ = allOccurrences("abcabcabc", "abc", 2)
	assert.Equal(t, []int{0, 3}, occ)

	assert.Nil(t, allOccurrences("abc", "xyz", 10))
	assert.Nil(t, allOccurrences("abc", "", 10))
}

func TestNearestTo(t *testing.T) {
	assert.Equal(t, 50, nearestTo([]int{0, 50, 90}, 60))
	assert.Equal(t, 0, nearestTo([]int{0, 50}, 10))
}

func TestFuzzySearch_FindsRegion(t *testing.T) {
	needle := "the quick brown fox jumps over the lazy dog"
	hay := strings.Repeat("z", 200) + " " + needle + " " + strings.Repeat("q", 200)
	sp, score, ok := fuzzySearch(hay, 0, len(hay), needle, DefaultConfig())
	require.True(t, ok)
	assert.Greater(t, score, 0.8)
	// The winning window overlaps the true location.
	assert.Less(t, sp.start, 201+len(needle))
	assert.Greater(t, sp.end, 201)
}

func TestFuzzySearch_EmptyInputs(t *testing.T) {
	_, _, ok := fuzzySearch("", 0, 0, "needle", DefaultConfig())
	assert.False(t, ok)
	_, _, ok = fuzzySearch("haystack", 0, 8, "", DefaultConfig())
	assert.False(t, ok)
}
