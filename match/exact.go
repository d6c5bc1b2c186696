// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package match

import (
	"sort"
	"strings"

	"github.com/poiesic/chunkmatch/core"
)

const maxOccurrences = 32

// matchChunkExact runs the cheap text strategies for one chunk, in order of
// decreasing precision: verbatim substring search, normalized substring
// search, multi-anchor search, and sliding-window fuzzy search. It returns
// nil when none of them clears its threshold.
func matchChunkExact(rs *runState, chunk core.SourceChunk, cfg *Config) *core.MatchResult {
	// Verbatim, then verbatim modulo normalization. Both count as exact:
	// the chunk text survived the rewrite intact.
	if idx := findOccurrence(rs.doc, chunk.Text, predictRawStart(rs, chunk)); idx >= 0 {
		return &core.MatchResult{
			ChunkID:         chunk.ID,
			Start:           idx,
			End:             idx + len(chunk.Text),
			Confidence:      core.ConfidenceExact,
			Method:          core.MethodExactMatch,
			SimilarityScore: 1.0,
		}
	}

	normChunk := normalizeText(chunk.Text)
	if len(normChunk) == 0 {
		return nil
	}
	if idx := findOccurrence(rs.norm.text, normChunk, predictNormStart(rs, chunk)); idx >= 0 {
		start, end := rs.norm.sourceSpan(idx, idx+len(normChunk))
		return &core.MatchResult{
			ChunkID:         chunk.ID,
			Start:           start,
			End:             end,
			Confidence:      core.ConfidenceExact,
			Method:          core.MethodExactMatch,
			SimilarityScore: 1.0,
		}
	}

	if res := matchMultiAnchor(rs, chunk, normChunk, cfg); res != nil {
		return res
	}

	return matchSlidingWindow(rs, chunk, normChunk, cfg)
}

// findOccurrence locates needle within hay. With several occurrences it
// returns the one closest to the predicted position; with none it returns -1.
func findOccurrence(hay, needle string, predicted int) int {
	occ := allOccurrences(hay, needle, maxOccurrences)
	if len(occ) == 0 {
		return -1
	}
	return nearestTo(occ, predicted)
}

func allOccurrences(hay, needle string, max int) []int {
	if len(needle) == 0 {
		return nil
	}
	var occ []int
	from := 0
	for len(occ) < max {
		idx := strings.Index(hay[from:], needle)
		if idx < 0 {
			break
		}
		occ = append(occ, from+idx)
		from += idx + 1
	}
	return occ
}

func nearestTo(positions []int, target int) int {
	best := positions[0]
	bestDist := abs(best - target)
	for _, p := range positions[1:] {
		if d := abs(p - target); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// predictRawStart estimates where a chunk should land in the rewritten
// document, assuming positions shift roughly proportionally to the change
// in document length.
func predictRawStart(rs *runState, chunk core.SourceChunk) int {
	if rs.origLen <= 0 {
		return 0
	}
	return clamp(chunk.OriginalStart*len(rs.doc)/rs.origLen, 0, len(rs.doc))
}

func predictNormStart(rs *runState, chunk core.SourceChunk) int {
	if len(rs.doc) == 0 {
		return 0
	}
	return predictRawStart(rs, chunk) * len(rs.norm.text) / len(rs.doc)
}

type anchor struct {
	text   string
	offset int // byte offset within the normalized chunk
}

// extractAnchors takes short distinctive substrings from the start, middle,
// and end of the normalized chunk text. Anchors that collapse below the
// minimum length after trimming are dropped.
func extractAnchors(normChunk string, cfg *Config) []anchor {
	positions := []int{
		0,
		runeStart(normChunk, (len(normChunk)-cfg.AnchorLength)/2),
		runeStart(normChunk, len(normChunk)-cfg.AnchorLength),
	}
	var anchors []anchor
	for _, pos := range positions {
		if pos < 0 {
			pos = 0
		}
		end := runeStart(normChunk, pos+cfg.AnchorLength)
		if end > len(normChunk) {
			end = len(normChunk)
		}
		raw := normChunk[pos:end]
		trimmed := strings.TrimSpace(raw)
		if len(trimmed) < cfg.MinAnchorLength {
			continue
		}
		off := pos + strings.Index(raw, trimmed)
		// Overlapping anchors from a short chunk add no signal.
		if len(anchors) > 0 && off <= anchors[len(anchors)-1].offset {
			continue
		}
		anchors = append(anchors, anchor{text: trimmed, offset: off})
	}
	return anchors
}

// matchMultiAnchor searches for the chunk's anchors independently and accepts
// the span they delimit when at least two are found in the same relative
// order they hold within the chunk.
func matchMultiAnchor(rs *runState, chunk core.SourceChunk, normChunk string, cfg *Config) *core.MatchResult {
	anchors := extractAnchors(normChunk, cfg)
	if len(anchors) < 2 {
		return nil
	}

	predicted := predictNormStart(rs, chunk)
	type hit struct {
		anchor anchor
		pos    int
	}
	var hits []hit
	for _, a := range anchors {
		occ := allOccurrences(rs.norm.text, a.text, maxOccurrences)
		if len(occ) == 0 {
			continue
		}
		hits = append(hits, hit{anchor: a, pos: nearestTo(occ, predicted+a.offset)})
	}
	if len(hits) < 2 {
		return nil
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].anchor.offset < hits[j].anchor.offset })
	for i := 1; i < len(hits); i++ {
		if hits[i].pos <= hits[i-1].pos {
			return nil
		}
	}

	first := hits[0]
	last := hits[len(hits)-1]
	// Extend the span to cover the chunk text before the first anchor and
	// after the last one.
	normStart := clamp(first.pos-first.anchor.offset, 0, len(rs.norm.text))
	tail := len(normChunk) - (last.anchor.offset + len(last.anchor.text))
	normEnd := clamp(last.pos+len(last.anchor.text)+tail, normStart+1, len(rs.norm.text))

	score := editSimilarity(normChunk, rs.norm.text[normStart:normEnd])
	start, end := rs.norm.sourceSpan(normStart, normEnd)
	if start >= end {
		return nil
	}
	return &core.MatchResult{
		ChunkID:         chunk.ID,
		Start:           start,
		End:             end,
		Confidence:      core.ConfidenceHigh,
		Method:          core.MethodMultiAnchor,
		SimilarityScore: score,
	}
}

// matchSlidingWindow slides a chunk-sized window over the normalized document
// and accepts the best-scoring position when it clears the fuzzy threshold.
func matchSlidingWindow(rs *runState, chunk core.SourceChunk, normChunk string, cfg *Config) *core.MatchResult {
	best, score, ok := fuzzySearch(rs.norm.text, 0, len(rs.norm.text), normChunk, cfg)
	if !ok {
		return nil
	}
	threshold := cfg.FuzzyThreshold
	if len(normChunk) < cfg.ShortChunkLength {
		threshold = cfg.ShortChunkThreshold
	}
	if score < threshold {
		return nil
	}
	start, end := rs.norm.sourceSpan(best.start, best.end)
	if start >= end {
		return nil
	}
	return &core.MatchResult{
		ChunkID:         chunk.ID,
		Start:           start,
		End:             end,
		Confidence:      core.ConfidenceHigh,
		Method:          core.MethodSlidingWindow,
		SimilarityScore: score,
	}
}

// fuzzySearch finds the window of normText[regionStart:regionEnd] most
// similar to needle. Token overlap ranks all windows cheaply; edit distance
// then scores only the strongest candidates. The returned span is in
// normText coordinates.
func fuzzySearch(normText string, regionStart, regionEnd int, needle string, cfg *Config) (span, float64, bool) {
	region := normText[regionStart:regionEnd]
	if len(region) == 0 || len(needle) == 0 {
		return span{}, 0, false
	}
	size := len(needle)
	stride := size / cfg.FuzzyStrideDivisor
	if stride < 1 {
		stride = 1
	}
	windows := splitWindows(region, size, stride)
	if len(windows) == 0 {
		return span{}, 0, false
	}

	type candidate struct {
		win     span
		overlap float64
	}
	candidates := make([]candidate, 0, len(windows))
	for _, w := range windows {
		candidates = append(candidates, candidate{
			win:     w,
			overlap: tokenOverlap(needle, region[w.start:w.end]),
		})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].overlap > candidates[j].overlap })

	const maxEditCandidates = 5
	if len(candidates) > maxEditCandidates {
		candidates = candidates[:maxEditCandidates]
	}

	var best span
	bestScore := -1.0
	for _, c := range candidates {
		if c.overlap == 0 && bestScore >= 0 {
			break
		}
		s := editSimilarity(needle, region[c.win.start:c.win.end])
		if s > bestScore {
			bestScore = s
			best = c.win
		}
	}
	if bestScore < 0 {
		return span{}, 0, false
	}
	return span{start: regionStart + best.start, end: regionStart + best.end}, bestScore, true
}
