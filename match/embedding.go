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
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/chunkmatch/core"
)

// runEmbeddingLayer positions the remaining chunks by semantic similarity:
// the document is cut into overlapping windows, both windows and chunks are
// embedded, and each chunk takes the window whose vector is closest to its
// own. A local fuzzy search then tightens the window bounds when it can.
//
// Embedding-service failures degrade the layer to a no-op with a warning;
// only context cancellation is returned as an error.
func (m *Matcher) runEmbeddingLayer(ctx context.Context, rs *runState, pending []core.SourceChunk) ([]core.SourceChunk, error) {
	lengths := make([]int, len(pending))
	for i, c := range pending {
		lengths[i] = len(c.Text)
	}
	size := clamp(medianOf(lengths), m.config.MinEmbedWindow, m.config.MaxEmbedWindow)
	stride := int(float64(size) * m.config.EmbedWindowStrideRatio)
	windows := splitWindows(rs.doc, size, stride)
	if len(windows) == 0 {
		return pending, nil
	}

	winTexts := make([]string, len(windows))
	for i, w := range windows {
		winTexts[i] = rs.doc[w.start:w.end]
	}
	chunkTexts := make([]string, len(pending))
	for i, c := range pending {
		chunkTexts[i] = c.Text
	}

	winVecs, err := m.embedWithCache(ctx, winTexts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		rs.stats.Warn(fmt.Sprintf("embedding layer skipped, service unavailable: %v", err))
		m.logger.Warn("embedding layer skipped", "error", err)
		return pending, nil
	}
	chunkVecs, err := m.embedWithCache(ctx, chunkTexts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		rs.stats.Warn(fmt.Sprintf("embedding layer skipped, service unavailable: %v", err))
		m.logger.Warn("embedding layer skipped", "error", err)
		return pending, nil
	}

	var remaining []core.SourceChunk
	for i, chunk := range pending {
		bestWin := -1
		bestScore := -1.0
		for w := range windows {
			if s := cosineSimilarity(chunkVecs[i], winVecs[w]); s > bestScore {
				bestScore = s
				bestWin = w
			}
		}
		if bestWin < 0 || bestScore < m.config.EmbedMediumThreshold {
			remaining = append(remaining, chunk)
			continue
		}

		confidence := core.ConfidenceMedium
		if bestScore >= m.config.EmbedHighThreshold {
			confidence = core.ConfidenceHigh
		}
		start, end := m.refineWindow(rs, chunk, windows[bestWin], stride)
		res := &core.MatchResult{
			ChunkID:         chunk.ID,
			Start:           start,
			End:             end,
			Confidence:      confidence,
			Method:          core.MethodEmbedding,
			SimilarityScore: bestScore,
		}
		rs.resolve(chunk, res)
		m.monitor.ChunkResolved(res)
	}
	return remaining, nil
}

// refineWindow narrows an embedding hit from window granularity to chunk
// granularity by fuzzy-searching the chunk inside the window plus one stride
// of margin on each side. When the local search is inconclusive the window
// bounds stand.
func (m *Matcher) refineWindow(rs *runState, chunk core.SourceChunk, win span, stride int) (int, int) {
	lo := runeStart(rs.doc, clamp(win.start-stride, 0, len(rs.doc)))
	hi := runeStart(rs.doc, clamp(win.end+stride, 0, len(rs.doc)))
	if hi > len(rs.doc) {
		hi = len(rs.doc)
	}
	region := normalize(rs.doc[lo:hi])
	normChunk := normalizeText(chunk.Text)
	if len(region.text) > 0 && len(normChunk) > 0 {
		sp, score, ok := fuzzySearch(region.text, 0, len(region.text), normChunk, m.config)
		if ok && score >= m.config.FuzzyThreshold {
			s, e := region.sourceSpan(sp.start, sp.end)
			if s < e {
				return lo + s, lo + e
			}
		}
	}
	return win.start, win.end
}

// embedWithCache embeds a batch of texts, consulting the vector cache first
// and embedding only the misses. Cache write failures are logged and
// otherwise ignored; the vectors are still good.
func (m *Matcher) embedWithCache(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missing []int
	if m.cache != nil {
		ids := make([]core.ID, len(texts))
		for i, t := range texts {
			ids[i] = m.cacheKey(t)
		}
		cached, err := m.cache.GetVectors(ctx, ids)
		if err != nil {
			m.logger.Warn("vector cache read failed", "error", err)
			cached = nil
		}
		for i := range texts {
			if vec, ok := cached[ids[i]]; ok {
				vectors[i] = vec
			} else {
				missing = append(missing, i)
			}
		}
	} else {
		missing = make([]int, len(texts))
		for i := range texts {
			missing[i] = i
		}
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	missingTexts := make([]string, len(missing))
	for j, i := range missing {
		missingTexts[j] = texts[i]
	}

	var embedded [][]float32
	err := retryWithBackoff(ctx, func() error {
		var embedErr error
		embedded, embedErr = m.provider.Embedder().EmbedTexts(ctx, missingTexts)
		return embedErr
	}, m.config.EmbedMaxRetries, m.config.EmbedRetryDelay)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missingTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(embedded), len(missingTexts))
	}

	for j, i := range missing {
		vectors[i] = embedded[j]
	}

	if m.cache != nil {
		put := make(map[core.ID][]float32, len(missing))
		for j, i := range missing {
			put[m.cacheKey(texts[i])] = embedded[j]
		}
		if err := m.cache.PutVectors(ctx, put); err != nil {
			m.logger.Warn("vector cache write failed", "error", err)
		}
	}
	return vectors, nil
}

// cacheKey derives a stable cache identifier for a text. The namespace keeps
// vectors from different embedding models apart.
func (m *Matcher) cacheKey(text string) core.ID {
	return core.IDFromContent(m.cacheNamespace + "\x00" + text)
}
