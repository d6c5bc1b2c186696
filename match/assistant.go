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
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/chunkmatch/core"
)

// runAssistantLayer asks the language-model locator to place each remaining
// chunk inside a best-guess window of the document. Requests run on a small
// worker pool so a slow assistant cannot be hammered, and each request
// carries its own timeout. Any assistant failure demotes the chunk to the
// interpolation layer; it never fails the run.
func (m *Matcher) runAssistantLayer(ctx context.Context, rs *runState, pending []core.SourceChunk) ([]core.SourceChunk, error) {
	pool, err := ants.NewPool(m.config.AssistantConcurrency)
	if err != nil {
		return nil, fmt.Errorf("creating assistant pool: %w", err)
	}
	defer pool.Release()

	type outcome struct {
		chunk core.SourceChunk
		res   *core.MatchResult
		warn  string
	}

	var (
		mu       sync.Mutex
		outcomes []outcome
		wg       sync.WaitGroup
	)

	for _, chunk := range pending {
		if ctx.Err() != nil {
			break
		}
		chunk := chunk
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			out := outcome{chunk: chunk}
			if ctx.Err() == nil {
				out.res, out.warn = m.locateWithAssistant(ctx, rs, chunk)
			}
			mu.Lock()
			outcomes = append(outcomes, out)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			outcomes = append(outcomes, outcome{chunk: chunk, warn: fmt.Sprintf("assistant request for chunk %s not scheduled: %v", chunk.ID, submitErr)})
			mu.Unlock()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var remaining []core.SourceChunk
	seen := make(map[string]bool, len(outcomes))
	for _, out := range outcomes {
		seen[out.chunk.ID] = true
		if out.warn != "" {
			rs.stats.Warn(out.warn)
		}
		if out.res == nil {
			remaining = append(remaining, out.chunk)
			continue
		}
		rs.resolve(out.chunk, out.res)
		m.monitor.ChunkResolved(out.res)
	}
	// Chunks never submitted because the loop saw a dying context.
	for _, chunk := range pending {
		if !seen[chunk.ID] {
			remaining = append(remaining, chunk)
		}
	}
	sortBySequence(remaining)
	return remaining, nil
}

// locateWithAssistant performs a single locator request for one chunk.
// It returns a result on success; otherwise a warning string explains why
// the chunk stayed unresolved (empty when the assistant simply found nothing).
func (m *Matcher) locateWithAssistant(ctx context.Context, rs *runState, chunk core.SourceChunk) (*core.MatchResult, string) {
	lo, hi := m.assistantWindow(rs, chunk)
	if lo >= hi {
		return nil, ""
	}
	window := rs.doc[lo:hi]

	reqCtx, cancel := context.WithTimeout(ctx, m.config.AssistantTimeout)
	defer cancel()

	loc, err := m.provider.Locator().LocateChunk(reqCtx, chunk.Text, window)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ""
		}
		return nil, fmt.Sprintf("assistant request failed for chunk %s: %v", chunk.ID, err)
	}
	if !loc.Found {
		return nil, ""
	}

	start := lo + loc.Start
	end := lo + loc.End
	if loc.Start < 0 || loc.End > len(window) || start >= end {
		return nil, fmt.Sprintf("assistant returned out-of-window offsets for chunk %s", chunk.ID)
	}
	return &core.MatchResult{
		ChunkID:    chunk.ID,
		Start:      start,
		End:        end,
		Confidence: core.ConfidenceMedium,
		Method:     core.MethodAssistant,
	}, ""
}

// assistantWindow chooses the slice of the document most likely to contain
// the chunk: between the nearest resolved neighbors when both exist, adjacent
// to a single resolved neighbor, or at the sequence-proportional position
// when nothing nearby has been resolved yet.
func (m *Matcher) assistantWindow(rs *runState, chunk core.SourceChunk) (int, int) {
	size := m.config.AssistantWindowMultiplier * len(chunk.Text)
	if size < m.config.MinAssistantWindow {
		size = m.config.MinAssistantWindow
	}

	predEnd, succStart, hasPred, hasSucc := rs.neighborSpan(chunk)
	var center int
	switch {
	case hasPred && hasSucc:
		center = (predEnd + succStart) / 2
	case hasPred:
		center = predEnd + len(chunk.Text)/2
	case hasSucc:
		center = succStart - len(chunk.Text)/2
	default:
		center = predictRawStart(rs, chunk) + len(chunk.Text)/2
	}

	lo := runeStart(rs.doc, clamp(center-size/2, 0, len(rs.doc)))
	hi := runeStart(rs.doc, clamp(center+size/2, 0, len(rs.doc)))
	if hi > len(rs.doc) {
		hi = len(rs.doc)
	}
	if hi-lo < size {
		// Push the window back into the document when the center sits near
		// an edge.
		if lo == 0 {
			hi = runeStart(rs.doc, clamp(size, 0, len(rs.doc)))
			if hi > len(rs.doc) {
				hi = len(rs.doc)
			}
		} else if hi == len(rs.doc) {
			lo = runeStart(rs.doc, clamp(len(rs.doc)-size, 0, len(rs.doc)))
		}
	}
	return lo, hi
}
