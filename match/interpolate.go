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
	"fmt"

	"github.com/poiesic/chunkmatch/core"
)

// runInterpolationLayer synthesizes a position for every chunk nothing else
// could place. Positions are derived purely from geometry: resolved neighbors
// bound the gap a chunk must fall in, and chunks sharing a gap divide it in
// proportion to their text lengths. This layer cannot fail, which is what
// makes the engine's full-coverage guarantee hold.
func (m *Matcher) runInterpolationLayer(rs *runState, pending []core.SourceChunk) {
	type gapKey struct {
		predEnd, succStart int
		hasPred, hasSucc   bool
	}

	groups := make(map[gapKey][]core.SourceChunk)
	var order []gapKey
	for _, chunk := range pending {
		predEnd, succStart, hasPred, hasSucc := rs.neighborSpan(chunk)
		key := gapKey{predEnd: predEnd, succStart: succStart, hasPred: hasPred, hasSucc: hasSucc}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], chunk)
	}

	docLen := len(rs.doc)
	for _, key := range order {
		chunks := groups[key]
		totalLen := 0
		for _, c := range chunks {
			totalLen += len(c.Text)
		}
		if totalLen == 0 {
			totalLen = len(chunks) // unreachable after validation, but keeps the math safe
		}

		cum := 0
		for _, chunk := range chunks {
			var start, end int
			switch {
			case key.hasPred && key.hasSucc:
				lo, hi := key.predEnd, key.succStart
				if hi-lo > 2 {
					// Keep synthetic spans strictly inside the gap so they
					// never touch a resolved neighbor.
					lo++
					hi--
				}
				gap := hi - lo
				if gap < 0 {
					gap = 0
				}
				start = lo + gap*cum/totalLen
				end = lo + gap*(cum+len(chunk.Text))/totalLen
			case key.hasPred:
				start = key.predEnd + cum
				end = start + len(chunk.Text)
			case key.hasSucc:
				start = key.succStart - totalLen + cum
				end = start + len(chunk.Text)
			default:
				// Nothing resolved at all: scale the original offsets by the
				// ratio of the two document lengths.
				start = chunk.OriginalStart * docLen / rs.origLen
				end = chunk.OriginalEnd * docLen / rs.origLen
			}
			cum += len(chunk.Text)

			start, end = clampSpan(start, end, docLen)
			res := &core.MatchResult{
				ChunkID:    chunk.ID,
				Start:      start,
				End:        end,
				Confidence: core.ConfidenceSynthetic,
				Method:     core.MethodInterpolation,
			}
			rs.resolve(chunk, res)
			m.monitor.ChunkResolved(res)
			rs.stats.Warn(fmt.Sprintf("chunk %s positioned by interpolation; offsets are approximate", chunk.ID))
		}
	}
}

// clampSpan forces a span into [0, docLen] while keeping it non-empty.
func clampSpan(start, end, docLen int) (int, int) {
	if docLen <= 0 {
		return 0, 0
	}
	start = clamp(start, 0, docLen-1)
	if end <= start {
		end = start + 1
	}
	if end > docLen {
		end = docLen
		if start >= end {
			start = end - 1
		}
	}
	return start, end
}
