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
	"unicode/utf8"
)

// span is a half-open byte range within a document.
type span struct {
	start int
	end   int
}

func (s span) length() int { return s.end - s.start }

// splitWindows cuts a document into overlapping windows of roughly the given
// size, advancing by stride. Boundaries are snapped to rune starts so windows
// never split a UTF-8 sequence. The final window is anchored to the document
// end so the tail is always covered.
func splitWindows(doc string, size, stride int) []span {
	if len(doc) == 0 || size <= 0 {
		return nil
	}
	if stride <= 0 {
		stride = 1
	}
	if size >= len(doc) {
		return []span{{start: 0, end: len(doc)}}
	}
	var windows []span
	for start := 0; start < len(doc); start += stride {
		s := runeStart(doc, start)
		e := runeStart(doc, s+size)
		if e >= len(doc) {
			windows = append(windows, span{start: s, end: len(doc)})
			break
		}
		windows = append(windows, span{start: s, end: e})
	}
	return windows
}

// runeStart snaps a byte offset back to the start of the rune containing it.
func runeStart(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// medianOf returns the median of a list of lengths, or 0 for an empty list.
func medianOf(lengths []int) int {
	if len(lengths) == 0 {
		return 0
	}
	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
