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
	"strings"
	"unicode"
	"unicode/utf8"
)

// normDoc is a normalized rendering of a document together with a byte-level
// map back into the source text. Every byte of the normalized text records
// the start and end offsets of the source rune it was derived from, so any
// normalized span can be translated to a source span.
type normDoc struct {
	text   string
	starts []int
	ends   []int
}

// normalize produces the canonical form used for all approximate searching:
// lowercased, quote and dash variants folded to ASCII, soft hyphens removed,
// end-of-line hyphenation repaired, and whitespace runs collapsed to a single
// space. Rewriting tools routinely change exactly these things without
// changing meaning.
func normalize(s string) *normDoc {
	var b strings.Builder
	b.Grow(len(s))
	starts := make([]int, 0, len(s))
	ends := make([]int, 0, len(s))

	emit := func(r rune, srcStart, srcEnd int) {
		n := utf8.RuneLen(r)
		b.WriteRune(r)
		for j := 0; j < n; j++ {
			starts = append(starts, srcStart)
			ends = append(ends, srcEnd)
		}
	}

	runes := []rune(s)
	offs := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		offs[i] = pos
		pos += utf8.RuneLen(r)
	}
	offs[len(runes)] = pos

	inSpace := true // swallow leading whitespace
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '­': // soft hyphen
			continue
		case isDashRune(r):
			// A hyphen directly before whitespace is treated as a line-break
			// hyphenation artifact: drop it and the whitespace that follows,
			// rejoining the split word.
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
					i++
				}
				continue
			}
			emit('-', offs[i], offs[i+1])
			inSpace = false
		case isQuoteRune(r):
			emit('\'', offs[i], offs[i+1])
			inSpace = false
		case unicode.IsSpace(r):
			if !inSpace {
				emit(' ', offs[i], offs[i+1])
				inSpace = true
			}
		default:
			emit(unicode.ToLower(r), offs[i], offs[i+1])
			inSpace = false
		}
	}

	text := b.String()
	// Trim a trailing collapsed space so chunk and document forms agree.
	if strings.HasSuffix(text, " ") {
		text = text[:len(text)-1]
		starts = starts[:len(starts)-1]
		ends = ends[:len(ends)-1]
	}
	return &normDoc{text: text, starts: starts, ends: ends}
}

// sourceSpan maps a half-open byte span of the normalized text back to the
// corresponding half-open span of the source text.
func (n *normDoc) sourceSpan(normStart, normEnd int) (int, int) {
	if len(n.starts) == 0 || normStart >= normEnd {
		return 0, 0
	}
	if normStart < 0 {
		normStart = 0
	}
	if normEnd > len(n.ends) {
		normEnd = len(n.ends)
	}
	return n.starts[normStart], n.ends[normEnd-1]
}

// normalizeText returns just the normalized form, for inputs whose offsets
// are not needed.
func normalizeText(s string) string {
	return normalize(s).text
}

func isDashRune(r rune) bool {
	switch r {
	case '-', '‐', '‑', '‒', '–', '—', '―', '−':
		return true
	}
	return false
}

func isQuoteRune(r rune) bool {
	switch r {
	case '\'', '"', '‘', '’', '‚', '‛',
		'“', '”', '„', '‟', '«', '»', '`':
		return true
	}
	return false
}
