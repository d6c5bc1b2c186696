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
	"math"
	"strings"

	"github.com/xrash/smetrics"
)

// editSimilarity returns a similarity ratio in [0,1] between two strings,
// computed from the Wagner-Fischer edit distance with substitutions costed
// as a delete plus an insert. Identical strings score 1.0.
func editSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	d := smetrics.WagnerFischer(a, b, 1, 1, 2)
	sim := 1.0 - float64(d)/float64(total)
	if sim < 0 {
		return 0
	}
	return sim
}

// tokenOverlap returns the Dice coefficient of the unique-token sets of two
// strings. It is far cheaper than edit distance and is used to pre-rank
// sliding-window candidates before the expensive comparison runs.
func tokenOverlap(a, b string) float64 {
	sa := tokenSet(a)
	sb := tokenSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	common := 0
	for tok := range sa {
		if _, ok := sb[tok]; ok {
			common++
		}
	}
	return 2.0 * float64(common) / float64(len(sa)+len(sb))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
