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

package core

import "fmt"

// ValidateInput validates a matching request according to the input contract.
//
// Validation rules:
//   - the chunk list must be non-empty
//   - the rewritten document must be non-empty
//   - every chunk must have non-empty text no longer than the document
//   - chunk IDs must be unique within the request
//   - sequence indices must be unique within the request
//
// Chunks may arrive in any order; the matcher sorts them by sequence index
// before running. Invalid input is rejected up front, before any matching
// layer runs.
func ValidateInput(document string, chunks []SourceChunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoChunks)
	}

	if len(document) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyDocument)
	}

	seen := make(map[string]bool, len(chunks))
	seenSeq := make(map[int]bool, len(chunks))
	for _, chunk := range chunks {
		if chunk.Text == "" {
			return fmt.Errorf("%w: %w (chunk %q)", ErrInvalidInput, ErrEmptyChunkText, chunk.ID)
		}
		if len(chunk.Text) > len(document) {
			return fmt.Errorf("%w: %w (chunk %q, %d > %d)",
				ErrInvalidInput, ErrChunkLongerThanDocument, chunk.ID, len(chunk.Text), len(document))
		}
		if seen[chunk.ID] {
			return fmt.Errorf("%w: %w (%q)", ErrInvalidInput, ErrDuplicateChunkID, chunk.ID)
		}
		seen[chunk.ID] = true

		if seenSeq[chunk.SequenceIndex] {
			return fmt.Errorf("%w: %w (chunk %q: index %d)",
				ErrInvalidInput, ErrDuplicateSequenceIndex, chunk.ID, chunk.SequenceIndex)
		}
		seenSeq[chunk.SequenceIndex] = true
	}

	return nil
}

// ValidateResult checks a MatchResult against the bounds invariant for a
// document of the given length.
func ValidateResult(result *MatchResult, docLen int) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidInput)
	}
	if result.Start < 0 || result.Start >= result.End || result.End > docLen {
		return fmt.Errorf("match result for chunk %q violates bounds: [%d,%d) in document of length %d",
			result.ChunkID, result.Start, result.End, docLen)
	}
	return nil
}
