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

import "errors"

// Input validation errors
var (
	// ErrInvalidInput indicates the matching input failed validation.
	ErrInvalidInput = errors.New("invalid matching input")

	// ErrNoChunks indicates an empty chunk list.
	ErrNoChunks = errors.New("chunk list cannot be empty")

	// ErrEmptyDocument indicates an empty rewritten document.
	ErrEmptyDocument = errors.New("rewritten document cannot be empty")

	// ErrEmptyChunkText indicates a chunk with no text.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrChunkLongerThanDocument indicates a chunk whose text exceeds the document length.
	ErrChunkLongerThanDocument = errors.New("chunk text longer than document")

	// ErrDuplicateChunkID indicates two chunks sharing an ID.
	ErrDuplicateChunkID = errors.New("duplicate chunk id")

	// ErrDuplicateSequenceIndex indicates two chunks sharing a sequence index.
	ErrDuplicateSequenceIndex = errors.New("duplicate sequence index")
)
