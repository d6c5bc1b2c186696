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

// Package match recovers chunk positions inside rewritten documents.
//
// The Matcher type runs a layered pipeline over the chunks, cheapest first:
//   - Exact and fuzzy text matching (verbatim, normalized, multi-anchor,
//     sliding window)
//   - Embedding similarity against overlapping document windows
//   - A language-model assistant that locates chunks inside best-guess
//     windows
//   - Interpolation from resolved neighbors, which always produces a
//     position
//
// Every chunk leaves the pipeline with a position and a confidence tier;
// chunks the text and semantic layers could not place are flagged as
// synthetic and carry a warning in the run statistics.
package match
