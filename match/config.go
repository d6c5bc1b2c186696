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
	"time"
)

// Config holds the tunable parameters of the matching layers.
type Config struct {
	// AnchorLength is the target length in bytes of the three anchor
	// substrings extracted for multi-anchor search.
	AnchorLength int

	// MinAnchorLength is the minimum usable anchor length; shorter anchors
	// are too ambiguous and are skipped.
	MinAnchorLength int

	// FuzzyThreshold is the minimum sliding-window similarity for a Layer-1
	// fuzzy match.
	FuzzyThreshold float64

	// ShortChunkThreshold replaces FuzzyThreshold for chunks shorter than
	// ShortChunkLength, where spurious matches are more likely.
	ShortChunkThreshold float64
	ShortChunkLength    int

	// FuzzyStrideDivisor sets the sliding-window stride to
	// windowSize/FuzzyStrideDivisor.
	FuzzyStrideDivisor int

	// EmbedHighThreshold and EmbedMediumThreshold are the cosine-similarity
	// cutoffs for high- and medium-confidence embedding matches.
	EmbedHighThreshold   float64
	EmbedMediumThreshold float64

	// EmbedWindowStrideRatio sets the document-window stride as a fraction
	// of the window size.
	EmbedWindowStrideRatio float64

	// MinEmbedWindow and MaxEmbedWindow clamp the document window size,
	// which otherwise tracks the median pending chunk length.
	MinEmbedWindow int
	MaxEmbedWindow int

	// EmbedMaxRetries and EmbedRetryDelay control retry of batch embedding
	// calls with exponential backoff.
	EmbedMaxRetries int
	EmbedRetryDelay time.Duration

	// AssistantConcurrency bounds the number of in-flight assistant requests.
	AssistantConcurrency int

	// AssistantTimeout bounds each individual assistant request.
	AssistantTimeout time.Duration

	// AssistantWindowMultiplier sizes the assistant search window as a
	// multiple of the chunk length, with MinAssistantWindow as the floor.
	AssistantWindowMultiplier int
	MinAssistantWindow        int
}

// DefaultConfig returns a Config with the thresholds the engine was tuned with.
func DefaultConfig() *Config {
	return &Config{
		AnchorLength:              40,
		MinAnchorLength:           10,
		FuzzyThreshold:            0.80,
		ShortChunkThreshold:       0.90,
		ShortChunkLength:          50,
		FuzzyStrideDivisor:        4,
		EmbedHighThreshold:        0.95,
		EmbedMediumThreshold:      0.85,
		EmbedWindowStrideRatio:    0.4,
		MinEmbedWindow:            100,
		MaxEmbedWindow:            4000,
		EmbedMaxRetries:           3,
		EmbedRetryDelay:           1 * time.Second,
		AssistantConcurrency:      6,
		AssistantTimeout:          30 * time.Second,
		AssistantWindowMultiplier: 4,
		MinAssistantWindow:        2000,
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.AnchorLength <= 0 || c.MinAnchorLength <= 0 {
		return fmt.Errorf("match config: anchor lengths must be positive")
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("match config: FuzzyThreshold must be in (0,1]")
	}
	if c.ShortChunkThreshold < c.FuzzyThreshold || c.ShortChunkThreshold > 1 {
		return fmt.Errorf("match config: ShortChunkThreshold must be in [FuzzyThreshold,1]")
	}
	if c.FuzzyStrideDivisor <= 0 {
		return fmt.Errorf("match config: FuzzyStrideDivisor must be positive")
	}
	if c.EmbedMediumThreshold <= 0 || c.EmbedHighThreshold < c.EmbedMediumThreshold || c.EmbedHighThreshold > 1 {
		return fmt.Errorf("match config: embedding thresholds must satisfy 0 < medium <= high <= 1")
	}
	if c.EmbedWindowStrideRatio <= 0 || c.EmbedWindowStrideRatio > 1 {
		return fmt.Errorf("match config: EmbedWindowStrideRatio must be in (0,1]")
	}
	if c.MinEmbedWindow <= 0 || c.MaxEmbedWindow < c.MinEmbedWindow {
		return fmt.Errorf("match config: embed window bounds must satisfy 0 < min <= max")
	}
	if c.EmbedMaxRetries <= 0 {
		return fmt.Errorf("match config: EmbedMaxRetries must be positive")
	}
	if c.AssistantConcurrency <= 0 {
		return fmt.Errorf("match config: AssistantConcurrency must be positive")
	}
	if c.AssistantTimeout <= 0 {
		return fmt.Errorf("match config: AssistantTimeout must be positive")
	}
	if c.AssistantWindowMultiplier <= 0 || c.MinAssistantWindow <= 0 {
		return fmt.Errorf("match config: assistant window sizing must be positive")
	}
	return nil
}
