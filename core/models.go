package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for cached artifacts such as embedding vectors.
// It is generated by content-based hashing so identical content always maps
// to the same cache entry.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Confidence is the trust tier of a recovered chunk position, ordered from
// most to least trustworthy.
type Confidence string

const (
	// ConfidenceExact marks a verbatim match of the full chunk text.
	ConfidenceExact Confidence = "exact"
	// ConfidenceHigh marks anchor, fuzzy, or strong embedding matches.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium marks weaker embedding matches and assistant matches.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceSynthetic marks positions assigned purely by interpolation,
	// with no direct textual or semantic evidence.
	ConfidenceSynthetic Confidence = "synthetic"
)

// Method identifies the matching strategy that produced a MatchResult.
type Method string

const (
	MethodExactMatch    Method = "exact_match"
	MethodMultiAnchor   Method = "multi_anchor"
	MethodSlidingWindow Method = "sliding_window"
	MethodEmbedding     Method = "embedding"
	MethodAssistant     Method = "assistant"
	MethodInterpolation Method = "interpolation"
)

// SourceChunk is a unit of the pre-rewrite document to be relocated within
// the rewritten text. Matchers treat it as read-only input.
type SourceChunk struct {
	// ID uniquely identifies the chunk within its document.
	ID string `json:"id"`

	// Text is the chunk's content as it existed before rewriting.
	Text string `json:"text"`

	// OriginalStart and OriginalEnd are offsets in the pre-rewrite document.
	// They are used only as weak priors for disambiguation and fallback.
	OriginalStart int `json:"originalStart"`
	OriginalEnd   int `json:"originalEnd"`

	// SequenceIndex is the chunk's rank among all chunks of the document.
	// Strictly increasing, never reused.
	SequenceIndex int `json:"sequenceIndex"`
}

// MatchResult is the recovered position of a single chunk within the
// rewritten document. It is created once per chunk and never mutated.
type MatchResult struct {
	// ChunkID references the SourceChunk this result belongs to.
	ChunkID string `json:"chunkId"`

	// Start and End are offsets into the rewritten document.
	// Invariant: 0 <= Start < End <= len(document).
	Start int `json:"start"`
	End   int `json:"end"`

	// Confidence is the trust tier of this position.
	Confidence Confidence `json:"confidence"`

	// Method is the strategy that produced this position.
	Method Method `json:"method"`

	// SimilarityScore is the measured similarity in [0,1] for every
	// text- and embedding-based method: 1.0 for exact matches, the edit
	// similarity for anchor and sliding-window matches, and the cosine
	// similarity for embedding matches. Zero for assistant and
	// interpolation results, which carry no similarity measurement.
	SimilarityScore float64 `json:"similarityScore,omitempty"`

	// PositionValidated records later human confirmation of synthetic
	// positions. Always false when emitted by the matcher.
	PositionValidated bool `json:"positionValidated"`
}

// Layer identifies one of the matching layers for statistics reporting.
type Layer string

const (
	LayerExact         Layer = "layer1_exact"
	LayerEmbedding     Layer = "layer2_embedding"
	LayerAssistant     Layer = "layer3_assistant"
	LayerInterpolation Layer = "layer4_interpolation"
)

// MatchStatistics aggregates the outcome of a single matching run.
// It is accumulated during the run and returned alongside the results;
// no state persists across runs.
type MatchStatistics struct {
	// RunID uniquely identifies the matching run.
	RunID string `json:"runId"`

	// Total is the number of input chunks.
	Total int `json:"total"`

	// ByConfidence counts resolved chunks per confidence tier.
	ByConfidence map[Confidence]int `json:"byConfidence"`

	// ByMethod counts resolved chunks per matching method.
	ByMethod map[Method]int `json:"byMethod"`

	// Warnings are human-readable notes about low-confidence resolutions
	// and recovered external-service failures.
	Warnings []string `json:"warnings"`

	// LayerDurations records the wall-clock time consumed by each layer.
	LayerDurations map[Layer]time.Duration `json:"layerDurations"`
}

// NewMatchStatistics creates empty statistics for a run over total chunks.
func NewMatchStatistics(runID string, total int) *MatchStatistics {
	return &MatchStatistics{
		RunID:          runID,
		Total:          total,
		ByConfidence:   make(map[Confidence]int),
		ByMethod:       make(map[Method]int),
		Warnings:       []string{},
		LayerDurations: make(map[Layer]time.Duration),
	}
}

// Record counts a resolved match in the per-tier and per-method tallies.
func (s *MatchStatistics) Record(result *MatchResult) {
	s.ByConfidence[result.Confidence]++
	s.ByMethod[result.Method]++
}

// Warn appends a human-readable warning.
func (s *MatchStatistics) Warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}
