package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity matching.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Location is the tagged result of an assistant chunk lookup.
// When Found is true, Start and End are character offsets relative to the
// search window that was sent to the assistant. When Found is false the
// offsets carry no meaning.
type Location struct {
	Found bool
	Start int
	End   int
}

// NotFound is the Location reported when the assistant could not place the chunk.
var NotFound = Location{}

// Locator asks a generative-language assistant to place a chunk of text
// within a bounded search window. Implementations must be thread-safe for
// concurrent use.
type Locator interface {
	// LocateChunk returns where chunkText appears within windowText, or
	// NotFound if the assistant cannot place it. Malformed assistant output
	// is reported as an error; callers treat it like NotFound.
	LocateChunk(ctx context.Context, chunkText, windowText string) (Location, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Locator instances, ensuring
// they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Locator returns the assistant chunk-location service.
	// The returned Locator is safe for concurrent use.
	Locator() Locator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
