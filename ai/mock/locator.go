package mock

import (
	"context"
	"strings"

	"github.com/poiesic/chunkmatch/ai"
)

// MockLocator is a test double for ai.Locator.
// It allows custom behavior injection via function fields.
type MockLocator struct {
	// LocateChunkFunc is called by LocateChunk if set.
	// If nil, uses default substring-search behavior.
	LocateChunkFunc func(ctx context.Context, chunkText, windowText string) (ai.Location, error)

	callCount int
}

// NewMockLocator creates a mock locator with default substring-search behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockLocator() *MockLocator {
	return &MockLocator{}
}

// LocateChunk finds chunkText within windowText by literal substring search.
// This approximates what the real assistant does for unaltered text.
func (m *MockLocator) LocateChunk(ctx context.Context, chunkText, windowText string) (ai.Location, error) {
	m.callCount++

	if m.LocateChunkFunc != nil {
		return m.LocateChunkFunc(ctx, chunkText, windowText)
	}

	idx := strings.Index(windowText, chunkText)
	if idx < 0 {
		return ai.NotFound, nil
	}
	return ai.Location{Found: true, Start: idx, End: idx + len(chunkText)}, nil
}

// CallCount returns the number of times LocateChunk was called.
func (m *MockLocator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockLocator) Reset() {
	m.callCount = 0
	m.LocateChunkFunc = nil
}
