// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Locator,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vectors, err := mockProvider.Embedder().EmbedTexts(ctx, texts)
//
//	// Custom behavior injection
//	mockLocator := mock.NewMockLocator()
//	mockLocator.LocateChunkFunc = func(ctx context.Context, chunk, window string) (ai.Location, error) {
//	    return ai.Location{Found: true, Start: 0, End: len(chunk)}, nil
//	}
//
//	// Check call counts
//	count := mockLocator.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: returns deterministic vectors based on text hash
//   - MockLocator: literal substring search within the window
//   - MockProvider: aggregates mock embedder and locator
package mock
