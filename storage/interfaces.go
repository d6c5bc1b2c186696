package storage

import (
	"context"

	"github.com/poiesic/chunkmatch/core"
)

// VectorCache persists embedding vectors keyed by content hash so that
// repeated matching runs over the same document do not re-embed unchanged
// window or chunk texts.
//
// Implementations must be thread-safe and tolerate missing entries:
// GetVectors returns only the IDs it found.
type VectorCache interface {
	// GetVectors returns the cached vectors for the given IDs.
	// IDs with no cached vector are simply absent from the result map.
	GetVectors(ctx context.Context, ids []core.ID) (map[core.ID][]float32, error)

	// PutVectors stores the given vectors, overwriting existing entries.
	PutVectors(ctx context.Context, vectors map[core.ID][]float32) error

	// Close releases resources held by the cache.
	Close() error
}
