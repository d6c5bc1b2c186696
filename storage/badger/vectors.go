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

package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/chunkmatch/core"
	"github.com/poiesic/chunkmatch/storage"
)

// VectorCache implements storage.VectorCache on a BadgerDB backend.
type VectorCache struct {
	backend *Backend
	ownsDB  bool
	logger  *slog.Logger
}

var _ storage.VectorCache = (*VectorCache)(nil)

// NewVectorCache opens (or creates) a vector cache at the given path.
//
// Returns storage.VectorCache interface to enforce abstraction.
func NewVectorCache(path string) (storage.VectorCache, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &VectorCache{
		backend: backend,
		ownsDB:  true,
		logger:  slog.Default().With("component", "badger-vector-cache"),
	}, nil
}

// NewMemoryVectorCache creates an in-memory vector cache, useful for tests.
func NewMemoryVectorCache() (storage.VectorCache, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return &VectorCache{
		backend: backend,
		ownsDB:  true,
		logger:  slog.Default().With("component", "badger-vector-cache"),
	}, nil
}

// GetVectors returns the cached vectors for the given IDs.
// Missing entries are omitted from the result; they are not errors.
func (c *VectorCache) GetVectors(ctx context.Context, ids []core.ID) (map[core.ID][]float32, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	found := make(map[core.ID][]float32, len(ids))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}

			item, err := tx.Get(makeVectorKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			err = item.Value(func(val []byte) error {
				vector, err := storage.UnmarshalVector(val)
				if err != nil {
					return fmt.Errorf("%w: vector %d: %w", storage.ErrSerializationFailed, id, err)
				}
				found[id] = vector
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("vector cache lookup", "requested", len(ids), "found", len(found))
	return found, nil
}

// PutVectors stores the given vectors, overwriting existing entries.
func (c *VectorCache) PutVectors(ctx context.Context, vectors map[core.ID][]float32) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(vectors) == 0 {
		return nil
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		for id, vector := range vectors {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tx.Set(makeVectorKey(id), storage.MarshalVector(vector)); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// Close closes the underlying database if this cache owns it.
func (c *VectorCache) Close() error {
	if c.ownsDB {
		return c.backend.Close()
	}
	return nil
}
