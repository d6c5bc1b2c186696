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

// Package storage provides the persistence abstraction for cached embedding
// vectors.
//
// Embedding a document's windows is the most expensive part of a matching
// run; the VectorCache interface lets the matcher reuse vectors across runs
// over the same (or a largely unchanged) document. Entries are keyed by a
// content hash of model name and text, so a cache never serves a vector for
// text it was not computed from.
//
// Constructors in backend packages return the storage.VectorCache interface
// to prevent coupling to a specific backend:
//
//	cache, err := badger.NewVectorCache(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines. All methods accept context.Context for
// cancellation and timeout support.
package storage
