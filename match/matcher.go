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
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/chunkmatch/ai"
	"github.com/poiesic/chunkmatch/core"
	"github.com/poiesic/chunkmatch/storage"
)

// Matcher recovers chunk positions in a rewritten document. Layers of
// increasing cost run in sequence, each handling only the chunks the previous
// layers could not place, and the final interpolation layer guarantees every
// chunk receives a position.
type Matcher struct {
	provider       ai.AIProvider
	cache          storage.VectorCache
	cacheNamespace string
	config         *Config
	monitor        MatchMonitor
	logger         *slog.Logger
	poolSize       int
	pool           *ants.Pool
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithConfig replaces the default layer thresholds.
func WithConfig(cfg *Config) Option {
	return func(m *Matcher) error {
		if cfg == nil {
			return fmt.Errorf("%w: config must not be nil", ErrInvalidConfig)
		}
		m.config = cfg
		return nil
	}
}

// WithLogger sets the logger used for per-run diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		m.logger = logger
		return nil
	}
}

// WithPoolSize sets the number of workers used for the text-matching layer.
func WithPoolSize(size int) Option {
	return func(m *Matcher) error {
		if size <= 0 {
			return fmt.Errorf("pool size must be positive, got %d", size)
		}
		m.poolSize = size
		return nil
	}
}

// WithVectorCache attaches a persistent cache for embedding vectors. The
// namespace should identify the embedding model so vectors from different
// models never mix.
func WithVectorCache(cache storage.VectorCache, namespace string) Option {
	return func(m *Matcher) error {
		if cache == nil {
			return fmt.Errorf("vector cache must not be nil")
		}
		if namespace == "" {
			return fmt.Errorf("vector cache namespace must not be empty")
		}
		m.cache = cache
		m.cacheNamespace = namespace
		return nil
	}
}

// WithMonitor attaches a monitor observing pipeline progress. The monitor's
// ChunkResolved hook may be called from multiple goroutines.
func WithMonitor(monitor MatchMonitor) Option {
	return func(m *Matcher) error {
		if monitor == nil {
			return fmt.Errorf("monitor must not be nil")
		}
		m.monitor = monitor
		return nil
	}
}

// NewMatcher creates a Matcher backed by the given AI provider.
func NewMatcher(provider ai.AIProvider, opts ...Option) (*Matcher, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	m := &Matcher{
		provider:       provider,
		cacheNamespace: "default",
		config:         DefaultConfig(),
		monitor:        &noopMonitor{},
		logger:         slog.Default().With("component", "matcher"),
		poolSize:       runtime.NumCPU(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	pool, err := ants.NewPool(m.poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating matcher pool: %w", err)
	}
	m.pool = pool
	return m, nil
}

// Release frees the matcher's worker pool. The matcher must not be used
// after Release.
func (m *Matcher) Release() {
	m.pool.Release()
}

// runState carries everything the layers share during a single Match call.
type runState struct {
	doc     string
	norm    *normDoc
	origLen int
	chunks  []core.SourceChunk // sorted by sequence index
	index   map[string]int     // chunk ID -> position in chunks
	results map[string]*core.MatchResult
	stats   *core.MatchStatistics

	mu sync.Mutex
}

func (rs *runState) resolve(chunk core.SourceChunk, res *core.MatchResult) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.results[chunk.ID] = res
	rs.stats.Record(res)
}

func (rs *runState) resolved(id string) (*core.MatchResult, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	res, ok := rs.results[id]
	return res, ok
}

// neighborSpan reports the end offset of the nearest resolved chunk before
// this one in sequence order, and the start offset of the nearest resolved
// chunk after it.
func (rs *runState) neighborSpan(chunk core.SourceChunk) (predEnd, succStart int, hasPred, hasSucc bool) {
	i := rs.index[chunk.ID]
	for j := i - 1; j >= 0; j-- {
		if res, ok := rs.resolved(rs.chunks[j].ID); ok {
			predEnd = res.End
			hasPred = true
			break
		}
	}
	for j := i + 1; j < len(rs.chunks); j++ {
		if res, ok := rs.resolved(rs.chunks[j].ID); ok {
			succStart = res.Start
			hasSucc = true
			break
		}
	}
	return predEnd, succStart, hasPred, hasSucc
}

// Match recovers a position for every chunk in the rewritten document. The
// returned results are ordered by sequence index and cover every input chunk.
// When the context is cancelled no partial results are returned.
func (m *Matcher) Match(ctx context.Context, document string, chunks []core.SourceChunk) ([]core.MatchResult, *core.MatchStatistics, error) {
	if err := core.ValidateInput(document, chunks); err != nil {
		return nil, nil, err
	}

	runID := uuid.NewString()
	logger := m.logger.With("runId", runID)

	sorted := make([]core.SourceChunk, len(chunks))
	copy(sorted, chunks)
	sortBySequence(sorted)

	rs := &runState{
		doc:     document,
		norm:    normalize(document),
		origLen: estimateOriginalLength(sorted, len(document)),
		chunks:  sorted,
		index:   make(map[string]int, len(sorted)),
		results: make(map[string]*core.MatchResult, len(sorted)),
		stats:   core.NewMatchStatistics(runID, len(sorted)),
	}
	for i, c := range sorted {
		rs.index[c.ID] = i
	}

	m.monitor.Start(runID, len(sorted))
	logger.Debug("match run started", "chunks", len(sorted), "documentBytes", len(document))

	type layerFunc func(context.Context, *runState, []core.SourceChunk) ([]core.SourceChunk, error)
	layers := []struct {
		id  core.Layer
		run layerFunc
	}{
		{core.LayerExact, m.runExactLayer},
		{core.LayerEmbedding, m.runEmbeddingLayer},
		{core.LayerAssistant, m.runAssistantLayer},
	}

	pending := sorted
	for _, layer := range layers {
		if len(pending) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		m.monitor.LayerStart(layer.id, len(pending))
		before := len(pending)
		started := time.Now()
		var err error
		pending, err = layer.run(ctx, rs, pending)
		took := time.Since(started)
		rs.stats.LayerDurations[layer.id] = took
		if err != nil {
			return nil, nil, err
		}
		m.monitor.LayerFinish(layer.id, before-len(pending), len(pending), took)
		logger.Debug("layer finished", "layer", layer.id, "resolved", before-len(pending), "remaining", len(pending), "took", took)
	}

	if len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		m.monitor.LayerStart(core.LayerInterpolation, len(pending))
		started := time.Now()
		m.runInterpolationLayer(rs, pending)
		took := time.Since(started)
		rs.stats.LayerDurations[core.LayerInterpolation] = took
		m.monitor.LayerFinish(core.LayerInterpolation, len(pending), 0, took)
		logger.Debug("layer finished", "layer", core.LayerInterpolation, "resolved", len(pending), "remaining", 0, "took", took)
	}

	results := make([]core.MatchResult, 0, len(sorted))
	for _, chunk := range sorted {
		res, ok := rs.results[chunk.ID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: chunk %s has no result", ErrRecoveryIncomplete, chunk.ID)
		}
		if err := core.ValidateResult(res, len(document)); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrRecoveryIncomplete, err)
		}
		results = append(results, *res)
	}

	m.monitor.Finish(rs.stats)
	logger.Info("match run finished",
		"chunks", len(sorted),
		"exact", rs.stats.ByConfidence[core.ConfidenceExact],
		"high", rs.stats.ByConfidence[core.ConfidenceHigh],
		"medium", rs.stats.ByConfidence[core.ConfidenceMedium],
		"synthetic", rs.stats.ByConfidence[core.ConfidenceSynthetic])
	return results, rs.stats, nil
}

// runExactLayer fans the cheap text strategies out over the worker pool.
func (m *Matcher) runExactLayer(ctx context.Context, rs *runState, pending []core.SourceChunk) ([]core.SourceChunk, error) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		remaining []core.SourceChunk
	)
	for _, chunk := range pending {
		chunk := chunk
		wg.Add(1)
		err := m.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			res := matchChunkExact(rs, chunk, m.config)
			if res == nil {
				mu.Lock()
				remaining = append(remaining, chunk)
				mu.Unlock()
				return
			}
			rs.resolve(chunk, res)
			m.monitor.ChunkResolved(res)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			remaining = append(remaining, chunk)
			mu.Unlock()
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortBySequence(remaining)
	return remaining, nil
}

// estimateOriginalLength infers the original document's length from the
// furthest chunk end, for scaling original offsets into the rewritten
// document.
func estimateOriginalLength(chunks []core.SourceChunk, docLen int) int {
	max := 0
	for _, c := range chunks {
		if c.OriginalEnd > max {
			max = c.OriginalEnd
		}
	}
	if max <= 0 {
		return docLen
	}
	return max
}

func sortBySequence(chunks []core.SourceChunk) {
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].SequenceIndex < chunks[j].SequenceIndex
	})
}
