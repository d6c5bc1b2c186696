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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/chunkmatch/ai"
	"github.com/poiesic/chunkmatch/ai/openai"
	"github.com/poiesic/chunkmatch/core"
	"github.com/poiesic/chunkmatch/match"
	"github.com/poiesic/chunkmatch/storage"
	"github.com/poiesic/chunkmatch/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "chunkmatch",
		Usage: "Recover chunk positions in rewritten documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "match",
				Usage:  "Match chunks against a rewritten document",
				Action: matchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "document",
						Aliases:  []string{"f"},
						Usage:    "Path to the rewritten document",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "chunks",
						Aliases:  []string{"c"},
						Usage:    "Path to a JSON file holding the chunk list",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Write results to this file instead of stdout",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to a BadgerDB directory for the embedding vector cache",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "assistant-host",
						Usage: "Assistant service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "assistant-model",
						Usage: "Assistant model name",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for the text-matching layer (0 = number of CPUs)",
					},
					&cli.Float64Flag{
						Name:  "fuzzy-threshold",
						Usage: "Minimum similarity for sliding-window text matches",
						Value: match.DefaultConfig().FuzzyThreshold,
					},
					&cli.Float64Flag{
						Name:  "embed-threshold",
						Usage: "Minimum cosine similarity for embedding matches",
						Value: match.DefaultConfig().EmbedMediumThreshold,
					},
					&cli.IntFlag{
						Name:  "assistant-concurrency",
						Usage: "Maximum in-flight assistant requests",
						Value: match.DefaultConfig().AssistantConcurrency,
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report per-layer progress on stderr",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall deadline for the matching run",
						Value: 10 * time.Minute,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func matchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, c.Duration("timeout"))
	defer cancel()

	docBytes, err := os.ReadFile(c.String("document"))
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	chunkBytes, err := os.ReadFile(c.String("chunks"))
	if err != nil {
		return fmt.Errorf("failed to read chunks: %w", err)
	}
	var chunks []core.SourceChunk
	if err := json.Unmarshal(chunkBytes, &chunks); err != nil {
		return fmt.Errorf("failed to parse chunks: %w", err)
	}

	assistantHost := c.String("assistant-host")
	if assistantHost == "" {
		assistantHost = c.String("embedding-host")
	}
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAssistantHost(assistantHost),
		ai.WithAssistantModel(c.String("assistant-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	config := match.DefaultConfig()
	config.FuzzyThreshold = c.Float64("fuzzy-threshold")
	config.EmbedMediumThreshold = c.Float64("embed-threshold")
	config.AssistantConcurrency = c.Int("assistant-concurrency")

	opts := []match.Option{match.WithConfig(config)}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, match.WithPoolSize(size))
	}
	if c.Bool("progress") {
		opts = append(opts, match.WithMonitor(&progressMonitor{}))
	}

	var cache storage.VectorCache
	if dbPath := c.String("db"); dbPath != "" {
		cache, err = badger.NewVectorCache(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open vector cache: %w", err)
		}
		defer cache.Close()
		opts = append(opts, match.WithVectorCache(cache, c.String("embedding-model")))
	}

	matcher, err := match.NewMatcher(provider, opts...)
	if err != nil {
		return fmt.Errorf("failed to create matcher: %w", err)
	}
	defer matcher.Release()

	results, stats, err := matcher.Match(ctx, string(docBytes), chunks)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	out := os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"results": results, "statistics": stats}); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Matched %d chunks: %d exact, %d high, %d medium, %d synthetic\n",
		stats.Total,
		stats.ByConfidence[core.ConfidenceExact],
		stats.ByConfidence[core.ConfidenceHigh],
		stats.ByConfidence[core.ConfidenceMedium],
		stats.ByConfidence[core.ConfidenceSynthetic])
	for _, layer := range []core.Layer{core.LayerExact, core.LayerEmbedding, core.LayerAssistant, core.LayerInterpolation} {
		if took, ok := stats.LayerDurations[layer]; ok {
			fmt.Fprintf(os.Stderr, "  %s took %s\n", layer, took.Round(time.Millisecond))
		}
	}
	for _, warning := range stats.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	return nil
}

// progressMonitor reports layer progress on stderr for long-running matches.
type progressMonitor struct{}

func (p *progressMonitor) Start(runID string, totalChunks int) {
	fmt.Fprintf(os.Stderr, "Run %s: matching %d chunks\n", runID, totalChunks)
}

func (p *progressMonitor) LayerStart(layer core.Layer, pending int) {
	fmt.Fprintf(os.Stderr, "  %s: %d chunks pending\n", layer, pending)
}

func (p *progressMonitor) ChunkResolved(_ *core.MatchResult) {}

func (p *progressMonitor) LayerFinish(layer core.Layer, resolved, remaining int, took time.Duration) {
	fmt.Fprintf(os.Stderr, "  %s: resolved %d, %d remaining (%s)\n",
		layer, resolved, remaining, took.Round(time.Millisecond))
}

func (p *progressMonitor) Finish(_ *core.MatchStatistics) {}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
