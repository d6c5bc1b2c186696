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
	"github.com/poiesic/chunkmatch/match"
	"github.com/poiesic/chunkmatch/server"
	"github.com/poiesic/chunkmatch/storage"
	"github.com/poiesic/chunkmatch/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "matchd",
		Usage: "HTTP server for chunk position recovery",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address",
				Value:   ":8080",
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
		},
		Before: setupLogger,
		Action: serveCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
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

	opts := []match.Option{}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, match.WithPoolSize(size))
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

	srv := server.New(matcher, slog.Default())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(c.String("addr"))
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}

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
