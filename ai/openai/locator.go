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

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/chunkmatch/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Locator implements ai.Locator using OpenAI-compatible chat APIs.
type Locator struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// location is an internal type used for JSON unmarshaling.
// It matches the structure the assistant is instructed to return.
type location struct {
	Found bool `json:"found"`
	Start int  `json:"start"`
	End   int  `json:"end"`
}

// newLocator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newLocator(config *ai.Config) (*Locator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.AssistantHost),
		openai.WithToken("none"),
		openai.WithModel(config.AssistantModel),
	)
	if err != nil {
		return nil, err
	}

	return &Locator{
		client:  client,
		timeout: config.RequestTimeout,
		logger:  slog.Default().With("component", "openai-locator"),
	}, nil
}

// NewLocator creates a new assistant locator using the provided configuration.
//
// Returns ai.Locator interface to enforce abstraction.
func NewLocator(config *ai.Config) (ai.Locator, error) {
	return newLocator(config)
}

// LocateChunk asks the assistant where chunkText appears within windowText.
// Window-relative offsets are validated against the window bounds; anything
// the assistant returns outside them is treated as malformed.
func (l *Locator) LocateChunk(ctx context.Context, chunkText, windowText string) (ai.Location, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(chunkText, windowText)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result location
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := l.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			l.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return ai.NotFound, err
		}

		if len(response.Choices) < 1 {
			l.logger.Debug("no choices returned from model")
			return ai.NotFound, nil
		}

		responseText := repairJSON(cleanResponse(response.Choices[0].Content))

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			l.logger.Warn("error parsing locator response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		l.logger.Error("failed to parse locator response after retries", "err", lastErr)
		return ai.NotFound, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, lastErr)
	}

	if !result.Found {
		return ai.NotFound, nil
	}

	if result.Start < 0 || result.Start >= result.End || result.End > len(windowText) {
		l.logger.Warn("locator returned out-of-bounds offsets",
			"start", result.Start, "end", result.End, "windowLen", len(windowText))
		return ai.NotFound, fmt.Errorf("%w: offsets [%d,%d) outside window of length %d",
			ai.ErrMalformedResponse, result.Start, result.End, len(windowText))
	}

	return ai.Location{Found: true, Start: result.Start, End: result.End}, nil
}
