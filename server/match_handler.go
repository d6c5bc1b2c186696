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

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/poiesic/chunkmatch/core"
)

// MatchHandler serves the position-recovery endpoint.
type MatchHandler struct {
	Matcher PositionMatcher
	Logger  *slog.Logger
}

// MatchRequest is the body of POST /api/match.
type MatchRequest struct {
	Document string             `json:"document"`
	Chunks   []core.SourceChunk `json:"chunks"`
}

// MatchResponse is the body of a successful match call.
type MatchResponse struct {
	Results    []core.MatchResult    `json:"results"`
	Statistics *core.MatchStatistics `json:"statistics"`
}

// Register mounts the handler's routes on a route group.
func (h *MatchHandler) Register(g *echo.Group) {
	g.POST("/match", h.match)
}

func (h *MatchHandler) match(c echo.Context) error {
	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, stats, err := h.Matcher.Match(c.Request().Context(), req.Document, req.Chunks)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, MatchResponse{Results: results, Statistics: stats})
}
