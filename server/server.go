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
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/poiesic/chunkmatch/core"
	"github.com/poiesic/chunkmatch/match"
)

// PositionMatcher is the part of the matcher the HTTP surface depends on.
type PositionMatcher interface {
	Match(ctx context.Context, document string, chunks []core.SourceChunk) ([]core.MatchResult, *core.MatchStatistics, error)
}

var _ PositionMatcher = (*match.Matcher)(nil)

// Server exposes position recovery over HTTP.
type Server struct {
	echo   *echo.Echo
	logger *slog.Logger
}

// New builds the HTTP server around a matcher.
func New(matcher PositionMatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Warn("request failed", "status", code, "method", req.Method, "path", req.URL.Path, "error", err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	h := &MatchHandler{Matcher: matcher, Logger: logger}
	h.Register(e.Group("/api"))

	return &Server{echo: e, logger: logger}
}

// Start blocks serving HTTP on addr until Shutdown is called or the listener
// fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	err := s.echo.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying http.Handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
