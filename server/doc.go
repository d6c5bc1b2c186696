// Package server exposes the position-recovery engine over HTTP.
//
// POST /api/match accepts a rewritten document and its chunks and responds
// with a position for every chunk plus run statistics. GET /healthz reports
// liveness.
package server
