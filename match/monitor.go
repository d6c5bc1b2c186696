package match

import (
	"time"

	"github.com/poiesic/chunkmatch/core"
)

// MatchMonitor provides hooks to observe the recovery pipeline.
// Implement this interface to track per-layer progress during a match run.
type MatchMonitor interface {
	Start(runID string, totalChunks int)
	LayerStart(layer core.Layer, pending int)
	ChunkResolved(result *core.MatchResult)
	LayerFinish(layer core.Layer, resolved, remaining int, took time.Duration)
	Finish(stats *core.MatchStatistics)
}

// noopMonitor is a no-op implementation of MatchMonitor
type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                               {}
func (n *noopMonitor) LayerStart(_ core.Layer, _ int)                      {}
func (n *noopMonitor) ChunkResolved(_ *core.MatchResult)                   {}
func (n *noopMonitor) LayerFinish(_ core.Layer, _, _ int, _ time.Duration) {}
func (n *noopMonitor) Finish(_ *core.MatchStatistics)                      {}
