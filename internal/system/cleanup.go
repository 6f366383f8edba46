package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/wispgrid/chunkstream/internal/core/ecs"
	coresys "github.com/wispgrid/chunkstream/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Chunks despawned here take their tiles with them. Phase 6 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.world.FlushDestroyQueue(); n > 0 {
		s.log.Debug("despawned queued entities", zap.Int("count", n), zap.Int("live", s.world.Len()))
	}
}
