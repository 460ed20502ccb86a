package system

import (
	"time"

	"github.com/l1jgo/recycler/internal/core/ecs"
	coresys "github.com/l1jgo/recycler/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred entity destruction queue at frame end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if s.world.Pending() == 0 {
		return
	}
	n := s.world.Flush()
	s.log.Debug("entities destroyed", zap.Int("count", n), zap.Int("live", s.world.Live()))
}
