package system

import (
	"time"

	"github.com/l1jgo/recycler/internal/core/event"
	coresys "github.com/l1jgo/recycler/internal/core/system"
	"github.com/l1jgo/recycler/internal/scene"
	"go.uber.org/zap"
)

// SpawnStats counts what SpawnSystem has applied.
type SpawnStats struct {
	Spawned  uint64
	Cleared  uint64
	Rejected uint64 // unknown pool or empty pool
}

// SpawnSystem applies spawn and clear requests to the named pools in the
// order they were emitted. Phase 2 (Update).
type SpawnSystem struct {
	pools   *scene.Pools
	log     *zap.Logger
	pending []any
	stats   SpawnStats
}

// NewSpawnSystem subscribes to spawn and clear events on bus.
func NewSpawnSystem(pools *scene.Pools, bus *event.Bus, log *zap.Logger) *SpawnSystem {
	s := &SpawnSystem{pools: pools, log: log}
	event.Subscribe(bus, func(ev event.SpawnRequested) { s.pending = append(s.pending, ev) })
	event.Subscribe(bus, func(ev event.PoolCleared) { s.pending = append(s.pending, ev) })
	return s
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SpawnSystem) Update(_ time.Duration) {
	for _, ev := range s.pending {
		switch ev := ev.(type) {
		case event.SpawnRequested:
			s.spawn(ev)
		case event.PoolCleared:
			s.clear(ev)
		}
	}
	s.pending = s.pending[:0]
}

func (s *SpawnSystem) spawn(ev event.SpawnRequested) {
	p, ok := s.pools.Get(ev.Pool)
	if !ok {
		s.stats.Rejected++
		s.log.Warn("spawn for unknown pool", zap.String("pool", ev.Pool))
		return
	}

	var (
		node *scene.Node
		err  error
	)
	if ev.Exact {
		node, err = p.CycleSpawnExact(ev.Pos, ev.Rot)
	} else {
		node, err = p.CycleSpawn(ev.Pos, ev.Normal)
	}
	if err != nil {
		s.stats.Rejected++
		s.log.Warn("spawn rejected", zap.String("pool", ev.Pool), zap.Error(err))
		return
	}
	s.stats.Spawned++
	s.log.Debug("spawned",
		zap.String("pool", ev.Pool),
		zap.Int("slot", node.Slot().Slot),
		zap.Float64("x", ev.Pos.X),
		zap.Float64("y", ev.Pos.Y),
		zap.Float64("z", ev.Pos.Z),
	)
}

func (s *SpawnSystem) clear(ev event.PoolCleared) {
	if ev.Pool == "" {
		s.pools.DeactivateAll()
		s.stats.Cleared++
		return
	}
	p, ok := s.pools.Get(ev.Pool)
	if !ok {
		s.stats.Rejected++
		s.log.Warn("clear for unknown pool", zap.String("pool", ev.Pool))
		return
	}
	p.DeactivateAll()
	s.stats.Cleared++
}

// Stats returns counters accumulated since construction.
func (s *SpawnSystem) Stats() SpawnStats { return s.stats }
