package system

import (
	"time"

	coresys "github.com/l1jgo/recycler/internal/core/system"
	"github.com/l1jgo/recycler/internal/scene"
	"go.uber.org/zap"
)

// ReportSystem logs active slot counts per pool every interval frames.
// Phase 3 (Report). An interval of 0 disables reporting.
type ReportSystem struct {
	pools    *scene.Pools
	spawns   *SpawnSystem
	log      *zap.Logger
	interval int
	frames   int
}

func NewReportSystem(pools *scene.Pools, spawns *SpawnSystem, interval int, log *zap.Logger) *ReportSystem {
	return &ReportSystem{pools: pools, spawns: spawns, interval: interval, log: log}
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhaseReport }

func (s *ReportSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.frames++
	if s.frames%s.interval != 0 {
		return
	}

	counts := s.pools.ActiveCounts()
	fields := make([]zap.Field, 0, len(counts)+3)
	for _, name := range s.pools.Names() {
		if n, ok := counts[name]; ok {
			fields = append(fields, zap.Int(name, n))
		}
	}
	st := s.spawns.Stats()
	fields = append(fields,
		zap.Uint64("spawned", st.Spawned),
		zap.Uint64("cleared", st.Cleared),
		zap.Uint64("rejected", st.Rejected),
	)
	s.log.Info("pool report", fields...)
}
