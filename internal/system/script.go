package system

import (
	"time"

	"github.com/l1jgo/recycler/internal/core/event"
	coresys "github.com/l1jgo/recycler/internal/core/system"
	"github.com/l1jgo/recycler/internal/scripting"
	"go.uber.org/zap"
)

// PatternSource produces spawn commands for a frame. *scripting.Engine
// satisfies it.
type PatternSource interface {
	SpawnPattern(ctx scripting.PatternContext) []scripting.Command
}

// ScriptSystem asks the pattern source for commands each frame and turns them
// into bus events. Phase 0 (Input).
type ScriptSystem struct {
	src   PatternSource
	bus   *event.Bus
	log   *zap.Logger
	frame uint64
}

func NewScriptSystem(src PatternSource, bus *event.Bus, log *zap.Logger) *ScriptSystem {
	return &ScriptSystem{src: src, bus: bus, log: log}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ScriptSystem) Update(dt time.Duration) {
	s.frame++
	cmds := s.src.SpawnPattern(scripting.PatternContext{Frame: s.frame, DtMs: dt.Milliseconds()})
	for _, cmd := range cmds {
		switch cmd.Op {
		case scripting.OpClear:
			event.Emit(s.bus, event.PoolCleared{Pool: cmd.Pool})
		case scripting.OpSpawnExact:
			event.Emit(s.bus, event.SpawnRequested{Pool: cmd.Pool, Pos: cmd.Pos, Rot: cmd.Rot, Exact: true})
		default:
			event.Emit(s.bus, event.SpawnRequested{Pool: cmd.Pool, Pos: cmd.Pos, Normal: cmd.Normal})
		}
	}
	if len(cmds) > 0 {
		s.log.Debug("pattern emitted", zap.Uint64("frame", s.frame), zap.Int("commands", len(cmds)))
	}
}
