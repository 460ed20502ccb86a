package system

import "time"

// Phase orders systems within a frame.
type Phase int

const (
	PhaseInput    Phase = iota // 0: scripts produce spawn requests
	PhaseDispatch              // 1: deliver last frame's events
	PhaseUpdate                // 2: apply spawns and clears to pools
	PhaseReport                // 3: counters and logging
	PhaseCleanup               // 4: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseDispatch:
		return "dispatch"
	case PhaseUpdate:
		return "update"
	case PhaseReport:
		return "report"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is implemented by every per-frame system.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
