package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: sample loader/cursor input
	PhasePreUpdate              // 1: deliver last tick's events
	PhaseUpdate                 // 2: game logic
	PhaseAction                 // 3: apply actions, finalize loader positions
	PhaseStreaming              // 4: chunk streaming around loaders
	PhasePersist                // 5: journal flush
	PhaseCleanup                // 6: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhaseAction:
		return "action"
	case PhaseStreaming:
		return "streaming"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
