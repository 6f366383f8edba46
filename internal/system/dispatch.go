package system

import (
	"time"

	"github.com/wispgrid/chunkstream/internal/core/event"
	coresys "github.com/wispgrid/chunkstream/internal/core/system"
)

// EventDispatchSystem makes last tick's events readable and delivers them.
// Phase 1 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
