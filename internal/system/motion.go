package system

import (
	"time"

	"github.com/wispgrid/chunkstream/internal/component"
	"github.com/wispgrid/chunkstream/internal/core/ecs"
	coresys "github.com/wispgrid/chunkstream/internal/core/system"
)

// MotionSystem moves entities by their velocity. Phase 3 (Action), so loader
// positions are final before streaming runs.
type MotionSystem struct {
	stores *component.Stores
}

func NewMotionSystem(stores *component.Stores) *MotionSystem {
	return &MotionSystem{stores: stores}
}

func (s *MotionSystem) Phase() coresys.Phase { return coresys.PhaseAction }

func (s *MotionSystem) Update(dt time.Duration) {
	secs := float32(dt.Seconds())
	ecs.Each2(s.stores.Velocity, s.stores.Transform, func(_ ecs.EntityID, v *component.Velocity, t *component.Transform) {
		t.Translation = t.Translation.Add(v.Linear.Mul(secs))
	})
}
