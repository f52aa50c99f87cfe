package system

import (
	"github.com/milk9111/spheredrop/ecs"
	"github.com/milk9111/spheredrop/physics"
)

const (
	DefaultSubSteps      = 8
	DefaultMaxFrameDelta = 1.0 / 30.0
)

// PhysicsStepSystem advances the physics world by the wall-clock time since
// the previous frame.
type PhysicsStepSystem struct {
	world    physics.World
	clock    Clock
	subSteps int
	maxDelta float64

	started  bool
	last     int64
	lastStep float64
}

// NewPhysicsStepSystem steps world with subSteps sub-steps. maxDelta clamps
// the frame delta in seconds; zero or less disables the clamp.
func NewPhysicsStepSystem(world physics.World, clock Clock, subSteps int, maxDelta float64) *PhysicsStepSystem {
	if clock == nil {
		clock = SystemClock{}
	}
	if subSteps <= 0 {
		subSteps = DefaultSubSteps
	}
	return &PhysicsStepSystem{world: world, clock: clock, subSteps: subSteps, maxDelta: maxDelta}
}

func (ps *PhysicsStepSystem) Update(w *ecs.World) {
	if ps == nil || ps.world == nil {
		return
	}
	now := ps.clock.Now().UnixNano()
	if !ps.started {
		// no previous frame to measure against
		ps.started = true
		ps.last = now
		ps.lastStep = 0
		return
	}
	dt := float64(now-ps.last) / 1e9
	ps.last = now
	if dt < 0 {
		dt = 0
	}
	if ps.maxDelta > 0 && dt > ps.maxDelta {
		dt = ps.maxDelta
	}
	ps.lastStep = dt
	ps.world.Step(dt, ps.subSteps)
}

// LastStep returns the dt passed to the most recent Step.
func (ps *PhysicsStepSystem) LastStep() float64 {
	if ps == nil {
		return 0
	}
	return ps.lastStep
}
