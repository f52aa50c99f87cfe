package scene

import (
	"github.com/milk9111/spheredrop/debugdraw"
	"github.com/milk9111/spheredrop/ecs"
	"github.com/milk9111/spheredrop/ecs/component"
	"github.com/milk9111/spheredrop/ecs/system"
	"github.com/milk9111/spheredrop/gfx"
	"github.com/milk9111/spheredrop/physics"
)

// Simulation is a built scene: the ECS association table, the physics world
// and the per-frame pipeline.
type Simulation struct {
	World    *ecs.World
	Physics  physics.World
	Renderer gfx.Renderer
	Bridge   *debugdraw.Bridge
	Pipeline *system.Pipeline

	entities  map[string]ecs.Entity
	debugMode physics.DebugMode
	closed    bool
}

// Update runs one frame of the pipeline.
func (s *Simulation) Update() {
	if s == nil || s.closed {
		return
	}
	s.Pipeline.Update(s.World)
}

// Events returns and clears the events the pipeline emitted since the last
// call.
func (s *Simulation) Events() []ecs.Event {
	if s == nil {
		return nil
	}
	return s.World.DrainEvents()
}

// Entity returns the entity created for the named body.
func (s *Simulation) Entity(name string) (ecs.Entity, bool) {
	e, ok := s.entities[name]
	return e, ok && s.World.IsAlive(e)
}

// Body returns the physics body of the named entity.
func (s *Simulation) Body(name string) (physics.BodyID, bool) {
	e, ok := s.Entity(name)
	if !ok {
		return 0, false
	}
	rb, ok := ecs.Get(s.World, e, component.RigidBodyComponent)
	return rb.ID, ok
}

// RequestReset resets every body with a reset policy on the next frame.
func (s *Simulation) RequestReset() {
	for _, e := range s.World.Query(component.ResetPolicyComponent.Kind()) {
		_ = ecs.Add(s.World, e, component.ResetRequestComponent, component.ResetRequest{})
	}
}

// ResetFrame returns the frame counter of the first reset policy.
func (s *Simulation) ResetFrame() int {
	e, ok := s.World.First(component.ResetPolicyComponent.Kind())
	if !ok {
		return 0
	}
	p, _ := ecs.Get(s.World, e, component.ResetPolicyComponent)
	return p.Frame
}

// FramesUntilReset returns how many updates remain before the next periodic
// reset, or 0 when no body resets.
func (s *Simulation) FramesUntilReset() int {
	e, ok := s.World.First(component.ResetPolicyComponent.Kind())
	if !ok {
		return 0
	}
	p, _ := ecs.Get(s.World, e, component.ResetPolicyComponent)
	return max(p.Every-p.Frame, 0)
}

// DebugEnabled reports whether debug drawing is on.
func (s *Simulation) DebugEnabled() bool {
	return s.Bridge.DebugMode() != physics.DebugOff
}

// SetDebugEnabled switches debug drawing between off and the scene's mode.
func (s *Simulation) SetDebugEnabled(on bool) {
	if on {
		s.Bridge.SetDebugMode(s.debugMode)
		return
	}
	s.Bridge.SetDebugMode(physics.DebugOff)
}

// Close removes every body and releases the physics world.
func (s *Simulation) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	for name, e := range s.entities {
		if rb, ok := ecs.Get(s.World, e, component.RigidBodyComponent); ok {
			_ = s.Physics.RemoveBody(rb.ID)
		}
		s.World.DestroyEntity(e)
		delete(s.entities, name)
	}
	return s.Physics.Close()
}
