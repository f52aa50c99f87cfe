package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/ecs"
	"github.com/milk9111/spheredrop/ecs/component"
	"github.com/milk9111/spheredrop/gfx"
	"github.com/milk9111/spheredrop/physics"
)

// ResetSystem counts frames per ResetPolicy and puts the body back at its
// initial transform, at rest, when the count reaches Every.
type ResetSystem struct {
	world    physics.World
	renderer gfx.MeshTransformer
}

func NewResetSystem(world physics.World, renderer gfx.MeshTransformer) *ResetSystem {
	return &ResetSystem{world: world, renderer: renderer}
}

func (rs *ResetSystem) Update(w *ecs.World) {
	if rs == nil || rs.world == nil || w == nil {
		return
	}
	for _, e := range w.Query(component.ResetPolicyComponent.Kind(), component.RigidBodyComponent.Kind()) {
		policy, ok := ecs.Get(w, e, component.ResetPolicyComponent)
		if !ok {
			continue
		}
		body, ok := ecs.Get(w, e, component.RigidBodyComponent)
		if !ok {
			continue
		}

		forced := ecs.Remove(w, e, component.ResetRequestComponent)
		policy.Frame++
		if forced || (policy.Every > 0 && policy.Frame >= policy.Every) {
			if err := rs.reset(body.ID, policy.Initial); err != nil {
				log.Printf("ResetSystem: entity %s: %v", e, err)
			} else {
				syncEntity(w, e, body, rs.world, rs.renderer)
				w.Emit(ecs.Event{Kind: ecs.EventReset, Entity: e, Data: forced})
			}
			policy.Frame = 0
		}

		if err := ecs.Add(w, e, component.ResetPolicyComponent, policy); err != nil {
			panic("reset system: update policy: " + err.Error())
		}
	}
}

func (rs *ResetSystem) reset(id physics.BodyID, initial physics.Transform) error {
	if err := rs.world.SetTransform(id, initial); err != nil {
		return err
	}
	if err := rs.world.SetLinearVelocity(id, mgl32.Vec3{}); err != nil {
		return err
	}
	return rs.world.SetAngularVelocity(id, mgl32.Vec3{})
}
