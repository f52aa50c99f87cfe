package system

import (
	"log"

	"github.com/milk9111/spheredrop/ecs"
	"github.com/milk9111/spheredrop/ecs/component"
	"github.com/milk9111/spheredrop/gfx"
	"github.com/milk9111/spheredrop/physics"
)

// TransformSyncSystem copies dynamic body transforms onto their meshes.
type TransformSyncSystem struct {
	world    physics.World
	renderer gfx.MeshTransformer
}

func NewTransformSyncSystem(world physics.World, renderer gfx.MeshTransformer) *TransformSyncSystem {
	return &TransformSyncSystem{world: world, renderer: renderer}
}

func (ts *TransformSyncSystem) Update(w *ecs.World) {
	if ts == nil || ts.world == nil || w == nil {
		return
	}
	for _, e := range w.Query(component.RigidBodyComponent.Kind(), component.RenderMeshComponent.Kind()) {
		body, ok := ecs.Get(w, e, component.RigidBodyComponent)
		if !ok || body.Static {
			continue
		}
		syncEntity(w, e, body, ts.world, ts.renderer)
	}
}

// syncEntity forwards one body's motion state to its mesh. Bodies without a
// motion state are skipped until a later frame.
func syncEntity(w *ecs.World, e ecs.Entity, body component.RigidBody, world physics.World, renderer gfx.MeshTransformer) bool {
	mesh, ok := ecs.Get(w, e, component.RenderMeshComponent)
	if !ok {
		return false
	}
	t, ok := world.Transform(body.ID)
	if !ok {
		return false
	}
	if renderer != nil {
		if err := renderer.SetMeshTransform(mesh.ID, t.Position, t.Rotation); err != nil {
			log.Printf("TransformSyncSystem: mesh %q: %v", mesh.Name, err)
			return false
		}
	}
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{Position: t.Position, Rotation: t.Rotation}); err != nil {
		panic("transform sync system: update transform: " + err.Error())
	}
	return true
}
