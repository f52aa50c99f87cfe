package component

import "github.com/milk9111/spheredrop/gfx"

// RenderMesh binds an entity to its render entity. Together with RigidBody it
// forms the body -> mesh association.
type RenderMesh struct {
	ID   gfx.MeshID
	Name string
}

var RenderMeshComponent = NewComponent[RenderMesh]()
