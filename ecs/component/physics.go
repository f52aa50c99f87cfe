package component

import "github.com/milk9111/spheredrop/physics"

// RigidBody binds an entity to a body in the physics world.
type RigidBody struct {
	ID     physics.BodyID
	Static bool
}

var RigidBodyComponent = NewComponent[RigidBody]()
