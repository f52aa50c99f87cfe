package system

import (
	"github.com/milk9111/spheredrop/debugdraw"
	"github.com/milk9111/spheredrop/ecs"
	"github.com/milk9111/spheredrop/physics"
)

// PhysicsDebugSystem runs one debug-draw pass per frame through the bridge.
type PhysicsDebugSystem struct {
	world  physics.World
	bridge *debugdraw.Bridge
}

// NewPhysicsDebugSystem installs bridge as the world's debug drawer.
func NewPhysicsDebugSystem(world physics.World, bridge *debugdraw.Bridge) *PhysicsDebugSystem {
	if world != nil && bridge != nil {
		world.SetDebugDrawer(bridge)
	}
	return &PhysicsDebugSystem{world: world, bridge: bridge}
}

func (ds *PhysicsDebugSystem) Update(w *ecs.World) {
	if ds == nil || ds.world == nil || ds.bridge == nil {
		return
	}
	ds.bridge.Begin()
	ds.world.DebugDrawWorld()
	ds.bridge.End()
}
