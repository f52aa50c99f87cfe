package system

import (
	"github.com/milk9111/spheredrop/debugdraw"
	"github.com/milk9111/spheredrop/ecs"
	"github.com/milk9111/spheredrop/gfx"
	"github.com/milk9111/spheredrop/physics"
)

// PipelineConfig wires the per-frame simulation stages.
type PipelineConfig struct {
	World         physics.World
	Renderer      gfx.MeshTransformer
	Bridge        *debugdraw.Bridge
	Clock         Clock
	SubSteps      int
	MaxFrameDelta float64
}

// Pipeline is the ordered frame: step, sync, debug capture, reset. Presenting
// is left to the renderer's draw call.
type Pipeline struct {
	*ecs.Scheduler

	Step  *PhysicsStepSystem
	Sync  *TransformSyncSystem
	Debug *PhysicsDebugSystem
	Reset *ResetSystem
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	p := &Pipeline{
		Step:  NewPhysicsStepSystem(cfg.World, cfg.Clock, cfg.SubSteps, cfg.MaxFrameDelta),
		Sync:  NewTransformSyncSystem(cfg.World, cfg.Renderer),
		Reset: NewResetSystem(cfg.World, cfg.Renderer),
	}
	p.Scheduler = ecs.NewScheduler(p.Step, p.Sync)
	if cfg.Bridge != nil {
		p.Debug = NewPhysicsDebugSystem(cfg.World, cfg.Bridge)
		p.Scheduler.Add(p.Debug)
	}
	p.Scheduler.Add(p.Reset)
	return p
}
