package scene

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/spheredrop/debugdraw"
	"github.com/milk9111/spheredrop/ecs"
	"github.com/milk9111/spheredrop/ecs/component"
	"github.com/milk9111/spheredrop/ecs/system"
	"github.com/milk9111/spheredrop/gfx"
	"github.com/milk9111/spheredrop/physics"
)

const defaultSphereSegments = 32

// BuildOptions overrides runtime settings that do not belong in a scene file.
type BuildOptions struct {
	Clock system.Clock
	// Unclamped disables the frame delta clamp regardless of the scene file.
	Unclamped bool
}

// Build waits for the engine, creates the world, and adds every body with its
// mesh. The physics shape of each body is derived from its mesh bounds.
func Build(ctx context.Context, engine physics.Engine, renderer gfx.Renderer, spec *Spec, opts BuildOptions) (*Simulation, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrInvalidSpec)
	}
	if renderer == nil {
		return nil, errors.New("scene: nil renderer")
	}
	mode, err := physics.ParseDebugMode(spec.Debug.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	world, err := physics.CreateWorld(ctx, engine, spec.Gravity.Vec3)
	if err != nil {
		return nil, err
	}

	sim := &Simulation{
		World:     ecs.NewWorld(),
		Physics:   world,
		Renderer:  renderer,
		entities:  make(map[string]ecs.Entity),
		debugMode: mode,
	}
	for _, b := range spec.Bodies {
		if err := sim.addBody(b, spec.ResetEvery); err != nil {
			_ = world.Close()
			return nil, err
		}
	}

	initial := physics.DebugOff
	if spec.Debug.Enabled {
		initial = mode
	}
	sim.Bridge = debugdraw.NewBridge(world.Memory(), renderer, initial)

	maxDelta := spec.MaxFrameDelta
	if opts.Unclamped {
		maxDelta = 0
	}
	sim.Pipeline = system.NewPipeline(system.PipelineConfig{
		World:         world,
		Renderer:      renderer,
		Bridge:        sim.Bridge,
		Clock:         opts.Clock,
		SubSteps:      spec.SubSteps,
		MaxFrameDelta: maxDelta,
	})

	log.Printf("scene: built %d bodies, %d sub-steps, reset every %d frames", len(spec.Bodies), spec.SubSteps, spec.ResetEvery)
	return sim, nil
}

func (s *Simulation) addBody(b BodySpec, resetEvery int) error {
	kind, err := b.ShapeKind()
	if err != nil {
		return err
	}

	var mesh gfx.MeshID
	switch kind {
	case physics.ShapeSphere:
		segments := b.Segments
		if segments <= 0 {
			segments = defaultSphereSegments
		}
		mesh, err = s.Renderer.CreateSphere(b.Name, b.Diameter, segments)
	default:
		mesh, err = s.Renderer.CreateBox(b.Name, b.Size.X(), b.Size.Y(), b.Size.Z())
	}
	if err != nil {
		return fmt.Errorf("scene: create mesh %q: %w", b.Name, err)
	}
	if err := s.Renderer.SetMeshShadows(mesh, b.CastShadows, b.ReceiveShadows); err != nil {
		return fmt.Errorf("scene: mesh %q shadows: %w", b.Name, err)
	}
	if b.Color.Set {
		if err := s.Renderer.SetMeshColor(mesh, b.Color.Vec4); err != nil {
			return fmt.Errorf("scene: mesh %q color: %w", b.Name, err)
		}
	}

	bounds, err := s.Renderer.MeshBounds(mesh)
	if err != nil {
		return fmt.Errorf("scene: mesh %q bounds: %w", b.Name, err)
	}
	initial := physics.Transform{Position: b.Position.Vec3, Rotation: b.Quat()}
	desc := physics.BodyDesc{
		Name:                b.Name,
		Shape:               kind,
		Mass:                b.Mass,
		Restitution:         b.Restitution,
		Friction:            b.Friction,
		Position:            initial.Position,
		Rotation:            initial.Rotation,
		DisableDeactivation: b.DisableDeactivation,
	}
	switch kind {
	case physics.ShapeSphere:
		desc.Radius = bounds.Max.Y() + b.Padding
	default:
		desc.HalfExtents = bounds.Max
	}

	id, err := s.Physics.AddBody(desc)
	if err != nil {
		return fmt.Errorf("scene: add body %q: %w", b.Name, err)
	}
	if err := s.Renderer.SetMeshTransform(mesh, initial.Position, initial.Rotation); err != nil {
		return fmt.Errorf("scene: place mesh %q: %w", b.Name, err)
	}

	e := s.World.CreateEntity()
	if err := ecs.Add(s.World, e, component.RigidBodyComponent, component.RigidBody{ID: id, Static: desc.Static()}); err != nil {
		return err
	}
	if err := ecs.Add(s.World, e, component.RenderMeshComponent, component.RenderMesh{ID: mesh, Name: b.Name}); err != nil {
		return err
	}
	if err := ecs.Add(s.World, e, component.TransformComponent, component.Transform{Position: initial.Position, Rotation: initial.Rotation}); err != nil {
		return err
	}
	if b.Reset {
		if err := ecs.Add(s.World, e, component.ResetPolicyComponent, component.ResetPolicy{Every: resetEvery, Initial: initial}); err != nil {
			return err
		}
	}
	s.entities[b.Name] = e
	return nil
}
