// Package physics defines the capability interface the simulation bridge
// consumes from a rigid-body engine.
package physics

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrEngineInit  = errors.New("physics: engine initialization failed")
	ErrInvalidBody = errors.New("physics: invalid body")
	ErrUnknownBody = errors.New("physics: unknown body")
	ErrWorldClosed = errors.New("physics: world closed")
)

// BodyID identifies a body inside one World.
type BodyID uint32

// ShapeKind selects the collision shape of a body.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// BodyDesc describes a rigid body. Mass 0 makes the body static.
type BodyDesc struct {
	Name        string
	Shape       ShapeKind
	HalfExtents mgl32.Vec3
	Radius      float32
	Mass        float32
	Restitution float32
	Friction    float32
	Position    mgl32.Vec3
	Rotation    mgl32.Quat

	// DisableDeactivation keeps the body awake forever.
	DisableDeactivation bool
}

// Static reports whether the body never moves under simulation.
func (d BodyDesc) Static() bool {
	return d.Mass == 0
}

// Validate checks the descriptor before it reaches an engine.
func (d BodyDesc) Validate() error {
	if d.Mass < 0 {
		return fmt.Errorf("%w: %q mass %v", ErrInvalidBody, d.Name, d.Mass)
	}
	switch d.Shape {
	case ShapeSphere:
		if d.Radius <= 0 {
			return fmt.Errorf("%w: %q radius %v", ErrInvalidBody, d.Name, d.Radius)
		}
	case ShapeBox:
		if d.HalfExtents.X() <= 0 || d.HalfExtents.Y() <= 0 || d.HalfExtents.Z() < 0 {
			return fmt.Errorf("%w: %q half extents %v", ErrInvalidBody, d.Name, d.HalfExtents)
		}
	default:
		return fmt.Errorf("%w: %q shape %v", ErrInvalidBody, d.Name, d.Shape)
	}
	return nil
}

// Transform is a world transform: position plus unit rotation.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Memory exposes an engine's linear memory as a float array.
type Memory interface {
	HeapF32() []float32
}

// World is a simulation context.
type World interface {
	AddBody(desc BodyDesc) (BodyID, error)
	RemoveBody(id BodyID) error

	// Step advances the simulation by dt seconds split into subSteps.
	Step(dt float64, subSteps int)

	// Transform reads the body's motion state. ok is false when the body has no
	// motion state (unknown or removed).
	Transform(id BodyID) (Transform, bool)
	SetTransform(id BodyID, t Transform) error
	LinearVelocity(id BodyID) (mgl32.Vec3, bool)
	AngularVelocity(id BodyID) (mgl32.Vec3, bool)
	SetLinearVelocity(id BodyID, v mgl32.Vec3) error
	SetAngularVelocity(id BodyID, v mgl32.Vec3) error

	SetDebugDrawer(d DebugDrawer)
	// DebugDrawWorld runs one debug-draw pass through the installed drawer.
	DebugDrawWorld()
	Memory() Memory

	Close() error
}

// Engine is a physics module that must become ready before any world exists.
type Engine interface {
	Ready(ctx context.Context) error
	NewWorld(gravity mgl32.Vec3) (World, error)
}

// CreateWorld waits for the engine to become ready and builds a world with the
// given gravity. Any failure wraps ErrEngineInit.
func CreateWorld(ctx context.Context, engine Engine, gravity mgl32.Vec3) (World, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: nil engine", ErrEngineInit)
	}
	if err := engine.Ready(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineInit, err)
	}
	w, err := engine.NewWorld(gravity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineInit, err)
	}
	return w, nil
}
