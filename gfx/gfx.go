// Package gfx defines the renderer capabilities the simulation bridge
// consumes. It has no dependency on a concrete graphics backend.
package gfx

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrUnknownMesh       = errors.New("gfx: unknown mesh")
	ErrUnknownLineSystem = errors.New("gfx: unknown line system")
	ErrLineCountMismatch = errors.New("gfx: line system segment count changed")
	ErrNotUpdatable      = errors.New("gfx: line system not updatable")
	ErrInvalidLines      = errors.New("gfx: points and colors must be equal-length pairs")
)

// MeshID identifies a render entity.
type MeshID uint32

// LineSystemID identifies a line-set primitive.
type LineSystemID uint32

// Bounds is a local-space bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Extents returns the half size of b.
func (b Bounds) Extents() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// MeshTransformer moves render entities.
type MeshTransformer interface {
	SetMeshTransform(id MeshID, position mgl32.Vec3, rotation mgl32.Quat) error
}

// LineRenderer owns line-set primitives. Points come in from/to pairs and
// colors hold one entry per point.
type LineRenderer interface {
	CreateLineSystem(name string, points []mgl32.Vec3, colors []mgl32.Vec4, updatable bool) (LineSystemID, error)
	UpdateLineSystem(id LineSystemID, points []mgl32.Vec3, colors []mgl32.Vec4) error
	SetLineSystemVisible(id LineSystemID, visible bool) error
}

// MeshBuilder creates primitive meshes.
type MeshBuilder interface {
	CreateSphere(name string, diameter float32, segments int) (MeshID, error)
	CreateBox(name string, width, height, depth float32) (MeshID, error)
	MeshBounds(id MeshID) (Bounds, error)
	SetMeshShadows(id MeshID, cast, receive bool) error
	SetMeshColor(id MeshID, color mgl32.Vec4) error
}

// Renderer is everything a scene needs from a rendering backend.
type Renderer interface {
	MeshBuilder
	MeshTransformer
	LineRenderer
}

// ValidateLines checks the pairing rules shared by every LineRenderer.
func ValidateLines(points []mgl32.Vec3, colors []mgl32.Vec4) error {
	if len(points)%2 != 0 || len(points) != len(colors) {
		return ErrInvalidLines
	}
	return nil
}
