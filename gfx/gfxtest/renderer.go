// Package gfxtest provides an in-memory gfx.Renderer for tests.
package gfxtest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/gfx"
)

// Mesh records everything done to one mesh.
type Mesh struct {
	Name     string
	Kind     string
	Size     mgl32.Vec3
	Segments int
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Cast     bool
	Receive  bool
	Color    mgl32.Vec4

	// Transforms counts SetMeshTransform calls.
	Transforms int
}

// LineSystem records a line-set primitive.
type LineSystem struct {
	Name      string
	Points    []mgl32.Vec3
	Colors    []mgl32.Vec4
	Updatable bool
	Visible   bool
}

// Renderer implements gfx.Renderer without drawing anything.
type Renderer struct {
	Meshes      map[gfx.MeshID]*Mesh
	LineSystems map[gfx.LineSystemID]*LineSystem

	Creates int
	Updates int

	// TransformErr, when set, is returned by SetMeshTransform.
	TransformErr error

	nextMesh  gfx.MeshID
	nextLines gfx.LineSystemID
}

var _ gfx.Renderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{
		Meshes:      make(map[gfx.MeshID]*Mesh),
		LineSystems: make(map[gfx.LineSystemID]*LineSystem),
	}
}

func (r *Renderer) CreateSphere(name string, diameter float32, segments int) (gfx.MeshID, error) {
	return r.add(&Mesh{Name: name, Kind: "sphere", Size: mgl32.Vec3{diameter, diameter, diameter}, Segments: segments}), nil
}

func (r *Renderer) CreateBox(name string, width, height, depth float32) (gfx.MeshID, error) {
	return r.add(&Mesh{Name: name, Kind: "box", Size: mgl32.Vec3{width, height, depth}}), nil
}

func (r *Renderer) MeshBounds(id gfx.MeshID) (gfx.Bounds, error) {
	m, err := r.mesh(id)
	if err != nil {
		return gfx.Bounds{}, err
	}
	half := m.Size.Mul(0.5)
	return gfx.Bounds{Min: half.Mul(-1), Max: half}, nil
}

func (r *Renderer) SetMeshShadows(id gfx.MeshID, cast, receive bool) error {
	m, err := r.mesh(id)
	if err != nil {
		return err
	}
	m.Cast, m.Receive = cast, receive
	return nil
}

func (r *Renderer) SetMeshColor(id gfx.MeshID, color mgl32.Vec4) error {
	m, err := r.mesh(id)
	if err != nil {
		return err
	}
	m.Color = color
	return nil
}

func (r *Renderer) SetMeshTransform(id gfx.MeshID, position mgl32.Vec3, rotation mgl32.Quat) error {
	if r.TransformErr != nil {
		return r.TransformErr
	}
	m, err := r.mesh(id)
	if err != nil {
		return err
	}
	m.Position = position
	m.Rotation = rotation
	m.Transforms++
	return nil
}

func (r *Renderer) CreateLineSystem(name string, points []mgl32.Vec3, colors []mgl32.Vec4, updatable bool) (gfx.LineSystemID, error) {
	if err := gfx.ValidateLines(points, colors); err != nil {
		return 0, err
	}
	r.nextLines++
	r.LineSystems[r.nextLines] = &LineSystem{
		Name:      name,
		Points:    append([]mgl32.Vec3(nil), points...),
		Colors:    append([]mgl32.Vec4(nil), colors...),
		Updatable: updatable,
		Visible:   true,
	}
	r.Creates++
	return r.nextLines, nil
}

func (r *Renderer) UpdateLineSystem(id gfx.LineSystemID, points []mgl32.Vec3, colors []mgl32.Vec4) error {
	ls, ok := r.LineSystems[id]
	if !ok {
		return fmt.Errorf("%w: %d", gfx.ErrUnknownLineSystem, id)
	}
	if !ls.Updatable {
		return gfx.ErrNotUpdatable
	}
	if err := gfx.ValidateLines(points, colors); err != nil {
		return err
	}
	if len(points) != len(ls.Points) {
		return gfx.ErrLineCountMismatch
	}
	copy(ls.Points, points)
	copy(ls.Colors, colors)
	r.Updates++
	return nil
}

func (r *Renderer) SetLineSystemVisible(id gfx.LineSystemID, visible bool) error {
	ls, ok := r.LineSystems[id]
	if !ok {
		return fmt.Errorf("%w: %d", gfx.ErrUnknownLineSystem, id)
	}
	ls.Visible = visible
	return nil
}

// MeshByName returns the first mesh created with name.
func (r *Renderer) MeshByName(name string) (gfx.MeshID, *Mesh, bool) {
	for id := gfx.MeshID(1); id <= r.nextMesh; id++ {
		if m, ok := r.Meshes[id]; ok && m.Name == name {
			return id, m, true
		}
	}
	return 0, nil, false
}

func (r *Renderer) add(m *Mesh) gfx.MeshID {
	r.nextMesh++
	m.Rotation = mgl32.QuatIdent()
	r.Meshes[r.nextMesh] = m
	return r.nextMesh
}

func (r *Renderer) mesh(id gfx.MeshID) (*Mesh, error) {
	m, ok := r.Meshes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", gfx.ErrUnknownMesh, id)
	}
	return m, nil
}
