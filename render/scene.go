// Package render draws a scene of primitive meshes and line sets with ebiten.
package render

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/gfx"
)

type meshKind int

const (
	meshSphere meshKind = iota
	meshBox
)

type mesh struct {
	name     string
	kind     meshKind
	size     mgl32.Vec3
	segments int

	position mgl32.Vec3
	rotation mgl32.Quat
	color    mgl32.Vec4

	castShadows    bool
	receiveShadows bool
}

func (m *mesh) bounds() gfx.Bounds {
	half := m.size.Mul(0.5)
	return gfx.Bounds{Min: half.Mul(-1), Max: half}
}

type lineSystem struct {
	name      string
	points    []mgl32.Vec3
	colors    []mgl32.Vec4
	updatable bool
	visible   bool
}

// Options configures a Scene.
type Options struct {
	Camera     *ArcRotateCamera
	Light      DirectionalLight
	Shadows    ShadowGenerator
	Background color.Color
}

// Scene implements gfx.Renderer on top of ebiten.
type Scene struct {
	camera     *ArcRotateCamera
	light      DirectionalLight
	shadows    ShadowGenerator
	background color.Color

	width  int
	height int

	meshes      map[gfx.MeshID]*mesh
	meshOrder   []gfx.MeshID
	lineSystems map[gfx.LineSystemID]*lineSystem
	lineOrder   []gfx.LineSystemID

	nextMesh  gfx.MeshID
	nextLines gfx.LineSystemID
}

var _ gfx.Renderer = (*Scene)(nil)

func NewScene(opts Options) *Scene {
	cam := opts.Camera
	if cam == nil {
		cam = NewArcRotateCamera(-mgl32.DegToRad(90), mgl32.DegToRad(72), 15, mgl32.Vec3{})
	}
	bg := opts.Background
	if bg == nil {
		bg = color.NRGBA{R: 0x33, G: 0x33, B: 0x4c, A: 0xff}
	}
	shadows := opts.Shadows
	if shadows.Darkness == 0 {
		shadows.Darkness = 0.5
	}
	return &Scene{
		camera:      cam,
		light:       opts.Light,
		shadows:     shadows,
		background:  bg,
		width:       1,
		height:      1,
		meshes:      make(map[gfx.MeshID]*mesh),
		lineSystems: make(map[gfx.LineSystemID]*lineSystem),
	}
}

// Camera returns the active camera.
func (s *Scene) Camera() *ArcRotateCamera {
	return s.camera
}

// Resize sets the backbuffer size used for projection.
func (s *Scene) Resize(width, height int) {
	s.width = max(width, 1)
	s.height = max(height, 1)
}

func (s *Scene) CreateSphere(name string, diameter float32, segments int) (gfx.MeshID, error) {
	if diameter <= 0 {
		return 0, fmt.Errorf("render: sphere %q diameter must be positive", name)
	}
	if segments < 3 {
		segments = 3
	}
	return s.addMesh(&mesh{name: name, kind: meshSphere, size: mgl32.Vec3{diameter, diameter, diameter}, segments: segments}), nil
}

func (s *Scene) CreateBox(name string, width, height, depth float32) (gfx.MeshID, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return 0, fmt.Errorf("render: box %q dimensions must be positive", name)
	}
	return s.addMesh(&mesh{name: name, kind: meshBox, size: mgl32.Vec3{width, height, depth}}), nil
}

func (s *Scene) addMesh(m *mesh) gfx.MeshID {
	m.rotation = mgl32.QuatIdent()
	m.color = mgl32.Vec4{1, 1, 1, 1}
	s.nextMesh++
	s.meshes[s.nextMesh] = m
	s.meshOrder = append(s.meshOrder, s.nextMesh)
	return s.nextMesh
}

func (s *Scene) mesh(id gfx.MeshID) (*mesh, error) {
	m, ok := s.meshes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", gfx.ErrUnknownMesh, id)
	}
	return m, nil
}

func (s *Scene) MeshBounds(id gfx.MeshID) (gfx.Bounds, error) {
	m, err := s.mesh(id)
	if err != nil {
		return gfx.Bounds{}, err
	}
	return m.bounds(), nil
}

func (s *Scene) SetMeshTransform(id gfx.MeshID, position mgl32.Vec3, rotation mgl32.Quat) error {
	m, err := s.mesh(id)
	if err != nil {
		return err
	}
	m.position = position
	m.rotation = rotation.Normalize()
	return nil
}

func (s *Scene) SetMeshShadows(id gfx.MeshID, cast, receive bool) error {
	m, err := s.mesh(id)
	if err != nil {
		return err
	}
	m.castShadows = cast
	m.receiveShadows = receive
	return nil
}

func (s *Scene) SetMeshColor(id gfx.MeshID, c mgl32.Vec4) error {
	m, err := s.mesh(id)
	if err != nil {
		return err
	}
	m.color = c
	return nil
}

func (s *Scene) CreateLineSystem(name string, points []mgl32.Vec3, colors []mgl32.Vec4, updatable bool) (gfx.LineSystemID, error) {
	if err := gfx.ValidateLines(points, colors); err != nil {
		return 0, err
	}
	s.nextLines++
	s.lineSystems[s.nextLines] = &lineSystem{
		name:      name,
		points:    append([]mgl32.Vec3(nil), points...),
		colors:    append([]mgl32.Vec4(nil), colors...),
		updatable: updatable,
		visible:   true,
	}
	s.lineOrder = append(s.lineOrder, s.nextLines)
	return s.nextLines, nil
}

// UpdateLineSystem rewrites the vertices of an updatable line set in place.
// The segment count is fixed at creation.
func (s *Scene) UpdateLineSystem(id gfx.LineSystemID, points []mgl32.Vec3, colors []mgl32.Vec4) error {
	ls, ok := s.lineSystems[id]
	if !ok {
		return fmt.Errorf("%w: %d", gfx.ErrUnknownLineSystem, id)
	}
	if !ls.updatable {
		return fmt.Errorf("%w: %s", gfx.ErrNotUpdatable, ls.name)
	}
	if err := gfx.ValidateLines(points, colors); err != nil {
		return err
	}
	if len(points) != len(ls.points) {
		return fmt.Errorf("%w: %s has %d segments, got %d", gfx.ErrLineCountMismatch, ls.name, len(ls.points)/2, len(points)/2)
	}
	copy(ls.points, points)
	copy(ls.colors, colors)
	return nil
}

func (s *Scene) SetLineSystemVisible(id gfx.LineSystemID, visible bool) error {
	ls, ok := s.lineSystems[id]
	if !ok {
		return fmt.Errorf("%w: %d", gfx.ErrUnknownLineSystem, id)
	}
	ls.visible = visible
	return nil
}
