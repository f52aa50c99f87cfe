package chipmunk

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spheredrop/linmem"
	"github.com/milk9111/spheredrop/physics"
)

var zAxis = mgl32.Vec3{0, 0, 1}

// World wraps one Chipmunk space.
type World struct {
	space  *cp.Space
	heap   *linmem.Heap
	drawer physics.DebugDrawer
	closed bool

	nextID physics.BodyID
	bodies map[physics.BodyID]*bodyInfo
}

var _ physics.World = (*World)(nil)

type bodyInfo struct {
	desc  physics.BodyDesc
	body  *cp.Body
	shape *cp.Shape
	z     float32
}

// AddBody creates the Chipmunk body and shape for desc.
func (w *World) AddBody(desc physics.BodyDesc) (physics.BodyID, error) {
	if w.closed {
		return 0, physics.ErrWorldClosed
	}
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	if !isPlanar(desc.Rotation) {
		return 0, fmt.Errorf("%w: %q rotation %v: %w", physics.ErrInvalidBody, desc.Name, desc.Rotation, ErrNonPlanar)
	}

	var body *cp.Body
	if desc.Static() {
		body = cp.NewStaticBody()
	} else {
		mass := float64(desc.Mass)
		var moment float64
		switch desc.Shape {
		case physics.ShapeSphere:
			moment = cp.MomentForCircle(mass, 0, float64(desc.Radius), cp.Vector{})
		default:
			moment = cp.MomentForBox(mass, 2*float64(desc.HalfExtents.X()), 2*float64(desc.HalfExtents.Y()))
		}
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(toVector(desc.Position))
	body.SetAngle(planarAngle(desc.Rotation))

	var shape *cp.Shape
	switch desc.Shape {
	case physics.ShapeSphere:
		shape = cp.NewCircle(body, float64(desc.Radius), cp.Vector{})
	default:
		shape = cp.NewBox(body, 2*float64(desc.HalfExtents.X()), 2*float64(desc.HalfExtents.Y()), 0)
	}
	shape.SetElasticity(float64(desc.Restitution))
	shape.SetFriction(float64(desc.Friction))

	w.space.AddBody(body)
	w.space.AddShape(shape)

	w.nextID++
	id := w.nextID
	w.bodies[id] = &bodyInfo{desc: desc, body: body, shape: shape, z: desc.Position.Z()}
	return id, nil
}

// RemoveBody detaches the body and its shape from the space.
func (w *World) RemoveBody(id physics.BodyID) error {
	if w.closed {
		return physics.ErrWorldClosed
	}
	info, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", physics.ErrUnknownBody, id)
	}
	w.space.RemoveShape(info.shape)
	w.space.RemoveBody(info.body)
	delete(w.bodies, id)
	return nil
}

// Step splits dt into subSteps equal space steps.
func (w *World) Step(dt float64, subSteps int) {
	if w.closed || dt <= 0 {
		return
	}
	if subSteps < 1 {
		subSteps = 1
	}
	for _, info := range w.bodies {
		if info.desc.DisableDeactivation && !info.desc.Static() {
			info.body.Activate()
		}
	}
	h := dt / float64(subSteps)
	for i := 0; i < subSteps; i++ {
		w.space.Step(h)
	}
}

// Transform reads the body's current position and rotation.
func (w *World) Transform(id physics.BodyID) (physics.Transform, bool) {
	info, ok := w.lookup(id)
	if !ok {
		return physics.Transform{}, false
	}
	pos := info.body.Position()
	return physics.Transform{
		Position: mgl32.Vec3{float32(pos.X), float32(pos.Y), info.z},
		Rotation: mgl32.QuatRotate(float32(info.body.Angle()), zAxis),
	}, true
}

// SetTransform teleports the body.
func (w *World) SetTransform(id physics.BodyID, t physics.Transform) error {
	info, err := w.mustLookup(id)
	if err != nil {
		return err
	}
	if !isPlanar(t.Rotation) {
		return fmt.Errorf("%w: rotation %v: %w", physics.ErrInvalidBody, t.Rotation, ErrNonPlanar)
	}
	info.body.SetPosition(toVector(t.Position))
	info.body.SetAngle(planarAngle(t.Rotation))
	info.z = t.Position.Z()
	if info.desc.Static() {
		// static shapes are only indexed when added
		w.space.RemoveShape(info.shape)
		w.space.AddShape(info.shape)
	}
	return nil
}

func (w *World) LinearVelocity(id physics.BodyID) (mgl32.Vec3, bool) {
	info, ok := w.lookup(id)
	if !ok {
		return mgl32.Vec3{}, false
	}
	v := info.body.Velocity()
	return mgl32.Vec3{float32(v.X), float32(v.Y), 0}, true
}

func (w *World) AngularVelocity(id physics.BodyID) (mgl32.Vec3, bool) {
	info, ok := w.lookup(id)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{0, 0, float32(info.body.AngularVelocity())}, true
}

func (w *World) SetLinearVelocity(id physics.BodyID, v mgl32.Vec3) error {
	info, err := w.mustLookup(id)
	if err != nil {
		return err
	}
	if info.desc.Static() {
		return nil
	}
	info.body.SetVelocityVector(toVector(v))
	return nil
}

func (w *World) SetAngularVelocity(id physics.BodyID, v mgl32.Vec3) error {
	info, err := w.mustLookup(id)
	if err != nil {
		return err
	}
	if info.desc.Static() {
		return nil
	}
	info.body.SetAngularVelocity(float64(v.Z()))
	return nil
}

// SetDebugDrawer installs the callback surface used by DebugDrawWorld.
func (w *World) SetDebugDrawer(d physics.DebugDrawer) {
	w.drawer = d
}

// Memory returns the engine's linear memory.
func (w *World) Memory() physics.Memory {
	return w.heap
}

// Close removes every body. The world is unusable afterwards.
func (w *World) Close() error {
	if w.closed {
		return physics.ErrWorldClosed
	}
	for id := range w.bodies {
		if err := w.RemoveBody(id); err != nil {
			return err
		}
	}
	w.drawer = nil
	w.closed = true
	return nil
}

func (w *World) lookup(id physics.BodyID) (*bodyInfo, bool) {
	if w.closed {
		return nil, false
	}
	info, ok := w.bodies[id]
	return info, ok && info.body != nil
}

func (w *World) mustLookup(id physics.BodyID) (*bodyInfo, error) {
	if w.closed {
		return nil, physics.ErrWorldClosed
	}
	info, ok := w.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", physics.ErrUnknownBody, id)
	}
	return info, nil
}

func toVector(v mgl32.Vec3) cp.Vector {
	return cp.Vector{X: float64(v.X()), Y: float64(v.Y())}
}

// isPlanar reports whether q only rotates about Z.
func isPlanar(q mgl32.Quat) bool {
	const eps = 1e-6
	return math.Abs(float64(q.V.X())) < eps && math.Abs(float64(q.V.Y())) < eps
}

// planarAngle extracts the rotation about +Z from q.
func planarAngle(q mgl32.Quat) float64 {
	if q.W == 0 && q.V.Len() == 0 {
		return 0
	}
	return 2 * math.Atan2(float64(q.V.Z()), float64(q.W))
}
