package chipmunk

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/linmem"
	"github.com/milk9111/spheredrop/physics"
)

const frame = 1.0 / 60.0

func newTestWorld(t *testing.T, gravity mgl32.Vec3) *World {
	t.Helper()
	e := NewEngine(Options{})
	if err := e.Ready(context.Background()); err != nil {
		t.Fatalf("ready: %v", err)
	}
	w, err := e.NewWorld(gravity)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w.(*World)
}

func sphereDesc() physics.BodyDesc {
	return physics.BodyDesc{
		Name:                "sphere",
		Shape:               physics.ShapeSphere,
		Radius:              1.05,
		Mass:                1,
		Restitution:         0.9,
		Position:            mgl32.Vec3{2.5, 5, 0},
		Rotation:            mgl32.QuatIdent(),
		DisableDeactivation: true,
	}
}

func groundDesc() physics.BodyDesc {
	return physics.BodyDesc{
		Name:        "ground",
		Shape:       physics.ShapeBox,
		HalfExtents: mgl32.Vec3{3, 0.05, 3},
		Restitution: 0.9,
		Rotation:    mgl32.QuatRotate(0.1, mgl32.Vec3{0, 0, 1}),
	}
}

func TestEngineReadiness(t *testing.T) {
	e := NewEngine(Options{})
	if _, err := e.NewWorld(mgl32.Vec3{}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady before Ready, got %v", err)
	}
	if err := e.Ready(context.Background()); err != nil {
		t.Fatalf("ready: %v", err)
	}
	// later calls return the first result
	if err := e.Ready(context.Background()); err != nil {
		t.Fatalf("second ready: %v", err)
	}
	if _, err := e.NewWorld(mgl32.Vec3{}); err != nil {
		t.Fatalf("new world: %v", err)
	}

	bad := NewEngine(Options{HeapBytes: 6})
	if err := bad.Ready(context.Background()); !errors.Is(err, linmem.ErrHeapSize) {
		t.Fatalf("expected heap size error, got %v", err)
	}
	if _, err := bad.NewWorld(mgl32.Vec3{}); err == nil {
		t.Fatalf("expected NewWorld to fail after a failed Ready")
	}
}

func TestStaticGroundStaysPut(t *testing.T) {
	w := newTestWorld(t, mgl32.Vec3{0, -9.81, 0})
	ground, err := w.AddBody(groundDesc())
	if err != nil {
		t.Fatalf("add ground: %v", err)
	}
	if _, err := w.AddBody(sphereDesc()); err != nil {
		t.Fatalf("add sphere: %v", err)
	}

	for i := 0; i < 600; i++ {
		w.Step(frame, 8)
	}

	tr, ok := w.Transform(ground)
	if !ok {
		t.Fatalf("ground has no transform")
	}
	if tr.Position.Len() > 1e-6 {
		t.Fatalf("ground moved to %v", tr.Position)
	}
	if got := planarAngle(tr.Rotation); math.Abs(got-0.1) > 1e-5 {
		t.Fatalf("ground rotation changed to %v", got)
	}
	if v, _ := w.LinearVelocity(ground); v.Len() != 0 {
		t.Fatalf("ground velocity %v", v)
	}
}

func TestFreeFall(t *testing.T) {
	w := newTestWorld(t, mgl32.Vec3{0, -9.81, 0})
	id, err := w.AddBody(sphereDesc())
	if err != nil {
		t.Fatal(err)
	}

	prev := float32(5)
	for i := 1; i <= 60; i++ {
		w.Step(frame, 8)
		tr, ok := w.Transform(id)
		if !ok {
			t.Fatalf("sphere lost its transform")
		}
		if tr.Position.Y() >= prev {
			t.Fatalf("frame %d: y=%v did not decrease from %v", i, tr.Position.Y(), prev)
		}
		prev = tr.Position.Y()
	}

	want := 5 - 0.5*9.81
	if math.Abs(float64(prev)-want) > 0.05 {
		t.Fatalf("after 1s y=%v, want about %v", prev, want)
	}
	v, _ := w.LinearVelocity(id)
	if math.Abs(float64(v.Y())+9.81) > 0.05 {
		t.Fatalf("after 1s vy=%v, want about -9.81", v.Y())
	}
}

func TestSphereLandsOnGround(t *testing.T) {
	w := newTestWorld(t, mgl32.Vec3{0, -9.81, 0})
	if _, err := w.AddBody(groundDesc()); err != nil {
		t.Fatal(err)
	}
	id, err := w.AddBody(sphereDesc())
	if err != nil {
		t.Fatal(err)
	}

	bounced := false
	prev := float32(5)
	for i := 0; i < 90; i++ {
		w.Step(frame, 8)
		tr, _ := w.Transform(id)
		if tr.Position.Y() < 0.5 {
			t.Fatalf("frame %d: sphere passed through the ground, y=%v", i, tr.Position.Y())
		}
		if tr.Position.Y() > prev {
			bounced = true
		}
		prev = tr.Position.Y()
	}
	if !bounced {
		t.Fatalf("expected the sphere to bounce")
	}
}

func TestTeleportedStaticGroundCollides(t *testing.T) {
	w := newTestWorld(t, mgl32.Vec3{0, -9.81, 0})
	ground, err := w.AddBody(groundDesc())
	if err != nil {
		t.Fatal(err)
	}
	moved := physics.Transform{Position: mgl32.Vec3{10, 0, 0}, Rotation: mgl32.QuatIdent()}
	if err := w.SetTransform(ground, moved); err != nil {
		t.Fatalf("teleport ground: %v", err)
	}

	over := sphereDesc()
	over.Position = mgl32.Vec3{10, 5, 0}
	overID, err := w.AddBody(over)
	if err != nil {
		t.Fatal(err)
	}
	left := sphereDesc()
	left.Name = "left"
	left.Position = mgl32.Vec3{0, 5, 0}
	leftID, err := w.AddBody(left)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 90; i++ {
		w.Step(frame, 8)
		tr, _ := w.Transform(overID)
		if tr.Position.Y() < 0.5 {
			t.Fatalf("frame %d: sphere passed through the moved ground, y=%v", i, tr.Position.Y())
		}
	}
	if tr, _ := w.Transform(leftID); tr.Position.Y() > -1 {
		t.Fatalf("sphere over the old ground position stopped at y=%v", tr.Position.Y())
	}
	if tr, _ := w.Transform(ground); !tr.Position.ApproxEqual(moved.Position) {
		t.Fatalf("ground at %v, want %v", tr.Position, moved.Position)
	}
}

func TestRejectsNonPlanarInput(t *testing.T) {
	tilted := mgl32.QuatRotate(0.6, mgl32.Vec3{1, 0, 0})

	e := NewEngine(Options{})
	if err := e.Ready(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := e.NewWorld(mgl32.Vec3{0, -9.81, 1}); !errors.Is(err, ErrNonPlanar) {
		t.Fatalf("expected ErrNonPlanar for Z gravity, got %v", err)
	}

	w := newTestWorld(t, mgl32.Vec3{0, -9.81, 0})
	desc := groundDesc()
	desc.Rotation = tilted
	if _, err := w.AddBody(desc); !errors.Is(err, physics.ErrInvalidBody) || !errors.Is(err, ErrNonPlanar) {
		t.Fatalf("expected ErrInvalidBody wrapping ErrNonPlanar, got %v", err)
	}

	id, err := w.AddBody(sphereDesc())
	if err != nil {
		t.Fatal(err)
	}
	before, _ := w.Transform(id)
	err = w.SetTransform(id, physics.Transform{Position: mgl32.Vec3{0, 1, 0}, Rotation: tilted})
	if !errors.Is(err, physics.ErrInvalidBody) {
		t.Fatalf("expected ErrInvalidBody, got %v", err)
	}
	if after, _ := w.Transform(id); after != before {
		t.Fatalf("rejected teleport moved the body: %+v -> %+v", before, after)
	}
}

func TestResetToInitialTransform(t *testing.T) {
	w := newTestWorld(t, mgl32.Vec3{0, -9.81, 0})
	desc := sphereDesc()
	id, err := w.AddBody(desc)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.SetAngularVelocity(id, mgl32.Vec3{0, 0, 3}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		w.Step(frame, 8)
	}

	initial := physics.Transform{Position: desc.Position, Rotation: desc.Rotation}
	if err := w.SetTransform(id, initial); err != nil {
		t.Fatal(err)
	}
	if err := w.SetLinearVelocity(id, mgl32.Vec3{}); err != nil {
		t.Fatal(err)
	}
	if err := w.SetAngularVelocity(id, mgl32.Vec3{}); err != nil {
		t.Fatal(err)
	}

	tr, _ := w.Transform(id)
	if !tr.Position.ApproxEqual(initial.Position) || !tr.Rotation.ApproxEqual(initial.Rotation) {
		t.Fatalf("transform after reset = %+v, want %+v", tr, initial)
	}
	v, _ := w.LinearVelocity(id)
	a, _ := w.AngularVelocity(id)
	if v.Len() != 0 || a.Len() != 0 {
		t.Fatalf("velocities after reset: %v %v", v, a)
	}
}

func TestPlanarAngleRoundTrip(t *testing.T) {
	for _, angle := range []float32{0, 0.1, -0.7, 2.5} {
		q := mgl32.QuatRotate(angle, zAxis)
		if got := planarAngle(q); math.Abs(got-float64(angle)) > 1e-5 {
			t.Fatalf("planarAngle(%v) = %v", angle, got)
		}
	}
	if planarAngle(mgl32.Quat{}) != 0 {
		t.Fatalf("zero quaternion should map to angle 0")
	}
}

func TestRemoveAndClose(t *testing.T) {
	w := newTestWorld(t, mgl32.Vec3{0, -9.81, 0})
	id, err := w.AddBody(sphereDesc())
	if err != nil {
		t.Fatal(err)
	}
	ground, err := w.AddBody(groundDesc())
	if err != nil {
		t.Fatal(err)
	}

	if err := w.RemoveBody(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := w.Transform(id); ok {
		t.Fatalf("removed body still has a motion state")
	}
	if err := w.RemoveBody(id); !errors.Is(err, physics.ErrUnknownBody) {
		t.Fatalf("expected ErrUnknownBody, got %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := w.Transform(ground); ok {
		t.Fatalf("closed world still reports bodies")
	}
	if _, err := w.AddBody(sphereDesc()); !errors.Is(err, physics.ErrWorldClosed) {
		t.Fatalf("expected ErrWorldClosed, got %v", err)
	}
	if err := w.Close(); !errors.Is(err, physics.ErrWorldClosed) {
		t.Fatalf("expected second close to fail, got %v", err)
	}
	// stepping a closed world is a no-op
	w.Step(frame, 8)
}
