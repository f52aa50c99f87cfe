// Package physicstest provides a scriptable physics.World and physics.Engine
// for tests that must not depend on a real solver.
package physicstest

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/linmem"
	"github.com/milk9111/spheredrop/physics"
)

// Body is the fake motion state of one body.
type Body struct {
	Desc      physics.BodyDesc
	Transform physics.Transform
	Linear    mgl32.Vec3
	Angular   mgl32.Vec3

	// NoMotionState makes Transform report ok=false.
	NoMotionState bool
}

// Line is a debug line the fake emits on every DebugDrawWorld.
type Line struct {
	From, To, Color mgl32.Vec3
}

// StepCall records one Step invocation.
type StepCall struct {
	DT       float64
	SubSteps int
}

// World integrates dynamic bodies with explicit Euler under Gravity.
type World struct {
	Gravity mgl32.Vec3
	Bodies  map[physics.BodyID]*Body
	Steps   []StepCall
	Heap    *linmem.Heap

	// Lines are replayed through the drawer on every debug pass.
	Lines []Line
	// Warnings are reported through the drawer on every debug pass.
	Warnings    []string
	DebugPasses int
	Drawer      physics.DebugDrawer
	Closed      bool

	nextID physics.BodyID
}

var _ physics.World = (*World)(nil)

// NewWorld returns an empty fake with a 1 KiB heap.
func NewWorld(gravity mgl32.Vec3) *World {
	heap, err := linmem.NewHeap(1024)
	if err != nil {
		panic(err)
	}
	return &World{Gravity: gravity, Bodies: make(map[physics.BodyID]*Body), Heap: heap}
}

func (w *World) AddBody(desc physics.BodyDesc) (physics.BodyID, error) {
	if w.Closed {
		return 0, physics.ErrWorldClosed
	}
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	w.nextID++
	w.Bodies[w.nextID] = &Body{Desc: desc, Transform: physics.Transform{Position: desc.Position, Rotation: desc.Rotation}}
	return w.nextID, nil
}

func (w *World) RemoveBody(id physics.BodyID) error {
	if _, ok := w.Bodies[id]; !ok {
		return fmt.Errorf("%w: %d", physics.ErrUnknownBody, id)
	}
	delete(w.Bodies, id)
	return nil
}

func (w *World) Step(dt float64, subSteps int) {
	w.Steps = append(w.Steps, StepCall{DT: dt, SubSteps: subSteps})
	if dt <= 0 || subSteps < 1 {
		return
	}
	h := float32(dt / float64(subSteps))
	for i := 0; i < subSteps; i++ {
		for _, b := range w.Bodies {
			if b.Desc.Static() {
				continue
			}
			b.Linear = b.Linear.Add(w.Gravity.Mul(h))
			b.Transform.Position = b.Transform.Position.Add(b.Linear.Mul(h))
			if angle := b.Angular.Z() * h; angle != 0 {
				b.Transform.Rotation = mgl32.QuatRotate(angle, mgl32.Vec3{0, 0, 1}).Mul(b.Transform.Rotation).Normalize()
			}
		}
	}
}

func (w *World) Transform(id physics.BodyID) (physics.Transform, bool) {
	b, ok := w.Bodies[id]
	if !ok || b.NoMotionState {
		return physics.Transform{}, false
	}
	return b.Transform, true
}

func (w *World) SetTransform(id physics.BodyID, t physics.Transform) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.Transform = t
	return nil
}

func (w *World) LinearVelocity(id physics.BodyID) (mgl32.Vec3, bool) {
	b, ok := w.Bodies[id]
	if !ok {
		return mgl32.Vec3{}, false
	}
	return b.Linear, true
}

func (w *World) AngularVelocity(id physics.BodyID) (mgl32.Vec3, bool) {
	b, ok := w.Bodies[id]
	if !ok {
		return mgl32.Vec3{}, false
	}
	return b.Angular, true
}

func (w *World) SetLinearVelocity(id physics.BodyID, v mgl32.Vec3) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.Linear = v
	return nil
}

func (w *World) SetAngularVelocity(id physics.BodyID, v mgl32.Vec3) error {
	b, err := w.body(id)
	if err != nil {
		return err
	}
	b.Angular = v
	return nil
}

func (w *World) SetDebugDrawer(d physics.DebugDrawer) {
	w.Drawer = d
}

// DebugDrawWorld writes every scripted line into the heap and reports it.
func (w *World) DebugDrawWorld() {
	w.DebugPasses++
	if w.Drawer == nil || w.Drawer.DebugMode() == physics.DebugOff {
		return
	}
	for _, msg := range w.Warnings {
		w.Drawer.ReportErrorWarning(msg)
	}
	mark := w.Heap.Mark()
	defer w.Heap.Release(mark)
	for _, l := range w.Lines {
		p := w.Heap.Alloc(9)
		_ = w.Heap.Store(p,
			l.From.X(), l.From.Y(), l.From.Z(),
			l.To.X(), l.To.Y(), l.To.Z(),
			l.Color.X(), l.Color.Y(), l.Color.Z(),
		)
		w.Drawer.DrawLine(p, p+12, p+24)
	}
}

func (w *World) Memory() physics.Memory {
	return w.Heap
}

func (w *World) Close() error {
	if w.Closed {
		return physics.ErrWorldClosed
	}
	w.Bodies = make(map[physics.BodyID]*Body)
	w.Closed = true
	return nil
}

func (w *World) body(id physics.BodyID) (*Body, error) {
	b, ok := w.Bodies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", physics.ErrUnknownBody, id)
	}
	return b, nil
}

// Engine hands out fake worlds once Ready succeeds.
type Engine struct {
	// ReadyErr is returned by Ready.
	ReadyErr error
	// Block makes Ready wait for ctx cancellation.
	Block bool

	Worlds []*World
	ready  bool
}

var _ physics.Engine = (*Engine)(nil)

func (e *Engine) Ready(ctx context.Context) error {
	if e.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	if e.ReadyErr != nil {
		return e.ReadyErr
	}
	e.ready = true
	return nil
}

func (e *Engine) NewWorld(gravity mgl32.Vec3) (physics.World, error) {
	if !e.ready {
		return nil, fmt.Errorf("physicstest: engine not ready")
	}
	w := NewWorld(gravity)
	e.Worlds = append(e.Worlds, w)
	return w, nil
}
