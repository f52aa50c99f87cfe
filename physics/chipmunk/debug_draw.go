package chipmunk

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spheredrop/linmem"
	"github.com/milk9111/spheredrop/physics"
)

const debugCircleSegments = 24

// DebugDrawWorld runs cp.DrawSpace and forwards every primitive to the
// installed drawer as addresses into linear memory. Nothing is emitted when
// no drawer is installed or its mode is off.
func (w *World) DebugDrawWorld() {
	if w.closed || w.drawer == nil || w.heap == nil {
		return
	}
	mode := w.drawer.DebugMode()
	if mode == physics.DebugOff {
		return
	}

	for id, info := range w.bodies {
		pos := info.body.Position()
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) {
			w.drawer.ReportErrorWarning(fmt.Sprintf("chipmunk: body %d (%s) has non-finite position %v", id, info.desc.Name, pos))
		}
	}

	mark := w.heap.Mark()
	defer w.heap.Release(mark)
	cp.DrawSpace(w.space, &heapDrawer{heap: w.heap, out: w.drawer, mode: mode})
}

// heapDrawer is the cp.Drawer that serializes primitives into linear memory.
type heapDrawer struct {
	heap *linmem.Heap
	out  physics.DebugDrawer
	mode physics.DebugMode
}

func (d *heapDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= debugCircleSegments; i++ {
		th := float64(i) * (2 * math.Pi / float64(debugCircleSegments))
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.line(prev, cur, outline)
		prev = cur
	}
	// angle indicator
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, outline)
}

func (d *heapDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fill)
}

func (d *heapDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, outline)
	if radius > 0 {
		d.DrawCircle(a, 0, radius, outline, fill, data)
		d.DrawCircle(b, 0, radius, outline, fill, data)
	}
}

func (d *heapDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 || count > len(verts) {
		return
	}
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], outline)
	}
}

func (d *heapDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	p := d.heap.Alloc(9)
	normal := p + 12
	color := p + 24
	if !d.store(p, float32(pos.X), float32(pos.Y), 0, 0, 0, 1, fill.R, fill.G, fill.B) {
		return
	}
	d.out.DrawContactPoint(p, normal, float32(size), 0, color)
}

func (d *heapDrawer) Flags() uint {
	var flags uint
	if d.mode.Has(physics.DebugWireframe) {
		flags |= cp.DRAW_SHAPES
	}
	if d.mode.Has(physics.DebugConstraints) {
		flags |= cp.DRAW_CONSTRAINTS
	}
	if d.mode.Has(physics.DebugContactPoints) {
		flags |= cp.DRAW_COLLISION_POINTS
	}
	return flags
}

func (d *heapDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *heapDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	if shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *heapDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *heapDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *heapDrawer) Data() interface{} {
	return nil
}

// line writes from, to and color as nine consecutive floats and hands the
// three addresses to the drawer.
func (d *heapDrawer) line(a, b cp.Vector, c cp.FColor) {
	p := d.heap.Alloc(9)
	if !d.store(p,
		float32(a.X), float32(a.Y), 0,
		float32(b.X), float32(b.Y), 0,
		c.R, c.G, c.B,
	) {
		return
	}
	d.out.DrawLine(p, p+12, p+24)
}

// store writes vals at p. A failed write is reported and the primitive skipped.
func (d *heapDrawer) store(p linmem.Ptr, vals ...float32) bool {
	if err := d.heap.Store(p, vals...); err != nil {
		d.out.ReportErrorWarning(fmt.Sprintf("chipmunk: debug draw: %v", err))
		return false
	}
	return true
}
