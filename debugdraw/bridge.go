// Package debugdraw decodes a physics engine's debug-draw callbacks out of
// its linear memory and turns them into a renderer line set.
package debugdraw

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/gfx"
	"github.com/milk9111/spheredrop/linmem"
	"github.com/milk9111/spheredrop/physics"
)

const lineSystemName = "linesystem"

// Segment is one decoded debug line.
type Segment struct {
	From  mgl32.Vec3
	To    mgl32.Vec3
	Color mgl32.Vec4
}

// Bridge implements physics.DebugDrawer. Segments accumulate between Begin
// and End; End hands them to the renderer.
type Bridge struct {
	mem   physics.Memory
	lines gfx.LineRenderer
	mode  physics.DebugMode

	segments []Segment
	points   []mgl32.Vec3
	colors   []mgl32.Vec4

	lineSystem gfx.LineSystemID
	created    bool
	dropped    int
}

var _ physics.DebugDrawer = (*Bridge)(nil)

// NewBridge reads addresses out of mem and renders through lines.
func NewBridge(mem physics.Memory, lines gfx.LineRenderer, mode physics.DebugMode) *Bridge {
	return &Bridge{mem: mem, lines: lines, mode: mode}
}

// Begin clears the accumulated segments.
func (b *Bridge) Begin() {
	b.segments = b.segments[:0]
	b.dropped = 0
}

// DrawLine decodes three addresses into a segment. The heap view is fetched
// on every call because the engine may have grown its memory since the last one.
func (b *Bridge) DrawLine(from, to, color linmem.Ptr) {
	view := b.mem.HeapF32()
	f, err := linmem.ReadVec3(view, from)
	if err != nil {
		b.drop(err)
		return
	}
	t, err := linmem.ReadVec3(view, to)
	if err != nil {
		b.drop(err)
		return
	}
	c, err := linmem.ReadColor(view, color)
	if err != nil {
		b.drop(err)
		return
	}
	b.segments = append(b.segments, Segment{From: f, To: t, Color: c})
}

// DrawContactPoint is accepted and ignored; only lines are rendered.
func (b *Bridge) DrawContactPoint(pointOnB, normalOnB linmem.Ptr, distance float32, lifeTime int, color linmem.Ptr) {
}

// ReportErrorWarning logs engine warnings.
func (b *Bridge) ReportErrorWarning(warning string) {
	log.Printf("debugdraw: engine warning: %s", warning)
}

// Draw3DText is accepted and ignored.
func (b *Bridge) Draw3DText(location linmem.Ptr, text string) {
}

// DebugMode is queried by the engine before a pass.
func (b *Bridge) DebugMode() physics.DebugMode {
	return b.mode
}

// SetDebugMode switches debug drawing and hides or shows an existing line set.
func (b *Bridge) SetDebugMode(mode physics.DebugMode) {
	if mode == b.mode {
		return
	}
	b.mode = mode
	if !b.created {
		return
	}
	if err := b.lines.SetLineSystemVisible(b.lineSystem, mode != physics.DebugOff); err != nil {
		log.Printf("debugdraw: set line system visibility: %v", err)
	}
}

// End creates the line set on the first non-empty pass and updates it in
// place afterwards. An empty pass touches nothing.
func (b *Bridge) End() {
	if b.dropped > 0 {
		log.Printf("debugdraw: dropped %d undecodable lines", b.dropped)
	}
	if len(b.segments) == 0 {
		return
	}

	b.points = b.points[:0]
	b.colors = b.colors[:0]
	for _, s := range b.segments {
		b.points = append(b.points, s.From, s.To)
		b.colors = append(b.colors, s.Color, s.Color)
	}

	if !b.created {
		id, err := b.lines.CreateLineSystem(lineSystemName, b.points, b.colors, true)
		if err != nil {
			log.Printf("debugdraw: create line system: %v", err)
			return
		}
		b.lineSystem = id
		b.created = true
		return
	}
	if err := b.lines.UpdateLineSystem(b.lineSystem, b.points, b.colors); err != nil {
		log.Printf("debugdraw: update line system: %v", err)
	}
}

// Segments returns the segments of the current pass. The slice is reused by
// the next Begin.
func (b *Bridge) Segments() []Segment {
	return b.segments
}

// LineSystem returns the renderer line set, if one was created.
func (b *Bridge) LineSystem() (gfx.LineSystemID, bool) {
	return b.lineSystem, b.created
}

func (b *Bridge) drop(err error) {
	if b.dropped == 0 {
		log.Printf("debugdraw: decode line: %v", err)
	}
	b.dropped++
}
