package render

import (
	"image"
	"image/color"
	"slices"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	whiteOnce  sync.Once
	whiteImage *ebiten.Image
)

// white returns a 1x1 opaque source for untextured triangles.
func white() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteImage
}

var boxCorners = [8]mgl32.Vec3{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

var boxFaces = [6]struct {
	corners [4]int
	normal  mgl32.Vec3
}{
	{[4]int{0, 1, 2, 3}, mgl32.Vec3{0, 0, -1}},
	{[4]int{4, 5, 6, 7}, mgl32.Vec3{0, 0, 1}},
	{[4]int{0, 3, 7, 4}, mgl32.Vec3{-1, 0, 0}},
	{[4]int{1, 2, 6, 5}, mgl32.Vec3{1, 0, 0}},
	{[4]int{0, 1, 5, 4}, mgl32.Vec3{0, -1, 0}},
	{[4]int{3, 2, 6, 7}, mgl32.Vec3{0, 1, 0}},
}

// Draw renders meshes back to front, then shadows on receivers, then the
// visible line sets on top.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.background)
	p := newProjector(s.camera, s.width, s.height)

	order := make([]*mesh, 0, len(s.meshOrder))
	for _, id := range s.meshOrder {
		order = append(order, s.meshes[id])
	}
	slices.SortStableFunc(order, func(a, b *mesh) int {
		da, db := p.depth(a.position), p.depth(b.position)
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})

	for _, m := range order {
		switch m.kind {
		case meshBox:
			s.drawBox(screen, p, m)
		case meshSphere:
			s.drawSphere(screen, p, m)
		}
		if m.receiveShadows && m.kind == meshBox {
			s.drawShadows(screen, p, m)
		}
	}

	for _, id := range s.lineOrder {
		ls := s.lineSystems[id]
		if !ls.visible {
			continue
		}
		drawLines(screen, p, ls)
	}
}

func (s *Scene) drawBox(dst *ebiten.Image, p projector, m *mesh) {
	half := m.size.Mul(0.5)
	var world [8]mgl32.Vec3
	for i, c := range boxCorners {
		local := mgl32.Vec3{c.X() * half.X(), c.Y() * half.Y(), c.Z() * half.Z()}
		world[i] = m.position.Add(m.rotation.Rotate(local))
	}

	for _, f := range boxFaces {
		normal := m.rotation.Rotate(f.normal)
		center := world[f.corners[0]].Add(world[f.corners[2]]).Mul(0.5)
		if normal.Dot(p.eye.Sub(center)) <= 0 {
			continue
		}
		pts := make([][2]float32, 0, 4)
		for _, ci := range f.corners {
			x, y, ok := p.project(world[ci])
			if !ok {
				pts = nil
				break
			}
			pts = append(pts, [2]float32{x, y})
		}
		if pts == nil {
			continue
		}
		fillPolygon(dst, pts, shaded(m.color, s.light.shade(normal)))
	}
}

func (s *Scene) drawSphere(dst *ebiten.Image, p projector, m *mesh) {
	r := m.size.X() * 0.5
	cx, cy, ok := p.project(m.position)
	if !ok {
		return
	}
	ex, ey, ok := p.project(m.position.Add(p.right.Mul(r)))
	if !ok {
		return
	}
	sr := math32.Hypot(ex-cx, ey-cy)

	toEye := p.eye.Sub(m.position)
	fillPolygon(dst, circle(cx, cy, sr, m.segments), shaded(m.color, s.light.shade(toEye)))

	// Lit cap toward the light.
	if s.light.Direction.Len() > 0 {
		lit := m.position.Sub(s.light.Direction.Normalize().Mul(r * 0.45))
		if hx, hy, ok := p.project(lit); ok {
			fillPolygon(dst, circle(hx, hy, sr*0.45, m.segments), shaded(m.color, s.light.shade(s.light.Direction.Mul(-1))))
		}
	}

	// Rotation marker.
	marker := m.position.Add(m.rotation.Rotate(mgl32.Vec3{r, 0, 0}))
	if mx, my, ok := p.project(marker); ok {
		vector.StrokeLine(dst, cx, cy, mx, my, 1, toColor(shaded(m.color, 0.4)), true)
	}
}

func (s *Scene) drawShadows(dst *ebiten.Image, p projector, receiver *mesh) {
	shadow := mgl32.Vec4{0, 0, 0, s.shadows.Darkness}
	for _, id := range s.meshOrder {
		caster := s.meshes[id]
		if caster == receiver || !caster.castShadows || caster.kind != meshSphere {
			continue
		}
		outline, ok := sphereShadow(caster.position, caster.size.X()*0.5, receiver, s.light.Direction, s.shadows.samples())
		if !ok {
			continue
		}
		pts := make([][2]float32, 0, len(outline))
		for _, w := range outline {
			x, y, ok := p.project(w)
			if !ok {
				pts = nil
				break
			}
			pts = append(pts, [2]float32{x, y})
		}
		if pts != nil {
			fillPolygon(dst, pts, shadow)
		}
	}
}

func drawLines(dst *ebiten.Image, p projector, ls *lineSystem) {
	for i := 0; i+1 < len(ls.points); i += 2 {
		x0, y0, ok0 := p.project(ls.points[i])
		x1, y1, ok1 := p.project(ls.points[i+1])
		if !ok0 || !ok1 {
			continue
		}
		vector.StrokeLine(dst, x0, y0, x1, y1, 1, toColor(ls.colors[i]), true)
	}
}

func circle(cx, cy, r float32, segments int) [][2]float32 {
	pts := make([][2]float32, segments)
	for i := range pts {
		th := 2 * math32.Pi * float32(i) / float32(segments)
		pts[i] = [2]float32{cx + r*math32.Cos(th), cy + r*math32.Sin(th)}
	}
	return pts
}

// fillPolygon fills a convex polygon as a triangle fan.
func fillPolygon(dst *ebiten.Image, pts [][2]float32, c mgl32.Vec4) {
	if len(pts) < 3 {
		return
	}
	vs := make([]ebiten.Vertex, len(pts))
	for i, pt := range pts {
		vs[i] = ebiten.Vertex{
			DstX: pt[0], DstY: pt[1],
			SrcX: 1, SrcY: 1,
			ColorR: c.X() * c.W(), ColorG: c.Y() * c.W(), ColorB: c.Z() * c.W(), ColorA: c.W(),
		}
	}
	is := make([]uint16, 0, (len(pts)-2)*3)
	for i := 1; i+1 < len(pts); i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(vs, is, white(), op)
}

func shaded(c mgl32.Vec4, k float32) mgl32.Vec4 {
	return mgl32.Vec4{c.X() * k, c.Y() * k, c.Z() * k, c.W()}
}

func toColor(c mgl32.Vec4) color.NRGBA {
	to8 := func(v float32) uint8 {
		return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: to8(c.X()), G: to8(c.Y()), B: to8(c.Z()), A: to8(c.W())}
}
