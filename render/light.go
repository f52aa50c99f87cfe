package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const ambient = 0.15

// DirectionalLight shines along Direction.
type DirectionalLight struct {
	Direction mgl32.Vec3
	Intensity float32
}

// shade returns the brightness of a surface with the given world normal.
func (l DirectionalLight) shade(normal mgl32.Vec3) float32 {
	dir := l.Direction
	if dir.Len() == 0 {
		return 1
	}
	lambert := normal.Normalize().Dot(dir.Normalize().Mul(-1))
	if lambert < 0 {
		lambert = 0
	}
	return math32.Min(1, ambient+l.Intensity*lambert)
}

// ShadowGenerator projects casters onto receivers along the light.
type ShadowGenerator struct {
	MapSize  int
	Darkness float32
}

// samples is the outline vertex count; larger maps give smoother outlines.
func (g ShadowGenerator) samples() int {
	return min(max(g.MapSize/32, 12), 64)
}

// sphereShadow projects a sphere of radius r at center onto the top face of
// receiver. It returns the outline in world space, or false when the shadow
// misses the face or the light does not reach it.
func sphereShadow(center mgl32.Vec3, r float32, receiver *mesh, light mgl32.Vec3, samples int) ([]mgl32.Vec3, bool) {
	if light.Len() == 0 || samples < 3 {
		return nil, false
	}
	l := light.Normalize()
	up := receiver.rotation.Rotate(mgl32.Vec3{0, 1, 0})
	facing := up.Dot(l)
	if facing >= -1e-4 {
		return nil, false
	}
	half := receiver.size.Mul(0.5)
	planePoint := receiver.position.Add(up.Mul(half.Y()))
	t := up.Dot(planePoint.Sub(center)) / facing
	if t < 0 {
		return nil, false
	}
	hit := center.Add(l.Mul(t))

	local := receiver.rotation.Conjugate().Rotate(hit.Sub(receiver.position))
	if math32.Abs(local.X()) > half.X() || math32.Abs(local.Z()) > half.Z() {
		return nil, false
	}

	u := receiver.rotation.Rotate(mgl32.Vec3{1, 0, 0})
	v := receiver.rotation.Rotate(mgl32.Vec3{0, 0, 1})
	lift := up.Mul(1e-3)
	outline := make([]mgl32.Vec3, 0, samples)
	for i := 0; i < samples; i++ {
		th := 2 * math32.Pi * float32(i) / float32(samples)
		p := hit.Add(u.Mul(r * math32.Cos(th))).Add(v.Mul(r * math32.Sin(th))).Add(lift)
		outline = append(outline, p)
	}
	return outline, true
}
