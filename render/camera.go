package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/common"
)

const (
	minBeta   = 0.01
	maxBeta   = math32.Pi - 0.01
	minRadius = 1
)

// ArcRotateCamera orbits Target at Radius. Alpha is the longitudinal angle and
// Beta the latitudinal angle measured from +Y.
type ArcRotateCamera struct {
	Alpha  float32
	Beta   float32
	Radius float32
	Target mgl32.Vec3

	FovY float32
	Near float32
	Far  float32

	// Inertia is the fraction of orbit velocity kept each frame.
	Inertia float32

	velAlpha  float32
	velBeta   float32
	velRadius float32
}

// NewArcRotateCamera returns a camera with a 0.8 rad field of view and 0.9
// inertia.
func NewArcRotateCamera(alpha, beta, radius float32, target mgl32.Vec3) *ArcRotateCamera {
	c := &ArcRotateCamera{Alpha: alpha, Beta: beta, Radius: radius, Target: target, FovY: 0.8, Near: 0.1, Far: 1000, Inertia: 0.9}
	c.clamp()
	return c
}

// Position returns the eye position. Alpha = -π/2 looks down -Z with +X to
// the right.
func (c *ArcRotateCamera) Position() mgl32.Vec3 {
	sb := math32.Sin(c.Beta)
	return mgl32.Vec3{
		c.Target.X() + c.Radius*math32.Cos(c.Alpha)*sb,
		c.Target.Y() + c.Radius*math32.Cos(c.Beta),
		c.Target.Z() - c.Radius*math32.Sin(c.Alpha)*sb,
	}
}

func (c *ArcRotateCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *ArcRotateCamera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Orbit rotates and zooms the camera, keeping Beta and Radius in range.
func (c *ArcRotateCamera) Orbit(dAlpha, dBeta, dRadius float32) {
	c.Alpha += dAlpha
	c.Beta += dBeta
	c.Radius += dRadius
	c.clamp()
}

// Nudge adds orbit velocity that Update applies and decays.
func (c *ArcRotateCamera) Nudge(dAlpha, dBeta, dRadius float32) {
	c.velAlpha += dAlpha
	c.velBeta += dBeta
	c.velRadius += dRadius
}

// Update applies the pending orbit velocity once and decays it by Inertia.
func (c *ArcRotateCamera) Update() {
	c.Orbit(c.velAlpha, c.velBeta, c.velRadius)
	k := common.Clamp(c.Inertia, 0, 1)
	c.velAlpha = common.Lerp(0, c.velAlpha, k)
	c.velBeta = common.Lerp(0, c.velBeta, k)
	c.velRadius = common.Lerp(0, c.velRadius, k)
	if math32.Abs(c.velAlpha)+math32.Abs(c.velBeta)+math32.Abs(c.velRadius) < 1e-5 {
		c.velAlpha, c.velBeta, c.velRadius = 0, 0, 0
	}
}

func (c *ArcRotateCamera) clamp() {
	c.Beta = common.Clamp(c.Beta, minBeta, maxBeta)
	if c.Radius < minRadius {
		c.Radius = minRadius
	}
}

// projector maps world points to screen pixels for one frame.
type projector struct {
	mvp    mgl32.Mat4
	right  mgl32.Vec3
	eye    mgl32.Vec3
	width  float32
	height float32
}

func newProjector(c *ArcRotateCamera, width, height int) projector {
	view := c.View()
	proj := c.Projection(float32(width) / float32(max(height, 1)))
	return projector{
		mvp:    proj.Mul4(view),
		right:  view.Row(0).Vec3(),
		eye:    c.Position(),
		width:  float32(width),
		height: float32(height),
	}
}

// project returns screen coordinates, or ok=false for points behind the eye.
func (p projector) project(v mgl32.Vec3) (x, y float32, ok bool) {
	clip := p.mvp.Mul4x1(v.Vec4(1))
	if clip.W() <= 1e-6 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	return (ndc.X() + 1) * 0.5 * p.width, (1 - ndc.Y()) * 0.5 * p.height, true
}

// depth is the distance from the eye, used for painter's ordering.
func (p projector) depth(v mgl32.Vec3) float32 {
	return v.Sub(p.eye).Len()
}
