package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	orbitSpeed = 0.004
	zoomSpeed  = 0.12
)

// HandleInput turns arrow keys and the mouse wheel into camera orbit
// velocity and advances the camera one frame.
func (s *Scene) HandleInput() {
	var dAlpha, dBeta float32
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dAlpha -= orbitSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dAlpha += orbitSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dBeta -= orbitSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dBeta += orbitSpeed
	}
	_, wy := ebiten.Wheel()
	s.camera.Nudge(dAlpha, dBeta, -float32(wy)*zoomSpeed)
	s.camera.Update()
}
