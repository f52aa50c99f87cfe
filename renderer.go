package main

import (
	"github.com/milk9111/spheredrop/render"
	"github.com/milk9111/spheredrop/scene"
)

// newRenderer builds a render scene from the scene's camera and light. A
// non-nil camera is reused so the view survives a reload.
func newRenderer(spec *scene.Spec, camera *render.ArcRotateCamera) *render.Scene {
	if camera == nil {
		c := spec.Camera
		camera = render.NewArcRotateCamera(c.Alpha, c.Beta, c.Radius, c.Target.Vec3)
	}
	return render.NewScene(render.Options{
		Camera: camera,
		Light: render.DirectionalLight{
			Direction: spec.Light.Direction.Vec3,
			Intensity: spec.Light.Intensity,
		},
		Shadows: render.ShadowGenerator{MapSize: spec.Light.ShadowMapSize},
	})
}
