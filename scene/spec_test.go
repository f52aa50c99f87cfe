package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/physics"
)

func TestParseDefaultScene(t *testing.T) {
	spec, err := LoadSpec("")
	if err != nil {
		t.Fatalf("load embedded scene: %v", err)
	}

	if spec.SubSteps != 8 || spec.ResetEvery != 350 {
		t.Fatalf("unexpected loop settings %d/%d", spec.SubSteps, spec.ResetEvery)
	}
	if spec.Gravity.Vec3 != (mgl32.Vec3{0, -9.81, 0}) {
		t.Fatalf("gravity = %v", spec.Gravity)
	}
	if len(spec.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(spec.Bodies))
	}

	sphere := spec.Bodies[0]
	if kind, _ := sphere.ShapeKind(); kind != physics.ShapeSphere {
		t.Fatalf("first body should be a sphere, got %v", kind)
	}
	if !sphere.Reset || sphere.Padding != 0.05 || sphere.Position.Vec3 != (mgl32.Vec3{2.5, 5, 0}) {
		t.Fatalf("unexpected sphere %+v", sphere)
	}
	if !sphere.Color.Set || sphere.Color.W() != 1 {
		t.Fatalf("sphere color not parsed: %+v", sphere.Color)
	}

	ground := spec.Bodies[1]
	want := mgl32.QuatRotate(0.1, mgl32.Vec3{0, 0, 1})
	if !ground.Quat().ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("ground rotation = %v, want %v", ground.Quat(), want)
	}
}

func TestParseFillsDefaults(t *testing.T) {
	spec, err := Parse([]byte(`
bodies:
  - name: ball
    shape: sphere
    diameter: 1
    mass: 2
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	def := Default()
	if spec.SubSteps != def.SubSteps || spec.MaxFrameDelta != def.MaxFrameDelta || spec.Debug.HeapBytes != def.Debug.HeapBytes {
		t.Fatalf("defaults not applied: %+v", spec)
	}
	if spec.Bodies[0].Quat() != mgl32.QuatIdent() {
		t.Fatalf("missing rotation should be identity")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no_bodies", `bodies: []`, "no bodies"},
		{"bad_sub_steps", "sub_steps: -1\nbodies: [{name: a, shape: sphere, diameter: 1}]", "sub_steps"},
		{"bad_heap", "debug: {heap_bytes: 6}\nbodies: [{name: a, shape: sphere, diameter: 1}]", "heap_bytes"},
		{"bad_mode", "debug: {mode: [aabb]}\nbodies: [{name: a, shape: sphere, diameter: 1}]", "debug mode"},
		{"dup_names", "bodies: [{name: a, shape: sphere, diameter: 1}, {name: a, shape: sphere, diameter: 1}]", "duplicate"},
		{"unknown_shape", "bodies: [{name: a, shape: cone}]", "shape"},
		{"zero_diameter", "bodies: [{name: a, shape: sphere}]", "diameter"},
		{"flat_box", "bodies: [{name: a, shape: box, size: [1, 0, 1]}]", "size"},
		{"static_reset", "bodies: [{name: a, shape: sphere, diameter: 1, reset: true}]", "dynamic"},
		{"tilted_about_x", "bodies: [{name: a, shape: box, size: [1, 1, 1], mass: 1, rotation: [0.6, 0, 0]}]", "about Z only"},
		{"tilted_about_y", "bodies: [{name: a, shape: box, size: [1, 1, 1], rotation: [0, 0.2, 0.1]}]", "about Z only"},
		{"gravity_off_plane", "gravity: [0, -9.81, 1]\nbodies: [{name: a, shape: sphere, diameter: 1}]", "XY plane"},
		{"two_resets", "bodies: [{name: a, shape: sphere, diameter: 1, mass: 1, reset: true}, {name: b, shape: sphere, diameter: 1, mass: 1, reset: true}]", "only one"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("expected ErrInvalidSpec, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestYAMLDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"short_vector", "gravity: [0, 1]\nbodies: [{name: a, shape: sphere, diameter: 1}]"},
		{"scalar_vector", "gravity: 3\nbodies: [{name: a, shape: sphere, diameter: 1}]"},
		{"bad_color", "bodies: [{name: a, shape: sphere, diameter: 1, color: \"#12\"}]"},
		{"bad_hex", "bodies: [{name: a, shape: sphere, diameter: 1, color: \"#zzzzzz\"}]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Fatalf("expected decode error")
			}
		})
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)
	if err := os.WriteFile(path, []byte("reset_every: 10\nbodies: [{name: a, shape: sphere, diameter: 1, mass: 1}]"), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.ResetEvery != 10 {
		t.Fatalf("expected file on disk to win, got reset_every=%d", spec.ResetEvery)
	}

	if _, err := LoadSpec(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for a scene that is neither on disk nor embedded")
	}
}
