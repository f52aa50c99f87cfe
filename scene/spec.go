// Package scene loads the YAML scene description and builds a running
// simulation from it.
package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/physics"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("scene: invalid spec")

type Spec struct {
	Gravity          YAMLVec3   `yaml:"gravity"`
	SubSteps         int        `yaml:"sub_steps"`
	MaxFrameDelta    float64    `yaml:"max_frame_delta"`
	ResetEvery       int        `yaml:"reset_every"`
	SolverIterations int        `yaml:"solver_iterations"`
	Debug            DebugSpec  `yaml:"debug"`
	Camera           CameraSpec `yaml:"camera"`
	Light            LightSpec  `yaml:"light"`
	Bodies           []BodySpec `yaml:"bodies"`
}

type DebugSpec struct {
	Enabled   bool     `yaml:"enabled"`
	Mode      []string `yaml:"mode"`
	HeapBytes int      `yaml:"heap_bytes"`
}

type CameraSpec struct {
	Alpha  float32  `yaml:"alpha"`
	Beta   float32  `yaml:"beta"`
	Radius float32  `yaml:"radius"`
	Target YAMLVec3 `yaml:"target"`
}

type LightSpec struct {
	Direction     YAMLVec3 `yaml:"direction"`
	Intensity     float32  `yaml:"intensity"`
	ShadowMapSize int      `yaml:"shadow_map_size"`
}

type BodySpec struct {
	Name     string   `yaml:"name"`
	Shape    string   `yaml:"shape"`
	Size     YAMLVec3 `yaml:"size"`
	Diameter float32  `yaml:"diameter"`
	Segments int      `yaml:"segments"`
	Position YAMLVec3 `yaml:"position"`
	// Rotation is XYZ euler angles in radians.
	Rotation            YAMLVec3  `yaml:"rotation"`
	Mass                float32   `yaml:"mass"`
	Restitution         float32   `yaml:"restitution"`
	Friction            float32   `yaml:"friction"`
	Padding             float32   `yaml:"padding"`
	CastShadows         bool      `yaml:"cast_shadows"`
	ReceiveShadows      bool      `yaml:"receive_shadows"`
	DisableDeactivation bool      `yaml:"disable_deactivation"`
	Color               YAMLColor `yaml:"color"`
	Reset               bool      `yaml:"reset"`
}

// ShapeKind maps the shape name onto the physics shape.
func (b BodySpec) ShapeKind() (physics.ShapeKind, error) {
	switch strings.ToLower(b.Shape) {
	case "sphere":
		return physics.ShapeSphere, nil
	case "box":
		return physics.ShapeBox, nil
	default:
		return 0, fmt.Errorf("%w: body %q: unknown shape %q", ErrInvalidSpec, b.Name, b.Shape)
	}
}

// Quat converts the euler rotation into a quaternion.
func (b BodySpec) Quat() mgl32.Quat {
	r := b.Rotation.Vec3
	if r == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return mgl32.AnglesToQuat(r.X(), r.Y(), r.Z(), mgl32.XYZ).Normalize()
}

// Parse decodes and validates a scene, filling defaults for omitted fields.
func Parse(data []byte) (*Spec, error) {
	spec := Default()
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("scene: unmarshal: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// LoadSpec loads and parses a scene by path; see Load.
func LoadSpec(path string) (*Spec, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns the settings used for fields a scene file leaves out.
func Default() *Spec {
	return &Spec{
		Gravity:          YAMLVec3{mgl32.Vec3{0, -9.81, 0}},
		SubSteps:         8,
		MaxFrameDelta:    1.0 / 30.0,
		ResetEvery:       350,
		SolverIterations: 10,
		Debug:            DebugSpec{Enabled: true, HeapBytes: 64 * 1024},
		Camera:           CameraSpec{Alpha: -mgl32.DegToRad(90), Beta: mgl32.DegToRad(72), Radius: 15},
		Light:            LightSpec{Direction: YAMLVec3{mgl32.Vec3{0, -8, 2}}, Intensity: 0.7, ShadowMapSize: 1024},
	}
}

func (s *Spec) Validate() error {
	if s.SubSteps <= 0 {
		return fmt.Errorf("%w: sub_steps must be positive, got %d", ErrInvalidSpec, s.SubSteps)
	}
	if s.MaxFrameDelta < 0 {
		return fmt.Errorf("%w: max_frame_delta must not be negative", ErrInvalidSpec)
	}
	if s.Debug.HeapBytes <= 0 || s.Debug.HeapBytes%4 != 0 {
		return fmt.Errorf("%w: debug.heap_bytes must be a positive multiple of 4", ErrInvalidSpec)
	}
	if _, err := physics.ParseDebugMode(s.Debug.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if s.Gravity.Z() != 0 {
		return fmt.Errorf("%w: gravity must lie in the XY plane, got %v", ErrInvalidSpec, s.Gravity.Vec3)
	}
	if s.Camera.Radius <= 0 {
		return fmt.Errorf("%w: camera.radius must be positive", ErrInvalidSpec)
	}
	if len(s.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidSpec)
	}

	names := make(map[string]struct{}, len(s.Bodies))
	resets := 0
	for i, b := range s.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body %d has no name", ErrInvalidSpec, i)
		}
		if _, dup := names[b.Name]; dup {
			return fmt.Errorf("%w: duplicate body name %q", ErrInvalidSpec, b.Name)
		}
		names[b.Name] = struct{}{}

		kind, err := b.ShapeKind()
		if err != nil {
			return err
		}
		switch kind {
		case physics.ShapeSphere:
			if b.Diameter <= 0 {
				return fmt.Errorf("%w: body %q: diameter must be positive", ErrInvalidSpec, b.Name)
			}
		case physics.ShapeBox:
			if b.Size.X() <= 0 || b.Size.Y() <= 0 || b.Size.Z() <= 0 {
				return fmt.Errorf("%w: body %q: size must be positive", ErrInvalidSpec, b.Name)
			}
		}
		if b.Rotation.X() != 0 || b.Rotation.Y() != 0 {
			return fmt.Errorf("%w: body %q: rotation is about Z only, got %v", ErrInvalidSpec, b.Name, b.Rotation.Vec3)
		}
		if b.Mass < 0 {
			return fmt.Errorf("%w: body %q: mass must not be negative", ErrInvalidSpec, b.Name)
		}
		if b.Reset {
			if b.Mass == 0 {
				return fmt.Errorf("%w: body %q: reset needs a dynamic body", ErrInvalidSpec, b.Name)
			}
			resets++
		}
	}
	if resets > 1 {
		return fmt.Errorf("%w: only one body may be reset, got %d", ErrInvalidSpec, resets)
	}
	return nil
}

// YAMLVec3 decodes a three element sequence.
type YAMLVec3 struct {
	mgl32.Vec3
}

func (v *YAMLVec3) UnmarshalYAML(value *yaml.Node) error {
	var vals []float32
	if err := value.Decode(&vals); err != nil {
		return fmt.Errorf("vector must be a sequence of numbers: %w", err)
	}
	if len(vals) != 3 {
		return fmt.Errorf("vector must have 3 elements, got %d", len(vals))
	}
	v.Vec3 = mgl32.Vec3{vals[0], vals[1], vals[2]}
	return nil
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa" into a linear RGBA vector.
type YAMLColor struct {
	mgl32.Vec4
	Set bool
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (float32, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return float32(v) / 255, err
	}

	var out mgl32.Vec4
	out[3] = 1
	channels := len(s) / 2
	for i := 0; i < channels; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return err
		}
		out[i] = v
	}

	c.Vec4 = out
	c.Set = true
	return nil
}
