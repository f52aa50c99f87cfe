package physics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/physics"
	"github.com/milk9111/spheredrop/physics/physicstest"
)

func TestCreateWorld(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		engine  physics.Engine
		cancel  bool
		wantErr error
	}{
		{"ready", &physicstest.Engine{}, false, nil},
		{"nil_engine", nil, false, physics.ErrEngineInit},
		{"ready_fails", &physicstest.Engine{ReadyErr: boom}, false, boom},
		{"cancelled_while_waiting", &physicstest.Engine{Block: true}, true, context.Canceled},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tc.cancel {
				cancel()
			}

			w, err := physics.CreateWorld(ctx, tc.engine, mgl32.Vec3{0, -9.81, 0})
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if w == nil {
					t.Fatalf("expected a world")
				}
				return
			}
			if !errors.Is(err, tc.wantErr) || !errors.Is(err, physics.ErrEngineInit) {
				t.Fatalf("expected %v wrapped in ErrEngineInit, got %v", tc.wantErr, err)
			}
			if w != nil {
				t.Fatalf("expected no world on failure")
			}
		})
	}
}

func TestParseDebugMode(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    physics.DebugMode
		wantErr bool
	}{
		{"empty_is_default", nil, physics.DebugWireframe, false},
		{"wireframe", []string{"wireframe"}, physics.DebugWireframe, false},
		{"combined", []string{"Wireframe", " contact_points "}, physics.DebugWireframe | physics.DebugContactPoints, false},
		{"constraints", []string{"constraints"}, physics.DebugConstraints, false},
		{"unknown", []string{"aabb"}, physics.DebugOff, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := physics.ParseDebugMode(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("mode = %b, want %b", got, tc.want)
			}
		})
	}

	if !physics.DebugWireframe.Has(physics.DebugWireframe) || physics.DebugWireframe.Has(physics.DebugOff) {
		t.Fatalf("Has should require non-empty set bits")
	}
}

func TestBodyDescValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    physics.BodyDesc
		wantErr bool
	}{
		{"sphere", physics.BodyDesc{Shape: physics.ShapeSphere, Radius: 1, Mass: 1}, false},
		{"static_box", physics.BodyDesc{Shape: physics.ShapeBox, HalfExtents: mgl32.Vec3{3, 0.05, 3}}, false},
		{"negative_mass", physics.BodyDesc{Shape: physics.ShapeSphere, Radius: 1, Mass: -1}, true},
		{"zero_radius", physics.BodyDesc{Shape: physics.ShapeSphere, Mass: 1}, true},
		{"flat_box", physics.BodyDesc{Shape: physics.ShapeBox, HalfExtents: mgl32.Vec3{1, 0, 1}}, true},
		{"unknown_shape", physics.BodyDesc{Shape: physics.ShapeKind(9), Mass: 1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.desc.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, physics.ErrInvalidBody) {
				t.Fatalf("expected ErrInvalidBody, got %v", err)
			}
		})
	}
}
