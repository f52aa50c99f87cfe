package render

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spheredrop/gfx"
)

func TestMeshes(t *testing.T) {
	s := NewScene(Options{})

	sphere, err := s.CreateSphere("sphere", 2, 32)
	if err != nil {
		t.Fatal(err)
	}
	box, err := s.CreateBox("ground", 6, 0.1, 6)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		id   gfx.MeshID
		want gfx.Bounds
	}{
		{"sphere", sphere, gfx.Bounds{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}},
		{"box", box, gfx.Bounds{Min: mgl32.Vec3{-3, -0.05, -3}, Max: mgl32.Vec3{3, 0.05, 3}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := s.MeshBounds(tc.id)
			if err != nil {
				t.Fatal(err)
			}
			if !b.Min.ApproxEqual(tc.want.Min) || !b.Max.ApproxEqual(tc.want.Max) {
				t.Fatalf("bounds = %+v, want %+v", b, tc.want)
			}
		})
	}

	rot := mgl32.QuatRotate(0.3, mgl32.Vec3{0, 0, 1})
	if err := s.SetMeshTransform(sphere, mgl32.Vec3{1, 2, 3}, rot); err != nil {
		t.Fatal(err)
	}
	if m := s.meshes[sphere]; m.position != (mgl32.Vec3{1, 2, 3}) || !m.rotation.ApproxEqual(rot) {
		t.Fatalf("transform not stored: %+v", m)
	}
	if err := s.SetMeshShadows(sphere, true, false); err != nil || !s.meshes[sphere].castShadows {
		t.Fatalf("shadows not stored: %v", err)
	}

	if _, err := s.MeshBounds(99); !errors.Is(err, gfx.ErrUnknownMesh) {
		t.Fatalf("expected ErrUnknownMesh, got %v", err)
	}
	if err := s.SetMeshTransform(99, mgl32.Vec3{}, mgl32.QuatIdent()); !errors.Is(err, gfx.ErrUnknownMesh) {
		t.Fatalf("expected ErrUnknownMesh, got %v", err)
	}
	if _, err := s.CreateBox("flat", 1, 0, 1); err == nil {
		t.Fatalf("expected error for a degenerate box")
	}
}

func TestLineSystems(t *testing.T) {
	points := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}, {0, 1, 0}}
	colors := []mgl32.Vec4{{1, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}, {0, 1, 0, 1}}

	tests := []struct {
		name      string
		updatable bool
		update    []mgl32.Vec3
		want      error
	}{
		{"same_count", true, []mgl32.Vec3{{2, 2, 2}, {3, 3, 3}, {4, 4, 4}, {5, 5, 5}}, nil},
		{"count_changed", true, points[:2], gfx.ErrLineCountMismatch},
		{"not_updatable", false, points, gfx.ErrNotUpdatable},
		{"odd_points", true, points[:3], gfx.ErrInvalidLines},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScene(Options{})
			id, err := s.CreateLineSystem("linesystem", points, colors, tc.updatable)
			if err != nil {
				t.Fatal(err)
			}
			err = s.UpdateLineSystem(id, tc.update, colors[:len(tc.update)])
			if !errors.Is(err, tc.want) {
				t.Fatalf("update err = %v, want %v", err, tc.want)
			}
			ls := s.lineSystems[id]
			if len(ls.points) != len(points) {
				t.Fatalf("segment count changed to %d", len(ls.points)/2)
			}
			if tc.want == nil && ls.points[0] != tc.update[0] {
				t.Fatalf("points not replaced in place")
			}
		})
	}

	s := NewScene(Options{})
	if _, err := s.CreateLineSystem("bad", points, colors[:1], true); !errors.Is(err, gfx.ErrInvalidLines) {
		t.Fatalf("expected ErrInvalidLines, got %v", err)
	}
	id, _ := s.CreateLineSystem("linesystem", points, colors, true)
	if err := s.SetLineSystemVisible(id, false); err != nil || s.lineSystems[id].visible {
		t.Fatalf("visibility not applied: %v", err)
	}
	if err := s.SetLineSystemVisible(id+1, true); !errors.Is(err, gfx.ErrUnknownLineSystem) {
		t.Fatalf("expected ErrUnknownLineSystem, got %v", err)
	}
}
