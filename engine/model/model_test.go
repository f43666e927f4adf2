package model

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func translated(x, y, z float32) Transform {
	t := IdentityTransform()
	t.Translation = [3]float32{x, y, z}
	return t
}

func origin(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

func near(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-4)
}

func newArm(t *testing.T) Model {
	t.Helper()
	turn := quatArray(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1}))
	m, err := NewModel(
		WithName("arm"),
		WithNodes(
			Node{Name: "root", Parent: -1, Rest: IdentityTransform()},
			Node{Name: "elbow", Parent: 0, Rest: translated(1, 0, 0)},
			Node{Name: "hand", Parent: 1, Rest: translated(1, 0, 0), Bounds: &AABB{Min: [3]float32{0, 0, 0}, Max: [3]float32{0.5, 0.5, 0.5}}},
		),
		WithClips(Clip{
			Name:     "Raise",
			Duration: 2,
			Channels: []Channel{{
				Node: 0,
				RotationKeys: []QuaternionKeyframe{
					{Time: 0, Value: [4]float32{0, 0, 0, 1}},
					{Time: 2, Value: turn},
				},
			}, {
				Node: 1,
				PositionKeys: []VectorKeyframe{
					{Time: 0, Value: [3]float32{1, 0, 0}},
					{Time: 1, Value: [3]float32{2, 0, 0}},
				},
			}},
		}),
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func TestRestPose(t *testing.T) {
	m := newArm(t)
	pose := m.Pose(-1, 0)
	if !near(origin(pose[2]), mgl32.Vec3{2, 0, 0}) {
		t.Fatalf("hand at %v, want (2,0,0)", origin(pose[2]))
	}
}

func TestPoseInterpolatesAndClamps(t *testing.T) {
	m := newArm(t)

	mid := m.Pose(0, 0.5)
	if !near(origin(mid[1]), mgl32.Vec3{1.5 * float32(math.Cos(math.Pi/8)), 1.5 * float32(math.Sin(math.Pi/8)), 0}) {
		t.Fatalf("elbow at t=0.5: %v", origin(mid[1]))
	}

	end := m.Pose(0, 5)
	if !near(origin(end[2]), mgl32.Vec3{0, 3, 0}) {
		t.Fatalf("hand past the end: %v, want (0,3,0)", origin(end[2]))
	}

	start := m.Pose(0, -1)
	if !near(origin(start[2]), mgl32.Vec3{2, 0, 0}) {
		t.Fatalf("hand before the start: %v", origin(start[2]))
	}
}

func TestBoundsIncludeMeshBoxes(t *testing.T) {
	b, ok := newArm(t).Bounds()
	if !ok {
		t.Fatal("no bounds")
	}
	if b.Min != [3]float32{0, 0, 0} || b.Max != [3]float32{2.5, 0.5, 0.5} {
		t.Fatalf("bounds = %+v", b)
	}
}

func TestAnimationsReportSeconds(t *testing.T) {
	anims := newArm(t).Animations()
	if len(anims) != 1 || anims[0].Name() != "Raise" {
		t.Fatalf("animations = %v", anims)
	}
	if anims[0].DurationInTicks() != 2 || anims[0].TicksPerSecond() != 1 {
		t.Fatalf("duration = %v ticks at %v/s", anims[0].DurationInTicks(), anims[0].TicksPerSecond())
	}
}

func TestNewModelRejectsBadHierarchy(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		clips []Clip
	}{
		{"parent out of range", []Node{{Parent: 3}}, nil},
		{"self parent", []Node{{Parent: 0}}, nil},
		{"cycle", []Node{{Parent: -1}, {Parent: 2}, {Parent: 1}}, nil},
		{"channel out of range", []Node{{Parent: -1}}, []Clip{{Channels: []Channel{{Node: 1}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewModel(WithNodes(tt.nodes...), WithClips(tt.clips...)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
