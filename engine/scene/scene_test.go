package scene

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/compositor"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
)

func openDemo(t *testing.T, options ...SceneBuilderOption) Scene {
	t.Helper()
	s, err := Open(DemoName, nil, options...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestDemoAnimations(t *testing.T) {
	s := openDemo(t)
	labels := animation.Labels(s.Animations(), 25)
	want := []string{"None (Bind Pose)", "Walk (1.200s)", "Wave (2.000s)"}
	if strings.Join(labels, "|") != strings.Join(want, "|") {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
}

func TestDemoFitsOnGround(t *testing.T) {
	s := openDemo(t)
	b, _ := s.Model().Bounds()
	fit := fitMatrix(s.Model())
	lo := fit.Mul4x1([4]float32{b.Min[0], b.Min[1], b.Min[2], 1})
	hi := fit.Mul4x1([4]float32{b.Max[0], b.Max[1], b.Max[2], 1})
	if math.Abs(float64(lo[1])) > 1e-5 {
		t.Fatalf("lowest point at y=%v, want 0", lo[1])
	}
	if ext := max(hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2]); math.Abs(float64(ext-fitSize)) > 1e-4 {
		t.Fatalf("largest extent = %v, want %v", ext, fitSize)
	}
}

func TestRenderDrawsGridAxesAndSkeleton(t *testing.T) {
	s := openDemo(t)
	rec := gfx.NewRecorder(100, 100)
	s.Render(rec, compositor.View{}, nil)

	lines := rec.Filter(gfx.CmdDrawLines)
	// grid, three axes, bones, head box
	if len(lines) != 6 {
		t.Fatalf("line batches = %d, want 6", len(lines))
	}
	if lines[0].Color != GridColor || lines[0].Points != (4*defaultGridExtent+2)*2 {
		t.Fatalf("grid batch = %+v", lines[0])
	}
	if lines[4].Color != BoneColor || lines[4].Points != 2*(len(s.Model().Nodes())-1) {
		t.Fatalf("bone batch = %+v", lines[4])
	}
	if lines[5].Points != 24 {
		t.Fatalf("box batch has %d points, want 24", lines[5].Points)
	}
}

func TestRenderOptions(t *testing.T) {
	s := openDemo(t, WithGrid(false), WithMeshBounds(false))
	rec := gfx.NewRecorder(100, 100)
	s.Render(rec, compositor.View{}, nil)
	if n := rec.Count(gfx.CmdDrawLines); n != 4 {
		t.Fatalf("line batches = %d, want axes and bones only", n)
	}
}

func TestSetPoseMovesSkeleton(t *testing.T) {
	s := openDemo(t)
	rec := gfx.NewRecorder(100, 100)

	s.Render(rec, compositor.View{}, nil)
	rest := append([][3]float32(nil), s.(*scene).boneLines...)

	s.SetPose(0, 0.3)
	if c, sec := s.Pose(); c != 0 || sec != 0.3 {
		t.Fatalf("pose = %d, %v", c, sec)
	}
	s.Render(rec, compositor.View{}, nil)
	moved := s.(*scene).boneLines
	same := true
	for i := range rest {
		if rest[i] != moved[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("walk pose equals the rest pose")
	}
}

func TestOpenUnknownScene(t *testing.T) {
	_, err := Open("teapot", loader.NewLoader())
	if err == nil || !strings.Contains(err.Error(), "unknown scene") {
		t.Fatalf("err = %v", err)
	}
}

func TestOpenAsyncPostsResult(t *testing.T) {
	queue := make(chan func(), 1)
	d := animation.DispatcherFunc(func(fn func()) bool {
		queue <- fn
		return true
	})

	var got Scene
	var gotErr error
	OpenAsync(DemoName, nil, d, func(s Scene, err error) { got, gotErr = s, err })

	select {
	case fn := <-queue:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("no result posted")
	}
	if gotErr != nil || got == nil || got.Name() != DemoName {
		t.Fatalf("result = %v, %v", got, gotErr)
	}
}
