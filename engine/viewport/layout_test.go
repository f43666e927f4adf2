package viewport

import (
	"image"
	"reflect"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

func TestDrawOrderPutsActiveLast(t *testing.T) {
	l := NewLayout(WithViewMode(ViewModeFour))
	if err := l.SetActive(1); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if got, want := l.DrawOrder(), []int{0, 2, 3, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("DrawOrder = %v, want %v", got, want)
	}

	l.SetViewMode(ViewModeSingle)
	if got, want := l.DrawOrder(), []int{0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("DrawOrder = %v, want %v", got, want)
	}
}

func TestActiveFallsBackWhenSlotDisappears(t *testing.T) {
	l := NewLayout(WithViewMode(ViewModeFour))
	_ = l.SetActive(3)
	l.SetViewMode(ViewModeTwo)
	if l.ActiveIndex() != 0 {
		t.Fatalf("ActiveIndex = %d, want 0", l.ActiveIndex())
	}
	if l.Viewport(3) != nil {
		t.Fatal("disabled slot returned a viewport")
	}
	if err := l.SetActive(2); err == nil {
		t.Fatal("SetActive on a disabled slot succeeded")
	}
}

func TestFourWayBoundsPartitionSurface(t *testing.T) {
	l := NewLayout(WithViewMode(ViewModeFour))
	w, h := 801, 603

	counts := 0
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x += 7 {
			hits := 0
			for i := 0; i < MaxViewports; i++ {
				if l.ViewportBounds(i).ContainsWindowPoint(image.Pt(x, y), w, h) {
					hits++
				}
			}
			if hits != 1 {
				t.Fatalf("point (%d,%d) claimed by %d viewports", x, y, hits)
			}
			counts++
		}
	}
	if counts == 0 {
		t.Fatal("no points sampled")
	}
}

func TestFourWaySlotPositions(t *testing.T) {
	l := NewLayout(WithViewMode(ViewModeFour))
	want := [MaxViewports]common.Bounds{
		{X0: 0, Y0: 0.5, X1: 0.5, Y1: 1},
		{X0: 0.5, Y0: 0.5, X1: 1, Y1: 1},
		{X0: 0, Y0: 0, X1: 0.5, Y1: 0.5},
		{X0: 0.5, Y0: 0, X1: 1, Y1: 0.5},
	}
	for i := range want {
		if got := l.ViewportBounds(i); got != want[i] {
			t.Errorf("slot %d bounds = %+v, want %+v", i, got, want[i])
		}
	}

	// Window point near the top-left lands in slot 0.
	if i, ok := l.ViewportAt(image.Pt(10, 10), 800, 600); !ok || i != 0 {
		t.Fatalf("ViewportAt top-left = %d, %v", i, ok)
	}
	if i, ok := l.ViewportAt(image.Pt(790, 590), 800, 600); !ok || i != 3 {
		t.Fatalf("ViewportAt bottom-right = %d, %v", i, ok)
	}
}

func TestPixelRectUsesBottomLeftOrigin(t *testing.T) {
	l := NewLayout(WithViewMode(ViewModeFour))
	got := l.PixelRect(0, 800, 600)
	want := common.PixelRect{X: 0, Y: 300, W: 400, H: 300}
	if got != want {
		t.Fatalf("PixelRect = %+v, want %+v", got, want)
	}
}

func TestDefaultCameraModes(t *testing.T) {
	l := NewLayout(WithViewMode(ViewModeFour))
	want := []camera.Mode{camera.ModeOrbit, camera.ModeAxisLockX, camera.ModeAxisLockY, camera.ModeAxisLockZ}
	for i, m := range want {
		if got := l.CameraMode(i); got != m {
			t.Errorf("slot %d mode = %v, want %v", i, got, m)
		}
	}
}

func TestControllersSurviveViewModeChanges(t *testing.T) {
	l := NewLayout(WithViewMode(ViewModeTwo))
	if err := l.SwitchCameraMode(1, camera.ModeFirstPerson); err != nil {
		t.Fatalf("SwitchCameraMode: %v", err)
	}
	ctrl := l.ActiveCameraController(1)

	l.SetViewMode(ViewModeSingle)
	if err := l.SwitchCameraMode(1, camera.ModeOrbit); err == nil {
		t.Fatal("switching a disabled slot succeeded")
	}
	l.SetViewMode(ViewModeFour)
	if l.ActiveCameraController(1) != ctrl || l.CameraMode(1) != camera.ModeFirstPerson {
		t.Fatal("controller was not kept across view mode changes")
	}
	if l.Viewport(1).Camera().Controller() != ctrl {
		t.Fatal("camera not bound to the switched controller")
	}
}

func TestSplitterDrag(t *testing.T) {
	l := NewLayout(WithViewMode(ViewModeFour))
	w, h := 800, 600

	if l.BeginSplitterDrag(image.Pt(100, 100), w, h) {
		t.Fatal("grabbed a separator far from any")
	}
	if !l.BeginSplitterDrag(image.Pt(402, 100), w, h) {
		t.Fatal("missed the vertical separator")
	}
	l.DragSplitter(image.Pt(600, 50), w, h)
	if got := l.ViewportBounds(0).X1; got != 0.75 {
		t.Fatalf("split x = %v, want 0.75", got)
	}
	if got := l.ViewportBounds(0).Y0; got != 0.5 {
		t.Fatalf("horizontal separator moved to %v", got)
	}

	l.DragSplitter(image.Pt(799, 50), w, h)
	if got := l.ViewportBounds(1).X0; got != 0.9 {
		t.Fatalf("split x = %v, want clamped 0.9", got)
	}
	l.EndSplitterDrag()
	if l.IsDraggingSplitter() {
		t.Fatal("still dragging after EndSplitterDrag")
	}

	// The crossing point grabs both separators.
	if !l.BeginSplitterDrag(image.Pt(720, 300), w, h) {
		t.Fatal("missed the crossing point")
	}
	l.DragSplitter(image.Pt(400, 150), w, h)
	if b := l.ViewportBounds(3); b.X0 != 0.5 || b.Y1 != 0.75 {
		t.Fatalf("slot 3 bounds after crossing drag = %+v", b)
	}
}

func TestSingleViewHasNoSplitter(t *testing.T) {
	l := NewLayout()
	if l.BeginSplitterDrag(image.Pt(400, 300), 800, 600) {
		t.Fatal("single view grabbed a separator")
	}
	if l.IsMultiView() {
		t.Fatal("single view reported multi view")
	}
}

func TestParseViewMode(t *testing.T) {
	for _, m := range []ViewMode{ViewModeSingle, ViewModeTwo, ViewModeFour} {
		got, err := ParseViewMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseViewMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseViewMode("nine"); err == nil {
		t.Fatal("unknown view mode parsed")
	}
}
