package hud

import (
	"image"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/assets"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

var iconSize = image.Pt(36, 36)

func TestGeometrySingleView(t *testing.T) {
	g, ok := ComputeGeometry(common.FullBounds, image.Pt(800, 600), iconSize, false)
	if !ok {
		t.Fatal("bar did not fit")
	}
	if want := image.Rect(607, 0, 801, 27); g.Region != want {
		t.Fatalf("region = %v, want %v", g.Region, want)
	}
	for i, b := range g.Buttons {
		x := 609 + i*36
		if want := image.Rect(x, 4, x+24, 28); b != want {
			t.Errorf("button %d = %v, want %v", i, b, want)
		}
	}
}

func TestGeometryMultiViewPadding(t *testing.T) {
	b := common.Bounds{X0: 0, Y0: 0.5, X1: 0.5, Y1: 1}
	g, ok := ComputeGeometry(b, image.Pt(800, 600), iconSize, true)
	if !ok {
		t.Fatal("bar did not fit")
	}
	if want := image.Rect(204, 3, 398, 30); g.Region != want {
		t.Fatalf("region = %v, want %v", g.Region, want)
	}
}

func TestGeometrySkipsNarrowViewport(t *testing.T) {
	b := common.Bounds{X0: 0, Y0: 0, X1: 0.2, Y1: 1}
	if _, ok := ComputeGeometry(b, image.Pt(800, 600), iconSize, true); ok {
		t.Fatal("bar laid out in a 160px wide viewport")
	}
	b = common.Bounds{X0: 0, Y0: 0.97, X1: 1, Y1: 1}
	if _, ok := ComputeGeometry(b, image.Pt(800, 600), iconSize, false); ok {
		t.Fatal("bar laid out in an 18px tall viewport")
	}
}

func TestButtonHitBoundaries(t *testing.T) {
	g, _ := ComputeGeometry(common.FullBounds, image.Pt(800, 600), iconSize, false)
	for i, b := range g.Buttons {
		if _, ok := g.ButtonAt(b.Min); ok {
			t.Errorf("button %d: top-left corner hit", i)
		}
		m, ok := g.ButtonAt(b.Max)
		if !ok || m != camera.Mode(i) {
			t.Errorf("button %d: bottom-right corner = %v, %v", i, m, ok)
		}
		if m, ok := g.ButtonAt(b.Min.Add(image.Pt(1, 1))); !ok || m != camera.Mode(i) {
			t.Errorf("button %d: inner corner = %v, %v", i, m, ok)
		}
	}
	// The gap between two buttons belongs to neither.
	if _, ok := g.ButtonAt(image.Pt(g.Buttons[0].Max.X+1, 10)); ok {
		t.Fatal("gap between buttons hit")
	}
}

func TestClickQueueConsumesOnResolve(t *testing.T) {
	var q ClickQueue
	miss := func(image.Point) (camera.Mode, bool) { return 0, false }
	hit := func(image.Point) (camera.Mode, bool) { return camera.ModeOrbit, true }

	if _, ok := q.ResolvePendingClick(hit); ok {
		t.Fatal("resolved without a click")
	}
	q.RecordClick(image.Pt(1, 1))
	if _, ok := q.ResolvePendingClick(miss); ok || q.Pending() {
		t.Fatal("missed click not consumed")
	}
	q.RecordClick(image.Pt(1, 1))
	if m, ok := q.ResolvePendingClick(hit); !ok || m != camera.ModeOrbit {
		t.Fatalf("resolve = %v, %v", m, ok)
	}
	if q.Pending() {
		t.Fatal("click still pending")
	}
}

func TestCompositeCache(t *testing.T) {
	var c CompositeCache
	k := CompositeKey{Viewport: 1, Bounds: common.FullBounds, HoverButton: -1}
	if !c.NeedsComposite(k) {
		t.Fatal("empty cache reported fresh")
	}
	c.Commit(k)
	if c.NeedsComposite(k) {
		t.Fatal("same key needs composite")
	}
	k2 := k
	k2.Mode = camera.ModeFirstPerson
	if !c.NeedsComposite(k2) {
		t.Fatal("changed mode not detected")
	}
	c.Invalidate()
	if !c.NeedsComposite(k) {
		t.Fatal("invalidated cache reported fresh")
	}
}

func newTestHUD(t *testing.T, options ...ControllerBuilderOption) Controller {
	t.Helper()
	lib, err := assets.NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return NewController(lib, options...)
}

func TestStableFramesReuseComposite(t *testing.T) {
	h := newTestHUD(t, WithFadeDuration(0))
	l := viewport.NewLayout()
	rec := gfx.NewRecorder(800, 600)

	for frame := 0; frame < 3; frame++ {
		_ = rec.BeginFrame()
		if err := h.Draw(rec, l); err != nil {
			t.Fatalf("Draw: %v", err)
		}
		if rec.Count(gfx.CmdDrawImage) != 1 {
			t.Fatalf("frame %d: %d image draws", frame, rec.Count(gfx.CmdDrawImage))
		}
	}
	if rec.Uploads[TextureKey] != 1 {
		t.Fatalf("uploads = %d, want 1", rec.Uploads[TextureKey])
	}

	// An external mode change invalidates the composite.
	_ = l.SwitchCameraMode(0, camera.ModeFirstPerson)
	_ = h.Draw(rec, l)
	if rec.Uploads[TextureKey] != 2 {
		t.Fatalf("uploads after mode change = %d, want 2", rec.Uploads[TextureKey])
	}
}

func TestActiveFlipRecomposites(t *testing.T) {
	h := newTestHUD(t, WithFadeDuration(0))
	l := viewport.NewLayout(viewport.WithViewMode(viewport.ViewModeTwo))
	rec := gfx.NewRecorder(800, 600)
	h.OnMouseMove(image.Pt(600, 300), 1)

	_ = h.Draw(rec, l)
	_ = h.Draw(rec, l)
	if rec.Uploads[TextureKey] != 1 {
		t.Fatalf("uploads = %d, want 1", rec.Uploads[TextureKey])
	}
	_ = l.SetActive(1)
	_ = h.Draw(rec, l)
	if rec.Uploads[TextureKey] != 2 {
		t.Fatalf("uploads after activation = %d, want 2", rec.Uploads[TextureKey])
	}
}

func TestFadeInAfterViewportChange(t *testing.T) {
	h := newTestHUD(t)
	l := viewport.NewLayout(viewport.WithViewMode(viewport.ViewModeFour))
	rec := gfx.NewRecorder(800, 600)

	h.OnMouseMove(image.Pt(100, 100), 0)
	h.OnMouseMove(image.Pt(700, 100), 1)
	if h.HoveredViewport() != 1 {
		t.Fatalf("hovered = %d, want 1", h.HoveredViewport())
	}
	if h.FadeAlpha() != 0 {
		t.Fatalf("alpha right after entering = %v, want 0", h.FadeAlpha())
	}

	h.Update(0.1)
	if a := h.FadeAlpha(); a < 0.49 || a > 0.51 {
		t.Fatalf("alpha halfway = %v", a)
	}
	_ = h.Draw(rec, l)

	h.Update(0.15)
	if h.FadeAlpha() != 1 {
		t.Fatalf("alpha after fade = %v, want 1", h.FadeAlpha())
	}
	if !h.Dirty() {
		t.Fatal("last fade step not marked dirty")
	}
	_ = h.Draw(rec, l)
	uploads := rec.Uploads[TextureKey]

	h.Update(0.016)
	if h.Dirty() {
		t.Fatal("dirty after the fade settled")
	}
	_ = h.Draw(rec, l)
	if rec.Uploads[TextureKey] != uploads {
		t.Fatal("stable frame rebuilt the composite")
	}
}

func TestClickSwitchesHoveredViewportMode(t *testing.T) {
	h := newTestHUD(t, WithFadeDuration(0))
	l := viewport.NewLayout()
	rec := gfx.NewRecorder(800, 600)
	_ = h.Draw(rec, l)

	if h.OnMouseDown(image.Pt(100, 300)) {
		t.Fatal("click far from the bar was taken")
	}

	p := image.Pt(620, 15)
	h.OnMouseMove(p, 0)
	if !h.OnMouseDown(p) {
		t.Fatal("click on the bar was not taken")
	}
	if l.CameraMode(0) != camera.ModeOrbit {
		t.Fatal("mode switched before the next draw")
	}
	_ = h.Draw(rec, l)
	if l.CameraMode(0) != camera.ModeAxisLockX {
		t.Fatalf("mode = %v, want x", l.CameraMode(0))
	}
}

func TestHiddenUntilPointerMoves(t *testing.T) {
	h := newTestHUD(t)
	l := viewport.NewLayout()
	rec := gfx.NewRecorder(800, 600)

	h.Hide()
	_ = h.Draw(rec, l)
	if len(rec.Commands) != 0 {
		t.Fatalf("hidden HUD recorded %d commands", len(rec.Commands))
	}
	h.OnMouseMove(image.Pt(10, 10), 0)
	if h.Hidden() {
		t.Fatal("still hidden after a pointer move")
	}
	_ = h.Draw(rec, l)
	if rec.Count(gfx.CmdDrawImage) != 1 {
		t.Fatal("HUD not drawn after reappearing")
	}
}

func TestDisabledHoveredSlotDrawsNothing(t *testing.T) {
	h := newTestHUD(t)
	l := viewport.NewLayout(viewport.WithViewMode(viewport.ViewModeFour))
	rec := gfx.NewRecorder(800, 600)
	h.OnMouseMove(image.Pt(700, 500), 3)
	l.SetViewMode(viewport.ViewModeSingle)

	_ = h.Draw(rec, l)
	if len(rec.Commands) != 0 {
		t.Fatalf("recorded %d commands for a disabled slot", len(rec.Commands))
	}
}

func TestFirstEntryFadesIn(t *testing.T) {
	h := newTestHUD(t)
	h.OnMouseMove(image.Pt(100, 100), 0)
	if h.FadeAlpha() != 0 {
		t.Fatalf("alpha after first entry = %v, want 0", h.FadeAlpha())
	}
	h.Update(0.1)
	h.OnMouseMove(image.Pt(120, 110), 0)
	if a := h.FadeAlpha(); a < 0.49 || a > 0.51 {
		t.Fatalf("moving inside the same viewport restarted the fade: alpha = %v", a)
	}
}

// buttonPixels copies the pixels of r out of the last uploaded composite.
func buttonPixels(t *testing.T, rec *gfx.Recorder, r image.Rectangle) []byte {
	t.Helper()
	img := rec.Images[TextureKey]
	if img == nil {
		t.Fatal("no composite uploaded")
	}
	var out []byte
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := img.PixOffset(r.Min.X, y)
		out = append(out, img.Pix[start:start+4*r.Dx()]...)
	}
	return out
}

func TestButtonCornersRenderStates(t *testing.T) {
	h := newTestHUD(t, WithFadeDuration(0))
	l := viewport.NewLayout()
	rec := gfx.NewRecorder(800, 600)
	g, _ := ComputeGeometry(common.FullBounds, image.Pt(800, 600), iconSize, false)

	render := func(p image.Point, b image.Rectangle) []byte {
		h.OnMouseMove(p, 0)
		if err := h.Draw(rec, l); err != nil {
			t.Fatalf("Draw: %v", err)
		}
		return buttonPixels(t, rec, b)
	}

	selected := int(l.CameraMode(0))
	for i, b := range g.Buttons {
		idle := render(image.Pt(10, 300), b)
		hover := render(b.Min.Add(image.Pt(1, 1)), b)
		if i == selected && string(hover) != string(idle) {
			t.Errorf("button %d: selected button changed under the pointer", i)
		}
		if i != selected && string(hover) == string(idle) {
			t.Errorf("button %d: hover state looks like the normal state", i)
		}

		if got := render(b.Min, b); string(got) != string(idle) {
			t.Errorf("button %d: top-left corner did not render the idle state", i)
		}
		if got := render(b.Max, b); string(got) != string(hover) {
			t.Errorf("button %d: bottom-right corner did not render the hover state", i)
		}
	}
}
