package compositor

import (
	"image"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/assets"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/hud"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

type fakeScene struct {
	views []View
}

func (s *fakeScene) Render(ctx gfx.Context, view View, ctrl camera.Controller) {
	s.views = append(s.views, view)
	ctx.DrawLines([][3]float32{{0, 0, 0}, {1, 0, 0}}, common.RGB(255, 0, 0))
}

type fixture struct {
	rec    *gfx.Recorder
	layout viewport.Layout
	hud    hud.Controller
	comp   Compositor
}

func newFixture(t *testing.T, mode viewport.ViewMode, options ...CompositorBuilderOption) *fixture {
	t.Helper()
	lib, err := assets.NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	f := &fixture{
		rec:    gfx.NewRecorder(800, 600),
		layout: viewport.NewLayout(viewport.WithViewMode(mode)),
		hud:    hud.NewController(lib, hud.WithFadeDuration(0)),
	}
	f.comp = NewCompositor(f.rec, f.layout, f.hud, lib, options...)
	t.Cleanup(f.comp.Close)
	return f
}

func (f *fixture) frame(t *testing.T, tab TabState) {
	t.Helper()
	_ = f.rec.BeginFrame()
	if err := f.comp.RenderFrame(tab); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	_ = f.rec.EndFrame()
}

func loaded(s Scene) TabState {
	return TabState{Status: TabLoaded, Scene: s}
}

func TestDrawOrderActiveLast(t *testing.T) {
	f := newFixture(t, viewport.ViewModeFour)
	if err := f.layout.SetActive(1); err != nil {
		t.Fatal(err)
	}
	s := &fakeScene{}
	f.frame(t, loaded(s))

	var got []int
	for _, v := range s.views {
		got = append(got, v.Index)
	}
	want := []int{0, 2, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("rendered %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rendered %v, want %v", got, want)
		}
	}
	if !s.views[3].Active || s.views[0].Active {
		t.Fatal("active flag not set on the active viewport only")
	}
}

func TestActiveViewportFilled(t *testing.T) {
	f := newFixture(t, viewport.ViewModeTwo)
	f.frame(t, loaded(&fakeScene{}))

	clears := f.rec.Filter(gfx.CmdClear)
	if len(clears) != 2 {
		t.Fatalf("clears = %d, want background and active fill", len(clears))
	}
	if clears[0].Color != BackgroundColor || clears[0].Flags != gfx.ClearColor|gfx.ClearDepth {
		t.Fatalf("background clear = %+v", clears[0])
	}
	if clears[1].Color != ActiveViewColor || clears[1].Viewport != f.layout.PixelRect(0, 800, 600) {
		t.Fatalf("active fill = %+v", clears[1])
	}
}

func TestContoursActiveLast(t *testing.T) {
	f := newFixture(t, viewport.ViewModeFour)
	_ = f.layout.SetActive(2)
	f.frame(t, loaded(&fakeScene{}))

	strokes := f.rec.Filter(gfx.CmdStrokeRect)
	if len(strokes) != 4 {
		t.Fatalf("contours = %d, want 4", len(strokes))
	}
	for _, s := range strokes[:3] {
		if s.LineWidth != borderWidth || s.Color != BorderColor || s.DepthTest {
			t.Fatalf("inactive contour = %+v", s)
		}
	}
	last := strokes[3]
	if last.LineWidth != activeBorderWidth || last.Color != ActiveBorderColor {
		t.Fatalf("active contour = %+v", last)
	}
	rect := f.layout.PixelRect(2, 800, 600)
	if last.Viewport != rect {
		t.Fatalf("active contour viewport = %v, want %v", last.Viewport, rect)
	}
	if want := image.Rect(2, 2, rect.W-2, rect.H-2); last.Rect != want {
		t.Fatalf("active contour rect = %v, want %v", last.Rect, want)
	}
}

func TestSingleViewHasNoContours(t *testing.T) {
	f := newFixture(t, viewport.ViewModeSingle)
	f.frame(t, loaded(&fakeScene{}))
	if n := f.rec.Count(gfx.CmdStrokeRect); n != 0 {
		t.Fatalf("contours = %d in single view", n)
	}
}

func TestSplashWithoutScene(t *testing.T) {
	f := newFixture(t, viewport.ViewModeFour)
	f.frame(t, TabState{Status: TabEmpty})

	if n := f.rec.Count(gfx.CmdStrokeRect); n != 0 {
		t.Fatalf("contours drawn on the splash: %d", n)
	}
	if n := f.rec.Count(gfx.CmdSetTransform); n != 0 {
		t.Fatalf("scene transforms set on the splash: %d", n)
	}
	draws := f.rec.Filter(gfx.CmdDrawImage)
	if len(draws) != 1 || draws[0].Key != splashTitleKey {
		t.Fatalf("splash draws = %+v", draws)
	}
	if f.rec.Uploads[hud.TextureKey] != 0 {
		t.Fatal("HUD composed without a scene")
	}

	f.frame(t, TabState{Status: TabLoading})
	if f.rec.Uploads[splashTitleKey] != 2 {
		t.Fatalf("title uploads = %d, want 2", f.rec.Uploads[splashTitleKey])
	}
}

func TestFailureSplash(t *testing.T) {
	f := newFixture(t, viewport.ViewModeSingle)
	f.frame(t, TabState{Status: TabFailed, ErrorMessage: "unexpected end of file"})

	keys := map[string]gfx.Command{}
	for _, d := range f.rec.Filter(gfx.CmdDrawImage) {
		keys[d.Key] = d
	}
	for _, k := range []string{splashIconKey, splashTitleKey, splashDetailKey} {
		if _, ok := keys[k]; !ok {
			t.Fatalf("failure splash missing %s", k)
		}
	}
	icon := keys[splashIconKey].Rect
	if icon.Max.Y != 300-splashIconOffset {
		t.Fatalf("icon bottom = %d, want %d", icon.Max.Y, 300-splashIconOffset)
	}
	if c := (icon.Min.X + icon.Max.X) / 2; c != 400 {
		t.Fatalf("icon center x = %d", c)
	}
	if keys[splashDetailKey].Rect.Min.Y <= keys[splashTitleKey].Rect.Max.Y {
		t.Fatal("detail line not below the title")
	}
	if f.rec.Images[splashDetailKey].Bounds().Dx() <= gfx.TextSize(failureDetailText).X {
		t.Fatal("detail line does not include the importer message")
	}
}

func TestExtraDrawJobRunsOnce(t *testing.T) {
	f := newFixture(t, viewport.ViewModeSingle)
	runs := 0
	f.comp.RegisterExtraDrawJob(func(ctx gfx.Context) {
		runs++
		ctx.FillRect(image.Rect(0, 0, 10, 10), common.RGB(0, 0, 255))
	})

	f.frame(t, loaded(&fakeScene{}))
	f.frame(t, loaded(&fakeScene{}))
	if runs != 1 {
		t.Fatalf("job ran %d times, want 1", runs)
	}
}

func TestExtraDrawJobRegisteredDuringJobRunsNextFrame(t *testing.T) {
	f := newFixture(t, viewport.ViewModeSingle)
	var order []string
	f.comp.RegisterExtraDrawJob(func(gfx.Context) {
		order = append(order, "first")
		f.comp.RegisterExtraDrawJob(func(gfx.Context) { order = append(order, "second") })
	})

	f.frame(t, TabState{})
	if strings.Join(order, ",") != "first" {
		t.Fatalf("after frame 1: %v", order)
	}
	f.frame(t, TabState{})
	if strings.Join(order, ",") != "first,second" {
		t.Fatalf("after frame 2: %v", order)
	}
}

func TestFPSThrottle(t *testing.T) {
	f := newFixture(t, viewport.ViewModeSingle, WithShowFPS(true))
	s := &fakeScene{}

	for i := 0; i < 3; i++ {
		f.comp.Update(0.1)
		f.frame(t, loaded(s))
	}
	if f.comp.DisplayedFPS() != 0 {
		t.Fatalf("fps refreshed early: %v", f.comp.DisplayedFPS())
	}
	f.comp.Update(0.1)
	f.frame(t, loaded(s))
	if got := f.comp.DisplayedFPS(); math.Abs(got-10) > 1e-9 {
		t.Fatalf("fps = %v, want 10", got)
	}
	if f.rec.Uploads[fpsKey] != 2 {
		t.Fatalf("fps label uploads = %d, want 2", f.rec.Uploads[fpsKey])
	}
	draws := f.rec.Filter(gfx.CmdDrawImage)
	if draws[0].Key != fpsKey || draws[0].Rect.Min != image.Pt(5, 5) {
		t.Fatalf("fps label draw = %+v", draws[0])
	}
}

func TestFPSHidden(t *testing.T) {
	f := newFixture(t, viewport.ViewModeSingle)
	f.comp.Update(1)
	f.frame(t, loaded(&fakeScene{}))
	if f.rec.Uploads[fpsKey] != 0 {
		t.Fatal("fps label drawn while hidden")
	}
	f.comp.SetShowFPS(true)
	if !f.comp.ShowFPS() {
		t.Fatal("ShowFPS = false after enabling")
	}
}

func TestSplitterDragHidesHUD(t *testing.T) {
	f := newFixture(t, viewport.ViewModeTwo)
	f.frame(t, loaded(&fakeScene{}))
	if f.rec.Uploads[hud.TextureKey] == 0 {
		t.Fatal("HUD not drawn")
	}

	if !f.layout.BeginSplitterDrag(image.Pt(400, 300), 800, 600) {
		t.Fatal("splitter not grabbed")
	}
	f.frame(t, loaded(&fakeScene{}))
	if !f.hud.Hidden() {
		t.Fatal("HUD still visible during a splitter drag")
	}
	for _, d := range f.rec.Filter(gfx.CmdDrawImage) {
		if d.Key == hud.TextureKey {
			t.Fatal("HUD drawn during a splitter drag")
		}
	}
}

func TestCameraAspectFollowsViewport(t *testing.T) {
	for _, workers := range []int{0, 4} {
		f := newFixture(t, viewport.ViewModeFour, WithCameraWorkers(workers))
		s := &fakeScene{}
		f.frame(t, loaded(s))
		for _, v := range s.views {
			want := float32(v.Rect.W) / float32(v.Rect.H)
			if d := v.Camera.Aspect() - want; d > 1e-5 || d < -1e-5 {
				t.Fatalf("workers=%d viewport %d: aspect %v, want %v", workers, v.Index, v.Camera.Aspect(), want)
			}
		}
	}
}

func TestRectsFollowResize(t *testing.T) {
	f := newFixture(t, viewport.ViewModeTwo)
	s := &fakeScene{}
	f.frame(t, loaded(s))
	f.rec.Resize(1000, 500)
	s.views = nil
	f.frame(t, loaded(s))
	for _, v := range s.views {
		if want := f.layout.PixelRect(v.Index, 1000, 500); v.Rect != want {
			t.Fatalf("viewport %d rect = %v, want %v", v.Index, v.Rect, want)
		}
	}
}
