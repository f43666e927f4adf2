package gfx

import (
	"image"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

func TestRecorderCapturesViewportPerCommand(t *testing.T) {
	r := NewRecorder(800, 600)
	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	vp := common.PixelRect{X: 400, Y: 0, W: 400, H: 300}
	r.SetViewport(vp)
	r.Clear(common.RGB(1, 2, 3), ClearColor|ClearDepth)
	r.FillRect(image.Rect(0, 0, 10, 10), common.RGB(255, 0, 0))

	clears := r.Filter(CmdClear)
	if len(clears) != 1 || clears[0].Viewport != vp || clears[0].Flags != ClearColor|ClearDepth {
		t.Fatalf("clear commands = %+v", clears)
	}
	if got := r.Filter(CmdFillRect)[0].Viewport; got != vp {
		t.Fatalf("fill viewport = %+v, want %+v", got, vp)
	}
}

func TestRecorderBeginFrameResets(t *testing.T) {
	r := NewRecorder(100, 100)
	_ = r.BeginFrame()
	r.SetViewport(common.PixelRect{W: 10, H: 10})
	r.DrawLines(make([][3]float32, 4), common.RGB(0, 0, 0))
	_ = r.EndFrame()

	_ = r.BeginFrame()
	if len(r.Commands) != 0 {
		t.Fatalf("commands not reset: %d", len(r.Commands))
	}
	if r.Viewport() != (common.PixelRect{W: 100, H: 100}) {
		t.Fatalf("viewport not reset: %+v", r.Viewport())
	}
	if r.Frames != 1 {
		t.Fatalf("Frames = %d, want 1", r.Frames)
	}
}

func TestRecorderCountsUploads(t *testing.T) {
	r := NewRecorder(100, 100)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 3; i++ {
		if err := r.UploadImage("hud", img); err != nil {
			t.Fatalf("UploadImage: %v", err)
		}
	}
	if r.Uploads["hud"] != 3 {
		t.Fatalf("Uploads = %d, want 3", r.Uploads["hud"])
	}
	if err := r.UploadImage("nil", nil); err == nil {
		t.Fatal("nil upload succeeded")
	}
}

func TestDrawLinesRecordsDepthState(t *testing.T) {
	r := NewRecorder(100, 100)
	r.SetDepthTest(true)
	r.DrawLines(make([][3]float32, 2), common.RGB(0, 0, 0))
	r.SetDepthTest(false)
	r.StrokeRect(image.Rect(0, 0, 5, 5), 3, common.RGB(0, 0, 0))

	if !r.Filter(CmdDrawLines)[0].DepthTest {
		t.Fatal("lines recorded without depth test")
	}
	if s := r.Filter(CmdStrokeRect)[0]; s.DepthTest || s.LineWidth != 3 {
		t.Fatalf("stroke = %+v", s)
	}
}

func TestStrokeRectsCenterOnEdges(t *testing.T) {
	edges := strokeRects(image.Rect(10, 10, 50, 30), 4)
	if edges[0] != image.Rect(8, 8, 52, 12) {
		t.Fatalf("top edge = %v", edges[0])
	}
	if edges[3] != image.Rect(48, 12, 52, 28) {
		t.Fatalf("right edge = %v", edges[3])
	}
}

func TestSampleCountForLevel(t *testing.T) {
	want := []MSAASampleCount{MSAAOff, MSAA4x, MSAA8x, MSAA16x}
	for level, w := range want {
		got, err := SampleCountForLevel(level)
		if err != nil || got != w {
			t.Errorf("SampleCountForLevel(%d) = %v, %v", level, got, err)
		}
	}
	if _, err := SampleCountForLevel(4); err == nil {
		t.Fatal("level 4 accepted")
	}
}

func TestRasterizeTextHasInk(t *testing.T) {
	img := RasterizeText("FPS: 60.0", common.RGB(255, 0, 0), false)
	size := TextSize("FPS: 60.0")
	if img.Bounds().Size() != size {
		t.Fatalf("size = %v, want %v", img.Bounds().Size(), size)
	}
	ink := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			ink++
		}
	}
	if ink == 0 {
		t.Fatal("no glyph pixels drawn")
	}
	if TextSize("ab").X <= TextSize("a").X {
		t.Fatal("text width does not grow with length")
	}
}
