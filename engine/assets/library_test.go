package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

func TestBuiltInIcons(t *testing.T) {
	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	for _, m := range camera.Modes() {
		for s := IconNormal; s < iconStateCount; s++ {
			img := lib.Icon(m, s)
			if img == nil {
				t.Fatalf("icon %s/%s missing", m, s)
			}
			if img.Bounds().Size() != lib.IconSize() {
				t.Fatalf("icon %s/%s size = %v", m, s, img.Bounds().Size())
			}
		}
		if samePixels(lib.Icon(m, IconNormal), lib.Icon(m, IconSelected)) {
			t.Errorf("icon %s: selected variant equals normal", m)
		}
		if samePixels(lib.Icon(m, IconNormal), lib.Icon(m, IconHover)) {
			t.Errorf("icon %s: hover variant equals normal", m)
		}
	}
	if lib.Icon(camera.Mode(42), IconNormal) != nil {
		t.Fatal("unknown mode returned an icon")
	}
}

func TestBarIsTranslucent(t *testing.T) {
	lib, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	bar := lib.Bar()
	if bar.Bounds().Dx() != BarWidth || bar.Bounds().Dy() != BarHeight {
		t.Fatalf("bar size = %v", bar.Bounds())
	}
	if a := bar.RGBAAt(10, 10).A; a != 100 {
		t.Fatalf("bar alpha = %d, want 100", a)
	}
}

func TestOverrideDerivesMissingVariants(t *testing.T) {
	dir := t.TempDir()
	src := image.NewRGBA(image.Rect(0, 0, 72, 72))
	for i := range src.Pix {
		src.Pix[i] = 128
	}
	writePNG(t, filepath.Join(dir, "hud_axis_x_normal.png"), src)

	lib, err := NewLibrary(WithOverrideDir(dir))
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	normal := lib.Icon(camera.ModeAxisLockX, IconNormal)
	if normal.Bounds().Size() != image.Pt(IconSize, IconSize) {
		t.Fatalf("override not scaled: %v", normal.Bounds())
	}
	if got := normal.RGBAAt(IconSize/2, IconSize/2); !near(got, color.RGBA{R: 128, G: 128, B: 128, A: 128}, 2) {
		t.Fatalf("override pixel = %v", got)
	}
	if lib.Icon(camera.ModeAxisLockX, IconHover) == nil || lib.Icon(camera.ModeAxisLockX, IconSelected) == nil {
		t.Fatal("variants not derived")
	}
}

func TestCorruptOverrideFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hud_bar.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLibrary(WithOverrideDir(dir)); err == nil {
		t.Fatal("corrupt override accepted")
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func near(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) bool { return int(x)-int(y) <= tol && int(y)-int(x) <= tol }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func samePixels(a, b *image.RGBA) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
