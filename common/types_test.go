package common

import (
	"image"
	"testing"
)

func TestPixelRectContainsOpenLowClosedHigh(t *testing.T) {
	r := PixelRect{X: 10, Y: 20, W: 24, H: 24}

	cases := []struct {
		name string
		p    image.Point
		want bool
	}{
		{"top-left corner", image.Pt(10, 20), false},
		{"bottom-right corner", image.Pt(34, 44), true},
		{"left edge", image.Pt(10, 30), false},
		{"top edge", image.Pt(20, 20), false},
		{"right edge", image.Pt(34, 30), true},
		{"bottom edge", image.Pt(20, 44), true},
		{"inside", image.Pt(11, 21), true},
		{"past right", image.Pt(35, 30), false},
		{"past bottom", image.Pt(20, 45), false},
	}
	for _, tc := range cases {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tc.name, tc.p, got, tc.want)
		}
	}
}

func TestAdjacentPixelRectsShareNoPoint(t *testing.T) {
	a := PixelRect{X: 0, Y: 0, W: 10, H: 10}
	b := PixelRect{X: 10, Y: 0, W: 10, H: 10}
	for x := 0; x <= 20; x++ {
		p := image.Pt(x, 5)
		if a.Contains(p) && b.Contains(p) {
			t.Fatalf("point %v claimed by both rectangles", p)
		}
		if x > 0 && !a.Contains(p) && !b.Contains(p) {
			t.Fatalf("point %v falls into a gap", p)
		}
	}
}

func TestBoundsPixelRectTruncates(t *testing.T) {
	b := Bounds{X0: 0.5, Y0: 0, X1: 1, Y1: 0.5}
	got := b.PixelRect(1001, 601)
	want := PixelRect{X: 500, Y: 0, W: 500, H: 300}
	if got != want {
		t.Fatalf("PixelRect = %+v, want %+v", got, want)
	}
}

func TestBoundsContainsWindowPointFlipsY(t *testing.T) {
	top := Bounds{X0: 0, Y0: 0.5, X1: 1, Y1: 1}
	if !top.ContainsWindowPoint(image.Pt(10, 10), 100, 100) {
		t.Fatal("point near window top should be inside the upper half")
	}
	if top.ContainsWindowPoint(image.Pt(10, 90), 100, 100) {
		t.Fatal("point near window bottom should not be inside the upper half")
	}
}

func TestPixelRectFlipY(t *testing.T) {
	r := PixelRect{X: 0, Y: 0, W: 50, H: 40}
	got := r.FlipY(100)
	if got.Y != 60 {
		t.Fatalf("FlipY().Y = %d, want 60", got.Y)
	}
	if got.FlipY(100) != r {
		t.Fatal("FlipY should be its own inverse")
	}
}

func TestStagingFromSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Pix[img.PixOffset(1, 1)] = 200
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	st := StagingFromRGBA(sub)
	if st.Width != 2 || st.Height != 2 || len(st.Pixels) != 16 {
		t.Fatalf("unexpected staging size %dx%d len %d", st.Width, st.Height, len(st.Pixels))
	}
	if st.Pixels[0] != 200 {
		t.Fatalf("first pixel red = %d, want 200", st.Pixels[0])
	}
}
