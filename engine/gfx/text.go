package gfx

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// textFace is the bitmap face used for all overlay text.
var textFace font.Face = basicfont.Face7x13

// shadowOffsets are the four halo copies drawn behind shadowed text.
var shadowOffsets = [4]image.Point{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}

// shadowColor is the halo drawn behind shadowed text.
var shadowColor = color.NRGBA{R: 255, G: 255, B: 255, A: 50}

// TextSize returns the pixel size of s, including the one pixel halo margin on each side.
//
// Parameters:
//   - s: the text
//
// Returns:
//   - image.Point: width and height in pixels
func TextSize(s string) image.Point {
	m := textFace.Metrics()
	w := font.MeasureString(textFace, s).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	return image.Pt(w+2, h+2)
}

// DrawText draws s onto dst with its top-left corner at at.
//
// Parameters:
//   - dst: the destination image
//   - at: top-left corner of the text box
//   - s: the text
//   - c: the text color
//   - shadowed: draw a light halo behind the glyphs
func DrawText(dst draw.Image, at image.Point, s string, c common.Color, shadowed bool) {
	ascent := textFace.Metrics().Ascent.Ceil()
	origin := at.Add(image.Pt(1, 1+ascent))
	if shadowed {
		halo := image.NewUniform(shadowColor)
		for _, off := range shadowOffsets {
			drawString(dst, halo, origin.Add(off), s)
		}
	}
	drawString(dst, image.NewUniform(c.NRGBA()), origin, s)
}

// RasterizeText renders s into a new transparent image sized by TextSize.
//
// Parameters:
//   - s: the text
//   - c: the text color
//   - shadowed: draw a light halo behind the glyphs
//
// Returns:
//   - *image.RGBA: the rasterized text
func RasterizeText(s string, c common.Color, shadowed bool) *image.RGBA {
	size := TextSize(s)
	img := image.NewRGBA(image.Rectangle{Max: size})
	DrawText(img, image.Point{}, s, c, shadowed)
	return img
}

// ScaleImage resamples src into a new image of the given size.
//
// Parameters:
//   - src: the source image
//   - width, height: target size in pixels
//
// Returns:
//   - *image.RGBA: the scaled image
func ScaleImage(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func drawString(dst draw.Image, src image.Image, dot image.Point, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: textFace,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(s)
}
