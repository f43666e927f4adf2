// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// Bounds is a normalized sub-rectangle of the render surface.
// Coordinates are in [0, 1] with the origin at the bottom-left corner of the surface,
// so Y0 is the bottom edge and Y1 the top edge.
type Bounds struct {
	X0, Y0, X1, Y1 float64
}

// FullBounds covers the whole render surface.
var FullBounds = Bounds{X0: 0, Y0: 0, X1: 1, Y1: 1}

// Width returns the normalized width of the bounds.
func (b Bounds) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the normalized height of the bounds.
func (b Bounds) Height() float64 {
	return b.Y1 - b.Y0
}

// PixelRect converts normalized bounds to a pixel rectangle for a surface of the given resolution.
// Every component is truncated towards zero, matching how the viewport is handed to the graphics API.
// The returned rectangle keeps the bottom-left origin.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - PixelRect: the truncated pixel rectangle
func (b Bounds) PixelRect(width, height int) PixelRect {
	w := float64(width)
	h := float64(height)
	return PixelRect{
		X: int(b.X0 * w),
		Y: int(b.Y0 * h),
		W: int((b.X1 - b.X0) * w),
		H: int((b.Y1 - b.Y0) * h),
	}
}

// ContainsWindowPoint reports whether a window-space point (top-left origin, pixels) falls inside the bounds.
//
// Parameters:
//   - p: the point in window pixels
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - bool: true if the point lies within the bounds
func (b Bounds) ContainsWindowPoint(p image.Point, width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	nx := float64(p.X) / float64(width)
	ny := 1.0 - float64(p.Y)/float64(height)
	return nx >= b.X0 && nx < b.X1 && ny > b.Y0 && ny <= b.Y1
}

// PixelRect is an integer rectangle given by its origin and size.
type PixelRect struct {
	X, Y, W, H int
}

// Right returns X + W.
func (r PixelRect) Right() int {
	return r.X + r.W
}

// Bottom returns Y + H.
func (r PixelRect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r PixelRect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether p lies in (X, X+W] × (Y, Y+H].
// The lower bound is open and the upper bound closed, so two rectangles that share an edge
// never both claim a point on it and never leave a gap between them.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - bool: true if the point is inside
func (r PixelRect) Contains(p image.Point) bool {
	return p.X > r.X && p.X <= r.X+r.W && p.Y > r.Y && p.Y <= r.Y+r.H
}

// Rectangle converts r to an image.Rectangle.
func (r PixelRect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// FlipY converts a rectangle between bottom-left and top-left origin conventions for a surface of the given height.
func (r PixelRect) FlipY(surfaceHeight int) PixelRect {
	return PixelRect{X: r.X, Y: surfaceHeight - r.Y - r.H, W: r.W, H: r.H}
}

// Color is an 8-bit RGBA color with straight (non-premultiplied) alpha.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ARGB returns a color from alpha-first components.
func ARGB(a, r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Float returns the color as normalized float32 components.
func (c Color) Float() [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

// NRGBA converts c to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// StagingFromRGBA copies an RGBA image into tightly packed staging data.
// Sub-images with a stride wider than their width are repacked row by row.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - TextureStagingData: the packed pixel data
func StagingFromRGBA(img *image.RGBA) TextureStagingData {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride == w*4 && b.Min == (image.Point{}) {
		return TextureStagingData{Pixels: img.Pix[:w*h*4], Width: uint32(w), Height: uint32(h)}
	}
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*w*4:(y+1)*w*4], img.Pix[off:off+w*4])
	}
	return TextureStagingData{Pixels: pix, Width: uint32(w), Height: uint32(h)}
}

// DecodeImageFile loads a PNG or JPEG file from disk into an RGBA image.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *image.RGBA: the decoded image
//   - error: error if the file cannot be opened or decoded
func DecodeImageFile(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image file %s: %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba, nil
}
