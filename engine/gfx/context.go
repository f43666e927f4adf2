// Package gfx is the immediate-mode drawing surface used by the compositor, the HUD and scenes.
// Pixel rectangles passed to SetViewport use the bottom-left origin of the render surface;
// rectangles passed to FillRect, StrokeRect and DrawImage are viewport-local with a top-left origin.
package gfx

import (
	"image"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// ClearFlags selects the buffers cleared by Context.Clear.
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
)

// Context is the drawing surface for one frame.
type Context interface {
	// Resolution returns the render surface size in pixels.
	//
	// Returns:
	//   - int: width
	//   - int: height
	Resolution() (int, int)

	// SetViewport restricts drawing to r (bottom-left origin).
	//
	// Parameters:
	//   - r: the viewport rectangle in surface pixels
	SetViewport(r common.PixelRect)

	// Viewport returns the current viewport.
	//
	// Returns:
	//   - common.PixelRect: the viewport rectangle
	Viewport() common.PixelRect

	// Clear fills the current viewport.
	//
	// Parameters:
	//   - c: the clear color (used with ClearColor)
	//   - flags: buffers to clear
	Clear(c common.Color, flags ClearFlags)

	// SetTransform sets the world-to-clip matrix applied by DrawLines.
	//
	// Parameters:
	//   - viewProjection: column-major 4x4 matrix
	SetTransform(viewProjection [16]float32)

	// SetDepthTest toggles depth testing for subsequent 3D draws.
	//
	// Parameters:
	//   - enabled: true to depth test
	SetDepthTest(enabled bool)

	// DrawLines draws independent segments; points are consumed in pairs.
	//
	// Parameters:
	//   - points: world-space segment endpoints
	//   - c: line color
	DrawLines(points [][3]float32, c common.Color)

	// FillRect fills a viewport-local rectangle.
	//
	// Parameters:
	//   - r: rectangle in viewport pixels, top-left origin
	//   - c: fill color
	FillRect(r image.Rectangle, c common.Color)

	// StrokeRect outlines a viewport-local rectangle. The stroke is centered on r's edges.
	//
	// Parameters:
	//   - r: rectangle in viewport pixels, top-left origin
	//   - lineWidth: stroke width in pixels
	//   - c: stroke color
	StrokeRect(r image.Rectangle, lineWidth float32, c common.Color)

	// UploadImage stores img under key, replacing any previous image with that key.
	//
	// Parameters:
	//   - key: image name
	//   - img: the pixels
	//
	// Returns:
	//   - error: error if the upload failed
	UploadImage(key string, img *image.RGBA) error

	// DrawImage draws a previously uploaded image into a viewport-local rectangle.
	//
	// Parameters:
	//   - key: image name
	//   - r: destination rectangle in viewport pixels, top-left origin
	//   - alpha: global opacity in [0, 1]
	DrawImage(key string, r image.Rectangle, alpha float32)
}

// Device is a Context that also owns the frame lifecycle.
type Device interface {
	Context

	// BeginFrame starts recording a frame. The viewport is reset to the full surface.
	//
	// Returns:
	//   - error: error if the frame could not be started
	BeginFrame() error

	// EndFrame submits and presents the recorded frame.
	//
	// Returns:
	//   - error: error if submission failed
	EndFrame() error

	// Resize reconfigures the surface.
	//
	// Parameters:
	//   - width, height: new size in pixels
	Resize(width, height int)

	// Release frees all resources held by the device.
	Release()
}

// strokeRects splits an outline centered on r's edges into four filled rectangles.
func strokeRects(r image.Rectangle, lineWidth float32) [4]image.Rectangle {
	lw := int(lineWidth + 0.5)
	if lw < 1 {
		lw = 1
	}
	lo := lw / 2
	hi := lw - lo
	return [4]image.Rectangle{
		image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Min.Y+hi), // top
		image.Rect(r.Min.X-lo, r.Max.Y-lo, r.Max.X+hi, r.Max.Y+hi), // bottom
		image.Rect(r.Min.X-lo, r.Min.Y+hi, r.Min.X+hi, r.Max.Y-lo), // left
		image.Rect(r.Max.X-lo, r.Min.Y+hi, r.Max.X+hi, r.Max.Y-lo), // right
	}
}
