package hud

import (
	"image"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

const (
	// ButtonCount is the number of mode buttons, one per camera mode.
	ButtonCount = 5

	buttonSpacing = 4
	regionHeight  = 27

	// borderPadding shifts the bar inwards when viewport contours are drawn.
	borderPadding = 3
	anchorOffsetX = 3
	buttonOffsetY = 4
)

// Geometry is the window-space layout of the HUD over one viewport.
// All rectangles use a top-left origin.
type Geometry struct {
	Region  image.Rectangle
	Buttons [ButtonCount]image.Rectangle
}

// ComputeGeometry lays out the HUD bar at the top-right corner of a viewport.
//
// Parameters:
//   - bounds: the viewport bounds
//   - resolution: the surface size in pixels
//   - iconSize: the size of the source icons; buttons are two thirds of it
//   - multiView: true when viewport contours are drawn
//
// Returns:
//   - Geometry: the layout
//   - bool: false if the bar does not fit inside the viewport
func ComputeGeometry(bounds common.Bounds, resolution image.Point, iconSize image.Point, multiView bool) (Geometry, bool) {
	w, h := float64(resolution.X), float64(resolution.Y)
	xPoint := anchorOffsetX + int(bounds.X1*w)
	yPoint := int((1 - bounds.Y1) * h)
	if multiView {
		xPoint -= borderPadding
		yPoint += borderPadding
	}

	regionWidth := iconSize.X*ButtonCount + buttonSpacing*(ButtonCount-1)
	if float64(regionWidth) > bounds.Width()*w || float64(regionHeight) > bounds.Height()*h {
		return Geometry{}, false
	}

	xPoint -= regionWidth
	g := Geometry{
		Region: image.Rect(xPoint, yPoint, xPoint+regionWidth-2, yPoint+regionHeight),
	}

	bw := int(float64(iconSize.X) * 2.0 / 3)
	bh := int(float64(iconSize.Y) * 2.0 / 3)
	xPoint += ButtonCount / 2
	for i := range g.Buttons {
		y := yPoint + buttonOffsetY
		g.Buttons[i] = image.Rect(xPoint, y, xPoint+bw, y+bh)
		xPoint += iconSize.X
	}
	return g, true
}

// ButtonAt returns the mode of the button under p.
//
// Parameters:
//   - p: window-space point
//
// Returns:
//   - camera.Mode: the button's mode
//   - bool: false if no button contains p
func (g Geometry) ButtonAt(p image.Point) (camera.Mode, bool) {
	for i, b := range g.Buttons {
		if inside(b, p) {
			return camera.Mode(i), true
		}
	}
	return 0, false
}

// buttonIndexAt returns the index of the button under p, or -1.
func (g Geometry) buttonIndexAt(p image.Point) int {
	if m, ok := g.ButtonAt(p); ok {
		return int(m)
	}
	return -1
}

// inside applies the open-low, closed-high containment rule.
func inside(r image.Rectangle, p image.Point) bool {
	return common.PixelRect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}.Contains(p)
}
