// Package hud draws the camera mode bar over the viewport under the pointer and turns
// clicks on its buttons into camera mode switches.
package hud

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"golang.org/x/image/draw"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/assets"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

const (
	// TextureKey is the image key the HUD composite is uploaded under.
	TextureKey = "hud"

	// DefaultFadeDuration is the fade-in time after the pointer enters another viewport.
	DefaultFadeDuration = 0.2

	// bandHeight is the height of the composite strip along the top of the viewport.
	bandHeight = 56

	resetHintText   = "Press [R] to reset the view"
	resetHintOffset = 10
	tooltipOffsetY  = 35
	tooltipMarginX  = 10
)

var textColor = common.RGB(0, 0, 0)

// Controller is the HUD state machine. All methods must be called from the UI thread.
type Controller interface {
	// OnMouseMove records the pointer position and the viewport under it and shows a hidden HUD.
	// The first entry into a viewport, and every entry into another one, restarts the fade-in.
	//
	// Parameters:
	//   - p: pointer position in window pixels (top-left origin)
	//   - viewportIndex: the slot under the pointer, or -1 for none
	OnMouseMove(p image.Point, viewportIndex int)

	// OnMouseDown queues a click when the pointer is over the HUD bar.
	// The click is resolved during the next Draw.
	//
	// Parameters:
	//   - p: click position in window pixels
	//
	// Returns:
	//   - bool: true if the HUD took the click
	OnMouseDown(p image.Point) bool

	// Update advances the fade-in timer.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float64)

	// Hide hides the HUD until the next pointer move.
	Hide()

	// Hidden reports whether the HUD is hidden.
	//
	// Returns:
	//   - bool: true while hidden
	Hidden() bool

	// FadeAlpha returns the bar opacity in [0, 1]; 1 once the fade-in has elapsed.
	//
	// Returns:
	//   - float64: the opacity
	FadeAlpha() float64

	// Dirty reports whether the next Draw will rebuild the composite regardless of its key.
	//
	// Returns:
	//   - bool: true if dirty
	Dirty() bool

	// HoveredViewport returns the slot the HUD is shown over.
	//
	// Returns:
	//   - int: the slot index
	HoveredViewport() int

	// Draw resolves a pending click, rebuilds the composite if any of its inputs changed
	// and draws it. The context viewport must cover the full surface.
	//
	// Parameters:
	//   - ctx: the graphics context
	//   - layout: the viewport layout the HUD is drawn over
	//
	// Returns:
	//   - error: error if the composite could not be uploaded
	Draw(ctx gfx.Context, layout viewport.Layout) error
}

type controllerImpl struct {
	iconSize    image.Point
	buttonIcons [ButtonCount][3]*image.RGBA
	bar         *image.RGBA

	fadeDuration  float64
	fadeRemaining float64

	hovered  int
	entered  bool
	mousePos image.Point
	hidden   bool
	dirty    bool

	region      image.Rectangle
	regionValid bool

	cache  CompositeCache
	clicks ClickQueue

	composite *image.RGBA
	band      image.Rectangle
	uploaded  bool
}

var _ Controller = &controllerImpl{}

// NewController creates a HUD drawing icons from lib.
//
// Parameters:
//   - lib: the asset library
//   - options: functional options to configure the HUD
//
// Returns:
//   - Controller: the HUD
func NewController(lib assets.Library, options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		iconSize:     lib.IconSize(),
		bar:          lib.Bar(),
		fadeDuration: DefaultFadeDuration,
		dirty:        true,
	}
	for _, option := range options {
		option(c)
	}

	bw := int(float64(c.iconSize.X) * 2.0 / 3)
	bh := int(float64(c.iconSize.Y) * 2.0 / 3)
	for i, m := range camera.Modes() {
		for s := assets.IconNormal; s <= assets.IconSelected; s++ {
			c.buttonIcons[i][s] = gfx.ScaleImage(lib.Icon(m, s), bw, bh)
		}
	}
	return c
}

func (c *controllerImpl) OnMouseMove(p image.Point, viewportIndex int) {
	c.mousePos = p
	c.hidden = false
	if viewportIndex < 0 || (c.entered && viewportIndex == c.hovered) {
		return
	}
	c.entered = true
	c.hovered = viewportIndex
	c.fadeRemaining = c.fadeDuration
	c.dirty = true
}

func (c *controllerImpl) OnMouseDown(p image.Point) bool {
	if c.hidden || !c.regionValid || !inside(c.region, c.mousePos) {
		return false
	}
	c.clicks.RecordClick(p)
	c.dirty = true
	return true
}

func (c *controllerImpl) Update(dt float64) {
	if c.fadeRemaining <= 0 {
		return
	}
	c.fadeRemaining -= dt
	if c.fadeRemaining < 0 {
		c.fadeRemaining = 0
	}
	c.dirty = true
}

func (c *controllerImpl) Hide() {
	c.hidden = true
	c.clicks.Clear()
}

func (c *controllerImpl) Hidden() bool {
	return c.hidden
}

func (c *controllerImpl) FadeAlpha() float64 {
	if c.fadeDuration <= 0 {
		return 1
	}
	return common.Clamp(1-c.fadeRemaining/c.fadeDuration, 0, 1)
}

func (c *controllerImpl) Dirty() bool {
	return c.dirty
}

func (c *controllerImpl) HoveredViewport() int {
	return c.hovered
}

func (c *controllerImpl) Draw(ctx gfx.Context, layout viewport.Layout) error {
	if c.hidden {
		return nil
	}
	vp := layout.Viewport(c.hovered)
	if vp == nil {
		c.regionValid = false
		c.clicks.Clear()
		return nil
	}

	w, h := ctx.Resolution()
	bounds := vp.Bounds()
	multiView := layout.IsMultiView()
	geom, ok := ComputeGeometry(bounds, image.Pt(w, h), c.iconSize, multiView)
	if !ok {
		c.regionValid = false
		c.clicks.Clear()
		return nil
	}
	c.region = geom.Region
	c.regionValid = true

	if mode, hit := c.clicks.ResolvePendingClick(geom.ButtonAt); hit {
		if err := layout.SwitchCameraMode(c.hovered, mode); err != nil {
			log.Printf("[HUD] %v", err)
		}
	}

	key := CompositeKey{
		Viewport:    c.hovered,
		Bounds:      bounds,
		Resolution:  image.Pt(w, h),
		Mode:        layout.CameraMode(c.hovered),
		Active:      layout.ActiveIndex() == c.hovered,
		MultiView:   multiView,
		HoverButton: geom.buttonIndexAt(c.mousePos),
	}
	if c.dirty || c.fadeRemaining > 0 || c.cache.NeedsComposite(key) {
		img := c.compose(geom, key, bounds, w, h)
		if err := ctx.UploadImage(TextureKey, img); err != nil {
			c.cache.Invalidate()
			c.uploaded = false
			return fmt.Errorf("hud composite: %w", err)
		}
		c.cache.Commit(key)
		c.uploaded = true
		c.dirty = false
	}
	if c.uploaded {
		ctx.DrawImage(TextureKey, c.band, 1)
	}
	return nil
}

// compose renders the bar, buttons and texts into a strip along the top of the viewport.
func (c *controllerImpl) compose(geom Geometry, key CompositeKey, bounds common.Bounds, w, h int) *image.RGBA {
	vp := bounds.PixelRect(w, h).FlipY(h)
	bh := vp.H
	if bh > bandHeight {
		bh = bandHeight
	}
	c.band = image.Rect(vp.X, vp.Y, vp.X+vp.W, vp.Y+bh)
	img := c.buffer(c.band.Size())
	origin := c.band.Min

	var opts *draw.Options
	if alpha := c.FadeAlpha(); alpha < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha16{A: uint16(alpha * 0xffff)})}
	}
	draw.ApproxBiLinear.Scale(img, geom.Region.Sub(origin), c.bar, c.bar.Bounds(), draw.Over, opts)

	fw, fh := float64(w), float64(h)
	top := (1 - bounds.Y1) * fh
	if key.Active {
		at := image.Pt(int(bounds.X0*fw)+resetHintOffset, int(top)+resetHintOffset)
		gfx.DrawText(img, at.Sub(origin), resetHintText, textColor, true)
	}

	for i, b := range geom.Buttons {
		state := assets.IconNormal
		hovered := i == key.HoverButton
		if camera.Mode(i) == key.Mode {
			state = assets.IconSelected
		} else if hovered {
			state = assets.IconHover
		}
		dst := b.Sub(origin)
		draw.Draw(img, dst, c.buttonIcons[i][state], image.Point{}, draw.Over)

		if hovered {
			tip := camera.Mode(i).Tooltip()
			right := int(bounds.X0*fw + bounds.Width()*fw - tooltipMarginX)
			at := image.Pt(right-gfx.TextSize(tip).X, int(top)+tooltipOffsetY)
			gfx.DrawText(img, at.Sub(origin), tip, textColor, true)
		}
	}
	return img
}

// buffer returns a cleared composite image of the given size, reusing the previous one when possible.
func (c *controllerImpl) buffer(size image.Point) *image.RGBA {
	if c.composite == nil || c.composite.Bounds().Size() != size {
		c.composite = image.NewRGBA(image.Rectangle{Max: size})
		return c.composite
	}
	clear(c.composite.Pix)
	return c.composite
}
