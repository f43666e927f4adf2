// Package assets builds the images used by the HUD and the splash screens.
// The library is created once at startup and is read-only afterwards.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/adjust"
	"golang.org/x/image/draw"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
)

// IconState selects the visual variant of a HUD button.
type IconState int

const (
	IconNormal IconState = iota
	IconHover
	IconSelected

	iconStateCount
)

var iconStateNames = [iconStateCount]string{"normal", "hover", "selected"}

func (s IconState) String() string {
	if s < 0 || s >= iconStateCount {
		return fmt.Sprintf("IconState(%d)", int(s))
	}
	return iconStateNames[s]
}

const (
	// IconSize is the edge length of the bundled HUD icons.
	IconSize = 36

	BarWidth  = 196
	BarHeight = 27

	loadErrorSize = 64
)

var (
	// BarColor is the translucent fill of the HUD bar.
	BarColor = common.ARGB(100, 80, 80, 80)

	iconBackground         = common.RGB(225, 225, 225)
	iconSelectedBackground = common.RGB(173, 255, 47)
	iconBorder             = common.RGB(60, 60, 60)
)

// Library provides the pre-decoded images the viewer draws.
type Library interface {
	// Icon returns the HUD icon of a camera mode in a given state.
	//
	// Parameters:
	//   - mode: the camera mode
	//   - state: the visual state
	//
	// Returns:
	//   - *image.RGBA: the icon, or nil for an unknown mode or state
	Icon(mode camera.Mode, state IconState) *image.RGBA

	// IconSize returns the size shared by all icons.
	//
	// Returns:
	//   - image.Point: width and height in pixels
	IconSize() image.Point

	// Bar returns the HUD bar background.
	//
	// Returns:
	//   - *image.RGBA: the bar image
	Bar() *image.RGBA

	// LoadErrorIcon returns the icon shown on the failure splash.
	//
	// Returns:
	//   - *image.RGBA: the icon
	LoadErrorIcon() *image.RGBA
}

type libraryImpl struct {
	overrideDir string

	icons     [][iconStateCount]*image.RGBA
	iconSize  image.Point
	bar       *image.RGBA
	loadError *image.RGBA
}

var _ Library = &libraryImpl{}

// NewLibrary builds every image. Files in the override directory replace the built-in images:
// hud_<icon>_<state>.png, hud_bar.png and load_error.png. When only the normal variant of an icon
// is given, the hover and selected variants are derived from it.
//
// Parameters:
//   - options: functional options to configure the library
//
// Returns:
//   - Library: the library
//   - error: error if an override file exists but cannot be decoded
func NewLibrary(options ...LibraryBuilderOption) (Library, error) {
	l := &libraryImpl{
		iconSize: image.Pt(IconSize, IconSize),
	}
	for _, option := range options {
		option(l)
	}

	var errs []error
	modes := camera.Modes()
	l.icons = make([][iconStateCount]*image.RGBA, len(modes))
	for _, m := range modes {
		normal := renderIcon(m, iconBackground)
		l.icons[m] = [iconStateCount]*image.RGBA{
			IconNormal:   normal,
			IconHover:    adjust.Brightness(normal, 0.12),
			IconSelected: adjust.Contrast(renderIcon(m, iconSelectedBackground), 0.2),
		}
	}
	l.bar = fill(image.Rect(0, 0, BarWidth, BarHeight), BarColor)
	l.loadError = renderLoadError()

	if l.overrideDir != "" {
		errs = append(errs, l.applyOverrides()...)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *libraryImpl) Icon(mode camera.Mode, state IconState) *image.RGBA {
	if !mode.Valid() || state < 0 || state >= iconStateCount {
		return nil
	}
	return l.icons[mode][state]
}

func (l *libraryImpl) IconSize() image.Point {
	return l.iconSize
}

func (l *libraryImpl) Bar() *image.RGBA {
	return l.bar
}

func (l *libraryImpl) LoadErrorIcon() *image.RGBA {
	return l.loadError
}

func (l *libraryImpl) applyOverrides() []error {
	var errs []error
	count := 0
	for _, m := range camera.Modes() {
		var loaded [iconStateCount]*image.RGBA
		for s := IconNormal; s < iconStateCount; s++ {
			name := fmt.Sprintf("hud_%s_%s.png", m.IconName(), s)
			img, err := l.loadOverride(name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if img != nil {
				loaded[s] = gfx.ScaleImage(img, l.iconSize.X, l.iconSize.Y)
				count++
			}
		}
		if loaded[IconNormal] == nil {
			continue
		}
		if loaded[IconHover] == nil {
			loaded[IconHover] = adjust.Brightness(loaded[IconNormal], 0.12)
		}
		if loaded[IconSelected] == nil {
			loaded[IconSelected] = adjust.Contrast(adjust.Brightness(loaded[IconNormal], -0.2), 0.3)
		}
		l.icons[m] = loaded
	}

	if img, err := l.loadOverride("hud_bar.png"); err != nil {
		errs = append(errs, err)
	} else if img != nil {
		l.bar = img
		count++
	}
	if img, err := l.loadOverride("load_error.png"); err != nil {
		errs = append(errs, err)
	} else if img != nil {
		l.loadError = img
		count++
	}
	if count > 0 {
		log.Printf("[Assets] %d image overrides loaded from %s", count, l.overrideDir)
	}
	return errs
}

// loadOverride returns nil without error when the file does not exist.
func (l *libraryImpl) loadOverride(name string) (*image.RGBA, error) {
	path := filepath.Join(l.overrideDir, name)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return common.DecodeImageFile(path)
}

// renderIcon draws the built-in icon of a mode: a framed tile with the mode's glyph.
func renderIcon(m camera.Mode, background common.Color) *image.RGBA {
	img := fill(image.Rect(0, 0, IconSize, IconSize), background)
	frame := image.NewUniform(iconBorder.NRGBA())
	b := img.Bounds()
	for _, edge := range []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+1),
		image.Rect(b.Min.X, b.Max.Y-1, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, b.Min.Y, b.Min.X+1, b.Max.Y),
		image.Rect(b.Max.X-1, b.Min.Y, b.Max.X, b.Max.Y),
	} {
		draw.Draw(img, edge, frame, image.Point{}, draw.Src)
	}

	if m == camera.ModeOrbit {
		drawRing(img, image.Pt(IconSize/2, IconSize/2), IconSize/2-7, iconBorder)
	}
	glyph := iconGlyphs[m]
	size := gfx.TextSize(glyph)
	at := image.Pt((IconSize-size.X)/2, (IconSize-size.Y)/2)
	gfx.DrawText(img, at, glyph, common.RGB(0, 0, 0), false)
	return img
}

var iconGlyphs = map[camera.Mode]string{
	camera.ModeAxisLockX:   "X",
	camera.ModeAxisLockY:   "Y",
	camera.ModeAxisLockZ:   "Z",
	camera.ModeOrbit:       "O",
	camera.ModeFirstPerson: "FP",
}

// renderLoadError draws a red disc with a white cross.
func renderLoadError() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, loadErrorSize, loadErrorSize))
	red := color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	c := loadErrorSize / 2
	r2 := (c - 2) * (c - 2)
	for y := 0; y < loadErrorSize; y++ {
		for x := 0; x < loadErrorSize; x++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy > r2 {
				continue
			}
			d1, d2 := dx-dy, dx+dy
			onCross := ((d1 >= -3 && d1 <= 3) || (d2 >= -3 && d2 <= 3)) && dx*dx+dy*dy < (c-12)*(c-12)
			if onCross {
				img.Set(x, y, white)
			} else {
				img.Set(x, y, red)
			}
		}
	}
	return img
}

func drawRing(img *image.RGBA, center image.Point, radius int, c common.Color) {
	col := c.NRGBA()
	outer := radius * radius
	inner := (radius - 2) * (radius - 2)
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			dx, dy := x-center.X, y-center.Y
			d := dx*dx + dy*dy
			if d <= outer && d >= inner {
				img.Set(x, y, col)
			}
		}
	}
}

func fill(r image.Rectangle, c common.Color) *image.RGBA {
	img := image.NewRGBA(r)
	draw.Draw(img, r, image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
	return img
}
