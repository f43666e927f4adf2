package viewport

import (
	"fmt"
	"image"
	"log"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

// MaxViewports is the number of viewport slots a layout owns.
const MaxViewports = 4

const (
	// splitterGrabPixels is how close to a separator a press must land to start a drag.
	splitterGrabPixels = 4

	minSplit = 0.1
	maxSplit = 0.9
)

// ViewMode selects how many slots are visible.
type ViewMode int

const (
	ViewModeSingle ViewMode = iota
	ViewModeTwo
	ViewModeFour
)

func (m ViewMode) String() string {
	switch m {
	case ViewModeSingle:
		return "single"
	case ViewModeTwo:
		return "two"
	case ViewModeFour:
		return "four"
	}
	return fmt.Sprintf("ViewMode(%d)", int(m))
}

// Next cycles Single -> Two -> Four -> Single.
func (m ViewMode) Next() ViewMode {
	return (m + 1) % 3
}

// slotCount returns the number of enabled slots.
func (m ViewMode) slotCount() int {
	switch m {
	case ViewModeTwo:
		return 2
	case ViewModeFour:
		return 4
	}
	return 1
}

// ParseViewMode parses "single", "two" or "four".
//
// Parameters:
//   - s: the view mode name, case-insensitive
//
// Returns:
//   - ViewMode: the parsed mode
//   - error: error if the name is unknown
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "1":
		return ViewModeSingle, nil
	case "two", "2":
		return ViewModeTwo, nil
	case "four", "4":
		return ViewModeFour, nil
	}
	return ViewModeSingle, fmt.Errorf("unknown view mode %q", s)
}

// splitter identifies which separators a drag moves.
type splitter uint8

const (
	splitVertical splitter = 1 << iota
	splitHorizontal
)

// layoutImpl implements the Layout interface.
// Owned by the UI thread; the compositor reads it while rendering on the same thread.
type layoutImpl struct {
	slots    [MaxViewports]*viewportImpl
	viewMode ViewMode
	active   int

	splitX float64
	splitY float64

	dragging splitter
}

// Layout owns up to four viewports, the active viewport index and the splitter positions.
// Bounds of enabled slots partition the surface without gaps.
type Layout interface {
	// ViewMode returns the current view mode.
	//
	// Returns:
	//   - ViewMode: the view mode
	ViewMode() ViewMode

	// SetViewMode enables the slots of mode and recomputes bounds.
	// The active index falls back to 0 when its slot is disabled.
	//
	// Parameters:
	//   - mode: the new view mode
	SetViewMode(mode ViewMode)

	// IsMultiView reports whether more than one slot is enabled.
	//
	// Returns:
	//   - bool: true for Two and Four
	IsMultiView() bool

	// Slots returns the enabled/disabled slot array; disabled slots are nil.
	//
	// Returns:
	//   - [MaxViewports]Viewport: the slots
	Slots() [MaxViewports]Viewport

	// Viewport returns the viewport at index i, or nil if the slot is disabled.
	//
	// Parameters:
	//   - i: slot index
	//
	// Returns:
	//   - Viewport: the viewport or nil
	Viewport(i int) Viewport

	// ActiveIndex returns the active slot index.
	//
	// Returns:
	//   - int: the active index, always an enabled slot
	ActiveIndex() int

	// SetActive makes slot i the active viewport.
	//
	// Parameters:
	//   - i: slot index
	//
	// Returns:
	//   - error: error if slot i is disabled
	SetActive(i int) error

	// DrawOrder returns enabled slot indices: inactive ones ascending, then the active one.
	//
	// Returns:
	//   - []int: slot indices in draw order
	DrawOrder() []int

	// PixelRect returns the bottom-left pixel rectangle of slot i.
	//
	// Parameters:
	//   - i: slot index
	//   - width, height: surface resolution
	//
	// Returns:
	//   - common.PixelRect: the rectangle (zero if the slot is disabled)
	PixelRect(i, width, height int) common.PixelRect

	// ViewportAt returns the enabled slot under a window point (top-left origin).
	//
	// Parameters:
	//   - p: the point in window pixels
	//   - width, height: surface resolution
	//
	// Returns:
	//   - int: slot index
	//   - bool: false if no slot contains p
	ViewportAt(p image.Point, width, height int) (int, bool)

	// ViewportBounds returns the normalized bounds of slot i.
	//
	// Parameters:
	//   - i: slot index
	//
	// Returns:
	//   - common.Bounds: the bounds (zero if disabled)
	ViewportBounds(i int) common.Bounds

	// CameraMode returns the camera mode of slot i.
	//
	// Parameters:
	//   - i: slot index
	//
	// Returns:
	//   - camera.Mode: the mode (ModeOrbit if disabled)
	CameraMode(i int) camera.Mode

	// SwitchCameraMode replaces the controller of slot i.
	//
	// Parameters:
	//   - i: slot index
	//   - mode: the requested mode
	//
	// Returns:
	//   - error: error if slot i is disabled
	SwitchCameraMode(i int, mode camera.Mode) error

	// ActiveCameraController returns the controller of slot i.
	//
	// Parameters:
	//   - i: slot index
	//
	// Returns:
	//   - camera.Controller: the controller, or nil if disabled
	ActiveCameraController(i int) camera.Controller

	// ResetCamera restores the initial pose of slot i's controller.
	//
	// Parameters:
	//   - i: slot index
	ResetCamera(i int)

	// BeginSplitterDrag starts dragging the separator(s) under p.
	//
	// Parameters:
	//   - p: the press position in window pixels
	//   - width, height: surface resolution
	//
	// Returns:
	//   - bool: true if a separator was grabbed
	BeginSplitterDrag(p image.Point, width, height int) bool

	// DragSplitter moves the grabbed separator(s) to p, clamped to [0.1, 0.9].
	//
	// Parameters:
	//   - p: the pointer position in window pixels
	//   - width, height: surface resolution
	DragSplitter(p image.Point, width, height int)

	// EndSplitterDrag releases the separator(s).
	EndSplitterDrag()

	// IsDraggingSplitter reports whether a separator drag is in progress.
	//
	// Returns:
	//   - bool: true while dragging
	IsDraggingSplitter() bool
}

var _ Layout = &layoutImpl{}

// NewLayout creates a layout with all four viewports.
// Slot 0 starts in orbit mode and slots 1-3 lock on X, Y and Z.
//
// Parameters:
//   - options: functional options to configure the layout
//
// Returns:
//   - Layout: the newly created layout
func NewLayout(options ...LayoutBuilderOption) Layout {
	l := &layoutImpl{
		viewMode: ViewModeSingle,
		splitX:   0.5,
		splitY:   0.5,
	}
	cfg := layoutConfig{
		modes: [MaxViewports]camera.Mode{camera.ModeOrbit, camera.ModeAxisLockX, camera.ModeAxisLockY, camera.ModeAxisLockZ},
	}
	for _, option := range options {
		option(l, &cfg)
	}
	for i := range l.slots {
		l.slots[i] = newViewport(i, cfg.modes[i], cfg.controllerOptions...)
	}
	l.recomputeBounds()
	return l
}

func (l *layoutImpl) ViewMode() ViewMode {
	return l.viewMode
}

func (l *layoutImpl) SetViewMode(mode ViewMode) {
	if mode < ViewModeSingle || mode > ViewModeFour {
		return
	}
	if mode == l.viewMode {
		return
	}
	l.viewMode = mode
	l.dragging = 0
	if !l.enabled(l.active) {
		l.active = 0
	}
	l.recomputeBounds()
	log.Printf("[Layout] view mode %s, active viewport %d", mode, l.active)
}

func (l *layoutImpl) IsMultiView() bool {
	return l.viewMode != ViewModeSingle
}

func (l *layoutImpl) Slots() [MaxViewports]Viewport {
	var out [MaxViewports]Viewport
	for i := range out {
		if l.enabled(i) {
			out[i] = l.slots[i]
		}
	}
	return out
}

func (l *layoutImpl) Viewport(i int) Viewport {
	if !l.enabled(i) {
		return nil
	}
	return l.slots[i]
}

func (l *layoutImpl) ActiveIndex() int {
	return l.active
}

func (l *layoutImpl) SetActive(i int) error {
	if !l.enabled(i) {
		return fmt.Errorf("viewport %d is not enabled in %s view", i, l.viewMode)
	}
	l.active = i
	return nil
}

func (l *layoutImpl) DrawOrder() []int {
	n := l.viewMode.slotCount()
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != l.active {
			order = append(order, i)
		}
	}
	return append(order, l.active)
}

func (l *layoutImpl) PixelRect(i, width, height int) common.PixelRect {
	if !l.enabled(i) {
		return common.PixelRect{}
	}
	return l.slots[i].bounds.PixelRect(width, height)
}

func (l *layoutImpl) ViewportAt(p image.Point, width, height int) (int, bool) {
	for i := 0; i < l.viewMode.slotCount(); i++ {
		if l.slots[i].bounds.ContainsWindowPoint(p, width, height) {
			return i, true
		}
	}
	return 0, false
}

func (l *layoutImpl) ViewportBounds(i int) common.Bounds {
	if !l.enabled(i) {
		return common.Bounds{}
	}
	return l.slots[i].bounds
}

func (l *layoutImpl) CameraMode(i int) camera.Mode {
	if !l.enabled(i) {
		return camera.ModeOrbit
	}
	return l.slots[i].Mode()
}

func (l *layoutImpl) SwitchCameraMode(i int, mode camera.Mode) error {
	if !l.enabled(i) {
		return fmt.Errorf("switch camera mode: viewport %d is not enabled", i)
	}
	if !mode.Valid() {
		return fmt.Errorf("switch camera mode: unknown mode %d", int(mode))
	}
	if l.slots[i].switchMode(mode) {
		log.Printf("[Layout] viewport %d camera mode %s", i, mode)
	}
	return nil
}

func (l *layoutImpl) ActiveCameraController(i int) camera.Controller {
	if !l.enabled(i) {
		return nil
	}
	return l.slots[i].Controller()
}

func (l *layoutImpl) ResetCamera(i int) {
	if !l.enabled(i) {
		return
	}
	l.slots[i].Controller().Reset()
}

func (l *layoutImpl) BeginSplitterDrag(p image.Point, width, height int) bool {
	if !l.IsMultiView() || width <= 0 || height <= 0 {
		return false
	}
	var grab splitter
	if math.Abs(float64(p.X)-l.splitX*float64(width)) <= splitterGrabPixels {
		grab |= splitVertical
	}
	if l.viewMode == ViewModeFour && math.Abs(float64(p.Y)-(1-l.splitY)*float64(height)) <= splitterGrabPixels {
		grab |= splitHorizontal
	}
	l.dragging = grab
	return grab != 0
}

func (l *layoutImpl) DragSplitter(p image.Point, width, height int) {
	if l.dragging == 0 || width <= 0 || height <= 0 {
		return
	}
	if l.dragging&splitVertical != 0 {
		l.splitX = common.Clamp(float64(p.X)/float64(width), minSplit, maxSplit)
	}
	if l.dragging&splitHorizontal != 0 {
		l.splitY = common.Clamp(1-float64(p.Y)/float64(height), minSplit, maxSplit)
	}
	l.recomputeBounds()
}

func (l *layoutImpl) EndSplitterDrag() {
	l.dragging = 0
}

func (l *layoutImpl) IsDraggingSplitter() bool {
	return l.dragging != 0
}

func (l *layoutImpl) enabled(i int) bool {
	return i >= 0 && i < l.viewMode.slotCount()
}

// recomputeBounds assigns bounds to enabled slots from the view mode and splitters.
// Disabled slots keep zero bounds.
func (l *layoutImpl) recomputeBounds() {
	sx, sy := l.splitX, l.splitY
	var b [MaxViewports]common.Bounds
	switch l.viewMode {
	case ViewModeSingle:
		b[0] = common.FullBounds
	case ViewModeTwo:
		b[0] = common.Bounds{X0: 0, Y0: 0, X1: sx, Y1: 1}
		b[1] = common.Bounds{X0: sx, Y0: 0, X1: 1, Y1: 1}
	case ViewModeFour:
		b[0] = common.Bounds{X0: 0, Y0: sy, X1: sx, Y1: 1}
		b[1] = common.Bounds{X0: sx, Y0: sy, X1: 1, Y1: 1}
		b[2] = common.Bounds{X0: 0, Y0: 0, X1: sx, Y1: sy}
		b[3] = common.Bounds{X0: sx, Y0: 0, X1: 1, Y1: sy}
	}
	for i, s := range l.slots {
		s.bounds = b[i]
	}
}
