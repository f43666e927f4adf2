// Package compositor renders one frame: the viewports of the active tab in draw order,
// the FPS counter, the HUD, the viewport contours and any one-shot extra draw jobs.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/assets"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/hud"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

var (
	BackgroundColor   = common.RGB(165, 166, 165)
	ActiveViewColor   = common.RGB(175, 175, 175)
	BorderColor       = common.RGB(105, 105, 105)
	ActiveBorderColor = common.RGB(173, 255, 47)
	FPSColor          = common.RGB(255, 0, 0)
	SplashTextColor   = common.RGB(0, 0, 0)
	FailureTextColor  = common.RGB(255, 0, 0)
)

const (
	// FPSRefreshSeconds is the minimum time between two FPS counter updates.
	FPSRefreshSeconds = 0.3333

	borderWidth       = 3
	activeBorderWidth = 4

	fpsKey           = "fps"
	splashTitleKey   = "splash_title"
	splashDetailKey  = "splash_detail"
	splashIconKey    = "splash_icon"
	splashTextScale  = 2
	splashIconOffset = 30
	splashDetailY    = 100

	emptySplashText   = "Drag file here"
	loadingSplashText = "Loading ..."
	failureSplashText = "Sorry, this scene failed to load."
	failureDetailText = "What the importer said went wrong: "
)

// Compositor renders frames. All methods must be called from the UI thread.
type Compositor interface {
	// RenderFrame draws one frame of tab into the graphics context.
	//
	// Parameters:
	//   - tab: the active tab
	//
	// Returns:
	//   - error: joined errors from image uploads; the frame is still complete
	RenderFrame(tab TabState) error

	// Update advances the FPS accumulator and the HUD fade.
	//
	// Parameters:
	//   - dt: elapsed seconds since the last frame
	Update(dt float64)

	// SetShowFPS toggles the FPS counter.
	//
	// Parameters:
	//   - show: true to draw the counter
	SetShowFPS(show bool)

	// ShowFPS reports whether the FPS counter is drawn.
	//
	// Returns:
	//   - bool: true if shown
	ShowFPS() bool

	// DisplayedFPS returns the value the counter currently shows.
	//
	// Returns:
	//   - float64: frames per second
	DisplayedFPS() float64

	// RegisterExtraDrawJob schedules job to run once at the end of the next frame.
	// Jobs registered while jobs are running run in the frame after.
	//
	// Parameters:
	//   - job: the callback
	RegisterExtraDrawJob(job ExtraDrawJob)

	// Close drops pending extra draw jobs.
	Close()
}

type compositorImpl struct {
	ctx    gfx.Context
	layout viewport.Layout
	hud    hud.Controller
	lib    assets.Library

	workers int
	pool    worker.DynamicWorkerPool

	showFPS    bool
	fpsAccum   float64
	fpsFrames  int
	displayFPS float64

	labels     map[string]string
	labelSizes map[string]image.Point
	iconReady  bool

	extraJobs []ExtraDrawJob
}

var _ Compositor = &compositorImpl{}

// NewCompositor creates a compositor drawing layout and hudCtl into ctx.
//
// Parameters:
//   - ctx: the graphics context
//   - layout: the viewport layout
//   - hudCtl: the HUD
//   - lib: the asset library (load-error icon)
//   - options: functional options to configure the compositor
//
// Returns:
//   - Compositor: the compositor
func NewCompositor(ctx gfx.Context, layout viewport.Layout, hudCtl hud.Controller, lib assets.Library, options ...CompositorBuilderOption) Compositor {
	c := &compositorImpl{
		ctx:        ctx,
		layout:     layout,
		hud:        hudCtl,
		lib:        lib,
		workers:    viewport.MaxViewports,
		labels:     make(map[string]string),
		labelSizes: make(map[string]image.Point),
	}
	for _, option := range options {
		option(c)
	}
	if c.workers > 0 {
		c.pool = worker.NewDynamicWorkerPool(c.workers, 256, 1*time.Second)
	}
	return c
}

func (c *compositorImpl) RenderFrame(tab TabState) error {
	w, h := c.ctx.Resolution()
	full := common.PixelRect{W: w, H: h}

	c.ctx.SetViewport(full)
	c.ctx.SetDepthTest(true)
	c.ctx.Clear(BackgroundColor, gfx.ClearColor|gfx.ClearDepth)

	var errs []error
	if tab.Scene == nil {
		errs = append(errs, c.drawSplash(tab, w, h))
	} else {
		c.prepareCameras(w, h)
		active := c.layout.ActiveIndex()
		for _, i := range c.layout.DrawOrder() {
			c.drawViewport(tab.Scene, i, i == active, w, h)
		}
		if c.layout.IsMultiView() {
			c.ctx.SetViewport(full)
		}
	}
	c.ctx.SetDepthTest(false)

	if c.showFPS {
		errs = append(errs, c.drawFPS())
	}

	if tab.Scene != nil {
		if c.layout.IsDraggingSplitter() {
			c.hud.Hide()
		} else if !c.hud.Hidden() {
			errs = append(errs, c.hud.Draw(c.ctx, c.layout))
		}
		if c.layout.IsMultiView() {
			c.drawContours(w, h)
		}
	}

	c.ctx.SetViewport(full)
	c.runExtraJobs()
	return errors.Join(errs...)
}

func (c *compositorImpl) Update(dt float64) {
	c.hud.Update(dt)
	if c.showFPS {
		c.fpsAccum += dt
		c.fpsFrames++
	}
}

func (c *compositorImpl) SetShowFPS(show bool) {
	if show == c.showFPS {
		return
	}
	c.showFPS = show
	c.fpsAccum = 0
	c.fpsFrames = 0
}

func (c *compositorImpl) ShowFPS() bool {
	return c.showFPS
}

func (c *compositorImpl) DisplayedFPS() float64 {
	return c.displayFPS
}

func (c *compositorImpl) RegisterExtraDrawJob(job ExtraDrawJob) {
	if job == nil {
		return
	}
	c.extraJobs = append(c.extraJobs, job)
}

func (c *compositorImpl) Close() {
	c.extraJobs = nil
}

// prepareCameras recomputes every visible viewport's projection on the worker pool.
// Matrices are ready when it returns.
func (c *compositorImpl) prepareCameras(w, h int) {
	order := c.layout.DrawOrder()
	if c.pool == nil || len(order) == 1 {
		for _, i := range order {
			c.layout.Viewport(i).PrepareCamera(w, h)
		}
		return
	}

	var wg sync.WaitGroup
	for _, i := range order {
		vp := c.layout.Viewport(i)
		wg.Add(1)
		c.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				vp.PrepareCamera(w, h)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (c *compositorImpl) drawViewport(scene Scene, i int, active bool, w, h int) {
	vp := c.layout.Viewport(i)
	rect := vp.Bounds().PixelRect(w, h)
	c.ctx.SetViewport(rect)
	if rect.Empty() {
		return
	}
	if active {
		c.ctx.Clear(ActiveViewColor, gfx.ClearColor)
	}
	cam := vp.Camera()
	c.ctx.SetDepthTest(true)
	c.ctx.SetTransform(cam.ViewProjectionMatrix())
	scene.Render(c.ctx, View{Index: i, Active: active, Rect: rect, Camera: cam}, vp.Controller())
}

// drawContours outlines every viewport, the active one last.
func (c *compositorImpl) drawContours(w, h int) {
	c.ctx.SetDepthTest(false)
	active := c.layout.ActiveIndex()
	for _, i := range c.layout.DrawOrder() {
		rect := c.layout.PixelRect(i, w, h)
		if rect.Empty() {
			continue
		}
		lw, col := borderWidth, BorderColor
		if i == active {
			lw, col = activeBorderWidth, ActiveBorderColor
		}
		inset := lw / 2
		c.ctx.SetViewport(rect)
		c.ctx.StrokeRect(image.Rect(inset, inset, rect.W-inset, rect.H-inset), float32(lw), col)
	}
}

func (c *compositorImpl) drawFPS() error {
	if c.fpsAccum >= FPSRefreshSeconds {
		c.displayFPS = float64(c.fpsFrames) / c.fpsAccum
		c.fpsAccum = 0
		c.fpsFrames = 0
	}
	size, err := c.label(fpsKey, fmt.Sprintf("FPS: %.1f", c.displayFPS), FPSColor, false)
	if err != nil {
		return err
	}
	c.ctx.DrawImage(fpsKey, image.Rectangle{Min: image.Pt(5, 5), Max: image.Pt(5, 5).Add(size)}, 1)
	return nil
}

func (c *compositorImpl) drawSplash(tab TabState, w, h int) error {
	center := image.Pt(w/2, h/2)
	switch tab.Status {
	case TabFailed:
		var errs []error
		if err := c.drawLoadErrorIcon(w, h); err != nil {
			errs = append(errs, err)
		}
		errs = append(errs, c.centeredLabel(splashTitleKey, failureSplashText, FailureTextColor, center))
		detail := image.Pt(w/2, splashDetailY+h/2)
		errs = append(errs, c.centeredLabel(splashDetailKey, failureDetailText+tab.ErrorMessage, SplashTextColor, detail))
		return errors.Join(errs...)
	case TabLoading:
		return c.centeredLabel(splashTitleKey, loadingSplashText, SplashTextColor, center)
	default:
		return c.centeredLabel(splashTitleKey, emptySplashText, SplashTextColor, center)
	}
}

func (c *compositorImpl) drawLoadErrorIcon(w, h int) error {
	icon := c.lib.LoadErrorIcon()
	if !c.iconReady {
		if err := c.ctx.UploadImage(splashIconKey, icon); err != nil {
			return fmt.Errorf("load error icon: %w", err)
		}
		c.iconReady = true
	}
	size := icon.Bounds().Size()
	at := image.Pt(w/2-size.X/2, h/2-size.Y-splashIconOffset)
	c.ctx.DrawImage(splashIconKey, image.Rectangle{Min: at, Max: at.Add(size)}, 1)
	return nil
}

func (c *compositorImpl) centeredLabel(key, text string, col common.Color, center image.Point) error {
	size, err := c.label(key, text, col, false)
	if err != nil {
		return err
	}
	size = size.Mul(splashTextScale)
	at := center.Sub(size.Div(2))
	c.ctx.DrawImage(key, image.Rectangle{Min: at, Max: at.Add(size)}, 1)
	return nil
}

// label uploads text under key when it differs from what was last uploaded there.
func (c *compositorImpl) label(key, text string, col common.Color, shadowed bool) (image.Point, error) {
	if prev, ok := c.labels[key]; ok && prev == text {
		return c.labelSizes[key], nil
	}
	img := gfx.RasterizeText(text, col, shadowed)
	if err := c.ctx.UploadImage(key, img); err != nil {
		delete(c.labels, key)
		return image.Point{}, fmt.Errorf("label %s: %w", key, err)
	}
	c.labels[key] = text
	c.labelSizes[key] = img.Bounds().Size()
	return c.labelSizes[key], nil
}

func (c *compositorImpl) runExtraJobs() {
	if len(c.extraJobs) == 0 {
		return
	}
	jobs := c.extraJobs
	c.extraJobs = nil
	for _, job := range jobs {
		job(c.ctx)
	}
}
