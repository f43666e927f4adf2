// Package viewer ties the viewer together: it owns the tab state, routes window input to the HUD,
// the splitters and the per-viewport cameras, and keeps playback and the shown pose in step.
package viewer

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/assets"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/compositor"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/hud"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle

	buttonCount
)

// noViewport marks the absence of a drag target.
const noViewport = -1

// moveKeys maps held keys to camera movement.
var moveKeys = map[uint32]camera.MoveKeys{
	common.KeyW:     camera.MoveForward,
	common.KeyUp:    camera.MoveForward,
	common.KeyS:     camera.MoveBack,
	common.KeyDown:  camera.MoveBack,
	common.KeyA:     camera.MoveLeft,
	common.KeyLeft:  camera.MoveLeft,
	common.KeyD:     camera.MoveRight,
	common.KeyRight: camera.MoveRight,
	common.KeyE:     camera.MoveUp,
	common.KeyQ:     camera.MoveDown,
}

// viewer is the implementation of the Viewer interface.
type viewer struct {
	mu *sync.Mutex

	ctx        gfx.Context
	dispatcher animation.Dispatcher
	library    assets.Library
	layout     viewport.Layout
	hud        hud.Controller
	compositor compositor.Compositor
	playback   animation.Playback
	loader     loader.Loader

	tab     compositor.TabState
	current scene.Scene
	loadSeq uint64

	mouse        image.Point
	buttons      [buttonCount]bool
	dragViewport int
	pending      [viewport.MaxViewports]camera.Input
	held         map[uint32]bool

	// construction options
	assetsDir       string
	viewMode        viewport.ViewMode
	layoutOptions   []viewport.LayoutBuilderOption
	fadeDuration    float64
	compositorOpts  []compositor.CompositorBuilderOption
	playbackOptions []animation.PlaybackBuilderOption
	sceneOptions    []scene.SceneBuilderOption
	autoPlay        bool
	onQuit          func()
}

// Viewer is one viewer window's worth of state. Every method must be called from the UI thread;
// background work re-enters through the dispatcher.
type Viewer interface {
	// Open starts loading a scene in the background. The tab shows the loading splash until the
	// result arrives, then the scene or the failure splash. A newer Open supersedes an older one.
	//
	// Parameters:
	//   - name: scene.DemoName or a model file path
	Open(name string)

	// Tab returns the current tab state.
	//
	// Returns:
	//   - compositor.TabState: the tab state
	Tab() compositor.TabState

	// Scene returns the loaded scene, nil while none is loaded.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Layout returns the viewport layout.
	//
	// Returns:
	//   - viewport.Layout: the layout
	Layout() viewport.Layout

	// Playback returns the animation playback controller.
	//
	// Returns:
	//   - animation.Playback: the playback controller
	Playback() animation.Playback

	// Compositor returns the frame compositor.
	//
	// Returns:
	//   - compositor.Compositor: the compositor
	Compositor() compositor.Compositor

	// HUD returns the camera mode HUD.
	//
	// Returns:
	//   - hud.Controller: the HUD controller
	HUD() hud.Controller

	// Update applies the input gathered since the last frame to the cameras and advances timers.
	//
	// Parameters:
	//   - dt: seconds since the last frame
	Update(dt float64)

	// Render composes one frame into the graphics context.
	//
	// Returns:
	//   - error: error if any part of the frame failed to draw
	Render() error

	// OnMouseMove handles pointer motion in window pixels, origin top-left.
	OnMouseMove(x, y int)

	// OnMouseDown handles a button press.
	OnMouseDown(button MouseButton, x, y int)

	// OnMouseUp handles a button release.
	OnMouseUp(button MouseButton, x, y int)

	// OnScroll handles wheel steps; positive zooms in.
	OnScroll(delta float32)

	// OnKeyDown handles a key press using common key codes.
	OnKeyDown(key uint32)

	// OnKeyUp handles a key release.
	OnKeyUp(key uint32)

	// OnDrop opens the first dropped file.
	OnDrop(paths []string)

	// Close stops playback and releases the compositor.
	Close()
}

var _ Viewer = &viewer{}

// NewViewer creates a viewer drawing into ctx. The tab starts empty.
//
// Parameters:
//   - ctx: the graphics context frames are drawn into
//   - dispatcher: the UI thread queue used by playback ticks and background loads
//   - options: functional options to configure the viewer
//
// Returns:
//   - Viewer: the viewer
//   - error: error if the HUD assets cannot be loaded
func NewViewer(ctx gfx.Context, dispatcher animation.Dispatcher, options ...ViewerBuilderOption) (Viewer, error) {
	v := &viewer{
		mu:           &sync.Mutex{},
		ctx:          ctx,
		dispatcher:   dispatcher,
		dragViewport: noViewport,
		held:         make(map[uint32]bool),
		fadeDuration: -1,
		autoPlay:     true,
	}
	for _, option := range options {
		option(v)
	}

	var libOpts []assets.LibraryBuilderOption
	if v.assetsDir != "" {
		libOpts = append(libOpts, assets.WithOverrideDir(v.assetsDir))
	}
	lib, err := assets.NewLibrary(libOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load HUD assets: %w", err)
	}
	v.library = lib

	v.layout = viewport.NewLayout(append([]viewport.LayoutBuilderOption{viewport.WithViewMode(v.viewMode)}, v.layoutOptions...)...)
	var hudOpts []hud.ControllerBuilderOption
	if v.fadeDuration >= 0 {
		hudOpts = append(hudOpts, hud.WithFadeDuration(v.fadeDuration))
	}
	v.hud = hud.NewController(lib, hudOpts...)
	v.compositor = compositor.NewCompositor(ctx, v.layout, v.hud, lib, v.compositorOpts...)
	v.playback = animation.NewPlayback(dispatcher, v.playbackOptions...)
	v.playback.SetPositionListener(v.showPosition)
	if v.loader == nil {
		v.loader = loader.NewLoader()
	}
	return v, nil
}

func (v *viewer) Open(name string) {
	v.mu.Lock()
	v.loadSeq++
	seq := v.loadSeq
	v.current = nil
	v.tab = compositor.TabState{Status: compositor.TabLoading}
	v.mu.Unlock()

	v.playback.SetAnimations(nil)
	log.Printf("[Viewer] opening %s", name)
	scene.OpenAsync(name, v.loader, v.dispatcher, func(s scene.Scene, err error) {
		v.finishOpen(seq, s, err)
	}, v.sceneOptions...)
}

// finishOpen runs on the UI thread with a load result. Results of superseded loads are ignored.
func (v *viewer) finishOpen(seq uint64, s scene.Scene, err error) {
	v.mu.Lock()
	if seq != v.loadSeq {
		v.mu.Unlock()
		return
	}
	if err != nil {
		v.tab = compositor.TabState{Status: compositor.TabFailed, ErrorMessage: err.Error()}
		v.mu.Unlock()
		return
	}
	v.current = s
	v.tab = compositor.TabState{Status: compositor.TabLoaded, Scene: s}
	v.mu.Unlock()

	anims := s.Animations()
	v.playback.SetAnimations(anims)
	log.Printf("[Viewer] loaded %s with %d animations", s.Name(), len(anims))
	if v.autoPlay && len(anims) > 0 {
		if err := v.playback.SelectAnimation(0); err != nil {
			log.Printf("[Viewer] select animation: %v", err)
			return
		}
		if err := v.playback.Play(); err != nil {
			log.Printf("[Viewer] play: %v", err)
		}
	}
}

// showPosition receives playback position changes and poses the scene.
func (v *viewer) showPosition(seconds float64) {
	v.mu.Lock()
	s := v.current
	v.mu.Unlock()
	if s != nil {
		s.SetPose(v.playback.Clock().ActiveAnimation(), seconds)
	}
}

func (v *viewer) Tab() compositor.TabState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tab
}

func (v *viewer) Scene() scene.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

func (v *viewer) Layout() viewport.Layout {
	return v.layout
}

func (v *viewer) Playback() animation.Playback {
	return v.playback
}

func (v *viewer) Compositor() compositor.Compositor {
	return v.compositor
}

func (v *viewer) HUD() hud.Controller {
	return v.hud
}

func (v *viewer) Update(dt float64) {
	v.mu.Lock()
	pending := v.pending
	v.pending = [viewport.MaxViewports]camera.Input{}
	var move camera.MoveKeys
	for key := range v.held {
		move |= moveKeys[key]
	}
	v.mu.Unlock()

	active := v.layout.ActiveIndex()
	for i := range pending {
		ctrl := v.layout.ActiveCameraController(i)
		if ctrl == nil {
			continue
		}
		in := pending[i]
		in.DeltaTime = float32(dt)
		if i == active {
			in.Move = move
		}
		if in == (camera.Input{DeltaTime: in.DeltaTime}) {
			continue
		}
		ctrl.Update(in)
	}
	v.compositor.Update(dt)
}

func (v *viewer) Render() error {
	return v.compositor.RenderFrame(v.Tab())
}

func (v *viewer) OnMouseMove(x, y int) {
	p := image.Pt(x, y)
	w, h := v.ctx.Resolution()

	v.mu.Lock()
	delta := p.Sub(v.mouse)
	v.mouse = p
	drag := v.dragViewport
	left := v.buttons[ButtonLeft]
	pan := v.buttons[ButtonMiddle] || v.buttons[ButtonRight]
	if drag != noViewport {
		in := &v.pending[drag]
		if left {
			in.DragX += float32(delta.X)
			in.DragY += float32(delta.Y)
		}
		if pan {
			in.PanX += float32(delta.X)
			in.PanY += float32(delta.Y)
		}
	}
	v.mu.Unlock()

	if v.layout.IsDraggingSplitter() {
		v.layout.DragSplitter(p, w, h)
		return
	}
	idx, ok := v.layout.ViewportAt(p, w, h)
	if !ok {
		idx = noViewport
	}
	v.hud.OnMouseMove(p, idx)
}

func (v *viewer) OnMouseDown(button MouseButton, x, y int) {
	if button < 0 || button >= buttonCount {
		return
	}
	p := image.Pt(x, y)
	w, h := v.ctx.Resolution()

	v.mu.Lock()
	v.mouse = p
	v.mu.Unlock()

	if button == ButtonLeft {
		if v.hud.OnMouseDown(p) {
			return
		}
		if v.layout.BeginSplitterDrag(p, w, h) {
			return
		}
	}

	idx, ok := v.layout.ViewportAt(p, w, h)
	if !ok {
		return
	}
	if button == ButtonLeft && idx != v.layout.ActiveIndex() {
		if err := v.layout.SetActive(idx); err != nil {
			log.Printf("[Viewer] activate viewport %d: %v", idx, err)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.buttons[button] = true
	if v.dragViewport == noViewport {
		v.dragViewport = idx
	}
}

func (v *viewer) OnMouseUp(button MouseButton, x, y int) {
	if button < 0 || button >= buttonCount {
		return
	}
	if button == ButtonLeft && v.layout.IsDraggingSplitter() {
		v.layout.EndSplitterDrag()
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.mouse = image.Pt(x, y)
	v.buttons[button] = false
	for _, down := range v.buttons {
		if down {
			return
		}
	}
	v.dragViewport = noViewport
}

func (v *viewer) OnScroll(delta float32) {
	w, h := v.ctx.Resolution()
	v.mu.Lock()
	defer v.mu.Unlock()
	idx, ok := v.layout.ViewportAt(v.mouse, w, h)
	if !ok {
		idx = v.layout.ActiveIndex()
	}
	v.pending[idx].Scroll += delta
}

func (v *viewer) OnKeyDown(key uint32) {
	if _, ok := moveKeys[key]; ok {
		v.mu.Lock()
		v.held[key] = true
		v.mu.Unlock()
		return
	}

	active := v.layout.ActiveIndex()
	switch key {
	case common.KeyEsc:
		if v.onQuit != nil {
			v.onQuit()
		}
	case common.KeyR:
		v.layout.ResetCamera(active)
	case common.Key1, common.Key2, common.Key3, common.Key4, common.Key5:
		mode := camera.Modes()[key-common.Key1]
		if err := v.layout.SwitchCameraMode(active, mode); err != nil {
			log.Printf("[Viewer] switch camera mode: %v", err)
		}
	case common.KeyV:
		v.layout.SetViewMode(v.layout.ViewMode().Next())
	case common.KeyF:
		v.compositor.SetShowFPS(!v.compositor.ShowFPS())
	case common.KeySpace:
		v.logPlaybackError("toggle play", v.playback.TogglePlay())
	case common.KeyL:
		v.playback.SetLoop(!v.playback.Loop())
	case common.KeyEqual, common.KeyKPAdd:
		v.playback.Faster()
	case common.KeyMinus, common.KeyKPSubtract:
		v.playback.Slower()
	case common.KeyHome:
		v.logPlaybackError("seek", v.playback.Seek(0))
	case common.KeyEnd:
		v.logPlaybackError("seek", v.playback.Seek(v.playback.Clock().Duration()))
	case common.KeyLBracket:
		v.stepAnimation(-1)
	case common.KeyRBracket:
		v.stepAnimation(1)
	}
}

func (v *viewer) OnKeyUp(key uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.held, key)
}

func (v *viewer) OnDrop(paths []string) {
	if len(paths) == 0 {
		return
	}
	v.Open(paths[0])
}

// stepAnimation moves the selection through the bind pose and every animation, wrapping at both ends.
func (v *viewer) stepAnimation(step int) {
	n := len(v.playback.Clock().Animations())
	if n == 0 {
		return
	}
	// Slot 0 is the bind pose, slot i+1 is animation i.
	slot := v.playback.Clock().ActiveAnimation() + 1
	slot = ((slot+step)%(n+1) + n + 1) % (n + 1)
	v.logPlaybackError("select animation", v.playback.SelectAnimation(slot-1))
}

func (v *viewer) logPlaybackError(op string, err error) {
	if err == nil {
		return
	}
	var noAnim *animation.NoActiveAnimationError
	if errors.As(err, &noAnim) {
		return
	}
	log.Printf("[Viewer] %s: %v", op, err)
}

func (v *viewer) Close() {
	v.mu.Lock()
	v.loadSeq++
	v.mu.Unlock()
	v.playback.Close()
	v.compositor.Close()
}
