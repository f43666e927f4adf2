package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// defaultQueueSize bounds the UI queue; posters block while it is full.
const defaultQueueSize = 256

// engine implements the Engine interface.
// Everything it calls back runs on the UI thread, the goroutine that calls Run or Step.
type engine struct {
	mu *sync.Mutex

	queue chan func()

	quitChannel chan struct{}
	quitOnce    sync.Once

	window window.Window
	device gfx.Device

	profiler         *profiler.Profiler
	profilingEnabled bool

	updateCallback func(deltaTime float64)
	renderCallback func(deltaTime float64) error

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
	now              func() time.Time
}

// Engine runs the UI thread: it drains work posted from background goroutines, then updates and
// renders one frame per iteration.
type Engine interface {
	animation.Dispatcher
	animation.CancelablePoster

	// Window returns the window, nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Device returns the graphics device frames are drawn into.
	//
	// Returns:
	//   - gfx.Device: the device
	Device() gfx.Device

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetUpdateCallback registers the function called once per frame before rendering.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetUpdateCallback(callback func(deltaTime float64))

	// SetRenderCallback registers the function that draws a frame between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float64) error)

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step runs one frame with the given delta: posted work, update, render, profiler.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - bool: false once the engine has quit
	Step(deltaTime float64) bool

	// Run drives frames from the window message loop until the window closes or Quit is called.
	// Must be called from the goroutine that created the window. The window is left open for the
	// caller to Close.
	//
	// Returns:
	//   - error: error if the engine has no window
	Run() error

	// Quit stops the loop. Pending posts are dropped and later posts are refused.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done is closed when the engine quits.
	//
	// Returns:
	//   - <-chan struct{}: the quit channel
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		queue:       make(chan func(), defaultQueueSize),
		quitChannel: make(chan struct{}),
		now:         time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.device != nil && width > 0 && height > 0 {
				e.device.Resize(width, height)
			}
		})
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Device() gfx.Device {
	return e.device
}

// Post queues fn for the UI thread. It blocks while the queue is full and returns false once the
// engine has quit. Calling it from the UI thread with a full queue deadlocks.
func (e *engine) Post(fn func()) bool {
	return e.PostOrCancel(fn, nil)
}

// PostOrCancel is Post that also gives up once cancel is closed. A nil cancel never fires.
func (e *engine) PostOrCancel(fn func(), cancel <-chan struct{}) bool {
	select {
	case <-e.quitChannel:
		return false
	case <-cancel:
		return false
	default:
	}
	select {
	case e.queue <- fn:
		return true
	case <-e.quitChannel:
		return false
	case <-cancel:
		return false
	}
}

func (e *engine) Run() error {
	if e.window == nil {
		return fmt.Errorf("engine has no window")
	}
	e.lastFrame = e.now()
	e.window.SetUpdateCallback(func() {
		now := e.now()
		dt := now.Sub(e.lastFrame).Seconds()
		e.lastFrame = now
		if !e.Step(dt) {
			e.window.RequestClose()
			return
		}
		e.limitFrameRate(now)
	})
	e.window.ProcessMessages()
	e.Quit()
	return nil
}

func (e *engine) Step(deltaTime float64) bool {
	if e.quitting() {
		return false
	}
	e.drain()

	if e.updateCallback != nil {
		e.updateCallback(deltaTime)
	}
	e.render(deltaTime)

	e.mu.Lock()
	profiling := e.profilingEnabled
	e.mu.Unlock()
	if profiling {
		e.profiler.Tick()
	}
	return !e.quitting()
}

// drain runs the work queued before the call. Work posted while draining waits for the next frame.
func (e *engine) drain() {
	for n := len(e.queue); n > 0; n-- {
		select {
		case fn := <-e.queue:
			fn()
		default:
			return
		}
	}
}

// render draws one frame. A panic inside the render callback is logged and stops the engine.
func (e *engine) render(deltaTime float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render recovered from panic: %v", r)
			e.Quit()
		}
	}()

	if e.device != nil {
		if err := e.device.BeginFrame(); err != nil {
			log.Printf("[Engine] begin frame: %v", err)
			return
		}
	}
	if e.renderCallback != nil {
		if err := e.renderCallback(deltaTime); err != nil {
			log.Printf("[Engine] render: %v", err)
		}
	}
	if e.device != nil {
		if err := e.device.EndFrame(); err != nil {
			log.Printf("[Engine] end frame: %v", err)
		}
	}
}

func (e *engine) limitFrameRate(frameStart time.Time) {
	if e.renderFrameLimit <= 0 {
		return
	}
	if remaining := e.renderFrameLimit - e.now().Sub(frameStart); remaining > 0 {
		time.Sleep(remaining)
	}
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetUpdateCallback(callback func(deltaTime float64)) {
	e.updateCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float64) error) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
