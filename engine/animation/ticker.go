package animation

import (
	"sync/atomic"
	"time"
)

// DefaultTickInterval is the period of the playback ticker.
const DefaultTickInterval = 30 * time.Millisecond

// Dispatcher marshals work onto the UI thread.
// Post reports false when the callback could not be queued.
type Dispatcher interface {
	Post(fn func()) bool
}

// CancelablePoster is implemented by dispatchers whose Post blocks while their queue is full.
// PostOrCancel gives up and returns false once cancel is closed.
type CancelablePoster interface {
	PostOrCancel(fn func(), cancel <-chan struct{}) bool
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func()) bool

// Post calls f(fn).
func (f DispatcherFunc) Post(fn func()) bool {
	return f(fn)
}

// ticker implements the Ticker interface.
// Start and Stop are called from the UI thread only.
type ticker struct {
	interval   time.Duration
	dispatcher Dispatcher
	onTick     func()

	stop    chan struct{}
	done    chan struct{}
	running bool

	// pending is set while a posted tick has not yet run; further ticks are skipped.
	pending atomic.Bool
}

// Ticker fires a callback on the UI thread at a fixed interval.
// The timer goroutine never runs the callback itself; it posts it through a Dispatcher.
type Ticker interface {
	// Start launches the timer goroutine. Calling Start on a running ticker is a no-op.
	Start()

	// Stop terminates the timer goroutine and returns once it has exited,
	// so no further callbacks are posted after Stop returns.
	Stop()

	// Running reports whether the timer goroutine is active.
	//
	// Returns:
	//   - bool: true between Start and Stop
	Running() bool
}

var _ Ticker = &ticker{}

// NewTicker creates a stopped ticker.
//
// Parameters:
//   - interval: tick period (DefaultTickInterval if <= 0)
//   - dispatcher: the UI-thread queue receiving the callbacks
//   - onTick: the callback run on the UI thread for each tick
//
// Returns:
//   - Ticker: the newly created ticker
func NewTicker(interval time.Duration, dispatcher Dispatcher, onTick func()) Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &ticker{
		interval:   interval,
		dispatcher: dispatcher,
		onTick:     onTick,
	}
}

func (t *ticker) Start() {
	if t.running {
		return
	}
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.running = true
	t.pending.Store(false)
	go t.run(t.stop, t.done)
}

func (t *ticker) Stop() {
	if !t.running {
		return
	}
	close(t.stop)
	<-t.done
	t.running = false
}

func (t *ticker) Running() bool {
	return t.running
}

// run is the timer goroutine. It exits when stop is closed and closes done on the way out.
// At most one tick is queued at a time, so a slow UI thread coalesces ticks instead of filling
// its queue with them.
func (t *ticker) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	fire := func() {
		t.pending.Store(false)
		t.onTick()
	}
	for {
		select {
		case <-stop:
			return
		case <-tk.C:
			if !t.pending.CompareAndSwap(false, true) {
				continue
			}
			if !t.post(fire, stop) {
				t.pending.Store(false)
			}
		}
	}
}

// post hands fn to the dispatcher, abandoning a blocked hand-off when stop closes.
func (t *ticker) post(fn func(), stop <-chan struct{}) bool {
	if cp, ok := t.dispatcher.(CancelablePoster); ok {
		return cp.PostOrCancel(fn, stop)
	}
	return t.dispatcher.Post(fn)
}
