package animation

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerStopIsSynchronous(t *testing.T) {
	var posted atomic.Int64
	d := DispatcherFunc(func(fn func()) bool {
		posted.Add(1)
		return true
	})

	tk := NewTicker(time.Millisecond, d, func() {})
	tk.Start()
	deadline := time.Now().Add(2 * time.Second)
	for posted.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if posted.Load() == 0 {
		t.Fatal("ticker never posted")
	}

	tk.Stop()
	if tk.Running() {
		t.Fatal("Running = true after Stop")
	}
	after := posted.Load()
	time.Sleep(20 * time.Millisecond)
	if got := posted.Load(); got != after {
		t.Fatalf("%d callbacks posted after Stop returned", got-after)
	}
}

func TestTickerRestart(t *testing.T) {
	var posted atomic.Int64
	d := DispatcherFunc(func(fn func()) bool {
		posted.Add(1)
		return true
	})
	tk := NewTicker(0, d, func() {})

	tk.Stop()
	tk.Start()
	tk.Start()
	if !tk.Running() {
		t.Fatal("Running = false after Start")
	}
	tk.Stop()
	tk.Start()
	tk.Stop()
	if tk.Running() {
		t.Fatal("Running = true after Stop")
	}
}

// blockingDispatcher is a bounded UI queue whose Post waits for room.
type blockingDispatcher struct {
	queued chan func()
}

func (d *blockingDispatcher) Post(fn func()) bool {
	d.queued <- fn
	return true
}

// cancelableDispatcher adds a hand-off that can be abandoned.
type cancelableDispatcher struct {
	blockingDispatcher
}

func (d *cancelableDispatcher) PostOrCancel(fn func(), cancel <-chan struct{}) bool {
	select {
	case d.queued <- fn:
		return true
	case <-cancel:
		return false
	}
}

func TestPauseWithUndrainedQueueReturns(t *testing.T) {
	d := &blockingDispatcher{queued: make(chan func(), 1)}
	p := NewPlayback(d, WithTickInterval(time.Millisecond))
	p.SetAnimations([]Animation{NewClip("Walk", 50, 25)})
	_ = p.SelectAnimation(0)
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	returned := make(chan struct{})
	go func() {
		p.Pause()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Pause did not return while the queue was full")
	}
	if n := len(d.queued); n != 1 {
		t.Fatalf("%d ticks queued, want 1", n)
	}
}

func TestStopAbandonsBlockedPost(t *testing.T) {
	d := &cancelableDispatcher{blockingDispatcher{queued: make(chan func(), 1)}}
	d.queued <- func() {}

	tk := NewTicker(time.Millisecond, d, func() {})
	tk.Start()
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		tk.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while the ticker was blocked posting")
	}
}

func TestTickerCoalescesUntilTickRuns(t *testing.T) {
	d := &blockingDispatcher{queued: make(chan func(), 16)}
	var ran atomic.Int64
	tk := NewTicker(time.Millisecond, d, func() { ran.Add(1) })
	tk.Start()
	defer tk.Stop()

	time.Sleep(30 * time.Millisecond)
	if n := len(d.queued); n != 1 {
		t.Fatalf("%d ticks queued before the first ran, want 1", n)
	}
	(<-d.queued)()

	deadline := time.Now().Add(2 * time.Second)
	for len(d.queued) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if len(d.queued) == 0 {
		t.Fatal("no tick queued after the previous one ran")
	}
	if ran.Load() != 1 {
		t.Fatalf("ran = %d, want 1", ran.Load())
	}
}
