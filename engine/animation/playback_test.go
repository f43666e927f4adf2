package animation

import (
	"errors"
	"math"
	"testing"
	"time"
)

// queueDispatcher collects posted callbacks until the test drains them.
type queueDispatcher struct {
	queued chan func()
}

func newQueueDispatcher() *queueDispatcher {
	return &queueDispatcher{queued: make(chan func(), 1024)}
}

func (d *queueDispatcher) Post(fn func()) bool {
	select {
	case d.queued <- fn:
		return true
	default:
		return false
	}
}

// drain runs every queued callback on the calling goroutine.
func (d *queueDispatcher) drain() int {
	n := 0
	for {
		select {
		case fn := <-d.queued:
			fn()
			n++
		default:
			return n
		}
	}
}

// fakeNow is a manually advanced time source.
type fakeNow struct {
	t time.Time
}

func (f *fakeNow) now() time.Time { return f.t }

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestPlayback(t *testing.T, loop bool) (*playback, *queueDispatcher, *fakeNow) {
	t.Helper()
	d := newQueueDispatcher()
	clk := &fakeNow{t: time.Unix(1000, 0)}
	p := NewPlayback(d,
		WithClock(NewClock(WithLoop(loop))),
		WithTimeSource(clk.now),
		WithTickInterval(time.Millisecond),
	).(*playback)
	p.SetAnimations([]Animation{NewClip("Walk", 50, 25), NewClip("Run", 25, 25)})
	t.Cleanup(p.Close)
	return p, d, clk
}

// waitForTick blocks until the ticker has posted at least one callback.
func waitForTick(t *testing.T, d *queueDispatcher) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for len(d.queued) == 0 {
		select {
		case <-deadline:
			t.Fatal("ticker posted nothing")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestPlaybackTickAdvancesByElapsedTime(t *testing.T) {
	p, d, clk := newTestPlayback(t, true)
	_ = p.SelectAnimation(0)

	var published []float64
	p.SetPositionListener(func(s float64) { published = append(published, s) })

	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	waitForTick(t, d)

	clk.advance(500 * time.Millisecond)
	d.drain()
	if got := p.CurrentPosition(); math.Abs(got-0.5) > eps {
		t.Fatalf("CurrentPosition = %v, want 0.5", got)
	}

	// Later ticks see no elapsed time on the fake clock.
	waitForTick(t, d)
	d.drain()
	if got := p.CurrentPosition(); math.Abs(got-0.5) > eps {
		t.Fatalf("CurrentPosition = %v after idle ticks, want 0.5", got)
	}
	if len(published) == 0 || math.Abs(published[len(published)-1]-0.5) > eps {
		t.Fatalf("published positions %v", published)
	}
	p.Pause()
}

func TestPlaybackIgnoresTicksAfterPause(t *testing.T) {
	p, d, clk := newTestPlayback(t, true)
	_ = p.SelectAnimation(0)
	_ = p.Play()
	waitForTick(t, d)

	p.Pause()
	if p.ticker != nil {
		t.Fatal("ticker still present after Pause")
	}
	clk.advance(time.Second)
	d.drain()

	if got := p.CurrentPosition(); got != 0 {
		t.Fatalf("CurrentPosition = %v after stale ticks, want 0", got)
	}
}

func TestPlaybackIgnoresTicksFromPreviousAnimation(t *testing.T) {
	p, d, clk := newTestPlayback(t, true)
	_ = p.SelectAnimation(0)
	_ = p.Play()
	waitForTick(t, d)
	stale := p.generation

	if err := p.SelectAnimation(1); err != nil {
		t.Fatalf("SelectAnimation: %v", err)
	}
	if !p.IsPlaying() || p.ticker == nil {
		t.Fatal("switching animations while playing must keep playing")
	}
	clk.advance(300 * time.Millisecond)
	p.tick(stale)
	if got := p.CurrentPosition(); got != 0 {
		t.Fatalf("stale tick moved the cursor to %v", got)
	}
}

func TestPlaybackSelectBindPoseStops(t *testing.T) {
	p, _, _ := newTestPlayback(t, true)
	_ = p.SelectAnimation(0)
	_ = p.Play()

	if err := p.SelectAnimation(NoAnimation); err != nil {
		t.Fatalf("SelectAnimation: %v", err)
	}
	if p.IsPlaying() || p.ticker != nil {
		t.Fatal("bind pose selection left playback running")
	}
	if p.ControlsEnabled() {
		t.Fatal("controls enabled without an animation")
	}
}

func TestPlaybackGotoText(t *testing.T) {
	p, _, _ := newTestPlayback(t, false)
	_ = p.SelectAnimation(0)
	p.Clock().SetCursor(0.7)

	err := p.GotoText("-1")
	var invalid *InvalidTimeError
	if !errors.As(err, &invalid) {
		t.Fatalf("GotoText(-1) error = %v, want InvalidTimeError", err)
	}
	if invalid.Message() != "Not a valid time" {
		t.Fatalf("Message = %q", invalid.Message())
	}
	if got := p.CurrentPosition(); got != 0.7 {
		t.Fatalf("cursor changed to %v on failed goto", got)
	}

	if err := p.GotoText("1.5"); err != nil {
		t.Fatalf("GotoText(1.5): %v", err)
	}
	if got := p.CurrentPosition(); got != 1.5 {
		t.Fatalf("CurrentPosition = %v, want 1.5", got)
	}
}

func TestPlaybackOperationsWithoutAnimation(t *testing.T) {
	p, _, _ := newTestPlayback(t, true)

	var noAnim *NoActiveAnimationError
	if err := p.Play(); !errors.As(err, &noAnim) {
		t.Fatalf("Play error = %v", err)
	}
	if p.IsPlaying() {
		t.Fatal("playing without an animation")
	}
	if err := p.Seek(0.5); !errors.As(err, &noAnim) {
		t.Fatalf("Seek error = %v", err)
	}
	if err := p.SetSpeed(2); !errors.As(err, &noAnim) {
		t.Fatalf("SetSpeed error = %v", err)
	}
	if p.Speed() != 2 {
		t.Fatalf("Speed = %v, speed should still be recorded", p.Speed())
	}
}

func TestPlaybackSpeedLevels(t *testing.T) {
	p, _, _ := newTestPlayback(t, true)
	_ = p.SelectAnimation(0)

	for i := 0; i < DefaultMaxSpeedLevels; i++ {
		if !p.Faster() {
			t.Fatalf("Faster refused at level %d", p.SpeedLevel())
		}
	}
	if p.CanFaster() || p.Faster() {
		t.Fatal("Faster allowed past the maximum level")
	}
	want := math.Pow(1/DefaultSpeedFactor, DefaultMaxSpeedLevels)
	if math.Abs(p.Speed()-want) > 1e-9 {
		t.Fatalf("Speed = %v, want %v", p.Speed(), want)
	}

	p.ResetSpeed()
	if p.Speed() != 1 || p.SpeedLevel() != 0 {
		t.Fatalf("after reset: speed %v level %d", p.Speed(), p.SpeedLevel())
	}
	p.Slower()
	p.Faster()
	if p.Speed() != 1 {
		t.Fatalf("Slower then Faster = %v, want exactly 1", p.Speed())
	}
}

func TestPlaybackLabels(t *testing.T) {
	p, _, _ := newTestPlayback(t, true)
	labels := p.Labels()
	if len(labels) != 3 || labels[1] != "Walk (2.000s)" || labels[2] != "Run (1.000s)" {
		t.Fatalf("Labels = %v", labels)
	}
}
