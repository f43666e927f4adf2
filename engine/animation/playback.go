package animation

import (
	"log"
	"math"
	"time"
)

const (
	// DefaultSpeedFactor is the multiplier applied by one Slower step (Faster divides by it).
	DefaultSpeedFactor = 0.6666

	// DefaultMaxSpeedLevels bounds the speed adjust level to [-8, +8].
	DefaultMaxSpeedLevels = 8
)

// playback implements the Playback interface.
// All methods run on the UI thread. Tick callbacks carry the generation they were
// created for and are ignored once playback stopped or the animation changed.
type playback struct {
	clock      Clock
	dispatcher Dispatcher
	interval   time.Duration
	now        func() time.Time

	ticker     Ticker
	generation uint64
	lastTick   time.Time

	speedLevel     int
	speedFactor    float64
	maxSpeedLevels int

	onPosition func(seconds float64)
}

// Playback is the playback surface exposed to the host UI.
// It drives a Clock with a Ticker that is created on play and torn down on stop.
type Playback interface {
	// Clock returns the underlying clock.
	//
	// Returns:
	//   - Clock: the clock driven by this playback
	Clock() Clock

	// SetAnimations replaces the animation list, stopping playback and selecting the bind pose.
	//
	// Parameters:
	//   - anims: the animations of the loaded scene
	SetAnimations(anims []Animation)

	// SelectAnimation selects an animation (or NoAnimation). The cursor resets to 0.
	// When playing, the ticker is torn down and recreated for the new animation;
	// selecting NoAnimation stops playback.
	//
	// Parameters:
	//   - index: animation index or NoAnimation
	//
	// Returns:
	//   - error: error if the index is out of range
	SelectAnimation(index int) error

	// Play starts playback and the ticker.
	//
	// Returns:
	//   - error: *NoActiveAnimationError if no animation is selected
	Play() error

	// Pause stops playback. The ticker is stopped before Pause returns.
	Pause()

	// TogglePlay plays when stopped and pauses when playing.
	//
	// Returns:
	//   - error: *NoActiveAnimationError if play was requested with no animation selected
	TogglePlay() error

	// IsPlaying reports whether playback is active.
	//
	// Returns:
	//   - bool: true while playing
	IsPlaying() bool

	// SetSpeed records a speed multiplier.
	//
	// Parameters:
	//   - multiplier: the new speed (must be > 1e-6 while playing)
	//
	// Returns:
	//   - error: *NoActiveAnimationError if no animation is selected; the speed is still recorded
	SetSpeed(multiplier float64) error

	// Speed returns the recorded speed multiplier.
	//
	// Returns:
	//   - float64: the recorded speed
	Speed() float64

	// Slower applies one slower step.
	//
	// Returns:
	//   - bool: false if the lowest level was already reached
	Slower() bool

	// Faster applies one faster step.
	//
	// Returns:
	//   - bool: false if the highest level was already reached
	Faster() bool

	// CanSlower reports whether Slower would change the speed.
	//
	// Returns:
	//   - bool: true if above the lowest level
	CanSlower() bool

	// CanFaster reports whether Faster would change the speed.
	//
	// Returns:
	//   - bool: true if below the highest level
	CanFaster() bool

	// ResetSpeed returns to level 0 and 1x speed.
	ResetSpeed()

	// SpeedLevel returns the number of speed steps away from 1x (negative is slower).
	//
	// Returns:
	//   - int: level within [-max, +max]
	SpeedLevel() int

	// SetLoop toggles wrapping at the end.
	//
	// Parameters:
	//   - loop: true to wrap
	SetLoop(loop bool)

	// Loop returns the loop flag.
	//
	// Returns:
	//   - bool: true if looping
	Loop() bool

	// Seek moves the cursor.
	//
	// Parameters:
	//   - seconds: target position
	//
	// Returns:
	//   - error: *NoActiveAnimationError with no selection, *InvalidTimeError outside [0, duration]
	Seek(seconds float64) error

	// GotoText parses free-form text and seeks to it. The cursor is unchanged on failure.
	//
	// Parameters:
	//   - text: user input
	//
	// Returns:
	//   - error: *NoActiveAnimationError or *InvalidTimeError
	GotoText(text string) error

	// CurrentPosition returns the cursor in seconds.
	//
	// Returns:
	//   - float64: the cursor
	CurrentPosition() float64

	// DisplayPosition returns the position shown on the scrubber: the cursor at the end
	// position, otherwise the cursor modulo the duration.
	//
	// Returns:
	//   - float64: the display position
	DisplayPosition() float64

	// IsAtEnd reports whether the cursor sits at the end of the animation.
	//
	// Returns:
	//   - bool: true at the end
	IsAtEnd() bool

	// ControlsEnabled reports whether animation-dependent controls should be enabled.
	//
	// Returns:
	//   - bool: true when an animation is selected
	ControlsEnabled() bool

	// Labels returns the selection list labels.
	//
	// Returns:
	//   - []string: bind pose entry followed by one entry per animation
	Labels() []string

	// SetPositionListener registers the callback receiving published positions.
	//
	// Parameters:
	//   - fn: callback receiving the display position in seconds (nil to disable)
	SetPositionListener(fn func(seconds float64))

	// Close stops the ticker.
	Close()
}

var _ Playback = &playback{}

// NewPlayback creates a stopped playback controller.
//
// Parameters:
//   - dispatcher: UI-thread queue used by the ticker
//   - options: functional options to configure the playback
//
// Returns:
//   - Playback: the newly created playback controller
func NewPlayback(dispatcher Dispatcher, options ...PlaybackBuilderOption) Playback {
	p := &playback{
		dispatcher:     dispatcher,
		interval:       DefaultTickInterval,
		now:            time.Now,
		speedFactor:    DefaultSpeedFactor,
		maxSpeedLevels: DefaultMaxSpeedLevels,
	}
	for _, option := range options {
		option(p)
	}
	if p.clock == nil {
		p.clock = NewClock()
	}
	return p
}

func (p *playback) Clock() Clock {
	return p.clock
}

func (p *playback) SetAnimations(anims []Animation) {
	p.stopTicker()
	p.clock.SetAnimations(anims)
	p.publish()
}

func (p *playback) SelectAnimation(index int) error {
	wasPlaying := p.clock.IsPlaying()
	p.stopTicker()

	if err := p.clock.SetActiveAnimation(index); err != nil {
		if wasPlaying {
			p.startTicker()
		}
		return err
	}

	if index == NoAnimation {
		log.Printf("[Playback] bind pose selected")
		p.publish()
		return nil
	}

	log.Printf("[Playback] selected animation %d (%.3fs)", index, p.clock.Duration())
	p.publish()
	if wasPlaying {
		p.startTicker()
	}
	return nil
}

func (p *playback) Play() error {
	if err := p.clock.SetPlaying(true); err != nil {
		return err
	}
	if p.ticker == nil {
		p.startTicker()
		log.Printf("[Playback] playing at %.3fx", p.clock.EffectiveSpeed())
	}
	return nil
}

func (p *playback) Pause() {
	_ = p.clock.SetPlaying(false)
	if p.ticker != nil {
		p.stopTicker()
		log.Printf("[Playback] paused at %.3fs", p.clock.Cursor())
	}
}

func (p *playback) TogglePlay() error {
	if p.clock.IsPlaying() {
		p.Pause()
		return nil
	}
	return p.Play()
}

func (p *playback) IsPlaying() bool {
	return p.clock.IsPlaying()
}

func (p *playback) SetSpeed(multiplier float64) error {
	p.clock.SetPlaybackSpeed(multiplier)
	if p.clock.ActiveAnimation() == NoAnimation {
		return &NoActiveAnimationError{Op: "set speed"}
	}
	return nil
}

func (p *playback) Speed() float64 {
	return p.clock.PlaybackSpeed()
}

func (p *playback) Slower() bool {
	if !p.CanSlower() {
		return false
	}
	p.speedLevel--
	p.clock.SetPlaybackSpeed(p.clock.PlaybackSpeed() * p.speedFactor)
	return true
}

func (p *playback) Faster() bool {
	if !p.CanFaster() {
		return false
	}
	p.speedLevel++
	p.clock.SetPlaybackSpeed(p.clock.PlaybackSpeed() / p.speedFactor)
	return true
}

func (p *playback) CanSlower() bool {
	return p.speedLevel > -p.maxSpeedLevels
}

func (p *playback) CanFaster() bool {
	return p.speedLevel < p.maxSpeedLevels
}

func (p *playback) ResetSpeed() {
	p.speedLevel = 0
	p.clock.SetPlaybackSpeed(1.0)
}

func (p *playback) SpeedLevel() int {
	return p.speedLevel
}

func (p *playback) SetLoop(loop bool) {
	p.clock.SetLoop(loop)
}

func (p *playback) Loop() bool {
	return p.clock.Loop()
}

func (p *playback) Seek(seconds float64) error {
	if p.clock.ActiveAnimation() == NoAnimation {
		return &NoActiveAnimationError{Op: "seek"}
	}
	if math.IsNaN(seconds) || seconds < 0 || seconds > p.clock.Duration() {
		return &InvalidTimeError{Input: formatSeconds(seconds), Reason: "outside the animation"}
	}
	p.clock.SetCursor(seconds)
	p.publish()
	return nil
}

func (p *playback) GotoText(text string) error {
	if p.clock.ActiveAnimation() == NoAnimation {
		return &NoActiveAnimationError{Op: "goto"}
	}
	seconds, err := ParseGotoTime(text, p.clock.Duration())
	if err != nil {
		return err
	}
	return p.Seek(seconds)
}

func (p *playback) CurrentPosition() float64 {
	return p.clock.Cursor()
}

func (p *playback) DisplayPosition() float64 {
	d := p.clock.Cursor()
	if dur := p.clock.Duration(); dur > 0 && !p.clock.IsAtEnd() {
		d = math.Mod(d, dur)
	}
	return d
}

func (p *playback) IsAtEnd() bool {
	return p.clock.IsAtEnd()
}

func (p *playback) ControlsEnabled() bool {
	return p.clock.ActiveAnimation() != NoAnimation
}

func (p *playback) Labels() []string {
	return Labels(p.clock.Animations(), p.clock.DefaultTicksPerSecond())
}

func (p *playback) SetPositionListener(fn func(seconds float64)) {
	p.onPosition = fn
}

func (p *playback) Close() {
	p.stopTicker()
}

// startTicker creates a ticker bound to a fresh generation.
func (p *playback) startTicker() {
	p.generation++
	gen := p.generation
	p.lastTick = p.now()
	p.ticker = NewTicker(p.interval, p.dispatcher, func() {
		p.tick(gen)
	})
	p.ticker.Start()
}

// stopTicker tears the ticker down synchronously and invalidates queued ticks.
func (p *playback) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
	p.generation++
}

// tick advances the clock by the wall time since the previous tick, scaled by the effective speed.
func (p *playback) tick(gen uint64) {
	if gen != p.generation || !p.clock.IsPlaying() {
		return
	}
	now := p.now()
	elapsed := now.Sub(p.lastTick).Seconds()
	p.lastTick = now

	p.clock.Advance(elapsed * p.clock.EffectiveSpeed())
	p.publish()
}

// publish hands the display position to the listener.
func (p *playback) publish() {
	if p.onPosition != nil {
		p.onPosition(p.DisplayPosition())
	}
}

func formatSeconds(s float64) string {
	return time.Duration(s * float64(time.Second)).String()
}
