package animation

import (
	"fmt"
	"math"
)

const (
	// speedSnapEpsilon is the distance from 1.0 within which a speed is stored as exactly 1.0.
	speedSnapEpsilon = 1e-7

	// minPlayingSpeed is the smallest multiplier accepted while playing.
	minPlayingSpeed = 1e-6
)

// clock implements the Clock interface.
// A clock is owned by the UI thread; the ticker reaches it only through the Dispatcher.
type clock struct {
	animations            []Animation
	defaultTicksPerSecond float64

	selected int
	duration float64
	cursor   float64

	playing bool
	speed   float64
	loop    bool
}

// Clock owns the playback cursor over the active animation.
// States are Stopped and Playing; while playing, the loop flag selects between
// wrapping (Looping) and holding at the end (HoldAtEnd).
type Clock interface {
	// SetAnimations replaces the animation list and selects the bind pose.
	//
	// Parameters:
	//   - anims: the animations of the loaded scene
	SetAnimations(anims []Animation)

	// Animations returns the animation list.
	//
	// Returns:
	//   - []Animation: the animations, in selection order
	Animations() []Animation

	// DefaultTicksPerSecond returns the fallback tick rate.
	//
	// Returns:
	//   - float64: ticks per second used when an animation reports none
	DefaultTicksPerSecond() float64

	// SetActiveAnimation selects an animation by index, or NoAnimation for the bind pose.
	// Recomputes the duration and resets the cursor to 0.
	//
	// Parameters:
	//   - index: animation index or NoAnimation
	//
	// Returns:
	//   - error: error if the index is out of range
	SetActiveAnimation(index int) error

	// ActiveAnimation returns the selected index, or NoAnimation.
	//
	// Returns:
	//   - int: the selected index
	ActiveAnimation() int

	// Duration returns the active animation's duration in seconds (0 for the bind pose).
	//
	// Returns:
	//   - float64: duration in seconds
	Duration() float64

	// Cursor returns the playback position in seconds.
	//
	// Returns:
	//   - float64: position within [0, Duration()]
	Cursor() float64

	// SetCursor moves the cursor, clamped to [0, Duration()].
	//
	// Parameters:
	//   - seconds: the new position
	SetCursor(seconds float64)

	// Advance moves the cursor by delta seconds. Looping clocks wrap modulo the duration;
	// non-looping clocks stop at the duration and stay there until the cursor is set or
	// the animation is reselected.
	//
	// Parameters:
	//   - delta: elapsed animation time in seconds
	Advance(delta float64)

	// SetPlaybackSpeed records the speed multiplier. Values within 1e-7 of 1 are stored as 1.
	// Panics if the clock is playing and the multiplier is not greater than 1e-6.
	//
	// Parameters:
	//   - multiplier: the new speed
	SetPlaybackSpeed(multiplier float64)

	// PlaybackSpeed returns the recorded multiplier.
	//
	// Returns:
	//   - float64: the recorded speed
	PlaybackSpeed() float64

	// EffectiveSpeed returns the speed applied by the ticker: the recorded multiplier,
	// or 0 when no animation is selected.
	//
	// Returns:
	//   - float64: the effective speed
	EffectiveSpeed() float64

	// SetLoop selects between wrapping and holding at the end.
	//
	// Parameters:
	//   - loop: true to wrap
	SetLoop(loop bool)

	// Loop returns the loop flag.
	//
	// Returns:
	//   - bool: true if the clock wraps
	Loop() bool

	// IsAtEnd reports whether the cursor sits on the end of a non-empty animation.
	//
	// Returns:
	//   - bool: true at the end position
	IsAtEnd() bool

	// IsPlaying reports whether the clock is in the Playing state.
	//
	// Returns:
	//   - bool: true while playing
	IsPlaying() bool

	// SetPlaying transitions between Stopped and Playing.
	// Starting playback without a selected animation leaves the clock stopped.
	//
	// Parameters:
	//   - playing: the requested state
	//
	// Returns:
	//   - error: *NoActiveAnimationError when starting with no animation selected
	SetPlaying(playing bool) error
}

var _ Clock = &clock{}

// NewClock creates a stopped clock with no animation selected.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - Clock: the newly created clock
func NewClock(options ...ClockBuilderOption) Clock {
	c := &clock{
		defaultTicksPerSecond: DefaultTicksPerSecond,
		selected:              NoAnimation,
		speed:                 1.0,
		loop:                  true,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *clock) SetAnimations(anims []Animation) {
	c.animations = anims
	c.playing = false
	_ = c.SetActiveAnimation(NoAnimation)
}

func (c *clock) Animations() []Animation {
	return c.animations
}

func (c *clock) DefaultTicksPerSecond() float64 {
	return c.defaultTicksPerSecond
}

func (c *clock) SetActiveAnimation(index int) error {
	if index != NoAnimation && (index < 0 || index >= len(c.animations)) {
		return fmt.Errorf("animation index %d out of range [0, %d)", index, len(c.animations))
	}
	c.selected = index
	c.cursor = 0
	if index == NoAnimation {
		c.duration = 0
		c.playing = false
		return nil
	}
	c.duration = DurationSeconds(c.animations[index], c.defaultTicksPerSecond)
	return nil
}

func (c *clock) ActiveAnimation() int {
	return c.selected
}

func (c *clock) Duration() float64 {
	return c.duration
}

func (c *clock) Cursor() float64 {
	return c.cursor
}

func (c *clock) SetCursor(seconds float64) {
	if math.IsNaN(seconds) {
		return
	}
	c.cursor = clampCursor(seconds, c.duration)
}

func (c *clock) Advance(delta float64) {
	if c.duration <= 0 {
		c.cursor = 0
		return
	}
	if !c.loop && c.IsAtEnd() {
		c.cursor = c.duration
		return
	}

	next := c.cursor + delta
	if c.loop {
		next = math.Mod(next, c.duration)
		if next < 0 {
			next += c.duration
		}
		// Mod can return the divisor itself for values just below a multiple of it.
		if next >= c.duration {
			next = 0
		}
		c.cursor = next
		return
	}
	c.cursor = clampCursor(next, c.duration)
}

func (c *clock) SetPlaybackSpeed(multiplier float64) {
	if c.playing && !(multiplier > minPlayingSpeed) {
		panic(fmt.Sprintf("animation: playback speed %g while playing; stop playback instead of setting a zero speed", multiplier))
	}
	if math.Abs(multiplier-1.0) < speedSnapEpsilon {
		multiplier = 1.0
	}
	c.speed = multiplier
}

func (c *clock) PlaybackSpeed() float64 {
	return c.speed
}

func (c *clock) EffectiveSpeed() float64 {
	if c.selected == NoAnimation {
		return 0
	}
	return c.speed
}

func (c *clock) SetLoop(loop bool) {
	c.loop = loop
}

func (c *clock) Loop() bool {
	return c.loop
}

func (c *clock) IsAtEnd() bool {
	return c.duration > 0 && c.cursor >= c.duration
}

func (c *clock) IsPlaying() bool {
	return c.playing
}

func (c *clock) SetPlaying(playing bool) error {
	if playing && c.selected == NoAnimation {
		c.playing = false
		return &NoActiveAnimationError{Op: "play"}
	}
	c.playing = playing
	return nil
}

// clampCursor limits seconds to [0, duration].
func clampCursor(seconds, duration float64) float64 {
	if seconds < 0 {
		return 0
	}
	if seconds > duration {
		return duration
	}
	return seconds
}
