package animation

// ClockBuilderOption is a functional option for configuring a Clock.
type ClockBuilderOption func(*clock)

// WithDefaultTicksPerSecond sets the tick rate used for animations that report none.
//
// Parameters:
//   - tps: fallback ticks per second (ignored if <= 0)
//
// Returns:
//   - ClockBuilderOption: functional option to set the fallback rate
func WithDefaultTicksPerSecond(tps float64) ClockBuilderOption {
	return func(c *clock) {
		if tps > 0 {
			c.defaultTicksPerSecond = tps
		}
	}
}

// WithLoop sets the initial loop flag.
//
// Parameters:
//   - loop: true to wrap at the end
//
// Returns:
//   - ClockBuilderOption: functional option to set looping
func WithLoop(loop bool) ClockBuilderOption {
	return func(c *clock) {
		c.loop = loop
	}
}

// WithAnimations sets the initial animation list.
//
// Parameters:
//   - anims: the animations of the loaded scene
//
// Returns:
//   - ClockBuilderOption: functional option to set the animations
func WithAnimations(anims []Animation) ClockBuilderOption {
	return func(c *clock) {
		c.animations = anims
	}
}
