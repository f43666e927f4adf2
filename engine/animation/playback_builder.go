package animation

import "time"

// PlaybackBuilderOption is a functional option for configuring a Playback.
type PlaybackBuilderOption func(*playback)

// WithClock sets the clock driven by the playback.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - PlaybackBuilderOption: functional option to set the clock
func WithClock(c Clock) PlaybackBuilderOption {
	return func(p *playback) {
		p.clock = c
	}
}

// WithTickInterval sets the ticker period.
//
// Parameters:
//   - interval: tick period (ignored if <= 0)
//
// Returns:
//   - PlaybackBuilderOption: functional option to set the tick interval
func WithTickInterval(interval time.Duration) PlaybackBuilderOption {
	return func(p *playback) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithSpeedSteps sets the slower/faster factor and the number of levels in each direction.
//
// Parameters:
//   - factor: multiplier applied by Slower, in (0, 1)
//   - maxLevels: number of steps allowed away from 1x
//
// Returns:
//   - PlaybackBuilderOption: functional option to set the speed steps
func WithSpeedSteps(factor float64, maxLevels int) PlaybackBuilderOption {
	return func(p *playback) {
		if factor > 0 && factor < 1 {
			p.speedFactor = factor
		}
		if maxLevels > 0 {
			p.maxSpeedLevels = maxLevels
		}
	}
}

// WithTimeSource replaces the wall clock used to measure elapsed time between ticks.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - PlaybackBuilderOption: functional option to set the time source
func WithTimeSource(now func() time.Time) PlaybackBuilderOption {
	return func(p *playback) {
		if now != nil {
			p.now = now
		}
	}
}
