package animation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultTicksPerSecond is used when an animation reports a tick rate of (almost) zero.
	DefaultTicksPerSecond = 25.0

	// minTicksPerSecond is the threshold below which the source tick rate is ignored.
	minTicksPerSecond = 1e-10

	// NoAnimation selects the bind pose.
	NoAnimation = -1
)

// Animation is a single keyframe animation exposed by the scene.
type Animation interface {
	// Name returns the display name of the animation.
	Name() string

	// DurationInTicks returns the animation length in native ticks.
	DurationInTicks() float64

	// TicksPerSecond returns the conversion rate from ticks to seconds.
	// Values at or below 1e-10 mean "unknown".
	TicksPerSecond() float64
}

// Source exposes the list of animations of a loaded scene.
type Source interface {
	// Animations returns the animations in selection order.
	Animations() []Animation
}

// DurationSeconds converts an animation's tick duration to seconds, falling back to
// defaultTicksPerSecond when the animation's own rate is unusable.
//
// Parameters:
//   - a: the animation
//   - defaultTicksPerSecond: the fallback rate
//
// Returns:
//   - float64: duration in seconds
func DurationSeconds(a Animation, defaultTicksPerSecond float64) float64 {
	if tps := a.TicksPerSecond(); tps > minTicksPerSecond {
		return a.DurationInTicks() / tps
	}
	return a.DurationInTicks() / defaultTicksPerSecond
}

// Labels builds the selection list shown to the user: the bind pose entry followed by
// one "<name> (<seconds>s)" entry per animation.
//
// Parameters:
//   - anims: the animations to label
//   - defaultTicksPerSecond: the fallback tick rate
//
// Returns:
//   - []string: labels, index 0 being the bind pose
func Labels(anims []Animation, defaultTicksPerSecond float64) []string {
	out := make([]string, 0, len(anims)+1)
	out = append(out, "None (Bind Pose)")
	for _, a := range anims {
		out = append(out, fmt.Sprintf("%s (%.3fs)", a.Name(), DurationSeconds(a, defaultTicksPerSecond)))
	}
	return out
}

// ParseGotoTime parses free-form goto text into a cursor position.
// The text must be a floating point number within [0, duration].
//
// Parameters:
//   - text: user input
//   - duration: the active animation's duration in seconds
//
// Returns:
//   - float64: the parsed position
//   - error: *InvalidTimeError if the text is not a number or out of range
func ParseGotoTime(text string, duration float64) (float64, error) {
	trimmed := strings.TrimSpace(text)
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &InvalidTimeError{Input: text, Reason: "not a number"}
	}
	if math.IsNaN(v) || v < 0 || v > duration {
		return 0, &InvalidTimeError{Input: text, Reason: fmt.Sprintf("outside [0, %g]", duration)}
	}
	return v, nil
}

// clip is a plain Animation value, used by scenes that build animations in code.
type clip struct {
	name           string
	durationTicks  float64
	ticksPerSecond float64
}

// NewClip creates an Animation from its raw properties.
//
// Parameters:
//   - name: display name
//   - durationInTicks: length in ticks
//   - ticksPerSecond: tick rate (0 to use the default)
//
// Returns:
//   - Animation: the animation value
func NewClip(name string, durationInTicks, ticksPerSecond float64) Animation {
	return clip{name: name, durationTicks: durationInTicks, ticksPerSecond: ticksPerSecond}
}

func (c clip) Name() string             { return c.name }
func (c clip) DurationInTicks() float64 { return c.durationTicks }
func (c clip) TicksPerSecond() float64  { return c.ticksPerSecond }
