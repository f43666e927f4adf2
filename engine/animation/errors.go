package animation

import "fmt"

// InvalidTimeError is returned when a user-entered seek target cannot be parsed
// or lies outside [0, duration]. The cursor is left unchanged.
type InvalidTimeError struct {
	// Input is the text or value that was rejected.
	Input string
	// Reason is a short explanation of why it was rejected.
	Reason string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("not a valid time %q: %s", e.Input, e.Reason)
}

// Message returns the short inline text shown next to the goto field.
func (e *InvalidTimeError) Message() string {
	return "Not a valid time"
}

// NoActiveAnimationError is returned when play, seek or speed operations are attempted
// while no animation is selected. The operation is suppressed.
type NoActiveAnimationError struct {
	// Op names the suppressed operation.
	Op string
}

func (e *NoActiveAnimationError) Error() string {
	return fmt.Sprintf("%s: no animation selected", e.Op)
}
