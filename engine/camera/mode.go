package camera

import (
	"fmt"
	"strings"
)

// Mode is a camera interaction mode. The order matches the HUD button order.
type Mode int

const (
	ModeAxisLockX Mode = iota
	ModeAxisLockY
	ModeAxisLockZ
	ModeOrbit
	ModeFirstPerson

	modeCount
)

var modeNames = [modeCount]string{"x", "y", "z", "orbit", "fps"}

var modeTooltips = [modeCount]string{
	"Lock on X axis",
	"Lock on Y axis",
	"Lock on Z axis",
	"Orbit view",
	"First-person view - use WASD or arrows to move",
}

var modeIcons = [modeCount]string{"axis_x", "axis_y", "axis_z", "orbit", "fps"}

// Modes returns all camera modes in HUD order.
//
// Returns:
//   - []Mode: the five modes
func Modes() []Mode {
	return []Mode{ModeAxisLockX, ModeAxisLockY, ModeAxisLockZ, ModeOrbit, ModeFirstPerson}
}

// Valid reports whether m is one of the five modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Tooltip returns the text shown while the mode's HUD button is hovered.
func (m Mode) Tooltip() string {
	if !m.Valid() {
		return ""
	}
	return modeTooltips[m]
}

// IconName returns the key of the mode's icon in the asset library.
func (m Mode) IconName() string {
	if !m.Valid() {
		return ""
	}
	return modeIcons[m]
}

// ParseMode parses a mode name as returned by String.
//
// Parameters:
//   - s: the mode name, case-insensitive
//
// Returns:
//   - Mode: the parsed mode
//   - error: error if the name is unknown
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown camera mode %q", s)
}
