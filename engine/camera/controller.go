package camera

import "fmt"

// MoveKeys is a bitmask of held movement keys.
type MoveKeys uint8

const (
	MoveForward MoveKeys = 1 << iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
)

// Has reports whether all keys in k are held.
func (m MoveKeys) Has(k MoveKeys) bool {
	return m&k == k
}

// Input is the per-frame input delivered to the controller of the active viewport.
// Drag, pan and scroll amounts are in window pixels / wheel steps accumulated since the last frame.
type Input struct {
	DeltaTime float32
	DragX     float32
	DragY     float32
	PanX      float32
	PanY      float32
	Scroll    float32
	Move      MoveKeys
}

// Controller is the capability shared by all camera variants.
// The variant set is closed: axis-lock X/Y/Z, orbit and first-person, all created by NewController.
type Controller interface {
	// Mode returns the interaction mode implemented by the controller.
	//
	// Returns:
	//   - Mode: the controller's mode
	Mode() Mode

	// Update applies one frame of input.
	//
	// Parameters:
	//   - in: the input accumulated since the last frame
	Update(in Input)

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// Reset restores the controller's initial pose.
	Reset()
}

// NewController creates the controller variant for a mode.
// Panics if mode is not one of the five defined modes.
//
// Parameters:
//   - mode: the interaction mode
//   - options: functional options shared by all variants
//
// Returns:
//   - Controller: the newly created controller
func NewController(mode Mode, options ...ControllerBuilderOption) Controller {
	s := defaultControllerSettings()
	for _, option := range options {
		option(&s)
	}

	switch mode {
	case ModeAxisLockX, ModeAxisLockY, ModeAxisLockZ:
		return newAxisLockController(mode, s)
	case ModeOrbit:
		return newOrbitController(s)
	case ModeFirstPerson:
		return newFirstPersonController(s)
	}
	panic(fmt.Sprintf("camera: unknown mode %d", int(mode)))
}
