package camera

import "log"

// modeStateMachine implements the ModeStateMachine interface.
// Owned by one viewport and only touched from the UI thread.
type modeStateMachine struct {
	mode       Mode
	controller Controller
	options    []ControllerBuilderOption
}

// ModeStateMachine holds a viewport's camera mode and the controller implementing it.
// Mode and controller are replaced together; a controller never outlives its mode.
type ModeStateMachine interface {
	// Mode returns the current mode.
	//
	// Returns:
	//   - Mode: the current mode
	Mode() Mode

	// Controller returns the controller of the current mode.
	//
	// Returns:
	//   - Controller: never nil
	Controller() Controller

	// SwitchMode replaces the controller with a fresh one for mode.
	// Switching to the current mode keeps the existing controller.
	//
	// Parameters:
	//   - mode: the requested mode
	//
	// Returns:
	//   - bool: true if the mode changed
	SwitchMode(mode Mode) bool
}

var _ ModeStateMachine = &modeStateMachine{}

// NewModeStateMachine creates a state machine in the given initial mode.
//
// Parameters:
//   - mode: the initial mode
//   - options: controller options applied to every controller the machine creates
//
// Returns:
//   - ModeStateMachine: the newly created state machine
func NewModeStateMachine(mode Mode, options ...ControllerBuilderOption) ModeStateMachine {
	return &modeStateMachine{
		mode:       mode,
		controller: NewController(mode, options...),
		options:    options,
	}
}

func (sm *modeStateMachine) Mode() Mode {
	return sm.mode
}

func (sm *modeStateMachine) Controller() Controller {
	return sm.controller
}

func (sm *modeStateMachine) SwitchMode(mode Mode) bool {
	if mode == sm.mode {
		return false
	}
	if !mode.Valid() {
		log.Printf("[Camera] ignoring unknown mode %d", int(mode))
		return false
	}
	sm.controller = NewController(mode, sm.options...)
	sm.mode = mode
	return true
}
