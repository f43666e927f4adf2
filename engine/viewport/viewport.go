package viewport

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

// viewportImpl implements the Viewport interface.
type viewportImpl struct {
	index  int
	bounds common.Bounds
	modes  camera.ModeStateMachine
	camera camera.Camera
}

// Viewport is one slot of the layout: a sub-rectangle of the surface with its own camera.
// The controller belongs to the viewport and survives view mode changes.
type Viewport interface {
	// Index returns the slot index (0..3).
	//
	// Returns:
	//   - int: the slot index
	Index() int

	// Bounds returns the normalized bounds (bottom-left origin).
	//
	// Returns:
	//   - common.Bounds: the current bounds
	Bounds() common.Bounds

	// Mode returns the current camera mode.
	//
	// Returns:
	//   - camera.Mode: the mode
	Mode() camera.Mode

	// Controller returns the controller implementing the current mode.
	//
	// Returns:
	//   - camera.Controller: never nil
	Controller() camera.Controller

	// Camera returns the projection camera rendering this viewport.
	//
	// Returns:
	//   - camera.Camera: the camera, attached to Controller()
	Camera() camera.Camera

	// PrepareCamera sets the camera aspect from the viewport's pixel size and recomputes its matrices.
	//
	// Parameters:
	//   - width, height: surface resolution in pixels
	PrepareCamera(width, height int)
}

var _ Viewport = &viewportImpl{}

func newViewport(index int, mode camera.Mode, options ...camera.ControllerBuilderOption) *viewportImpl {
	modes := camera.NewModeStateMachine(mode, options...)
	return &viewportImpl{
		index:  index,
		modes:  modes,
		camera: camera.NewCamera(camera.WithController(modes.Controller())),
	}
}

func (v *viewportImpl) Index() int {
	return v.index
}

func (v *viewportImpl) Bounds() common.Bounds {
	return v.bounds
}

func (v *viewportImpl) Mode() camera.Mode {
	return v.modes.Mode()
}

func (v *viewportImpl) Controller() camera.Controller {
	return v.modes.Controller()
}

func (v *viewportImpl) Camera() camera.Camera {
	return v.camera
}

func (v *viewportImpl) PrepareCamera(width, height int) {
	r := v.bounds.PixelRect(width, height)
	if r.H > 0 && r.W > 0 {
		v.camera.SetAspect(float32(r.W) / float32(r.H))
	}
	v.camera.Update()
}

// switchMode swaps the controller and rebinds the camera to it.
func (v *viewportImpl) switchMode(mode camera.Mode) bool {
	if !v.modes.SwitchMode(mode) {
		return false
	}
	v.camera.SetController(v.modes.Controller())
	return true
}
