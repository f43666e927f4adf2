package camera

import "github.com/chewxy/math32"

// controllerSettings holds the tunables shared by every controller variant.
// Each variant copies the settings on creation and restores them on Reset.
type controllerSettings struct {
	target [3]float32

	radius    float32
	minRadius float32
	maxRadius float32

	azimuth   float32
	elevation float32

	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32
	moveSpeed        float32
}

func defaultControllerSettings() controllerSettings {
	return controllerSettings{
		radius:    5.0,
		minRadius: 0.5,
		maxRadius: 50.0,

		azimuth:   math32.Pi / 4,
		elevation: math32.Pi / 6,

		orbitSpeed:       0.03,
		mouseSensitivity: 0.005,
		zoomSpeed:        0.5,
		panSpeed:         0.01,
		moveSpeed:        2.0,
	}
}

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controllerSettings)

// WithTarget sets the look-at point (orbit, axis-lock) or the point the first-person camera starts facing.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - ControllerBuilderOption: functional option to set the target
func WithTarget(x, y, z float32) ControllerBuilderOption {
	return func(s *controllerSettings) {
		s.target = [3]float32{x, y, z}
	}
}

// WithRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: distance from the target
//
// Returns:
//   - ControllerBuilderOption: functional option to set the radius
func WithRadius(radius float32) ControllerBuilderOption {
	return func(s *controllerSettings) {
		s.radius = radius
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - min: minimum distance
//   - max: maximum distance
//
// Returns:
//   - ControllerBuilderOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) ControllerBuilderOption {
	return func(s *controllerSettings) {
		s.minRadius = min
		s.maxRadius = max
	}
}

// WithAngles sets the initial azimuth and elevation in radians.
//
// Parameters:
//   - azimuth: horizontal angle around Y (0 = +Z axis)
//   - elevation: vertical angle from the horizontal plane
//
// Returns:
//   - ControllerBuilderOption: functional option to set the angles
func WithAngles(azimuth, elevation float32) ControllerBuilderOption {
	return func(s *controllerSettings) {
		s.azimuth = azimuth
		s.elevation = elevation
	}
}

// WithMouseSensitivity sets the radians per dragged pixel.
//
// Parameters:
//   - sensitivity: multiplier for mouse movement
//
// Returns:
//   - ControllerBuilderOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) ControllerBuilderOption {
	return func(s *controllerSettings) {
		s.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the distance change per scroll step.
//
// Parameters:
//   - speed: multiplier for scroll input
//
// Returns:
//   - ControllerBuilderOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) ControllerBuilderOption {
	return func(s *controllerSettings) {
		s.zoomSpeed = speed
	}
}

// WithPanSpeed sets the world units per panned pixel at unit distance.
//
// Parameters:
//   - speed: multiplier for pan input
//
// Returns:
//   - ControllerBuilderOption: functional option to set pan speed
func WithPanSpeed(speed float32) ControllerBuilderOption {
	return func(s *controllerSettings) {
		s.panSpeed = speed
	}
}

// WithMoveSpeed sets the first-person movement speed in world units per second.
//
// Parameters:
//   - speed: units per second
//
// Returns:
//   - ControllerBuilderOption: functional option to set move speed
func WithMoveSpeed(speed float32) ControllerBuilderOption {
	return func(s *controllerSettings) {
		s.moveSpeed = speed
	}
}
