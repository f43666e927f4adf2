package hud

// ControllerBuilderOption is a functional option for configuring the HUD.
type ControllerBuilderOption func(*controllerImpl)

// WithFadeDuration sets the fade-in time in seconds. Zero disables the fade.
//
// Parameters:
//   - seconds: the fade-in duration
//
// Returns:
//   - ControllerBuilderOption: functional option to set the fade duration
func WithFadeDuration(seconds float64) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if seconds >= 0 {
			c.fadeDuration = seconds
		}
	}
}
