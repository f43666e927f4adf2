package compositor

// CompositorBuilderOption is a functional option for configuring a Compositor.
type CompositorBuilderOption func(*compositorImpl)

// WithShowFPS sets whether the FPS counter starts visible.
//
// Parameters:
//   - show: true to draw the counter
//
// Returns:
//   - CompositorBuilderOption: functional option to show the FPS counter
func WithShowFPS(show bool) CompositorBuilderOption {
	return func(c *compositorImpl) {
		c.showFPS = show
	}
}

// WithCameraWorkers sets the number of workers preparing viewport cameras in parallel.
// Zero prepares them on the calling goroutine.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - CompositorBuilderOption: functional option to set the worker count
func WithCameraWorkers(n int) CompositorBuilderOption {
	return func(c *compositorImpl) {
		if n >= 0 {
			c.workers = n
		}
	}
}
