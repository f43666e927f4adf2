package viewport

import "github.com/Carmen-Shannon/oxy-viewer/engine/camera"

// layoutConfig collects construction-only settings.
type layoutConfig struct {
	modes             [MaxViewports]camera.Mode
	controllerOptions []camera.ControllerBuilderOption
}

// LayoutBuilderOption is a functional option for configuring a Layout.
type LayoutBuilderOption func(*layoutImpl, *layoutConfig)

// WithViewMode sets the initial view mode.
//
// Parameters:
//   - mode: the initial view mode
//
// Returns:
//   - LayoutBuilderOption: functional option to set the view mode
func WithViewMode(mode ViewMode) LayoutBuilderOption {
	return func(l *layoutImpl, _ *layoutConfig) {
		if mode >= ViewModeSingle && mode <= ViewModeFour {
			l.viewMode = mode
		}
	}
}

// WithInitialModes sets the camera mode each slot starts in.
//
// Parameters:
//   - modes: one mode per slot
//
// Returns:
//   - LayoutBuilderOption: functional option to set the initial camera modes
func WithInitialModes(modes [MaxViewports]camera.Mode) LayoutBuilderOption {
	return func(_ *layoutImpl, cfg *layoutConfig) {
		cfg.modes = modes
	}
}

// WithControllerOptions sets options applied to every camera controller the layout creates.
//
// Parameters:
//   - options: controller options
//
// Returns:
//   - LayoutBuilderOption: functional option to set controller options
func WithControllerOptions(options ...camera.ControllerBuilderOption) LayoutBuilderOption {
	return func(_ *layoutImpl, cfg *layoutConfig) {
		cfg.controllerOptions = append(cfg.controllerOptions, options...)
	}
}

// WithSplit sets the initial splitter positions.
//
// Parameters:
//   - x: vertical separator position in [0.1, 0.9]
//   - y: horizontal separator position in [0.1, 0.9]
//
// Returns:
//   - LayoutBuilderOption: functional option to set the splitters
func WithSplit(x, y float64) LayoutBuilderOption {
	return func(l *layoutImpl, _ *layoutConfig) {
		if x >= minSplit && x <= maxSplit {
			l.splitX = x
		}
		if y >= minSplit && y <= maxSplit {
			l.splitY = y
		}
	}
}
