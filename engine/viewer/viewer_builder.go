package viewer

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/compositor"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

// ViewerBuilderOption is a functional option for configuring a Viewer.
// Use the With* functions to create options.
type ViewerBuilderOption func(*viewer)

// WithViewMode sets the initial view mode.
//
// Parameters:
//   - mode: the view mode
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithViewMode(mode viewport.ViewMode) ViewerBuilderOption {
	return func(v *viewer) {
		v.viewMode = mode
	}
}

// WithLayoutOptions forwards options to the viewport layout.
//
// Parameters:
//   - options: layout options
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithLayoutOptions(options ...viewport.LayoutBuilderOption) ViewerBuilderOption {
	return func(v *viewer) {
		v.layoutOptions = append(v.layoutOptions, options...)
	}
}

// WithAssetsDir sets a directory whose PNG files replace the built-in HUD icons.
//
// Parameters:
//   - dir: the override directory
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithAssetsDir(dir string) ViewerBuilderOption {
	return func(v *viewer) {
		v.assetsDir = dir
	}
}

// WithHUDFade sets the HUD fade duration in seconds.
//
// Parameters:
//   - seconds: the fade duration, 0 for instant
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithHUDFade(seconds float64) ViewerBuilderOption {
	return func(v *viewer) {
		v.fadeDuration = max(seconds, 0)
	}
}

// WithCompositorOptions forwards options to the frame compositor.
//
// Parameters:
//   - options: compositor options
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithCompositorOptions(options ...compositor.CompositorBuilderOption) ViewerBuilderOption {
	return func(v *viewer) {
		v.compositorOpts = append(v.compositorOpts, options...)
	}
}

// WithPlaybackOptions forwards options to the playback controller.
//
// Parameters:
//   - options: playback options
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithPlaybackOptions(options ...animation.PlaybackBuilderOption) ViewerBuilderOption {
	return func(v *viewer) {
		v.playbackOptions = append(v.playbackOptions, options...)
	}
}

// WithSceneOptions forwards options to every scene the viewer opens.
//
// Parameters:
//   - options: scene options
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithSceneOptions(options ...scene.SceneBuilderOption) ViewerBuilderOption {
	return func(v *viewer) {
		v.sceneOptions = append(v.sceneOptions, options...)
	}
}

// WithLoader sets the model loader. A caching loader is created by default.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithLoader(l loader.Loader) ViewerBuilderOption {
	return func(v *viewer) {
		v.loader = l
	}
}

// WithAutoPlay sets whether the first animation starts playing when a scene loads. Enabled by default.
//
// Parameters:
//   - enabled: whether to auto-play
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithAutoPlay(enabled bool) ViewerBuilderOption {
	return func(v *viewer) {
		v.autoPlay = enabled
	}
}

// WithQuitCallback sets the function called when the user asks to quit.
//
// Parameters:
//   - fn: the quit callback
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithQuitCallback(fn func()) ViewerBuilderOption {
	return func(v *viewer) {
		v.onQuit = fn
	}
}
