package loader

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithCache is an option builder that enables or disables the model cache. Enabled by default.
//
// Parameters:
//   - enabled: false to re-import on every Load
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithCache(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.useCache = enabled
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
