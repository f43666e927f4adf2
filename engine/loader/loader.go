// Package loader imports model files into model.Model values and caches them by path.
package loader

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model
	useCache   bool

	backends []loaderBackend
}

// Loader imports model files and caches the results.
// It is safe to call from any goroutine; imports normally run off the UI thread.
type Loader interface {
	// Load imports a model file, returning the cached model if the path was loaded before.
	// The backend is chosen by file extension.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if the format is unsupported or the import fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a stream and caches it under name.
	//
	// Parameters:
	//   - name: the cache key and model name
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides binary glTF
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if the import fails
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// Supports reports whether a backend accepts the file's extension.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - bool: true if Load can try the file
	Supports(path string) bool

	// Get retrieves a cached model by key. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by path or name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the glTF backend.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
		useCache:   true,
		backends:   []loaderBackend{gltfLoaderBackend{}},
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	if cached := l.cached(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}
	m, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	log.Printf("[Loader] imported %s: %d nodes, %d clips", path, len(m.Nodes()), len(m.Clips()))

	l.store(path, m)
	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	if cached := l.cached(name); cached != nil {
		return cached, nil
	}

	m, err := l.backends[0].LoadReader(name, r, isGLB)
	if err != nil {
		return nil, err
	}
	l.store(name, m)
	return m, nil
}

func (l *loader) Supports(path string) bool {
	_, err := l.resolveBackend(path)
	return err == nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) cached(key string) model.Model {
	if !l.useCache {
		return nil
	}
	return l.Get(key)
}

func (l *loader) store(key string, m model.Model) {
	if !l.useCache {
		return
	}
	l.mu.Lock()
	l.modelCache[key] = m
	l.mu.Unlock()
}

// resolveBackend selects a backend by file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, b := range l.backends {
		if slices.Contains(b.Extensions(), ext) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("unsupported model format: %q", ext)
}
