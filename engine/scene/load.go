package scene

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
)

// Open builds the scene called name: DemoName for the built-in walker, otherwise a model file
// path handed to l.
//
// Parameters:
//   - name: DemoName or a model file path
//   - l: the model loader
//   - options: functional options applied to the scene
//
// Returns:
//   - Scene: the scene
//   - error: error if the name is neither the demo nor a supported file, or the import fails
func Open(name string, l loader.Loader, options ...SceneBuilderOption) (Scene, error) {
	if name == DemoName {
		m, err := NewDemoModel()
		if err != nil {
			return nil, fmt.Errorf("demo model: %w", err)
		}
		return NewScene(m, options...), nil
	}
	if l == nil || !l.Supports(name) {
		return nil, fmt.Errorf("unknown scene %q: not %q and not a supported model file", name, DemoName)
	}
	m, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	return NewScene(m, options...), nil
}

// OpenAsync runs Open on its own goroutine and posts done to the dispatcher with the result.
// If the dispatcher refuses the post the result is dropped.
//
// Parameters:
//   - name: DemoName or a model file path
//   - l: the model loader
//   - dispatcher: the UI thread queue
//   - done: called on the UI thread with the scene or the import error
//   - options: functional options applied to the scene
func OpenAsync(name string, l loader.Loader, dispatcher animation.Dispatcher, done func(Scene, error), options ...SceneBuilderOption) {
	go func() {
		s, err := Open(name, l, options...)
		if err != nil {
			log.Printf("[Scene] failed to open %s: %v", name, err)
		}
		if !dispatcher.Post(func() { done(s, err) }) {
			log.Printf("[Scene] result for %s dropped: UI queue closed", name)
		}
	}()
}
