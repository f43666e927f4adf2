package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// loaderBackend imports one file format.
type loaderBackend interface {
	// Load imports the file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - model.Model: the imported model, named after the file
	//   - error: error if parsing or validation fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a stream.
	//
	// Parameters:
	//   - name: the model name
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides binary data
	//
	// Returns:
	//   - model.Model: the imported model
	//   - error: error if parsing or validation fails
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// Extensions lists the lower-case file extensions this backend accepts.
	Extensions() []string
}
