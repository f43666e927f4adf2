package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfLoaderBackend imports .gltf and .glb files.
type gltfLoaderBackend struct{}

var _ loaderBackend = gltfLoaderBackend{}

func (gltfLoaderBackend) Load(path string) (model.Model, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return importModel(parser, name)
}

func (gltfLoaderBackend) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB, "."); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return importModel(parser, name)
}

func (gltfLoaderBackend) Extensions() []string {
	return []string{".gltf", ".glb"}
}
