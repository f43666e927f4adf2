package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithGrid sets whether the reference grid is drawn. Enabled by default.
//
// Parameters:
//   - show: whether to draw the grid
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGrid(show bool) SceneBuilderOption {
	return func(s *scene) {
		s.showGrid = show
	}
}

// WithGridExtent sets the number of grid cells on each side of the origin.
//
// Parameters:
//   - cells: cells per half axis (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGridExtent(cells int) SceneBuilderOption {
	return func(s *scene) {
		s.gridExtent = max(cells, 1)
	}
}

// WithMeshBounds sets whether mesh boxes are drawn around nodes that carry geometry. Enabled by default.
//
// Parameters:
//   - show: whether to draw mesh boxes
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMeshBounds(show bool) SceneBuilderOption {
	return func(s *scene) {
		s.showBounds = show
	}
}
