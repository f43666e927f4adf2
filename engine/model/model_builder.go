package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithNodes is an option builder that appends nodes to the hierarchy.
// Parent indices refer to the final node list.
//
// Parameters:
//   - nodes: the nodes to append
//
// Returns:
//   - ModelBuilderOption: a function that applies the nodes option to a model
func WithNodes(nodes ...Node) ModelBuilderOption {
	return func(m *model) {
		m.nodes = append(m.nodes, nodes...)
	}
}

// WithClips is an option builder that appends animation clips.
//
// Parameters:
//   - clips: the clips to append
//
// Returns:
//   - ModelBuilderOption: a function that applies the clips option to a model
func WithClips(clips ...Clip) ModelBuilderOption {
	return func(m *model) {
		m.clips = append(m.clips, clips...)
	}
}
