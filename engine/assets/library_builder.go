package assets

// LibraryBuilderOption is a functional option for configuring a Library.
type LibraryBuilderOption func(*libraryImpl)

// WithOverrideDir sets a directory of PNG files that replace the built-in images.
//
// Parameters:
//   - dir: the directory path; empty disables overrides
//
// Returns:
//   - LibraryBuilderOption: functional option to set the override directory
func WithOverrideDir(dir string) LibraryBuilderOption {
	return func(l *libraryImpl) {
		l.overrideDir = dir
	}
}
