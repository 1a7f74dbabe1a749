// Package storage defines the workspace file-system abstraction used for the
// source document, the intermediate artifact and the generated Swift file.
package storage

// Provider is the interface for workspace file operations. All paths are
// relative to the workspace root.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// WriteIfChanged writes content unless the file already holds exactly
	// these bytes. It reports whether the file was rewritten.
	WriteIfChanged(path string, content []byte) (bool, error)
	// Abs resolves path to an absolute path inside the workspace.
	Abs(path string) (string, error)
}
