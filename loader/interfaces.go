package loader

import (
	"io"

	"github.com/panyam/aescript/decl"
)

// Parser turns a script's externally produced parse tree into decl nodes.
type Parser interface {
	// Parse reads from the input reader and returns the script.
	// sourceName is used for context in error messages (e.g., file path).
	Parse(input io.Reader, sourceName string) (*decl.Script, error)
}

// FileResolver locates and opens script inputs.
type FileResolver interface {
	// Resolve opens path, relative to basePath when it is not absolute, and
	// returns its content and canonical path.
	Resolve(basePath, path string) (content io.ReadCloser, canonicalPath string, err error)
}
