package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultFileResolver implements FileResolver for the local filesystem.
type DefaultFileResolver struct{}

// NewDefaultFileResolver creates a standard filesystem resolver.
func NewDefaultFileResolver() *DefaultFileResolver {
	return &DefaultFileResolver{}
}

// Resolve handles filesystem paths.
func (r *DefaultFileResolver) Resolve(basePath, path string) (io.ReadCloser, string, error) {
	resolvedPath := path
	if !filepath.IsAbs(path) && basePath != "" {
		resolvedPath = filepath.Join(basePath, path)
	}

	canonicalPath, err := filepath.Abs(resolvedPath)
	if err != nil {
		return nil, "", fmt.Errorf("could not get absolute path for '%s': %w", resolvedPath, err)
	}

	file, err := os.Open(canonicalPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("file not found: %s (resolved from '%s')", canonicalPath, path)
		}
		return nil, "", fmt.Errorf("could not open file '%s': %w", canonicalPath, err)
	}
	return file, canonicalPath, nil
}

// FSResolver resolves paths against a FileSystem, e.g. a MemoryFS in tests.
type FSResolver struct {
	FS FileSystem
}

func NewFSResolver(fs FileSystem) *FSResolver {
	return &FSResolver{FS: fs}
}

func (r *FSResolver) Resolve(basePath, path string) (io.ReadCloser, string, error) {
	resolvedPath := path
	if !filepath.IsAbs(path) && basePath != "" {
		resolvedPath = filepath.Join(basePath, path)
	}
	data, err := r.FS.ReadFile(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	return io.NopCloser(bytes.NewReader(data)), resolvedPath, nil
}
