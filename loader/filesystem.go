package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileSystem is where parse trees are read from: the local disk, or memory
// in tests.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)

	// IsDir reports whether path names a directory. Missing paths are not.
	IsDir(path string) bool

	// ListFiles returns the files directly inside dir whose name ends in
	// ext, sorted. The returned paths include dir.
	ListFiles(dir, ext string) ([]string, error)
}

// ExpandPaths replaces every directory among paths with the ext files it
// contains. Other paths are kept as given, so a missing file is reported
// by the loader rather than here.
func ExpandPaths(fsys FileSystem, paths []string, ext string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if !fsys.IsDir(p) {
			out = append(out, p)
			continue
		}
		files, err := fsys.ListFiles(p, ext)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no %s files in directory '%s'", ext, p)
		}
		out = append(out, files...)
	}
	return out, nil
}

// LocalFS reads from disk, resolving relative paths against basePath.
type LocalFS struct {
	basePath string
}

func NewLocalFS(basePath string) *LocalFS {
	return &LocalFS{basePath: basePath}
}

func (l *LocalFS) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.basePath, p)
}

func (l *LocalFS) ReadFile(p string) ([]byte, error) {
	return os.ReadFile(l.abs(p))
}

func (l *LocalFS) IsDir(p string) bool {
	info, err := os.Stat(l.abs(p))
	return err == nil && info.IsDir()
}

func (l *LocalFS) ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(l.abs(dir))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ext) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// MemoryFS holds slash-separated paths in memory. Directories exist
// implicitly when a file lies beneath them.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{files: make(map[string][]byte)}
}

func (m *MemoryFS) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[path.Clean(p)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryFS) WriteFile(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(p)] = append([]byte(nil), data...)
}

func (m *MemoryFS) IsDir(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.hasPrefixLocked(dirPrefix(p))
}

func (m *MemoryFS) ListFiles(dir, ext string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := dirPrefix(dir)
	var files []string
	for name := range m.files {
		rest, ok := strings.CutPrefix(name, prefix)
		if ok && !strings.Contains(rest, "/") && strings.HasSuffix(rest, ext) {
			files = append(files, name)
		}
	}
	if files == nil && !m.hasPrefixLocked(prefix) {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}
	sort.Strings(files)
	return files, nil
}

func (m *MemoryFS) hasPrefixLocked(prefix string) bool {
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func dirPrefix(dir string) string {
	dir = path.Clean(dir)
	if dir == "." {
		return ""
	}
	return dir + "/"
}
