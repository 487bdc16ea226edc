package loader

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/aescript/decl"
)

// lineParser turns each non-empty line into a call of app.<line>().
// A line reading "!" is a syntax error.
type lineParser struct{}

func (lineParser) Parse(r io.Reader, sourceName string) (*decl.Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	out := &decl.Script{}
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "!":
			return nil, errors.New("unexpected token")
		}
		out.Body = append(out.Body, at(i+1, stmt(call(chain("app", line)))))
	}
	return out, nil
}

func newMemoryLoader() *Loader {
	fs := NewMemoryFS()
	fs.WriteFile("scripts/good.jsx", []byte("newProject\n"))
	fs.WriteFile("scripts/typo.jsx", []byte("newProject\n\nnewProjet\n"))
	fs.WriteFile("scripts/broken.jsx", []byte("newProject\n!\n"))
	return NewLoader(lineParser{}, NewFSResolver(fs), "scripts")
}

func TestLoadFromMemory(t *testing.T) {
	l := newMemoryLoader()

	res := l.Load("good.jsx")
	require.NoError(t, res.Err)
	assert.Equal(t, "scripts/good.jsx", res.Path)
	assert.Equal(t, "scripts/good.jsx", res.Script.Name)
	assert.Len(t, res.Script.Body, 1)

	res = l.Load("broken.jsx")
	assert.ErrorContains(t, res.Err, "parsing error in 'scripts/broken.jsx'")
	assert.Nil(t, res.Script)

	res = l.Load("missing.jsx")
	assert.ErrorContains(t, res.Err, "cannot resolve 'missing.jsx'")
}

func TestLoadAllThenCheck(t *testing.T) {
	l := newMemoryLoader()
	results, err := l.LoadAll(context.Background(), []string{"typo.jsx", "broken.jsx", "good.jsx"}, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "scripts/typo.jsx", results[0].Path)
	assert.Error(t, results[1].Err)
	assert.Equal(t, "scripts/good.jsx", results[2].Path)

	c := newTestChecker(t)
	diags := c.Check(results[0].Script)
	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Empty(t, c.Check(results[2].Script))
}

func TestDefaultFileResolver(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jsx"), []byte("newProject\n"), 0o644))

	l := NewLoader(lineParser{}, nil, dir)
	res := l.Load("a.jsx")
	require.NoError(t, res.Err)
	assert.True(t, filepath.IsAbs(res.Path))

	res = l.Load("b.jsx")
	assert.ErrorContains(t, res.Err, "file not found")

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	fs := NewLocalFS(dir)
	assert.True(t, fs.IsDir("."))
	assert.True(t, fs.IsDir("sub"))
	assert.False(t, fs.IsDir("a.jsx"))
	files, err := fs.ListFiles(".", ".jsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jsx"}, files)
}

func TestMemoryFS(t *testing.T) {
	fs := NewMemoryFS()
	fs.WriteFile("b/2.jsx", []byte("x"))
	fs.WriteFile("b/1.jsx", []byte("y"))
	fs.WriteFile("b/deep/3.jsx", []byte("w"))
	fs.WriteFile("b/readme.md", []byte("v"))
	fs.WriteFile("c/1.jsx", []byte("z"))

	files, err := fs.ListFiles("b/", ".jsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/1.jsx", "b/2.jsx"}, files)
	assert.True(t, fs.IsDir("b/deep"))
	assert.False(t, fs.IsDir("b/1.jsx"))

	_, err = fs.ListFiles("d", ".jsx")
	assert.ErrorIs(t, err, iofs.ErrNotExist)

	data, err := fs.ReadFile("b/1.jsx")
	require.NoError(t, err)
	data[0] = 'q'
	again, _ := fs.ReadFile("b/1.jsx")
	assert.Equal(t, "y", string(again))

	_, err = fs.ReadFile("nope")
	assert.ErrorIs(t, err, iofs.ErrNotExist)
}

func TestExpandPaths(t *testing.T) {
	fs := NewMemoryFS()
	fs.WriteFile("scripts/b.json", nil)
	fs.WriteFile("scripts/a.json", nil)
	fs.WriteFile("scripts/a.jsx", nil)
	fs.WriteFile("empty/readme.md", nil)

	paths, err := ExpandPaths(fs, []string{"one.json", "scripts", "missing.json"}, ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{"one.json", "scripts/a.json", "scripts/b.json", "missing.json"}, paths)

	_, err = ExpandPaths(fs, []string{"empty"}, ".json")
	assert.ErrorContains(t, err, "no .json files in directory 'empty'")
}
