package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/panyam/aescript/decl"
)

// LoadResult holds the outcome of loading one script.
type LoadResult struct {
	Path   string       // canonical path, or the requested one if resolution failed
	Script *decl.Script // nil when Err is set
	Err    error        // resolution or parse failure
}

// Loader reads script parse trees through a FileResolver and decodes
// them with a Parser. A parse failure is the one condition that stops a
// script from being validated at all.
type Loader struct {
	parser   Parser
	resolver FileResolver
	basePath string
}

// NewLoader creates a loader. Relative paths are resolved against
// basePath ("" means the working directory).
func NewLoader(parser Parser, resolver FileResolver, basePath string) *Loader {
	if resolver == nil {
		resolver = NewDefaultFileResolver()
	}
	return &Loader{parser: parser, resolver: resolver, basePath: basePath}
}

func (l *Loader) Load(path string) LoadResult {
	content, canonicalPath, err := l.resolver.Resolve(l.basePath, path)
	if err != nil {
		return LoadResult{Path: path, Err: fmt.Errorf("cannot resolve '%s': %w", path, err)}
	}
	defer content.Close()

	script, err := l.parser.Parse(content, canonicalPath)
	if err != nil {
		return LoadResult{Path: canonicalPath, Err: fmt.Errorf("parsing error in '%s': %w", canonicalPath, err)}
	}
	if script == nil {
		return LoadResult{Path: canonicalPath, Err: fmt.Errorf("parser returned no script for '%s'", canonicalPath)}
	}
	if script.Name == "" {
		script.Name = canonicalPath
	}
	return LoadResult{Path: canonicalPath, Script: script}
}

// LoadAll loads paths concurrently. Results are in input order; per-file
// failures are in LoadResult.Err and the returned error is only the
// context's.
func (l *Loader) LoadAll(ctx context.Context, paths []string, workers int) ([]LoadResult, error) {
	results := make([]LoadResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = l.Load(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
