package loader

import (
	"context"
	"log/slog"

	gfn "github.com/panyam/goutils/fn"
	"golang.org/x/sync/errgroup"

	"github.com/panyam/aescript/matchnames"
	"github.com/panyam/aescript/rules"
	"github.com/panyam/aescript/schema"
)

// Checker validates scripts against one frozen schema and match-name
// registry. It holds no per-run state, so Check may be called from many
// goroutines at once.
type Checker struct {
	store    *schema.Store
	registry *matchnames.Registry
	eval     *rules.Evaluator
	logger   *slog.Logger

	members    SuggestOptions
	matchNames SuggestOptions
	maxErrors  int
}

type Option func(*Checker)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// WithMemberSuggestions bounds "did you mean" for unknown members.
func WithMemberSuggestions(maxDistance, topK int) Option {
	return func(c *Checker) { c.members = SuggestOptions{MaxDistance: maxDistance, TopK: topK} }
}

// WithMatchNameSuggestions bounds "did you mean" for unknown match names.
func WithMatchNameSuggestions(maxDistance, topK int) Option {
	return func(c *Checker) { c.matchNames = SuggestOptions{MaxDistance: maxDistance, TopK: topK} }
}

// WithMaxErrors caps the diagnostics kept per script. 0 keeps all.
func WithMaxErrors(n int) Option {
	return func(c *Checker) { c.maxErrors = n }
}

// NewChecker panics if the store has not been frozen.
func NewChecker(store *schema.Store, registry *matchnames.Registry, opts ...Option) *Checker {
	if !store.Frozen() {
		panic("checker requires a frozen schema store")
	}
	if registry == nil {
		registry = matchnames.NewRegistry()
		registry.Freeze()
	}
	c := &Checker{
		store:      store,
		registry:   registry,
		eval:       rules.NewEvaluator(store),
		members:    DefaultMemberSuggestions,
		matchNames: DefaultMatchNameSuggestions,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

func (c *Checker) Store() *schema.Store             { return c.store }
func (c *Checker) Registry() *matchnames.Registry { return c.registry }

// Result is the outcome of one run.
type Result struct {
	Diagnostics DiagnosticList
	// Diagnostics past the WithMaxErrors cap, counted but not kept.
	Dropped int
}

// Run validates one script with a fresh context.
func (c *Checker) Run(script *Script) Result {
	v := NewValidator(c.store, c.registry, c.eval, c.members, c.matchNames)
	v.MaxErrors = c.maxErrors
	diags := v.Validate(script)
	name := ""
	if script != nil {
		name = script.Name
	}
	c.logger.Debug("validated script", "script", name, "diagnostics", len(diags), "dropped", v.Dropped())
	return Result{Diagnostics: diags, Dropped: v.Dropped()}
}

func (c *Checker) Check(script *Script) DiagnosticList {
	return c.Run(script).Diagnostics
}

// RunAll validates scripts concurrently on up to workers goroutines
// (0 means one per script). Results are in input order. The only error
// is the context's.
func (c *Checker) RunAll(ctx context.Context, scripts []*Script, workers int) ([]Result, error) {
	results := make([]Result, len(scripts))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, script := range scripts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.Run(script)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckAll is RunAll without the dropped counts.
func (c *Checker) CheckAll(ctx context.Context, scripts []*Script, workers int) ([]DiagnosticList, error) {
	results, err := c.RunAll(ctx, scripts, workers)
	if err != nil {
		return nil, err
	}
	return gfn.Map(results, func(r Result) DiagnosticList { return r.Diagnostics }), nil
}

// TypeExists reports whether name is a registered type or alias.
func (c *Checker) TypeExists(name string) bool {
	_, ok := c.store.Type(name)
	return ok
}

// MemberExists reports whether typeName or an ancestor has member.
func (c *Checker) MemberExists(typeName, member string) bool {
	if _, ok := c.store.Property(typeName, member); ok {
		return true
	}
	_, ok := c.store.Method(typeName, member)
	return ok
}

// IsKnownMatchName checks one namespace, or all of them for NamespaceNone.
func (c *Checker) IsKnownMatchName(ns matchnames.Namespace, name string) bool {
	if ns == matchnames.NamespaceNone {
		_, ok := c.registry.Lookup(name)
		return ok
	}
	return c.registry.Contains(ns, name)
}

// SuggestMatchName ranks registered names near input. Known names return
// nothing.
func (c *Checker) SuggestMatchName(ns matchnames.Namespace, input string) []matchnames.Suggestion {
	if c.IsKnownMatchName(ns, input) {
		return nil
	}
	if ns == matchnames.NamespaceNone {
		return c.registry.SuggestAny(input, c.matchNames.MaxDistance, c.matchNames.TopK)
	}
	return c.registry.SuggestWithin(ns, input, c.matchNames.MaxDistance, c.matchNames.TopK)
}
