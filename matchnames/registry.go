package matchnames

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Namespace identifies one of the three disjoint match-name sets.
type Namespace int

const (
	NamespaceNone Namespace = iota
	Effect
	Layer
	Property
)

var allNamespaces = []Namespace{Effect, Layer, Property}

func (n Namespace) String() string {
	switch n {
	case Effect:
		return "effect"
	case Layer:
		return "layer"
	case Property:
		return "property"
	}
	return "none"
}

func ParseNamespace(s string) (Namespace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "effect", "effects":
		return Effect, nil
	case "layer", "layers", "stream":
		return Layer, nil
	case "property", "properties":
		return Property, nil
	}
	return NamespaceNone, fmt.Errorf("unknown match-name namespace %q", s)
}

var (
	ErrNotDisjoint = errors.New("match name registered in more than one namespace")
	ErrFrozen      = errors.New("match-name registry is frozen")
)

type nameSet struct {
	order []string
	index map[string]int
}

// Registry holds the effect, layer/stream and property match names.
// It is populated once and read-only after Freeze, so any number of
// validation runs may read it concurrently.
type Registry struct {
	sets   map[Namespace]*nameSet
	frozen bool
}

func NewRegistry() *Registry {
	r := &Registry{sets: map[Namespace]*nameSet{}}
	for _, ns := range allNamespaces {
		r.sets[ns] = &nameSet{index: map[string]int{}}
	}
	return r
}

// Register adds names to a namespace in order. Re-registering a name in the
// same namespace is a no-op.
func (r *Registry) Register(ns Namespace, names ...string) error {
	if r.frozen {
		return ErrFrozen
	}
	set, ok := r.sets[ns]
	if !ok {
		return fmt.Errorf("cannot register into namespace %s", ns)
	}
	for _, name := range names {
		if _, exists := set.index[name]; exists {
			continue
		}
		if other, found := r.Lookup(name); found {
			return fmt.Errorf("%q is already a %s match name, cannot add to %s: %w", name, other, ns, ErrNotDisjoint)
		}
		set.index[name] = len(set.order)
		set.order = append(set.order, name)
	}
	return nil
}

func (r *Registry) Freeze() { r.frozen = true }

// Contains is the exact membership test for one namespace.
func (r *Registry) Contains(ns Namespace, name string) bool {
	set, ok := r.sets[ns]
	if !ok {
		return false
	}
	_, found := set.index[name]
	return found
}

// Lookup reports which namespace, if any, holds name.
func (r *Registry) Lookup(name string) (Namespace, bool) {
	for _, ns := range allNamespaces {
		if r.Contains(ns, name) {
			return ns, true
		}
	}
	return NamespaceNone, false
}

// Names returns the names of a namespace in registration order.
func (r *Registry) Names(ns Namespace) []string {
	set, ok := r.sets[ns]
	if !ok {
		return nil
	}
	return append([]string(nil), set.order...)
}

func (r *Registry) Len(ns Namespace) int {
	if set, ok := r.sets[ns]; ok {
		return len(set.order)
	}
	return 0
}

// Suggest ranks the names of ns against input with the default threshold.
func (r *Registry) Suggest(ns Namespace, input string) []Suggestion {
	return r.SuggestWithin(ns, input, DefaultMaxDistance, DefaultTopK)
}

func (r *Registry) SuggestWithin(ns Namespace, input string, maxDistance, topK int) []Suggestion {
	set, ok := r.sets[ns]
	if !ok {
		return nil
	}
	return Rank(set.order, input, maxDistance, topK)
}

// SuggestAny ranks across all namespaces (effect, then layer, then property
// on equal distance).
func (r *Registry) SuggestAny(input string, maxDistance, topK int) []Suggestion {
	var all []string
	for _, ns := range allNamespaces {
		all = append(all, r.sets[ns].order...)
	}
	return Rank(all, input, maxDistance, topK)
}

var streamPathRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*/[A-Za-z][A-Za-z0-9]*$`)

// LooksLikeMatchName is true for identifiers shaped like host match names:
// "ADBE ..." names and "group/stream" layer style paths.
func LooksLikeMatchName(s string) bool {
	return strings.HasPrefix(s, "ADBE ") || streamPathRe.MatchString(s)
}

// FormatSuggestions renders the "did you mean" text for an invalid match
// name, or "" when there is nothing to suggest.
func FormatSuggestions(ns Namespace, input string, suggestions []Suggestion) string {
	if len(suggestions) == 0 {
		return ""
	}
	var b strings.Builder
	if ns == NamespaceNone {
		fmt.Fprintf(&b, "Invalid match name: '%s'\n\nDid you mean one of these?", input)
	} else {
		fmt.Fprintf(&b, "Invalid %s match name: '%s'\n\nDid you mean one of these?", ns, input)
	}
	for _, s := range suggestions {
		b.WriteString("\n")
		b.WriteString(s.Name)
	}
	return b.String()
}
