package schema

import (
	"fmt"
	"math"
	"slices"

	"github.com/panyam/aescript/decl"
)

// Range is an inclusive numeric bound. Use math.Inf(1) for an open maximum.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Contains(f float64) bool {
	return f >= r.Min && f <= r.Max
}

func (r Range) String() string {
	max := "∞"
	if !math.IsInf(r.Max, 1) {
		max = fmt.Sprintf("%g", r.Max)
	}
	return fmt.Sprintf("[%g, %s]", r.Min, max)
}

// Predicate is a check that cannot be expressed declaratively. owner is the
// host type the value is being assigned into or passed to.
type Predicate func(v decl.Value, owner *TypeDescriptor) error

// ValueRule describes the legal values of a property or method parameter.
type ValueRule struct {
	Kind decl.ValueKind

	// Named object type for KindObject ("Number", "String", "Layer", ...)
	TypeName string

	// Fixed number of components. 0 means the length implied by Kind.
	ArrayLength int
	// A trailing z component is also accepted, as on the 2D transform
	// streams of a 3D layer.
	OptionalDepth bool

	Range *Range

	Spatial       bool
	Temporal      bool // can vary over time, i.e. an animatable stream
	SeparableDims bool

	Enumerated bool
	Allowed    []string

	ReadOnly bool

	Predicate     Predicate
	PredicateName string
}

func (r *ValueRule) Validate() error {
	if r.Enumerated && len(r.Allowed) == 0 {
		return fmt.Errorf("enumerated rule has no allowed values")
	}
	if r.Kind == decl.KindObject && r.TypeName == "" {
		return fmt.Errorf("object rule has no type name")
	}
	if r.Range != nil && r.Range.Min > r.Range.Max {
		return fmt.Errorf("range %s is empty", r.Range)
	}
	if r.ArrayLength < 0 {
		return fmt.Errorf("negative array length %d", r.ArrayLength)
	}
	if r.Predicate != nil && r.PredicateName == "" {
		return fmt.Errorf("predicate must be named")
	}
	return nil
}

// Equal compares rules structurally. Predicates compare by name.
func (r *ValueRule) Equal(o *ValueRule) bool {
	if r == nil || o == nil {
		return r == o
	}
	if (r.Range == nil) != (o.Range == nil) || (r.Range != nil && *r.Range != *o.Range) {
		return false
	}
	return r.Kind == o.Kind &&
		r.TypeName == o.TypeName &&
		r.ArrayLength == o.ArrayLength &&
		r.OptionalDepth == o.OptionalDepth &&
		r.Spatial == o.Spatial &&
		r.Temporal == o.Temporal &&
		r.SeparableDims == o.SeparableDims &&
		r.Enumerated == o.Enumerated &&
		slices.Equal(r.Allowed, o.Allowed) &&
		r.ReadOnly == o.ReadOnly &&
		r.PredicateName == o.PredicateName
}

func (r *ValueRule) Clone() *ValueRule {
	if r == nil {
		return nil
	}
	out := *r
	if r.Range != nil {
		rng := *r.Range
		out.Range = &rng
	}
	out.Allowed = slices.Clone(r.Allowed)
	return &out
}

// Describe renders the rule for help output, e.g. "1d [4, 30000] read-only".
func (r *ValueRule) Describe() string {
	if r == nil {
		return "any"
	}
	out := r.Kind.String()
	if r.Kind == decl.KindObject {
		out = r.TypeName
	}
	if r.ArrayLength > 0 {
		out += fmt.Sprintf("[%d]", r.ArrayLength)
	}
	if r.OptionalDepth {
		out += " (z optional)"
	}
	if r.Range != nil {
		out += " " + r.Range.String()
	}
	if r.Enumerated {
		out += fmt.Sprintf(" one of %v", r.Allowed)
	}
	if r.Temporal {
		out += " animatable"
	}
	if r.ReadOnly {
		out += " read-only"
	}
	if r.PredicateName != "" {
		out += " (" + r.PredicateName + ")"
	}
	return out
}
