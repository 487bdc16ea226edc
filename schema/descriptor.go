package schema

import (
	"fmt"
	"strings"
)

// Capability flags of a host type.
type Capability uint

const (
	// The item can take an alternate media source (CompItem, FootageItem).
	CapAlternateSource Capability = 1 << iota

	// Instances are animatable property streams.
	CapStream

	// Instances are 1-indexed collections of ElementType.
	CapCollection
)

var capNames = []struct {
	cap  Capability
	name string
}{
	{CapAlternateSource, "alternate-source"},
	{CapStream, "stream"},
	{CapCollection, "collection"},
}

func ParseCapability(s string) (Capability, error) {
	for _, c := range capNames {
		if c.name == s {
			return c.cap, nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", s)
}

func (c Capability) String() string {
	var parts []string
	for _, n := range capNames {
		if c&n.cap != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// TypeDescriptor is the member catalog of one host object type.
type TypeDescriptor struct {
	Name   string
	Parent string
	Caps   Capability

	// Element type of a collection (CapCollection).
	ElementType string

	// Signature of `new Name(...)`, nil when the type cannot be constructed.
	Constructor *MethodSignature

	methods     map[string]*MethodSignature
	methodOrder []string
	props       map[string]*ValueRule
	propOrder   []string
}

func NewTypeDescriptor(name, parent string) *TypeDescriptor {
	return &TypeDescriptor{Name: name, Parent: parent}
}

func (t *TypeDescriptor) Has(c Capability) bool {
	return t != nil && t.Caps&c == c
}

// AddMethod adds a method. Adding an identical signature again is a no-op,
// a different one with the same name is ErrConflict.
func (t *TypeDescriptor) AddMethod(m *MethodSignature) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%s: %w", t.Name, err)
	}
	if existing, ok := t.methods[m.Name]; ok {
		if existing.Equal(m) {
			return nil
		}
		return fmt.Errorf("%s.%s registered twice with different signatures: %w", t.Name, m.Name, ErrConflict)
	}
	if t.methods == nil {
		t.methods = map[string]*MethodSignature{}
	}
	t.methods[m.Name] = m.Clone()
	t.methodOrder = append(t.methodOrder, m.Name)
	return nil
}

// AddProperty adds a property with the same duplicate rules as AddMethod.
func (t *TypeDescriptor) AddProperty(name string, rule *ValueRule) error {
	if rule == nil {
		return fmt.Errorf("%s.%s: nil rule", t.Name, name)
	}
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("%s.%s: %w", t.Name, name, err)
	}
	if existing, ok := t.props[name]; ok {
		if existing.Equal(rule) {
			return nil
		}
		return fmt.Errorf("%s.%s registered twice with different rules: %w", t.Name, name, ErrConflict)
	}
	if t.props == nil {
		t.props = map[string]*ValueRule{}
	}
	t.props[name] = rule.Clone()
	t.propOrder = append(t.propOrder, name)
	return nil
}

// Method looks up an own method, without the parent chain.
func (t *TypeDescriptor) Method(name string) (*MethodSignature, bool) {
	m, ok := t.methods[name]
	return m, ok
}

// Property looks up an own property, without the parent chain.
func (t *TypeDescriptor) Property(name string) (*ValueRule, bool) {
	p, ok := t.props[name]
	return p, ok
}

func (t *TypeDescriptor) MethodNames() []string {
	return append([]string(nil), t.methodOrder...)
}

func (t *TypeDescriptor) PropertyNames() []string {
	return append([]string(nil), t.propOrder...)
}

// Clone is a deep copy under a new name.
func (t *TypeDescriptor) Clone(name string) *TypeDescriptor {
	out := &TypeDescriptor{
		Name:        name,
		Parent:      t.Parent,
		Caps:        t.Caps,
		ElementType: t.ElementType,
		Constructor: t.Constructor.Clone(),
	}
	for _, n := range t.methodOrder {
		_ = out.AddMethod(t.methods[n])
	}
	for _, n := range t.propOrder {
		_ = out.AddProperty(n, t.props[n])
	}
	return out
}

// Equal compares everything but the name.
func (t *TypeDescriptor) Equal(o *TypeDescriptor) bool {
	if t.Parent != o.Parent || t.Caps != o.Caps || t.ElementType != o.ElementType || !t.Constructor.Equal(o.Constructor) {
		return false
	}
	if len(t.methods) != len(o.methods) || len(t.props) != len(o.props) {
		return false
	}
	for name, m := range t.methods {
		if !m.Equal(o.methods[name]) {
			return false
		}
	}
	for name, p := range t.props {
		if !p.Equal(o.props[name]) {
			return false
		}
	}
	return true
}

// merge folds the members of o into t. Header fields must agree when set.
func (t *TypeDescriptor) merge(o *TypeDescriptor) error {
	if o.Parent != "" && t.Parent != "" && o.Parent != t.Parent {
		return fmt.Errorf("type %s registered with parents %s and %s: %w", t.Name, t.Parent, o.Parent, ErrConflict)
	}
	if o.ElementType != "" && t.ElementType != "" && o.ElementType != t.ElementType {
		return fmt.Errorf("type %s registered with element types %s and %s: %w", t.Name, t.ElementType, o.ElementType, ErrConflict)
	}
	if o.Constructor != nil && t.Constructor != nil && !o.Constructor.Equal(t.Constructor) {
		return fmt.Errorf("type %s registered with different constructors: %w", t.Name, ErrConflict)
	}
	if t.Parent == "" {
		t.Parent = o.Parent
	}
	if t.ElementType == "" {
		t.ElementType = o.ElementType
	}
	if t.Constructor == nil {
		t.Constructor = o.Constructor.Clone()
	}
	t.Caps |= o.Caps
	for _, n := range o.methodOrder {
		if err := t.AddMethod(o.methods[n]); err != nil {
			return err
		}
	}
	for _, n := range o.propOrder {
		if err := t.AddProperty(n, o.props[n]); err != nil {
			return err
		}
	}
	return nil
}
