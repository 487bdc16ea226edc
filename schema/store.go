package schema

import (
	"errors"
	"fmt"

	"github.com/panyam/aescript/decl"
)

var (
	ErrFrozen        = errors.New("schema store is frozen")
	ErrConflict      = errors.New("conflicting registration")
	ErrUnknownType   = errors.New("unknown type")
	ErrUnknownParent = errors.New("unknown parent type")
	ErrParentCycle   = errors.New("parent chain forms a cycle")
)

// Store maps type names to their member catalogs. It is filled once at
// startup and is read-only after Freeze; readers need no locking.
type Store struct {
	types     map[string]*TypeDescriptor
	typeOrder []string

	aliases map[string]string

	globals     map[string]string
	globalOrder []string

	streamType string
	frozen     bool
}

func NewStore() *Store {
	return &Store{
		types:   map[string]*TypeDescriptor{},
		aliases: map[string]string{},
		globals: map[string]string{},
	}
}

// RegisterType adds a type. Registering a name again merges the members,
// which must not contradict what is already there.
func (s *Store) RegisterType(t *TypeDescriptor) error {
	if s.frozen {
		return ErrFrozen
	}
	if t == nil || t.Name == "" {
		return fmt.Errorf("type must have a name")
	}
	if decl.IsPrimitiveName(t.Name) {
		return fmt.Errorf("type %s shadows a primitive: %w", t.Name, ErrConflict)
	}
	if target, ok := s.aliases[t.Name]; ok {
		return fmt.Errorf("type %s is already an alias of %s: %w", t.Name, target, ErrConflict)
	}
	if t.Constructor != nil {
		if err := t.Constructor.Validate(); err != nil {
			return fmt.Errorf("constructor of %s: %w", t.Name, err)
		}
	}
	if existing, ok := s.types[t.Name]; ok {
		return existing.merge(t)
	}
	s.types[t.Name] = t.Clone(t.Name)
	s.typeOrder = append(s.typeOrder, t.Name)
	return nil
}

// RegisterAlias registers a deep copy of target under alias.
func (s *Store) RegisterAlias(alias, target string) error {
	if s.frozen {
		return ErrFrozen
	}
	t, ok := s.types[target]
	if !ok {
		return fmt.Errorf("alias %s -> %s: %w", alias, target, ErrUnknownType)
	}
	if existing, ok := s.types[alias]; ok {
		if s.aliases[alias] == target || existing.Equal(t) {
			return nil
		}
		return fmt.Errorf("alias %s -> %s: name already registered: %w", alias, target, ErrConflict)
	}
	s.types[alias] = t.Clone(alias)
	s.typeOrder = append(s.typeOrder, alias)
	s.aliases[alias] = target
	return nil
}

// RegisterGlobal declares a predefined script variable, e.g. app: Application.
func (s *Store) RegisterGlobal(name, typeName string) error {
	if s.frozen {
		return ErrFrozen
	}
	if existing, ok := s.globals[name]; ok {
		if existing == typeName {
			return nil
		}
		return fmt.Errorf("global %s bound to both %s and %s: %w", name, existing, typeName, ErrConflict)
	}
	s.globals[name] = typeName
	s.globalOrder = append(s.globalOrder, name)
	return nil
}

// SetStreamType names the type that animatable properties resolve to.
func (s *Store) SetStreamType(name string) error {
	if s.frozen {
		return ErrFrozen
	}
	if s.streamType != "" && s.streamType != name {
		return fmt.Errorf("stream type set to both %s and %s: %w", s.streamType, name, ErrConflict)
	}
	s.streamType = name
	return nil
}

// Freeze checks cross references and makes the store read-only.
func (s *Store) Freeze() error {
	if s.frozen {
		return nil
	}
	for _, name := range s.typeOrder {
		t := s.types[name]
		if t.Parent != "" {
			if _, ok := s.types[t.Parent]; !ok {
				return fmt.Errorf("%s extends %s: %w", name, t.Parent, ErrUnknownParent)
			}
		}
		if t.ElementType != "" && !decl.IsPrimitiveName(t.ElementType) {
			if _, ok := s.types[t.ElementType]; !ok {
				return fmt.Errorf("%s holds %s: %w", name, t.ElementType, ErrUnknownType)
			}
		}
	}
	for _, name := range s.typeOrder {
		seen := map[string]bool{}
		for cur := name; cur != ""; cur = s.types[cur].Parent {
			if seen[cur] {
				return fmt.Errorf("%s: %w", name, ErrParentCycle)
			}
			seen[cur] = true
		}
	}
	for _, g := range s.globalOrder {
		if _, ok := s.types[s.globals[g]]; !ok {
			return fmt.Errorf("global %s: %s: %w", g, s.globals[g], ErrUnknownType)
		}
	}
	if s.streamType != "" {
		if _, ok := s.types[s.streamType]; !ok {
			return fmt.Errorf("stream type %s: %w", s.streamType, ErrUnknownType)
		}
	}
	s.frozen = true
	return nil
}

func (s *Store) Frozen() bool { return s.frozen }

func (s *Store) Type(name string) (*TypeDescriptor, bool) {
	t, ok := s.types[name]
	return t, ok
}

// chain visits name and its ancestors until visit returns false.
// The walk is bounded so an unfrozen store with a cycle cannot loop.
func (s *Store) chain(name string, visit func(t *TypeDescriptor) bool) {
	for i := 0; i <= len(s.typeOrder) && name != ""; i++ {
		t, ok := s.types[name]
		if !ok || !visit(t) {
			return
		}
		name = t.Parent
	}
}

// Method looks a method up on typeName, then its ancestors.
func (s *Store) Method(typeName, name string) (out *MethodSignature, found bool) {
	s.chain(typeName, func(t *TypeDescriptor) bool {
		out, found = t.Method(name)
		return !found
	})
	return
}

// Property looks a property up on typeName, then its ancestors.
func (s *Store) Property(typeName, name string) (out *ValueRule, found bool) {
	s.chain(typeName, func(t *TypeDescriptor) bool {
		out, found = t.Property(name)
		return !found
	})
	return
}

// MemberNames lists properties and methods of typeName, own members first.
func (s *Store) MemberNames(typeName string) []string {
	seen := map[string]bool{}
	var out []string
	s.chain(typeName, func(t *TypeDescriptor) bool {
		for _, names := range [][]string{t.propOrder, t.methodOrder} {
			for _, n := range names {
				if !seen[n] {
					seen[n] = true
					out = append(out, n)
				}
			}
		}
		return true
	})
	return out
}

// IsA reports whether typeName is want or descends from it.
func (s *Store) IsA(typeName, want string) (found bool) {
	if typeName == want {
		return true
	}
	s.chain(typeName, func(t *TypeDescriptor) bool {
		found = t.Name == want
		return !found
	})
	return
}

// Descendants lists the types that extend typeName, directly or not, in
// registration order.
func (s *Store) Descendants(typeName string) []string {
	var out []string
	for _, name := range s.typeOrder {
		if name != typeName && s.IsA(name, typeName) {
			out = append(out, name)
		}
	}
	return out
}

func (s *Store) Global(name string) (string, bool) {
	t, ok := s.globals[name]
	return t, ok
}

func (s *Store) GlobalNames() []string {
	return append([]string(nil), s.globalOrder...)
}

func (s *Store) StreamTypeName() string { return s.streamType }

// TypeNames lists every registered type and alias in registration order.
func (s *Store) TypeNames() []string {
	return append([]string(nil), s.typeOrder...)
}

// AliasTarget reports the type an alias was copied from.
func (s *Store) AliasTarget(alias string) (string, bool) {
	t, ok := s.aliases[alias]
	return t, ok
}
