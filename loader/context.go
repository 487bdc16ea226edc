package loader

import (
	"errors"

	"github.com/panyam/aescript/decl"
	"github.com/panyam/aescript/matchnames"
	"github.com/panyam/aescript/rules"
	"github.com/panyam/aescript/schema"
)

// ErrUnbalancedContext is the panic value when scope exits outnumber entries.
var ErrUnbalancedContext = errors.New("validation context exited more often than entered")

// SuggestOptions bounds a "did you mean" search.
type SuggestOptions struct {
	MaxDistance int
	TopK        int
}

var (
	DefaultMemberSuggestions    = SuggestOptions{MaxDistance: 3, TopK: 3}
	DefaultMatchNameSuggestions = SuggestOptions{MaxDistance: matchnames.DefaultMaxDistance, TopK: matchnames.DefaultTopK}
)

// ValidationContext is the per-run state of the validator: a stack of host
// type names for the member chain being descended, plus the variable
// bindings of the script. Bindings are flat for the whole run. A context
// must not be shared between goroutines.
type ValidationContext struct {
	store   *schema.Store
	eval    *rules.Evaluator
	members SuggestOptions

	stack   []string
	entered int
	exited  int

	bindings *Env[*Type]
}

func NewValidationContext(store *schema.Store, eval *rules.Evaluator, members SuggestOptions) *ValidationContext {
	if eval == nil {
		eval = rules.NewEvaluator(store)
	}
	return &ValidationContext{
		store:    store,
		eval:     eval,
		members:  members,
		bindings: decl.NewEnv[*Type](),
	}
}

// Enter pushes typeName and returns the matching release. Calling the
// release more than once pops only once, so it is safe to both defer it
// and call it early.
func (c *ValidationContext) Enter(typeName string) func() {
	c.stack = append(c.stack, typeName)
	c.entered++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		c.Exit()
	}
}

// Exit pops the innermost type. Popping an empty stack is a bug in the
// caller and panics with ErrUnbalancedContext.
func (c *ValidationContext) Exit() {
	if len(c.stack) == 0 {
		panic(ErrUnbalancedContext)
	}
	c.stack = c.stack[:len(c.stack)-1]
	c.exited++
}

func (c *ValidationContext) Current() (string, bool) {
	if len(c.stack) == 0 {
		return "", false
	}
	return c.stack[len(c.stack)-1], true
}

func (c *ValidationContext) Depth() int { return len(c.stack) }

// Counts returns how many times scopes were entered and exited.
func (c *ValidationContext) Counts() (entered, exited int) {
	return c.entered, c.exited
}

// Bind records the type a variable currently holds. nil binds Unknown.
func (c *ValidationContext) Bind(name string, t *Type) {
	if t == nil {
		t = UnknownType
	}
	c.bindings.Set(name, t)
}

// Resolve looks a variable up in the bindings, then among the schema
// globals. Anything else is Unknown.
func (c *ValidationContext) Resolve(name string) *Type {
	if t, ok := c.bindings.Get(name); ok {
		return t
	}
	if typeName, ok := c.store.Global(name); ok {
		return HostType(typeName)
	}
	return UnknownType
}

func (c *ValidationContext) Bindings() map[string]*Type {
	return c.bindings.All()
}

// ValidateAssignment handles `name = value` (prop == "") by rebinding name,
// and `name.prop = value` by checking value against the property rule of
// name's bound type.
func (c *ValidationContext) ValidateAssignment(name, prop string, value Value, pos Location) []*Diagnostic {
	if prop == "" {
		c.Bind(name, value.Type)
		return nil
	}
	return c.AssignProperty(c.Resolve(name), prop, value, pos)
}

// AssignProperty checks `owner.prop = value`.
func (c *ValidationContext) AssignProperty(owner *Type, prop string, value Value, pos Location) []*Diagnostic {
	if !owner.IsHost() {
		return nil
	}
	release := c.Enter(owner.Name)
	defer release()

	td, ok := c.store.Type(owner.Name)
	if !ok {
		return []*Diagnostic{Diagnosticf(pos, CodeUnknownType, "type %s is not in the schema", owner.Name)}
	}
	rule, ok := c.store.Property(td.Name, prop)
	if !ok {
		rule, ok = c.descendantProperty(td.Name, prop)
	}
	if !ok {
		return []*Diagnostic{c.unknownMember(td.Name, prop, pos)}
	}
	if rule.ReadOnly {
		return []*Diagnostic{Diagnosticf(pos, CodeReadOnly, "%s.%s is read-only", td.Name, prop)}
	}
	if m := c.checkRule(rule, value, td); m != nil {
		return []*Diagnostic{Diagnosticf(pos, CodeValueShapeMismatch, "%s.%s: %s", td.Name, prop, m.Message)}
	}
	return nil
}

// checkRule checks value against rule for owner. A predicate that rejects
// owner is retried on its subtypes, since a base-typed value may be any of
// them at runtime.
func (c *ValidationContext) checkRule(rule *schema.ValueRule, value Value, owner *schema.TypeDescriptor) *rules.Mismatch {
	m := c.eval.Check(rule, value, owner)
	if m == nil || m.Reason != rules.Predicate || owner == nil {
		return m
	}
	for _, sub := range c.store.Descendants(owner.Name) {
		if td, ok := c.store.Type(sub); ok && c.eval.Check(rule, value, td) == nil {
			return nil
		}
	}
	return m
}

// descendantProperty finds prop on a subtype of typeName. A value typed as
// a base class (Item, Layer) is often a more specific object at runtime.
func (c *ValidationContext) descendantProperty(typeName, prop string) (*schema.ValueRule, bool) {
	for _, sub := range c.store.Descendants(typeName) {
		if td, ok := c.store.Type(sub); ok {
			if rule, ok := td.Property(prop); ok {
				return rule, true
			}
		}
	}
	return nil, false
}

func (c *ValidationContext) descendantMethod(typeName, name string) (*schema.MethodSignature, string, bool) {
	for _, sub := range c.store.Descendants(typeName) {
		if td, ok := c.store.Type(sub); ok {
			if m, ok := td.Method(name); ok {
				return m, sub, true
			}
		}
	}
	return nil, "", false
}

func (c *ValidationContext) unknownMember(typeName, member string, pos Location) *Diagnostic {
	d := Diagnosticf(pos, CodeUnknownMember, "%s has no member '%s'", typeName, member)
	d.Suggestions = matchnames.Names(matchnames.Rank(c.store.MemberNames(typeName), member, c.members.MaxDistance, c.members.TopK))
	return d
}
