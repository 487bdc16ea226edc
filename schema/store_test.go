package schema

import (
	"math"
	"testing"

	"github.com/panyam/aescript/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numRule(min, max float64) *ValueRule {
	return &ValueRule{Kind: decl.KindOneD, Range: &Range{Min: min, Max: max}}
}

func buildStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()

	app := NewTypeDescriptor("Application", "")
	require.NoError(t, app.AddMethod(&MethodSignature{Name: "newProject", Returns: "Project"}))
	require.NoError(t, app.AddProperty("project", &ValueRule{Kind: decl.KindObject, TypeName: "Project", ReadOnly: true}))
	require.NoError(t, s.RegisterType(app))

	project := NewTypeDescriptor("Project", "")
	require.NoError(t, project.AddProperty("numItems", &ValueRule{Kind: decl.KindOneD, Range: &Range{Min: 0, Max: math.Inf(1)}, ReadOnly: true}))
	require.NoError(t, s.RegisterType(project))

	item := NewTypeDescriptor("Item", "")
	require.NoError(t, item.AddProperty("name", &ValueRule{Kind: decl.KindObject, TypeName: "String"}))
	require.NoError(t, item.AddMethod(&MethodSignature{Name: "remove"}))
	require.NoError(t, s.RegisterType(item))

	comp := NewTypeDescriptor("CompItem", "Item")
	comp.Caps = CapAlternateSource
	require.NoError(t, comp.AddProperty("width", numRule(4, 30000)))
	require.NoError(t, s.RegisterType(comp))

	require.NoError(t, s.RegisterGlobal("app", "Application"))
	return s
}

func TestLookupsFallThroughParent(t *testing.T) {
	s := buildStore(t)
	require.NoError(t, s.Freeze())

	_, ok := s.Property("CompItem", "width")
	assert.True(t, ok)
	rule, ok := s.Property("CompItem", "name")
	assert.True(t, ok, "inherited from Item")
	assert.Equal(t, "String", rule.TypeName)
	_, ok = s.Method("CompItem", "remove")
	assert.True(t, ok)

	_, ok = s.Method("CompItem", "nope")
	assert.False(t, ok)
	_, ok = s.Property("Nothing", "width")
	assert.False(t, ok)

	assert.Equal(t, []string{"width", "name", "remove"}, s.MemberNames("CompItem"))
	assert.True(t, s.IsA("CompItem", "Item"))
	assert.False(t, s.IsA("Item", "CompItem"))
	assert.Equal(t, []string{"CompItem"}, s.Descendants("Item"))
	assert.Empty(t, s.Descendants("CompItem"))

	g, ok := s.Global("app")
	assert.True(t, ok)
	assert.Equal(t, "Application", g)
}

func TestIdenticalReregistrationIsNoop(t *testing.T) {
	s := buildStore(t)
	again := NewTypeDescriptor("Application", "")
	require.NoError(t, again.AddMethod(&MethodSignature{Name: "newProject", Returns: "Project"}))
	assert.NoError(t, s.RegisterType(again))

	app, _ := s.Type("Application")
	assert.Equal(t, []string{"newProject"}, app.MethodNames())
}

func TestConflictingReregistration(t *testing.T) {
	s := buildStore(t)
	other := NewTypeDescriptor("Application", "")
	require.NoError(t, other.AddMethod(&MethodSignature{Name: "newProject", ParamCount: 1}))
	assert.ErrorIs(t, s.RegisterType(other), ErrConflict)

	assert.ErrorIs(t, s.RegisterGlobal("app", "Project"), ErrConflict)

	td := NewTypeDescriptor("X", "")
	require.NoError(t, td.AddProperty("p", numRule(0, 1)))
	assert.ErrorIs(t, td.AddProperty("p", numRule(0, 2)), ErrConflict)
	assert.NoError(t, td.AddProperty("p", numRule(0, 1)))
}

func TestMergeAddsMembers(t *testing.T) {
	s := buildStore(t)
	more := NewTypeDescriptor("Project", "")
	require.NoError(t, more.AddMethod(&MethodSignature{Name: "save", ParamCount: 1}))
	require.NoError(t, s.RegisterType(more))

	_, ok := s.Method("Project", "save")
	assert.True(t, ok)
	_, ok = s.Property("Project", "numItems")
	assert.True(t, ok)
}

func TestAliasIsDeepCopy(t *testing.T) {
	s := buildStore(t)
	require.NoError(t, s.RegisterAlias("Comp", "CompItem"))
	require.NoError(t, s.RegisterAlias("Comp", "CompItem"))

	orig, _ := s.Type("CompItem")
	alias, _ := s.Type("Comp")
	assert.NotSame(t, orig, alias)
	assert.True(t, orig.Equal(alias))

	origRule, _ := orig.Property("width")
	aliasRule, _ := alias.Property("width")
	assert.NotSame(t, origRule, aliasRule)

	target, ok := s.AliasTarget("Comp")
	assert.True(t, ok)
	assert.Equal(t, "CompItem", target)

	assert.ErrorIs(t, s.RegisterAlias("Comp2", "Missing"), ErrUnknownType)
	assert.ErrorIs(t, s.RegisterAlias("Project", "CompItem"), ErrConflict)
}

func TestFreeze(t *testing.T) {
	s := buildStore(t)
	require.NoError(t, s.Freeze())
	assert.True(t, s.Frozen())
	assert.ErrorIs(t, s.RegisterType(NewTypeDescriptor("Late", "")), ErrFrozen)
	assert.ErrorIs(t, s.RegisterGlobal("x", "Project"), ErrFrozen)
	assert.ErrorIs(t, s.RegisterAlias("P", "Project"), ErrFrozen)
}

func TestFreezeRejectsBadParents(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.RegisterType(NewTypeDescriptor("A", "Missing")))
	assert.ErrorIs(t, s.Freeze(), ErrUnknownParent)

	s = NewStore()
	require.NoError(t, s.RegisterType(NewTypeDescriptor("A", "B")))
	require.NoError(t, s.RegisterType(NewTypeDescriptor("B", "A")))
	assert.ErrorIs(t, s.Freeze(), ErrParentCycle)
	assert.False(t, s.Frozen())

	// Lookups on an unfrozen cyclic store still terminate.
	_, ok := s.Property("A", "x")
	assert.False(t, ok)
}

func TestFreezeRejectsUnknownGlobal(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.RegisterGlobal("app", "Application"))
	assert.ErrorIs(t, s.Freeze(), ErrUnknownType)
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name string
		rule ValueRule
		ok   bool
	}{
		{"plain", ValueRule{Kind: decl.KindOneD}, true},
		{"enum without values", ValueRule{Kind: decl.KindOneD, Enumerated: true}, false},
		{"object without type", ValueRule{Kind: decl.KindObject}, false},
		{"empty range", ValueRule{Kind: decl.KindOneD, Range: &Range{Min: 2, Max: 1}}, false},
		{"unnamed predicate", ValueRule{Kind: decl.KindOneD, Predicate: func(decl.Value, *TypeDescriptor) error { return nil }}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMethodValidate(t *testing.T) {
	assert.NoError(t, (&MethodSignature{Name: "m", ParamCount: 2, Params: []*ValueRule{nil, numRule(0, 1)}}).Validate())
	assert.Error(t, (&MethodSignature{Name: "m", ParamCount: 2, Params: []*ValueRule{numRule(0, 1)}}).Validate())
	assert.Error(t, (&MethodSignature{Name: "m", ParamCount: 1, Ease: &EaseParams{In: 1, Out: 2}}).Validate())
}

func TestCapabilities(t *testing.T) {
	c, err := ParseCapability("alternate-source")
	require.NoError(t, err)
	td := &TypeDescriptor{Name: "X", Caps: c | CapCollection}
	assert.True(t, td.Has(CapAlternateSource))
	assert.False(t, td.Has(CapStream))
	assert.Equal(t, "alternate-source,collection", td.Caps.String())
}
