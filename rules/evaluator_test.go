package rules

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/panyam/aescript/decl"
	"github.com/panyam/aescript/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *schema.Store {
	t.Helper()
	s := schema.NewStore()
	for _, td := range []*schema.TypeDescriptor{
		schema.NewTypeDescriptor("Layer", ""),
		schema.NewTypeDescriptor("TextLayer", "Layer"),
		schema.NewTypeDescriptor("Project", ""),
		schema.NewTypeDescriptor("KeyframeEase", ""),
		schema.NewTypeDescriptor("Shape", ""),
		schema.NewTypeDescriptor("MarkerValue", ""),
		schema.NewTypeDescriptor("TextDocument", ""),
	} {
		require.NoError(t, s.RegisterType(td))
	}
	require.NoError(t, s.Freeze())
	return s
}

func nums(fs ...float64) decl.Value {
	elems := make([]decl.Value, len(fs))
	for i, f := range fs {
		elems[i] = decl.NumberValue(f)
	}
	return decl.ArrayValue(elems...)
}

func TestRangeBoundsAreInclusive(t *testing.T) {
	e := NewEvaluator(testStore(t))
	rule := &schema.ValueRule{Kind: decl.KindOneD, Range: &schema.Range{Min: 4, Max: 30000}}

	tests := []struct {
		value  float64
		accept bool
	}{
		{4, true}, {30000, true}, {1920, true},
		{3, false}, {3.999, false}, {30000.5, false}, {-1, false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.value), func(t *testing.T) {
			m := e.Check(rule, decl.NumberValue(tc.value), nil)
			if tc.accept {
				assert.Nil(t, m)
			} else {
				require.NotNil(t, m)
				assert.Equal(t, Range, m.Reason)
			}
		})
	}
}

func TestWidthBelowMinimumCitesLowerBound(t *testing.T) {
	e := NewEvaluator(testStore(t))
	rule := &schema.ValueRule{Kind: decl.KindOneD, Range: &schema.Range{Min: 4, Max: 30000}}
	m := e.Check(rule, decl.NumberValue(3), nil)
	require.NotNil(t, m)
	assert.Equal(t, Range, m.Reason)
	assert.Contains(t, m.Message, "below the minimum 4")
	assert.Equal(t, "[4, 30000]", m.Expected)
	assert.Equal(t, "3", m.Actual)
	assert.Equal(t, -1, m.Component)
}

func TestOpenRange(t *testing.T) {
	e := NewEvaluator(testStore(t))
	rule := &schema.ValueRule{Kind: decl.KindOneD, Range: &schema.Range{Min: 0, Max: math.Inf(1)}}
	assert.Nil(t, e.Check(rule, decl.NumberValue(1e12), nil))
	m := e.Check(rule, decl.NumberValue(-0.5), nil)
	require.NotNil(t, m)
	assert.Equal(t, "[0, ∞]", m.Expected)
}

func TestArrayLengthInvariant(t *testing.T) {
	e := NewEvaluator(testStore(t))
	for _, kind := range []decl.ValueKind{decl.KindTwoD, decl.KindTwoDSpatial, decl.KindThreeD, decl.KindThreeDSpatial, decl.KindColor} {
		rule := &schema.ValueRule{Kind: kind}
		l := kind.Dimensions()
		t.Run(kind.String(), func(t *testing.T) {
			exact := make([]float64, l)
			assert.Nil(t, e.Check(rule, nums(exact...), nil))

			for _, n := range []int{l - 1, l + 1} {
				m := e.Check(rule, nums(make([]float64, n)...), nil)
				require.NotNil(t, m, "length %d", n)
				assert.Equal(t, ArrayLength, m.Reason)
				assert.Equal(t, fmt.Sprint(l), m.Expected)
				assert.Equal(t, fmt.Sprint(n), m.Actual)
			}
		})
	}

	explicit := &schema.ValueRule{Kind: decl.KindObject, TypeName: "Array", ArrayLength: 6}
	assert.Nil(t, e.Check(explicit, nums(1, 2, 3, 4, 5, 6), nil))
	assert.NotNil(t, e.Check(explicit, nums(1, 2, 3, 4, 5), nil))
	assert.NotNil(t, e.Check(explicit, nums(1, 2, 3, 4, 5, 6, 7), nil))
}

func TestOptionalDepth(t *testing.T) {
	e := NewEvaluator(testStore(t))
	rule := &schema.ValueRule{Kind: decl.KindTwoDSpatial, OptionalDepth: true}
	assert.Nil(t, e.Check(rule, nums(960, 540), nil))
	assert.Nil(t, e.Check(rule, nums(960, 540, 0), nil))

	m := e.Check(rule, nums(960), nil)
	require.NotNil(t, m)
	assert.Equal(t, "expected 2 or 3 components, got 1", m.Message)
	assert.NotNil(t, e.Check(rule, nums(1, 2, 3, 4), nil))
}

func TestComponentRangeNamesComponent(t *testing.T) {
	e := NewEvaluator(testStore(t))
	m := e.Check(&schema.ValueRule{Kind: decl.KindColor}, nums(0.5, 1.2, 0, 1), nil)
	require.NotNil(t, m)
	assert.Equal(t, Range, m.Reason)
	assert.Equal(t, 1, m.Component)
	assert.Contains(t, m.Message, "component 1 value 1.2 is above the maximum 1")
}

func TestShapeChecks(t *testing.T) {
	e := NewEvaluator(testStore(t))
	layer := decl.OpaqueValue(decl.HostType("Layer"))
	textLayer := decl.OpaqueValue(decl.HostType("TextLayer"))

	tests := []struct {
		name   string
		rule   *schema.ValueRule
		value  decl.Value
		reason *Reason
	}{
		{"number for 1d", &schema.ValueRule{Kind: decl.KindOneD}, decl.NumberValue(1), nil},
		{"string for 1d", &schema.ValueRule{Kind: decl.KindOneD}, decl.StringValue("x"), ptr(TypeMismatch)},
		{"number for 2d", &schema.ValueRule{Kind: decl.KindTwoD}, decl.NumberValue(1), ptr(TypeMismatch)},
		{"string element", &schema.ValueRule{Kind: decl.KindTwoD}, decl.ArrayValue(decl.NumberValue(1), decl.StringValue("y")), ptr(TypeMismatch)},
		{"subtype accepted", &schema.ValueRule{Kind: decl.KindObject, TypeName: "Layer"}, textLayer, nil},
		{"supertype rejected", &schema.ValueRule{Kind: decl.KindObject, TypeName: "TextLayer"}, layer, ptr(TypeMismatch)},
		{"null for host", &schema.ValueRule{Kind: decl.KindObject, TypeName: "Layer"}, decl.NullValue(), nil},
		{"null for number", &schema.ValueRule{Kind: decl.KindObject, TypeName: "Number"}, decl.NullValue(), ptr(TypeMismatch)},
		{"any", &schema.ValueRule{Kind: decl.KindObject, TypeName: "Any"}, layer, nil},
		{"boolean", &schema.ValueRule{Kind: decl.KindObject, TypeName: "Boolean"}, decl.BoolValue(true), nil},
		{"text from string", &schema.ValueRule{Kind: decl.KindTextDocument}, decl.StringValue("hi"), nil},
		{"text from document", &schema.ValueRule{Kind: decl.KindTextDocument}, decl.OpaqueValue(decl.HostType("TextDocument")), nil},
		{"text from number", &schema.ValueRule{Kind: decl.KindTextDocument}, decl.NumberValue(2), ptr(TypeMismatch)},
		{"shape", &schema.ValueRule{Kind: decl.KindShape}, decl.OpaqueValue(decl.HostType("Shape")), nil},
		{"marker from string", &schema.ValueRule{Kind: decl.KindMarker}, decl.StringValue("m"), ptr(TypeMismatch)},
		{"custom accepts anything", &schema.ValueRule{Kind: decl.KindCustomValue}, decl.StringValue("m"), nil},
		{"no value", &schema.ValueRule{Kind: decl.KindNone}, decl.NumberValue(1), ptr(NoValue)},
		{"unknown always passes", &schema.ValueRule{Kind: decl.KindOneD, Range: &schema.Range{Min: 0, Max: 1}}, decl.OpaqueValue(nil), nil},
		{"opaque number skips range", &schema.ValueRule{Kind: decl.KindOneD, Range: &schema.Range{Min: 0, Max: 1}}, decl.OpaqueValue(decl.NumberType), nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := e.Check(tc.rule, tc.value, nil)
			if tc.reason == nil {
				assert.Nil(t, m)
			} else {
				require.NotNil(t, m)
				assert.Equal(t, *tc.reason, m.Reason, m.Message)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestEnumeration(t *testing.T) {
	e := NewEvaluator(testStore(t))
	rule := &schema.ValueRule{Kind: decl.KindCustomValue, Enumerated: true, Allowed: []string{"Normal", "Multiply", "Café"}}
	assert.Nil(t, e.Check(rule, decl.StringValue(" normal "), nil))
	assert.Nil(t, e.Check(rule, decl.StringValue("CAFE"), nil))

	m := e.Check(rule, decl.StringValue("Screen"), nil)
	require.NotNil(t, m)
	assert.Equal(t, Enum, m.Reason)
	assert.Equal(t, "[Normal, Multiply, Café]", m.Expected)

	numeric := &schema.ValueRule{Kind: decl.KindOneD, Enumerated: true, Allowed: []string{"1", "2.0", "3"}}
	assert.Nil(t, e.Check(numeric, decl.NumberValue(2), nil))
	assert.NotNil(t, e.Check(numeric, decl.NumberValue(4), nil))
}

func TestFormatAllowedCaps(t *testing.T) {
	allowed := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	assert.Equal(t, "[a, b, c, d, e, f, g, h (and 2 more)]", FormatAllowed(allowed))
	assert.Equal(t, "[a, b]", FormatAllowed(allowed[:2]))
}

func TestPredicateRunsLast(t *testing.T) {
	e := NewEvaluator(testStore(t))
	calls := 0
	rule := &schema.ValueRule{
		Kind:          decl.KindOneD,
		Range:         &schema.Range{Min: 0, Max: 10},
		PredicateName: "even",
		Predicate: func(v decl.Value, owner *schema.TypeDescriptor) error {
			calls++
			if f, _ := v.Number(); int(f)%2 != 0 {
				return errors.New("value must be even")
			}
			return nil
		},
	}
	assert.NotNil(t, e.Check(rule, decl.NumberValue(11), nil))
	assert.Equal(t, 0, calls, "range failure stops before the predicate")

	m := e.Check(rule, decl.NumberValue(3), nil)
	require.NotNil(t, m)
	assert.Equal(t, Predicate, m.Reason)
	assert.Equal(t, "value must be even", m.Message)
	assert.Nil(t, e.Check(rule, decl.NumberValue(4), nil))
}
