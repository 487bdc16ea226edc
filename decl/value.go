package decl

import (
	"fmt"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Value wraps a statically known Go value with its type.
// Value is nil when only the type is known ("opaque" values such as the
// result of a call or a variable reference).
//
// Known Go representations per tag:
//
//	Number -> float64, String -> string, Bool -> bool,
//	Array -> []Value, Object -> map[string]Value
type Value struct {
	Type  *Type
	Value any
}

func NumberValue(f float64) Value { return Value{Type: NumberType, Value: f} }
func StringValue(s string) Value  { return Value{Type: StrType, Value: s} }
func BoolValue(b bool) Value      { return Value{Type: BoolType, Value: b} }
func NullValue() Value            { return Value{Type: NullType} }

// ArrayValue builds a known array; its type records each element's type.
func ArrayValue(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{
		Type:  ArrayType(gfn.Map(elems, func(v Value) *Type { return v.Type })...),
		Value: elems,
	}
}

// OpaqueValue is a value of type t whose contents are not known.
func OpaqueValue(t *Type) Value {
	if t == nil {
		t = UnknownType
	}
	return Value{Type: t}
}

func (v Value) IsUnknown() bool { return v.Type.IsUnknown() }

// IsKnown is true when the literal contents are available.
func (v Value) IsKnown() bool {
	if v.Type != nil && v.Type.Tag == TypeTagNull {
		return true
	}
	return v.Value != nil
}

func (v Value) Number() (float64, bool) {
	f, ok := v.Value.(float64)
	return f, ok
}

func (v Value) Str() (string, bool) {
	s, ok := v.Value.(string)
	return s, ok
}

func (v Value) Elements() ([]Value, bool) {
	elems, ok := v.Value.([]Value)
	return elems, ok
}

// Len is the number of array components, -1 if unknown or not an array.
func (v Value) Len() int {
	if elems, ok := v.Elements(); ok {
		return len(elems)
	}
	return v.Type.Len()
}

// Numbers returns the known numeric components of the value along with
// their component index. Scalars report index 0.
func (v Value) Numbers() (indexes []int, nums []float64) {
	if f, ok := v.Number(); ok {
		return []int{0}, []float64{f}
	}
	if elems, ok := v.Elements(); ok {
		for i, e := range elems {
			if f, ok := e.Number(); ok {
				indexes = append(indexes, i)
				nums = append(nums, f)
			}
		}
	}
	return
}

// String renders the value the way it would appear in a script.
func (v Value) String() string {
	switch val := v.Value.(type) {
	case nil:
		if v.Type != nil && v.Type.Tag == TypeTagNull {
			return "null"
		}
		return fmt.Sprintf("<%s>", v.Type)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case []Value:
		return fmt.Sprintf("[%s]", strings.Join(gfn.Map(val, func(e Value) string { return e.String() }), ", "))
	case map[string]Value:
		return "{...}"
	}
	return fmt.Sprintf("%v", v.Value)
}
