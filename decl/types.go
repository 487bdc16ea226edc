package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

type TypeTag int

const (
	TypeTagUnknown TypeTag = iota
	TypeTagNull
	TypeTagBool
	TypeTagNumber
	TypeTagString
	TypeTagArray
	TypeTagObject // plain object literal
	TypeTagHost   // host object described by the schema
	TypeTagMethod // an uncalled method reference
)

// Type is the abstract type the validator propagates through expressions.
type Type struct {
	Tag TypeTag

	// Host type name for TypeTagHost, method name for TypeTagMethod.
	Name string

	// Owner type of a method reference.
	Owner string

	// Value kind of an animatable property stream (TypeTagHost only).
	// KindNone when the host object is not a stream.
	Kind ValueKind
	// The stream also takes a trailing z component (2D transform streams
	// of a 3D layer).
	OptionalDepth bool

	// Element types of an array whose length is statically known.
	// nil means the length is unknown.
	Elems []*Type
}

// --- Type Factory Functions ---

var (
	// Use singletons for basic types for efficiency
	UnknownType = &Type{Tag: TypeTagUnknown}
	NullType    = &Type{Tag: TypeTagNull}
	BoolType    = &Type{Tag: TypeTagBool}
	NumberType  = &Type{Tag: TypeTagNumber}
	StrType     = &Type{Tag: TypeTagString}
	ObjectType  = &Type{Tag: TypeTagObject}
	AnyArray    = &Type{Tag: TypeTagArray}
)

func HostType(name string) *Type {
	if name == "" {
		panic("host type name cannot be empty")
	}
	return &Type{Tag: TypeTagHost, Name: name}
}

// StreamType is a host object (usually "Property") whose value has the given kind.
func StreamType(name string, kind ValueKind) *Type {
	t := HostType(name)
	t.Kind = kind
	return t
}

func MethodType(owner, name string) *Type {
	return &Type{Tag: TypeTagMethod, Owner: owner, Name: name}
}

// ArrayType returns an array type of known length with the given element types.
func ArrayType(elems ...*Type) *Type {
	if elems == nil {
		elems = []*Type{}
	}
	return &Type{Tag: TypeTagArray, Elems: elems}
}

// PrimitiveType maps the primitive tag names used by value rules to types.
func PrimitiveType(name string) (*Type, bool) {
	switch name {
	case "Number":
		return NumberType, true
	case "String":
		return StrType, true
	case "Boolean":
		return BoolType, true
	case "Array":
		return AnyArray, true
	case "Object":
		return ObjectType, true
	case "null":
		return NullType, true
	}
	return nil, false
}

// IsPrimitiveName is true for the tag names that are not host types.
func IsPrimitiveName(name string) bool {
	switch name {
	case "Number", "String", "Boolean", "Array", "Object", "Function", "Any", "null":
		return true
	}
	return false
}

func (t *Type) IsUnknown() bool {
	return t == nil || t.Tag == TypeTagUnknown
}

func (t *Type) IsHost() bool {
	return t != nil && t.Tag == TypeTagHost
}

// Len is the statically known array length or -1.
func (t *Type) Len() int {
	if t == nil || t.Tag != TypeTagArray || t.Elems == nil {
		return -1
	}
	return len(t.Elems)
}

// TagName is the declared type tag that value rules compare against.
// Empty for unknown types.
func (t *Type) TagName() string {
	if t == nil {
		return ""
	}
	switch t.Tag {
	case TypeTagNull:
		return "null"
	case TypeTagBool:
		return "Boolean"
	case TypeTagNumber:
		return "Number"
	case TypeTagString:
		return "String"
	case TypeTagArray:
		return "Array"
	case TypeTagObject:
		return "Object"
	case TypeTagHost:
		return t.Name
	case TypeTagMethod:
		return "Function"
	}
	return ""
}

// String representation of the type
func (t *Type) String() string {
	if t == nil {
		return "<nil_type>"
	}
	switch t.Tag {
	case TypeTagUnknown:
		return "Unknown"
	case TypeTagArray:
		if t.Elems == nil {
			return "Array"
		}
		return fmt.Sprintf("Array[%s]", strings.Join(gfn.Map(t.Elems, func(e *Type) string { return e.String() }), ", "))
	case TypeTagHost:
		if t.Kind != KindNone {
			return fmt.Sprintf("%s<%s>", t.Name, t.Kind)
		}
		return t.Name
	case TypeTagMethod:
		return fmt.Sprintf("%s.%s()", t.Owner, t.Name)
	}
	return t.TagName()
}

// Equals checks if two types are structurally equivalent.
func (v *Type) Equals(other *Type) bool {
	if v == other { // Pointer equality check (useful for singletons)
		return true
	}
	if v == nil || other == nil {
		return false
	}
	if v.Tag != other.Tag || v.Name != other.Name || v.Owner != other.Owner || v.Kind != other.Kind || v.OptionalDepth != other.OptionalDepth {
		return false
	}
	if (v.Elems == nil) != (other.Elems == nil) || len(v.Elems) != len(other.Elems) {
		return false
	}
	for i := range v.Elems {
		if !v.Elems[i].Equals(other.Elems[i]) {
			return false
		}
	}
	return true
}
