package rules

import (
	"fmt"
	"strconv"

	"github.com/panyam/aescript/decl"
)

// KeyframeEaseType is the host type every ease array element must be.
const KeyframeEaseType = "KeyframeEase"

var easeUnsupported = map[decl.ValueKind]string{
	decl.KindNone:         "a property without a value",
	decl.KindCustomValue:  "a custom-value property",
	decl.KindIndex:        "a layer or mask index property",
	decl.KindMarker:       "a marker property",
	decl.KindShape:        "a shape property",
	decl.KindTextDocument: "a text document property",
	decl.KindObject:       "an object property",
}

// EaseDimensions is the number of KeyframeEase objects a temporal ease
// array needs for a stream of the given kind.
func EaseDimensions(kind decl.ValueKind) (int, *Mismatch) {
	if d := kind.Dimensions(); d > 0 {
		return d, nil
	}
	what, ok := easeUnsupported[kind]
	if !ok {
		what = "a " + kind.String() + " property"
	}
	return 0, &Mismatch{
		Reason:    EaseKind,
		Message:   fmt.Sprintf("%s does not support temporal easing", what),
		Expected:  "1d, 2d, 3d or color",
		Actual:    kind.String(),
		Component: -1,
	}
}

// CheckTemporalEase checks the incoming and outgoing ease arrays of a
// setTemporalEaseAtKey style call against the target stream's kind. The two
// sides are reported separately.
func (e *Evaluator) CheckTemporalEase(kind decl.ValueKind, in, out decl.Value) []*Mismatch {
	return e.checkTemporalEase(kind, false, in, out)
}

// CheckStreamEase is CheckTemporalEase for a stream type. A stream with an
// optional depth also takes one more ease per side.
func (e *Evaluator) CheckStreamEase(stream *decl.Type, in, out decl.Value) []*Mismatch {
	return e.checkTemporalEase(stream.Kind, stream.OptionalDepth, in, out)
}

func (e *Evaluator) checkTemporalEase(kind decl.ValueKind, depth bool, in, out decl.Value) []*Mismatch {
	want, m := EaseDimensions(kind)
	if m != nil {
		return []*Mismatch{m}
	}
	var found []*Mismatch
	for _, side := range []struct {
		label string
		v     decl.Value
	}{{"in-ease", in}, {"out-ease", out}} {
		if m := e.checkEaseSide(want, depth, side.label, side.v); m != nil {
			found = append(found, m)
		}
	}
	return found
}

func (e *Evaluator) checkEaseSide(want int, depth bool, label string, v decl.Value) *Mismatch {
	if v.IsUnknown() {
		return nil
	}
	if v.Type.Tag != decl.TypeTagArray {
		m := typeMismatch("Array of "+KeyframeEaseType, v)
		m.Message += " for " + label
		return m
	}
	if got := v.Len(); got >= 0 && got != want && !(depth && got == want+1) {
		return &Mismatch{
			Reason:    EaseCount,
			Message:   fmt.Sprintf("expected %d, got %d for %s", want, got, label),
			Expected:  strconv.Itoa(want),
			Actual:    strconv.Itoa(got),
			Component: -1,
		}
	}
	for i, et := range v.Type.Elems {
		if !e.Matches(KeyframeEaseType, et) || et.Tag == decl.TypeTagNull {
			return &Mismatch{
				Reason:    TypeMismatch,
				Message:   fmt.Sprintf("%s component %d: expected %s, got %s", label, i, KeyframeEaseType, et.TagName()),
				Expected:  KeyframeEaseType,
				Actual:    et.TagName(),
				Component: i,
			}
		}
	}
	return nil
}
