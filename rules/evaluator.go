package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/panyam/aescript/decl"
	"github.com/panyam/aescript/schema"
)

// Enumerations longer than this are cut short in messages.
const maxListedAllowed = 8

var colorRange = schema.Range{Min: 0, Max: 1}

// Evaluator decides whether a value satisfies a ValueRule. It only reads
// the store, so one Evaluator can serve concurrent runs.
type Evaluator struct {
	store *schema.Store
}

func NewEvaluator(store *schema.Store) *Evaluator {
	return &Evaluator{store: store}
}

// Check runs the type, length, range, enumeration and predicate checks in
// that order and returns the first failure, or nil. Values of unknown type
// always pass.
func (e *Evaluator) Check(rule *schema.ValueRule, v decl.Value, owner *schema.TypeDescriptor) *Mismatch {
	if rule == nil || v.IsUnknown() {
		return nil
	}
	if m := e.checkShape(rule, v); m != nil {
		return m
	}
	if m := checkLength(rule, v); m != nil {
		return m
	}
	if m := checkRange(rule, v); m != nil {
		return m
	}
	if m := checkEnum(rule, v); m != nil {
		return m
	}
	if rule.Predicate != nil {
		if err := rule.Predicate(v, owner); err != nil {
			return &Mismatch{
				Reason:    Predicate,
				Message:   err.Error(),
				Expected:  rule.PredicateName,
				Actual:    v.String(),
				Component: -1,
			}
		}
	}
	return nil
}

// Matches reports whether a value of type t may stand where typeName is
// expected. Unknown types always match.
func (e *Evaluator) Matches(typeName string, t *decl.Type) bool {
	if t.IsUnknown() {
		return true
	}
	tag := t.TagName()
	switch typeName {
	case "", "Any":
		return true
	case "Number", "String", "Boolean", "null", "Array", "Function":
		return tag == typeName
	case "Object":
		return t.Tag == decl.TypeTagObject || t.Tag == decl.TypeTagHost || t.Tag == decl.TypeTagNull
	}
	if t.Tag == decl.TypeTagNull {
		return true
	}
	return t.IsHost() && e.isA(t.Name, typeName)
}

func (e *Evaluator) isA(name, want string) bool {
	if e.store == nil {
		return name == want
	}
	return e.store.IsA(name, want)
}

func typeMismatch(expected string, v decl.Value) *Mismatch {
	actual := v.Type.TagName()
	return &Mismatch{
		Reason:    TypeMismatch,
		Message:   fmt.Sprintf("expected %s, got %s", expected, actual),
		Expected:  expected,
		Actual:    actual,
		Component: -1,
	}
}

func (e *Evaluator) checkShape(rule *schema.ValueRule, v decl.Value) *Mismatch {
	switch rule.Kind {
	case decl.KindNone:
		return &Mismatch{
			Reason:    NoValue,
			Message:   "member does not store a value",
			Expected:  "no value",
			Actual:    v.Type.TagName(),
			Component: -1,
		}
	case decl.KindCustomValue:
		return nil
	case decl.KindOneD, decl.KindIndex:
		if v.Type.Tag != decl.TypeTagNumber {
			return typeMismatch("Number", v)
		}
	case decl.KindTwoD, decl.KindTwoDSpatial, decl.KindThreeD, decl.KindThreeDSpatial, decl.KindColor:
		if v.Type.Tag != decl.TypeTagArray {
			return typeMismatch(fmt.Sprintf("Array (%s)", rule.Kind), v)
		}
		for i, et := range v.Type.Elems {
			if !et.IsUnknown() && et.Tag != decl.TypeTagNumber {
				return &Mismatch{
					Reason:    TypeMismatch,
					Message:   fmt.Sprintf("component %d: expected Number, got %s", i, et.TagName()),
					Expected:  "Number",
					Actual:    et.TagName(),
					Component: i,
				}
			}
		}
	case decl.KindTextDocument:
		if v.Type.Tag != decl.TypeTagString && !e.Matches("TextDocument", v.Type) {
			return typeMismatch("String or TextDocument", v)
		}
	case decl.KindShape:
		if !e.Matches("Shape", v.Type) {
			return typeMismatch("Shape", v)
		}
	case decl.KindMarker:
		if !e.Matches("MarkerValue", v.Type) {
			return typeMismatch("MarkerValue", v)
		}
	case decl.KindObject:
		if !e.Matches(rule.TypeName, v.Type) {
			return typeMismatch(rule.TypeName, v)
		}
	}
	return nil
}

// ExpectedLength is the fixed component count of a rule, 0 when free.
func ExpectedLength(rule *schema.ValueRule) int {
	if rule.ArrayLength > 0 {
		return rule.ArrayLength
	}
	if d := rule.Kind.Dimensions(); d > 1 {
		return d
	}
	return 0
}

func checkLength(rule *schema.ValueRule, v decl.Value) *Mismatch {
	want := ExpectedLength(rule)
	if want == 0 || v.Type.Tag != decl.TypeTagArray {
		return nil
	}
	got := v.Len()
	if got < 0 || got == want || (rule.OptionalDepth && got == want+1) {
		return nil
	}
	return &Mismatch{
		Reason:    ArrayLength,
		Message:   lengthMessage(rule, want, got),
		Expected:  strconv.Itoa(want),
		Actual:    strconv.Itoa(got),
		Component: -1,
	}
}

func lengthMessage(rule *schema.ValueRule, want, got int) string {
	if rule.OptionalDepth {
		return fmt.Sprintf("expected %d or %d components, got %d", want, want+1, got)
	}
	return fmt.Sprintf("expected %d components, got %d", want, got)
}

func checkRange(rule *schema.ValueRule, v decl.Value) *Mismatch {
	rng := rule.Range
	if rng == nil && rule.Kind == decl.KindColor {
		rng = &colorRange
	}
	if rng == nil {
		return nil
	}
	indexes, nums := v.Numbers()
	_, scalar := v.Number()
	for i, f := range nums {
		if rng.Contains(f) {
			continue
		}
		side, bound, limit := "below", "minimum", rng.Min
		if f > rng.Max {
			side, bound, limit = "above", "maximum", rng.Max
		}
		subject := fmt.Sprintf("component %d value %g", indexes[i], f)
		component := indexes[i]
		if scalar {
			subject = fmt.Sprintf("value %g", f)
			component = -1
		}
		return &Mismatch{
			Reason:    Range,
			Message:   fmt.Sprintf("%s is %s the %s %g of %s", subject, side, bound, limit, rng),
			Expected:  rng.String(),
			Actual:    strconv.FormatFloat(f, 'g', -1, 64),
			Component: component,
		}
	}
	return nil
}

func checkEnum(rule *schema.ValueRule, v decl.Value) *Mismatch {
	if !rule.Enumerated {
		return nil
	}
	key, ok := normalizeValue(v)
	if !ok {
		return nil
	}
	for _, allowed := range rule.Allowed {
		if normalizeAllowed(allowed) == key {
			return nil
		}
	}
	listed := FormatAllowed(rule.Allowed)
	return &Mismatch{
		Reason:    Enum,
		Message:   fmt.Sprintf("value %s is not one of %s", v, listed),
		Expected:  listed,
		Actual:    v.String(),
		Component: -1,
	}
}

func normalizeAllowed(s string) string {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return normalizeLiteral(s)
}

// FormatAllowed lists an enumeration for display, capped at eight entries.
func FormatAllowed(allowed []string) string {
	shown := allowed
	if len(shown) > maxListedAllowed {
		shown = shown[:maxListedAllowed]
	}
	out := strings.Join(shown, ", ")
	if extra := len(allowed) - len(shown); extra > 0 {
		out += fmt.Sprintf(" (and %d more)", extra)
	}
	return "[" + out + "]"
}
