package catalog

import (
	"fmt"
	"math"

	"github.com/panyam/aescript/decl"
	"github.com/panyam/aescript/schema"
)

// Predicates are the named checks a catalog rule can refer to with
// `predicate: <name>`.
var Predicates = map[string]schema.Predicate{
	"alternate-source": alternateSource,
	"non-empty-string": nonEmptyString,
	"integer":          integer,
}

// alternateSource rejects values assigned through a type that cannot take
// an alternate media source (folders, solids, ...).
func alternateSource(_ decl.Value, owner *schema.TypeDescriptor) error {
	if owner == nil || owner.Has(schema.CapAlternateSource) {
		return nil
	}
	return fmt.Errorf("%s cannot use an alternate source", owner.Name)
}

func nonEmptyString(v decl.Value, _ *schema.TypeDescriptor) error {
	if s, ok := v.Str(); ok && s == "" {
		return fmt.Errorf("value must not be empty")
	}
	return nil
}

func integer(v decl.Value, _ *schema.TypeDescriptor) error {
	idx, nums := v.Numbers()
	for i, f := range nums {
		if f != math.Trunc(f) {
			if v.Type.Tag == decl.TypeTagArray {
				return fmt.Errorf("component %d value %g is not an integer", idx[i], f)
			}
			return fmt.Errorf("value %g is not an integer", f)
		}
	}
	return nil
}
