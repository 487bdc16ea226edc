package decl

import (
	"fmt"
	"strings"
)

// ValueKind is the closed set of shapes a host property or parameter value
// may take.
type ValueKind int

const (
	KindNone ValueKind = iota // property groups and other members without a value
	KindOneD
	KindTwoD
	KindTwoDSpatial
	KindThreeD
	KindThreeDSpatial
	KindColor
	KindCustomValue
	KindIndex // layer or mask index, 0 means none
	KindMarker
	KindShape
	KindTextDocument
	KindObject // a named object type (host or primitive), see ValueRule.TypeName
)

var kindNames = map[ValueKind]string{
	KindNone:          "none",
	KindOneD:          "1d",
	KindTwoD:          "2d",
	KindTwoDSpatial:   "2d-spatial",
	KindThreeD:        "3d",
	KindThreeDSpatial: "3d-spatial",
	KindColor:         "color",
	KindCustomValue:   "custom",
	KindIndex:         "index",
	KindMarker:        "marker",
	KindShape:         "shape",
	KindTextDocument:  "text-document",
	KindObject:        "object",
}

func (k ValueKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// ParseValueKind maps a catalog spelling back to its ValueKind.
func ParseValueKind(s string) (ValueKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "no-value":
		return KindNone, nil
	case "one-d", "oned":
		return KindOneD, nil
	case "two-d", "twod":
		return KindTwoD, nil
	case "three-d", "threed":
		return KindThreeD, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown value kind %q", s)
}

// Dimensions is the number of numeric components a value of this kind
// carries, or 0 for kinds that are not numeric vectors.
func (k ValueKind) Dimensions() int {
	switch k {
	case KindOneD:
		return 1
	case KindTwoD, KindTwoDSpatial:
		return 2
	case KindThreeD, KindThreeDSpatial:
		return 3
	case KindColor:
		return 4
	}
	return 0
}

func (k ValueKind) IsSpatial() bool {
	return k == KindTwoDSpatial || k == KindThreeDSpatial
}
