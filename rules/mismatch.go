package rules

// Reason classifies why a value was rejected.
type Reason int

const (
	TypeMismatch Reason = iota
	ArrayLength
	Range
	Enum
	Predicate
	EaseKind
	EaseCount
	ReadOnly
	NoValue
)

var reasonNames = [...]string{
	TypeMismatch: "type-mismatch",
	ArrayLength:  "array-length",
	Range:        "range",
	Enum:         "enum",
	Predicate:    "predicate",
	EaseKind:     "ease-kind",
	EaseCount:    "ease-count",
	ReadOnly:     "read-only",
	NoValue:      "no-value",
}

func (r Reason) String() string {
	if int(r) >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Mismatch is a rejected value. Expected and Actual are display strings.
type Mismatch struct {
	Reason   Reason
	Message  string
	Expected string
	Actual   string

	// Offending array component, -1 when the value as a whole failed.
	Component int
}

func (m *Mismatch) Error() string {
	return m.Message
}
