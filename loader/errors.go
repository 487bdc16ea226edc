package loader

import (
	"fmt"
	"io"
	"strings"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Code classifies a diagnostic.
type Code string

const (
	CodeUnknownType        Code = "unknown-type"
	CodeUnknownMember      Code = "unknown-member"
	CodeArityMismatch      Code = "arity-mismatch"
	CodeValueShapeMismatch Code = "value-shape-mismatch"
	CodeUnknownMatchName   Code = "unknown-match-name"
	CodeReadOnly           Code = "read-only-assignment"
)

// Diagnostic is one problem found in a script.
type Diagnostic struct {
	Severity    Severity `json:"severity"`
	Code        Code     `json:"code"`
	Pos         Location `json:"pos"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (d *Diagnostic) Error() string {
	out := fmt.Sprintf("%s: [%s] %s", d.Pos.LineColStr(), d.Code, d.Message)
	if len(d.Suggestions) > 0 {
		out += fmt.Sprintf(" (did you mean: %s)", strings.Join(d.Suggestions, ", "))
	}
	return out
}

func Diagnosticf(pos Location, code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	}
}

// DiagnosticList is the ordered result of one validation run. Empty means
// the script was accepted.
type DiagnosticList []*Diagnostic

func (l DiagnosticList) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
}

// Err returns the list as an error, or nil when it is empty.
func (l DiagnosticList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l DiagnosticList) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (l DiagnosticList) Codes() []Code {
	out := make([]Code, len(l))
	for i, d := range l {
		out[i] = d.Code
	}
	return out
}

type ErrorCollector struct {
	Diagnostics DiagnosticList

	// Max diagnostics kept; later ones are counted but dropped.
	// 0 => no limit
	MaxErrors int

	dropped int
}

func (f *ErrorCollector) HasErrors() bool {
	return f.Diagnostics.HasErrors()
}

// Dropped is the number of diagnostics discarded because of MaxErrors.
func (f *ErrorCollector) Dropped() int {
	return f.dropped
}

func (f *ErrorCollector) PrintErrors(w io.Writer) {
	for _, d := range f.Diagnostics {
		fmt.Fprintln(w, d)
	}
	if f.dropped > 0 {
		fmt.Fprintf(w, "... %d more not shown\n", f.dropped)
	}
}

func (i *ErrorCollector) AddErrors(diags ...*Diagnostic) {
	for _, d := range diags {
		if i.MaxErrors > 0 && len(i.Diagnostics) >= i.MaxErrors {
			i.dropped++
			continue
		}
		i.Diagnostics = append(i.Diagnostics, d)
	}
}

// Errorf records an error diagnostic and returns false so callers can
// `return i.Errorf(...)` from checks.
func (i *ErrorCollector) Errorf(pos Location, code Code, format string, args ...any) bool {
	i.AddErrors(Diagnosticf(pos, code, format, args...))
	return false
}
