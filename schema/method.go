package schema

import (
	"fmt"
	"slices"

	"github.com/panyam/aescript/matchnames"
)

// EaseParams names the argument positions that carry the incoming and
// outgoing KeyframeEase arrays of a temporal-ease call.
type EaseParams struct {
	In  int
	Out int
}

// MethodSignature describes a callable member (or a constructor).
// Params and MatchNames are sparse: a nil rule or NamespaceNone leaves that
// position unconstrained. When non-empty their length equals ParamCount.
type MethodSignature struct {
	Name       string
	ParamCount int
	Params     []*ValueRule
	MatchNames []matchnames.Namespace

	// Type name of the result, "" when unknown.
	Returns string

	Ease *EaseParams

	// Argument positions whose value must fit the receiving stream's kind,
	// as in setValue(value) or setValueAtTime(time, value).
	StreamValue []int
}

func (m *MethodSignature) Validate() error {
	if m.ParamCount < 0 {
		return fmt.Errorf("method %s: negative parameter count", m.Name)
	}
	if len(m.Params) > 0 && len(m.Params) != m.ParamCount {
		return fmt.Errorf("method %s: %d parameter rules for %d parameters", m.Name, len(m.Params), m.ParamCount)
	}
	if len(m.MatchNames) > 0 && len(m.MatchNames) != m.ParamCount {
		return fmt.Errorf("method %s: %d match-name slots for %d parameters", m.Name, len(m.MatchNames), m.ParamCount)
	}
	for i, p := range m.Params {
		if p == nil {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("method %s parameter %d: %w", m.Name, i, err)
		}
	}
	inRange := func(i int) bool { return i >= 0 && i < m.ParamCount }
	if m.Ease != nil && (!inRange(m.Ease.In) || !inRange(m.Ease.Out)) {
		return fmt.Errorf("method %s: ease parameters out of range", m.Name)
	}
	for _, i := range m.StreamValue {
		if !inRange(i) {
			return fmt.Errorf("method %s: stream value parameter %d out of range", m.Name, i)
		}
	}
	return nil
}

// Param returns the rule constraining argument i, or nil.
func (m *MethodSignature) Param(i int) *ValueRule {
	if i < 0 || i >= len(m.Params) {
		return nil
	}
	return m.Params[i]
}

// MatchName returns the namespace argument i must belong to.
func (m *MethodSignature) MatchName(i int) matchnames.Namespace {
	if i < 0 || i >= len(m.MatchNames) {
		return matchnames.NamespaceNone
	}
	return m.MatchNames[i]
}

func (m *MethodSignature) Equal(o *MethodSignature) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Name != o.Name || m.ParamCount != o.ParamCount || m.Returns != o.Returns {
		return false
	}
	if !slices.EqualFunc(m.Params, o.Params, func(a, b *ValueRule) bool { return a.Equal(b) }) {
		return false
	}
	if (m.Ease == nil) != (o.Ease == nil) || (m.Ease != nil && *m.Ease != *o.Ease) {
		return false
	}
	return slices.Equal(m.MatchNames, o.MatchNames) && slices.Equal(m.StreamValue, o.StreamValue)
}

func (m *MethodSignature) Clone() *MethodSignature {
	if m == nil {
		return nil
	}
	out := *m
	if m.Params != nil {
		out.Params = make([]*ValueRule, len(m.Params))
		for i, p := range m.Params {
			out.Params[i] = p.Clone()
		}
	}
	out.MatchNames = slices.Clone(m.MatchNames)
	out.StreamValue = slices.Clone(m.StreamValue)
	if m.Ease != nil {
		e := *m.Ease
		out.Ease = &e
	}
	return &out
}
