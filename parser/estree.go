package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// esNode is one ESTree node as produced by acorn or esprima. Fields are
// kept raw and decoded on demand since the same key holds different
// shapes in different node types ("body" is a list in Program and a
// single node in loops).
type esNode struct {
	Type   string
	Loc    Location
	fields map[string]json.RawMessage
}

func (n *esNode) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &n.fields); err != nil {
		return err
	}
	if raw, ok := n.fields["type"]; ok {
		if err := json.Unmarshal(raw, &n.Type); err != nil {
			return fmt.Errorf("node type: %w", err)
		}
	}
	if raw, ok := n.fields["loc"]; ok && !isNull(raw) {
		var loc struct {
			Start struct {
				Line   int `json:"line"`
				Column int `json:"column"`
			} `json:"start"`
		}
		if err := json.Unmarshal(raw, &loc); err != nil {
			return fmt.Errorf("%s location: %w", n.Type, err)
		}
		// ESTree columns are 0-based
		n.Loc = Location{Line: loc.Start.Line, Col: loc.Start.Column + 1}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

// node decodes a single child; absent or null children are nil.
func (n *esNode) node(key string) (*esNode, error) {
	raw, ok := n.fields[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var child esNode
	if err := json.Unmarshal(raw, &child); err != nil {
		return nil, fmt.Errorf("%s.%s at %s: %w", n.Type, key, n.Loc.LineColStr(), err)
	}
	return &child, nil
}

// list decodes a child array. Holes (`[1,,2]`) come back as nil entries.
func (n *esNode) list(key string) ([]*esNode, error) {
	raw, ok := n.fields[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var children []*esNode
	if err := json.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("%s.%s at %s: %w", n.Type, key, n.Loc.LineColStr(), err)
	}
	return children, nil
}

func (n *esNode) str(key string) string {
	var s string
	if raw, ok := n.fields[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func (n *esNode) flag(key string) bool {
	var b bool
	if raw, ok := n.fields[key]; ok {
		_ = json.Unmarshal(raw, &b)
	}
	return b
}

// children returns every node-shaped field of n, in source order. Used to
// keep walking into constructs that are not modelled.
func (n *esNode) children() ([]*esNode, error) {
	keys := make([]string, 0, len(n.fields))
	for k := range n.fields {
		if k != "loc" && k != "type" && k != "range" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []*esNode
	for _, key := range keys {
		raw := bytes.TrimSpace(n.fields[key])
		if len(raw) == 0 {
			continue
		}
		switch raw[0] {
		case '{':
			var probe struct {
				Type string `json:"type"`
			}
			if json.Unmarshal(raw, &probe) != nil || probe.Type == "" {
				continue
			}
			child, err := n.node(key)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		case '[':
			var probe []json.RawMessage
			if json.Unmarshal(raw, &probe) != nil || len(probe) == 0 {
				continue
			}
			items, err := n.list(key)
			if err != nil {
				// arrays of scalars
				continue
			}
			for _, item := range items {
				if item != nil && item.Type != "" {
					out = append(out, item)
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Loc, out[j].Loc
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	return out, nil
}

// literal decodes the "value" of a Literal node.
func (n *esNode) literal() (Value, error) {
	raw := bytes.TrimSpace(n.fields["value"])
	if len(raw) == 0 || string(raw) == "null" {
		if _, isRegex := n.fields["regex"]; isRegex {
			return OpaqueValue(ObjectType), nil
		}
		return NullValue(), nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case 't', 'f':
		return BoolValue(raw[0] == 't'), nil
	case '{', '[':
		return OpaqueValue(ObjectType), nil
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return Value{}, fmt.Errorf("literal at %s: %w", n.Loc.LineColStr(), err)
	}
	return NumberValue(f), nil
}

func decodeProgram(input io.Reader) (*esNode, error) {
	var root esNode
	dec := json.NewDecoder(input)
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	if root.Type == "File" {
		// babel wraps the program
		prog, err := root.node("program")
		if err != nil {
			return nil, err
		}
		if prog == nil {
			return nil, fmt.Errorf("File node has no program")
		}
		root = *prog
	}
	if root.Type != "Program" {
		return nil, fmt.Errorf("expected a Program node, found %q", root.Type)
	}
	return &root, nil
}
