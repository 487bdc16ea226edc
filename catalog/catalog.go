// Package catalog loads the host object model (types, members, value rules
// and match names) from YAML documents into a frozen schema store and
// match-name registry.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/panyam/aescript/decl"
	"github.com/panyam/aescript/matchnames"
	"github.com/panyam/aescript/schema"
)

//go:embed data/*.yaml
var embedded embed.FS

// Document is one catalog file. Several documents may describe the same
// type; their members are merged.
type Document struct {
	Globals    map[string]string   `yaml:"globals"`
	StreamType string              `yaml:"streamType"`
	Types      []TypeDoc           `yaml:"types"`
	Aliases    map[string][]string `yaml:"aliases"` // target type -> alias names
	MatchNames map[string][]string `yaml:"matchNames"`
}

type TypeDoc struct {
	Name        string      `yaml:"name"`
	Parent      string      `yaml:"parent"`
	Caps        []string    `yaml:"caps"`
	ElementType string      `yaml:"elementType"`
	Constructor *MethodDoc  `yaml:"constructor"`
	Methods     []MethodDoc `yaml:"methods"`
	Properties  PropertyMap `yaml:"properties"`
}

type MethodDoc struct {
	Name        string     `yaml:"name"`
	Params      int        `yaml:"params"`
	Args        []*RuleDoc `yaml:"args"`
	MatchNames  []string   `yaml:"matchNames"`
	Returns     string     `yaml:"returns"`
	Ease        *[2]int    `yaml:"ease"` // [in, out] argument positions
	StreamValue []int      `yaml:"streamValue"`
}

// RuleDoc is the YAML form of a schema.ValueRule. `type: X` alone implies
// kind object.
type RuleDoc struct {
	Kind      string    `yaml:"kind"`
	Type      string    `yaml:"type"`
	Length    int       `yaml:"length"`
	Depth     bool      `yaml:"depth"`
	Range     []float64 `yaml:"range"`
	Spatial   bool      `yaml:"spatial"`
	Temporal  bool      `yaml:"temporal"`
	Separable bool      `yaml:"separable"`
	Enum      []string  `yaml:"enum"`
	ReadOnly  bool      `yaml:"readOnly"`
	Predicate string    `yaml:"predicate"`
}

type NamedRule struct {
	Name string
	Rule *RuleDoc
}

// PropertyMap keeps properties in document order.
type PropertyMap []NamedRule

func (p *PropertyMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var rule RuleDoc
		if err := node.Content[i+1].Decode(&rule); err != nil {
			return fmt.Errorf("property %s: %w", node.Content[i].Value, err)
		}
		*p = append(*p, NamedRule{Name: node.Content[i].Value, Rule: &rule})
	}
	return nil
}

// Load reads YAML documents (several per reader are allowed), registers
// their content and freezes the result.
func Load(readers ...io.Reader) (*schema.Store, *matchnames.Registry, error) {
	store := schema.NewStore()
	registry := matchnames.NewRegistry()
	for i, r := range readers {
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		for n := 0; ; n++ {
			var doc Document
			err := dec.Decode(&doc)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, nil, fmt.Errorf("catalog %d document %d: %w", i, n, err)
			}
			if err := doc.apply(store, registry); err != nil {
				return nil, nil, fmt.Errorf("catalog %d document %d: %w", i, n, err)
			}
		}
	}
	if err := store.Freeze(); err != nil {
		return nil, nil, err
	}
	registry.Freeze()
	return store, registry, nil
}

// LoadFiles is Load over files on disk.
func LoadFiles(paths ...string) (*schema.Store, *matchnames.Registry, error) {
	var readers []io.Reader
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		readers = append(readers, f)
	}
	return Load(readers...)
}

func embeddedReaders() ([]io.Reader, func(), error) {
	paths, err := fs.Glob(embedded, "data/*.yaml")
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(paths)
	var files []fs.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	var readers []io.Reader
	for _, path := range paths {
		f, err := embedded.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	return readers, closeAll, nil
}

// Extend loads the built-in catalog followed by the given files, so they
// can add types, members and match names. Without paths it is Default.
func Extend(paths ...string) (*schema.Store, *matchnames.Registry, error) {
	if len(paths) == 0 {
		return Default()
	}
	readers, closeAll, err := embeddedReaders()
	if err != nil {
		return nil, nil, err
	}
	defer closeAll()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		readers = append(readers, f)
	}
	return Load(readers...)
}

type loaded struct {
	store    *schema.Store
	registry *matchnames.Registry
}

var loadDefault = sync.OnceValues(func() (loaded, error) {
	readers, closeAll, err := embeddedReaders()
	if err != nil {
		return loaded{}, err
	}
	defer closeAll()
	store, registry, err := Load(readers...)
	return loaded{store, registry}, err
})

// Default returns the built-in catalog. It is loaded once and shared;
// both results are frozen.
func Default() (*schema.Store, *matchnames.Registry, error) {
	l, err := loadDefault()
	return l.store, l.registry, err
}

func (d *Document) apply(store *schema.Store, registry *matchnames.Registry) error {
	for _, td := range d.Types {
		t, err := td.build()
		if err != nil {
			return fmt.Errorf("type %s: %w", td.Name, err)
		}
		if err := store.RegisterType(t); err != nil {
			return err
		}
	}
	for _, target := range sortedKeys(d.Aliases) {
		for _, alias := range d.Aliases[target] {
			if err := store.RegisterAlias(alias, target); err != nil {
				return err
			}
		}
	}
	for _, name := range sortedKeys(d.Globals) {
		if err := store.RegisterGlobal(name, d.Globals[name]); err != nil {
			return err
		}
	}
	if d.StreamType != "" {
		if err := store.SetStreamType(d.StreamType); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(d.MatchNames) {
		ns, err := matchnames.ParseNamespace(key)
		if err != nil {
			return err
		}
		if err := registry.Register(ns, d.MatchNames[key]...); err != nil {
			return err
		}
	}
	return nil
}

func (td *TypeDoc) build() (*schema.TypeDescriptor, error) {
	t := schema.NewTypeDescriptor(td.Name, td.Parent)
	t.ElementType = td.ElementType
	for _, c := range td.Caps {
		flag, err := schema.ParseCapability(c)
		if err != nil {
			return nil, err
		}
		t.Caps |= flag
	}
	if td.ElementType != "" {
		t.Caps |= schema.CapCollection
	}
	if td.Constructor != nil {
		if td.Constructor.Name == "" {
			td.Constructor.Name = td.Name
		}
		ctor, err := td.Constructor.build()
		if err != nil {
			return nil, fmt.Errorf("constructor: %w", err)
		}
		t.Constructor = ctor
	}
	for _, md := range td.Methods {
		m, err := md.build()
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", md.Name, err)
		}
		if err := t.AddMethod(m); err != nil {
			return nil, err
		}
	}
	for _, p := range td.Properties {
		rule, err := p.Rule.build()
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}
		if err := t.AddProperty(p.Name, rule); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (md *MethodDoc) build() (*schema.MethodSignature, error) {
	m := &schema.MethodSignature{
		Name:        md.Name,
		ParamCount:  md.Params,
		Returns:     md.Returns,
		StreamValue: md.StreamValue,
	}
	// a rule list alone fixes the count
	if m.ParamCount == 0 {
		m.ParamCount = max(len(md.Args), len(md.MatchNames))
	}
	if len(md.Args) > 0 {
		m.Params = make([]*schema.ValueRule, len(md.Args))
		for i, a := range md.Args {
			if a == nil {
				continue
			}
			rule, err := a.build()
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			m.Params[i] = rule
		}
	}
	if len(md.MatchNames) > 0 {
		m.MatchNames = make([]matchnames.Namespace, len(md.MatchNames))
		for i, s := range md.MatchNames {
			if s == "" || s == "none" {
				continue
			}
			ns, err := matchnames.ParseNamespace(s)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			m.MatchNames[i] = ns
		}
	}
	if md.Ease != nil {
		m.Ease = &schema.EaseParams{In: md.Ease[0], Out: md.Ease[1]}
	}
	return m, m.Validate()
}

func (rd *RuleDoc) build() (*schema.ValueRule, error) {
	kind := decl.KindObject
	if rd.Kind != "" || rd.Type == "" {
		var err error
		if kind, err = decl.ParseValueKind(rd.Kind); err != nil {
			return nil, err
		}
	}
	r := &schema.ValueRule{
		Kind:          kind,
		TypeName:      rd.Type,
		ArrayLength:   rd.Length,
		OptionalDepth: rd.Depth,
		Spatial:       rd.Spatial,
		Temporal:      rd.Temporal,
		SeparableDims: rd.Separable,
		Enumerated:    len(rd.Enum) > 0,
		Allowed:       rd.Enum,
		ReadOnly:      rd.ReadOnly,
	}
	switch len(rd.Range) {
	case 0:
	case 2:
		r.Range = &schema.Range{Min: rd.Range[0], Max: rd.Range[1]}
	default:
		return nil, fmt.Errorf("range must be [min, max], got %v", rd.Range)
	}
	if rd.Predicate != "" {
		pred, ok := Predicates[rd.Predicate]
		if !ok {
			return nil, fmt.Errorf("unknown predicate %q", rd.Predicate)
		}
		r.Predicate, r.PredicateName = pred, rd.Predicate
	}
	return r, r.Validate()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
