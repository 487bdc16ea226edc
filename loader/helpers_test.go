package loader

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/panyam/aescript/decl"
	"github.com/panyam/aescript/matchnames"
	"github.com/panyam/aescript/schema"
	"github.com/stretchr/testify/require"
)

// --- AST builders ---

func id(name string) *IdentifierExpr { return &IdentifierExpr{Value: name} }

func num(f float64) *LiteralExpr { return &LiteralExpr{Value: decl.NumberValue(f)} }

func str(s string) *LiteralExpr { return &LiteralExpr{Value: decl.StringValue(s)} }

func null() *LiteralExpr { return &LiteralExpr{Value: decl.NullValue()} }

func neg(e Expr) *UnaryExpr { return &UnaryExpr{Operator: "-", Right: e} }

func arr(elems ...Expr) *ArrayExpr { return &ArrayExpr{Elements: elems} }

// chain builds a.b.c from "a", "b", "c".
func chain(root string, members ...string) Expr {
	var e Expr = id(root)
	for _, m := range members {
		e = &MemberAccessExpr{Receiver: e, Member: id(m)}
	}
	return e
}

func mem(recv Expr, name string) *MemberAccessExpr {
	return &MemberAccessExpr{Receiver: recv, Member: id(name)}
}

func call(fn Expr, args ...Expr) *CallExpr { return &CallExpr{Function: fn, Args: args} }

func newOf(name string, args ...Expr) *NewExpr { return &NewExpr{Callee: id(name), Args: args} }

func assign(target, value Expr) *AssignExpr {
	return &AssignExpr{Target: target, Operator: "=", Value: value}
}

func stmt(e Expr) Stmt { return &ExprStmt{Expression: e} }

func varDecl(name string, init Expr) Stmt {
	return &VarStmt{Keyword: "var", Decls: []decl.VarDeclarator{{Name: id(name), Init: init}}}
}

// at places a statement on a source line.
func at(line int, s Stmt) Stmt {
	switch st := s.(type) {
	case *ExprStmt:
		st.Start = Location{Line: line, Col: 1}
		setPos(st.Expression, line)
	case *VarStmt:
		st.Start = Location{Line: line, Col: 1}
		for _, d := range st.Decls {
			d.Name.Start = Location{Line: line, Col: 5}
			setPos(d.Init, line)
		}
	}
	return s
}

func setPos(e Expr, line int) {
	if e == nil {
		return
	}
	decl.Walk(e, func(n Node) bool {
		switch x := n.(type) {
		case *IdentifierExpr:
			x.Start = Location{Line: line, Col: 1}
		case *LiteralExpr:
			x.Start = Location{Line: line, Col: 1}
		case *CallExpr:
			x.Start = Location{Line: line, Col: 1}
		case *MemberAccessExpr:
			x.Start = Location{Line: line, Col: 1}
		case *AssignExpr:
			x.Start = Location{Line: line, Col: 1}
		}
		return true
	})
}

func script(stmts ...Stmt) *Script { return &Script{Name: "test.jsx", Body: stmts} }

// --- Schema ---

func oneD(min, max float64) *schema.ValueRule {
	return &schema.ValueRule{Kind: decl.KindOneD, Range: &schema.Range{Min: min, Max: max}}
}

func object(typeName string) *schema.ValueRule {
	return &schema.ValueRule{Kind: decl.KindObject, TypeName: typeName}
}

func readOnly(r *schema.ValueRule) *schema.ValueRule {
	r.ReadOnly = true
	return r
}

func alternateSource(r *schema.ValueRule) *schema.ValueRule {
	r.PredicateName = "alternate-source"
	r.Predicate = func(_ decl.Value, owner *schema.TypeDescriptor) error {
		if owner.Has(schema.CapAlternateSource) {
			return nil
		}
		return fmt.Errorf("%s cannot use an alternate source", owner.Name)
	}
	return r
}

type typeDef struct {
	name, parent string
	caps         schema.Capability
	elementType  string
	constructor  *schema.MethodSignature
	props        map[string]*schema.ValueRule
	methods      []*schema.MethodSignature
}

func testSchema(t *testing.T) (*schema.Store, *matchnames.Registry) {
	t.Helper()
	inf := math.Inf(1)
	defs := []typeDef{
		{name: "Application",
			props: map[string]*schema.ValueRule{"project": readOnly(object("Project"))},
			methods: []*schema.MethodSignature{
				{Name: "newProject", Returns: "Project"},
				{Name: "open", ParamCount: 1, Returns: "Project"},
			}},
		{name: "Project",
			props: map[string]*schema.ValueRule{
				"numItems": readOnly(oneD(0, inf)),
				"items":    readOnly(object("ItemCollection")),
			},
			methods: []*schema.MethodSignature{
				{Name: "item", ParamCount: 1, Params: []*schema.ValueRule{oneD(1, inf)}, Returns: "Item"},
			}},
		{name: "ItemCollection", caps: schema.CapCollection, elementType: "Item",
			methods: []*schema.MethodSignature{
				{Name: "addComp", ParamCount: 6, Returns: "CompItem", Params: []*schema.ValueRule{
					object("String"), oneD(4, 30000), oneD(4, 30000), oneD(0.01, 100), oneD(0, 10800), oneD(1, 99),
				}},
			}},
		{name: "Item", props: map[string]*schema.ValueRule{"name": object("String")}},
		{name: "AVItem", parent: "Item",
			props: map[string]*schema.ValueRule{"useProxy": alternateSource(object("Boolean"))}},
		{name: "CompItem", parent: "AVItem", caps: schema.CapAlternateSource,
			props: map[string]*schema.ValueRule{
				"width":  oneD(4, 30000),
				"layers": readOnly(object("LayerCollection")),
			}},
		{name: "LayerCollection", caps: schema.CapCollection, elementType: "Layer",
			methods: []*schema.MethodSignature{
				{Name: "addText", ParamCount: 1, Returns: "TextLayer"},
			}},
		{name: "Layer",
			props: map[string]*schema.ValueRule{
				"position": {Kind: decl.KindThreeDSpatial, Temporal: true, Spatial: true},
				"opacity":  {Kind: decl.KindOneD, Temporal: true, Range: &schema.Range{Min: 0, Max: 100}},
				"Effects":  readOnly(object("EffectGroup")),
			},
			methods: []*schema.MethodSignature{
				{Name: "property", ParamCount: 1, Returns: "Property"},
			}},
		{name: "TextLayer", parent: "Layer",
			props: map[string]*schema.ValueRule{
				"sourceText": {Kind: decl.KindTextDocument, Temporal: true},
			}},
		{name: "EffectGroup",
			methods: []*schema.MethodSignature{
				{Name: "addProperty", ParamCount: 1, Returns: "Property",
					MatchNames: []matchnames.Namespace{matchnames.Effect}},
			}},
		{name: "Property",
			props: map[string]*schema.ValueRule{
				"value": readOnly(&schema.ValueRule{Kind: decl.KindCustomValue}),
			},
			methods: []*schema.MethodSignature{
				{Name: "setTemporalEaseAtKey", ParamCount: 3, Returns: "null",
					Params: []*schema.ValueRule{oneD(1, inf), nil, nil},
					Ease:   &schema.EaseParams{In: 1, Out: 2}},
				{Name: "setValue", ParamCount: 1, StreamValue: []int{0}},
			}},
		{name: "KeyframeEase",
			constructor: &schema.MethodSignature{Name: "KeyframeEase", ParamCount: 2,
				Params: []*schema.ValueRule{oneD(0, inf), oneD(0, 100)}}},
	}

	store := schema.NewStore()
	for _, def := range defs {
		td := schema.NewTypeDescriptor(def.name, def.parent)
		td.Caps = def.caps
		td.ElementType = def.elementType
		td.Constructor = def.constructor
		for _, m := range def.methods {
			require.NoError(t, td.AddMethod(m))
		}
		for _, name := range sortedKeys(def.props) {
			require.NoError(t, td.AddProperty(name, def.props[name]))
		}
		require.NoError(t, store.RegisterType(td))
	}
	require.NoError(t, store.RegisterGlobal("app", "Application"))
	require.NoError(t, store.SetStreamType("Property"))
	require.NoError(t, store.Freeze())

	registry := matchnames.NewRegistry()
	require.NoError(t, registry.Register(matchnames.Effect, "ADBE Gaussian Blur 2", "ADBE Fill", "ADBE Tint"))
	require.NoError(t, registry.Register(matchnames.Layer, "ADBE Text Layer", "ADBE Vector Layer"))
	require.NoError(t, registry.Register(matchnames.Property, "ADBE Transform Group", "ADBE Position", "ADBE Opacity"))
	registry.Freeze()
	return store, registry
}

func sortedKeys(m map[string]*schema.ValueRule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newTestChecker(t *testing.T, opts ...Option) *Checker {
	t.Helper()
	store, registry := testSchema(t)
	return NewChecker(store, registry, opts...)
}
