package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode()
	InferredType() *Type
	SetInferredType(*Type)
}

// ExprBase embeds NodeInfo and records the type the validator resolved.
type ExprBase struct {
	NodeInfo
	inferredType *Type
}

func (e *ExprBase) SetInferredType(t *Type) {
	e.inferredType = t
}

func (e *ExprBase) InferredType() *Type {
	return e.inferredType
}

func (me *ExprBase) exprNode() {}

// IdentifierExpr represents variable or global names
type IdentifierExpr struct {
	ExprBase
	Value string
}

func (i *IdentifierExpr) String() string { return i.Value }

// LiteralExpr represents literal values
type LiteralExpr struct {
	ExprBase
	Value Value
}

func (l *LiteralExpr) String() string {
	return l.Value.String()
}

// ArrayExpr represents `[a, b, c]`
type ArrayExpr struct {
	ExprBase
	Elements []Expr
}

func (a *ArrayExpr) String() string {
	return fmt.Sprintf("[%s]", joinExprs(a.Elements))
}

// ObjectField is one `key: value` entry of an object literal.
type ObjectField struct {
	Key   string
	Value Expr
}

// ObjectExpr represents `{key: value, ...}`. Fields keep source order.
type ObjectExpr struct {
	ExprBase
	Fields []ObjectField
}

func (o *ObjectExpr) String() string {
	parts := gfn.Map(o.Fields, func(f ObjectField) string { return fmt.Sprintf("%s: %s", f.Key, f.Value) })
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// MemberAccessExpr represents `receiver.member`
type MemberAccessExpr struct {
	ExprBase
	Receiver Expr // The object being accessed
	Member   *IdentifierExpr
}

func (m *MemberAccessExpr) String() string { return fmt.Sprintf("%s.%s", m.Receiver, m.Member) }

// IndexExpr represents computed access `receiver[key]`
type IndexExpr struct {
	ExprBase
	Receiver Expr
	Key      Expr
}

func (i *IndexExpr) String() string { return fmt.Sprintf("%s[%s]", i.Receiver, i.Key) }

// CallExpr represents `function(arg1, arg2, ...)`
type CallExpr struct {
	ExprBase
	Function Expr   // Typically IdentifierExpr or MemberAccessExpr
	Args     []Expr // Argument expressions
}

func (c *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", c.Function, joinExprs(c.Args))
}

// NewExpr represents `new Callee(args...)`
type NewExpr struct {
	ExprBase
	Callee *IdentifierExpr
	Args   []Expr
}

func (n *NewExpr) String() string { return fmt.Sprintf("(new %s(%s))", n.Callee, joinExprs(n.Args)) }

// AssignExpr represents `target op value` where op is "=", "+=", ...
type AssignExpr struct {
	ExprBase
	Target   Expr
	Operator string
	Value    Expr
}

func (a *AssignExpr) String() string {
	return fmt.Sprintf("%s %s %s", a.Target, a.Operator, a.Value)
}

// IsCompound is true for operators like "+=" that read the target first.
func (a *AssignExpr) IsCompound() bool { return a.Operator != "" && a.Operator != "=" }

// BinaryExpr represents `left operator right`
type BinaryExpr struct {
	ExprBase
	Left     Expr
	Operator string
	Right    Expr
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator, b.Right)
}

// UnaryExpr represents `operator operand`
type UnaryExpr struct {
	ExprBase
	Operator string // "!", "-", "+", "typeof"
	Right    Expr
}

func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s %s)", u.Operator, u.Right) }

// FuncExpr is a function literal. Its body is validated in the enclosing
// run; parameters are bound with an unknown type.
type FuncExpr struct {
	ExprBase
	Name   string
	Params []string
	Body   *BlockStmt
}

func (f *FuncExpr) String() string {
	return fmt.Sprintf("function %s(%s) %s", f.Name, strings.Join(f.Params, ", "), f.Body)
}

// OpaqueExpr stands in for constructs the validator does not model
// (conditionals, sequences, `this`, ...). Its children are still walked.
type OpaqueExpr struct {
	ExprBase
	Kind     string
	Children []Node
}

func (o *OpaqueExpr) String() string { return fmt.Sprintf("<%s>", o.Kind) }

func joinExprs(exprs []Expr) string {
	return strings.Join(gfn.Map(exprs, func(e Expr) string { return e.String() }), ", ")
}
