package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// StmtBase embeds NodeInfo and marks a node as a statement.
type StmtBase struct {
	NodeInfo
}

func (s *StmtBase) stmtNode() {}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	StmtBase
	Expression Expr
}

func (e *ExprStmt) String() string { return e.Expression.String() + ";" }

// VarDeclarator is one `name = init` entry of a var statement.
type VarDeclarator struct {
	Name *IdentifierExpr
	Init Expr // nil for `var x;`
}

// VarStmt represents `var a = x, b = y;` (also let/const).
type VarStmt struct {
	StmtBase
	Keyword string
	Decls   []VarDeclarator
}

func (v *VarStmt) String() string {
	parts := gfn.Map(v.Decls, func(d VarDeclarator) string {
		if d.Init == nil {
			return d.Name.Value
		}
		return fmt.Sprintf("%s = %s", d.Name.Value, d.Init)
	})
	kw := v.Keyword
	if kw == "" {
		kw = "var"
	}
	return fmt.Sprintf("%s %s;", kw, strings.Join(parts, ", "))
}

// BlockStmt represents `{ ... }`
type BlockStmt struct {
	StmtBase
	Statements []Stmt
}

func (b *BlockStmt) String() string {
	return fmt.Sprintf("{ %s }", strings.Join(gfn.Map(b.Statements, func(s Stmt) string { return s.String() }), " "))
}

// IfStmt represents `if (cond) then else other`
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

func (i *IfStmt) String() string {
	if i.Else == nil {
		return fmt.Sprintf("if (%s) %s", i.Condition, i.Then)
	}
	return fmt.Sprintf("if (%s) %s else %s", i.Condition, i.Then, i.Else)
}

// LoopStmt covers for, while and do-while loops. Any part may be nil.
type LoopStmt struct {
	StmtBase
	Kind   string // "for", "while", "do"
	Init   Node   // VarStmt or Expr
	Test   Expr
	Update Expr
	Body   Stmt
}

func (l *LoopStmt) String() string {
	return fmt.Sprintf("%s (%v; %v; %v) %v", l.Kind, l.Init, l.Test, l.Update, l.Body)
}

// ReturnStmt represents `return value;`
type ReturnStmt struct {
	StmtBase
	ReturnValue Expr // nil for a bare return
}

func (r *ReturnStmt) String() string {
	if r.ReturnValue == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.ReturnValue)
}

// FuncDecl is a named function declaration statement.
type FuncDecl struct {
	StmtBase
	Func *FuncExpr
}

func (f *FuncDecl) String() string { return f.Func.String() }
