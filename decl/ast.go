package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// --- Interfaces ---

// Node represents any node in the script's parsed expression structure.
type Node interface {
	Pos() Location  // Starting position (for diagnostics)
	String() string // String representation for debugging/printing
}

// Location is a 1-based line/column position in the script source.
type Location struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

func (l Location) IsZero() bool { return l.Line == 0 && l.Col == 0 }

func (l Location) LineColStr() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// --- Base Struct ---

// NodeInfo embeddable struct for position tracking.
type NodeInfo struct{ Start Location }

func (n *NodeInfo) Pos() Location  { return n.Start }
func (n *NodeInfo) String() string { return "{Node}" } // Default stringer

// Script is the top level node handed to the validator. It is a flat
// sequence of statements as produced by the external front-end.
type Script struct {
	NodeInfo
	Name string
	Body []Stmt
}

func (s *Script) String() string {
	return strings.Join(gfn.Map(s.Body, func(st Stmt) string { return st.String() }), "\n")
}

// Walk visits n and every node below it in source order. Returning false
// from visit skips the children of that node.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, visit)
	}
}

// Children returns the direct child nodes of n in source order.
func Children(n Node) (out []Node) {
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch node := n.(type) {
	case *Script:
		for _, s := range node.Body {
			add(s)
		}
	case *ExprStmt:
		add(node.Expression)
	case *VarStmt:
		for _, d := range node.Decls {
			if d.Init != nil {
				add(d.Init)
			}
		}
	case *BlockStmt:
		for _, s := range node.Statements {
			add(s)
		}
	case *IfStmt:
		add(node.Condition, node.Then, node.Else)
	case *LoopStmt:
		add(node.Init, node.Test, node.Update, node.Body)
	case *ReturnStmt:
		add(node.ReturnValue)
	case *FuncDecl:
		add(node.Func)
	case *FuncExpr:
		add(node.Body)
	case *ArrayExpr:
		for _, e := range node.Elements {
			add(e)
		}
	case *ObjectExpr:
		for _, f := range node.Fields {
			add(f.Value)
		}
	case *MemberAccessExpr:
		add(node.Receiver)
	case *IndexExpr:
		add(node.Receiver, node.Key)
	case *CallExpr:
		add(node.Function)
		for _, a := range node.Args {
			add(a)
		}
	case *NewExpr:
		for _, a := range node.Args {
			add(a)
		}
	case *AssignExpr:
		add(node.Target, node.Value)
	case *BinaryExpr:
		add(node.Left, node.Right)
	case *UnaryExpr:
		add(node.Right)
	case *OpaqueExpr:
		add(node.Children...)
	}
	return
}
