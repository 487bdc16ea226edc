package parser

import (
	"fmt"
	"io"
)

// Parse decodes an ESTree JSON document (acorn or esprima output with
// `locations: true`) into a Script. Constructs the validator does not model
// become OpaqueExpr nodes that keep their children. Only malformed input is
// an error.
func Parse(input io.Reader, sourceName string) (*Script, error) {
	root, err := decodeProgram(input)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid parse tree: %w", sourceName, err)
	}
	body, err := root.list("body")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceName, err)
	}
	script := &Script{NodeInfo: NodeInfo{Start: root.Loc}, Name: sourceName}
	for _, n := range body {
		stmt, err := convertStmt(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceName, err)
		}
		if stmt != nil {
			script.Body = append(script.Body, stmt)
		}
	}
	return script, nil
}

// Adapter plugs Parse into a loader.
type Adapter struct{}

func (Adapter) Parse(input io.Reader, sourceName string) (*Script, error) {
	return Parse(input, sourceName)
}

func stmtBase(n *esNode) StmtBase { return StmtBase{NodeInfo: NodeInfo{Start: n.Loc}} }
func exprBase(n *esNode) ExprBase { return ExprBase{NodeInfo: NodeInfo{Start: n.Loc}} }

func convertStmt(n *esNode) (Stmt, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Type {
	case "EmptyStatement":
		return nil, nil
	case "ExpressionStatement":
		expr, err := convertChild(n, "expression")
		if err != nil {
			return nil, err
		}
		return &ExprStmt{StmtBase: stmtBase(n), Expression: expr}, nil
	case "VariableDeclaration":
		return convertVar(n)
	case "BlockStatement":
		return convertBlock(n)
	case "IfStatement":
		return convertIf(n)
	case "ForStatement", "ForInStatement", "ForOfStatement", "WhileStatement", "DoWhileStatement":
		return convertLoop(n)
	case "ReturnStatement":
		arg, err := convertChild(n, "argument")
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{StmtBase: stmtBase(n), ReturnValue: arg}, nil
	case "FunctionDeclaration":
		fn, err := convertFunc(n)
		if err != nil {
			return nil, err
		}
		return &FuncDecl{StmtBase: stmtBase(n), Func: fn}, nil
	}
	opaque, err := convertOpaque(n)
	if err != nil {
		return nil, err
	}
	return &ExprStmt{StmtBase: stmtBase(n), Expression: opaque}, nil
}

func convertVar(n *esNode) (*VarStmt, error) {
	decls, err := n.list("declarations")
	if err != nil {
		return nil, err
	}
	out := &VarStmt{StmtBase: stmtBase(n), Keyword: n.str("kind")}
	for _, d := range decls {
		if d == nil {
			continue
		}
		id, err := d.node("id")
		if err != nil {
			return nil, err
		}
		name := &IdentifierExpr{}
		if id != nil {
			name.Start = id.Loc
			if id.Type == "Identifier" {
				name.Value = id.str("name")
			}
		}
		init, err := convertChild(d, "init")
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, VarDeclarator{Name: name, Init: init})
	}
	return out, nil
}

func convertBlock(n *esNode) (*BlockStmt, error) {
	body, err := n.list("body")
	if err != nil {
		return nil, err
	}
	out := &BlockStmt{StmtBase: stmtBase(n)}
	for _, child := range body {
		stmt, err := convertStmt(child)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			out.Statements = append(out.Statements, stmt)
		}
	}
	return out, nil
}

func convertIf(n *esNode) (*IfStmt, error) {
	cond, err := convertChild(n, "test")
	if err != nil {
		return nil, err
	}
	out := &IfStmt{StmtBase: stmtBase(n), Condition: cond}
	if out.Then, err = convertStmtChild(n, "consequent"); err != nil {
		return nil, err
	}
	if out.Else, err = convertStmtChild(n, "alternate"); err != nil {
		return nil, err
	}
	return out, nil
}

func convertLoop(n *esNode) (*LoopStmt, error) {
	out := &LoopStmt{StmtBase: stmtBase(n)}
	var err error
	switch n.Type {
	case "ForStatement":
		out.Kind = "for"
		if out.Init, err = convertInit(n, "init"); err != nil {
			return nil, err
		}
		if out.Test, err = convertChild(n, "test"); err != nil {
			return nil, err
		}
		if out.Update, err = convertChild(n, "update"); err != nil {
			return nil, err
		}
	case "ForInStatement", "ForOfStatement":
		out.Kind = "for-in"
		if n.Type == "ForOfStatement" {
			out.Kind = "for-of"
		}
		if out.Init, err = convertInit(n, "left"); err != nil {
			return nil, err
		}
		if out.Test, err = convertChild(n, "right"); err != nil {
			return nil, err
		}
	case "WhileStatement":
		out.Kind = "while"
		if out.Test, err = convertChild(n, "test"); err != nil {
			return nil, err
		}
	case "DoWhileStatement":
		out.Kind = "do"
		if out.Test, err = convertChild(n, "test"); err != nil {
			return nil, err
		}
	}
	if out.Body, err = convertStmtChild(n, "body"); err != nil {
		return nil, err
	}
	return out, nil
}

// convertInit handles loop heads that are either a declaration or an
// expression.
func convertInit(n *esNode, key string) (Node, error) {
	child, err := n.node(key)
	if err != nil || child == nil {
		return nil, err
	}
	if child.Type == "VariableDeclaration" {
		return convertVar(child)
	}
	return convertExpr(child)
}

func convertStmtChild(n *esNode, key string) (Stmt, error) {
	child, err := n.node(key)
	if err != nil {
		return nil, err
	}
	return convertStmt(child)
}

func convertChild(n *esNode, key string) (Expr, error) {
	child, err := n.node(key)
	if err != nil {
		return nil, err
	}
	return convertExpr(child)
}

func convertList(n *esNode, key string) ([]Expr, error) {
	items, err := n.list(key)
	if err != nil {
		return nil, err
	}
	out := make([]Expr, 0, len(items))
	for _, item := range items {
		if item == nil {
			// array hole
			out = append(out, &IdentifierExpr{Value: "undefined"})
			continue
		}
		expr, err := convertExpr(item)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

// convertExpr returns nil for a nil node.
func convertExpr(n *esNode) (Expr, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Type {
	case "Identifier":
		return &IdentifierExpr{ExprBase: exprBase(n), Value: n.str("name")}, nil
	case "Literal":
		val, err := n.literal()
		if err != nil {
			return nil, err
		}
		return &LiteralExpr{ExprBase: exprBase(n), Value: val}, nil
	case "ArrayExpression":
		elems, err := convertList(n, "elements")
		if err != nil {
			return nil, err
		}
		return &ArrayExpr{ExprBase: exprBase(n), Elements: elems}, nil
	case "ObjectExpression":
		return convertObject(n)
	case "MemberExpression":
		return convertMember(n)
	case "CallExpression":
		callee, err := convertChild(n, "callee")
		if err != nil {
			return nil, err
		}
		args, err := convertList(n, "arguments")
		if err != nil {
			return nil, err
		}
		return &CallExpr{ExprBase: exprBase(n), Function: callee, Args: args}, nil
	case "NewExpression":
		callee, err := n.node("callee")
		if err != nil {
			return nil, err
		}
		if callee == nil || callee.Type != "Identifier" {
			return convertOpaque(n)
		}
		args, err := convertList(n, "arguments")
		if err != nil {
			return nil, err
		}
		id := &IdentifierExpr{ExprBase: exprBase(callee), Value: callee.str("name")}
		return &NewExpr{ExprBase: exprBase(n), Callee: id, Args: args}, nil
	case "AssignmentExpression":
		target, err := convertChild(n, "left")
		if err != nil {
			return nil, err
		}
		value, err := convertChild(n, "right")
		if err != nil {
			return nil, err
		}
		return &AssignExpr{ExprBase: exprBase(n), Target: target, Operator: n.str("operator"), Value: value}, nil
	case "UpdateExpression":
		// x++ reads and writes x like x += 1
		target, err := convertChild(n, "argument")
		if err != nil {
			return nil, err
		}
		op := "+="
		if n.str("operator") == "--" {
			op = "-="
		}
		one := &LiteralExpr{ExprBase: exprBase(n), Value: NumberValue(1)}
		return &AssignExpr{ExprBase: exprBase(n), Target: target, Operator: op, Value: one}, nil
	case "BinaryExpression", "LogicalExpression":
		left, err := convertChild(n, "left")
		if err != nil {
			return nil, err
		}
		right, err := convertChild(n, "right")
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{ExprBase: exprBase(n), Left: left, Operator: n.str("operator"), Right: right}, nil
	case "UnaryExpression":
		arg, err := convertChild(n, "argument")
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{ExprBase: exprBase(n), Operator: n.str("operator"), Right: arg}, nil
	case "FunctionExpression", "ArrowFunctionExpression":
		return convertFunc(n)
	}
	return convertOpaque(n)
}

func convertObject(n *esNode) (Expr, error) {
	props, err := n.list("properties")
	if err != nil {
		return nil, err
	}
	out := &ObjectExpr{ExprBase: exprBase(n)}
	for _, p := range props {
		if p == nil || p.Type != "Property" || p.flag("computed") {
			// spreads and computed keys leave the shape unknown
			return convertOpaque(n)
		}
		key, err := p.node("key")
		if err != nil {
			return nil, err
		}
		name := ""
		if key != nil {
			switch key.Type {
			case "Identifier":
				name = key.str("name")
			case "Literal":
				val, err := key.literal()
				if err != nil {
					return nil, err
				}
				name = val.String()
				if s, ok := val.Str(); ok {
					name = s
				}
			}
		}
		value, err := convertChild(p, "value")
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, ObjectField{Key: name, Value: value})
	}
	return out, nil
}

func convertMember(n *esNode) (Expr, error) {
	recv, err := convertChild(n, "object")
	if err != nil {
		return nil, err
	}
	prop, err := n.node("property")
	if err != nil {
		return nil, err
	}
	if n.flag("computed") || prop == nil || prop.Type != "Identifier" {
		key, err := convertExpr(prop)
		if err != nil {
			return nil, err
		}
		return &IndexExpr{ExprBase: exprBase(n), Receiver: recv, Key: key}, nil
	}
	member := &IdentifierExpr{ExprBase: exprBase(prop), Value: prop.str("name")}
	return &MemberAccessExpr{ExprBase: exprBase(n), Receiver: recv, Member: member}, nil
}

// convertFunc always produces a non-nil body; arrow functions with an
// expression body get a single return statement.
func convertFunc(n *esNode) (*FuncExpr, error) {
	out := &FuncExpr{ExprBase: exprBase(n), Body: &BlockStmt{}}
	if id, err := n.node("id"); err != nil {
		return nil, err
	} else if id != nil {
		out.Name = id.str("name")
	}
	params, err := n.list("params")
	if err != nil {
		return nil, err
	}
	for _, p := range params {
		if p != nil && p.Type == "Identifier" {
			out.Params = append(out.Params, p.str("name"))
		}
	}

	body, err := n.node("body")
	if err != nil || body == nil {
		return out, err
	}
	if body.Type == "BlockStatement" {
		block, err := convertBlock(body)
		if err != nil {
			return nil, err
		}
		out.Body = block
		return out, nil
	}
	expr, err := convertExpr(body)
	if err != nil {
		return nil, err
	}
	out.Body = &BlockStmt{
		StmtBase:   stmtBase(body),
		Statements: []Stmt{&ReturnStmt{StmtBase: stmtBase(body), ReturnValue: expr}},
	}
	return out, nil
}

// convertOpaque keeps the node's kind and converts whatever children it
// has, so calls nested in unmodelled constructs are still checked.
func convertOpaque(n *esNode) (*OpaqueExpr, error) {
	kids, err := n.children()
	if err != nil {
		return nil, err
	}
	out := &OpaqueExpr{ExprBase: exprBase(n), Kind: n.Type}
	for _, kid := range kids {
		child, err := convertNode(kid)
		if err != nil {
			return nil, err
		}
		if child != nil {
			out.Children = append(out.Children, child)
		}
	}
	return out, nil
}

// convertNode picks statement or expression conversion by node type.
func convertNode(n *esNode) (Node, error) {
	switch n.Type {
	case "ExpressionStatement", "VariableDeclaration", "BlockStatement", "IfStatement",
		"ForStatement", "ForInStatement", "ForOfStatement", "WhileStatement", "DoWhileStatement",
		"ReturnStatement", "FunctionDeclaration", "EmptyStatement":
		stmt, err := convertStmt(n)
		if err != nil || stmt == nil {
			return nil, err
		}
		return stmt, nil
	}
	expr, err := convertExpr(n)
	if err != nil {
		return nil, err
	}
	return expr, nil
}
