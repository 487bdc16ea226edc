package parser

import "github.com/panyam/aescript/decl"

type Location = decl.Location
type Node = decl.Node
type NodeInfo = decl.NodeInfo
type Script = decl.Script
type Value = decl.Value

type Expr = decl.Expr
type ExprBase = decl.ExprBase
type IdentifierExpr = decl.IdentifierExpr
type LiteralExpr = decl.LiteralExpr
type ArrayExpr = decl.ArrayExpr
type ObjectExpr = decl.ObjectExpr
type ObjectField = decl.ObjectField
type MemberAccessExpr = decl.MemberAccessExpr
type IndexExpr = decl.IndexExpr
type CallExpr = decl.CallExpr
type NewExpr = decl.NewExpr
type AssignExpr = decl.AssignExpr
type BinaryExpr = decl.BinaryExpr
type UnaryExpr = decl.UnaryExpr
type FuncExpr = decl.FuncExpr
type OpaqueExpr = decl.OpaqueExpr

type Stmt = decl.Stmt
type StmtBase = decl.StmtBase
type ExprStmt = decl.ExprStmt
type VarStmt = decl.VarStmt
type VarDeclarator = decl.VarDeclarator
type BlockStmt = decl.BlockStmt
type IfStmt = decl.IfStmt
type LoopStmt = decl.LoopStmt
type ReturnStmt = decl.ReturnStmt
type FuncDecl = decl.FuncDecl

var ObjectType = decl.ObjectType

var NumberValue = decl.NumberValue
var StringValue = decl.StringValue
var BoolValue = decl.BoolValue
var NullValue = decl.NullValue
var OpaqueValue = decl.OpaqueValue
