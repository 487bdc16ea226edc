package loader

import "github.com/panyam/aescript/decl"

type Env[T any] = decl.Env[T]
type Location = decl.Location
type Node = decl.Node
type Script = decl.Script
type Type = decl.Type
type Value = decl.Value

type Expr = decl.Expr
type IdentifierExpr = decl.IdentifierExpr
type LiteralExpr = decl.LiteralExpr
type ArrayExpr = decl.ArrayExpr
type ObjectExpr = decl.ObjectExpr
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
type ExprStmt = decl.ExprStmt
type VarStmt = decl.VarStmt
type BlockStmt = decl.BlockStmt
type IfStmt = decl.IfStmt
type LoopStmt = decl.LoopStmt
type ReturnStmt = decl.ReturnStmt
type FuncDecl = decl.FuncDecl

var UnknownType = decl.UnknownType
var NullType = decl.NullType
var BoolType = decl.BoolType
var NumberType = decl.NumberType
var StrType = decl.StrType
var ObjectType = decl.ObjectType
var HostType = decl.HostType
var StreamType = decl.StreamType
var MethodType = decl.MethodType
var ArrayType = decl.ArrayType

var NumberValue = decl.NumberValue
var StringValue = decl.StringValue
var BoolValue = decl.BoolValue
var ArrayValue = decl.ArrayValue
var OpaqueValue = decl.OpaqueValue
