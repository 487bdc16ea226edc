package loader

import (
	"fmt"
	"math"
	"strings"

	"github.com/panyam/aescript/decl"
	"github.com/panyam/aescript/matchnames"
	"github.com/panyam/aescript/rules"
	"github.com/panyam/aescript/schema"
)

// Validator walks one script and collects diagnostics. A Validator and its
// context are used for exactly one run.
type Validator struct {
	ErrorCollector

	store    *schema.Store
	registry *matchnames.Registry
	eval     *rules.Evaluator
	ctx      *ValidationContext

	matchNames SuggestOptions
}

func NewValidator(store *schema.Store, registry *matchnames.Registry, eval *rules.Evaluator, members, matchNames SuggestOptions) *Validator {
	if eval == nil {
		eval = rules.NewEvaluator(store)
	}
	if registry == nil {
		registry = matchnames.NewRegistry()
	}
	return &Validator{
		store:      store,
		registry:   registry,
		eval:       eval,
		ctx:        NewValidationContext(store, eval, members),
		matchNames: matchNames,
	}
}

func (v *Validator) Context() *ValidationContext { return v.ctx }

// Validate checks every statement of the script and returns all
// diagnostics in source order. It never stops early.
func (v *Validator) Validate(script *Script) DiagnosticList {
	if script != nil {
		for _, stmt := range script.Body {
			v.EvalForStmt(stmt)
		}
	}
	if entered, exited := v.ctx.Counts(); entered != exited || v.ctx.Depth() != 0 {
		panic(fmt.Errorf("%w: %d entered, %d exited", ErrUnbalancedContext, entered, exited))
	}
	return v.Diagnostics
}

// --- Statements ---

func (v *Validator) EvalForStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case nil:
	case *ExprStmt:
		v.EvalForExpr(s.Expression)
	case *VarStmt:
		for _, d := range s.Decls {
			val := OpaqueValue(UnknownType)
			if d.Init != nil {
				val = v.EvalForExpr(d.Init)
			}
			v.AddErrors(v.ctx.ValidateAssignment(d.Name.Value, "", val, d.Name.Pos())...)
			d.Name.SetInferredType(val.Type)
		}
	case *BlockStmt:
		v.EvalForBlockStmt(s)
	case *IfStmt:
		v.EvalForExpr(s.Condition)
		v.EvalForStmt(s.Then)
		v.EvalForStmt(s.Else)
	case *LoopStmt:
		switch init := s.Init.(type) {
		case Stmt:
			v.EvalForStmt(init)
		case Expr:
			v.EvalForExpr(init)
		}
		v.EvalForExpr(s.Test)
		v.EvalForExpr(s.Update)
		v.EvalForStmt(s.Body)
	case *ReturnStmt:
		v.EvalForExpr(s.ReturnValue)
	case *FuncDecl:
		v.EvalForFuncExpr(s.Func)
	default:
		panic(fmt.Errorf("validation not implemented for statement type %T at %s", stmt, stmt.Pos().LineColStr()))
	}
}

func (v *Validator) EvalForBlockStmt(block *BlockStmt) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		v.EvalForStmt(stmt)
	}
}

// --- Expressions ---

// EvalForExpr returns the abstract value of expr, recording its type on
// the node. Nil expressions evaluate to Unknown.
func (v *Validator) EvalForExpr(expr Expr) (out Value) {
	if expr == nil {
		return OpaqueValue(UnknownType)
	}
	switch e := expr.(type) {
	case *LiteralExpr:
		out = e.Value
	case *IdentifierExpr:
		out = OpaqueValue(v.ctx.Resolve(e.Value))
	case *ArrayExpr:
		elems := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = v.EvalForExpr(el)
		}
		out = ArrayValue(elems...)
	case *ObjectExpr:
		fields := map[string]Value{}
		for _, f := range e.Fields {
			fields[f.Key] = v.EvalForExpr(f.Value)
		}
		out = Value{Type: ObjectType, Value: fields}
	case *MemberAccessExpr:
		out = v.EvalForMemberAccessExpr(e)
	case *IndexExpr:
		out = v.EvalForIndexExpr(e)
	case *CallExpr:
		out = v.EvalForCallExpr(e)
	case *NewExpr:
		out = v.EvalForNewExpr(e)
	case *AssignExpr:
		out = v.EvalForAssignExpr(e)
	case *BinaryExpr:
		out = v.EvalForBinaryExpr(e)
	case *UnaryExpr:
		out = v.EvalForUnaryExpr(e)
	case *FuncExpr:
		out = v.EvalForFuncExpr(e)
	case *OpaqueExpr:
		for _, child := range e.Children {
			switch c := child.(type) {
			case Expr:
				v.EvalForExpr(c)
			case Stmt:
				v.EvalForStmt(c)
			}
		}
		out = OpaqueValue(UnknownType)
	default:
		panic(fmt.Errorf("validation not implemented for expression type %T at %s", expr, expr.Pos().LineColStr()))
	}
	if out.Type == nil {
		out.Type = UnknownType
	}
	expr.SetInferredType(out.Type)
	return
}

func (v *Validator) EvalForMemberAccessExpr(expr *MemberAccessExpr) Value {
	recv := v.EvalForExpr(expr.Receiver)
	member := expr.Member
	out := v.resolveMember(recv.Type, member.Value, member.Pos(), true)
	member.SetInferredType(out.Type)
	return out
}

// resolveMember looks name up on t: properties first, then methods as
// uncalled references. Misses are reported only when report is set.
func (v *Validator) resolveMember(t *Type, name string, pos Location, report bool) Value {
	if !t.IsHost() {
		if name == "length" && (t.Tag == decl.TypeTagArray || t.Tag == decl.TypeTagString) {
			return OpaqueValue(NumberType)
		}
		return OpaqueValue(UnknownType)
	}
	release := v.ctx.Enter(t.Name)
	defer release()
	typeName, _ := v.ctx.Current()

	if _, ok := v.store.Type(typeName); !ok {
		if report {
			v.Errorf(pos, CodeUnknownType, "type %s is not in the schema", typeName)
		}
		return OpaqueValue(UnknownType)
	}
	if rule, ok := v.store.Property(typeName, name); ok {
		return OpaqueValue(v.typeForRule(rule, t))
	}
	if _, ok := v.store.Method(typeName, name); ok {
		return OpaqueValue(MethodType(typeName, name))
	}
	if rule, ok := v.ctx.descendantProperty(typeName, name); ok {
		return OpaqueValue(v.typeForRule(rule, t))
	}
	if _, owner, ok := v.ctx.descendantMethod(typeName, name); ok {
		return OpaqueValue(MethodType(owner, name))
	}
	if report {
		if matchnames.LooksLikeMatchName(name) {
			v.checkMatchName(matchnames.NamespaceNone, name, pos, false)
		} else {
			v.AddErrors(v.ctx.unknownMember(typeName, name, pos))
		}
	}
	return OpaqueValue(UnknownType)
}

// typeForRule maps a property rule to the type a read of it produces.
func (v *Validator) typeForRule(rule *schema.ValueRule, owner *Type) *Type {
	if rule.Temporal {
		if st := v.store.StreamTypeName(); st != "" {
			t := StreamType(st, rule.Kind)
			t.OptionalDepth = rule.OptionalDepth
			return t
		}
	}
	if rule.Kind == decl.KindObject {
		return v.typeForName(rule.TypeName)
	}
	if rule.Kind == decl.KindCustomValue && owner != nil && owner.Kind != decl.KindNone {
		// the value of a stream has the stream's own kind
		return v.typeForKind(owner.Kind)
	}
	return v.typeForKind(rule.Kind)
}

func (v *Validator) typeForKind(kind decl.ValueKind) *Type {
	switch kind {
	case decl.KindOneD, decl.KindIndex:
		return NumberType
	case decl.KindTwoD, decl.KindTwoDSpatial, decl.KindThreeD, decl.KindThreeDSpatial, decl.KindColor:
		elems := make([]*Type, kind.Dimensions())
		for i := range elems {
			elems[i] = NumberType
		}
		return ArrayType(elems...)
	case decl.KindTextDocument:
		return v.hostOr("TextDocument", StrType)
	case decl.KindMarker:
		return v.hostOr("MarkerValue", UnknownType)
	case decl.KindShape:
		return v.hostOr("Shape", UnknownType)
	}
	return UnknownType
}

func (v *Validator) hostOr(name string, fallback *Type) *Type {
	if _, ok := v.store.Type(name); ok {
		return HostType(name)
	}
	return fallback
}

// typeForName maps a declared type name (a method's Returns, an object
// rule's TypeName) to a type.
func (v *Validator) typeForName(name string) *Type {
	switch name {
	case "", "Any", "Function":
		return UnknownType
	}
	if t, ok := decl.PrimitiveType(name); ok {
		return t
	}
	return HostType(name)
}

func (v *Validator) EvalForIndexExpr(expr *IndexExpr) Value {
	recv := v.EvalForExpr(expr.Receiver)
	key := v.EvalForExpr(expr.Key)

	if s, ok := key.Str(); ok {
		if matchnames.LooksLikeMatchName(s) {
			v.checkMatchName(matchnames.NamespaceNone, s, expr.Key.Pos(), true)
			return OpaqueValue(v.elementType(recv.Type))
		}
		if recv.Type.IsHost() {
			return v.resolveMember(recv.Type, s, expr.Key.Pos(), false)
		}
		return OpaqueValue(UnknownType)
	}
	if f, ok := key.Number(); ok && recv.Type.Tag == decl.TypeTagArray {
		if i := int(f); float64(i) == f && i >= 0 && i < len(recv.Type.Elems) {
			if elems, ok := recv.Elements(); ok {
				return elems[i]
			}
			return OpaqueValue(recv.Type.Elems[i])
		}
		return OpaqueValue(UnknownType)
	}
	return OpaqueValue(v.elementType(recv.Type))
}

// elementType is the member type of a host collection, else Unknown.
func (v *Validator) elementType(t *Type) *Type {
	if !t.IsHost() {
		return UnknownType
	}
	td, ok := v.store.Type(t.Name)
	if !ok || !td.Has(schema.CapCollection) {
		return UnknownType
	}
	return v.typeForName(td.ElementType)
}

func (v *Validator) EvalForCallExpr(expr *CallExpr) Value {
	if fn, ok := expr.Function.(*MemberAccessExpr); ok {
		recv := v.EvalForExpr(fn.Receiver)
		out := v.evalMethodCall(recv, fn.Member, expr)
		fn.SetInferredType(MethodType(recv.Type.TagName(), fn.Member.Value))
		v.forgetLength(fn.Receiver)
		return out
	}

	callee := v.EvalForExpr(expr.Function)
	if callee.Type.Tag == decl.TypeTagMethod && callee.Type.Owner != "" {
		if sig, ok := v.lookupMethod(callee.Type.Owner, callee.Type.Name); ok {
			td, _ := v.store.Type(callee.Type.Owner)
			return v.checkCall(sig, td, OpaqueValue(HostType(callee.Type.Owner)), expr.Args, expr.Pos(), "method "+sig.Name)
		}
	}
	for _, arg := range expr.Args {
		val := v.EvalForExpr(arg)
		v.checkLooseMatchName(arg, val)
	}
	if callee.Type.IsHost() {
		// property groups are callable: layer("ADBE Transform Group")
		return OpaqueValue(v.elementType(callee.Type))
	}
	return OpaqueValue(UnknownType)
}

func (v *Validator) lookupMethod(typeName, name string) (*schema.MethodSignature, bool) {
	if sig, ok := v.store.Method(typeName, name); ok {
		return sig, true
	}
	sig, _, ok := v.ctx.descendantMethod(typeName, name)
	return sig, ok
}

func (v *Validator) evalMethodCall(recv Value, member *IdentifierExpr, call *CallExpr) Value {
	if !recv.Type.IsHost() {
		v.evalArgs(call.Args)
		return OpaqueValue(UnknownType)
	}
	release := v.ctx.Enter(recv.Type.Name)
	defer release()
	typeName, _ := v.ctx.Current()

	td, ok := v.store.Type(typeName)
	if !ok {
		v.Errorf(member.Pos(), CodeUnknownType, "type %s is not in the schema", typeName)
		v.evalArgs(call.Args)
		return OpaqueValue(UnknownType)
	}
	sig, ok := v.lookupMethod(typeName, member.Value)
	if !ok {
		if rule, isProp := v.store.Property(typeName, member.Value); isProp {
			// callable properties (property groups) behave like their value
			v.evalArgs(call.Args)
			return OpaqueValue(v.elementType(v.typeForRule(rule, recv.Type)))
		}
		v.AddErrors(v.ctx.unknownMember(typeName, member.Value, member.Pos()))
		v.evalArgs(call.Args)
		return OpaqueValue(UnknownType)
	}
	return v.checkCall(sig, td, recv, call.Args, call.Pos(), "method "+sig.Name)
}

func (v *Validator) evalArgs(args []Expr) {
	for _, arg := range args {
		val := v.EvalForExpr(arg)
		v.checkLooseMatchName(arg, val)
	}
}

// checkCall validates a call against sig. On an arity mismatch only the
// arity is reported and the arguments are not looked at.
func (v *Validator) checkCall(sig *schema.MethodSignature, owner *schema.TypeDescriptor, recv Value, args []Expr, pos Location, what string) Value {
	result := OpaqueValue(v.typeForName(sig.Returns))
	if len(args) != sig.ParamCount {
		v.Errorf(pos, CodeArityMismatch, "%s expects %d arguments, got %d", what, sig.ParamCount, len(args))
		return result
	}

	vals := make([]Value, len(args))
	for i, arg := range args {
		vals[i] = v.EvalForExpr(arg)
	}
	for i, arg := range args {
		if rule := sig.Param(i); rule != nil {
			if m := v.ctx.checkRule(rule, vals[i], owner); m != nil {
				v.Errorf(arg.Pos(), CodeValueShapeMismatch, "argument %d of %s: %s", i+1, what, m.Message)
			}
		}
		if ns := sig.MatchName(i); ns != matchnames.NamespaceNone {
			if s, ok := vals[i].Str(); ok {
				v.checkMatchName(ns, s, arg.Pos(), true)
			}
		} else {
			v.checkLooseMatchName(arg, vals[i])
		}
	}

	kind := recv.Type.Kind
	if sig.Ease != nil && kind != decl.KindNone {
		for _, m := range v.eval.CheckStreamEase(recv.Type, vals[sig.Ease.In], vals[sig.Ease.Out]) {
			at := args[sig.Ease.In].Pos()
			if strings.HasSuffix(m.Message, "out-ease") {
				at = args[sig.Ease.Out].Pos()
			}
			v.Errorf(at, CodeValueShapeMismatch, "%s: %s", what, m.Message)
		}
	}
	if kind != decl.KindNone {
		for _, i := range sig.StreamValue {
			stream := &schema.ValueRule{Kind: kind, OptionalDepth: recv.Type.OptionalDepth}
			if m := v.eval.Check(stream, vals[i], owner); m != nil {
				v.Errorf(args[i].Pos(), CodeValueShapeMismatch, "argument %d of %s: %s", i+1, what, m.Message)
			}
		}
	}
	return result
}

// checkLooseMatchName checks string literals shaped like match names even
// where no match name is declared. Misses are warnings.
func (v *Validator) checkLooseMatchName(arg Expr, val Value) {
	if _, isLit := arg.(*LiteralExpr); !isLit {
		return
	}
	if s, ok := val.Str(); ok && matchnames.LooksLikeMatchName(s) {
		v.checkMatchName(matchnames.NamespaceNone, s, arg.Pos(), false)
	}
}

// checkMatchName reports name when it is not in ns (any namespace for
// NamespaceNone). Known names never reach the suggestion step.
func (v *Validator) checkMatchName(ns matchnames.Namespace, name string, pos Location, declared bool) bool {
	var suggestions []matchnames.Suggestion
	if ns == matchnames.NamespaceNone {
		if _, ok := v.registry.Lookup(name); ok {
			return true
		}
		suggestions = v.registry.SuggestAny(name, v.matchNames.MaxDistance, v.matchNames.TopK)
	} else {
		if v.registry.Contains(ns, name) {
			return true
		}
		suggestions = v.registry.SuggestWithin(ns, name, v.matchNames.MaxDistance, v.matchNames.TopK)
	}
	d := Diagnosticf(pos, CodeUnknownMatchName, "invalid match name '%s'", name)
	if ns != matchnames.NamespaceNone {
		d.Message = fmt.Sprintf("invalid %s match name '%s'", ns, name)
	}
	if !declared {
		d.Severity = SeverityWarning
	}
	d.Suggestions = matchnames.Names(suggestions)
	v.AddErrors(d)
	return false
}

func (v *Validator) EvalForNewExpr(expr *NewExpr) Value {
	name := expr.Callee.Value
	td, ok := v.store.Type(name)
	if !ok {
		v.evalArgs(expr.Args)
		switch name {
		case "Array":
			return OpaqueValue(decl.AnyArray)
		case "Object":
			return OpaqueValue(ObjectType)
		}
		return OpaqueValue(UnknownType)
	}
	result := OpaqueValue(HostType(name))
	if td.Constructor == nil {
		v.evalArgs(expr.Args)
		return result
	}
	v.checkCall(td.Constructor, td, result, expr.Args, expr.Pos(), "constructor "+name)
	return result
}

func (v *Validator) EvalForAssignExpr(expr *AssignExpr) Value {
	val := v.EvalForExpr(expr.Value)
	if expr.IsCompound() {
		target := v.EvalForExpr(expr.Target)
		val = OpaqueValue(compoundType(expr.Operator, target.Type, val.Type))
		switch t := expr.Target.(type) {
		case *IdentifierExpr:
			v.ctx.Bind(t.Value, val.Type)
		case *MemberAccessExpr:
			if !target.Type.IsUnknown() {
				owner := t.Receiver.InferredType()
				v.AddErrors(v.ctx.AssignProperty(owner, t.Member.Value, val, t.Member.Pos())...)
			}
		}
		return val
	}

	switch t := expr.Target.(type) {
	case *IdentifierExpr:
		v.AddErrors(v.ctx.ValidateAssignment(t.Value, "", val, t.Pos())...)
		t.SetInferredType(val.Type)
	case *MemberAccessExpr:
		if id, ok := t.Receiver.(*IdentifierExpr); ok {
			id.SetInferredType(v.ctx.Resolve(id.Value))
			v.AddErrors(v.ctx.ValidateAssignment(id.Value, t.Member.Value, val, t.Member.Pos())...)
		} else {
			owner := v.EvalForExpr(t.Receiver)
			v.AddErrors(v.ctx.AssignProperty(owner.Type, t.Member.Value, val, t.Member.Pos())...)
		}
		t.SetInferredType(val.Type)
	case *IndexExpr:
		v.EvalForExpr(t)
		v.forgetLength(t.Receiver)
	default:
		v.EvalForExpr(expr.Target)
	}
	return val
}

// forgetLength drops the known length of an array variable once the script
// may have changed it (push, splice, a[i] = x).
func (v *Validator) forgetLength(expr Expr) {
	id, ok := expr.(*IdentifierExpr)
	if !ok {
		return
	}
	if t := v.ctx.Resolve(id.Value); t.Tag == decl.TypeTagArray && t.Elems != nil {
		v.ctx.Bind(id.Value, decl.AnyArray)
	}
}

func compoundType(op string, target, value *Type) *Type {
	if op == "+=" {
		if target.Tag == decl.TypeTagString || value.Tag == decl.TypeTagString {
			return StrType
		}
		if target.IsUnknown() || value.IsUnknown() {
			return UnknownType
		}
	}
	return NumberType
}

func (v *Validator) EvalForBinaryExpr(expr *BinaryExpr) Value {
	left := v.EvalForExpr(expr.Left)
	right := v.EvalForExpr(expr.Right)

	switch expr.Operator {
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "instanceof", "in":
		return OpaqueValue(BoolType)
	case "&&", "||":
		if left.Type.Equals(right.Type) {
			return OpaqueValue(left.Type)
		}
		return OpaqueValue(UnknownType)
	case "+":
		if left.Type.Tag == decl.TypeTagString || right.Type.Tag == decl.TypeTagString {
			ls, lok := left.Str()
			rs, rok := right.Str()
			if lok && rok {
				return StringValue(ls + rs)
			}
			return OpaqueValue(StrType)
		}
		if left.Type.IsUnknown() || right.Type.IsUnknown() {
			return OpaqueValue(UnknownType)
		}
	}

	l, lok := left.Number()
	r, rok := right.Number()
	if lok && rok {
		switch expr.Operator {
		case "+":
			return NumberValue(l + r)
		case "-":
			return NumberValue(l - r)
		case "*":
			return NumberValue(l * r)
		case "/":
			if r != 0 {
				return NumberValue(l / r)
			}
		case "%":
			if r != 0 {
				return NumberValue(math.Mod(l, r))
			}
		}
	}
	return OpaqueValue(NumberType)
}

func (v *Validator) EvalForUnaryExpr(expr *UnaryExpr) Value {
	operand := v.EvalForExpr(expr.Right)
	switch expr.Operator {
	case "-":
		if f, ok := operand.Number(); ok {
			return NumberValue(-f)
		}
		return OpaqueValue(NumberType)
	case "+":
		if f, ok := operand.Number(); ok {
			return NumberValue(f)
		}
		return OpaqueValue(NumberType)
	case "~":
		return OpaqueValue(NumberType)
	case "!", "delete":
		return OpaqueValue(BoolType)
	case "typeof":
		return OpaqueValue(StrType)
	case "void":
		return OpaqueValue(NullType)
	}
	return OpaqueValue(UnknownType)
}

// EvalForFuncExpr checks a function body in the same flat scope.
// Parameters are bound to Unknown.
func (v *Validator) EvalForFuncExpr(f *FuncExpr) Value {
	if f == nil {
		return OpaqueValue(UnknownType)
	}
	fnType := MethodType("", f.Name)
	if f.Name != "" {
		v.ctx.Bind(f.Name, fnType)
	}
	for _, p := range f.Params {
		v.ctx.Bind(p, UnknownType)
	}
	v.EvalForBlockStmt(f.Body)
	return OpaqueValue(fnType)
}
