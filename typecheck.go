package ember

// Checker performs the two-pass semantic analysis the specification
// calls for: Pass 1 collects every top-level function's signature into
// the global scope (enabling forward and mutual recursion), then Pass 2
// walks every statement and expression, populating each Expr's ExprType
// and running escape analysis for the `shared`/`private` region
// qualifiers as it goes.
//
// Like the Printer, Checker drives itself through the Expr/StmtVisitor
// Accept methods rather than a type switch; VisitXxx methods that
// produce a value stash it in the scratch `result` field, read
// immediately by the caller via typeOf. This mirrors how a tree-walking
// interpreter threads an "accumulator" through a visitor when the
// interface can't return a value directly.
type Checker struct {
	arena *Arena
	syms  *SymbolTable
	diags *Diagnostics

	// regions mirrors the lexical nesting of shared/private/default
	// blocks and functions; regions[len-1] is true when the innermost
	// enclosing region is private, restricting what may cross out of it.
	regions []bool

	funcRet   []*Type
	loopDepth int

	result *Type
}

// CheckModule runs both passes over mod and returns the populated symbol
// table and whether checking found zero errors.
func CheckModule(mod *Module, arena *Arena, diags *Diagnostics) (*SymbolTable, bool) {
	return CheckModuleWithImports(mod, arena, diags, nil)
}

// CheckModuleWithImports is CheckModule with the global scope pre-seeded
// from imported, an already-checked symbol table whose global-scope
// functions and variables (per §4.8's import merge) must be visible to
// mod's own two passes. imported may be nil, in which case this behaves
// exactly like CheckModule.
func CheckModuleWithImports(mod *Module, arena *Arena, diags *Diagnostics, imported *SymbolTable) (*SymbolTable, bool) {
	syms := NewSymbolTable(arena)
	if imported != nil {
		for _, sym := range imported.Global().symbols {
			copied := syms.AddGlobalSymbol(sym.Name, sym.Type, sym.Kind, sym.Qual)
			copied.IsFunction = sym.IsFunction
			copied.FuncMod = sym.FuncMod
		}
	}
	c := &Checker{arena: arena, syms: syms, diags: diags, regions: []bool{false}}
	c.seedBuiltins()
	c.collectSignatures(mod)
	for _, s := range mod.Stmts {
		c.checkStmt(s)
	}
	return syms, !diags.HasErrors()
}

// builtinSignatures seeds the global scope with the handful of functions
// the language provides without a corresponding FuncDecl anywhere in
// source: `print`, the sole output primitive every §8 scenario calls.
// It takes `any` so int/long/double/char/bool/str/array arguments alike
// type-check (genc.go's VisitCall picks the right rt_string_to_string_<kind>
// conversion from the argument's own ExprType at codegen time).
var builtinSignatures = map[string]*Type{
	"print": FuncType(Void, Any),
}

func (c *Checker) seedBuiltins() {
	for name, typ := range builtinSignatures {
		sym := c.syms.AddGlobalSymbol(name, typ, SymGlobal, QualNone)
		sym.IsFunction = true
	}
}

func (c *Checker) collectSignatures(mod *Module) {
	for _, s := range mod.Stmts {
		switch decl := s.(type) {
		case *FuncDecl:
			sym := c.syms.AddGlobalSymbol(decl.Name, decl.FuncType(), SymGlobal, QualNone)
			sym.IsFunction = true
			sym.FuncMod = decl.Mod
		case *VarDecl:
			c.syms.AddGlobalSymbol(decl.Name, decl.Type, SymGlobal, decl.Qual)
		}
	}
}

func (c *Checker) checkStmt(s Stmt) { _ = s.Accept(c) }

func (c *Checker) typeOf(e Expr) *Type {
	if e == nil {
		return nil
	}
	_ = e.Accept(c)
	t := c.result
	e.SetExprType(t)
	return t
}

func (c *Checker) currentRegionIsPrivate() bool {
	return c.regions[len(c.regions)-1]
}

// pushRegion opens a new lexical region for a block/function carrying
// mod, returning the function the caller must defer to close it.
func (c *Checker) pushRegion(mod RegionMod) func() {
	switch mod {
	case RegionPrivate:
		c.regions = append(c.regions, true)
		c.arena.PushDepth()
		return func() {
			c.arena.PopDepth()
			c.regions = c.regions[:len(c.regions)-1]
		}
	case RegionShared:
		c.regions = append(c.regions, c.currentRegionIsPrivate())
		return func() { c.regions = c.regions[:len(c.regions)-1] }
	default:
		c.regions = append(c.regions, false)
		return func() { c.regions = c.regions[:len(c.regions)-1] }
	}
}

// ---- StmtVisitor ----

func (c *Checker) VisitExprStmt(s *ExprStmt) error {
	c.typeOf(s.X)
	return nil
}

func (c *Checker) VisitVarDecl(s *VarDecl) error {
	if s.Init != nil {
		initType := c.typeOf(s.Init)
		if !numericOrAssignable(initType, s.Type) {
			c.diags.Error(StageType, s.LocToken(), "cannot initialize %s with a value of type %s", s.Type, initType)
		}
	}
	c.syms.AddSymbol(s.Name, s.Type, SymLocal, s.Qual)
	return nil
}

func (c *Checker) VisitFuncDecl(s *FuncDecl) error {
	c.syms.BeginFunctionScope()
	for _, param := range s.Params {
		c.syms.AddSymbol(param.Name, param.Type, SymParam, param.Qual)
	}
	c.funcRet = append(c.funcRet, s.RetType)
	pop := c.pushRegion(s.Mod)
	for _, stmt := range s.Body.Stmts {
		c.checkStmt(stmt)
	}
	pop()
	c.funcRet = c.funcRet[:len(c.funcRet)-1]
	c.syms.PopScope()
	return nil
}

func (c *Checker) VisitReturn(s *ReturnStmt) error {
	var retType *Type
	if s.Value != nil {
		retType = c.typeOf(s.Value)
		if c.currentRegionIsPrivate() && !retType.IsPrimitive() {
			c.diags.Error(StageType, s.LocToken(),
				"cannot return a %s value out of a private region; only int/long/double/char/bool may cross", retType)
		}
	} else {
		retType = Void
	}
	if len(c.funcRet) > 0 {
		want := c.funcRet[len(c.funcRet)-1]
		if want.Kind != TVoid && !numericOrAssignable(retType, want) {
			c.diags.Error(StageType, s.LocToken(), "return type mismatch: expected %s, got %s", want, retType)
		}
	}
	return nil
}

func (c *Checker) VisitBlock(s *BlockStmt) error {
	c.syms.PushScope()
	pop := c.pushRegion(s.Mod)
	for _, stmt := range s.Stmts {
		c.checkStmt(stmt)
	}
	pop()
	c.syms.PopScope()
	return nil
}

func (c *Checker) VisitIf(s *IfStmt) error {
	condType := c.typeOf(s.Cond)
	if condType != nil && condType.Kind != TBool {
		c.diags.Error(StageType, s.LocToken(), "if condition must be bool, got %s", condType)
	}
	c.checkStmt(s.Then)
	if s.Else != nil {
		c.checkStmt(s.Else)
	}
	return nil
}

func (c *Checker) VisitWhile(s *WhileStmt) error {
	condType := c.typeOf(s.Cond)
	if condType != nil && condType.Kind != TBool {
		c.diags.Error(StageType, s.LocToken(), "while condition must be bool, got %s", condType)
	}
	c.loopDepth++
	c.checkStmt(s.Body)
	c.loopDepth--
	return nil
}

func (c *Checker) VisitFor(s *ForStmt) error {
	c.syms.PushScope()
	if s.Init != nil {
		c.checkStmt(s.Init)
	}
	if s.Cond != nil {
		condType := c.typeOf(s.Cond)
		if condType != nil && condType.Kind != TBool {
			c.diags.Error(StageType, s.LocToken(), "for condition must be bool, got %s", condType)
		}
	}
	if s.Step != nil {
		c.checkStmt(s.Step)
	}
	c.loopDepth++
	c.checkStmt(s.Body)
	c.loopDepth--
	c.syms.PopScope()
	return nil
}

func (c *Checker) VisitForEach(s *ForEachStmt) error {
	iterType := c.typeOf(s.Iterable)
	elem := Any
	if iterType != nil && iterType.Kind == TArray {
		elem = iterType.Elem
	} else if iterType != nil {
		c.diags.Error(StageType, s.LocToken(), "for-each iterable must be an array, got %s", iterType)
	}
	c.syms.PushScope()
	c.syms.AddSymbol(s.Name, elem, SymLocal, QualNone)
	c.loopDepth++
	c.checkStmt(s.Body)
	c.loopDepth--
	c.syms.PopScope()
	return nil
}

func (c *Checker) VisitBreak(s *BreakStmt) error {
	if c.loopDepth == 0 {
		c.diags.Error(StageType, s.LocToken(), "break used outside a loop")
	}
	return nil
}

func (c *Checker) VisitContinue(s *ContinueStmt) error {
	if c.loopDepth == 0 {
		c.diags.Error(StageType, s.LocToken(), "continue used outside a loop")
	}
	return nil
}

func (c *Checker) VisitImport(s *ImportStmt) error {
	return nil
}

// ---- ExprVisitor ----

func (c *Checker) VisitLiteral(e *LiteralExpr) error {
	switch e.LitKind {
	case INT:
		c.result = Int
	case LONG:
		c.result = Long
	case DOUBLE:
		c.result = Double
	case CHAR:
		c.result = Char
	case STRING:
		c.result = String
	case KW_TRUE, KW_FALSE:
		c.result = Bool
	case KW_NIL:
		c.result = Nil
	default:
		c.result = Any
	}
	return nil
}

func (c *Checker) VisitIdent(e *IdentExpr) error {
	sym, ok := c.syms.Lookup(e.Name)
	if !ok {
		c.diags.ErrorWithSuggestion(StageType, e.LocToken(), c.syms.NamesInScope(), "undefined name %q", e.Name)
		c.result = Any
		return nil
	}
	c.result = sym.Type
	return nil
}

func (c *Checker) VisitAssign(e *AssignExpr) error {
	valType := c.typeOf(e.Value)
	targetType := c.typeOf(e.Target)

	if ident, ok := e.Target.(*IdentExpr); ok {
		if _, inCurrent := c.syms.LookupCurrent(ident.Name); !inCurrent && c.currentRegionIsPrivate() && !valType.IsPrimitive() {
			c.diags.Error(StageType, e.LocToken(),
				"cannot assign a %s value to %q, declared outside this private region", valType, ident.Name)
		}
	}

	if targetType != nil && !numericOrAssignable(valType, targetType) {
		c.diags.Error(StageType, e.LocToken(), "cannot assign %s to target of type %s", valType, targetType)
	}
	c.result = targetType
	return nil
}

func (c *Checker) VisitBinary(e *BinaryExpr) error {
	left := c.typeOf(e.Left)
	right := c.typeOf(e.Right)
	switch e.Op {
	case PLUS:
		if left.Kind == TString || right.Kind == TString {
			c.result = String
			return nil
		}
		fallthrough
	case MINUS, STAR, SLASH, PERCENT:
		if !left.IsNumeric() || !right.IsNumeric() {
			c.diags.Error(StageType, e.LocToken(), "arithmetic operator %s needs numeric operands, got %s and %s", e.Op, left, right)
			c.result = Any
			return nil
		}
		c.result = PromoteNumeric(left, right)
	case EQ, NEQ, LT, LTE, GT, GTE:
		numOK := left.IsNumeric() && right.IsNumeric()
		strOK := left.Kind == TString && right.Kind == TString
		if !numOK && !strOK {
			c.diags.Error(StageType, e.LocToken(), "comparison needs two numeric or two string operands, got %s and %s", left, right)
		}
		c.result = Bool
	case AND, OR:
		if left.Kind != TBool || right.Kind != TBool {
			c.diags.Error(StageType, e.LocToken(), "logical operator %s needs bool operands, got %s and %s", e.Op, left, right)
		}
		c.result = Bool
	default:
		c.result = Any
	}
	return nil
}

func (c *Checker) VisitUnary(e *UnaryExpr) error {
	operand := c.typeOf(e.Operand)
	switch e.Op {
	case BANG:
		if operand.Kind != TBool {
			c.diags.Error(StageType, e.LocToken(), "'!' needs a bool operand, got %s", operand)
		}
		c.result = Bool
	case MINUS:
		if !operand.IsNumeric() {
			c.diags.Error(StageType, e.LocToken(), "unary '-' needs a numeric operand, got %s", operand)
		}
		c.result = operand
	default:
		c.result = Any
	}
	return nil
}

func (c *Checker) VisitIncDec(e *IncDecExpr) error {
	operand := c.typeOf(e.Operand)
	if !operand.IsNumeric() {
		c.diags.Error(StageType, e.LocToken(), "%s needs a numeric, modifiable operand, got %s", e.Op, operand)
	}
	if _, ok := e.Operand.(*IdentExpr); !ok {
		if _, ok := e.Operand.(*IndexExpr); !ok {
			c.diags.Error(StageType, e.LocToken(), "%s needs a modifiable variable or array element", e.Op)
		}
	}
	c.result = operand
	return nil
}

// matchMethodCall resolves a call whose callee is a member access on an
// array or string receiver against the authoritative method table,
// rather than treating the member as a free-standing function value.
func (c *Checker) matchMethodCall(call *CallExpr, member *MemberExpr) bool {
	receiver := c.typeOf(member.Base)
	var tbl map[string]MethodSig
	switch receiver.Kind {
	case TArray:
		tbl = ArrayMethods
	case TString:
		tbl = StringMethods
	default:
		return false
	}
	sig, ok := tbl[member.Name]
	if !ok {
		c.diags.ErrorWithSuggestion(StageType, member.LocToken(), MemberNames(receiver), "no such method %q", member.Name)
		member.SetExprType(Any)
		c.result = Any
		return true
	}
	member.SetExprType(methodFuncType(sig, receiver))
	c.checkArgs(call, sig.Params, receiver)
	c.result = sig.Return(receiver)
	return true
}

func methodFuncType(sig MethodSig, receiver *Type) *Type {
	params := make([]*Type, len(sig.Params))
	for i, pt := range sig.Params {
		if pt == nil {
			params[i] = elemOf(receiver)
		} else {
			params[i] = pt
		}
	}
	return FuncType(sig.Return(receiver), params...)
}

// checkArgs type-checks call's argument list against want, substituting
// nil entries (the method table's "receiver element type" marker) with
// elemOf(receiver). A spread argument suppresses the strict arity check
// since its expanded length isn't known statically.
func (c *Checker) checkArgs(call *CallExpr, want []*Type, receiver *Type) {
	hasSpread := false
	for _, a := range call.Args {
		if _, ok := a.(*SpreadExpr); ok {
			hasSpread = true
		}
	}
	if !hasSpread && len(call.Args) != len(want) {
		c.diags.Error(StageType, call.LocToken(), "expected %d argument(s), got %d", len(want), len(call.Args))
	}
	for i, arg := range call.Args {
		argType := c.typeOf(arg)
		if i >= len(want) {
			continue
		}
		expected := want[i]
		if expected == nil {
			expected = elemOf(receiver)
		}
		if !numericOrAssignable(argType, expected) && !argType.Equals(expected) {
			c.diags.Error(StageType, arg.LocToken(), "argument %d: expected %s, got %s", i+1, expected, argType)
		}
	}
}

func (c *Checker) VisitCall(e *CallExpr) error {
	if member, ok := e.Callee.(*MemberExpr); ok {
		if c.matchMethodCall(e, member) {
			return nil
		}
	}
	calleeType := c.typeOf(e.Callee)
	if calleeType == nil || calleeType.Kind != TFunction {
		c.diags.Error(StageType, e.LocToken(), "callee is not a function, got %s", calleeType)
		for _, a := range e.Args {
			c.typeOf(a)
		}
		c.result = Any
		return nil
	}
	c.checkArgs(e, calleeType.Params, nil)
	c.result = calleeType.Ret
	return nil
}

func (c *Checker) VisitArrayLit(e *ArrayLitExpr) error {
	if len(e.Elems) == 0 {
		c.result = ArrayOf(Nil)
		return nil
	}
	var elem *Type
	for _, el := range e.Elems {
		t := c.typeOf(el)
		// A spread element contributes its operand array's element type,
		// not the array type VisitSpread reports as its own result: `{0,
		// ...a, 3}` needs `a`'s elements to agree with 0 and 3, not with
		// `a` itself.
		if _, ok := el.(*SpreadExpr); ok {
			t = elemOf(t)
		}
		if elem == nil {
			elem = t
			continue
		}
		if !t.Equals(elem) && !numericOrAssignable(t, elem) {
			c.diags.Error(StageType, el.LocToken(), "array literal elements must share a type: %s vs %s", elem, t)
		}
	}
	c.result = ArrayOf(elem)
	return nil
}

func (c *Checker) VisitIndex(e *IndexExpr) error {
	base := c.typeOf(e.Base)
	idx := c.typeOf(e.Index)
	if idx != nil && !idx.IsNumeric() {
		c.diags.Error(StageType, e.LocToken(), "array index must be numeric, got %s", idx)
	}
	if base == nil || base.Kind != TArray {
		c.diags.Error(StageType, e.LocToken(), "cannot index a value of type %s", base)
		c.result = Any
		return nil
	}
	c.result = base.Elem
	return nil
}

func (c *Checker) VisitSlice(e *SliceExpr) error {
	base := c.typeOf(e.Base)
	for _, bound := range []Expr{e.Start, e.End, e.Step} {
		if bound == nil {
			continue
		}
		t := c.typeOf(bound)
		if t != nil && !t.IsNumeric() {
			c.diags.Error(StageType, bound.LocToken(), "slice bound must be numeric, got %s", t)
		}
	}
	if base == nil || (base.Kind != TArray && base.Kind != TString) {
		c.diags.Error(StageType, e.LocToken(), "cannot slice a value of type %s", base)
		c.result = Any
		return nil
	}
	c.result = base
	return nil
}

func (c *Checker) VisitRange(e *RangeExpr) error {
	start := c.typeOf(e.Start)
	end := c.typeOf(e.End)
	if !start.IsNumeric() || !end.IsNumeric() {
		c.diags.Error(StageType, e.LocToken(), "range bounds must be numeric, got %s and %s", start, end)
	}
	c.result = ArrayOf(Long)
	return nil
}

func (c *Checker) VisitSpread(e *SpreadExpr) error {
	operand := c.typeOf(e.Operand)
	if operand == nil || operand.Kind != TArray {
		c.diags.Error(StageType, e.LocToken(), "spread operand must be an array, got %s", operand)
		c.result = Any
		return nil
	}
	c.result = operand
	return nil
}

func (c *Checker) VisitMember(e *MemberExpr) error {
	receiver := c.typeOf(e.Base)
	switch {
	case receiver != nil && receiver.Kind == TArray:
		if e.Name == ArrayFieldLength {
			c.result = Int
			return nil
		}
		if sig, ok := ArrayMethods[e.Name]; ok {
			c.result = methodFuncType(sig, receiver)
			return nil
		}
		c.diags.ErrorWithSuggestion(StageType, e.LocToken(), MemberNames(receiver), "array has no member %q", e.Name)
		c.result = Any
	case receiver != nil && receiver.Kind == TString:
		if e.Name == StringFieldLength {
			c.result = Int
			return nil
		}
		if sig, ok := StringMethods[e.Name]; ok {
			c.result = methodFuncType(sig, receiver)
			return nil
		}
		c.diags.ErrorWithSuggestion(StageType, e.LocToken(), MemberNames(receiver), "string has no member %q", e.Name)
		c.result = Any
	default:
		c.diags.Error(StageType, e.LocToken(), "cannot access member %q on type %s", e.Name, receiver)
		c.result = Any
	}
	return nil
}

func (c *Checker) VisitInterp(e *InterpExpr) error {
	for _, part := range e.Parts {
		if part.Expr == nil {
			continue
		}
		t := c.typeOf(part.Expr)
		if t != nil && !t.IsPrintable() {
			c.diags.Error(StageType, part.Expr.LocToken(), "interpolated expression of type %s is not printable", t)
		}
	}
	c.result = String
	return nil
}

// numericOrAssignable is the acceptance rule shared by assignment, var
// initialization, return-type, and array-literal element checks: exact
// structural equality, the AssignableTo special cases (Nil, empty-array
// literal), or a numeric widening (int/long interchangeably, either
// widening to double, never double narrowing to int/long).
func numericOrAssignable(from, to *Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.AssignableTo(to) {
		return true
	}
	if !from.IsNumeric() || !to.IsNumeric() {
		return false
	}
	if from.Kind == TDouble && to.Kind != TDouble {
		return false
	}
	return true
}
