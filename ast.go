package ember

// MemQual is the `as val` / `as ref` qualifier attached to a variable or
// parameter declaration.
type MemQual int

const (
	QualNone MemQual = iota
	QualVal
	QualRef
)

func (q MemQual) String() string {
	switch q {
	case QualVal:
		return "as val"
	case QualRef:
		return "as ref"
	default:
		return ""
	}
}

// RegionMod is the `shared` / `private` modifier attached to a function or
// block. A default (unmodified) function/block opens its own region; see
// typecheck.go's escape analysis for how the checker enforces the
// difference.
type RegionMod int

const (
	RegionDefault RegionMod = iota
	RegionShared
	RegionPrivate
)

func (m RegionMod) String() string {
	switch m {
	case RegionShared:
		return "shared"
	case RegionPrivate:
		return "private"
	default:
		return ""
	}
}

// exprBase is embedded by every Expr variant. It carries the token used
// for diagnostics (LocToken) and the mutable ExprType slot the type
// checker populates during Pass 2.
type exprBase struct {
	tok Token
	typ *Type
}

func (e *exprBase) LocToken() Token     { return e.tok }
func (e *exprBase) ExprType() *Type     { return e.typ }
func (e *exprBase) SetExprType(t *Type) { e.typ = t }

// Expr is the sum-type interface every expression AST node implements.
type Expr interface {
	LocToken() Token
	ExprType() *Type
	SetExprType(*Type)
	Accept(ExprVisitor) error
}

// ---- Expr variants ----

type LiteralExpr struct {
	exprBase
	LitKind Kind // INT, LONG, DOUBLE, CHAR, STRING, KW_TRUE, KW_FALSE, KW_NIL
	Value   Literal
}

func NewLiteralExpr(tok Token, litKind Kind, value Literal) *LiteralExpr {
	e := &LiteralExpr{LitKind: litKind, Value: value}
	e.tok = tok
	return e
}
func (e *LiteralExpr) Accept(v ExprVisitor) error { return v.VisitLiteral(e) }

type IdentExpr struct {
	exprBase
	Name string
}

func NewIdentExpr(tok Token, name string) *IdentExpr {
	e := &IdentExpr{Name: name}
	e.tok = tok
	return e
}
func (e *IdentExpr) Accept(v ExprVisitor) error { return v.VisitIdent(e) }

type AssignExpr struct {
	exprBase
	Target Expr
	Value  Expr
}

func NewAssignExpr(tok Token, target, value Expr) *AssignExpr {
	e := &AssignExpr{Target: target, Value: value}
	e.tok = tok
	return e
}
func (e *AssignExpr) Accept(v ExprVisitor) error { return v.VisitAssign(e) }

type BinaryExpr struct {
	exprBase
	Op    Kind
	Left  Expr
	Right Expr
}

func NewBinaryExpr(tok Token, op Kind, left, right Expr) *BinaryExpr {
	e := &BinaryExpr{Op: op, Left: left, Right: right}
	e.tok = tok
	return e
}
func (e *BinaryExpr) Accept(v ExprVisitor) error { return v.VisitBinary(e) }

type UnaryExpr struct {
	exprBase
	Op      Kind
	Operand Expr
}

func NewUnaryExpr(tok Token, op Kind, operand Expr) *UnaryExpr {
	e := &UnaryExpr{Op: op, Operand: operand}
	e.tok = tok
	return e
}
func (e *UnaryExpr) Accept(v ExprVisitor) error { return v.VisitUnary(e) }

// IncDecExpr represents pre/post ++ and --.
type IncDecExpr struct {
	exprBase
	Op      Kind // INC or DEC
	Operand Expr
	Prefix  bool
}

func NewIncDecExpr(tok Token, op Kind, operand Expr, prefix bool) *IncDecExpr {
	e := &IncDecExpr{Op: op, Operand: operand, Prefix: prefix}
	e.tok = tok
	return e
}
func (e *IncDecExpr) Accept(v ExprVisitor) error { return v.VisitIncDec(e) }

type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func NewCallExpr(tok Token, callee Expr, args []Expr) *CallExpr {
	e := &CallExpr{Callee: callee, Args: args}
	e.tok = tok
	return e
}
func (e *CallExpr) Accept(v ExprVisitor) error { return v.VisitCall(e) }

type ArrayLitExpr struct {
	exprBase
	Elems []Expr
}

func NewArrayLitExpr(tok Token, elems []Expr) *ArrayLitExpr {
	e := &ArrayLitExpr{Elems: elems}
	e.tok = tok
	return e
}
func (e *ArrayLitExpr) Accept(v ExprVisitor) error { return v.VisitArrayLit(e) }

type IndexExpr struct {
	exprBase
	Base  Expr
	Index Expr
}

func NewIndexExpr(tok Token, base, index Expr) *IndexExpr {
	e := &IndexExpr{Base: base, Index: index}
	e.tok = tok
	return e
}
func (e *IndexExpr) Accept(v ExprVisitor) error { return v.VisitIndex(e) }

// SliceExpr represents `base[start:end:step]`; any of Start/End/Step may
// be nil when absent.
type SliceExpr struct {
	exprBase
	Base             Expr
	Start, End, Step Expr
}

func NewSliceExpr(tok Token, base, start, end, step Expr) *SliceExpr {
	e := &SliceExpr{Base: base, Start: start, End: end, Step: step}
	e.tok = tok
	return e
}
func (e *SliceExpr) Accept(v ExprVisitor) error { return v.VisitSlice(e) }

type RangeExpr struct {
	exprBase
	Start Expr
	End   Expr
}

func NewRangeExpr(tok Token, start, end Expr) *RangeExpr {
	e := &RangeExpr{Start: start, End: end}
	e.tok = tok
	return e
}
func (e *RangeExpr) Accept(v ExprVisitor) error { return v.VisitRange(e) }

// SpreadExpr represents `...expr`, legal only inside an array literal or a
// call argument list.
type SpreadExpr struct {
	exprBase
	Operand Expr
}

func NewSpreadExpr(tok Token, operand Expr) *SpreadExpr {
	e := &SpreadExpr{Operand: operand}
	e.tok = tok
	return e
}
func (e *SpreadExpr) Accept(v ExprVisitor) error { return v.VisitSpread(e) }

type MemberExpr struct {
	exprBase
	Base Expr
	Name string
}

func NewMemberExpr(tok Token, base Expr, name string) *MemberExpr {
	e := &MemberExpr{Base: base, Name: name}
	e.tok = tok
	return e
}
func (e *MemberExpr) Accept(v ExprVisitor) error { return v.VisitMember(e) }

// InterpPart is one element of an interpolated string: either a literal
// text run (Expr == nil) or an embedded expression with an optional
// format specifier captured from `{expr:spec}`.
type InterpPart struct {
	Text   string
	Expr   Expr
	Format string
}

type InterpExpr struct {
	exprBase
	Parts []InterpPart
}

func NewInterpExpr(tok Token, parts []InterpPart) *InterpExpr {
	e := &InterpExpr{Parts: parts}
	e.tok = tok
	return e
}
func (e *InterpExpr) Accept(v ExprVisitor) error { return v.VisitInterp(e) }

// ExprVisitor is implemented by every stage that walks expressions
// (printer, type checker, code generator).
type ExprVisitor interface {
	VisitLiteral(*LiteralExpr) error
	VisitIdent(*IdentExpr) error
	VisitAssign(*AssignExpr) error
	VisitBinary(*BinaryExpr) error
	VisitUnary(*UnaryExpr) error
	VisitIncDec(*IncDecExpr) error
	VisitCall(*CallExpr) error
	VisitArrayLit(*ArrayLitExpr) error
	VisitIndex(*IndexExpr) error
	VisitSlice(*SliceExpr) error
	VisitRange(*RangeExpr) error
	VisitSpread(*SpreadExpr) error
	VisitMember(*MemberExpr) error
	VisitInterp(*InterpExpr) error
}

// ---- Stmt variants ----

type Stmt interface {
	LocToken() Token
	Accept(StmtVisitor) error
}

type stmtBase struct{ tok Token }

func (s *stmtBase) LocToken() Token { return s.tok }

type ExprStmt struct {
	stmtBase
	X Expr
}

func NewExprStmt(tok Token, x Expr) *ExprStmt {
	s := &ExprStmt{X: x}
	s.tok = tok
	return s
}
func (s *ExprStmt) Accept(v StmtVisitor) error { return v.VisitExprStmt(s) }

type VarDecl struct {
	stmtBase
	Name string
	Type *Type
	Init Expr // nil if no initializer
	Qual MemQual
}

func NewVarDecl(tok Token, name string, typ *Type, init Expr, qual MemQual) *VarDecl {
	s := &VarDecl{Name: name, Type: typ, Init: init, Qual: qual}
	s.tok = tok
	return s
}
func (s *VarDecl) Accept(v StmtVisitor) error { return v.VisitVarDecl(s) }

type Param struct {
	Name string
	Type *Type
	Qual MemQual
}

type FuncDecl struct {
	stmtBase
	Name    string
	Params  []Param
	RetType *Type
	Body    *BlockStmt
	Mod     RegionMod

	// IsTailRecursive is set by the tail-call marking pass when at least
	// one tail-position return is a direct call to this function.
	IsTailRecursive bool
}

func NewFuncDecl(tok Token, name string, params []Param, ret *Type, body *BlockStmt, mod RegionMod) *FuncDecl {
	s := &FuncDecl{Name: name, Params: params, RetType: ret, Body: body, Mod: mod}
	s.tok = tok
	return s
}
func (s *FuncDecl) Accept(v StmtVisitor) error { return v.VisitFuncDecl(s) }

// FuncType builds the Function Type implied by this declaration's
// signature, used by Pass 1 to register a forward-referenceable symbol.
func (s *FuncDecl) FuncType() *Type {
	params := make([]*Type, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Type
	}
	return FuncType(s.RetType, params...)
}

type ReturnStmt struct {
	stmtBase
	Value Expr // nil for bare `return`
}

func NewReturnStmt(tok Token, value Expr) *ReturnStmt {
	s := &ReturnStmt{Value: value}
	s.tok = tok
	return s
}
func (s *ReturnStmt) Accept(v StmtVisitor) error { return v.VisitReturn(s) }

type BlockStmt struct {
	stmtBase
	Stmts []Stmt
	Mod   RegionMod
}

func NewBlockStmt(tok Token, stmts []Stmt, mod RegionMod) *BlockStmt {
	s := &BlockStmt{Stmts: stmts, Mod: mod}
	s.tok = tok
	return s
}
func (s *BlockStmt) Accept(v StmtVisitor) error { return v.VisitBlock(s) }

type IfStmt struct {
	stmtBase
	Cond Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt, *IfStmt (else if), or nil
}

func NewIfStmt(tok Token, cond Expr, then *BlockStmt, els Stmt) *IfStmt {
	s := &IfStmt{Cond: cond, Then: then, Else: els}
	s.tok = tok
	return s
}
func (s *IfStmt) Accept(v StmtVisitor) error { return v.VisitIf(s) }

type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *BlockStmt
}

func NewWhileStmt(tok Token, cond Expr, body *BlockStmt) *WhileStmt {
	s := &WhileStmt{Cond: cond, Body: body}
	s.tok = tok
	return s
}
func (s *WhileStmt) Accept(v StmtVisitor) error { return v.VisitWhile(s) }

type ForStmt struct {
	stmtBase
	Init Stmt // may be nil
	Cond Expr // may be nil
	Step Stmt // may be nil
	Body *BlockStmt
}

func NewForStmt(tok Token, init Stmt, cond Expr, step Stmt, body *BlockStmt) *ForStmt {
	s := &ForStmt{Init: init, Cond: cond, Step: step, Body: body}
	s.tok = tok
	return s
}
func (s *ForStmt) Accept(v StmtVisitor) error { return v.VisitFor(s) }

type ForEachStmt struct {
	stmtBase
	Name     string
	Iterable Expr
	Body     *BlockStmt
}

func NewForEachStmt(tok Token, name string, iterable Expr, body *BlockStmt) *ForEachStmt {
	s := &ForEachStmt{Name: name, Iterable: iterable, Body: body}
	s.tok = tok
	return s
}
func (s *ForEachStmt) Accept(v StmtVisitor) error { return v.VisitForEach(s) }

type BreakStmt struct{ stmtBase }

func NewBreakStmt(tok Token) *BreakStmt {
	s := &BreakStmt{}
	s.tok = tok
	return s
}
func (s *BreakStmt) Accept(v StmtVisitor) error { return v.VisitBreak(s) }

type ContinueStmt struct{ stmtBase }

func NewContinueStmt(tok Token) *ContinueStmt {
	s := &ContinueStmt{}
	s.tok = tok
	return s
}
func (s *ContinueStmt) Accept(v StmtVisitor) error { return v.VisitContinue(s) }

type ImportStmt struct {
	stmtBase
	Name string
}

func NewImportStmt(tok Token, name string) *ImportStmt {
	s := &ImportStmt{Name: name}
	s.tok = tok
	return s
}
func (s *ImportStmt) Accept(v StmtVisitor) error { return v.VisitImport(s) }

// StmtVisitor is implemented by every stage that walks statements.
type StmtVisitor interface {
	VisitExprStmt(*ExprStmt) error
	VisitVarDecl(*VarDecl) error
	VisitFuncDecl(*FuncDecl) error
	VisitReturn(*ReturnStmt) error
	VisitBlock(*BlockStmt) error
	VisitIf(*IfStmt) error
	VisitWhile(*WhileStmt) error
	VisitFor(*ForStmt) error
	VisitForEach(*ForEachStmt) error
	VisitBreak(*BreakStmt) error
	VisitContinue(*ContinueStmt) error
	VisitImport(*ImportStmt) error
}

// Module is an ordered sequence of top-level statements plus the
// originating filename.
type Module struct {
	File  string
	Stmts []Stmt
}
