package ember

import "math"

// FoldModule runs the constant folder over every statement in mod,
// rewriting binary/unary operations whose operands are literal numerics
// into a single literal, in place. It runs once type checking has
// succeeded, right before code generation, since folding needs the
// literal-kind/type information the checker attaches to each node.
//
// Folding walks the tree with a plain recursive type switch instead of
// the Expr/StmtVisitor interfaces used elsewhere: those interfaces
// return only an error, with no way for a Visit method to hand back a
// replacement node, and folding's whole job is substituting nodes.
func FoldModule(mod *Module) {
	for i, s := range mod.Stmts {
		mod.Stmts[i] = foldStmt(s)
	}
}

func foldStmt(s Stmt) Stmt {
	switch v := s.(type) {
	case *ExprStmt:
		v.X = foldExpr(v.X)
	case *VarDecl:
		if v.Init != nil {
			v.Init = foldExpr(v.Init)
		}
	case *FuncDecl:
		foldStmtSlice(v.Body.Stmts)
	case *ReturnStmt:
		if v.Value != nil {
			v.Value = foldExpr(v.Value)
		}
	case *BlockStmt:
		foldStmtSlice(v.Stmts)
	case *IfStmt:
		v.Cond = foldExpr(v.Cond)
		foldStmtSlice(v.Then.Stmts)
		if v.Else != nil {
			v.Else = foldStmt(v.Else)
		}
	case *WhileStmt:
		v.Cond = foldExpr(v.Cond)
		foldStmtSlice(v.Body.Stmts)
	case *ForStmt:
		if v.Init != nil {
			v.Init = foldStmt(v.Init)
		}
		if v.Cond != nil {
			v.Cond = foldExpr(v.Cond)
		}
		if v.Step != nil {
			v.Step = foldStmt(v.Step)
		}
		foldStmtSlice(v.Body.Stmts)
	case *ForEachStmt:
		v.Iterable = foldExpr(v.Iterable)
		foldStmtSlice(v.Body.Stmts)
	}
	return s
}

func foldStmtSlice(stmts []Stmt) {
	for i, s := range stmts {
		stmts[i] = foldStmt(s)
	}
}

func foldExpr(e Expr) Expr {
	switch v := e.(type) {
	case *BinaryExpr:
		v.Left = foldExpr(v.Left)
		v.Right = foldExpr(v.Right)
		if folded, ok := tryFoldBinary(v); ok {
			return folded
		}
		return v
	case *UnaryExpr:
		v.Operand = foldExpr(v.Operand)
		if folded, ok := tryFoldUnary(v); ok {
			return folded
		}
		return v
	case *AssignExpr:
		v.Target = foldExpr(v.Target)
		v.Value = foldExpr(v.Value)
		return v
	case *IncDecExpr:
		v.Operand = foldExpr(v.Operand)
		return v
	case *CallExpr:
		v.Callee = foldExpr(v.Callee)
		for i := range v.Args {
			v.Args[i] = foldExpr(v.Args[i])
		}
		return v
	case *ArrayLitExpr:
		for i := range v.Elems {
			v.Elems[i] = foldExpr(v.Elems[i])
		}
		return v
	case *IndexExpr:
		v.Base = foldExpr(v.Base)
		v.Index = foldExpr(v.Index)
		return v
	case *SliceExpr:
		v.Base = foldExpr(v.Base)
		if v.Start != nil {
			v.Start = foldExpr(v.Start)
		}
		if v.End != nil {
			v.End = foldExpr(v.End)
		}
		if v.Step != nil {
			v.Step = foldExpr(v.Step)
		}
		return v
	case *RangeExpr:
		v.Start = foldExpr(v.Start)
		v.End = foldExpr(v.End)
		return v
	case *SpreadExpr:
		v.Operand = foldExpr(v.Operand)
		return v
	case *MemberExpr:
		v.Base = foldExpr(v.Base)
		return v
	case *InterpExpr:
		for i, part := range v.Parts {
			if part.Expr != nil {
				v.Parts[i].Expr = foldExpr(part.Expr)
			}
		}
		return v
	default:
		return e
	}
}

func isNumericLitKind(k Kind) bool { return k == INT || k == LONG || k == DOUBLE }

// newFoldedLiteral builds a literal node and eagerly stamps its ExprType,
// since the node it replaces already had one set by the checker and
// nothing will run CheckModule again to fill it in for codegen.
func newFoldedLiteral(tok Token, litKind Kind, value Literal) *LiteralExpr {
	e := NewLiteralExpr(tok, litKind, value)
	switch litKind {
	case INT:
		e.SetExprType(Int)
	case LONG:
		e.SetExprType(Long)
	case DOUBLE:
		e.SetExprType(Double)
	case KW_TRUE, KW_FALSE:
		e.SetExprType(Bool)
	}
	return e
}

// litNumeric decomposes a numeric LiteralExpr into a float64 view (used
// for comparisons and double arithmetic) alongside its int64 view (used
// for long arithmetic), tagging which one is authoritative.
func litNumeric(l *LiteralExpr) (isDouble bool, i int64, f float64) {
	if l.LitKind == DOUBLE {
		return true, 0, l.Value.Double
	}
	return false, l.Value.Int, float64(l.Value.Int)
}

func isZeroLiteral(l *LiteralExpr) bool {
	if l.LitKind == DOUBLE {
		return l.Value.Double == 0
	}
	return l.Value.Int == 0
}

// tryFoldBinary folds a binary op whose operands are both numeric
// literals. Division and modulo by a literal zero are deliberately left
// unfolded so the runtime's own zero-check produces the error.
func tryFoldBinary(e *BinaryExpr) (Expr, bool) {
	l, lok := e.Left.(*LiteralExpr)
	r, rok := e.Right.(*LiteralExpr)
	if !lok || !rok || !isNumericLitKind(l.LitKind) || !isNumericLitKind(r.LitKind) {
		return nil, false
	}
	tok := e.tok
	switch e.Op {
	case PLUS, MINUS, STAR:
		return foldArith(tok, e.Op, l, r), true
	case SLASH, PERCENT:
		if isZeroLiteral(r) {
			return nil, false
		}
		return foldArith(tok, e.Op, l, r), true
	case EQ, NEQ, LT, LTE, GT, GTE:
		return foldCompare(tok, e.Op, l, r), true
	default:
		return nil, false
	}
}

func foldArith(tok Token, op Kind, l, r *LiteralExpr) *LiteralExpr {
	ldouble, li, lf := litNumeric(l)
	rdouble, ri, rf := litNumeric(r)
	if ldouble || rdouble {
		var res float64
		switch op {
		case PLUS:
			res = lf + rf
		case MINUS:
			res = lf - rf
		case STAR:
			res = lf * rf
		case SLASH:
			res = lf / rf
		case PERCENT:
			res = math.Mod(lf, rf)
		}
		return newFoldedLiteral(tok, DOUBLE, Literal{Double: res})
	}
	var res int64
	switch op {
	case PLUS:
		res = li + ri
	case MINUS:
		res = li - ri
	case STAR:
		res = li * ri
	case SLASH:
		res = li / ri
	case PERCENT:
		res = li % ri
	}
	// Binary arithmetic over two non-double operands promotes to long,
	// matching the type checker's PromoteNumeric rule.
	return newFoldedLiteral(tok, LONG, Literal{Int: res})
}

func foldCompare(tok Token, op Kind, l, r *LiteralExpr) *LiteralExpr {
	_, _, lf := litNumeric(l)
	_, _, rf := litNumeric(r)
	var b bool
	switch op {
	case EQ:
		b = lf == rf
	case NEQ:
		b = lf != rf
	case LT:
		b = lf < rf
	case LTE:
		b = lf <= rf
	case GT:
		b = lf > rf
	case GTE:
		b = lf >= rf
	}
	kind := KW_FALSE
	if b {
		kind = KW_TRUE
	}
	return newFoldedLiteral(tok, kind, Literal{Bool: b})
}

// tryFoldUnary folds unary '-' over a numeric literal operand,
// preserving the operand's literal kind (int stays int, long stays
// long) since unary negation has only one operand to promote from.
func tryFoldUnary(e *UnaryExpr) (Expr, bool) {
	if e.Op != MINUS {
		return nil, false
	}
	lit, ok := e.Operand.(*LiteralExpr)
	if !ok || !isNumericLitKind(lit.LitKind) {
		return nil, false
	}
	if lit.LitKind == DOUBLE {
		return newFoldedLiteral(e.tok, DOUBLE, Literal{Double: -lit.Value.Double}), true
	}
	return newFoldedLiteral(e.tok, lit.LitKind, Literal{Int: -lit.Value.Int}), true
}
