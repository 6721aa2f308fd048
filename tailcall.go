package ember

// MarkTailCalls runs the one pass beyond constant folding this rewrite's
// Non-goals (§1) still allow: for every non-private top-level function,
// it flags FuncDecl.IsTailRecursive when the function contains at least
// one `return selfCall(...)` in tail position. The code generator uses
// the flag to rewrite such a return into a parameter reassignment plus a
// `goto` back to the function's own entry, so a tail-recursive Ember
// function compiles to a loop in C instead of unbounded native call-stack
// growth.
//
// Private functions are excluded: a private region's arena is created
// once per call and destroyed on every exit edge (§4.6); looping in
// place would re-execute that creation in the same C scope, which is a
// declaration conflict the generator does not attempt to untangle. A
// private tail-recursive function still compiles correctly — it simply
// recurses natively, like everything else.
func MarkTailCalls(mod *Module) {
	for _, s := range mod.Stmts {
		if fn, ok := s.(*FuncDecl); ok && fn.Mod != RegionPrivate {
			fn.IsTailRecursive = hasTailSelfCall(fn)
		}
	}
}

func hasTailSelfCall(fn *FuncDecl) bool {
	found := false
	walkTailReturns(fn.Body, func(ret *ReturnStmt) {
		if isSelfCall(ret.Value, fn.Name) {
			found = true
		}
	})
	return found
}

func isSelfCall(e Expr, name string) bool {
	call, ok := e.(*CallExpr)
	if !ok {
		return false
	}
	ident, ok := call.Callee.(*IdentExpr)
	return ok && ident.Name == name
}

// walkTailReturns visits every ReturnStmt in tail position within b: the
// block's last statement, or (recursively) the last statement of either
// arm of a trailing if/else-if/else chain. It does not descend into
// while/for/for-each bodies, whose returns are not in the function's own
// tail position relative to a loop re-entry.
func walkTailReturns(b *BlockStmt, visit func(*ReturnStmt)) {
	if b == nil || len(b.Stmts) == 0 {
		return
	}
	walkTailStmt(b.Stmts[len(b.Stmts)-1], visit)
}

func walkTailStmt(s Stmt, visit func(*ReturnStmt)) {
	switch st := s.(type) {
	case *ReturnStmt:
		visit(st)
	case *IfStmt:
		walkTailReturns(st.Then, visit)
		switch e := st.Else.(type) {
		case *BlockStmt:
			walkTailReturns(e, visit)
		case *IfStmt:
			walkTailStmt(e, visit)
		}
	}
}
