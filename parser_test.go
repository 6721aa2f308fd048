package ember

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) (*Module, *Diagnostics) {
	t.Helper()
	arena := NewArena()
	diags := NewDiagnostics()
	p := NewParser(arena, []byte(src), "test.em", diags)
	return p.ParseModule(), diags
}

func TestParserHelloWorld(t *testing.T) {
	mod, diags := parseSource(t, "fn main(): void => print(\"hello\\n\")\n")
	require.False(t, diags.HasErrors(), "unexpected errors: %v", diags.Strings())
	require.Len(t, mod.Stmts, 1)
	fn, ok := mod.Stmts[0].(*FuncDecl)
	require.True(t, ok, "got %T, want *FuncDecl", mod.Stmts[0])
	require.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Stmts, 1)
}

func TestParserFactorialRecursion(t *testing.T) {
	src := "fn fact(n: long): long =>\n" +
		"    if n <= 1 => return 1l\n" +
		"    return n * fact(n - 1l)\n"
	mod, diags := parseSource(t, src)
	require.False(t, diags.HasErrors(), "unexpected errors: %v", diags.Strings())
	fn := mod.Stmts[0].(*FuncDecl)
	require.Len(t, fn.Body.Stmts, 2)
	_, ok := fn.Body.Stmts[0].(*IfStmt)
	require.True(t, ok, "stmt 0 = %T, want *IfStmt", fn.Body.Stmts[0])
}

func TestParserOneLineBlockWithSemicolons(t *testing.T) {
	src := `fn main(): void => var x: int = 7; print($"n={x}\n")` + "\n"
	mod, diags := parseSource(t, src)
	require.False(t, diags.HasErrors(), "unexpected errors: %v", diags.Strings())
	fn := mod.Stmts[0].(*FuncDecl)
	require.Len(t, fn.Body.Stmts, 2)
	call := fn.Body.Stmts[1].(*ExprStmt).X.(*CallExpr)
	interp := call.Args[0].(*InterpExpr)
	require.Len(t, interp.Parts, 2)
	require.Equal(t, "n=", interp.Parts[0].Text)
	require.Nil(t, interp.Parts[0].Expr)
	require.NotNil(t, interp.Parts[1].Expr)
}

func TestParserForEachVsCStyleForDisambiguation(t *testing.T) {
	mod, diags := parseSource(t, "fn f(): void =>\n    for var i in arr => print(i)\n")
	require.False(t, diags.HasErrors(), "unexpected errors: %v", diags.Strings())
	fn := mod.Stmts[0].(*FuncDecl)
	_, ok := fn.Body.Stmts[0].(*ForEachStmt)
	require.True(t, ok, "got %T, want *ForEachStmt", fn.Body.Stmts[0])

	mod2, diags2 := parseSource(t, "fn g(): void =>\n    for var i: int = 0; i < 10; i++ => print(i)\n")
	require.False(t, diags2.HasErrors(), "unexpected errors: %v", diags2.Strings())
	fn2 := mod2.Stmts[0].(*FuncDecl)
	forStmt, ok := fn2.Body.Stmts[0].(*ForStmt)
	require.True(t, ok, "got %T, want *ForStmt", fn2.Body.Stmts[0])
	_, ok = forStmt.Init.(*VarDecl)
	require.True(t, ok, "for-init = %T, want *VarDecl", forStmt.Init)
}

func TestParserErrorRecoveryContinuesAfterBadStatement(t *testing.T) {
	src := "fn f(): void =>\n    var x: =\n    var y: int = 1\n"
	mod, diags := parseSource(t, src)
	require.True(t, diags.HasErrors(), "expected a diagnostic for the malformed var decl")
	fn := mod.Stmts[0].(*FuncDecl)
	require.Len(t, fn.Body.Stmts, 1, "only the valid 'var y' should survive recovery")
	y, ok := fn.Body.Stmts[0].(*VarDecl)
	require.True(t, ok)
	require.Equal(t, "y", y.Name)
}

func TestParserSliceAndMemberCallChain(t *testing.T) {
	mod, diags := parseSource(t, "fn f(): void =>\n    a[1:5:2].push(a[0])\n")
	require.False(t, diags.HasErrors(), "unexpected errors: %v", diags.Strings())
	fn := mod.Stmts[0].(*FuncDecl)
	exprStmt := fn.Body.Stmts[0].(*ExprStmt)
	call := exprStmt.X.(*CallExpr)
	member := call.Callee.(*MemberExpr)
	require.Equal(t, "push", member.Name)
	_, ok := member.Base.(*SliceExpr)
	require.True(t, ok, "member base = %T, want *SliceExpr", member.Base)
}
