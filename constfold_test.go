package ember

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func foldSource(t *testing.T, src string) *Module {
	t.Helper()
	arena := NewArena()
	diags := NewDiagnostics()
	p := NewParser(arena, []byte(src), "fold.em", diags)
	mod := p.ParseModule()
	require.False(t, diags.HasErrors(), "source failed to parse: %v", diags.Strings())
	CheckModule(mod, arena, diags)
	require.False(t, diags.HasErrors(), "source failed to type check: %v", diags.Strings())
	FoldModule(mod)
	return mod
}

func singleReturnValue(t *testing.T, mod *Module) Expr {
	t.Helper()
	for _, s := range mod.Stmts {
		fn, ok := s.(*FuncDecl)
		if !ok || fn.Name != "main" {
			continue
		}
		for _, inner := range fn.Body.Stmts {
			if ret, ok := inner.(*ReturnStmt); ok {
				return ret.Value
			}
		}
	}
	t.Fatal("no return statement found in main")
	return nil
}

func TestFoldIntegerArithmeticFoldsToLiteral(t *testing.T) {
	mod := foldSource(t, "fn main(): long => return 2 + 3 * 4\n")
	lit, ok := singleReturnValue(t, mod).(*LiteralExpr)
	require.True(t, ok, "expected folding to a literal, got %T", singleReturnValue(t, mod))
	require.Equal(t, LONG, lit.LitKind)
	require.EqualValues(t, 14, lit.Value.Int)
}

func TestFoldDoublePromotionWins(t *testing.T) {
	mod := foldSource(t, "fn main(): double => return 1 + 2.5\n")
	lit, ok := singleReturnValue(t, mod).(*LiteralExpr)
	require.True(t, ok, "expected a folded double literal, got %#v", singleReturnValue(t, mod))
	require.Equal(t, DOUBLE, lit.LitKind)
	require.Equal(t, 3.5, lit.Value.Double)
}

func TestFoldDivisionByLiteralZeroIsNotFolded(t *testing.T) {
	mod := foldSource(t, "fn main(): long => return 4 / 0\n")
	_, ok := singleReturnValue(t, mod).(*LiteralExpr)
	require.False(t, ok, "division by a literal zero must not be folded at compile time")
}

func TestFoldComparisonProducesBoolLiteral(t *testing.T) {
	mod := foldSource(t, "fn main(): bool => return 3 < 5\n")
	lit, ok := singleReturnValue(t, mod).(*LiteralExpr)
	require.True(t, ok, "expected a folded true literal, got %#v", singleReturnValue(t, mod))
	require.Equal(t, KW_TRUE, lit.LitKind)
	require.True(t, lit.Value.Bool)
}

func TestFoldUnaryMinusPreservesIntKind(t *testing.T) {
	mod := foldSource(t, "fn main(): int => return -7\n")
	lit, ok := singleReturnValue(t, mod).(*LiteralExpr)
	require.True(t, ok, "expected a folded int literal -7, got %#v", singleReturnValue(t, mod))
	require.Equal(t, INT, lit.LitKind)
	require.EqualValues(t, -7, lit.Value.Int)
}

func TestFoldNestedExpressionFoldsBothOperands(t *testing.T) {
	mod := foldSource(t, "fn main(): long => return (2 + 3) * (10 - 4)\n")
	lit, ok := singleReturnValue(t, mod).(*LiteralExpr)
	require.True(t, ok, "expected 30 (long), got %#v", singleReturnValue(t, mod))
	require.Equal(t, LONG, lit.LitKind)
	require.EqualValues(t, 30, lit.Value.Int)
}

func TestFoldDoesNotTouchNonLiteralOperands(t *testing.T) {
	src := "fn main(): long =>\n" +
		"    var n: long = 5l\n" +
		"    return n + 1l\n"
	mod := foldSource(t, src)
	_, ok := singleReturnValue(t, mod).(*LiteralExpr)
	require.False(t, ok, "an expression with a non-literal operand must not be folded")
}
