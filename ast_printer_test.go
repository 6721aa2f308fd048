package ember

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func reparse(t *testing.T, src string) *Module {
	t.Helper()
	arena := NewArena()
	diags := NewDiagnostics()
	p := NewParser(arena, []byte(src), "roundtrip.em", diags)
	mod := p.ParseModule()
	require.False(t, diags.HasErrors(), "source failed to parse: %v\nsource:\n%s", diags.Strings(), src)
	return mod
}

func assertModulesEquivalent(t *testing.T, a, b *Module) {
	t.Helper()
	require.Equal(t, Print(a), Print(b), "re-printed ASTs differ")
}

func TestPrinterRoundTripFactorial(t *testing.T) {
	src := "fn fact(n: long): long =>\n" +
		"    if n <= 1 =>\n" +
		"        return 1l\n" +
		"    return n * fact(n - 1l)\n"
	mod := reparse(t, src)
	printed := Print(mod)
	mod2 := reparse(t, printed)
	assertModulesEquivalent(t, mod, mod2)
}

func TestPrinterRoundTripControlFlowAndCollections(t *testing.T) {
	src := "fn sumEvens(xs: int[]): int =>\n" +
		"    var total: int = 0\n" +
		"    for var x in xs =>\n" +
		"        if x % 2 == 0 =>\n" +
		"            total = total + x\n" +
		"        else =>\n" +
		"            continue\n" +
		"    return total\n"
	mod := reparse(t, src)
	printed := Print(mod)
	mod2 := reparse(t, printed)
	assertModulesEquivalent(t, mod, mod2)
}

func TestPrinterRoundTripElseIfChainAndInterpolation(t *testing.T) {
	src := "fn classify(n: int): str =>\n" +
		"    if n < 0 =>\n" +
		"        return \"negative\"\n" +
		"    else if n == 0 =>\n" +
		"        return \"zero\"\n" +
		"    else =>\n" +
		"        return $\"positive: {n}\"\n"
	mod := reparse(t, src)
	printed := Print(mod)
	mod2 := reparse(t, printed)
	assertModulesEquivalent(t, mod, mod2)
}

func TestPrinterRoundTripCStyleFor(t *testing.T) {
	src := "fn range10(): void =>\n" +
		"    for var i: int = 0; i < 10; i++ =>\n" +
		"        print(i)\n"
	mod := reparse(t, src)
	printed := Print(mod)
	mod2 := reparse(t, printed)
	assertModulesEquivalent(t, mod, mod2)
}
