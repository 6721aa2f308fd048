package ember

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// compileToC runs the lex/parse/check/fold/generate pipeline directly
// (bypassing Compile's import handling, which the import-resolver tests
// cover separately) and returns the emitted C, failing the test on any
// diagnostic or codegen error.
func compileToC(t *testing.T, src string, opt GenOptions) string {
	t.Helper()
	arena := NewArena()
	diags := NewDiagnostics()
	p := NewParser(arena, []byte(src), "test.em", diags)
	mod := p.ParseModule()
	require.False(t, diags.HasErrors(), "parse errors: %v", diags.Strings())

	_, ok := CheckModule(mod, arena, diags)
	require.True(t, ok, "type errors: %v", diags.Strings())

	FoldModule(mod)
	MarkTailCalls(mod)

	out, err := Generate(mod, diags, opt)
	require.NoError(t, err)
	require.False(t, diags.HasErrors(), "codegen diagnostics: %v", diags.Strings())
	return out
}

// TestGenHelloWorld covers §8 scenario 1.
func TestGenHelloWorld(t *testing.T) {
	src := `fn main(): void => print("hello\n")` + "\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "int main(void)")
	require.Contains(t, out, "ember_main(arena)")
	require.Contains(t, out, `rt_string_from_literal`)
}

// TestGenFactorial covers §8 scenario 2: recursive call, comparison,
// multiplication, and the single-exit return form.
func TestGenFactorial(t *testing.T) {
	src := "fn factorial(n: int): int =>\n" +
		"    if n <= 1 => return 1\n" +
		"    return n * factorial(n - 1)\n" +
		"fn main(): void => print(factorial(5))\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "ember_factorial")
	require.Contains(t, out, "goto ember_factorial_return")
	require.Contains(t, out, "ember_factorial_return:")
	require.Contains(t, out, "rt_mul_long")
	require.Contains(t, out, "rt_lte_long")
}

// TestGenArrayMethods covers §8 scenario 3: array literal construction,
// `.push`, and `.length`.
func TestGenArrayMethods(t *testing.T) {
	src := "fn main(): void =>\n" +
		"    var arr: int[] = {1, 2, 3}\n" +
		"    arr.push(4)\n" +
		"    print(arr.length)\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "rt_array_new")
	require.Contains(t, out, "rt_array_push")
	require.Contains(t, out, "rt_array_length")
}

// TestGenStringInterpolation covers §8 scenario 4.
func TestGenStringInterpolation(t *testing.T) {
	src := "fn main(): void =>\n" +
		"    var x: int = 7\n" +
		"    print($\"n={x}\\n\")\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "rt_string_concat")
	require.Contains(t, out, "rt_string_to_string_long")
}

// TestGenPrintStringifiesNonStringArguments covers the print builtin
// (§8 scenarios 1-4 all call it): a non-string argument must be run
// through the same rt_string_to_string_<kind> conversion the interpolated
// string lowering uses before it reaches rt_print, which only accepts a
// RtString*.
func TestGenPrintStringifiesNonStringArguments(t *testing.T) {
	src := "fn main(): void => print(1 + 2)\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "rt_print(rt_string_to_string_long(arena,")
}

// TestGenPrintPassesStringArgumentDirectly checks the print builtin skips
// the conversion call when the argument is already a string.
func TestGenPrintPassesStringArgumentDirectly(t *testing.T) {
	src := `fn main(): void => print("hi")` + "\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "rt_print(rt_string_from_literal(")
	require.NotContains(t, out, "rt_print(rt_string_to_string")
}

// TestGenArraySlice covers array slicing (§3 "array slice", §4.6 "result
// matches base"), distinct from the string-slice path beside it.
func TestGenArraySlice(t *testing.T) {
	src := "fn main(): void =>\n" +
		"    var arr: int[] = {1, 2, 3, 4}\n" +
		"    var s: int[] = arr[1:3]\n" +
		"    print(s.length)\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "rt_array_slice(arena,")
}

// TestGenArrayLiteralSpread covers spread inside an array literal (§3
// "spread"): each spread element's array is folded into the literal via
// rt_array_concat alongside the ordinary rt_array_push calls.
func TestGenArrayLiteralSpread(t *testing.T) {
	src := "fn main(): void =>\n" +
		"    var a: int[] = {1, 2}\n" +
		"    var b: int[] = {0, ...a, 3}\n" +
		"    print(b.length)\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "rt_array_concat(arena,")
	require.Contains(t, out, "rt_array_push(arena,")
}

// TestGenNativeArithmeticFlagSwitchesOperators exercises the GenOptions
// mode flag from §4.6: with it set, arithmetic lowers to bare C operators
// instead of the default rt_<op>_<type> calls, while division still goes
// through the runtime for the zero-check.
func TestGenNativeArithmeticFlagSwitchesOperators(t *testing.T) {
	src := "fn add(a: long, b: long): long => return a + b\n" +
		"fn main(): void => print(add(1l, 2l))\n"

	defaultOut := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, defaultOut, "rt_add_long(a, b)")

	nativeOut := compileToC(t, src, GenOptions{EmitMain: true, NativeArithmetic: true})
	require.NotContains(t, nativeOut, "rt_add_long(a, b)")
	require.True(t, strings.Contains(nativeOut, "(a + b)") || strings.Contains(nativeOut, "+"))
}

// TestGenPrivateFunctionOpensAndClosesArena checks the arena discipline
// (§4.6): a private region that allocates (here, an array literal) opens
// and destroys its own RtArena distinct from the caller's.
func TestGenPrivateFunctionOpensAndClosesArena(t *testing.T) {
	src := "private fn make(): int =>\n" +
		"    var xs: int[] = {1, 2, 3}\n" +
		"    return xs.length\n" +
		"fn main(): void => print(make())\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "RtArena *__arena_1__ = rt_arena_create();")
	require.Contains(t, out, "rt_arena_destroy(__arena_1__);")
}

// TestGenTailSelfCallBecomesGoto exercises the tail-call marker (glossary
// "Unified return" neighbor, §4.6's Non-goal-permitted TCO rewrite): a
// self-call in tail position behind an if/else should compile to a
// parameter reassignment plus a jump back to the function's own entry
// label, not a nested native call.
func TestGenTailSelfCallBecomesGoto(t *testing.T) {
	src := "fn sum(n: int, acc: int): int =>\n" +
		"    if n == 0 =>\n" +
		"        return acc\n" +
		"    else =>\n" +
		"        return sum(n - 1, acc + n)\n" +
		"fn main(): void => print(sum(10, 0))\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.Contains(t, out, "ember_sum_start:;")
	require.Contains(t, out, "goto ember_sum_start;")
	require.NotContains(t, out, "ember_sum(arena, rt_sub_long(n, 1LL)")
}

// TestGenNonTailSelfCallStaysRecursive checks the marker does not fire
// when the self-call is not in tail position (its result still feeds an
// enclosing expression), so factorial keeps recursing natively — this is
// also covered indirectly by TestGenFactorial but asserted explicitly
// here against the _start label.
func TestGenNonTailSelfCallStaysRecursive(t *testing.T) {
	src := "fn factorial(n: int): int =>\n" +
		"    if n <= 1 => return 1\n" +
		"    return n * factorial(n - 1)\n" +
		"fn main(): void => print(factorial(5))\n"
	out := compileToC(t, src, GenOptions{EmitMain: true})
	require.NotContains(t, out, "ember_factorial_start:;")
	require.Contains(t, out, "ember_factorial(arena, rt_sub_long(n, 1LL))")
}
