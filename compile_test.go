package ember

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCompileHelloWorldEndToEnd drives the whole pipeline through the
// public Compile entry point, the way cmd/emberc calls it.
func TestCompileHelloWorldEndToEnd(t *testing.T) {
	src := "fn main(): void => print(\"hello, ember\\n\")\n"
	result := Compile([]byte(src), "hello.ember", nil, DefaultOptions())
	require.False(t, result.Diagnostics.HasErrors(), "diagnostics: %v", result.Diagnostics.Strings())
	require.NoError(t, result.Err)
	require.Contains(t, result.C, "int main(void)")
	require.Contains(t, result.C, "rt_string_from_literal")
}

// TestCompileRejectsImportWithoutLoader covers Compile's documented
// nil-loader behavior: an `import` with no loader configured becomes an
// unresolved-reference diagnostic rather than a panic or a silent no-op.
func TestCompileRejectsImportWithoutLoader(t *testing.T) {
	src := "import mathutil\n" +
		"fn main(): void => print(1)\n"
	result := Compile([]byte(src), "main.ember", nil, DefaultOptions())
	require.True(t, result.Diagnostics.HasErrors())
	require.Empty(t, result.C)
}

// TestCompileWithImportLoaderSucceeds exercises the full pipeline with a
// real ImportLoader wired in, mirroring cmd/emberc's RelativeImportLoader
// but backed by an in-memory table so the test doesn't touch disk.
func TestCompileWithImportLoaderSucceeds(t *testing.T) {
	loader := NewInMemoryImportLoader()
	loader.Add("mathutil", []byte("fn square(n: int): int => return n * n\n"))

	src := "import mathutil\n" +
		"fn main(): void => print(square(3))\n"

	result := Compile([]byte(src), "main.ember", loader, DefaultOptions())
	require.False(t, result.Diagnostics.HasErrors(), "diagnostics: %v", result.Diagnostics.Strings())
	require.Contains(t, result.C, "int main(void)")
}

// TestCompileNoOptimizeSkipsFoldingAndTailCallMarking checks that
// Optimize == 0 (the driver's --no-optimize flag) leaves a self-tail-call
// as native recursion instead of rewriting it to a goto loop, and leaves
// a foldable constant expression unfolded.
func TestCompileNoOptimizeSkipsFoldingAndTailCallMarking(t *testing.T) {
	src := "fn sum(n: int, acc: int): int =>\n" +
		"    if n == 0 => return acc\n" +
		"    return sum(n - 1, acc + n)\n" +
		"fn main(): void => print(sum(2 + 8, 0))\n"

	opt := DefaultOptions()
	opt.Optimize = 0
	result := Compile([]byte(src), "main.ember", nil, opt)
	require.False(t, result.Diagnostics.HasErrors(), "diagnostics: %v", result.Diagnostics.Strings())
	require.NotContains(t, result.C, "ember_sum_start:;")
	require.Contains(t, result.C, "rt_add_long(2LL, 8LL)")
}

// TestCompileTypeErrorProducesNoOutput checks that a diagnostic-bearing
// stage stops the pipeline before codegen runs, so Result.C stays empty.
func TestCompileTypeErrorProducesNoOutput(t *testing.T) {
	src := "fn main(): void => print(1 + true)\n"
	result := Compile([]byte(src), "main.ember", nil, DefaultOptions())
	require.True(t, result.Diagnostics.HasErrors())
	require.Empty(t, result.C)
	require.IsType(t, &DiagnosedError{}, result.Err)
}

// TestCompileNativeArithmeticOptionPropagates checks CompilerOptions'
// NativeArithmetic flag actually reaches the generator through
// genOptions, end to end.
func TestCompileNativeArithmeticOptionPropagates(t *testing.T) {
	src := "fn add(a: long, b: long): long => return a + b\n" +
		"fn main(): void => print(add(1l, 2l))\n"

	opt := DefaultOptions()
	opt.NativeArithmetic = true
	result := Compile([]byte(src), "main.ember", nil, opt)
	require.False(t, result.Diagnostics.HasErrors(), "diagnostics: %v", result.Diagnostics.Strings())
	require.False(t, strings.Contains(result.C, "rt_add_long(a, b)"))
}
