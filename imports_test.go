package ember

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// checkWithImports runs lex/parse/resolve-imports/check for src against
// loader and returns the resulting symbol table and whether checking
// found zero errors.
func checkWithImports(t *testing.T, src string, file string, loader ImportLoader) (*SymbolTable, bool) {
	t.Helper()
	arena := NewArena()
	diags := NewDiagnostics()
	p := NewParser(arena, []byte(src), file, diags)
	mod := p.ParseModule()
	require.False(t, diags.HasErrors(), "parse errors: %v", diags.Strings())

	imported := NewImportResolver(loader, arena, diags).ResolveImports(mod)
	require.False(t, diags.HasErrors(), "import errors: %v", diags.Strings())

	return CheckModuleWithImports(mod, arena, diags, imported)
}

// TestImportMergesSiblingGlobals covers §4.8: a module that imports
// another sees that module's top-level functions in its own global
// scope, well enough to type-check a call against one.
func TestImportMergesSiblingGlobals(t *testing.T) {
	loader := NewInMemoryImportLoader()
	loader.Add("mathutil", []byte("fn square(n: int): int => return n * n\n"))

	src := "import mathutil\n" +
		"fn main(): void => print(square(4))\n"

	_, ok := checkWithImports(t, src, "main.ember", loader)
	require.True(t, ok)
}

// TestImportUnresolvedNameIsDiagnosed checks that an import naming a
// module the loader cannot find surfaces as a diagnostic rather than a
// panic, and that the importing module still gets type-checked (so a
// single bad import doesn't cascade into spurious unrelated errors).
func TestImportUnresolvedNameIsDiagnosed(t *testing.T) {
	loader := NewInMemoryImportLoader()
	src := "import doesnotexist\n" +
		"fn main(): void => print(1)\n"

	arena := NewArena()
	diags := NewDiagnostics()
	p := NewParser(arena, []byte(src), "main.ember", diags)
	mod := p.ParseModule()
	require.False(t, diags.HasErrors())

	NewImportResolver(loader, arena, diags).ResolveImports(mod)
	require.True(t, diags.HasErrors())
}

// TestImportCircularGraphTerminates covers the cycle guard: A imports B
// and B imports A back. Resolution must terminate and still let A see
// B's (and B see A's) top-level symbols for everything not involved in
// the cycle's own unresolved tail.
func TestImportCircularGraphTerminates(t *testing.T) {
	loader := NewInMemoryImportLoader()
	loader.Add("a", []byte("import b\nfn fromA(): int => return 1\n"))
	loader.Add("b", []byte("import a\nfn fromB(): int => return 2\n"))

	src := "import a\n" +
		"import b\n" +
		"fn main(): void =>\n" +
		"    print(fromA())\n" +
		"    print(fromB())\n"

	_, ok := checkWithImports(t, src, "main.ember", loader)
	require.True(t, ok)
}

// TestRelativeImportLoaderResolvesSiblingPath covers the loader with no
// search paths configured: an import resolves to the `.ember` file next
// to the importing module.
func TestRelativeImportLoaderResolvesSiblingPath(t *testing.T) {
	loader := NewRelativeImportLoader()
	path, err := loader.Resolve("foo", "/some/dir/main.ember")
	require.NoError(t, err)
	require.Equal(t, "/some/dir/foo.ember", path)
}
