package ember

// Result is what a single Compile call produces: either a complete C
// translation unit, or a non-empty Diagnostics sink and no output — a
// single run can surface many diagnostics but never emits an output
// file once any error has been recorded.
type Result struct {
	C           string
	Diagnostics *Diagnostics
	// Err distinguishes why C is empty: a *DiagnosedError when a stage's
	// own diagnostics stopped the pipeline (exit code 1 via ExitCode), or
	// an InternalError when code generation hit a CodegenError (an
	// unsupported AST shape that should not occur after a clean type
	// check; exit code 3). Nil alongside non-empty C is success.
	Err error
}

// Compile runs the full pipeline over a single source file: lex, parse,
// resolve imports, type-check (with escape analysis), constant-fold,
// and generate C. Stages are strictly sequenced and each consults the
// shared Diagnostics sink before running the next; a stage that finds
// the sink already carrying an error does not run.
//
// loader is used to resolve any `import NAME` statements mod's source
// contains; pass nil to reject imports outright (every import becomes an
// unresolved-reference diagnostic).
func Compile(source []byte, filename string, loader ImportLoader, opt CompilerOptions) Result {
	arena := NewArena()
	diags := NewDiagnostics()

	p := NewParser(arena, source, filename, diags)
	mod := p.ParseModule()
	if diags.HasErrors() {
		return diagnosedResult(diags)
	}

	var imported *SymbolTable
	if loader != nil {
		imported = NewImportResolver(loader, arena, diags).ResolveImports(mod)
	} else {
		for _, s := range mod.Stmts {
			if imp, ok := s.(*ImportStmt); ok {
				diags.Error(StageType, imp.LocToken(), "import resolution not configured for %q", imp.Name)
			}
		}
	}
	if diags.HasErrors() {
		return diagnosedResult(diags)
	}

	if _, ok := CheckModuleWithImports(mod, arena, diags, imported); !ok {
		return diagnosedResult(diags)
	}

	if opt.Optimize > 0 {
		FoldModule(mod)
		MarkTailCalls(mod)
	}

	c, err := Generate(mod, diags, opt.genOptions())
	if err != nil {
		return Result{Diagnostics: diags, Err: err}
	}
	if diags.HasErrors() {
		return diagnosedResult(diags)
	}
	return Result{C: c, Diagnostics: diags}
}

// diagnosedResult builds the Result a stage returns when it finds the
// shared sink already carrying an error: no C output, and Err set to a
// DiagnosedError so ExitCode(result.Err) maps it to exit code 1 without
// the driver having to special-case "no Err but has diagnostics".
func diagnosedResult(diags *Diagnostics) Result {
	return Result{Diagnostics: diags, Err: &DiagnosedError{Count: len(diags.All())}}
}
