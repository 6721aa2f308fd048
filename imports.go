package ember

import (
	"fmt"
	"os"
	"path/filepath"
)

// ImportLoader abstracts where the bytes behind `import NAME` come from:
// a filesystem-backed loader for the CLI driver, an in-memory one for
// tests that don't want to touch a real directory. `import NAME` names
// a sibling source file `NAME.ember`, not an arbitrary relative path.
type ImportLoader interface {
	// Resolve returns the path GetContent should be called with for an
	// `import name` appearing in a module loaded from parentPath.
	Resolve(name, parentPath string) (string, error)
	GetContent(path string) ([]byte, error)
}

// RelativeImportLoader resolves NAME to "<dir of parentPath>/NAME.ember"
// and reads it from disk. This is what cmd/emberc wires up.
type RelativeImportLoader struct {
	// SearchPaths are consulted, in order, after the importing file's own
	// directory comes up empty — the CompilerOptions.ImportPaths the
	// driver's `-I` flag populates.
	SearchPaths []string
}

func NewRelativeImportLoader(searchPaths ...string) *RelativeImportLoader {
	return &RelativeImportLoader{SearchPaths: searchPaths}
}

func (l *RelativeImportLoader) Resolve(name, parentPath string) (string, error) {
	fname := name + ".ember"
	candidate := filepath.Join(filepath.Dir(parentPath), fname)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	for _, dir := range l.SearchPaths {
		candidate = filepath.Join(dir, fname)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return filepath.Join(filepath.Dir(parentPath), fname), nil
}

func (l *RelativeImportLoader) GetContent(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// InMemoryImportLoader serves a fixed table of path->content, letting
// tests exercise import merging without touching the filesystem.
type InMemoryImportLoader struct {
	files map[string][]byte
}

func NewInMemoryImportLoader() *InMemoryImportLoader {
	return &InMemoryImportLoader{files: map[string][]byte{}}
}

// Add registers the source for a module named name (as `import name`
// would reference it from any parent).
func (l *InMemoryImportLoader) Add(name string, content []byte) {
	l.files[name+".ember"] = content
}

func (l *InMemoryImportLoader) Resolve(name, parentPath string) (string, error) {
	fname := name + ".ember"
	if _, ok := l.files[fname]; ok {
		return fname, nil
	}
	return "", fmt.Errorf("import not found: %s", name)
}

func (l *InMemoryImportLoader) GetContent(path string) ([]byte, error) {
	b, ok := l.files[path]
	if !ok {
		return nil, fmt.Errorf("import not found: %s", path)
	}
	return b, nil
}

// resolvedImport caches one fully lexed/parsed/checked sibling module so
// a diamond or cyclic import graph is only compiled once.
type resolvedImport struct {
	syms *SymbolTable
	ok   bool
}

// ImportResolver merges `import NAME` targets into an importing module's
// global scope, idempotently: a module already resolved (by path) is
// never re-lexed/parsed/checked, so `A imports B imports A` terminates
// instead of recursing forever.
type ImportResolver struct {
	loader    ImportLoader
	arena     *Arena
	diags     *Diagnostics
	resolved  map[string]*resolvedImport
	resolving map[string]bool // cycle guard: paths currently being resolved
}

// NewImportResolver returns a resolver sharing arena and diags with the
// rest of the compilation so imported modules are arena-allocated and
// report diagnostics through the same sink as the importing module.
func NewImportResolver(loader ImportLoader, arena *Arena, diags *Diagnostics) *ImportResolver {
	return &ImportResolver{
		loader:    loader,
		arena:     arena,
		diags:     diags,
		resolved:  map[string]*resolvedImport{},
		resolving: map[string]bool{},
	}
}

// ResolveImports walks mod's top-level `import NAME` statements (and,
// transitively, theirs) and returns a SymbolTable whose global scope
// holds every imported module's top-level function and variable symbols,
// merged in import order. A circular import graph resolves each distinct
// path exactly once: the second time a cycle revisits an in-progress
// path, that path's (possibly still-empty) global scope is reused rather
// than recursing again.
func (r *ImportResolver) ResolveImports(mod *Module) *SymbolTable {
	merged := NewSymbolTable(r.arena)
	for _, s := range mod.Stmts {
		imp, ok := s.(*ImportStmt)
		if !ok {
			continue
		}
		syms := r.resolveOne(imp.Name, mod.File, imp.LocToken())
		if syms == nil {
			continue
		}
		mergeGlobals(merged, syms)
	}
	return merged
}

func (r *ImportResolver) resolveOne(name, parentPath string, at Token) *SymbolTable {
	path, err := r.loader.Resolve(name, parentPath)
	if err != nil {
		r.diags.Error(StageType, at, "cannot resolve import %q: %s", name, err)
		return nil
	}
	if cached, ok := r.resolved[path]; ok {
		return cached.syms
	}
	if r.resolving[path] {
		// Circular import: return the placeholder's table rather than
		// recursing. That table stays empty: placeholder.syms is later
		// replaced, not filled in.
		return r.resolved[path].syms
	}
	r.resolving[path] = true
	defer delete(r.resolving, path)

	content, err := r.loader.GetContent(path)
	if err != nil {
		r.diags.Error(StageType, at, "cannot read import %q: %s", name, err)
		return nil
	}

	p := NewParser(r.arena, content, path, r.diags)
	importMod := p.ParseModule()

	// Register a placeholder before recursing so a cycle back to this
	// path hits the r.resolved cache above and stops instead of looping;
	// the module closing the cycle sees the placeholder's empty table.
	placeholder := &resolvedImport{syms: NewSymbolTable(r.arena)}
	r.resolved[path] = placeholder

	transitive := r.ResolveImports(importMod)
	syms, _ := CheckModuleWithImports(importMod, r.arena, r.diags, transitive)

	placeholder.syms = syms
	placeholder.ok = true
	return syms
}

// mergeGlobals copies every symbol in src's global scope into dst's,
// idempotent because SymbolTable.AddGlobalSymbol silently replaces a
// same-named entry instead of erroring.
func mergeGlobals(dst, src *SymbolTable) {
	for _, sym := range src.Global().symbols {
		copied := dst.AddGlobalSymbol(sym.Name, sym.Type, sym.Kind, sym.Qual)
		copied.IsFunction = sym.IsFunction
		copied.FuncMod = sym.FuncMod
	}
}
