package evaluator

import (
	"strings"

	"github.com/paperclip-run/paperclip-core/internal/ast"
)

// ModuleLoader is the external collaborator that resolves an Import's
// path to another parsed Document (spec §4.3 step 1). The evaluator
// never touches a filesystem directly; a host process supplies a
// ModuleLoader backed by disk, an in-memory workspace, or a test
// fixture map.
type ModuleLoader interface {
	Load(path string) (*ast.Document, error)
}

// SymbolTable is the per-document lookup structure built in the
// evaluator's first pass (spec §4.3 step 1). Names from imported
// documents are addressed as "alias.name" and resolved by delegating
// to that import's own SymbolTable.
type SymbolTable struct {
	Tokens     map[string]ast.TokenDecl
	Triggers   map[string]ast.Trigger
	StyleDecls map[string]ast.StyleDecl
	Components map[string]*ast.Component

	imports map[string]*SymbolTable // alias -> imported document's table
	doc     *ast.Document
}

// SymbolTableFor returns the symbol table that should resolve ref's own
// var()/trigger/component references: the local table for a bare name,
// or the imported document's table for "alias.name" (spec §4.3 step 1).
func (st *SymbolTable) SymbolTableFor(ref string) (*SymbolTable, bool) {
	alias, _ := splitRef(ref)
	if alias == "" {
		return st, true
	}
	imp, ok := st.imports[alias]
	return imp, ok
}

// ArenaFor returns the node arena that owns ref's elements: the local
// document's for a bare name, or the imported document's for
// "alias.name". Needed when cloning an Instance's render tree, since
// that tree's nodes live in the imported document's arena, not the
// instantiating document's.
func (st *SymbolTable) ArenaFor(ref string) (*ast.Arena, bool) {
	alias, _ := splitRef(ref)
	if alias == "" {
		return st.doc.Arena, true
	}
	imp, ok := st.imports[alias]
	if !ok || imp.doc == nil {
		return nil, false
	}
	return imp.doc.Arena, true
}

// BuildSymbolTable walks doc's top-level declarations and its imports,
// producing a SymbolTable plus any errors encountered resolving
// imports (CycleImport and DuplicateAlias EvalErrors; an import the
// loader fails to load is skipped without an error, and missing-name
// lookups are reported later, at the point of use, per spec §4.3's
// lossy model).
func BuildSymbolTable(doc *ast.Document, loader ModuleLoader) (*SymbolTable, []*EvalError) {
	return buildSymbolTable(doc, loader, map[string]bool{doc.Path: true})
}

func buildSymbolTable(doc *ast.Document, loader ModuleLoader, visiting map[string]bool) (*SymbolTable, []*EvalError) {
	st := &SymbolTable{
		Tokens:     make(map[string]ast.TokenDecl),
		Triggers:   make(map[string]ast.Trigger),
		StyleDecls: make(map[string]ast.StyleDecl),
		Components: make(map[string]*ast.Component),
		imports:    make(map[string]*SymbolTable),
		doc:        doc,
	}
	for _, t := range doc.Tokens {
		st.Tokens[t.Name] = t
	}
	for _, tr := range doc.Triggers {
		st.Triggers[tr.Name] = tr
	}
	for _, sd := range doc.StyleDecls {
		st.StyleDecls[sd.Name] = sd
	}
	for i := range doc.Components {
		st.Components[doc.Components[i].Name] = &doc.Components[i]
	}

	var errs []*EvalError
	if loader == nil {
		return st, errs
	}
	for _, imp := range doc.Imports {
		if visiting[imp.Path] {
			errs = append(errs, newEvalError(CycleImport, imp.Path, imp.Span))
			continue
		}
		imported, err := loader.Load(imp.Path)
		if err != nil || imported == nil {
			continue
		}
		nextVisiting := make(map[string]bool, len(visiting)+1)
		for k := range visiting {
			nextVisiting[k] = true
		}
		nextVisiting[imp.Path] = true
		importedTable, importErrs := buildSymbolTable(imported, loader, nextVisiting)
		errs = append(errs, importErrs...)
		alias := imp.Alias
		if alias == "" {
			alias = imp.Path
		}
		if _, taken := st.imports[alias]; taken {
			errs = append(errs, newEvalError(DuplicateAlias, alias, imp.Span))
			continue
		}
		st.imports[alias] = importedTable
	}
	return st, errs
}

// splitRef splits "alias.name" into (alias, name); a bare "name" with
// no dot yields an empty alias.
func splitRef(ref string) (alias, name string) {
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

func (st *SymbolTable) LookupToken(ref string) (ast.TokenDecl, bool) {
	alias, name := splitRef(ref)
	if alias == "" {
		t, ok := st.Tokens[name]
		return t, ok
	}
	imp, ok := st.imports[alias]
	if !ok {
		return ast.TokenDecl{}, false
	}
	t, ok := imp.Tokens[name]
	return t, ok && t.Public
}

func (st *SymbolTable) LookupTrigger(ref string) (ast.Trigger, bool) {
	alias, name := splitRef(ref)
	if alias == "" {
		t, ok := st.Triggers[name]
		return t, ok
	}
	imp, ok := st.imports[alias]
	if !ok {
		return ast.Trigger{}, false
	}
	t, ok := imp.Triggers[name]
	return t, ok && t.Public
}

func (st *SymbolTable) LookupStyleDecl(ref string) (ast.StyleDecl, bool) {
	alias, name := splitRef(ref)
	if alias == "" {
		s, ok := st.StyleDecls[name]
		return s, ok
	}
	imp, ok := st.imports[alias]
	if !ok {
		return ast.StyleDecl{}, false
	}
	s, ok := imp.StyleDecls[name]
	return s, ok && s.Public
}

func (st *SymbolTable) LookupComponent(ref string) (*ast.Component, bool) {
	alias, name := splitRef(ref)
	if alias == "" {
		c, ok := st.Components[name]
		return c, ok
	}
	imp, ok := st.imports[alias]
	if !ok {
		return nil, false
	}
	c, ok := imp.Components[name]
	if !ok || !c.Public {
		return nil, false
	}
	return c, true
}
