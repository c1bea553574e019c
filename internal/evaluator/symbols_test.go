package evaluator

import (
	"testing"

	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/parser"
	"github.com/paperclip-run/paperclip-core/internal/testfixture"
)

// mapLoader resolves import paths from an in-memory fixture map, the
// same shape a real host would back with a workspace filesystem.
type mapLoader map[string]*ast.Document

func (m mapLoader) Load(path string) (*ast.Document, error) {
	return m[path], nil
}

func mustParse(t *testing.T, path, src string) *ast.Document {
	t.Helper()
	doc, errs := parser.Parse(path, testfixture.Source(src))
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors in %s: %v", path, errs)
	}
	return doc
}

func TestBuildSymbolTableDuplicateAliasRaisesErrorAndKeepsFirstImport(t *testing.T) {
	a := mustParse(t, "a.pc", `
		public token color: #FF0000
	`)
	b := mustParse(t, "b.pc", `
		public token color: #00FF00
	`)
	root := mustParse(t, "root.pc", `
		import "a.pc" as shared
		import "b.pc" as shared

		public component Button {
			render button {
				text "Click me"
			}
		}
	`)
	loader := mapLoader{"a.pc": a, "b.pc": b}

	st, errs := BuildSymbolTable(root, loader)

	var found bool
	for _, e := range errs {
		if e.Kind == DuplicateAlias {
			found = true
			if e.Name != "shared" {
				t.Fatalf("expected DuplicateAlias error for alias %q, got %q", "shared", e.Name)
			}
		}
	}
	if !found {
		t.Fatalf("expected a DuplicateAlias EvalError, got %v", errs)
	}

	tok, ok := st.LookupToken("shared.color")
	if !ok {
		t.Fatalf("expected shared.color to resolve to the first import")
	}
	if tok.Value != "#FF0000" {
		t.Fatalf("expected first import's token (#FF0000) to win, got %q", tok.Value)
	}
}

func TestBuildSymbolTableDistinctAliasesBothResolve(t *testing.T) {
	a := mustParse(t, "a.pc", `
		public token color: #FF0000
	`)
	b := mustParse(t, "b.pc", `
		public token color: #00FF00
	`)
	root := mustParse(t, "root.pc", `
		import "a.pc" as first
		import "b.pc" as second

		public component Button {
			render button {
				text "Click me"
			}
		}
	`)
	loader := mapLoader{"a.pc": a, "b.pc": b}

	st, errs := BuildSymbolTable(root, loader)
	for _, e := range errs {
		if e.Kind == DuplicateAlias {
			t.Fatalf("unexpected DuplicateAlias error for distinct aliases: %v", e)
		}
	}

	firstTok, ok := st.LookupToken("first.color")
	if !ok || firstTok.Value != "#FF0000" {
		t.Fatalf("expected first.color = #FF0000, got %q (ok=%v)", firstTok.Value, ok)
	}
	secondTok, ok := st.LookupToken("second.color")
	if !ok || secondTok.Value != "#00FF00" {
		t.Fatalf("expected second.color = #00FF00, got %q (ok=%v)", secondTok.Value, ok)
	}
}
