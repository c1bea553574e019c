// Package lint defines the lint rule plug-in contract (spec §9, "Lint
// rule plug-in"). Concrete rules are an explicit non-goal; this package
// only provides the interface and a registry that walks components
// invoking each registered rule.
package lint

import (
	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/loc"
)

// Diagnostic is a single lint finding.
type Diagnostic struct {
	RuleName string
	Message  string
	Span     loc.Span
}

// Rule is the plug-in contract every lint rule implements (spec §9).
type Rule interface {
	Name() string
	Description() string
	CheckStyleDecl(decl ast.StyleDecl) []Diagnostic
	CheckStyleBlock(block ast.StyleBlock) []Diagnostic
}

// Registry holds the active set of rules and walks a document's
// components, invoking each rule against every style declaration and
// inline style block it finds (spec §9: "a registry holds rules and the
// linter walks components invoking each"; "no dynamic loading is
// required", so registration is a plain in-process append).
type Registry struct {
	rules []Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule to the registry.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Lint walks doc's style declarations and every element's inline style
// blocks, invoking each registered rule, and returns the combined
// diagnostics.
func (r *Registry) Lint(doc *ast.Document) []Diagnostic {
	var out []Diagnostic
	for _, decl := range doc.StyleDecls {
		for _, rule := range r.rules {
			out = append(out, rule.CheckStyleDecl(decl)...)
		}
	}
	for _, n := range doc.Arena.All() {
		if n.Kind != ast.KindTag {
			continue
		}
		for _, sb := range n.Styles {
			for _, rule := range r.rules {
				out = append(out, rule.CheckStyleBlock(sb)...)
			}
		}
	}
	return out
}
