// Package evaluator implements the multi-pass AST-to-VDOM transform
// (spec §4.3): symbol resolution, public-component enumeration,
// recursive rendering with namespace/class generation and
// variant/trigger expansion, token resolution, and frame annotation.
package evaluator

import (
	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/loc"
	"github.com/paperclip-run/paperclip-core/internal/vdom"
)

// Result is the output of Evaluate: a (possibly partial) VDocument
// plus every EvalError accumulated along the way (spec §4.3's
// "Failure model" — evaluation is lossy-best-effort, never aborts).
type Result struct {
	Document *vdom.VDocument
	Errors   []*EvalError
}

// evalCtx carries the state shared across an entire Evaluate call: the
// accumulating result. The symbol table is passed to renderComponent
// and then travels in renderCtx (in render.go), which carries the state
// that varies as rendering descends into nested components and slots.
type evalCtx struct {
	result *Result
}

// Evaluate transforms doc into a VDocument (spec §4.3). loader may be
// nil for documents with no imports; a nil loader asked to resolve an
// import simply fails that import's symbols, which surface as
// UnknownComponent/UnknownToken errors at first use.
func Evaluate(doc *ast.Document, loader ModuleLoader) *Result {
	symbols, importErrs := BuildSymbolTable(doc, loader)
	result := &Result{
		Document: &vdom.VDocument{},
		Errors:   importErrs,
	}
	e := &evalCtx{result: result}

	for _, c := range doc.PublicComponents() {
		vn := e.renderComponent(c, symbols)
		if vn != nil {
			result.Document.Nodes = append(result.Document.Nodes, vn)
		}
	}
	return result
}

func (e *evalCtx) report(kind EvalErrorKind, name string, span loc.Span) {
	e.result.Errors = append(e.result.Errors, newEvalError(kind, name, span))
}
