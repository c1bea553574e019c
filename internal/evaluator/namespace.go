package evaluator

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/idhash"
)

// Namespace computes an element's style namespace, `_{Component?}-
// {elementName?}-{nodeId}` with empty parts omitted (spec §4.3 step 3).
// elementName is the element's explicit `name` (sanitized to a safe
// identifier, since it comes from source text a user wrote) when set,
// falling back to the bare tag name otherwise.
func Namespace(componentName, tag, name string, nodeID ast.NodeID) string {
	elementName := tag
	if name != "" {
		elementName = strcase.ToKebab(name)
	}
	segs := make([]string, 0, 3)
	if componentName != "" {
		segs = append(segs, componentName)
	}
	if elementName != "" {
		segs = append(segs, elementName)
	}
	segs = append(segs, string(nodeID))
	return "_" + strings.Join(segs, "-")
}

// SemanticID assigns a VNode's stable cross-evaluation key by hashing
// the ancestor chain of (componentName, elementNameOrTag, siblingIndex)
// (spec §4.3 step 3). Using the chain rather than the bare node ID
// keeps the ID stable when a subtree is reparsed into fresh node IDs as
// long as its position and naming are unchanged.
func SemanticID(chain []string) string {
	return idhash.Semantic(chain...)
}
