package parser

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/paperclip-run/paperclip-core/internal/ast"
)

// Doc-comment annotations (spec §6) are free-text inside `/** ... */`
// blocks, not part of the grammar proper, so they're pulled out with
// lookaround-capable regexes rather than threaded through the
// tokenizer. regexp2 is used instead of the standard library's RE2
// engine because the height group is optional and trails a
// variable-length width capture — easiest expressed with a named,
// non-capturing alternation that RE2 cannot backtrack into cleanly.
var (
	frameAnnotationRe = regexp2.MustCompile(
		`@frame\(\s*x:\s*(?<x>-?\d+(?:\.\d+)?)\s*,\s*y:\s*(?<y>-?\d+(?:\.\d+)?)\s*,\s*width:\s*(?<w>-?\d+(?:\.\d+)?)\s*(?:,\s*height:\s*(?<h>-?\d+(?:\.\d+)?))?\s*\)`,
		regexp2.None)
	viewAnnotationRe = regexp2.MustCompile(
		`@view\s+(?<name>[A-Za-z0-9_-]+)(?:\s*-\s*(?<desc>[^\n\r]+))?`,
		regexp2.None)
	viewportAnnotationRe = regexp2.MustCompile(
		`@viewport\s+(?<vp>desktop|tablet|mobile)`,
		regexp2.None)
)

func groupText(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// parseFrameAnnotation extracts a `@frame(x:, y:, width:, height?:)`
// directive from a doc comment (spec §6). height is optional; when
// absent the frame grows to fit rendered content.
func parseFrameAnnotation(docComment string) *ast.FrameAnnotation {
	m, err := frameAnnotationRe.FindStringMatch(docComment)
	if err != nil || m == nil {
		return nil
	}
	x, _ := strconv.ParseFloat(groupText(m, "x"), 64)
	y, _ := strconv.ParseFloat(groupText(m, "y"), 64)
	w, _ := strconv.ParseFloat(groupText(m, "w"), 64)
	fa := &ast.FrameAnnotation{X: x, Y: y, Width: w}
	if h := groupText(m, "h"); h != "" {
		hv, _ := strconv.ParseFloat(h, 64)
		fa.Height = &hv
	}
	return fa
}

// parseViewAnnotation extracts a `@view Name [- description]` directive.
func parseViewAnnotation(docComment string) *ast.ViewAnnotation {
	m, err := viewAnnotationRe.FindStringMatch(docComment)
	if err != nil || m == nil {
		return nil
	}
	return &ast.ViewAnnotation{
		Name:        groupText(m, "name"),
		Description: strings.TrimSpace(groupText(m, "desc")),
	}
}

// parseViewportAnnotation extracts a `@viewport desktop|tablet|mobile`
// directive.
func parseViewportAnnotation(docComment string) ast.Viewport {
	m, err := viewportAnnotationRe.FindStringMatch(docComment)
	if err != nil || m == nil {
		return ""
	}
	return ast.Viewport(groupText(m, "vp"))
}
