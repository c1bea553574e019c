package evaluator

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/paperclip-run/paperclip-core/internal/parser"
	"github.com/paperclip-run/paperclip-core/internal/testfixture"
	"github.com/paperclip-run/paperclip-core/internal/vdom"
)

// renderTree writes a deterministic, indented text rendering of a
// VDocument's node tree plus its generated CSS rules, suitable for
// golden-file comparison (class/semantic IDs are stable across
// re-evaluations of the same source, per TestEvaluateDeterministic).
func renderTree(doc *vdom.VDocument) string {
	var b strings.Builder
	var walk func(n *vdom.VNode, depth int)
	walk = func(n *vdom.VNode, depth int) {
		indent := strings.Repeat("  ", depth)
		switch n.Kind {
		case vdom.KindText:
			fmt.Fprintf(&b, "%sText %q\n", indent, n.Content)
		case vdom.KindComment:
			fmt.Fprintf(&b, "%sComment %q\n", indent, n.Content)
		default:
			classes := append([]string(nil), n.Classes...)
			sort.Strings(classes)
			fmt.Fprintf(&b, "%s<%s class=%v>\n", indent, n.Tag, classes)
			for _, c := range n.Children {
				walk(c, depth+1)
			}
		}
	}
	for _, root := range doc.Nodes {
		walk(root, 0)
	}

	rules := append([]vdom.CssRule(nil), doc.Styles...)
	sort.Slice(rules, func(i, j int) bool { return rules[i].Selector < rules[j].Selector })
	for _, rule := range rules {
		keys := make([]string, 0, len(rule.Properties))
		for k := range rule.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(&b, "%s {\n", rule.Selector)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", k, rule.Properties[k])
		}
		b.WriteString("}\n")
	}
	return b.String()
}

func TestEvaluateButtonSnapshot(t *testing.T) {
	src := testfixture.Source(`
		public component Button {
			render button {
				style {
					padding: 8px 16px
					background: #3366FF
				}
				text "Click me"
			}
		}
	`)
	doc, errs := parser.Parse("button.pc", src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	result := Evaluate(doc, nil)
	testfixture.MakeSnapshot(&testfixture.SnapshotOptions{
		Testing:      t,
		TestCaseName: t.Name(),
		Input:        src,
		Output:       renderTree(result.Document),
		Kind:         testfixture.VDOMOutput,
	})
}

// TestEvaluateMatchesExpectedStructure compares a full evaluated
// VDocument against a hand-built expectation with cmp, so a future
// regression in render.go's tree-shape wiring (not just the class
// regex checked elsewhere) shows a structural diff rather than a
// single failed assertion. Hash-derived fields (class, semantic/source
// ID) are already covered by TestEvaluateSingleButton and
// TestEvaluateDeterministic, so they're ignored here rather than
// duplicated or faked.
func TestEvaluateMatchesExpectedStructure(t *testing.T) {
	src := testfixture.Source(`
		public component Greeting {
			render span {
				text "hi"
			}
		}
	`)
	doc, errs := parser.Parse("greeting.pc", src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	result := Evaluate(doc, nil)
	if len(result.Document.Nodes) != 1 {
		t.Fatalf("expected one root, got %d", len(result.Document.Nodes))
	}
	got := result.Document.Nodes[0]

	want := &vdom.VNode{
		Kind: vdom.KindElement,
		Tag:  "span",
		Children: []*vdom.VNode{
			{Kind: vdom.KindText, Content: "hi"},
		},
	}

	ignore := cmpopts.IgnoreFields(vdom.VNode{}, "Attributes", "Classes", "Styles", "SemanticID", "SourceID")
	if diff := cmp.Diff(want, got, ignore); diff != "" {
		t.Fatalf("evaluated span did not match expected structure:\n%s", testfixture.ANSIDiff(want, got, ignore))
	}
}
