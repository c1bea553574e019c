package vdomdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/paperclip-run/paperclip-core/internal/vdom"
)

// diffClasses treats Classes as a set (see diffClasses), so a
// round-trip comparison sorts them rather than requiring Apply to
// reproduce an arbitrary original ordering it was never told about.
var roundTripOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmpopts.SortSlices(func(a, b string) bool { return a < b }),
}

// assertRoundTrip is spec §8's differ property: applying diff(old, new)
// to old must reproduce new exactly.
func assertRoundTrip(t *testing.T, old, new *vdom.VDocument) {
	t.Helper()
	patches := Diff(old, new)
	got := Apply(old, patches)
	if diff := cmp.Diff(new, got, roundTripOpts...); diff != "" {
		t.Fatalf("apply(diff(old, new), old) != new:\n%s", diff)
	}
}

func TestApplyRoundTripTextChange(t *testing.T) {
	old := &vdom.VDocument{Nodes: []*vdom.VNode{elem("a", "div", "hello")}}
	new := &vdom.VDocument{Nodes: []*vdom.VNode{elem("a", "div", "goodbye")}}
	assertRoundTrip(t, old, new)
}

func TestApplyRoundTripAttributeChange(t *testing.T) {
	oldNode := vdom.NewElement("div")
	oldNode.SemanticID = "a"
	oldNode.Attributes["id"] = "one"
	newNode := vdom.NewElement("div")
	newNode.SemanticID = "a"
	newNode.Attributes["id"] = "two"

	assertRoundTrip(t,
		&vdom.VDocument{Nodes: []*vdom.VNode{oldNode}},
		&vdom.VDocument{Nodes: []*vdom.VNode{newNode}},
	)
}

func TestApplyRoundTripClassChange(t *testing.T) {
	oldNode := vdom.NewElement("div")
	oldNode.SemanticID = "a"
	oldNode.Classes = []string{"one", "shared"}
	newNode := vdom.NewElement("div")
	newNode.SemanticID = "a"
	newNode.Classes = []string{"shared", "two"}

	assertRoundTrip(t,
		&vdom.VDocument{Nodes: []*vdom.VNode{oldNode}},
		&vdom.VDocument{Nodes: []*vdom.VNode{newNode}},
	)
}

func TestApplyRoundTripMismatchedIdentityReplace(t *testing.T) {
	// See TestDiffMismatchedIdentityEmitsReplace: a shared positional key
	// with differing Kind is what actually exercises the Replace patch.
	old := &vdom.VDocument{Nodes: []*vdom.VNode{{Kind: vdom.KindText, Content: "x"}}}
	new := &vdom.VDocument{Nodes: []*vdom.VNode{vdom.NewElement("span")}}
	assertRoundTrip(t, old, new)
}

func TestApplyRoundTripInsertAndRemoveAtEdges(t *testing.T) {
	old := &vdom.VDocument{Nodes: []*vdom.VNode{elem("a", "li", "A")}}
	new := &vdom.VDocument{Nodes: []*vdom.VNode{elem("a", "li", "A"), elem("b", "li", "B")}}
	assertRoundTrip(t, old, new)
	assertRoundTrip(t, new, old)
}

func TestApplyRoundTripReorderingKeyedSiblings(t *testing.T) {
	old := &vdom.VDocument{Nodes: []*vdom.VNode{
		elem("a", "li", "A"),
		elem("b", "li", "B"),
		elem("c", "li", "C"),
	}}
	new := &vdom.VDocument{Nodes: []*vdom.VNode{
		elem("c", "li", "C"),
		elem("a", "li", "A"),
		elem("b", "li", "B"),
	}}
	assertRoundTrip(t, old, new)
}

func TestApplyRoundTripNestedChildrenChange(t *testing.T) {
	oldChild := elem("inner", "span", "one")
	oldRoot := vdom.NewElement("div")
	oldRoot.SemanticID = "outer"
	oldRoot.Children = []*vdom.VNode{oldChild}

	newChild := elem("inner", "span", "two")
	newGrandchild := elem("new-child", "b", "three")
	newRoot := vdom.NewElement("div")
	newRoot.SemanticID = "outer"
	newRoot.Children = []*vdom.VNode{newChild, newGrandchild}

	assertRoundTrip(t,
		&vdom.VDocument{Nodes: []*vdom.VNode{oldRoot}},
		&vdom.VDocument{Nodes: []*vdom.VNode{newRoot}},
	)
}

func TestApplyRoundTripIdenticalDocumentsAreNoOp(t *testing.T) {
	doc := &vdom.VDocument{Nodes: []*vdom.VNode{elem("a", "div", "hello")}}
	assertRoundTrip(t, doc, doc)
}

func TestApplyPreservesStylesUnchangedByDiff(t *testing.T) {
	styles := []vdom.CssRule{{Selector: ".a", Properties: map[string]string{"color": "red"}}}
	old := &vdom.VDocument{Nodes: []*vdom.VNode{elem("a", "div", "hello")}, Styles: styles}
	new := &vdom.VDocument{Nodes: []*vdom.VNode{elem("a", "div", "goodbye")}, Styles: styles}

	patches := Diff(old, new)
	got := Apply(old, patches)
	if len(got.Styles) != 1 || got.Styles[0].Properties["color"] != "red" {
		t.Fatalf("expected Apply to carry the document's CSS rules through unchanged, got %+v", got.Styles)
	}
}
