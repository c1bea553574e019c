package wire

import (
	"testing"

	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/mutation"
	"github.com/paperclip-run/paperclip-core/internal/vdom"
	"github.com/paperclip-run/paperclip-core/internal/vdomdiff"
)

func TestFromVDocumentRoundTripsThroughJSON(t *testing.T) {
	root := vdom.NewElement("button")
	root.Classes = []string{"_Button-button-abc-0"}
	root.Children = []*vdom.VNode{{Kind: vdom.KindText, Content: "Click me"}}
	doc := &vdom.VDocument{
		Nodes:  []*vdom.VNode{root},
		Styles: []vdom.CssRule{{Selector: "._Button-button-abc-0", Properties: map[string]string{"padding": "8px"}}},
	}

	module := FromVDocument(doc)
	data, err := Marshal(module)
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}

	var decoded EvaluatedModule
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error unmarshaling: %v", err)
	}
	if len(decoded.Roots) != 1 || decoded.Roots[0].Tag != "button" {
		t.Fatalf("expected one button root, got %+v", decoded.Roots)
	}
	if len(decoded.Roots[0].Children) != 1 || decoded.Roots[0].Children[0].Content != "Click me" {
		t.Fatalf("expected a Click me text child, got %+v", decoded.Roots[0].Children)
	}
	if len(decoded.Styles) != 1 || decoded.Styles[0].Properties["padding"] != "8px" {
		t.Fatalf("expected one css rule with padding 8px, got %+v", decoded.Styles)
	}
}

func TestFromMutationRoundTrip(t *testing.T) {
	val := "B"
	m := mutation.Mutation{Kind: mutation.UpdateText, NodeID: ast.NodeID("doc1-1"), Value: &val}
	wm := FromMutation(m)

	data, err := Marshal(wm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded Mutation
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Kind != "UpdateText" || decoded.NodeID != "doc1-1" || decoded.Value == nil || *decoded.Value != "B" {
		t.Fatalf("expected mutation to round-trip, got %+v", decoded)
	}
}

func TestFromPatchesRoundTrip(t *testing.T) {
	patches := []vdomdiff.Patch{
		{Kind: vdomdiff.UpdateText, Path: []int{0, 1}, Text: "new"},
		{Kind: vdomdiff.UpdateAttributes, Path: []int{0}, AttributeChanges: []vdomdiff.AttrChange{{Key: "id", Value: "x"}}},
	}
	wirePatches := FromPatches(patches)
	data, err := Marshal(wirePatches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded []Patch
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Kind != "UpdateText" || decoded[0].Text != "new" {
		t.Fatalf("expected first patch to round-trip as UpdateText \"new\", got %+v", decoded)
	}
	if decoded[1].Kind != "UpdateAttributes" || len(decoded[1].AttributeChanges) != 1 || decoded[1].AttributeChanges[0].Key != "id" {
		t.Fatalf("expected second patch to round-trip its attribute change, got %+v", decoded)
	}
}
