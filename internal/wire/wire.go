// Package wire defines the JSON-codeable forms of the core pipeline
// types that cross the RPC boundary (spec §6: "Mutation, VNode, CssRule,
// Patch, and EvaluatedModule round-trip through the wire format").
// Encoding uses github.com/go-json-experiment/json, already present in
// the teacher's go.mod, rather than stdlib encoding/json.
package wire

import (
	"github.com/go-json-experiment/json"

	"github.com/paperclip-run/paperclip-core/internal/mutation"
	"github.com/paperclip-run/paperclip-core/internal/vdom"
	"github.com/paperclip-run/paperclip-core/internal/vdomdiff"
)

// VNode is the wire form of vdom.VNode.
type VNode struct {
	Kind       string            `json:"kind"`
	Tag        string            `json:"tag,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Classes    []string          `json:"classes,omitempty"`
	Styles     map[string]string `json:"styles,omitempty"`
	Children   []VNode           `json:"children,omitempty"`
	SemanticID string            `json:"semantic_id,omitempty"`
	SourceID   string            `json:"source_id,omitempty"`
	Content    string            `json:"content,omitempty"`
}

// CssRule is the wire form of vdom.CssRule.
type CssRule struct {
	Selector   string            `json:"selector"`
	Properties map[string]string `json:"properties"`
	MediaQuery string            `json:"media_query,omitempty"`
}

// EvaluatedModule is the wire form of one file's full evaluation
// result: every public component's root VNode plus the accumulated
// stylesheet (spec §6, "OpenFile(path) → {source, evaluated?}").
type EvaluatedModule struct {
	Roots  []VNode   `json:"roots"`
	Styles []CssRule `json:"styles"`
}

// FromVDocument converts an evaluator result into its wire form.
func FromVDocument(doc *vdom.VDocument) EvaluatedModule {
	if doc == nil {
		return EvaluatedModule{}
	}
	em := EvaluatedModule{}
	for _, n := range doc.Nodes {
		em.Roots = append(em.Roots, fromVNode(n))
	}
	for _, r := range doc.Styles {
		em.Styles = append(em.Styles, CssRule{Selector: r.Selector, Properties: r.Properties, MediaQuery: r.MediaQuery})
	}
	return em
}

func fromVNode(n *vdom.VNode) VNode {
	if n == nil {
		return VNode{}
	}
	wn := VNode{
		Kind:       n.Kind.String(),
		Tag:        n.Tag,
		Attributes: n.Attributes,
		Classes:    n.Classes,
		Styles:     n.Styles,
		SemanticID: n.SemanticID,
		SourceID:   n.SourceID,
		Content:    n.Content,
	}
	for _, c := range n.Children {
		wn.Children = append(wn.Children, fromVNode(c))
	}
	return wn
}

// Mutation is the wire form of mutation.Mutation. Fields unused by a
// given Kind are simply omitted by the encoder.
type Mutation struct {
	Kind        string  `json:"kind"`
	ParentID    string  `json:"parent_id,omitempty"`
	Index       int     `json:"index,omitempty"`
	Node        *VNode  `json:"node,omitempty"`
	NodeID      string  `json:"node_id,omitempty"`
	NewParentID string  `json:"new_parent_id,omitempty"`
	NewIndex    int     `json:"new_index,omitempty"`
	Key         string  `json:"key,omitempty"`
	Value       *string `json:"value,omitempty"`
	ElementID   string  `json:"element_id,omitempty"`
	Property    string  `json:"property,omitempty"`
}

// Patch is the wire form of vdomdiff.Patch.
type Patch struct {
	Kind             string       `json:"kind"`
	Path             []int        `json:"path"`
	Node             *VNode       `json:"node,omitempty"`
	AttributeChanges []AttrChange `json:"attribute_changes,omitempty"`
	StyleChanges     []AttrChange `json:"style_changes,omitempty"`
	Text             string       `json:"text,omitempty"`
	AddClasses       []string     `json:"add_classes,omitempty"`
	RemoveClasses    []string     `json:"remove_classes,omitempty"`
}

// AttrChange is the wire form of vdomdiff.AttrChange.
type AttrChange struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// FromPatches converts a differ result into its wire form.
func FromPatches(patches []vdomdiff.Patch) []Patch {
	out := make([]Patch, 0, len(patches))
	for _, p := range patches {
		wp := Patch{Kind: p.Kind.String(), Path: p.Path, Text: p.Text, AddClasses: p.AddClasses, RemoveClasses: p.RemoveClasses}
		if p.Node != nil {
			n := fromVNode(p.Node)
			wp.Node = &n
		}
		for _, c := range p.AttributeChanges {
			wp.AttributeChanges = append(wp.AttributeChanges, AttrChange{Key: c.Key, Value: c.Value, Removed: c.Removed})
		}
		for _, c := range p.StyleChanges {
			wp.StyleChanges = append(wp.StyleChanges, AttrChange{Key: c.Key, Value: c.Value, Removed: c.Removed})
		}
		out = append(out, wp)
	}
	return out
}

// Marshal encodes any wire value as JSON.
func Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes JSON into a wire value.
func Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

// FromMutation converts a mutation.Mutation into its wire form.
func FromMutation(m mutation.Mutation) Mutation {
	wm := Mutation{
		Kind: m.Kind.String(), ParentID: string(m.ParentID), Index: m.Index,
		NodeID: string(m.NodeID), NewParentID: string(m.NewParentID), NewIndex: m.NewIndex,
		Key: m.Key, Value: m.Value, ElementID: string(m.ElementID), Property: m.Property,
	}
	return wm
}
