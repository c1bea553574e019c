// Package ast defines the Paperclip AST: a span-preserving, serializable
// typed tree (spec §3). Nodes live in a per-document Arena indexed by
// NodeID rather than owning each other directly, so that the mutation
// engine can relocate, replace, or remove a node in O(1) plus fan-out
// without juggling cyclic ownership (spec §9, "Tree with back
// references").
package ast

import (
	"fmt"

	"github.com/paperclip-run/paperclip-core/internal/loc"
	"golang.org/x/net/html/atom"
)

// NodeID is "{documentId}-{seq}", assigned in parse order (spec §3).
type NodeID string

// ElementKind is the tag of the Element sum type (spec §3). A single
// struct carries every kind's payload, switched on Kind, instead of an
// interface hierarchy — this avoids virtual dispatch in the evaluator
// and differ hot paths (spec §9, "Polymorphic Element").
type ElementKind int

const (
	KindTag ElementKind = iota
	KindText
	KindInstance
	KindConditional
	KindRepeat
	KindInsert
	KindSlotInsert
)

func (k ElementKind) String() string {
	switch k {
	case KindTag:
		return "Tag"
	case KindText:
		return "Text"
	case KindInstance:
		return "Instance"
	case KindConditional:
		return "Conditional"
	case KindRepeat:
		return "Repeat"
	case KindInsert:
		return "Insert"
	case KindSlotInsert:
		return "SlotInsert"
	default:
		return "Invalid"
	}
}

// Attribute is a single (key, value) pair on a Tag or Instance element.
type Attribute struct {
	Key   string
	Value string
	Span  loc.Span
}

// VariantRef names a variant declared on the enclosing component, used
// inside a StyleBlock's variant_combo or an Instance's applied variants.
type VariantRef struct {
	Name string
	Span loc.Span
}

// StyleBlock is a `style { ... }` or `style variant A + B { ... }` block
// attached to a Tag element (spec §3).
type StyleBlock struct {
	VariantCombo []VariantRef // nil/empty means the unconditional block
	Properties   []Property
	Span         loc.Span
}

// Property is a single `key: value` line inside a style block. Order is
// preserved because later declarations of the same key must win.
type Property struct {
	Key   string
	Value string
	Span  loc.Span
}

// Node is the arena-resident representation of an Element (spec §3).
// Only the fields relevant to Kind are populated; the rest are zero.
type Node struct {
	ID   NodeID
	Kind ElementKind
	Span loc.Span

	// KindTag
	Tag        string
	TagAtom    atom.Atom
	Name       string // optional `name` attribute value, used for semantic-id stability
	Attributes []Attribute
	Styles     []StyleBlock
	ChildIDs   []NodeID

	// KindText
	TextContent string
	TextExpr    string // raw `{expr}` source, passed through uninterpreted (spec §4.3)
	IsTextExpr  bool

	// KindInstance
	ComponentRef     string
	InstanceAttrs    []Attribute
	InstanceChildIDs []NodeID // Insert / SlotInsert children

	// KindConditional
	CondExpr   string
	CondThenID NodeID
	CondElseID NodeID // zero value means no else branch

	// KindRepeat
	RepeatBinder   string
	RepeatIterable string
	RepeatBodyID   NodeID

	// KindInsert
	InsertSlotName string
	InsertChildIDs []NodeID

	// KindSlotInsert
	SlotInsertName string
}

// Children returns this node's child IDs regardless of which kind-
// specific slice they live in.
func (n *Node) Children() []NodeID {
	switch n.Kind {
	case KindTag:
		return n.ChildIDs
	case KindInstance:
		return n.InstanceChildIDs
	case KindInsert:
		return n.InsertChildIDs
	case KindConditional:
		ids := []NodeID{n.CondThenID}
		if n.CondElseID != "" {
			ids = append(ids, n.CondElseID)
		}
		return ids
	case KindRepeat:
		return []NodeID{n.RepeatBodyID}
	default:
		return nil
	}
}

// Arena owns every Node in a document, indexed by NodeID, plus the
// monotonic per-document sequence counter that assigns new IDs in parse
// order (spec §3).
type Arena struct {
	DocumentID string
	nodes      map[NodeID]*Node
	order      []NodeID
	seq        int
}

// NewArena creates an empty arena owned by the given document ID.
func NewArena(documentID string) *Arena {
	return &Arena{DocumentID: documentID, nodes: make(map[NodeID]*Node)}
}

// NextID allocates the next monotonic NodeID for this document.
func (a *Arena) NextID() NodeID {
	id := NodeID(fmt.Sprintf("%s-%d", a.DocumentID, a.seq))
	a.seq++
	return id
}

// Insert adds a node to the arena under its own ID. It is an error to
// insert a node whose ID already exists (IDs must be unique within a
// document, per spec §3's invariants).
func (a *Arena) Insert(n *Node) {
	a.nodes[n.ID] = n
	a.order = append(a.order, n.ID)
}

// Get looks up a node by ID.
func (a *Arena) Get(id NodeID) (*Node, bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// MustGet looks up a node by ID, panicking if absent. Used only in
// contexts where the ID was just produced by this same arena's parser
// or mutation engine and absence indicates an internal invariant
// violation, not user input.
func (a *Arena) MustGet(id NodeID) *Node {
	n, ok := a.nodes[id]
	if !ok {
		panic(fmt.Sprintf("ast: unknown node id %q", id))
	}
	return n
}

// Delete removes a node from the arena. It does not unlink it from any
// parent's child list; callers (the mutation engine) are responsible
// for that.
func (a *Arena) Delete(id NodeID) {
	delete(a.nodes, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Len reports how many live nodes the arena holds.
func (a *Arena) Len() int { return len(a.nodes) }

// All returns every node in parse (insertion) order. The returned slice
// must not be mutated by callers.
func (a *Arena) All() []*Node {
	out := make([]*Node, 0, len(a.order))
	for _, id := range a.order {
		if n, ok := a.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// ParentIndex walks every node's children and returns a NodeID -> NodeID
// parent map. It is recomputed on demand rather than stored, since only
// the mutation engine needs fast parent lookups and it can cache its own
// copy across a batch of operations (spec §9).
func (a *Arena) ParentIndex() map[NodeID]NodeID {
	parents := make(map[NodeID]NodeID, len(a.nodes))
	for _, n := range a.nodes {
		for _, childID := range n.Children() {
			if childID != "" {
				parents[childID] = n.ID
			}
		}
	}
	return parents
}
