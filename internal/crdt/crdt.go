// Package crdt implements the hand-rolled CRDT shadow that backs an
// EditSession's convergence guarantee (spec §4.7, §9 "CRDT schema").
//
// No CRDT library appears anywhere in the retrieved example corpus, so
// this package is necessarily hand-written rather than grounded on a
// third-party implementation; it follows spec §9's suggested mapping
// directly: each AST node becomes a CRDT map with fields
// {type, attrs, children}, where children is an ordered sequence of
// node IDs. Conflicting concurrent writes to the same field are
// resolved by a last-writer-wins rule keyed on (counter, client_id),
// which is the "deterministic merge order" spec §4.7 requires.
package crdt

import (
	"fmt"
	"sort"

	"github.com/go-json-experiment/json"

	"github.com/paperclip-run/paperclip-core/internal/ast"
)

// Clock is a Lamport-style (counter, client) pair used to order
// concurrent writes deterministically across peers.
type Clock struct {
	Counter  uint64 `json:"counter"`
	ClientID string `json:"client_id"`
}

// After reports whether c happened after other in the CRDT's total
// order: higher counter wins, ties broken by client ID so every peer
// resolves the same way.
func (c Clock) After(other Clock) bool {
	if c.Counter != other.Counter {
		return c.Counter > other.Counter
	}
	return c.ClientID > other.ClientID
}

// field is a last-writer-wins register.
type field struct {
	Value string `json:"value"`
	Set   Clock  `json:"set"`
}

// childRef is one entry in a node's ordered children sequence. Position
// is a fractional index string; entries sort lexicographically, and a
// tombstoned entry (Removed.Counter > 0) is excluded from the live
// order without disturbing neighbors' positions.
type childRef struct {
	ID       ast.NodeID `json:"id"`
	Position string     `json:"position"`
	Added    Clock      `json:"added"`
	Removed  *Clock     `json:"removed,omitempty"`
}

// node is the CRDT-side representation of a single AST node (spec §9).
// Beyond the {type, attrs, children} shape spec §9 names explicitly,
// it carries the handful of per-kind scalar fields (tag name, component
// reference, and so on) needed to reconstruct a full ast.Node on the
// receiving peer, since those fields have no natural place in attrs.
type node struct {
	Type      ast.ElementKind   `json:"type"`
	Attrs     map[string]*field `json:"attrs"`
	Text      *field            `json:"text,omitempty"`
	Scalar    map[string]*field `json:"scalar"` // tag/name/component_ref/cond_expr/repeat_binder/.../slot_insert_name
	Children  []*childRef       `json:"children"`
	Tombstone *Clock            `json:"tombstone,omitempty"`
}

// Document is the CRDT shadow of one ast.Document, owned exclusively by
// its EditSession (spec §5: "The CRDT shadow is mutated exclusively by
// the owning session").
type Document struct {
	ClientID string
	counter  uint64
	Nodes    map[ast.NodeID]*node
	RootID   ast.NodeID
}

// NewDocument creates an empty shadow for clientID.
func NewDocument(clientID string) *Document {
	return &Document{ClientID: clientID, Nodes: make(map[ast.NodeID]*node)}
}

// FromArena seeds a shadow from an existing arena's current state,
// used when a session first attaches CRDT mirroring to a document.
func FromArena(clientID string, arena *ast.Arena, rootID ast.NodeID) *Document {
	d := NewDocument(clientID)
	d.RootID = rootID
	for _, n := range arena.All() {
		d.seedNode(n)
	}
	return d
}

func (d *Document) tick() Clock {
	d.counter++
	return Clock{Counter: d.counter, ClientID: d.ClientID}
}

func (d *Document) seedNode(n *ast.Node) {
	c := d.tick()
	cn := &node{Type: n.Kind, Attrs: make(map[string]*field), Scalar: make(map[string]*field)}
	for _, a := range attrsOf(n) {
		cn.Attrs[a.Key] = &field{Value: a.Value, Set: c}
	}
	if n.Kind == ast.KindText {
		cn.Text = &field{Value: n.TextContent, Set: c}
	}
	for k, v := range scalarsOf(n) {
		cn.Scalar[k] = &field{Value: v, Set: c}
	}
	for i, childID := range n.Children() {
		cn.Children = append(cn.Children, &childRef{
			ID: childID, Position: fractionalIndex(i), Added: c,
		})
	}
	d.Nodes[n.ID] = cn
}

// scalarsOf extracts the kind-specific scalar fields of n that don't
// fit the attrs/text/children shape: tag name, component reference,
// conditional/repeat expressions, and slot names.
func scalarsOf(n *ast.Node) map[string]string {
	out := map[string]string{}
	switch n.Kind {
	case ast.KindTag:
		out["tag"] = n.Tag
		out["name"] = n.Name
	case ast.KindInstance:
		out["component_ref"] = n.ComponentRef
	case ast.KindConditional:
		out["cond_expr"] = n.CondExpr
	case ast.KindRepeat:
		out["repeat_binder"] = n.RepeatBinder
		out["repeat_iterable"] = n.RepeatIterable
	case ast.KindInsert:
		out["insert_slot_name"] = n.InsertSlotName
	case ast.KindSlotInsert:
		out["slot_insert_name"] = n.SlotInsertName
	}
	return out
}

func attrsOf(n *ast.Node) []ast.Attribute {
	if n.Kind == ast.KindInstance {
		return n.InstanceAttrs
	}
	return n.Attributes
}

// fractionalIndex produces a stable lexicographically-ordered position
// key for the i-th slot in an initial sequence. New insertions between
// existing entries compute a key strictly between its neighbors.
func fractionalIndex(i int) string {
	return fmt.Sprintf("%08d", i)
}

// Marshal encodes d as a JSON update packet (spec §4.7's "binary update
// packet"; JSON is this repo's one wire encoding, per spec §6).
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d.snapshot())
}

type snapshotPayload struct {
	ClientID string                  `json:"client_id"`
	Counter  uint64                  `json:"counter"`
	RootID   ast.NodeID              `json:"root_id"`
	Nodes    map[ast.NodeID]*node    `json:"nodes"`
}

func (d *Document) snapshot() snapshotPayload {
	return snapshotPayload{ClientID: d.ClientID, Counter: d.counter, RootID: d.RootID, Nodes: d.Nodes}
}

// MergeSnapshot merges another peer's full snapshot into d field-by-
// field, keeping whichever write is After in the CRDT's total order
// (spec §5: "when two clients mutate the same node, the CRDT's
// deterministic merge order wins").
func (d *Document) MergeSnapshot(data []byte) error {
	var incoming snapshotPayload
	if err := json.Unmarshal(data, &incoming); err != nil {
		return err
	}
	if d.RootID == "" {
		d.RootID = incoming.RootID
	}
	for id, in := range incoming.Nodes {
		cur, ok := d.Nodes[id]
		if !ok {
			d.Nodes[id] = in
			continue
		}
		mergeNode(cur, in)
	}
	return nil
}

func mergeNode(cur, in *node) {
	if in.Tombstone != nil && (cur.Tombstone == nil || in.Tombstone.After(*cur.Tombstone)) {
		cur.Tombstone = in.Tombstone
	}
	for k, f := range in.Attrs {
		existing, ok := cur.Attrs[k]
		if !ok || f.Set.After(existing.Set) {
			cur.Attrs[k] = f
		}
	}
	for k, f := range in.Scalar {
		existing, ok := cur.Scalar[k]
		if !ok || f.Set.After(existing.Set) {
			cur.Scalar[k] = f
		}
	}
	if in.Text != nil && (cur.Text == nil || in.Text.Set.After(cur.Text.Set)) {
		cur.Text = in.Text
	}
	cur.Children = mergeChildren(cur.Children, in.Children)
}

func mergeChildren(cur, in []*childRef) []*childRef {
	byID := make(map[ast.NodeID]*childRef, len(cur))
	for _, c := range cur {
		byID[c.ID] = c
	}
	for _, c := range in {
		existing, ok := byID[c.ID]
		if !ok {
			byID[c.ID] = c
			cur = append(cur, c)
			continue
		}
		if c.Removed != nil && (existing.Removed == nil || c.Removed.After(*existing.Removed)) {
			existing.Removed = c.Removed
		}
		if c.Added.After(existing.Added) {
			existing.Position = c.Position
		}
	}
	sort.Slice(cur, func(i, j int) bool { return cur[i].Position < cur[j].Position })
	return cur
}

// LiveChildren returns a node's non-tombstoned children in position
// order.
func (n *node) liveChildren() []ast.NodeID {
	var out []ast.NodeID
	for _, c := range n.Children {
		if c.Removed == nil {
			out = append(out, c.ID)
		}
	}
	return out
}
