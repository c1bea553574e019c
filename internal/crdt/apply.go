package crdt

import (
	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/mutation"
)

// ApplyLocal mirrors a locally-applied mutation onto the shadow and
// returns the snapshot packet to broadcast (spec §4.7's
// update_crdt). The packet is the full current snapshot rather than a
// minimal delta: spec §6 only commits to "Mutation ... round-trip
// through the wire format", not a delta-encoding scheme, so merging
// full snapshots (idempotent under MergeSnapshot's per-field LWW rule)
// is the simplest correct choice.
func (d *Document) ApplyLocal(m mutation.Mutation) ([]byte, error) {
	c := d.tick()
	switch m.Kind {
	case mutation.InsertNode:
		d.applyInsertLocal(m, c)
	case mutation.RemoveNode:
		d.applyRemoveLocal(m, c)
	case mutation.ReplaceNode:
		d.applyReplaceLocal(m, c)
	case mutation.MoveNode:
		d.applyMoveLocal(m, c)
	case mutation.UpdateAttribute:
		d.setAttr(m.NodeID, m.Key, m.Value, c)
	case mutation.UpdateStyle:
		// Style properties are modeled as element attrs under a
		// "style:" prefix so they share the same LWW-field machinery.
		d.setAttr(m.ElementID, "style:"+m.Property, m.Value, c)
	case mutation.UpdateText:
		d.setText(m.NodeID, m.Value, c)
	}
	return d.Marshal()
}

func (d *Document) applyInsertLocal(m mutation.Mutation, c Clock) {
	if m.Node == nil {
		return
	}
	n := newNodeFrom(m.Node, c)
	d.Nodes[m.Node.ID] = n

	parent, ok := d.Nodes[m.ParentID]
	if !ok {
		return
	}
	pos := fractionalIndexBetween(len(parent.liveChildren()), m.Index)
	parent.Children = append(parent.Children, &childRef{ID: m.Node.ID, Position: pos, Added: c})
}

func newNodeFrom(n *ast.Node, c Clock) *node {
	cn := &node{Type: n.Kind, Attrs: map[string]*field{}, Scalar: map[string]*field{}}
	for _, a := range attrsOf(n) {
		cn.Attrs[a.Key] = &field{Value: a.Value, Set: c}
	}
	if n.Kind == ast.KindText {
		cn.Text = &field{Value: n.TextContent, Set: c}
	}
	for k, v := range scalarsOf(n) {
		cn.Scalar[k] = &field{Value: v, Set: c}
	}
	return cn
}

func (d *Document) applyRemoveLocal(m mutation.Mutation, c Clock) {
	if n, ok := d.Nodes[m.NodeID]; ok {
		n.Tombstone = &c
	}
	d.markChildRemoved(m.NodeID, c)
}

func (d *Document) markChildRemoved(id ast.NodeID, c Clock) {
	for _, n := range d.Nodes {
		for _, ref := range n.Children {
			if ref.ID == id && ref.Removed == nil {
				removedAt := c
				ref.Removed = &removedAt
			}
		}
	}
}

func (d *Document) applyReplaceLocal(m mutation.Mutation, c Clock) {
	if m.Node == nil {
		return
	}
	if _, ok := d.Nodes[m.NodeID]; !ok {
		return
	}
	replacement := newNodeFrom(m.Node, c)
	replacement.Children = d.Nodes[m.NodeID].Children
	d.Nodes[m.NodeID] = replacement
}

func (d *Document) applyMoveLocal(m mutation.Mutation, c Clock) {
	d.markChildRemoved(m.NodeID, c)
	newParent, ok := d.Nodes[m.NewParentID]
	if !ok {
		return
	}
	pos := fractionalIndexBetween(len(newParent.liveChildren()), m.NewIndex)
	newParent.Children = append(newParent.Children, &childRef{ID: m.NodeID, Position: pos, Added: c})
}

func (d *Document) setAttr(id ast.NodeID, key string, value *string, c Clock) {
	n, ok := d.Nodes[id]
	if !ok {
		return
	}
	if value == nil {
		delete(n.Attrs, key)
		return
	}
	n.Attrs[key] = &field{Value: *value, Set: c}
}

func (d *Document) setText(id ast.NodeID, value *string, c Clock) {
	n, ok := d.Nodes[id]
	if !ok || value == nil {
		return
	}
	n.Text = &field{Value: *value, Set: c}
}

// ApplyRemote decodes a remote peer's snapshot packet and merges it
// (spec §4.7's apply_crdt_update, first half).
func (d *Document) ApplyRemote(update []byte) error {
	return d.MergeSnapshot(update)
}

// fractionalIndexBetween produces a position key for inserting at
// index among liveCount existing live children, using the same
// zero-padded decimal scheme as fractionalIndex but offset so that
// repeated inserts at the same index still sort predictably relative
// to their neighbors.
func fractionalIndexBetween(liveCount, index int) string {
	if index > liveCount {
		index = liveCount
	}
	return fractionalIndex(index*2 + 1)
}
