package crdt

import (
	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/mutation"
)

// ReconcileInto diffs the CRDT's current state against arena and
// applies whatever mutations are needed to bring arena in line,
// returning the mutations it applied (spec §4.7's apply_crdt_update,
// second half: "reconstruct the authoritative AST from the CRDT state
// and diff against current to derive the mutation sequence").
func (d *Document) ReconcileInto(arena *ast.Arena) []mutation.Mutation {
	var applied []mutation.Mutation
	apply := func(m mutation.Mutation) {
		if _, err := mutation.Apply(arena, m); err == nil {
			applied = append(applied, m)
		}
	}

	for id, cn := range d.Nodes {
		if cn.Tombstone != nil {
			if _, ok := arena.Get(id); ok {
				apply(mutation.Mutation{Kind: mutation.RemoveNode, NodeID: id})
			}
			continue
		}

		existing, ok := arena.Get(id)
		if !ok {
			// The node is new to this peer. Reconstruction without a
			// known parent/index is deferred to the children-ordering
			// pass below, which inserts it in place once it walks the
			// parent that references it.
			continue
		}

		if cn.Text != nil && existing.Kind == ast.KindText && existing.TextContent != cn.Text.Value {
			v := cn.Text.Value
			apply(mutation.Mutation{Kind: mutation.UpdateText, NodeID: id, Value: &v})
		}

		reconcileAttrs(arena, id, existing, cn, apply)
	}

	for parentID, cn := range d.Nodes {
		if cn.Tombstone != nil {
			continue
		}
		parent, ok := arena.Get(parentID)
		if !ok {
			continue
		}
		reconcileChildren(d, arena, parentID, parent, cn, apply)
	}

	return applied
}

func reconcileAttrs(arena *ast.Arena, id ast.NodeID, existing *ast.Node, cn *node, apply func(mutation.Mutation)) {
	if existing.Kind != ast.KindTag && existing.Kind != ast.KindInstance {
		return
	}
	current := map[string]string{}
	for _, a := range attrsOf(existing) {
		current[a.Key] = a.Value
	}
	for k, f := range cn.Attrs {
		if _, isStyle := styleKey(k); isStyle {
			continue // style fields use the "style:" namespace, not real attributes
		}
		if cur, ok := current[k]; !ok || cur != f.Value {
			v := f.Value
			apply(mutation.Mutation{Kind: mutation.UpdateAttribute, NodeID: id, Key: k, Value: &v})
		}
	}
	for k := range current {
		if _, ok := cn.Attrs[k]; !ok {
			apply(mutation.Mutation{Kind: mutation.UpdateAttribute, NodeID: id, Key: k, Value: nil})
		}
	}
}

func styleKey(attrKey string) (string, bool) {
	const prefix = "style:"
	if len(attrKey) > len(prefix) && attrKey[:len(prefix)] == prefix {
		return attrKey[len(prefix):], true
	}
	return "", false
}

// reconcileChildren rebuilds a parent's child order to match the CRDT's
// live sequence, inserting nodes the arena has never seen and moving
// nodes whose position changed.
func reconcileChildren(d *Document, arena *ast.Arena, parentID ast.NodeID, parent *ast.Node, cn *node, apply func(mutation.Mutation)) {
	desired := cn.liveChildren()
	for idx, childID := range desired {
		if _, ok := arena.Get(childID); ok {
			continue
		}
		childCN, ok := d.Nodes[childID]
		if !ok {
			continue
		}
		n := materialize(childID, childCN)
		apply(mutation.Mutation{Kind: mutation.InsertNode, ParentID: parentID, Index: idx, Node: n})
	}

	current := parent.Children()
	for idx, childID := range desired {
		if idx < len(current) && current[idx] == childID {
			continue
		}
		if _, ok := arena.Get(childID); !ok {
			continue // just inserted above; index already correct
		}
		apply(mutation.Mutation{Kind: mutation.MoveNode, NodeID: childID, NewParentID: parentID, NewIndex: idx})
		current = parent.Children()
	}
}

// materialize reconstructs an ast.Node from its CRDT representation,
// using the scalar fields seeded alongside type/attrs/children.
func materialize(id ast.NodeID, cn *node) *ast.Node {
	n := &ast.Node{ID: id, Kind: cn.Type}
	for k, f := range cn.Attrs {
		if _, isStyle := styleKey(k); isStyle {
			continue
		}
		attr := ast.Attribute{Key: k, Value: f.Value}
		if n.Kind == ast.KindInstance {
			n.InstanceAttrs = append(n.InstanceAttrs, attr)
		} else {
			n.Attributes = append(n.Attributes, attr)
		}
	}
	if cn.Text != nil {
		n.TextContent = cn.Text.Value
	}
	if f, ok := cn.Scalar["tag"]; ok {
		n.Tag = f.Value
	}
	if f, ok := cn.Scalar["name"]; ok {
		n.Name = f.Value
	}
	if f, ok := cn.Scalar["component_ref"]; ok {
		n.ComponentRef = f.Value
	}
	if f, ok := cn.Scalar["cond_expr"]; ok {
		n.CondExpr = f.Value
	}
	if f, ok := cn.Scalar["repeat_binder"]; ok {
		n.RepeatBinder = f.Value
	}
	if f, ok := cn.Scalar["repeat_iterable"]; ok {
		n.RepeatIterable = f.Value
	}
	if f, ok := cn.Scalar["insert_slot_name"]; ok {
		n.InsertSlotName = f.Value
	}
	if f, ok := cn.Scalar["slot_insert_name"]; ok {
		n.SlotInsertName = f.Value
	}
	return n
}
