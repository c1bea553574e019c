package mutation

import "github.com/paperclip-run/paperclip-core/internal/ast"

// Apply validates m against arena, applies it atomically, and returns
// its inverse (spec §4.6: "apply ... must be atomic (revert on
// mid-operation failure)"; "invert ... required for undo"). On
// validation failure, arena is left untouched and the returned inverse
// is the zero Mutation.
func Apply(arena *ast.Arena, m Mutation) (Mutation, error) {
	if err := Validate(arena, m); err != nil {
		return Mutation{}, err
	}
	inverse := invert(arena, m)
	switch m.Kind {
	case InsertNode:
		applyInsert(arena, m)
	case RemoveNode:
		applyRemove(arena, m)
	case ReplaceNode:
		applyReplace(arena, m)
	case MoveNode:
		applyMove(arena, m)
	case UpdateAttribute:
		applyUpdateAttribute(arena, m)
	case UpdateStyle:
		applyUpdateStyle(arena, m)
	case UpdateText:
		applyUpdateText(arena, m)
	}
	return inverse, nil
}

// invert captures doc-before-apply state needed to reverse m, following
// spec §4.6's requirement that the engine produce "the mutation that
// returns the document to its prior state". Called before any mutation
// of arena has taken effect.
func invert(arena *ast.Arena, m Mutation) Mutation {
	switch m.Kind {
	case InsertNode:
		return Mutation{Kind: RemoveNode, NodeID: m.Node.ID}

	case RemoveNode:
		n := arena.MustGet(m.NodeID)
		parents := arena.ParentIndex()
		parentID := parents[m.NodeID]
		index := indexOf(arena.MustGet(parentID).Children(), m.NodeID)
		return Mutation{Kind: InsertNode, ParentID: parentID, Index: index, Node: cloneNode(n)}

	case ReplaceNode:
		existing := arena.MustGet(m.NodeID)
		return Mutation{Kind: ReplaceNode, NodeID: m.NodeID, Node: cloneNode(existing)}

	case MoveNode:
		parents := arena.ParentIndex()
		oldParentID := parents[m.NodeID]
		oldIndex := indexOf(arena.MustGet(oldParentID).Children(), m.NodeID)
		return Mutation{Kind: MoveNode, NodeID: m.NodeID, NewParentID: oldParentID, NewIndex: oldIndex}

	case UpdateAttribute:
		n := arena.MustGet(m.NodeID)
		old := attrValue(attributesOf(n), m.Key)
		return Mutation{Kind: UpdateAttribute, NodeID: m.NodeID, Key: m.Key, Value: old}

	case UpdateStyle:
		n := arena.MustGet(m.ElementID)
		old := styleValue(n, m.Property)
		return Mutation{Kind: UpdateStyle, ElementID: m.ElementID, Property: m.Property, Value: old}

	case UpdateText:
		n := arena.MustGet(m.NodeID)
		old := n.TextContent
		return Mutation{Kind: UpdateText, NodeID: m.NodeID, Value: &old}

	default:
		return Mutation{}
	}
}

func applyInsert(arena *ast.Arena, m Mutation) {
	arena.Insert(m.Node)
	parent := arena.MustGet(m.ParentID)
	setChildren(parent, insertAt(parent.Children(), m.Index, m.Node.ID))
}

func applyRemove(arena *ast.Arena, m Mutation) {
	parents := arena.ParentIndex()
	parentID := parents[m.NodeID]
	if parentID != "" {
		parent := arena.MustGet(parentID)
		setChildren(parent, removeID(parent.Children(), m.NodeID))
	}
	arena.Delete(m.NodeID)
}

func applyReplace(arena *ast.Arena, m Mutation) {
	replacement := cloneNode(m.Node)
	replacement.ID = m.NodeID
	arena.Delete(m.NodeID)
	arena.Insert(replacement)
}

func applyMove(arena *ast.Arena, m Mutation) {
	parents := arena.ParentIndex()
	oldParentID := parents[m.NodeID]
	if oldParentID != "" {
		oldParent := arena.MustGet(oldParentID)
		setChildren(oldParent, removeID(oldParent.Children(), m.NodeID))
	}
	newParent := arena.MustGet(m.NewParentID)
	setChildren(newParent, insertAt(newParent.Children(), m.NewIndex, m.NodeID))
}

func applyUpdateAttribute(arena *ast.Arena, m Mutation) {
	n := arena.MustGet(m.NodeID)
	attrs := attributesOf(n)
	if m.Value == nil {
		setAttributesOf(n, removeAttr(attrs, m.Key))
		return
	}
	setAttributesOf(n, setAttr(attrs, m.Key, *m.Value))
}

func applyUpdateStyle(arena *ast.Arena, m Mutation) {
	n := arena.MustGet(m.ElementID)
	for i := range n.Styles {
		if len(n.Styles[i].VariantCombo) > 0 {
			continue
		}
		if m.Value == nil {
			n.Styles[i].Properties = removeProp(n.Styles[i].Properties, m.Property)
		} else {
			n.Styles[i].Properties = setProp(n.Styles[i].Properties, m.Property, *m.Value)
		}
		return
	}
	if m.Value != nil {
		n.Styles = append(n.Styles, ast.StyleBlock{Properties: []ast.Property{{Key: m.Property, Value: *m.Value}}})
	}
}

func applyUpdateText(arena *ast.Arena, m Mutation) {
	n := arena.MustGet(m.NodeID)
	n.TextContent = *m.Value
	n.IsTextExpr = false
}

// setChildren writes back a node's child-ID list into whichever
// Kind-specific field backs Children(), since Node has no single
// children slice (spec §3's tagged-sum layout).
func setChildren(n *ast.Node, ids []ast.NodeID) {
	switch n.Kind {
	case ast.KindTag:
		n.ChildIDs = ids
	case ast.KindInstance:
		n.InstanceChildIDs = ids
	case ast.KindInsert:
		n.InsertChildIDs = ids
	case ast.KindConditional:
		n.CondThenID = ""
		n.CondElseID = ""
		if len(ids) > 0 {
			n.CondThenID = ids[0]
		}
		if len(ids) > 1 {
			n.CondElseID = ids[1]
		}
	case ast.KindRepeat:
		if len(ids) > 0 {
			n.RepeatBodyID = ids[0]
		}
	}
}

func attributesOf(n *ast.Node) []ast.Attribute {
	if n.Kind == ast.KindInstance {
		return n.InstanceAttrs
	}
	return n.Attributes
}

func setAttributesOf(n *ast.Node, attrs []ast.Attribute) {
	if n.Kind == ast.KindInstance {
		n.InstanceAttrs = attrs
	} else {
		n.Attributes = attrs
	}
}

func attrValue(attrs []ast.Attribute, key string) *string {
	for _, a := range attrs {
		if a.Key == key {
			v := a.Value
			return &v
		}
	}
	return nil
}

func setAttr(attrs []ast.Attribute, key, value string) []ast.Attribute {
	for i, a := range attrs {
		if a.Key == key {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, ast.Attribute{Key: key, Value: value})
}

func removeAttr(attrs []ast.Attribute, key string) []ast.Attribute {
	out := attrs[:0]
	for _, a := range attrs {
		if a.Key != key {
			out = append(out, a)
		}
	}
	return out
}

func styleValue(n *ast.Node, property string) *string {
	for _, sb := range n.Styles {
		if len(sb.VariantCombo) > 0 {
			continue
		}
		for _, p := range sb.Properties {
			if p.Key == property {
				v := p.Value
				return &v
			}
		}
	}
	return nil
}

func setProp(props []ast.Property, key, value string) []ast.Property {
	for i, p := range props {
		if p.Key == key {
			props[i].Value = value
			return props
		}
	}
	return append(props, ast.Property{Key: key, Value: value})
}

func removeProp(props []ast.Property, key string) []ast.Property {
	out := props[:0]
	for _, p := range props {
		if p.Key != key {
			out = append(out, p)
		}
	}
	return out
}

func indexOf(ids []ast.NodeID, id ast.NodeID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

func insertAt(ids []ast.NodeID, index int, id ast.NodeID) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	out = append(out, ids[index:]...)
	return out
}

func removeID(ids []ast.NodeID, id ast.NodeID) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// cloneNode returns a shallow value copy of n so that an inverse
// mutation's captured payload is unaffected by later edits to the live
// arena node.
func cloneNode(n *ast.Node) *ast.Node {
	c := *n
	c.Attributes = append([]ast.Attribute(nil), n.Attributes...)
	c.InstanceAttrs = append([]ast.Attribute(nil), n.InstanceAttrs...)
	c.Styles = append([]ast.StyleBlock(nil), n.Styles...)
	for i := range c.Styles {
		c.Styles[i].Properties = append([]ast.Property(nil), n.Styles[i].Properties...)
	}
	c.ChildIDs = append([]ast.NodeID(nil), n.ChildIDs...)
	c.InstanceChildIDs = append([]ast.NodeID(nil), n.InstanceChildIDs...)
	c.InsertChildIDs = append([]ast.NodeID(nil), n.InsertChildIDs...)
	return &c
}
