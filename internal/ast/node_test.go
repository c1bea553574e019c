package ast

import "testing"

func TestArenaInsertGetDelete(t *testing.T) {
	a := NewArena("doc1")
	id := a.NextID()
	n := &Node{ID: id, Kind: KindTag, Tag: "div"}
	a.Insert(n)

	got, ok := a.Get(id)
	if !ok || got.Tag != "div" {
		t.Fatalf("expected to find inserted node, got %+v ok=%v", got, ok)
	}
	if a.Len() != 1 {
		t.Fatalf("expected len 1, got %d", a.Len())
	}

	a.Delete(id)
	if _, ok := a.Get(id); ok {
		t.Fatalf("expected node to be gone after delete")
	}
	if a.Len() != 0 {
		t.Fatalf("expected len 0 after delete, got %d", a.Len())
	}
}

func TestArenaNextIDMonotonic(t *testing.T) {
	a := NewArena("doc1")
	first := a.NextID()
	second := a.NextID()
	if first == second {
		t.Fatalf("expected distinct IDs, got %q twice", first)
	}
}

func TestArenaParentIndex(t *testing.T) {
	a := NewArena("doc1")
	childID := a.NextID()
	a.Insert(&Node{ID: childID, Kind: KindText, TextContent: "hi"})
	parentID := a.NextID()
	a.Insert(&Node{ID: parentID, Kind: KindTag, Tag: "div", ChildIDs: []NodeID{childID}})

	parents := a.ParentIndex()
	if parents[childID] != parentID {
		t.Fatalf("expected %q's parent to be %q, got %q", childID, parentID, parents[childID])
	}
}

func TestNodeChildrenByKind(t *testing.T) {
	thenID := NodeID("doc1-1")
	elseID := NodeID("doc1-2")
	n := &Node{Kind: KindConditional, CondThenID: thenID, CondElseID: elseID}
	children := n.Children()
	if len(children) != 2 || children[0] != thenID || children[1] != elseID {
		t.Fatalf("expected [then, else], got %v", children)
	}

	withoutElse := &Node{Kind: KindConditional, CondThenID: thenID}
	if children := withoutElse.Children(); len(children) != 1 || children[0] != thenID {
		t.Fatalf("expected [then] when no else branch, got %v", children)
	}
}
