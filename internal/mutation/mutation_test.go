package mutation

import (
	"testing"

	"github.com/paperclip-run/paperclip-core/internal/ast"
)

func newArenaWithDiv(t *testing.T) (*ast.Arena, ast.NodeID, ast.NodeID) {
	t.Helper()
	arena := ast.NewArena("doc1")
	textID := arena.NextID()
	arena.Insert(&ast.Node{ID: textID, Kind: ast.KindText, TextContent: "A"})
	rootID := arena.NextID()
	arena.Insert(&ast.Node{ID: rootID, Kind: ast.KindTag, Tag: "div", ChildIDs: []ast.NodeID{textID}})
	return arena, rootID, textID
}

func TestUpdateTextApplyInvertRoundTrip(t *testing.T) {
	arena, _, textID := newArenaWithDiv(t)

	newVal := "B"
	inverse, err := Apply(arena, Mutation{Kind: UpdateText, NodeID: textID, Value: &newVal})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arena.MustGet(textID).TextContent != "B" {
		t.Fatalf("expected text updated to B, got %q", arena.MustGet(textID).TextContent)
	}

	if _, err := Apply(arena, inverse); err != nil {
		t.Fatalf("unexpected error applying inverse: %v", err)
	}
	if arena.MustGet(textID).TextContent != "A" {
		t.Fatalf("expected text restored to A after applying inverse, got %q", arena.MustGet(textID).TextContent)
	}
}

func TestUpdateAttributeApplyInvertRoundTrip(t *testing.T) {
	arena := ast.NewArena("doc1")
	id := arena.NextID()
	arena.Insert(&ast.Node{ID: id, Kind: ast.KindTag, Tag: "div", Attributes: []ast.Attribute{{Key: "id", Value: "one"}}})

	newVal := "two"
	inverse, err := Apply(arena, Mutation{Kind: UpdateAttribute, NodeID: id, Key: "id", Value: &newVal})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := arena.MustGet(id).Attributes[0].Value; got != "two" {
		t.Fatalf("expected attribute updated to two, got %q", got)
	}

	if _, err := Apply(arena, inverse); err != nil {
		t.Fatalf("unexpected error applying inverse: %v", err)
	}
	if got := arena.MustGet(id).Attributes[0].Value; got != "one" {
		t.Fatalf("expected attribute restored to one, got %q", got)
	}
}

func TestInsertRemoveApplyInvertRoundTrip(t *testing.T) {
	arena, rootID, textID := newArenaWithDiv(t)
	newID := arena.NextID()
	newNode := &ast.Node{ID: newID, Kind: ast.KindText, TextContent: "C"}

	inverse, err := Apply(arena, Mutation{Kind: InsertNode, ParentID: rootID, Index: 0, Node: newNode})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arena.MustGet(rootID).ChildIDs) != 2 {
		t.Fatalf("expected 2 children after insert, got %d", len(arena.MustGet(rootID).ChildIDs))
	}
	if inverse.Kind != RemoveNode || inverse.NodeID != newID {
		t.Fatalf("expected insert's inverse to be RemoveNode on the new node, got %+v", inverse)
	}

	undoInverse, err := Apply(arena, inverse)
	if err != nil {
		t.Fatalf("unexpected error applying inverse: %v", err)
	}
	got := arena.MustGet(rootID).ChildIDs
	if len(got) != 1 || got[0] != textID {
		t.Fatalf("expected the arena restored to its original single child, got %v", got)
	}

	// The inverse-of-the-inverse should re-insert the node at its
	// original position.
	if _, err := Apply(arena, undoInverse); err != nil {
		t.Fatalf("unexpected error re-applying the removal's inverse: %v", err)
	}
	if len(arena.MustGet(rootID).ChildIDs) != 2 {
		t.Fatalf("expected the node to be reinserted, got %d children", len(arena.MustGet(rootID).ChildIDs))
	}
}

func TestApplyRejectsInvalidMutationAndLeavesArenaUntouched(t *testing.T) {
	arena, _, textID := newArenaWithDiv(t)
	before := append([]ast.NodeID(nil), arena.MustGet(textID).Children()...)

	newID := arena.NextID()
	_, err := Apply(arena, Mutation{Kind: InsertNode, ParentID: textID, Index: 0, Node: &ast.Node{ID: newID, Kind: ast.KindText}})
	if err == nil {
		t.Fatalf("expected an error inserting a child under a Text node")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if _, ok := arena.Get(newID); ok {
		t.Fatalf("expected the rejected mutation's node to never be inserted into the arena")
	}
	after := arena.MustGet(textID).Children()
	if len(before) != len(after) {
		t.Fatalf("expected the text node's children to be unchanged, got %v vs %v", before, after)
	}
}

func TestValidateRejectsMoveUnderOwnDescendant(t *testing.T) {
	arena := ast.NewArena("doc1")
	childID := arena.NextID()
	arena.Insert(&ast.Node{ID: childID, Kind: ast.KindTag, Tag: "span"})
	parentID := arena.NextID()
	arena.Insert(&ast.Node{ID: parentID, Kind: ast.KindTag, Tag: "div", ChildIDs: []ast.NodeID{childID}})

	err := Validate(arena, Mutation{Kind: MoveNode, NodeID: parentID, NewParentID: childID, NewIndex: 0})
	if err == nil {
		t.Fatalf("expected an error moving a node under its own descendant")
	}
}

func TestValidateRejectsOutOfBoundsIndex(t *testing.T) {
	arena, rootID, _ := newArenaWithDiv(t)
	err := Validate(arena, Mutation{Kind: InsertNode, ParentID: rootID, Index: 99, Node: &ast.Node{Kind: ast.KindText}})
	if err == nil {
		t.Fatalf("expected an out-of-bounds index to be rejected")
	}
}

func TestMoveNodeApplyInvertRoundTrip(t *testing.T) {
	arena := ast.NewArena("doc1")
	itemID := arena.NextID()
	arena.Insert(&ast.Node{ID: itemID, Kind: ast.KindText, TextContent: "x"})
	parentAID := arena.NextID()
	arena.Insert(&ast.Node{ID: parentAID, Kind: ast.KindTag, Tag: "div", ChildIDs: []ast.NodeID{itemID}})
	parentBID := arena.NextID()
	arena.Insert(&ast.Node{ID: parentBID, Kind: ast.KindTag, Tag: "section"})

	inverse, err := Apply(arena, Mutation{Kind: MoveNode, NodeID: itemID, NewParentID: parentBID, NewIndex: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arena.MustGet(parentAID).ChildIDs) != 0 || len(arena.MustGet(parentBID).ChildIDs) != 1 {
		t.Fatalf("expected the node moved from A to B")
	}

	if _, err := Apply(arena, inverse); err != nil {
		t.Fatalf("unexpected error applying inverse: %v", err)
	}
	if len(arena.MustGet(parentAID).ChildIDs) != 1 || len(arena.MustGet(parentBID).ChildIDs) != 0 {
		t.Fatalf("expected the move reverted back to parent A")
	}
}
