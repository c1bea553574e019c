package crdt

import (
	"testing"

	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/mutation"
)

func buildArena() (*ast.Arena, ast.NodeID, ast.NodeID) {
	arena := ast.NewArena("doc1")
	textID := arena.NextID()
	arena.Insert(&ast.Node{ID: textID, Kind: ast.KindText, TextContent: "hi"})
	rootID := arena.NextID()
	arena.Insert(&ast.Node{ID: rootID, Kind: ast.KindTag, Tag: "div", ChildIDs: []ast.NodeID{textID}})
	return arena, rootID, textID
}

func TestApplyLocalThenReconcileIntoFreshArenaInsertsMaterializedNode(t *testing.T) {
	arena, rootID, _ := buildArena()
	shadow := FromArena("client-a", arena, rootID)

	newID := arena.NextID()
	newNode := &ast.Node{ID: newID, Kind: ast.KindText, TextContent: "new"}
	if _, err := shadow.ApplyLocal(mutation.Mutation{Kind: mutation.InsertNode, ParentID: rootID, Index: 1, Node: newNode}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second peer starts from a stale arena copy (pre-insert) and
	// receives the shadow's snapshot directly, simulating an initial sync.
	staleArena, staleRoot, _ := buildArena()
	staleShadow := FromArena("client-b", staleArena, staleRoot)
	packet, err := shadow.Marshal()
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}
	if err := staleShadow.ApplyRemote(packet); err != nil {
		t.Fatalf("unexpected error merging remote snapshot: %v", err)
	}

	applied := staleShadow.ReconcileInto(staleArena)
	if len(applied) == 0 {
		t.Fatalf("expected reconcile to apply at least one mutation inserting the new node")
	}
	root := staleArena.MustGet(staleRoot)
	if len(root.ChildIDs) != 2 {
		t.Fatalf("expected the new node to be materialized into the stale arena, got %d children", len(root.ChildIDs))
	}
	found := false
	for _, cid := range root.ChildIDs {
		if n, ok := staleArena.Get(cid); ok && n.Kind == ast.KindText && n.TextContent == "new" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the materialized node to carry over its text content, got children %+v", root.ChildIDs)
	}
}

func TestApplyLocalRemoveTombstonesNode(t *testing.T) {
	arena, rootID, textID := buildArena()
	shadow := FromArena("client-a", arena, rootID)

	if _, err := shadow.ApplyLocal(mutation.Mutation{Kind: mutation.RemoveNode, NodeID: textID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shadow.Nodes[textID].Tombstone == nil {
		t.Fatalf("expected the removed node to be tombstoned, not deleted, in the shadow")
	}

	applied := shadow.ReconcileInto(arena)
	if len(applied) != 1 || applied[0].Kind != mutation.RemoveNode {
		t.Fatalf("expected reconcile to remove the tombstoned node from the arena, got %+v", applied)
	}
	if _, ok := arena.Get(textID); ok {
		t.Fatalf("expected the node to be gone from the arena after reconciling a tombstone")
	}
}

func TestMergeSnapshotLastWriterWinsByClock(t *testing.T) {
	docA := NewDocument("client-a")
	docA.RootID = "n1"
	docA.Nodes["n1"] = &node{Type: ast.KindTag, Attrs: map[string]*field{
		"id": {Value: "from-a", Set: Clock{Counter: 5, ClientID: "client-a"}},
	}, Scalar: map[string]*field{}}

	docB := NewDocument("client-b")
	docB.RootID = "n1"
	docB.Nodes["n1"] = &node{Type: ast.KindTag, Attrs: map[string]*field{
		"id": {Value: "from-b", Set: Clock{Counter: 3, ClientID: "client-b"}},
	}, Scalar: map[string]*field{}}

	packetA, err := docA.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := docB.MergeSnapshot(packetA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docB.Nodes["n1"].Attrs["id"].Value != "from-a" {
		t.Fatalf("expected the higher-counter write (from-a, counter 5) to win, got %q", docB.Nodes["n1"].Attrs["id"].Value)
	}
}

func TestClockAfterTiesBrokenByClientID(t *testing.T) {
	a := Clock{Counter: 1, ClientID: "client-a"}
	b := Clock{Counter: 1, ClientID: "client-b"}
	if !b.After(a) {
		t.Fatalf("expected client-b to win a counter tie over client-a")
	}
	if a.After(b) {
		t.Fatalf("expected client-a to not be After client-b on a losing tie")
	}
}
