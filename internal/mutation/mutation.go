// Package mutation implements typed, invertible structural edits over
// an ast.Document (spec §4.6). Mutations never touch source text
// directly; they operate on the arena by NodeID.
package mutation

import (
	"fmt"

	"github.com/paperclip-run/paperclip-core/internal/ast"
)

// Kind enumerates the mutation operations (spec §4.6).
type Kind int

const (
	InsertNode Kind = iota
	RemoveNode
	ReplaceNode
	MoveNode
	UpdateAttribute
	UpdateStyle
	UpdateText
)

func (k Kind) String() string {
	switch k {
	case InsertNode:
		return "InsertNode"
	case RemoveNode:
		return "RemoveNode"
	case ReplaceNode:
		return "ReplaceNode"
	case MoveNode:
		return "MoveNode"
	case UpdateAttribute:
		return "UpdateAttribute"
	case UpdateStyle:
		return "UpdateStyle"
	case UpdateText:
		return "UpdateText"
	default:
		return "Invalid"
	}
}

// Mutation is a single typed edit. Not every field applies to every
// Kind; see the Kind-specific comments below.
type Mutation struct {
	Kind Kind

	// InsertNode
	ParentID ast.NodeID
	Index    int
	Node     *ast.Node

	// RemoveNode, ReplaceNode, MoveNode, UpdateAttribute, UpdateText
	NodeID ast.NodeID

	// ReplaceNode reuses Node above for the replacement.

	// MoveNode
	NewParentID ast.NodeID
	NewIndex    int

	// UpdateAttribute
	Key string
	// UpdateAttribute, UpdateStyle, UpdateText share Value; nil means
	// "remove" for UpdateAttribute/UpdateStyle (spec §4.6's Option<String>).
	Value *string

	// UpdateStyle
	ElementID ast.NodeID
	Property  string
}

// ValidationError reports why a mutation was rejected (spec §4.6's
// validate step). It is always returned instead of applying a mutation
// that would leave the document structurally invalid.
type ValidationError struct {
	Kind   Kind
	NodeID ast.NodeID
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mutation %s on %q: %s", e.Kind, e.NodeID, e.Reason)
}

// Validate checks a mutation against doc's current arena without
// mutating it (spec §4.6, "verifies referenced IDs exist, parent/child
// type constraints hold, and indices are in bounds").
func Validate(arena *ast.Arena, m Mutation) error {
	switch m.Kind {
	case InsertNode:
		parent, ok := arena.Get(m.ParentID)
		if !ok {
			return &ValidationError{m.Kind, m.ParentID, "parent node does not exist"}
		}
		if !acceptsChildren(parent.Kind) {
			return &ValidationError{m.Kind, m.ParentID, fmt.Sprintf("%s cannot own children", parent.Kind)}
		}
		if m.Node == nil {
			return &ValidationError{m.Kind, m.ParentID, "node payload is nil"}
		}
		if m.Index < 0 || m.Index > len(parent.Children()) {
			return &ValidationError{m.Kind, m.ParentID, "index out of bounds"}
		}
		return nil

	case RemoveNode:
		if _, ok := arena.Get(m.NodeID); !ok {
			return &ValidationError{m.Kind, m.NodeID, "node does not exist"}
		}
		return nil

	case ReplaceNode:
		if _, ok := arena.Get(m.NodeID); !ok {
			return &ValidationError{m.Kind, m.NodeID, "node does not exist"}
		}
		if m.Node == nil {
			return &ValidationError{m.Kind, m.NodeID, "replacement payload is nil"}
		}
		return nil

	case MoveNode:
		if _, ok := arena.Get(m.NodeID); !ok {
			return &ValidationError{m.Kind, m.NodeID, "node does not exist"}
		}
		parent, ok := arena.Get(m.NewParentID)
		if !ok {
			return &ValidationError{m.Kind, m.NewParentID, "new parent does not exist"}
		}
		if !acceptsChildren(parent.Kind) {
			return &ValidationError{m.Kind, m.NewParentID, fmt.Sprintf("%s cannot own children", parent.Kind)}
		}
		if m.NodeID == m.NewParentID {
			return &ValidationError{m.Kind, m.NodeID, "cannot move a node under itself"}
		}
		if isAncestor(arena, m.NodeID, m.NewParentID) {
			return &ValidationError{m.Kind, m.NodeID, "cannot move a node under its own descendant"}
		}
		maxIndex := len(parent.Children())
		if arena.ParentIndex()[m.NodeID] == m.NewParentID {
			// The node leaves this child list before it is reinserted.
			maxIndex--
		}
		if m.NewIndex < 0 || m.NewIndex > maxIndex {
			return &ValidationError{m.Kind, m.NewParentID, "index out of bounds"}
		}
		return nil

	case UpdateAttribute:
		n, ok := arena.Get(m.NodeID)
		if !ok {
			return &ValidationError{m.Kind, m.NodeID, "node does not exist"}
		}
		if n.Kind != ast.KindTag && n.Kind != ast.KindInstance {
			return &ValidationError{m.Kind, m.NodeID, fmt.Sprintf("%s has no attributes", n.Kind)}
		}
		return nil

	case UpdateStyle:
		n, ok := arena.Get(m.ElementID)
		if !ok {
			return &ValidationError{m.Kind, m.ElementID, "element does not exist"}
		}
		if n.Kind != ast.KindTag {
			return &ValidationError{m.Kind, m.ElementID, fmt.Sprintf("%s has no style blocks", n.Kind)}
		}
		return nil

	case UpdateText:
		n, ok := arena.Get(m.NodeID)
		if !ok {
			return &ValidationError{m.Kind, m.NodeID, "node does not exist"}
		}
		if n.Kind != ast.KindText {
			return &ValidationError{m.Kind, m.NodeID, fmt.Sprintf("%s is not a text node", n.Kind)}
		}
		return nil

	default:
		return &ValidationError{m.Kind, m.NodeID, "unknown mutation kind"}
	}
}

// acceptsChildren reports whether a node of the given kind can own
// children at all, ruling out e.g. inserting under a Text node.
func acceptsChildren(k ast.ElementKind) bool {
	switch k {
	case ast.KindTag, ast.KindInstance, ast.KindInsert, ast.KindConditional, ast.KindRepeat:
		return true
	default:
		return false
	}
}

// isAncestor reports whether candidate is id or a descendant of id.
func isAncestor(arena *ast.Arena, id, candidate ast.NodeID) bool {
	parents := arena.ParentIndex()
	for cur := candidate; cur != ""; cur = parents[cur] {
		if cur == id {
			return true
		}
	}
	return false
}
