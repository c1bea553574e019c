// Package session implements the per-client authoritative document
// state, optimistic mutation pipeline, and undo/redo stack (spec §4.7).
package session

import (
	"fmt"
	"sync"

	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/crdt"
	"github.com/paperclip-run/paperclip-core/internal/mutation"
)

// Logger is the ambient logging seam for session activity, matching
// the teacher's convention of accepting a small interface rather than
// a concrete logging library type at package boundaries.
type Logger interface {
	Printf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// TransportError reports a failure sending or receiving a CRDT update
// packet over the (unspecified) broadcast transport.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("session transport %s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// PendingMutation is a locally-applied mutation awaiting server ack
// (spec §4.7).
type PendingMutation struct {
	LocalID        int
	Mutation       mutation.Mutation
	Inverse        mutation.Mutation
	AppliedVersion uint64
}

// UndoBatch is one undo-stack entry: an ordered list of inverses applied
// together (spec §4.7, "each batch is an ordered list of inverses").
type UndoBatch []mutation.Mutation

// EditSession owns one client's authoritative Document, guarded by a
// RWMutex per spec §5's shared-resource policy ("one writer OR many
// readers at a time").
type EditSession struct {
	mu sync.RWMutex

	ClientID string
	Arena    *ast.Arena
	CRDT     *crdt.Document // optional shadow; nil if this session doesn't mirror to CRDT

	version uint64
	pending []PendingMutation
	nextPID int

	undoStack [][]mutation.Mutation
	redoStack [][]mutation.Mutation

	log Logger
}

// New creates a session over arena for clientID. If shadow is non-nil
// it is kept in sync by UpdateCRDT/ApplyCRDTUpdate.
func New(clientID string, arena *ast.Arena, shadow *crdt.Document, log Logger) *EditSession {
	if log == nil {
		log = nopLogger{}
	}
	return &EditSession{ClientID: clientID, Arena: arena, CRDT: shadow, log: log}
}

// Version returns the session's current monotonic version.
func (s *EditSession) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ApplyOptimistic validates and applies m locally, records its inverse,
// enqueues it as pending, and returns the local version it produced
// (spec §4.7).
func (s *EditSession) ApplyOptimistic(m mutation.Mutation) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inverse, err := mutation.Apply(s.Arena, m)
	if err != nil {
		return 0, err
	}
	s.version++
	s.nextPID++
	s.pending = append(s.pending, PendingMutation{
		LocalID: s.nextPID, Mutation: m, Inverse: inverse, AppliedVersion: s.version,
	})
	s.undoStack = append(s.undoStack, []mutation.Mutation{inverse})
	s.redoStack = nil
	s.log.Printf("session %s: applied optimistic mutation %s at version %d", s.ClientID, m.Kind, s.version)
	return s.version, nil
}

// CommitLocal removes a pending mutation from the queue on server ack
// (spec §4.7).
func (s *EditSession) CommitLocal(localID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p.LocalID == localID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Rebase reverts all pending mutations, applies the server's mutations,
// then re-applies surviving pending mutations in order, dropping any
// that fail re-validation (spec §4.7). It returns the dropped pending
// mutations for the caller to report.
func (s *EditSession) Rebase(serverMutations []mutation.Mutation) []PendingMutation {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.pending) - 1; i >= 0; i-- {
		if _, err := mutation.Apply(s.Arena, s.pending[i].Inverse); err != nil {
			s.log.Printf("session %s: failed to revert pending mutation during rebase: %v", s.ClientID, err)
		}
	}

	for _, sm := range serverMutations {
		if _, err := mutation.Apply(s.Arena, sm); err != nil {
			s.log.Printf("session %s: server mutation rejected during rebase: %v", s.ClientID, err)
		}
		s.version++
	}

	var survivors []PendingMutation
	var dropped []PendingMutation
	for _, p := range s.pending {
		inverse, err := mutation.Apply(s.Arena, p.Mutation)
		if err != nil {
			dropped = append(dropped, p)
			continue
		}
		s.version++
		p.Inverse = inverse
		p.AppliedVersion = s.version
		survivors = append(survivors, p)
	}
	s.pending = survivors
	return dropped
}

// Undo pops the most recent undo batch, applies its inverses from last
// to first, and pushes the corresponding redo batch (spec §4.7).
func (s *EditSession) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undoStack) == 0 {
		return nil
	}
	batch := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]

	redo := make([]mutation.Mutation, 0, len(batch))
	for i := len(batch) - 1; i >= 0; i-- {
		inv, err := mutation.Apply(s.Arena, batch[i])
		if err != nil {
			return err
		}
		s.version++
		redo = append([]mutation.Mutation{inv}, redo...)
	}
	s.redoStack = append(s.redoStack, redo)
	return nil
}

// Redo pops the most recent redo batch and re-applies it (spec §4.7).
func (s *EditSession) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redoStack) == 0 {
		return nil
	}
	batch := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]

	undo := make([]mutation.Mutation, 0, len(batch))
	for i := len(batch) - 1; i >= 0; i-- {
		inv, err := mutation.Apply(s.Arena, batch[i])
		if err != nil {
			return err
		}
		s.version++
		undo = append([]mutation.Mutation{inv}, undo...)
	}
	s.undoStack = append(s.undoStack, undo)
	return nil
}

// UpdateCRDT mirrors a locally-applied mutation onto the CRDT shadow and
// returns the binary update packet to broadcast (spec §4.7). It is a
// no-op returning nil if this session has no shadow attached.
func (s *EditSession) UpdateCRDT(m mutation.Mutation) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CRDT == nil {
		return nil, nil
	}
	packet, err := s.CRDT.ApplyLocal(m)
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}
	return packet, nil
}

// ApplyCRDTUpdate decodes a remote update into the CRDT shadow, then
// reconstructs the authoritative AST from CRDT state and diffs it
// against the current arena to derive the mutation sequence to apply
// locally (spec §4.7: "the CRDT is the tiebreaker on conflict").
func (s *EditSession) ApplyCRDTUpdate(update []byte) ([]mutation.Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CRDT == nil {
		return nil, nil
	}
	if err := s.CRDT.ApplyRemote(update); err != nil {
		return nil, &TransportError{Op: "decode", Err: err}
	}
	derived := s.CRDT.ReconcileInto(s.Arena)
	for range derived {
		s.version++
	}
	return derived, nil
}
