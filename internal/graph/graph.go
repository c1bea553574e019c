// Package graph implements the file-level dependency graph and result
// cache driving incremental evaluation (spec §4.5).
package graph

import (
	"fmt"
	"sync"

	"github.com/paperclip-run/paperclip-core/internal/vdom"
)

// CycleError reports that registering a file's dependencies would
// close a cycle in the import graph (spec §4.5's GraphError::Cycle).
type CycleError struct {
	Path string
	Via  string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s depends (transitively) on itself via %s", e.Path, e.Via)
}

// Manager owns the forward/reverse dependency maps and the per-path
// evaluation cache (spec §4.5). It is the one piece of shared mutable
// state besides EditSession (spec §5), so every method takes the
// read-write lock appropriate to its access pattern.
type Manager struct {
	mu   sync.RWMutex
	deps map[string]map[string]bool // path -> its dependencies
	rdeps map[string]map[string]bool // path -> paths that depend on it
	cache map[string]*vdom.VDocument
}

// NewManager creates an empty graph.
func NewManager() *Manager {
	return &Manager{
		deps:  make(map[string]map[string]bool),
		rdeps: make(map[string]map[string]bool),
		cache: make(map[string]*vdom.VDocument),
	}
}

// RegisterDeps replaces path's forward edges with deps, updating the
// reverse-edge index accordingly (spec §4.5). It rejects a
// registration that would create a cycle, leaving the graph unchanged.
func (m *Manager) RegisterDeps(path string, deps []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, dep := range deps {
		if m.reachesLocked(dep, path) {
			return &CycleError{Path: path, Via: dep}
		}
	}

	if old, ok := m.deps[path]; ok {
		for dep := range old {
			if set, ok := m.rdeps[dep]; ok {
				delete(set, path)
			}
		}
	}

	newSet := make(map[string]bool, len(deps))
	for _, dep := range deps {
		newSet[dep] = true
		if m.rdeps[dep] == nil {
			m.rdeps[dep] = make(map[string]bool)
		}
		m.rdeps[dep][path] = true
	}
	m.deps[path] = newSet
	return nil
}

// reachesLocked reports whether there is a forward-dependency path
// from `from` to `to`. Called with m.mu already held.
func (m *Manager) reachesLocked(from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dep := range m.deps[cur] {
			if dep == to {
				return true
			}
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return false
}

// GetInvalidated returns the transitive closure of path's reverse
// dependents, including path itself, via breadth-first traversal of
// reverse_deps (spec §4.5).
func (m *Manager) GetInvalidated(path string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	visited := map[string]bool{path: true}
	order := []string{path}
	queue := []string{path}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dependent := range m.rdeps[cur] {
			if !visited[dependent] {
				visited[dependent] = true
				order = append(order, dependent)
				queue = append(queue, dependent)
			}
		}
	}
	return order
}

// Invalidate removes path and its transitive dependents (the set
// GetInvalidated returns) from the cache.
func (m *Manager) Invalidate(path string) {
	toEvict := m.GetInvalidated(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range toEvict {
		delete(m.cache, p)
	}
}

// CacheResult stores a path's evaluated VDocument.
func (m *Manager) CacheResult(path string, vdoc *vdom.VDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[path] = vdoc
}

// GetCached returns a path's cached VDocument, if any.
func (m *Manager) GetCached(path string) (*vdom.VDocument, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.cache[path]
	return v, ok
}

// NeedsEvaluation reports whether path has no cached result.
func (m *Manager) NeedsEvaluation(path string) bool {
	_, ok := m.GetCached(path)
	return !ok
}
