package expansion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"

	"github.com/dgallion1/wikinav/internal/navtree"
)

// Manager owns the expansion state of one navigation tree.
//
// Toggles are serialised: each one mutates the set, re-projects the view and
// persists the set before the next is applied.
type Manager struct {
	mu    sync.Mutex
	store Store
	key   string
	log   *slog.Logger

	tree   *navtree.Node
	set    *Set
	view   *ViewNode
	closed bool

	// Last persistence errors, for callers that want to surface them.
	lastReadErr  error
	lastWriteErr error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for recovered persistence errors.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithKey overrides StateKey.
func WithKey(key string) Option {
	return func(m *Manager) {
		m.key = key
	}
}

// NewManager creates a manager for tree and restores its set from store.
// A nil store keeps state in memory only. Restore failures are logged and
// leave the set empty.
func NewManager(ctx context.Context, tree *navtree.Node, store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		key:   StateKey,
		log:   slog.Default(),
		tree:  tree,
	}
	for _, opt := range opts {
		opt(m)
	}

	set, err := m.restore(ctx)
	if err != nil {
		m.lastReadErr = err
		m.log.Warn("expansion state unreadable, starting collapsed", "key", m.key, "error", err)
		set = &Set{}
	}
	m.set = set
	m.view = Project(m.tree, m.set)
	return m
}

func (m *Manager) restore(ctx context.Context) (*Set, error) {
	if m.store == nil {
		return &Set{}, nil
	}
	data, err := m.store.Restore(ctx, m.key)
	if err != nil {
		return nil, &PersistenceReadError{Key: m.key, Err: err}
	}
	if data == nil {
		return &Set{}, nil
	}
	set := &Set{}
	if err := json.Unmarshal(data, set); err != nil {
		return nil, &PersistenceReadError{Key: m.key, Err: fmt.Errorf("decode: %w", err)}
	}
	return set, nil
}

// Toggle expands a collapsed directory or collapses an expanded one.
// Collapsing also collapses every directory below it. Returns the new view.
func (m *Manager) Toggle(ctx context.Context, id DirID) (*ViewNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	canon, err := ParseDirID(string(id))
	if err != nil || m.tree == nil || m.tree.Find(canon.Segments()) == nil {
		return m.view, fmt.Errorf("toggle %q: %w", id, ErrNotDirectory)
	}
	id = canon

	if m.set.Has(id) {
		removed := m.set.collapse(id)
		m.log.Debug("collapsed directory", "id", id, "removed", len(removed))
	} else {
		m.set.add(id)
		m.log.Debug("expanded directory", "id", id)
	}

	m.view = Project(m.tree, m.set)
	m.persist(ctx)
	return m.view, nil
}

// persist saves the set. Failures are logged and remembered, never returned.
func (m *Manager) persist(ctx context.Context) {
	if m.store == nil || m.closed {
		return
	}
	data, err := json.Marshal(m.set)
	if err == nil {
		err = m.store.Save(ctx, m.key, data)
	}
	if err != nil {
		m.lastWriteErr = &PersistenceWriteError{Key: m.key, Err: err}
		m.log.Warn("expansion state not saved", "key", m.key, "error", err)
		return
	}
	m.lastWriteErr = nil
}

// Render projects tree against the current set without changing state.
func (m *Manager) Render(tree *navtree.Node) *ViewNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Project(tree, m.set)
}

// View returns the projection of the current tree and set.
func (m *Manager) View() *ViewNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// SetTree replaces the tree, typically after content was reloaded, and
// returns the new view. Entries for directories that disappeared are kept.
func (m *Manager) SetTree(tree *navtree.Node) *ViewNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree = tree
	m.view = Project(m.tree, m.set)
	return m.view
}

// Tree returns the tree the manager currently projects.
func (m *Manager) Tree() *navtree.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tree
}

// Expanded returns the expanded directory identifiers in insertion order.
func (m *Manager) Expanded() []DirID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.IDs()
}

// Set returns a copy of the expansion set.
func (m *Manager) Set() *Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.Clone()
}

// Reset collapses everything and persists the empty set.
func (m *Manager) Reset(ctx context.Context) *ViewNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = &Set{}
	m.view = Project(m.tree, m.set)
	m.persist(ctx)
	return m.view
}

// Close waits for any in-flight toggle to finish and stops all further
// saves. The manager keeps working in memory.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// LastErrors returns the most recent restore and save failures, if any.
func (m *Manager) LastErrors() (read, write error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReadErr, m.lastWriteErr
}
