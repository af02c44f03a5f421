// Package session keeps one expansion manager per browsing session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/wikinav/internal/expansion"
	"github.com/dgallion1/wikinav/internal/navtree"
	"github.com/dgallion1/wikinav/internal/statestore"
)

// KeyPrefix is where session state lives in the backing store.
const KeyPrefix = "wikinav/sessions/"

var ErrInvalidID = errors.New("invalid session id")

// Session is a live browsing session.
type Session struct {
	ID        string
	Manager   *expansion.Manager
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry is a thread-safe set of live sessions with idle eviction.
// Evicting a session only drops it from memory; its persisted state stays
// and is restored when the session returns.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	tree     *navtree.Node
	store    expansion.Store
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRegistry(tree *navtree.Node, store expansion.Store, ttl time.Duration, log *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		tree:     tree,
		store:    store,
		ttl:      ttl,
		log:      log.With("component", "session"),
		now:      time.Now,
	}
}

// Create starts a new session with a fresh ID.
func (r *Registry) Create(ctx context.Context) *Session {
	s, _ := r.Open(ctx, NewID())
	return s
}

// Open returns the live session with the given ID, restoring it from the
// store if it is not in memory.
func (r *Registry) Open(ctx context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}

	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		s.touch(r.now())
		return s, nil
	}
	tree := r.tree
	r.mu.Unlock()

	// Restore outside the lock; it may hit the network.
	var store expansion.Store
	if r.store != nil {
		store = statestore.Prefixed(r.store, KeyPrefix+id+"/")
	}
	m := expansion.NewManager(ctx, tree, store, expansion.WithLogger(r.log.With("session", id)))

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.touch(r.now())
		return s, nil
	}
	if r.tree != tree {
		m.SetTree(r.tree)
	}
	now := r.now()
	s := &Session{ID: id, Manager: m, CreatedAt: now, lastSeen: now}
	r.sessions[id] = s
	r.log.Debug("session opened", "session", id, "restored", len(m.Expanded()))
	return s, nil
}

// Get returns a live session without restoring it.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.sessions[id]
	if s != nil {
		s.touch(r.now())
	}
	return s
}

// SetTree swaps the tree for new sessions and every live one.
func (r *Registry) SetTree(tree *navtree.Node) {
	r.mu.Lock()
	r.tree = tree
	live := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.Unlock()

	for _, s := range live {
		s.Manager.SetTree(tree)
	}
	r.log.Info("tree updated", "sessions", len(live))
}

// Tree returns the tree new sessions start from.
func (r *Registry) Tree() *navtree.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Cleanup evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.LastSeen()) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	if n > 0 {
		r.log.Info("evicted idle sessions", "count", n)
	}
	return n
}

// Delete drops a session and its persisted state. A toggle already running
// on the session finishes before the state is removed and cannot restore it.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	s := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if s != nil {
		s.Manager.Close()
	}

	d, ok := r.store.(statestore.Deleter)
	if !ok {
		return nil
	}
	err := d.Delete(ctx, KeyPrefix+id+"/"+expansion.StateKey)
	if err != nil && !errors.Is(err, errors.ErrUnsupported) {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Persisted lists the IDs of sessions with saved state. It returns
// (nil, nil) when the backend cannot enumerate keys.
func (r *Registry) Persisted(ctx context.Context) ([]string, error) {
	l, ok := r.store.(statestore.Lister)
	if !ok {
		return nil, nil
	}
	keys, err := l.Keys(ctx, KeyPrefix)
	if errors.Is(err, errors.ErrUnsupported) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		rest := strings.TrimPrefix(k, KeyPrefix)
		id, key, ok := strings.Cut(rest, "/")
		if !ok || key != expansion.StateKey {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Start runs the eviction ticker until Stop is called or ctx ends.
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Cleanup()
			}
		}
	}()
}

// Stop halts the eviction ticker.
func (r *Registry) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}
