// Package statestore provides the key-value backends expansion state is
// persisted to.
package statestore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dgallion1/wikinav/internal/expansion"
)

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Deleter is implemented by backends that can remove a key.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process store. It loses everything on restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var (
	_ expansion.Store = (*Memory)(nil)
	_ Lister          = (*Memory)(nil)
	_ Deleter         = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Restore(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// prefixed namespaces every key of an underlying store.
type prefixed struct {
	inner  expansion.Store
	prefix string
}

// Prefixed returns a store that prepends prefix to every key.
func Prefixed(inner expansion.Store, prefix string) expansion.Store {
	return &prefixed{inner: inner, prefix: prefix}
}

func (p *prefixed) Save(ctx context.Context, key string, value []byte) error {
	return p.inner.Save(ctx, p.prefix+key, value)
}

func (p *prefixed) Restore(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Restore(ctx, p.prefix+key)
}
