package expansion

import (
	"context"
	"errors"
	"sync"
)

// memStore is a test Store that can be told to fail.
type memStore struct {
	mu        sync.Mutex
	data      map[string][]byte
	saves     int
	failSave  error
	failRead  error
	lastSaved []byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.failSave != nil {
		return s.failSave
	}
	s.data[key] = append([]byte(nil), value...)
	s.lastSaved = s.data[key]
	return nil
}

func (s *memStore) Restore(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRead != nil {
		return nil, s.failRead
	}
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

var errDiskFull = errors.New("disk full")
