package expansion

import (
	"context"
	"errors"
	"fmt"
)

// StateKey is the fixed key the manager persists its set under.
const StateKey = "expanded-items"

// Store is the key-value persistence the manager saves its state to.
//
// Restore returns (nil, nil) when nothing is stored under key. That is not
// an error; a non-nil error means the storage itself failed.
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Restore(ctx context.Context, key string) ([]byte, error)
}

// ErrNotDirectory is returned when toggling something that is not a
// directory of the current tree.
var ErrNotDirectory = errors.New("not a directory in the navigation tree")

// PersistenceReadError reports state that could not be restored.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("restore %s: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error { return e.Err }

// PersistenceWriteError reports state that could not be saved.
type PersistenceWriteError struct {
	Key string
	Err error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Key, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }
