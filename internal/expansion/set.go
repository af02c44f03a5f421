package expansion

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
)

// SetVersion is the schema version written by Set.MarshalJSON.
const SetVersion = 1

// Entry is one expanded directory with the chain of directories above it.
type Entry struct {
	ID        DirID   `json:"id"`
	Ancestors []DirID `json:"ancestors"`
}

// Set is the insertion-ordered set of expanded directories.
// The zero value is an empty set.
type Set struct {
	entries []Entry
}

// NewSet returns a set holding ids, in order, with derived ancestor chains.
func NewSet(ids ...DirID) *Set {
	s := &Set{}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

// Has reports whether id is expanded.
func (s *Set) Has(id DirID) bool {
	return s.index(id) >= 0
}

func (s *Set) index(id DirID) int {
	if s == nil {
		return -1
	}
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of expanded directories.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// IDs returns the expanded identifiers in insertion order.
func (s *Set) IDs() []DirID {
	out := make([]DirID, 0, s.Len())
	if s == nil {
		return out
	}
	for _, e := range s.entries {
		out = append(out, e.ID)
	}
	return out
}

// Entries returns a copy of the entries in insertion order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, s.Len())
	if s == nil {
		return out
	}
	for _, e := range s.entries {
		out = append(out, Entry{ID: e.ID, Ancestors: slices.Clone(e.Ancestors)})
	}
	return out
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{entries: s.Entries()}
}

// Equal reports whether s and o hold the same identifiers, ignoring order.
func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, id := range s.IDs() {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

func (s *Set) add(id DirID) {
	if s.Has(id) {
		return
	}
	s.entries = append(s.entries, Entry{ID: id, Ancestors: id.Ancestors()})
}

// collapse removes id and every entry below it, returning what was removed.
func (s *Set) collapse(id DirID) []DirID {
	var removed []DirID
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID == id || slices.Contains(e.Ancestors, id) {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	return removed
}

type setDocument struct {
	Version  int     `json:"version"`
	Expanded []Entry `json:"expanded"`
}

func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(setDocument{Version: SetVersion, Expanded: s.Entries()})
}

// UnmarshalJSON accepts the versioned document or a bare array of entries.
// Every entry is checked against the ancestor chain derived from its ID.
func (s *Set) UnmarshalJSON(data []byte) error {
	var entries []Entry
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
	} else {
		var doc setDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return err
		}
		if doc.Version > SetVersion {
			return fmt.Errorf("unsupported expansion set version %d", doc.Version)
		}
		entries = doc.Expanded
	}

	restored := &Set{}
	for _, e := range entries {
		id, err := ParseDirID(string(e.ID))
		if err != nil {
			return err
		}
		if id != e.ID {
			return fmt.Errorf("directory id %q is not canonical", e.ID)
		}
		if e.Ancestors != nil && !slices.Equal(e.Ancestors, id.Ancestors()) {
			return fmt.Errorf("directory %q: ancestor chain %v does not match", id, e.Ancestors)
		}
		restored.add(id)
	}
	s.entries = restored.entries
	return nil
}
