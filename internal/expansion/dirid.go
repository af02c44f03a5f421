package expansion

import (
	"fmt"
	"strings"

	"github.com/dgallion1/wikinav/internal/navtree"
)

// DirID identifies a directory by its full path from the root, e.g.
// "/guides/setup". The root itself is "/".
type DirID string

// RootID is the identifier of the tree root.
const RootID DirID = navtree.RootName

// ParseDirID normalises s into a DirID. The leading and trailing slashes
// are optional; empty inner segments are rejected.
func ParseDirID(s string) (DirID, error) {
	s = strings.TrimSpace(s)
	trimmed := strings.Trim(s, "/")
	if trimmed == "" {
		if s == "" {
			return "", fmt.Errorf("empty directory id")
		}
		return RootID, nil
	}
	segs := strings.Split(trimmed, "/")
	for _, seg := range segs {
		if seg == "" {
			return "", fmt.Errorf("directory id %q has an empty segment", s)
		}
	}
	return IDFromSegments(segs), nil
}

// IDFromSegments builds the identifier of the directory reached by segs.
func IDFromSegments(segs []string) DirID {
	if len(segs) == 0 {
		return RootID
	}
	return DirID("/" + strings.Join(segs, "/"))
}

// Segments returns the segment chain of id; the root has none.
func (id DirID) Segments() []string {
	if id == RootID || id == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(string(id), "/"), "/")
}

// Child returns the identifier of the directory name inside id.
func (id DirID) Child(name string) DirID {
	if id == RootID {
		return DirID("/" + name)
	}
	return DirID(string(id) + "/" + name)
}

// Ancestors returns the chain of directories above id, root first.
func (id DirID) Ancestors() []DirID {
	if id == RootID {
		return []DirID{}
	}
	segs := id.Segments()
	out := make([]DirID, 0, len(segs))
	for i := range segs {
		out = append(out, IDFromSegments(segs[:i]))
	}
	return out
}

func (id DirID) String() string { return string(id) }
