package navtree

import (
	"fmt"
	"strings"
)

// RootName is the name of the synthetic root directory.
const RootName = "/"

// PathRecord is one page as supplied by the content source.
type PathRecord struct {
	Path  string `json:"path" yaml:"path"`   // Slash-delimited absolute path, e.g. "/guides/setup"
	Title string `json:"title" yaml:"title"` // Link text
}

// Kind distinguishes directories from links.
type Kind int

const (
	KindDirectory Kind = iota
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindLink:
		return "link"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "directory":
		*k = KindDirectory
	case "link":
		*k = KindLink
	default:
		return fmt.Errorf("unknown node kind %q", string(b))
	}
	return nil
}

// Node is a directory or a link in the navigation tree.
type Node struct {
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name,omitempty"`     // Directory segment ("/" for the root)
	Path     string  `json:"path,omitempty"`     // Link target
	Title    string  `json:"title,omitempty"`    // Link text
	Children []*Node `json:"children,omitempty"` // Directory contents, in first-appearance order
}

// IsDir reports whether n is a directory.
func (n *Node) IsDir() bool {
	return n != nil && n.Kind == KindDirectory
}

// MalformedPathError reports a record whose path cannot be placed in the tree.
type MalformedPathError struct {
	Path   string
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed path %q: %s", e.Path, e.Reason)
}

// Segments splits an absolute path into its segments.
func Segments(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, &MalformedPathError{Path: path, Reason: "must start with /"}
	}
	rest := path[1:]
	if rest == "" {
		return nil, &MalformedPathError{Path: path, Reason: "no segment after leading /"}
	}
	segs := strings.Split(rest, "/")
	for _, s := range segs {
		if s == "" {
			return nil, &MalformedPathError{Path: path, Reason: "empty segment"}
		}
	}
	return segs, nil
}

// Build turns an ordered list of records into a directory tree rooted at "/".
//
// All records are validated before the tree is built, so a malformed path
// yields no tree at all. When two records share a path the first one wins.
func Build(records []PathRecord) (*Node, error) {
	split := make([][]string, len(records))
	for i, rec := range records {
		segs, err := Segments(rec.Path)
		if err != nil {
			return nil, err
		}
		split[i] = segs
	}

	root := &Node{Kind: KindDirectory, Name: RootName}
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		if seen[rec.Path] {
			continue
		}
		seen[rec.Path] = true

		segs := split[i]
		cwd := root
		for _, seg := range segs[:len(segs)-1] {
			cwd = cwd.childDir(seg)
		}
		cwd.Children = append(cwd.Children, &Node{
			Kind:  KindLink,
			Path:  rec.Path,
			Title: rec.Title,
		})
	}
	return root, nil
}

// childDir returns the directory named name under n, creating it if needed.
func (n *Node) childDir(name string) *Node {
	if d := n.dir(name); d != nil {
		return d
	}
	d := &Node{Kind: KindDirectory, Name: name}
	n.Children = append(n.Children, d)
	return d
}

func (n *Node) dir(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == KindDirectory && c.Name == name {
			return c
		}
	}
	return nil
}

// Find follows segments from n and returns the directory they lead to, or nil.
func (n *Node) Find(segments []string) *Node {
	cur := n
	for _, s := range segments {
		if cur = cur.dir(s); cur == nil {
			return nil
		}
	}
	return cur
}

// Walk visits n and its descendants in pre-order. dirs is the segment chain
// of the directory containing each node (empty for the root and its children).
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, dirs []string) bool) {
	n.walk(nil, fn)
}

func (n *Node) walk(dirs []string, fn func(*Node, []string) bool) {
	if !fn(n, dirs) || n.Kind != KindDirectory {
		return
	}
	var sub []string
	if n.Name == RootName && len(dirs) == 0 {
		sub = dirs
	} else {
		sub = append(dirs[:len(dirs):len(dirs)], n.Name)
	}
	for _, c := range n.Children {
		c.walk(sub, fn)
	}
}

// Links returns the records of every link in tree order.
func (n *Node) Links() []PathRecord {
	var out []PathRecord
	n.Walk(func(node *Node, _ []string) bool {
		if node.Kind == KindLink {
			out = append(out, PathRecord{Path: node.Path, Title: node.Title})
		}
		return true
	})
	return out
}
