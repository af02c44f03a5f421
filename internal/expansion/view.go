package expansion

import (
	"github.com/dgallion1/wikinav/internal/navtree"
)

// ViewNode is a tree node annotated with expansion state for presentation.
type ViewNode struct {
	Kind      navtree.Kind `json:"kind"`
	ID        DirID        `json:"id,omitempty"`    // Directories only
	Name      string       `json:"name,omitempty"`  // Directories only
	Path      string       `json:"path,omitempty"`  // Links only
	Title     string       `json:"title,omitempty"` // Links only
	Expanded  bool         `json:"expanded"`
	Ancestors []DirID      `json:"ancestors"`
	Children  []*ViewNode  `json:"children,omitempty"`
}

// Project derives a fresh view tree from root and the expanded set.
// It never retains or mutates tree nodes; a nil root yields nil.
func Project(root *navtree.Node, set *Set) *ViewNode {
	if root == nil {
		return nil
	}
	return project(root, RootID, []DirID{}, set)
}

func project(n *navtree.Node, id DirID, ancestors []DirID, set *Set) *ViewNode {
	if n.Kind == navtree.KindLink {
		return &ViewNode{
			Kind:      navtree.KindLink,
			Path:      n.Path,
			Title:     n.Title,
			Ancestors: ancestors,
		}
	}

	v := &ViewNode{
		Kind:      navtree.KindDirectory,
		ID:        id,
		Name:      n.Name,
		Expanded:  set.Has(id),
		Ancestors: ancestors,
	}
	if len(n.Children) == 0 {
		return v
	}

	below := make([]DirID, len(ancestors), len(ancestors)+1)
	copy(below, ancestors)
	below = append(below, id)

	v.Children = make([]*ViewNode, 0, len(n.Children))
	for _, c := range n.Children {
		childID := id
		if c.Kind == navtree.KindDirectory {
			childID = id.Child(c.Name)
		}
		v.Children = append(v.Children, project(c, childID, below, set))
	}
	return v
}

// Find returns the directory view with the given id, or nil.
func (v *ViewNode) Find(id DirID) *ViewNode {
	if v == nil {
		return nil
	}
	if v.Kind == navtree.KindDirectory && v.ID == id {
		return v
	}
	for _, c := range v.Children {
		if f := c.Find(id); f != nil {
			return f
		}
	}
	return nil
}

// ExpandedIDs lists every directory in v marked expanded, in pre-order.
func (v *ViewNode) ExpandedIDs() []DirID {
	var out []DirID
	var walk func(*ViewNode)
	walk = func(n *ViewNode) {
		if n.Kind == navtree.KindDirectory && n.Expanded {
			out = append(out, n.ID)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if v != nil {
		walk(v)
	}
	return out
}
