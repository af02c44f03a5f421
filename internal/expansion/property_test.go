package expansion

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/dgallion1/wikinav/internal/navtree"
)

func genTree(t *rapid.T) *navtree.Node {
	seg := rapid.SampledFrom([]string{"a", "b", "child", "docs"})
	n := rapid.IntRange(1, 15).Draw(t, "records")
	records := make([]navtree.PathRecord, 0, n)
	for i := 0; i < n; i++ {
		depth := rapid.IntRange(1, 4).Draw(t, "depth")
		parts := make([]string, depth)
		for j := range parts {
			parts[j] = seg.Draw(t, "seg")
		}
		records = append(records, navtree.PathRecord{Path: "/" + strings.Join(parts, "/"), Title: "t"})
	}
	root, err := navtree.Build(records)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return root
}

func dirIDs(root *navtree.Node) []DirID {
	var ids []DirID
	root.Walk(func(n *navtree.Node, chain []string) bool {
		if n.IsDir() {
			if n == root {
				ids = append(ids, RootID)
			} else {
				ids = append(ids, IDFromSegments(append(slices.Clone(chain), n.Name)))
			}
		}
		return true
	})
	return ids
}

func TestProperty_EmptySetAllCollapsed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		view := Project(genTree(t), &Set{})
		if ids := view.ExpandedIDs(); len(ids) != 0 {
			t.Fatalf("expected nothing expanded, got %v", ids)
		}
	})
}

func TestProperty_ToggleRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t)
		ids := dirIDs(tree)
		m := NewManager(context.Background(), tree, nil, WithLogger(quietLog()))

		// Random prior state.
		for _, id := range rapid.SliceOf(rapid.SampledFrom(ids)).Draw(t, "prior") {
			m.Toggle(context.Background(), id)
		}
		before := m.Set()
		beforeView := m.View()

		// Round trip on a collapsed directory restores the prior set.
		var collapsed []DirID
		for _, id := range ids {
			if !before.Has(id) {
				collapsed = append(collapsed, id)
			}
		}
		if len(collapsed) == 0 {
			return
		}
		d := rapid.SampledFrom(collapsed).Draw(t, "d")
		m.Toggle(context.Background(), d)
		m.Toggle(context.Background(), d)

		if !m.Set().Equal(before) {
			t.Fatalf("expected %v after round trip, got %v", before.IDs(), m.Expanded())
		}
		if !reflect.DeepEqual(m.View(), beforeView) {
			t.Fatalf("expected identical view after round trip")
		}
	})
}

func TestProperty_CascadeCollapseScope(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t)
		ids := dirIDs(tree)
		m := NewManager(context.Background(), tree, nil, WithLogger(quietLog()))
		for _, id := range rapid.SliceOf(rapid.SampledFrom(ids)).Draw(t, "prior") {
			m.Toggle(context.Background(), id)
		}
		before := m.Set()
		if before.Len() == 0 {
			return
		}
		d := rapid.SampledFrom(before.IDs()).Draw(t, "d")
		m.Toggle(context.Background(), d)

		after := m.Set()
		for _, id := range before.IDs() {
			inSubtree := id == d || slices.Contains(id.Ancestors(), d)
			if inSubtree && after.Has(id) {
				t.Fatalf("expected %s collapsed with %s", id, d)
			}
			if !inSubtree && !after.Has(id) {
				t.Fatalf("expected %s outside %s to stay expanded", id, d)
			}
		}
	})
}

func TestProperty_RestoreMatchesIncremental(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t)
		ids := dirIDs(tree)
		store := newMemStore()
		m := NewManager(context.Background(), tree, store, WithLogger(quietLog()))
		for _, id := range rapid.SliceOf(rapid.SampledFrom(ids)).Draw(t, "toggles") {
			m.Toggle(context.Background(), id)
		}

		restored := NewManager(context.Background(), tree, store, WithLogger(quietLog()))
		if !reflect.DeepEqual(restored.View(), m.View()) {
			t.Fatalf("expected restored view to match, set %v vs %v", restored.Expanded(), m.Expanded())
		}
	})
}
