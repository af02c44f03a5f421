package expansion

import (
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestSet_AddCollapse(t *testing.T) {
	s := NewSet("/a", "/a/b", "/a/b/c", "/x", "/ab")
	removed := s.collapse("/a")

	want := []DirID{"/a", "/a/b", "/a/b/c"}
	if !reflect.DeepEqual(removed, want) {
		t.Errorf("expected removed %v, got %v", want, removed)
	}
	if !reflect.DeepEqual(s.IDs(), []DirID{"/x", "/ab"}) {
		t.Errorf("expected /x and /ab to survive, got %v", s.IDs())
	}
}

func TestSet_AddIsIdempotent(t *testing.T) {
	s := NewSet("/a", "/a")
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestSet_NilSafe(t *testing.T) {
	var s *Set
	if s.Has("/a") {
		t.Error("expected nil set to have nothing")
	}
	if s.Len() != 0 || len(s.IDs()) != 0 {
		t.Error("expected nil set to be empty")
	}
}

func TestSet_JSONRoundTrip(t *testing.T) {
	s := NewSet("/docs", "/docs/api", RootID)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"version":1`) {
		t.Errorf("expected versioned document, got %s", data)
	}

	got := &Set{}
	if err := json.Unmarshal(data, got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got.Entries(), s.Entries()) {
		t.Errorf("expected %v, got %v", s.Entries(), got.Entries())
	}
}

func TestSet_UnmarshalBareArray(t *testing.T) {
	got := &Set{}
	err := json.Unmarshal([]byte(`[{"id":"/a/b","ancestors":["/","/a"]},{"id":"/c"}]`), got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Has("/a/b") || !got.Has("/c") {
		t.Errorf("expected both entries, got %v", got.IDs())
	}
	if !reflect.DeepEqual(got.Entries()[1].Ancestors, []DirID{"/"}) {
		t.Errorf("expected derived ancestors for /c, got %v", got.Entries()[1].Ancestors)
	}
}

func TestSet_UnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"wrong shape", `"expanded"`},
		{"empty segment", `{"version":1,"expanded":[{"id":"/a//b"}]}`},
		{"non canonical", `{"version":1,"expanded":[{"id":"a/b"}]}`},
		{"bad ancestors", `{"version":1,"expanded":[{"id":"/a/b","ancestors":["/","/z"]}]}`},
		{"future version", `{"version":99,"expanded":[]}`},
	}
	for _, tt := range tests {
		got := &Set{}
		if err := json.Unmarshal([]byte(tt.data), got); err == nil {
			t.Errorf("%s: expected error, got set %v", tt.name, got.IDs())
		}
	}
}

func TestSet_Equal(t *testing.T) {
	a := NewSet("/a", "/b")
	b := NewSet("/b", "/a")
	if !a.Equal(b) {
		t.Error("expected sets with same members to be equal")
	}
	if a.Equal(NewSet("/a")) {
		t.Error("expected sets of different size to differ")
	}
}

func TestSet_CloneIsIndependent(t *testing.T) {
	a := NewSet("/a/b")
	c := a.Clone()
	c.collapse("/a/b")
	if !a.Has("/a/b") {
		t.Error("expected original to keep its entry")
	}
}
