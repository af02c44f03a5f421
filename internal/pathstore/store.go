package pathstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Store adapts the client to the expansion state store interface.
// Values are stored as JSON documents under "<root>/<key>".
type Store struct {
	client *Client
	root   string
	limit  int
}

func NewStore(client *Client, root string) *Store {
	return &Store{
		client: client,
		root:   strings.TrimSuffix(root, "/"),
		limit:  1000,
	}
}

func (s *Store) key(k string) string {
	if s.root == "" {
		return k
	}
	return s.root + "/" + k
}

func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("save %s: value is not valid JSON", key)
	}
	return s.client.PutNode(ctx, s.key(key), NodeRequest{
		Value:      json.RawMessage(value),
		MergeMode:  "replace",
		MemoryType: "procedural",
		Source:     "wikinav",
	})
}

func (s *Store) Restore(ctx context.Context, key string) ([]byte, error) {
	node, err := s.client.GetNode(ctx, s.key(key))
	if err != nil {
		return nil, err
	}
	if node == nil || len(node.Value) == 0 || string(node.Value) == "null" {
		return nil, nil
	}
	return []byte(node.Value), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.DeleteNode(ctx, s.key(key), false)
}

// Keys lists stored keys under prefix, relative to the store root.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	scan := strings.TrimSuffix(s.key(prefix), "/")
	children, err := s.client.ListChildren(ctx, scan, s.limit)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(children))
	for _, c := range children {
		k := c.Key
		if s.root != "" {
			k = strings.TrimPrefix(k, s.root+"/")
		}
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
