package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dgallion1/wikinav/internal/navtree"
	"github.com/dgallion1/wikinav/internal/parser"
)

// Config controls how a Library reads its directory.
type Config struct {
	Dir           string
	MaxConcurrent int
	Parser        parser.Options
}

// Library turns a directory of wiki pages into a navigation tree and keeps
// it current.
type Library struct {
	cfg Config
	log *slog.Logger

	// loadMu serialises whole loads so an older scan never publishes last.
	loadMu sync.Mutex

	mu          sync.RWMutex
	records     []navtree.PathRecord
	tree        *navtree.Node
	subscribers []func(*navtree.Node)
}

// NewLibrary creates the content directory if it does not exist yet.
func NewLibrary(cfg Config, log *slog.Logger) (*Library, error) {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 8
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create content directory %s: %w", cfg.Dir, err)
	}
	empty, _ := navtree.Build(nil)
	return &Library{
		cfg:  cfg,
		log:  log.With("component", "content", "dir", cfg.Dir),
		tree: empty,
	}, nil
}

// Subscribe registers fn to receive every newly built tree.
func (l *Library) Subscribe(fn func(*navtree.Node)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// Tree returns the current tree.
func (l *Library) Tree() *navtree.Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree
}

// Records returns the records the current tree was built from.
func (l *Library) Records() []navtree.PathRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]navtree.PathRecord(nil), l.records...)
}

// Dir returns the content directory.
func (l *Library) Dir() string {
	return l.cfg.Dir
}

// Load scans the directory, rebuilds the tree and notifies subscribers.
// If the new records do not form a valid tree the previous tree is kept.
func (l *Library) Load(ctx context.Context) error {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	files, err := l.scan()
	if err != nil {
		return err
	}

	records, err := l.parseAll(ctx, files)
	if err != nil {
		return err
	}

	tree, err := navtree.Build(records)
	if err != nil {
		l.log.Error("navigation tree not rebuilt", "error", err)
		return err
	}

	l.mu.Lock()
	l.records = records
	l.tree = tree
	subs := append(([]func(*navtree.Node))(nil), l.subscribers...)
	l.mu.Unlock()

	l.log.Info("navigation tree built", "pages", len(records))
	for _, fn := range subs {
		fn(tree)
	}
	return nil
}

// scan lists supported files in lexical walk order, relative to the root.
func (l *Library) scan() ([]string, error) {
	var files []string
	err := filepath.WalkDir(l.cfg.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != l.cfg.Dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !parser.IsSupportedExtension(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(l.cfg.Dir, p)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", l.cfg.Dir, err)
	}
	return files, nil
}

// parseAll parses files with bounded concurrency, keeping walk order.
// A file that fails to parse is logged and skipped.
func (l *Library) parseAll(ctx context.Context, files []string) ([]navtree.PathRecord, error) {
	type result struct {
		rec navtree.PathRecord
		ok  bool
	}
	results := make([]result, len(files))
	sem := make(chan struct{}, l.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}
		wg.Add(1)
		go func(i int, rel string) {
			defer wg.Done()
			defer func() { <-sem }()
			rec, err := l.parseFile(rel)
			if err != nil {
				l.log.Warn("skipping page", "file", rel, "error", err)
				return
			}
			results[i] = result{rec: rec, ok: true}
		}(i, rel)
	}
	wg.Wait()

	records := make([]navtree.PathRecord, 0, len(files))
	for _, r := range results {
		if r.ok {
			records = append(records, r.rec)
		}
	}
	return records, nil
}

func (l *Library) parseFile(rel string) (navtree.PathRecord, error) {
	p, err := parser.ForFile(rel, l.cfg.Parser)
	if err != nil {
		return navtree.PathRecord{}, err
	}
	data, err := os.ReadFile(filepath.Join(l.cfg.Dir, rel))
	if err != nil {
		return navtree.PathRecord{}, err
	}
	doc, err := p.Parse(bytes.NewReader(data), rel)
	if err != nil {
		return navtree.PathRecord{}, err
	}
	rec := navtree.PathRecord{Path: doc.Path, Title: doc.Title}
	if rec.Path == "" {
		rec.Path = PathFromFile(rel)
	}
	return rec, nil
}

// PathFromFile derives a wiki path from a file location relative to the
// content root: "guides/setup.md" becomes "/guides/setup".
func PathFromFile(rel string) string {
	p := filepath.ToSlash(rel)
	p = strings.TrimSuffix(p, path.Ext(p))
	return "/" + strings.TrimPrefix(path.Clean("/"+p), "/")
}
