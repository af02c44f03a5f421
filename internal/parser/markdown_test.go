package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_Frontmatter(t *testing.T) {
	input := `---
path: /sub-topic/sub-topic
title: Sub Topic Post
---

# Ignored Heading

Body text.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "post.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Path != "/sub-topic/sub-topic" {
		t.Errorf("expected path %q, got %q", "/sub-topic/sub-topic", doc.Path)
	}
	if doc.Title != "Sub Topic Post" {
		t.Errorf("expected title %q, got %q", "Sub Topic Post", doc.Title)
	}
}

func TestMarkdownParser_TitleFromHeading(t *testing.T) {
	input := "---\npath: /guides/setup\n---\n\nIntro.\n\n## Getting *Started* Fast\n\n# Later\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "setup.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Path != "/guides/setup" {
		t.Errorf("expected path %q, got %q", "/guides/setup", doc.Path)
	}
	if doc.Title != "Getting Started Fast" {
		t.Errorf("expected title %q, got %q", "Getting Started Fast", doc.Title)
	}
}

func TestMarkdownParser_NoFrontmatter(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("# Hello World\n\ntext"), "hello.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Path != "" {
		t.Errorf("expected empty path, got %q", doc.Path)
	}
	if doc.Title != "Hello World" {
		t.Errorf("expected title %q, got %q", "Hello World", doc.Title)
	}
}

func TestMarkdownParser_CRLFFrontmatter(t *testing.T) {
	input := "---\r\npath: /win\r\ntitle: Windows\r\n---\r\nbody\r\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "win.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Path != "/win" || doc.Title != "Windows" {
		t.Errorf("expected /win Windows, got %q %q", doc.Path, doc.Title)
	}
}

func TestMarkdownParser_UnterminatedFrontmatterIsBody(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("---\npath: /x\n\nno closing fence"), "open.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Path != "" {
		t.Errorf("expected no path, got %q", doc.Path)
	}
}

func TestMarkdownParser_InvalidYAML(t *testing.T) {
	p := &MarkdownParser{}
	_, err := p.Parse(strings.NewReader("---\npath: [unclosed\n---\n"), "bad.md")
	if err == nil {
		t.Fatal("expected error for invalid frontmatter")
	}
}

func TestMarkdownParser_TitleFallback(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"dir/plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		doc, err := p.Parse(strings.NewReader("text only"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if doc.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, doc.Title)
		}
	}
}
