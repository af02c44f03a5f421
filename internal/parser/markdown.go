package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// MarkdownParser handles Markdown files with optional YAML frontmatter.
type MarkdownParser struct{}

// frontmatter holds the keys a wiki page may declare.
type frontmatter struct {
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	meta, body, ok := splitFrontmatter(src)
	if ok {
		var fm frontmatter
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return nil, fmt.Errorf("parse frontmatter: %w", err)
		}
		doc.Path = strings.TrimSpace(fm.Path)
		doc.Title = strings.TrimSpace(fm.Title)
	}

	if doc.Title == "" {
		doc.Title = firstHeading(body)
	}
	if doc.Title == "" {
		doc.Title = baseTitle(filename)
	}
	return doc, nil
}

// splitFrontmatter separates a leading "---" fenced YAML block from the body.
func splitFrontmatter(src []byte) (meta, body []byte, ok bool) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, found := bytes.Cut(src, []byte("\n"))
	if !found || strings.TrimRight(string(first), "\r ") != "---" {
		return nil, src, false
	}

	var buf bytes.Buffer
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		switch strings.TrimRight(string(line), "\r ") {
		case "---", "...":
			return buf.Bytes(), rest, true
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	// Unterminated fence: treat the whole file as body.
	return nil, src, false
}

// firstHeading returns the text of the first heading in a Markdown body.
func firstHeading(src []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			if t := strings.TrimSpace(inlineText(h, src)); t != "" {
				return t
			}
		}
	}
	return ""
}

// inlineText gets the text content of a goldmark inline container.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		if s, ok := c.(*ast.String); ok {
			buf.Write(s.Value)
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return buf.String()
}
