package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files; the first non-blank line is the title.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &Document{}
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			doc.Title = line
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if doc.Title == "" {
		doc.Title = baseTitle(filename)
	}
	return doc, nil
}
