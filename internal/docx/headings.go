// Package docx reads the heading outline of a Word .docx file.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Makepad-fr/wordsync/internal/outline"
)

const documentPart = "word/document.xml"

// ErrNoDocument means the archive has no word/document.xml part.
var ErrNoDocument = errors.New(documentPart + " not found in archive")

// boundTitle matches "[1234] Title", binding the heading to work item 1234.
var boundTitle = regexp.MustCompile(`^\[(\d+)\]\s*(.*)$`)

// ReadHeadings returns the heading paragraphs of the document at path, in
// document order. Body paragraphs are dropped.
func ReadHeadings(ctx context.Context, path string) ([]outline.Heading, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var part *zip.File
	for _, f := range r.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, ErrNoDocument
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return parseHeadings(ctx, rc)
}

// paragraph collects one <w:p>. Paragraphs nest when a text box sits
// inside a heading; only the outermost one is a heading candidate.
type paragraph struct {
	style string
	text  strings.Builder
}

func parseHeadings(ctx context.Context, rd io.Reader) ([]outline.Heading, error) {
	dec := xml.NewDecoder(rd)
	var (
		headings []outline.Heading
		open     []*paragraph
		inText   bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return headings, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		var cur *paragraph
		if len(open) > 0 {
			cur = open[len(open)-1]
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "p":
				open = append(open, &paragraph{})
			case t.Name.Local == "pStyle" && cur != nil:
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						cur.style = attr.Value
					}
				}
			case t.Name.Local == "t" && cur != nil:
				inText = true
			case t.Name.Local == "tab" && cur != nil:
				cur.text.WriteByte(' ')
			}

		case xml.CharData:
			if inText && cur != nil {
				cur.text.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if cur == nil {
					continue
				}
				open = open[:len(open)-1]
				if len(open) > 0 {
					continue
				}
				if h, ok := heading(cur); ok {
					headings = append(headings, h)
				}
			}
		}
	}
}

func heading(p *paragraph) (outline.Heading, bool) {
	level := HeadingLevel(p.style)
	title := strings.TrimSpace(p.text.String())
	if level == 0 || title == "" {
		return outline.Heading{}, false
	}
	h := outline.Heading{Level: level, Text: title}
	if m := boundTitle.FindStringSubmatch(title); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			h.ID = id
			h.Text = strings.TrimSpace(m[2])
		}
	}
	return h, true
}

// HeadingLevel maps a paragraph style id to its outline level, 0 for body
// text. "Title" is 1, "Subtitle" 2, "Heading3" 3 and so on.
func HeadingLevel(style string) int {
	lower := strings.ToLower(style)
	switch lower {
	case "title":
		return 1
	case "subtitle":
		return 2
	}
	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if rest, ok := strings.CutPrefix(lower, prefix); ok {
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '9' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}
