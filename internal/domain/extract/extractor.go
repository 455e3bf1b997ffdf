// Package extract turns PDF bytes into ordered text lines. The conversion
// engine consumes extracted lines, never PDF byte streams; the extractor is
// the boundary collaborator that owns glyph-to-text concerns.
package extract

import (
	"context"
	"errors"
	"strings"
)

// ErrNoTextContent indicates the document has no extractable text layer
// (typically a scanned-image PDF). OCR is out of scope, so this is a hard
// boundary for the engine.
var ErrNoTextContent = errors.New("el PDF no contiene texto extraible")

// Page is the extracted text of one PDF page.
type Page struct {
	Number int // 1-based
	Text   string
}

// RawLine is a single extracted line with its position in the document.
type RawLine struct {
	Page int // 1-based page number
	Line int // 1-based line index within the page
	Text string
}

// TextExtractor converts PDF bytes into per-page text.
type TextExtractor interface {
	Extract(ctx context.Context, pdf []byte) ([]Page, error)
}

// Lines flattens pages into ordered RawLines. Blank lines are dropped;
// leading whitespace is preserved because profiles use indentation to
// recognize description continuation lines.
func Lines(pages []Page) []RawLine {
	var out []RawLine
	for _, page := range pages {
		for i, text := range strings.Split(page.Text, "\n") {
			text = strings.TrimRight(text, "\r \t")
			if strings.TrimSpace(text) == "" {
				continue
			}
			out = append(out, RawLine{Page: page.Number, Line: i + 1, Text: text})
		}
	}
	return out
}
