// Package format turns raw assistant text into a sequence of typed blocks
// that a renderer can lay out. Every function here is pure: the same input
// always yields the same blocks and no input makes it fail.
package format

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindParagraph    Kind = "paragraph"
	KindHeading      Kind = "heading"
	KindBullet       Kind = "bullet"
	KindNestedBullet Kind = "nested-bullet"
	KindNumbered     Kind = "numbered-item"
	KindCode         Kind = "code"
	KindSpacer       Kind = "spacer"
)

// DefaultLanguage is the language of a fenced block that names none.
const DefaultLanguage = "text"

// Indentation levels for list blocks.
const (
	IndentBullet        = 1
	IndentSectionBullet = 2
	IndentNested        = 3
)

// Span is a run of block text, either plain or emphasized.
type Span struct {
	Text     string `json:"text"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Block is one classified unit of rendered text.
// Text is the concatenation of Spans with bold markers removed.
type Block struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text,omitempty"`
	Spans    []Span `json:"spans,omitempty"`
	Level    int    `json:"level,omitempty"`
	Indent   int    `json:"indent,omitempty"`
	Ordinal  string `json:"ordinal,omitempty"`
	Language string `json:"language,omitempty"`
}

var boldSpan = regexp.MustCompile(`\*\*(.+?)\*\*`)

// Emphasize splits text on matching **...** pairs. Unmatched markers stay
// in the text as literals.
func Emphasize(text string) []Span {
	if text == "" {
		return nil
	}
	matches := boldSpan.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Span{{Text: text}}
	}

	spans := make([]Span, 0, len(matches)*2+1)
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			spans = append(spans, Span{Text: text[pos:m[0]]})
		}
		spans = append(spans, Span{Text: text[m[2]:m[3]], Emphasis: true})
		pos = m[1]
	}
	if pos < len(text) {
		spans = append(spans, Span{Text: text[pos:]})
	}
	return spans
}

func joinSpans(spans []Span) string {
	if len(spans) == 1 {
		return spans[0].Text
	}
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// textBlock builds a block whose text has inline emphasis resolved.
func textBlock(kind Kind, raw string) Block {
	spans := Emphasize(raw)
	return Block{Kind: kind, Text: joinSpans(spans), Spans: spans}
}

// plainBlock builds a block whose text is kept verbatim.
func plainBlock(kind Kind, raw string) Block {
	b := Block{Kind: kind, Text: raw}
	if raw != "" {
		b.Spans = []Span{{Text: raw}}
	}
	return b
}

// splitLines splits on \r\n, \n and \r.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// boldLine reports whether line is exactly **inner** with a non-empty inner
// part that holds no further ** marker.
func boldLine(line string) (string, bool) {
	if len(line) < 5 || !strings.HasPrefix(line, "**") || !strings.HasSuffix(line, "**") {
		return "", false
	}
	inner := line[2 : len(line)-2]
	if strings.Contains(inner, "**") || strings.TrimSpace(inner) == "" {
		return "", false
	}
	return strings.TrimSpace(inner), true
}
