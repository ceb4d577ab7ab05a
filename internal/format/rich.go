package format

import (
	"regexp"
	"strings"
)

// section is the state carried between lines while classifying.
type section int

const (
	sectionNormal section = iota
	sectionBold
)

const (
	bulletMarker       = "•"
	nestedBulletMarker = "• •"
	dashMarker         = "-"
)

var numberedLine = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)

// Rich is the line-structured strategy for long-form answers: headings,
// bold sub-sections, bullets, nested bullets, numbered items and
// paragraphs, with inline emphasis resolved.
type Rich struct{}

func (Rich) Name() string { return "rich" }

func (Rich) Format(text string) []Block {
	var (
		blocks  []Block
		state   = sectionNormal
		pending bool
	)

	emit := func(b Block) {
		if pending {
			blocks = append(blocks, Block{Kind: KindSpacer})
			pending = false
		}
		blocks = append(blocks, b)
	}

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)

		if line == "" {
			// a spacer only survives when a non-empty line follows
			pending = len(blocks) > 0
			state = sectionNormal
			continue
		}

		if inner, ok := boldLine(line); ok {
			emit(Block{Kind: KindHeading, Text: inner, Spans: []Span{{Text: inner}}, Level: 1})
			state = sectionNormal
			continue
		}

		if m := numberedLine.FindStringSubmatch(line); m != nil {
			b := textBlock(KindNumbered, strings.TrimSpace(m[2]))
			b.Ordinal = m[1]
			emit(b)
			state = sectionNormal
			continue
		}

		if strings.HasPrefix(line, bulletMarker) && !strings.HasPrefix(line, nestedBulletMarker) {
			rest := strings.TrimSpace(strings.TrimPrefix(line, bulletMarker))
			if inner, ok := boldLine(rest); ok {
				emit(Block{Kind: KindHeading, Text: inner, Spans: []Span{{Text: inner}}, Level: 2})
				state = sectionBold
				continue
			}
			b := textBlock(KindBullet, rest)
			b.Indent = IndentBullet
			if state == sectionBold {
				b.Indent = IndentSectionBullet
			}
			emit(b)
			continue
		}

		if rest, ok := nestedBullet(line); ok {
			b := textBlock(KindNestedBullet, rest)
			b.Indent = IndentNested
			emit(b)
			continue
		}

		emit(textBlock(KindParagraph, line))
		state = sectionNormal
	}

	return blocks
}

// nestedBullet strips a "-" or "• •" marker.
func nestedBullet(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, nestedBulletMarker):
		return strings.TrimSpace(strings.TrimPrefix(line, nestedBulletMarker)), true
	case strings.HasPrefix(line, dashMarker):
		return strings.TrimSpace(strings.TrimPrefix(line, dashMarker)), true
	}
	return "", false
}
