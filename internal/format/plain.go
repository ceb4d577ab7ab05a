package format

import (
	"regexp"
	"strings"
)

var plainNumbered = regexp.MustCompile(`^(\d+)\.\s*(.*)$`)

// Plain is the list-only strategy used for status and sources notices. It
// knows headings, bullets, nested bullets and numbered items but carries no
// section state and leaves inline markers untouched.
type Plain struct{}

func (Plain) Name() string { return "plain" }

func (Plain) Format(text string) []Block {
	var (
		blocks  []Block
		pending bool
	)

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			pending = len(blocks) > 0
			continue
		}
		if pending {
			blocks = append(blocks, Block{Kind: KindSpacer})
			pending = false
		}

		if inner, ok := boldLine(line); ok {
			b := plainBlock(KindHeading, inner)
			b.Level = 1
			blocks = append(blocks, b)
			continue
		}
		if strings.HasPrefix(line, bulletMarker) && !strings.HasPrefix(line, nestedBulletMarker) {
			b := plainBlock(KindBullet, strings.TrimSpace(strings.TrimPrefix(line, bulletMarker)))
			b.Indent = IndentBullet
			blocks = append(blocks, b)
			continue
		}
		if rest, ok := nestedBullet(line); ok {
			b := plainBlock(KindNestedBullet, rest)
			b.Indent = IndentNested
			blocks = append(blocks, b)
			continue
		}
		if m := plainNumbered.FindStringSubmatch(line); m != nil {
			b := plainBlock(KindNumbered, m[2])
			b.Ordinal = m[1]
			blocks = append(blocks, b)
			continue
		}
		blocks = append(blocks, plainBlock(KindParagraph, line))
	}

	return blocks
}
