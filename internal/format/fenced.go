package format

import (
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("```([A-Za-z0-9_+#.-]*)[ \t]*\r?\n((?s:.*?))```")

// Fenced is the two-way strategy for code-heavy text: fenced code becomes
// code blocks and everything between fences becomes one paragraph per
// segment. Line rules are not applied inside prose segments.
type Fenced struct{}

func (Fenced) Name() string { return "fenced" }

func (Fenced) Format(text string) []Block {
	var blocks []Block

	prose := func(seg string) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			return
		}
		blocks = append(blocks, textBlock(KindParagraph, seg))
	}

	pos := 0
	for _, m := range codeFence.FindAllStringSubmatchIndex(text, -1) {
		prose(text[pos:m[0]])

		lang := text[m[2]:m[3]]
		if lang == "" {
			lang = DefaultLanguage
		}
		code := strings.TrimSpace(text[m[4]:m[5]])
		blocks = append(blocks, Block{Kind: KindCode, Text: code, Language: lang})
		pos = m[1]
	}
	prose(text[pos:])

	return blocks
}
