package format

import (
	"fmt"
	"html"
	"strings"
)

// RenderHTML lays blocks out as an HTML fragment. Text is escaped, emphasis
// spans become <strong>, code blocks are highlighted with chroma.
func RenderHTML(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Kind {
		case KindHeading:
			fmt.Fprintf(&b, `<div class="block heading level-%d"><strong>%s</strong></div>`, blk.Level, html.EscapeString(blk.Text))
		case KindBullet, KindNestedBullet:
			marker := "•"
			if blk.Kind == KindNestedBullet {
				marker = "-"
			}
			fmt.Fprintf(&b, `<div class="block %s indent-%d"><span class="marker">%s</span><span>%s</span></div>`,
				blk.Kind, blk.Indent, marker, spansHTML(blk))
		case KindNumbered:
			fmt.Fprintf(&b, `<div class="block numbered-item"><span class="marker">%s.</span><span>%s</span></div>`,
				html.EscapeString(blk.Ordinal), spansHTML(blk))
		case KindCode:
			b.WriteString(codeHTML(blk))
		case KindSpacer:
			b.WriteString(`<div class="block spacer"></div>`)
		default:
			fmt.Fprintf(&b, `<p class="block paragraph">%s</p>`, spansHTML(blk))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func spansHTML(blk Block) string {
	if len(blk.Spans) == 0 {
		return html.EscapeString(blk.Text)
	}
	var b strings.Builder
	for _, s := range blk.Spans {
		if s.Emphasis {
			b.WriteString("<strong>")
			b.WriteString(html.EscapeString(s.Text))
			b.WriteString("</strong>")
			continue
		}
		b.WriteString(html.EscapeString(s.Text))
	}
	return b.String()
}

func codeHTML(blk Block) string {
	lang := blk.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	body, ok := highlight(blk.Text, lang, htmlCode)
	if !ok {
		body = "<pre><code>" + html.EscapeString(blk.Text) + "</code></pre>"
	}
	return fmt.Sprintf(`<div class="block code" data-language="%s"><div class="code-header">%s</div>%s</div>`,
		html.EscapeString(lang), html.EscapeString(strings.ToUpper(lang)), body)
}
