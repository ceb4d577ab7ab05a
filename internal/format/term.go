package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle    = lipgloss.NewStyle().Bold(true).MarginTop(1)
	subHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	markerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	emphasisStyle   = lipgloss.NewStyle().Bold(true)
	codeLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	codeStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// RenderTerminal lays blocks out for a terminal of the given width.
// A width of zero or less disables wrapping.
func RenderTerminal(blocks []Block, width int) string {
	lines := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		switch blk.Kind {
		case KindHeading:
			style := headingStyle
			if blk.Level > 1 {
				style = subHeadingStyle
			}
			lines = append(lines, wrap(style, width, 0).Render(blk.Text))
		case KindBullet:
			lines = append(lines, listLine(markerStyle.Render("•"), spansTerm(blk), blk.Indent, width))
		case KindNestedBullet:
			lines = append(lines, listLine(markerStyle.Render("-"), spansTerm(blk), blk.Indent, width))
		case KindNumbered:
			lines = append(lines, listLine(markerStyle.Render(blk.Ordinal+"."), spansTerm(blk), 0, width))
		case KindCode:
			body, ok := highlight(blk.Text, blk.Language, terminalCode)
			if !ok {
				body = blk.Text
			}
			lines = append(lines, codeLabelStyle.Render(blk.Language), codeStyle.Render(strings.TrimRight(body, "\n")))
		case KindSpacer:
			lines = append(lines, "")
		default:
			lines = append(lines, wrap(lipgloss.NewStyle(), width, 0).Render(spansTerm(blk)))
		}
	}
	return strings.Join(lines, "\n")
}

func wrap(style lipgloss.Style, width, indent int) lipgloss.Style {
	if width > indent {
		return style.Width(width - indent)
	}
	return style
}

func listLine(marker, text string, indent, width int) string {
	pad := strings.Repeat("  ", indent)
	body := wrap(lipgloss.NewStyle(), width, len(pad)+lipgloss.Width(marker)+1).Render(text)
	return lipgloss.JoinHorizontal(lipgloss.Top, pad, marker, " ", body)
}

func spansTerm(blk Block) string {
	if len(blk.Spans) == 0 {
		return blk.Text
	}
	var b strings.Builder
	for _, s := range blk.Spans {
		if s.Emphasis {
			b.WriteString(emphasisStyle.Render(s.Text))
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
