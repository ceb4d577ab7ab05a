package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmphasize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{"empty", "", nil},
		{"plain", "hello", []Span{{Text: "hello"}}},
		{"middle", "a **b** c", []Span{{Text: "a "}, {Text: "b", Emphasis: true}, {Text: " c"}}},
		{"whole", "**b**", []Span{{Text: "b", Emphasis: true}}},
		{"two", "**a****b**", []Span{{Text: "a", Emphasis: true}, {Text: "b", Emphasis: true}}},
		{"unmatched tail", "**a** **b", []Span{{Text: "a", Emphasis: true}, {Text: " **b"}}},
		{"empty pair", "a **** b", []Span{{Text: "a **** b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Emphasize(tt.in))
		})
	}
}

func TestFenced_SplitsProseAndCode(t *testing.T) {
	text := "Here's some code:\n\n```go\nfunc main() {}\n```\n\nAnd **some** text after."
	blocks := Fenced{}.Format(text)
	require.Equal(t, []Kind{KindParagraph, KindCode, KindParagraph}, kinds(blocks))

	assert.Equal(t, "Here's some code:", blocks[0].Text)
	assert.Equal(t, "func main() {}", blocks[1].Text)
	assert.Equal(t, "go", blocks[1].Language)
	assert.Equal(t, "And some text after.", blocks[2].Text)
}

func TestFenced_DefaultLanguage(t *testing.T) {
	blocks := Fenced{}.Format("```\nraw\n```")
	require.Len(t, blocks, 1)
	assert.Equal(t, DefaultLanguage, blocks[0].Language)
	assert.Equal(t, "raw", blocks[0].Text)
}

func TestFenced_DoesNotApplyLineRules(t *testing.T) {
	blocks := Fenced{}.Format("**Title**\n• one\n1. two")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindParagraph, blocks[0].Kind)
	assert.Equal(t, "Title\n• one\n1. two", blocks[0].Text)
}

func TestFenced_UnclosedFenceIsProse(t *testing.T) {
	blocks := Fenced{}.Format("look ```go\nnever closed")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindParagraph, blocks[0].Kind)
}

func TestFenced_Empty(t *testing.T) {
	assert.Empty(t, Fenced{}.Format(""))
}

func TestPlain_NoEmphasisNoSection(t *testing.T) {
	blocks := Plain{}.Format("**Sources**\n• **a** doc\n• b\n3.c")
	require.Equal(t, []Kind{KindHeading, KindBullet, KindBullet, KindNumbered}, kinds(blocks))
	assert.Equal(t, "**a** doc", blocks[1].Text)
	assert.Equal(t, IndentBullet, blocks[2].Indent)
	assert.Equal(t, "3", blocks[3].Ordinal)
	assert.Equal(t, "c", blocks[3].Text)
}

func TestPlain_Spacers(t *testing.T) {
	assert.Equal(t, []Kind{KindParagraph, KindSpacer, KindParagraph}, kinds(Plain{}.Format("\na\n\n\nb\n")))
}

func TestByName(t *testing.T) {
	for _, name := range []string{"rich", "Fenced", " plain "} {
		s, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(strings.TrimSpace(name)), s.Name())
	}
	_, err := ByName("markdown")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	s, err := Resolve("auto", "```sh\nls\n```")
	require.NoError(t, err)
	assert.Equal(t, "fenced", s.Name())

	s, err = Resolve("", "**Plan**")
	require.NoError(t, err)
	assert.Equal(t, "rich", s.Name())

	s, err = Resolve("PLAIN", "**Plan**")
	require.NoError(t, err)
	assert.Equal(t, "plain", s.Name())

	_, err = Resolve("html", "x")
	assert.Error(t, err)
}

func TestForMessage(t *testing.T) {
	tests := []struct {
		role, kind, content string
		want                string
	}{
		{"assistant", "text", "**Plan**\n• a", "rich"},
		{"assistant", "", "see\n```go\nx\n```", "fenced"},
		{"assistant", "search-status", "🔍 Searching documents...", "plain"},
		{"assistant", "sources", "Sources:\n• a.pdf", "plain"},
		{"user", "text", "hello", "fenced"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ForMessage(tt.role, tt.kind, tt.content).Name(), "%s/%s", tt.role, tt.kind)
	}
}

func TestRenderHTML(t *testing.T) {
	out := RenderHTML(Format("**Plan** <x>\n• **bold** & more\n\n1. one"))
	assert.Contains(t, out, "&lt;x&gt;")
	assert.Contains(t, out, "<strong>bold</strong> &amp; more")
	assert.Contains(t, out, `class="block spacer"`)
	assert.Contains(t, out, `<span class="marker">1.</span>`)

	code := RenderHTML(Fenced{}.Format("```go\nfmt.Println(\"<hi>\")\n```"))
	assert.Contains(t, code, `data-language="go"`)
	assert.NotContains(t, code, "<hi>")
	assert.NotContains(t, code, "<html")
	assert.NotContains(t, code, "<body")
	assert.NotContains(t, code, "<style")
	assert.Contains(t, code, "<pre")
}

func TestRenderTerminal(t *testing.T) {
	out := RenderTerminal(Format("**Plan**\n• step\n1. first"), 60)
	assert.Contains(t, out, "Plan")
	assert.Contains(t, out, "step")
	assert.Contains(t, out, "first")
}
