package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(blocks []Block) []Kind {
	out := make([]Kind, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Kind)
	}
	return out
}

func TestFormat_Empty(t *testing.T) {
	assert.Empty(t, Format(""))
	assert.Empty(t, Format("\n\n  \n"))
}

func TestFormat_Heading(t *testing.T) {
	blocks := Format("**Header**")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindHeading, blocks[0].Kind)
	assert.Equal(t, "Header", blocks[0].Text)
	assert.Equal(t, 1, blocks[0].Level)
}

func TestFormat_BoldBulletOpensSection(t *testing.T) {
	blocks := Format("• **Sub**\n• item one")
	require.Len(t, blocks, 2)

	assert.Equal(t, KindHeading, blocks[0].Kind)
	assert.Equal(t, "Sub", blocks[0].Text)
	assert.Equal(t, 2, blocks[0].Level)

	assert.Equal(t, KindBullet, blocks[1].Kind)
	assert.Equal(t, "item one", blocks[1].Text)
	assert.Equal(t, IndentSectionBullet, blocks[1].Indent)
}

func TestFormat_BulletOutsideSection(t *testing.T) {
	blocks := Format("• item one")
	require.Len(t, blocks, 1)
	assert.Equal(t, IndentBullet, blocks[0].Indent)
}

func TestFormat_SectionEndsOnParagraphAndBlankLine(t *testing.T) {
	blocks := Format("• **Sub**\n• a\nplain\n• b\n• **Next**\n• c\n\n• d")
	require.Equal(t,
		[]Kind{KindHeading, KindBullet, KindParagraph, KindBullet, KindHeading, KindBullet, KindSpacer, KindBullet},
		kinds(blocks))

	assert.Equal(t, IndentSectionBullet, blocks[1].Indent)
	assert.Equal(t, IndentBullet, blocks[3].Indent)
	assert.Equal(t, IndentSectionBullet, blocks[5].Indent)
	assert.Equal(t, IndentBullet, blocks[7].Indent)
}

func TestFormat_HeadingEndsSection(t *testing.T) {
	blocks := Format("• **Sub**\n**Top**\n• a")
	require.Len(t, blocks, 3)
	assert.Equal(t, IndentBullet, blocks[2].Indent)
}

func TestFormat_NumberedItems(t *testing.T) {
	blocks := Format("1. First\n2. Second")
	require.Len(t, blocks, 2)
	assert.Equal(t, KindNumbered, blocks[0].Kind)
	assert.Equal(t, "1", blocks[0].Ordinal)
	assert.Equal(t, "First", blocks[0].Text)
	assert.Equal(t, "2", blocks[1].Ordinal)
	assert.Equal(t, "Second", blocks[1].Text)
}

func TestFormat_NumberedItemsAreNotRenumbered(t *testing.T) {
	blocks := Format("3. c\n1. a\n007. b")
	require.Len(t, blocks, 3)
	assert.Equal(t, "3", blocks[0].Ordinal)
	assert.Equal(t, "1", blocks[1].Ordinal)
	assert.Equal(t, "007", blocks[2].Ordinal)
}

func TestFormat_NumberedNeedsWhitespace(t *testing.T) {
	blocks := Format("1.5 litres")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindParagraph, blocks[0].Kind)
}

func TestFormat_NumberedItemEmphasis(t *testing.T) {
	blocks := Format("1. **Jeepneys** run all day")
	require.Len(t, blocks, 1)
	assert.Equal(t, "Jeepneys run all day", blocks[0].Text)
	assert.Equal(t, []Span{{Text: "Jeepneys", Emphasis: true}, {Text: " run all day"}}, blocks[0].Spans)
}

func TestFormat_NumberedItemEndsSection(t *testing.T) {
	blocks := Format("• **Sub**\n1. one\n• a")
	require.Len(t, blocks, 3)
	assert.Equal(t, IndentBullet, blocks[2].Indent)
}

func TestFormat_NestedBullets(t *testing.T) {
	blocks := Format("• top\n- dash\n• • dotted")
	require.Equal(t, []Kind{KindBullet, KindNestedBullet, KindNestedBullet}, kinds(blocks))
	assert.Equal(t, "dash", blocks[1].Text)
	assert.Equal(t, "dotted", blocks[2].Text)
	assert.Greater(t, blocks[1].Indent, blocks[0].Indent)
	assert.Greater(t, blocks[2].Indent, IndentSectionBullet)
}

func TestFormat_NestedBulletKeepsSection(t *testing.T) {
	blocks := Format("• **Sub**\n- detail\n• a")
	require.Len(t, blocks, 3)
	assert.Equal(t, IndentSectionBullet, blocks[2].Indent)
}

func TestFormat_Spacers(t *testing.T) {
	want := []Kind{KindParagraph, KindSpacer, KindParagraph}

	blocks := Format("a\n\nb")
	require.Equal(t, want, kinds(blocks))
	assert.Equal(t, "a", blocks[0].Text)
	assert.Equal(t, "b", blocks[2].Text)

	assert.Equal(t, want, kinds(Format("a\n\n\nb")))
	assert.Equal(t, want, kinds(Format("a\n \n\t\nb")))
}

func TestFormat_NoSpacerAtBoundaries(t *testing.T) {
	assert.Equal(t, []Kind{KindParagraph}, kinds(Format("\n\na\n\n")))
}

func TestFormat_LineBreakVariants(t *testing.T) {
	want := []Kind{KindParagraph, KindSpacer, KindParagraph, KindParagraph}
	assert.Equal(t, want, kinds(Format("a\r\n\r\nb\rc")))
}

func TestFormat_HeadingWinsOverBullet(t *testing.T) {
	blocks := Format("**• not a bullet**")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindHeading, blocks[0].Kind)
	assert.Equal(t, "• not a bullet", blocks[0].Text)
}

func TestFormat_TwoBoldRunsIsNotAHeading(t *testing.T) {
	blocks := Format("**a** and **b**")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindParagraph, blocks[0].Kind)
	assert.Equal(t, "a and b", blocks[0].Text)
}

func TestFormat_UnclosedBoldIsLiteral(t *testing.T) {
	blocks := Format("this is **not closed")
	require.Len(t, blocks, 1)
	assert.Equal(t, "this is **not closed", blocks[0].Text)
	assert.Equal(t, []Span{{Text: "this is **not closed"}}, blocks[0].Spans)
}

func TestFormat_Deterministic(t *testing.T) {
	inputs := []string{
		"",
		"**Header**\n• **Sub**\n• x\n- y\n\n\n1. z\n```go\nfmt.Println()\n```",
		"****\n•\n-\n1.\n**",
		"\x00\xff\xfe**•",
	}
	for _, in := range inputs {
		assert.Equal(t, Format(in), Format(in), "input %q", in)
	}
}

func TestFormat_DegenerateInputs(t *testing.T) {
	blocks := Format("****\n•\n-\n**")
	require.Equal(t, []Kind{KindParagraph, KindBullet, KindNestedBullet, KindParagraph}, kinds(blocks))
	assert.Equal(t, "****", blocks[0].Text)
	assert.Equal(t, "", blocks[1].Text)
}
