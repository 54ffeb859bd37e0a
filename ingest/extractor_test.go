package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `חוק המתווכים במקרקעין, התשנ״ו–1996

סעיף 9(ב1)
הזמנה בבלעדיות תהיה לתקופה קצובה; לא צוינה תקופה, תסתיים הבלעדיות בתום תשעה חודשים.

סעיף 14
מתווך במקרקעין יהיה זכאי לדמי תיווך אם מילא אחר התנאים שנקבעו בחוק.`

func TestExtractBlocks(t *testing.T) {
	blocks := ExtractBlocks("part1-2020", 14, samplePage)
	require.Len(t, blocks, 3)

	for i, b := range blocks {
		assert.Equal(t, "part1-2020", b.DocID)
		assert.Equal(t, 14, b.PageNumber)
		assert.NotEmpty(t, b.Text)
		assert.Equal(t, strings.TrimSpace(b.Text), b.Text)
		assert.Equal(t, b.Text, samplePage[b.CharStart:b.CharEnd], "block %d span must slice back to its text", i)
	}

	assert.Equal(t, "p14-b00", blocks[0].BlockID)
	assert.Equal(t, "p14-b01", blocks[1].BlockID)
	assert.Equal(t, "p14-b02", blocks[2].BlockID)
}

func TestExtractBlocksSectionHints(t *testing.T) {
	blocks := ExtractBlocks("part1-2020", 14, samplePage)
	require.Len(t, blocks, 3)

	// the statute heading is its own hint
	assert.Equal(t, "חוק המתווכים במקרקעין, התשנ״ו–1996", blocks[0].SectionHint)

	// section blocks inherit the law context
	assert.Equal(t, "חוק המתווכים במקרקעין, התשנ״ו–1996 §9(ב1)", blocks[1].SectionHint)
	assert.Equal(t, "חוק המתווכים במקרקעין, התשנ״ו–1996 §14", blocks[2].SectionHint)
}

func TestExtractBlocksSectionWithoutLawContext(t *testing.T) {
	blocks := ExtractBlocks("part1-2020", 30, "סעיף 12\nהצעה שנתקבלה מקימה חוזה.")
	require.Len(t, blocks, 1)
	assert.Equal(t, "סעיף 12", blocks[0].SectionHint)
}

func TestExtractBlocksHintFallsBackToFirstLine(t *testing.T) {
	blocks := ExtractBlocks("part1-2020", 5, "מבוא לספר\nתוכן כללי על הבחינה.")
	require.Len(t, blocks, 1)
	assert.Equal(t, "מבוא לספר", blocks[0].SectionHint)
}

func TestExtractBlocksHintGenericForLongFirstLine(t *testing.T) {
	long := strings.Repeat("מילים רבות מאוד ", 10)
	blocks := ExtractBlocks("part1-2020", 5, long)
	require.Len(t, blocks, 1)
	assert.Equal(t, "הספר", blocks[0].SectionHint)
}

func TestExtractBlocksSkipsEmpty(t *testing.T) {
	assert.Empty(t, ExtractBlocks("part1-2020", 1, "\n\n   \n\n"))
	assert.Empty(t, ExtractBlocks("part1-2020", 1, ""))
}

func TestPageSHA(t *testing.T) {
	a := PageSHA("טקסט")
	b := PageSHA("טקסט")
	c := PageSHA("טקסט אחר")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
