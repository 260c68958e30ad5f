package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	d := New("one\r\ntwo\r\n\r\nfour")
	require.Equal(t, 4, d.LineCount())
	assert.Equal(t, "\r\n", d.EOL())
	assert.Equal(t, []string{"one", "two", "", "four"}, d.Lines())
	assert.True(t, d.IsBlank(2))
	assert.False(t, d.IsBlank(3))
	assert.Equal(t, 5, d.LineStart(1))
	assert.Equal(t, 8, d.LineEnd(1))
	assert.Equal(t, len(d.Text()), d.LineStart(4))
}

func TestTrailingNewlineOpensLine(t *testing.T) {
	d := New("a\nb\n")
	assert.Equal(t, 3, d.LineCount())
	assert.Equal(t, "", d.Line(2))
	assert.Equal(t, "\n", d.EOL())
	assert.Equal(t, 1, New("").LineCount())
}

func TestPositionRoundTrip(t *testing.T) {
	d := New("ab\ncde\n\nf")
	for off := 0; off <= len(d.Text()); off++ {
		p := d.PositionAt(off)
		assert.Equal(t, off, d.OffsetAt(p), "offset %d -> %+v", off, p)
	}
	assert.Equal(t, Position{Line: 1, Character: 2}, d.PositionAt(5))
	assert.Equal(t, Position{Line: 3, Character: 1}, d.PositionAt(100))
}

func TestApply(t *testing.T) {
	text := "0123456789"
	out, err := Apply(text, []Edit{
		{Start: 8, End: 10, Text: "xy"},
		{Start: 0, End: 0, Text: "<"},
		{Start: 2, End: 5, Text: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "<01567xy", out)
}

func TestApplyRejectsOverlap(t *testing.T) {
	text := "0123456789"
	out, err := Apply(text, []Edit{
		{Start: 1, End: 5, Text: "a"},
		{Start: 4, End: 6, Text: "b"},
	})
	assert.ErrorIs(t, err, ErrOverlap)
	assert.Equal(t, text, out)

	_, err = Apply(text, []Edit{{Start: 3, End: 20}})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestLineRangeEdit(t *testing.T) {
	d := New("a\n\n\nb\n")
	e := d.LineRangeEdit(1, 3, "X\n")
	out, err := Apply(d.Text(), []Edit{e})
	require.NoError(t, err)
	assert.Equal(t, "a\nX\nb\n", out)
}

func TestIsEmptyAndTerminator(t *testing.T) {
	d := New("a\n  \r\n\nlast")
	assert.False(t, d.IsEmpty(0))
	assert.False(t, d.IsEmpty(1), "whitespace is not empty")
	assert.True(t, d.IsBlank(1))
	assert.True(t, d.IsEmpty(2))
	assert.False(t, d.IsEmpty(9))

	assert.Equal(t, "\n", d.Terminator(0))
	assert.Equal(t, "\r\n", d.Terminator(1))
	assert.Equal(t, "\n", d.Terminator(2))
	assert.Equal(t, "", d.Terminator(3))
	assert.Equal(t, "", d.Terminator(-1))
}
