package invisible

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAllValues(t *testing.T) {
	for n := 0; n <= MaxValue; n++ {
		s, err := Encode(n, Width)
		require.NoError(t, err, "encode %d", n)
		require.Equal(t, Width, utf8.RuneCountInString(s))
		got, ok := Decode(s)
		require.True(t, ok, "decode %d", n)
		require.Equal(t, n, got)
	}
}

func TestEncodeRejectsOverflow(t *testing.T) {
	_, err := Encode(MaxValue+1, Width)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = Encode(-1, Width)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = Encode(4, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestEncodeDigitOrder(t *testing.T) {
	s, err := Encode(6, Width)
	require.NoError(t, err)
	// 6 = 0 0 0 1 2 in base 4
	assert.Equal(t, "~0~0~0~1~2", Debug(s))
}

func TestDecodeRejectsForeignCodePoints(t *testing.T) {
	cases := []string{
		"",
		"\u200B\u200BX\u200B\u200B",
		"\uFEFF\u200B\u200B\u200B\u200B",
		"\u200B\u200B\u200B\u200B\u200E",
		"abc",
	}
	for _, c := range cases {
		_, ok := Decode(c)
		assert.False(t, ok, "Decode(%q)", Debug(c))
	}
}

func TestScanFindsRuns(t *testing.T) {
	tok, err := Encode(3, Width)
	require.NoError(t, err)
	text := "a\n//" + tok + "== FOO ==\nb\n// \u200B\u200B oops\n"

	tokens := Scan(text)
	require.Len(t, tokens, 2)
	assert.True(t, tokens[0].Valid)
	assert.Equal(t, 3, tokens[0].Value)
	assert.Equal(t, tok, text[tokens[0].Start:tokens[0].End])
	assert.False(t, tokens[1].Valid)
	assert.True(t, Contains(text))
	assert.False(t, Contains("// \u200B\u200B oops"))
}

func TestLineMark(t *testing.T) {
	tok, err := Encode(1, Width)
	require.NoError(t, err)

	_, mark := LineMark("func main() {")
	assert.Equal(t, MarkNone, mark)

	got, mark := LineMark("//" + tok + "=== MAIN ===")
	assert.Equal(t, MarkValid, mark)
	assert.Equal(t, 1, got.Value)

	_, mark = LineMark("//" + tok + "\u200B=== MAIN ===")
	assert.Equal(t, MarkCorrupt, mark)

	_, mark = LineMark("//" + tok + " x " + tok)
	assert.Equal(t, MarkCorrupt, mark)
}

func TestDebugLeavesOtherText(t *testing.T) {
	assert.Equal(t, "", Debug(""))
	assert.Equal(t, "// ~3 x", Debug("// \u2060 x"))
	assert.False(t, strings.ContainsRune(Debug("\u200D"), '\u200D'))
}

func TestStrip(t *testing.T) {
	tok, err := Encode(7, Width)
	require.NoError(t, err)
	assert.Equal(t, "// MAIN", Strip("//"+tok+" MAIN"))
	assert.Equal(t, "plain", Strip("plain"))
}
