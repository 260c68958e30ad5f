// Package invisible stores small integers inside text using zero-width code
// points. A value is written as a fixed number of base-4 digits, most
// significant first, so it survives in a comment without being visible.
package invisible

import (
	"errors"
	"regexp"
	"strings"
)

const (
	// Width is the digit count of every token written into a banner.
	Width = 5
	// MaxValue is the largest value that fits in Width digits.
	MaxValue = 1<<(2*Width) - 1

	maxDigits = 15
)

var ErrOutOfRange = errors.New("value does not fit in token width")

// digits[i] is the code point for base-4 digit i.
var digits = [4]rune{
	'\u200B', // zero width space
	'\u200C', // zero width non-joiner
	'\u200D', // zero width joiner
	'\u2060', // word joiner
}

var runPattern = regexp.MustCompile("[\u200B\u200C\u200D\u2060]+")

func digitValue(r rune) int {
	for i, d := range digits {
		if d == r {
			return i
		}
	}
	return -1
}

// Encode renders n as exactly width invisible digits.
func Encode(n, width int) (string, error) {
	if n < 0 || width <= 0 || width > maxDigits {
		return "", ErrOutOfRange
	}
	out := make([]rune, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = digits[n&3]
		n >>= 2
	}
	if n != 0 {
		return "", ErrOutOfRange
	}
	return string(out), nil
}

// Decode reverses Encode. Any code point outside the digit set makes the whole
// token invalid rather than yielding a partial number.
func Decode(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	count := 0
	for _, r := range s {
		d := digitValue(r)
		if d < 0 {
			return 0, false
		}
		count++
		if count > maxDigits {
			return 0, false
		}
		n = n*4 + d
	}
	return n, true
}

// Token is one maximal run of digit code points found in a text.
type Token struct {
	Start int // byte offset
	End   int
	Value int
	Valid bool // run is exactly Width digits long
}

// Scan returns every digit run in text in order of appearance.
func Scan(text string) []Token {
	locs := runPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	tokens := make([]Token, 0, len(locs))
	for _, loc := range locs {
		tok := Token{Start: loc[0], End: loc[1]}
		run := text[loc[0]:loc[1]]
		if len([]rune(run)) == Width {
			if v, ok := Decode(run); ok {
				tok.Value = v
				tok.Valid = true
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Contains reports whether text holds at least one valid token.
func Contains(text string) bool {
	for _, tok := range Scan(text) {
		if tok.Valid {
			return true
		}
	}
	return false
}

type Mark int

const (
	MarkNone Mark = iota
	MarkValid
	MarkCorrupt
)

// LineMark classifies a single line. A line is a valid mark when it carries
// exactly one run and that run is a well formed token; any other run layout is
// corrupt.
func LineMark(line string) (Token, Mark) {
	tokens := Scan(line)
	switch {
	case len(tokens) == 0:
		return Token{}, MarkNone
	case len(tokens) == 1 && tokens[0].Valid:
		return tokens[0], MarkValid
	default:
		return tokens[0], MarkCorrupt
	}
}

// Debug makes the digits of s visible as ~0..~3 for logs and status lines.
func Debug(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		if d := digitValue(r); d >= 0 {
			b.WriteByte('~')
			b.WriteByte(byte('0' + d))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Strip removes every digit code point from s.
func Strip(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return digitValue(r) >= 0 }) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if digitValue(r) >= 0 {
			return -1
		}
		return r
	}, s)
}
