// Package document is a read-only snapshot of a text buffer with line and
// offset bookkeeping, plus batch edit application.
package document

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Position is a zero-based line and byte column.
type Position struct {
	Line      int
	Character int
}

type Doc struct {
	text       string
	lineStarts []int
	eol        string
}

func New(text string) *Doc {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	eol := "\n"
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		eol = "\r\n"
	}
	return &Doc{text: text, lineStarts: starts, eol: eol}
}

func (d *Doc) Text() string { return d.text }

// LineCount counts lines the way editors do: a trailing newline opens a final
// empty line.
func (d *Doc) LineCount() int { return len(d.lineStarts) }

// EOL is the line ending used by the first line break, "\n" by default.
func (d *Doc) EOL() string { return d.eol }

// LineStart returns the offset of line i. LineStart(LineCount()) is len(text).
func (d *Doc) LineStart(i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(d.lineStarts) {
		return len(d.text)
	}
	return d.lineStarts[i]
}

// LineEnd returns the offset just before the line terminator of line i.
func (d *Doc) LineEnd(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(d.lineStarts)-1 {
		return len(d.text)
	}
	end := d.lineStarts[i+1] - 1
	if end > d.lineStarts[i] && d.text[end-1] == '\r' {
		end--
	}
	return end
}

// Line returns the text of line i without its terminator.
func (d *Doc) Line(i int) string {
	if i < 0 || i >= len(d.lineStarts) {
		return ""
	}
	return d.text[d.lineStarts[i]:d.LineEnd(i)]
}

func (d *Doc) IsBlank(i int) bool {
	return strings.TrimSpace(d.Line(i)) == ""
}

// IsEmpty reports whether line i holds nothing but its terminator.
func (d *Doc) IsEmpty(i int) bool {
	return i >= 0 && i < len(d.lineStarts) && d.LineStart(i) == d.LineEnd(i)
}

// Terminator returns the line ending of line i: "\n", "\r\n", or "" for the
// last line.
func (d *Doc) Terminator(i int) string {
	if i < 0 || i >= len(d.lineStarts) {
		return ""
	}
	return d.text[d.LineEnd(i):d.LineStart(i+1)]
}

func (d *Doc) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.text) {
		offset = len(d.text)
	}
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
	return Position{Line: line, Character: offset - d.lineStarts[line]}
}

func (d *Doc) OffsetAt(p Position) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(d.lineStarts) {
		return len(d.text)
	}
	start := d.lineStarts[p.Line]
	end := d.LineEnd(p.Line)
	off := start + p.Character
	if off > end {
		off = end
	}
	if off < start {
		off = start
	}
	return off
}

// Lines splits the snapshot into line texts without terminators.
func (d *Doc) Lines() []string {
	out := make([]string, d.LineCount())
	for i := range out {
		out[i] = d.Line(i)
	}
	return out
}

// Edit replaces text[Start:End] with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d,%d)=%q", e.Start, e.End, e.Text)
}

// LineRangeEdit replaces whole lines [from, to) including their terminators.
func (d *Doc) LineRangeEdit(from, to int, text string) Edit {
	return Edit{Start: d.LineStart(from), End: d.LineStart(to), Text: text}
}

var (
	ErrOverlap     = errors.New("edits overlap")
	ErrOutOfBounds = errors.New("edit out of bounds")
)

// Apply applies a batch of edits atomically: on error text is returned
// unchanged. Edits are given in any order; they must not overlap, although
// insertions may touch the boundary of a neighbour.
func Apply(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	prevEnd := 0
	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(text) {
			return text, fmt.Errorf("%w: %s", ErrOutOfBounds, e)
		}
		if i > 0 && e.Start < prevEnd {
			return text, fmt.Errorf("%w: %s", ErrOverlap, e)
		}
		prevEnd = e.End
	}
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, e := range sorted {
		b.WriteString(text[pos:e.Start])
		b.WriteString(e.Text)
		pos = e.End
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}
