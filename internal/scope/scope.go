// Package scope turns editor selections into the set of lines an insert or
// remove pass may touch.
package scope

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kobzarvs/funcsep/internal/document"
)

type Selection struct {
	Start document.Position
	End   document.Position
}

func (s Selection) Empty() bool { return s.Start == s.End }

func (s Selection) normalized() Selection {
	if s.End.Line < s.Start.Line || (s.End.Line == s.Start.Line && s.End.Character < s.Start.Character) {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

// Range is an inclusive line range.
type Range struct {
	Start int
	End   int
}

// Scope is a sorted set of disjoint line ranges. An empty Scope places no
// restriction on lines.
type Scope []Range

// Compute derives the scope of a set of selections. Carets are ignored, and a
// selection ending at column 0 of a later line does not include that line.
func Compute(sels []Selection) Scope {
	var ranges []Range
	for _, sel := range sels {
		if sel.Empty() {
			continue
		}
		sel = sel.normalized()
		end := sel.End.Line
		if sel.End.Character == 0 && end > sel.Start.Line {
			end--
		}
		ranges = append(ranges, Range{Start: sel.Start.Line, End: end})
	}
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	out := Scope{ranges[0]}
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s Scope) Contains(line int) bool {
	if len(s) == 0 {
		return true
	}
	i := sort.Search(len(s), func(i int) bool { return s[i].End >= line })
	return i < len(s) && s[i].Start <= line
}

// ContainsAny reports whether any of lines is in scope.
func (s Scope) ContainsAny(lines ...int) bool {
	for _, l := range lines {
		if s.Contains(l) {
			return true
		}
	}
	return false
}

// Parse reads a command line selection. Lines are 1-based and columns 0-based:
// "12" selects line 12, "10-20" selects lines 10 through 20, and
// "10:4-20:0" is an explicit selection ending at the start of line 20.
func Parse(spec string) (Selection, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Selection{}, fmt.Errorf("empty selection")
	}
	from, to, isRange := strings.Cut(spec, "-")
	start, _, err := parsePoint(from)
	if err != nil {
		return Selection{}, fmt.Errorf("selection %q: %w", spec, err)
	}
	if !isRange {
		return Selection{Start: start, End: document.Position{Line: start.Line + 1}}, nil
	}
	end, endHasCol, err := parsePoint(to)
	if err != nil {
		return Selection{}, fmt.Errorf("selection %q: %w", spec, err)
	}
	if !endHasCol {
		end = document.Position{Line: end.Line + 1}
	}
	return Selection{Start: start, End: end}, nil
}

func parsePoint(s string) (document.Position, bool, error) {
	lineStr, colStr, hasCol := strings.Cut(strings.TrimSpace(s), ":")
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return document.Position{}, false, fmt.Errorf("bad line %q", lineStr)
	}
	p := document.Position{Line: line - 1}
	if hasCol {
		col, err := strconv.Atoi(colStr)
		if err != nil || col < 0 {
			return document.Position{}, false, fmt.Errorf("bad column %q", colStr)
		}
		p.Character = col
	}
	return p, hasCol, nil
}
