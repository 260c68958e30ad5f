// Package separator plans the edits that add and remove function banners.
// Planning is pure: the same document and options always give the same edits,
// and nothing is applied here.
package separator

import (
	"strings"

	"github.com/kobzarvs/funcsep/internal/config"
	"github.com/kobzarvs/funcsep/internal/document"
	"github.com/kobzarvs/funcsep/internal/grammar"
	"github.com/kobzarvs/funcsep/internal/invisible"
	"github.com/kobzarvs/funcsep/internal/logger"
	"github.com/kobzarvs/funcsep/internal/scope"
	"github.com/kobzarvs/funcsep/internal/treesitter"
)

// Insertions returns one edit per function that should get a banner. Each edit
// replaces the blank lines directly above the function with the configured
// blank lines around a banner whose token records how many blank lines were
// replaced.
func Insertions(doc *document.Doc, profile grammar.Profile, fns []treesitter.Function, sc scope.Scope, opts config.Separator) []document.Edit {
	if profile.LineComment == "" || len(fns) == 0 {
		return nil
	}
	eol := doc.EOL()
	longest := -1

	var edits []document.Edit
	lastLine := -1
	for _, fn := range treesitter.SortByPosition(fns) {
		start := doc.PositionAt(fn.StartBody).Line
		if start == lastLine {
			continue
		}
		lastLine = start

		if !sc.Contains(start) {
			continue
		}
		if fn.Nested && !opts.IncludeNested {
			continue
		}
		end := doc.PositionAt(fn.EndBody).Line
		if end-start < opts.MinFunctionHeight {
			continue
		}

		// The run replaced by the banner holds only empty lines, so removal
		// can write it back as plain line endings.
		above := start - 1
		for above >= 0 && doc.IsEmpty(above) {
			above--
		}
		prev := above
		for prev >= 0 && doc.IsBlank(prev) {
			prev--
		}
		if prev >= 0 && isComment(doc.Line(prev), profile) {
			logger.Debug("banner skipped, comment above", "function", fn.Name, "line", start+1)
			continue
		}
		if !uniformEndings(doc, above+1, start, eol) {
			logger.Debug("banner skipped, mixed line endings above", "function", fn.Name, "line", start+1)
			continue
		}
		blanks := start - (above + 1)
		token, err := invisible.Encode(blanks, invisible.Width)
		if err != nil {
			logger.Warn("banner skipped, blank run too long", "function", fn.Name, "line", start+1, "blanks", blanks)
			continue
		}

		fnLine := doc.Line(start)
		indent := strings.Repeat(" ", max(opts.Indent, 0))
		indentCol := len(indent)
		if opts.Indent < 0 {
			indent = leadingWhitespace(fnLine)
			indentCol = displayWidth(indent, opts.TabWidth)
		}

		var width int
		switch opts.WidthMode {
		case config.WidthFixed:
			width = opts.FixedWidth
		case config.WidthLongest:
			if longest < 0 {
				longest = longestLine(doc, opts.TabWidth)
			}
			width = longest
			if opts.FixedWidth > 0 {
				width = min(width, opts.FixedWidth)
			}
		default:
			width = displayWidth(fnLine, opts.TabWidth)
		}

		name := DisplayName(fn.Name, opts)
		g := Layout(indentCol, width, displayWidth(profile.LineComment, opts.TabWidth), displayWidth(name, opts.TabWidth))

		var b strings.Builder
		b.WriteString(strings.Repeat(eol, opts.BlankLinesAbove))
		b.WriteString(indent)
		b.WriteString(profile.LineComment)
		b.WriteString(token)
		b.WriteString(fillCells(opts.Fill, g.Left))
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString(" ")
		b.WriteString(fillCells(opts.Fill, g.Right))
		b.WriteString(eol)
		b.WriteString(strings.Repeat(eol, opts.BlankLinesBelow))

		edits = append(edits, doc.LineRangeEdit(above+1, start, b.String()))
	}
	return edits
}

// uniformEndings reports whether lines [from, to) all end with eol.
func uniformEndings(doc *document.Doc, from, to int, eol string) bool {
	for i := from; i < to; i++ {
		if doc.Terminator(i) != eol {
			return false
		}
	}
	return true
}

// isComment reports whether line already reads as a comment in the profile's
// language, or carries a token. Either way a banner would double up.
func isComment(line string, profile grammar.Profile) bool {
	if len(invisible.Scan(line)) > 0 {
		return true
	}
	trimmed := strings.TrimSpace(line)
	if profile.LineComment != "" && strings.HasPrefix(trimmed, profile.LineComment) {
		return true
	}
	open, closing := profile.OpenComment, profile.CloseComment
	if open == "" || closing == "" {
		return false
	}
	if open == closing {
		return strings.Count(trimmed, open)%2 == 1
	}
	hasOpen := strings.Contains(trimmed, open)
	hasClose := strings.Contains(trimmed, closing)
	return hasOpen != hasClose
}

func longestLine(doc *document.Doc, tabWidth int) int {
	w := 0
	for i := 0; i < doc.LineCount(); i++ {
		w = max(w, displayWidth(doc.Line(i), tabWidth))
	}
	return w
}
