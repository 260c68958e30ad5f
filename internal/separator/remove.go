package separator

import (
	"strings"

	"github.com/kobzarvs/funcsep/internal/document"
	"github.com/kobzarvs/funcsep/internal/invisible"
	"github.com/kobzarvs/funcsep/internal/logger"
	"github.com/kobzarvs/funcsep/internal/scope"
)

// Removals returns the edits that take every banner in scope back out,
// restoring the blank lines recorded in its token. A line with a damaged token
// is deleted on its own.
func Removals(doc *document.Doc, sc scope.Scope) []document.Edit {
	type span struct {
		top, bottom int
		text        string
	}
	var spans []span
	eol := doc.EOL()

	for i := 0; i < doc.LineCount(); i++ {
		tok, mark := invisible.LineMark(doc.Line(i))
		switch mark {
		case invisible.MarkNone:
			continue
		case invisible.MarkCorrupt:
			if sc.Contains(i) {
				logger.Debug("removing damaged banner line", "line", i+1)
				spans = append(spans, span{top: i, bottom: i})
			}
			continue
		}

		top := i
		for top > 0 && doc.IsEmpty(top-1) {
			top--
		}
		bottom := i
		for bottom+1 < doc.LineCount() && doc.IsEmpty(bottom+1) && !isTrailingEmpty(doc, bottom+1) {
			bottom++
		}
		if !sc.ContainsAny(i, top, bottom) {
			continue
		}
		spans = append(spans, span{top: top, bottom: bottom, text: strings.Repeat(eol, tok.Value)})
	}

	var edits []document.Edit
	prevBottom := -1
	for _, s := range spans {
		if s.top <= prevBottom {
			continue
		}
		prevBottom = s.bottom
		edits = append(edits, doc.LineRangeEdit(s.top, s.bottom+1, s.text))
	}
	return edits
}

// isTrailingEmpty reports whether line is the empty line that follows a final
// newline. It has no terminator of its own and cannot be part of a blank run.
func isTrailingEmpty(doc *document.Doc, line int) bool {
	return line == doc.LineCount()-1 && doc.Line(line) == ""
}
