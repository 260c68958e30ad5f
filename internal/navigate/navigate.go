// Package navigate moves between banners, within one document and across the
// documents of a workspace.
package navigate

import (
	"context"
	"fmt"

	"github.com/kobzarvs/funcsep/internal/document"
	"github.com/kobzarvs/funcsep/internal/invisible"
	"github.com/kobzarvs/funcsep/internal/logger"
)

type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// AdjacentMark returns the nearest line strictly below (Down) or above (Up)
// from that carries a valid token.
func AdjacentMark(doc *document.Doc, from int, dir Direction) (int, bool) {
	if dir == Up {
		for i := min(from, doc.LineCount()) - 1; i >= 0; i-- {
			if isMark(doc.Line(i)) {
				return i, true
			}
		}
		return 0, false
	}
	for i := max(from+1, 0); i < doc.LineCount(); i++ {
		if isMark(doc.Line(i)) {
			return i, true
		}
	}
	return 0, false
}

// Marks lists every line with a valid token.
func Marks(doc *document.Doc) []int {
	var out []int
	for i := 0; i < doc.LineCount(); i++ {
		if isMark(doc.Line(i)) {
			out = append(out, i)
		}
	}
	return out
}

func isMark(line string) bool {
	_, mark := invisible.LineMark(line)
	return mark == invisible.MarkValid
}

// Workspace enumerates the documents a cross-document move may land in.
type Workspace interface {
	// Documents returns document ids in a stable order.
	Documents(ctx context.Context) ([]string, error)
	Text(ctx context.Context, id string) (string, error)
}

type Target struct {
	Document string
	Line     int
}

type Navigator struct {
	ws   Workspace
	wrap bool
}

func New(ws Workspace, wrap bool) *Navigator {
	return &Navigator{ws: ws, wrap: wrap}
}

// Next finds the banner after (or before) line from of the current document.
// When the document has none in that direction and wrapping is enabled, it
// moves on to the next document in workspace order that holds a banner,
// landing on its first banner going down or its last going up. moved is false
// when there is nowhere to go.
func (n *Navigator) Next(ctx context.Context, current string, doc *document.Doc, from int, dir Direction) (Target, bool, error) {
	if line, ok := AdjacentMark(doc, from, dir); ok {
		return Target{Document: current, Line: line}, true, nil
	}
	if !n.wrap || n.ws == nil {
		return Target{Document: current, Line: from}, false, nil
	}

	ids, err := n.ws.Documents(ctx)
	if err != nil {
		return Target{Document: current, Line: from}, false, fmt.Errorf("list documents: %w", err)
	}

	type candidate struct {
		id    string
		marks []int
	}
	var matching []candidate
	idx := -1
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return Target{Document: current, Line: from}, false, err
		}
		text := doc.Text()
		if id != current {
			text, err = n.ws.Text(ctx, id)
			if err != nil {
				logger.Debug("navigate: skipping unreadable document", "document", id, "error", err)
				continue
			}
		}
		if !invisible.Contains(text) {
			continue
		}
		marks := Marks(document.New(text))
		if len(marks) == 0 {
			continue
		}
		if id == current {
			idx = len(matching)
		}
		matching = append(matching, candidate{id: id, marks: marks})
	}

	if len(matching) == 0 || (len(matching) == 1 && idx == 0) {
		return Target{Document: current, Line: from}, false, nil
	}

	target := 0
	if idx >= 0 {
		if dir == Down {
			target = (idx + 1) % len(matching)
		} else {
			target = (idx - 1 + len(matching)) % len(matching)
		}
	}
	c := matching[target]
	line := c.marks[0]
	if dir == Up {
		line = c.marks[len(c.marks)-1]
	}
	return Target{Document: c.id, Line: line}, true, nil
}
