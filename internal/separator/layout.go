package separator

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/kobzarvs/funcsep/internal/config"
	"github.com/kobzarvs/funcsep/internal/invisible"
)

// padding is the space around the name plus one cell of slack.
const padding = 3

// Geometry is the horizontal split of a banner line.
type Geometry struct {
	Body  int // cells taken by comment, token, name and padding
	Fill  int
	Left  int
	Right int
}

// Layout splits the room left on a banner line of the given width between the
// left and right fill. The token counts for its digit count even though it
// renders with no width.
func Layout(indentCol, width, commentLen, nameLen int) Geometry {
	g := Geometry{Body: commentLen + invisible.Width + nameLen + padding}
	g.Fill = max(width-indentCol-g.Body, 0)
	g.Left = g.Fill / 2
	g.Right = g.Fill - g.Left
	return g
}

// displayWidth measures s in terminal cells with tabs advancing to the next
// multiple of tabWidth.
func displayWidth(s string, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = config.Default().Separator.TabWidth
	}
	col := 0
	state := -1
	var cluster string
	var w int
	for len(s) > 0 {
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			col += tabWidth - col%tabWidth
			continue
		}
		col += w
	}
	return col
}

// fillCells repeats pattern until it covers n cells. A cluster that would
// overrun n is dropped, so the result may fall short by one cell for wide
// patterns.
func fillCells(pattern string, n int) string {
	if n <= 0 || uniseg.StringWidth(pattern) == 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	for {
		rest := pattern
		state := -1
		var cluster string
		var w int
		for len(rest) > 0 {
			cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if used+w > n {
				return b.String()
			}
			b.WriteString(cluster)
			used += w
			if used == n {
				return b.String()
			}
		}
	}
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
