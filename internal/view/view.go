// Package view is a read-only terminal pager that highlights banners and
// jumps between them, across files when navigation wraps.
package view

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/kobzarvs/funcsep/internal/document"
	"github.com/kobzarvs/funcsep/internal/invisible"
	"github.com/kobzarvs/funcsep/internal/logger"
	"github.com/kobzarvs/funcsep/internal/navigate"
	"github.com/kobzarvs/funcsep/internal/session"
)

type Viewer struct {
	ctx  context.Context
	ws   navigate.Workspace
	nav  *navigate.Navigator
	sess *session.Manager

	path       string
	doc        *document.Doc
	marks      map[int]invisible.Mark
	cursor     int
	scroll     int
	viewHeight int
	tabWidth   int
	status     string

	styleMain       tcell.Style
	styleBanner     tcell.Style
	styleCorrupt    tcell.Style
	styleCursorLine tcell.Style
	styleLineNumber tcell.Style
	styleStatus     tcell.Style
}

// New builds a viewer over ws. sess may be nil.
func New(ctx context.Context, ws navigate.Workspace, nav *navigate.Navigator, sess *session.Manager, tabWidth int) *Viewer {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &Viewer{
		ctx:             ctx,
		ws:              ws,
		nav:             nav,
		sess:            sess,
		doc:             document.New(""),
		tabWidth:        tabWidth,
		styleMain:       tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
		styleBanner:     tcell.StyleDefault.Foreground(tcell.ColorAqua).Background(tcell.ColorBlack).Bold(true),
		styleCorrupt:    tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlack),
		styleCursorLine: tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray),
		styleLineNumber: tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack),
		styleStatus:     tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGray),
	}
}

// Open shows path, restoring the cursor saved for it in the session.
func (v *Viewer) Open(path string) error {
	text, err := v.ws.Text(v.ctx, path)
	if err != nil {
		return err
	}
	v.remember()
	v.path = path
	v.doc = document.New(text)
	v.marks = make(map[int]invisible.Mark)
	for i := 0; i < v.doc.LineCount(); i++ {
		if _, mark := invisible.LineMark(v.doc.Line(i)); mark != invisible.MarkNone {
			v.marks[i] = mark
		}
	}
	v.cursor, v.scroll = 0, 0
	if v.sess != nil {
		if st, ok := v.sess.FileState(v.sessionKey()); ok {
			v.cursor = clamp(st.CursorRow, 0, v.doc.LineCount()-1)
			v.scroll = clamp(st.ScrollY, 0, v.cursor)
		}
		v.sess.SetActiveFile(v.sessionKey())
	}
	return nil
}

func (v *Viewer) Path() string { return v.path }
func (v *Viewer) Cursor() int  { return v.cursor }
func (v *Viewer) Status() string {
	return v.status
}

// Close stores the cursor of the open file in the session.
func (v *Viewer) Close() { v.remember() }

func (v *Viewer) remember() {
	if v.sess == nil || v.path == "" {
		return
	}
	v.sess.SetFileState(v.sessionKey(), session.FileState{CursorRow: v.cursor, ScrollY: v.scroll})
}

func (v *Viewer) sessionKey() string {
	if abs, err := filepath.Abs(v.path); err == nil {
		return abs
	}
	return v.path
}

// HandleKey applies one key press and reports whether the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	v.status = ""
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyDown:
		v.moveCursor(1)
	case tcell.KeyUp:
		v.moveCursor(-1)
	case tcell.KeyPgDn:
		v.moveCursor(max(v.viewHeight, 1))
	case tcell.KeyPgUp:
		v.moveCursor(-max(v.viewHeight, 1))
	case tcell.KeyTab:
		v.cycleFile(1)
	case tcell.KeyBacktab:
		v.cycleFile(-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'j':
			v.moveCursor(1)
		case 'k':
			v.moveCursor(-1)
		case 'g':
			v.cursor = 0
		case 'G':
			v.cursor = max(v.doc.LineCount()-1, 0)
		case 'n':
			v.jump(navigate.Down)
		case 'N':
			v.jump(navigate.Up)
		}
	}
	return false
}

func (v *Viewer) moveCursor(delta int) {
	v.cursor = clamp(v.cursor+delta, 0, v.doc.LineCount()-1)
}

func (v *Viewer) jump(dir navigate.Direction) {
	if v.nav == nil {
		return
	}
	target, moved, err := v.nav.Next(v.ctx, v.path, v.doc, v.cursor, dir)
	if err != nil {
		v.status = err.Error()
		logger.Warn("view: navigation failed", "path", v.path, "error", err)
		return
	}
	if !moved {
		v.status = "no more banners " + dir.String()
		return
	}
	if target.Document != v.path {
		if err := v.Open(target.Document); err != nil {
			v.status = err.Error()
			return
		}
	}
	v.cursor = clamp(target.Line, 0, v.doc.LineCount()-1)
}

func (v *Viewer) cycleFile(step int) {
	ids, err := v.ws.Documents(v.ctx)
	if err != nil || len(ids) == 0 {
		return
	}
	idx := 0
	for i, id := range ids {
		if id == v.path {
			idx = (i + step + len(ids)) % len(ids)
			break
		}
	}
	if err := v.Open(ids[idx]); err != nil {
		v.status = err.Error()
	}
}

// Render draws the visible part of the document and a status line.
func (v *Viewer) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	v.viewHeight = max(h-1, 0)
	v.ensureCursorVisible()

	s.SetStyle(v.styleMain)
	s.Clear()

	gutter := len(fmt.Sprint(v.doc.LineCount())) + 1
	for y := 0; y < v.viewHeight; y++ {
		line := v.scroll + y
		if line >= v.doc.LineCount() {
			break
		}
		style := v.styleMain
		switch v.marks[line] {
		case invisible.MarkValid:
			style = v.styleBanner
		case invisible.MarkCorrupt:
			style = v.styleCorrupt
		}
		if line == v.cursor {
			style = style.Background(tcell.ColorDarkSlateGray)
			fillRow(s, y, w, v.styleCursorLine)
		}
		drawText(s, 0, y, gutter, fmt.Sprintf("%*d ", gutter-1, line+1), v.styleLineNumber)
		v.drawLine(s, gutter, y, w, invisible.Strip(v.doc.Line(line)), style)
	}

	right := fmt.Sprintf("%d/%d", v.cursor+1, v.doc.LineCount())
	left := v.path
	if v.status != "" {
		left += "  " + v.status
	}
	fillRow(s, h-1, w, v.styleStatus)
	drawText(s, 0, h-1, w, left, v.styleStatus)
	if rw := uniseg.StringWidth(right); rw < w {
		drawText(s, w-rw, h-1, rw, right, v.styleStatus)
	}
	s.HideCursor()
	s.Show()
}

func (v *Viewer) ensureCursorVisible() {
	if v.cursor < v.scroll {
		v.scroll = v.cursor
	}
	if v.viewHeight > 0 && v.cursor >= v.scroll+v.viewHeight {
		v.scroll = v.cursor - v.viewHeight + 1
	}
}

// drawLine expands tabs and draws grapheme clusters until the row is full.
func (v *Viewer) drawLine(s tcell.Screen, x0, y, w int, text string, style tcell.Style) {
	x := x0
	state := -1
	var cluster string
	var width int
	for len(text) > 0 && x < w {
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		if cluster == "\t" {
			next := x0 + ((x-x0)/v.tabWidth+1)*v.tabWidth
			for ; x < next && x < w; x++ {
				s.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		if width == 0 || x+width > w {
			continue
		}
		runes := []rune(cluster)
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
}

// Run shows the viewer on s until the user quits.
func (v *Viewer) Run(s tcell.Screen) {
	v.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				v.Close()
				return
			}
		case *tcell.EventResize:
			s.Sync()
		}
		v.Render(s)
	}
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	end := x + maxWidth
	for _, r := range text {
		if x >= end {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func fillRow(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(n, lo), hi)
}
