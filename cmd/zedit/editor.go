// editor.go - the source text pane: caret movement and in-place editing

package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var backgroundColor = color.RGBA{R: 18, G: 18, B: 22, A: 255}
var errorColor = color.RGBA{R: 220, G: 80, B: 80, A: 255}
var textColor = color.RGBA{R: 220, G: 220, B: 220, A: 255}

// editor is a minimal line-based text buffer with arrow-key and
// insert/delete caret movement, reduced from the teacher's full text
// widget to the single font and colour scheme this tool needs.
type editor struct {
	lines []string
	row   int
	col   int
	dirty bool
}

func newEditor(source string) *editor {
	lines := strings.Split(source, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &editor{lines: lines}
}

func (e *editor) text() string { return strings.Join(e.lines, "\n") }

func (e *editor) paste(s string) {
	inserted := strings.Split(s, "\n")
	if len(inserted) == 0 {
		return
	}
	line := e.lines[e.row]
	before, after := line[:e.col], line[e.col:]
	inserted[0] = before + inserted[0]
	last := len(inserted) - 1
	inserted[last] = inserted[last] + after

	e.lines = append(e.lines[:e.row], append(inserted, e.lines[e.row+1:]...)...)
	e.row += last
	e.col = len(inserted[last]) - len(after)
	e.dirty = true
}

// handleInput applies one frame's worth of keyboard edits, returning
// whether the buffer changed and should be re-assembled.
func (e *editor) handleInput() bool {
	changed := false
	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x20 {
			continue
		}
		e.insert(string(r))
		changed = true
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		e.insert("\n")
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		changed = e.backspace() || changed
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		e.moveLeft()
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		e.moveRight()
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		e.moveVertical(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		e.moveVertical(1)
	}
	return changed
}

func (e *editor) insert(s string) {
	line := e.lines[e.row]
	if s == "\n" {
		before, after := line[:e.col], line[e.col:]
		e.lines[e.row] = before
		rest := append([]string{after}, e.lines[e.row+1:]...)
		e.lines = append(e.lines[:e.row+1], rest...)
		e.row++
		e.col = 0
		return
	}
	e.lines[e.row] = line[:e.col] + s + line[e.col:]
	e.col += len(s)
}

func (e *editor) backspace() bool {
	if e.col > 0 {
		line := e.lines[e.row]
		e.lines[e.row] = line[:e.col-1] + line[e.col:]
		e.col--
		return true
	}
	if e.row > 0 {
		prevLen := len(e.lines[e.row-1])
		e.lines[e.row-1] += e.lines[e.row]
		e.lines = append(e.lines[:e.row], e.lines[e.row+1:]...)
		e.row--
		e.col = prevLen
		return true
	}
	return false
}

func (e *editor) moveLeft() {
	if e.col > 0 {
		e.col--
	} else if e.row > 0 {
		e.row--
		e.col = len(e.lines[e.row])
	}
}

func (e *editor) moveRight() {
	if e.col < len(e.lines[e.row]) {
		e.col++
	} else if e.row < len(e.lines)-1 {
		e.row++
		e.col = 0
	}
}

func (e *editor) moveVertical(delta int) {
	newRow := e.row + delta
	if newRow < 0 || newRow >= len(e.lines) {
		return
	}
	e.row = newRow
	if e.col > len(e.lines[e.row]) {
		e.col = len(e.lines[e.row])
	}
}

func (e *editor) draw(screen *ebiten.Image, errs []error) {
	errByLine := map[int]error{}
	for _, err := range errs {
		if le, ok := err.(interface{ Line() int }); ok {
			errByLine[le.Line()] = err
		}
	}

	const lineHeight = 16
	for i, line := range e.lines {
		y := 8 + i*lineHeight
		prefix := "   "
		clr := textColor
		if _, bad := errByLine[i]; bad {
			prefix = " ! "
			clr = errorColor
		}
		drawText(screen, 8, y, fmt.Sprintf("%3d%s%s", i, prefix, line), clr)
	}
}
