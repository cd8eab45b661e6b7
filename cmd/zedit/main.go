// main.go - graphical zρ editor and register visualiser

package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/zrho-lang/zrho"
	"github.com/zrho-lang/zrho/asm"
)

func inpututilKeyPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

func assemble(name, source string, allowed map[string]bool) (*zrho.Program, []error) {
	return asm.Assemble(name, source, allowed)
}

func readFileOrEmpty(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

const (
	screenWidth  = 960
	screenHeight = 600
)

// editorApp is an ebiten.Game: a split-pane window with a source editor
// on the left and a live register visualiser on the right, driven
// entirely through Machine's exported step functions.
type editorApp struct {
	editor     *editor
	visualiser *visualiser
	watch      *watchConsole

	machine *zrho.Machine
	program *zrho.Program
	errs    []error

	playing bool
	tick    int
}

func newEditorApp(initialSource string) *editorApp {
	rf := zrho.NewEmptyRegisterFile()
	for slot := 0; slot < zrho.NumRegisters; slot++ {
		rf.AddRegister(slot, zrho.DefaultRegister(zrho.NameOfRegister(slot), zrho.MaxDigits))
	}
	app := &editorApp{
		editor:     newEditor(initialSource),
		visualiser: newVisualiser(),
		watch:      newWatchConsole(),
		machine:    zrho.NewMachine(zrho.MaxDigits, rf, zrho.DefaultProperties),
	}
	app.reassemble()
	return app
}

func (a *editorApp) reassemble() {
	program, errs := assembleSource(a.editor.text())
	a.program, a.errs = program, errs
	a.machine.Reset()
}

func (a *editorApp) Update() error {
	if a.editor.handleInput() {
		a.reassemble()
	}

	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		switch {
		case inpututilKeyPressed(ebiten.KeyC):
			clipboard.Write(clipboard.FmtText, []byte(a.editor.text()))
		case inpututilKeyPressed(ebiten.KeyV):
			a.editor.paste(string(clipboard.Read(clipboard.FmtText)))
			a.reassemble()
		}
	}

	switch {
	case inpututilKeyPressed(ebiten.KeyF5):
		a.playing = !a.playing
	case inpututilKeyPressed(ebiten.KeyF6):
		a.stepCycle()
	case inpututilKeyPressed(ebiten.KeyF7):
		a.stepInstruction()
	case inpututilKeyPressed(ebiten.KeyF8):
		a.stepTick()
	case inpututilKeyPressed(ebiten.KeyF9):
		a.machine.Reset()
	case inpututilKeyPressed(ebiten.KeyGraveAccent):
		a.watch.setExpression(`reg("H") and reg("H") > 5`)
	}

	if a.playing && a.program != nil && a.machine.Interrupt == nil {
		a.stepTick()
	}

	return nil
}

func (a *editorApp) stepCycle() {
	if a.program == nil {
		return
	}
	a.machine.StepCycle(a.program)
}

func (a *editorApp) stepInstruction() {
	if a.program == nil {
		return
	}
	a.machine.StepInstruction(a.program)
}

func (a *editorApp) stepTick() {
	if a.program == nil {
		return
	}
	a.machine.StepTick(a.program)
	a.tick++
	a.watch.evaluateAgainst(a.machine.Registers)
}

func (a *editorApp) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	a.editor.draw(screen, a.errs)
	a.visualiser.draw(screen, a.machine, a.watch)
	drawText(screen, 8, screenHeight-16, statusLine(a), textColor)
}

func (a *editorApp) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func statusLine(a *editorApp) string {
	s := "F5 play/pause  F6 cycle  F7 instruction  F8 tick  F9 reset  Ctrl-C/V copy/paste"
	if a.machine.Interrupt != nil {
		s += "  |  interrupt: " + a.machine.Interrupt.Error()
	}
	return s
}

func assembleSource(source string) (*zrho.Program, []error) {
	allowed := map[string]bool{}
	for c := 'A'; c <= 'Z'; c++ {
		allowed[string(c)] = true
	}
	return assemble("untitled.zr", source, allowed)
}

func main() {
	src := flag.String("source", "", "path to an initial .zr program")
	flag.Parse()

	initial := defaultSample
	if *src != "" {
		// A file that cannot be read is not a fatal exit: the bundled
		// sample is loaded instead, so a typo in the path doesn't stop the
		// editor. The read error itself is not shown.
		if data, err := readFileOrEmpty(*src); err == nil {
			initial = data
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("zedit")

	app := newEditorApp(initial)
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}

const defaultSample = `SET A 0
SET B 10
LBL LOOP
ADD A 1 A
CMP A = B C
LJP C DONE
JMP LOOP
LBL DONE
END
`
