// visualiser.go - the live register panel

package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zrho-lang/zrho"
)

const visualiserX = 480

// visualiser renders one row per register slot: its current String
// output, a marker when it's still stalling a write, and highlights a
// row the watch console flagged truthy this tick.
type visualiser struct{}

func newVisualiser() *visualiser { return &visualiser{} }

func (v *visualiser) draw(screen *ebiten.Image, m *zrho.Machine, w *watchConsole) {
	const lineHeight = 16
	y := 8
	drawText(screen, visualiserX, y, fmt.Sprintf(
		"instr=%d next=%d block_time=%d tick_complete=%v runtime=%d energy=%d",
		m.Instruction, m.NextInstruction, m.BlockTime, m.TickComplete, m.Runtime, m.EnergyUsed,
	), textColor)
	y += lineHeight * 2

	for slot := 0; slot < zrho.NumRegisters; slot++ {
		reg, err := m.Registers.Get(slot)
		if err != nil {
			continue
		}
		marker := " "
		clr := textColor
		if reg.BlockTime > 0 {
			marker = "*"
		}
		if w.flagged[slot] {
			marker = ">"
			clr = errorColor
		}
		drawText(screen, visualiserX, y, fmt.Sprintf("%s%s: %s", marker, reg.Name, reg.String()), clr)
		y += lineHeight
	}
}
