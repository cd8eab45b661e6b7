// main.go - interactive stdin driver for the zρ simulation core

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/zrho-lang/zrho"
	"github.com/zrho-lang/zrho/asm"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s program.zr\n", os.Args[0])
		os.Exit(2)
	}

	source, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	allowed := map[string]bool{}
	for c := 'A'; c <= 'Z'; c++ {
		allowed[string(c)] = true
	}

	program, errs := asm.Assemble(os.Args[1], string(source), allowed)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%v\n", e)
		}
		os.Exit(1)
	}

	rf := zrho.NewEmptyRegisterFile()
	for slot := 0; slot < zrho.NumRegisters; slot++ {
		rf.AddRegister(slot, zrho.DefaultRegister(zrho.NameOfRegister(slot), zrho.MaxDigits))
	}
	machine := zrho.NewMachine(zrho.MaxDigits, rf, zrho.DefaultProperties)

	fmt.Printf("loaded %q (%d instructions). Commands: step, cycle, tick [n], run, regs, reset, end, quit\n",
		program.Name, len(program.Instructions))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "step":
			ticks := machine.StepInstruction(program)
			fmt.Printf("ran one instruction (%d tick(s))\n", ticks)
		case "cycle":
			machine.StepCycle(program)
			fmt.Println("ran one cycle")
		case "tick":
			n := 1
			if len(fields) > 1 {
				if v, err := strconv.Atoi(fields[1]); err == nil {
					n = v
				}
			}
			for i := 0; i < n && machine.Interrupt == nil; i++ {
				machine.StepTick(program)
			}
		case "run":
			for machine.Interrupt == nil {
				machine.StepTick(program)
			}
		case "regs":
			printRegisters(machine)
		case "reset":
			machine.Reset()
		case "end", "quit":
			return
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
		if machine.Interrupt != nil {
			fmt.Printf("interrupt: %v\n", machine.Interrupt)
		}
	}
}

func printRegisters(m *zrho.Machine) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	dump := m.Registers.String()
	for _, line := range strings.Split(strings.TrimRight(dump, "\n"), "\n") {
		if len(line) > width {
			line = line[:width-3] + "..."
		}
		fmt.Println(line)
	}
}
