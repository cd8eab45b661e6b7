// main.go - standalone assembler/validator for zρ source files

package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/zrho-lang/zrho"
	"github.com/zrho-lang/zrho/asm"
)

func main() {
	registers := flag.String("registers", "ABCDEFGHIJKLMNOPQRSTUVWXYZ", "allowed register letters")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-registers ABCXYZ] file.zr\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		os.Exit(1)
	}

	allowed := map[string]bool{}
	for _, c := range *registers {
		allowed[string(c)] = true
	}

	program, errs := asm.Assemble(path, string(source), allowed)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, e)
		}
		os.Exit(1)
	}

	counts := map[zrho.InstructionKind]int{}
	for _, in := range program.Instructions {
		counts[in.Kind]++
	}
	kinds := make([]zrho.InstructionKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	fmt.Printf("%s: %d instructions\n", program.Name, len(program.Instructions))
	for _, k := range kinds {
		fmt.Printf("  %-3s %d\n", k, counts[k])
	}
}
