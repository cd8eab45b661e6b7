// asm.go - the zρ text assembler: tokenise, bucket, resolve

package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zrho-lang/zrho"
)

// comparisonOps is ordered so index%3 gives the Ordering and index>=3
// sets the invert flag, matching the six comparison spellings source
// text can use.
var comparisonOps = []struct {
	symbols []string
	invert  bool
}{
	{[]string{"<"}, false},
	{[]string{"="}, false},
	{[]string{">"}, false},
	{[]string{">=", "≥"}, true},
	{[]string{"!=", "/=", "≠"}, true},
	{[]string{"<=", "≤"}, true},
}

func matchComparisonOp(tok string) (zrho.Ordering, bool, bool) {
	for i, op := range comparisonOps {
		for _, s := range op.symbols {
			if s == tok {
				return zrho.Ordering(i % 3), op.invert, true
			}
		}
	}
	return 0, false, false
}

// token is a raw whitespace-separated piece of source text, or a
// comparison shell holding its two raw operand tokens.
type token struct {
	text string
	cmp  *comparisonShell
}

type comparisonShell struct {
	ordering zrho.Ordering
	invert   bool
	lhs, rhs string
}

// intermediate is one not-yet-resolved source line.
type intermediate struct {
	line      int
	mnemonic  string
	label     string // set when this line is "LBL name"
	isLabel   bool
	arguments []token
}

func isLabelToken(tok string) bool {
	if len(tok) < 1 {
		return false
	}
	c := tok[0]
	return c == '_' || (c >= 'A' && c <= 'Z')
}

func isRegisterToken(tok string) bool {
	return len(tok) == 1 && tok[0] >= 'A' && tok[0] <= 'Z'
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

// tokeniseLine splits a stripped source line into whitespace tokens,
// folding comparison operators and their two operands into a single
// comparisonShell token.
func tokeniseLine(lineNo int, text string) (*intermediate, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, nil
	}

	if fields[0] == "LBL" {
		if len(fields) != 2 {
			return nil, asmErrorf(lineNo, "LBL requires exactly one label argument")
		}
		return &intermediate{line: lineNo, isLabel: true, label: fields[1]}, nil
	}

	im := &intermediate{line: lineNo, mnemonic: fields[0]}
	rest := fields[1:]
	for i := 0; i < len(rest); i++ {
		if ordering, invert, ok := matchComparisonOp(rest[i]); ok {
			if i == 0 || i+1 >= len(rest) {
				return nil, zrho.NewInvalidComparisonError(lineNo)
			}
			// rest[i-1] was already pushed as a bare token; fold it and
			// rest[i+1] into a single comparison shell in its place.
			im.arguments[len(im.arguments)-1] = token{cmp: &comparisonShell{
				ordering: ordering, invert: invert, lhs: rest[i-1], rhs: rest[i+1],
			}}
			i++ // consume rhs, already folded into the shell
			continue
		}
		im.arguments = append(im.arguments, token{text: rest[i]})
	}
	return im, nil
}

func asmErrorf(line int, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

// Assemble parses source into a Program, validating every register
// reference against allowed. Assembly runs in three passes (tokenise,
// resolve, register check); within a pass an error never stops the other
// lines from being checked, and all of that pass's failures are returned
// together. A pass that finds any error ends assembly, so errors the
// later passes would find are not reported.
func Assemble(name, source string, allowed map[string]bool) (*zrho.Program, []error) {
	var intermediates []intermediate
	labels := map[string]int{}
	var errs []error

	for i, rawLine := range strings.Split(source, "\n") {
		stripped := stripComment(rawLine)
		im, err := tokeniseLine(i, stripped)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if im == nil {
			continue
		}
		if im.isLabel {
			labels[im.label] = len(intermediates)
			continue
		}
		intermediates = append(intermediates, *im)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	instructions := make([]zrho.Instruction, len(intermediates))
	for idx, im := range intermediates {
		instr, err := resolveInstruction(im, labels)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		instructions[idx] = instr
	}
	if len(errs) > 0 {
		return nil, errs
	}

	for idx := range instructions {
		if err := checkRegistersAllowed(instructions[idx], allowed); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &zrho.Program{Name: name, Instructions: instructions}, nil
}

func resolveInstruction(im intermediate, labels map[string]int) (zrho.Instruction, error) {
	kind, ok := zrho.KindFromMnemonic(im.mnemonic)
	if !ok {
		return zrho.Instruction{}, zrho.NewNoSuchOperationError(im.line, im.mnemonic)
	}
	props := zrho.DefaultProperties[kind]

	min, max := props.MinimumArguments(), props.MaximumArguments()
	got := len(im.arguments)
	if got < min {
		return zrho.Instruction{}, zrho.NewTooFewArgumentsError(im.line, got, min)
	}
	if got > max {
		return zrho.Instruction{}, zrho.NewTooManyArgumentsError(im.line, got, max)
	}

	// Instruction.Line is 1-based (spec's diagnostic display convention),
	// distinct from AssemblyError's 0-based line, which matches im.line
	// (the raw source-split index) directly.
	instr := zrho.Instruction{Kind: kind, Line: im.line + 1}
	consumed := 0
	for slot := 0; slot < 3; slot++ {
		req := props.Arguments[slot]
		if req == zrho.ReqEmpty {
			instr.Arguments[slot] = zrho.EmptyArgument{}
			continue
		}

		remainingMandatory := 0
		for _, later := range props.Arguments[slot+1:] {
			if later != zrho.ReqEmpty && !later.AllowsEmpty() {
				remainingMandatory++
			}
		}
		remaining := got - consumed
		if req.AllowsEmpty() && remaining <= remainingMandatory {
			instr.Arguments[slot] = zrho.EmptyArgument{}
			continue
		}
		tok := im.arguments[consumed]
		consumed++
		arg, err := resolveArgument(im.line, tok, req, labels)
		if err != nil {
			return zrho.Instruction{}, err
		}
		instr.Arguments[slot] = arg
	}
	return instr, nil
}

func resolveArgument(line int, tok token, req zrho.ArgumentRequirement, labels map[string]int) (zrho.Argument, error) {
	if tok.cmp != nil {
		if req != zrho.ReqComparison {
			return nil, zrho.NewUnexpectedArgumentError(line, "a comparison", req.String())
		}
		lhs, err := resolveNumberSource(line, tok.cmp.lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := resolveNumberSource(line, tok.cmp.rhs)
		if err != nil {
			return nil, err
		}
		return zrho.ComparisonArgument{Comparison: zrho.Comparison{
			Ordering: tok.cmp.ordering, Invert: tok.cmp.invert,
			Values: [2]zrho.NumberSource{lhs, rhs},
		}}, nil
	}

	text := tok.text
	switch req {
	case zrho.ReqLabel:
		idx, ok := labels[text]
		if !ok {
			return nil, zrho.NewNoSuchLabelError(line, text)
		}
		return zrho.InstructionArgument{Target: idx}, nil

	case zrho.ReqRegisterRead, zrho.ReqRegisterWrite:
		if !isRegisterToken(text) {
			return nil, zrho.NewUnexpectedArgumentError(line, text, req.String())
		}
		slot := int(text[0] - 'A')
		return zrho.NumberArgument{Source: zrho.RegisterSource{Slot: slot}}, nil

	case zrho.ReqConst, zrho.ReqConstOrEmpty:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, zrho.NewUnexpectedArgumentError(line, text, req.String())
		}
		bi, err := zrho.NewBoundedInt(zrho.Integer(n), zrho.MaxDigits)
		if err != nil {
			return nil, zrho.NewUnexpectedArgumentError(line, text, req.String())
		}
		return zrho.NumberArgument{Source: zrho.ConstantSource{Value: bi}}, nil

	case zrho.ReqValue, zrho.ReqAnyValue, zrho.ReqAnyValueOrEmpty:
		src, err := resolveNumberSource(line, text)
		if err != nil {
			return nil, err
		}
		return zrho.NumberArgument{Source: src}, nil

	default:
		return nil, zrho.NewUnexpectedArgumentError(line, text, req.String())
	}
}

func resolveNumberSource(line int, text string) (zrho.NumberSource, error) {
	if isRegisterToken(text) {
		return zrho.RegisterSource{Slot: int(text[0] - 'A')}, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, zrho.NewUnexpectedArgumentError(line, text, "a constant or register")
	}
	bi, err := zrho.NewBoundedInt(zrho.Integer(n), zrho.MaxDigits)
	if err != nil {
		return nil, zrho.NewUnexpectedArgumentError(line, text, "a constant or register")
	}
	return zrho.ConstantSource{Value: bi}, nil
}

func checkRegistersAllowed(instr zrho.Instruction, allowed map[string]bool) error {
	for _, arg := range instr.Arguments {
		na, ok := arg.(zrho.NumberArgument)
		if !ok {
			continue
		}
		rs, ok := na.Source.(zrho.RegisterSource)
		if !ok {
			continue
		}
		name := zrho.NameOfRegister(rs.Slot)
		if allowed != nil && !allowed[name] {
			// AssemblyError lines are 0-based, unlike Instruction.Line
			// (1-based); undo resolveInstruction's +1 here.
			return zrho.NewRegisterNotSupportedError(instr.Line-1, name)
		}
	}
	return nil
}
