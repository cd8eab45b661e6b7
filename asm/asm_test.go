package asm

import (
	"testing"

	"github.com/zrho-lang/zrho"
)

func allOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func TestAssembleSimpleProgram(t *testing.T) {
	src := "SET X 5\nADD X 1 X\nEND\n"
	p, errs := Assemble("simple", src, allOf("X"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(p.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(p.Instructions))
	}
	if p.Instructions[0].Kind != zrho.Set || p.Instructions[1].Kind != zrho.Add || p.Instructions[2].Kind != zrho.End {
		t.Fatalf("unexpected kinds: %v", p.Instructions)
	}
}

func TestAssembleLabelForwardAndBackward(t *testing.T) {
	src := "LBL LOOP\nSET X 1\nLJP X DONE\nSET X 5\nLBL DONE\nJMP LOOP\nEND\n"
	p, errs := Assemble("labels", src, allOf("X"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ljp := p.Instructions[1]
	target, ok := ljp.Arguments[1].(zrho.InstructionArgument)
	if !ok {
		t.Fatalf("LJP's second argument is %T, want InstructionArgument", ljp.Arguments[1])
	}
	if target.Target != 3 {
		t.Errorf("forward label DONE resolved to %d, want 3", target.Target)
	}

	jmp := p.Instructions[3]
	if jmp.Kind != zrho.Jmp {
		t.Fatalf("Instructions[3] = %v, want JMP", jmp)
	}
	jmpTarget, ok := jmp.Arguments[1].(zrho.InstructionArgument)
	if !ok {
		t.Fatalf("JMP's second argument is %T, want InstructionArgument", jmp.Arguments[1])
	}
	if jmpTarget.Target != 0 {
		t.Errorf("backward label LOOP resolved to %d, want 0 (the first SET's index)", jmpTarget.Target)
	}
}

func TestAssembleComparisonArgument(t *testing.T) {
	src := "CMP X = 3 Y\nEND\n"
	p, errs := Assemble("cmp", src, allOf("X", "Y"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ca, ok := p.Instructions[0].Arguments[0].(zrho.ComparisonArgument)
	if !ok {
		t.Fatalf("CMP's first argument is %T, want ComparisonArgument", p.Instructions[0].Arguments[0])
	}
	if ca.Comparison.Ordering != zrho.Equal || ca.Comparison.Invert {
		t.Errorf("comparison = %+v, want Equal/not-inverted", ca.Comparison)
	}
}

func TestAssembleUnknownMnemonic(t *testing.T) {
	_, errs := Assemble("bad", "FOO X Y\n", allOf("X", "Y"))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if _, ok := errs[0].(*zrho.NoSuchOperationError); !ok {
		t.Fatalf("error is %T, want NoSuchOperationError", errs[0])
	}
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, errs := Assemble("bad", "JMP NOWHERE\nEND\n", nil)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if _, ok := errs[0].(*zrho.NoSuchLabelError); !ok {
		t.Fatalf("error is %T, want NoSuchLabelError", errs[0])
	}
}

func TestAssembleTooFewAndTooManyArguments(t *testing.T) {
	_, errs := Assemble("bad", "SET X\n", allOf("X"))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if _, ok := errs[0].(*zrho.TooFewArgumentsError); !ok {
		t.Fatalf("error is %T, want TooFewArgumentsError", errs[0])
	}

	_, errs = Assemble("bad", "END X\n", allOf("X"))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if _, ok := errs[0].(*zrho.TooManyArgumentsError); !ok {
		t.Fatalf("error is %T, want TooManyArgumentsError", errs[0])
	}
}

func TestAssembleDisallowedRegister(t *testing.T) {
	_, errs := Assemble("bad", "SET Z 1\nEND\n", allOf("X"))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	rns, ok := errs[0].(*zrho.RegisterNotSupportedError)
	if !ok {
		t.Fatalf("error is %T, want RegisterNotSupportedError", errs[0])
	}
	if rns.Line() != 0 {
		t.Errorf("Line() = %d, want 0 (the 0-based line of SET Z 1, not Instruction.Line's 1-based 1)", rns.Line())
	}
}

// A disallowed register on a later line must still report its own
// 0-based line, not the first line's.
func TestAssembleDisallowedRegisterOnLaterLine(t *testing.T) {
	_, errs := Assemble("bad", "SET X 1\nSET Z 1\nEND\n", allOf("X"))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	rns, ok := errs[0].(*zrho.RegisterNotSupportedError)
	if !ok {
		t.Fatalf("error is %T, want RegisterNotSupportedError", errs[0])
	}
	if rns.Line() != 1 {
		t.Errorf("Line() = %d, want 1", rns.Line())
	}
}

// Scenario 6 (spec §8.6): "ADD 1 2\nFOO\nJMP MISSING" yields
// TooFewArguments{line 0, got 2, minimum 3}, NoSuchOperation{line 1, got
// "FOO"}, NoSuchLabel{line 2, got "MISSING"} — in that order, returned as
// a single failure, not just the first error encountered.
func TestAssembleAccumulatesAllErrors(t *testing.T) {
	src := "ADD 1 2\nFOO\nJMP MISSING\n"
	_, errs := Assemble("bad", src, nil)
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), errs)
	}

	tfa, ok := errs[0].(*zrho.TooFewArgumentsError)
	if !ok {
		t.Fatalf("errs[0] is %T, want TooFewArgumentsError", errs[0])
	}
	if tfa.Line() != 0 || tfa.Got != 2 || tfa.Minimum != 3 {
		t.Errorf("errs[0] = %+v, want line 0, got 2, minimum 3", tfa)
	}

	nso, ok := errs[1].(*zrho.NoSuchOperationError)
	if !ok {
		t.Fatalf("errs[1] is %T, want NoSuchOperationError", errs[1])
	}
	if nso.Line() != 1 || nso.Operation != "FOO" {
		t.Errorf("errs[1] = %+v, want line 1, operation FOO", nso)
	}

	nsl, ok := errs[2].(*zrho.NoSuchLabelError)
	if !ok {
		t.Fatalf("errs[2] is %T, want NoSuchLabelError", errs[2])
	}
	if nsl.Line() != 2 || nsl.Label != "MISSING" {
		t.Errorf("errs[2] = %+v, want line 2, label MISSING", nsl)
	}
}

func TestAssembleLblRequiresExactlyOneArgument(t *testing.T) {
	_, errs := Assemble("bad", "LBL\nEND\n", nil)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

// Boundary (spec §8): a constant equal to R(d) assembles; R(d)+1 does not.
func TestAssembleConstantAtMaxDigitsBoundary(t *testing.T) {
	_, errs := Assemble("ok", "SET X 999999999\nEND\n", allOf("X"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors for a constant at the exact boundary: %v", errs)
	}
}

func TestAssembleConstantOutOfRange(t *testing.T) {
	_, errs := Assemble("bad", "SET X 1000000000\nEND\n", allOf("X"))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if _, ok := errs[0].(*zrho.UnexpectedArgumentError); !ok {
		t.Fatalf("error is %T, want UnexpectedArgumentError", errs[0])
	}
}

func TestAssembleOptionalArgumentOmitted(t *testing.T) {
	src := "JMP LOOP\nLBL LOOP\nEND\n"
	p, errs := Assemble("jmp", src, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !p.Instructions[0].Arguments[0].IsEmpty() {
		t.Errorf("JMP's optional predicate argument should default to empty when omitted")
	}
}
