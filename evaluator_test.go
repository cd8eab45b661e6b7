package zrho

import "testing"

func newEvalMachine(t *testing.T, digits int) (*Machine, *RegisterFile) {
	t.Helper()
	rf := NewEmptyRegisterFile()
	for slot := 0; slot < NumRegisters; slot++ {
		if err := rf.AddRegister(slot, DefaultRegister(NameOfRegister(slot), digits)); err != nil {
			t.Fatalf("AddRegister(%d): %v", slot, err)
		}
	}
	return NewMachine(digits, rf, DefaultProperties), rf
}

// resolveArguments must never read the destination slot of a
// reg_w-shaped argument, since the only thing dispatch needs from it is
// the slot number, read separately from the raw argument.
func TestResolveArgumentsSkipsRegisterWriteSlot(t *testing.T) {
	m, rf := newEvalMachine(t, 2)

	const destSlot = 19 // a register intentionally left unpopulated
	rf.registers[destSlot] = nil

	instr := Instruction{
		Kind: Set,
		Arguments: [3]Argument{
			NumberArgument{Source: RegisterSource{Slot: destSlot}},
			NumberArgument{Source: ConstantSource{constBI(t, 5, 2)}},
			EmptyArgument{},
		},
	}
	props := DefaultProperties[Set]

	resolved, _, err := m.resolveArguments(instr, &props)
	if err != nil {
		t.Fatalf("resolveArguments returned an error for an unpopulated write-only slot: %v", err)
	}
	if resolved.specified[0] {
		t.Error("a reg_w slot must never be resolved to a value")
	}
}

// The read phase's cost is the maximum of (read_time+block_time) across
// every distinct register read, not their sum.
func TestResolveArgumentsReadCostIsMax(t *testing.T) {
	m, rf := newEvalMachine(t, 2)

	aReg, _ := rf.Get(0)
	aReg.ReadTime = 2
	aReg.BlockTime = 1 // cost 3

	bReg, _ := rf.Get(1)
	bReg.ReadTime = 5
	bReg.BlockTime = 0 // cost 5

	instr := Instruction{
		Kind: Add,
		Arguments: [3]Argument{
			NumberArgument{Source: RegisterSource{Slot: 0}},
			NumberArgument{Source: RegisterSource{Slot: 1}},
			NumberArgument{Source: RegisterSource{Slot: 23}},
		},
	}
	props := DefaultProperties[Add]

	_, readCost, err := m.resolveArguments(instr, &props)
	if err != nil {
		t.Fatalf("resolveArguments: %v", err)
	}
	if readCost != 5 {
		t.Errorf("readCost = %d, want 5 (the max, not 3+5=8)", readCost)
	}
}

// SLP adds its resolved sleep argument on top of its own base_time.
func TestDispatchSlpAddsSleepCycles(t *testing.T) {
	m, _ := newEvalMachine(t, 2)
	props := DefaultProperties[Slp]
	instr := Instruction{Kind: Slp, Arguments: [3]Argument{
		NumberArgument{Source: ConstantSource{constBI(t, 5, 2)}}, EmptyArgument{}, EmptyArgument{},
	}}
	resolved := resolvedArgs{values: [3]Integer{5, 0, 0}, specified: [3]bool{true, false, false}}

	_, instrTime, err := m.dispatch(instr, &props, resolved, props.BaseTime)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if instrTime != 5 {
		t.Errorf("instrTime = %d, want 5 (base_time 0 + sleep argument 5)", instrTime)
	}
}

// A negative resolved sleep value clamps to zero extra cycles rather than
// reducing instrTime.
func TestDispatchSlpClampsNegativeSleep(t *testing.T) {
	m, _ := newEvalMachine(t, 2)
	props := DefaultProperties[Slp]
	instr := Instruction{Kind: Slp, Arguments: [3]Argument{
		NumberArgument{Source: ConstantSource{constBI(t, 0, 2)}}, EmptyArgument{}, EmptyArgument{},
	}}
	resolved := resolvedArgs{values: [3]Integer{-3, 0, 0}, specified: [3]bool{true, false, false}}

	_, instrTime, err := m.dispatch(instr, &props, resolved, props.BaseTime)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if instrTime != 0 {
		t.Errorf("instrTime = %d, want 0", instrTime)
	}
}

// CLK writes (runtime / 10^k) mod (max+1), where k is its clamped second
// argument, wrapping into the destination's own range rather than
// extracting a single decimal digit.
func TestDispatchClkShiftsAndWraps(t *testing.T) {
	m, rf := newEvalMachine(t, 2)
	m.Runtime = 4567 // digits=2 register: max 999, mod 1000

	destSlot := 23
	props := DefaultProperties[Clk]
	instr := Instruction{Kind: Clk, Arguments: [3]Argument{
		NumberArgument{Source: RegisterSource{Slot: destSlot}},
		NumberArgument{Source: ConstantSource{constBI(t, 1, 2)}},
		EmptyArgument{},
	}}
	resolved := resolvedArgs{values: [3]Integer{0, 1, 0}, specified: [3]bool{false, true, false}}

	if _, _, err := m.dispatch(instr, &props, resolved, props.BaseTime); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := rf.ApplyBufferedWrites(); err != nil {
		t.Fatalf("ApplyBufferedWrites: %v", err)
	}

	destReg, _ := rf.Get(destSlot)
	if got := destReg.Values.(*ScalarValues).Value.Get(); got != 456 {
		t.Errorf("CLK(k=1) of runtime 4567 = %d, want 456 (4567/10 mod 1000)", got)
	}
}

// evaluateCycle clears the previous-instruction snapshot on a register
// error, the same as it does for arithmetic and overflow interrupts, so a
// failed instruction never counts toward SameAsPreviousCondition.
func TestEvaluateCycleClearsPreviousOnRegisterError(t *testing.T) {
	m, rf := newEvalMachine(t, 2)
	m.previous = previousInstruction{set: true, kind: Div}

	const badSlot = 19
	rf.registers[badSlot] = nil

	p := &Program{Name: "badread", Instructions: []Instruction{
		{Kind: Set, Arguments: [3]Argument{
			NumberArgument{Source: RegisterSource{Slot: 23}},
			NumberArgument{Source: RegisterSource{Slot: badSlot}},
			EmptyArgument{},
		}},
	}}

	if !m.evaluateCycle(p) {
		t.Fatal("evaluateCycle should report it did something even when it errors")
	}
	if m.Interrupt == nil {
		t.Fatal("expected an interrupt reading an unpopulated register")
	}
	if m.previous.set {
		t.Error("previous-instruction snapshot must be cleared after a register error")
	}
}

// computer.rs checks calls_per_tick_limit before ever calling
// instruction.evaluate() (the read phase); an instruction whose group
// has already hit its limit must end the tick without resolving any
// argument, even one that would otherwise fail to read.
func TestEvaluateCycleLimitCheckPrecedesReadPhase(t *testing.T) {
	m, rf := newEvalMachine(t, 2)
	m.ExecutedInstructionGroups[Add] = 1 // ADD's default CallLimit is 1

	const badSlot = 19
	rf.registers[badSlot] = nil

	p := &Program{Name: "limitfirst", Instructions: []Instruction{
		{Kind: Add, Arguments: [3]Argument{
			NumberArgument{Source: RegisterSource{Slot: badSlot}},
			NumberArgument{Source: ConstantSource{constBI(t, 1, 2)}},
			NumberArgument{Source: RegisterSource{Slot: 23}},
		}},
	}}

	if m.evaluateCycle(p) {
		t.Error("evaluateCycle() = true, want false: an exhausted limit must end the tick without doing work")
	}
	if !m.TickComplete {
		t.Error("TickComplete should be set once ADD's per-tick limit is already exhausted")
	}
	if m.Interrupt != nil {
		t.Errorf("Interrupt = %v, want nil: the bad register must never be read once the limit ends the tick first", m.Interrupt)
	}
}

// evaluateCycle past the end of the program completes cleanly without
// indexing p.Instructions.
func TestEvaluateCycleAtProgramEndCompletesCleanly(t *testing.T) {
	m, _ := newEvalMachine(t, 2)
	m.Instruction = 1
	p := &Program{Name: "empty", Instructions: []Instruction{
		{Kind: End, Arguments: [3]Argument{EmptyArgument{}, EmptyArgument{}, EmptyArgument{}}},
	}}

	if m.evaluateCycle(p) {
		t.Error("evaluateCycle() = true, want false past the end of the program")
	}
	if _, ok := m.Interrupt.(*ProgramCompleteInterrupt); !ok {
		t.Fatalf("Interrupt = %v (%T), want ProgramCompleteInterrupt", m.Interrupt, m.Interrupt)
	}
}
