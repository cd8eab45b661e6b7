// machine.go - the public façade: machine state, lifecycle and step drivers

package zrho

// Program is an assembled, named sequence of Instructions ready to run
// on a Machine. Labels exist only at assembly time and never appear
// here.
type Program struct {
	Name         string
	Instructions []Instruction
}

// previousInstruction snapshots a committed instruction's kind and
// resolved argument values, consulted by SameAsPreviousCondition.
type previousInstruction struct {
	set       bool
	kind      InstructionKind
	values    [3]Integer
	specified [3]bool
}

// Machine is a single register machine: its register file, digit width,
// per-kind property table, and all the counters and stall state a
// step_* call advances.
type Machine struct {
	Registers  *RegisterFile
	MaxDigits  int
	Properties PropertyTable

	Instruction     int
	NextInstruction int
	BlockTime       int
	TickComplete    bool
	Interrupt       Interrupt

	Runtime    uint64
	EnergyUsed uint64

	ExecutedInstructions      [numInstructionKinds]int
	ExecutedInstructionGroups [numInstructionKinds]int

	previous previousInstruction
}

// NewMachine constructs a Machine from a digit width, a populated
// register file, and a property table; the returned machine starts at
// instruction 0 with all counters zeroed.
func NewMachine(digits int, registers *RegisterFile, properties PropertyTable) *Machine {
	return &Machine{
		Registers:    registers,
		MaxDigits:    digits,
		Properties:   properties,
		TickComplete: true,
	}
}

// Reset zeroes all register values/indices and every counter while
// preserving the machine's configuration (digit width, register file
// shape, property table).
func (m *Machine) Reset() {
	m.Registers.ResetToZero()
	m.Instruction = 0
	m.NextInstruction = 0
	m.BlockTime = 0
	m.TickComplete = true
	m.Interrupt = nil
	m.Runtime = 0
	m.EnergyUsed = 0
	m.ExecutedInstructions = [numInstructionKinds]int{}
	m.ExecutedInstructionGroups = [numInstructionKinds]int{}
	m.previous = previousInstruction{}
}

// StepCycle advances the machine by its smallest unit of simulated
// time: either it decrements an in-flight stall, evaluates one
// instruction, or is a no-op while interrupted. It returns whether the
// cycle did any work. tick_complete is reset to true at the top of
// every cycle, including stalling ones, so a multi-cycle instruction's
// stall cycles each run end-of-tick bookkeeping (runtime advances once
// per cycle, not once per instruction) until the instruction's
// block_time finally reaches zero and it commits.
func (m *Machine) StepCycle(p *Program) bool {
	m.TickComplete = true

	if m.Interrupt != nil {
		return false
	}

	var didSomething bool
	if m.BlockTime > 0 {
		m.BlockTime--
		didSomething = true
	} else {
		didSomething = m.evaluateCycle(p)
	}

	if m.BlockTime == 0 {
		m.Instruction = m.NextInstruction
		if err := m.Registers.ApplyBufferedWrites(); err != nil {
			m.Interrupt = interruptFromRegisterError(0, err)
		}
	}
	if m.TickComplete {
		m.endOfTick()
	}
	return didSomething
}

// StepInstruction repeatedly calls StepCycle until a cycle both did
// something and left block_time at zero (the instruction has
// committed), or an interrupt fires, returning the number of tick
// boundaries crossed.
func (m *Machine) StepInstruction(p *Program) uint64 {
	var ticks uint64
	for m.Interrupt == nil {
		didSomething := m.StepCycle(p)
		if m.TickComplete {
			ticks++
		}
		if didSomething && m.BlockTime == 0 {
			break
		}
	}
	return ticks
}

// StepTick repeatedly calls StepCycle until a tick boundary is crossed
// or an interrupt fires.
func (m *Machine) StepTick(p *Program) {
	for m.Interrupt == nil {
		m.StepCycle(p)
		if m.TickComplete {
			break
		}
	}
}

func (m *Machine) endOfTick() {
	m.ExecutedInstructions = [numInstructionKinds]int{}
	m.ExecutedInstructionGroups = [numInstructionKinds]int{}

	if m.Runtime == ^uint64(0) {
		m.Interrupt = &RuntimeCounterOverflowInterrupt{}
		m.previous = previousInstruction{}
		return
	}
	m.Runtime++

	for slot := 0; slot < NumRegisters; slot++ {
		reg, err := m.Registers.Get(slot)
		if err != nil {
			continue
		}
		reg.EndOfTick()
		if reg.BlockTime == 0 {
			reg.BlockReason = BlockNone
		}
	}
}

func interruptFromRegisterError(slot int, err error) Interrupt {
	if ri, ok := err.(*RegisterErrorInterrupt); ok {
		return ri
	}
	if rae, ok := err.(RegisterAccessError); ok {
		return &RegisterErrorInterrupt{Register: slot, Err: rae}
	}
	return &RegisterErrorInterrupt{Register: slot, Err: &NoSuchRegisterError{Got: err.Error()}}
}
