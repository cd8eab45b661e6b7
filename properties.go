// properties.go - instruction kinds and their default timing/energy table

package zrho

// InstructionKind names one of the fixed set of operations a machine can
// execute. Its numeric value is also its index into PropertyTable and
// Machine's per-kind tallies.
type InstructionKind int

const (
	Set InstructionKind = iota
	Add
	Sub
	Neg
	Mul
	Div
	Mod
	Odd
	Cmp
	Tcp
	Fcp
	Jmp
	Ljp
	Ujp
	Slp
	End
	Try
	Trw
	Clk

	numInstructionKinds
)

func (k InstructionKind) String() string {
	names := [numInstructionKinds]string{
		Set: "SET", Add: "ADD", Sub: "SUB", Neg: "NEG", Mul: "MUL",
		Div: "DIV", Mod: "MOD", Odd: "ODD", Cmp: "CMP", Tcp: "TCP",
		Fcp: "FCP", Jmp: "JMP", Ljp: "LJP", Ujp: "UJP", Slp: "SLP",
		End: "END", Try: "TRY", Trw: "TRW", Clk: "CLK",
	}
	if k < 0 || int(k) >= len(names) {
		return "???"
	}
	return names[k]
}

// KindFromMnemonic resolves a case-sensitive assembly mnemonic to its
// InstructionKind, reporting ok=false for anything unrecognised.
func KindFromMnemonic(mnemonic string) (InstructionKind, bool) {
	for k := InstructionKind(0); k < numInstructionKinds; k++ {
		if k.String() == mnemonic {
			return k, true
		}
	}
	return 0, false
}

// ArgumentRequirement names the shape an instruction's argument slot
// demands of the token or value resolved into it.
type ArgumentRequirement int

const (
	ReqRegisterWrite ArgumentRequirement = iota
	ReqRegisterRead
	ReqValue          // const or register
	ReqComparison
	ReqAnyValueOrEmpty
	ReqAnyValue
	ReqConstOrEmpty
	ReqConst
	ReqLabel
	ReqEmpty
)

// AllowsEmpty reports whether this requirement's slot may legally be
// left unfilled by a shorter-than-maximum argument list.
func (r ArgumentRequirement) AllowsEmpty() bool {
	switch r {
	case ReqAnyValueOrEmpty, ReqConstOrEmpty, ReqEmpty:
		return true
	default:
		return false
	}
}

func (r ArgumentRequirement) String() string {
	switch r {
	case ReqRegisterWrite:
		return "a register to write"
	case ReqRegisterRead:
		return "a register to read"
	case ReqValue:
		return "a constant or register"
	case ReqComparison:
		return "a comparison"
	case ReqAnyValueOrEmpty:
		return "a constant, register, or nothing"
	case ReqAnyValue:
		return "a constant or register"
	case ReqConstOrEmpty:
		return "a constant, or nothing"
	case ReqConst:
		return "a constant"
	case ReqLabel:
		return "a label"
	default:
		return "nothing"
	}
}

// PropertyCondition is a predicate evaluated against the instruction
// currently being timed, used to select a cheaper conditional_time or to
// alias a call-count group onto another kind.
type PropertyCondition interface {
	isPropertyCondition()
}

// AlwaysCondition always fires.
type AlwaysCondition struct{}

func (AlwaysCondition) isPropertyCondition() {}

// SameAsPreviousCondition fires when the previously committed
// instruction had Kind and its resolved arguments equalled this one's.
// AllowCascade, when false, suppresses the "update previous" flag so the
// bonus this predicate grants cannot chain past one instruction.
type SameAsPreviousCondition struct {
	Kind         InstructionKind
	AllowCascade bool
}

func (SameAsPreviousCondition) isPropertyCondition() {}

// ArgumentMatchesCondition fires when the resolved value of argument
// slot Index equals Value.
type ArgumentMatchesCondition struct {
	Index int
	Value Integer
}

func (ArgumentMatchesCondition) isPropertyCondition() {}

// ArgumentTypeMatchesCondition fires when the raw argument at Index
// satisfies Requirement.
type ArgumentTypeMatchesCondition struct {
	Index       int
	Requirement ArgumentRequirement
}

func (ArgumentTypeMatchesCondition) isPropertyCondition() {}

// ConditionalTime overrides base_time (and optionally base_energy) when
// Condition fires.
type ConditionalTime struct {
	Cycles    int
	Condition PropertyCondition
	// Energy, if EnergySet, overrides base_energy alongside Cycles.
	Energy    int
	EnergySet bool
}

// GroupRule aliases this kind's per-tick call accounting onto Kind when
// Condition fires.
type GroupRule struct {
	Kind      InstructionKind
	Condition PropertyCondition
}

// InstructionProperties is the static per-kind configuration the
// evaluator consults for timing, energy and argument shape. CallLimit of
// -1 means unlimited.
type InstructionProperties struct {
	Kind      InstructionKind
	Name      string
	Arguments [3]ArgumentRequirement

	BaseTime   int
	BaseEnergy int

	ConditionalTime *ConditionalTime
	CallLimit       int
	Group           *GroupRule
}

// MinimumArguments counts the non-empty, non-optional argument slots.
func (p *InstructionProperties) MinimumArguments() int {
	n := 0
	for _, a := range p.Arguments {
		if a == ReqEmpty {
			continue
		}
		if !a.AllowsEmpty() {
			n++
		}
	}
	return n
}

// MaximumArguments counts every non-empty argument slot.
func (p *InstructionProperties) MaximumArguments() int {
	n := 0
	for _, a := range p.Arguments {
		if a != ReqEmpty {
			n++
		}
	}
	return n
}

// PropertyTable is a dense array of InstructionProperties indexed by
// InstructionKind.
type PropertyTable [numInstructionKinds]InstructionProperties

// WithInstruction returns a copy of the table with slot kind's entry
// replaced by mutate's result, panicking if mutate changed the entry's
// Kind field — every customisation must preserve the kind it configures.
func (t PropertyTable) WithInstruction(kind InstructionKind, mutate func(InstructionProperties) InstructionProperties) PropertyTable {
	next := mutate(t[kind])
	if next.Kind != kind {
		panic("zrho: WithInstruction must preserve Kind")
	}
	t[kind] = next
	return t
}

func cond(cycles int, c PropertyCondition) *ConditionalTime {
	return &ConditionalTime{Cycles: cycles, Condition: c}
}

func condEnergy(cycles, energy int, c PropertyCondition) *ConditionalTime {
	return &ConditionalTime{Cycles: cycles, Energy: energy, EnergySet: true, Condition: c}
}

func group(kind InstructionKind, c PropertyCondition) *GroupRule {
	return &GroupRule{Kind: kind, Condition: c}
}

// DefaultProperties is the factory-configured property table every new
// Machine starts from, overridable per-machine via WithInstruction.
var DefaultProperties = PropertyTable{
	Set: {
		Kind: Set, Name: "SET",
		Arguments:  [3]ArgumentRequirement{ReqRegisterWrite, ReqValue, ReqEmpty},
		BaseTime:   1, BaseEnergy: 1,
		CallLimit: 1,
	},
	Add: {
		Kind: Add, Name: "ADD",
		Arguments:  [3]ArgumentRequirement{ReqValue, ReqValue, ReqRegisterWrite},
		BaseTime:   1, BaseEnergy: 2,
		CallLimit: 1,
	},
	Sub: {
		Kind: Sub, Name: "SUB",
		Arguments:  [3]ArgumentRequirement{ReqValue, ReqValue, ReqRegisterWrite},
		BaseTime:   1, BaseEnergy: 2,
		CallLimit: 1,
		Group:     group(Neg, ArgumentTypeMatchesCondition{Index: 1, Requirement: ReqRegisterRead}),
	},
	Neg: {
		Kind: Neg, Name: "NEG",
		Arguments:  [3]ArgumentRequirement{ReqRegisterRead, ReqEmpty, ReqEmpty},
		BaseTime:   0, BaseEnergy: 1,
		CallLimit: 1,
	},
	Mul: {
		Kind: Mul, Name: "MUL",
		Arguments:  [3]ArgumentRequirement{ReqValue, ReqValue, ReqRegisterWrite},
		BaseTime:   2, BaseEnergy: 4,
		CallLimit: 1,
	},
	Div: {
		Kind: Div, Name: "DIV",
		Arguments:       [3]ArgumentRequirement{ReqValue, ReqValue, ReqRegisterWrite},
		BaseTime:        4, BaseEnergy: 8,
		ConditionalTime: condEnergy(1, 0, SameAsPreviousCondition{Kind: Mod, AllowCascade: false}),
		CallLimit:       1,
	},
	Mod: {
		Kind: Mod, Name: "MOD",
		Arguments:       [3]ArgumentRequirement{ReqValue, ReqValue, ReqRegisterWrite},
		BaseTime:        4, BaseEnergy: 8,
		ConditionalTime: condEnergy(1, 0, SameAsPreviousCondition{Kind: Div, AllowCascade: false}),
		CallLimit:       1,
	},
	Odd: {
		Kind: Odd, Name: "ODD",
		Arguments:  [3]ArgumentRequirement{ReqRegisterRead, ReqEmpty, ReqEmpty},
		BaseTime:   0, BaseEnergy: 1,
		CallLimit: 1,
	},
	Cmp: {
		Kind: Cmp, Name: "CMP",
		Arguments:  [3]ArgumentRequirement{ReqComparison, ReqRegisterWrite, ReqEmpty},
		BaseTime:   1, BaseEnergy: 1,
		CallLimit: 1,
	},
	Tcp: {
		Kind: Tcp, Name: "TCP",
		Arguments:  [3]ArgumentRequirement{ReqComparison, ReqRegisterWrite, ReqEmpty},
		BaseTime:   1, BaseEnergy: 2,
		CallLimit: 1,
	},
	Fcp: {
		Kind: Fcp, Name: "FCP",
		Arguments:  [3]ArgumentRequirement{ReqComparison, ReqRegisterWrite, ReqEmpty},
		BaseTime:   1, BaseEnergy: 2,
		CallLimit: 1,
	},
	Jmp: {
		Kind: Jmp, Name: "JMP",
		Arguments:       [3]ArgumentRequirement{ReqAnyValueOrEmpty, ReqLabel, ReqEmpty},
		BaseTime:        1, BaseEnergy: 1,
		ConditionalTime: cond(0, ArgumentTypeMatchesCondition{Index: 0, Requirement: ReqConstOrEmpty}),
		CallLimit:       1,
	},
	Ljp: {
		Kind: Ljp, Name: "LJP",
		Arguments:       [3]ArgumentRequirement{ReqAnyValue, ReqLabel, ReqEmpty},
		BaseTime:        0, BaseEnergy: 5,
		ConditionalTime: cond(5, ArgumentMatchesCondition{Index: 0, Value: 0}),
		CallLimit:       1,
		Group:           group(Jmp, AlwaysCondition{}),
	},
	Ujp: {
		Kind: Ujp, Name: "UJP",
		Arguments:       [3]ArgumentRequirement{ReqAnyValue, ReqLabel, ReqEmpty},
		BaseTime:        5, BaseEnergy: 5,
		ConditionalTime: cond(0, ArgumentMatchesCondition{Index: 0, Value: 0}),
		CallLimit:       1,
		Group:           group(Jmp, AlwaysCondition{}),
	},
	Slp: {
		Kind: Slp, Name: "SLP",
		Arguments:  [3]ArgumentRequirement{ReqValue, ReqEmpty, ReqEmpty},
		BaseTime:   0, BaseEnergy: 0,
		CallLimit: -1,
	},
	End: {
		Kind: End, Name: "END",
		Arguments:  [3]ArgumentRequirement{ReqEmpty, ReqEmpty, ReqEmpty},
		BaseTime:   0, BaseEnergy: 0,
		CallLimit: 1,
	},
	Try: {
		Kind: Try, Name: "TRY",
		Arguments:  [3]ArgumentRequirement{ReqRegisterRead, ReqEmpty, ReqEmpty},
		BaseTime:   0, BaseEnergy: 0,
		CallLimit: -1,
	},
	Trw: {
		Kind: Trw, Name: "TRW",
		Arguments:  [3]ArgumentRequirement{ReqRegisterWrite, ReqEmpty, ReqEmpty},
		BaseTime:   0, BaseEnergy: 0,
		CallLimit: -1,
	},
	Clk: {
		Kind: Clk, Name: "CLK",
		Arguments:  [3]ArgumentRequirement{ReqRegisterWrite, ReqConstOrEmpty, ReqEmpty},
		BaseTime:   0, BaseEnergy: 2,
		CallLimit: 1,
	},
}
