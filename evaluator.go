// evaluator.go - per-cycle instruction evaluation: read/write phases, timing, dispatch

package zrho

import "math"

// resolvedArgs snapshots the per-slot resolved values of one instruction
// evaluation, used both to drive dispatch and to compare against the
// previously committed instruction for SameAsPreviousCondition.
type resolvedArgs struct {
	values    [3]Integer
	specified [3]bool
}

func destSlot(arg Argument) (int, bool) {
	na, ok := arg.(NumberArgument)
	if !ok {
		return 0, false
	}
	rs, ok := na.Source.(RegisterSource)
	if !ok {
		return 0, false
	}
	return rs.Slot, true
}

func registerSlotsRead(arg Argument) []int {
	switch a := arg.(type) {
	case NumberArgument:
		if rs, ok := a.Source.(RegisterSource); ok {
			return []int{rs.Slot}
		}
	case ComparisonArgument:
		var slots []int
		for _, v := range a.Comparison.Values {
			if rs, ok := v.(RegisterSource); ok {
				slots = append(slots, rs.Slot)
			}
		}
		return slots
	}
	return nil
}

func argumentSatisfiesRequirement(arg Argument, req ArgumentRequirement) bool {
	switch req {
	case ReqConstOrEmpty:
		if arg.IsEmpty() {
			return true
		}
		na, ok := arg.(NumberArgument)
		if !ok {
			return false
		}
		_, ok = na.Source.(ConstantSource)
		return ok
	case ReqConst:
		na, ok := arg.(NumberArgument)
		if !ok {
			return false
		}
		_, ok = na.Source.(ConstantSource)
		return ok
	case ReqRegisterRead, ReqRegisterWrite:
		na, ok := arg.(NumberArgument)
		if !ok {
			return false
		}
		_, ok = na.Source.(RegisterSource)
		return ok
	case ReqValue, ReqAnyValue:
		na, ok := arg.(NumberArgument)
		if !ok {
			return false
		}
		switch na.Source.(type) {
		case ConstantSource, RegisterSource:
			return true
		default:
			return false
		}
	case ReqAnyValueOrEmpty:
		if arg.IsEmpty() {
			return true
		}
		na, ok := arg.(NumberArgument)
		if !ok {
			return false
		}
		switch na.Source.(type) {
		case ConstantSource, RegisterSource:
			return true
		default:
			return false
		}
	case ReqComparison:
		_, ok := arg.(ComparisonArgument)
		return ok
	case ReqLabel:
		_, ok := arg.(InstructionArgument)
		return ok
	case ReqEmpty:
		return arg.IsEmpty()
	default:
		return true
	}
}

func conditionAllowsPreviousUpdate(cond PropertyCondition) bool {
	if sp, ok := cond.(SameAsPreviousCondition); ok {
		return sp.AllowCascade
	}
	return true
}

func (m *Machine) conditionMatches(cond PropertyCondition, instr Instruction, resolved resolvedArgs) bool {
	switch c := cond.(type) {
	case AlwaysCondition:
		return true
	case SameAsPreviousCondition:
		if !m.previous.set || m.previous.kind != c.Kind {
			return false
		}
		return m.previous.values == resolved.values && m.previous.specified == resolved.specified
	case ArgumentMatchesCondition:
		return resolved.specified[c.Index] && resolved.values[c.Index] == c.Value
	case ArgumentTypeMatchesCondition:
		return argumentSatisfiesRequirement(instr.Arguments[c.Index], c.Requirement)
	default:
		return false
	}
}

// resolveArguments runs the read phase: it resolves every argument that
// is not write-only to a value (registers additionally contribute their
// read_time+block_time to the phase's cost, the maximum of all such
// contributions dominating rather than their sum) and returns the
// resolved values alongside that cost. A reg_w (write-only) slot and a
// jump-target (Instruction) slot are never resolved to a value — they
// are left unspecified, matching the source model where only the
// destination *slot* is needed (read separately by dispatch from the
// raw argument) and the target index plays no part in pipelining
// comparisons.
func (m *Machine) resolveArguments(instr Instruction, props *InstructionProperties) (resolvedArgs, int, error) {
	var resolved resolvedArgs
	readCost := 0

	for i, arg := range instr.Arguments {
		if props.Arguments[i] == ReqRegisterWrite {
			continue
		}
		if arg.IsEmpty() {
			continue
		}

		for _, slot := range registerSlotsRead(arg) {
			reg, err := m.Registers.Get(slot)
			if err != nil {
				return resolved, 0, &RegisterErrorInterrupt{Register: slot, Err: err.(RegisterAccessError)}
			}
			if cost := reg.ReadTime + reg.BlockTime; cost > readCost {
				readCost = cost
			}
		}

		switch a := arg.(type) {
		case InstructionArgument:
			// jump target: no resolved value, matches no read cost.
		case ComparisonArgument:
			v, err := a.Comparison.Evaluate(m.Registers)
			if err != nil {
				return resolved, 0, err
			}
			resolved.specified[i] = true
			resolved.values[i] = v
		case NumberArgument:
			v, _, err := ResolveNumberSource(a.Source, m.Registers)
			if err != nil {
				return resolved, 0, err
			}
			resolved.specified[i] = true
			resolved.values[i] = v
		}
	}
	return resolved, readCost, nil
}

func checkedArithmetic(dest *BoundedInt, r64 int64) error {
	if r64 > int64(math.MaxInt32) {
		return &ValueMuchTooBigError{Got: BiggerInteger(r64), Maximum: dest.Maximum()}
	}
	if r64 < int64(math.MinInt32) {
		return &ValueMuchTooSmallError{Got: BiggerInteger(r64), Minimum: dest.Minimum()}
	}
	return dest.TrySet(Integer(r64))
}

func euclidDiv(a, b int64) int64 {
	q := a / b
	r := a % b
	if r < 0 {
		if b > 0 {
			q--
		} else {
			q++
		}
	}
	return q
}

func euclidMod(a, b int64) int64 {
	r := a % b
	if r < 0 {
		if b > 0 {
			r += b
		} else {
			r -= b
		}
	}
	return r
}

// writeResult carries what a dispatched instruction computed: the write
// cost it should charge (whether or not a write landed) and a pending
// jump target, if any.
type writeResult struct {
	writeTime      int
	writeBlockTime int
	jumpTarget     *int
}

func (m *Machine) chargeWrite(slot int, res *writeResult) (*Register, error) {
	reg, err := m.Registers.Get(slot)
	if err != nil {
		return nil, &RegisterErrorInterrupt{Register: slot, Err: err.(RegisterAccessError)}
	}
	res.writeTime += reg.WriteTime
	if reg.BlockTime > res.writeBlockTime {
		res.writeBlockTime = reg.BlockTime
	}
	return reg, nil
}

func (m *Machine) writeTo(slot int, value Integer, res *writeResult) error {
	if _, err := m.chargeWrite(slot, res); err != nil {
		return err
	}
	if err := m.Registers.BufferedWrite(slot, value); err != nil {
		return &RegisterErrorInterrupt{Register: slot, Err: wrapAssignError(err)}
	}
	return nil
}

func wrapAssignError(err error) RegisterAccessError {
	if rae, ok := err.(RegisterAccessError); ok {
		return rae
	}
	if aie, ok := err.(AssignIntegerError); ok {
		return &InvalidAssignmentError{Err: aie}
	}
	return &NoSuchRegisterError{Got: err.Error()}
}

// dispatch performs kind's effect: arithmetic, comparisons, branching,
// sleeping or register touches. Write-producing operations only ever
// stage a buffered write; the caller commits it once block_time returns
// to zero.
func (m *Machine) dispatch(instr Instruction, props *InstructionProperties, resolved resolvedArgs, instrTime int) (writeResult, int, error) {
	var res writeResult
	rf := m.Registers

	switch instr.Kind {
	case Set:
		slot, _ := destSlot(instr.Arguments[0])
		if err := m.writeTo(slot, resolved.values[1], &res); err != nil {
			return res, instrTime, err
		}

	case Add:
		slot, _ := destSlot(instr.Arguments[2])
		reg, err := rf.Get(slot)
		if err != nil {
			return res, instrTime, &RegisterErrorInterrupt{Register: slot, Err: err.(RegisterAccessError)}
		}
		dest := currentBoundedInt(reg)
		r64 := int64(resolved.values[0]) + int64(resolved.values[1])
		if err := checkedArithmetic(&dest, r64); err != nil {
			return res, instrTime, &ArithmeticErrorInterrupt{Err: err}
		}
		if err := m.writeTo(slot, dest.Get(), &res); err != nil {
			return res, instrTime, err
		}

	case Sub:
		slot, _ := destSlot(instr.Arguments[2])
		reg, err := rf.Get(slot)
		if err != nil {
			return res, instrTime, &RegisterErrorInterrupt{Register: slot, Err: err.(RegisterAccessError)}
		}
		dest := currentBoundedInt(reg)
		r64 := int64(resolved.values[0]) - int64(resolved.values[1])
		if err := checkedArithmetic(&dest, r64); err != nil {
			return res, instrTime, &ArithmeticErrorInterrupt{Err: err}
		}
		if err := m.writeTo(slot, dest.Get(), &res); err != nil {
			return res, instrTime, err
		}

	case Neg:
		slot, _ := destSlot(instr.Arguments[0])
		reg, err := rf.Get(slot)
		if err != nil {
			return res, instrTime, &RegisterErrorInterrupt{Register: slot, Err: err.(RegisterAccessError)}
		}
		dest := currentBoundedInt(reg)
		r64 := -int64(resolved.values[0])
		if err := checkedArithmetic(&dest, r64); err != nil {
			return res, instrTime, &ArithmeticErrorInterrupt{Err: err}
		}
		if err := m.writeTo(slot, dest.Get(), &res); err != nil {
			return res, instrTime, err
		}

	case Mul:
		slot, _ := destSlot(instr.Arguments[2])
		reg, err := rf.Get(slot)
		if err != nil {
			return res, instrTime, &RegisterErrorInterrupt{Register: slot, Err: err.(RegisterAccessError)}
		}
		dest := currentBoundedInt(reg)
		r64 := int64(resolved.values[0]) * int64(resolved.values[1])
		if err := checkedArithmetic(&dest, r64); err != nil {
			return res, instrTime, &ArithmeticErrorInterrupt{Err: err}
		}
		if err := m.writeTo(slot, dest.Get(), &res); err != nil {
			return res, instrTime, err
		}

	case Div:
		if resolved.values[1] == 0 {
			return res, instrTime, &ArithmeticErrorInterrupt{Err: &DivideByZeroError{}}
		}
		slot, _ := destSlot(instr.Arguments[2])
		v := Integer(euclidDiv(int64(resolved.values[0]), int64(resolved.values[1])))
		if err := m.writeTo(slot, v, &res); err != nil {
			return res, instrTime, err
		}

	case Mod:
		if resolved.values[1] == 0 {
			return res, instrTime, &ArithmeticErrorInterrupt{Err: &DivideByZeroError{}}
		}
		slot, _ := destSlot(instr.Arguments[2])
		v := Integer(euclidMod(int64(resolved.values[0]), int64(resolved.values[1])))
		if err := m.writeTo(slot, v, &res); err != nil {
			return res, instrTime, err
		}

	case Odd:
		slot, _ := destSlot(instr.Arguments[0])
		v := Integer(euclidMod(int64(resolved.values[0]), 2))
		if err := m.writeTo(slot, v, &res); err != nil {
			return res, instrTime, err
		}

	case Cmp:
		slot, _ := destSlot(instr.Arguments[1])
		if err := m.writeTo(slot, resolved.values[0], &res); err != nil {
			return res, instrTime, err
		}

	case Tcp:
		if resolved.values[0] == 1 {
			slot, _ := destSlot(instr.Arguments[1])
			if err := m.writeTo(slot, resolved.values[0], &res); err != nil {
				return res, instrTime, err
			}
		}

	case Fcp:
		if resolved.values[0] == 0 {
			slot, _ := destSlot(instr.Arguments[1])
			if err := m.writeTo(slot, resolved.values[0], &res); err != nil {
				return res, instrTime, err
			}
		}

	case Jmp, Ljp, Ujp:
		// An unspecified predicate (JMP's optional arg0) always jumps; a
		// specified one only suppresses the jump when it resolves to
		// exactly zero.
		if !resolved.specified[0] || resolved.values[0] != 0 {
			target := instr.Arguments[1].(InstructionArgument).Target
			res.jumpTarget = &target
		}

	case Slp:
		extra := int(resolved.values[0])
		if extra < 0 {
			extra = 0
		}
		instrTime += extra

	case End:
		return res, instrTime, &ProgramCompleteInterrupt{}

	case Try:
		// read-only touch; cost already charged in the read phase.

	case Trw:
		slot, _ := destSlot(instr.Arguments[0])
		if _, err := m.chargeWrite(slot, &res); err != nil {
			return res, instrTime, err
		}

	case Clk:
		slot, _ := destSlot(instr.Arguments[0])
		reg, err := rf.Get(slot)
		if err != nil {
			return res, instrTime, &RegisterErrorInterrupt{Register: slot, Err: err.(RegisterAccessError)}
		}
		k := 0
		if resolved.specified[1] {
			k = int(resolved.values[1])
			if k < 0 {
				k = 0
			}
		}
		pow, overflow := pow10(k)
		dest := currentBoundedInt(reg)
		var v Integer
		if overflow {
			v = 0
		} else {
			mod := uint64(dest.Maximum()) + 1
			v = Integer((m.Runtime / pow) % mod)
		}
		if err := m.writeTo(slot, v, &res); err != nil {
			return res, instrTime, err
		}
	}

	return res, instrTime, nil
}

func pow10(k int) (uint64, bool) {
	var v uint64 = 1
	for i := 0; i < k; i++ {
		if v > math.MaxUint64/10 {
			return 0, true
		}
		v *= 10
	}
	return v, false
}

func currentBoundedInt(reg *Register) BoundedInt {
	if s, ok := reg.Values.(*ScalarValues); ok {
		return s.Value
	}
	if v, ok := reg.Values.(*VectorValues); ok {
		if cell, err := v.Value(); err == nil {
			return *cell
		}
	}
	return BoundedInt{}
}

// evaluateCycle performs one non-stall cycle: fetch, per-tick limit
// check, and full instruction evaluation. It returns whether any work
// was done.
func (m *Machine) evaluateCycle(p *Program) bool {
	if m.Instruction >= len(p.Instructions) {
		m.Interrupt = &ProgramCompleteInterrupt{}
		m.previous = previousInstruction{}
		return false
	}
	instr := p.Instructions[m.Instruction]
	props := m.Properties[instr.Kind]

	// The group (and so the per-tick limit check) is resolved before any
	// argument is read, against a default/unresolved argument snapshot —
	// matching computer.rs's ordering, where `group` is computed and the
	// limit checked ahead of ever calling `instruction.evaluate()` (the
	// read phase). A limit already at its cap must end the tick without
	// ever touching a register, even one a would-be read would fail on.
	groupKind := instr.Kind
	if props.Group != nil && m.conditionMatches(props.Group.Condition, instr, resolvedArgs{}) {
		groupKind = props.Group.Kind
	}

	if props.CallLimit >= 0 && m.ExecutedInstructionGroups[groupKind] >= props.CallLimit {
		m.TickComplete = true
		return false
	}
	m.ExecutedInstructions[instr.Kind]++
	m.ExecutedInstructionGroups[groupKind]++

	resolved, readCost, err := m.resolveArguments(instr, &props)
	if err != nil {
		m.Interrupt = errAsInterrupt(err)
		m.previous = previousInstruction{}
		return true
	}

	instrTime := props.BaseTime
	instrEnergy := props.BaseEnergy
	updatePrevious := true
	if props.ConditionalTime != nil && m.conditionMatches(props.ConditionalTime.Condition, instr, resolved) {
		instrTime = props.ConditionalTime.Cycles
		if props.ConditionalTime.EnergySet {
			instrEnergy = props.ConditionalTime.Energy
		}
		updatePrevious = conditionAllowsPreviousUpdate(props.ConditionalTime.Condition)
	}

	res, instrTime, err := m.dispatch(instr, &props, resolved, instrTime)
	if err != nil {
		m.Interrupt = errAsInterrupt(err)
		m.previous = previousInstruction{}
		return true
	}

	if updatePrevious {
		m.previous = previousInstruction{set: true, kind: instr.Kind, values: resolved.values, specified: resolved.specified}
	}

	if res.jumpTarget != nil {
		m.NextInstruction = *res.jumpTarget
	} else {
		m.NextInstruction = m.Instruction + 1
	}

	totalTime := readCost + instrTime
	if res.writeBlockTime > totalTime {
		totalTime = res.writeBlockTime
	}
	totalTime += res.writeTime

	if totalTime == 0 {
		m.TickComplete = false
	} else {
		m.BlockTime = totalTime - 1
	}

	if m.EnergyUsed > math.MaxUint64-uint64(instrEnergy) {
		m.Interrupt = &EnergyCounterOverflowInterrupt{}
		m.previous = previousInstruction{}
		return true
	}
	m.EnergyUsed += uint64(instrEnergy)

	return true
}

func errAsInterrupt(err error) Interrupt {
	if it, ok := err.(Interrupt); ok {
		return it
	}
	return &ArithmeticErrorInterrupt{Err: err}
}
