// registerfile.go - the fixed bank of registers a Machine evaluates against

package zrho

import (
	"fmt"
	"strings"
)

// NumRegisters is the number of addressable register slots on every
// machine, named 'A' through 'Z'.
const NumRegisters = 26

// NameOfRegister returns the single-letter name of slot i.
func NameOfRegister(i int) string {
	return string(rune('A' + i))
}

// RegisterWithName resolves a single-letter register name back to its
// slot index, or reports ok=false if name isn't a single letter A-Z.
func RegisterWithName(name string) (slot int, ok bool) {
	if len(name) != 1 {
		return 0, false
	}
	c := name[0]
	if c < 'A' || c > 'Z' {
		return 0, false
	}
	return int(c - 'A'), true
}

// ColumnOfRegister maps a slot to one of four display columns (0-3):
// U-Z go in column 0, I-M in column 1, D-H in column 2, and every other
// register in column 3.
func ColumnOfRegister(slot int) int {
	switch {
	case slot >= 3 && slot < 8:
		return 2
	case slot >= 8 && slot < 13:
		return 1
	case slot >= 20 && slot < 26:
		return 0
	default:
		return 3
	}
}

// bufferedWrite is a write staged by BufferedWrite that is only applied to
// the real register at commit time (block_time==0).
type bufferedWrite struct {
	slot  int
	value Integer
}

// RegisterFile is the fixed bank of NumRegisters registers a Machine
// evaluates instructions against.
type RegisterFile struct {
	registers [NumRegisters]*Register
	buffer    []bufferedWrite
}

// NewEmptyRegisterFile returns a RegisterFile with every slot unset;
// callers populate slots with AddRegister before first use.
func NewEmptyRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

// AddRegister installs reg at slot, replacing any register already
// there; it fails only if slot is out of range.
func (rf *RegisterFile) AddRegister(slot int, reg Register) error {
	if slot < 0 || slot >= NumRegisters {
		return &NoSuchRegisterError{Got: fmt.Sprintf("slot %d", slot)}
	}
	r := reg
	rf.registers[slot] = &r
	return nil
}

// WithRegister is AddRegister with builder-style chaining for
// construction call sites; it panics on an out-of-range slot since that
// is always a programming error at setup time, never a runtime one.
func (rf *RegisterFile) WithRegister(slot int, reg Register) *RegisterFile {
	if err := rf.AddRegister(slot, reg); err != nil {
		panic(err)
	}
	return rf
}

// Get returns the register at slot.
func (rf *RegisterFile) Get(slot int) (*Register, error) {
	if slot < 0 || slot >= NumRegisters || rf.registers[slot] == nil {
		return nil, &NoSuchRegisterError{Got: fmt.Sprintf("slot %d", slot)}
	}
	return rf.registers[slot], nil
}

// ResetToZero clears every populated register's buffer, value(s), vector
// index and block_time back to their power-on state.
func (rf *RegisterFile) ResetToZero() {
	rf.buffer = rf.buffer[:0]
	for _, r := range rf.registers {
		if r == nil {
			continue
		}
		switch v := r.Values.(type) {
		case *ScalarValues:
			v.Value.TrySet(0)
		case *VectorValues:
			for i := range v.Values {
				v.Values[i].TrySet(0)
			}
			v.Index = 0
		}
		r.BlockTime = 0
		r.BlockReason = BlockNone
		r.IndexedBy = -1
	}
}

// BufferedWrite validates value against slot's current bounds without
// mutating it, then stages the write for commit at the next block_time
// boundary. The evaluator stages every instruction's register write this
// way so that a write in flight does not become visible before its
// block_time elapses.
func (rf *RegisterFile) BufferedWrite(slot int, value Integer) error {
	reg, err := rf.Get(slot)
	if err != nil {
		return err
	}
	if err := rf.validate(reg, value); err != nil {
		return err
	}
	rf.buffer = append(rf.buffer, bufferedWrite{slot: slot, value: value})
	return nil
}

// ApplyBufferedWrites drains every staged write in FIFO order, applying
// each with the full side effects of Write.
func (rf *RegisterFile) ApplyBufferedWrites() error {
	pending := rf.buffer
	rf.buffer = nil
	for _, w := range pending {
		if err := rf.Write(w.slot, w.value); err != nil {
			return err
		}
	}
	return nil
}

func (rf *RegisterFile) validate(reg *Register, value Integer) error {
	switch v := reg.Values.(type) {
	case *ScalarValues:
		return v.Value.IsValid(value)
	case *VectorValues:
		cell, err := v.Value()
		if err != nil {
			return err
		}
		return cell.IsValid(value)
	default:
		return nil
	}
}

// Write commits value to slot immediately: a direct write into slot's own
// currently addressed cell (the scalar value, or the vector's own
// effective cell). If slot additionally indexes another array (its
// IndexesArray/IndexedArraySlot configuration), that array's running
// index is driven by this same write as a side effect: its back-link is
// re-established, its IndexChangeCondition is evaluated against the
// movement, and its index is set to value.
func (rf *RegisterFile) Write(slot int, value Integer) error {
	reg, err := rf.Get(slot)
	if err != nil {
		return err
	}
	switch v := reg.Values.(type) {
	case *ScalarValues:
		if err := v.Value.TrySet(value); err != nil {
			return &InvalidAssignmentError{Err: err.(AssignIntegerError)}
		}
	case *VectorValues:
		cell, err := v.Value()
		if err != nil {
			return err
		}
		if err := cell.TrySet(value); err != nil {
			return &InvalidAssignmentError{Err: err.(AssignIntegerError)}
		}
	default:
		return nil
	}

	if reg.IndexesArray {
		rf.driveIndex(slot, reg.IndexedArraySlot, value)
	}
	return nil
}

// driveIndex applies the index-register side effect of a write: it sets
// the back-link on the indexed vector, arms its block condition if the
// index moved far enough, and records the movement's direction before
// assigning the new index.
func (rf *RegisterFile) driveIndex(indexerSlot, targetSlot int, value Integer) {
	target, err := rf.Get(targetSlot)
	if err != nil {
		return
	}
	tv, ok := target.Values.(*VectorValues)
	if !ok {
		return
	}

	target.IndexedBy = indexerSlot

	prev := tv.Index
	if target.BlockCondition != nil {
		delta := value - prev
		if delta < 0 {
			delta = -delta
		}
		if delta >= target.BlockCondition.MinimumChange {
			target.BlockTime = target.BlockCondition.BlockTime
			switch {
			case value < prev:
				target.BlockReason = BlockIndexDecreased
			case value == prev:
				target.BlockReason = BlockIndexWrittenNoOp
			default:
				target.BlockReason = BlockIndexIncreased
			}
		}
	}
	tv.Index = value
}

func (rf *RegisterFile) String() string {
	var sb strings.Builder
	for i, r := range rf.registers {
		if r == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", NameOfRegister(i), r.String())
	}
	return sb.String()
}
