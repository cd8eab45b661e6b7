// register.go - a single scalar or vector register and its block state

package zrho

import (
	"fmt"
	"strings"
)

// MaxNumbers is how many vector cells Register's String prints around the
// selected index once it truncates with an ellipsis marker; vectors of up
// to MaxNumbers+2 cells are printed in full.
const MaxNumbers = 19

// BlockReason names why a register is currently stalling reads/writes,
// set when an index write arms its block condition.
type BlockReason int

const (
	// BlockNone means no index-change block is in effect: none has been
	// armed, or the last one ran out.
	BlockNone BlockReason = iota
	// BlockIndexDecreased means the last index write moved backward.
	BlockIndexDecreased
	// BlockIndexWrittenNoOp means the last index write repeated the
	// current index.
	BlockIndexWrittenNoOp
	// BlockIndexIncreased means the last index write moved forward.
	BlockIndexIncreased
)

func (r BlockReason) String() string {
	switch r {
	case BlockIndexDecreased:
		return "index decreased"
	case BlockIndexWrittenNoOp:
		return "index written (no-op)"
	case BlockIndexIncreased:
		return "index increased"
	default:
		return "none"
	}
}

// IndexChangeCondition stalls a register for BlockTime ticks whenever its
// index moves by at least MinimumChange in either direction.
type IndexChangeCondition struct {
	MinimumChange Integer
	BlockTime     int
}

// RegisterValues is the closed set of shapes a register's storage can
// take: a bare scalar, or a window onto a vector addressed by a running
// index.
type RegisterValues interface {
	isRegisterValues()
}

// ScalarValues holds a single BoundedInt.
type ScalarValues struct {
	Value BoundedInt
}

func (ScalarValues) isRegisterValues() {}

// VectorValues holds an addressable array of BoundedInt cells plus the
// running index and display offset used to resolve which cell is
// "current".
type VectorValues struct {
	Values []BoundedInt
	Index  Integer
	Offset Integer
}

func (VectorValues) isRegisterValues() {}

// effectiveIndex resolves the cell VectorValues.Index currently selects,
// clamped into [0, len-1] after subtracting Offset. The subtraction
// saturates at zero rather than wrapping, matching the source model this
// machine is built from.
func (v *VectorValues) effectiveIndex() Integer {
	idx := BiggerInteger(v.Index) - BiggerInteger(v.Offset)
	if idx < 0 {
		idx = 0
	}
	if max := BiggerInteger(len(v.Values)) - 1; idx > max {
		idx = max
	}
	return Integer(idx)
}

// Value returns the BoundedInt cell that Index-Offset addresses, without
// clamping: an address outside the vector is reported as
// IndexTooSmallError or IndexTooBigError.
func (v *VectorValues) Value() (*BoundedInt, error) {
	idx := v.Index - v.Offset
	if idx < 0 {
		return nil, &IndexTooSmallError{Got: idx, Minimum: v.Offset}
	}
	if max := Integer(len(v.Values)) - 1; idx > max {
		return nil, &IndexTooBigError{Got: idx, Maximum: max + v.Offset}
	}
	return &v.Values[idx], nil
}

// AllValues returns every cell of a vector, or the single value of a
// scalar.
func (r *Register) AllValues() []BoundedInt {
	switch v := r.Values.(type) {
	case *ScalarValues:
		return []BoundedInt{v.Value}
	case *VectorValues:
		return v.Values
	default:
		return nil
	}
}

// Register is one addressable storage slot: a typed value, its block
// state, and the timing the evaluator charges to read or write it.
type Register struct {
	Name      string
	Values    RegisterValues
	ReadTime  int
	WriteTime int

	BlockTime      int
	BlockReason    BlockReason
	BlockCondition *IndexChangeCondition

	// IndexesArray is set (at machine-configuration time) when writes to
	// this register also drive the running index of the vector register
	// at IndexedArraySlot.
	IndexesArray     bool
	IndexedArraySlot int

	// IndexedBy is the back-link side of the same relationship: the slot
	// of the register that last wrote this (vector) register's index, or
	// -1 if none has. It is purely informational, re-established by the
	// register file on every index write, and consulted only by display.
	IndexedBy int
}

// DefaultRegister is the zero-value register: a zero scalar with no
// block condition and no read/write latency.
func DefaultRegister(name string, digits int) Register {
	v, _ := NewBoundedInt(0, digits)
	return Register{Name: name, Values: &ScalarValues{Value: v}, IndexedBy: -1}
}

// NewVectorRegister returns a zero-filled Vector register of the given
// length and display offset.
func NewVectorRegister(name string, digits, length int, offset Integer) Register {
	values := make([]BoundedInt, length)
	for i := range values {
		values[i], _ = NewBoundedInt(0, digits)
	}
	return Register{
		Name:      name,
		Values:    &VectorValues{Values: values, Offset: offset},
		IndexedBy: -1,
	}
}

// EndOfTick decrements a still-blocked register's countdown by one tick.
func (r *Register) EndOfTick() {
	if r.BlockTime > 0 {
		r.BlockTime--
	}
}

func (r *Register) String() string {
	switch v := r.Values.(type) {
	case *ScalarValues:
		return v.Value.String()
	case *VectorValues:
		return r.vectorString(v)
	default:
		return ""
	}
}

func (r *Register) vectorString(v *VectorValues) string {
	eff := v.effectiveIndex()
	n := len(v.Values)
	lo, hi := 0, n
	var prefix, suffix string
	if n > MaxNumbers+2 {
		half := MaxNumbers / 2
		lo = int(eff) - half
		if lo < 0 {
			lo = 0
		}
		hi = lo + MaxNumbers
		if hi > n {
			hi = n
			lo = hi - MaxNumbers
			if lo < 0 {
				lo = 0
			}
		}
		if lo > 0 {
			prefix = "..., "
		}
		if hi < n {
			suffix = ", ..."
		}
	}

	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(prefix)
	for i := lo; i < hi; i++ {
		if i > lo {
			sb.WriteString(", ")
		}
		if Integer(i) == eff {
			sb.WriteByte('>')
		}
		sb.WriteString(v.Values[i].String())
	}
	sb.WriteString(suffix)
	sb.WriteByte(']')
	fmt.Fprintf(&sb, "[%d]", v.Index)
	if r.IndexedBy >= 0 {
		fmt.Fprintf(&sb, " <- %s", NameOfRegister(r.IndexedBy))
	}
	if r.BlockTime > 0 {
		fmt.Fprintf(&sb, " (waiting for %d ticks)", r.BlockTime)
	}
	return sb.String()
}
