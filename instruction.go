// instruction.go - the typed instruction model: arguments, comparisons, instructions

package zrho

import "fmt"

// Ordering is the three-way comparison result a Comparison tests its two
// sides against.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
)

// orderingSymbols indexes by (ordering + invert*3), matching the six
// comparison operator spellings the assembler recognises.
var orderingSymbols = [6]string{"<", "=", ">", "≥", "≠", "≤"}

// NumberSource is a value an instruction argument can read: either a
// register's current cell, or an assembled-in constant.
type NumberSource interface {
	isNumberSource()
	String() string
}

// RegisterSource reads register slot Slot.
type RegisterSource struct {
	Slot int
}

func (RegisterSource) isNumberSource() {}
func (r RegisterSource) String() string { return NameOfRegister(r.Slot) }

// ConstantSource is a value fixed at assembly time.
type ConstantSource struct {
	Value BoundedInt
}

func (ConstantSource) isNumberSource() {}
func (c ConstantSource) String() string { return c.Value.String() }

// Resolve resolves a NumberSource against rf, returning the resolved
// integer and, for a RegisterSource, the slot it was read from (-1
// otherwise).
func (c ConstantSource) Resolve(rf *RegisterFile) (Integer, int, error) {
	return c.Value.Get(), -1, nil
}

// Resolve reads a RegisterSource by reading its addressed cell.
func (r RegisterSource) Resolve(rf *RegisterFile) (Integer, int, error) {
	reg, err := rf.Get(r.Slot)
	if err != nil {
		return 0, r.Slot, &RegisterErrorInterrupt{Register: r.Slot, Err: err.(RegisterAccessError)}
	}
	switch v := reg.Values.(type) {
	case *ScalarValues:
		return v.Value.Get(), r.Slot, nil
	case *VectorValues:
		cell, err := v.Value()
		if err != nil {
			return 0, r.Slot, &RegisterErrorInterrupt{Register: r.Slot, Err: err.(RegisterAccessError)}
		}
		return cell.Get(), r.Slot, nil
	default:
		return 0, r.Slot, nil
	}
}

// ResolveNumberSource reads src's value against rf uniformly, since Go
// lacks Rust's single dispatch on an enum method here.
func ResolveNumberSource(src NumberSource, rf *RegisterFile) (Integer, int, error) {
	switch s := src.(type) {
	case ConstantSource:
		return s.Resolve(rf)
	case RegisterSource:
		return s.Resolve(rf)
	default:
		return 0, -1, fmt.Errorf("zrho: unknown NumberSource %T", src)
	}
}

// Comparison is an ordering test between two NumberSources, optionally
// inverted.
type Comparison struct {
	Ordering Ordering
	Invert   bool
	Values   [2]NumberSource
}

// Evaluate resolves both sides and returns 1 if their three-way
// comparison equals c.Ordering, XORed with c.Invert, else 0.
func (c Comparison) Evaluate(rf *RegisterFile) (Integer, error) {
	lhs, _, err := ResolveNumberSource(c.Values[0], rf)
	if err != nil {
		return 0, err
	}
	rhs, _, err := ResolveNumberSource(c.Values[1], rf)
	if err != nil {
		return 0, err
	}
	var actual Ordering
	switch {
	case lhs < rhs:
		actual = Less
	case lhs == rhs:
		actual = Equal
	default:
		actual = Greater
	}
	result := actual == c.Ordering
	if c.Invert {
		result = !result
	}
	if result {
		return 1, nil
	}
	return 0, nil
}

func (c Comparison) String() string {
	idx := int(c.Ordering)
	if c.Invert {
		idx += 3
	}
	return fmt.Sprintf("%s %s %s", c.Values[0], orderingSymbols[idx], c.Values[1])
}

// Argument is one of an Instruction's up to-three resolved slots.
type Argument interface {
	isArgument()
	// IsEmpty reports whether this slot was left unfilled.
	IsEmpty() bool
	String() string
}

// InstructionArgument is a resolved jump target: a program instruction
// index.
type InstructionArgument struct {
	Target int
}

func (InstructionArgument) isArgument()        {}
func (InstructionArgument) IsEmpty() bool      { return false }
func (a InstructionArgument) String() string   { return fmt.Sprintf("@%d", a.Target) }

// NumberArgument wraps a NumberSource.
type NumberArgument struct {
	Source NumberSource
}

func (NumberArgument) isArgument()      {}
func (NumberArgument) IsEmpty() bool    { return false }
func (a NumberArgument) String() string { return a.Source.String() }

// ComparisonArgument wraps a Comparison.
type ComparisonArgument struct {
	Comparison Comparison
}

func (ComparisonArgument) isArgument()      {}
func (ComparisonArgument) IsEmpty() bool    { return false }
func (a ComparisonArgument) String() string { return a.Comparison.String() }

// EmptyArgument fills an instruction's unused trailing slots.
type EmptyArgument struct{}

func (EmptyArgument) isArgument()      {}
func (EmptyArgument) IsEmpty() bool    { return true }
func (EmptyArgument) String() string   { return "" }

// IsSpecified reports whether arg carries a value. The upstream model
// this machine is built from defines this as identical to IsEmpty,
// which is a bug there (a "specified" argument should be anything other
// than empty); this implementation returns the corrected negation.
func IsSpecified(arg Argument) bool {
	return !arg.IsEmpty()
}

// Instruction is one assembled operation: its kind, the 1-based source
// line it came from, and exactly three resolved argument slots.
type Instruction struct {
	Kind      InstructionKind
	Line      int
	Arguments [3]Argument
}

func (i Instruction) String() string {
	s := i.Kind.String()
	for _, a := range i.Arguments {
		if a == nil || a.IsEmpty() {
			continue
		}
		s += " " + a.String()
	}
	return s
}
