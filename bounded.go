// bounded.go - fixed-decimal-digit signed integer with checked assignment

package zrho

import "fmt"

// Integer is the storage width for a bounded value.
type Integer = int32

// BiggerInteger is a wider width used for overflow-safe arithmetic.
type BiggerInteger = int64

// MaxDigits is the largest digit count a BoundedInt can be constructed
// with: floor(log10(MaxInt32)) - 1.
const MaxDigits = 8

// digitRange[d] holds R(d) = 10^(d+1) - 1, so a BoundedInt with d digits
// stores values in [-digitRange[d], digitRange[d]].
var digitRange = func() [MaxDigits + 1]Integer {
	var out [MaxDigits + 1]Integer
	var acc Integer
	for i := range out {
		acc = acc*10 + 9
		out[i] = acc
	}
	return out
}()

// RangeOfDigits returns R(d) for a digit count already known to be valid.
func RangeOfDigits(digits int) Integer {
	return digitRange[digits]
}

// BoundedInt is a signed value constrained to a fixed decimal-digit width.
type BoundedInt struct {
	value  Integer
	digits int
}

// NewBoundedInt constructs a BoundedInt, failing if digits exceeds
// MaxDigits or value lies outside the resulting range.
func NewBoundedInt(value Integer, digits int) (BoundedInt, error) {
	if digits < 0 || digits > MaxDigits {
		return BoundedInt{}, &NumDigitsNotSupportedError{}
	}
	if err := checkValue(value, digits); err != nil {
		return BoundedInt{}, err
	}
	return BoundedInt{value: value, digits: digits}, nil
}

// TrySet assigns value in place, leaving the receiver unmodified on error.
func (b *BoundedInt) TrySet(value Integer) error {
	if err := checkValue(value, b.digits); err != nil {
		return err
	}
	b.value = value
	return nil
}

// IsValid reports the error try_set would raise for value, without
// mutating the receiver.
func (b *BoundedInt) IsValid(value Integer) error {
	return checkValue(value, b.digits)
}

// Get returns the stored raw value.
func (b BoundedInt) Get() Integer { return b.value }

// GetBigger returns the stored value widened to BiggerInteger.
func (b BoundedInt) GetBigger() BiggerInteger { return BiggerInteger(b.value) }

// Digits returns the configured digit width.
func (b BoundedInt) Digits() int { return b.digits }

// Maximum returns R(d), the inclusive upper bound for this width.
func (b BoundedInt) Maximum() Integer { return RangeOfDigits(b.digits) }

// Minimum returns -R(d), the inclusive lower bound for this width.
func (b BoundedInt) Minimum() Integer { return -b.Maximum() }

func checkValue(value Integer, digits int) error {
	bound := RangeOfDigits(digits)
	if value > bound {
		return &ValueTooBigError{Got: value, Maximum: bound}
	}
	if value < -bound {
		return &ValueTooSmallError{Got: value, Minimum: -bound}
	}
	return nil
}

func (b BoundedInt) String() string {
	return fmt.Sprintf("%d", b.value)
}

// NumDigits returns the number of decimal digits required to print the
// unsigned range of this BoundedInt's width.
func (b BoundedInt) NumDigits() int {
	return len(fmt.Sprintf("%d", b.Maximum()))
}

// --- AssignIntegerError variants -------------------------------------------------

// AssignIntegerError is the closed set of errors a BoundedInt assignment
// can raise.
type AssignIntegerError interface {
	error
	isAssignIntegerError()
}

// ValueTooBigError means value exceeds the BoundedInt's own range, using
// the BoundedInt's own storage width.
type ValueTooBigError struct {
	Got, Maximum Integer
}

func (e *ValueTooBigError) Error() string {
	return fmt.Sprintf("%q is too big for this machine (maximum: %d)", fmt.Sprint(e.Got), e.Maximum)
}
func (*ValueTooBigError) isAssignIntegerError() {}

// ValueTooSmallError means value is below the BoundedInt's own range.
type ValueTooSmallError struct {
	Got, Minimum Integer
}

func (e *ValueTooSmallError) Error() string {
	return fmt.Sprintf("%q is too small for this machine (minimum: %d)", fmt.Sprint(e.Got), e.Minimum)
}
func (*ValueTooSmallError) isAssignIntegerError() {}

// ValueMuchTooBigError means an arithmetic result computed at
// BiggerInteger width overflowed the destination's range.
type ValueMuchTooBigError struct {
	Got     BiggerInteger
	Maximum Integer
}

func (e *ValueMuchTooBigError) Error() string {
	return fmt.Sprintf("%q is too big for this machine (maximum: %d)", fmt.Sprint(e.Got), e.Maximum)
}
func (*ValueMuchTooBigError) isAssignIntegerError() {}

// ValueMuchTooSmallError is the ValueMuchTooBigError's negative-side twin.
type ValueMuchTooSmallError struct {
	Got     BiggerInteger
	Minimum Integer
}

func (e *ValueMuchTooSmallError) Error() string {
	return fmt.Sprintf("%q is too small for this machine (minimum: %d)", fmt.Sprint(e.Got), e.Minimum)
}
func (*ValueMuchTooSmallError) isAssignIntegerError() {}

// NumDigitsNotSupportedError means a digit width above MaxDigits was
// requested.
type NumDigitsNotSupportedError struct{}

func (*NumDigitsNotSupportedError) Error() string { return "number of digits not supported" }
func (*NumDigitsNotSupportedError) isAssignIntegerError() {}
