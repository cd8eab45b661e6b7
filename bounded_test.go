package zrho

import "testing"

func TestRangeOfDigits(t *testing.T) {
	cases := []struct {
		digits int
		want   Integer
	}{
		{0, 9},
		{1, 99},
		{2, 999},
		{8, 999999999},
	}
	for _, c := range cases {
		if got := RangeOfDigits(c.digits); got != c.want {
			t.Errorf("RangeOfDigits(%d) = %d, want %d", c.digits, got, c.want)
		}
	}
}

func TestNewBoundedIntBounds(t *testing.T) {
	if _, err := NewBoundedInt(99, 1); err != nil {
		t.Fatalf("NewBoundedInt(99, 1) should be valid: %v", err)
	}
	if _, err := NewBoundedInt(100, 1); err == nil {
		t.Fatalf("NewBoundedInt(100, 1) should overflow")
	} else if _, ok := err.(*ValueTooBigError); !ok {
		t.Fatalf("want *ValueTooBigError, got %T", err)
	}
	if _, err := NewBoundedInt(-100, 1); err == nil {
		t.Fatalf("NewBoundedInt(-100, 1) should underflow")
	} else if _, ok := err.(*ValueTooSmallError); !ok {
		t.Fatalf("want *ValueTooSmallError, got %T", err)
	}
	if _, err := NewBoundedInt(0, MaxDigits+1); err == nil {
		t.Fatalf("digits beyond MaxDigits should be rejected")
	} else if _, ok := err.(*NumDigitsNotSupportedError); !ok {
		t.Fatalf("want *NumDigitsNotSupportedError, got %T", err)
	}
}

func TestTrySetLeavesReceiverUnmodifiedOnError(t *testing.T) {
	b, err := NewBoundedInt(5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.TrySet(200); err == nil {
		t.Fatal("expected overflow error")
	}
	if b.Get() != 5 {
		t.Fatalf("TrySet mutated receiver on failure: got %d, want 5", b.Get())
	}
}

func TestIsValidDoesNotMutate(t *testing.T) {
	b, _ := NewBoundedInt(5, 1)
	if err := b.IsValid(200); err == nil {
		t.Fatal("expected IsValid to report the same error TrySet would")
	}
	if b.Get() != 5 {
		t.Fatalf("IsValid must not mutate: got %d", b.Get())
	}
}

func TestMaximumMinimum(t *testing.T) {
	b, _ := NewBoundedInt(0, 2)
	if b.Maximum() != 999 {
		t.Errorf("Maximum() = %d, want 999", b.Maximum())
	}
	if b.Minimum() != -999 {
		t.Errorf("Minimum() = %d, want -999", b.Minimum())
	}
}
