package zrho

import "testing"

func TestKindFromMnemonicRoundTrip(t *testing.T) {
	for k := InstructionKind(0); k < numInstructionKinds; k++ {
		got, ok := KindFromMnemonic(k.String())
		if !ok || got != k {
			t.Errorf("KindFromMnemonic(%q) = (%v, %v), want (%v, true)", k.String(), got, ok, k)
		}
	}
	if _, ok := KindFromMnemonic("FOO"); ok {
		t.Error("FOO should not resolve to any kind")
	}
}

func TestAddCallLimitDefaultOne(t *testing.T) {
	if DefaultProperties[Add].CallLimit != 1 {
		t.Errorf("ADD call limit = %d, want 1", DefaultProperties[Add].CallLimit)
	}
}

func TestUnlimitedKindsHaveNoCallLimit(t *testing.T) {
	for _, k := range []InstructionKind{Slp, Try, Trw} {
		if DefaultProperties[k].CallLimit != -1 {
			t.Errorf("%v call limit = %d, want unlimited (-1)", k, DefaultProperties[k].CallLimit)
		}
	}
}

func TestSubGroupsUnderNeg(t *testing.T) {
	props := DefaultProperties[Sub]
	if props.Group == nil || props.Group.Kind != Neg {
		t.Fatalf("SUB should group under NEG, got %+v", props.Group)
	}
}

func TestMinimumMaximumArguments(t *testing.T) {
	props := DefaultProperties[Set]
	if got := props.MinimumArguments(); got != 2 {
		t.Errorf("SET minimum args = %d, want 2", got)
	}
	if got := props.MaximumArguments(); got != 2 {
		t.Errorf("SET maximum args = %d, want 2", got)
	}
}

func TestWithInstructionPreservesKind(t *testing.T) {
	table := DefaultProperties
	next := table.WithInstruction(Add, func(p InstructionProperties) InstructionProperties {
		p.BaseTime = 3
		return p
	})
	if next[Add].BaseTime != 3 {
		t.Fatalf("customisation was not applied")
	}
	if next[Add].Kind != Add {
		t.Fatalf("Kind must be preserved")
	}
}

func TestWithInstructionPanicsOnKindChange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when Kind is changed")
		}
	}()
	table := DefaultProperties
	table.WithInstruction(Add, func(p InstructionProperties) InstructionProperties {
		p.Kind = Sub
		return p
	})
}
