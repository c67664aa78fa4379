package tasks

import "testing"

func TestStateString(t *testing.T) {
	cases := []struct {
		s    State
		want string
	}{
		{StateNew, "NEW"},
		{StateWorking, "WORKING"},
		{StateCompleted, "COMPLETED"},
		{State(99), "UNKNOWN"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Fatalf("State(%d).String() = %q, want %q", c.s, got, c.want)
		}
	}
}

func TestIsMovement(t *testing.T) {
	for _, k := range []Kind{KindMove, KindEscape, KindSuppressRetreat} {
		if !(&Task{Kind: k}).IsMovement() {
			t.Fatalf("%s should be movement", k)
		}
	}
	for _, k := range []Kind{KindMelee, KindFire, KindFace, KindHeal, KindIdle} {
		if (&Task{Kind: k}).IsMovement() {
			t.Fatalf("%s should not be movement", k)
		}
	}
}

func TestInFlight(t *testing.T) {
	tk := &Task{Kind: KindMelee}
	if tk.InFlight() {
		t.Fatalf("NEW task should not be in flight")
	}
	tk.State = StateWorking
	if !tk.InFlight() {
		t.Fatalf("WORKING task should be in flight")
	}
	tk.State = StateCompleted
	if !tk.InFlight() {
		t.Fatalf("COMPLETED task should still count as started")
	}
}

func TestWeaponSlotString(t *testing.T) {
	if SlotPrimary.String() != "PRIMARY" || SlotMelee.String() != "MELEE" || SlotNone.String() != "NONE" {
		t.Fatalf("slot names wrong: %s %s %s", SlotPrimary, SlotMelee, SlotNone)
	}
}
