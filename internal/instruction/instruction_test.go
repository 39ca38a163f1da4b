package instruction

import (
	"testing"

	"hrmopt/internal/datum"
)

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress("3", 1)
	if err != nil || a != Direct(3) {
		t.Errorf("ParseAddress(3) = %v, %v, want Direct(3), nil", a, err)
	}
	a, err = ParseAddress("[3]", 1)
	if err != nil || a != Indirect(3) {
		t.Errorf("ParseAddress([3]) = %v, %v, want Indirect(3), nil", a, err)
	}
	if _, err := ParseAddress("x", 1); err == nil {
		t.Error("ParseAddress(x) should fail")
	}
}

func TestResolveIndirectThroughLetterFails(t *testing.T) {
	floor := datum.NewFloor(4)
	l, _ := datum.NewLetter('A')
	_ = floor.Set(0, l)

	if _, err := Indirect(0).Resolve(floor); err == nil {
		t.Error("indirecting through a letter tile should fail")
	}
}

func TestResolveIndirectThroughEmptyFails(t *testing.T) {
	floor := datum.NewFloor(4)
	if _, err := Indirect(0).Resolve(floor); err == nil {
		t.Error("indirecting through an empty tile should fail")
	}
}

func TestResolveDirectOutOfRange(t *testing.T) {
	floor := datum.NewFloor(4)
	if _, err := Direct(10).Resolve(floor); err == nil {
		t.Error("direct address past the floor's end should fail")
	}
}

func TestResolveIndirectOutOfRangeValue(t *testing.T) {
	floor := datum.NewFloor(4)
	n, _ := datum.NewNumber(99)
	_ = floor.Set(0, n)
	if _, err := Indirect(0).Resolve(floor); err == nil {
		t.Error("indirecting to an out-of-range numeric value should fail")
	}
}

func TestIsJumpHasAddress(t *testing.T) {
	if !OpJump.IsJump() || !OpJumpZ.IsJump() || !OpJumpN.IsJump() {
		t.Error("JUMP/JUMPZ/JUMPN should report IsJump")
	}
	if OpInbox.IsJump() || OpAdd.IsJump() {
		t.Error("INBOX/ADD should not report IsJump")
	}
	if !OpAdd.HasAddress() || !OpCopyTo.HasAddress() {
		t.Error("ADD/COPYTO should report HasAddress")
	}
	if OpInbox.HasAddress() || OpJump.HasAddress() {
		t.Error("INBOX/JUMP should not report HasAddress")
	}
}
