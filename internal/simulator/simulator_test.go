package simulator

import (
	"context"
	"testing"

	"hrmopt/internal/datum"
	hrmerrors "hrmopt/internal/errors"
	"hrmopt/internal/instruction"
	"hrmopt/internal/program"
)

func numbers(ns ...int) []datum.Datum {
	out := make([]datum.Datum, len(ns))
	for i, n := range ns {
		d, _ := datum.NewNumber(n)
		out[i] = d
	}
	return out
}

func TestEcho(t *testing.T) {
	prog := &program.Program{
		Instructions: []instruction.Instruction{
			instruction.Inbox(),
			instruction.Outbox(),
			instruction.Jump("a"),
		},
		Labels: map[string]int{"a": 0},
	}

	res, err := Run(context.Background(), prog, numbers(1, 2, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Outbox) != 3 {
		t.Fatalf("expected 3 outputs, got %d: %v", len(res.Outbox), res.Outbox)
	}
	for i, want := range numbers(1, 2, 3) {
		if !datum.Equal(res.Outbox[i], want) {
			t.Errorf("outbox[%d] = %v, want %v", i, res.Outbox[i], want)
		}
	}
}

func TestNegateViaZero(t *testing.T) {
	zero, _ := datum.NewNumber(0)
	prog := &program.Program{
		Instructions: []instruction.Instruction{
			instruction.Inbox(),
			instruction.CopyTo(instruction.Direct(1)),
			instruction.CopyFrom(instruction.Direct(0)),
			instruction.Sub(instruction.Direct(1)),
			instruction.Outbox(),
			instruction.Jump("a"),
		},
		Labels:       map[string]int{"a": 0},
		InitialFloor: datum.Floor{zero, nil},
	}

	res, err := Run(context.Background(), prog, numbers(5, -3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := numbers(-5, 3)
	for i := range want {
		if !datum.Equal(res.Outbox[i], want[i]) {
			t.Errorf("outbox[%d] = %v, want %v", i, res.Outbox[i], want[i])
		}
	}
}

func TestLetterSubtraction(t *testing.T) {
	a, _ := datum.NewLetter('A')
	c, _ := datum.NewLetter('C')
	prog := &program.Program{
		Instructions: []instruction.Instruction{
			instruction.Inbox(),
			instruction.Sub(instruction.Direct(0)),
			instruction.Outbox(),
		},
		InitialFloor: datum.Floor{a},
	}

	res, err := Run(context.Background(), prog, []datum.Datum{c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := datum.NewNumber(2)
	if len(res.Outbox) != 1 || !datum.Equal(res.Outbox[0], want) {
		t.Errorf("outbox = %v, want [%v]", res.Outbox, want)
	}
}

func TestOverflowHalts(t *testing.T) {
	max, _ := datum.NewNumber(999)
	prog := &program.Program{
		Instructions: []instruction.Instruction{
			instruction.BumpUp(instruction.Direct(0)),
		},
		InitialFloor: datum.Floor{max},
	}

	_, err := Run(context.Background(), prog, nil)
	if !hrmerrors.ErrOverflow.Is(err) {
		t.Errorf("expected Overflow, got %v", err)
	}
}

func TestEmptyHandsOnOutbox(t *testing.T) {
	prog := &program.Program{
		Instructions: []instruction.Instruction{instruction.Outbox()},
	}
	_, err := Run(context.Background(), prog, nil)
	if !hrmerrors.ErrEmptyHands.Is(err) {
		t.Errorf("expected EmptyHands, got %v", err)
	}
}

func TestInboxHaltsWhenEmpty(t *testing.T) {
	prog := &program.Program{
		Instructions: []instruction.Instruction{instruction.Inbox(), instruction.Outbox()},
	}
	res, err := Run(context.Background(), prog, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Outbox) != 0 {
		t.Errorf("expected no output, got %v", res.Outbox)
	}
}
