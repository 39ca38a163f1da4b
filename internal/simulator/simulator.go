// Package simulator is the reference executor (spec §4.4): the
// semantic oracle every optimization pass must preserve. Structured
// the way the teacher's internal/vm run loop is — a state struct and
// a switch over the instruction's opcode — but over a single
// accumulator and a floor instead of a value stack and call frames.
package simulator

import (
	"context"

	"hrmopt/internal/datum"
	hrmerrors "hrmopt/internal/errors"
	"hrmopt/internal/instruction"
	"hrmopt/internal/program"
)

// Result is what a run produces: the number of executed instructions
// and the sequence appended to the outbox.
type Result struct {
	Steps  int
	Outbox []datum.Datum
}

// state is the simulator's mutable machine state (spec §4.4 "State").
type state struct {
	pc    int
	acc   datum.Datum
	floor datum.Floor
	steps int
}

// Run executes prog against inbox until it halts (§4.4 "Halt") or
// hits a runtime error. The core itself never suspends (spec §5);
// ctx is consulted only between instructions so a caller (the CLI's
// concurrent demo-simulation step) can bound a run that has looped
// longer than expected — termination is explicitly a non-goal of the
// optimizer (spec §1), so nothing here assumes the program halts.
func Run(ctx context.Context, prog *program.Program, inbox []datum.Datum) (Result, error) {
	st := &state{
		pc:    0,
		floor: prog.InitialFloor.Clone(),
	}
	inboxPos := 0
	var outbox []datum.Datum

	for {
		if st.pc >= len(prog.Instructions) {
			break
		}
		if err := ctx.Err(); err != nil {
			return Result{Steps: st.steps, Outbox: outbox}, err
		}

		instr := prog.Instructions[st.pc]
		halted, err := step(st, instr, prog, &inboxPos, inbox, &outbox)
		if err != nil {
			return Result{Steps: st.steps, Outbox: outbox}, err
		}
		if halted {
			break
		}

		st.steps++
		st.pc++
	}

	return Result{Steps: st.steps, Outbox: outbox}, nil
}

// step executes one instruction. It returns halted=true only for
// INBOX-on-empty, the one halt condition reachable mid-loop (the
// past-the-end halt is checked by the caller).
func step(st *state, instr instruction.Instruction, prog *program.Program, inboxPos *int, inbox []datum.Datum, outbox *[]datum.Datum) (halted bool, err error) {
	switch instr.Op {
	case instruction.OpInbox:
		if *inboxPos >= len(inbox) {
			return true, nil
		}
		st.acc = inbox[*inboxPos]
		*inboxPos++

	case instruction.OpOutbox:
		if st.acc == nil {
			return false, hrmerrors.ErrEmptyHands
		}
		*outbox = append(*outbox, st.acc)
		st.acc = nil

	case instruction.OpCopyFrom:
		idx, rerr := instr.Addr.Resolve(st.floor)
		if rerr != nil {
			return false, rerr
		}
		tile, _ := st.floor.Get(idx)
		if tile == nil {
			return false, hrmerrors.ErrEmptyFloor
		}
		st.acc = tile

	case instruction.OpCopyTo:
		if st.acc == nil {
			return false, hrmerrors.ErrEmptyHands
		}
		idx, rerr := instr.Addr.Resolve(st.floor)
		if rerr != nil {
			return false, rerr
		}
		_ = st.floor.Set(idx, st.acc)

	case instruction.OpAdd:
		idx, rerr := instr.Addr.Resolve(st.floor)
		if rerr != nil {
			return false, rerr
		}
		tile, _ := st.floor.Get(idx)
		if st.acc == nil {
			return false, hrmerrors.ErrEmptyHands
		}
		if tile == nil {
			return false, hrmerrors.ErrEmptyFloor
		}
		result, aerr := datum.Add(st.acc, tile)
		if aerr != nil {
			return false, aerr
		}
		st.acc = result

	case instruction.OpSub:
		idx, rerr := instr.Addr.Resolve(st.floor)
		if rerr != nil {
			return false, rerr
		}
		tile, _ := st.floor.Get(idx)
		if st.acc == nil {
			return false, hrmerrors.ErrEmptyHands
		}
		if tile == nil {
			return false, hrmerrors.ErrEmptyFloor
		}
		result, serr := datum.Sub(st.acc, tile)
		if serr != nil {
			return false, serr
		}
		st.acc = result

	case instruction.OpBumpUp, instruction.OpBumpDn:
		idx, rerr := instr.Addr.Resolve(st.floor)
		if rerr != nil {
			return false, rerr
		}
		tile, _ := st.floor.Get(idx)
		if tile == nil {
			return false, hrmerrors.ErrEmptyFloor
		}
		delta := 1
		if instr.Op == instruction.OpBumpDn {
			delta = -1
		}
		result, berr := datum.Bump(tile, delta)
		if berr != nil {
			return false, berr
		}
		_ = st.floor.Set(idx, result)
		st.acc = result

	case instruction.OpJump:
		st.pc = prog.Labels[instr.Label] - 1

	case instruction.OpJumpZ, instruction.OpJumpN:
		if st.acc == nil {
			return false, hrmerrors.ErrEmptyHands
		}
		if n, ok := st.acc.(datum.Number); ok {
			matches := (instr.Op == instruction.OpJumpZ && n == 0) ||
				(instr.Op == instruction.OpJumpN && n < 0)
			if matches {
				st.pc = prog.Labels[instr.Label] - 1
			}
		}
		// a letter in the accumulator never matches either predicate
		// (spec §4.4); fall through without jumping or erroring.
	}

	return false, nil
}
