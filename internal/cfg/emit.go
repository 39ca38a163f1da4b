package cfg

import (
	"fmt"

	hrmerrors "hrmopt/internal/errors"
	"hrmopt/internal/instruction"
	"hrmopt/internal/jumpflag"
	"hrmopt/internal/program"
)

// Emit writes the CFG back to a linear Program (spec §4.6
// "Emission"). Every block with any incoming edge receives a fresh
// synthetic label; a fall-through Always edge to the textually next
// block is omitted. Call Relabel first so every edge target either
// names a live block or the current terminal sentinel — Emit panics
// via errors.Invariant on a dangling target, since that can only mean
// the caller skipped Relabel.
func (g *Graph) Emit() *program.Program {
	labelFor := make(map[BlockID]string, len(g.Blocks))
	n := 0
	for _, b := range g.Blocks {
		if b.HasIncoming() {
			n++
			labelFor[b.ID] = fmt.Sprintf("block_%d", n)
		}
	}

	terminalUsed := false
	for _, b := range g.Blocks {
		for _, e := range b.Outgoing {
			if e.Other == g.Terminal {
				terminalUsed = true
			}
		}
	}
	if terminalUsed {
		labelFor[g.Terminal] = "halt"
	}

	var instrs []instruction.Instruction
	labels := make(map[string]int, len(labelFor))

	for i, b := range g.Blocks {
		if label, ok := labelFor[b.ID]; ok {
			labels[label] = len(instrs)
		}
		instrs = append(instrs, b.Instructions...)

		for _, e := range b.Outgoing {
			if isFallthrough(g, i, e) {
				continue
			}

			target, ok := labelFor[e.Other]
			hrmerrors.Invariant(ok, "emit: block %d has an edge to unlabeled block %d (did you forget Relabel?)", b.ID, e.Other)

			switch e.Flag {
			case jumpflag.Always:
				instrs = append(instrs, instruction.Jump(target))
			case jumpflag.IfZero:
				instrs = append(instrs, instruction.JumpZ(target))
			case jumpflag.IfNegative:
				instrs = append(instrs, instruction.JumpN(target))
			default:
				hrmerrors.Invariant(false, "emit: block %d has a non-atomic outgoing flag %v", b.ID, e.Flag)
			}
		}
	}

	if terminalUsed {
		labels["halt"] = len(instrs)
	}

	return &program.Program{
		Instructions: instrs,
		Labels:       labels,
		InitialFloor: g.InitialFloor,
	}
}

// isFallthrough reports whether edge e out of block i needs no
// explicit jump instruction: either it targets the textually next
// block, or it targets the terminal sentinel from the very last
// block, where running off the end of the instruction stream already
// halts exactly as an explicit jump to "halt" would.
func isFallthrough(g *Graph, i int, e Edge) bool {
	if e.Flag != jumpflag.Always {
		return false
	}
	if i+1 < len(g.Blocks) && e.Other == g.Blocks[i+1].ID {
		return true
	}
	return i == len(g.Blocks)-1 && e.Other == g.Terminal
}
