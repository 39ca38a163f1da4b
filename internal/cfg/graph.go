package cfg

import (
	"sort"

	"hrmopt/internal/datum"
	hrmerrors "hrmopt/internal/errors"
	"hrmopt/internal/instruction"
	"hrmopt/internal/jumpflag"
	"hrmopt/internal/program"
)

// Graph is the CFG from spec §3: a sequence of blocks plus the
// initial floor. Block at position 0 is the entry; Terminal is the
// sentinel id (equal to the block count at the moment it was last
// assigned) representing normal program termination. Ownership is
// exclusive — edges hold BlockIDs, never pointers (spec §5).
type Graph struct {
	Blocks       []*Block
	InitialFloor datum.Floor
	Terminal     BlockID
}

// Build constructs a CFG from a parsed Program (spec §4.6). Leader
// identification and edge construction follow the algorithm verbatim:
// index 0, the instruction after every maximal jump run, every label
// target, and the past-the-end index are leaders.
func Build(prog *program.Program) *Graph {
	instrs := prog.Instructions

	leaders := []int{0}
	for i := 0; i < len(instrs); i++ {
		if instrs[i].Op.IsJump() {
			nextIsJump := i+1 < len(instrs) && instrs[i+1].Op.IsJump()
			if !nextIsJump {
				leaders = append(leaders, i+1)
			}
		}
	}
	for _, idx := range prog.Labels {
		leaders = append(leaders, idx)
	}
	leaders = sortDedupe(leaders)
	if last := leaders[len(leaders)-1]; last != len(instrs) {
		leaders = append(leaders, len(instrs))
	}

	blocks := make([]*Block, 0, len(leaders)-1)
	for i := 0; i < len(leaders)-1; i++ {
		a, end := leaders[i], leaders[i+1]
		b := end
		for b > a && instrs[b-1].Op.IsJump() {
			b--
		}

		run := instrs[b:end]
		outgoing := make([]Edge, 0, len(run)+1)
		hasAlways := false
		for _, jmp := range run {
			var flag jumpflag.Flag
			switch jmp.Op {
			case instruction.OpJump:
				flag = jumpflag.Always
				hasAlways = true
			case instruction.OpJumpZ:
				flag = jumpflag.IfZero
			case instruction.OpJumpN:
				flag = jumpflag.IfNegative
			}
			labelIdx := prog.Labels[jmp.Label]
			target := blockOf(leaders, labelIdx)
			outgoing = append(outgoing, Edge{Other: target, Flag: flag})
		}
		if !hasAlways {
			outgoing = append(outgoing, Edge{Other: BlockID(i + 1), Flag: jumpflag.Always})
		}

		body := make([]instruction.Instruction, b-a)
		copy(body, instrs[a:b])

		blocks = append(blocks, &Block{
			ID:           BlockID(i),
			Instructions: body,
			Outgoing:     outgoing,
		})
	}

	g := &Graph{
		Blocks:       blocks,
		InitialFloor: prog.InitialFloor,
		Terminal:     BlockID(len(blocks)),
	}
	g.RefreshIncoming()
	return g
}

// blockOf finds the block whose leader is the greatest leader ≤ idx,
// by binary search over the sorted leader array (spec §4.6). Every
// jump target is itself a leader (rule 3), so this always resolves by
// exact match; idx==len(instrs) (a trailing label) resolves to the
// final leader position, i.e. exactly the terminal sentinel.
func blockOf(leaders []int, idx int) BlockID {
	i := sort.SearchInts(leaders, idx)
	if i < len(leaders) && leaders[i] == idx {
		return BlockID(i)
	}
	return BlockID(i - 1)
}

func sortDedupe(xs []int) []int {
	sort.Ints(xs)
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// BlockByID finds a block by its stable id, skipping ids that no
// longer exist (removed blocks) or the terminal sentinel.
func (g *Graph) BlockByID(id BlockID) (*Block, bool) {
	for _, b := range g.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// RefreshIncoming rebuilds every block's incoming index from the
// current outgoing edges (spec §4.6 "Incoming rebuild"). It is
// mandatory to call this after any pass that changes outgoing edges,
// before the next pass reads incoming — the optimization driver does
// this automatically.
func (g *Graph) RefreshIncoming() {
	byID := make(map[BlockID]*Block, len(g.Blocks))
	for _, b := range g.Blocks {
		b.Incoming = nil
		byID[b.ID] = b
	}

	for _, u := range g.Blocks {
		for _, e := range u.Outgoing {
			if e.Other == u.ID {
				// self-loops are recorded (spec §4.6).
				u.Incoming = append(u.Incoming, Edge{Other: u.ID, Flag: e.Flag})
				continue
			}
			if v, ok := byID[e.Other]; ok {
				v.Incoming = append(v.Incoming, Edge{Other: u.ID, Flag: e.Flag})
			}
			// edges to the terminal sentinel, or to any other id no
			// longer present, are not recorded anywhere.
		}
	}
}

// Relabel compacts block ids to their current position and remaps
// every edge target accordingly; any edge whose target no longer
// exists is remapped to the new terminal sentinel (spec §4.6
// "Relabeling"). Call this once the optimizer has reached a fixed
// point, before Emit.
func (g *Graph) Relabel() {
	remap := make(map[BlockID]BlockID, len(g.Blocks))
	for i, b := range g.Blocks {
		remap[b.ID] = BlockID(i)
	}
	newTerminal := BlockID(len(g.Blocks))

	remapEdges := func(edges []Edge) {
		for i := range edges {
			if nid, ok := remap[edges[i].Other]; ok {
				edges[i].Other = nid
			} else {
				edges[i].Other = newTerminal
			}
		}
	}

	for _, b := range g.Blocks {
		b.ID = remap[b.ID]
		remapEdges(b.Outgoing)
		remapEdges(b.Incoming)
	}
	g.Terminal = newTerminal
}

// CheckEdgePartition verifies spec invariant 1 (§8): a block's
// outgoing flags are pairwise disjoint and their union is Always.
// Called by passes that are supposed to establish this invariant;
// violation is a programming bug, not a runtime condition.
func CheckEdgePartition(b *Block) {
	union := jumpflag.Never
	for i, e := range b.Outgoing {
		for _, other := range b.Outgoing[i+1:] {
			hrmerrors.Invariant(e.Flag.And(other.Flag).IsNever(),
				"block %d has overlapping outgoing flags %v and %v", b.ID, e.Flag, other.Flag)
		}
		union = union.Or(e.Flag)
	}
	hrmerrors.Invariant(union.IsAlways(), "block %d outgoing flags union to %v, not Always", b.ID, union)
}
