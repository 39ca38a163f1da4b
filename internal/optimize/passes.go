// The five rewrites from spec §4.8, in the order the driver runs
// them. Ported from optimize/local_optimizations.rs and
// optimize/block_optimizations.rs, generalized where the spec calls
// for a general rule (simplify_outgoing_jumps handles N edges; the
// original only special-cased exactly two) and resolving the
// "combine_sequential_blocks" Open Question in favor of the stronger,
// both-endpoints check.
package optimize

import (
	"log"
	"sort"

	"hrmopt/internal/cfg"
	hrmerrors "hrmopt/internal/errors"
	"hrmopt/internal/instruction"
	"hrmopt/internal/jumpflag"
)

// SimplifyOutgoingJumps canonicalizes a block's outgoing edges so
// they commute and cover Always (spec §4.8 step 1-4). It returns
// whether steps 1-3 changed anything.
func SimplifyOutgoingJumps(b *cfg.Block) bool {
	before := cloneEdges(b.Outgoing)

	// 1. make flags disjoint: later edges only fire if no earlier one did.
	seenSoFar := jumpflag.Never
	rewritten := make([]cfg.Edge, len(b.Outgoing))
	for i, e := range b.Outgoing {
		rewritten[i] = cfg.Edge{Other: e.Other, Flag: e.Flag.And(seenSoFar.Not())}
		seenSoFar = seenSoFar.Or(e.Flag)
	}

	// 2. coalesce same-target edges by OR-ing their flags.
	order := make([]cfg.BlockID, 0, len(rewritten))
	byTarget := make(map[cfg.BlockID]jumpflag.Flag, len(rewritten))
	for _, e := range rewritten {
		if _, ok := byTarget[e.Other]; !ok {
			order = append(order, e.Other)
		}
		byTarget[e.Other] = byTarget[e.Other].Or(e.Flag)
	}

	// 3. drop edges whose flag became Never.
	final := make([]cfg.Edge, 0, len(order))
	for _, target := range order {
		if flag := byTarget[target]; !flag.IsNever() {
			final = append(final, cfg.Edge{Other: target, Flag: flag})
		}
	}
	b.Outgoing = final

	// 4. the result must still partition Always; a violation here is
	// a bug in CFG construction or an earlier pass, not user error.
	cfg.CheckEdgePartition(b)

	return !edgesEqual(before, b.Outgoing)
}

// RemoveDeadBlocks drops every block but the entry (id 0, spec §3
// invariant 3) that has no incoming edges.
func RemoveDeadBlocks(g *cfg.Graph) bool {
	before := len(g.Blocks)
	kept := g.Blocks[:0]
	for _, b := range g.Blocks {
		if b.ID == 0 || b.HasIncoming() {
			kept = append(kept, b)
		}
	}
	g.Blocks = kept
	return len(g.Blocks) != before
}

// CombineSequentialBlocks fuses adjacent (u, v) pairs where u's sole
// outgoing edge targets v with an Always flag and v's sole incoming
// edge is that same edge from u — checking both endpoints, the
// stronger of the two variants found in the original source (see
// DESIGN.md's Open Question decisions): checking only the target
// side can fuse a block with the wrong predecessor when v has more
// than one incoming edge in all but the Always/sole-incoming case.
func CombineSequentialBlocks(g *cfg.Graph) bool {
	blocks := g.Blocks
	i, offset := 0, 0
	var toRemove []int

	for i+offset < len(blocks)-1 {
		u := blocks[i]
		v := blocks[i+offset+1]

		mergeable := len(u.Outgoing) == 1 && u.Outgoing[0].Flag == jumpflag.Always && u.Outgoing[0].Other == v.ID &&
			len(v.Incoming) == 1 && v.Incoming[0].Flag == jumpflag.Always && v.Incoming[0].Other == u.ID

		if mergeable {
			u.Instructions = append(u.Instructions, v.Instructions...)
			u.Outgoing = v.Outgoing
			toRemove = append(toRemove, i+offset+1)
			offset++
		} else {
			i = i + offset + 1
			offset = 0
		}
	}

	for k := len(toRemove) - 1; k >= 0; k-- {
		idx := toRemove[k]
		blocks = append(blocks[:idx], blocks[idx+1:]...)
	}
	g.Blocks = blocks

	return len(toRemove) > 0
}

// RemoveEmptyBlocks bypasses every non-entry, instruction-less block
// w: each predecessor's edge into w is replaced by w's own outgoing
// edges, each ANDed with the incoming flag that used to reach w, and
// any edge that ANDs down to Never is dropped immediately rather than
// left for the next simplify_outgoing_jumps sweep (spec §4.8,
// "Empty-block bypass"). Soundness precondition: SimplifyOutgoingJumps
// must have just run, so every predecessor's outgoing edges already
// commute and appending to them is safe.
func RemoveEmptyBlocks(g *cfg.Graph) bool {
	var toRemove []int
	for i, b := range g.Blocks {
		if b.ID != 0 && len(b.Instructions) == 0 {
			toRemove = append(toRemove, i)
		}
	}

	for k := len(toRemove) - 1; k >= 0; k-- {
		idx := toRemove[k]
		w := g.Blocks[idx]

		for _, in := range w.Incoming {
			u, ok := g.BlockByID(in.Other)
			hrmerrors.Invariant(ok, "remove_empty_blocks: block %d has an incoming edge from missing block %d", w.ID, in.Other)

			pos := -1
			for j, e := range u.Outgoing {
				if e.Other == w.ID {
					pos = j
					break
				}
			}
			hrmerrors.Invariant(pos >= 0, "remove_empty_blocks: edge %d->%d missing from %d's outgoing", u.ID, w.ID, u.ID)
			hrmerrors.Invariant(u.Outgoing[pos].Flag == in.Flag, "remove_empty_blocks: flag mismatch on edge %d->%d", u.ID, w.ID)

			u.Outgoing = append(u.Outgoing[:pos], u.Outgoing[pos+1:]...)
			for _, out := range w.Outgoing {
				if flag := out.Flag.And(in.Flag); !flag.IsNever() {
					u.Outgoing = append(u.Outgoing, cfg.Edge{Other: out.Other, Flag: flag})
				}
			}
		}

		g.Blocks = append(g.Blocks[:idx], g.Blocks[idx+1:]...)
	}

	return len(toRemove) > 0
}

// PeepholeOptimizations applies the window-of-two rewrites from spec
// §4.8 to a single block's instruction list.
func PeepholeOptimizations(b *cfg.Block) bool {
	instrs := b.Instructions
	var toRemove []int

	for i := 0; i+1 < len(instrs); i++ {
		x, y := instrs[i], instrs[i+1]

		switch {
		case x.Op == instruction.OpOutbox && isHandsConsumer(y.Op):
			log.Printf("warning: block %d: OUTBOX followed by %s always raises EmptyHands", b.ID, y.Op)

		case isAccProducer(x.Op) && isAccOverwriter(y.Op):
			toRemove = append(toRemove, i)

		case isTileWriter(x.Op) && y.Op == instruction.OpCopyFrom &&
			!x.Addr.Indirect && !y.Addr.Indirect && x.Addr.Index == y.Addr.Index:
			// unsound for indirect addresses: an indirect tile may
			// point to itself after the write, so reloading it can
			// observe a different value than what was just written.
			toRemove = append(toRemove, i+1)

		case x.Addr == y.Addr && ((x.Op == instruction.OpAdd && y.Op == instruction.OpSub) || (x.Op == instruction.OpSub && y.Op == instruction.OpAdd)):
			toRemove = append(toRemove, i, i+1)

		case !x.Addr.Indirect && !y.Addr.Indirect && x.Addr.Index == y.Addr.Index &&
			((x.Op == instruction.OpBumpUp && y.Op == instruction.OpBumpDn) || (x.Op == instruction.OpBumpDn && y.Op == instruction.OpBumpUp)):
			toRemove = append(toRemove, i, i+1)
		}
	}

	if len(toRemove) == 0 {
		return false
	}

	toRemove = dedupeSorted(toRemove)
	for k := len(toRemove) - 1; k >= 0; k-- {
		idx := toRemove[k]
		instrs = append(instrs[:idx], instrs[idx+1:]...)
	}
	b.Instructions = instrs
	return true
}

func isHandsConsumer(op instruction.Opcode) bool {
	switch op {
	case instruction.OpOutbox, instruction.OpCopyTo, instruction.OpAdd, instruction.OpSub:
		return true
	default:
		return false
	}
}

func isAccProducer(op instruction.Opcode) bool {
	switch op {
	case instruction.OpCopyFrom, instruction.OpAdd, instruction.OpSub:
		return true
	default:
		return false
	}
}

func isAccOverwriter(op instruction.Opcode) bool {
	switch op {
	case instruction.OpCopyFrom, instruction.OpBumpUp, instruction.OpBumpDn:
		return true
	default:
		return false
	}
}

func isTileWriter(op instruction.Opcode) bool {
	switch op {
	case instruction.OpCopyTo, instruction.OpBumpUp, instruction.OpBumpDn:
		return true
	default:
		return false
	}
}

func cloneEdges(edges []cfg.Edge) []cfg.Edge {
	out := make([]cfg.Edge, len(edges))
	copy(out, edges)
	return out
}

func edgesEqual(a, b []cfg.Edge) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dedupeSorted(xs []int) []int {
	sort.Ints(xs)
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
