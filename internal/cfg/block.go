// Package cfg implements the basic block and control-flow graph
// (spec §3 "Basic block"/"CFG", §4.6): leader identification, edge
// construction, the incoming-index rebuild protocol, relabeling, and
// emission back to a linear Program. Grounded on
// optimize/control_flow_graph.rs and optimize/basic_blocks.rs, with
// the block/graph container shaped after the teacher's
// internal/compiler.Compiler (a small struct holding mutable state
// that a handful of methods transform in place).
package cfg

import (
	"hrmopt/internal/instruction"
	"hrmopt/internal/jumpflag"
)

// BlockID is a stable, opaque handle to a block (spec §4.6/§9:
// "treat id as an opaque handle; never expose it outside the CFG").
// It never changes across passes — only Graph.Relabel renumbers it,
// and only deliberately.
type BlockID int

// Edge is one outgoing or incoming jump: a target/source block id
// paired with the jump-flag condition it fires under.
type Edge struct {
	Other BlockID
	Flag  jumpflag.Flag
}

// Block is the quadruple from spec §3: a stable id, its straight-line
// instructions, and its two adjacency lists.
type Block struct {
	ID           BlockID
	Instructions []instruction.Instruction
	Outgoing     []Edge
	Incoming     []Edge
}

// HasIncoming reports whether any edge targets this block — the test
// both remove_dead_blocks and emission use to decide a block's fate.
func (b *Block) HasIncoming() bool { return len(b.Incoming) > 0 }
