// Package optimize is the optimization driver and pass library
// (spec §4.7/§4.8): a fixed-point pass manager plus the five rewrites
// it runs in order. Grounded on the restart-on-first-change loop in
// original_source's main.rs and control_flow_graph.rs's
// run_optimization_pass, generalized into a pass list instead of a
// hand-written if/else-if chain — the same shape as the original's
// Optimization trait-as-closure (here, a Pass interface any function
// value can satisfy).
package optimize

import (
	"log"

	"github.com/google/uuid"

	"hrmopt/internal/cfg"
)

// Pass is a CFG→bool transform: it reports whether it modified the
// graph (spec §4.7). Both whole-graph passes and the Local adapter
// below implement it.
type Pass interface {
	Apply(g *cfg.Graph) bool
}

// PassFunc lets a plain function satisfy Pass.
type PassFunc func(g *cfg.Graph) bool

func (f PassFunc) Apply(g *cfg.Graph) bool { return f(g) }

// Local lifts a per-block transformation to a CFG-level pass by
// folding the boolean results with OR (spec §4.7 "local adapter").
func Local(blockFn func(b *cfg.Block) bool) Pass {
	return PassFunc(func(g *cfg.Graph) bool {
		changed := false
		for _, b := range g.Blocks {
			if blockFn(b) {
				changed = true
			}
		}
		return changed
	})
}

// orderedPasses returns the fixed pass list in the mandated order
// (spec §4.7).
func orderedPasses() []Pass {
	return []Pass{
		Local(SimplifyOutgoingJumps),
		PassFunc(RemoveDeadBlocks),
		PassFunc(CombineSequentialBlocks),
		PassFunc(RemoveEmptyBlocks),
		Local(PeepholeOptimizations),
	}
}

var passNames = []string{
	"simplify_outgoing_jumps",
	"remove_dead_blocks",
	"combine_sequential_blocks",
	"remove_empty_blocks",
	"peephole_optimizations",
}

// RunToFixedPoint drives g through the pass list until a full sweep
// changes nothing (spec §4.7). On the first pass in a sweep that
// reports a change, RefreshIncoming is rebuilt and the list restarts
// from the top, so every subsequent pass always sees a consistent
// incoming index. Returns the total number of (pass, change) steps
// taken, for callers that want to report progress.
func RunToFixedPoint(g *cfg.Graph) int {
	runID := uuid.New().String()[:8]
	passes := orderedPasses()
	steps := 0

	for {
		progressed := false
		for i, p := range passes {
			if p.Apply(g) {
				g.RefreshIncoming()
				steps++
				log.Printf("optimize[%s]: %s made a change (step %d)", runID, passNames[i], steps)
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}

	log.Printf("optimize[%s]: reached a fixed point after %d step(s)", runID, steps)
	return steps
}
