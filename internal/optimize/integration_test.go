package optimize

import (
	"context"
	"testing"

	"hrmopt/internal/cfg"
	"hrmopt/internal/datum"
	"hrmopt/internal/program"
	"hrmopt/internal/simulator"
)

// TestFixedPointSemanticPreservation covers property 5 (§8): running
// the optimized, re-emitted program on the same input yields the same
// output as the original, even though instruction and block counts
// may shrink. The source has a redundant COPYTO/COPYFROM pair and a
// dead block reachable only from a JUMP that simplify_outgoing_jumps
// and remove_dead_blocks should eliminate.
func TestFixedPointSemanticPreservation(t *testing.T) {
	src := `-- HUMAN RESOURCE MACHINE PROGRAM --
loop:
INBOX
COPYTO 0
COPYFROM 0
OUTBOX
JUMP loop
JUMP dead
dead:
INBOX
OUTBOX
`
	prog, err := program.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	prog.InitialFloor = datum.NewFloor(1)

	inbox := []datum.Datum{num(t, 1), num(t, 2), num(t, 3)}

	before, err := simulator.Run(context.Background(), prog, inbox)
	if err != nil {
		t.Fatalf("baseline run failed: %v", err)
	}

	g := cfg.Build(prog)
	beforeInstrCount := totalInstructions(g)
	beforeBlockCount := len(g.Blocks)

	steps := RunToFixedPoint(g)
	if steps == 0 {
		t.Fatal("expected at least one optimization step")
	}
	g.Relabel()
	optimized := g.Emit()

	if totalInstructions(g) >= beforeInstrCount {
		t.Errorf("expected fewer instructions after optimizing: before=%d after=%d", beforeInstrCount, totalInstructions(g))
	}
	if len(g.Blocks) >= beforeBlockCount {
		t.Errorf("expected fewer blocks after optimizing: before=%d after=%d", beforeBlockCount, len(g.Blocks))
	}

	after, err := simulator.Run(context.Background(), optimized, inbox)
	if err != nil {
		t.Fatalf("optimized run failed: %v", err)
	}

	if len(after.Outbox) != len(before.Outbox) {
		t.Fatalf("outbox length differs: before=%v after=%v", before.Outbox, after.Outbox)
	}
	for i := range before.Outbox {
		if !datum.Equal(before.Outbox[i], after.Outbox[i]) {
			t.Errorf("outbox[%d]: before=%v after=%v", i, before.Outbox[i], after.Outbox[i])
		}
	}
}

func totalInstructions(g *cfg.Graph) int {
	n := 0
	for _, b := range g.Blocks {
		n += len(b.Instructions)
	}
	return n
}

func num(t *testing.T, n int) datum.Datum {
	t.Helper()
	d, err := datum.NewNumber(n)
	if err != nil {
		t.Fatalf("NewNumber(%d): %v", n, err)
	}
	return d
}
