// cmd/hrmopt/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"hrmopt/internal/cfg"
	"hrmopt/internal/datum"
	hrmerrors "hrmopt/internal/errors"
	"hrmopt/internal/jumpflag"
	"hrmopt/internal/optimize"
	"hrmopt/internal/program"
	"hrmopt/internal/simulator"
)

const usage = `usage: hrmopt <program.hrm> [demo-input ...]

Each demo-input is a comma-separated list of tiles, e.g. 1,2,3 or
A,B,C. With no demo-input given, the puzzle's original fixed demo
(10 letters over a 16-tile floor with two pre-seeded numbers) is used.`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("hrmopt: %v", err)
	}

	prog, err := program.Parse(string(src))
	if err != nil {
		log.Fatalf("hrmopt: parse error: %v", err)
	}
	prog.InitialFloor = defaultFloor()

	graph := cfg.Build(prog)
	before := countInstructions(graph)

	steps := optimize.RunToFixedPoint(graph)
	graph.Relabel()

	after := countInstructions(graph)
	fmt.Printf("optimized in %s step(s): %s -> %s instructions across %s block(s)\n",
		humanize.Comma(int64(steps)), humanize.Comma(int64(before)), humanize.Comma(int64(after)),
		humanize.Comma(int64(len(graph.Blocks))))

	dumpBlocks(graph)

	optimized := graph.Emit()

	demoSets := demoInputs()
	if len(os.Args) > 2 {
		demoSets = nil
		for _, arg := range os.Args[2:] {
			demoSets = append(demoSets, parseDemoInput(arg))
		}
	}

	if err := runDemos(optimized, demoSets); err != nil {
		log.Fatalf("hrmopt: %v", err)
	}
}

// countInstructions sums straight-line instructions across all
// blocks, for the before/after report.
func countInstructions(g *cfg.Graph) int {
	n := 0
	for _, b := range g.Blocks {
		n += len(b.Instructions)
	}
	return n
}

// dumpBlocks prints the "-- BLOCK --" report from the original's
// commented-out debug dump (SUPPLEMENTED FEATURES), bracketed with
// ANSI dividers only when stdout is a real terminal.
func dumpBlocks(g *cfg.Graph) {
	divider := "--------"
	if isatty.IsTerminal(os.Stdout.Fd()) {
		divider = "\033[2m--------\033[0m"
	}

	for _, b := range g.Blocks {
		fmt.Println(divider)
		fmt.Printf("-- BLOCK %d --\n", b.ID)
		if !b.HasIncoming() {
			fmt.Println("  (dead: no incoming edges)")
		}
		for _, in := range b.Incoming {
			fmt.Printf("  <- %d [%s]\n", in.Other, in.Flag)
		}
		for _, instr := range b.Instructions {
			fmt.Printf("  %s\n", instr)
		}
		for _, out := range b.Outgoing {
			if out.Flag == jumpflag.Always && out.Other == g.Terminal {
				fmt.Println("  -> halt")
				continue
			}
			fmt.Printf("  -> %d [%s]\n", out.Other, out.Flag)
		}
	}
	fmt.Println(divider)
}

// defaultFloor mirrors original_source/src/main.rs's 16-tile floor
// with tiles 15 and 14 pre-seeded to 4 and 0 (SUPPLEMENTED FEATURES).
func defaultFloor() datum.Floor {
	floor := datum.NewFloor(16)
	four, _ := datum.NewNumber(4)
	zero, _ := datum.NewNumber(0)
	_ = floor.Set(15, four)
	_ = floor.Set(14, zero)
	return floor
}

// demoInputs is the original's hardcoded inbox
// ('A','D','E','C','A','D','E','D','B','E'), kept as the sole demo set
// when the caller supplies none.
func demoInputs() [][]datum.Datum {
	letters := "ADECADEDBE"
	set := make([]datum.Datum, len(letters))
	for i := 0; i < len(letters); i++ {
		l, _ := datum.NewLetter(letters[i])
		set[i] = l
	}
	return [][]datum.Datum{set}
}

// parseDemoInput turns a comma-separated arg into a tile sequence,
// trying a number before falling back to a single uppercase letter.
func parseDemoInput(arg string) []datum.Datum {
	parts := strings.Split(arg, ",")
	out := make([]datum.Datum, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil {
			if d, err := datum.NewNumber(n); err == nil {
				out = append(out, d)
				continue
			}
		}
		if len(p) != 1 {
			log.Fatalf("hrmopt: %q is not a valid demo tile", p)
		}
		if d, err := datum.NewLetter(p[0]); err == nil {
			out = append(out, d)
			continue
		}
		log.Fatalf("hrmopt: %q is not a valid demo tile", p)
	}
	return out
}

// runDemos simulates the optimized program against every demo input
// set concurrently via errgroup — the core simulator itself stays
// single-threaded; this is purely a CLI convenience for exercising
// several inputs in one invocation.
func runDemos(prog *program.Program, sets [][]datum.Datum) error {
	results := make([]simulator.Result, len(sets))
	g, ctx := errgroup.WithContext(context.Background())

	for i, set := range sets {
		i, set := i, set
		g.Go(func() error {
			res, err := simulator.Run(ctx, prog, set)
			if err != nil && !isRuntimeError(err) {
				return err
			}
			results[i] = res
			if err != nil {
				fmt.Printf("demo %d: halted after %s step(s) on %v\n", i, humanize.Comma(int64(res.Steps)), err)
				return nil
			}
			fmt.Printf("demo %d: %s step(s), outbox = %v\n", i, humanize.Comma(int64(res.Steps)), res.Outbox)
			return nil
		})
	}

	return g.Wait()
}

func isRuntimeError(err error) bool {
	_, ok := err.(*hrmerrors.RuntimeError)
	return ok
}
