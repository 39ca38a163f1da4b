// Package program implements the program model (spec §3 "Program",
// §4.3): a flat instruction sequence, a label→index map, and an
// initial floor image. Jump instructions name their target label, and
// Labels maps every such name to an instruction index; one level up,
// internal/cfg replaces labels with block ids.
package program

import (
	"fmt"
	"strings"

	"hrmopt/internal/datum"
	"hrmopt/internal/instruction"
)

// Program is immutable input to CFG construction (spec §3
// "Lifecycle"). Nothing in this package or internal/cfg mutates
// Instructions or Labels after Parse returns.
type Program struct {
	Instructions []instruction.Instruction
	Labels       map[string]int
	InitialFloor datum.Floor
}

// Disassemble renders the program as numbered instructions with
// inline label annotations, the same shape as the original's
// commented-out debug dump in main.rs.
func (p *Program) Disassemble() string {
	lineOf := make(map[int][]string, len(p.Labels))
	for label, idx := range p.Labels {
		lineOf[idx] = append(lineOf[idx], label)
	}

	var sb strings.Builder
	for i, instr := range p.Instructions {
		for _, label := range lineOf[i] {
			fmt.Fprintf(&sb, "%s:\n", label)
		}
		fmt.Fprintf(&sb, "%4d. %s\n", i, instr)
	}
	for _, label := range lineOf[len(p.Instructions)] {
		fmt.Fprintf(&sb, "%s:\n", label)
	}
	return sb.String()
}
