// Tokenizing and label-table construction (spec §6). Out of scope for
// the optimizer core proper, but a working parser is what feeds it —
// grounded on the teacher's internal/lexer.Scanner (line tracking, a
// Token carrying its source line) adapted to this format's much
// simpler line-oriented grammar: one mnemonic (or "label:") plus at
// most one argument per line, "--" line comments, no multi-line
// constructs.
package program

import (
	"strings"

	hrmerrors "hrmopt/internal/errors"
	"hrmopt/internal/instruction"
)

const header = "-- HUMAN RESOURCE MACHINE PROGRAM --"

// Parse builds a Program from assembly text. InitialFloor is left
// nil; callers (the CLI, or tests) set it explicitly afterward, since
// nothing in the assembly format itself describes the floor's length
// or contents.
func Parse(src string) (*Program, error) {
	lines := strings.Split(src, "\n")

	firstNonEmpty := -1
	for i, raw := range lines {
		if strings.TrimSpace(raw) != "" {
			firstNonEmpty = i
			break
		}
	}
	if firstNonEmpty == -1 {
		return nil, hrmerrors.NewParseError(hrmerrors.EmptyFile, 0)
	}
	if strings.TrimSpace(lines[firstNonEmpty]) != header {
		return nil, hrmerrors.NewParseError(hrmerrors.MissingHeader, firstNonEmpty+1)
	}

	labels := map[string]int{}
	var instrs []instruction.Instruction

	for i := firstNonEmpty + 1; i < len(lines); i++ {
		lineNo := i + 1
		raw := lines[i]
		if idx := strings.Index(raw, "--"); idx >= 0 {
			raw = raw[:idx]
		}

		toks := strings.Fields(raw)
		if len(toks) == 0 {
			continue
		}
		if toks[0] == "DEFINE" {
			break
		}
		if toks[0] == "COMMENT" {
			continue
		}
		if len(toks) > 2 {
			return nil, hrmerrors.NewParseError(hrmerrors.UnexpectedToken, lineNo).WithToken(toks[2])
		}

		head := toks[0]
		hasArg := len(toks) > 1
		var arg string
		if hasArg {
			arg = toks[1]
		}

		if label, ok := strings.CutSuffix(head, ":"); ok {
			if hasArg {
				return nil, hrmerrors.NewParseError(hrmerrors.UnexpectedToken, lineNo).WithToken(arg)
			}
			labels[label] = len(instrs)
			continue
		}

		instr, err := parseInstruction(head, arg, hasArg, lineNo)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}

	if err := validateJumps(instrs, labels); err != nil {
		return nil, err
	}

	return &Program{Instructions: instrs, Labels: labels}, nil
}

func parseInstruction(head, arg string, hasArg bool, line int) (instruction.Instruction, error) {
	switch head {
	case "INBOX":
		if hasArg {
			return instruction.Instruction{}, hrmerrors.NewParseError(hrmerrors.UnexpectedToken, line).WithToken(arg)
		}
		return instruction.Inbox(), nil
	case "OUTBOX":
		if hasArg {
			return instruction.Instruction{}, hrmerrors.NewParseError(hrmerrors.UnexpectedToken, line).WithToken(arg)
		}
		return instruction.Outbox(), nil

	case "COPYFROM", "COPYTO", "ADD", "SUB", "BUMPUP", "BUMPDN":
		if !hasArg {
			return instruction.Instruction{}, hrmerrors.NewParseError(hrmerrors.ExpectedToken, line)
		}
		addr, err := instruction.ParseAddress(arg, line)
		if err != nil {
			return instruction.Instruction{}, err
		}
		switch head {
		case "COPYFROM":
			return instruction.CopyFrom(addr), nil
		case "COPYTO":
			return instruction.CopyTo(addr), nil
		case "ADD":
			return instruction.Add(addr), nil
		case "SUB":
			return instruction.Sub(addr), nil
		case "BUMPUP":
			return instruction.BumpUp(addr), nil
		default: // BUMPDN
			return instruction.BumpDn(addr), nil
		}

	case "JUMP", "JUMPZ", "JUMPN":
		if !hasArg {
			return instruction.Instruction{}, hrmerrors.NewParseError(hrmerrors.ExpectedToken, line)
		}
		switch head {
		case "JUMP":
			return instruction.Jump(arg), nil
		case "JUMPZ":
			return instruction.JumpZ(arg), nil
		default: // JUMPN
			return instruction.JumpN(arg), nil
		}

	default:
		return instruction.Instruction{}, hrmerrors.NewParseError(hrmerrors.UnexpectedToken, line).WithToken(head)
	}
}

func validateJumps(instrs []instruction.Instruction, labels map[string]int) error {
	for _, instr := range instrs {
		if !instr.Op.IsJump() {
			continue
		}
		if _, ok := labels[instr.Label]; !ok {
			return hrmerrors.NewParseError(hrmerrors.UnknownLabel, 0).WithToken(instr.Label)
		}
	}
	return nil
}
