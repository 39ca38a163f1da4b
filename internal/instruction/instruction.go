// Package instruction implements the instruction set and address
// resolution (spec §3 "Instruction"/"Address", §4.2). Opcode follows
// the teacher's internal/bytecode.OpCode pattern: a byte-sized const
// enum built with iota, switched over in the simulator's run loop the
// same way the teacher's VM switches over bytecode.OpCode.
package instruction

import (
	"fmt"
	"strconv"
	"strings"

	"hrmopt/internal/datum"
	hrmerrors "hrmopt/internal/errors"
)

type Opcode byte

const (
	OpInbox Opcode = iota
	OpOutbox
	OpCopyFrom
	OpCopyTo
	OpAdd
	OpSub
	OpBumpUp
	OpBumpDn
	OpJump
	OpJumpZ
	OpJumpN
)

func (op Opcode) String() string {
	switch op {
	case OpInbox:
		return "INBOX"
	case OpOutbox:
		return "OUTBOX"
	case OpCopyFrom:
		return "COPYFROM"
	case OpCopyTo:
		return "COPYTO"
	case OpAdd:
		return "ADD"
	case OpSub:
		return "SUB"
	case OpBumpUp:
		return "BUMPUP"
	case OpBumpDn:
		return "BUMPDN"
	case OpJump:
		return "JUMP"
	case OpJumpZ:
		return "JUMPZ"
	case OpJumpN:
		return "JUMPN"
	default:
		return "???"
	}
}

// IsJump reports whether op is one of JUMP/JUMPZ/JUMPN — the
// predicate §4.6's leader-finding and jump-run scans use repeatedly.
func (op Opcode) IsJump() bool {
	return op == OpJump || op == OpJumpZ || op == OpJumpN
}

// HasAddress reports whether op takes an Address operand.
func (op Opcode) HasAddress() bool {
	switch op {
	case OpCopyFrom, OpCopyTo, OpAdd, OpSub, OpBumpUp, OpBumpDn:
		return true
	default:
		return false
	}
}

// Address is either Direct(k) or Indirect(k) (spec §3 "Address").
type Address struct {
	Indirect bool
	Index    int
}

func Direct(k int) Address   { return Address{Indirect: false, Index: k} }
func Indirect(k int) Address { return Address{Indirect: true, Index: k} }

func (a Address) String() string {
	if a.Indirect {
		return fmt.Sprintf("[%d]", a.Index)
	}
	return strconv.Itoa(a.Index)
}

// ParseAddress accepts "k" or "[k]" (spec §6 "Address syntax").
func ParseAddress(tok string, line int) (Address, error) {
	if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
		n, err := strconv.Atoi(tok[1 : len(tok)-1])
		if err != nil {
			return Address{}, hrmerrors.NewParseError(hrmerrors.IntParseError, line).WithCause(err)
		}
		return Indirect(n), nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return Address{}, hrmerrors.NewParseError(hrmerrors.IntParseError, line).WithCause(err)
	}
	return Direct(n), nil
}

// Resolve yields the tile index this address denotes, per spec §4.2.
// It never mutates floor.
func (a Address) Resolve(floor datum.Floor) (int, error) {
	if !a.Indirect {
		if a.Index < 0 || a.Index >= len(floor) {
			return 0, hrmerrors.ErrBadTileAddress
		}
		return a.Index, nil
	}

	tile, err := floor.Get(a.Index)
	if err != nil {
		return 0, err
	}
	switch v := tile.(type) {
	case nil:
		return 0, hrmerrors.ErrEmptyFloor
	case datum.Letter:
		return 0, hrmerrors.ErrLetterAddress
	case datum.Number:
		m := int(v)
		if m < 0 || m >= len(floor) {
			return 0, hrmerrors.ErrBadTileAddress
		}
		return m, nil
	default:
		return 0, hrmerrors.ErrBadTileAddress
	}
}

// Instruction is a single non-label instruction. Addr is meaningful
// only when Op.HasAddress(); Label only when Op.IsJump().
type Instruction struct {
	Op    Opcode
	Addr  Address
	Label string
}

func Inbox() Instruction              { return Instruction{Op: OpInbox} }
func Outbox() Instruction             { return Instruction{Op: OpOutbox} }
func CopyFrom(a Address) Instruction  { return Instruction{Op: OpCopyFrom, Addr: a} }
func CopyTo(a Address) Instruction    { return Instruction{Op: OpCopyTo, Addr: a} }
func Add(a Address) Instruction       { return Instruction{Op: OpAdd, Addr: a} }
func Sub(a Address) Instruction       { return Instruction{Op: OpSub, Addr: a} }
func BumpUp(a Address) Instruction    { return Instruction{Op: OpBumpUp, Addr: a} }
func BumpDn(a Address) Instruction    { return Instruction{Op: OpBumpDn, Addr: a} }
func Jump(label string) Instruction   { return Instruction{Op: OpJump, Label: label} }
func JumpZ(label string) Instruction  { return Instruction{Op: OpJumpZ, Label: label} }
func JumpN(label string) Instruction  { return Instruction{Op: OpJumpN, Label: label} }

func (i Instruction) String() string {
	switch {
	case i.Op.IsJump():
		return fmt.Sprintf("%s %s", i.Op, i.Label)
	case i.Op.HasAddress():
		return fmt.Sprintf("%s %s", i.Op, i.Addr)
	default:
		return i.Op.String()
	}
}
