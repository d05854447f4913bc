// Package semantics executes x86 instructions symbolically into state
// updates.
package semantics

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/sim"
	"github.com/ezrec/asmsim/x86"
)

// Role is how an instruction uses an operand.
type Role int

//go:generate go tool stringer -linecomment -type=Role
const (
	ROLE_NONE       = Role(0) // -
	ROLE_READ       = Role(1) // r
	ROLE_WRITE      = Role(2) // w
	ROLE_READ_WRITE = Role(3) // rw
)

// Step is one instruction executed on one path. Regular receives the
// effect when control falls through, Branch when the branch is taken (or,
// for a conditional move, when the move happens).
type Step struct {
	Line    *asm.Line
	Regular *sim.StateUpdate
	Branch  *sim.StateUpdate

	// HasRegular and HasBranch report which updates the instruction
	// produced.
	HasRegular bool
	HasBranch  bool

	// Resolve, when set, rewrites a value read by the instruction into
	// what the path knows about it.
	Resolve func(v expr.BV) expr.BV
}

// NewStep prepares the updates of one instruction reading version prev.
func NewStep(line *asm.Line, tools *sim.Tools, prev, regular, branch sim.Key) *Step {
	return &Step{
		Line:    line,
		Regular: sim.NewStateUpdate(prev, regular, tools),
		Branch:  sim.NewStateUpdate(prev, branch, tools),
	}
}

// Unit is the semantics of one mnemonic.
type Unit interface {
	// StaticReads returns the locations the instruction may read.
	StaticReads(line *asm.Line) []sim.Loc
	// StaticWrites returns the locations the instruction may write.
	StaticWrites(line *asm.Line) []sim.Loc
	// Apply fills in the updates of a step.
	Apply(step *Step) error
}

// unit is a semantic unit described by its operand roles and implicit
// locations.
type unit struct {
	min, max     int    // Operand count.
	roles        []Role // Role of each operand.
	reads        []x86.Register
	writes       []x86.Register
	flagsRead    x86.Flags
	flagsWritten x86.Flags
	memRead      bool
	memWrite     bool
	apply        func(x *exec) error

	// forms, when set, gives the static locations by operand count.
	forms map[int]*unit
}

var registry [x86.MAX_MNEMONIC]*unit

func register(units map[x86.Mnemonic]*unit) {
	for mn, u := range units {
		if registry[mn] != nil {
			panic(f("%v: registered twice", mn))
		}
		registry[mn] = u
	}
}

// Lookup returns the semantic unit of a mnemonic.
func Lookup(mn x86.Mnemonic) (u Unit, ok bool) {
	if mn < 0 || mn >= x86.MAX_MNEMONIC || registry[mn] == nil {
		return
	}
	return registry[mn], true
}

// HasSemantics returns true when the mnemonic can be executed.
func HasSemantics(mn x86.Mnemonic) bool {
	_, ok := Lookup(mn)
	return ok
}

type locSet map[sim.Loc]bool

func (set locSet) sorted() []sim.Loc {
	return slices.SortedFunc(maps.Keys(set), func(a, b sim.Loc) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Flag, b.Flag), cmp.Compare(a.Reg, b.Reg))
	})
}

func (set locSet) flags(flags x86.Flags) {
	for f := range flags.All() {
		set[sim.FlagLoc(f)] = true
	}
}

func (set locSet) regs(regs []x86.Register) {
	for _, r := range regs {
		set[sim.RegLoc(r)] = true
	}
}

func (u *unit) role(n int) Role {
	if n < len(u.roles) {
		return u.roles[n]
	}
	return ROLE_NONE
}

// form returns the unit describing the static locations of a line.
func (u *unit) form(line *asm.Line) *unit {
	if form, ok := u.forms[len(line.Operands)]; ok {
		return form
	}
	return u
}

func (u *unit) StaticReads(line *asm.Line) []sim.Loc {
	u = u.form(line)
	set := locSet{}
	for n, op := range line.Operands {
		role := u.role(n)
		switch op.Kind {
		case asm.KIND_REG:
			// Partial writes keep the rest of the family.
			if role&ROLE_READ != 0 || (role&ROLE_WRITE != 0 && op.Reg.Width() < 32) {
				set[sim.RegLoc(op.Reg)] = true
			}
		case asm.KIND_MEM:
			set.regs(op.Mem.Reads())
			if role&ROLE_READ != 0 {
				set[sim.MemLoc] = true
			}
		}
	}
	set.regs(u.reads)
	set.flags(u.flagsRead)
	if u.memRead {
		set[sim.MemLoc] = true
	}
	return set.sorted()
}

func (u *unit) StaticWrites(line *asm.Line) []sim.Loc {
	u = u.form(line)
	set := locSet{}
	for n, op := range line.Operands {
		if u.role(n)&ROLE_WRITE == 0 {
			continue
		}
		switch op.Kind {
		case asm.KIND_REG:
			set[sim.RegLoc(op.Reg)] = true
		case asm.KIND_MEM:
			set[sim.MemLoc] = true
		}
	}
	set.regs(u.writes)
	set.flags(u.flagsWritten)
	if u.memWrite {
		set[sim.MemLoc] = true
	}
	return set.sorted()
}

func (u *unit) Apply(step *Step) (err error) {
	line := step.Line
	defer func() {
		var already ErrOperand
		if err != nil && !errors.As(err, &already) {
			err = ErrOperand{Mnemonic: line.Mnemonic, Operand: -1, Err: err}
		}
	}()

	count := len(line.Operands)
	if count < u.min || count > u.max {
		err = ErrOperandCount
		return
	}

	step.HasRegular = true
	err = u.apply(newExec(step))
	return
}

// Apply executes the instruction of a step.
func Apply(step *Step) (err error) {
	u, ok := Lookup(step.Line.Mnemonic)
	if !ok {
		err = ErrOperand{Mnemonic: step.Line.Mnemonic, Operand: -1, Err: ErrNoSemantics}
		return
	}
	return u.Apply(step)
}

// StaticReads returns the locations a line may read.
func StaticReads(line *asm.Line) (locs []sim.Loc, err error) {
	u, ok := Lookup(line.Mnemonic)
	if !ok {
		err = ErrOperand{Mnemonic: line.Mnemonic, Operand: -1, Err: ErrNoSemantics}
		return
	}
	locs = u.StaticReads(line)
	return
}

// StaticWrites returns the locations a line may write.
func StaticWrites(line *asm.Line) (locs []sim.Loc, err error) {
	u, ok := Lookup(line.Mnemonic)
	if !ok {
		err = ErrOperand{Mnemonic: line.Mnemonic, Operand: -1, Err: ErrNoSemantics}
		return
	}
	locs = u.StaticWrites(line)
	return
}

// Usage returns the locations read or written by any of the lines.
func Usage(lines []asm.Line) (sc sim.StateConfig) {
	for n := range lines {
		line := &lines[n]
		u, ok := Lookup(line.Mnemonic)
		if !ok {
			continue
		}
		for _, loc := range append(u.StaticReads(line), u.StaticWrites(line)...) {
			switch loc.Kind {
			case sim.LOC_REG:
				sc = sc.WithRegister(loc.Reg, true)
			case sim.LOC_FLAG:
				sc = sc.WithFlags(x86.FlagsOf(loc.Flag), true)
			case sim.LOC_MEM:
				sc = sc.WithMem(true)
			}
		}
	}
	return
}
