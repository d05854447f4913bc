package sim

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/x86"
)

// StateUpdate is the effect of one instruction on one path: the locations
// written at version NextKey, as expressions over the variables of
// version PrevKey.
type StateUpdate struct {
	BranchInfo *BranchInfo // Decision made by the instruction, if any.

	tools      *Tools
	prev, next Key
	regs       map[x86.Register]expr.BV
	flags      map[x86.Flag]expr.Bool
	mem        expr.Mem
	memWritten bool
}

// NewStateUpdate returns an empty update from prev to next.
func NewStateUpdate(prev, next Key, tools *Tools) *StateUpdate {
	return &StateUpdate{
		tools: tools,
		prev:  prev,
		next:  next,
		regs:  make(map[x86.Register]expr.BV),
		flags: make(map[x86.Flag]expr.Bool),
	}
}

// PrevKey is the version the update reads.
func (u *StateUpdate) PrevKey() Key {
	return u.prev
}

// NextKey is the version the update defines.
func (u *StateUpdate) NextKey() Key {
	return u.next
}

// Tools returns the run context.
func (u *StateUpdate) Tools() *Tools {
	return u.tools
}

// Arena returns the expression arena.
func (u *StateUpdate) Arena() *expr.Arena {
	return u.tools.arena
}

// IsEmpty returns true when nothing is written.
func (u *StateUpdate) IsEmpty() bool {
	return len(u.regs) == 0 && len(u.flags) == 0 && !u.memWritten
}

// Get returns register r, reflecting writes already made by the update.
func (u *StateUpdate) Get(r x86.Register) expr.BV {
	family := r.Family()
	value, ok := u.regs[family]
	if !ok {
		value = u.tools.RegVar(u.prev, family)
	}
	if r.IsFamily() {
		return value
	}
	return value.Extract(r.Lo()+r.Width()-1, r.Lo())
}

// Set writes register r. Writing a 32-bit register clears the upper half
// of its family; 16 and 8-bit writes keep the other bits.
func (u *StateUpdate) Set(r x86.Register, value expr.BV) {
	if value.Width() != r.Width() {
		panic(&ErrWidth{Reg: r, Width: value.Width()})
	}

	family := r.Family()
	switch {
	case r.IsFamily():
	case r.Width() == 32:
		value = value.ZeroExt(32)
	default:
		old := u.Get(family)
		lo, hi := r.Lo(), r.Lo()+r.Width()
		if hi < 64 {
			value = old.Extract(63, hi).Concat(value)
		}
		if lo > 0 {
			value = value.Concat(old.Extract(lo-1, 0))
		}
	}

	u.regs[family] = value
}

// GetFlag returns a flag, reflecting writes already made by the update.
func (u *StateUpdate) GetFlag(f x86.Flag) expr.Bool {
	value, ok := u.flags[f]
	if !ok {
		value = u.tools.FlagVar(u.prev, f)
	}
	return value
}

// SetFlag writes a flag.
func (u *StateUpdate) SetFlag(f x86.Flag, value expr.Bool) {
	u.flags[f] = value
}

// SetFlagsUndef marks flags as architecturally undefined.
func (u *StateUpdate) SetFlagsUndef(flags x86.Flags) {
	for f := range flags.All() {
		u.flags[f] = u.tools.UndefBool()
	}
}

// Mem returns memory, reflecting writes already made by the update.
func (u *StateUpdate) Mem() expr.Mem {
	if u.memWritten {
		return u.mem
	}
	return u.tools.MemVar(u.prev)
}

// Read returns nBytes little-endian bytes of memory at addr.
func (u *StateUpdate) Read(addr expr.BV, nBytes int) expr.BV {
	return u.Mem().Read(addr, nBytes)
}

// Write stores value little-endian at addr.
func (u *StateUpdate) Write(addr expr.BV, value expr.BV) {
	u.mem = u.Mem().Write(addr, value)
	u.memWritten = true
}

// SetMem replaces memory. mem must be built from Mem.
func (u *StateUpdate) SetMem(mem expr.Mem) {
	u.mem = mem
	u.memWritten = true
}

// Regs iterates the written register families.
func (u *StateUpdate) Regs() iter.Seq2[x86.Register, expr.BV] {
	return func(yield func(x86.Register, expr.BV) bool) {
		for _, r := range slices.Sorted(maps.Keys(u.regs)) {
			if !yield(r, u.regs[r]) {
				return
			}
		}
	}
}

// Flags iterates the written flags.
func (u *StateUpdate) Flags() iter.Seq2[x86.Flag, expr.Bool] {
	return func(yield func(x86.Flag, expr.Bool) bool) {
		for _, f := range slices.Sorted(maps.Keys(u.flags)) {
			if !yield(f, u.flags[f]) {
				return
			}
		}
	}
}

// MemWrite returns the memory after the update, if it was written.
func (u *StateUpdate) MemWrite() (mem expr.Mem, ok bool) {
	return u.mem, u.memWritten
}

// Written returns the locations written.
func (u *StateUpdate) Written() (locs []Loc) {
	for f := range u.Flags() {
		locs = append(locs, FlagLoc(f))
	}
	for r := range u.Regs() {
		locs = append(locs, RegLoc(r))
	}
	if u.memWritten {
		locs = append(locs, MemLoc)
	}
	return
}

func (u *StateUpdate) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v -> %v\n", u.prev, u.next)
	for f, value := range u.Flags() {
		fmt.Fprintf(&sb, "  %v := %v\n", f, value)
	}
	for r, value := range u.Regs() {
		fmt.Fprintf(&sb, "  %v := %v\n", r, value)
	}
	if u.memWritten {
		fmt.Fprintf(&sb, "  MEM := %v\n", u.mem)
	}
	if u.BranchInfo != nil {
		fmt.Fprintf(&sb, "  branch %v\n", u.BranchInfo)
	}
	return sb.String()
}
