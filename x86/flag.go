package x86

import (
	"iter"
	"strings"
)

// Flag is a status flag of RFLAGS.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_CF = Flag(0) // CF
	FLAG_PF = Flag(1) // PF
	FLAG_AF = Flag(2) // AF
	FLAG_ZF = Flag(3) // ZF
	FLAG_SF = Flag(4) // SF
	FLAG_OF = Flag(5) // OF
	FLAG_DF = Flag(6) // DF
)

// MAX_FLAG is the number of modelled flags.
const MAX_FLAG = 7

// Bit returns the position of the flag in RFLAGS.
func (f Flag) Bit() int {
	return [...]int{0, 2, 4, 6, 7, 11, 10}[f]
}

// Flags is a set of flags.
type Flags uint8

// FLAGS_STATUS are the six arithmetic status flags.
const FLAGS_STATUS = Flags(1<<FLAG_CF | 1<<FLAG_PF | 1<<FLAG_AF | 1<<FLAG_ZF | 1<<FLAG_SF | 1<<FLAG_OF)

// FLAGS_ALL are all modelled flags.
const FLAGS_ALL = FLAGS_STATUS | Flags(1<<FLAG_DF)

// FlagsOf returns the set of the given flags.
func FlagsOf(flags ...Flag) (set Flags) {
	for _, f := range flags {
		set |= 1 << f
	}
	return
}

// Has returns true if f is in the set.
func (set Flags) Has(f Flag) bool {
	return set&(1<<f) != 0
}

// All iterates the flags of the set in display order.
func (set Flags) All() iter.Seq[Flag] {
	return func(yield func(Flag) bool) {
		for f := range Flag(MAX_FLAG) {
			if set.Has(f) && !yield(f) {
				return
			}
		}
	}
}

// AllFlags iterates every modelled flag.
func AllFlags() iter.Seq[Flag] {
	return FLAGS_ALL.All()
}

func (set Flags) String() string {
	var names []string
	for f := range set.All() {
		names = append(names, f.String())
	}
	return strings.Join(names, "|")
}

// ParseFlag looks up a flag by name, ignoring case.
func ParseFlag(name string) (f Flag, ok bool) {
	name = strings.ToUpper(name)
	for f = range AllFlags() {
		if f.String() == name {
			return f, true
		}
	}
	return
}
