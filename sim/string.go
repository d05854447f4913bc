package sim

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/internal"
	"github.com/ezrec/asmsim/x86"
)

// storedAddresses returns the constant addresses written into mem, in
// increasing order.
func storedAddresses(a *expr.Arena, mem expr.Handle) (addrs []uint64) {
	a.Walk(func(h expr.Handle) {
		if a.Op(h) != expr.OP_STORE {
			return
		}
		if addr, ok := a.AsBV(a.Args(h)[1]).Uint64(); ok {
			addrs = append(addrs, addr)
		}
	}, mem)
	slices.Sort(addrs)
	return slices.Compact(addrs)
}

// String reports the tracked locations of the head: flags, then
// registers, then every byte of memory stored at a constant address.
func (s *State) String() string {
	var sb strings.Builder
	config := s.tools.StateConfig()
	q := s.query()

	flags := internal.IterSeqConcat(x86.FLAGS_STATUS.All(), x86.FlagsOf(x86.FLAG_DF).All())
	for f := range internal.IterSeqFilter(flags, config.Flag) {
		fmt.Fprintf(&sb, "%v = %c\n", strings.ToUpper(f.String()), q.bit(s.Flag(f)).Char())
	}

	for r := range internal.IterSeqFilter(x86.Families(), config.Register) {
		fmt.Fprintf(&sb, "%-3v = 0x%v\n", strings.ToUpper(r.String()), q.array(s.Reg(r)).Hex())
	}

	if config.Mem {
		mem := s.Mem()
		for _, addr := range storedAddresses(s.arena(), mem.Handle()) {
			value := q.array(mem.Read(s.arena().BVConst(addr, 64), 1))
			fmt.Fprintf(&sb, "MEM[%#x] = 0x%v\n", addr, value.Hex())
		}
	}

	if s.tools.Config().ShowUndefConstraints {
		for _, c := range q.constraints {
			fmt.Fprintf(&sb, "ASSERT %v\n", c)
		}
	}

	return sb.String()
}
