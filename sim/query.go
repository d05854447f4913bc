package sim

import (
	"github.com/holiman/uint256"

	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/smt"
	"github.com/ezrec/asmsim/tv"
	"github.com/ezrec/asmsim/x86"
)

// query caches what every bit query of one state shares.
type query struct {
	s           *State
	solver      *smt.Solver
	constraints []expr.Bool
	constVars   map[expr.Handle]bool
}

func (s *State) query() *query {
	q := &query{
		s:           s,
		solver:      s.tools.Solver(),
		constraints: s.Constraints(),
		constVars:   make(map[expr.Handle]bool),
	}
	var roots []expr.Handle
	for _, c := range q.constraints {
		roots = append(roots, c.Handle())
	}
	for _, v := range s.arena().Vars(roots...) {
		q.constVars[v] = true
	}
	return q
}

// free returns true when h is a variable no constraint mentions.
func (q *query) free(h expr.Handle) bool {
	a := q.s.arena()
	return a.Op(h) == expr.OP_VAR && !a.IsUndef(h) && !q.constVars[h]
}

func (q *query) check(extra expr.Bool) smt.Result {
	return q.solver.Check(append(q.constraints[:len(q.constraints):len(q.constraints)], extra)...)
}

// bit reports what is known about a boolean under the path constraints.
func (q *query) bit(b expr.Bool) tv.Tv {
	if value, ok := b.Const(); ok {
		return tv.FromBool(value)
	}

	one := q.check(b)
	zero := q.check(b.Not())
	switch {
	case one == smt.UNKNOWN || zero == smt.UNKNOWN:
		return tv.UNKNOWN
	case one == smt.UNSAT && zero == smt.UNSAT:
		// No path reaches the state.
		return tv.UNKNOWN
	case one == smt.UNSAT:
		return tv.ZERO
	case zero == smt.UNSAT:
		return tv.ONE
	}

	// Both values are possible. The bit is undefined when it stays free
	// with every defined input fixed.
	a := q.s.arena()
	grounded := a.AsBool(a.Ground(b.Handle()))
	if _, ok := grounded.Const(); ok {
		return tv.UNDETERMINED
	}
	if q.check(grounded) == smt.SAT && q.check(grounded.Not()) == smt.SAT {
		return tv.UNDEFINED
	}
	return tv.UNDETERMINED
}

func (q *query) array(value expr.BV) (arr tv.Array) {
	if v, ok := value.Const(); ok {
		arr = make(tv.Array, value.Width())
		for n := range arr {
			var bit uint256.Int
			bit.Rsh(&v, uint(n))
			arr[n] = tv.FromBool(bit.Uint64()&1 == 1)
		}
		return
	}
	if q.free(value.Handle()) {
		return tv.NewArray(value.Width(), tv.UNDETERMINED)
	}
	arr = make(tv.Array, value.Width())
	for n := range arr {
		arr[n] = q.bit(value.IsSet(n))
	}
	return
}

// GetTv reports bit n of register r, or flag f when loc is a flag.
func (s *State) GetTv(loc Loc, n int) tv.Tv {
	if !s.tools.StateConfig().Tracked(loc) {
		return tv.UNDETERMINED
	}
	q := s.query()
	switch loc.Kind {
	case LOC_FLAG:
		return q.bit(s.Flag(loc.Flag))
	case LOC_REG:
		return q.bit(s.Reg(loc.Reg).IsSet(n))
	}
	return tv.UNDETERMINED
}

// GetTvFlag reports a flag.
func (s *State) GetTvFlag(f x86.Flag) tv.Tv {
	return s.GetTv(FlagLoc(f), 0)
}

// GetTvArray reports every bit of register r.
func (s *State) GetTvArray(r x86.Register) tv.Array {
	if !s.tools.StateConfig().Register(r) {
		return tv.NewArray(r.Width(), tv.UNDETERMINED)
	}
	return s.query().array(s.Reg(r))
}

// GetTvArrayMem reports nBytes of memory at a constant address.
func (s *State) GetTvArrayMem(addr uint64, nBytes int) tv.Array {
	if !s.tools.StateConfig().Mem {
		return tv.NewArray(nBytes*8, tv.UNDETERMINED)
	}
	a := s.arena()
	return s.query().array(s.Mem().Read(a.BVConst(addr, 64), nBytes))
}

// EqualValues reports whether two expressions are equal on every path of
// the state. ONE when always equal, ZERO when never, UNDETERMINED when it
// depends on the inputs.
func (s *State) EqualValues(x, y expr.BV) tv.Tv {
	if x.Handle() == y.Handle() {
		return tv.ONE
	}
	return s.query().bit(s.Resolve(x.Eq(y)))
}

// IsConsistent reports whether any path reaches the state.
func (s *State) IsConsistent() tv.Tv {
	constraints := s.Constraints()
	if len(constraints) == 0 {
		return tv.ONE
	}
	switch s.tools.Solver().Check(constraints...) {
	case smt.SAT:
		return tv.ONE
	case smt.UNSAT:
		return tv.ZERO
	}
	return tv.UNKNOWN
}

// IsRedundantReg reports whether register r is unchanged between two
// versions.
func (s *State) IsRedundantReg(r x86.Register, prev, next Key) tv.Tv {
	a := s.arena()
	x := a.AsBV(s.Create(prev, RegLoc(r)))
	y := a.AsBV(s.Create(next, RegLoc(r)))
	if !r.IsFamily() {
		hi, lo := r.Lo()+r.Width()-1, r.Lo()
		x, y = x.Extract(hi, lo), y.Extract(hi, lo)
	}
	return s.EqualValues(x, y)
}

// IsRedundantFlag reports whether a flag is unchanged between two versions.
func (s *State) IsRedundantFlag(f x86.Flag, prev, next Key) tv.Tv {
	a := s.arena()
	x := a.AsBool(s.Create(prev, FlagLoc(f)))
	y := a.AsBool(s.Create(next, FlagLoc(f)))
	if x.Handle() == y.Handle() {
		return tv.ONE
	}
	return s.query().bit(x.Eq(y))
}

// IsRedundantMem reports whether memory is unchanged between two
// versions: every byte stored since prev holds the value it had.
func (s *State) IsRedundantMem(prev, next Key) tv.Tv {
	a := s.arena()
	before := s.Create(prev, MemLoc)
	after := s.Create(next, MemLoc)

	var addrs []expr.BV
	var collect func(h expr.Handle) bool
	collect = func(h expr.Handle) bool {
		switch {
		case h == before:
			return true
		case a.Op(h) == expr.OP_STORE:
			args := a.Args(h)
			addrs = append(addrs, a.AsBV(args[1]))
			return collect(args[0])
		case a.Op(h) == expr.OP_ITE:
			args := a.Args(h)
			return collect(args[1]) && collect(args[2])
		}
		return false
	}
	if !collect(after) {
		return tv.UNDETERMINED
	}

	same := make([]expr.Bool, len(addrs))
	for n, addr := range addrs {
		same[n] = a.AsMem(before).Select(addr).Eq(a.AsMem(after).Select(addr))
	}
	return s.query().bit(a.All(same...))
}
