// Package smt decides satisfiability of expr arena formulas with Z3.
package smt

import (
	"log"
	"slices"
	"sync"
	"time"

	"github.com/aclements/go-z3/z3"

	"github.com/ezrec/asmsim/expr"
)

// Result of a satisfiability check.
type Result int

//go:generate go tool stringer -linecomment -type=Result
const (
	UNSAT   = Result(0) // unsat
	SAT     = Result(1) // sat
	UNKNOWN = Result(2) // unknown
)

// Stats counts solver outcomes.
type Stats struct {
	Queries int // Checks issued, including those decided without Z3.
	Solved  int // Checks that reached Z3.
	Unknown int // Checks Z3 could not decide.
}

// Solver lowers arena expressions to Z3 and checks them. Lowered terms are
// cached per arena handle for the lifetime of the Solver.
type Solver struct {
	Verbose bool

	arena   *expr.Arena
	timeout time.Duration

	mutex   sync.Mutex
	ctx     *z3.Context
	solver  *z3.Solver
	memSort z3.Sort
	cache   map[expr.Handle]z3.Value
	selects map[[2]expr.Handle]z3.BV
	stats   Stats
}

// New creates a solver for the arena. A zero timeout leaves Z3 unbounded.
func New(arena *expr.Arena, timeout time.Duration) (s *Solver) {
	cfg := z3.NewContextConfig()
	if timeout > 0 {
		cfg.SetUint("timeout", uint(timeout.Milliseconds()))
	}
	ctx := z3.NewContext(cfg)

	s = &Solver{
		arena:   arena,
		timeout: timeout,
		ctx:     ctx,
		solver:  z3.NewSolver(ctx),
		memSort: ctx.ArraySort(ctx.BVSort(64), ctx.BVSort(8)),
		cache:   make(map[expr.Handle]z3.Value),
		selects: make(map[[2]expr.Handle]z3.BV),
	}
	return
}

// Arena returns the arena the solver accepts expressions from.
func (s *Solver) Arena() *expr.Arena {
	return s.arena
}

// Timeout returns the per query time budget.
func (s *Solver) Timeout() time.Duration {
	return s.timeout
}

// Stats returns a snapshot of the outcome counters.
func (s *Solver) Stats() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats
}

// Check decides whether the conjunction of the assertions is satisfiable.
// A solver timeout or an inconclusive answer is reported as UNKNOWN.
func (s *Solver) Check(assertions ...expr.Bool) Result {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stats.Queries++

	var pending []expr.Bool
	for _, b := range assertions {
		if b.Arena() != s.arena {
			panic(&expr.ErrArena{Want: s.arena.ID.String(), Got: b.Arena().ID.String()})
		}
		v, ok := b.Const()
		switch {
		case ok && !v:
			return UNSAT
		case ok && v:
			continue
		}
		pending = append(pending, b)
	}
	if len(pending) == 0 {
		return SAT
	}

	s.stats.Solved++
	s.solver.Reset()
	for _, b := range pending {
		s.solver.Assert(s.lower(b.Handle()).(z3.Bool))
	}

	sat, err := s.solver.Check()
	if err != nil {
		s.stats.Unknown++
		if s.Verbose {
			log.Printf("smt: check: %v", err)
		}
		return UNKNOWN
	}
	if sat {
		return SAT
	}
	return UNSAT
}

// Prove checks the negation of claim under the assumptions. UNSAT means the
// claim always holds.
func (s *Solver) Prove(claim expr.Bool, assumptions ...expr.Bool) Result {
	return s.Check(append(slices.Clip(assumptions), claim.Not())...)
}
