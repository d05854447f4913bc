package sim

import (
	"log"
	"maps"

	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/tv"
)

// Merge joins two states reached on different paths into one.
//
// States with the same tail and different heads (forward) get a new head
// choosing between the two heads. States with the same tail and head
// (backward) join their definitions. The decisions that tell the paths
// apart select between them; decisions seen on only one path are kept as
// constraints guarded by that selection.
func Merge(a, b *State) (m *State, err error) {
	if a.tools != b.tools {
		err = ErrMergeTools
		return
	}
	if a.tail != b.tail {
		err = ErrMergeKeys
		return
	}

	if b.IsConsistent() == tv.ZERO {
		m = a.Copy()
		return
	}
	if a.IsConsistent() == tv.ZERO {
		m = b.Copy()
		return
	}

	tools := a.tools
	shared := RetrieveSharedBranchInfo(a.branches, b.branches)

	m = a.Copy()
	maps.Copy(m.defs, b.defs)
	for _, c := range b.constraints {
		m.AddConstraint(c)
	}
	m.branches = &BranchInfoStore{entries: shared.Common}

	var cond expr.Bool
	if len(shared.Discriminators) > 0 {
		cond = shared.Discriminators[0].Constraint()
		for _, bi := range shared.Discriminators[1:] {
			m.AddConstraint(cond.Eq(bi.Constraint()))
		}
	} else {
		cond = tools.Branch()
	}
	for _, bi := range shared.OnlyA {
		m.AddConstraint(cond.Implies(bi.Constraint()))
	}
	for _, bi := range shared.OnlyB {
		m.AddConstraint(cond.Not().Implies(bi.Constraint()))
	}

	if a.head != b.head {
		m.head = tools.FreshKey()
		m.defs[m.head] = &def{
			choice:  true,
			cond:    cond,
			onTrue:  a.head,
			onFalse: b.head,
		}
	}

	if tools.Verbose() {
		log.Printf("sim: merge %v,%v -> %v on %v", a.head, b.head, m.head, cond)
	}

	return
}

// MergeAll merges a list of states, left to right.
func MergeAll(states ...*State) (m *State, err error) {
	for _, s := range states {
		if m == nil {
			m = s.Copy()
			continue
		}
		m, err = Merge(m, s)
		if err != nil {
			return
		}
	}
	return
}

// ForkBackward splits a state into n states whose tails are fresh
// versions, joined at the old tail by a chain of choices on fresh
// conditions. Executing each copy backward along a different predecessor
// and merging them binds those conditions to the real branch conditions.
func (s *State) ForkBackward(n int) (forks []*State, err error) {
	if n < 2 {
		err = ErrForkCount
		return
	}

	tools := s.tools
	tails := make([]Key, n)
	for i := range tails {
		tails[i] = tools.FreshKey()
	}

	chain := make(map[Key]*def)
	var decisions []BranchInfo
	paths := make([][]BranchInfo, n)
	at := s.tail
	for i := 0; i < n-1; i++ {
		rest := tails[n-1]
		if i < n-2 {
			rest = tools.FreshKey()
		}
		cond := tools.Branch()
		chain[at] = &def{choice: true, cond: cond, onTrue: tails[i], onFalse: rest}
		taken := BranchInfo{Cond: cond, Taken: true, LineNo: -1}
		paths[i] = append(append(paths[i], decisions...), taken)
		decisions = append(decisions, taken.Negate())
		at = rest
	}
	paths[n-1] = decisions

	for i := range n {
		fork := s.Copy()
		maps.Copy(fork.defs, chain)
		fork.tail = tails[i]
		for _, bi := range paths[i] {
			fork.branches.Add(bi)
		}
		forks = append(forks, fork)
	}

	return
}
