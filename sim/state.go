package sim

import (
	"log"
	"maps"
	"slices"

	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/x86"
)

// def defines one version of the state, either as the writes of an
// instruction over its previous version, or as a choice between two
// versions.
type def struct {
	prev   Key
	writes map[Loc]expr.Handle

	choice  bool
	cond    expr.Bool
	onTrue  Key
	onFalse Key
}

// State is the machine state of a set of paths between two versions: the
// tail, whose locations are free variables, and the head, whose locations
// are expressions over the tail.
type State struct {
	LineNo int // Line the state is attached to, if any.

	tools       *Tools
	tail, head  Key
	branches    *BranchInfoStore
	constraints []expr.Bool
	defs        map[Key]*def

	cache map[varRef]expr.Handle
	subst *expr.Substituter
}

// NewState returns a state with no history. Its head and tail are the
// same fresh version.
func NewState(tools *Tools) *State {
	key := tools.FreshKey()
	return NewStateAt(key, key, tools)
}

// NewStateAt returns a state from tail to head with no definitions
// between them.
func NewStateAt(tail, head Key, tools *Tools) *State {
	return &State{
		LineNo:   -1,
		tools:    tools,
		tail:     tail,
		head:     head,
		branches: &BranchInfoStore{},
		defs:     make(map[Key]*def),
	}
}

// Tools returns the run context.
func (s *State) Tools() *Tools {
	return s.tools
}

// TailKey is the version whose locations are free.
func (s *State) TailKey() Key {
	return s.tail
}

// HeadKey is the version reported by the state.
func (s *State) HeadKey() Key {
	return s.head
}

// BranchInfo returns the decisions taken by the paths of the state.
func (s *State) BranchInfo() *BranchInfoStore {
	return s.branches
}

// Copy returns an independent copy of the state.
func (s *State) Copy() *State {
	return &State{
		LineNo:      s.LineNo,
		tools:       s.tools,
		tail:        s.tail,
		head:        s.head,
		branches:    s.branches.Clone(),
		constraints: slices.Clone(s.constraints),
		defs:        maps.Clone(s.defs),
	}
}

func (s *State) invalidate() {
	s.cache = nil
	s.subst = nil
}

// UpdateForward appends an update at the head. The update must read the
// head version.
func (s *State) UpdateForward(u *StateUpdate) (err error) {
	if u.prev != s.head {
		return ErrKeyUnknown
	}
	s.defs[u.next] = updateDef(u)
	s.head = u.next
	if u.BranchInfo != nil {
		s.branches.Add(*u.BranchInfo)
	}
	if s.tools.Verbose() {
		log.Printf("sim: forward %v", u)
	}
	return
}

// UpdateBackward prepends an update at the tail. The update must define
// the tail version.
func (s *State) UpdateBackward(u *StateUpdate) (err error) {
	if u.next != s.tail {
		return ErrKeyUnknown
	}
	s.defs[u.next] = updateDef(u)
	s.tail = u.prev
	s.invalidate()
	if u.BranchInfo != nil {
		s.branches.Add(*u.BranchInfo)
	}
	if s.tools.Verbose() {
		log.Printf("sim: backward %v", u)
	}
	return
}

func updateDef(u *StateUpdate) *def {
	d := &def{prev: u.prev, writes: make(map[Loc]expr.Handle)}
	for r, value := range u.Regs() {
		d.writes[RegLoc(r)] = value.Handle()
	}
	for f, value := range u.Flags() {
		d.writes[FlagLoc(f)] = value.Handle()
	}
	if mem, ok := u.MemWrite(); ok {
		d.writes[MemLoc] = mem.Handle()
	}
	return d
}

// Add records a branch decision.
func (s *State) Add(bi BranchInfo) {
	s.branches.Add(bi)
}

// AddConstraint restricts the paths of the state.
func (s *State) AddConstraint(c expr.Bool) {
	if c.IsTrue() {
		return
	}
	for _, have := range s.constraints {
		if have.Handle() == c.Handle() {
			return
		}
	}
	s.constraints = append(s.constraints, c)
}

// Create returns the value of a location at a version, as an expression
// over the tail variables.
func (s *State) Create(key Key, loc Loc) expr.Handle {
	if key == s.tail {
		return s.tools.Var(key, loc)
	}

	ref := varRef{key: key, loc: loc}
	if h, ok := s.cache[ref]; ok {
		return h
	}

	var h expr.Handle
	d, ok := s.defs[key]
	switch {
	case !ok:
		// Versions outside the state are free.
		h = s.tools.Var(key, loc)
	case d.choice:
		cond := s.arena().AsBool(s.resolve(d.cond.Handle()))
		h = s.ite(loc, cond, s.Create(d.onTrue, loc), s.Create(d.onFalse, loc))
	default:
		if w, ok := d.writes[loc]; ok {
			h = s.resolve(w)
		} else {
			h = s.Create(d.prev, loc)
		}
	}

	if s.cache == nil {
		s.cache = make(map[varRef]expr.Handle)
	}
	s.cache[ref] = h
	return h
}

func (s *State) arena() *expr.Arena {
	return s.tools.arena
}

func (s *State) ite(loc Loc, cond expr.Bool, t, e expr.Handle) expr.Handle {
	a := s.arena()
	switch loc.Kind {
	case LOC_REG:
		return cond.IteBV(a.AsBV(t), a.AsBV(e)).Handle()
	case LOC_FLAG:
		return cond.Ite(a.AsBool(t), a.AsBool(e)).Handle()
	}
	return cond.IteMem(a.AsMem(t), a.AsMem(e)).Handle()
}

// resolve rewrites an expression over any versions of the state into one
// over the tail.
func (s *State) resolve(h expr.Handle) expr.Handle {
	if s.subst == nil {
		s.subst = s.arena().NewSubstituter(func(v expr.Handle) (expr.Handle, bool) {
			ref, ok := s.tools.lookup(v)
			if !ok || ref.key == s.tail {
				return 0, false
			}
			return s.Create(ref.key, ref.loc), true
		})
	}
	return s.subst.Apply(h)
}

// Resolve rewrites a condition over any versions of the state into one
// over the tail.
func (s *State) Resolve(c expr.Bool) expr.Bool {
	return s.arena().AsBool(s.resolve(c.Handle()))
}

// ResolveBV rewrites a value over any versions of the state into one over
// the tail.
func (s *State) ResolveBV(v expr.BV) expr.BV {
	return s.arena().AsBV(s.resolve(v.Handle()))
}

// Reg returns register r at the head.
func (s *State) Reg(r x86.Register) expr.BV {
	value := s.arena().AsBV(s.Create(s.head, RegLoc(r)))
	if r.IsFamily() {
		return value
	}
	return value.Extract(r.Lo()+r.Width()-1, r.Lo())
}

// Flag returns a flag at the head.
func (s *State) Flag(f x86.Flag) expr.Bool {
	return s.arena().AsBool(s.Create(s.head, FlagLoc(f)))
}

// Mem returns memory at the head.
func (s *State) Mem() expr.Mem {
	return s.arena().AsMem(s.Create(s.head, MemLoc))
}

// Constraints returns the path constraints over the tail.
func (s *State) Constraints() (list []expr.Bool) {
	for _, c := range s.branches.Constraints() {
		list = append(list, s.Resolve(c))
	}
	for _, c := range s.constraints {
		list = append(list, s.Resolve(c))
	}
	return
}
