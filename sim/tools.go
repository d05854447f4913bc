package sim

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/smt"
	"github.com/ezrec/asmsim/x86"
)

// Key names one version of the machine state. Keys are unique per run.
type Key string

// LocKind is the kind of a state location.
type LocKind int

//go:generate go tool stringer -linecomment -type=LocKind
const (
	LOC_REG  = LocKind(0) // reg
	LOC_FLAG = LocKind(1) // flag
	LOC_MEM  = LocKind(2) // mem
)

// Loc is a location of the machine state: a register family, a flag, or
// the whole of memory.
type Loc struct {
	Kind LocKind
	Reg  x86.Register
	Flag x86.Flag
}

// MemLoc is the memory location.
var MemLoc = Loc{Kind: LOC_MEM}

// RegLoc returns the location holding the family of r.
func RegLoc(r x86.Register) Loc {
	return Loc{Kind: LOC_REG, Reg: r.Family()}
}

// FlagLoc returns the location of a flag.
func FlagLoc(f x86.Flag) Loc {
	return Loc{Kind: LOC_FLAG, Flag: f}
}

// Sort returns the expression sort of the location.
func (loc Loc) Sort() expr.Sort {
	switch loc.Kind {
	case LOC_REG:
		return expr.SortBV(64)
	case LOC_FLAG:
		return expr.SortBool
	}
	return expr.SortMem
}

func (loc Loc) String() string {
	switch loc.Kind {
	case LOC_REG:
		return loc.Reg.String()
	case LOC_FLAG:
		return loc.Flag.String()
	}
	return "MEM"
}

type varRef struct {
	key Key
	loc Loc
}

// Tools is the context shared by every state of one run: the expression
// arena, the solver, and the key counter.
type Tools struct {
	RunID uuid.UUID

	config  Config
	arena   *expr.Arena
	solver  *smt.Solver
	counter int
	vars    map[expr.Handle]varRef
}

// NewTools returns the context of a new run.
func NewTools(config Config) (t *Tools) {
	t = &Tools{
		RunID:  uuid.New(),
		config: config,
		arena:  expr.NewArena(),
		vars:   make(map[expr.Handle]varRef),
	}

	if config.Verbose {
		log.Printf("sim: run %v: tracking %v", t.RunID, config.StateConfig)
	}

	return
}

// Config returns the run settings.
func (t *Tools) Config() Config {
	return t.config
}

// StateConfig returns the tracked locations.
func (t *Tools) StateConfig() StateConfig {
	return t.config.StateConfig
}

// Verbose returns true when state operations are logged.
func (t *Tools) Verbose() bool {
	return t.config.Verbose
}

// Arena returns the expression arena of the run.
func (t *Tools) Arena() *expr.Arena {
	return t.arena
}

// Solver returns the solver of the run, creating it on first use.
func (t *Tools) Solver() *smt.Solver {
	if t.solver == nil {
		t.solver = smt.New(t.arena, t.config.Timeout)
		t.solver.Verbose = t.config.Verbose
	}
	return t.solver
}

// FreshKey returns a key never returned before in this run.
func (t *Tools) FreshKey() Key {
	t.counter++
	return Key(fmt.Sprintf("!%d", t.counter))
}

// Fresh returns a variable name never returned before in this run.
func (t *Tools) Fresh(prefix string) string {
	t.counter++
	return fmt.Sprintf("%s!%d", prefix, t.counter)
}

// Var returns the variable holding loc at version key.
func (t *Tools) Var(key Key, loc Loc) expr.Handle {
	name := loc.String() + string(key)
	var h expr.Handle
	switch loc.Kind {
	case LOC_REG:
		h = t.arena.BVVar(name, 64).Handle()
	case LOC_FLAG:
		h = t.arena.BoolVar(name).Handle()
	default:
		h = t.arena.MemVar(name).Handle()
	}
	t.vars[h] = varRef{key: key, loc: loc}
	return h
}

// RegVar returns the 64-bit variable of the family of r at version key.
func (t *Tools) RegVar(key Key, r x86.Register) expr.BV {
	return t.arena.AsBV(t.Var(key, RegLoc(r)))
}

// FlagVar returns the variable of a flag at version key.
func (t *Tools) FlagVar(key Key, f x86.Flag) expr.Bool {
	return t.arena.AsBool(t.Var(key, FlagLoc(f)))
}

// MemVar returns the memory variable at version key.
func (t *Tools) MemVar(key Key) expr.Mem {
	return t.arena.AsMem(t.Var(key, MemLoc))
}

// Undef returns a fresh architecturally undefined bit-vector.
func (t *Tools) Undef(width int) expr.BV {
	return t.arena.BVUndef(t.Fresh("UNDEF"), width)
}

// UndefBool returns a fresh architecturally undefined flag value.
func (t *Tools) UndefBool() expr.Bool {
	return t.arena.BoolUndef(t.Fresh("UNDEF"))
}

// Unknown returns a fresh bit-vector that is defined but not derivable.
func (t *Tools) Unknown(width int) expr.BV {
	return t.arena.BVVar(t.Fresh("UNKNOWN"), width)
}

// UnknownMem returns a fresh memory that is defined but not derivable.
func (t *Tools) UnknownMem() expr.Mem {
	return t.arena.MemVar(t.Fresh("UNKNOWN"))
}

// Branch returns a fresh condition that selects between merged paths.
func (t *Tools) Branch() expr.Bool {
	return t.arena.BoolVar(t.Fresh("BRANCH"))
}

func (t *Tools) lookup(h expr.Handle) (ref varRef, ok bool) {
	ref, ok = t.vars[h]
	return
}
