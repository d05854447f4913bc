package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/ezrec/asmsim/x86"
)

// StateConfig selects the registers, flags and memory a run reports on.
// It is a value: the With* methods return modified copies.
type StateConfig struct {
	RAX bool `yaml:"rax" toml:"rax"`
	RBX bool `yaml:"rbx" toml:"rbx"`
	RCX bool `yaml:"rcx" toml:"rcx"`
	RDX bool `yaml:"rdx" toml:"rdx"`
	RSI bool `yaml:"rsi" toml:"rsi"`
	RDI bool `yaml:"rdi" toml:"rdi"`
	RBP bool `yaml:"rbp" toml:"rbp"`
	RSP bool `yaml:"rsp" toml:"rsp"`
	R8  bool `yaml:"r8" toml:"r8"`
	R9  bool `yaml:"r9" toml:"r9"`
	R10 bool `yaml:"r10" toml:"r10"`
	R11 bool `yaml:"r11" toml:"r11"`
	R12 bool `yaml:"r12" toml:"r12"`
	R13 bool `yaml:"r13" toml:"r13"`
	R14 bool `yaml:"r14" toml:"r14"`
	R15 bool `yaml:"r15" toml:"r15"`

	CF bool `yaml:"cf" toml:"cf"`
	PF bool `yaml:"pf" toml:"pf"`
	AF bool `yaml:"af" toml:"af"`
	ZF bool `yaml:"zf" toml:"zf"`
	SF bool `yaml:"sf" toml:"sf"`
	OF bool `yaml:"of" toml:"of"`
	DF bool `yaml:"df" toml:"df"`

	Mem bool `yaml:"mem" toml:"mem"`
}

func (sc *StateConfig) registers() [x86.MAX_FAMILY]*bool {
	return [...]*bool{
		&sc.RAX, &sc.RBX, &sc.RCX, &sc.RDX, &sc.RSI, &sc.RDI, &sc.RBP, &sc.RSP,
		&sc.R8, &sc.R9, &sc.R10, &sc.R11, &sc.R12, &sc.R13, &sc.R14, &sc.R15,
	}
}

func (sc *StateConfig) flags() [x86.MAX_FLAG]*bool {
	return [...]*bool{&sc.CF, &sc.PF, &sc.AF, &sc.ZF, &sc.SF, &sc.OF, &sc.DF}
}

// AllOn tracks every location.
func AllOn() StateConfig {
	return StateConfig{}.set(true)
}

// AllOff tracks nothing.
func AllOff() (sc StateConfig) {
	return
}

func (sc StateConfig) set(on bool) StateConfig {
	for _, p := range sc.registers() {
		*p = on
	}
	for _, p := range sc.flags() {
		*p = on
	}
	sc.Mem = on
	return sc
}

// Register returns true when the family of r is tracked.
func (sc StateConfig) Register(r x86.Register) bool {
	family := r.Family()
	if !family.Valid() {
		return false
	}
	return *sc.registers()[family-x86.REG_RAX]
}

// Flag returns true when f is tracked.
func (sc StateConfig) Flag(f x86.Flag) bool {
	return *sc.flags()[f]
}

// Tracked returns true when the location is tracked.
func (sc StateConfig) Tracked(loc Loc) bool {
	switch loc.Kind {
	case LOC_REG:
		return sc.Register(loc.Reg)
	case LOC_FLAG:
		return sc.Flag(loc.Flag)
	}
	return sc.Mem
}

// WithRegister returns a copy with the family of r switched.
func (sc StateConfig) WithRegister(r x86.Register, on bool) StateConfig {
	if family := r.Family(); family.Valid() {
		*sc.registers()[family-x86.REG_RAX] = on
	}
	return sc
}

// WithFlags returns a copy with the given flags switched.
func (sc StateConfig) WithFlags(flags x86.Flags, on bool) StateConfig {
	for f := range flags.All() {
		*sc.flags()[f] = on
	}
	return sc
}

// WithMem returns a copy with memory switched.
func (sc StateConfig) WithMem(on bool) StateConfig {
	sc.Mem = on
	return sc
}

// Union returns the locations tracked by either configuration.
func (sc StateConfig) Union(other StateConfig) StateConfig {
	theirs := other.registers()
	for n, p := range sc.registers() {
		*p = *p || *theirs[n]
	}
	theirFlags := other.flags()
	for n, p := range sc.flags() {
		*p = *p || *theirFlags[n]
	}
	sc.Mem = sc.Mem || other.Mem
	return sc
}

// Locations iterates the tracked locations: flags, then registers, then memory.
func (sc StateConfig) Locations() []Loc {
	var locs []Loc
	for f := range x86.AllFlags() {
		if sc.Flag(f) {
			locs = append(locs, FlagLoc(f))
		}
	}
	for r := range x86.Families() {
		if sc.Register(r) {
			locs = append(locs, RegLoc(r))
		}
	}
	if sc.Mem {
		locs = append(locs, MemLoc)
	}
	return locs
}

func (sc StateConfig) String() string {
	var names []string
	for _, loc := range sc.Locations() {
		names = append(names, loc.String())
	}
	return strings.Join(names, ",")
}

// ParseStateConfig parses a comma separated list of register, flag and
// "mem" names. "all" tracks everything.
func ParseStateConfig(text string) (sc StateConfig, err error) {
	for _, name := range strings.Split(text, ",") {
		name = strings.TrimSpace(name)
		if len(name) == 0 {
			continue
		}
		if strings.EqualFold(name, "all") {
			sc = AllOn()
			continue
		}
		if strings.EqualFold(name, "mem") {
			sc.Mem = true
			continue
		}
		if r, ok := x86.ParseRegister(name); ok {
			sc = sc.WithRegister(r, true)
			continue
		}
		if flag, ok := x86.ParseFlag(name); ok {
			sc = sc.WithFlags(x86.FlagsOf(flag), true)
			continue
		}
		err = fmt.Errorf("%w: %v", ErrConfigParse, name)
		return
	}
	return
}

// Config holds the settings of one analysis run.
type Config struct {
	// Solver budget per query.
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
	// Reported locations.
	StateConfig StateConfig `yaml:"state" toml:"state"`
	// Log state operations.
	Verbose bool `yaml:"verbose" toml:"verbose"`
	// Include the path constraints in State.String.
	ShowUndefConstraints bool `yaml:"show_undef" toml:"show_undef"`
	// Runner step cap.
	MaxSteps int `yaml:"max_steps" toml:"max_steps"`
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		Timeout:     5 * time.Second,
		StateConfig: AllOn(),
		MaxSteps:    1000,
	}
}
