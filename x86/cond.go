package x86

// Cond is a condition code tested by Jcc, SETcc and CMOVcc.
type Cond int

//go:generate go tool stringer -linecomment -type=Cond
const (
	CC_NONE = Cond(0)  // none
	CC_O    = Cond(1)  // o
	CC_NO   = Cond(2)  // no
	CC_B    = Cond(3)  // b
	CC_AE   = Cond(4)  // ae
	CC_E    = Cond(5)  // e
	CC_NE   = Cond(6)  // ne
	CC_BE   = Cond(7)  // be
	CC_A    = Cond(8)  // a
	CC_S    = Cond(9)  // s
	CC_NS   = Cond(10) // ns
	CC_P    = Cond(11) // p
	CC_NP   = Cond(12) // np
	CC_L    = Cond(13) // l
	CC_GE   = Cond(14) // ge
	CC_LE   = Cond(15) // le
	CC_G    = Cond(16) // g
)

var condSuffix = map[string]Cond{
	"o": CC_O, "no": CC_NO,
	"b": CC_B, "c": CC_B, "nae": CC_B,
	"ae": CC_AE, "nb": CC_AE, "nc": CC_AE,
	"e": CC_E, "z": CC_E,
	"ne": CC_NE, "nz": CC_NE,
	"be": CC_BE, "na": CC_BE,
	"a": CC_A, "nbe": CC_A,
	"s": CC_S, "ns": CC_NS,
	"p": CC_P, "pe": CC_P,
	"np": CC_NP, "po": CC_NP,
	"l": CC_L, "nge": CC_L,
	"ge": CC_GE, "nl": CC_GE,
	"le": CC_LE, "ng": CC_LE,
	"g": CC_G, "nle": CC_G,
}

// ParseCond parses a condition suffix such as "nz" or "ae".
func ParseCond(suffix string) (cc Cond, ok bool) {
	cc, ok = condSuffix[suffix]
	return
}

// FlagsRead returns the flags the condition tests.
func (cc Cond) FlagsRead() Flags {
	switch cc {
	case CC_O, CC_NO:
		return FlagsOf(FLAG_OF)
	case CC_B, CC_AE:
		return FlagsOf(FLAG_CF)
	case CC_E, CC_NE:
		return FlagsOf(FLAG_ZF)
	case CC_BE, CC_A:
		return FlagsOf(FLAG_CF, FLAG_ZF)
	case CC_S, CC_NS:
		return FlagsOf(FLAG_SF)
	case CC_P, CC_NP:
		return FlagsOf(FLAG_PF)
	case CC_L, CC_GE:
		return FlagsOf(FLAG_SF, FLAG_OF)
	case CC_LE, CC_G:
		return FlagsOf(FLAG_ZF, FLAG_SF, FLAG_OF)
	}
	return 0
}

// Negate returns the opposite condition.
func (cc Cond) Negate() Cond {
	if cc == CC_NONE {
		return CC_NONE
	}
	// Conditions come in pairs, the odd one first.
	if cc%2 == 1 {
		return cc + 1
	}
	return cc - 1
}

// Eval evaluates the condition over concrete flag values.
func (cc Cond) Eval(flag func(f Flag) bool) bool {
	switch cc {
	case CC_O:
		return flag(FLAG_OF)
	case CC_B:
		return flag(FLAG_CF)
	case CC_E:
		return flag(FLAG_ZF)
	case CC_BE:
		return flag(FLAG_CF) || flag(FLAG_ZF)
	case CC_S:
		return flag(FLAG_SF)
	case CC_P:
		return flag(FLAG_PF)
	case CC_L:
		return flag(FLAG_SF) != flag(FLAG_OF)
	case CC_LE:
		return flag(FLAG_ZF) || flag(FLAG_SF) != flag(FLAG_OF)
	case CC_NONE:
		return false
	}
	return !cc.Negate().Eval(flag)
}
