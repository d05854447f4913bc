// Package tv implements the five-valued bit used to report what is known
// about a single bit of machine state.
package tv

// Tv is a five-valued truth value for a single bit.
type Tv int

//go:generate go tool stringer -linecomment -type=Tv
const (
	ZERO         = Tv(0) // 0
	ONE          = Tv(1) // 1
	UNDEFINED    = Tv(2) // U
	UNDETERMINED = Tv(3) // ?
	UNKNOWN      = Tv(4) // X
)

// Char returns the single character representation of the value.
func (v Tv) Char() byte {
	s := v.String()
	if len(s) != 1 {
		return 'X'
	}
	return s[0]
}

// ParseChar converts a single character to a Tv.
func ParseChar(c byte) (v Tv, err error) {
	switch c {
	case '0':
		v = ZERO
	case '1':
		v = ONE
	case 'U', 'u':
		v = UNDEFINED
	case '?':
		v = UNDETERMINED
	case 'X', 'x':
		v = UNKNOWN
	default:
		err = ErrParseChar(c)
	}
	return
}

// FromBool returns ONE for true and ZERO for false.
func FromBool(b bool) Tv {
	if b {
		return ONE
	}
	return ZERO
}

// IsResolved returns true for ONE and ZERO.
func (v Tv) IsResolved() bool {
	return v == ONE || v == ZERO
}

// Not inverts a resolved value, other values are kept.
func (v Tv) Not() Tv {
	switch v {
	case ONE:
		return ZERO
	case ZERO:
		return ONE
	}
	return v
}

// And is the conjunction of two values. A ZERO on either side dominates.
func (v Tv) And(o Tv) Tv {
	switch {
	case v == ZERO || o == ZERO:
		return ZERO
	case v == ONE:
		return o
	case o == ONE:
		return v
	}
	return weakest(v, o)
}

// Or is the disjunction of two values. A ONE on either side dominates.
func (v Tv) Or(o Tv) Tv {
	switch {
	case v == ONE || o == ONE:
		return ONE
	case v == ZERO:
		return o
	case o == ZERO:
		return v
	}
	return weakest(v, o)
}

// Xor is the exclusive or of two values.
func (v Tv) Xor(o Tv) Tv {
	if v.IsResolved() && o.IsResolved() {
		return FromBool(v != o)
	}
	if v.IsResolved() {
		return o
	}
	if o.IsResolved() {
		return v
	}
	return weakest(v, o)
}

// weakest orders the unresolved values: UNKNOWN, then UNDEFINED, then UNDETERMINED.
func weakest(a, b Tv) Tv {
	switch {
	case a == UNKNOWN || b == UNKNOWN:
		return UNKNOWN
	case a == UNDEFINED || b == UNDEFINED:
		return UNDEFINED
	}
	return UNDETERMINED
}
