package expr

// Bool is a boolean expression.
type Bool struct {
	a *Arena
	h Handle
}

// BoolConst returns the constant true or false.
func (a *Arena) BoolConst(b bool) Bool {
	return Bool{a, a.constBool(b)}
}

// True returns the constant true.
func (a *Arena) True() Bool { return a.BoolConst(true) }

// False returns the constant false.
func (a *Arena) False() Bool { return a.BoolConst(false) }

// BoolVar returns the boolean variable with the given name.
func (a *Arena) BoolVar(name string) Bool {
	return Bool{a, a.variable(name, SortBool, false)}
}

// BoolUndef returns a boolean variable standing for an undefined flag.
func (a *Arena) BoolUndef(name string) Bool {
	return Bool{a, a.variable(name, SortBool, true)}
}

// AsBool wraps a boolean handle of this arena.
func (a *Arena) AsBool(h Handle) Bool {
	a.check(OP_INVALID, KIND_BOOL, h)
	return Bool{a, h}
}

func (x Bool) Arena() *Arena  { return x.a }
func (x Bool) Handle() Handle { return x.h }
func (x Bool) Valid() bool    { return x.a != nil && x.h != 0 }

// Const returns the value if the expression is constant.
func (x Bool) Const() (value bool, ok bool) {
	v, ok := x.a.Value(x.h)
	if !ok {
		return
	}
	return !v.IsZero(), true
}

// IsTrue is true only for the constant true.
func (x Bool) IsTrue() bool {
	v, ok := x.Const()
	return ok && v
}

// IsFalse is true only for the constant false.
func (x Bool) IsFalse() bool {
	v, ok := x.Const()
	return ok && !v
}

func (x Bool) String() string {
	if x.a == nil {
		return "<nil>"
	}
	return x.a.String(x.h)
}

func (x Bool) same(y interface{ Arena() *Arena }) {
	if x.a != y.Arena() {
		panic(&ErrArena{Want: x.a.ID.String(), Got: y.Arena().ID.String()})
	}
}

func (x Bool) Not() Bool         { return Bool{x.a, x.a.not(x.h)} }
func (x Bool) And(y Bool) Bool   { x.same(y); return Bool{x.a, x.a.and(x.h, y.h)} }
func (x Bool) Or(y Bool) Bool    { x.same(y); return Bool{x.a, x.a.or(x.h, y.h)} }
func (x Bool) Xor(y Bool) Bool   { x.same(y); return Bool{x.a, x.a.xor(x.h, y.h)} }
func (x Bool) Eq(y Bool) Bool    { x.same(y); return Bool{x.a, x.a.eq(x.h, y.h)} }
func (x Bool) Implies(y Bool) Bool { return x.Not().Or(y) }

// Ite selects between two booleans.
func (x Bool) Ite(t, e Bool) Bool {
	x.same(t)
	x.same(e)
	return Bool{x.a, x.a.ite(x.h, t.h, e.h)}
}

// IteBV selects between two bit-vectors.
func (x Bool) IteBV(t, e BV) BV {
	x.same(t)
	x.same(e)
	return BV{x.a, x.a.ite(x.h, t.h, e.h)}
}

// IteMem selects between two memories.
func (x Bool) IteMem(t, e Mem) Mem {
	x.same(t)
	x.same(e)
	return Mem{x.a, x.a.ite(x.h, t.h, e.h)}
}

// BV returns the boolean as a one bit vector.
func (x Bool) BV() BV {
	return x.IteBV(x.a.BVConst(1, 1), x.a.BVConst(0, 1))
}

// All returns the conjunction of the terms, or true when empty.
func (a *Arena) All(terms ...Bool) Bool {
	r := a.True()
	for _, t := range terms {
		r = r.And(t)
	}
	return r
}

// Any returns the disjunction of the terms, or false when empty.
func (a *Arena) Any(terms ...Bool) Bool {
	r := a.False()
	for _, t := range terms {
		r = r.Or(t)
	}
	return r
}
