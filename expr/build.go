package expr

import (
	"github.com/holiman/uint256"
)

// maskOf returns a value with the low w bits set.
func maskOf(w int) (m uint256.Int) {
	if w >= MAX_WIDTH {
		m.SetAllOne()
		return
	}
	m.Lsh(uint256.NewInt(1), uint(w))
	m.SubUint64(&m, 1)
	return
}

// signed sign-extends a w-bit value to 256 bits.
func signed(v *uint256.Int, w int) (s uint256.Int) {
	s.Set(v)
	if w >= MAX_WIDTH {
		return
	}
	var bit uint256.Int
	bit.Rsh(v, uint(w-1))
	if bit.Uint64()&1 == 1 {
		m := maskOf(w)
		m.Not(&m)
		s.Or(&s, &m)
	}
	return
}

func (a *Arena) constBV(v *uint256.Int, w int) Handle {
	m := maskOf(w)
	n := node{op: OP_CONST, sort: SortBV(w)}
	n.value.And(v, &m)
	return a.intern(n)
}

func (a *Arena) constU64(v uint64, w int) Handle {
	return a.constBV(uint256.NewInt(v), w)
}

func (a *Arena) constBool(b bool) Handle {
	n := node{op: OP_CONST, sort: SortBool}
	if b {
		n.value.SetOne()
	}
	return a.intern(n)
}

func (a *Arena) constMem(b byte) Handle {
	n := node{op: OP_MEM_CONST, sort: SortMem}
	n.value.SetUint64(uint64(b))
	return a.intern(n)
}

func (a *Arena) variable(name string, sort Sort, undef bool) Handle {
	return a.intern(node{op: OP_VAR, sort: sort, name: name, undef: undef})
}

// constOf returns the value of h if it is a constant.
func (a *Arena) constOf(h Handle) (*uint256.Int, bool) {
	n := a.node(h)
	if n.op != OP_CONST {
		return nil, false
	}
	return &n.value, true
}

func (a *Arena) isTrue(h Handle) bool {
	v, ok := a.constOf(h)
	return ok && !v.IsZero()
}

func (a *Arena) isFalse(h Handle) bool {
	v, ok := a.constOf(h)
	return ok && v.IsZero()
}

func (a *Arena) isZero(h Handle) bool {
	v, ok := a.constOf(h)
	return ok && v.IsZero()
}

func (a *Arena) isOnes(h Handle) bool {
	v, ok := a.constOf(h)
	if !ok {
		return false
	}
	m := maskOf(a.node(h).sort.Width)
	return v.Eq(&m)
}

func (a *Arena) isOne(h Handle) bool {
	v, ok := a.constOf(h)
	return ok && v.IsUint64() && v.Uint64() == 1
}

func (a *Arena) mk(op Op, sort Sort, args ...Handle) Handle {
	return a.intern(node{op: op, sort: sort, args: args})
}

// ordered returns the operands of a commutative operator in canonical order.
func ordered(x, y Handle) (Handle, Handle) {
	if y < x {
		return y, x
	}
	return x, y
}

//// Boolean

func (a *Arena) not(x Handle) Handle {
	n := a.check(OP_NOT, KIND_BOOL, x)
	if n.op == OP_CONST {
		return a.constBool(n.value.IsZero())
	}
	if n.op == OP_NOT {
		return n.args[0]
	}
	return a.mk(OP_NOT, SortBool, x)
}

func (a *Arena) and(x, y Handle) Handle {
	a.check(OP_AND, KIND_BOOL, x)
	a.check(OP_AND, KIND_BOOL, y)
	switch {
	case a.isFalse(x) || a.isFalse(y):
		return a.constBool(false)
	case a.isTrue(x):
		return y
	case a.isTrue(y):
		return x
	case x == y:
		return x
	case a.isNegation(x, y):
		return a.constBool(false)
	}
	x, y = ordered(x, y)
	return a.mk(OP_AND, SortBool, x, y)
}

func (a *Arena) or(x, y Handle) Handle {
	a.check(OP_OR, KIND_BOOL, x)
	a.check(OP_OR, KIND_BOOL, y)
	switch {
	case a.isTrue(x) || a.isTrue(y):
		return a.constBool(true)
	case a.isFalse(x):
		return y
	case a.isFalse(y):
		return x
	case x == y:
		return x
	case a.isNegation(x, y):
		return a.constBool(true)
	}
	x, y = ordered(x, y)
	return a.mk(OP_OR, SortBool, x, y)
}

func (a *Arena) xor(x, y Handle) Handle {
	a.check(OP_XOR, KIND_BOOL, x)
	a.check(OP_XOR, KIND_BOOL, y)
	switch {
	case a.isFalse(x):
		return y
	case a.isFalse(y):
		return x
	case a.isTrue(x):
		return a.not(y)
	case a.isTrue(y):
		return a.not(x)
	case x == y:
		return a.constBool(false)
	case a.isNegation(x, y):
		return a.constBool(true)
	}
	x, y = ordered(x, y)
	return a.mk(OP_XOR, SortBool, x, y)
}

func (a *Arena) isNegation(x, y Handle) bool {
	nx := a.node(x)
	ny := a.node(y)
	return (nx.op == OP_NOT && nx.args[0] == y) || (ny.op == OP_NOT && ny.args[0] == x)
}

func (a *Arena) eq(x, y Handle) Handle {
	nx := a.node(x)
	ny := a.node(y)
	if nx.sort != ny.sort || nx.sort.Kind == KIND_MEM {
		panic(&ErrSort{Op: OP_EQ, Want: nx.sort, Got: ny.sort})
	}
	if x == y {
		return a.constBool(true)
	}
	if nx.op == OP_CONST && ny.op == OP_CONST {
		return a.constBool(nx.value.Eq(&ny.value))
	}
	if nx.sort.Kind == KIND_BOOL {
		switch {
		case a.isTrue(x):
			return y
		case a.isTrue(y):
			return x
		case a.isFalse(x):
			return a.not(y)
		case a.isFalse(y):
			return a.not(x)
		}
	}
	x, y = ordered(x, y)
	return a.mk(OP_EQ, SortBool, x, y)
}

func (a *Arena) compare(op Op, x, y Handle) Handle {
	w := a.sameWidth(op, x, y)
	vx, okx := a.constOf(x)
	vy, oky := a.constOf(y)
	if okx && oky {
		var r bool
		switch op {
		case OP_ULT:
			r = vx.Lt(vy)
		case OP_ULE:
			r = !vx.Gt(vy)
		case OP_SLT:
			sx, sy := signed(vx, w), signed(vy, w)
			r = sx.Slt(&sy)
		case OP_SLE:
			sx, sy := signed(vx, w), signed(vy, w)
			r = !sx.Sgt(&sy)
		}
		return a.constBool(r)
	}
	if x == y {
		return a.constBool(op == OP_ULE || op == OP_SLE)
	}
	if op == OP_ULT && oky && vy.IsZero() {
		return a.constBool(false)
	}
	if op == OP_ULE && okx && vx.IsZero() {
		return a.constBool(true)
	}
	return a.mk(op, SortBool, x, y)
}

func (a *Arena) ite(c, t, e Handle) Handle {
	a.check(OP_ITE, KIND_BOOL, c)
	nt := a.node(t)
	ne := a.node(e)
	if nt.sort != ne.sort {
		panic(&ErrSort{Op: OP_ITE, Want: nt.sort, Got: ne.sort})
	}
	switch {
	case a.isTrue(c):
		return t
	case a.isFalse(c):
		return e
	case t == e:
		return t
	}
	if nt.sort.Kind == KIND_BOOL {
		switch {
		case a.isTrue(t) && a.isFalse(e):
			return c
		case a.isFalse(t) && a.isTrue(e):
			return a.not(c)
		}
	}
	if nc := a.node(c); nc.op == OP_NOT {
		return a.mk(OP_ITE, nt.sort, nc.args[0], e, t)
	}
	return a.mk(OP_ITE, nt.sort, c, t, e)
}

//// Bit-vector

func (a *Arena) bvNot(x Handle) Handle {
	n := a.check(OP_BVNOT, KIND_BV, x)
	if n.op == OP_CONST {
		var v uint256.Int
		v.Not(&n.value)
		return a.constBV(&v, n.sort.Width)
	}
	if n.op == OP_BVNOT {
		return n.args[0]
	}
	return a.mk(OP_BVNOT, n.sort, x)
}

func (a *Arena) bvBinary(op Op, x, y Handle) Handle {
	w := a.sameWidth(op, x, y)
	sort := SortBV(w)
	vx, okx := a.constOf(x)
	vy, oky := a.constOf(y)

	if okx && oky {
		var v uint256.Int
		switch op {
		case OP_BVAND:
			v.And(vx, vy)
		case OP_BVOR:
			v.Or(vx, vy)
		case OP_BVXOR:
			v.Xor(vx, vy)
		case OP_ADD:
			v.Add(vx, vy)
		case OP_SUB:
			v.Sub(vx, vy)
		case OP_MUL:
			v.Mul(vx, vy)
		case OP_UDIV:
			if vy.IsZero() {
				v = maskOf(w)
			} else {
				v.Div(vx, vy)
			}
		case OP_UREM:
			if vy.IsZero() {
				v.Set(vx)
			} else {
				v.Mod(vx, vy)
			}
		case OP_SDIV:
			sx, sy := signed(vx, w), signed(vy, w)
			switch {
			case !vy.IsZero():
				v.SDiv(&sx, &sy)
			case sx.Sign() < 0:
				v.SetOne()
			default:
				v = maskOf(w)
			}
		case OP_SREM:
			sx, sy := signed(vx, w), signed(vy, w)
			if vy.IsZero() {
				v.Set(vx)
			} else {
				v.SMod(&sx, &sy)
			}
		case OP_SHL, OP_LSHR, OP_ASHR:
			v = shiftConst(op, vx, vy, w)
		}
		return a.constBV(&v, w)
	}

	switch op {
	case OP_BVAND:
		switch {
		case a.isZero(x) || a.isZero(y):
			return a.constU64(0, w)
		case a.isOnes(x):
			return y
		case a.isOnes(y):
			return x
		case x == y:
			return x
		}
		x, y = ordered(x, y)
	case OP_BVOR:
		switch {
		case a.isOnes(x) || a.isOnes(y):
			m := maskOf(w)
			return a.constBV(&m, w)
		case a.isZero(x):
			return y
		case a.isZero(y):
			return x
		case x == y:
			return x
		}
		x, y = ordered(x, y)
	case OP_BVXOR:
		switch {
		case a.isZero(x):
			return y
		case a.isZero(y):
			return x
		case x == y:
			return a.constU64(0, w)
		}
		x, y = ordered(x, y)
	case OP_ADD:
		switch {
		case a.isZero(x):
			return y
		case a.isZero(y):
			return x
		}
		if h, ok := a.foldAddConst(x, y, w); ok {
			return h
		}
		x, y = ordered(x, y)
	case OP_SUB:
		switch {
		case a.isZero(y):
			return x
		case x == y:
			return a.constU64(0, w)
		}
		if oky {
			// x - c == x + (-c)
			var neg uint256.Int
			neg.Neg(vy)
			return a.bvBinary(OP_ADD, x, a.constBV(&neg, w))
		}
	case OP_MUL:
		switch {
		case a.isZero(x) || a.isZero(y):
			return a.constU64(0, w)
		case a.isOne(x):
			return y
		case a.isOne(y):
			return x
		}
		x, y = ordered(x, y)
	case OP_UDIV, OP_SDIV:
		if a.isOne(y) {
			return x
		}
	case OP_SHL, OP_LSHR, OP_ASHR:
		switch {
		case a.isZero(y):
			return x
		case a.isZero(x):
			return x
		}
		if oky && op != OP_ASHR && (!vy.IsUint64() || vy.Uint64() >= uint64(w)) {
			return a.constU64(0, w)
		}
	}

	return a.mk(op, sort, x, y)
}

// foldAddConst merges (z + c1) + c2 into z + (c1 + c2).
func (a *Arena) foldAddConst(x, y Handle, w int) (Handle, bool) {
	if _, ok := a.constOf(x); ok {
		x, y = y, x
	}
	vy, ok := a.constOf(y)
	if !ok {
		return 0, false
	}
	nx := a.node(x)
	if nx.op != OP_ADD {
		return 0, false
	}
	for n, arg := range nx.args {
		if vc, ok := a.constOf(arg); ok {
			var sum uint256.Int
			sum.Add(vc, vy)
			other := nx.args[1-n]
			return a.bvBinary(OP_ADD, other, a.constBV(&sum, w)), true
		}
	}
	return 0, false
}

func shiftConst(op Op, x, y *uint256.Int, w int) (v uint256.Int) {
	big := !y.IsUint64() || y.Uint64() >= uint64(w)
	switch op {
	case OP_SHL:
		if !big {
			v.Lsh(x, uint(y.Uint64()))
		}
	case OP_LSHR:
		if !big {
			v.Rsh(x, uint(y.Uint64()))
		}
	case OP_ASHR:
		s := signed(x, w)
		if big {
			if s.Sign() < 0 {
				v.SetAllOne()
			}
		} else {
			v.SRsh(&s, uint(y.Uint64()))
		}
	}
	return
}

func (a *Arena) neg(x Handle) Handle {
	n := a.check(OP_NEG, KIND_BV, x)
	if n.op == OP_CONST {
		var v uint256.Int
		v.Neg(&n.value)
		return a.constBV(&v, n.sort.Width)
	}
	if n.op == OP_NEG {
		return n.args[0]
	}
	return a.mk(OP_NEG, n.sort, x)
}

func (a *Arena) extract(hi, lo int, x Handle) Handle {
	n := a.check(OP_EXTRACT, KIND_BV, x)
	w := n.sort.Width
	if lo < 0 || hi < lo || hi >= w {
		panic(&ErrSort{Op: OP_EXTRACT, Want: SortBV(hi + 1), Got: n.sort})
	}
	if lo == 0 && hi == w-1 {
		return x
	}
	width := hi - lo + 1

	switch n.op {
	case OP_CONST:
		var v uint256.Int
		v.Rsh(&n.value, uint(lo))
		return a.constBV(&v, width)
	case OP_EXTRACT:
		return a.extract(n.lo+hi, n.lo+lo, n.args[0])
	case OP_CONCAT:
		low := n.args[1]
		lw := a.node(low).sort.Width
		switch {
		case hi < lw:
			return a.extract(hi, lo, low)
		case lo >= lw:
			return a.extract(hi-lw, lo-lw, n.args[0])
		default:
			return a.concat(a.extract(hi-lw, 0, n.args[0]), a.extract(lw-1, lo, low))
		}
	case OP_ZEXT, OP_SEXT:
		inner := n.args[0]
		iw := a.node(inner).sort.Width
		switch {
		case hi < iw:
			return a.extract(hi, lo, inner)
		case n.op == OP_ZEXT && lo >= iw:
			return a.constU64(0, width)
		}
	case OP_BVAND, OP_BVOR, OP_BVXOR:
		// Bitwise operators distribute over extraction when it exposes a constant.
		l, r := n.args[0], n.args[1]
		if a.IsConst(l) || a.IsConst(r) {
			return a.bvBinary(n.op, a.extract(hi, lo, l), a.extract(hi, lo, r))
		}
	case OP_BVNOT:
		return a.bvNot(a.extract(hi, lo, n.args[0]))
	case OP_ITE:
		t, e := n.args[1], n.args[2]
		if a.IsConst(t) || a.IsConst(e) {
			return a.ite(n.args[0], a.extract(hi, lo, t), a.extract(hi, lo, e))
		}
	}

	return a.intern(node{op: OP_EXTRACT, sort: SortBV(width), args: []Handle{x}, hi: hi, lo: lo})
}

func (a *Arena) concat(x, y Handle) Handle {
	nx := a.check(OP_CONCAT, KIND_BV, x)
	ny := a.check(OP_CONCAT, KIND_BV, y)
	w := nx.sort.Width + ny.sort.Width
	if nx.op == OP_CONST && ny.op == OP_CONST {
		var v uint256.Int
		v.Lsh(&nx.value, uint(ny.sort.Width))
		v.Or(&v, &ny.value)
		return a.constBV(&v, w)
	}
	if nx.op == OP_EXTRACT && ny.op == OP_EXTRACT && nx.args[0] == ny.args[0] && nx.lo == ny.hi+1 {
		return a.extract(nx.hi, ny.lo, nx.args[0])
	}
	if a.isZero(x) {
		return a.zeroExt(nx.sort.Width, y)
	}
	return a.mk(OP_CONCAT, SortBV(w), x, y)
}

func (a *Arena) zeroExt(bits int, x Handle) Handle {
	n := a.check(OP_ZEXT, KIND_BV, x)
	if bits == 0 {
		return x
	}
	w := n.sort.Width + bits
	if n.op == OP_CONST {
		return a.constBV(&n.value, w)
	}
	if n.op == OP_ZEXT {
		return a.zeroExt(bits+n.hi, n.args[0])
	}
	return a.intern(node{op: OP_ZEXT, sort: SortBV(w), args: []Handle{x}, hi: bits})
}

func (a *Arena) signExt(bits int, x Handle) Handle {
	n := a.check(OP_SEXT, KIND_BV, x)
	if bits == 0 {
		return x
	}
	w := n.sort.Width + bits
	if n.op == OP_CONST {
		s := signed(&n.value, n.sort.Width)
		return a.constBV(&s, w)
	}
	return a.intern(node{op: OP_SEXT, sort: SortBV(w), args: []Handle{x}, hi: bits})
}

//// Memory

// addrOffset splits an address into a base expression and a constant offset.
func (a *Arena) addrOffset(h Handle) (base Handle, off uint64) {
	n := a.node(h)
	if n.op == OP_CONST {
		return 0, n.value.Uint64()
	}
	if n.op == OP_ADD {
		for i, arg := range n.args {
			if v, ok := a.constOf(arg); ok {
				return n.args[1-i], v.Uint64()
			}
		}
	}
	return h, 0
}

// addrCompare decides syntactically whether two addresses are equal.
// known is false when the relation cannot be decided without a solver.
func (a *Arena) addrCompare(x, y Handle) (equal, known bool) {
	if x == y {
		return true, true
	}
	bx, ox := a.addrOffset(x)
	by, oy := a.addrOffset(y)
	if bx != by {
		return false, false
	}
	return ox == oy, true
}

func (a *Arena) selectByte(m, i Handle) Handle {
	a.check(OP_SELECT, KIND_MEM, m)
	ni := a.check(OP_SELECT, KIND_BV, i)
	if ni.sort.Width != 64 {
		panic(&ErrSort{Op: OP_SELECT, Want: SortBV(64), Got: ni.sort})
	}
	for {
		nm := a.node(m)
		switch nm.op {
		case OP_MEM_CONST:
			return a.constBV(&nm.value, 8)
		case OP_STORE:
			equal, known := a.addrCompare(nm.args[1], i)
			if known {
				if equal {
					return nm.args[2]
				}
				m = nm.args[0]
				continue
			}
		}
		break
	}
	return a.mk(OP_SELECT, SortBV(8), m, i)
}

func (a *Arena) store(m, i, v Handle) Handle {
	nm := a.check(OP_STORE, KIND_MEM, m)
	ni := a.check(OP_STORE, KIND_BV, i)
	nv := a.check(OP_STORE, KIND_BV, v)
	if ni.sort.Width != 64 {
		panic(&ErrSort{Op: OP_STORE, Want: SortBV(64), Got: ni.sort})
	}
	if nv.sort.Width != 8 {
		panic(&ErrSort{Op: OP_STORE, Want: SortBV(8), Got: nv.sort})
	}
	if nm.op == OP_STORE && nm.args[1] == i {
		m = nm.args[0]
	}
	return a.mk(OP_STORE, SortMem, m, i, v)
}
