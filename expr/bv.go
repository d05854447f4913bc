package expr

import (
	"math/big"

	"github.com/holiman/uint256"
)

// BV is a bit-vector expression.
type BV struct {
	a *Arena
	h Handle
}

// BVConst returns a bit-vector constant of the given width.
func (a *Arena) BVConst(value uint64, width int) BV {
	return BV{a, a.constU64(value, width)}
}

// BVConstInt returns a bit-vector constant from a wide value.
func (a *Arena) BVConstInt(value *uint256.Int, width int) BV {
	return BV{a, a.constBV(value, width)}
}

// BVConstBig returns a bit-vector constant from a big integer. Negative
// values are taken in two's complement.
func (a *Arena) BVConstBig(value *big.Int, width int) BV {
	var v uint256.Int
	mod := new(big.Int).Lsh(big.NewInt(1), uint(MAX_WIDTH))
	b := new(big.Int).Mod(value, mod)
	v.SetFromBig(b)
	return BV{a, a.constBV(&v, width)}
}

// BVVar returns the bit-vector variable with the given name.
func (a *Arena) BVVar(name string, width int) BV {
	return BV{a, a.variable(name, SortBV(width), false)}
}

// BVUndef returns a variable standing for an architecturally undefined value.
func (a *Arena) BVUndef(name string, width int) BV {
	return BV{a, a.variable(name, SortBV(width), true)}
}

// AsBV wraps a bit-vector handle of this arena.
func (a *Arena) AsBV(h Handle) BV {
	a.check(OP_INVALID, KIND_BV, h)
	return BV{a, h}
}

// Arena returns the owning arena.
func (x BV) Arena() *Arena { return x.a }

// Handle returns the arena handle.
func (x BV) Handle() Handle { return x.h }

// Valid returns false for the zero BV.
func (x BV) Valid() bool { return x.a != nil && x.h != 0 }

// Width returns the bit width.
func (x BV) Width() int { return x.a.node(x.h).sort.Width }

// Const returns the value if the expression is constant.
func (x BV) Const() (value uint256.Int, ok bool) {
	return x.a.Value(x.h)
}

// Uint64 returns the low 64 bits if the expression is constant.
func (x BV) Uint64() (value uint64, ok bool) {
	v, ok := x.a.Value(x.h)
	if !ok {
		return
	}
	return v.Uint64(), true
}

func (x BV) String() string {
	if x.a == nil {
		return "<nil>"
	}
	return x.a.String(x.h)
}

func (x BV) same(op Op, y BV) {
	if x.a != y.a {
		panic(&ErrArena{Want: x.a.ID.String(), Got: y.a.ID.String()})
	}
}

func (x BV) binary(op Op, y BV) BV {
	x.same(op, y)
	return BV{x.a, x.a.bvBinary(op, x.h, y.h)}
}

func (x BV) Not() BV        { return BV{x.a, x.a.bvNot(x.h)} }
func (x BV) Neg() BV        { return BV{x.a, x.a.neg(x.h)} }
func (x BV) And(y BV) BV    { return x.binary(OP_BVAND, y) }
func (x BV) Or(y BV) BV     { return x.binary(OP_BVOR, y) }
func (x BV) Xor(y BV) BV    { return x.binary(OP_BVXOR, y) }
func (x BV) Add(y BV) BV    { return x.binary(OP_ADD, y) }
func (x BV) Sub(y BV) BV    { return x.binary(OP_SUB, y) }
func (x BV) Mul(y BV) BV    { return x.binary(OP_MUL, y) }
func (x BV) UDiv(y BV) BV   { return x.binary(OP_UDIV, y) }
func (x BV) URem(y BV) BV   { return x.binary(OP_UREM, y) }
func (x BV) SDiv(y BV) BV   { return x.binary(OP_SDIV, y) }
func (x BV) SRem(y BV) BV   { return x.binary(OP_SREM, y) }
func (x BV) Shl(y BV) BV    { return x.binary(OP_SHL, y) }
func (x BV) LShr(y BV) BV   { return x.binary(OP_LSHR, y) }
func (x BV) AShr(y BV) BV   { return x.binary(OP_ASHR, y) }
func (x BV) Concat(y BV) BV { x.same(OP_CONCAT, y); return BV{x.a, x.a.concat(x.h, y.h)} }

// AddConst adds a small constant.
func (x BV) AddConst(v uint64) BV {
	return x.Add(x.a.BVConst(v, x.Width()))
}

// Extract returns bits hi down to lo.
func (x BV) Extract(hi, lo int) BV { return BV{x.a, x.a.extract(hi, lo, x.h)} }

// Bit returns bit n as a one bit vector.
func (x BV) Bit(n int) BV { return x.Extract(n, n) }

// IsSet returns bit n as a boolean.
func (x BV) IsSet(n int) Bool { return x.Bit(n).Eq(x.a.BVConst(1, 1)) }

// Low returns the low width bits.
func (x BV) Low(width int) BV { return x.Extract(width-1, 0) }

// ZeroExt extends by bits zero bits.
func (x BV) ZeroExt(bits int) BV { return BV{x.a, x.a.zeroExt(bits, x.h)} }

// SignExt extends by bits copies of the sign bit.
func (x BV) SignExt(bits int) BV { return BV{x.a, x.a.signExt(bits, x.h)} }

// Resize zero extends or truncates to width.
func (x BV) Resize(width int) BV {
	w := x.Width()
	switch {
	case width > w:
		return x.ZeroExt(width - w)
	case width < w:
		return x.Low(width)
	}
	return x
}

func (x BV) compare(op Op, y BV) Bool {
	x.same(op, y)
	return Bool{x.a, x.a.compare(op, x.h, y.h)}
}

func (x BV) Eq(y BV) Bool  { x.same(OP_EQ, y); return Bool{x.a, x.a.eq(x.h, y.h)} }
func (x BV) NE(y BV) Bool  { return x.Eq(y).Not() }
func (x BV) ULT(y BV) Bool { return x.compare(OP_ULT, y) }
func (x BV) ULE(y BV) Bool { return x.compare(OP_ULE, y) }
func (x BV) UGT(y BV) Bool { return y.compare(OP_ULT, x) }
func (x BV) UGE(y BV) Bool { return y.compare(OP_ULE, x) }
func (x BV) SLT(y BV) Bool { return x.compare(OP_SLT, y) }
func (x BV) SLE(y BV) Bool { return x.compare(OP_SLE, y) }
func (x BV) SGT(y BV) Bool { return y.compare(OP_SLT, x) }
func (x BV) SGE(y BV) Bool { return y.compare(OP_SLE, x) }

// IsZero is true when every bit is clear.
func (x BV) IsZero() Bool { return x.Eq(x.a.BVConst(0, x.Width())) }

// RotateLeft rotates by n bits. n is taken modulo the width by the caller.
func (x BV) RotateLeft(n BV) BV {
	w := x.a.BVConst(uint64(x.Width()), x.Width())
	return x.Shl(n).Or(x.LShr(w.Sub(n)))
}

// RotateRight rotates by n bits. n is taken modulo the width by the caller.
func (x BV) RotateRight(n BV) BV {
	w := x.a.BVConst(uint64(x.Width()), x.Width())
	return x.LShr(n).Or(x.Shl(w.Sub(n)))
}
