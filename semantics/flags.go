package semantics

import (
	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/x86"
)

// CarryAdd is the carry out of x + y + cin.
func CarryAdd(x, y expr.BV, cin expr.Bool) expr.Bool {
	w := x.Width()
	sum := x.ZeroExt(1).Add(y.ZeroExt(1)).Add(cin.BV().ZeroExt(w))
	return sum.IsSet(w)
}

// BorrowSub is the borrow out of x - y - bin.
func BorrowSub(x, y expr.BV, bin expr.Bool) expr.Bool {
	w := x.Width()
	diff := x.ZeroExt(1).Sub(y.ZeroExt(1)).Sub(bin.BV().ZeroExt(w))
	return diff.IsSet(w)
}

// OverflowAdd is the signed overflow of r = x + y.
func OverflowAdd(x, y, r expr.BV) expr.Bool {
	w := x.Width()
	return x.IsSet(w - 1).Eq(y.IsSet(w - 1)).And(r.IsSet(w - 1).Xor(x.IsSet(w - 1)))
}

// OverflowSub is the signed overflow of r = x - y.
func OverflowSub(x, y, r expr.BV) expr.Bool {
	w := x.Width()
	return x.IsSet(w - 1).Xor(y.IsSet(w - 1)).And(r.IsSet(w - 1).Xor(x.IsSet(w - 1)))
}

// AuxCarry is the carry or borrow out of bit 3.
func AuxCarry(x, y, r expr.BV) expr.Bool {
	return x.Xor(y).Xor(r).IsSet(4)
}

// Parity is set when the low byte of r has an even number of ones.
func Parity(r expr.BV) expr.Bool {
	bits := r.Bit(0)
	for n := 1; n < 8; n++ {
		bits = bits.Xor(r.Bit(n))
	}
	return bits.IsSet(0).Not()
}

// Zero is set when r is zero.
func Zero(r expr.BV) expr.Bool {
	return r.IsZero()
}

// Sign is the top bit of r.
func Sign(r expr.BV) expr.Bool {
	return r.IsSet(r.Width() - 1)
}

// setResult sets SF, ZF and PF from a result.
func (x *exec) setResult(r expr.BV) {
	x.setFlag(x86.FLAG_SF, Sign(r))
	x.setFlag(x86.FLAG_ZF, Zero(r))
	x.setFlag(x86.FLAG_PF, Parity(r))
}

// setAdd sets the status flags of r = dst + src + cin.
func (x *exec) setAdd(dst, src, r expr.BV, cin expr.Bool) {
	x.setFlag(x86.FLAG_CF, CarryAdd(dst, src, cin))
	x.setFlag(x86.FLAG_OF, OverflowAdd(dst, src, r))
	x.setFlag(x86.FLAG_AF, AuxCarry(dst, src, r))
	x.setResult(r)
}

// setSub sets the status flags of r = dst - src - bin.
func (x *exec) setSub(dst, src, r expr.BV, bin expr.Bool) {
	x.setFlag(x86.FLAG_CF, BorrowSub(dst, src, bin))
	x.setFlag(x86.FLAG_OF, OverflowSub(dst, src, r))
	x.setFlag(x86.FLAG_AF, AuxCarry(dst, src, r))
	x.setResult(r)
}

// setLogic sets the status flags of a bitwise result.
func (x *exec) setLogic(r expr.BV) {
	f := x.a.False()
	x.setFlag(x86.FLAG_CF, f)
	x.setFlag(x86.FLAG_OF, f)
	x.undef(x86.FlagsOf(x86.FLAG_AF))
	x.setResult(r)
}
