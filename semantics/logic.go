package semantics

import (
	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/x86"
)

// bitwise implements AND, OR, XOR and TEST.
func bitwise(op func(x, y expr.BV) expr.BV, store bool) func(x *exec) error {
	return func(x *exec) (err error) {
		dst, src, err := x.operands()
		if err != nil {
			return
		}
		r := op(dst, src)
		x.setLogic(r)
		if store {
			err = x.set(0, r)
		}
		return
	}
}

// shiftCount returns the masked count of a shift or rotate, of width w.
// The count is 1 when absent, otherwise an immediate or CL.
func (x *exec) shiftCount(n int, w int) (count expr.BV, err error) {
	switch {
	case n >= x.count():
		count = x.constant(1, 8)
	case x.op(n).Kind == asm.KIND_IMM:
		count = x.constant(uint64(x.op(n).Imm), 8)
	case x.op(n).Kind == asm.KIND_REG && x.op(n).Reg == x86.REG_CL:
		count = x.reg(x86.REG_CL, 8)
	default:
		err = x.err(n, ErrOperandKind)
		return
	}
	mask := uint64(0x1f)
	if w == 64 {
		mask = 0x3f
	}
	count = count.And(x.constant(mask, 8)).Resize(w)
	return
}

// shiftFlags are the flags of a shift or rotate. Missing entries are
// undefined.
type shiftFlags map[x86.Flag]expr.Bool

// setShiftFlags writes the flags when the count is not zero. OF is only
// defined for a count of one.
func (x *exec) setShiftFlags(count expr.BV, flags x86.Flags, values shiftFlags) {
	zero := count.IsZero()
	one := count.Eq(x.constant(1, count.Width()))
	for f := range flags.All() {
		value, ok := values[f]
		if !ok {
			value = x.tools.UndefBool()
		}
		if f == x86.FLAG_OF {
			value = one.Ite(value, x.tools.UndefBool())
		}
		x.setFlag(f, zero.Ite(x.flag(f), value))
	}
}

// shift implements SHL, SHR and SAR.
func shift(op x86.Mnemonic) func(x *exec) error {
	return func(x *exec) (err error) {
		w, err := x.widthOf(0)
		if err != nil {
			return
		}
		v, err := x.get(0, w)
		if err != nil {
			return
		}
		count, err := x.shiftCount(1, w)
		if err != nil {
			return
		}

		wide := count.ZeroExt(1)
		var r expr.BV
		var cf, of expr.Bool
		switch op {
		case x86.MN_SHL:
			r = v.Shl(count)
			cf = v.ZeroExt(1).Shl(wide).IsSet(w)
			of = Sign(r).Xor(cf)
		case x86.MN_SHR:
			r = v.LShr(count)
			cf = v.Concat(x.constant(0, 1)).LShr(wide).IsSet(0)
			of = Sign(v)
		case x86.MN_SAR:
			r = v.AShr(count)
			cf = v.Concat(x.constant(0, 1)).AShr(wide).IsSet(0)
			of = x.a.False()
		}

		x.setShiftFlags(count, x86.FLAGS_STATUS, shiftFlags{
			x86.FLAG_CF: cf,
			x86.FLAG_OF: of,
			x86.FLAG_SF: Sign(r),
			x86.FLAG_ZF: Zero(r),
			x86.FLAG_PF: Parity(r),
		})
		return x.set(0, count.IsZero().IteBV(v, r))
	}
}

// rotate implements ROL, ROR, RCL and RCR, which change only CF and OF.
func rotate(op x86.Mnemonic) func(x *exec) error {
	return func(x *exec) (err error) {
		w, err := x.widthOf(0)
		if err != nil {
			return
		}
		v, err := x.get(0, w)
		if err != nil {
			return
		}
		count, err := x.shiftCount(1, w)
		if err != nil {
			return
		}

		var r expr.BV
		var cf, of expr.Bool
		switch op {
		case x86.MN_ROL:
			r = v.RotateLeft(count.URem(x.constant(uint64(w), w)))
			cf = r.IsSet(0)
			of = Sign(r).Xor(cf)
		case x86.MN_ROR:
			r = v.RotateRight(count.URem(x.constant(uint64(w), w)))
			cf = Sign(r)
			of = Sign(r).Xor(r.IsSet(w - 2))
		case x86.MN_RCL, x86.MN_RCR:
			wide := x.flag(x86.FLAG_CF).BV().Concat(v)
			n := count.ZeroExt(1).URem(x.constant(uint64(w+1), w+1))
			if op == x86.MN_RCL {
				wide = wide.RotateLeft(n)
				of = wide.IsSet(w - 1).Xor(wide.IsSet(w))
			} else {
				of = Sign(v).Xor(x.flag(x86.FLAG_CF))
				wide = wide.RotateRight(n)
			}
			r = wide.Extract(w-1, 0)
			cf = wide.IsSet(w)
		}

		x.setShiftFlags(count, x86.FlagsOf(x86.FLAG_CF, x86.FLAG_OF), shiftFlags{
			x86.FLAG_CF: cf,
			x86.FLAG_OF: of,
		})
		return x.set(0, r)
	}
}

// doubleShift implements SHLD and SHRD.
func doubleShift(left bool) func(x *exec) error {
	return func(x *exec) (err error) {
		w, err := x.width(0, 1)
		if err != nil {
			return
		}
		if w == 8 {
			return x.err(0, ErrOperandWidth)
		}
		dst, err := x.get(0, w)
		if err != nil {
			return
		}
		src, err := x.get(1, w)
		if err != nil {
			return
		}
		count, err := x.shiftCount(2, w)
		if err != nil {
			return
		}

		wide := count.ZeroExt(w)
		narrow := count.ZeroExt(1)
		var r expr.BV
		var cf, of expr.Bool
		if left {
			r = dst.Concat(src).Shl(wide).Extract(2*w-1, w)
			cf = dst.ZeroExt(1).Shl(narrow).IsSet(w)
		} else {
			r = src.Concat(dst).LShr(wide).Extract(w-1, 0)
			cf = dst.Concat(x.constant(0, 1)).LShr(narrow).IsSet(0)
		}
		of = Sign(r).Xor(Sign(dst))

		x.setShiftFlags(count, x86.FLAGS_STATUS, shiftFlags{
			x86.FLAG_CF: cf,
			x86.FLAG_OF: of,
			x86.FLAG_SF: Sign(r),
			x86.FLAG_ZF: Zero(r),
			x86.FLAG_PF: Parity(r),
		})
		return x.set(0, count.IsZero().IteBV(dst, r))
	}
}

// bitTest implements BT, BTS, BTR and BTC.
func bitTest(op x86.Mnemonic) func(x *exec) error {
	return func(x *exec) (err error) {
		if err = x.kind(1, asm.KIND_REG, asm.KIND_IMM); err != nil {
			return
		}
		w, err := x.width(0, 1)
		if err != nil {
			return
		}
		if w == 8 {
			return x.err(0, ErrOperandWidth)
		}
		offset, err := x.get(1, w)
		if err != nil {
			return
		}

		var v, index expr.BV
		var store func(v expr.BV) error
		if x.op(0).Kind == asm.KIND_MEM && x.op(1).Kind == asm.KIND_REG {
			// A register offset addresses any byte relative to the operand.
			addr := x.memAddr(0).Add(offset.SignExt(64 - w).AShr(x.constant(3, 64)))
			v = x.u.Read(addr, 1)
			index = offset.Extract(2, 0).ZeroExt(5)
			store = func(v expr.BV) error {
				x.u.Write(addr, v)
				return nil
			}
		} else {
			if v, err = x.get(0, w); err != nil {
				return
			}
			index = offset.And(x.constant(uint64(w-1), w))
			store = func(v expr.BV) error {
				return x.set(0, v)
			}
		}

		mask := x.constant(1, v.Width()).Shl(index)
		x.setFlag(x86.FLAG_CF, v.LShr(index).IsSet(0))
		x.undef(x86.FlagsOf(x86.FLAG_OF, x86.FLAG_SF, x86.FLAG_AF, x86.FLAG_PF))

		switch op {
		case x86.MN_BTS:
			err = store(v.Or(mask))
		case x86.MN_BTR:
			err = store(v.And(mask.Not()))
		case x86.MN_BTC:
			err = store(v.Xor(mask))
		}
		return
	}
}

// bitScan implements BSF and BSR. A zero source leaves the destination
// unknown.
func bitScan(reverse bool) func(x *exec) error {
	return func(x *exec) (err error) {
		if err = x.kind(0, asm.KIND_REG); err != nil {
			return
		}
		w := x.op(0).Reg.Width()
		if w == 8 {
			return x.err(0, ErrOperandWidth)
		}
		src, err := x.get(1, w)
		if err != nil {
			return
		}
		r := x.tools.Unknown(w)
		for n := range w {
			bit := w - 1 - n
			if reverse {
				bit = n
			}
			r = src.IsSet(bit).IteBV(x.constant(uint64(bit), w), r)
		}
		x.setFlag(x86.FLAG_ZF, Zero(src))
		x.undef(x86.FlagsOf(x86.FLAG_CF, x86.FLAG_OF, x86.FLAG_SF, x86.FLAG_AF, x86.FLAG_PF))
		return x.set(0, r)
	}
}

func doPopcnt(x *exec) (err error) {
	if err = x.kind(0, asm.KIND_REG); err != nil {
		return
	}
	w := x.op(0).Reg.Width()
	src, err := x.get(1, w)
	if err != nil {
		return
	}
	r := x.constant(0, w)
	for n := range w {
		r = r.Add(src.Bit(n).ZeroExt(w - 1))
	}
	f := x.a.False()
	for _, flag := range []x86.Flag{x86.FLAG_CF, x86.FLAG_OF, x86.FLAG_SF, x86.FLAG_AF, x86.FLAG_PF} {
		x.setFlag(flag, f)
	}
	x.setFlag(x86.FLAG_ZF, Zero(src))
	return x.set(0, r)
}

// zeroCount implements LZCNT and TZCNT.
func zeroCount(leading bool) func(x *exec) error {
	return func(x *exec) (err error) {
		if err = x.kind(0, asm.KIND_REG); err != nil {
			return
		}
		w := x.op(0).Reg.Width()
		if w == 8 {
			return x.err(0, ErrOperandWidth)
		}
		src, err := x.get(1, w)
		if err != nil {
			return
		}
		r := x.constant(uint64(w), w)
		for n := range w {
			bit, count := n, w-1-n
			if !leading {
				bit, count = w-1-n, w-1-n
			}
			r = src.IsSet(bit).IteBV(x.constant(uint64(count), w), r)
		}
		x.setFlag(x86.FLAG_CF, Zero(src))
		x.setFlag(x86.FLAG_ZF, Zero(r))
		x.undef(x86.FlagsOf(x86.FLAG_OF, x86.FLAG_SF, x86.FLAG_AF, x86.FLAG_PF))
		return x.set(0, r)
	}
}

func init() {
	binary := []Role{ROLE_READ_WRITE, ROLE_READ}
	shiftRoles := []Role{ROLE_READ_WRITE, ROLE_READ, ROLE_READ}

	units := map[x86.Mnemonic]*unit{
		x86.MN_AND: {min: 2, max: 2, roles: binary, flagsWritten: x86.FLAGS_STATUS,
			apply: bitwise(expr.BV.And, true)},
		x86.MN_OR: {min: 2, max: 2, roles: binary, flagsWritten: x86.FLAGS_STATUS,
			apply: bitwise(expr.BV.Or, true)},
		x86.MN_XOR: {min: 2, max: 2, roles: binary, flagsWritten: x86.FLAGS_STATUS,
			apply: bitwise(expr.BV.Xor, true)},
		x86.MN_TEST: {min: 2, max: 2, roles: []Role{ROLE_READ, ROLE_READ}, flagsWritten: x86.FLAGS_STATUS,
			apply: bitwise(expr.BV.And, false)},
		x86.MN_SHLD: {min: 3, max: 3, roles: shiftRoles, apply: doubleShift(true),
			flagsRead: x86.FLAGS_STATUS, flagsWritten: x86.FLAGS_STATUS},
		x86.MN_SHRD: {min: 3, max: 3, roles: shiftRoles, apply: doubleShift(false),
			flagsRead: x86.FLAGS_STATUS, flagsWritten: x86.FLAGS_STATUS},
		x86.MN_BT: {min: 2, max: 2, roles: []Role{ROLE_READ, ROLE_READ}, apply: bitTest(x86.MN_BT),
			flagsWritten: x86.FLAGS_STATUS &^ x86.FlagsOf(x86.FLAG_ZF)},
		x86.MN_BSF: {min: 2, max: 2, roles: rw, apply: bitScan(false),
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_BSR: {min: 2, max: 2, roles: rw, apply: bitScan(true),
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_POPCNT: {min: 2, max: 2, roles: rw, apply: doPopcnt,
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_LZCNT: {min: 2, max: 2, roles: rw, apply: zeroCount(true),
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_TZCNT: {min: 2, max: 2, roles: rw, apply: zeroCount(false),
			flagsWritten: x86.FLAGS_STATUS},
	}

	for _, mn := range []x86.Mnemonic{x86.MN_BTS, x86.MN_BTR, x86.MN_BTC} {
		units[mn] = &unit{min: 2, max: 2, roles: binary, apply: bitTest(mn),
			flagsWritten: x86.FLAGS_STATUS &^ x86.FlagsOf(x86.FLAG_ZF)}
	}
	for _, mn := range []x86.Mnemonic{x86.MN_SHL, x86.MN_SAL, x86.MN_SHR, x86.MN_SAR} {
		op := mn
		if op == x86.MN_SAL {
			op = x86.MN_SHL
		}
		units[mn] = &unit{min: 1, max: 2, roles: shiftRoles, apply: shift(op),
			flagsRead: x86.FLAGS_STATUS, flagsWritten: x86.FLAGS_STATUS}
	}
	for _, mn := range []x86.Mnemonic{x86.MN_ROL, x86.MN_ROR, x86.MN_RCL, x86.MN_RCR} {
		flags := x86.FlagsOf(x86.FLAG_CF, x86.FLAG_OF)
		units[mn] = &unit{min: 1, max: 2, roles: shiftRoles, apply: rotate(mn),
			flagsRead: flags, flagsWritten: flags}
	}

	register(units)
}
