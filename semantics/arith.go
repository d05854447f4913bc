package semantics

import (
	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/x86"
)

// operands reads the destination and source of a two operand instruction.
func (x *exec) operands() (dst, src expr.BV, err error) {
	w, err := x.width(0, 1)
	if err != nil {
		return
	}
	if dst, err = x.get(0, w); err != nil {
		return
	}
	src, err = x.get(1, w)
	return
}

// carryIn returns flag f as a value of width w.
func (x *exec) carryIn(f x86.Flag, w int) expr.BV {
	return x.flag(f).BV().ZeroExt(w - 1)
}

// addSub implements ADD, ADC, SUB, SBB and CMP.
func addSub(sub bool, carry bool, store bool) func(x *exec) error {
	return func(x *exec) (err error) {
		dst, src, err := x.operands()
		if err != nil {
			return
		}
		cin := x.a.False()
		if carry {
			cin = x.flag(x86.FLAG_CF)
		}
		var r expr.BV
		if sub {
			r = dst.Sub(src).Sub(cin.BV().ZeroExt(dst.Width() - 1))
			x.setSub(dst, src, r, cin)
		} else {
			r = dst.Add(src).Add(cin.BV().ZeroExt(dst.Width() - 1))
			x.setAdd(dst, src, r, cin)
		}
		if store {
			err = x.set(0, r)
		}
		return
	}
}

// incDec implements INC and DEC, which keep CF.
func incDec(sub bool) func(x *exec) error {
	return func(x *exec) (err error) {
		w, err := x.widthOf(0)
		if err != nil {
			return
		}
		dst, err := x.get(0, w)
		if err != nil {
			return
		}
		one := x.constant(1, w)
		cf := x.flag(x86.FLAG_CF)
		if sub {
			r := dst.Sub(one)
			x.setSub(dst, one, r, x.a.False())
			err = x.set(0, r)
		} else {
			r := dst.Add(one)
			x.setAdd(dst, one, r, x.a.False())
			err = x.set(0, r)
		}
		x.setFlag(x86.FLAG_CF, cf)
		return
	}
}

func doNeg(x *exec) (err error) {
	w, err := x.widthOf(0)
	if err != nil {
		return
	}
	v, err := x.get(0, w)
	if err != nil {
		return
	}
	zero := x.constant(0, w)
	r := zero.Sub(v)
	x.setSub(zero, v, r, x.a.False())
	return x.set(0, r)
}

func doNot(x *exec) (err error) {
	w, err := x.widthOf(0)
	if err != nil {
		return
	}
	v, err := x.get(0, w)
	if err != nil {
		return
	}
	return x.set(0, v.Not())
}

// widen extends v to twice its width.
func widen(v expr.BV, signed bool) expr.BV {
	if signed {
		return v.SignExt(v.Width())
	}
	return v.ZeroExt(v.Width())
}

// setMulFlags sets CF and OF when the product p does not fit the low half.
func (x *exec) setMulFlags(p expr.BV, signed bool) {
	w := p.Width() / 2
	low := p.Extract(w-1, 0)
	overflow := p.NE(widen(low, signed))
	x.setFlag(x86.FLAG_CF, overflow)
	x.setFlag(x86.FLAG_OF, overflow)
	x.undef(x86.FlagsOf(x86.FLAG_SF, x86.FLAG_ZF, x86.FLAG_AF, x86.FLAG_PF))
}

// mulAcc implements the one operand forms of MUL and IMUL.
func (x *exec) mulAcc(signed bool) (err error) {
	w, err := x.widthOf(0)
	if err != nil {
		return
	}
	src, err := x.get(0, w)
	if err != nil {
		return
	}
	p := widen(x.reg(x86.REG_RAX, w), signed).Mul(widen(src, signed))
	if w == 8 {
		x.setReg(x86.REG_RAX, p)
	} else {
		x.setReg(x86.REG_RAX, p.Extract(w-1, 0))
		x.setReg(x86.REG_RDX, p.Extract(2*w-1, w))
	}
	x.setMulFlags(p, signed)
	return
}

func doMul(x *exec) error {
	return x.mulAcc(false)
}

func doImul(x *exec) (err error) {
	if x.count() == 1 {
		return x.mulAcc(true)
	}
	if err = x.kind(0, asm.KIND_REG); err != nil {
		return
	}
	w := x.op(0).Reg.Width()
	if w == 8 {
		return x.err(0, ErrOperandWidth)
	}
	a, err := x.get(x.count()-2, w)
	if err != nil {
		return
	}
	b, err := x.get(x.count()-1, w)
	if err != nil {
		return
	}
	p := widen(a, true).Mul(widen(b, true))
	x.setMulFlags(p, true)
	return x.set(0, p.Extract(w-1, 0))
}

// divide implements DIV and IDIV. Division faults are not raised; the
// quotient and remainder are truncated.
func divide(signed bool) func(x *exec) error {
	return func(x *exec) (err error) {
		w, err := x.widthOf(0)
		if err != nil {
			return
		}
		src, err := x.get(0, w)
		if err != nil {
			return
		}

		var dividend expr.BV
		if w == 8 {
			dividend = x.reg(x86.REG_RAX, 16)
		} else {
			dividend = x.reg(x86.REG_RDX, w).Concat(x.reg(x86.REG_RAX, w))
		}
		divisor := widen(src, signed)

		var q, r expr.BV
		if signed {
			q, r = dividend.SDiv(divisor), dividend.SRem(divisor)
		} else {
			q, r = dividend.UDiv(divisor), dividend.URem(divisor)
		}
		q, r = q.Extract(w-1, 0), r.Extract(w-1, 0)

		if w == 8 {
			x.setReg(x86.REG_RAX, r.Concat(q))
		} else {
			x.setReg(x86.REG_RAX, q)
			x.setReg(x86.REG_RDX, r)
		}
		x.undef(x86.FLAGS_STATUS)
		return
	}
}

// addCarry implements ADCX and ADOX, which carry through a single flag.
func addCarry(carry x86.Flag) func(x *exec) error {
	return func(x *exec) (err error) {
		if err = x.kind(0, asm.KIND_REG); err != nil {
			return
		}
		if w := x.op(0).Reg.Width(); w != 32 && w != 64 {
			return x.err(0, ErrOperandWidth)
		}
		dst, src, err := x.operands()
		if err != nil {
			return
		}
		cin := x.flag(carry)
		r := dst.Add(src).Add(x.carryIn(carry, dst.Width()))
		x.setFlag(carry, CarryAdd(dst, src, cin))
		return x.set(0, r)
	}
}

// decimalAdjust implements DAA and DAS.
func decimalAdjust(sub bool) func(x *exec) error {
	return func(x *exec) error {
		al := x.reg(x86.REG_AL, 8)
		cf := x.flag(x86.FLAG_CF)
		six, sixty := x.constant(6, 8), x.constant(0x60, 8)

		low := al.And(x.constant(0x0f, 8)).UGT(x.constant(9, 8))
		adjustLow := low.Or(x.flag(x86.FLAG_AF))
		adjustHigh := al.UGT(x.constant(0x99, 8)).Or(cf)

		var al1, al2 expr.BV
		var cfLow expr.Bool
		if sub {
			al1 = al.Sub(six)
			cfLow = BorrowSub(al, six, x.a.False())
		} else {
			al1 = al.Add(six)
			cfLow = CarryAdd(al, six, x.a.False())
		}
		al1 = adjustLow.IteBV(al1, al)
		if sub {
			al2 = al1.Sub(sixty)
			// No else clause: a borrow from the low digit survives.
			x.setFlag(x86.FLAG_CF, adjustHigh.Or(adjustLow.And(cf.Or(cfLow))))
		} else {
			al2 = al1.Add(sixty)
			x.setFlag(x86.FLAG_CF, adjustHigh)
		}
		r := adjustHigh.IteBV(al2, al1)

		x.setReg(x86.REG_AL, r)
		x.setFlag(x86.FLAG_AF, adjustLow)
		x.setResult(r)
		x.undef(x86.FlagsOf(x86.FLAG_OF))
		return nil
	}
}

// asciiAdjust implements AAA and AAS.
func asciiAdjust(sub bool) func(x *exec) error {
	return func(x *exec) error {
		ax := x.reg(x86.REG_AX, 16)
		adjust := ax.Extract(3, 0).UGT(x.constant(9, 4)).Or(x.flag(x86.FLAG_AF))

		var adjusted expr.BV
		if sub {
			adjusted = ax.Sub(x.constant(0x106, 16))
		} else {
			adjusted = ax.Add(x.constant(0x106, 16))
		}
		r := adjust.IteBV(adjusted, ax)
		r = r.Extract(15, 8).Concat(x.constant(0, 4)).Concat(r.Extract(3, 0))

		x.setReg(x86.REG_AX, r)
		x.setFlag(x86.FLAG_AF, adjust)
		x.setFlag(x86.FLAG_CF, adjust)
		x.undef(x86.FlagsOf(x86.FLAG_OF, x86.FLAG_SF, x86.FLAG_ZF, x86.FLAG_PF))
		return nil
	}
}

// base returns the immediate of AAM and AAD, 10 when absent.
func (x *exec) base() (b expr.BV, err error) {
	if x.count() == 0 {
		return x.constant(10, 8), nil
	}
	if err = x.kind(0, asm.KIND_IMM); err != nil {
		return
	}
	return x.get(0, 8)
}

func doAam(x *exec) (err error) {
	b, err := x.base()
	if err != nil {
		return
	}
	if v, ok := b.Uint64(); ok && v == 0 {
		return x.err(0, ErrImmediateZero)
	}
	al := x.reg(x86.REG_AL, 8)
	r := al.URem(b)
	x.setReg(x86.REG_AX, al.UDiv(b).Concat(r))
	x.setResult(r)
	x.undef(x86.FlagsOf(x86.FLAG_OF, x86.FLAG_AF, x86.FLAG_CF))
	return
}

func doAad(x *exec) (err error) {
	b, err := x.base()
	if err != nil {
		return
	}
	al := x.reg(x86.REG_AL, 8)
	ah := x.reg(x86.REG_AH, 8)
	r := al.Add(ah.Mul(b))
	x.setReg(x86.REG_AX, x.constant(0, 8).Concat(r))
	x.setResult(r)
	x.undef(x86.FlagsOf(x86.FLAG_OF, x86.FLAG_AF, x86.FLAG_CF))
	return
}

func init() {
	acc := []x86.Register{x86.REG_RAX}
	accPair := []x86.Register{x86.REG_RAX, x86.REG_RDX}
	unary := []Role{ROLE_READ_WRITE}

	register(map[x86.Mnemonic]*unit{
		x86.MN_ADD: {min: 2, max: 2, roles: []Role{ROLE_READ_WRITE, ROLE_READ}, apply: addSub(false, false, true),
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_ADC: {min: 2, max: 2, roles: []Role{ROLE_READ_WRITE, ROLE_READ}, apply: addSub(false, true, true),
			flagsRead: x86.FlagsOf(x86.FLAG_CF), flagsWritten: x86.FLAGS_STATUS},
		x86.MN_SUB: {min: 2, max: 2, roles: []Role{ROLE_READ_WRITE, ROLE_READ}, apply: addSub(true, false, true),
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_SBB: {min: 2, max: 2, roles: []Role{ROLE_READ_WRITE, ROLE_READ}, apply: addSub(true, true, true),
			flagsRead: x86.FlagsOf(x86.FLAG_CF), flagsWritten: x86.FLAGS_STATUS},
		x86.MN_CMP: {min: 2, max: 2, roles: []Role{ROLE_READ, ROLE_READ}, apply: addSub(true, false, false),
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_INC: {min: 1, max: 1, roles: unary, apply: incDec(false),
			flagsWritten: x86.FLAGS_STATUS &^ x86.FlagsOf(x86.FLAG_CF)},
		x86.MN_DEC: {min: 1, max: 1, roles: unary, apply: incDec(true),
			flagsWritten: x86.FLAGS_STATUS &^ x86.FlagsOf(x86.FLAG_CF)},
		x86.MN_NEG: {min: 1, max: 1, roles: unary, apply: doNeg,
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_NOT: {min: 1, max: 1, roles: unary, apply: doNot},
		x86.MN_MUL: {min: 1, max: 1, roles: []Role{ROLE_READ}, apply: doMul,
			reads: acc, writes: accPair, flagsWritten: x86.FLAGS_STATUS},
		x86.MN_IMUL: {min: 1, max: 3, apply: doImul,
			flagsWritten: x86.FLAGS_STATUS,
			forms: map[int]*unit{
				1: {roles: []Role{ROLE_READ}, reads: acc, writes: accPair, flagsWritten: x86.FLAGS_STATUS},
				2: {roles: []Role{ROLE_READ_WRITE, ROLE_READ}, flagsWritten: x86.FLAGS_STATUS},
				3: {roles: []Role{ROLE_WRITE, ROLE_READ, ROLE_READ}, flagsWritten: x86.FLAGS_STATUS},
			}},
		x86.MN_DIV: {min: 1, max: 1, roles: []Role{ROLE_READ}, apply: divide(false),
			reads: accPair, writes: accPair, flagsWritten: x86.FLAGS_STATUS},
		x86.MN_IDIV: {min: 1, max: 1, roles: []Role{ROLE_READ}, apply: divide(true),
			reads: accPair, writes: accPair, flagsWritten: x86.FLAGS_STATUS},
		x86.MN_ADCX: {min: 2, max: 2, roles: []Role{ROLE_READ_WRITE, ROLE_READ}, apply: addCarry(x86.FLAG_CF),
			flagsRead: x86.FlagsOf(x86.FLAG_CF), flagsWritten: x86.FlagsOf(x86.FLAG_CF)},
		x86.MN_ADOX: {min: 2, max: 2, roles: []Role{ROLE_READ_WRITE, ROLE_READ}, apply: addCarry(x86.FLAG_OF),
			flagsRead: x86.FlagsOf(x86.FLAG_OF), flagsWritten: x86.FlagsOf(x86.FLAG_OF)},
		x86.MN_DAA: {apply: decimalAdjust(false), reads: acc, writes: acc,
			flagsRead: x86.FlagsOf(x86.FLAG_CF, x86.FLAG_AF), flagsWritten: x86.FLAGS_STATUS},
		x86.MN_DAS: {apply: decimalAdjust(true), reads: acc, writes: acc,
			flagsRead: x86.FlagsOf(x86.FLAG_CF, x86.FLAG_AF), flagsWritten: x86.FLAGS_STATUS},
		x86.MN_AAA: {apply: asciiAdjust(false), reads: acc, writes: acc,
			flagsRead: x86.FlagsOf(x86.FLAG_AF), flagsWritten: x86.FLAGS_STATUS},
		x86.MN_AAS: {apply: asciiAdjust(true), reads: acc, writes: acc,
			flagsRead: x86.FlagsOf(x86.FLAG_AF), flagsWritten: x86.FLAGS_STATUS},
		x86.MN_AAM: {min: 0, max: 1, roles: []Role{ROLE_READ}, apply: doAam, reads: acc, writes: acc,
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_AAD: {min: 0, max: 1, roles: []Role{ROLE_READ}, apply: doAad, reads: acc, writes: acc,
			flagsWritten: x86.FLAGS_STATUS},
	})
}
