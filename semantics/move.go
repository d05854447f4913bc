package semantics

import (
	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/x86"
)

var (
	rw  = []Role{ROLE_WRITE, ROLE_READ}
	rwx = []Role{ROLE_READ_WRITE, ROLE_READ_WRITE}
)

func doMov(x *exec) (err error) {
	w, err := x.width(0, 1)
	if err != nil {
		return
	}
	v, err := x.get(1, w)
	if err != nil {
		return
	}
	return x.set(0, v)
}

// extend implements MOVZX, MOVSX and MOVSXD.
func extend(signed bool, from int) func(x *exec) error {
	return func(x *exec) (err error) {
		if err = x.kind(0, asm.KIND_REG); err != nil {
			return
		}
		w := x.op(0).Reg.Width()
		sw := from
		if sw == 0 {
			if sw, err = x.widthOf(1); err != nil {
				return
			}
		}
		if sw >= w {
			return x.err(1, ErrOperandWidth)
		}
		v, err := x.get(1, sw)
		if err != nil {
			return
		}
		if signed {
			v = v.SignExt(w - sw)
		} else {
			v = v.ZeroExt(w - sw)
		}
		return x.set(0, v)
	}
}

func doLea(x *exec) (err error) {
	if err = x.kind(0, asm.KIND_REG); err != nil {
		return
	}
	if err = x.kind(1, asm.KIND_MEM); err != nil {
		return
	}
	return x.set(0, x.memAddr(1).Resize(x.op(0).Reg.Width()))
}

func doXchg(x *exec) (err error) {
	w, err := x.width(0, 1)
	if err != nil {
		return
	}
	a, err := x.get(0, w)
	if err != nil {
		return
	}
	b, err := x.get(1, w)
	if err != nil {
		return
	}
	if err = x.set(0, b); err != nil {
		return
	}
	return x.set(1, a)
}

func doXadd(x *exec) (err error) {
	w, err := x.width(0, 1)
	if err != nil {
		return
	}
	dst, err := x.get(0, w)
	if err != nil {
		return
	}
	src, err := x.get(1, w)
	if err != nil {
		return
	}
	sum := dst.Add(src)
	if err = x.set(1, dst); err != nil {
		return
	}
	if err = x.set(0, sum); err != nil {
		return
	}
	x.setAdd(dst, src, sum, x.a.False())
	return
}

// byteSwap reverses the bytes of v.
func byteSwap(v expr.BV) expr.BV {
	r := v.Extract(7, 0)
	for n := 8; n < v.Width(); n += 8 {
		r = r.Concat(v.Extract(n+7, n))
	}
	return r
}

func doBswap(x *exec) (err error) {
	if err = x.kind(0, asm.KIND_REG); err != nil {
		return
	}
	w := x.op(0).Reg.Width()
	if w < 32 {
		return x.err(0, ErrOperandWidth)
	}
	v, err := x.get(0, w)
	if err != nil {
		return
	}
	return x.set(0, byteSwap(v))
}

func doMovbe(x *exec) (err error) {
	w, err := x.width(0, 1)
	if err != nil {
		return
	}
	if w < 16 {
		return x.err(-1, ErrOperandWidth)
	}
	if x.op(0).Kind == x.op(1).Kind {
		return x.err(1, ErrOperandKind)
	}
	v, err := x.get(1, w)
	if err != nil {
		return
	}
	return x.set(0, byteSwap(v))
}

// setAccumulator writes the accumulator unless keep holds. A 32-bit
// write only clears the upper half of the family when it happens.
func (x *exec) setAccumulator(r x86.Register, keep expr.Bool, v expr.BV) {
	family := x.reg(r, 64)
	if v.Width() == 32 {
		x.setReg(r, keep.IteBV(family, v.ZeroExt(32)))
		return
	}
	x.setReg(r, keep.IteBV(x.reg(r, v.Width()), v))
}

func doCmpxchg(x *exec) (err error) {
	w, err := x.width(0, 1)
	if err != nil {
		return
	}
	dst, err := x.get(0, w)
	if err != nil {
		return
	}
	src, err := x.get(1, w)
	if err != nil {
		return
	}
	acc := x.reg(x86.REG_RAX, w)
	x.setSub(acc, dst, acc.Sub(dst), x.a.False())

	equal := acc.Eq(dst)
	if err = x.set(0, equal.IteBV(src, dst)); err != nil {
		return
	}
	x.setAccumulator(x86.REG_RAX, equal, dst)
	return
}

// cmpxchgWide implements CMPXCHG8B and CMPXCHG16B on a memory operand
// twice the width of the register pairs.
func cmpxchgWide(half int) func(x *exec) error {
	return func(x *exec) (err error) {
		if err = x.kind(0, asm.KIND_MEM); err != nil {
			return
		}
		dst, err := x.get(0, half*2)
		if err != nil {
			return
		}
		cmp := x.reg(x86.REG_RDX, half).Concat(x.reg(x86.REG_RAX, half))
		src := x.reg(x86.REG_RCX, half).Concat(x.reg(x86.REG_RBX, half))

		equal := cmp.Eq(dst)
		if err = x.set(0, equal.IteBV(src, dst)); err != nil {
			return
		}
		x.setFlag(x86.FLAG_ZF, equal)
		x.setAccumulator(x86.REG_RAX, equal, dst.Extract(half-1, 0))
		x.setAccumulator(x86.REG_RDX, equal, dst.Extract(half*2-1, half))
		return
	}
}

// pushWidth is the size of a stack operand.
func (x *exec) pushWidth() (w int, err error) {
	op := x.op(0)
	switch op.Kind {
	case asm.KIND_IMM:
		return 64, nil
	case asm.KIND_MEM:
		if op.Width == 0 {
			return 64, nil
		}
	}
	w, err = x.widthOf(0)
	if err == nil && w != 16 && w != 64 {
		err = x.err(0, ErrOperandWidth)
	}
	return
}

func doPush(x *exec) (err error) {
	w, err := x.pushWidth()
	if err != nil {
		return
	}
	v, err := x.get(0, w)
	if err != nil {
		return
	}
	rsp := x.reg(x86.REG_RSP, 64).Sub(x.constant(uint64(w/8), 64))
	x.u.Write(rsp, v)
	x.setReg(x86.REG_RSP, rsp)
	return
}

func doPop(x *exec) (err error) {
	if err = x.kind(0, asm.KIND_REG, asm.KIND_MEM); err != nil {
		return
	}
	w, err := x.pushWidth()
	if err != nil {
		return
	}
	rsp := x.reg(x86.REG_RSP, 64)
	v := x.u.Read(rsp, w/8)
	x.setReg(x86.REG_RSP, rsp.AddConst(uint64(w/8)))
	return x.set(0, v)
}

// signExtend implements CBW, CWDE and CDQE.
func signExtend(w int) func(x *exec) error {
	return func(x *exec) error {
		v := x.reg(x86.REG_RAX, w/2)
		x.setReg(x86.REG_RAX, v.SignExt(w/2))
		return nil
	}
}

// signSplit implements CWD, CDQ and CQO.
func signSplit(w int) func(x *exec) error {
	return func(x *exec) error {
		v := x.reg(x86.REG_RAX, w)
		x.setReg(x86.REG_RDX, v.AShr(x.constant(uint64(w-1), w)))
		return nil
	}
}

// resolveBool returns the value of c when the path decides it.
func (x *exec) resolveBool(c expr.Bool) (value bool, ok bool) {
	if value, ok = c.Const(); ok {
		return
	}
	v, ok := x.resolve(c.BV()).Uint64()
	return v == 1, ok
}

// doCmov moves in the branch update only. The regular update is the path
// where the condition is false.
func doCmov(x *exec) (err error) {
	if err = x.kind(0, asm.KIND_REG); err != nil {
		return
	}
	w := x.op(0).Reg.Width()
	if w == 8 {
		return x.err(0, ErrOperandWidth)
	}
	v, err := x.get(1, w)
	if err != nil {
		return
	}
	cond := x.cond()
	old := x.reg(x.op(0).Reg, w)

	if taken, ok := x.resolveBool(cond); ok {
		if taken {
			return x.set(0, v)
		}
		return x.set(0, old)
	}

	x.u.BranchInfo = x.branchInfo(cond, false)
	if w == 32 {
		// The upper half is cleared even when nothing moves.
		if err = x.set(0, old); err != nil {
			return
		}
	}

	b := x.branch()
	b.u.BranchInfo = b.branchInfo(cond, true)
	return b.set(0, v)
}

func doSet(x *exec) (err error) {
	if _, err = x.widthOf(0); err != nil {
		return
	}
	v := x.cond().IteBV(x.constant(1, 8), x.constant(0, 8))
	return x.set(0, v)
}

func init() {
	units := map[x86.Mnemonic]*unit{
		x86.MN_MOV:    {min: 2, max: 2, roles: rw, apply: doMov},
		x86.MN_MOVZX:  {min: 2, max: 2, roles: rw, apply: extend(false, 0)},
		x86.MN_MOVSX:  {min: 2, max: 2, roles: rw, apply: extend(true, 0)},
		x86.MN_MOVSXD: {min: 2, max: 2, roles: rw, apply: extend(true, 32)},
		x86.MN_LEA:    {min: 2, max: 2, roles: []Role{ROLE_WRITE, ROLE_NONE}, apply: doLea},
		x86.MN_XCHG:   {min: 2, max: 2, roles: rwx, apply: doXchg},
		x86.MN_XADD: {min: 2, max: 2, roles: rwx, apply: doXadd,
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_BSWAP: {min: 1, max: 1, roles: []Role{ROLE_READ_WRITE}, apply: doBswap},
		x86.MN_MOVBE: {min: 2, max: 2, roles: rw, apply: doMovbe},
		x86.MN_CMPXCHG: {min: 2, max: 2, roles: []Role{ROLE_READ_WRITE, ROLE_READ}, apply: doCmpxchg,
			reads: []x86.Register{x86.REG_RAX}, writes: []x86.Register{x86.REG_RAX},
			flagsWritten: x86.FLAGS_STATUS},
		x86.MN_CMPXCHG8B: {min: 1, max: 1, roles: []Role{ROLE_READ_WRITE}, apply: cmpxchgWide(32),
			reads:        []x86.Register{x86.REG_RAX, x86.REG_RBX, x86.REG_RCX, x86.REG_RDX},
			writes:       []x86.Register{x86.REG_RAX, x86.REG_RDX},
			flagsWritten: x86.FlagsOf(x86.FLAG_ZF)},
		x86.MN_CMPXCHG16B: {min: 1, max: 1, roles: []Role{ROLE_READ_WRITE}, apply: cmpxchgWide(64),
			reads:        []x86.Register{x86.REG_RAX, x86.REG_RBX, x86.REG_RCX, x86.REG_RDX},
			writes:       []x86.Register{x86.REG_RAX, x86.REG_RDX},
			flagsWritten: x86.FlagsOf(x86.FLAG_ZF)},
		x86.MN_PUSH: {min: 1, max: 1, roles: []Role{ROLE_READ}, apply: doPush,
			reads: []x86.Register{x86.REG_RSP}, writes: []x86.Register{x86.REG_RSP}, memWrite: true},
		x86.MN_POP: {min: 1, max: 1, roles: []Role{ROLE_WRITE}, apply: doPop,
			reads: []x86.Register{x86.REG_RSP}, writes: []x86.Register{x86.REG_RSP}, memRead: true},
		x86.MN_CBW: {apply: signExtend(16),
			reads: []x86.Register{x86.REG_RAX}, writes: []x86.Register{x86.REG_RAX}},
		x86.MN_CWDE: {apply: signExtend(32),
			reads: []x86.Register{x86.REG_RAX}, writes: []x86.Register{x86.REG_RAX}},
		x86.MN_CDQE: {apply: signExtend(64),
			reads: []x86.Register{x86.REG_RAX}, writes: []x86.Register{x86.REG_RAX}},
		x86.MN_CWD: {apply: signSplit(16),
			reads: []x86.Register{x86.REG_RAX, x86.REG_RDX}, writes: []x86.Register{x86.REG_RDX}},
		x86.MN_CDQ: {apply: signSplit(32),
			reads: []x86.Register{x86.REG_RAX}, writes: []x86.Register{x86.REG_RDX}},
		x86.MN_CQO: {apply: signSplit(64),
			reads: []x86.Register{x86.REG_RAX}, writes: []x86.Register{x86.REG_RDX}},
	}

	for mn := range x86.Mnemonics() {
		switch {
		case mn.IsCmov():
			units[mn] = &unit{min: 2, max: 2, roles: rw, apply: doCmov,
				flagsRead: mn.Cond().FlagsRead()}
		case mn.IsSet():
			units[mn] = &unit{min: 1, max: 1, roles: []Role{ROLE_WRITE}, apply: doSet,
				flagsRead: mn.Cond().FlagsRead()}
		}
	}

	register(units)
}
