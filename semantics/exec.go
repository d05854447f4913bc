package semantics

import (
	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/sim"
	"github.com/ezrec/asmsim/x86"
)

// exec executes one instruction into one update.
type exec struct {
	step  *Step
	line  *asm.Line
	u     *sim.StateUpdate
	a     *expr.Arena
	tools *sim.Tools
	addrs map[int]expr.BV // Effective address of each memory operand.
}

func newExec(step *Step) (x *exec) {
	x = &exec{
		step:  step,
		line:  step.Line,
		u:     step.Regular,
		a:     step.Regular.Arena(),
		tools: step.Regular.Tools(),
		addrs: make(map[int]expr.BV),
	}
	for n, op := range x.line.Operands {
		if op.Kind == asm.KIND_MEM {
			x.memAddr(n)
		}
	}
	return
}

// branch returns an exec writing into the branch update.
func (x *exec) branch() *exec {
	x.step.HasBranch = true
	y := *x
	y.u = x.step.Branch
	return &y
}

func (x *exec) err(n int, err error) error {
	return ErrOperand{Mnemonic: x.line.Mnemonic, Operand: n, Err: err}
}

func (x *exec) op(n int) asm.Operand {
	return x.line.Operands[n]
}

func (x *exec) count() int {
	return len(x.line.Operands)
}

func (x *exec) constant(value uint64, width int) expr.BV {
	return x.a.BVConst(value, width)
}

// resolve rewrites a value into what the path knows about it.
func (x *exec) resolve(v expr.BV) expr.BV {
	if x.step.Resolve == nil {
		return v
	}
	return x.step.Resolve(v)
}

// addr computes a 64-bit effective address.
func (x *exec) addr(m asm.Memory) expr.BV {
	ea := x.constant(uint64(m.Disp), 64)
	if m.Base.Valid() {
		ea = ea.Add(x.u.Get(m.Base).Resize(64))
	}
	if m.Index.Valid() {
		index := x.u.Get(m.Index).Resize(64)
		scale := max(m.Scale, 1)
		ea = ea.Add(index.Mul(x.constant(uint64(scale), 64)))
	}
	return ea
}

// memAddr returns the address of memory operand n, as computed from the
// registers before the instruction.
func (x *exec) memAddr(n int) expr.BV {
	ea, ok := x.addrs[n]
	if !ok {
		ea = x.addr(x.op(n).Mem)
		x.addrs[n] = ea
	}
	return ea
}

// width returns the operand size of the instruction: the first register
// or sized memory operand among the given operands.
func (x *exec) width(ops ...int) (w int, err error) {
	for _, n := range ops {
		if n >= x.count() {
			continue
		}
		op := x.op(n)
		switch op.Kind {
		case asm.KIND_REG:
			return op.Reg.Width(), nil
		case asm.KIND_MEM:
			if op.Width != 0 {
				return op.Width, nil
			}
		}
	}
	err = x.err(-1, ErrOperandSize)
	return
}

// widthOf returns the size of a single operand.
func (x *exec) widthOf(n int) (w int, err error) {
	op := x.op(n)
	switch op.Kind {
	case asm.KIND_REG:
		return op.Reg.Width(), nil
	case asm.KIND_MEM:
		if op.Width != 0 {
			return op.Width, nil
		}
	}
	err = x.err(n, ErrOperandSize)
	return
}

// get reads operand n at width w. Immediates are truncated or sign
// extended to w.
func (x *exec) get(n int, w int) (v expr.BV, err error) {
	op := x.op(n)
	switch op.Kind {
	case asm.KIND_REG:
		if op.Reg.Width() != w {
			err = x.err(n, ErrOperandWidth)
			return
		}
		v = x.u.Get(op.Reg)
	case asm.KIND_MEM:
		if op.Width != 0 && op.Width != w {
			err = x.err(n, ErrOperandWidth)
			return
		}
		v = x.u.Read(x.memAddr(n), w/8)
	case asm.KIND_IMM:
		v = x.constant(uint64(op.Imm), w)
	default:
		err = x.err(n, ErrOperandKind)
	}
	return
}

// set writes operand n.
func (x *exec) set(n int, v expr.BV) (err error) {
	op := x.op(n)
	switch op.Kind {
	case asm.KIND_REG:
		if op.Reg.Width() != v.Width() {
			err = x.err(n, ErrOperandWidth)
			return
		}
		x.u.Set(op.Reg, v)
	case asm.KIND_MEM:
		if op.Width != 0 && op.Width != v.Width() {
			err = x.err(n, ErrOperandWidth)
			return
		}
		x.u.Write(x.memAddr(n), v)
	default:
		err = x.err(n, ErrOperandKind)
	}
	return
}

// kind checks that operand n is one of the given kinds.
func (x *exec) kind(n int, kinds ...asm.Kind) error {
	op := x.op(n)
	for _, k := range kinds {
		if op.Kind == k {
			return nil
		}
	}
	return x.err(n, ErrOperandKind)
}

// reg reads register r, sized to w.
func (x *exec) reg(r x86.Register, w int) expr.BV {
	return x.u.Get(r.Resize(w))
}

// setReg writes register r, sized to the value.
func (x *exec) setReg(r x86.Register, v expr.BV) {
	x.u.Set(r.Resize(v.Width()), v)
}

func (x *exec) flag(f x86.Flag) expr.Bool {
	return x.u.GetFlag(f)
}

func (x *exec) setFlag(f x86.Flag, v expr.Bool) {
	x.u.SetFlag(f, v)
}

func (x *exec) undef(flags x86.Flags) {
	x.u.SetFlagsUndef(flags)
}

// Condition returns the value of a condition code over the given flags.
func Condition(cc x86.Cond, flag func(f x86.Flag) expr.Bool) expr.Bool {
	cf := func() expr.Bool { return flag(x86.FLAG_CF) }
	zf := func() expr.Bool { return flag(x86.FLAG_ZF) }
	sf := func() expr.Bool { return flag(x86.FLAG_SF) }
	of := func() expr.Bool { return flag(x86.FLAG_OF) }

	switch cc {
	case x86.CC_O:
		return of()
	case x86.CC_NO:
		return of().Not()
	case x86.CC_B:
		return cf()
	case x86.CC_AE:
		return cf().Not()
	case x86.CC_E:
		return zf()
	case x86.CC_NE:
		return zf().Not()
	case x86.CC_BE:
		return cf().Or(zf())
	case x86.CC_A:
		return cf().Or(zf()).Not()
	case x86.CC_S:
		return sf()
	case x86.CC_NS:
		return sf().Not()
	case x86.CC_P:
		return flag(x86.FLAG_PF)
	case x86.CC_NP:
		return flag(x86.FLAG_PF).Not()
	case x86.CC_L:
		return sf().Xor(of())
	case x86.CC_GE:
		return sf().Eq(of())
	case x86.CC_LE:
		return zf().Or(sf().Xor(of()))
	case x86.CC_G:
		return zf().Not().And(sf().Eq(of()))
	}
	panic(f("%v: not a condition", cc))
}

// cond evaluates the condition of the instruction's mnemonic.
func (x *exec) cond() expr.Bool {
	return Condition(x.line.Mnemonic.Cond(), x.flag)
}

// branchInfo returns the decision of the step's line on cond.
func (x *exec) branchInfo(cond expr.Bool, taken bool) *sim.BranchInfo {
	return &sim.BranchInfo{Cond: cond, Taken: taken, LineNo: x.line.LineNo}
}
