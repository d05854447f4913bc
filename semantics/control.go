package semantics

import (
	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/expr"
	"github.com/ezrec/asmsim/x86"
)

// REPEAT_LIMIT is the number of repeat iterations modelled.
const REPEAT_LIMIT = 64

// setFlagTo returns a unit that writes a constant flag.
func setFlagTo(flag x86.Flag, value bool) func(x *exec) error {
	return func(x *exec) error {
		x.setFlag(flag, x.a.BoolConst(value))
		return nil
	}
}

func doCmc(x *exec) error {
	x.setFlag(x86.FLAG_CF, x.flag(x86.FLAG_CF).Not())
	return nil
}

// ahFlags are the flags held by AH after LAHF, by bit.
var ahFlags = map[int]x86.Flag{
	7: x86.FLAG_SF,
	6: x86.FLAG_ZF,
	4: x86.FLAG_AF,
	2: x86.FLAG_PF,
	0: x86.FLAG_CF,
}

func doLahf(x *exec) error {
	var ah expr.BV
	for bit := 7; bit >= 0; bit-- {
		b := x.constant(0, 1)
		if flag, ok := ahFlags[bit]; ok {
			b = x.flag(flag).BV()
		} else if bit == 1 {
			b = x.constant(1, 1)
		}
		if ah.Valid() {
			b = ah.Concat(b)
		}
		ah = b
	}
	x.setReg(x86.REG_AH, ah)
	return nil
}

func doSahf(x *exec) error {
	ah := x.reg(x86.REG_AH, 8)
	for bit, flag := range ahFlags {
		x.setFlag(flag, ah.IsSet(bit))
	}
	return nil
}

// repeat runs body once, or for a repeat prefix RCX times. A count that
// is unknown or over REPEAT_LIMIT is unrolled REPEAT_LIMIT times under
// guards; past that the pointers and memory become unknown.
func (x *exec) repeat(pointers []x86.Register, body func(active expr.Bool)) error {
	if x.line.Prefix == asm.PREFIX_NONE {
		body(x.a.True())
		return nil
	}

	count := x.resolve(x.reg(x86.REG_RCX, 64))
	if n, ok := count.Uint64(); ok && n <= REPEAT_LIMIT {
		for range n {
			body(x.a.True())
		}
		x.setReg(x86.REG_RCX, x.constant(0, 64))
		return nil
	}

	for n := range REPEAT_LIMIT {
		body(count.UGT(x.constant(uint64(n), 64)))
	}

	over := count.UGT(x.constant(REPEAT_LIMIT, 64))
	if !over.IsFalse() {
		for _, r := range pointers {
			x.setReg(r, over.IteBV(x.tools.Unknown(64), x.reg(r, 64)))
		}
		x.u.SetMem(over.IteMem(x.tools.UnknownMem(), x.u.Mem()))
	}
	x.setReg(x86.REG_RCX, x.constant(0, 64))
	return nil
}

// advance moves a string pointer by one element in the direction of DF.
func (x *exec) advance(r x86.Register, active expr.Bool, bytes int) {
	v := x.reg(r, 64)
	delta := x.flag(x86.FLAG_DF).IteBV(x.constant(uint64(-bytes), 64), x.constant(uint64(bytes), 64))
	x.setReg(r, active.IteBV(v.Add(delta), v))
}

// guardedWrite stores value at addr when active holds.
func (x *exec) guardedWrite(active expr.Bool, addr, value expr.BV) {
	before := x.u.Mem()
	x.u.Write(addr, value)
	if !active.IsTrue() {
		x.u.SetMem(active.IteMem(x.u.Mem(), before))
	}
}

// stringOp implements MOVS and STOS.
func stringOp(load bool) func(x *exec) error {
	return func(x *exec) error {
		w := x.line.Mnemonic.StringWidth()
		pointers := []x86.Register{x86.REG_RDI}
		if load {
			pointers = append(pointers, x86.REG_RSI)
		}
		return x.repeat(pointers, func(active expr.Bool) {
			var v expr.BV
			if load {
				v = x.u.Read(x.reg(x86.REG_RSI, 64), w/8)
			} else {
				v = x.reg(x86.REG_RAX, w)
			}
			x.guardedWrite(active, x.reg(x86.REG_RDI, 64), v)
			if load {
				x.advance(x86.REG_RSI, active, w/8)
			}
			x.advance(x86.REG_RDI, active, w/8)
		})
	}
}

// doJmp ends the regular path and continues at the target.
func doJmp(x *exec) (err error) {
	if err = x.kind(0, asm.KIND_LABEL); err != nil {
		return
	}
	x.step.HasRegular = false
	x.branch()
	return
}

// branchOn splits the step on cond: the branch update is taken when
// cond holds. A condition decided by the path produces a single update.
func (x *exec) branchOn(cond expr.Bool) {
	if taken, ok := x.resolveBool(cond); ok {
		if taken {
			x.step.HasRegular = false
			x.branch()
		}
		return
	}
	x.u.BranchInfo = x.branchInfo(cond, false)
	b := x.branch()
	b.u.BranchInfo = b.branchInfo(cond, true)
}

func doJcc(x *exec) (err error) {
	if err = x.kind(0, asm.KIND_LABEL); err != nil {
		return
	}
	x.branchOn(x.cond())
	return
}

// jumpCountZero implements JCXZ, JECXZ and JRCXZ.
func jumpCountZero(w int) func(x *exec) error {
	return func(x *exec) (err error) {
		if err = x.kind(0, asm.KIND_LABEL); err != nil {
			return
		}
		x.branchOn(x.reg(x86.REG_RCX, w).IsZero())
		return
	}
}

// loop implements LOOP, LOOPE and LOOPNE. zf is the ZF required to
// continue, or nil when ZF is not tested.
func loop(zf *bool) func(x *exec) error {
	return func(x *exec) (err error) {
		if err = x.kind(0, asm.KIND_LABEL); err != nil {
			return
		}
		rcx := x.reg(x86.REG_RCX, 64).Sub(x.constant(1, 64))
		cond := rcx.IsZero().Not()
		if zf != nil {
			flag := x.flag(x86.FLAG_ZF)
			if !*zf {
				flag = flag.Not()
			}
			cond = cond.And(flag)
		}
		x.setReg(x86.REG_RCX, rcx)
		x.branchOn(cond)
		if x.step.HasBranch {
			b := *x
			b.u = x.step.Branch
			b.setReg(x86.REG_RCX, rcx)
		}
		return
	}
}

func doNothing(x *exec) error {
	return nil
}

// doStop ends the path.
func doStop(x *exec) error {
	x.step.HasRegular = false
	return nil
}

func init() {
	label := []Role{ROLE_NONE}
	rcx := []x86.Register{x86.REG_RCX}
	stringRead := []x86.Register{x86.REG_RSI, x86.REG_RDI, x86.REG_RAX, x86.REG_RCX}
	stringWrite := []x86.Register{x86.REG_RSI, x86.REG_RDI, x86.REG_RCX}
	zfSet, zfClear := true, false

	units := map[x86.Mnemonic]*unit{
		x86.MN_NONE: {apply: doNothing},
		x86.MN_NOP:  {min: 0, max: 1, roles: []Role{ROLE_NONE}, apply: doNothing},
		x86.MN_CLC:  {apply: setFlagTo(x86.FLAG_CF, false), flagsWritten: x86.FlagsOf(x86.FLAG_CF)},
		x86.MN_STC:  {apply: setFlagTo(x86.FLAG_CF, true), flagsWritten: x86.FlagsOf(x86.FLAG_CF)},
		x86.MN_CMC: {apply: doCmc,
			flagsRead: x86.FlagsOf(x86.FLAG_CF), flagsWritten: x86.FlagsOf(x86.FLAG_CF)},
		x86.MN_CLD: {apply: setFlagTo(x86.FLAG_DF, false), flagsWritten: x86.FlagsOf(x86.FLAG_DF)},
		x86.MN_STD: {apply: setFlagTo(x86.FLAG_DF, true), flagsWritten: x86.FlagsOf(x86.FLAG_DF)},
		x86.MN_LAHF: {apply: doLahf, reads: []x86.Register{x86.REG_RAX}, writes: []x86.Register{x86.REG_RAX},
			flagsRead: x86.FLAGS_STATUS &^ x86.FlagsOf(x86.FLAG_OF)},
		x86.MN_SAHF: {apply: doSahf, reads: []x86.Register{x86.REG_RAX},
			flagsWritten: x86.FLAGS_STATUS &^ x86.FlagsOf(x86.FLAG_OF)},
		x86.MN_JMP:    {min: 1, max: 1, roles: label, apply: doJmp},
		x86.MN_JCXZ:   {min: 1, max: 1, roles: label, apply: jumpCountZero(16), reads: rcx},
		x86.MN_JECXZ:  {min: 1, max: 1, roles: label, apply: jumpCountZero(32), reads: rcx},
		x86.MN_JRCXZ:  {min: 1, max: 1, roles: label, apply: jumpCountZero(64), reads: rcx},
		x86.MN_LOOP:   {min: 1, max: 1, roles: label, apply: loop(nil), reads: rcx, writes: rcx},
		x86.MN_LOOPE:  {min: 1, max: 1, roles: label, apply: loop(&zfSet), reads: rcx, writes: rcx, flagsRead: x86.FlagsOf(x86.FLAG_ZF)},
		x86.MN_LOOPZ:  {min: 1, max: 1, roles: label, apply: loop(&zfSet), reads: rcx, writes: rcx, flagsRead: x86.FlagsOf(x86.FLAG_ZF)},
		x86.MN_LOOPNE: {min: 1, max: 1, roles: label, apply: loop(&zfClear), reads: rcx, writes: rcx, flagsRead: x86.FlagsOf(x86.FLAG_ZF)},
		x86.MN_LOOPNZ: {min: 1, max: 1, roles: label, apply: loop(&zfClear), reads: rcx, writes: rcx, flagsRead: x86.FlagsOf(x86.FLAG_ZF)},
		x86.MN_RET:    {min: 0, max: 1, roles: []Role{ROLE_NONE}, apply: doStop},
		x86.MN_HLT:    {apply: doStop},
		x86.MN_UD2:    {apply: doStop},
	}

	for _, mn := range []x86.Mnemonic{x86.MN_MOVSB, x86.MN_MOVSW, x86.MN_MOVSD, x86.MN_MOVSQ} {
		units[mn] = &unit{apply: stringOp(true), reads: stringRead, writes: stringWrite,
			flagsRead: x86.FlagsOf(x86.FLAG_DF), memRead: true, memWrite: true}
	}
	for _, mn := range []x86.Mnemonic{x86.MN_STOSB, x86.MN_STOSW, x86.MN_STOSD, x86.MN_STOSQ} {
		units[mn] = &unit{apply: stringOp(false), reads: stringRead, writes: stringWrite,
			flagsRead: x86.FlagsOf(x86.FLAG_DF), memWrite: true}
	}
	for mn := range x86.Mnemonics() {
		if mn.IsJcc() {
			units[mn] = &unit{min: 1, max: 1, roles: label, apply: doJcc,
				flagsRead: mn.Cond().FlagsRead()}
		}
	}

	register(units)
}
