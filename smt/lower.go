package smt

import (
	"github.com/aclements/go-z3/z3"

	"github.com/ezrec/asmsim/expr"
)

// lower converts a Bool or BV handle to a Z3 term. Memory terms are never
// lowered on their own: a select is pushed through stores and choices
// until it reaches a memory variable or a constant memory.
func (s *Solver) lower(h expr.Handle) z3.Value {
	if v, ok := s.cache[h]; ok {
		return v
	}

	a := s.arena
	sort := a.Sort(h)
	args := a.Args(h)

	bv := func(n int) z3.BV { return s.lower(args[n]).(z3.BV) }
	bl := func(n int) z3.Bool { return s.lower(args[n]).(z3.Bool) }

	var result z3.Value
	switch op := a.Op(h); op {
	case expr.OP_CONST:
		value, _ := a.Value(h)
		if sort.Kind == expr.KIND_BOOL {
			result = s.ctx.FromBool(!value.IsZero())
		} else {
			result = s.ctx.FromBigInt(value.ToBig(), s.ctx.BVSort(sort.Width))
		}
	case expr.OP_VAR:
		switch sort.Kind {
		case expr.KIND_BOOL:
			result = s.ctx.BoolConst(a.Name(h))
		case expr.KIND_BV:
			result = s.ctx.BVConst(a.Name(h), sort.Width)
		default:
			result = s.ctx.Const(a.Name(h), s.memSort)
		}
	case expr.OP_NOT:
		result = bl(0).Not()
	case expr.OP_AND:
		result = bl(0).And(bl(1))
	case expr.OP_OR:
		result = bl(0).Or(bl(1))
	case expr.OP_XOR:
		result = bl(0).Xor(bl(1))
	case expr.OP_EQ:
		if a.Sort(args[0]).Kind == expr.KIND_BOOL {
			result = bl(0).Eq(bl(1))
		} else {
			result = bv(0).Eq(bv(1))
		}
	case expr.OP_ULT:
		result = bv(0).ULT(bv(1))
	case expr.OP_ULE:
		result = bv(0).ULE(bv(1))
	case expr.OP_SLT:
		result = bv(0).SLT(bv(1))
	case expr.OP_SLE:
		result = bv(0).SLE(bv(1))
	case expr.OP_ITE:
		result = bl(0).IfThenElse(s.lower(args[1]), s.lower(args[2]))
	case expr.OP_BVNOT:
		result = bv(0).Not()
	case expr.OP_NEG:
		result = bv(0).Neg()
	case expr.OP_BVAND:
		result = bv(0).And(bv(1))
	case expr.OP_BVOR:
		result = bv(0).Or(bv(1))
	case expr.OP_BVXOR:
		result = bv(0).Xor(bv(1))
	case expr.OP_ADD:
		result = bv(0).Add(bv(1))
	case expr.OP_SUB:
		result = bv(0).Sub(bv(1))
	case expr.OP_MUL:
		result = bv(0).Mul(bv(1))
	case expr.OP_UDIV:
		result = bv(0).UDiv(bv(1))
	case expr.OP_UREM:
		result = bv(0).URem(bv(1))
	case expr.OP_SDIV:
		result = bv(0).SDiv(bv(1))
	case expr.OP_SREM:
		result = bv(0).SRem(bv(1))
	case expr.OP_SHL:
		result = bv(0).Lsh(bv(1))
	case expr.OP_LSHR:
		result = bv(0).URsh(bv(1))
	case expr.OP_ASHR:
		result = bv(0).SRsh(bv(1))
	case expr.OP_EXTRACT:
		hi, lo := a.Bounds(h)
		result = bv(0).Extract(hi, lo)
	case expr.OP_CONCAT:
		result = bv(0).Concat(bv(1))
	case expr.OP_ZEXT:
		bits, _ := a.Bounds(h)
		result = bv(0).ZeroExtend(bits)
	case expr.OP_SEXT:
		bits, _ := a.Bounds(h)
		result = bv(0).SignExtend(bits)
	case expr.OP_SELECT:
		result = s.selectByte(args[0], args[1])
	default:
		panic(&expr.ErrSort{Op: op, Want: sort, Got: sort})
	}

	s.cache[h] = result
	return result
}

// selectByte lowers the byte of memory m at address i.
func (s *Solver) selectByte(m, i expr.Handle) z3.BV {
	key := [2]expr.Handle{m, i}
	if v, ok := s.selects[key]; ok {
		return v
	}

	a := s.arena
	args := a.Args(m)

	var result z3.BV
	switch a.Op(m) {
	case expr.OP_MEM_CONST:
		value, _ := a.Value(m)
		result = s.ctx.FromBigInt(value.ToBig(), s.ctx.BVSort(8)).(z3.BV)
	case expr.OP_VAR:
		mem := s.lower(m).(z3.Array)
		result = mem.Select(s.lower(i)).(z3.BV)
	case expr.OP_STORE:
		// select(store(m', j, v), i) == ite(i == j, v, select(m', i))
		hit := s.lower(args[1]).(z3.BV).Eq(s.lower(i).(z3.BV))
		result = hit.IfThenElse(s.lower(args[2]), s.selectByte(args[0], i)).(z3.BV)
	case expr.OP_ITE:
		c := s.lower(args[0]).(z3.Bool)
		result = c.IfThenElse(s.selectByte(args[1], i), s.selectByte(args[2], i)).(z3.BV)
	default:
		panic(&expr.ErrSort{Op: expr.OP_SELECT, Want: expr.SortMem, Got: a.Sort(m)})
	}

	s.selects[key] = result
	return result
}
