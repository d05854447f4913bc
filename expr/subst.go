package expr

import (
	"slices"
)

// rebuild reconstructs a non-leaf node from new operands through the
// folding constructors.
func (a *Arena) rebuild(n *node, args []Handle) Handle {
	switch n.op {
	case OP_NOT:
		return a.not(args[0])
	case OP_AND:
		return a.and(args[0], args[1])
	case OP_OR:
		return a.or(args[0], args[1])
	case OP_XOR:
		return a.xor(args[0], args[1])
	case OP_EQ:
		return a.eq(args[0], args[1])
	case OP_ULT, OP_ULE, OP_SLT, OP_SLE:
		return a.compare(n.op, args[0], args[1])
	case OP_ITE:
		return a.ite(args[0], args[1], args[2])
	case OP_BVNOT:
		return a.bvNot(args[0])
	case OP_NEG:
		return a.neg(args[0])
	case OP_BVAND, OP_BVOR, OP_BVXOR, OP_ADD, OP_SUB, OP_MUL,
		OP_UDIV, OP_UREM, OP_SDIV, OP_SREM, OP_SHL, OP_LSHR, OP_ASHR:
		return a.bvBinary(n.op, args[0], args[1])
	case OP_EXTRACT:
		return a.extract(n.hi, n.lo, args[0])
	case OP_CONCAT:
		return a.concat(args[0], args[1])
	case OP_ZEXT:
		return a.zeroExt(n.hi, args[0])
	case OP_SEXT:
		return a.signExt(n.hi, args[0])
	case OP_SELECT:
		return a.selectByte(args[0], args[1])
	case OP_STORE:
		return a.store(args[0], args[1], args[2])
	}
	panic(&ErrSort{Op: n.op, Want: n.sort, Got: n.sort})
}

// Substituter rewrites expressions bottom-up. The replacement function is
// consulted for every node before its operands; when it reports ok the
// node is replaced and not descended into. Results are memoized, so one
// Substituter may be shared across many roots.
type Substituter struct {
	a    *Arena
	fn   func(h Handle) (Handle, bool)
	memo map[Handle]Handle
}

// NewSubstituter creates a substituter over the arena.
func (a *Arena) NewSubstituter(fn func(h Handle) (Handle, bool)) *Substituter {
	return &Substituter{
		a:    a,
		fn:   fn,
		memo: make(map[Handle]Handle),
	}
}

// Apply rewrites h.
func (s *Substituter) Apply(h Handle) Handle {
	if r, ok := s.memo[h]; ok {
		return r
	}

	r, ok := s.fn(h)
	if !ok {
		n := s.a.node(h)
		r = h
		if len(n.args) > 0 {
			args := make([]Handle, len(n.args))
			changed := false
			for i, arg := range n.args {
				args[i] = s.Apply(arg)
				changed = changed || args[i] != arg
			}
			if changed {
				// n may be stale after the arena grew.
				r = s.a.rebuild(s.a.node(h), args)
			}
		}
	}

	s.memo[h] = r
	return r
}

// Substitute rewrites a single expression.
func (a *Arena) Substitute(h Handle, fn func(h Handle) (Handle, bool)) Handle {
	return a.NewSubstituter(fn).Apply(h)
}

// Walk visits every distinct sub-expression of the roots once, operands
// before their users.
func (a *Arena) Walk(visit func(h Handle), roots ...Handle) {
	seen := make(map[Handle]bool)
	var walk func(h Handle)
	walk = func(h Handle) {
		if seen[h] {
			return
		}
		seen[h] = true
		for _, arg := range a.node(h).args {
			walk(arg)
		}
		visit(h)
	}
	for _, h := range roots {
		walk(h)
	}
}

// Vars returns the variables the roots depend on, in handle order.
func (a *Arena) Vars(roots ...Handle) (vars []Handle) {
	a.Walk(func(h Handle) {
		if a.node(h).op == OP_VAR {
			vars = append(vars, h)
		}
	}, roots...)
	slices.Sort(vars)
	return
}

// Zero returns the all-zero constant of a sort.
func (a *Arena) Zero(sort Sort) Handle {
	switch sort.Kind {
	case KIND_BOOL:
		return a.constBool(false)
	case KIND_MEM:
		return a.constMem(0)
	}
	return a.constU64(0, sort.Width)
}

// Grounder returns a substituter that replaces every variable which is not
// flagged undefined with the zero of its sort.
func (a *Arena) Grounder() *Substituter {
	return a.NewSubstituter(func(h Handle) (Handle, bool) {
		n := a.node(h)
		if n.op != OP_VAR || n.undef {
			return 0, false
		}
		return a.Zero(n.sort), true
	})
}

// Ground replaces every variable which is not flagged undefined with zero.
// What remains free depends only on undefined values.
func (a *Arena) Ground(h Handle) Handle {
	return a.Grounder().Apply(h)
}

// Import copies an expression of another arena into this one.
func (a *Arena) Import(src *Arena, h Handle) Handle {
	if src == a {
		return h
	}
	memo := make(map[Handle]Handle)
	var imp func(h Handle) Handle
	imp = func(h Handle) Handle {
		if r, ok := memo[h]; ok {
			return r
		}
		n := src.node(h)
		var r Handle
		switch n.op {
		case OP_CONST, OP_MEM_CONST, OP_VAR:
			leaf := *n
			leaf.args = nil
			r = a.intern(leaf)
		default:
			args := make([]Handle, len(n.args))
			for i, arg := range n.args {
				args[i] = imp(arg)
			}
			r = a.rebuild(src.node(h), args)
		}
		memo[h] = r
		return r
	}
	return imp(h)
}
