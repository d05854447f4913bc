package expr

// Mem is a byte-addressed memory expression.
type Mem struct {
	a *Arena
	h Handle
}

// MemVar returns the memory variable with the given name.
func (a *Arena) MemVar(name string) Mem {
	return Mem{a, a.variable(name, SortMem, false)}
}

// MemConst returns a memory with every byte equal to b.
func (a *Arena) MemConst(b byte) Mem {
	return Mem{a, a.constMem(b)}
}

// AsMem wraps a memory handle of this arena.
func (a *Arena) AsMem(h Handle) Mem {
	a.check(OP_INVALID, KIND_MEM, h)
	return Mem{a, h}
}

func (m Mem) Arena() *Arena  { return m.a }
func (m Mem) Handle() Handle { return m.h }
func (m Mem) Valid() bool    { return m.a != nil && m.h != 0 }

func (m Mem) String() string {
	if m.a == nil {
		return "<nil>"
	}
	return m.a.String(m.h)
}

func (m Mem) same(y interface{ Arena() *Arena }) {
	if m.a != y.Arena() {
		panic(&ErrArena{Want: m.a.ID.String(), Got: y.Arena().ID.String()})
	}
}

// Select reads the byte at addr.
func (m Mem) Select(addr BV) BV {
	m.same(addr)
	return BV{m.a, m.a.selectByte(m.h, addr.h)}
}

// Store writes the byte v at addr.
func (m Mem) Store(addr, v BV) Mem {
	m.same(addr)
	m.same(v)
	return Mem{m.a, m.a.store(m.h, addr.h, v.h)}
}

// Read reads a little-endian value of nBytes bytes at addr.
func (m Mem) Read(addr BV, nBytes int) BV {
	r := m.Select(addr)
	for n := 1; n < nBytes; n++ {
		r = m.Select(addr.AddConst(uint64(n))).Concat(r)
	}
	return r
}

// Write stores the little-endian bytes of v at addr. The width of v must
// be a multiple of eight.
func (m Mem) Write(addr, v BV) Mem {
	w := v.Width()
	if w%8 != 0 {
		panic(&ErrSort{Op: OP_STORE, Want: SortBV((w + 7) &^ 7), Got: SortBV(w)})
	}
	for n := 0; n < w/8; n++ {
		m = m.Store(addr.AddConst(uint64(n)), v.Extract(n*8+7, n*8))
	}
	return m
}
