package expr

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashCons(t *testing.T) {
	assert := assert.New(t)

	a := NewArena()
	x := a.BVVar("x", 64)
	y := a.BVVar("y", 64)

	assert.Equal(x.Add(y).Handle(), y.Add(x).Handle())
	assert.Equal(x.Handle(), a.BVVar("x", 64).Handle())
	assert.NotEqual(x.Handle(), a.BVUndef("x!u", 64).Handle())

	h, ok := a.Lookup("y")
	assert.True(ok)
	assert.Equal(y.Handle(), h)
}

func TestFold(t *testing.T) {
	assert := assert.New(t)

	a := NewArena()
	x := a.BVVar("x", 8)

	table := [...]struct {
		name   string
		value  BV
		expect uint64
	}{
		{"add", a.BVConst(0xf0, 8).Add(a.BVConst(0x20, 8)), 0x10},
		{"sub", a.BVConst(1, 8).Sub(a.BVConst(2, 8)), 0xff},
		{"mul", a.BVConst(16, 8).Mul(a.BVConst(17, 8)), 0x10},
		{"udiv0", a.BVConst(5, 8).UDiv(a.BVConst(0, 8)), 0xff},
		{"urem0", a.BVConst(5, 8).URem(a.BVConst(0, 8)), 5},
		{"sdiv", a.BVConst(0xfa, 8).SDiv(a.BVConst(2, 8)), 0xfd},
		{"srem", a.BVConst(0xfb, 8).SRem(a.BVConst(2, 8)), 0xff},
		{"shl-big", a.BVConst(1, 8).Shl(a.BVConst(9, 8)), 0},
		{"ashr", a.BVConst(0x80, 8).AShr(a.BVConst(3, 8)), 0xf0},
		{"ashr-big", a.BVConst(0x80, 8).AShr(a.BVConst(100, 8)), 0xff},
		{"xor-self", x.Xor(x), 0},
		{"sub-self", x.Sub(x), 0},
		{"and-zero", x.And(a.BVConst(0, 8)), 0},
		{"extract", a.BVConst(0x1234, 16).Extract(11, 4), 0x23},
		{"concat", a.BVConst(0x12, 8).Concat(a.BVConst(0x34, 8)), 0x1234},
		{"sext", a.BVConst(0x80, 8).SignExt(8), 0xff80},
		{"zext-hi", x.ZeroExt(8).Extract(15, 8), 0},
		{"rotl", a.BVConst(0x81, 8).RotateLeft(a.BVConst(1, 8)), 0x03},
		{"rotr", a.BVConst(0x81, 8).RotateRight(a.BVConst(1, 8)), 0xc0},
		{"big", a.BVConstBig(big.NewInt(-1), 16), 0xffff},
	}

	for _, entry := range table {
		v, ok := entry.value.Uint64()
		if !assert.True(ok, entry.name) {
			continue
		}
		assert.Equal(entry.expect, v, entry.name)
	}
}

func TestFoldIdentity(t *testing.T) {
	assert := assert.New(t)

	a := NewArena()
	x := a.BVVar("x", 32)

	assert.Equal(x, x.Add(a.BVConst(0, 32)))
	assert.Equal(x, x.Extract(31, 0))
	assert.Equal(x, x.Extract(31, 16).Concat(x.Extract(15, 0)))
	assert.Equal(x, x.Not().Not())
	assert.Equal(x.AddConst(3), x.AddConst(1).AddConst(2))
	assert.Equal(x.AddConst(2), x.AddConst(5).Sub(a.BVConst(3, 32)))

	c := a.BoolVar("c")
	assert.Equal(c, c.Not().Not())
	assert.True(c.And(c.Not()).IsFalse())
	assert.True(c.Or(c.Not()).IsTrue())
	assert.Equal(x, c.IteBV(x, x))
	assert.Equal(c, c.Ite(a.True(), a.False()))
	assert.True(x.Eq(x).IsTrue())
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	a := NewArena()
	m := a.MemVar("MEM")
	p := a.BVVar("p", 64)

	m1 := m.Write(p, a.BVConst(0x11223344, 32))

	v, ok := m1.Read(p, 4).Uint64()
	assert.True(ok)
	assert.EqualValues(0x11223344, v)

	v, ok = m1.Read(p.AddConst(1), 2).Uint64()
	assert.True(ok)
	assert.EqualValues(0x2233, v)

	// Beyond the written range reads fall through to the base memory.
	r := m1.Read(p.AddConst(4), 1)
	_, ok = r.Const()
	assert.False(ok)
	assert.Equal(m.Select(p.AddConst(4)), r)

	// An unrelated address cannot be resolved without a solver.
	q := a.BVVar("q", 64)
	_, ok = m1.Read(q, 1).Const()
	assert.False(ok)

	z := a.MemConst(0).Write(a.BVConst(8, 64), a.BVConst(0xab, 8))
	v, ok = z.Read(a.BVConst(7, 64), 2).Uint64()
	assert.True(ok)
	assert.EqualValues(0xab00, v)
}

func TestSubstitute(t *testing.T) {
	assert := assert.New(t)

	a := NewArena()
	x := a.BVVar("x", 16)
	y := a.BVVar("y", 16)
	e := x.Add(y).Mul(a.BVConst(2, 16))

	r := a.Substitute(e.Handle(), func(h Handle) (Handle, bool) {
		switch a.Name(h) {
		case "x":
			return a.BVConst(3, 16).Handle(), true
		case "y":
			return a.BVConst(4, 16).Handle(), true
		}
		return 0, false
	})

	v, ok := a.AsBV(r).Uint64()
	assert.True(ok)
	assert.EqualValues(14, v)

	assert.Equal([]Handle{x.Handle(), y.Handle()}, a.Vars(e.Handle()))
}

func TestGround(t *testing.T) {
	assert := assert.New(t)

	a := NewArena()
	x := a.BVVar("x", 8)
	u := a.BVUndef("u", 8)

	g := a.AsBV(a.Ground(x.AddConst(5).Handle()))
	v, ok := g.Uint64()
	assert.True(ok)
	assert.EqualValues(5, v)

	g = a.AsBV(a.Ground(x.Add(u).Handle()))
	assert.Equal(u, g)
}

func TestImport(t *testing.T) {
	assert := assert.New(t)

	src := NewArena()
	e := src.BVVar("x", 8).Add(src.BVConst(1, 8)).Eq(src.BVConst(2, 8))

	dst := NewArena()
	h := dst.Import(src, e.Handle())
	assert.Equal(e.String(), dst.String(h))

	_, ok := dst.Lookup("x")
	assert.True(ok)
}

func TestArenaMismatch(t *testing.T) {
	assert := assert.New(t)

	a := NewArena()
	b := NewArena()

	assert.Panics(func() { a.BVVar("x", 8).Add(b.BVVar("x", 8)) })
	assert.Panics(func() { a.BVVar("x", 8).Add(a.BVVar("y", 16)) })
	assert.Panics(func() { SortBV(0) })
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	a := NewArena()
	x := a.BVVar("RAX!1", 64)

	table := [...]struct {
		value  interface{ String() string }
		expect string
	}{
		{a.BVConst(0x1f, 8), "#x1f"},
		{a.BVConst(5, 3), "#b101"},
		{a.True(), "true"},
		{x.AddConst(1), "(bvadd RAX!1 #x0000000000000001)"},
		{x.Extract(7, 0), "((_ extract 7 0) RAX!1)"},
		{x.ULT(a.BVConst(3, 64)), "(bvult RAX!1 #x0000000000000003)"},
	}

	for _, entry := range table {
		assert.Equal(entry.expect, entry.value.String())
	}
}
