package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/asmsim/tv"
	"github.com/ezrec/asmsim/x86"
)

func testTools() *Tools {
	config := DefaultConfig()
	config.Timeout = 10 * time.Second
	return NewTools(config)
}

// step applies an update built by fn at the head of s.
func step(s *State, fn func(u *StateUpdate)) *StateUpdate {
	u := NewStateUpdate(s.HeadKey(), s.Tools().FreshKey(), s.Tools())
	fn(u)
	if err := s.UpdateForward(u); err != nil {
		panic(err)
	}
	return u
}

func TestStateConfig(t *testing.T) {
	assert := assert.New(t)

	off := AllOff()
	assert.False(off.Register(x86.REG_RAX))
	assert.Equal("", off.String())

	on := AllOn()
	assert.True(on.Register(x86.REG_R15D))
	assert.True(on.Flag(x86.FLAG_DF))
	assert.True(on.Mem)

	sc := off.WithRegister(x86.REG_BL, true).WithFlags(x86.FlagsOf(x86.FLAG_ZF, x86.FLAG_CF), true)
	assert.True(sc.Register(x86.REG_RBX))
	assert.False(off.Register(x86.REG_RBX))
	assert.Equal("CF,ZF,rbx", sc.String())

	union := sc.Union(off.WithMem(true))
	assert.Equal("CF,ZF,rbx,MEM", union.String())

	parsed, err := ParseStateConfig("rax, zf ,mem")
	assert.NoError(err)
	assert.Equal(AllOff().WithRegister(x86.REG_RAX, true).WithFlags(x86.FlagsOf(x86.FLAG_ZF), true).WithMem(true), parsed)

	_, err = ParseStateConfig("rax,bogus")
	assert.ErrorIs(err, ErrConfigParse)
}

func TestBranchInfoStore(t *testing.T) {
	assert := assert.New(t)

	tools := testTools()
	c1 := tools.Branch()
	c2 := tools.Branch()
	c3 := tools.Branch()

	a := &BranchInfoStore{}
	a.Add(BranchInfo{Cond: c1, Taken: true})
	a.Add(BranchInfo{Cond: c1, Taken: true})
	a.Add(BranchInfo{Cond: c2, Taken: true})
	a.Add(BranchInfo{Cond: c3, Taken: false})
	assert.Equal(3, a.Len())

	b := &BranchInfoStore{}
	b.Add(BranchInfo{Cond: c1, Taken: true})
	b.Add(BranchInfo{Cond: c2, Taken: false})

	shared := RetrieveSharedBranchInfo(a, b)
	assert.Equal(1, len(shared.Prefix))
	assert.Equal(1, len(shared.Common))
	assert.Equal(c1.Handle(), shared.Common[0].Key())
	assert.Equal(1, len(shared.Discriminators))
	assert.Equal(c2.Handle(), shared.Discriminators[0].Key())
	assert.True(shared.Discriminators[0].Taken)
	assert.Equal(1, len(shared.OnlyA))
	assert.Equal(0, len(shared.OnlyB))
}

func TestStateUpdate(t *testing.T) {
	assert := assert.New(t)

	tools := testTools()
	a := tools.Arena()
	s := NewState(tools)

	step(s, func(u *StateUpdate) {
		u.Set(x86.REG_RAX, a.BVConst(0x1122334455667788, 64))
	})
	step(s, func(u *StateUpdate) {
		u.Set(x86.REG_AH, a.BVConst(0xff, 8))
		u.Set(x86.REG_AL, a.BVConst(0x00, 8))
		u.Set(x86.REG_EBX, a.BVConst(0xdeadbeef, 32))
	})

	value, ok := s.Reg(x86.REG_RAX).Uint64()
	assert.True(ok)
	assert.Equal(uint64(0x112233445566ff00), value)

	arr := s.GetTvArray(x86.REG_RBX)
	assert.Equal("00000000deadbeef", arr.Hex())

	assert.Equal(tv.UNDETERMINED, s.GetTv(RegLoc(x86.REG_RCX), 3))

	assert.Panics(func() {
		u := NewStateUpdate(s.HeadKey(), tools.FreshKey(), tools)
		u.Set(x86.REG_AX, a.BVConst(1, 8))
	})

	u := NewStateUpdate(tools.FreshKey(), tools.FreshKey(), tools)
	assert.ErrorIs(s.UpdateForward(u), ErrKeyUnknown)
}

func TestStateMemory(t *testing.T) {
	assert := assert.New(t)

	tools := testTools()
	a := tools.Arena()
	s := NewState(tools)
	start := s.HeadKey()

	step(s, func(u *StateUpdate) {
		u.Write(a.BVConst(0x1000, 64), a.BVConst(0xbeef, 16))
	})

	assert.Equal("beef", s.GetTvArrayMem(0x1000, 2).Hex())
	assert.Equal("??", s.GetTvArrayMem(0x2000, 1).Hex())
	assert.Equal(tv.UNDETERMINED, s.IsRedundantMem(start, s.HeadKey()))
	assert.Equal(tv.ONE, s.IsRedundantMem(start, start))
	assert.Equal(tv.ONE, s.IsRedundantReg(x86.REG_RAX, start, s.HeadKey()))
	assert.Contains(s.String(), "MEM[0x1000] = 0xef\n")
	assert.Contains(s.String(), "MEM[0x1001] = 0xbe\n")

	// Writes through distinct address expressions alias when the path
	// constraints make them equal.
	alias := func(constrain bool) tv.Tv {
		s := NewState(tools)
		rdi, rsi := s.Reg(x86.REG_RDI), s.Reg(x86.REG_RSI)
		if constrain {
			s.AddConstraint(rdi.Eq(rsi))
			assert.Equal(tv.ONE, s.EqualValues(rdi, rsi))
		}
		step(s, func(u *StateUpdate) {
			u.Write(u.Get(x86.REG_RSI), a.BVConst(1, 8))
			u.Write(u.Get(x86.REG_RDI), a.BVConst(2, 8))
		})
		return s.EqualValues(s.Mem().Read(rsi, 1), a.BVConst(2, 8))
	}
	assert.Equal(tv.ONE, alias(true))
	assert.Equal(tv.UNDETERMINED, alias(false))
}

func TestStateUndefined(t *testing.T) {
	assert := assert.New(t)

	tools := testTools()
	a := tools.Arena()
	s := NewState(tools)

	step(s, func(u *StateUpdate) {
		u.SetFlagsUndef(x86.FlagsOf(x86.FLAG_AF))
		u.SetFlag(x86.FLAG_CF, a.True())
		u.Set(x86.REG_RDX, tools.Undef(64).And(a.BVConst(0xf0, 64)))
	})

	assert.Equal(tv.UNDEFINED, s.GetTvFlag(x86.FLAG_AF))
	assert.Equal(tv.ONE, s.GetTvFlag(x86.FLAG_CF))
	assert.Equal(tv.UNDETERMINED, s.GetTvFlag(x86.FLAG_ZF))
	assert.Equal("00000000000000U0", s.GetTvArray(x86.REG_RDX).Hex())
}

func TestStateMergeForward(t *testing.T) {
	assert := assert.New(t)

	tools := testTools()
	a := tools.Arena()
	s := NewState(tools)

	cond := s.Reg(x86.REG_RAX).IsZero()
	taken := s.Copy()
	step(taken, func(u *StateUpdate) {
		u.Set(x86.REG_RBX, a.BVConst(1, 64))
		u.Set(x86.REG_RCX, a.BVConst(1, 64))
		u.BranchInfo = &BranchInfo{Cond: cond, Taken: true, LineNo: 1}
	})
	fallthru := s.Copy()
	step(fallthru, func(u *StateUpdate) {
		u.Set(x86.REG_RBX, a.BVConst(1, 64))
		u.Set(x86.REG_RCX, a.BVConst(2, 64))
		u.BranchInfo = &BranchInfo{Cond: cond, Taken: false, LineNo: 1}
	})

	m, err := Merge(taken, fallthru)
	assert.NoError(err)
	assert.Equal(0, m.BranchInfo().Len())
	assert.Equal("0000000000000001", m.GetTvArray(x86.REG_RBX).Hex())
	arr := m.GetTvArray(x86.REG_RCX)
	assert.Equal(tv.UNDETERMINED, arr[0])
	assert.Equal(tv.UNDETERMINED, arr[1])
	assert.Equal(tv.ZERO, arr[2])

	// RCX follows the branch condition.
	assert.Equal(tv.ONE, m.EqualValues(m.Reg(x86.REG_RCX),
		cond.IteBV(a.BVConst(1, 64), a.BVConst(2, 64))))

	// An infeasible side does not widen the result.
	dead := fallthru.Copy()
	dead.AddConstraint(a.False())
	assert.Equal(tv.ZERO, dead.IsConsistent())
	m, err = Merge(taken, dead)
	assert.NoError(err)
	assert.Equal("0000000000000001", m.GetTvArray(x86.REG_RCX).Hex())

	_, err = Merge(taken, NewState(tools))
	assert.ErrorIs(err, ErrMergeKeys)
	_, err = Merge(taken, NewState(testTools()))
	assert.ErrorIs(err, ErrMergeTools)
}

func TestStateConsistency(t *testing.T) {
	assert := assert.New(t)

	tools := testTools()
	a := tools.Arena()
	s := NewState(tools)
	assert.Equal(tv.ONE, s.IsConsistent())

	step(s, func(u *StateUpdate) {
		u.Set(x86.REG_RAX, a.BVConst(3, 64))
	})
	rax := s.Reg(x86.REG_RAX)
	s.Add(BranchInfo{Cond: rax.ULT(a.BVConst(2, 64)), Taken: true})
	assert.Equal(tv.ZERO, s.IsConsistent())

	s = NewState(tools)
	x := s.Reg(x86.REG_RAX)
	s.Add(BranchInfo{Cond: x.ULT(a.BVConst(2, 64)), Taken: true})
	assert.Equal(tv.ONE, s.IsConsistent())
	assert.Equal(tv.ZERO, s.GetTv(RegLoc(x86.REG_RAX), 5))
	assert.Equal(tv.UNDETERMINED, s.GetTv(RegLoc(x86.REG_RAX), 0))
	s.Add(BranchInfo{Cond: x.IsZero(), Taken: false})
	assert.Equal(tv.ONE, s.GetTv(RegLoc(x86.REG_RAX), 0))
}

func TestStateBackward(t *testing.T) {
	assert := assert.New(t)

	tools := testTools()
	a := tools.Arena()
	end := NewState(tools)

	// The last instruction sets RBX = RAX + 1.
	prev := tools.FreshKey()
	u := NewStateUpdate(prev, end.TailKey(), tools)
	u.Set(x86.REG_RBX, u.Get(x86.REG_RAX).AddConst(1))
	assert.NoError(end.UpdateBackward(u))
	assert.Equal(prev, end.TailKey())

	// The one before sets RAX = 41.
	first := tools.FreshKey()
	u = NewStateUpdate(first, end.TailKey(), tools)
	u.Set(x86.REG_RAX, a.BVConst(41, 64))
	assert.NoError(end.UpdateBackward(u))

	value, ok := end.Reg(x86.REG_RBX).Uint64()
	assert.True(ok)
	assert.Equal(uint64(42), value)

	u = NewStateUpdate(tools.FreshKey(), tools.FreshKey(), tools)
	assert.ErrorIs(end.UpdateBackward(u), ErrKeyUnknown)
}

func TestStateForkBackward(t *testing.T) {
	assert := assert.New(t)

	tools := testTools()
	a := tools.Arena()
	end := NewState(tools)

	_, err := end.ForkBackward(1)
	assert.ErrorIs(err, ErrForkCount)

	forks, err := end.ForkBackward(2)
	assert.NoError(err)
	assert.Equal(2, len(forks))
	assert.NotEqual(forks[0].TailKey(), forks[1].TailKey())

	// Both predecessors read the same version; one branch sets RCX.
	top := tools.FreshKey()
	cond := tools.RegVar(top, x86.REG_RAX).IsZero()

	u := NewStateUpdate(top, forks[0].TailKey(), tools)
	u.Set(x86.REG_RCX, a.BVConst(7, 64))
	u.BranchInfo = &BranchInfo{Cond: cond, Taken: true, LineNo: 3}
	assert.NoError(forks[0].UpdateBackward(u))

	u = NewStateUpdate(top, forks[1].TailKey(), tools)
	u.Set(x86.REG_RCX, a.BVConst(9, 64))
	u.BranchInfo = &BranchInfo{Cond: cond, Taken: false, LineNo: 3}
	assert.NoError(forks[1].UpdateBackward(u))

	m, err := Merge(forks[0], forks[1])
	assert.NoError(err)
	assert.Equal(top, m.TailKey())
	assert.Equal(tv.ONE, m.EqualValues(m.Reg(x86.REG_RCX),
		cond.IteBV(a.BVConst(7, 64), a.BVConst(9, 64))))

	// With RAX known the choice resolves.
	m.AddConstraint(cond)
	assert.Equal("0000000000000007", m.GetTvArray(x86.REG_RCX).Hex())
}

func TestStateString(t *testing.T) {
	assert := assert.New(t)

	config := DefaultConfig()
	config.StateConfig = AllOff().WithRegister(x86.REG_RAX, true).WithFlags(x86.FlagsOf(x86.FLAG_ZF), true)
	tools := NewTools(config)
	a := tools.Arena()
	s := NewState(tools)

	step(s, func(u *StateUpdate) {
		u.Set(x86.REG_RAX, a.BVConst(0x1e, 64))
		u.SetFlag(x86.FLAG_ZF, a.False())
	})

	lines := strings.Split(strings.TrimSpace(s.String()), "\n")
	assert.Equal([]string{
		"ZF = 0",
		"RAX = 0x000000000000001e",
	}, lines)

	assert.Equal(tv.UNDETERMINED, s.GetTv(RegLoc(x86.REG_RBX), 0))
}
