package x86

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		name   string
		family Register
		width  int
		lo     int
	}{
		{"rax", REG_RAX, 64, 0},
		{"EAX", REG_RAX, 32, 0},
		{"ax", REG_RAX, 16, 0},
		{"al", REG_RAX, 8, 0},
		{"ah", REG_RAX, 8, 8},
		{"dh", REG_RDX, 8, 8},
		{"sil", REG_RSI, 8, 0},
		{"spl", REG_RSP, 8, 0},
		{"r8d", REG_R8, 32, 0},
		{"r15w", REG_R15, 16, 0},
		{"r12b", REG_R12, 8, 0},
	}

	for _, entry := range table {
		r, ok := ParseRegister(entry.name)
		if !assert.True(ok, entry.name) {
			continue
		}
		assert.Equal(entry.family, r.Family(), entry.name)
		assert.Equal(entry.width, r.Width(), entry.name)
		assert.Equal(entry.lo, r.Lo(), entry.name)
	}

	_, ok := ParseRegister("xmm0")
	assert.False(ok)

	assert.Equal(REG_ECX, REG_CL.Resize(32))
	assert.Equal(REG_R9W, REG_R9.Resize(16))
	assert.Equal(REG_AH, REG_AH.Resize(8))
	assert.Equal(REG_AX, REG_AH.Resize(16))
	assert.Equal(REG_BL, REG_RBX.Resize(8))

	count := 0
	for r := range Families() {
		assert.True(r.IsFamily())
		count++
	}
	assert.Equal(MAX_FAMILY, count)
}

func TestFlags(t *testing.T) {
	assert := assert.New(t)

	f, ok := ParseFlag("zf")
	assert.True(ok)
	assert.Equal(FLAG_ZF, f)
	assert.Equal(6, f.Bit())

	set := FlagsOf(FLAG_CF, FLAG_OF)
	assert.True(set.Has(FLAG_OF))
	assert.False(set.Has(FLAG_ZF))
	assert.Equal("CF|OF", set.String())
	assert.Equal("CF|PF|AF|ZF|SF|OF|DF", FLAGS_ALL.String())
}

func TestMnemonic(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		name string
		mn   Mnemonic
		cond Cond
	}{
		{"MOV", MN_MOV, CC_NONE},
		{"jnz", MN_JNZ, CC_NE},
		{"jz", MN_JZ, CC_E},
		{"cmovnae", MN_CMOVNAE, CC_B},
		{"setpo", MN_SETPO, CC_NP},
		{"jmp", MN_JMP, CC_NONE},
		{"jrcxz", MN_JRCXZ, CC_NONE},
	}

	for _, entry := range table {
		mn, ok := ParseMnemonic(entry.name)
		if !assert.True(ok, entry.name) {
			continue
		}
		assert.Equal(entry.mn, mn, entry.name)
		assert.Equal(entry.cond, mn.Cond(), entry.name)
	}

	_, ok := ParseMnemonic("none")
	assert.False(ok)

	assert.True(MN_JNZ.IsConditionalJump())
	assert.True(MN_LOOPE.IsConditionalJump())
	assert.False(MN_JMP.IsConditionalJump())
	assert.True(MN_JMP.IsJump())
	assert.True(MN_UD2.IsTerminal())
	assert.Equal(32, MN_STOSD.StringWidth())
	assert.True(MN_CMOVE.IsCmov())
	assert.True(MN_SETG.IsSet())
}

func TestCond(t *testing.T) {
	assert := assert.New(t)

	flags := func(set Flags) func(Flag) bool {
		return func(f Flag) bool { return set.Has(f) }
	}

	table := [...]struct {
		cc     Cond
		flags  Flags
		expect bool
	}{
		{CC_E, FlagsOf(FLAG_ZF), true},
		{CC_NE, FlagsOf(FLAG_ZF), false},
		{CC_A, 0, true},
		{CC_A, FlagsOf(FLAG_CF), false},
		{CC_L, FlagsOf(FLAG_SF), true},
		{CC_L, FlagsOf(FLAG_SF, FLAG_OF), false},
		{CC_G, 0, true},
		{CC_LE, FlagsOf(FLAG_ZF), true},
		{CC_NP, FlagsOf(FLAG_PF), false},
	}

	for _, entry := range table {
		assert.Equal(entry.expect, entry.cc.Eval(flags(entry.flags)), entry.cc.String())
	}

	for cc := CC_O; cc <= CC_G; cc++ {
		assert.Equal(cc, cc.Negate().Negate())
		assert.Equal(cc.FlagsRead(), cc.Negate().FlagsRead())
	}
}
