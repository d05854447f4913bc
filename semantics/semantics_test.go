package semantics

import (
	"math/bits"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/sim"
	"github.com/ezrec/asmsim/tv"
	"github.com/ezrec/asmsim/x86"
)

func testTools() *sim.Tools {
	config := sim.DefaultConfig()
	config.Timeout = 10 * time.Second
	return sim.NewTools(config)
}

// execute runs one line at the head of s, following the branch when the
// regular path ends.
func execute(s *sim.State, text string) (step *Step, err error) {
	line, err := asm.ParseLine(text)
	if err != nil {
		return
	}
	tools := s.Tools()
	step = NewStep(&line, tools, s.HeadKey(), tools.FreshKey(), tools.FreshKey())
	step.Resolve = s.ResolveBV
	if err = Apply(step); err != nil {
		return
	}
	switch {
	case step.HasRegular:
		err = s.UpdateForward(step.Regular)
	case step.HasBranch:
		err = s.UpdateForward(step.Branch)
	}
	return
}

// run executes straight line code on a fresh state.
func run(lines ...string) (s *sim.State, err error) {
	s = sim.NewState(testTools())
	for _, text := range lines {
		if _, err = execute(s, text); err != nil {
			return
		}
	}
	return
}

func regValue(s *sim.State, r x86.Register) (value uint64, ok bool) {
	return s.Reg(r).Uint64()
}

func flagValue(s *sim.State, f x86.Flag) (value bool, ok bool) {
	return s.Flag(f).Const()
}

func TestRegistryTotal(t *testing.T) {
	assert := assert.New(t)

	for mn := range x86.Mnemonics() {
		assert.True(HasSemantics(mn), mn.String())
	}
	assert.True(HasSemantics(x86.MN_NONE))
	assert.False(HasSemantics(x86.MAX_MNEMONIC))
}

// flags8 computes the status flags of an 8-bit add or subtract.
func flags8(sub bool, x, y uint8, carry bool) (r uint8, flags map[x86.Flag]bool) {
	c := 0
	if carry {
		c = 1
	}
	var cf, of bool
	if sub {
		r = x - y - uint8(c)
		cf = int(x) < int(y)+c
		of = (x^y)&(x^r)&0x80 != 0
	} else {
		r = x + y + uint8(c)
		cf = int(x)+int(y)+c > 0xff
		of = (x^r)&(y^r)&0x80 != 0
	}
	flags = map[x86.Flag]bool{
		x86.FLAG_CF: cf,
		x86.FLAG_OF: of,
		x86.FLAG_AF: (x^y^r)&0x10 != 0,
		x86.FLAG_ZF: r == 0,
		x86.FLAG_SF: r&0x80 != 0,
		x86.FLAG_PF: bits.OnesCount8(r)%2 == 0,
	}
	return
}

func checkArith8(t *testing.T, mn string, x, y uint8, carry bool) {
	assert := assert.New(t)

	sub := mn == "sub" || mn == "sbb" || mn == "cmp"
	withCarry := mn == "adc" || mn == "sbb"
	setCarry := "clc"
	if carry {
		setCarry = "stc"
	}

	s, err := run(
		"mov rax, 0",
		"mov rbx, 0",
		"mov al, "+asmNumber(x),
		"mov bl, "+asmNumber(y),
		setCarry,
		mn+" al, bl",
	)
	if !assert.NoError(err) {
		return
	}

	want, flags := flags8(sub, x, y, carry && withCarry)
	if mn == "cmp" {
		want = x
	}
	al, ok := regValue(s, x86.REG_AL)
	assert.True(ok)
	assert.Equal(uint64(want), al, "%v %#x, %#x", mn, x, y)
	for f, value := range flags {
		got, ok := flagValue(s, f)
		assert.True(ok)
		assert.Equal(value, got, "%v %#x, %#x: %v", mn, x, y, f)
	}
}

func asmNumber(v uint8) string {
	const hex = "0123456789abcdef"
	return "0x" + string([]byte{hex[v>>4], hex[v&0xf]})
}

func TestArith8(t *testing.T) {
	values := []uint8{0, 1, 0x0f, 0x10, 0x7f, 0x80, 0x81, 0xfe, 0xff}
	for _, mn := range []string{"add", "adc", "sub", "sbb", "cmp"} {
		for _, x := range values {
			for _, y := range values {
				checkArith8(t, mn, x, y, x&1 == 1)
			}
		}
	}
}

func FuzzArith8(f *testing.F) {
	f.Add(uint8(0), uint8(0), uint8(0), false)
	f.Add(uint8(0x7f), uint8(1), uint8(1), true)
	f.Add(uint8(0x80), uint8(0xff), uint8(3), false)

	ops := []string{"add", "adc", "sub", "sbb", "cmp"}
	f.Fuzz(func(t *testing.T, x uint8, y uint8, op uint8, carry bool) {
		checkArith8(t, ops[int(op)%len(ops)], x, y, carry)
	})
}

func TestShift(t *testing.T) {
	assert := assert.New(t)

	// A zero count changes nothing.
	s, err := run("mov rax, 0x80", "stc", "shl rax, 0")
	assert.NoError(err)
	cf, ok := flagValue(s, x86.FLAG_CF)
	assert.True(ok)
	assert.True(cf)
	rax, _ := regValue(s, x86.REG_RAX)
	assert.Equal(uint64(0x80), rax)

	// 64-bit counts are masked to six bits.
	s, err = run("mov rax, 0x8000000000000080", "shl rax, 65")
	assert.NoError(err)
	rax, _ = regValue(s, x86.REG_RAX)
	assert.Equal(uint64(0x100), rax)
	cf, _ = flagValue(s, x86.FLAG_CF)
	assert.True(cf)
	of, ok := flagValue(s, x86.FLAG_OF)
	assert.True(ok)
	assert.True(of)

	// OF is only defined for a count of one.
	s, err = run("mov rax, 1", "shl rax, 2")
	assert.NoError(err)
	assert.Equal(tv.UNDEFINED, s.GetTvFlag(x86.FLAG_OF))
	assert.Equal(tv.UNDEFINED, s.GetTvFlag(x86.FLAG_AF))
	assert.Equal(tv.ZERO, s.GetTvFlag(x86.FLAG_ZF))

	table := []struct {
		lines []string
		al    uint64
		cf    bool
	}{
		{[]string{"mov rax, 0x81", "shr al, 1"}, 0x40, true},
		{[]string{"mov rax, 0x81", "sar al, 1"}, 0xc0, true},
		{[]string{"mov rax, 0x81", "rol al, 1"}, 0x03, true},
		{[]string{"mov rax, 0x81", "ror al, 1"}, 0xc0, true},
		{[]string{"mov rax, 0x80", "stc", "rcl al, 1"}, 0x01, true},
		{[]string{"mov rax, 0x01", "clc", "rcr al, 1"}, 0x00, true},
		{[]string{"mov rax, 0x01", "stc", "rcr al, 1"}, 0x80, true},
		{[]string{"mov rax, 0x01", "mov rcx, 9", "rol al, cl"}, 0x02, false},
	}

	for _, entry := range table {
		s, err := run(entry.lines...)
		if !assert.NoError(err, entry.lines) {
			continue
		}
		al, ok := regValue(s, x86.REG_AL)
		assert.True(ok, entry.lines)
		assert.Equal(entry.al, al, entry.lines)
		cf, ok := flagValue(s, x86.FLAG_CF)
		assert.True(ok, entry.lines)
		assert.Equal(entry.cf, cf, entry.lines)
	}
}

func TestDoubleShift(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		lines []string
		rax   uint64
	}{
		{[]string{"mov rax, 0x0000ffff", "mov rbx, 0xf0000000", "shld eax, ebx, 4"}, 0x000fffff},
		{[]string{"mov rax, 0x0000ffff", "mov rbx, 0x0000000a", "shrd eax, ebx, 4"}, 0xa0000fff},
		{[]string{"mov rax, -1", "mov rbx, 0", "shrd ax, bx, 0"}, 0xffffffffffffffff},
	}

	for _, entry := range table {
		s, err := run(entry.lines...)
		if !assert.NoError(err, entry.lines) {
			continue
		}
		rax, ok := regValue(s, x86.REG_RAX)
		assert.True(ok, entry.lines)
		assert.Equal(entry.rax, rax, entry.lines)
	}
}

func TestCmpxchg(t *testing.T) {
	assert := assert.New(t)

	// Equal: the destination takes the source, RAX keeps its upper half.
	s, err := run("mov rax, -1", "mov ax, 5", "mov rbx, 0xffff0005", "mov rcx, 7", "cmpxchg ebx, ecx")
	assert.NoError(err)
	rax, _ := regValue(s, x86.REG_RAX)
	assert.Equal(uint64(0xffffffffffff0005), rax)
	rbx, _ := regValue(s, x86.REG_RBX)
	assert.Equal(uint64(7), rbx)
	zf, ok := flagValue(s, x86.FLAG_ZF)
	assert.True(ok)
	assert.True(zf)

	// Not equal: the accumulator takes the destination.
	s, err = run("mov rax, -1", "mov rbx, 9", "mov rcx, 7", "cmpxchg ebx, ecx")
	assert.NoError(err)
	rax, _ = regValue(s, x86.REG_RAX)
	assert.Equal(uint64(9), rax)
	rbx, _ = regValue(s, x86.REG_RBX)
	assert.Equal(uint64(9), rbx)
	zf, _ = flagValue(s, x86.FLAG_ZF)
	assert.False(zf)

	s, err = run("mov rdi, 0x1000", "mov qword [rdi], 3", "mov rax, 3", "mov rdx, 0",
		"mov rbx, 0x44", "mov rcx, 0x55", "cmpxchg8b qword [rdi]")
	assert.NoError(err)
	assert.Equal("0000005500000044", s.GetTvArrayMem(0x1000, 8).Hex())
}

func TestMulDiv(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		lines    []string
		rax, rdx uint64
		carry    bool // CF is defined.
		cf       bool
	}{
		{[]string{"mov rax, -1", "mov rbx, 2", "mov rdx, 0", "mul rbx"}, 0xfffffffffffffffe, 1, true, true},
		{[]string{"mov rax, -1", "mov rbx, 2", "mov rdx, 0", "imul rbx"}, 0xfffffffffffffffe, 0xffffffffffffffff, true, false},
		{[]string{"mov rax, 16", "mov rdx, 0", "mov rbx, 16", "mul bl"}, 0x100, 0, true, true},
		{[]string{"mov rdx, 0", "mov rax, 6", "imul rax, rax, 7"}, 42, 0, true, false},
		{[]string{"mov rdx, 0", "mov rax, 7", "mov rbx, 2", "div rbx"}, 3, 1, false, false},
		{[]string{"mov rdx, -1", "mov rax, -7", "mov rbx, 2", "idiv rbx"}, 0xfffffffffffffffd, 0xffffffffffffffff, false, false},
	}

	for _, entry := range table {
		s, err := run(entry.lines...)
		if !assert.NoError(err, entry.lines) {
			continue
		}
		rax, _ := regValue(s, x86.REG_RAX)
		assert.Equal(entry.rax, rax, entry.lines)
		rdx, _ := regValue(s, x86.REG_RDX)
		assert.Equal(entry.rdx, rdx, entry.lines)
		if entry.carry {
			cf, ok := flagValue(s, x86.FLAG_CF)
			assert.True(ok, entry.lines)
			assert.Equal(entry.cf, cf, entry.lines)
		}
	}

	s, err := run("mov rax, 1", "mov rdx, 0", "mov rbx, 3", "div rbx")
	assert.NoError(err)
	for f := range x86.FLAGS_STATUS.All() {
		assert.Equal(tv.UNDEFINED, s.GetTvFlag(f), f.String())
	}
}

func TestDecimal(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		lines []string
		ax    uint64
		cf    bool
	}{
		{[]string{"mov rax, 0x79", "add al, 0x35", "daa"}, 0x14, true},
		{[]string{"mov rax, 0x35", "sub al, 0x47", "das"}, 0x88, true},
		{[]string{"mov rax, 0x0008", "add al, 0x04", "aaa"}, 0x0102, true},
		{[]string{"mov rax, 0x0102", "sub al, 0x05", "aas"}, 0x0007, true},
	}

	for _, entry := range table {
		s, err := run(entry.lines...)
		if !assert.NoError(err, entry.lines) {
			continue
		}
		ax, ok := regValue(s, x86.REG_AX)
		assert.True(ok, entry.lines)
		assert.Equal(entry.ax, ax, entry.lines)
		cf, ok := flagValue(s, x86.FLAG_CF)
		assert.True(ok, entry.lines)
		assert.Equal(entry.cf, cf, entry.lines)
	}

	s, err := run("mov rax, 53", "aam")
	assert.NoError(err)
	ax, _ := regValue(s, x86.REG_AX)
	assert.Equal(uint64(0x0503), ax)

	s, err = run("mov rax, 0x0503", "aad")
	assert.NoError(err)
	ax, _ = regValue(s, x86.REG_AX)
	assert.Equal(uint64(53), ax)

	_, err = run("mov rax, 53", "aam 0")
	assert.ErrorIs(err, ErrImmediateZero)
}

func TestBits(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		lines []string
		rax   uint64
	}{
		{[]string{"mov rbx, 0x50", "bsf rax, rbx"}, 4},
		{[]string{"mov rbx, 0x50", "bsr rax, rbx"}, 6},
		{[]string{"mov rbx, 0x50", "lzcnt rax, rbx"}, 57},
		{[]string{"mov rbx, 0x50", "tzcnt rax, rbx"}, 4},
		{[]string{"mov rbx, 0", "tzcnt rax, rbx"}, 64},
		{[]string{"mov rbx, 0x50", "popcnt rax, rbx"}, 2},
		{[]string{"mov rax, 0x10", "bts rax, 0"}, 0x11},
		{[]string{"mov rax, 0x11", "btr rax, 68"}, 0x01},
		{[]string{"mov rax, 0x11", "btc rax, 1"}, 0x13},
		{[]string{"mov rax, 0x1122334455667788", "bswap rax"}, 0x8877665544332211},
		{[]string{"mov rax, 0x11223344", "bswap eax"}, 0x44332211},
	}

	for _, entry := range table {
		s, err := run(entry.lines...)
		if !assert.NoError(err, entry.lines) {
			continue
		}
		rax, ok := regValue(s, x86.REG_RAX)
		assert.True(ok, entry.lines)
		assert.Equal(entry.rax, rax, entry.lines)
	}

	// A zero source leaves the destination unknown.
	s, err := run("mov rbx, 0", "bsf rax, rbx")
	assert.NoError(err)
	zf, _ := flagValue(s, x86.FLAG_ZF)
	assert.True(zf)
	assert.Equal("????????????????", s.GetTvArray(x86.REG_RAX).Hex())

	s, err = run("mov rax, 0x10", "bt rax, 4")
	assert.NoError(err)
	cf, _ := flagValue(s, x86.FLAG_CF)
	assert.True(cf)

	// A register offset reaches past the operand.
	s, err = run("mov rdi, 0x1000", "mov word [rdi], 0", "mov rcx, 9", "bts qword [rdi], rcx")
	assert.NoError(err)
	assert.Equal("0200", s.GetTvArrayMem(0x1000, 2).Hex())
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	s, err := run(
		"mov rdi, 0x1000",
		"mov rax, 0x1122334455667788",
		"mov qword [rdi], rax",
		"mov dword [rdi+4], 0",
		"mov rbx, 0",
		"mov bl, byte [rdi+1]",
		"mov rcx, qword [rdi]",
		"lea rdx, [rdi+rbx*2+8]",
	)
	assert.NoError(err)

	rbx, _ := regValue(s, x86.REG_RBX)
	assert.Equal(uint64(0x77), rbx)
	rcx, _ := regValue(s, x86.REG_RCX)
	assert.Equal(uint64(0x55667788), rcx)
	rdx, _ := regValue(s, x86.REG_RDX)
	assert.Equal(uint64(0x1000+0x77*2+8), rdx)

	s, err = run("mov rsp, 0x2000", "mov rax, 42", "push rax", "push 7", "pop rbx", "pop rcx")
	assert.NoError(err)
	rbx, _ = regValue(s, x86.REG_RBX)
	assert.Equal(uint64(7), rbx)
	rcx, _ = regValue(s, x86.REG_RCX)
	assert.Equal(uint64(42), rcx)
	rsp, _ := regValue(s, x86.REG_RSP)
	assert.Equal(uint64(0x2000), rsp)

	// An unknown address may alias.
	s, err = run("mov rdi, 0x1000", "mov byte [rdi], 1", "mov byte [rsi], 2", "mov rax, 0", "mov al, byte [rdi]")
	assert.NoError(err)
	_, ok := regValue(s, x86.REG_RAX)
	assert.False(ok)

	// A copied address is the same address.
	s, err = run("mov rdi, rsi", "mov byte [rsi], 1", "mov byte [rdi], 2", "mov rax, 0", "mov al, byte [rsi]")
	assert.NoError(err)
	rax, ok := regValue(s, x86.REG_RAX)
	assert.True(ok)
	assert.Equal(uint64(2), rax)

	// Different address expressions the solver proves equal.
	s, err = run("lea rdi, [rsi+rsi]", "mov byte [rsi*2], 1", "mov byte [rdi], 2", "mov rax, 0", "mov al, byte [rsi*2]")
	assert.NoError(err)
	a := s.Tools().Arena()
	assert.Equal(tv.ONE, s.EqualValues(s.Reg(x86.REG_AL), a.BVConst(2, 8)))
	al, ok := s.GetTvArray(x86.REG_AL).ToUint64()
	assert.True(ok)
	assert.Equal(uint64(2), al)
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	s, err := run("mov rdi, 0x1000", "mov rcx, 3", "mov rax, 0xab", "cld", "rep stosb")
	assert.NoError(err)
	assert.Equal("ababab", s.GetTvArrayMem(0x1000, 3).Hex())
	rdi, _ := regValue(s, x86.REG_RDI)
	assert.Equal(uint64(0x1003), rdi)
	rcx, _ := regValue(s, x86.REG_RCX)
	assert.Equal(uint64(0), rcx)

	s, err = run("mov rsi, 0x1000", "mov rdi, 0x2000", "mov word [rsi], 0x1234", "std", "movsw")
	assert.NoError(err)
	assert.Equal("1234", s.GetTvArrayMem(0x2000, 2).Hex())
	rsi, _ := regValue(s, x86.REG_RSI)
	assert.Equal(uint64(0x0ffe), rsi)

	// Past the modelled iterations the pointer and memory are unknown.
	s, err = run("mov rdi, 0x1000", "mov rcx, 100", "mov rax, 0", "cld", "rep stosq")
	assert.NoError(err)
	rcx, _ = regValue(s, x86.REG_RCX)
	assert.Equal(uint64(0), rcx)
	_, ok := regValue(s, x86.REG_RDI)
	assert.False(ok)
	assert.Equal("??", s.GetTvArrayMem(0x1000, 1).Hex())

	// An unknown count does not bound the path.
	s, err = run("mov rdi, 0x1000", "mov rax, 0", "cld", "rep stosb")
	assert.NoError(err)
	assert.Equal(0, s.BranchInfo().Len())
	assert.Equal("??", s.GetTvArrayMem(0x1000, 1).Hex())
	rcx, _ = regValue(s, x86.REG_RCX)
	assert.Equal(uint64(0), rcx)
}

func TestFlagOps(t *testing.T) {
	assert := assert.New(t)

	s, err := run("stc", "cmc", "std", "mov rax, 0", "lahf", "stc", "sahf")
	assert.NoError(err)
	cf, _ := flagValue(s, x86.FLAG_CF)
	assert.False(cf)
	df, _ := flagValue(s, x86.FLAG_DF)
	assert.True(df)

	// SAHF reads AH, not AL.
	s, err = run("mov rax, 0x0100", "clc", "sahf")
	assert.NoError(err)
	cf, ok := flagValue(s, x86.FLAG_CF)
	assert.True(ok)
	assert.True(cf)

	// LAHF writes AH and keeps AL.
	s, err = run("mov rax, 0x55", "mov rbx, 0", "add rbx, 0", "stc", "lahf")
	assert.NoError(err)
	ax, ok := regValue(s, x86.REG_AX)
	assert.True(ok)
	assert.Equal(uint64(0x4755), ax)
	ah, _ := regValue(s, x86.REG_AH)
	assert.Equal(uint64(0x47), ah)

	s, err = run("mov rax, 1", "mov rbx, 2", "cmp rax, rbx", "setb cl", "setz dl")
	assert.NoError(err)
	cl, _ := regValue(s, x86.REG_CL)
	assert.Equal(uint64(1), cl)
	dl, _ := regValue(s, x86.REG_DL)
	assert.Equal(uint64(0), dl)

	s, err = run("mov rax, 0x80", "cbw", "cwde", "cdqe", "cqo")
	assert.NoError(err)
	rax, _ := regValue(s, x86.REG_RAX)
	assert.Equal(uint64(0xffffffffffffff80), rax)
	rdx, _ := regValue(s, x86.REG_RDX)
	assert.Equal(uint64(0xffffffffffffffff), rdx)
}

func TestBranching(t *testing.T) {
	assert := assert.New(t)

	// A decided condition produces one update.
	s, err := run("mov rax, 1", "mov rbx, 2", "cmp rax, rbx")
	assert.NoError(err)
	step, err := execute(s, "cmove rax, rbx")
	assert.NoError(err)
	assert.True(step.HasRegular)
	assert.False(step.HasBranch)
	rax, _ := regValue(s, x86.REG_RAX)
	assert.Equal(uint64(1), rax)

	step, err = execute(s, "jb done")
	assert.NoError(err)
	assert.False(step.HasRegular)
	assert.True(step.HasBranch)

	// An open condition produces both.
	s = sim.NewState(testTools())
	step, err = execute(s, "cmovz eax, ebx")
	assert.NoError(err)
	assert.True(step.HasRegular)
	assert.True(step.HasBranch)
	assert.False(step.Regular.BranchInfo.Taken)
	assert.True(step.Branch.BranchInfo.Taken)
	assert.Equal(step.Regular.BranchInfo.Key(), step.Branch.BranchInfo.Key())
	assert.Contains(step.Regular.Written(), sim.RegLoc(x86.REG_RAX))

	step, err = execute(s, "jnz done")
	assert.NoError(err)
	assert.True(step.HasRegular)
	assert.True(step.HasBranch)

	step, err = execute(s, "jmp done")
	assert.NoError(err)
	assert.False(step.HasRegular)
	assert.True(step.HasBranch)

	step, err = execute(s, "ret")
	assert.NoError(err)
	assert.False(step.HasRegular)
	assert.False(step.HasBranch)

	s, err = run("mov rcx, 2")
	assert.NoError(err)
	step, err = execute(s, "loop top")
	assert.NoError(err)
	assert.False(step.HasRegular)
	assert.True(step.HasBranch)
	rcx, _ := regValue(s, x86.REG_RCX)
	assert.Equal(uint64(1), rcx)
}

func TestErrors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		line string
		err  error
	}{
		{"mov rax, ebx", ErrOperandWidth},
		{"add rax", ErrOperandCount},
		{"mov [rax], 1", ErrOperandSize},
		{"mov 1, rax", ErrOperandKind},
		{"bswap ax", ErrOperandWidth},
		{"jmp rax", ErrOperandKind},
		{"shl rax, rbx", ErrOperandKind},
	}

	for _, entry := range table {
		_, err := run(entry.line)
		assert.ErrorIs(err, entry.err, entry.line)
		var operr ErrOperand
		assert.ErrorAs(err, &operr, entry.line)
	}
}

func TestStatic(t *testing.T) {
	assert := assert.New(t)

	line, err := asm.ParseLine("add eax, dword [rbx+rcx*4]")
	assert.NoError(err)
	reads, err := StaticReads(&line)
	assert.NoError(err)
	assert.Equal([]sim.Loc{sim.RegLoc(x86.REG_RAX), sim.RegLoc(x86.REG_RBX), sim.RegLoc(x86.REG_RCX), sim.MemLoc}, reads)
	writes, err := StaticWrites(&line)
	assert.NoError(err)
	assert.Len(writes, 7)
	assert.Contains(writes, sim.RegLoc(x86.REG_RAX))
	assert.Contains(writes, sim.FlagLoc(x86.FLAG_OF))
	assert.NotContains(writes, sim.MemLoc)

	// A partial write keeps the rest of the family.
	line, _ = asm.ParseLine("mov bl, 1")
	reads, _ = StaticReads(&line)
	assert.Equal([]sim.Loc{sim.RegLoc(x86.REG_RBX)}, reads)
	line, _ = asm.ParseLine("mov ebx, 1")
	reads, _ = StaticReads(&line)
	assert.Empty(reads)

	line, _ = asm.ParseLine("imul rbx")
	writes, _ = StaticWrites(&line)
	assert.Contains(writes, sim.RegLoc(x86.REG_RDX))
	line, _ = asm.ParseLine("imul rbx, rcx")
	writes, _ = StaticWrites(&line)
	assert.NotContains(writes, sim.RegLoc(x86.REG_RDX))

	var lines []asm.Line
	for _, text := range []string{"mov rax, 1", "jz done", "mov qword [rsi], rax"} {
		line, err := asm.ParseLine(text)
		assert.NoError(err)
		lines = append(lines, line)
	}
	assert.Equal("ZF,rax,rsi,MEM", Usage(lines).String())
}
