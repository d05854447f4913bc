package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/asmsim/x86"
)

func TestParseNumber(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		text   string
		expect int64
		ok     bool
	}{
		{"10", 10, true},
		{"-3", -3, true},
		{"0x1f", 0x1f, true},
		{"0FFh", 0xff, true},
		{"1010b", 10, true},
		{"0b1010", 10, true},
		{"1_000", 1000, true},
		{"0xffff_ffff_ffff_ffff", -1, true},
		{"ffh", 0, false},
		{"12b", 0, false},
		{"label", 0, false},
		{"", 0, false},
	}

	for _, entry := range table {
		value, err := ParseNumber(entry.text)
		if entry.ok {
			assert.NoError(err, entry.text)
			assert.Equal(entry.expect, value, entry.text)
		} else {
			assert.Error(err, entry.text)
		}
	}
}

func TestParseOperand(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		text   string
		expect Operand
	}{
		{"rax", Operand{Kind: KIND_REG, Reg: x86.REG_RAX, Width: 64}},
		{"AH", Operand{Kind: KIND_REG, Reg: x86.REG_AH, Width: 8}},
		{"42", Operand{Kind: KIND_IMM, Imm: 42}},
		{"done", Operand{Kind: KIND_LABEL, Label: "done"}},
		{"[rax]", Operand{Kind: KIND_MEM, Mem: Memory{Base: x86.REG_RAX}}},
		{"qword ptr [rax + rbx*8 - 0x10]", Operand{Kind: KIND_MEM, Width: 64,
			Mem: Memory{Base: x86.REG_RAX, Index: x86.REG_RBX, Scale: 8, Disp: -16}}},
		{"byte [4*rsi+1]", Operand{Kind: KIND_MEM, Width: 8,
			Mem: Memory{Index: x86.REG_RSI, Scale: 4, Disp: 1}}},
		{"DWORD PTR [0x1000]", Operand{Kind: KIND_MEM, Width: 32, Mem: Memory{Disp: 0x1000}}},
	}

	for _, entry := range table {
		op, err := ParseOperand(entry.text)
		if !assert.NoError(err, entry.text) {
			continue
		}
		entry.expect.Text = entry.text
		assert.Equal(entry.expect, op, entry.text)
	}

	for _, text := range []string{"[rax", "qword rax", "[ax]", "[rax*3]", "[rax+rbx+rcx]", "1x"} {
		_, err := ParseOperand(text)
		var target ErrParseOperand
		assert.True(errors.As(err, &target), text)
	}
}

func TestParseLine(t *testing.T) {
	assert := assert.New(t)

	line, err := ParseLine("loop: top: add rax, [rbx+8] ; remark")
	assert.NoError(err)
	assert.Equal([]string{"loop", "top"}, line.Labels)
	assert.Equal(x86.MN_ADD, line.Mnemonic)
	assert.Equal(2, len(line.Operands))
	assert.Equal(-1, line.Target)
	assert.Equal("loop: top: add rax, [rbx+0x8]", line.String())

	line, err = ParseLine("rep movsb")
	assert.NoError(err)
	assert.Equal(PREFIX_REP, line.Prefix)
	assert.Equal(x86.MN_MOVSB, line.Mnemonic)

	line, err = ParseLine("   ; nothing")
	assert.NoError(err)
	assert.True(line.IsEmpty())

	_, err = ParseLine("frobnicate rax")
	assert.ErrorIs(err, ErrMnemonicInvalid)

	_, err = ParseLine("rep add rax, 1")
	assert.ErrorIs(err, ErrPrefixInvalid)
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"mov rbx, 0",
		"mov rax, 3",
		"label: inc rbx",
		"dec rax",
		"jnz label",
	}

	prog, err := ParseString(strings.Join(program, "\n"))
	if !assert.NoError(err) {
		return
	}

	assert.Equal(5, prog.Len())
	assert.Equal(2, prog.Labels["label"])
	assert.Equal(2, prog.Lines[4].Target)
	assert.Equal(-1, prog.Lines[3].Target)
	assert.Equal(5, prog.Lines[4].LineNo)
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x100")

	program := []string{
		".equ COUNT $(BASE + 4)",
		".equ REG rcx",
		"mov REG, COUNT",
		"mov al, 'A'",
		"mov rdx, $(LINENO * 2)",
	}

	prog, err := asm.ParseString(strings.Join(program, "\n"))
	if !assert.NoError(err) {
		return
	}

	assert.Equal(5, prog.Len())
	assert.True(prog.Lines[0].IsEmpty())
	assert.Equal("mov rcx, 260", prog.Lines[2].String())
	assert.Equal("mov al, 65", prog.Lines[3].String())
	assert.Equal("mov rdx, 10", prog.Lines[4].String())
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".macro CLEAR reg",
		"xor reg, reg",
		"@skip: jz @skip",
		".endm",
		"start: CLEAR rax",
		"CLEAR rbx",
	}

	prog, err := ParseString(strings.Join(program, "\n"))
	if !assert.NoError(err) {
		return
	}

	assert.Equal(8, prog.Len())
	assert.Equal("start: xor rax, rax", prog.Lines[4].String())
	assert.Equal(4, prog.Labels["start"])
	assert.Equal(5, prog.Lines[5].Target)
	assert.Equal("xor rbx, rbx", prog.Lines[6].String())
	assert.Equal(7, prog.Lines[7].Target)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		program string
		lineno  int
		err     error
	}{
		{"nop\njmp nowhere", 2, ErrLabelMissing("nowhere")},
		{"a: nop\na: nop", 2, ErrLabelDuplicate},
		{".equ X 1\n.equ X 2", 2, ErrEquateDuplicate},
		{".macro M\nnop", 2, ErrMacroLonely},
		{".endm", 1, ErrMacroLonelyEndm},
		{"mov rax, $(1 +)", 1, ErrParseExpression("1 +")},
		{".bogus", 1, ErrDirectiveInvalid},
	}

	for _, entry := range table {
		_, err := ParseString(entry.program)
		var syntax *ErrSyntax
		if !assert.True(errors.As(err, &syntax), entry.program) {
			continue
		}
		assert.Equal(entry.lineno, syntax.LineNo, entry.program)
		assert.ErrorIs(err, entry.err, entry.program)
	}
}
