package x86

import (
	"iter"
	"strings"
)

// Register is an architectural general purpose register name.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_NONE = Register(0)  // none
	REG_RAX  = Register(1)  // rax
	REG_RBX  = Register(2)  // rbx
	REG_RCX  = Register(3)  // rcx
	REG_RDX  = Register(4)  // rdx
	REG_RSI  = Register(5)  // rsi
	REG_RDI  = Register(6)  // rdi
	REG_RBP  = Register(7)  // rbp
	REG_RSP  = Register(8)  // rsp
	REG_R8   = Register(9)  // r8
	REG_R9   = Register(10) // r9
	REG_R10  = Register(11) // r10
	REG_R11  = Register(12) // r11
	REG_R12  = Register(13) // r12
	REG_R13  = Register(14) // r13
	REG_R14  = Register(15) // r14
	REG_R15  = Register(16) // r15
	REG_EAX  = Register(17) // eax
	REG_EBX  = Register(18) // ebx
	REG_ECX  = Register(19) // ecx
	REG_EDX  = Register(20) // edx
	REG_ESI  = Register(21) // esi
	REG_EDI  = Register(22) // edi
	REG_EBP  = Register(23) // ebp
	REG_ESP  = Register(24) // esp
	REG_R8D  = Register(25) // r8d
	REG_R9D  = Register(26) // r9d
	REG_R10D = Register(27) // r10d
	REG_R11D = Register(28) // r11d
	REG_R12D = Register(29) // r12d
	REG_R13D = Register(30) // r13d
	REG_R14D = Register(31) // r14d
	REG_R15D = Register(32) // r15d
	REG_AX   = Register(33) // ax
	REG_BX   = Register(34) // bx
	REG_CX   = Register(35) // cx
	REG_DX   = Register(36) // dx
	REG_SI   = Register(37) // si
	REG_DI   = Register(38) // di
	REG_BP   = Register(39) // bp
	REG_SP   = Register(40) // sp
	REG_R8W  = Register(41) // r8w
	REG_R9W  = Register(42) // r9w
	REG_R10W = Register(43) // r10w
	REG_R11W = Register(44) // r11w
	REG_R12W = Register(45) // r12w
	REG_R13W = Register(46) // r13w
	REG_R14W = Register(47) // r14w
	REG_R15W = Register(48) // r15w
	REG_AL   = Register(49) // al
	REG_BL   = Register(50) // bl
	REG_CL   = Register(51) // cl
	REG_DL   = Register(52) // dl
	REG_SIL  = Register(53) // sil
	REG_DIL  = Register(54) // dil
	REG_BPL  = Register(55) // bpl
	REG_SPL  = Register(56) // spl
	REG_R8B  = Register(57) // r8b
	REG_R9B  = Register(58) // r9b
	REG_R10B = Register(59) // r10b
	REG_R11B = Register(60) // r11b
	REG_R12B = Register(61) // r12b
	REG_R13B = Register(62) // r13b
	REG_R14B = Register(63) // r14b
	REG_R15B = Register(64) // r15b
	REG_AH   = Register(65) // ah
	REG_BH   = Register(66) // bh
	REG_CH   = Register(67) // ch
	REG_DH   = Register(68) // dh
)

// MAX_FAMILY is the number of 64-bit register families.
const MAX_FAMILY = 16

type registerInfo struct {
	family Register
	width  int
	lo     int
}

var registerTable [REG_AH + 4]registerInfo

func init() {
	for n := range MAX_FAMILY {
		family := Register(n + 1)
		registerTable[REG_RAX+Register(n)] = registerInfo{family: family, width: 64}
		registerTable[REG_EAX+Register(n)] = registerInfo{family: family, width: 32}
		registerTable[REG_AX+Register(n)] = registerInfo{family: family, width: 16}
		registerTable[REG_AL+Register(n)] = registerInfo{family: family, width: 8}
	}
	for n := range 4 {
		registerTable[REG_AH+Register(n)] = registerInfo{family: REG_RAX + Register(n), width: 8, lo: 8}
	}

	registerByName = make(map[string]Register, len(registerTable))
	for r := range Registers() {
		registerByName[r.String()] = r
	}
}

// Family returns the 64-bit register containing r.
func (r Register) Family() Register {
	if !r.Valid() {
		return REG_NONE
	}
	return registerTable[r].family
}

// Width returns the width of r in bits.
func (r Register) Width() int {
	if !r.Valid() {
		return 0
	}
	return registerTable[r].width
}

// Lo returns the bit offset of r within its family.
func (r Register) Lo() int {
	if !r.Valid() {
		return 0
	}
	return registerTable[r].lo
}

// Valid returns true for every register except REG_NONE.
func (r Register) Valid() bool {
	return r > REG_NONE && int(r) < len(registerTable)
}

// IsFamily returns true for the 64-bit registers.
func (r Register) IsFamily() bool {
	return r.Valid() && r.Family() == r
}

// Resize returns the register of the same family with the given width.
// A register already of that width is returned as is, so the high byte
// registers resize to themselves at 8 bits.
func (r Register) Resize(width int) Register {
	if r.Width() == width {
		return r
	}
	family := r.Family()
	offset := family - REG_RAX
	switch width {
	case 64:
		return family
	case 32:
		return REG_EAX + offset
	case 16:
		return REG_AX + offset
	case 8:
		return REG_AL + offset
	}
	return REG_NONE
}

// Families iterates the 64-bit registers in display order.
func Families() iter.Seq[Register] {
	return func(yield func(Register) bool) {
		for r := REG_RAX; r <= REG_R15; r++ {
			if !yield(r) {
				return
			}
		}
	}
}

// Registers iterates all register names of every size.
func Registers() iter.Seq[Register] {
	return func(yield func(Register) bool) {
		for r := REG_RAX; int(r) < len(registerTable); r++ {
			if !yield(r) {
				return
			}
		}
	}
}

var registerByName map[string]Register

// ParseRegister looks up a register by name, ignoring case.
func ParseRegister(name string) (r Register, ok bool) {
	r, ok = registerByName[strings.ToLower(name)]
	return
}
