package x86

import (
	"iter"
	"strings"
)

// Mnemonic is an instruction mnemonic. MN_NONE marks an empty or label
// only line.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	MN_NONE       = Mnemonic(0)   // none
	MN_MOV        = Mnemonic(1)   // mov
	MN_MOVZX      = Mnemonic(2)   // movzx
	MN_MOVSX      = Mnemonic(3)   // movsx
	MN_MOVSXD     = Mnemonic(4)   // movsxd
	MN_LEA        = Mnemonic(5)   // lea
	MN_XCHG       = Mnemonic(6)   // xchg
	MN_XADD       = Mnemonic(7)   // xadd
	MN_BSWAP      = Mnemonic(8)   // bswap
	MN_MOVBE      = Mnemonic(9)   // movbe
	MN_CMPXCHG    = Mnemonic(10)  // cmpxchg
	MN_CMPXCHG8B  = Mnemonic(11)  // cmpxchg8b
	MN_CMPXCHG16B = Mnemonic(12)  // cmpxchg16b
	MN_PUSH       = Mnemonic(13)  // push
	MN_POP        = Mnemonic(14)  // pop
	MN_CBW        = Mnemonic(15)  // cbw
	MN_CWDE       = Mnemonic(16)  // cwde
	MN_CDQE       = Mnemonic(17)  // cdqe
	MN_CWD        = Mnemonic(18)  // cwd
	MN_CDQ        = Mnemonic(19)  // cdq
	MN_CQO        = Mnemonic(20)  // cqo
	MN_CMOVA      = Mnemonic(21)  // cmova
	MN_CMOVAE     = Mnemonic(22)  // cmovae
	MN_CMOVB      = Mnemonic(23)  // cmovb
	MN_CMOVBE     = Mnemonic(24)  // cmovbe
	MN_CMOVC      = Mnemonic(25)  // cmovc
	MN_CMOVE      = Mnemonic(26)  // cmove
	MN_CMOVG      = Mnemonic(27)  // cmovg
	MN_CMOVGE     = Mnemonic(28)  // cmovge
	MN_CMOVL      = Mnemonic(29)  // cmovl
	MN_CMOVLE     = Mnemonic(30)  // cmovle
	MN_CMOVNA     = Mnemonic(31)  // cmovna
	MN_CMOVNAE    = Mnemonic(32)  // cmovnae
	MN_CMOVNB     = Mnemonic(33)  // cmovnb
	MN_CMOVNBE    = Mnemonic(34)  // cmovnbe
	MN_CMOVNC     = Mnemonic(35)  // cmovnc
	MN_CMOVNE     = Mnemonic(36)  // cmovne
	MN_CMOVNG     = Mnemonic(37)  // cmovng
	MN_CMOVNGE    = Mnemonic(38)  // cmovnge
	MN_CMOVNL     = Mnemonic(39)  // cmovnl
	MN_CMOVNLE    = Mnemonic(40)  // cmovnle
	MN_CMOVNO     = Mnemonic(41)  // cmovno
	MN_CMOVNP     = Mnemonic(42)  // cmovnp
	MN_CMOVNS     = Mnemonic(43)  // cmovns
	MN_CMOVNZ     = Mnemonic(44)  // cmovnz
	MN_CMOVO      = Mnemonic(45)  // cmovo
	MN_CMOVP      = Mnemonic(46)  // cmovp
	MN_CMOVPE     = Mnemonic(47)  // cmovpe
	MN_CMOVPO     = Mnemonic(48)  // cmovpo
	MN_CMOVS      = Mnemonic(49)  // cmovs
	MN_CMOVZ      = Mnemonic(50)  // cmovz
	MN_SETA       = Mnemonic(51)  // seta
	MN_SETAE      = Mnemonic(52)  // setae
	MN_SETB       = Mnemonic(53)  // setb
	MN_SETBE      = Mnemonic(54)  // setbe
	MN_SETC       = Mnemonic(55)  // setc
	MN_SETE       = Mnemonic(56)  // sete
	MN_SETG       = Mnemonic(57)  // setg
	MN_SETGE      = Mnemonic(58)  // setge
	MN_SETL       = Mnemonic(59)  // setl
	MN_SETLE      = Mnemonic(60)  // setle
	MN_SETNA      = Mnemonic(61)  // setna
	MN_SETNAE     = Mnemonic(62)  // setnae
	MN_SETNB      = Mnemonic(63)  // setnb
	MN_SETNBE     = Mnemonic(64)  // setnbe
	MN_SETNC      = Mnemonic(65)  // setnc
	MN_SETNE      = Mnemonic(66)  // setne
	MN_SETNG      = Mnemonic(67)  // setng
	MN_SETNGE     = Mnemonic(68)  // setnge
	MN_SETNL      = Mnemonic(69)  // setnl
	MN_SETNLE     = Mnemonic(70)  // setnle
	MN_SETNO      = Mnemonic(71)  // setno
	MN_SETNP      = Mnemonic(72)  // setnp
	MN_SETNS      = Mnemonic(73)  // setns
	MN_SETNZ      = Mnemonic(74)  // setnz
	MN_SETO       = Mnemonic(75)  // seto
	MN_SETP       = Mnemonic(76)  // setp
	MN_SETPE      = Mnemonic(77)  // setpe
	MN_SETPO      = Mnemonic(78)  // setpo
	MN_SETS       = Mnemonic(79)  // sets
	MN_SETZ       = Mnemonic(80)  // setz
	MN_ADD        = Mnemonic(81)  // add
	MN_ADC        = Mnemonic(82)  // adc
	MN_SUB        = Mnemonic(83)  // sub
	MN_SBB        = Mnemonic(84)  // sbb
	MN_CMP        = Mnemonic(85)  // cmp
	MN_INC        = Mnemonic(86)  // inc
	MN_DEC        = Mnemonic(87)  // dec
	MN_NEG        = Mnemonic(88)  // neg
	MN_MUL        = Mnemonic(89)  // mul
	MN_IMUL       = Mnemonic(90)  // imul
	MN_DIV        = Mnemonic(91)  // div
	MN_IDIV       = Mnemonic(92)  // idiv
	MN_ADCX       = Mnemonic(93)  // adcx
	MN_ADOX       = Mnemonic(94)  // adox
	MN_DAA        = Mnemonic(95)  // daa
	MN_DAS        = Mnemonic(96)  // das
	MN_AAA        = Mnemonic(97)  // aaa
	MN_AAS        = Mnemonic(98)  // aas
	MN_AAM        = Mnemonic(99)  // aam
	MN_AAD        = Mnemonic(100) // aad
	MN_AND        = Mnemonic(101) // and
	MN_OR         = Mnemonic(102) // or
	MN_XOR        = Mnemonic(103) // xor
	MN_NOT        = Mnemonic(104) // not
	MN_TEST       = Mnemonic(105) // test
	MN_SHL        = Mnemonic(106) // shl
	MN_SAL        = Mnemonic(107) // sal
	MN_SHR        = Mnemonic(108) // shr
	MN_SAR        = Mnemonic(109) // sar
	MN_ROL        = Mnemonic(110) // rol
	MN_ROR        = Mnemonic(111) // ror
	MN_RCL        = Mnemonic(112) // rcl
	MN_RCR        = Mnemonic(113) // rcr
	MN_SHLD       = Mnemonic(114) // shld
	MN_SHRD       = Mnemonic(115) // shrd
	MN_BT         = Mnemonic(116) // bt
	MN_BTS        = Mnemonic(117) // bts
	MN_BTR        = Mnemonic(118) // btr
	MN_BTC        = Mnemonic(119) // btc
	MN_BSF        = Mnemonic(120) // bsf
	MN_BSR        = Mnemonic(121) // bsr
	MN_POPCNT     = Mnemonic(122) // popcnt
	MN_LZCNT      = Mnemonic(123) // lzcnt
	MN_TZCNT      = Mnemonic(124) // tzcnt
	MN_CLC        = Mnemonic(125) // clc
	MN_STC        = Mnemonic(126) // stc
	MN_CMC        = Mnemonic(127) // cmc
	MN_CLD        = Mnemonic(128) // cld
	MN_STD        = Mnemonic(129) // std
	MN_LAHF       = Mnemonic(130) // lahf
	MN_SAHF       = Mnemonic(131) // sahf
	MN_MOVSB      = Mnemonic(132) // movsb
	MN_MOVSW      = Mnemonic(133) // movsw
	MN_MOVSD      = Mnemonic(134) // movsd
	MN_MOVSQ      = Mnemonic(135) // movsq
	MN_STOSB      = Mnemonic(136) // stosb
	MN_STOSW      = Mnemonic(137) // stosw
	MN_STOSD      = Mnemonic(138) // stosd
	MN_STOSQ      = Mnemonic(139) // stosq
	MN_JMP        = Mnemonic(140) // jmp
	MN_JA         = Mnemonic(141) // ja
	MN_JAE        = Mnemonic(142) // jae
	MN_JB         = Mnemonic(143) // jb
	MN_JBE        = Mnemonic(144) // jbe
	MN_JC         = Mnemonic(145) // jc
	MN_JE         = Mnemonic(146) // je
	MN_JG         = Mnemonic(147) // jg
	MN_JGE        = Mnemonic(148) // jge
	MN_JL         = Mnemonic(149) // jl
	MN_JLE        = Mnemonic(150) // jle
	MN_JNA        = Mnemonic(151) // jna
	MN_JNAE       = Mnemonic(152) // jnae
	MN_JNB        = Mnemonic(153) // jnb
	MN_JNBE       = Mnemonic(154) // jnbe
	MN_JNC        = Mnemonic(155) // jnc
	MN_JNE        = Mnemonic(156) // jne
	MN_JNG        = Mnemonic(157) // jng
	MN_JNGE       = Mnemonic(158) // jnge
	MN_JNL        = Mnemonic(159) // jnl
	MN_JNLE       = Mnemonic(160) // jnle
	MN_JNO        = Mnemonic(161) // jno
	MN_JNP        = Mnemonic(162) // jnp
	MN_JNS        = Mnemonic(163) // jns
	MN_JNZ        = Mnemonic(164) // jnz
	MN_JO         = Mnemonic(165) // jo
	MN_JP         = Mnemonic(166) // jp
	MN_JPE        = Mnemonic(167) // jpe
	MN_JPO        = Mnemonic(168) // jpo
	MN_JS         = Mnemonic(169) // js
	MN_JZ         = Mnemonic(170) // jz
	MN_JCXZ       = Mnemonic(171) // jcxz
	MN_JECXZ      = Mnemonic(172) // jecxz
	MN_JRCXZ      = Mnemonic(173) // jrcxz
	MN_LOOP       = Mnemonic(174) // loop
	MN_LOOPE      = Mnemonic(175) // loope
	MN_LOOPZ      = Mnemonic(176) // loopz
	MN_LOOPNE     = Mnemonic(177) // loopne
	MN_LOOPNZ     = Mnemonic(178) // loopnz
	MN_NOP        = Mnemonic(179) // nop
	MN_RET        = Mnemonic(180) // ret
	MN_HLT        = Mnemonic(181) // hlt
	MN_UD2        = Mnemonic(182) // ud2
)

// MAX_MNEMONIC is one more than the last mnemonic.
const MAX_MNEMONIC = MN_UD2 + 1

type mnemonicInfo struct {
	cond  Cond
	width int // Element width of string instructions.
}

var (
	mnemonicTable  [MAX_MNEMONIC]mnemonicInfo
	mnemonicByName map[string]Mnemonic
)

func init() {
	mnemonicByName = make(map[string]Mnemonic, MAX_MNEMONIC)
	for mn := range Mnemonics() {
		name := mn.String()
		mnemonicByName[name] = mn

		info := &mnemonicTable[mn]
		for _, prefix := range []string{"cmov", "set", "j"} {
			if suffix, ok := strings.CutPrefix(name, prefix); ok {
				if cc, ok := ParseCond(suffix); ok {
					info.cond = cc
				}
			}
		}
	}

	for mn, width := range map[Mnemonic]int{
		MN_MOVSB: 8, MN_MOVSW: 16, MN_MOVSD: 32, MN_MOVSQ: 64,
		MN_STOSB: 8, MN_STOSW: 16, MN_STOSD: 32, MN_STOSQ: 64,
	} {
		mnemonicTable[mn].width = width
	}
}

// Mnemonics iterates every mnemonic the parser can produce, except MN_NONE.
func Mnemonics() iter.Seq[Mnemonic] {
	return func(yield func(Mnemonic) bool) {
		for mn := MN_NONE + 1; mn < MAX_MNEMONIC; mn++ {
			if !yield(mn) {
				return
			}
		}
	}
}

// ParseMnemonic looks up a mnemonic by name, ignoring case.
func ParseMnemonic(name string) (mn Mnemonic, ok bool) {
	mn, ok = mnemonicByName[strings.ToLower(name)]
	if mn == MN_NONE {
		ok = false
	}
	return
}

// Cond returns the condition code of a Jcc, SETcc or CMOVcc mnemonic.
func (mn Mnemonic) Cond() Cond {
	if mn < 0 || mn >= MAX_MNEMONIC {
		return CC_NONE
	}
	return mnemonicTable[mn].cond
}

// StringWidth returns the element width of a string instruction, or 0.
func (mn Mnemonic) StringWidth() int {
	if mn < 0 || mn >= MAX_MNEMONIC {
		return 0
	}
	return mnemonicTable[mn].width
}

// IsCmov returns true for CMOVcc.
func (mn Mnemonic) IsCmov() bool {
	return mn >= MN_CMOVA && mn <= MN_CMOVZ
}

// IsSet returns true for SETcc.
func (mn Mnemonic) IsSet() bool {
	return mn >= MN_SETA && mn <= MN_SETZ
}

// IsJcc returns true for a flag tested conditional jump.
func (mn Mnemonic) IsJcc() bool {
	return mn >= MN_JA && mn <= MN_JZ
}

// IsLoop returns true for the count register tested jumps.
func (mn Mnemonic) IsLoop() bool {
	return mn >= MN_JCXZ && mn <= MN_LOOPNZ
}

// IsJump returns true for any instruction with a label target.
func (mn Mnemonic) IsJump() bool {
	return mn == MN_JMP || mn.IsJcc() || mn.IsLoop()
}

// IsConditionalJump returns true for jumps that may fall through.
func (mn Mnemonic) IsConditionalJump() bool {
	return mn.IsJcc() || mn.IsLoop()
}

// IsTerminal returns true for instructions that end a path.
func (mn Mnemonic) IsTerminal() bool {
	return mn == MN_RET || mn == MN_HLT || mn == MN_UD2
}
