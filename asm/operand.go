package asm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ezrec/asmsim/x86"
)

// Kind is the kind of an instruction operand.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_NONE  = Kind(0) // none
	KIND_REG   = Kind(1) // reg
	KIND_MEM   = Kind(2) // mem
	KIND_IMM   = Kind(3) // imm
	KIND_LABEL = Kind(4) // label
)

// Memory is an effective address [base + scale*index + disp].
type Memory struct {
	Base  x86.Register
	Index x86.Register
	Scale int
	Disp  int64
}

// Operand is one parsed operand.
type Operand struct {
	Kind  Kind
	Reg   x86.Register // KIND_REG
	Mem   Memory       // KIND_MEM
	Width int          // Register width, or explicit memory width (0 if not given).
	Imm   int64        // KIND_IMM
	Label string       // KIND_LABEL
	Text  string       // Source text.
}

// Reads reports the registers read to compute a memory address.
func (m Memory) Reads() (regs []x86.Register) {
	if m.Base.Valid() {
		regs = append(regs, m.Base)
	}
	if m.Index.Valid() {
		regs = append(regs, m.Index)
	}
	return
}

func (m Memory) String() string {
	var sb strings.Builder
	if m.Base.Valid() {
		sb.WriteString(m.Base.String())
	}
	if m.Index.Valid() {
		if sb.Len() > 0 {
			sb.WriteString("+")
		}
		sb.WriteString(m.Index.String())
		if m.Scale > 1 {
			fmt.Fprintf(&sb, "*%d", m.Scale)
		}
	}
	switch {
	case sb.Len() == 0:
		fmt.Fprintf(&sb, "%#x", uint64(m.Disp))
	case m.Disp > 0:
		fmt.Fprintf(&sb, "+%#x", m.Disp)
	case m.Disp < 0:
		fmt.Fprintf(&sb, "-%#x", -m.Disp)
	}
	return "[" + sb.String() + "]"
}

var widthName = map[int]string{
	8:  "byte",
	16: "word",
	32: "dword",
	64: "qword",
}

var widthKeyword = map[string]int{
	"byte":  8,
	"word":  16,
	"dword": 32,
	"qword": 64,
}

func (op Operand) String() string {
	switch op.Kind {
	case KIND_REG:
		return op.Reg.String()
	case KIND_MEM:
		if name, ok := widthName[op.Width]; ok {
			return name + " ptr " + op.Mem.String()
		}
		return op.Mem.String()
	case KIND_IMM:
		return strconv.FormatInt(op.Imm, 10)
	case KIND_LABEL:
		return op.Label
	}
	return ""
}

// ParseNumber parses an integer in decimal, 0x or h suffixed hex, 0b or b
// suffixed binary, with optional '_' separators and leading '-'.
func ParseNumber(word string) (value int64, err error) {
	text := strings.ReplaceAll(strings.ToLower(word), "_", "")
	negative := false
	if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
		negative = text[0] == '-'
		text = text[1:]
	}

	base := 10
	prefixed := false
	switch {
	case strings.HasPrefix(text, "0x"):
		base, prefixed = 16, true
		text = text[2:]
	case strings.HasPrefix(text, "0b") && len(text) > 2 && !strings.HasSuffix(text, "h"):
		base, prefixed = 2, true
		text = text[2:]
	case strings.HasSuffix(text, "h"):
		base = 16
		text = text[:len(text)-1]
	case strings.HasSuffix(text, "b"):
		base = 2
		text = text[:len(text)-1]
	}

	// A suffixed hex number must start with a digit, else it is a name.
	if len(text) == 0 || (!prefixed && (text[0] < '0' || text[0] > '9')) {
		err = ErrParseNumber(word)
		return
	}

	u, perr := strconv.ParseUint(text, base, 64)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int64(u)
	if negative {
		value = -value
	}
	return
}

var reIdentifier = regexp.MustCompile(`^[A-Za-z_.@][A-Za-z0-9_.@]*$`)

// ParseOperand parses a single operand.
func ParseOperand(text string) (op Operand, err error) {
	op.Text = strings.TrimSpace(text)
	word := op.Text
	lower := strings.ToLower(word)

	// Optional "<width> [ptr]" before a memory reference.
	for keyword, width := range widthKeyword {
		rest, ok := strings.CutPrefix(lower, keyword)
		if !ok || len(rest) == 0 || (rest[0] != ' ' && rest[0] != '[') {
			continue
		}
		rest = strings.TrimSpace(rest)
		if after, ok := strings.CutPrefix(rest, "ptr"); ok {
			rest = strings.TrimSpace(after)
		}
		if !strings.HasPrefix(rest, "[") {
			err = ErrParseOperand(op.Text)
			return
		}
		op.Width = width
		word = word[len(word)-len(rest):]
		lower = rest
		break
	}

	if strings.HasPrefix(lower, "[") {
		if !strings.HasSuffix(lower, "]") {
			err = ErrParseOperand(op.Text)
			return
		}
		op.Kind = KIND_MEM
		op.Mem, err = parseMemory(lower[1 : len(lower)-1])
		if err != nil {
			err = ErrParseOperand(op.Text)
		}
		return
	}

	if op.Width != 0 {
		err = ErrParseOperand(op.Text)
		return
	}

	if reg, ok := x86.ParseRegister(lower); ok {
		op.Kind = KIND_REG
		op.Reg = reg
		op.Width = reg.Width()
		return
	}

	if value, nerr := ParseNumber(word); nerr == nil {
		op.Kind = KIND_IMM
		op.Imm = value
		return
	}

	if reIdentifier.MatchString(word) {
		op.Kind = KIND_LABEL
		op.Label = word
		return
	}

	err = ErrParseOperand(op.Text)
	return
}

// parseMemory parses the inside of a memory reference.
func parseMemory(text string) (mem Memory, err error) {
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, "-", "+-")
	for _, term := range strings.Split(text, "+") {
		if len(term) == 0 {
			continue
		}

		scale := 1
		name := term
		if left, right, ok := strings.Cut(term, "*"); ok {
			if n, nerr := ParseNumber(right); nerr == nil {
				name, scale = left, int(n)
			} else if n, nerr := ParseNumber(left); nerr == nil {
				name, scale = right, int(n)
			} else {
				err = ErrParseOperand(term)
				return
			}
			switch scale {
			case 1, 2, 4, 8:
			default:
				err = ErrParseOperand(term)
				return
			}
		}

		if reg, ok := x86.ParseRegister(name); ok {
			if reg.Width() < 32 {
				err = ErrParseOperand(term)
				return
			}
			switch {
			case scale == 1 && !mem.Base.Valid():
				mem.Base = reg
			case !mem.Index.Valid():
				mem.Index = reg
				mem.Scale = scale
			default:
				err = ErrParseOperand(term)
				return
			}
			continue
		}

		if scale != 1 {
			err = ErrParseOperand(term)
			return
		}

		var disp int64
		disp, err = ParseNumber(name)
		if err != nil {
			return
		}
		mem.Disp += disp
	}
	return
}
