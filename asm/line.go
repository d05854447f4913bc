package asm

import (
	"strings"

	"github.com/ezrec/asmsim/x86"
)

// Prefix is a repeat prefix of a string instruction.
type Prefix int

//go:generate go tool stringer -linecomment -type=Prefix
const (
	PREFIX_NONE  = Prefix(0) // none
	PREFIX_REP   = Prefix(1) // rep
	PREFIX_REPE  = Prefix(2) // repe
	PREFIX_REPNE = Prefix(3) // repne
)

var prefixMap = map[string]Prefix{
	"rep":   PREFIX_REP,
	"repe":  PREFIX_REPE,
	"repz":  PREFIX_REPE,
	"repne": PREFIX_REPNE,
	"repnz": PREFIX_REPNE,
}

// Line is one parsed assembly line. Empty and label only lines have the
// mnemonic MN_NONE.
type Line struct {
	LineNo   int          // Source line number, starting at 1.
	Text     string       // Source text, without remark.
	Labels   []string     // Labels defined on this line.
	Prefix   Prefix       // Repeat prefix.
	Mnemonic x86.Mnemonic // Instruction mnemonic.
	Operands []Operand    // Instruction operands.
	Target   int          // Program line of the jump target, or -1.
}

// IsEmpty returns true for lines without an instruction.
func (line *Line) IsEmpty() bool {
	return line.Mnemonic == x86.MN_NONE
}

func (line *Line) String() string {
	var sb strings.Builder
	for _, label := range line.Labels {
		sb.WriteString(label)
		sb.WriteString(": ")
	}
	if line.IsEmpty() {
		return strings.TrimSpace(sb.String())
	}
	if line.Prefix != PREFIX_NONE {
		sb.WriteString(line.Prefix.String())
		sb.WriteString(" ")
	}
	sb.WriteString(line.Mnemonic.String())
	for n, op := range line.Operands {
		if n == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(op.String())
	}
	return sb.String()
}

// splitLabels removes the leading "label:" words of a line.
func splitLabels(text string) (labels []string, rest string, err error) {
	rest = strings.TrimSpace(text)
	for {
		word, after, _ := strings.Cut(rest, " ")
		name, ok := strings.CutSuffix(word, ":")
		if !ok {
			// "label:mov" without a space.
			head, tail, found := strings.Cut(word, ":")
			if !found || strings.ContainsAny(head, "[]") {
				return
			}
			name, after = head, tail+" "+after
		}
		if !reIdentifier.MatchString(name) {
			err = ErrLabelSyntax
			return
		}
		labels = append(labels, name)
		rest = strings.TrimSpace(after)
	}
}

// parseInstruction parses "[prefix] mnemonic [operand[, operand]...]".
func parseInstruction(line *Line, text string) (err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	word, rest, _ := strings.Cut(text, " ")
	if prefix, ok := prefixMap[strings.ToLower(word)]; ok {
		line.Prefix = prefix
		word, rest, _ = strings.Cut(strings.TrimSpace(rest), " ")
	}

	mn, ok := x86.ParseMnemonic(word)
	if !ok {
		err = ErrMnemonicInvalid
		return
	}
	line.Mnemonic = mn

	if line.Prefix != PREFIX_NONE && mn.StringWidth() == 0 {
		err = ErrPrefixInvalid
		return
	}

	rest = strings.TrimSpace(rest)
	if len(rest) == 0 {
		return
	}

	for _, item := range strings.Split(rest, ",") {
		var op Operand
		op, err = ParseOperand(item)
		if err != nil {
			return
		}
		line.Operands = append(line.Operands, op)
	}

	return
}

// stripRemark removes a trailing "; remark".
func stripRemark(text string) string {
	code, _, _ := strings.Cut(text, ";")
	return strings.TrimSpace(code)
}

// ParseLine parses a single line without directives or macros. Jump
// targets are left unresolved.
func ParseLine(text string) (line Line, err error) {
	line.Text = stripRemark(text)
	line.Target = -1

	labels, rest, err := splitLabels(line.Text)
	if err != nil {
		return
	}
	line.Labels = labels

	err = parseInstruction(&line, rest)
	return
}
