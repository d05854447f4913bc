package asm

import (
	"strings"
)

// Program is an assembled sequence of lines. Line indexes start at 0.
type Program struct {
	Lines  []Line
	Labels map[string]int
}

// Link resolves the label operand of every jump to a line index.
func (prog *Program) Link() (err error) {
	for n := range prog.Lines {
		line := &prog.Lines[n]
		line.Target = -1
		if !line.Mnemonic.IsJump() {
			continue
		}
		for _, op := range line.Operands {
			if op.Kind != KIND_LABEL {
				continue
			}
			target, ok := prog.Labels[op.Label]
			if !ok {
				err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: ErrLabelMissing(op.Label)}
				return
			}
			line.Target = target
		}
	}
	return
}

// Len returns the number of lines.
func (prog *Program) Len() int {
	return len(prog.Lines)
}

func (prog *Program) String() string {
	var sb strings.Builder
	for n := range prog.Lines {
		sb.WriteString(prog.Lines[n].String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// ParseString assembles a program with a default Assembler.
func ParseString(text string) (prog *Program, err error) {
	var asm Assembler
	return asm.ParseString(text)
}
