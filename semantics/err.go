package semantics

import (
	"errors"

	"github.com/ezrec/asmsim/translate"
	"github.com/ezrec/asmsim/x86"
)

var f = translate.From

var (
	ErrNoSemantics   = errors.New(f("mnemonic has no semantics"))
	ErrOperandCount  = errors.New(f("wrong number of operands"))
	ErrOperandKind   = errors.New(f("operand kind not supported"))
	ErrOperandWidth  = errors.New(f("operand width not supported"))
	ErrOperandSize   = errors.New(f("operand size not known"))
	ErrImmediateZero = errors.New(f("immediate divisor is zero"))
)

// ErrOperand reports an operand a semantic unit cannot execute.
type ErrOperand struct {
	Mnemonic x86.Mnemonic
	Operand  int // Operand index, or -1 for the instruction as a whole.
	Err      error
}

func (err ErrOperand) Error() string {
	if err.Operand < 0 {
		return f("%v: %v", err.Mnemonic, err.Err)
	}
	return f("%v: operand %d: %v", err.Mnemonic, err.Operand+1, err.Err)
}

func (err ErrOperand) Unwrap() error {
	return err.Err
}
