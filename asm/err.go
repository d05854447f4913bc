package asm

import (
	"errors"

	"github.com/ezrec/asmsim/translate"
)

var f = translate.From

var (
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelSyntax      = errors.New(f("label syntax"))
	ErrMacroSyntax      = errors.New(f(".macro syntax"))
	ErrMacroNesting     = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate   = errors.New(f(".macro duplicated"))
	ErrMacroLonely      = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm  = errors.New(f(".endm without .macro"))
	ErrMnemonicInvalid  = errors.New(f("mnemonic invalid"))
	ErrPrefixInvalid    = errors.New(f("prefix invalid"))
	ErrDirectiveInvalid = errors.New(f("directive invalid"))
)

type ErrLabelMissing string

func (err ErrLabelMissing) Error() string {
	return f("label %v missing", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseOperand string

func (err ErrParseOperand) Error() string {
	return f("'%v' is not a register, memory reference, value or label", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
