package asm

import (
	"regexp"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParen     = regexp.MustCompile(`\$\([^\$]*\)`)
	reWord      = regexp.MustCompile(`[A-Za-z_.@][A-Za-z0-9_.@]*`)
)

// escapes are the backslash sequences allowed in a character literal.
var escapes = map[byte]byte{
	'\\': '\\',
	'n':  '\n',
	'r':  '\r',
	'e':  0x1b,
	'0':  0,
}

// MAX_SUBSTITUTIONS bounds the rounds of equate replacement, so that
// self referencing equates terminate.
const MAX_SUBSTITUTIONS = 16

// character converts a quoted character literal to its decimal value.
// Unknown escapes are left alone.
func character(literal string) string {
	body := literal[1 : len(literal)-1]
	c := body[0]
	if c == '\\' {
		var ok bool
		c, ok = escapes[body[1]]
		if !ok {
			return literal
		}
	}
	return strconv.Itoa(int(c))
}

// globals returns the integer valued equates as starlark values.
// Equates naming registers or other text are left out.
func (asm *Assembler) globals() starlark.StringDict {
	globals := make(starlark.StringDict, len(asm.Equates))
	for name, text := range asm.Equates {
		if value, err := ParseNumber(text); err == nil {
			globals[name] = starlark.MakeInt64(value)
		}
	}
	return globals
}

// evaluate computes the integer value of a $(...) expression.
func (asm *Assembler) evaluate(text string) (value int64, err error) {
	err = ErrParseExpression(text)

	var thread starlark.Thread
	result, eerr := starlark.EvalOptions(&syntax.FileOptions{}, &thread, "$()", text, asm.globals())
	if eerr != nil {
		return
	}

	number, ok := result.(starlark.Int)
	if !ok {
		return
	}
	value, ok = number.Int64()
	if !ok {
		return
	}

	err = nil
	return
}

// substitute rewrites operand text: character literals become numbers,
// $(...) expressions are evaluated, then equates are replaced until
// nothing changes.
func (asm *Assembler) substitute(text string) (out string, err error) {
	out = reCharacter.ReplaceAllStringFunc(text, character)

	out = reParen.ReplaceAllStringFunc(out, func(paren string) string {
		value, verr := asm.evaluate(paren[2 : len(paren)-1])
		if verr != nil && err == nil {
			err = verr
		}
		return strconv.FormatInt(value, 10)
	})
	if err != nil {
		out = ""
		return
	}

	for round := 0; round < MAX_SUBSTITUTIONS; round++ {
		changed := false
		out = reWord.ReplaceAllStringFunc(out, func(word string) string {
			if replacement, ok := asm.Equates[word]; ok && replacement != word {
				changed = true
				return replacement
			}
			return word
		})
		if !changed {
			break
		}
	}
	return
}
