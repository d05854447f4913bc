package asm

import (
	"fmt"
	"maps"
	"strings"
)

// Macro is a named block of lines, expanded at each use with its
// parameters bound as equates.
type Macro struct {
	Name   string
	LineNo int      // Source line of the first body line.
	Params []string // Parameter names.
	Body   []string // Body lines, remarks removed.
}

// splitList splits a comma separated list, trimming each item.
func splitList(text string) (items []string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}
	for _, item := range strings.Split(text, ",") {
		items = append(items, strings.TrimSpace(item))
	}
	return
}

// define starts recording ".macro NAME [param, ...]".
func (asm *Assembler) define(words []string, lineno int) (macro *Macro, err error) {
	if len(words) < 2 {
		err = ErrMacroSyntax
		return
	}
	name := words[1]
	if _, ok := asm.Macros[name]; ok {
		err = ErrMacroDuplicate
		return
	}

	macro = &Macro{
		Name:   name,
		LineNo: lineno + 1,
		Params: splitList(strings.Join(words[2:], " ")),
	}
	asm.Macros[name] = macro
	return
}

// invoke expands a macro use. '@' in the body becomes a prefix unique to
// this use, for local labels. The labels of the use name the first
// expanded line.
func (asm *Assembler) invoke(use Line, macro *Macro, argText string) (err error) {
	args := splitList(argText)
	if len(args) != len(macro.Params) {
		err = ErrMacroSyntax
		return
	}

	saved := maps.Clone(asm.Equates)
	defer func() { asm.Equates = saved }()
	for n, param := range macro.Params {
		asm.Equates[param] = args[n]
	}

	local := fmt.Sprintf("%v_%v_", macro.Name, use.LineNo)
	first := len(asm.Lines)
	for n, text := range macro.Body {
		lineno := macro.LineNo + n
		err = asm.parseLine(strings.ReplaceAll(text, "@", local), lineno)
		if err != nil {
			err = &ErrMacro{Macro: macro.Name, Line: lineno, Err: err}
			return
		}
	}

	if first == len(asm.Lines) {
		asm.Lines = append(asm.Lines, use)
		return
	}
	asm.Lines[first].Labels = append(use.Labels, asm.Lines[first].Labels...)
	return
}
