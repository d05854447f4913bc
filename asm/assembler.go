package asm

import (
	"bufio"
	"errors"
	"io"
	"log"
	"maps"
	"strconv"
	"strings"
	"unicode"
)

// Assembler is a single pass macro assembler for x86 assembly text.
// Every source line yields at least one program line, so line indexes
// follow the source outside of macro uses.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // Assembled lines.

	Labels  map[string]int    // Line index of each label.
	Equates map[string]string // Current equates.
	Macros  map[string]*Macro // Defined macros.

	predefined map[string]string
}

// Predefine sets an equate visible from the start of every Parse.
func (asm *Assembler) Predefine(name string, value string) {
	if asm.predefined == nil {
		asm.predefined = make(map[string]string)
	}
	asm.predefined[name] = value
}

func (asm *Assembler) reset() {
	asm.Lines = nil
	asm.Labels = make(map[string]int)
	asm.Macros = make(map[string]*Macro)
	asm.Equates = map[string]string{"LINENO": "0"}
	maps.Copy(asm.Equates, asm.predefined)
}

// placeholder appends a line holding only its source text.
func (asm *Assembler) placeholder(text string, lineno int) {
	asm.Lines = append(asm.Lines, Line{LineNo: lineno, Text: text, Target: -1})
}

// equate handles ".equ NAME VALUE".
func (asm *Assembler) equate(rest string) (err error) {
	fields := strings.Fields(rest)
	if len(fields) < 3 {
		err = ErrEquateSyntax
		return
	}
	name := fields[1]
	if _, ok := asm.Equates[name]; ok {
		err = ErrEquateDuplicate
		return
	}
	value, err := asm.substitute(strings.Join(fields[2:], " "))
	if err != nil {
		return
	}
	asm.Equates[name] = value
	return
}

// parseLine assembles one line outside of a macro definition.
func (asm *Assembler) parseLine(text string, lineno int) (err error) {
	asm.Equates["LINENO"] = strconv.Itoa(lineno)

	line := Line{LineNo: lineno, Text: stripRemark(text), Target: -1}
	line.Labels, text, err = splitLabels(line.Text)
	if err != nil {
		return
	}
	for _, label := range line.Labels {
		if _, ok := asm.Labels[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Labels[label] = len(asm.Lines)
	}

	head, args := text, ""
	if n := strings.IndexFunc(text, unicode.IsSpace); n >= 0 {
		head, args = text[:n], strings.TrimSpace(text[n:])
	}

	switch {
	case head == ".equ":
		if err = asm.equate(text); err != nil {
			return
		}
	case strings.HasPrefix(head, "."):
		err = ErrDirectiveInvalid
		return
	case asm.Macros[head] != nil:
		return asm.invoke(line, asm.Macros[head], args)
	case len(head) > 0:
		args, err = asm.substitute(args)
		if err != nil {
			return
		}
		if err = parseInstruction(&line, head+" "+args); err != nil {
			return
		}
		if asm.Verbose {
			log.Printf("asm: %d: %v", len(asm.Lines), line.String())
		}
	}

	asm.Lines = append(asm.Lines, line)
	return
}

// Parse assembles an input stream into a linked Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var lineno int
	var text string

	defer func() {
		var syntax *ErrSyntax
		if err != nil && !errors.As(err, &syntax) {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
		}
	}()

	asm.reset()

	// The macro being recorded.
	var recording *Macro

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lineno++
		source := scanner.Text()
		text = stripRemark(source)
		words := strings.Fields(text)

		directive := ""
		if len(words) > 0 {
			directive = words[0]
		}

		switch {
		case directive == ".macro":
			if recording != nil {
				err = ErrMacroNesting
				return
			}
			recording, err = asm.define(words, lineno)
			if err != nil {
				return
			}
			asm.placeholder(text, lineno)
		case directive == ".endm":
			if recording == nil {
				err = ErrMacroLonelyEndm
				return
			}
			recording = nil
			asm.placeholder(text, lineno)
		case recording != nil:
			recording.Body = append(recording.Body, text)
			asm.placeholder("", lineno)
		default:
			if err = asm.parseLine(source, lineno); err != nil {
				return
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if recording != nil {
		err = ErrMacroLonely
		return
	}

	prog = &Program{
		Lines:  asm.Lines,
		Labels: maps.Clone(asm.Labels),
	}
	if err = prog.Link(); err != nil {
		prog = nil
	}
	return
}

// ParseString assembles a program from text.
func (asm *Assembler) ParseString(text string) (prog *Program, err error) {
	return asm.Parse(strings.NewReader(text))
}
