package main

import (
	"strings"

	"github.com/logrusorgru/aurora"
)

// colorize highlights the values of a state dump: resolved digits green,
// '?' yellow, 'U' magenta and 'X' red.
func colorize(au aurora.Aurora, text string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		name, value, ok := strings.Cut(line, " = ")
		if !ok || strings.HasPrefix(name, "ASSERT") {
			sb.WriteString(line)
			continue
		}
		sb.WriteString(name)
		sb.WriteString(" = ")
		if rest, ok := strings.CutPrefix(value, "0x"); ok {
			sb.WriteString("0x")
			value = rest
		}
		for _, c := range value {
			sb.WriteString(colorChar(au, c))
		}
	}
	return sb.String()
}

func colorChar(au aurora.Aurora, c rune) string {
	s := string(c)
	switch c {
	case '\n':
		return s
	case '?':
		return au.Yellow(s).String()
	case 'U':
		return au.Magenta(s).String()
	case 'X':
		return au.Red(s).String()
	}
	return au.Green(s).String()
}
