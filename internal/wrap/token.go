package wrap

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Unit is one indivisible piece of inline content. Source is emitted
// verbatim; Display is what gets measured.
type Unit struct {
	Source     string
	Display    string
	Width      int
	BreakAfter bool // a line may end right after this unit
	Blank      bool // whitespace only; dropped at the start of a line
}

// breakSet lists the characters a line may end after, besides whitespace.
const breakSet = " \t" +
	"，。,.;；：:、" +
	"!！?？" +
	")）]】}》〉" +
	"/"

// Tokenize splits s into units. At each position it tries, in order, a code
// span, a link, a raw tag and finally a single character. Concatenating the
// Source of every unit yields s again.
func Tokenize(s string) []Unit {
	var units []Unit
	for i := 0; i < len(s); {
		rest := s[i:]
		if u, ok := codeSpan(rest); ok {
			units = append(units, u)
			i += len(u.Source)
			continue
		}
		if u, ok := link(rest); ok {
			units = append(units, u)
			i += len(u.Source)
			continue
		}
		if u, ok := tag(rest); ok {
			units = append(units, u)
			i += len(u.Source)
			continue
		}
		u := char(rest)
		units = append(units, u)
		i += len(u.Source)
	}
	return units
}

// codeSpan matches a backtick run closed by the next identical run.
func codeSpan(s string) (Unit, bool) {
	if !strings.HasPrefix(s, "`") {
		return Unit{}, false
	}
	run := len(s) - len(strings.TrimLeft(s, "`"))
	delim := s[:run]
	j := strings.Index(s[run:], delim)
	if j < 0 {
		return Unit{}, false
	}
	inner := s[run : run+j]
	return Unit{
		Source:     s[:run+j+run],
		Display:    inner,
		Width:      Width(inner),
		BreakAfter: true,
	}, true
}

// link matches [label](target). The label may not contain ']' and the
// target ends at the first ')'.
func link(s string) (Unit, bool) {
	if !strings.HasPrefix(s, "[") {
		return Unit{}, false
	}
	closeLabel := strings.IndexByte(s[1:], ']')
	if closeLabel < 0 {
		return Unit{}, false
	}
	closeLabel++
	if closeLabel+1 >= len(s) || s[closeLabel+1] != '(' {
		return Unit{}, false
	}
	closeTarget := strings.IndexByte(s[closeLabel+2:], ')')
	if closeTarget < 0 {
		return Unit{}, false
	}
	src := s[:closeLabel+2+closeTarget+1]
	label := s[1:closeLabel]
	target := s[closeLabel+2 : closeLabel+2+closeTarget]

	// An empty label or target is not a well-formed link; measure all of it.
	display := label
	if label == "" || target == "" {
		display = src
	}
	return Unit{
		Source:     src,
		Display:    display,
		Width:      Width(display),
		BreakAfter: true,
	}, true
}

// tag matches <...>. Tags render as nothing and stay glued to what follows.
func tag(s string) (Unit, bool) {
	if !strings.HasPrefix(s, "<") {
		return Unit{}, false
	}
	end := strings.IndexByte(s[1:], '>')
	if end < 0 {
		return Unit{}, false
	}
	return Unit{Source: s[:end+2]}, true
}

// isSpace is unicode.IsSpace extended with the ASCII information
// separators U+001C..U+001F, which are also treated as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func char(s string) Unit {
	r, size := utf8.DecodeRuneInString(s)
	src := s[:size]
	blank := isSpace(r)
	return Unit{
		Source:     src,
		Display:    src,
		Width:      Width(src),
		BreakAfter: blank || (r != utf8.RuneError && strings.ContainsRune(breakSet, r)),
		Blank:      blank,
	}
}
