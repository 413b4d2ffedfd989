// Package wrap soft-wraps Markdown prose to a visible width. Inline markup
// (code spans, links and raw tags) is never split, and list, quote and
// indentation prefixes are carried onto continuation lines.
package wrap

import "strings"

// Inline wraps a run of inline text into lines no wider than maxWidth.
// A single unit wider than maxWidth is emitted on a line of its own. The
// result always has at least one line.
func Inline(s string, maxWidth int) []string {
	return Units(Tokenize(s), maxWidth)
}

// Units greedily packs units into lines. When a unit does not fit, the line
// is cut after its last breakpoint and the unit is tried again against what
// remains; with no breakpoint the whole line is emitted as is.
func Units(units []Unit, maxWidth int) []string {
	var (
		lines []string
		buf   []Unit
		width int
		brk   int // len(buf[:brk]) ends at the last breakpoint; 0 if none
	)
	for _, u := range units {
		for {
			if len(buf) == 0 {
				if u.Blank {
					break
				}
				buf = append(buf, u)
				width = u.Width
				brk = 0
				if u.BreakAfter {
					brk = 1
				}
				break
			}
			if width+u.Width <= maxWidth {
				buf = append(buf, u)
				width += u.Width
				if u.BreakAfter {
					brk = len(buf)
				}
				break
			}
			if brk > 0 {
				lines = appendLine(lines, buf[:brk])
				buf = trimBlank(buf[brk:])
				width, brk = measure(buf)
				continue
			}
			// Forced break: nothing in the buffer allows a cut.
			lines = appendLine(lines, buf)
			buf, width, brk = nil, 0, 0
		}
	}
	if len(buf) > 0 {
		lines = appendLine(lines, buf)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// appendLine renders units as one line. An empty line is only kept once
// something has been emitted before it.
func appendLine(lines []string, units []Unit) []string {
	var b strings.Builder
	for _, u := range units {
		b.WriteString(u.Source)
	}
	line := strings.TrimRightFunc(b.String(), isSpace)
	if line == "" && len(lines) == 0 {
		return lines
	}
	return append(lines, line)
}

func trimBlank(units []Unit) []Unit {
	for len(units) > 0 && units[0].Blank {
		units = units[1:]
	}
	return units
}

// measure returns the total width of units and the breakpoint marker for
// a buffer holding them.
func measure(units []Unit) (width, brk int) {
	for i, u := range units {
		width += u.Width
		if u.BreakAfter {
			brk = i + 1
		}
	}
	return width, brk
}

// Text wraps every line of s with Line and joins the results. It is meant
// for help and usage text; a width of zero or less returns s unchanged.
func Text(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, Line(line, width)...)
	}
	return strings.Join(out, "\n")
}
