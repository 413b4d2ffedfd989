package main

import (
	"bytes"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Style represents an ANSI text style.
type Style int

const (
	Bold Style = iota
	Dim
	Red
	Yellow
	Cyan
	Green
)

var styleCode = map[Style]string{
	Bold:   "\033[1m",
	Dim:    "\033[2m",
	Red:    "\033[31m",
	Yellow: "\033[33m",
	Cyan:   "\033[36m",
	Green:  "\033[32m",
}

const reset = "\033[0m"

// Writer extends io.Writer with terminal styling, width awareness,
// and an indent stack. Push/Pop control indentation; Write automatically
// prefixes each new line with the current indent.
type Writer interface {
	io.Writer
	Style(s string, styles ...Style) string
	// Width returns the available width (terminal width minus current indent),
	// or 0 if unavailable (disables wrapping).
	Width() int
	Push(n int)
	Pop()
}

type writer struct {
	out   io.Writer
	color bool
	width int    // terminal width, 0 = no wrapping
	stack []int  // indent stack
	pfx   string // cached prefix (sum of stack as spaces)
	bol   bool   // at beginning of line
}

func (w *writer) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		if w.bol && w.pfx != "" {
			if _, err := io.WriteString(w.out, w.pfx); err != nil {
				return written, err
			}
		}
		w.bol = false
		idx := bytes.IndexByte(p, '\n')
		if idx < 0 {
			n, err := w.out.Write(p)
			return written + n, err
		}
		n, err := w.out.Write(p[:idx+1])
		written += n
		if err != nil {
			return written, err
		}
		p = p[idx+1:]
		w.bol = true
	}
	return written, nil
}

func (w *writer) Style(s string, styles ...Style) string {
	if !w.color || len(styles) == 0 {
		return s
	}
	var b strings.Builder
	for _, st := range styles {
		b.WriteString(styleCode[st])
	}
	b.WriteString(s)
	b.WriteString(reset)
	return b.String()
}

func (w *writer) Width() int {
	if w.width == 0 {
		return 0
	}
	return max(w.width-len(w.pfx), 1)
}

func (w *writer) Push(n int) {
	w.stack = append(w.stack, n)
	w.rebuildPrefix()
}

func (w *writer) Pop() {
	if len(w.stack) > 0 {
		w.stack = w.stack[:len(w.stack)-1]
		w.rebuildPrefix()
	}
}

func (w *writer) rebuildPrefix() {
	total := 0
	for _, n := range w.stack {
		total += n
	}
	w.pfx = strings.Repeat(" ", total)
}

// PlainWriter returns a Writer that ignores all styling and has no width (no wrapping).
func PlainWriter(out io.Writer) Writer {
	return &writer{out: out, bol: true}
}

// ColorWriter returns a Writer that applies ANSI styling with the given terminal width.
func ColorWriter(out io.Writer, width int) Writer {
	return &writer{out: out, color: true, width: width, bol: true}
}

// TerminalWriter returns a ColorWriter sized to the terminal when f is one
// and a PlainWriter otherwise. NO_COLOR turns styling off but keeps the
// terminal width.
func TerminalWriter(f *os.File, noColor bool) Writer {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return PlainWriter(f)
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 0
	}
	if noColor {
		return &writer{out: f, width: width, bol: true}
	}
	return ColorWriter(f, width)
}
