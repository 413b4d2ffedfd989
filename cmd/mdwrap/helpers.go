package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// stderr receives diagnostics and per-file errors; tests replace it.
var stderr io.Writer = os.Stderr

// exitError carries a process exit code out of a command. A nil err exits
// with code and prints nothing.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// usageErr marks err as a usage or configuration error (exit 2).
func usageErr(err error) error {
	return &exitError{code: 2, err: err}
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func fatal(err error) {
	var ee *exitError
	if !errors.As(err, &ee) || ee.err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
	}
	os.Exit(exitCode(err))
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// Args holds parsed command-line arguments separated into boolean flags,
// key-value flags, and positional arguments.
type Args struct {
	bools map[string]bool
	flags map[string][]string
	pos   []string
}

// ParseArgs separates raw args into booleans, key-value pairs, and positionals.
// valueFlags lists flags that consume a value, either as the next token or
// after "=" (e.g. "--jobs 4", "--jobs=4"). A value flag may repeat.
// boolFlags lists boolean flags (e.g. "--json", "--check").
// Any "--" prefixed token not in valueFlags or boolFlags returns an error.
func ParseArgs(raw []string, valueFlags []string, boolFlags []string) (Args, error) {
	vf := make(map[string]bool, len(valueFlags))
	for _, f := range valueFlags {
		vf[f] = true
	}
	bf := make(map[string]bool, len(boolFlags))
	for _, f := range boolFlags {
		bf[f] = true
	}

	a := Args{
		bools: make(map[string]bool),
		flags: make(map[string][]string),
	}

	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if !strings.HasPrefix(tok, "--") {
			a.pos = append(a.pos, tok)
			continue
		}

		name, value, hasValue := strings.Cut(tok, "=")
		switch {
		case vf[name]:
			if !hasValue {
				if i+1 >= len(raw) {
					return a, fmt.Errorf("flag %s requires a value", name)
				}
				value = raw[i+1]
				i++
			}
			a.flags[name] = append(a.flags[name], value)
		case bf[name] && !hasValue:
			a.bools[name] = true
		case bf[name]:
			return a, fmt.Errorf("flag %s does not take a value", name)
		default:
			return a, fmt.Errorf("unknown flag: %s", name)
		}
	}
	return a, nil
}

// Bool returns true if the named boolean flag was present.
func (a Args) Bool(name string) bool { return a.bools[name] }

// JSON is shorthand for Bool("--json").
func (a Args) JSON() bool { return a.bools["--json"] }

// String returns the last value of a key-value flag, or "" if absent.
func (a Args) String(name string) string {
	v := a.flags[name]
	if len(v) == 0 {
		return ""
	}
	return v[len(v)-1]
}

// Strings returns every value given for a repeatable flag.
func (a Args) Strings(name string) []string { return a.flags[name] }

// IntErr returns the parsed int, whether the flag was set, and any parse error.
func (a Args) IntErr(name string) (int, bool, error) {
	if !a.Has(name) {
		return 0, false, nil
	}
	v := a.String(name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, true, fmt.Errorf("invalid %s: %s", name, v)
	}
	return n, true, nil
}

// Has returns true if a key-value flag was provided.
func (a Args) Has(name string) bool {
	return len(a.flags[name]) > 0
}

// Pos returns all positional arguments.
func (a Args) Pos() []string { return a.pos }

// splitList splits comma-separated values, dropping empty entries.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// newLogger returns a logger writing to stderr when verbose is set and a
// discarding logger otherwise.
func newLogger(verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(stderr, "mdwrap: ", 0)
}

func fprintJSON(w io.Writer, v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}
