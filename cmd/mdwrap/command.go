package main

import (
	"fmt"

	"github.com/jallum/mdwrap/internal/wrap"
)

// Flag describes a single command-line flag.
type Flag struct {
	Long  string // e.g. "--jobs"
	Short string // e.g. "-j" (optional)
	Value string // metavar for help, e.g. "N"; empty means boolean
	Help  string
}

// Positional describes a positional argument.
type Positional struct {
	Name     string // e.g. "<root>..."
	Required bool
	Help     string
}

// Example describes a usage example shown in per-command help.
type Example struct {
	Cmd  string
	Help string
}

// Command describes a CLI subcommand.
type Command struct {
	Name        string
	Summary     string // one-line description for top-level usage
	Description string // shown in per-command help (falls back to Summary)
	Positionals []Positional
	Flags       []Flag
	Examples    []Example
	Run         func(a Args, w Writer) error
}

// valueFlags returns the long names of flags that take a value (non-boolean).
func (c *Command) valueFlags() []string {
	var vf []string
	for _, f := range c.Flags {
		if f.Value != "" {
			vf = append(vf, f.Long)
		}
	}
	return vf
}

// boolFlags returns the long names of flags that take no value.
func (c *Command) boolFlags() []string {
	var bf []string
	for _, f := range c.Flags {
		if f.Value == "" {
			bf = append(bf, f.Long)
		}
	}
	return bf
}

// Exec parses raw against the command's flags and runs it. Parse errors
// and unexpected positionals are usage errors.
func (c *Command) Exec(raw []string, w Writer) error {
	a, err := ParseArgs(expandAliases(raw, c.Flags), c.valueFlags(), c.boolFlags())
	if err != nil {
		return usageErr(err)
	}
	if len(c.Positionals) == 0 && len(a.Pos()) > 0 {
		return usageErr(fmt.Errorf("%s: unexpected argument %q", c.Name, a.Pos()[0]))
	}
	return c.Run(a, w)
}

// expandAliases replaces short flags with their long equivalents.
func expandAliases(raw []string, flags []Flag) []string {
	shorts := make(map[string]string, len(flags))
	for _, f := range flags {
		if f.Short != "" {
			shorts[f.Short] = f.Long
		}
	}
	result := make([]string, len(raw))
	for i, tok := range raw {
		if long, ok := shorts[tok]; ok {
			result[i] = long
		} else {
			result[i] = tok
		}
	}
	return result
}

var widthFlag = Flag{Long: "--max-visible-width", Short: "-w", Value: "N", Help: "Maximum visible line width (default 120)"}

// selectionFlags are shared by every command that walks roots.
var selectionFlags = []Flag{
	widthFlag,
	{Long: "--root", Value: "DIR", Help: "Directory or file to format (repeatable)"},
	{Long: "--ext", Value: "EXTS", Help: "Comma-separated file extensions (default .mdx)"},
	{Long: "--jobs", Short: "-j", Value: "N", Help: "Files formatted concurrently (default: CPUs)"},
	{Long: "--no-gitignore", Help: "Also format paths matched by .gitignore"},
	{Long: "--verbose", Help: "Log each file to stderr"},
}

func withFlags(base []Flag, extra ...Flag) []Flag {
	out := make([]Flag, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

var rootsArg = Positional{Name: "[<root>...]", Help: "Directories or files to format (default .)"}

// commands defines all CLI subcommands.
var commands = []Command{
	{
		Name:    "format",
		Summary: "Rewrite documents in place",
		Description: "Soft-wrap the prose of every matching document under the given roots so no line is wider than the " +
			"maximum visible width. Headings, front matter, code fences and lines between mdwrap off/on directives " +
			"are left alone. This is the default command.",
		Positionals: []Positional{rootsArg},
		Flags:       withFlags(selectionFlags, Flag{Long: "--check", Help: "Report files that would change instead of writing"}),
		Examples: []Example{
			{Cmd: "mdwrap"},
			{Cmd: "mdwrap docs -w 100"},
			{Cmd: "mdwrap --ext .md,.mdx --root guides --root api"},
		},
		Run: cmdFormat,
	},
	{
		Name:    "check",
		Summary: "List documents that need formatting",
		Description: "Report every matching document that format would change, without writing. " +
			"Exits 1 when any document needs formatting or cannot be read.",
		Positionals: []Positional{rootsArg},
		Flags:       withFlags(selectionFlags, Flag{Long: "--json", Help: "Output as JSON"}),
		Examples: []Example{
			{Cmd: "mdwrap check"},
			{Cmd: "mdwrap check docs --json", Help: "Machine-readable report for CI"},
		},
		Run: cmdCheck,
	},
	{
		Name:        "stdin",
		Summary:     "Format standard input to standard output",
		Description: "Read one document from standard input, format it with the same rules as format, and write it to standard output.",
		Flags: []Flag{
			widthFlag,
			{Long: "--check", Help: "Write nothing; exit 1 if the input would change"},
		},
		Examples: []Example{
			{Cmd: "mdwrap stdin -w 80 < page.mdx"},
		},
		Run: cmdStdin,
	},
	{
		Name:        "config",
		Summary:     "Show the resolved configuration",
		Description: "Print every setting with the place it came from: flag, env, file (.mdwrap.yaml) or default.",
		Flags:       withFlags(selectionFlags, Flag{Long: "--json", Help: "Output as JSON"}),
		Examples: []Example{
			{Cmd: "mdwrap config"},
			{Cmd: "MDWRAP_MAX_VISIBLE_WIDTH=80 mdwrap config --json"},
		},
		Run: cmdConfig,
	},
}

// commandMap provides O(1) lookup by name.
var commandMap map[string]*Command

func init() {
	commandMap = make(map[string]*Command, len(commands))
	for i := range commands {
		commandMap[commands[i].Name] = &commands[i]
	}
}

// commandGroups defines the display order for usage output.
var commandGroups = []struct {
	name string
	cmds []string
}{
	{"Formatting", []string{"format", "check", "stdin"}},
	{"Setup & Config", []string{"config"}},
}

func printUsage(w Writer) {
	fmt.Fprintln(w, "mdwrap soft-wraps Markdown and MDX prose to a maximum visible width")
	fmt.Fprintf(w, "\n%s\n", w.Style("Usage:", Cyan))
	w.Push(2)
	fmt.Fprintln(w, "mdwrap [<command>] [args]")
	fmt.Fprintln(w, "mdwrap <command> --help")
	w.Pop()

	for _, g := range commandGroups {
		fmt.Fprintf(w, "\n%s\n", w.Style(g.name+":", Cyan))
		w.Push(2)
		for _, name := range g.cmds {
			c := commandMap[name]
			if c == nil {
				continue
			}
			usage := name
			for _, p := range c.Positionals {
				usage += " " + p.Name
			}
			if len(c.Flags) > 0 {
				usage += " [flags]"
			}
			fmt.Fprintf(w, "%-28s %s\n", usage, c.Summary)
		}
		w.Pop()
	}

	fmt.Fprintln(w, "\nUse \"mdwrap <command> --help\" for more information about a command.")
}

func printCommandHelp(w Writer, c *Command) {
	desc := c.Description
	if desc == "" {
		desc = c.Summary
	}
	fmt.Fprintln(w, wrap.Text(desc, w.Width()))

	usage := "mdwrap " + c.Name
	for _, p := range c.Positionals {
		usage += " " + p.Name
	}
	if len(c.Flags) > 0 {
		usage += " [flags]"
	}
	fmt.Fprintf(w, "\n%s\n", w.Style("Usage:", Cyan))
	w.Push(2)
	fmt.Fprintln(w, usage)
	w.Pop()

	if len(c.Positionals) > 0 {
		fmt.Fprintf(w, "\n%s\n", w.Style("Arguments:", Cyan))
		w.Push(2)
		for _, p := range c.Positionals {
			fmt.Fprintf(w, "%-24s %s\n", p.Name, p.Help)
		}
		w.Pop()
	}

	if len(c.Flags) > 0 {
		fmt.Fprintf(w, "\n%s\n", w.Style("Flags:", Cyan))
		w.Push(2)
		for _, f := range c.Flags {
			flag := f.Long
			if f.Short != "" {
				flag = f.Short + ", " + f.Long
			}
			if f.Value != "" {
				flag += " " + f.Value
			}
			fmt.Fprintf(w, "%-28s %s\n", flag, f.Help)
		}
		w.Pop()
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\n%s\n", w.Style("Examples:", Cyan))
		w.Push(2)
		for _, ex := range c.Examples {
			fmt.Fprintln(w, ex.Cmd)
			if ex.Help != "" {
				w.Push(4)
				fmt.Fprintln(w, ex.Help)
				w.Pop()
			}
		}
		w.Pop()
	}
}
