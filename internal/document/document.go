// Package document formats whole Markdown/MDX documents. Front matter,
// fenced code and regions switched off by a directive pass through
// untouched; every other line is wrapped with package wrap.
package document

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jallum/mdwrap/internal/config"
	"github.com/jallum/mdwrap/internal/wrap"
	"gopkg.in/yaml.v3"
)

// Options controls how a document is formatted.
type Options struct {
	MaxWidth int
}

// Result is the outcome of formatting one document.
type Result struct {
	Text    string
	Changed bool
	// Skipped is set when the front matter opted the document out.
	Skipped bool
	// FrontMatter is the decoded front matter, nil if absent or not YAML.
	FrontMatter map[string]any
}

// frontMatterOptions is the mdwrap section a document may carry in its
// front matter:
//
//	mdwrap:
//	  skip: true
//	  max_visible_width: 100
type frontMatterOptions struct {
	MDWrap struct {
		Skip     bool `yaml:"skip"`
		MaxWidth *int `yaml:"max_visible_width"`
	} `yaml:"mdwrap"`
}

// Format formats src. Lines are split on "\n"; a trailing newline in src is
// kept, and trailing whitespace is removed from every line. A negative
// width, in opts or in the front matter, fails with config.ErrNegativeWidth.
func Format(src string, opts Options) (Result, error) {
	if opts.MaxWidth < 0 {
		return Result{}, fmt.Errorf("%w (got %d)", config.ErrNegativeWidth, opts.MaxWidth)
	}

	lines := strings.Split(src, "\n")
	trailingNewline := strings.HasSuffix(src, "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	var res Result
	width := opts.MaxWidth
	out := make([]string, 0, len(lines))

	n, closed := frontMatterLen(lines)
	if n > 0 {
		for _, line := range lines[:n] {
			out = append(out, rtrim(line))
		}
		if closed {
			meta, fo := decodeFrontMatter(lines[1 : n-1])
			res.FrontMatter = meta
			if fo.MDWrap.Skip {
				return Result{Text: src, Skipped: true, FrontMatter: meta}, nil
			}
			if fo.MDWrap.MaxWidth != nil {
				if *fo.MDWrap.MaxWidth < 0 {
					return Result{}, fmt.Errorf("front matter: %w (got %d)", config.ErrNegativeWidth, *fo.MDWrap.MaxWidth)
				}
				width = *fo.MDWrap.MaxWidth
			}
		}
	}

	var (
		open     fence // open.char is 0 outside a fenced block
		disabled bool
	)
	for _, line := range lines[n:] {
		if open.char != 0 {
			if open.closedBy(line) {
				open = fence{}
			}
			out = append(out, rtrim(line))
			continue
		}
		if f, ok := parseFence(line); ok {
			open = f
			out = append(out, rtrim(line))
			continue
		}
		if on, ok := parseDirective(strings.TrimSpace(line)); ok {
			disabled = !on
			out = append(out, rtrim(line))
			continue
		}
		if disabled {
			out = append(out, rtrim(line))
			continue
		}
		out = append(out, wrap.Line(line, width)...)
	}

	text := strings.Join(out, "\n")
	if trailingNewline {
		text += "\n"
	}
	res.Text = text
	res.Changed = text != src
	return res, nil
}

// frontMatterLen returns how many leading lines belong to a front matter
// block and whether the block was closed. An unclosed block runs to the
// end of the document.
func frontMatterLen(lines []string) (int, bool) {
	if len(lines) == 0 || !isFrontMatterDelim(lines[0]) {
		return 0, false
	}
	for i := 1; i < len(lines); i++ {
		if isFrontMatterDelim(lines[i]) {
			return i + 1, true
		}
	}
	return len(lines), false
}

func isFrontMatterDelim(line string) bool {
	return strings.TrimSpace(strings.TrimPrefix(line, "\ufeff")) == "---"
}

// decodeFrontMatter decodes the body of a front matter block. Bodies that
// are not YAML mappings decode to nothing; they still pass through as is.
func decodeFrontMatter(body []string) (map[string]any, frontMatterOptions) {
	var fo frontMatterOptions
	data := []byte(strings.Join(body, "\n"))
	var meta map[string]any
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fo
	}
	if err := yaml.Unmarshal(data, &fo); err != nil {
		return meta, frontMatterOptions{}
	}
	return meta, fo
}

// fence is the opening line of a fenced code block: a run of at least
// three backticks or tildes, possibly followed by an info string.
type fence struct {
	char byte
	n    int
	info string
}

func parseFence(line string) (fence, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return fence{}, false
	}
	c := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	return fence{char: c, n: n, info: strings.TrimSpace(trimmed[n:])}, true
}

// closedBy reports whether line closes f: a run of the same character at
// least as long as the opening one, with nothing after it.
func (f fence) closedBy(line string) bool {
	g, ok := parseFence(line)
	return ok && g.char == f.char && g.n >= f.n && g.info == ""
}

// parseDirective recognizes "<!-- mdwrap off -->" and "{/* mdwrap on */}"
// style comments. It returns whether wrapping is switched on.
func parseDirective(trimmed string) (bool, bool) {
	body, ok := commentBody(trimmed)
	if !ok {
		return false, false
	}
	fields := strings.Fields(body)
	if len(fields) != 2 || fields[0] != "mdwrap" {
		return false, false
	}
	switch fields[1] {
	case "on":
		return true, true
	case "off":
		return false, true
	}
	return false, false
}

// commentBody strips HTML or MDX comment delimiters from a whole line.
func commentBody(trimmed string) (string, bool) {
	if after, ok := strings.CutPrefix(trimmed, "<!--"); ok {
		return strings.CutSuffix(after, "-->")
	}
	if after, ok := strings.CutPrefix(trimmed, "{/*"); ok {
		return strings.CutSuffix(after, "*/}")
	}
	return "", false
}

func rtrim(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
