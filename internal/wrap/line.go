package wrap

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind identifies the structural prefix of a line.
type Kind int

const (
	Plain Kind = iota
	Blockquote
	Bullet
	Ordered
)

func (k Kind) String() string {
	switch k {
	case Blockquote:
		return "blockquote"
	case Bullet:
		return "bullet"
	case Ordered:
		return "ordered"
	default:
		return "plain"
	}
}

// Classification splits a line into its structural prefix and the inline
// content that follows. Prefix+Content is the line with trailing
// whitespace removed.
type Classification struct {
	Prefix  string
	Content string
	Kind    Kind
}

// space matches any Unicode whitespace, including U+00A0 and U+3000, where
// RE2's \s is ASCII only. digit likewise matches any decimal digit.
const (
	space = `[\s\v\x1c-\x1f\x85\p{Z}]`
	digit = `\p{Nd}`
)

var headingRe = regexp.MustCompile(`^` + space + `*#{1,6}` + space + `+`)

// prefixRules are tried in order; the first match wins.
var prefixRules = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{Blockquote, regexp.MustCompile(`^(` + space + `*>+` + space + `+)(.*)$`)},
	{Bullet, regexp.MustCompile(`^(` + space + `*[-*+]` + space + `+)(.*)$`)},
	{Ordered, regexp.MustCompile(`^(` + space + `*` + digit + `+[.)]` + space + `+)(.*)$`)},
}

// Structural reports whether line is a heading or a table row. Such lines
// are never wrapped.
func Structural(line string) bool {
	if headingRe.MatchString(line) {
		return true
	}
	return strings.HasPrefix(strings.TrimLeftFunc(line, isSpace), "|")
}

// Classify separates the blockquote, bullet or ordered-list prefix of line
// from its content. Lines with none of these keep their leading whitespace
// as the prefix.
func Classify(line string) Classification {
	line = strings.TrimRightFunc(line, isSpace)
	for _, rule := range prefixRules {
		if m := rule.re.FindStringSubmatch(line); m != nil {
			return Classification{Prefix: m[1], Content: m[2], Kind: rule.kind}
		}
	}
	content := strings.TrimLeftFunc(line, isSpace)
	return Classification{
		Prefix:  line[:len(line)-len(content)],
		Content: content,
		Kind:    Plain,
	}
}

// Indent attaches the prefix to wrapped content lines. Quotes and plain
// indentation repeat on every line; list markers are replaced by spaces on
// continuation lines so the text stays aligned under the first line.
func (c Classification) Indent(lines []string) []string {
	cont := c.Prefix
	if c.Kind == Bullet || c.Kind == Ordered {
		cont = strings.Repeat(" ", utf8.RuneCountInString(c.Prefix))
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if i == 0 {
			out[i] = c.Prefix + line
		} else {
			out[i] = cont + line
		}
	}
	return out
}

// Line wraps a single document line to maxWidth. Blank lines become a
// single empty line; headings and table rows come back unchanged apart
// from trailing whitespace.
func Line(line string, maxWidth int) []string {
	if strings.TrimFunc(line, isSpace) == "" {
		return []string{""}
	}
	if Structural(line) {
		return []string{strings.TrimRightFunc(line, isSpace)}
	}
	c := Classify(line)
	return c.Indent(Inline(c.Content, maxWidth))
}
