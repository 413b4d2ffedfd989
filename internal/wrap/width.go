package wrap

// Width returns the visible width of s. Each code point in the ASCII range
// counts as one column; every other code point counts as two, which is how
// East Asian wide characters render in most monospace fonts. Combining marks
// and multi-code-point emoji are not treated specially.
func Width(s string) int {
	n := 0
	for _, r := range s {
		if r <= 127 {
			n++
		} else {
			n += 2
		}
	}
	return n
}
