package otl2tex

import (
	"fmt"
	"strconv"
)

// Style describes the markup wrapped around outline lines rendered at one
// depth. Before and After wrap each individual line; Begin and End, when
// non-empty, open and close a run of consecutive same-depth lines sharing
// the style (a list environment, typically).
type Style struct {
	ID     string
	Before string
	After  string
	Begin  string
	End    string
}

// StyleTable maps style ids to styles. It is populated once and shared
// read-only by every StyleStack afterwards.
type StyleTable map[string]Style

// Auto-numbered style family letters. Each occurrence of one of these in a
// style code becomes <letter><occurrence-index>, so a short code like "SSN"
// expands to S1, S2, N.
const autoNumbered = "SsT"

// DefaultStyleTable returns the built-in LaTeX style set.
//
// N is a plain line, P a paragraph, I and E itemize/enumerate items. The S
// family maps to the sectioning commands, s to their starred variants, and T
// to the book-class part/chapter levels.
func DefaultStyleTable() StyleTable {
	table := StyleTable{
		"N": {ID: "N"},
		"P": {ID: "P", After: `\par`},
		"I": {ID: "I", Before: `\item `, Begin: `\begin{itemize}`, End: `\end{itemize}`},
		"E": {ID: "E", Before: `\item `, Begin: `\begin{enumerate}`, End: `\end{enumerate}`},
	}

	sectioning := []string{"section", "subsection", "subsubsection", "paragraph", "subparagraph"}
	for i, cmd := range sectioning {
		n := strconv.Itoa(i + 1)
		table["S"+n] = Style{ID: "S" + n, Before: `\` + cmd + `{`, After: `}`}
		table["s"+n] = Style{ID: "s" + n, Before: `\` + cmd + `*{`, After: `}`}
	}

	table["T1"] = Style{ID: "T1", Before: `\part{`, After: `}`}
	table["T2"] = Style{ID: "T2", Before: `\chapter{`, After: `}`}

	return table
}

// StyleStack is a depth-indexed sequence of styles derived from a compact
// style-code string. Stacks are immutable value objects: Update returns a
// fresh stack and never touches the receiver, so callers at different points
// of the recursive render observe exactly the stack they were handed.
type StyleStack struct {
	styles []Style
}

// ParseStyleCode builds a StyleStack from a code string such as "SSNI".
// Letters listed in autoNumbered are numbered by occurrence within this code
// string; every other character must be a style id of its own.
func ParseStyleCode(table StyleTable, code string) (StyleStack, error) {
	styles, err := parseCodeStyles(table, code)
	if err != nil {
		return StyleStack{}, err
	}
	return StyleStack{styles: styles}, nil
}

func parseCodeStyles(table StyleTable, code string) ([]Style, error) {
	if code == "" {
		return nil, ErrEmptyStyleCode
	}

	counts := map[rune]int{}
	styles := make([]Style, 0, len(code))
	for _, c := range code {
		id := string(c)
		if containsRune(autoNumbered, c) {
			counts[c]++
			id += strconv.Itoa(counts[c])
		}
		style, ok := table[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q in code %q", ErrUnknownStyle, id, code)
		}
		styles = append(styles, style)
	}
	return styles, nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

// Len returns the number of explicitly configured levels.
func (s StyleStack) Len() int { return len(s.styles) }

// At returns the style for the given depth. Depths past the configured
// levels clamp to the deepest entry: styles are sticky.
func (s StyleStack) At(depth int) Style {
	if len(s.styles) == 0 {
		return Style{}
	}
	if depth >= len(s.styles) {
		return s.styles[len(s.styles)-1]
	}
	return s.styles[depth]
}

// Update derives a new stack for a format switch at the given depth: levels
// [0, depth) are kept, the stack is padded with its last style up to depth,
// and the styles parsed from code are appended after. Auto-numbering in code
// restarts from 1, independent of the original code string.
func (s StyleStack) Update(table StyleTable, depth int, code string) (StyleStack, error) {
	suffix, err := parseCodeStyles(table, code)
	if err != nil {
		return StyleStack{}, err
	}

	keep := depth
	if keep > len(s.styles) {
		keep = len(s.styles)
	}
	styles := make([]Style, 0, depth+len(suffix))
	styles = append(styles, s.styles[:keep]...)
	for len(styles) < depth {
		styles = append(styles, s.styles[len(s.styles)-1])
	}
	styles = append(styles, suffix...)

	return StyleStack{styles: styles}, nil
}
