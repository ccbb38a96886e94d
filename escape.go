package otl2tex

import "strings"

// Escape transforms a text fragment for LaTeX output and reports whether the
// fragment ends inside a math region. inMath is the math state carried over
// from the previous fragment of the same logical run; math regions may span
// node boundaries, so the renderer threads the returned state across sibling
// lines.
//
// The scan runs in two passes. The first marks each character's math state:
// a '$' toggles the state for itself and everything after it, while the
// two-character sequences `\[` and `\]` switch the state on and off
// explicitly and take precedence over '$' toggling at those positions. The
// second pass rewrites only characters outside math: '"' alternates between
// opening and closing quote glyphs, '|', '<' and '>' are promoted to inline
// math for that single character, and '_' and '%' gain a backslash escape.
func Escape(text string, inMath bool) (string, bool) {
	runes := []rune(text)
	math := make([]bool, len(runes))

	state := inMath
	for i := 0; i < len(runes); i++ {
		switch {
		case runes[i] == '\\' && i+1 < len(runes) && runes[i+1] == '[':
			state = true
			math[i], math[i+1] = true, true
			i++
		case runes[i] == '\\' && i+1 < len(runes) && runes[i+1] == ']':
			state = false
			math[i], math[i+1] = false, false
			i++
		case runes[i] == '$':
			state = !state
			math[i] = state
		default:
			math[i] = state
		}
	}

	var b strings.Builder
	b.Grow(len(text) + len(text)/4)

	inQuote := false
	for i, r := range runes {
		if math[i] {
			b.WriteRune(r)
			continue
		}
		switch r {
		case '"':
			if inQuote {
				b.WriteString("''")
			} else {
				b.WriteString("``")
			}
			inQuote = !inQuote
		case '|', '<', '>':
			b.WriteRune('$')
			b.WriteRune(r)
			b.WriteRune('$')
		case '_', '%':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	return b.String(), state
}
