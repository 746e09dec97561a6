package markup

// MeasureFunc returns the pixel width of a contiguous run of tokens. It must
// not draw or otherwise have side effects.
type MeasureFunc func(tokens []Token) int

// Wrap greedily packs tokens into lines no wider than maxWidth.
//
// A Break flushes the current line and is dropped. A token that does not fit
// on an empty line is emitted alone. Wrap never emits an empty line, never
// reorders tokens and never modifies its input.
func Wrap(tokens []Token, measure MeasureFunc, maxWidth int) [][]Token {
	var lines [][]Token
	var current []Token

	for _, tok := range tokens {
		if _, ok := tok.(Break); ok {
			if len(current) > 0 {
				lines = append(lines, current)
				current = nil
			}
			continue
		}

		candidate := make([]Token, len(current), len(current)+1)
		copy(candidate, current)
		candidate = append(candidate, tok)

		switch {
		case measure(candidate) <= maxWidth:
			current = candidate
		case len(current) == 0:
			lines = append(lines, candidate)
		default:
			lines = append(lines, current)
			current = []Token{tok}
		}
	}

	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}
