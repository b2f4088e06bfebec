package analyzer

import "strings"

// braceBody returns the text between the opening bracket at s[open] and its
// matching closer. String and template literals are skipped.
func braceBody(s string, open int) (string, bool) {
	end, ok := matchClose(s, open)
	if !ok {
		return "", false
	}
	return s[open+1 : end], true
}

// matchClose returns the index of the bracket closing s[open].
func matchClose(s string, open int) (int, bool) {
	if open < 0 || open >= len(s) {
		return 0, false
	}
	var closer byte
	switch s[open] {
	case '{':
		closer = '}'
	case '(':
		closer = ')'
	case '[':
		closer = ']'
	default:
		return 0, false
	}
	opener := s[open]
	depth := 0
	for i := open; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"', '`':
			i = skipString(s, i)
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// skipString returns the index of the quote closing the literal at s[i].
func skipString(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j
		case '\n':
			if q != '`' {
				return j
			}
		}
	}
	return len(s) - 1
}

// splitTopLevel splits s at any of the separator bytes that sit outside
// brackets and string literals.
func splitTopLevel(s, seps string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipString(s, i)
		case c == '{' || c == '(' || c == '[':
			depth++
		case c == '}' || c == ')' || c == ']':
			depth--
		case depth == 0 && strings.IndexByte(seps, c) >= 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// exprEnd returns the index where the expression starting at s[start] ends:
// the first top-level comma or an unmatched closing bracket.
func exprEnd(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipString(s, i)
		case c == '{' || c == '(' || c == '[':
			depth++
		case c == '}' || c == ')' || c == ']':
			if depth == 0 {
				return i
			}
			depth--
		case c == ',' && depth == 0:
			return i
		}
	}
	return len(s)
}

// tagEnd returns the index of the '>' that closes the JSX tag opened before
// start, skipping '>' characters nested inside attribute braces.
func tagEnd(s string, start int) (int, bool) {
	depth := 0
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipString(s, i)
		case c == '{':
			depth++
		case c == '}':
			depth--
		case c == '>' && depth == 0:
			return i, true
		}
	}
	return 0, false
}
