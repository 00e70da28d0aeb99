package cmdline

import "strings"

// Parse splits the first line of s into tokens separated by spaces.
//
// A token that starts with a quote character runs up to and including the
// matching closing quote, spaces and all; the quotes stay in the token. An
// unterminated quote runs to the end of the line. Empty or blank input
// yields no tokens.
func Parse(s string) []string {
	line, _, _ := strings.Cut(s, "\n")
	line = strings.TrimSuffix(line, "\r")

	var tokens []string
	i := 0
	for {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			return tokens
		}

		start := i
		if line[i] == QuoteChar {
			i++
			for i < len(line) && line[i] != QuoteChar {
				i++
			}
			if i < len(line) {
				i++ // closing quote
			}
		} else {
			for i < len(line) && line[i] != ' ' {
				i++
			}
		}
		tokens = append(tokens, line[start:i])
	}
}
