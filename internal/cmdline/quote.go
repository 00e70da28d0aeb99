// Package cmdline quotes launcher arguments for the compiler's command line
// and splits the command line the compiler prints back into an argv.
//
// Both directions share one convention: a token containing a space is
// wrapped in single quotes, and nothing inside it is escaped. A token that
// contains both a space and a single quote therefore cannot round-trip.
package cmdline

import "strings"

// QuoteChar wraps tokens that contain a space.
const QuoteChar = '\''

// Quote returns tok unchanged unless it contains a space, in which case it
// is wrapped in a single leading and trailing quote character.
func Quote(tok string) string {
	if !strings.ContainsRune(tok, ' ') {
		return tok
	}
	return string(QuoteChar) + tok + string(QuoteChar)
}

// Unquote removes one pair of surrounding quote characters, if present.
func Unquote(tok string) string {
	if len(tok) >= 2 && tok[0] == QuoteChar && tok[len(tok)-1] == QuoteChar {
		return tok[1 : len(tok)-1]
	}
	return tok
}

// QuoteAll quotes every token of args into a new slice.
func QuoteAll(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = Quote(a)
	}
	return out
}
