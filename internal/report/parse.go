package report

import (
	"regexp"
	"strconv"
	"strings"
)

// diagnosticRE matches the compiler's message lines:
//
//	Error   : E50001: 'foo' on line 3 position 5: not resolved
//	Warning : 'bar' on line 7 position 1: unused
var diagnosticRE = regexp.MustCompile(
	`(Warning :|Deprecat:|Syntax  :|Error   :|Directiv:)(?: (E\d{5}):)? '(.*?)'(?: on line (\d+) position (\d+))?(?:: (.*))?$`)

var seeRE = regexp.MustCompile(`^\s+See: (\S+)`)

var classes = map[string]Class{
	"Warning :": ClassWarning,
	"Deprecat:": ClassDeprecation,
	"Syntax  :": ClassSyntax,
	"Error   :": ClassError,
	"Directiv:": ClassDirective,
}

// ParseDiagnostics extracts compiler messages from output. Lines that are
// not diagnostics are ignored; a "See: <url>" line attaches to the
// diagnostic before it.
func ParseDiagnostics(output string) []Diagnostic {
	var out []Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")

		if m := seeRE.FindStringSubmatch(line); m != nil && len(out) > 0 {
			out[len(out)-1].URL = m[1]
			continue
		}

		m := diagnosticRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d := Diagnostic{
			Class:  classes[m[1]],
			Code:   m[2],
			Symbol: m[3],
			Detail: strings.TrimSpace(m[6]),
		}
		d.Line, _ = strconv.Atoi(m[4])
		d.Position, _ = strconv.Atoi(m[5])
		out = append(out, d)
	}
	return out
}
