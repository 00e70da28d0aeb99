// Package invocation assembles the argv used to start the compiler.
package invocation

import "github.com/ek9lang/ek9launch/internal/cmdline"

// Fixed leading tokens of every compiler invocation.
const (
	Interpreter      = "java"
	ArtifactSelector = "-jar"
	DefaultMemory    = "-Xmx512m"
)

// Spec is the full argument vector for the compiler process.
// Spec[0] is the interpreter, resolved through PATH when started.
type Spec []string

// Build returns the invocation
//
//	java <memory> -jar <artifactPath> <userArgs...>
//
// with every user argument quoted by cmdline.Quote. An empty memory
// falls back to DefaultMemory; a non-empty one is used verbatim.
func Build(userArgs []string, artifactPath, memory string) Spec {
	if memory == "" {
		memory = DefaultMemory
	}
	spec := make(Spec, 0, 4+len(userArgs))
	spec = append(spec, Interpreter, memory, ArtifactSelector, artifactPath)
	spec = append(spec, cmdline.QuoteAll(userArgs)...)
	return spec
}

// UserArgs returns the (quoted) user tokens after the fixed prefix.
func (s Spec) UserArgs() []string {
	if len(s) <= 4 {
		return nil
	}
	return s[4:]
}
