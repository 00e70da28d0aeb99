// Package exitcode maps the compiler's exit status to the launcher's own
// and decides whether a captured command should be run.
package exitcode

import "fmt"

// Exit codes reported by the compiler.
const (
	RunCommand               = 0 // stdout holds a command to run
	Success                  = 1 // done, nothing to run
	BadCommandLine           = 2
	FileIssue                = 3
	BadCombination           = 4
	NoPrograms               = 5
	ProgramNotSpecified      = 6
	LanguageServerNotStarted = 7
	CompilationFailed        = 8
	WrongArgumentCount       = 9
	BadArgumentType          = 10
)

// Failure is the launcher's code for every error it raises itself.
const Failure = 1

var descriptions = map[int]string{
	RunCommand:               "command to run",
	Success:                  "success",
	BadCommandLine:           "bad command line",
	FileIssue:                "file issue",
	BadCombination:           "invalid combination of options",
	NoPrograms:               "no programs in file",
	ProgramNotSpecified:      "program not specified",
	LanguageServerNotStarted: "language server failed",
	CompilationFailed:        "compilation failed",
	WrongArgumentCount:       "wrong number of program arguments",
	BadArgumentType:          "program argument has the wrong type",
}

// Describe returns a short description of a compiler exit code.
func Describe(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	if code < 0 {
		return "terminated abnormally"
	}
	return fmt.Sprintf("exit code %d", code)
}

// Action is what the launcher does after the compiler exits.
type Action int

const (
	// Finish ends the run with Decision.Code.
	Finish Action = iota
	// Run parses the captured output and runs it; its exit code is final.
	Run
	// Fail ends the run with Failure and a diagnostic.
	Fail
)

func (a Action) String() string {
	switch a {
	case Finish:
		return "finish"
	case Run:
		return "run"
	case Fail:
		return "fail"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Decision is the translated outcome of the compiler phase.
type Decision struct {
	Action Action
	Code   int  // final launcher code; meaningless for Run
	Echo   bool // captured output is diagnostic text to print
}

// Compiler translates the compiler's exit code given how many bytes of
// stdout were captured. A negative code means the process did not exit
// normally.
func Compiler(code, captured int) Decision {
	switch {
	case code < 0:
		return Decision{Action: Fail, Code: Failure}
	case code == RunCommand && captured > 0:
		return Decision{Action: Run}
	case code == RunCommand:
		return Decision{Action: Fail, Code: Failure}
	case code == Success:
		return Decision{Action: Finish, Code: 0, Echo: captured > 0}
	default:
		return Decision{Action: Finish, Code: code, Echo: captured > 0}
	}
}

// Program translates the exit code of the program the compiler asked to
// run. It is passed through unchanged.
func Program(code int) int {
	if code < 0 {
		return Failure
	}
	return code
}
