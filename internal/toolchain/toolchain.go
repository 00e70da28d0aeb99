// Package toolchain checks that a new enough Java development kit is on
// PATH before the compiler is started.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ek9lang/ek9launch/internal/runner"
)

// MinimumVersion is the oldest javac major version the compiler runs on.
const MinimumVersion = 25

// DownloadURL is suggested when the installed JDK is too old.
const DownloadURL = "https://www.azul.com/downloads/zulu-community/?package=jdk"

// probeOutputLimit bounds the text read from the version probe.
const probeOutputLimit = 256

// DefaultCommand is the version probe.
var DefaultCommand = []string{"javac", "-version"}

// DefaultMarker precedes the version number in the probe's output.
const DefaultMarker = "javac "

// CommandRunner executes the probe. Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, mode runner.Mode) (*runner.Result, error)
}

// Validator runs the version probe and checks its result.
type Validator struct {
	Runner  CommandRunner
	Command []string // nil means DefaultCommand
	Marker  string   // empty means DefaultMarker
	Minimum int      // zero means MinimumVersion
}

// Validate returns the detected major version, or an *EnvironmentError.
// The probe's exit status is ignored; only its text is inspected.
func (v *Validator) Validate(ctx context.Context) (int, error) {
	command := v.Command
	if len(command) == 0 {
		command = DefaultCommand
	}
	marker := v.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	minimum := v.Minimum
	if minimum <= 0 {
		minimum = MinimumVersion
	}

	res, err := v.Runner.Run(ctx, command, runner.Collect)
	if err != nil {
		var abn *runner.AbnormalTerminationError
		if !errors.As(err, &abn) || res == nil {
			return 0, &EnvironmentError{Reason: ReasonLaunch, Minimum: minimum, Err: err}
		}
	}

	output := string(res.Stdout) + string(res.Stderr)
	major, ok := ParseVersion(output, marker)
	if !ok {
		return 0, &EnvironmentError{Reason: ReasonParse, Output: strings.TrimSpace(output)}
	}
	if major < minimum {
		return major, &EnvironmentError{Reason: ReasonTooOld, Found: major, Minimum: minimum}
	}
	return major, nil
}

// NewRunner returns a runner suited to the version probe: its output is
// collected and bounded.
func NewRunner() *runner.Runner {
	return &runner.Runner{MaxOutput: probeOutputLimit}
}

// ParseVersion finds marker in output and parses the run of digits that
// follows it. A version string like "25.0.1" yields 25.
func ParseVersion(output, marker string) (int, bool) {
	i := strings.Index(output, marker)
	if i < 0 {
		return 0, false
	}
	rest := output[i+len(marker):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Reason classifies an EnvironmentError.
type Reason int

const (
	// ReasonLaunch means the probe could not be started.
	ReasonLaunch Reason = iota
	// ReasonParse means the probe ran but no version was found in its output.
	ReasonParse
	// ReasonTooOld means the version is below the minimum.
	ReasonTooOld
)

// EnvironmentError reports a missing, unrecognisable or outdated JDK.
type EnvironmentError struct {
	Reason  Reason
	Found   int    // ReasonTooOld
	Minimum int    // ReasonLaunch, ReasonTooOld; zero means MinimumVersion
	Output  string // ReasonParse
	Err     error  // ReasonLaunch
}

func (e *EnvironmentError) Error() string {
	minimum := e.Minimum
	if minimum <= 0 {
		minimum = MinimumVersion
	}
	switch e.Reason {
	case ReasonLaunch:
		return fmt.Sprintf("Java compiler (javac) not found or not executable (%v).\n"+
			"Please install a Java %d JDK and make sure javac is on your PATH.", e.Err, minimum)
	case ReasonParse:
		if e.Output == "" {
			return "Unable to determine Java version: javac produced no output."
		}
		return fmt.Sprintf("Unable to determine Java version from javac output: %q", e.Output)
	case ReasonTooOld:
		return fmt.Sprintf("Java %d or higher is required, found Java %d.\n"+
			"Download a current JDK from: %s", minimum, e.Found, DownloadURL)
	}
	return "unusable Java environment"
}

func (e *EnvironmentError) Unwrap() error { return e.Err }
