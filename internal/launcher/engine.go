// Package launcher runs the two-phase launch: the compiler first, with its
// stdout captured, then the program the compiler asked for. It is consumed
// by both the ek9 launcher and the MCP server.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ek9lang/ek9launch/internal/artifact"
	"github.com/ek9lang/ek9launch/internal/cmdline"
	"github.com/ek9lang/ek9launch/internal/config"
	"github.com/ek9lang/ek9launch/internal/exitcode"
	"github.com/ek9lang/ek9launch/internal/invocation"
	"github.com/ek9lang/ek9launch/internal/runner"
	"github.com/rs/zerolog"
)

// ErrNoCommand is returned when the compiler asked for a run but gave no
// command to run.
var ErrNoCommand = errors.New("compiler requested a run but produced no command")

// CommandRunner executes commands. Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, mode runner.Mode) (*runner.Result, error)
}

// Validator checks the Java toolchain. Implemented by toolchain.Validator.
type Validator interface {
	Validate(ctx context.Context) (int, error)
}

// Engine holds shared dependencies for launch and compile operations.
type Engine struct {
	Config    *config.Config
	Env       config.Env
	Runner    CommandRunner
	Validator Validator
	Log       zerolog.Logger
	// Stdout receives compiler output echoed on non-zero exit codes.
	// Nil means os.Stdout.
	Stdout io.Writer
}

// Launch performs a full launch with the user's arguments and returns the
// launcher's exit code. A non-nil error always comes with exitcode.Failure
// and should be reported once by the caller.
func (e *Engine) Launch(ctx context.Context, loc artifact.Location, args []string) (int, error) {
	spec, err := e.prepare(ctx, loc, args)
	if err != nil {
		return exitcode.Failure, err
	}

	res, err := e.Runner.Run(ctx, spec, runner.Capture)
	if err != nil {
		return exitcode.Failure, phaseError(CompilerPhase, err)
	}
	e.Log.Debug().
		Str("run_id", res.RunID).
		Int("code", res.ExitCode).
		Str("meaning", exitcode.Describe(res.ExitCode)).
		Int("captured", len(res.Stdout)).
		Bool("truncated", res.Truncated).
		Msg("compiler exited")

	d := exitcode.Compiler(res.ExitCode, len(res.Stdout))
	switch d.Action {
	case exitcode.Finish:
		if d.Echo {
			if _, err := e.stdout().Write(res.Stdout); err != nil {
				e.Log.Warn().Err(err).Msg("echo compiler output")
			}
		}
		e.Log.Debug().Int("code", d.Code).Msg("finished")
		return d.Code, nil
	case exitcode.Fail:
		return d.Code, ErrNoCommand
	}

	argv := cmdline.Parse(string(res.Stdout))
	if len(argv) == 0 {
		return exitcode.Failure, ErrNoCommand
	}
	e.Log.Debug().Strs("argv", argv).Msg("running program")

	pres, err := e.Runner.Run(ctx, argv, runner.Inherit)
	if err != nil {
		return exitcode.Failure, phaseError(ProgramPhase, err)
	}
	code := exitcode.Program(pres.ExitCode)
	e.Log.Debug().Str("run_id", pres.RunID).Int("code", code).Msg("program exited")
	return code, nil
}

// Compile runs the compiler with args and collects both of its output
// streams. It never runs a program. The caller picks the runner, so a
// timeout or output bound is the runner's business.
func (e *Engine) Compile(ctx context.Context, r CommandRunner, loc artifact.Location, args []string) (*runner.Result, error) {
	spec, err := e.prepare(ctx, loc, args)
	if err != nil {
		return nil, err
	}
	res, err := r.Run(ctx, spec, runner.Collect)
	if err != nil {
		return res, phaseError(CompilerPhase, err)
	}
	e.Log.Debug().Str("run_id", res.RunID).Int("code", res.ExitCode).Msg("compile finished")
	return res, nil
}

// prepare gates on the toolchain and the artifact, then builds the
// compiler invocation.
func (e *Engine) prepare(ctx context.Context, loc artifact.Location, args []string) (invocation.Spec, error) {
	e.Log.Debug().
		Str("artifact", loc.Path).
		Bool("override", loc.UsedOverride).
		Str("warning", loc.Warning).
		Msg("located compiler")

	if e.Validator != nil {
		major, err := e.Validator.Validate(ctx)
		if err != nil {
			return nil, err
		}
		e.Log.Debug().Int("java", major).Msg("toolchain ok")
	}

	if err := loc.Check(); err != nil {
		return nil, err
	}

	spec := invocation.Build(args, loc.Path, e.config().Memory(e.Env))
	e.Log.Debug().Strs("argv", spec).Msg("starting compiler")
	return spec, nil
}

func (e *Engine) config() *config.Config {
	if e.Config != nil {
		return e.Config
	}
	return &config.Config{}
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

// Phase names the child process an error belongs to.
type Phase int

const (
	CompilerPhase Phase = iota
	ProgramPhase
)

func (p Phase) String() string {
	if p == ProgramPhase {
		return "program"
	}
	return "compiler"
}

// TerminationError reports a child in either phase that did not exit
// normally.
type TerminationError struct {
	Phase Phase
	Err   *runner.AbnormalTerminationError
}

func (e *TerminationError) Error() string {
	if e.Err.TimedOut() {
		return fmt.Sprintf("The %s did not finish within %s and was stopped.", e.Phase, e.Err.Timeout)
	}
	detail := ""
	if e.Err.Signal != "" {
		detail = " (" + e.Err.Signal + ")"
	}
	if e.Phase == ProgramPhase {
		return fmt.Sprintf("Unable to run compiled program.\n"+
			"The program terminated unexpectedly%s.", detail)
	}
	return fmt.Sprintf("Unable to execute EK9 compiler.\n"+
		"The compiler process terminated unexpectedly%s.\n"+
		"This may indicate a corrupted installation. Try reinstalling EK9.", detail)
}

func (e *TerminationError) Unwrap() error { return e.Err }

func phaseError(p Phase, err error) error {
	var abn *runner.AbnormalTerminationError
	if errors.As(err, &abn) {
		return &TerminationError{Phase: p, Err: abn}
	}
	return fmt.Errorf("%s: %w", p, err)
}
