// Package runner starts child processes from an argv, without a shell,
// and reports how they ended.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// DefaultCaptureLimit bounds the single read of a captured stdout.
const DefaultCaptureLimit = 4096

// DefaultMaxOutput bounds each stream in Collect mode.
const DefaultMaxOutput = 1 << 20 // 1 MB

// Mode selects how the child's standard streams are wired.
type Mode int

const (
	// Capture connects stdout to a pipe and reads it once, up to
	// CaptureLimit bytes. Stdin and stderr are inherited.
	Capture Mode = iota
	// Inherit hands the runner's stdin, stdout and stderr to the child.
	Inherit
	// Collect gathers stdout and stderr until EOF, each capped at MaxOutput.
	Collect
)

func (m Mode) String() string {
	switch m {
	case Capture:
		return "capture"
	case Inherit:
		return "inherit"
	case Collect:
		return "collect"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Runner executes commands. The zero value inherits the current
// process's streams, working directory and environment, and never
// times out.
type Runner struct {
	Dir          string        // working directory; empty means current
	Env          []string      // nil means inherit
	Timeout      time.Duration // zero means no timeout
	CaptureLimit int           // bytes; Capture mode
	MaxOutput    int           // bytes per stream; Collect mode

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes argv. The first element is the binary name (resolved via
// PATH), and the rest are arguments passed as-is.
//
// A child that exits with any status yields a Result. A child killed by a
// signal, including one killed at the Timeout, yields an
// *AbnormalTerminationError; failing to set up or start the child yields
// a *ResourceError.
func (r *Runner) Run(ctx context.Context, argv []string, mode Mode) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = r.Env
	cmd.Stdin = r.stdin()

	res := &Result{RunID: uuid.New().String(), Argv: argv, Mode: mode}

	var err error
	switch mode {
	case Capture:
		err = r.runCapture(cmd, res)
	case Inherit:
		cmd.Stdout = r.stdout()
		cmd.Stderr = r.stderr()
		if err = start(cmd); err == nil {
			err = cmd.Wait()
		}
	case Collect:
		err = r.runCollect(cmd, res)
	default:
		return nil, fmt.Errorf("unknown mode %v", mode)
	}

	res, err = finish(res, cmd, err)
	var abn *AbnormalTerminationError
	if errors.As(err, &abn) && r.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		abn.Timeout = r.Timeout
	}
	return res, err
}

// runCapture performs exactly one bounded read of the child's stdout.
// Anything the child writes after that read is lost.
func (r *Runner) runCapture(cmd *exec.Cmd, res *Result) error {
	pr, pw, err := os.Pipe()
	if err != nil {
		return &ResourceError{Op: "create pipe", Err: err}
	}
	cmd.Stdout = pw
	cmd.Stderr = r.stderr()

	if err := start(cmd); err != nil {
		pr.Close()
		pw.Close()
		return err
	}
	pw.Close()

	limit := r.CaptureLimit
	if limit <= 0 {
		limit = DefaultCaptureLimit
	}
	buf := make([]byte, limit)
	n, readErr := pr.Read(buf)
	pr.Close()

	waitErr := cmd.Wait()
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		return &ResourceError{Op: "read pipe", Err: readErr}
	}
	res.Stdout = buf[:n]
	res.Truncated = n == limit
	return waitErr
}

func (r *Runner) runCollect(cmd *exec.Cmd, res *Result) error {
	maxOutput := r.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: maxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: maxOutput}

	err := start(cmd)
	if err == nil {
		err = cmd.Wait()
	}
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	res.Truncated = stdout.Len() >= maxOutput || stderr.Len() >= maxOutput
	return err
}

func start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return &ResourceError{Op: "start " + cmd.Args[0], Err: err}
	}
	return nil
}

// finish turns the outcome of Wait into an exit code or an error.
func finish(res *Result, cmd *exec.Cmd, err error) (*Result, error) {
	if err != nil {
		var exitErr *exec.ExitError
		var resErr *ResourceError
		switch {
		case errors.As(err, &resErr):
			return nil, err
		case errors.As(err, &exitErr):
			// handled below via ProcessState
		default:
			return nil, &ResourceError{Op: "wait for " + cmd.Args[0], Err: err}
		}
	}

	state := cmd.ProcessState
	res.ExitCode = state.ExitCode()
	if res.ExitCode < 0 {
		return res, &AbnormalTerminationError{
			Name:   cmd.Args[0],
			Signal: terminationSignal(state),
		}
	}
	return res, nil
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Report all bytes as consumed to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
