package launcher

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ek9lang/ek9launch/internal/artifact"
	"github.com/ek9lang/ek9launch/internal/config"
	"github.com/ek9lang/ek9launch/internal/runner"
	"github.com/ek9lang/ek9launch/internal/toolchain"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

type fakeValidator struct {
	major int
	err   error
	calls int
}

func (v *fakeValidator) Validate(context.Context) (int, error) {
	v.calls++
	return v.major, v.err
}

type fixture struct {
	engine *Engine
	loc    artifact.Location
	bin    string        // directory on PATH holding fake executables
	echo   *bytes.Buffer // Engine.Stdout
	out    *bytes.Buffer // program stdout
}

// newFixture installs a fake java with the given script body, a jar for it
// to "run", and puts both on PATH.
func newFixture(t *testing.T, javaScript string) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell scripts")
	}

	bin := t.TempDir()
	writeScript(t, bin, "java", javaScript)
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, artifact.ArtifactName), []byte("jar"), 0o644); err != nil {
		t.Fatal(err)
	}

	var echo, out bytes.Buffer
	f := &fixture{
		loc:  (&artifact.Locator{Home: home}).Locate(),
		bin:  bin,
		echo: &echo,
		out:  &out,
	}
	f.engine = &Engine{
		Config:    &config.Config{},
		Runner:    &runner.Runner{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out},
		Validator: &fakeValidator{major: 25},
		Log:       zerolog.Nop(),
		Stdout:    &echo,
	}
	return f
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

// program installs a fake program that records its arguments in a file
// and exits with code.
func (f *fixture) program(t *testing.T, name, body string) string {
	t.Helper()
	marker := filepath.Join(t.TempDir(), "ran")
	writeScript(t, f.bin, name, `printf '%s\n' "$@" > "`+marker+`"`+"\n"+body)
	return marker
}

func readArgs(t *testing.T, marker string) []string {
	t.Helper()
	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("program did not run: %v", err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestLaunch_RunsCommand(t *testing.T) {
	f := newFixture(t, `printf 'hello foo bar'; exit 0`)
	marker := f.program(t, "hello", "exit 0")

	code, err := f.engine.Launch(context.Background(), f.loc, []string{"main.ek9"})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if code != 0 {
		t.Errorf("code = %d, want 0", code)
	}
	if diff := cmp.Diff([]string{"foo", "bar"}, readArgs(t, marker)); diff != "" {
		t.Errorf("program args mismatch (-want +got):\n%s", diff)
	}
	if f.echo.Len() != 0 {
		t.Errorf("echoed %q, want nothing on run", f.echo.String())
	}
}

func TestLaunch_ProgramCodePassesThrough(t *testing.T) {
	for _, want := range []int{1, 3, 42} {
		f := newFixture(t, `printf 'hello'; exit 0`)
		f.program(t, "hello", "exit "+strconv.Itoa(want))

		code, err := f.engine.Launch(context.Background(), f.loc, nil)
		if err != nil {
			t.Fatalf("Launch: %v", err)
		}
		if code != want {
			t.Errorf("code = %d, want %d", code, want)
		}
	}
}

func TestLaunch_ProgramInheritsStdout(t *testing.T) {
	f := newFixture(t, `printf 'hello'; exit 0`)
	f.program(t, "hello", `echo "Hello, World"`)

	if _, err := f.engine.Launch(context.Background(), f.loc, nil); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if !strings.Contains(f.out.String(), "Hello, World") {
		t.Errorf("program output = %q", f.out.String())
	}
}

func TestLaunch_SuccessMapsToZero(t *testing.T) {
	f := newFixture(t, `exit 1`)
	marker := f.program(t, "hello", "exit 0")

	code, err := f.engine.Launch(context.Background(), f.loc, []string{"-c", "main.ek9"})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if code != 0 {
		t.Errorf("code = %d, want 0", code)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Error("program ran on compiler success")
	}
}

func TestLaunch_PassthroughCodes(t *testing.T) {
	for code := 2; code <= 10; code++ {
		f := newFixture(t, `printf 'hello diagnostic'; exit `+strconv.Itoa(code))
		marker := f.program(t, "hello", "exit 0")

		got, err := f.engine.Launch(context.Background(), f.loc, nil)
		if err != nil {
			t.Fatalf("code %d: Launch: %v", code, err)
		}
		if got != code {
			t.Errorf("code = %d, want %d", got, code)
		}
		if _, err := os.Stat(marker); err == nil {
			t.Errorf("code %d: program ran", code)
		}
		if f.echo.String() != "hello diagnostic" {
			t.Errorf("code %d: echo = %q, want captured text", code, f.echo.String())
		}
	}
}

func TestLaunch_NoCommand(t *testing.T) {
	for _, script := range []string{`exit 0`, `printf '   '; exit 0`} {
		f := newFixture(t, script)

		code, err := f.engine.Launch(context.Background(), f.loc, nil)
		if !errors.Is(err, ErrNoCommand) {
			t.Errorf("%q: err = %v, want ErrNoCommand", script, err)
		}
		if code != 1 {
			t.Errorf("%q: code = %d, want 1", script, code)
		}
	}
}

func TestLaunch_CompilerKilled(t *testing.T) {
	f := newFixture(t, `kill -9 $$`)

	code, err := f.engine.Launch(context.Background(), f.loc, nil)
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	var term *TerminationError
	if !errors.As(err, &term) {
		t.Fatalf("err = %v, want *TerminationError", err)
	}
	if term.Phase != CompilerPhase {
		t.Errorf("Phase = %v, want compiler", term.Phase)
	}
	if !strings.Contains(err.Error(), "Unable to execute EK9 compiler") {
		t.Errorf("message = %q", err)
	}
}

func TestLaunch_ProgramKilled(t *testing.T) {
	f := newFixture(t, `printf 'hello'; exit 0`)
	f.program(t, "hello", `kill -9 $$`)

	code, err := f.engine.Launch(context.Background(), f.loc, nil)
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	var term *TerminationError
	if !errors.As(err, &term) || term.Phase != ProgramPhase {
		t.Fatalf("err = %v, want program TerminationError", err)
	}
	if !strings.Contains(err.Error(), "Unable to run compiled program") {
		t.Errorf("message = %q", err)
	}
}

func TestLaunch_ProgramNotFound(t *testing.T) {
	f := newFixture(t, `printf 'no-such-program-xyz'; exit 0`)

	code, err := f.engine.Launch(context.Background(), f.loc, nil)
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	var resErr *runner.ResourceError
	if !errors.As(err, &resErr) {
		t.Errorf("err = %v, want *runner.ResourceError", err)
	}
}

func TestLaunch_CompilerInvocation(t *testing.T) {
	record := filepath.Join(t.TempDir(), "argv")
	f := newFixture(t, `printf '%s\n' "$@" > "`+record+`"; exit 1`)

	args := []string{"-c", "my file.ek9", "x"}
	if _, err := f.engine.Launch(context.Background(), f.loc, args); err != nil {
		t.Fatalf("Launch: %v", err)
	}

	want := []string{"-Xmx512m", "-jar", f.loc.Path, "-c", "'my file.ek9'", "x"}
	if diff := cmp.Diff(want, readArgs(t, record)); diff != "" {
		t.Errorf("java argv mismatch (-want +got):\n%s", diff)
	}
}

func TestLaunch_MemoryOverride(t *testing.T) {
	record := filepath.Join(t.TempDir(), "argv")
	f := newFixture(t, `printf '%s\n' "$@" > "`+record+`"; exit 1`)
	f.engine.Env = config.Env{Memory: "-Xmx2g"}

	if _, err := f.engine.Launch(context.Background(), f.loc, nil); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if got := readArgs(t, record)[0]; got != "-Xmx2g" {
		t.Errorf("memory flag = %q, want -Xmx2g", got)
	}
}

func TestLaunch_MissingArtifact(t *testing.T) {
	f := newFixture(t, `exit 1`)
	loc := (&artifact.Locator{Home: t.TempDir()}).Locate()

	code, err := f.engine.Launch(context.Background(), loc, nil)
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	var locErr *artifact.LocationError
	if !errors.As(err, &locErr) {
		t.Errorf("err = %v, want *artifact.LocationError", err)
	}
}

func TestLaunch_ToolchainGate(t *testing.T) {
	record := filepath.Join(t.TempDir(), "argv")
	f := newFixture(t, `touch "`+record+`"; exit 1`)
	f.engine.Validator = &fakeValidator{err: &toolchain.EnvironmentError{Reason: toolchain.ReasonTooOld, Found: 21, Minimum: 25}}

	code, err := f.engine.Launch(context.Background(), f.loc, nil)
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	var envErr *toolchain.EnvironmentError
	if !errors.As(err, &envErr) {
		t.Errorf("err = %v, want *toolchain.EnvironmentError", err)
	}
	if _, err := os.Stat(record); err == nil {
		t.Error("compiler ran despite failed toolchain check")
	}
}

func TestLaunch_RealValidator(t *testing.T) {
	f := newFixture(t, `exit 1`)
	writeScript(t, f.bin, "javac", `echo "javac 25.0.1"`)
	f.engine.Validator = &toolchain.Validator{Runner: toolchain.NewRunner()}

	code, err := f.engine.Launch(context.Background(), f.loc, nil)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if code != 0 {
		t.Errorf("code = %d, want 0", code)
	}
}

func TestCompile_CollectsOutput(t *testing.T) {
	f := newFixture(t, `echo "Error   : 'x' on line 3 position 5: not resolved"; echo done >&2; exit 8`)
	marker := f.program(t, "hello", "exit 0")

	res, err := f.engine.Compile(context.Background(), &runner.Runner{}, f.loc, []string{"-c", "main.ek9"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.ExitCode != 8 {
		t.Errorf("ExitCode = %d, want 8", res.ExitCode)
	}
	if !strings.Contains(string(res.Stdout), "not resolved") || string(res.Stderr) != "done\n" {
		t.Errorf("Stdout = %q, Stderr = %q", res.Stdout, res.Stderr)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Error("Compile ran a program")
	}
}

func TestCompile_Timeout(t *testing.T) {
	f := newFixture(t, `exec sleep 10`)

	r := &runner.Runner{Timeout: 100 * time.Millisecond}
	_, err := f.engine.Compile(context.Background(), r, f.loc, []string{"-c", "main.ek9"})
	var term *TerminationError
	if !errors.As(err, &term) || !term.Err.TimedOut() {
		t.Fatalf("err = %v, want timed-out TerminationError", err)
	}
	if want := "The compiler did not finish within 100ms and was stopped."; err.Error() != want {
		t.Errorf("message = %q, want %q", err, want)
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t, `exit 1`)
	f.engine.Env = config.Env{Memory: "-Xmx1g"}

	st := f.engine.Status(context.Background(), f.loc)
	if !st.Ready() {
		t.Errorf("Ready = false: artifact %v, java %v", st.ArtifactErr, st.JavaErr)
	}
	if st.JavaVersion != 25 || st.Memory != "-Xmx1g" || !st.UsedOverride {
		t.Errorf("Status = %+v", st)
	}

	st = f.engine.Status(context.Background(), (&artifact.Locator{Home: t.TempDir()}).Locate())
	if st.Ready() {
		t.Error("Ready = true with missing artifact")
	}
}
