// Command ek9 locates the EK9 compiler next to itself (or under EK9_HOME),
// runs it with every argument it was given, and then runs whatever program
// the compiler asks for.
//
// The launcher owns no flags or subcommands: -h, help and completion are
// all the compiler's.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ek9lang/ek9launch/internal/artifact"
	"github.com/ek9lang/ek9launch/internal/config"
	"github.com/ek9lang/ek9launch/internal/diag"
	"github.com/ek9lang/ek9launch/internal/exitcode"
	"github.com/ek9lang/ek9launch/internal/launcher"
	"github.com/ek9lang/ek9launch/internal/runner"
	"github.com/ek9lang/ek9launch/internal/toolchain"
)

func main() {
	os.Exit(launch(context.Background(), os.Args[1:]))
}

func launch(ctx context.Context, args []string) int {
	env := config.FromEnviron()
	printer := diag.NewPrinter(os.Stderr, env.NoColor)

	loc := (&artifact.Locator{Home: env.Home}).Locate()
	if loc.Warning != "" {
		printer.Warn("%s", loc.Warning)
	}

	cfg, err := config.Load(loc.Dir())
	if err != nil {
		printer.Error(err)
		return exitcode.Failure
	}
	log := diag.NewLogger(os.Stderr, cfg.LogLevel(), env.NoColor)

	// Terminal interrupts go to the whole foreground group. Catching them
	// here keeps the launcher alive to report the child's status, while the
	// child still gets the default disposition.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	eng := &launcher.Engine{
		Config:    cfg,
		Env:       env,
		Runner:    &runner.Runner{CaptureLimit: cfg.CaptureBytes()},
		Validator: &toolchain.Validator{Runner: toolchain.NewRunner()},
		Log:       log,
	}

	code, err := eng.Launch(ctx, loc, args)
	if err != nil {
		printer.Error(err)
	}
	return code
}
