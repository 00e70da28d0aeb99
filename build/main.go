// Build pipeline for ek9launch. Run from the repository root:
//
//	go run ./build            # test, vet and cross-compile
//	go run ./build -h         # list tasks
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ek9lang/ek9launch/internal/runner"
	"github.com/goyek/goyek/v3"
	"github.com/goyek/x/boot"
	"golang.org/x/sync/errgroup"
)

// targets covers every self-path implementation of internal/artifact.
var targets = []string{"linux", "darwin", "windows", "freebsd"}

var test = goyek.Define(goyek.Task{
	Name:  "test",
	Usage: "go test ./...",
	Action: func(a *goyek.A) {
		gorun(a, "test", "./...")
	},
})

var vet = goyek.Define(goyek.Task{
	Name:  "vet",
	Usage: "go vet ./...",
	Action: func(a *goyek.A) {
		gorun(a, "vet", "./...")
	},
})

var cross = goyek.Define(goyek.Task{
	Name:  "cross",
	Usage: "build cmd/ek9 for " + strings.Join(targets, ", "),
	Action: func(a *goyek.A) {
		built := make([]string, len(targets))
		g, ctx := errgroup.WithContext(a.Context())
		for i, goos := range targets {
			g.Go(func() error {
				out := filepath.Join("bin", goos, "ek9")
				if goos == "windows" {
					out += ".exe"
				}
				r := &runner.Runner{
					Env: append(os.Environ(), "GOOS="+goos, "GOARCH=amd64", "CGO_ENABLED=0"),
				}
				res, err := r.Run(ctx, []string{"go", "build", "-o", out, "./cmd/ek9"}, runner.Collect)
				if err != nil {
					return fmt.Errorf("%s: %w", goos, err)
				}
				if res.ExitCode != 0 {
					return fmt.Errorf("%s: go build exited %d:\n%s", goos, res.ExitCode, res.Stderr)
				}
				built[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			a.Fatal(err)
		}
		for _, out := range built {
			a.Logf("built %s", out)
		}
	},
})

var all = goyek.Define(goyek.Task{
	Name:  "all",
	Usage: "test, vet and cross-compile",
	Deps:  goyek.Deps{test, vet, cross},
})

func gorun(a *goyek.A, args ...string) {
	a.Helper()
	r := &runner.Runner{Stdout: a.Output(), Stderr: a.Output()}
	res, err := r.Run(a.Context(), append([]string{"go"}, args...), runner.Inherit)
	if err != nil {
		a.Fatal(err)
	}
	if res.ExitCode != 0 {
		a.Fatalf("go %s exited %d", strings.Join(args, " "), res.ExitCode)
	}
}

func main() {
	goyek.SetDefault(all)
	boot.Main()
}
