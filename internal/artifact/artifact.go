// Package artifact finds the compiler JAR: either under EK9_HOME or next
// to the running executable.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ek9lang/ek9launch/internal/config"
)

// ArtifactName is the file name of the compiler JAR.
const ArtifactName = "ek9c-jar-with-dependencies.jar"

// ExecutableFinder reports the absolute path of the running executable.
type ExecutableFinder interface {
	ExecutablePath() (string, error)
}

// Locator computes where the compiler artifact should be.
type Locator struct {
	// Home is the EK9_HOME override; empty means zero-config mode.
	Home string
	// Self finds the launcher's own path. Nil means the platform default.
	Self ExecutableFinder
}

// Location is the resolved artifact path. It says where the file should
// be, not that it exists.
type Location struct {
	Path         string
	UsedOverride bool
	// Warning is set when the executable's own path could not be found
	// and Path fell back to the bare artifact name.
	Warning string
}

// Locate never fails. When the executable path is unavailable the
// directory part is empty and Warning explains why; Check then reports
// the missing file.
func (l *Locator) Locate() Location {
	if l.Home != "" {
		return Location{Path: filepath.Join(l.Home, ArtifactName), UsedOverride: true}
	}

	self := l.Self
	if self == nil {
		self = PlatformFinder{}
	}
	exe, err := self.ExecutablePath()
	if err != nil || exe == "" {
		if err == nil {
			err = fmt.Errorf("empty path")
		}
		return Location{
			Path:    ArtifactName,
			Warning: fmt.Sprintf("cannot determine launcher location: %v", err),
		}
	}
	return Location{Path: filepath.Join(filepath.Dir(exe), ArtifactName)}
}

// Dir returns the directory expected to hold the artifact.
func (loc Location) Dir() string {
	dir := filepath.Dir(loc.Path)
	if dir == "." && !strings.ContainsRune(loc.Path, filepath.Separator) {
		return ""
	}
	return dir
}

// Check verifies that the artifact exists and is a readable regular file.
func (loc Location) Check() error {
	info, err := os.Stat(loc.Path)
	if err == nil && info.IsDir() {
		err = fmt.Errorf("is a directory")
	}
	if err == nil {
		var f *os.File
		if f, err = os.Open(loc.Path); err == nil {
			f.Close()
		}
	}
	if err != nil {
		return &LocationError{Path: loc.Path, UsedOverride: loc.UsedOverride, Err: err}
	}
	return nil
}

// LocationError reports a missing or unusable compiler artifact. The
// message carries remediation hints for the mode that produced the path.
type LocationError struct {
	Path         string
	UsedOverride bool
	Err          error
}

func (e *LocationError) Error() string {
	var b strings.Builder
	b.WriteString("EK9 compiler JAR not found\n")
	fmt.Fprintf(&b, "Searched: %s\n\n", e.Path)

	if e.UsedOverride {
		fmt.Fprintf(&b, "Using %s environment variable. Please verify:\n", config.HomeVar)
		fmt.Fprintf(&b, "  1. %s is set correctly\n", config.HomeVar)
		fmt.Fprintf(&b, "  2. JAR exists at: $%s/%s", config.HomeVar, ArtifactName)
		return b.String()
	}

	b.WriteString("The JAR should be in the same directory as this executable.\n")
	fmt.Fprintf(&b, "Alternatively, set %s to point to your EK9 installation:\n", config.HomeVar)
	fmt.Fprintf(&b, "  export %s=/path/to/ek9/installation", config.HomeVar)
	return b.String()
}

func (e *LocationError) Unwrap() error { return e.Err }
