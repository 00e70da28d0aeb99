//go:build !linux && !darwin && !windows

package artifact

import (
	"errors"
	"runtime"
)

// PlatformFinder has no reliable source for the executable path here.
type PlatformFinder struct{}

func (PlatformFinder) ExecutablePath() (string, error) {
	return "", errors.New("executable path lookup not supported on " + runtime.GOOS)
}
