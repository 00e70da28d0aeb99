//go:build windows

package artifact

import "os"

// PlatformFinder resolves the running executable's module path.
type PlatformFinder struct{}

func (PlatformFinder) ExecutablePath() (string, error) {
	return os.Executable()
}
