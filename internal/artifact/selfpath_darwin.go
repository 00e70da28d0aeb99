//go:build darwin

package artifact

import (
	"os"
	"path/filepath"
)

// PlatformFinder resolves the running executable and follows symlinks,
// so a launcher linked into /usr/local/bin still finds its JAR.
type PlatformFinder struct{}

func (PlatformFinder) ExecutablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}
