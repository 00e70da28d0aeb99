//go:build linux

package artifact

import "os"

// PlatformFinder resolves the running executable through /proc.
type PlatformFinder struct{}

func (PlatformFinder) ExecutablePath() (string, error) {
	return os.Readlink("/proc/self/exe")
}
