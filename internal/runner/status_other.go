//go:build !unix

package runner

import "os"

// terminationSignal is unknown on platforms without POSIX wait statuses.
func terminationSignal(state *os.ProcessState) string {
	_ = state
	return ""
}
