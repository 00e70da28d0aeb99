//go:build unix

package runner

import (
	"os"
	"syscall"
)

// terminationSignal names the signal that ended the process, if any.
func terminationSignal(state *os.ProcessState) string {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}
	return "signal: " + ws.Signal().String()
}
