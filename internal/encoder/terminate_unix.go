//go:build !windows

package encoder

import (
	"os"
	"os/exec"
	"syscall"
)

func terminate(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}

// terminatedByRequest reports an exit caused by SIGTERM or SIGKILL, either
// directly or as the 128+n code a wrapper shell reports.
func terminatedByRequest(err *exec.ExitError) bool {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := ws.Signal()
		return sig == syscall.SIGTERM || sig == syscall.SIGKILL
	}
	code := err.ExitCode()
	return code == 128+int(syscall.SIGTERM) || code == 128+int(syscall.SIGKILL)
}
