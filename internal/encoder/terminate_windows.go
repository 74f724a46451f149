//go:build windows

package encoder

import (
	"os"
	"os/exec"
)

// statusControlCExit is STATUS_CONTROL_C_EXIT.
const statusControlCExit = 0xC000013A

// Windows has no SIGTERM for console children; the graceful step is a kill.
func terminate(p *os.Process) error {
	return p.Kill()
}

func terminatedByRequest(err *exec.ExitError) bool {
	return uint32(err.ExitCode()) == statusControlCExit
}
