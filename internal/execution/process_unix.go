//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package execution

import (
	"os/exec"
	"syscall"
)

// configureProcess puts the unit in its own process group so that
// simulators it spawns are killed along with it.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
