//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package execution

import "os/exec"

func configureProcess(cmd *exec.Cmd) {}
