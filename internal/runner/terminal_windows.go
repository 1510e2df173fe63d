//go:build windows

package runner

import "os/exec"

// NewTerminal returns the pipe adapter; pseudo-terminals are not used on Windows.
func NewTerminal(usePTY bool) Terminal {
	return pipeTerminal{}
}

func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
