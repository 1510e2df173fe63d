//go:build !windows

package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/scan-io-git/scantriage/internal/builder"
)

// NewTerminal returns the pseudo-terminal adapter, or the pipe adapter when usePTY is false.
func NewTerminal(usePTY bool) Terminal {
	if usePTY {
		return ptyTerminal{}
	}
	return pipeTerminal{}
}

// ptyTerminal runs the scanner attached to a pseudo-terminal so it renders interactive progress.
type ptyTerminal struct{}

func (ptyTerminal) Start(ctx context.Context, c *builder.Command, dir string) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(c.Binary, c.Args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	// pty.Start makes the child a session leader, so its pid is also its process group id.
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 50, Cols: 200})
	if err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, out: eioReader{f}, f: f}, nil
}

// eioReader reports the EIO a pty master returns after the child closes its side as EOF.
type eioReader struct {
	r io.Reader
}

func (e eioReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && errors.Is(err, unix.EIO) {
		err = io.EOF
	}
	return n, err
}

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) error {
	if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
		return cmd.Process.Kill()
	}
	return nil
}
