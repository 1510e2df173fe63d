package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/scan-io-git/scantriage/internal/builder"
)

// Process is a running scanner.
type Process interface {
	// Output streams the merged stdout and stderr of the process.
	Output() io.Reader
	// Wait blocks until the process exits and returns its exit code.
	Wait() (int, error)
	// Kill terminates the process and everything it spawned.
	Kill() error
	// Close releases the output stream.
	Close() error
}

// Terminal spawns scanner processes.
type Terminal interface {
	Start(ctx context.Context, cmd *builder.Command, dir string) (Process, error)
}

// execProcess adapts an exec.Cmd to Process.
type execProcess struct {
	cmd *exec.Cmd
	out io.Reader
	f   *os.File
}

func (p *execProcess) Output() io.Reader { return p.out }

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return killProcessGroup(p.cmd)
}

func (p *execProcess) Close() error {
	return p.f.Close()
}

// pipeTerminal runs the scanner with stderr merged into stdout over a pipe.
// Live progress is usually lost because the scanner detects it is not attached to a terminal.
type pipeTerminal struct{}

func (pipeTerminal) Start(ctx context.Context, c *builder.Command, dir string) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(c.Binary, c.Args...)
	cmd.Dir = dir
	cmd.Stdout = w
	cmd.Stderr = w
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	// The child holds its own copy of the write end.
	w.Close()

	return &execProcess{cmd: cmd, out: r, f: r}, nil
}
