package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scantriage/internal/artifact"
	"github.com/scan-io-git/scantriage/internal/builder"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

const (
	defaultMaxDiagnosticBytes = 64 * 1024
	readChunkSize             = 4096
)

// Options configures a Runner.
type Options struct {
	WorkspaceRoot      string
	Timeout            time.Duration
	MaxDiagnosticBytes int
	Terminal           Terminal
	Observer           Observer
	Logger             hclog.Logger
	// Probe resolves the scanner binary; ResolveBinary is used when nil.
	Probe func(string) (string, error)
}

// Request describes one scan.
type Request struct {
	Command *builder.Command
	// ArtifactPath is where the scanner writes its report, absolute or relative to the workspace root.
	ArtifactPath string
}

// Result is the outcome of a successful run.
type Result struct {
	RunID       string
	Artifact    *artifact.Artifact
	ExitCode    int
	Diagnostics string
	Duration    time.Duration
}

// Runner executes one scanner process at a time and drives it through the run states.
type Runner struct {
	opts   Options
	logger hclog.Logger
	busy   atomic.Bool

	mu    sync.Mutex
	state State
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Terminal == nil {
		opts.Terminal = NewTerminal(true)
	}
	if opts.Probe == nil {
		opts.Probe = ResolveBinary
	}
	if opts.MaxDiagnosticBytes <= 0 {
		opts.MaxDiagnosticBytes = defaultMaxDiagnosticBytes
	}
	return &Runner{opts: opts, logger: opts.Logger, state: Idle}
}

// State returns the current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// run holds the per-run state shared by the Run helpers.
type run struct {
	*Runner
	id       string
	logger   hclog.Logger
	diag     *tailBuffer
	splitter lineSplitter
	draining bool
}

func (r *run) emit(e Event) {
	e.RunID = r.id
	if r.opts.Observer != nil {
		r.opts.Observer(e)
	}
}

func (r *run) transition(next State) {
	r.mu.Lock()
	prev := r.state
	if !CanTransition(prev, next) {
		r.mu.Unlock()
		r.logger.Error("invalid state transition ignored", "from", prev, "to", next)
		return
	}
	r.state = next
	r.mu.Unlock()

	r.logger.Debug("state changed", "from", prev, "to", next)
	r.emit(Event{Kind: EventStateChanged, State: next})
}

func (r *run) fail(kind errors.Kind, op string, err error) error {
	r.transition(Failed)
	return errors.NewScanError(kind, op, err)
}

// Run executes the scanner and returns once the process has exited and its report has been checked.
// Only one Run may be in flight; a concurrent call fails with ErrScanInProgress.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, errors.ErrScanInProgress
	}
	defer r.busy.Store(false)

	id := uuid.New().String()
	rn := &run{
		Runner:   r,
		id:       id,
		logger:   r.logger.With("run", id),
		diag:     newTailBuffer(r.opts.MaxDiagnosticBytes),
		splitter: lineSplitter{limit: r.opts.MaxDiagnosticBytes},
	}
	defer rn.transition(Idle)

	return rn.execute(ctx, req)
}

func (r *run) execute(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	r.transition(Starting)

	if req.Command == nil {
		return nil, r.fail(errors.KindPrecondition, "start scanner", fmt.Errorf("no command to run"))
	}
	binary, err := r.opts.Probe(req.Command.Binary)
	if err != nil {
		return nil, r.fail(errors.KindPrecondition, "start scanner", err)
	}
	if info, err := os.Stat(r.opts.WorkspaceRoot); err != nil || !info.IsDir() {
		return nil, r.fail(errors.KindPrecondition, "start scanner", fmt.Errorf("workspace root %q is not an open directory", r.opts.WorkspaceRoot))
	}
	cmd := &builder.Command{Binary: binary, Args: req.Command.Args}
	artifactPath := builder.ResolveArtifactPath(r.opts.WorkspaceRoot, req.ArtifactPath)

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	r.logger.Info("starting scanner", "command", cmd.String(), "dir", r.opts.WorkspaceRoot, "artifact", artifactPath)
	proc, err := r.opts.Terminal.Start(ctx, cmd, r.opts.WorkspaceRoot)
	if err != nil {
		if ctx.Err() != nil {
			return nil, r.fail(errors.KindCanceled, "start scanner", ctx.Err())
		}
		return nil, r.fail(errors.KindSubprocess, "start scanner", err)
	}
	defer proc.Close()
	r.transition(Running)

	exited := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			r.logger.Warn("stopping scanner", "reason", ctx.Err())
			if err := proc.Kill(); err != nil {
				r.logger.Error("failed to kill scanner", "err", err)
			}
		case <-exited:
		}
	}()

	type waitResult struct {
		code int
		err  error
	}
	waited := make(chan waitResult, 1)
	go func() {
		code, err := proc.Wait()
		waited <- waitResult{code: code, err: err}
	}()

	streamErr := r.consume(proc.Output())
	wr := <-waited
	close(exited)

	if rest := r.splitter.Flush(); rest != "" {
		r.handleLine(rest)
	}

	if ctx.Err() != nil {
		return nil, r.fail(errors.KindCanceled, "run scanner", r.withDiagnostics(ctx.Err()))
	}
	if wr.err != nil {
		return nil, r.fail(errors.KindSubprocess, "run scanner", r.withDiagnostics(wr.err))
	}
	if streamErr != nil {
		r.logger.Warn("scanner output stream failed", "err", streamErr)
		r.diag.WriteLine(fmt.Sprintf("output stream error: %v", streamErr))
	}

	r.logger.Debug("scanner exited", "code", wr.code)
	return r.complete(ctx, artifactPath, wr.code, started)
}

// consume reads the output stream until EOF and classifies it. It returns any error other than EOF.
func (r *run) consume(out io.Reader) error {
	buf := make([]byte, readChunkSize)
	for {
		n, err := out.Read(buf)
		if n > 0 {
			r.handleChunk(string(buf[:n]))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (r *run) handleChunk(chunk string) {
	if r.draining {
		return
	}
	lines, prologue := r.splitter.Push(chunk)
	for _, line := range lines {
		r.handleLine(line)
	}
	if prologue {
		r.enterDraining()
	}
}

// enterDraining stops classification; the rest of the stream is the JSON report.
func (r *run) enterDraining() {
	if r.draining {
		return
	}
	r.draining = true
	r.splitter.Reset()
	r.transition(Draining)
}

// handleLine strips control sequences from one complete line and classifies it.
func (r *run) handleLine(line string) {
	if r.draining {
		return
	}
	line = stripANSI(line)
	c := classifyLine(line)
	switch c.kind {
	case lineProgress:
		r.emit(Event{Kind: EventProgress, Percent: c.percent, Elapsed: c.elapsed})
	case linePrologue:
		r.enterDraining()
	case lineNoise:
	default:
		if strings.Contains(line, nothingToScan) {
			r.emit(Event{Kind: EventWarning, Message: "the scanner found nothing to scan, check the include and exclude globs"})
		}
		r.diag.WriteLine(line)
		r.logger.Trace("scanner output", "line", line)
		r.emit(Event{Kind: EventDiagnostic, Message: line})
	}
}

func (r *run) withDiagnostics(err error) error {
	if d := r.diag.String(); d != "" {
		return fmt.Errorf("%w\n%s", err, d)
	}
	return err
}

// complete decides the final state from the exit code and the report on disk.
func (r *run) complete(ctx context.Context, artifactPath string, exitCode int, started time.Time) (*Result, error) {
	a, err := artifact.Read(ctx, artifactPath)
	if err != nil {
		if exitCode != 0 {
			return nil, r.fail(errors.KindSubprocess, "run scanner", r.withDiagnostics(fmt.Errorf("scanner exited with code %d: %w", exitCode, err)))
		}
		return nil, r.fail(errors.KindArtifact, "read report", r.withDiagnostics(fmt.Errorf("scanner exited cleanly but its report is unusable: %w", err)))
	}

	if msg := a.ErrorsMessage(); msg != "" {
		return nil, r.fail(errors.KindContent, "read report", fmt.Errorf("%s", msg))
	}

	if exitCode != 0 {
		r.logger.Warn("scanner exited with a non-zero code but produced a valid report", "code", exitCode)
	}

	r.transition(Succeeded)
	result := &Result{
		RunID:       r.id,
		Artifact:    a,
		ExitCode:    exitCode,
		Diagnostics: r.diag.String(),
		Duration:    time.Since(started),
	}
	r.logger.Info("scan finished", "results", len(a.Results), "duration", result.Duration)
	return result, nil
}
