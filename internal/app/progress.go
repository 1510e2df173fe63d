package app

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"

	"github.com/scan-io-git/scantriage/internal/runner"
)

// Progress renders runner events either as an in-place line on a terminal or as log records.
type Progress struct {
	out         io.Writer
	logger      hclog.Logger
	inline      bool
	drawn       bool
	lastPercent int
}

// NewProgress creates a Progress. inline selects the in-place terminal line.
func NewProgress(out io.Writer, logger hclog.Logger, inline bool) *Progress {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Progress{out: out, logger: logger, inline: inline, lastPercent: -1}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Observe implements runner.Observer.
func (p *Progress) Observe(e runner.Event) {
	switch e.Kind {
	case runner.EventProgress:
		if e.Percent == p.lastPercent {
			return
		}
		p.lastPercent = e.Percent
		if p.inline {
			fmt.Fprintf(p.out, "\rscanning %3d%% (%s)", e.Percent, e.Elapsed)
			p.drawn = true
			return
		}
		p.logger.Info("scan progress", "run_id", e.RunID, "percent", e.Percent, "elapsed", e.Elapsed)
	case runner.EventStateChanged:
		if e.State.Terminal() || e.State == runner.Draining {
			p.endLine()
		}
		if e.State == runner.Starting {
			p.lastPercent = -1
		}
		p.logger.Debug("scan state", "run_id", e.RunID, "state", e.State)
	case runner.EventWarning:
		p.endLine()
		p.logger.Warn(e.Message, "run_id", e.RunID)
	case runner.EventDiagnostic:
		p.logger.Debug("scanner", "line", e.Message)
	}
}

func (p *Progress) endLine() {
	if p.drawn {
		fmt.Fprintln(p.out)
		p.drawn = false
	}
}
