// Package app wires configuration, workspace, store, project, importer, runner and scanner together.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scantriage/internal/ci"
	"github.com/scan-io-git/scantriage/internal/config"
	"github.com/scan-io-git/scantriage/internal/importer"
	"github.com/scan-io-git/scantriage/internal/logger"
	"github.com/scan-io-git/scantriage/internal/project"
	"github.com/scan-io-git/scantriage/internal/runner"
	"github.com/scan-io-git/scantriage/internal/scanner"
	"github.com/scan-io-git/scantriage/internal/store"
	"github.com/scan-io-git/scantriage/internal/workspace"
)

// ErrNoProject is returned when a command needs a project and none is configured.
var ErrNoProject = fmt.Errorf("no project configured, pass --project or set project.path")

// Options adjusts how an App is built.
type Options struct {
	// Dir is where the workspace is resolved from; the working directory when empty.
	Dir string
	// ProgressOut receives the in-place progress line; os.Stderr when nil.
	ProgressOut io.Writer
	// Terminal replaces the terminal adapter chosen from the configuration.
	Terminal runner.Terminal
}

// App holds the wired components of one command invocation.
type App struct {
	Config        *config.Config
	Logger        hclog.Logger
	WorkspaceRoot string
	Store         *store.Store
	Project       *project.Project
	Importer      *importer.Importer
	Runner        *runner.Runner
	Scanner       *scanner.Scanner
}

// New builds an App. When a project path is configured the project is loaded into the store
// and every normal import is persisted to it.
func New(cfg *config.Config, name string, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	log := logger.NewLogger(cfg, name)

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	root, err := workspace.Resolve(cfg.Workspace.Root, dir)
	if err != nil {
		return nil, err
	}
	log.Debug("workspace resolved", "root", root)

	a := &App{
		Config:        cfg,
		Logger:        log,
		WorkspaceRoot: root,
		Store:         store.New(log.Named("store")),
	}

	if cfg.Project.Path != "" {
		p, err := project.Open(project.NormalizePath(cfg.Project.Path), root, a.Store, log.Named("project"))
		if err != nil {
			return nil, err
		}
		a.Project = p
	}

	hooks := importer.Hooks{
		OnRefresh: func() {
			log.Debug("findings refreshed", "findings", a.Store.Len())
		},
	}
	if a.Project != nil {
		hooks.OnPersist = a.Project.Persist
	}
	a.Importer = importer.New(root, log.Named("importer"), hooks)

	out := opts.ProgressOut
	if out == nil {
		out = os.Stderr
	}
	term := opts.Terminal
	if term == nil {
		term = runner.NewTerminal(config.UsePTY(cfg))
	}
	env := ci.Detect()
	if env.CI {
		log.Debug("running in CI, progress goes to the log", "provider", env.Kind)
	}
	progress := NewProgress(out, log, IsTerminal(out) && !env.CI)

	a.Runner = runner.New(runner.Options{
		WorkspaceRoot:      root,
		Timeout:            cfg.Scanner.Timeout,
		MaxDiagnosticBytes: cfg.Scanner.MaxDiagnosticBytes,
		Terminal:           term,
		Observer:           progress.Observe,
		Logger:             log.Named("runner"),
	})
	a.Scanner = scanner.New(scanner.Options{
		Config:        cfg,
		WorkspaceRoot: root,
		Runner:        a.Runner,
		Importer:      a.Importer,
		Store:         a.Store,
		Logger:        log.Named("scanner"),
	})
	return a, nil
}

// RequireProject returns the loaded project or ErrNoProject.
func (a *App) RequireProject() (*project.Project, error) {
	if a.Project == nil {
		return nil, ErrNoProject
	}
	return a.Project, nil
}
