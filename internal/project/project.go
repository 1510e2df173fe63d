package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/internal/store"
	"github.com/scan-io-git/scantriage/internal/workspace"
	"github.com/scan-io-git/scantriage/pkg/shared/files"
)

const projectExt = ".json"

// Metadata records where the findings were triaged.
type Metadata struct {
	Branch  string    `json:"branch,omitempty"`
	Commit  string    `json:"commit,omitempty"`
	Remote  string    `json:"remote,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// File is the on-disk project format.
type File struct {
	Matches  []findings.Finding `json:"matches"`
	Metadata *Metadata          `json:"metadata,omitempty"`
}

// NormalizePath appends the project extension when it is missing.
func NormalizePath(path string) string {
	if strings.HasSuffix(path, projectExt) {
		return path
	}
	return path + projectExt
}

// Create writes an empty project. An existing file is only replaced when overwrite is set.
func Create(path string, overwrite bool) (string, error) {
	path = NormalizePath(path)
	if files.Exists(path) && !overwrite {
		return "", fmt.Errorf("project %q already exists", path)
	}
	if err := files.WriteJsonFile(path, []byte("{}")); err != nil {
		return "", fmt.Errorf("failed to create project %q: %w", path, err)
	}
	return path, nil
}

// Read decodes a project file. An empty object yields no findings.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project %q: %w", path, err)
	}
	f := &File{}
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse project %q: %w", path, err)
	}
	return f, nil
}

// Write encodes a project file.
func Write(path string, f *File) error {
	if f.Matches == nil {
		f.Matches = []findings.Finding{}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	return files.WriteJsonFile(path, data)
}

// Project binds a finding store to its project file.
type Project struct {
	Path          string
	WorkspaceRoot string
	Metadata      *Metadata

	store  *store.Store
	logger hclog.Logger
}

// Open loads path into s, replacing its contents.
func Open(path, workspaceRoot string, s *store.Store, logger hclog.Logger) (*Project, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	s.Load(f.Matches)
	logger.Debug("project loaded", "path", path, "findings", len(f.Matches))

	return &Project{
		Path:          path,
		WorkspaceRoot: workspaceRoot,
		Metadata:      f.Metadata,
		store:         s,
		logger:        logger,
	}, nil
}

// Save writes every finding in the store to the project file.
func (p *Project) Save() error {
	p.Metadata = collectMetadata(p.WorkspaceRoot, p.logger)
	if err := Write(p.Path, &File{Matches: p.store.All(), Metadata: p.Metadata}); err != nil {
		return err
	}
	p.logger.Debug("project saved", "path", p.Path, "findings", p.store.Len())
	return nil
}

// Persist matches the importer's persistence hook.
func (p *Project) Persist([]findings.Finding) error {
	return p.Save()
}

func collectMetadata(root string, logger hclog.Logger) *Metadata {
	md := &Metadata{SavedAt: time.Now().UTC()}
	if root == "" {
		return md
	}
	repo, err := workspace.CollectMetadata(root)
	if err != nil {
		logger.Debug("no repository metadata for project", "root", root, "reason", err)
		return md
	}
	md.Branch = repo.Branch
	md.Commit = repo.Commit
	md.Remote = repo.Remote
	return md
}
