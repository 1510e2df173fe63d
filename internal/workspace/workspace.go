package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/scan-io-git/scantriage/internal/ci"
	"github.com/scan-io-git/scantriage/pkg/shared/files"
)

// Metadata describes the repository a workspace belongs to.
type Metadata struct {
	Root   string
	Branch string
	Commit string
	Remote string
	// InRepository is false when no git repository encloses the workspace.
	InRepository bool
}

// Resolve determines the workspace root for dir.
// An explicit root is used as is; otherwise the enclosing git repository root is preferred over dir itself.
func Resolve(explicitRoot, dir string) (string, error) {
	if explicitRoot != "" {
		expanded, err := files.ExpandPath(explicitRoot)
		if err != nil {
			return "", err
		}
		return absDir(expanded)
	}

	abs, err := absDir(dir)
	if err != nil {
		return "", err
	}
	if repoRoot, err := findGitRepositoryPath(abs); err == nil {
		return repoRoot, nil
	}
	return abs, nil
}

func absDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace %q: %w", dir, err)
	}
	if !files.IsDir(abs) {
		return "", fmt.Errorf("workspace %q is not a directory", abs)
	}
	return filepath.Clean(abs), nil
}

// CollectMetadata reads branch, commit and origin of the repository enclosing root.
// Fields the repository cannot provide, such as the branch of a detached CI checkout,
// are taken from the CI environment.
func CollectMetadata(root string) (*Metadata, error) {
	return collectMetadata(root, ci.Detect())
}

func collectMetadata(root string, env ci.Environment) (*Metadata, error) {
	if root == "" {
		return &Metadata{}, fmt.Errorf("workspace root is not set")
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	md := &Metadata{Root: filepath.Clean(root)}

	repoRoot, err := findGitRepositoryPath(root)
	if err != nil {
		fillFromCI(md, env)
		if md.Commit != "" {
			return md, nil
		}
		return md, err
	}

	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return md, fmt.Errorf("failed to open repository: %w", err)
	}
	md.InRepository = true

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			md.Branch = head.Name().Short()
		}
		md.Commit = head.Hash().String()
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			md.Remote = strings.TrimSuffix(cfg.URLs[0], ".git")
		}
	}

	fillFromCI(md, env)
	return md, nil
}

func fillFromCI(md *Metadata, env ci.Environment) {
	if md.Branch == "" {
		md.Branch = env.Branch
	}
	if md.Commit == "" {
		md.Commit = env.Commit
	}
	if md.Remote == "" {
		md.Remote = env.Remote
	}
}

// findGitRepositoryPath walks up from sourceFolder to the first directory that opens as a git repository.
func findGitRepositoryPath(sourceFolder string) (string, error) {
	if sourceFolder == "" {
		return "", fmt.Errorf("source folder is not set")
	}

	for {
		if _, err := git.PlainOpen(sourceFolder); err == nil {
			return sourceFolder, nil
		}

		parent := filepath.Dir(sourceFolder)
		if parent == sourceFolder {
			break
		}
		sourceFolder = parent
	}

	return "", fmt.Errorf("%q is not inside a git repository", sourceFolder)
}
