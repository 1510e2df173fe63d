// Package ci reads revision metadata that CI providers expose through environment variables.
package ci

import (
	"os"
	"strconv"
	"strings"
)

// Kind represents the type of CI.
type Kind int

const (
	// Unknown indicates the CI provider could not be identified.
	Unknown Kind = iota
	// GitHub identifies GitHub Actions.
	GitHub
	// GitLab identifies GitLab CI.
	GitLab
	// Bitbucket identifies Bitbucket Pipelines.
	Bitbucket
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// Environment is the revision a CI job runs on.
type Environment struct {
	Kind   Kind
	CI     bool   // CI reports whether the process runs inside a CI job.
	Commit string // Commit is the tip commit that triggered the job.
	Branch string // Branch is the short branch or tag name.
	Remote string // Remote is the web URL of the repository.
}

// String returns the human-readable string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case GitHub:
		return "github"
	case GitLab:
		return "gitlab"
	case Bitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

// Detect reads the CI environment of the current process.
func Detect() Environment {
	return DetectWithLookup(os.Getenv)
}

// DetectWithLookup reads the CI environment through lookup.
func DetectWithLookup(lookup LookupFunc) Environment {
	if lookup == nil {
		lookup = os.Getenv
	}
	ci, _ := strconv.ParseBool(lookup("CI"))

	switch detectKind(lookup) {
	case GitHub:
		env := Environment{Kind: GitHub, CI: ci, Commit: lookup("GITHUB_SHA"), Branch: lookup("GITHUB_REF_NAME")}
		if server, repo := lookup("GITHUB_SERVER_URL"), lookup("GITHUB_REPOSITORY"); server != "" && repo != "" {
			env.Remote = strings.TrimSuffix(server, "/") + "/" + repo
		}
		return env
	case GitLab:
		branch := lookup("CI_COMMIT_TAG")
		if branch == "" {
			branch = lookup("CI_COMMIT_REF_NAME")
		}
		return Environment{Kind: GitLab, CI: ci, Commit: lookup("CI_COMMIT_SHA"), Branch: branch, Remote: lookup("CI_PROJECT_URL")}
	case Bitbucket:
		branch := lookup("BITBUCKET_TAG")
		if branch == "" {
			branch = lookup("BITBUCKET_BRANCH")
		}
		return Environment{
			Kind:   Bitbucket,
			CI:     ci,
			Commit: lookup("BITBUCKET_COMMIT"),
			Branch: branch,
			Remote: strings.TrimSuffix(lookup("BITBUCKET_GIT_HTTP_ORIGIN"), ".git"),
		}
	}
	return Environment{CI: ci}
}

func detectKind(lookup LookupFunc) Kind {
	if lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_SHA") != "" {
		return GitHub
	}
	if strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "" {
		return GitLab
	}
	if lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "" {
		return Bitbucket
	}
	return Unknown
}
