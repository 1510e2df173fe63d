package builder

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/scan-io-git/scantriage/pkg/shared/files"
)

const (
	artifactExt       = ".json"
	maxNameFragments  = 3
	fragmentSeparator = "__"
)

var (
	nonWordPattern = regexp.MustCompile(`\W+`)
	urlPattern     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

// DefaultOutputName builds "<YYYYMMDD>_scan_<fragment>.json" from the first config tokens.
func DefaultOutputName(configSpec string, now time.Time) string {
	tokens := SplitList(configSpec)
	if len(tokens) == 0 {
		tokens = []string{AutoConfig}
	}
	if len(tokens) > maxNameFragments {
		tokens = tokens[:maxNameFragments]
	}

	fragments := make([]string, 0, len(tokens))
	for _, t := range tokens {
		fragments = append(fragments, nameFragment(t))
	}
	return fmt.Sprintf("%s_scan_%s%s", now.Format("20060102"), strings.Join(fragments, fragmentSeparator), artifactExt)
}

func nameFragment(token string) string {
	var base string
	switch {
	case token == AutoConfig:
		return AutoConfig
	case urlPattern.MatchString(token):
		base = token[strings.LastIndex(token, "/")+1:]
	default:
		base = token[strings.LastIndexAny(token, `/\`)+1:]
	}
	return nonWordPattern.ReplaceAllString(base, "_")
}

// ResolveOutputPath returns where the scanner should write its report.
// Resolving an already resolved path returns it unchanged.
func ResolveOutputPath(configSpec, userPath string, now time.Time) string {
	if userPath == "" {
		return DefaultOutputName(configSpec, now)
	}
	if files.IsDir(userPath) {
		return filepath.Join(userPath, DefaultOutputName(configSpec, now))
	}
	if strings.HasSuffix(userPath, artifactExt) {
		return userPath
	}
	return userPath + artifactExt
}

// ResolveArtifactPath makes a resolved output path absolute against the scanner's working directory.
func ResolveArtifactPath(workspaceRoot, path string) string {
	if filepath.IsAbs(path) || workspaceRoot == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(workspaceRoot, path)
}
