package builder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// AutoConfig lets the scanner pick rules for the project itself.
const AutoConfig = "auto"

var registryRefPattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*://|[pr]/)`)

// Command is a scanner invocation expressed as an argument vector.
type Command struct {
	Binary string
	Args   []string
}

// String renders the command for logs only. It is never passed to a shell.
func (c *Command) String() string {
	argv := c.Argv()
	parts := make([]string, 0, len(argv))
	for _, a := range argv {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

// Argv returns the binary followed by its arguments.
func (c *Command) Argv() []string {
	return append([]string{c.Binary}, c.Args...)
}

// WithOutput directs the machine-readable report to path.
func (c *Command) WithOutput(path string) *Command {
	if path != "" {
		c.Args = append(c.Args, "--json-output", path)
	}
	return c
}

// WithIncludes adds one --include per comma separated glob.
func (c *Command) WithIncludes(globs string) *Command {
	for _, g := range SplitList(globs) {
		c.Args = append(c.Args, "--include", g)
	}
	return c
}

// WithExcludes adds one --exclude per comma separated glob.
func (c *Command) WithExcludes(globs string) *Command {
	for _, g := range SplitList(globs) {
		c.Args = append(c.Args, "--exclude", g)
	}
	return c
}

// BuildScanCommand turns a comma separated config specification into a scanner command.
// Relative rule paths are resolved against baseDir, the directory the scanner runs in;
// an empty baseDir means the current directory.
// Unrecognized tokens produce warnings and are still passed to the scanner as-is.
func BuildScanCommand(binary, configSpec, baseDir string) (*Command, []string, error) {
	cmd := &Command{Binary: binary, Args: []string{"scan"}}
	var warnings []string

	tokens := SplitList(configSpec)
	if len(tokens) == 0 {
		tokens = []string{AutoConfig}
	}

	for _, token := range tokens {
		configs, warning, err := resolveConfigToken(token, baseDir)
		if err != nil {
			return nil, warnings, err
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}
		for _, c := range configs {
			cmd.Args = append(cmd.Args, "--config", c)
		}
	}

	cmd.Args = append(cmd.Args, "--strict", "--json")
	return cmd, warnings, nil
}

// resolveConfigToken maps one token to the --config values it contributes.
// Values keep the form of the token: relative tokens yield paths relative to baseDir.
func resolveConfigToken(token, baseDir string) ([]string, string, error) {
	if isRegistryRef(token) {
		return []string{token}, "", nil
	}

	local := token
	relative := baseDir != "" && !filepath.IsAbs(token)
	if relative {
		local = filepath.Join(baseDir, token)
	}

	info, err := os.Stat(local)
	switch {
	case err == nil && info.Mode().IsRegular():
		return []string{token}, "", nil
	case err == nil && info.IsDir():
		configs, err := collectConfigFiles(local)
		if err != nil {
			return nil, "", fmt.Errorf("failed to enumerate config directory %q: %w", local, err)
		}
		if relative {
			for i, c := range configs {
				if rel, err := filepath.Rel(baseDir, c); err == nil {
					configs[i] = rel
				}
			}
		}
		return configs, "", nil
	}

	if token == AutoConfig {
		return []string{token}, "", nil
	}
	return []string{token}, fmt.Sprintf("config %q is not a file, directory or registry reference; passing it to the scanner unchanged", token), nil
}

// collectConfigFiles walks root depth-first and returns every non-directory entry.
func collectConfigFiles(root string) ([]string, error) {
	var configs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			configs = append(configs, path)
		}
		return nil
	})
	return configs, err
}

func isRegistryRef(token string) bool {
	return registryRefPattern.MatchString(token)
}

// SplitList splits a comma separated value, trimming tokens and skipping empty ones.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`*?") {
		return s
	}
	return strconv.Quote(s)
}
