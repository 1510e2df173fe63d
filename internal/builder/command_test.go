package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRule(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0644))
}

func configValues(args []string) []string {
	var values []string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "--config" {
			values = append(values, args[i+1])
		}
	}
	return values
}

func TestBuildScanCommandDirectoryRecursion(t *testing.T) {
	root := t.TempDir()
	files := []string{
		filepath.Join(root, "top.yml"),
		filepath.Join(root, "lang", "python.yml"),
		filepath.Join(root, "lang", "deep", "flask.yml"),
		filepath.Join(root, "lang", "deep", "django.yaml"),
	}
	for _, f := range files {
		writeRule(t, f)
	}

	cmd, warnings, err := BuildScanCommand("semgrep", root, "")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.ElementsMatch(t, files, configValues(cmd.Args))
	assert.Equal(t, []string{"--strict", "--json"}, cmd.Args[len(cmd.Args)-2:])
}

func TestBuildScanCommandTokens(t *testing.T) {
	dir := t.TempDir()
	ruleFile := filepath.Join(dir, "custom.yml")
	writeRule(t, ruleFile)

	tests := []struct {
		name         string
		spec         string
		wantConfigs  []string
		wantWarnings int
	}{
		{name: "empty spec means auto", spec: "", wantConfigs: []string{"auto"}},
		{name: "auto is not warned", spec: "auto", wantConfigs: []string{"auto"}},
		{name: "registry references", spec: "p/python, r/generic.secrets", wantConfigs: []string{"p/python", "r/generic.secrets"}},
		{name: "url reference", spec: "https://semgrep.dev/c/p/ci", wantConfigs: []string{"https://semgrep.dev/c/p/ci"}},
		{name: "existing file", spec: ruleFile, wantConfigs: []string{ruleFile}},
		{name: "unknown token warns but is kept", spec: "no-such-rules", wantConfigs: []string{"no-such-rules"}, wantWarnings: 1},
		{name: "empty tokens are skipped", spec: "auto,, ,p/ci", wantConfigs: []string{"auto", "p/ci"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, warnings, err := BuildScanCommand("semgrep", tt.spec, "")
			require.NoError(t, err)
			assert.Equal(t, "semgrep", cmd.Binary)
			assert.Equal(t, "scan", cmd.Args[0])
			assert.Equal(t, tt.wantConfigs, configValues(cmd.Args))
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}

func TestBuildScanCommandResolvesAgainstBaseDir(t *testing.T) {
	base := t.TempDir()
	writeRule(t, filepath.Join(base, "rules2", "y.yml"))
	writeRule(t, filepath.Join(base, "rules", "a.yml"))
	writeRule(t, filepath.Join(base, "rules", "nested", "b.yml"))

	cmd, warnings, err := BuildScanCommand("semgrep", "rules2/y.yml,rules,p/ci", base)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.ElementsMatch(t, []string{
		filepath.Join("rules2", "y.yml"),
		filepath.Join("rules", "a.yml"),
		filepath.Join("rules", "nested", "b.yml"),
		"p/ci",
	}, configValues(cmd.Args))

	_, warnings, err = BuildScanCommand("semgrep", "rules2/y.yml", t.TempDir())
	require.NoError(t, err)
	assert.Len(t, warnings, 1, "paths are not looked up in the working directory")
}

func TestCommandOptions(t *testing.T) {
	cmd, _, err := BuildScanCommand("/usr/bin/semgrep", "auto", "")
	require.NoError(t, err)

	cmd.WithOutput("out.json").WithIncludes("*.py, src/**").WithExcludes("tests/,")

	assert.Equal(t, []string{
		"scan", "--config", "auto", "--strict", "--json",
		"--json-output", "out.json",
		"--include", "*.py", "--include", "src/**",
		"--exclude", "tests/",
	}, cmd.Args)
	assert.Equal(t, "/usr/bin/semgrep", cmd.Argv()[0])
	assert.Contains(t, cmd.String(), `"src/**"`)
}
