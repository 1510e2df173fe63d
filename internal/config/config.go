package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"

	"github.com/scan-io-git/scantriage/pkg/shared/files"
)

const (
	// DefaultConfigPath is read when neither --config-file nor SCANTRIAGE_CONFIG is set.
	DefaultConfigPath = "config.yml"

	DefaultScannerBinary      = "semgrep"
	DefaultMaxDiagnosticBytes = 64 * 1024
)

// Config is the root of the YAML configuration file.
type Config struct {
	Logger    Logger    `yaml:"logger"`
	Scanner   Scanner   `yaml:"scanner"`
	Workspace Workspace `yaml:"workspace"`
	Project   Project   `yaml:"project"`
}

type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// Scanner configures how the external scanner is launched.
type Scanner struct {
	Binary             string        `yaml:"binary"`
	Timeout            time.Duration `yaml:"timeout"`
	UsePTY             *bool         `yaml:"use_pty"`
	MaxDiagnosticBytes int           `yaml:"max_diagnostic_bytes"`
}

type Workspace struct {
	Root string `yaml:"root"`
}

type Project struct {
	Path string `yaml:"path"`
}

// ValidateConfigPath checks that path exists and is not a directory.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return fmt.Errorf("failed to decode %q: %w", configPath, err)
	}

	return nil
}

// NewConfig loads the configuration, applies environment overrides and defaults, and validates the result.
// An explicitly requested file must exist; a missing default file yields the defaults.
func NewConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	explicit := true
	if configPath == "" {
		configPath = os.Getenv("SCANTRIAGE_CONFIG")
	}
	if configPath == "" {
		configPath = DefaultConfigPath
		explicit = false
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := applyOverrides(cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv reads the file named by SCANTRIAGE_ENV_FILE, or .env in the working directory when present.
// Variables already set in the environment are kept.
func loadDotEnv() error {
	if path := os.Getenv("SCANTRIAGE_ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %q: %w", path, err)
		}
		return nil
	}
	if files.IsRegularFile(".env") {
		return godotenv.Load()
	}
	return nil
}

// applyOverrides fills values from the environment and then from defaults.
func applyOverrides(cfg *Config) error {
	if v := os.Getenv("SCANTRIAGE_SCANNER_BINARY"); v != "" {
		cfg.Scanner.Binary = v
	}
	if v := os.Getenv("SCANTRIAGE_WORKSPACE"); v != "" {
		cfg.Workspace.Root = v
	}
	if v := os.Getenv("SCANTRIAGE_PROJECT"); v != "" {
		cfg.Project.Path = v
	}

	cfg.Scanner.Binary = SetThen(cfg.Scanner.Binary, DefaultScannerBinary)
	cfg.Scanner.MaxDiagnosticBytes = SetThen(cfg.Scanner.MaxDiagnosticBytes, DefaultMaxDiagnosticBytes)

	for _, p := range []*string{&cfg.Workspace.Root, &cfg.Project.Path} {
		if *p == "" {
			continue
		}
		expanded, err := files.ExpandPath(*p)
		if err != nil {
			return fmt.Errorf("failed to expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Default returns a configuration with every default applied and no file read.
func Default() *Config {
	cfg := &Config{}
	_ = applyOverrides(cfg)
	return cfg
}

// UsePTY reports whether the scanner should run under a pseudo-terminal.
func UsePTY(cfg *Config) bool {
	return GetBoolValue(cfg, "Scanner.UsePTY", true)
}
