package config

import (
	"fmt"
	"time"
)

const (
	maxScannerTimeout     = 24 * time.Hour
	maxDiagnosticBytesCap = 16 * 1024 * 1024
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateScannerConfig(&cfg.Scanner); err != nil {
		return fmt.Errorf("YAML global config: scanner directive is invalid: %w", err)
	}
	return nil
}

// ValidateScannerConfig checks if the scanner configurations have valid values.
func ValidateScannerConfig(scannerConfig *Scanner) error {
	if scannerConfig == nil {
		return fmt.Errorf("scanner configuration is nil")
	}

	if err := validateDuration(scannerConfig.Timeout, "timeout", maxScannerTimeout); err != nil {
		return err
	}

	if scannerConfig.MaxDiagnosticBytes < 0 || scannerConfig.MaxDiagnosticBytes > maxDiagnosticBytesCap {
		return fmt.Errorf("max_diagnostic_bytes must be between 0 and %d: %d", maxDiagnosticBytesCap, scannerConfig.MaxDiagnosticBytes)
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %s: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%s duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}
