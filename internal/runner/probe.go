package runner

import (
	"fmt"
	"os/exec"
)

// ResolveBinary finds the scanner executable. Bare names are looked up in PATH;
// names containing a separator must point at an executable file.
func ResolveBinary(binary string) (string, error) {
	if binary == "" {
		return "", fmt.Errorf("scanner binary is not configured")
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("scanner binary %q is not resolvable, set scanner.binary or --binary to an explicit path: %w", binary, err)
	}
	return path, nil
}
