// Package filex has filesystem helpers shared by the CLI commands.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdir creates name under the current working directory if it does
// not exist yet and returns its absolute path.
func EnsureSubdir(name string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, name)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}
