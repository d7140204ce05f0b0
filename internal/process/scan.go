package process

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDirectory walks the directory and returns the PDF files in it,
// sorted by path for deterministic processing order. Unreadable entries
// are skipped, not fatal.
func ScanDirectory(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", dir)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	var files []string
	err = filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Intentionally continue on file errors
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(info.Name()), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
