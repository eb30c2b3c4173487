package dynobj

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathLoader returns a loader that reads documents from files below dir.
// Names are slash separated and may not escape dir.
func PathLoader(dir string) LoaderFunc {
	return func(name string) (string, error) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		absPath, err := filepath.Abs(filepath.Join(absDir, filepath.FromSlash(name)))
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(absDir, absPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("document path escapes document directory: %s", name)
		}

		content, err := os.ReadFile(absPath)
		if err != nil {
			return "", err
		}
		return string(content), nil
	}
}
