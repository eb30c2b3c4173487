package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TestInput represents a parsed test input file.
type TestInput struct {
	Settings *TestSettings // Optional settings header
	Document string        // Document source after ---
}

// TestSettings represents the settings header in test inputs.
type TestSettings struct {
	Name     string `yaml:"name"`
	MaxDepth int    `yaml:"max_depth"`
	Fuel     uint64 `yaml:"fuel"`
}

// ParseTestInputFile reads and parses a test input file.
func ParseTestInputFile(path string) (*TestInput, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTestInput(string(content))
}

// ParseTestInput parses test input content.
// Format: settings\n---\ndocument, or just the document when there is no
// separator. The settings header is YAML (so a JSON object works too).
func ParseTestInput(content string) (*TestInput, error) {
	input := &TestInput{}

	parts := strings.SplitN(content, "\n---\n", 2)
	if len(parts) < 2 {
		input.Document = content
		return input, nil
	}

	if strings.TrimSpace(parts[0]) != "" {
		input.Settings = &TestSettings{}
		if err := yaml.Unmarshal([]byte(parts[0]), input.Settings); err != nil {
			return nil, err
		}
	}
	input.Document = parts[1]

	return input, nil
}

// GlobTestInputs finds all test input files matching a pattern.
func GlobTestInputs(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// Diff returns a simple diff between expected and actual output, pointing
// at the first line that differs.
func Diff(expected, actual string) string {
	if expected == actual {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("=== EXPECTED ===\n")
	sb.WriteString(expected)
	if !strings.HasSuffix(expected, "\n") {
		sb.WriteString("⏎\n") // Show missing newline
	}
	sb.WriteString("=== ACTUAL ===\n")
	sb.WriteString(actual)
	if !strings.HasSuffix(actual, "\n") {
		sb.WriteString("⏎\n")
	}
	sb.WriteString("=== END ===\n")

	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			fmt.Fprintf(&sb, "\nFirst diff at line %d:\n", i+1)
			fmt.Fprintf(&sb, "  expected: %q\n", expLine)
			fmt.Fprintf(&sb, "  actual:   %q\n", actLine)
			break
		}
	}
	return sb.String()
}
