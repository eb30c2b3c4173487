// Package testutil provides fixture and snapshot helpers for the dynobj
// test suites.
package testutil

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot represents a parsed snapshot file: YAML metadata followed by the expected output.
type Snapshot struct {
	Source      string         // source file that generated snapshot
	Description string         // document description
	InputFile   string         // original input file path
	Meta        map[string]any // all metadata fields
	Expected    string         // expected output
}

// ParseSnapshotFile parses a .snap file.
func ParseSnapshotFile(path string) (*Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(string(content))
}

// ParseSnapshot parses the content of a .snap file.
//
// Format: ---\n<yaml metadata>\n---\n<expected output>
func ParseSnapshot(content string) (*Snapshot, error) {
	snap := &Snapshot{}

	content = strings.TrimPrefix(content, "---\n")
	parts := strings.SplitN(content, "\n---\n", 2)
	if len(parts) != 2 {
		// No metadata, entire content is expected output
		snap.Expected = content
		return snap, nil
	}

	if err := yaml.Unmarshal([]byte(parts[0]), &snap.Meta); err != nil {
		return nil, fmt.Errorf("snapshot metadata: %w", err)
	}
	snap.Source = metaString(snap.Meta, "source")
	snap.Description = metaString(snap.Meta, "description")
	snap.InputFile = metaString(snap.Meta, "input_file")
	snap.Expected = parts[1]

	return snap, nil
}

func metaString(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

// LoadSkipList loads a skip list file (one test name per line, # for comments).
func LoadSkipList(path string) (map[string]bool, error) {
	skipList := make(map[string]bool)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return skipList, nil
	}
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		skipList[line] = true
	}

	return skipList, nil
}

// FindSnapshotFile finds the snapshot file for a given test.
func FindSnapshotFile(snapshotDir, testPrefix, inputFile string) string {
	// test_name__subtest@inputfile.snap
	base := filepath.Base(inputFile)
	snapName := testPrefix + "@" + base + ".snap"
	return filepath.Join(snapshotDir, snapName)
}

// NormalizeTrailingNewline trims trailing newlines and appends exactly one.
func NormalizeTrailingNewline(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}
