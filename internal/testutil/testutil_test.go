package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTestInput(t *testing.T) {
	input, err := ParseTestInput("name: cfg.json\nmax_depth: 3\nfuel: 10\n---\n{\"a\": 1}\n")
	if err != nil {
		t.Fatalf("ParseTestInput error: %v", err)
	}
	if input.Settings == nil {
		t.Fatal("settings missing")
	}
	if input.Settings.Name != "cfg.json" || input.Settings.MaxDepth != 3 || input.Settings.Fuel != 10 {
		t.Errorf("settings = %+v", *input.Settings)
	}
	if input.Document != "{\"a\": 1}\n" {
		t.Errorf("document = %q", input.Document)
	}

	bare, err := ParseTestInput("[1, 2]\n")
	if err != nil {
		t.Fatal(err)
	}
	if bare.Settings != nil || bare.Document != "[1, 2]\n" {
		t.Errorf("bare input = %+v", bare)
	}

	if _, err := ParseTestInput("max_depth: [\n---\n1"); err == nil {
		t.Error("expected error for malformed settings")
	}
}

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot("---\nsource: parser_test.go\ninput_file: object.txt\n---\n{\"a\": 1}\n")
	if err != nil {
		t.Fatalf("ParseSnapshot error: %v", err)
	}
	if snap.Source != "parser_test.go" || snap.InputFile != "object.txt" || snap.Description != "" {
		t.Errorf("metadata = %+v", snap.Meta)
	}
	if snap.Expected != "{\"a\": 1}\n" {
		t.Errorf("expected = %q", snap.Expected)
	}

	plain, err := ParseSnapshot("just output\n")
	if err != nil {
		t.Fatal(err)
	}
	if plain.Expected != "just output\n" || plain.Meta != nil {
		t.Errorf("plain snapshot = %+v", plain)
	}
}

func TestLoadSkipList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skiplist.txt")
	if err := os.WriteFile(path, []byte("# comment\n\nslow.txt\n  flaky.txt  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	skip, err := LoadSkipList(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(skip) != 2 || !skip["slow.txt"] || !skip["flaky.txt"] {
		t.Errorf("skip list = %v", skip)
	}

	missing, err := LoadSkipList(filepath.Join(dir, "nope.txt"))
	if err != nil || len(missing) != 0 {
		t.Errorf("missing skip list = %v, %v", missing, err)
	}
}

func TestFindSnapshotFile(t *testing.T) {
	got := FindSnapshotFile("testdata/snapshots", "test_parser__parser", "testdata/parser-inputs/object.txt")
	want := filepath.Join("testdata/snapshots", "test_parser__parser@object.txt.snap")
	if got != want {
		t.Errorf("FindSnapshotFile = %q, want %q", got, want)
	}
}

func TestDiff(t *testing.T) {
	if d := Diff("a\nb\n", "a\nb\n"); d != "" {
		t.Errorf("Diff of equal strings = %q", d)
	}
	d := Diff("a\nb\n", "a\nc\n")
	if !strings.Contains(d, "First diff at line 2") || !strings.Contains(d, `actual:   "c"`) {
		t.Errorf("Diff output:\n%s", d)
	}
	if NormalizeTrailingNewline("x\n\n\n") != "x\n" || NormalizeTrailingNewline("x") != "x\n" {
		t.Error("NormalizeTrailingNewline")
	}
}
