package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFmtCommandRequiresPath(t *testing.T) {
	err := fmtCommand(nil)
	if err == nil {
		t.Fatalf("expected path required error")
	}
	if !strings.Contains(err.Error(), "path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFmtCommandPrintsFormattedOutput(t *testing.T) {
	path := writeSource(t, "fn main(){print(1);}")
	out, err := captureStdout(t, func() error {
		return fmtCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("fmt command failed: %v", err)
	}
	if out != "fn main() {\n  print(1);\n}\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestFmtCommandCheckDetectsUnformattedFiles(t *testing.T) {
	path := writeSource(t, "fn main(){print(1);}")
	err := fmtCommand([]string{"-check", path})
	if err == nil {
		t.Fatalf("expected formatting check failure")
	}
	if !strings.Contains(err.Error(), "need formatting") {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestFmtCommandCheckPassesOnCanonicalFile(t *testing.T) {
	path := writeSource(t, "fn main() {\n  print(1);\n}\n")
	if err := fmtCommand([]string{"-check", path}); err != nil {
		t.Fatalf("check should pass on canonical source: %v", err)
	}
}

func TestFmtCommandWriteFormatsFileInPlace(t *testing.T) {
	path := writeSource(t, "fn main(){print(1);}")
	if err := fmtCommand([]string{"-w", path}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}

	updated, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	if got := string(updated); got != "fn main() {\n  print(1);\n}\n" {
		t.Fatalf("unexpected formatted output: %q", got)
	}
}

func TestFmtCommandFormatsDirectories(t *testing.T) {
	root := t.TempDir()
	oxPath := filepath.Join(root, "unit.ox")
	if err := os.WriteFile(oxPath, []byte("fn main(){print(1);}"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	otherPath := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(otherPath, []byte("not source"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := fmtCommand([]string{"-w", root}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}
	updated, err := os.ReadFile(oxPath)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	if !strings.HasPrefix(string(updated), "fn main() {") {
		t.Fatalf("directory walk skipped source file: %q", updated)
	}
	untouched, err := os.ReadFile(otherPath)
	if err != nil {
		t.Fatalf("read other file: %v", err)
	}
	if string(untouched) != "not source" {
		t.Fatalf("non-source file was modified: %q", untouched)
	}
}

func TestFmtCommandReportsParseErrors(t *testing.T) {
	path := writeSource(t, "fn main() { let = 1; }")
	err := fmtCommand([]string{path})
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "PARSE ERROR") {
		t.Fatalf("expected annotated diagnostic, got: %v", err)
	}
}
