package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"oxlua", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"oxlua", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"oxlua"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildCommandWritesStdout(t *testing.T) {
	path := writeSource(t, `fn main() {
    print(1);
}`)

	out, err := captureStdout(t, func() error {
		return buildCommand([]string{"-f", path})
	})
	if err != nil {
		t.Fatalf("buildCommand failed: %v", err)
	}
	want := "function main()\n    print(1)\nend\n"
	if out != want {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestBuildCommandPositionalPath(t *testing.T) {
	path := writeSource(t, `fn main() {}`)

	out, err := captureStdout(t, func() error {
		return buildCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("buildCommand failed: %v", err)
	}
	if !strings.Contains(out, "function main()") {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestBuildCommandOutputFile(t *testing.T) {
	path := writeSource(t, `fn main() { print(1); }`)
	outPath := filepath.Join(t.TempDir(), "out.luau")

	if err := buildCommand([]string{"-f", path, "-o", outPath}); err != nil {
		t.Fatalf("buildCommand failed: %v", err)
	}
	emitted, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(emitted), "print(1)") {
		t.Fatalf("unexpected output file: %q", emitted)
	}
}

func TestBuildCommandCustomIndent(t *testing.T) {
	path := writeSource(t, `fn main() { print(1); }`)

	out, err := captureStdout(t, func() error {
		return buildCommand([]string{"-indent", "\t", "-f", path})
	})
	if err != nil {
		t.Fatalf("buildCommand failed: %v", err)
	}
	if !strings.Contains(out, "\tprint(1)") {
		t.Fatalf("indent flag not honored: %q", out)
	}
}

func TestBuildCommandRequiresPath(t *testing.T) {
	err := buildCommand(nil)
	if err == nil {
		t.Fatalf("expected source file error")
	}
	if !strings.Contains(err.Error(), "source file required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildCommandCompileErrorIncludesSnippet(t *testing.T) {
	path := writeSource(t, `fn main() {
    let x = 1 @ 2;
}`)

	out, err := captureStdout(t, func() error {
		return buildCommand([]string{"-f", path})
	})
	if err == nil {
		t.Fatalf("expected compile error")
	}
	if out != "" {
		t.Fatalf("no output should be produced on error, got %q", out)
	}
	if !strings.Contains(err.Error(), "LEX ERROR") || !strings.Contains(err.Error(), "^") {
		t.Fatalf("expected annotated diagnostic, got: %v", err)
	}
}

func TestBuildCommandMissingFile(t *testing.T) {
	err := buildCommand([]string{"-f", filepath.Join(t.TempDir(), "absent.ox")})
	if err == nil {
		t.Fatalf("expected read error")
	}
	if !strings.Contains(err.Error(), "read source") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func writeSource(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "unit.ox")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
