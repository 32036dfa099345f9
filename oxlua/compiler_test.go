package oxlua

import (
	"errors"
	"strings"
	"testing"
)

func TestTranspileEndToEnd(t *testing.T) {
	src := `fn abs(n: i64) -> i64 {
    if n < 0 {
        -n
    } else {
        n
    }
}

fn main() {
    for i in 0..5 {
        print(abs(i - 2));
    }
}`
	want := `function abs(n: number): number
    local __ox1
    if n < 0 then
        __ox1 = -n
    else
        __ox1 = n
    end
    return __ox1
end

function main()
    for i = 0, 4 do
        print(abs(i - 2))
    end
end
`
	got, err := Transpile(src)
	if err != nil {
		t.Fatalf("transpile failed: %v", err)
	}
	if got != want {
		t.Fatalf("output mismatch\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
}

func TestTranspileUnterminatedStringFailsWholeUnit(t *testing.T) {
	src := `fn ok() -> i32 { 1 }

fn broken() {
    let s = "oops;
}`
	out, err := Transpile(src)
	if err == nil {
		t.Fatalf("expected lex error")
	}
	if out != "" {
		t.Fatalf("expected no output for a failed unit, got %q", out)
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	if lexErr.Pos.Line != 4 || lexErr.Pos.Column != 13 {
		t.Fatalf("error should point at the opening quote, got %d:%d", lexErr.Pos.Line, lexErr.Pos.Column)
	}
}

func TestTranspileReportsFirstErrorOnly(t *testing.T) {
	_, err := Transpile(`fn main() {
    let = 1;
    let = 2;
}`)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Pos.Line != 2 {
		t.Fatalf("expected the first error's line, got %d", parseErr.Pos.Line)
	}
}

func TestWrapWithSourceRendersSnippet(t *testing.T) {
	src := `fn main() {
    let x = 1 @ 2;
}`
	_, err := Transpile(src)
	if err == nil {
		t.Fatalf("expected lex error")
	}
	wrapped := WrapWithSource(err, src)
	text := wrapped.Error()

	if !strings.Contains(text, "LEX ERROR at 2:15") {
		t.Fatalf("missing header: %s", text)
	}
	if !strings.Contains(text, "let x = 1 @ 2;") {
		t.Fatalf("missing offending line: %s", text)
	}
	caretLine := ""
	for _, ln := range strings.Split(text, "\n") {
		if strings.Contains(ln, "^") {
			caretLine = ln
		}
	}
	if caretLine == "" {
		t.Fatalf("missing caret: %s", text)
	}
	if !strings.HasSuffix(caretLine, strings.Repeat(" ", 14)+"^") {
		t.Fatalf("caret misplaced: %q", caretLine)
	}
}

func TestWrapWithSourcePassesOtherErrorsThrough(t *testing.T) {
	sentinel := errors.New("disk full")
	if got := WrapWithSource(sentinel, "fn main() {}"); got != sentinel {
		t.Fatalf("expected pass-through, got %v", got)
	}
}

func TestTranspileIndependentCalls(t *testing.T) {
	srcA := `fn a() -> i32 { if x { 1 } else { 2 } }`
	srcB := `fn b() { print(1); }`

	outA1, err := Transpile(srcA)
	if err != nil {
		t.Fatalf("transpile failed: %v", err)
	}
	if _, err := Transpile(srcB); err != nil {
		t.Fatalf("transpile failed: %v", err)
	}
	outA2, err := Transpile(srcA)
	if err != nil {
		t.Fatalf("transpile failed: %v", err)
	}
	if outA1 != outA2 {
		t.Fatalf("same input produced different output:\n%s\n%s", outA1, outA2)
	}
}
