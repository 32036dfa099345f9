package oxlua

import (
	"fmt"
	"strings"
)

// LexError reports an input the lexer has no rule for. Pos points at the
// first offending character (for an unterminated string, the opening quote).
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// ParseError reports a token sequence that violates the grammar.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// GenError reports an AST construct that has no defined lowering.
type GenError struct {
	Pos Position
	Msg string
}

func (e *GenError) Error() string {
	return fmt.Sprintf("codegen error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// WrapWithSource augments a compiler error with a caret-annotated snippet of
// the source it came from. Errors that are not lex/parse/gen diagnostics are
// returned unchanged.
func WrapWithSource(err error, src string) error {
	var pos Position
	var header, msg string

	switch e := err.(type) {
	case *LexError:
		header, pos, msg = "LEX ERROR", e.Pos, e.Msg
	case *ParseError:
		header, pos, msg = "PARSE ERROR", e.Pos, e.Msg
	case *GenError:
		header, pos, msg = "CODEGEN ERROR", e.Pos, e.Msg
	default:
		return err
	}

	return fmt.Errorf("%s at %d:%d: %s\n\n%s", header, pos.Line, pos.Column, msg, snippet(src, pos))
}

// snippet renders up to one line of context either side of pos, with a caret
// under the 1-based column. Coordinates outside the source are clamped.
func snippet(src string, pos Position) string {
	lines := strings.Split(src, "\n")

	line := pos.Line
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	col := pos.Column
	if col < 1 {
		col = 1
	}
	width := len([]rune(lines[line-1]))
	if col > width+1 {
		col = width + 1
	}

	gutter := len(fmt.Sprintf("%d", min(line+1, len(lines))))

	var b strings.Builder
	writeLn := func(n int) {
		b.WriteString(fmt.Sprintf("  %*d | %s\n", gutter, n, lines[n-1]))
	}

	if line > 1 {
		writeLn(line - 1)
	}
	writeLn(line)
	b.WriteString(fmt.Sprintf("  %s | %s^\n", strings.Repeat(" ", gutter), strings.Repeat(" ", col-1)))
	if line < len(lines) {
		writeLn(line + 1)
	}

	return strings.TrimRight(b.String(), "\n")
}
