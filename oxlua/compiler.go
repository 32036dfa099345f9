// Package oxlua translates a small statically-typed, expression-oriented
// source language into Luau. The pipeline is strictly one-directional:
// source text is lexed into tokens, parsed into an AST, and walked once by
// the code generator, which lowers value-position if/match/block constructs
// through hoisted temporaries. Each call owns its entire pipeline state, so
// concurrent calls on different inputs are independent.
package oxlua

// Options controls emission. The zero value is ready to use.
type Options struct {
	// Indent is the indentation unit for emitted Luau. Defaults to four
	// spaces.
	Indent string
}

// Transpile compiles one compilation unit to Luau source text. On failure
// it returns a *LexError, *ParseError, or *GenError and no output.
func Transpile(src string) (string, error) {
	return TranspileWithOptions(src, Options{})
}

// TranspileWithOptions is Transpile with explicit emission options.
func TranspileWithOptions(src string, opts Options) (string, error) {
	program, err := Parse(src)
	if err != nil {
		return "", err
	}
	indent := opts.Indent
	if indent == "" {
		indent = "    "
	}
	return newGenerator(indent).Generate(program)
}

// Parse builds the AST for one compilation unit without generating code.
func Parse(src string) (*Program, error) {
	return newParser(src).ParseProgram()
}

// Format parses source and reprints it in canonical form. Formatting is
// idempotent: parsing the result yields the same AST.
func Format(src string) (string, error) {
	program, err := Parse(src)
	if err != nil {
		return "", err
	}
	return printProgram(program), nil
}
