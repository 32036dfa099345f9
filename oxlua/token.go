package oxlua

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenInt    TokenType = "INT"
	tokenFloat  TokenType = "FLOAT"
	tokenString TokenType = "STRING"

	tokenAssign   TokenType = "="
	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenBang     TokenType = "!"
	tokenAsterisk TokenType = "*"
	tokenSlash    TokenType = "/"
	tokenPercent  TokenType = "%"
	tokenLT       TokenType = "<"
	tokenGT       TokenType = ">"
	tokenLTE      TokenType = "<="
	tokenGTE      TokenType = ">="
	tokenEQ       TokenType = "=="
	tokenNotEQ    TokenType = "!="
	tokenAnd      TokenType = "&&"
	tokenOr       TokenType = "||"

	tokenComma     TokenType = ","
	tokenSemicolon TokenType = ";"
	tokenColon     TokenType = ":"
	tokenRange     TokenType = ".."
	tokenThinArrow TokenType = "->"
	tokenFatArrow  TokenType = "=>"
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"
	tokenLBracket  TokenType = "["
	tokenRBracket  TokenType = "]"

	tokenFn     TokenType = "FN"
	tokenLet    TokenType = "LET"
	tokenMut    TokenType = "MUT"
	tokenIf     TokenType = "IF"
	tokenElse   TokenType = "ELSE"
	tokenMatch  TokenType = "MATCH"
	tokenFor    TokenType = "FOR"
	tokenIn     TokenType = "IN"
	tokenWhile  TokenType = "WHILE"
	tokenLoop   TokenType = "LOOP"
	tokenBreak  TokenType = "BREAK"
	tokenReturn TokenType = "RETURN"
	tokenTrue   TokenType = "TRUE"
	tokenFalse  TokenType = "FALSE"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a location in the source file. Offset is the byte
// offset of the first rune; Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func lookupIdent(ident string) TokenType {
	switch ident {
	case "fn":
		return tokenFn
	case "let":
		return tokenLet
	case "mut":
		return tokenMut
	case "if":
		return tokenIf
	case "else":
		return tokenElse
	case "match":
		return tokenMatch
	case "for":
		return tokenFor
	case "in":
		return tokenIn
	case "while":
		return tokenWhile
	case "loop":
		return tokenLoop
	case "break":
		return tokenBreak
	case "return":
		return tokenReturn
	case "true":
		return tokenTrue
	case "false":
		return tokenFalse
	}
	return tokenIdent
}
