package oxlua

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer walks the input rune by rune. The position index lives on the lexer
// value itself (offset/line/column), so a fresh lexer over the same input
// always reproduces the same token sequence.
type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune

	err *LexError
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) peekRuneN(n int) rune {
	idx := l.offset
	var r rune
	var w int
	for i := 0; i <= n; i++ {
		if idx >= len(l.input) {
			return 0
		}
		r, w = utf8.DecodeRuneInString(l.input[idx:])
		if i == n {
			return r
		}
		idx += w
	}
	return 0
}

// NextToken produces the next token. After a tokenIllegal result the lexer's
// err field holds the LexError and every further call keeps returning the
// same illegal token; lexing never silently skips input.
func (l *lexer) NextToken() Token {
	if l.err != nil {
		return Token{Type: tokenIllegal, Literal: l.err.Msg, Pos: l.err.Pos}
	}

	l.skipWhitespaceAndComments()

	tok := Token{Pos: l.pos()}

	switch l.ch {
	case 0:
		tok.Type = tokenEOF
		tok.Literal = ""
	case '+':
		tok = l.makeToken(tokenPlus, "+")
		l.readRune()
	case '-':
		if l.peekRune() == '>' {
			l.readRune()
			tok = l.makeTokenAt(tok.Pos, tokenThinArrow, "->")
			l.readRune()
		} else {
			tok = l.makeToken(tokenMinus, "-")
			l.readRune()
		}
	case '*':
		tok = l.makeToken(tokenAsterisk, "*")
		l.readRune()
	case '/':
		tok = l.makeToken(tokenSlash, "/")
		l.readRune()
	case '%':
		tok = l.makeToken(tokenPercent, "%")
		l.readRune()
	case '(':
		tok = l.makeToken(tokenLParen, "(")
		l.readRune()
	case ')':
		tok = l.makeToken(tokenRParen, ")")
		l.readRune()
	case '{':
		tok = l.makeToken(tokenLBrace, "{")
		l.readRune()
	case '}':
		tok = l.makeToken(tokenRBrace, "}")
		l.readRune()
	case '[':
		tok = l.makeToken(tokenLBracket, "[")
		l.readRune()
	case ']':
		tok = l.makeToken(tokenRBracket, "]")
		l.readRune()
	case ',':
		tok = l.makeToken(tokenComma, ",")
		l.readRune()
	case ';':
		tok = l.makeToken(tokenSemicolon, ";")
		l.readRune()
	case ':':
		tok = l.makeToken(tokenColon, ":")
		l.readRune()
	case '.':
		if l.peekRune() == '.' {
			l.readRune()
			tok = l.makeTokenAt(tok.Pos, tokenRange, "..")
			l.readRune()
		} else {
			return l.fail(tok.Pos, "unexpected character '.'")
		}
	case '!':
		if l.peekRune() == '=' {
			l.readRune()
			tok = l.makeTokenAt(tok.Pos, tokenNotEQ, "!=")
			l.readRune()
		} else {
			tok = l.makeToken(tokenBang, "!")
			l.readRune()
		}
	case '=':
		switch l.peekRune() {
		case '=':
			l.readRune()
			tok = l.makeTokenAt(tok.Pos, tokenEQ, "==")
			l.readRune()
		case '>':
			l.readRune()
			tok = l.makeTokenAt(tok.Pos, tokenFatArrow, "=>")
			l.readRune()
		default:
			tok = l.makeToken(tokenAssign, "=")
			l.readRune()
		}
	case '>':
		if l.peekRune() == '=' {
			l.readRune()
			tok = l.makeTokenAt(tok.Pos, tokenGTE, ">=")
			l.readRune()
		} else {
			tok = l.makeToken(tokenGT, ">")
			l.readRune()
		}
	case '<':
		if l.peekRune() == '=' {
			l.readRune()
			tok = l.makeTokenAt(tok.Pos, tokenLTE, "<=")
			l.readRune()
		} else {
			tok = l.makeToken(tokenLT, "<")
			l.readRune()
		}
	case '&':
		if l.peekRune() == '&' {
			l.readRune()
			tok = l.makeTokenAt(tok.Pos, tokenAnd, "&&")
			l.readRune()
		} else {
			return l.fail(tok.Pos, "unexpected character '&'")
		}
	case '|':
		if l.peekRune() == '|' {
			l.readRune()
			tok = l.makeTokenAt(tok.Pos, tokenOr, "||")
			l.readRune()
		} else {
			return l.fail(tok.Pos, "unexpected character '|'")
		}
	case '"', '\'':
		quote := l.ch
		literal, ok := l.readString(quote)
		if !ok {
			return l.fail(tok.Pos, "unterminated string literal")
		}
		tok.Type = tokenString
		tok.Literal = literal
	default:
		switch {
		case isIdentifierStart(l.ch):
			literal := l.readIdentifier()
			tok.Type = lookupIdent(literal)
			tok.Literal = literal
			return tok
		case unicode.IsDigit(l.ch):
			literal, isFloat := l.readNumber()
			tok.Literal = literal
			if isFloat {
				tok.Type = tokenFloat
			} else {
				tok.Type = tokenInt
			}
			return tok
		default:
			return l.fail(tok.Pos, fmt.Sprintf("unexpected character %q", l.ch))
		}
	}

	return tok
}

func (l *lexer) fail(pos Position, msg string) Token {
	l.err = &LexError{Pos: pos, Msg: msg}
	return Token{Type: tokenIllegal, Literal: msg, Pos: pos}
}

func (l *lexer) pos() Position {
	return Position{Offset: l.currentOffset(), Line: l.line, Column: l.column}
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) makeToken(tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal, Pos: l.pos()}
}

func (l *lexer) makeTokenAt(pos Position, tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal, Pos: pos}
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readRune()
			continue
		case '/':
			if l.peekRune() == '/' {
				l.skipComment()
				continue
			}
			return
		default:
			return
		}
	}
}

func (l *lexer) skipComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.readRune()
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) readNumber() (string, bool) {
	var sb strings.Builder
	hasDot := false

	// current rune is part of the number
	sb.WriteRune(l.ch)

	for {
		r := l.peekRune()
		switch {
		case r == '_':
			// Visual separators; only consumed between digits.
			beforeDigit := unicode.IsDigit(l.ch)
			afterDigit := unicode.IsDigit(l.peekRuneN(1))
			if beforeDigit && afterDigit {
				l.readRune()
				continue
			}
			goto done
		case r == '.' && !hasDot && unicode.IsDigit(l.peekRuneN(1)):
			hasDot = true
			l.readRune()
			sb.WriteRune('.')
		case unicode.IsDigit(r):
			l.readRune()
			sb.WriteRune(r)
		default:
			goto done
		}
	}

done:
	literal := sb.String()
	l.readRune()
	return literal, hasDot
}

func (l *lexer) readString(quote rune) (string, bool) {
	var sb strings.Builder

	for {
		l.readRune()
		switch l.ch {
		case 0:
			return "", false
		case quote:
			l.readRune()
			return sb.String(), true
		case '\\':
			next := l.peekRune()
			switch next {
			case '"', '\'', '\\':
				l.readRune()
				sb.WriteRune(next)
			case 'n':
				l.readRune()
				sb.WriteByte('\n')
			case 't':
				l.readRune()
				sb.WriteByte('\t')
			default:
				l.readRune()
				sb.WriteRune(next)
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
