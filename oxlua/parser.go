package oxlua

import (
	"fmt"
	"strconv"
)

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// parser is a recursive-descent parser with one token of lookahead and
// precedence climbing for expressions. It fails fast: the first error aborts
// the whole unit, because a partial AST is not a safe codegen input.
type parser struct {
	l *lexer

	curToken  Token
	peekToken Token

	err error

	loopDepth int

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

func newParser(input string) *parser {
	l := newLexer(input)
	p := &parser{l: l}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseIdentifier)
	p.registerPrefix(tokenInt, p.parseIntegerLiteral)
	p.registerPrefix(tokenFloat, p.parseFloatLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenBang, p.parsePrefixExpression)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)
	p.registerPrefix(tokenIf, p.parseIfExpression)
	p.registerPrefix(tokenMatch, p.parseMatchExpression)
	p.registerPrefix(tokenLBrace, p.parseBlockPrefix)

	p.infixFns[tokenPlus] = p.parseInfixExpression
	p.infixFns[tokenMinus] = p.parseInfixExpression
	p.infixFns[tokenSlash] = p.parseInfixExpression
	p.infixFns[tokenAsterisk] = p.parseInfixExpression
	p.infixFns[tokenPercent] = p.parseInfixExpression
	p.infixFns[tokenRange] = p.parseRangeExpression
	p.infixFns[tokenEQ] = p.parseInfixExpression
	p.infixFns[tokenNotEQ] = p.parseInfixExpression
	p.infixFns[tokenLT] = p.parseInfixExpression
	p.infixFns[tokenLTE] = p.parseInfixExpression
	p.infixFns[tokenGT] = p.parseInfixExpression
	p.infixFns[tokenGTE] = p.parseInfixExpression
	p.infixFns[tokenAnd] = p.parseInfixExpression
	p.infixFns[tokenOr] = p.parseInfixExpression
	p.infixFns[tokenLParen] = p.parseCallExpression

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if p.err == nil && p.l.err != nil {
		p.err = p.l.err
	}
}

// ParseProgram parses one compilation unit: an ordered sequence of function
// declarations. Order is preserved; it determines emission order.
func (p *parser) ParseProgram() (*Program, error) {
	program := &Program{}

	for p.curToken.Type != tokenEOF && p.err == nil {
		if p.curToken.Type != tokenFn {
			p.errorExpected(p.curToken, "fn")
			break
		}
		fn := p.parseFunctionDecl()
		if fn != nil {
			program.Functions = append(program.Functions, fn)
		}
		p.nextToken()
	}

	if p.err != nil {
		return nil, p.err
	}
	return program, nil
}

func (p *parser) parseFunctionDecl() *FunctionDecl {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(tokenLParen) {
		return nil
	}

	params := []Param{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
	} else {
		p.nextToken()
		param, ok := p.parseParam()
		if !ok {
			return nil
		}
		params = append(params, param)
		for p.peekToken.Type == tokenComma {
			p.nextToken()
			p.nextToken()
			param, ok := p.parseParam()
			if !ok {
				return nil
			}
			params = append(params, param)
		}
		if !p.expectPeek(tokenRParen) {
			return nil
		}
	}

	var returnTy *TypeAnnotation
	if p.peekToken.Type == tokenThinArrow {
		p.nextToken()
		p.nextToken()
		returnTy = p.parseTypeAnnotation()
		if returnTy == nil {
			return nil
		}
	}

	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	body := p.parseBlockExpression()
	if body == nil {
		return nil
	}
	if returnTy != nil && returnTy.Name != "()" {
		markValuePosition(body)
	}

	return &FunctionDecl{Name: name, Params: params, ReturnTy: returnTy, Body: body, position: pos}
}

func (p *parser) parseParam() (Param, bool) {
	if p.curToken.Type != tokenIdent {
		p.errorExpected(p.curToken, "parameter name")
		return Param{}, false
	}
	name := p.curToken.Literal
	if !p.expectPeek(tokenColon) {
		return Param{}, false
	}
	p.nextToken()
	ty := p.parseTypeAnnotation()
	if ty == nil {
		return Param{}, false
	}
	return Param{Name: name, Type: ty}, true
}

func (p *parser) parseTypeAnnotation() *TypeAnnotation {
	pos := p.curToken.Pos
	if p.curToken.Type == tokenLParen && p.peekToken.Type == tokenRParen {
		p.nextToken()
		return &TypeAnnotation{Name: "()", position: pos}
	}
	if p.curToken.Type != tokenIdent {
		p.errorExpected(p.curToken, "type name")
		return nil
	}
	return &TypeAnnotation{Name: p.curToken.Literal, position: pos}
}

// parseBlockExpression parses a brace-delimited statement sequence with an
// optional trailing tail expression. The current token must be the opening
// brace; on return it is the closing brace.
func (p *parser) parseBlockExpression() *BlockExpr {
	block := &BlockExpr{position: p.curToken.Pos}
	p.nextToken()

	for p.curToken.Type != tokenRBrace && p.curToken.Type != tokenEOF && p.err == nil {
		stmt, tail := p.parseStatement()
		if p.err != nil {
			return nil
		}
		if tail != nil {
			block.Tail = tail
			if !p.expectPeek(tokenRBrace) {
				return nil
			}
			return block
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	if p.curToken.Type != tokenRBrace {
		p.errorExpected(p.curToken, "}")
		return nil
	}
	return block
}

// parseStatement parses the statement starting at the current token. When
// the construct turns out to be the block's tail expression (no terminator,
// closing brace next) it is returned as the second value instead.
func (p *parser) parseStatement() (Statement, Expression) {
	switch p.curToken.Type {
	case tokenLet:
		return p.parseLetStatement(), nil
	case tokenReturn:
		return p.parseReturnStatement(), nil
	case tokenBreak:
		return p.parseBreakStatement(), nil
	case tokenFor:
		return p.parseForStatement(), nil
	case tokenWhile:
		return p.parseWhileStatement(), nil
	case tokenLoop:
		return p.parseLoopStatement(), nil
	case tokenIf:
		return p.parseIfOrTail(p.parseIfExpression())
	case tokenMatch:
		return p.parseIfOrTail(p.parseMatchExpression())
	default:
		return p.parseExpressionStatement()
	}
}

// parseIfOrTail classifies a statement-position if/match: followed by the
// closing brace it is the block's tail; otherwise it is an effect statement
// with an optional semicolon.
func (p *parser) parseIfOrTail(expr Expression) (Statement, Expression) {
	if expr == nil {
		return nil, nil
	}
	if p.peekToken.Type == tokenRBrace {
		return nil, expr
	}
	if p.peekToken.Type == tokenSemicolon {
		p.nextToken()
	}
	return &ExprStmt{Expr: expr, position: expr.Pos()}, nil
}

func (p *parser) parseLetStatement() Statement {
	pos := p.curToken.Pos

	mutable := false
	if p.peekToken.Type == tokenMut {
		p.nextToken()
		mutable = true
	}

	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal

	var ty *TypeAnnotation
	if p.peekToken.Type == tokenColon {
		p.nextToken()
		p.nextToken()
		ty = p.parseTypeAnnotation()
		if ty == nil {
			return nil
		}
	}

	if !p.expectPeek(tokenAssign) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	markValuePosition(value)

	if !p.expectPeek(tokenSemicolon) {
		return nil
	}

	return &LetStmt{Name: name, Mutable: mutable, Type: ty, Value: value, position: pos}
}

func (p *parser) parseReturnStatement() Statement {
	pos := p.curToken.Pos

	if p.peekToken.Type == tokenSemicolon {
		p.nextToken()
		return &ReturnStmt{position: pos}
	}

	p.nextToken()
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	markValuePosition(value)

	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &ReturnStmt{Value: value, position: pos}
}

func (p *parser) parseBreakStatement() Statement {
	pos := p.curToken.Pos
	if p.loopDepth == 0 {
		p.errorAt(pos, "break outside of a loop")
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &BreakStmt{position: pos}
}

func (p *parser) parseForStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	iterator := p.curToken.Literal

	if !p.expectPeek(tokenIn) {
		return nil
	}

	p.nextToken()
	iterable := p.parseExpression(lowestPrec)
	if iterable == nil {
		return nil
	}
	rng, ok := iterable.(*RangeExpr)
	if !ok {
		p.errorAt(iterable.Pos(), "for loops iterate over ranges (start..end)")
		return nil
	}

	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	p.loopDepth++
	body := p.parseBlockExpression()
	p.loopDepth--
	if body == nil {
		return nil
	}

	return &ForStmt{Iterator: iterator, Range: rng, Body: body, position: pos}
}

func (p *parser) parseWhileStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if condition == nil {
		return nil
	}
	markValuePosition(condition)

	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	p.loopDepth++
	body := p.parseBlockExpression()
	p.loopDepth--
	if body == nil {
		return nil
	}

	return &WhileStmt{Condition: condition, Body: body, position: pos}
}

func (p *parser) parseLoopStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	p.loopDepth++
	body := p.parseBlockExpression()
	p.loopDepth--
	if body == nil {
		return nil
	}
	return &LoopStmt{Body: body, position: pos}
}

// parseExpressionStatement handles assignments, calls, and any other bare
// expression run for effect, plus the block-tail case where the expression's
// value escapes the block.
func (p *parser) parseExpressionStatement() (Statement, Expression) {
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil, nil
	}

	if p.peekToken.Type == tokenAssign {
		ident, ok := expr.(*Identifier)
		if !ok {
			p.errorAt(expr.Pos(), "only identifiers can be assigned to")
			return nil, nil
		}
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if value == nil {
			return nil, nil
		}
		markValuePosition(value)
		if !p.expectPeek(tokenSemicolon) {
			return nil, nil
		}
		return &AssignStmt{Name: ident.Name, Value: value, position: ident.Pos()}, nil
	}

	if p.peekToken.Type == tokenRBrace {
		return nil, expr
	}

	if !p.expectPeek(tokenSemicolon) {
		return nil, nil
	}
	return &ExprStmt{Expr: expr, position: expr.Pos()}, nil
}

const (
	lowestPrec = iota
	precOr
	precAnd
	precEquality
	precComparison
	precRange
	precSum
	precProduct
	precPrefix
	precCall
)

var precedences = map[TokenType]int{
	tokenOr:       precOr,
	tokenAnd:      precAnd,
	tokenEQ:       precEquality,
	tokenNotEQ:    precEquality,
	tokenLT:       precComparison,
	tokenLTE:      precComparison,
	tokenGT:       precComparison,
	tokenGTE:      precComparison,
	tokenRange:    precRange,
	tokenPlus:     precSum,
	tokenMinus:    precSum,
	tokenSlash:    precProduct,
	tokenAsterisk: precProduct,
	tokenPercent:  precProduct,
	tokenLParen:   precCall,
}

func (p *parser) parseExpression(precedence int) Expression {
	if p.err != nil {
		return nil
	}
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()

	for left != nil && p.peekToken.Type != tokenEOF && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *parser) parseIdentifier() Expression {
	return &Identifier{Name: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseIntegerLiteral() Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorAt(p.curToken.Pos, "invalid integer literal")
		return nil
	}
	return &IntegerLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseFloatLiteral() Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorAt(p.curToken.Pos, "invalid float literal")
		return nil
	}
	return &FloatLiteral{Value: value, Literal: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseStringLiteral() Expression {
	return &StringLiteral{Value: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Expression {
	return &BoolLiteral{Value: p.curToken.Type == tokenTrue, position: p.curToken.Pos}
}

func (p *parser) parseGroupedExpression() Expression {
	p.nextToken()
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	markValuePosition(expr)
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return expr
}

func (p *parser) parsePrefixExpression() Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	p.nextToken()
	right := p.parseExpression(precPrefix)
	if right == nil {
		return nil
	}
	markValuePosition(right)
	return &UnaryExpr{Operator: operator, Right: right, position: pos}
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	markValuePosition(left)
	markValuePosition(right)
	return &BinaryExpr{Left: left, Operator: operator, Right: right, position: pos}
}

func (p *parser) parseRangeExpression(left Expression) Expression {
	pos := p.curToken.Pos
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	markValuePosition(left)
	markValuePosition(right)
	return &RangeExpr{Start: left, End: right, position: pos}
}

func (p *parser) parseCallExpression(callee Expression) Expression {
	ident, ok := callee.(*Identifier)
	if !ok {
		p.errorAt(callee.Pos(), "only named functions can be called")
		return nil
	}
	expr := &CallExpr{Callee: ident.Name, position: ident.Pos()}
	args := []Expression{}

	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		expr.Args = args
		return expr
	}

	p.nextToken()
	arg := p.parseExpression(lowestPrec)
	if arg == nil {
		return nil
	}
	markValuePosition(arg)
	args = append(args, arg)

	for p.peekToken.Type == tokenComma {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(lowestPrec)
		if arg == nil {
			return nil
		}
		markValuePosition(arg)
		args = append(args, arg)
	}

	if !p.expectPeek(tokenRParen) {
		return nil
	}

	expr.Args = args
	return expr
}

func (p *parser) parseIfExpression() Expression {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if condition == nil {
		return nil
	}
	markValuePosition(condition)

	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	then := p.parseBlockExpression()
	if then == nil {
		return nil
	}

	var alternate Expression
	if p.peekToken.Type == tokenElse {
		p.nextToken()
		switch p.peekToken.Type {
		case tokenIf:
			p.nextToken()
			alternate = p.parseIfExpression()
		case tokenLBrace:
			p.nextToken()
			alternate = p.parseBlockExpression()
		default:
			p.errorExpected(p.peekToken, "if or {")
			return nil
		}
		if alternate == nil {
			return nil
		}
	}

	return &IfExpr{Condition: condition, Then: then, Else: alternate, position: pos}
}

func (p *parser) parseMatchExpression() Expression {
	pos := p.curToken.Pos
	p.nextToken()
	scrutinee := p.parseExpression(lowestPrec)
	if scrutinee == nil {
		return nil
	}
	markValuePosition(scrutinee)

	if !p.expectPeek(tokenLBrace) {
		return nil
	}

	arms := []*MatchArm{}
	p.nextToken()
	for p.curToken.Type != tokenRBrace && p.curToken.Type != tokenEOF && p.err == nil {
		arm := p.parseMatchArm()
		if arm == nil {
			return nil
		}
		arms = append(arms, arm)

		if p.peekToken.Type == tokenComma {
			p.nextToken()
			p.nextToken()
			continue
		}
		if !p.expectPeek(tokenRBrace) {
			return nil
		}
		return p.finishMatch(scrutinee, arms, pos)
	}

	if p.curToken.Type != tokenRBrace {
		p.errorExpected(p.curToken, "}")
		return nil
	}
	return p.finishMatch(scrutinee, arms, pos)
}

func (p *parser) finishMatch(scrutinee Expression, arms []*MatchArm, pos Position) Expression {
	if len(arms) == 0 {
		p.errorAt(pos, "match requires at least one arm")
		return nil
	}
	return &MatchExpr{Scrutinee: scrutinee, Arms: arms, position: pos}
}

func (p *parser) parseMatchArm() *MatchArm {
	arm := &MatchArm{position: p.curToken.Pos}

	switch p.curToken.Type {
	case tokenInt, tokenFloat, tokenString, tokenTrue, tokenFalse:
		lit := p.parseExpression(precPrefix)
		if lit == nil {
			return nil
		}
		arm.Literal = lit
	case tokenMinus:
		lit := p.parsePrefixExpression()
		if lit == nil {
			return nil
		}
		arm.Literal = lit
	case tokenIdent:
		if p.curToken.Literal == "_" {
			arm.Wildcard = true
		} else {
			arm.Binding = p.curToken.Literal
		}
	default:
		p.errorExpected(p.curToken, "match pattern")
		return nil
	}

	if !p.expectPeek(tokenFatArrow) {
		return nil
	}

	p.nextToken()
	var body Expression
	if p.curToken.Type == tokenLBrace {
		body = p.parseBlockExpression()
	} else {
		body = p.parseExpression(lowestPrec)
	}
	if body == nil {
		return nil
	}
	arm.Body = body

	return arm
}

func (p *parser) parseBlockPrefix() Expression {
	return p.parseBlockExpression()
}

// markValuePosition flags an expression as appearing in value position. For
// the constructs the generator lowers through a temporary (if, match, block)
// the flag propagates into every position whose value becomes the
// construct's own value.
func markValuePosition(expr Expression) {
	switch e := expr.(type) {
	case *IfExpr:
		e.ValueUsed = true
		markValuePosition(e.Then)
		if e.Else != nil {
			markValuePosition(e.Else)
		}
	case *MatchExpr:
		e.ValueUsed = true
		for _, arm := range e.Arms {
			markValuePosition(arm.Body)
		}
	case *BlockExpr:
		e.ValueUsed = true
		if e.Tail != nil {
			markValuePosition(e.Tail)
		}
	}
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, string(tt))
	return false
}

func (p *parser) errorExpected(tok Token, expected string) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("expected %s, got %s", expected, tok.Type)}
}

func (p *parser) errorUnexpected(tok Token) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token %s", tok.Type)}
}

func (p *parser) errorAt(pos Position, msg string) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{Pos: pos, Msg: msg}
}
