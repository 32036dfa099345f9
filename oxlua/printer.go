package oxlua

import (
	"strconv"
	"strings"
)

// printer renders an AST back to canonical source text: two-space indent,
// one statement per line, normalized spacing. Parsing the printed form
// yields the same AST, which is what makes it safe as a formatter.
type printer struct {
	b     strings.Builder
	depth int
}

func printProgram(program *Program) string {
	p := &printer{}
	for i, fn := range program.Functions {
		if i > 0 {
			p.b.WriteByte('\n')
		}
		p.printFunction(fn)
	}
	return p.b.String()
}

func (p *printer) pad() {
	for i := 0; i < p.depth; i++ {
		p.b.WriteString("  ")
	}
}

func (p *printer) write(s string) { p.b.WriteString(s) }

func (p *printer) printFunction(fn *FunctionDecl) {
	p.write("fn " + fn.Name + "(")
	for i, param := range fn.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name + ": " + param.Type.Name)
	}
	p.write(")")
	if fn.ReturnTy != nil {
		p.write(" -> " + fn.ReturnTy.Name)
	}
	p.write(" ")
	p.printBlock(fn.Body)
	p.write("\n")
}

func (p *printer) printBlock(block *BlockExpr) {
	if len(block.Statements) == 0 && block.Tail == nil {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.depth++
	for _, stmt := range block.Statements {
		p.printStatement(stmt)
	}
	if block.Tail != nil {
		p.pad()
		p.printExpr(block.Tail, lowestPrec, false)
		p.write("\n")
	}
	p.depth--
	p.pad()
	p.write("}")
}

func (p *printer) printStatement(stmt Statement) {
	p.pad()
	switch s := stmt.(type) {
	case *LetStmt:
		p.write("let ")
		if s.Mutable {
			p.write("mut ")
		}
		p.write(s.Name)
		if s.Type != nil {
			p.write(": " + s.Type.Name)
		}
		p.write(" = ")
		p.printExpr(s.Value, lowestPrec, false)
		p.write(";\n")
	case *AssignStmt:
		p.write(s.Name + " = ")
		p.printExpr(s.Value, lowestPrec, false)
		p.write(";\n")
	case *ExprStmt:
		p.printExpr(s.Expr, lowestPrec, false)
		p.write(";\n")
	case *ForStmt:
		p.write("for " + s.Iterator + " in ")
		p.printExpr(s.Range, lowestPrec, false)
		p.write(" ")
		p.printBlock(s.Body)
		p.write("\n")
	case *WhileStmt:
		p.write("while ")
		p.printExpr(s.Condition, lowestPrec, false)
		p.write(" ")
		p.printBlock(s.Body)
		p.write("\n")
	case *LoopStmt:
		p.write("loop ")
		p.printBlock(s.Body)
		p.write("\n")
	case *BreakStmt:
		p.write("break;\n")
	case *ReturnStmt:
		if s.Value == nil {
			p.write("return;\n")
		} else {
			p.write("return ")
			p.printExpr(s.Value, lowestPrec, false)
			p.write(";\n")
		}
	}
}

// printExpr renders an expression, parenthesizing children that bind looser
// than their parent (or equally on the right, everything being
// left-associative).
func (p *printer) printExpr(expr Expression, parentPrec int, rightSide bool) {
	switch e := expr.(type) {
	case *IntegerLiteral:
		p.write(strconv.FormatInt(e.Value, 10))
	case *FloatLiteral:
		if e.Literal != "" {
			p.write(e.Literal)
		} else {
			p.write(strconv.FormatFloat(e.Value, 'g', -1, 64))
		}
	case *StringLiteral:
		p.write(quoteSource(e.Value))
	case *BoolLiteral:
		if e.Value {
			p.write("true")
		} else {
			p.write("false")
		}
	case *Identifier:
		p.write(e.Name)
	case *UnaryExpr:
		op := "-"
		if e.Operator == tokenBang {
			op = "!"
		}
		p.write(op)
		p.printOperand(e.Right, precPrefix, false)
	case *BinaryExpr:
		prec := sourcePrecedence(e.Operator)
		closeParen := prec < parentPrec || (prec == parentPrec && rightSide)
		if closeParen {
			p.write("(")
		}
		p.printOperand(e.Left, prec, false)
		p.write(" " + string(e.Operator) + " ")
		p.printOperand(e.Right, prec, true)
		if closeParen {
			p.write(")")
		}
	case *RangeExpr:
		p.printOperand(e.Start, precRange, false)
		p.write("..")
		p.printOperand(e.End, precRange, true)
	case *CallExpr:
		p.write(e.Callee + "(")
		for i, arg := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(arg, lowestPrec, false)
		}
		p.write(")")
	case *BlockExpr:
		p.printBlock(e)
	case *IfExpr:
		p.printIf(e)
	case *MatchExpr:
		p.printMatch(e)
	}
}

func (p *printer) printOperand(expr Expression, parentPrec int, rightSide bool) {
	if child, ok := expr.(*BinaryExpr); ok {
		prec := sourcePrecedence(child.Operator)
		if prec < parentPrec || (prec == parentPrec && rightSide) {
			p.write("(")
			p.printExpr(child, lowestPrec, false)
			p.write(")")
			return
		}
	}
	p.printExpr(expr, parentPrec, rightSide)
}

func (p *printer) printIf(e *IfExpr) {
	p.write("if ")
	p.printExpr(e.Condition, lowestPrec, false)
	p.write(" ")
	p.printBlock(e.Then)
	switch alt := e.Else.(type) {
	case nil:
	case *IfExpr:
		p.write(" else ")
		p.printIf(alt)
	case *BlockExpr:
		p.write(" else ")
		p.printBlock(alt)
	}
}

func (p *printer) printMatch(e *MatchExpr) {
	p.write("match ")
	p.printExpr(e.Scrutinee, lowestPrec, false)
	p.write(" {\n")
	p.depth++
	for _, arm := range e.Arms {
		p.pad()
		switch {
		case arm.Wildcard:
			p.write("_")
		case arm.Binding != "":
			p.write(arm.Binding)
		default:
			p.printExpr(arm.Literal, lowestPrec, false)
		}
		p.write(" => ")
		p.printExpr(arm.Body, lowestPrec, false)
		p.write(",\n")
	}
	p.depth--
	p.pad()
	p.write("}")
}

func sourcePrecedence(op TokenType) int {
	if prec, ok := precedences[op]; ok {
		return prec
	}
	return lowestPrec
}

// quoteSource re-quotes a string literal using the minimal escape set the
// lexer understands.
func quoteSource(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
