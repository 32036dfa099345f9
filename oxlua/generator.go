package oxlua

import (
	"fmt"
	"strconv"
	"strings"
)

// generator walks a Program and emits Luau source in a single pass. The
// central job is value-position lowering: the source treats if, match, and
// block tails as value-producing expressions; the target only has statement
// forms for them, so the generator hoists a fresh temporary into the
// enclosing scope, assigns it along every control path, and splices the
// temporary's name at the use site.
type generator struct {
	indent string

	out   strings.Builder
	depth int

	scopes   []map[string]string // source name -> emitted name
	declared map[string]int      // per-function declaration counts, for shadow suffixes
	tmpCount int

	err *GenError
}

func newGenerator(indent string) *generator {
	return &generator{indent: indent}
}

// Generate emits the whole compilation unit. All-or-nothing: on the first
// unsupported construct it returns only the error, never partial output.
func (g *generator) Generate(program *Program) (string, error) {
	for i, fn := range program.Functions {
		if i > 0 {
			g.out.WriteByte('\n')
		}
		g.genFunction(fn)
		if g.err != nil {
			return "", g.err
		}
	}
	return g.out.String(), nil
}

/* ---------- emission helpers ---------- */

func (g *generator) line(s string) {
	for i := 0; i < g.depth; i++ {
		g.out.WriteString(g.indent)
	}
	g.out.WriteString(s)
	g.out.WriteByte('\n')
}

func (g *generator) indented(fn func()) {
	g.depth++
	fn()
	g.depth--
}

func (g *generator) fail(pos Position, format string, args ...any) {
	if g.err == nil {
		g.err = &GenError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	}
}

/* ---------- scopes & names ---------- */

func (g *generator) pushScope() {
	g.scopes = append(g.scopes, make(map[string]string))
}

func (g *generator) popScope() {
	g.scopes = g.scopes[:len(g.scopes)-1]
}

// declare installs a binding in the innermost scope. A name that has already
// been declared in this function gets a numeric suffix, so shadowed and
// re-declared source names never collide in the emitted code, whose scoping
// rules we deliberately do not rely on.
func (g *generator) declare(name string) string {
	g.declared[name]++
	emitted := name
	if n := g.declared[name]; n > 1 {
		emitted = fmt.Sprintf("%s_%d", name, n)
	}
	g.scopes[len(g.scopes)-1][name] = emitted
	return emitted
}

// resolve finds the innermost live binding. Unbound names pass through
// unchanged; they refer to function declarations or target globals.
func (g *generator) resolve(name string) string {
	emitted, _ := g.resolveBound(name)
	return emitted
}

func (g *generator) resolveBound(name string) (string, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if emitted, ok := g.scopes[i][name]; ok {
			return emitted, true
		}
	}
	return name, false
}

// newTemp allocates a fresh temporary. Temporaries share the function's
// name space with user bindings, so the counter skips any __oxN the source
// has declared, and the chosen name is recorded so a later source
// declaration of it goes through the suffixing path.
func (g *generator) newTemp() string {
	for {
		g.tmpCount++
		name := fmt.Sprintf("__ox%d", g.tmpCount)
		if g.declared[name] == 0 {
			g.declared[name]++
			return name
		}
	}
}

/* ---------- declarations ---------- */

func (g *generator) genFunction(fn *FunctionDecl) {
	g.declared = make(map[string]int)
	g.tmpCount = 0
	g.pushScope()
	defer g.popScope()

	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		ty, ok := mapType(param.Type.Name)
		if !ok {
			g.fail(param.Type.Pos(), "unsupported type %s", param.Type.Name)
			return
		}
		emitted := g.declare(param.Name)
		if ty == TargetNone {
			params[i] = emitted
		} else {
			params[i] = fmt.Sprintf("%s: %s", emitted, ty)
		}
	}

	returns := TargetNone
	if fn.ReturnTy != nil {
		ty, ok := mapType(fn.ReturnTy.Name)
		if !ok {
			g.fail(fn.ReturnTy.Pos(), "unsupported type %s", fn.ReturnTy.Name)
			return
		}
		returns = ty
	}

	header := fmt.Sprintf("function %s(%s)", fn.Name, strings.Join(params, ", "))
	if returns != TargetNone {
		header += fmt.Sprintf(": %s", returns)
	}
	g.line(header)

	g.indented(func() {
		g.genStatements(fn.Body.Statements)
		if fn.Body.Tail != nil {
			if returns != TargetNone {
				value := g.genValue(fn.Body.Tail)
				if g.err != nil {
					return
				}
				g.line("return " + value)
			} else {
				g.genEffect(fn.Body.Tail)
			}
		}
	})
	g.line("end")
}

/* ---------- statements ---------- */

func (g *generator) genStatements(stmts []Statement) {
	for _, stmt := range stmts {
		if g.err != nil {
			return
		}
		g.genStatement(stmt)
	}
}

func (g *generator) genStatement(stmt Statement) {
	switch s := stmt.(type) {
	case *LetStmt:
		g.genLet(s)
	case *AssignStmt:
		value := g.genValue(s.Value)
		if g.err != nil {
			return
		}
		if emitted, bound := g.resolveBound(s.Name); bound {
			g.line(emitted + " = " + value)
		} else {
			// Assignment before any declaration introduces the binding,
			// matching how the target treats a first write.
			g.line("local " + g.declare(s.Name) + " = " + value)
		}
	case *ExprStmt:
		g.genEffect(s.Expr)
	case *ForStmt:
		g.genFor(s)
	case *WhileStmt:
		g.genWhile(s)
	case *LoopStmt:
		g.line("while true do")
		g.indented(func() { g.genScopedStatements(s.Body) })
		g.line("end")
	case *BreakStmt:
		g.line("break")
	case *ReturnStmt:
		if s.Value == nil {
			g.line("return")
			return
		}
		value := g.genValue(s.Value)
		if g.err != nil {
			return
		}
		g.line("return " + value)
	default:
		g.fail(stmt.Pos(), "unsupported statement %T", stmt)
	}
}

func (g *generator) genLet(s *LetStmt) {
	value := g.genValue(s.Value)
	if g.err != nil {
		return
	}

	ty := TargetNone
	if s.Type != nil {
		mapped, ok := mapType(s.Type.Name)
		if !ok {
			g.fail(s.Type.Pos(), "unsupported type %s", s.Type.Name)
			return
		}
		ty = mapped
	} else if inferred, ok := inferType(s.Value); ok {
		ty = inferred
	}

	emitted := g.declare(s.Name)
	if ty == TargetNone {
		g.line(fmt.Sprintf("local %s = %s", emitted, value))
	} else {
		g.line(fmt.Sprintf("local %s: %s = %s", emitted, ty, value))
	}
}

func (g *generator) genFor(s *ForStmt) {
	start := g.genValue(s.Range.Start)
	if g.err != nil {
		return
	}
	// The target's numeric for is inclusive on both ends; the source range
	// excludes its end, so the bound drops by one.
	var end string
	if lit, ok := s.Range.End.(*IntegerLiteral); ok {
		end = strconv.FormatInt(lit.Value-1, 10)
	} else {
		end = g.genOperand(s.Range.End, precSum, true) + " - 1"
	}
	if g.err != nil {
		return
	}

	g.pushScope()
	iterator := g.declare(s.Iterator)
	g.line(fmt.Sprintf("for %s = %s, %s do", iterator, start, end))
	g.indented(func() { g.genBlockBody(s.Body) })
	g.line("end")
	g.popScope()
}

func (g *generator) genWhile(s *WhileStmt) {
	// A condition that needs statement lowering cannot be hoisted above the
	// loop head, or it would only be evaluated once. Re-lower it inside the
	// body instead.
	if needsLowering(s.Condition) {
		g.line("while true do")
		g.indented(func() {
			cond := g.genValue(s.Condition)
			if g.err != nil {
				return
			}
			g.line("if not (" + cond + ") then")
			g.indented(func() { g.line("break") })
			g.line("end")
			g.genScopedStatements(s.Body)
		})
		g.line("end")
		return
	}

	cond := g.genValue(s.Condition)
	if g.err != nil {
		return
	}
	g.line("while " + cond + " do")
	g.indented(func() { g.genScopedStatements(s.Body) })
	g.line("end")
}

// genScopedStatements emits a loop body: a fresh scope whose tail, if any,
// runs for effect only.
func (g *generator) genScopedStatements(body *BlockExpr) {
	g.pushScope()
	g.genBlockBody(body)
	g.popScope()
}

func (g *generator) genBlockBody(body *BlockExpr) {
	g.genStatements(body.Statements)
	if body.Tail != nil && g.err == nil {
		g.genEffect(body.Tail)
	}
}

/* ---------- expressions: effect position ---------- */

// genEffect emits an expression run purely for its side effect. No
// temporary is ever hoisted here.
func (g *generator) genEffect(expr Expression) {
	switch e := expr.(type) {
	case *CallExpr:
		g.line(g.genCall(e))
	case *IfExpr:
		g.genIfStmt(e, "")
	case *MatchExpr:
		g.genMatchStmt(e, "")
	case *BlockExpr:
		g.line("do")
		g.indented(func() { g.genScopedStatements(e) })
		g.line("end")
	default:
		// The target has no bare expression statements; bind the value to
		// the throwaway name so the evaluation still happens.
		value := g.genValue(expr)
		if g.err != nil {
			return
		}
		g.line("local _ = " + value)
	}
}

/* ---------- expressions: value position ---------- */

// genValue returns target expression text for expr. Constructs the target
// cannot express as expressions are lowered first: statements assigning a
// fresh temporary are emitted, and the temporary's name is returned.
func (g *generator) genValue(expr Expression) string {
	switch e := expr.(type) {
	case *IntegerLiteral:
		return strconv.FormatInt(e.Value, 10)
	case *FloatLiteral:
		if e.Literal != "" {
			return e.Literal
		}
		return strconv.FormatFloat(e.Value, 'g', -1, 64)
	case *StringLiteral:
		return quoteLua(e.Value)
	case *BoolLiteral:
		if e.Value {
			return "true"
		}
		return "false"
	case *Identifier:
		return g.resolve(e.Name)
	case *UnaryExpr:
		operand := g.genOperand(e.Right, precPrefix, false)
		if e.Operator == tokenBang {
			return "not " + operand
		}
		if strings.HasPrefix(operand, "-") {
			// -- would open a comment in the target
			return "-(" + operand + ")"
		}
		return "-" + operand
	case *BinaryExpr:
		op, prec, ok := luaBinaryOp(e.Operator)
		if !ok {
			g.fail(e.Pos(), "unsupported binary operator %s", e.Operator)
			return ""
		}
		left := g.genOperand(e.Left, prec, false)
		if g.err != nil {
			return ""
		}
		// A lowered right operand emits its statements before the line that
		// finally evaluates this expression's text. Pinning the left operand
		// to a temporary first keeps source evaluation order. A directly
		// lowered left already evaluated into its own temporary.
		if needsLowering(e.Right) && !isLiteralOperand(e.Left) && !isLoweredNode(e.Left) {
			tmp := g.newTemp()
			g.line("local " + tmp + " = " + left)
			left = tmp
		}
		right := g.genOperand(e.Right, prec, true)
		return left + " " + op + " " + right
	case *CallExpr:
		return g.genCall(e)
	case *IfExpr:
		if e.Else == nil {
			g.fail(e.Pos(), "if used as a value requires an else branch")
			return ""
		}
		tmp := g.newTemp()
		g.line("local " + tmp)
		g.genIfStmt(e, tmp)
		return tmp
	case *MatchExpr:
		tmp := g.newTemp()
		g.line("local " + tmp)
		g.genMatchStmt(e, tmp)
		return tmp
	case *BlockExpr:
		tmp := g.newTemp()
		g.line("local " + tmp)
		g.genBlockInto(e, tmp)
		return tmp
	case *RangeExpr:
		g.fail(e.Pos(), "range expressions are only supported as for loop bounds")
		return ""
	default:
		g.fail(expr.Pos(), "unsupported expression %T", expr)
		return ""
	}
}

func (g *generator) genCall(e *CallExpr) string {
	lastLowered := -1
	for i, arg := range e.Args {
		if needsLowering(arg) {
			lastLowered = i
		}
	}

	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		text := g.genValue(arg)
		if g.err != nil {
			return ""
		}
		// Arguments before a lowered one get pinned to temporaries so they
		// still evaluate before the lowered argument's statements run.
		if i < lastLowered && !isLiteralOperand(arg) && !isLoweredNode(arg) {
			tmp := g.newTemp()
			g.line("local " + tmp + " = " + text)
			text = tmp
		}
		args[i] = text
	}
	return g.resolve(e.Callee) + "(" + strings.Join(args, ", ") + ")"
}

// genOperand renders a subexpression of a unary or binary operator, adding
// parentheses when the child binds looser than the parent (or equally on
// the right side, since every operator here is left-associative).
func (g *generator) genOperand(expr Expression, parentPrec int, rightSide bool) string {
	text := g.genValue(expr)
	child, ok := expr.(*BinaryExpr)
	if !ok {
		return text
	}
	_, childPrec, opOK := luaBinaryOp(child.Operator)
	if !opOK {
		return text
	}
	if childPrec < parentPrec || (childPrec == parentPrec && rightSide) {
		return "(" + text + ")"
	}
	return text
}

/* ---------- if lowering ---------- */

// genIfStmt emits an if as target statements. With assignTo set, every
// control path assigns into it; empty assignTo means effect position.
func (g *generator) genIfStmt(e *IfExpr, assignTo string) {
	cond := g.genValue(e.Condition)
	if g.err != nil {
		return
	}
	g.line("if " + cond + " then")
	g.genBranch(e.Then, assignTo)
	g.genElse(e.Else, assignTo)
	g.line("end")
}

func (g *generator) genElse(alt Expression, assignTo string) {
	switch a := alt.(type) {
	case nil:
		return
	case *IfExpr:
		// Chain into elseif when the condition needs no statement prelude;
		// otherwise nest a full if inside the else branch.
		if !needsLowering(a.Condition) {
			cond := g.genValue(a.Condition)
			if g.err != nil {
				return
			}
			g.line("elseif " + cond + " then")
			g.genBranch(a.Then, assignTo)
			g.genElse(a.Else, assignTo)
			return
		}
		g.line("else")
		g.indented(func() { g.genIfStmt(a, assignTo) })
	case *BlockExpr:
		g.line("else")
		g.genBranch(a, assignTo)
	default:
		g.fail(alt.Pos(), "unsupported else form %T", alt)
	}
}

// genBranch emits one branch body. In value position the branch tail is
// assigned into assignTo; a branch without a tail yields the target's nil.
func (g *generator) genBranch(body *BlockExpr, assignTo string) {
	g.indented(func() {
		g.pushScope()
		g.genStatements(body.Statements)
		if g.err != nil {
			g.popScope()
			return
		}
		switch {
		case assignTo == "":
			if body.Tail != nil {
				g.genEffect(body.Tail)
			}
		case body.Tail != nil:
			g.genAssignInto(assignTo, body.Tail)
		case blockDiverges(body):
			// The branch never falls through; the target may not place a
			// statement after return anyway.
		default:
			g.line(assignTo + " = nil")
		}
		g.popScope()
	})
}

// blockDiverges reports whether control never reaches the end of the block.
func blockDiverges(b *BlockExpr) bool {
	if b.Tail != nil || len(b.Statements) == 0 {
		return false
	}
	switch b.Statements[len(b.Statements)-1].(type) {
	case *ReturnStmt, *BreakStmt:
		return true
	}
	return false
}

// genAssignInto assigns an expression's value to an existing target name.
// Lowerable constructs assign the target directly along their own control
// paths instead of routing through another temporary.
func (g *generator) genAssignInto(target string, expr Expression) {
	switch e := expr.(type) {
	case *IfExpr:
		if e.Else == nil {
			g.fail(e.Pos(), "if used as a value requires an else branch")
			return
		}
		g.genIfStmt(e, target)
	case *MatchExpr:
		g.genMatchStmt(e, target)
	case *BlockExpr:
		g.genBlockInto(e, target)
	default:
		value := g.genValue(expr)
		if g.err != nil {
			return
		}
		g.line(target + " = " + value)
	}
}

/* ---------- block lowering ---------- */

func (g *generator) genBlockInto(e *BlockExpr, target string) {
	g.line("do")
	g.indented(func() {
		g.pushScope()
		g.genStatements(e.Statements)
		if g.err == nil {
			switch {
			case e.Tail != nil:
				g.genAssignInto(target, e.Tail)
			case blockDiverges(e):
			default:
				g.line(target + " = nil")
			}
		}
		g.popScope()
	})
	g.line("end")
}

/* ---------- match lowering ---------- */

// genMatchStmt lowers a match into an if/elseif/else chain. Arms are tested
// in source order; the first unconditional arm (binding or wildcard) ends
// the chain. When no arm is unconditional and the literal arms do not cover
// both booleans, a trailing error branch keeps an unmatched scrutinee from
// falling through silently.
func (g *generator) genMatchStmt(e *MatchExpr, assignTo string) {
	scrut := g.genValue(e.Scrutinee)
	if g.err != nil {
		return
	}
	if !isSimpleOperand(e.Scrutinee) {
		tmp := g.newTemp()
		g.line("local " + tmp + " = " + scrut)
		scrut = tmp
	}

	opened := false
	closed := false
	sawTrue, sawFalse := false, false

	for _, arm := range e.Arms {
		if g.err != nil {
			return
		}

		if arm.Wildcard || arm.Binding != "" {
			if !opened {
				// An unconditional first arm needs no branching at all.
				g.genArmBodyInline(arm, scrut, assignTo)
				return
			}
			g.line("else")
			g.genArmBody(arm, scrut, assignTo)
			closed = true
			break
		}

		lit := g.genValue(arm.Literal)
		if g.err != nil {
			return
		}
		if b, ok := arm.Literal.(*BoolLiteral); ok {
			if b.Value {
				sawTrue = true
			} else {
				sawFalse = true
			}
		}

		cond := scrut + " == " + lit
		if !opened {
			g.line("if " + cond + " then")
			opened = true
		} else {
			g.line("elseif " + cond + " then")
		}
		g.genArmBody(arm, scrut, assignTo)
	}

	if !closed && !(sawTrue && sawFalse) {
		g.line("else")
		g.indented(func() { g.line(`error("unhandled match value")`) })
	}
	g.line("end")
}

func (g *generator) genArmBody(arm *MatchArm, scrut string, assignTo string) {
	g.indented(func() { g.genArmStatements(arm, scrut, assignTo) })
}

// genArmBodyInline emits an unconditional first arm without a surrounding
// if; a do block keeps the arm's bindings scoped.
func (g *generator) genArmBodyInline(arm *MatchArm, scrut string, assignTo string) {
	g.line("do")
	g.genArmBody(arm, scrut, assignTo)
	g.line("end")
}

func (g *generator) genArmStatements(arm *MatchArm, scrut string, assignTo string) {
	g.pushScope()
	defer g.popScope()

	if arm.Binding != "" {
		bound := g.declare(arm.Binding)
		g.line("local " + bound + " = " + scrut)
	}

	if body, ok := arm.Body.(*BlockExpr); ok {
		g.genStatements(body.Statements)
		if g.err != nil {
			return
		}
		switch {
		case assignTo == "":
			if body.Tail != nil {
				g.genEffect(body.Tail)
			}
		case body.Tail != nil:
			g.genAssignInto(assignTo, body.Tail)
		case blockDiverges(body):
		default:
			g.line(assignTo + " = nil")
		}
		return
	}

	if assignTo == "" {
		g.genEffect(arm.Body)
		return
	}
	g.genAssignInto(assignTo, arm.Body)
}

/* ---------- small helpers ---------- */

// needsLowering reports whether rendering an expression emits statements:
// either the node itself has no target expression form, or one of its
// operands does.
func needsLowering(expr Expression) bool {
	switch e := expr.(type) {
	case *IfExpr, *MatchExpr, *BlockExpr:
		return true
	case *UnaryExpr:
		return needsLowering(e.Right)
	case *BinaryExpr:
		return needsLowering(e.Left) || needsLowering(e.Right)
	case *RangeExpr:
		return needsLowering(e.Start) || needsLowering(e.End)
	case *CallExpr:
		for _, arg := range e.Args {
			if needsLowering(arg) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func isSimpleOperand(expr Expression) bool {
	switch expr.(type) {
	case *Identifier, *IntegerLiteral, *FloatLiteral, *StringLiteral, *BoolLiteral:
		return true
	default:
		return false
	}
}

// isLoweredNode reports whether genValue renders the expression itself
// through a hoisted temporary.
func isLoweredNode(expr Expression) bool {
	switch expr.(type) {
	case *IfExpr, *MatchExpr, *BlockExpr:
		return true
	default:
		return false
	}
}

// isLiteralOperand reports whether an expression is a constant whose value
// cannot be disturbed by statements emitted between its text and its use.
func isLiteralOperand(expr Expression) bool {
	switch expr.(type) {
	case *IntegerLiteral, *FloatLiteral, *StringLiteral, *BoolLiteral:
		return true
	default:
		return false
	}
}

func luaBinaryOp(op TokenType) (string, int, bool) {
	switch op {
	case tokenPlus:
		return "+", precSum, true
	case tokenMinus:
		return "-", precSum, true
	case tokenAsterisk:
		return "*", precProduct, true
	case tokenSlash:
		return "/", precProduct, true
	case tokenPercent:
		return "%", precProduct, true
	case tokenEQ:
		return "==", precEquality, true
	case tokenNotEQ:
		return "~=", precEquality, true
	case tokenLT:
		return "<", precComparison, true
	case tokenLTE:
		return "<=", precComparison, true
	case tokenGT:
		return ">", precComparison, true
	case tokenGTE:
		return ">=", precComparison, true
	case tokenAnd:
		return "and", precAnd, true
	case tokenOr:
		return "or", precOr, true
	}
	return "", 0, false
}

func quoteLua(s string) string {
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
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
