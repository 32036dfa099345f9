package oxlua

// Node is implemented by every AST node and reports the node's source span.
type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Program is one compilation unit: its function declarations in source
// order. Declaration order determines emission order.
type Program struct {
	Functions []*FunctionDecl
}

func (p *Program) Pos() Position {
	if len(p.Functions) == 0 {
		return Position{}
	}
	return p.Functions[0].Pos()
}

// TypeAnnotation names one of the source language's primitive types. Nil
// annotations mean "infer from the initializer's literal shape".
type TypeAnnotation struct {
	Name     string
	position Position
}

func (t *TypeAnnotation) Pos() Position { return t.position }

type Param struct {
	Name string
	Type *TypeAnnotation
}

type FunctionDecl struct {
	Name     string
	Params   []Param
	ReturnTy *TypeAnnotation
	Body     *BlockExpr
	position Position
}

func (d *FunctionDecl) Pos() Position { return d.position }

type LetStmt struct {
	Name     string
	Mutable  bool
	Type     *TypeAnnotation
	Value    Expression
	position Position
}

func (s *LetStmt) stmtNode()     {}
func (s *LetStmt) Pos() Position { return s.position }

type AssignStmt struct {
	Name     string
	Value    Expression
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type ForStmt struct {
	Iterator string
	Range    *RangeExpr
	Body     *BlockExpr
	position Position
}

func (s *ForStmt) stmtNode()     {}
func (s *ForStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition Expression
	Body      *BlockExpr
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

type LoopStmt struct {
	Body     *BlockExpr
	position Position
}

func (s *LoopStmt) stmtNode()     {}
func (s *LoopStmt) Pos() Position { return s.position }

type BreakStmt struct {
	position Position
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.position }

type ReturnStmt struct {
	Value    Expression // nil for a bare return
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

type Identifier struct {
	Name     string
	position Position
}

func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() Position { return e.position }

type IntegerLiteral struct {
	Value    int64
	position Position
}

func (e *IntegerLiteral) exprNode()     {}
func (e *IntegerLiteral) Pos() Position { return e.position }

type FloatLiteral struct {
	Value    float64
	Literal  string
	position Position
}

func (e *FloatLiteral) exprNode()     {}
func (e *FloatLiteral) Pos() Position { return e.position }

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) exprNode()     {}
func (e *StringLiteral) Pos() Position { return e.position }

type BoolLiteral struct {
	Value    bool
	position Position
}

func (e *BoolLiteral) exprNode()     {}
func (e *BoolLiteral) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator TokenType
	Right    Expression
	position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

type CallExpr struct {
	Callee   string
	Args     []Expression
	position Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

type RangeExpr struct {
	Start    Expression
	End      Expression
	position Position
}

func (e *RangeExpr) exprNode()     {}
func (e *RangeExpr) Pos() Position { return e.position }

// BlockExpr is an ordered statement sequence with an optional trailing tail
// expression that becomes the block's value. ValueUsed records whether the
// block's value is consumed; the generator hoists no temporary when it is
// false.
type BlockExpr struct {
	Statements []Statement
	Tail       Expression
	ValueUsed  bool
	position   Position
}

func (e *BlockExpr) exprNode()     {}
func (e *BlockExpr) Pos() Position { return e.position }

type IfExpr struct {
	Condition Expression
	Then      *BlockExpr
	Else      Expression // *BlockExpr, *IfExpr (else-if chain), or nil
	ValueUsed bool
	position  Position
}

func (e *IfExpr) exprNode()     {}
func (e *IfExpr) Pos() Position { return e.position }

// MatchArm is one pattern-plus-body clause. Exactly one of the pattern
// fields describes it: a literal expression, a binding identifier, or the
// catch-all wildcard.
type MatchArm struct {
	Literal  Expression // IntegerLiteral, FloatLiteral, StringLiteral, or BoolLiteral
	Binding  string     // identifier pattern; binds the scrutinee
	Wildcard bool
	Body     Expression
	position Position
}

func (a *MatchArm) Pos() Position { return a.position }

type MatchExpr struct {
	Scrutinee Expression
	Arms      []*MatchArm
	ValueUsed bool
	position  Position
}

func (e *MatchExpr) exprNode()     {}
func (e *MatchExpr) Pos() Position { return e.position }
