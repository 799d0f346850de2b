package behavior

// The AST is deliberately tiny: declarations, assignments, conditionals, and
// expression statements over numbers, booleans, strings, points, and calls on
// the two ambient identifiers. There is no loop construct and no way to name a
// function, so the only repetition available to behavior code is the engine
// calling it once per tick.

type stmt interface {
	stmtNode()
}

type letStmt struct {
	name string
	init expr
	line int
}

type assignStmt struct {
	name  string
	value expr
	line  int
}

type ifStmt struct {
	cond expr
	then []stmt
	alt  []stmt // nil when there is no else branch
	line int
}

type exprStmt struct {
	value expr
	line  int
}

func (*letStmt) stmtNode()    {}
func (*assignStmt) stmtNode() {}
func (*ifStmt) stmtNode()     {}
func (*exprStmt) stmtNode()   {}

type expr interface {
	exprNode()
	location() int
}

type numberLit struct {
	value float64
	line  int
}

type boolLit struct {
	value bool
	line  int
}

type stringLit struct {
	value string
	line  int
}

type identExpr struct {
	name string
	line int
}

type memberExpr struct {
	object expr
	field  string
	line   int
}

type callExpr struct {
	callee expr
	args   []expr
	line   int
}

type unaryExpr struct {
	op      tokenKind
	operand expr
	line    int
}

type binaryExpr struct {
	op    tokenKind
	left  expr
	right expr
	line  int
}

func (*numberLit) exprNode()  {}
func (*boolLit) exprNode()    {}
func (*stringLit) exprNode()  {}
func (*identExpr) exprNode()  {}
func (*memberExpr) exprNode() {}
func (*callExpr) exprNode()   {}
func (*unaryExpr) exprNode()  {}
func (*binaryExpr) exprNode() {}

func (e *numberLit) location() int  { return e.line }
func (e *boolLit) location() int    { return e.line }
func (e *stringLit) location() int  { return e.line }
func (e *identExpr) location() int  { return e.line }
func (e *memberExpr) location() int { return e.line }
func (e *callExpr) location() int   { return e.line }
func (e *unaryExpr) location() int  { return e.line }
func (e *binaryExpr) location() int { return e.line }
