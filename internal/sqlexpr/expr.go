// Package sqlexpr provides a typed SQL boolean expression tree for building
// bulk visibility predicates. Predicates are composed as AST nodes, compared
// structurally, and rendered to SQL text once, at the query boundary.
package sqlexpr

import "strconv"

// Node is the common interface for all AST nodes.
type Node interface {
	node()
}

// Expr is a SQL expression node.
type Expr interface {
	Node
	exprNode()
}

// BinaryOp is a binary operator token.
type BinaryOp string

// Binary operators.
const (
	OpEq  BinaryOp = "="
	OpNe  BinaryOp = "<>"
	OpLt  BinaryOp = "<"
	OpLe  BinaryOp = "<="
	OpGt  BinaryOp = ">"
	OpGe  BinaryOp = ">="
	OpAnd BinaryOp = "AND"
	OpOr  BinaryOp = "OR"
)

// ColumnRef represents a column reference, optionally qualified.
type ColumnRef struct {
	Table  string // optional table/alias qualifier
	Column string
}

func (*ColumnRef) node()     {}
func (*ColumnRef) exprNode() {}

// LiteralType represents the type of a literal.
type LiteralType int

// Literal types.
const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralNull
)

// Literal represents a literal value.
type Literal struct {
	Type  LiteralType
	Value string
}

func (*Literal) node()     {}
func (*Literal) exprNode() {}

// BinaryExpr represents left op right.
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (*BinaryExpr) node()     {}
func (*BinaryExpr) exprNode() {}

// NotExpr represents NOT expr.
type NotExpr struct {
	Expr Expr
}

func (*NotExpr) node()     {}
func (*NotExpr) exprNode() {}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) node()     {}
func (*ParenExpr) exprNode() {}

// InExpr represents expr IN (list).
type InExpr struct {
	Expr Expr
	List []Expr
}

func (*InExpr) node()     {}
func (*InExpr) exprNode() {}

// SelectExpr is the minimal SELECT shape an existential subquery needs.
type SelectExpr struct {
	Columns []string // raw column expressions, e.g. "1"
	Table   string
	Alias   string
	Where   Expr
}

func (*SelectExpr) node() {}

// ExistsExpr represents EXISTS (subquery).
type ExistsExpr struct {
	Select *SelectExpr
}

func (*ExistsExpr) node()     {}
func (*ExistsExpr) exprNode() {}

// RawExpr is an opaque SQL fragment supplied by a collaborator. It is treated
// as already-parenthesized where grouping matters.
type RawExpr struct {
	SQL string
}

func (*RawExpr) node()     {}
func (*RawExpr) exprNode() {}

// Col builds an unqualified column reference.
func Col(column string) *ColumnRef {
	return &ColumnRef{Column: column}
}

// TableCol builds a table-qualified column reference.
func TableCol(table, column string) *ColumnRef {
	return &ColumnRef{Table: table, Column: column}
}

// Number builds a numeric literal.
func Number(v int64) *Literal {
	return &Literal{Type: LiteralNumber, Value: strconv.FormatInt(v, 10)}
}

// Str builds a string literal.
func Str(v string) *Literal {
	return &Literal{Type: LiteralString, Value: v}
}

// Eq builds left = right.
func Eq(left, right Expr) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: OpEq, Right: right}
}

// In builds expr IN (values).
func In(expr Expr, values []int64) *InExpr {
	list := make([]Expr, len(values))
	for i, v := range values {
		list[i] = Number(v)
	}
	return &InExpr{Expr: expr, List: list}
}

// And folds the expressions into a left-associative AND chain. Nil operands
// are skipped; a single survivor is returned as-is.
func And(exprs ...Expr) Expr {
	return fold(OpAnd, exprs)
}

// Or folds the expressions into a left-associative OR chain. Nil operands are
// skipped; a single survivor is returned as-is.
func Or(exprs ...Expr) Expr {
	return fold(OpOr, exprs)
}

// Paren wraps the expression in parentheses. Nil stays nil.
func Paren(e Expr) Expr {
	if e == nil {
		return nil
	}
	return &ParenExpr{Expr: e}
}

func fold(op BinaryOp, exprs []Expr) Expr {
	var out Expr
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if out == nil {
			out = e
			continue
		}
		out = &BinaryExpr{Left: out, Op: op, Right: e}
	}
	return out
}
