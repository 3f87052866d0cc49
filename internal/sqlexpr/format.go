package sqlexpr

import "strings"

// Format renders the expression to SQL text. The output is deterministic for
// a given tree; a nil expression renders as empty string.
func Format(e Expr) string {
	f := &formatter{}
	f.formatExpr(e)
	return f.sb.String()
}

type formatter struct {
	sb strings.Builder
}

func (f *formatter) write(s string) {
	f.sb.WriteString(s)
}

// formatExpr dispatches expression formatting by type.
func (f *formatter) formatExpr(e Expr) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *Literal:
		f.formatLiteral(expr)
	case *ColumnRef:
		f.formatColumnRef(expr)
	case *BinaryExpr:
		f.formatExpr(expr.Left)
		f.write(" ")
		f.write(string(expr.Op))
		f.write(" ")
		f.formatExpr(expr.Right)
	case *NotExpr:
		f.write("NOT ")
		f.formatExpr(expr.Expr)
	case *ParenExpr:
		f.write("(")
		f.formatExpr(expr.Expr)
		f.write(")")
	case *InExpr:
		f.formatInExpr(expr)
	case *ExistsExpr:
		f.formatExistsExpr(expr)
	case *RawExpr:
		f.write(expr.SQL)
	}
}

func (f *formatter) formatLiteral(lit *Literal) {
	switch lit.Type {
	case LiteralString:
		f.write("'")
		// Escape single quotes within the string value
		f.write(strings.ReplaceAll(lit.Value, "'", "''"))
		f.write("'")
	case LiteralNull:
		f.write("NULL")
	default:
		// Number
		f.write(lit.Value)
	}
}

func (f *formatter) formatColumnRef(c *ColumnRef) {
	if c.Table != "" {
		f.write(c.Table)
		f.write(".")
	}
	f.write(c.Column)
}

func (f *formatter) formatInExpr(in *InExpr) {
	f.formatExpr(in.Expr)
	f.write(" IN (")
	for i, item := range in.List {
		if i > 0 {
			f.write(",")
		}
		f.formatExpr(item)
	}
	f.write(")")
}

func (f *formatter) formatExistsExpr(ex *ExistsExpr) {
	f.write("EXISTS (SELECT ")
	f.write(strings.Join(ex.Select.Columns, ", "))
	f.write(" FROM ")
	f.write(ex.Select.Table)
	if ex.Select.Alias != "" {
		f.write(" ")
		f.write(ex.Select.Alias)
	}
	if ex.Select.Where != nil {
		f.write(" WHERE ")
		f.formatExpr(ex.Select.Where)
	}
	f.write(")")
}
