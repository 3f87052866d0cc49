package sqlexpr

// Equal reports structural equality of two expression trees. It is used to
// collapse duplicate predicate clauses and to assert on trees in tests
// without comparing rendered SQL strings.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch ae := a.(type) {
	case *Literal:
		be, ok := b.(*Literal)
		return ok && ae.Type == be.Type && ae.Value == be.Value
	case *ColumnRef:
		be, ok := b.(*ColumnRef)
		return ok && ae.Table == be.Table && ae.Column == be.Column
	case *BinaryExpr:
		be, ok := b.(*BinaryExpr)
		return ok && ae.Op == be.Op && Equal(ae.Left, be.Left) && Equal(ae.Right, be.Right)
	case *NotExpr:
		be, ok := b.(*NotExpr)
		return ok && Equal(ae.Expr, be.Expr)
	case *ParenExpr:
		be, ok := b.(*ParenExpr)
		return ok && Equal(ae.Expr, be.Expr)
	case *InExpr:
		be, ok := b.(*InExpr)
		if !ok || !Equal(ae.Expr, be.Expr) || len(ae.List) != len(be.List) {
			return false
		}
		for i := range ae.List {
			if !Equal(ae.List[i], be.List[i]) {
				return false
			}
		}
		return true
	case *ExistsExpr:
		be, ok := b.(*ExistsExpr)
		return ok && selectEqual(ae.Select, be.Select)
	case *RawExpr:
		be, ok := b.(*RawExpr)
		return ok && ae.SQL == be.SQL
	}
	return false
}

func selectEqual(a, b *SelectExpr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Table != b.Table || a.Alias != b.Alias || len(a.Columns) != len(b.Columns) {
		return false
	}
	for i := range a.Columns {
		if a.Columns[i] != b.Columns[i] {
			return false
		}
	}
	return Equal(a.Where, b.Where)
}
