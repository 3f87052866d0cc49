package sqlexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{
			name: "column equals number",
			expr: Eq(TableCol("issues", "project_id"), Number(3)),
			want: "issues.project_id = 3",
		},
		{
			name: "string literal is quoted",
			expr: Eq(Col("watchable_type"), Str("Issue")),
			want: "watchable_type = 'Issue'",
		},
		{
			name: "string literal escapes quotes",
			expr: Str("it's"),
			want: "'it''s'",
		},
		{
			name: "in list",
			expr: In(TableCol("issues", "tracker_id"), []int64{9, 12}),
			want: "issues.tracker_id IN (9,12)",
		},
		{
			name: "and chain folds left",
			expr: And(Eq(Col("a"), Number(1)), Eq(Col("b"), Number(2)), Eq(Col("c"), Number(3))),
			want: "a = 1 AND b = 2 AND c = 3",
		},
		{
			name: "or skips nil operands",
			expr: Or(nil, Eq(Col("a"), Number(1)), nil),
			want: "a = 1",
		},
		{
			name: "paren grouping",
			expr: Paren(Or(Eq(Col("a"), Number(1)), Eq(Col("b"), Number(2)))),
			want: "(a = 1 OR b = 2)",
		},
		{
			name: "not",
			expr: &NotExpr{Expr: Paren(Eq(Col("a"), Number(1)))},
			want: "NOT (a = 1)",
		},
		{
			name: "null literal",
			expr: Eq(Col("assigned_to_id"), &Literal{Type: LiteralNull}),
			want: "assigned_to_id = NULL",
		},
		{
			name: "raw passes through",
			expr: &RawExpr{SQL: "1=1"},
			want: "1=1",
		},
		{
			name: "exists subquery",
			expr: &ExistsExpr{Select: &SelectExpr{
				Columns: []string{"1"},
				Table:   "watchers",
				Alias:   "w",
				Where: And(
					Eq(TableCol("w", "watchable_type"), Str("Issue")),
					Eq(TableCol("w", "watchable_id"), TableCol("issues", "id")),
					Eq(TableCol("w", "user_id"), Number(5)),
				),
			}},
			want: "EXISTS (SELECT 1 FROM watchers w WHERE w.watchable_type = 'Issue' AND w.watchable_id = issues.id AND w.user_id = 5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.expr))
		})
	}
}

func TestFormatNil(t *testing.T) {
	assert.Equal(t, "", Format(nil))
}

func TestEqual(t *testing.T) {
	clause := func() Expr {
		return Paren(And(
			Eq(TableCol("issues", "project_id"), Number(7)),
			In(TableCol("issues", "tracker_id"), []int64{9}),
		))
	}

	assert.True(t, Equal(clause(), clause()))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(clause(), nil))
	assert.False(t, Equal(clause(), Eq(TableCol("issues", "project_id"), Number(7))))

	// Same shape, different values.
	other := Paren(And(
		Eq(TableCol("issues", "project_id"), Number(7)),
		In(TableCol("issues", "tracker_id"), []int64{12}),
	))
	assert.False(t, Equal(clause(), other))

	// In-list order matters for structural equality.
	assert.False(t, Equal(
		In(Col("tracker_id"), []int64{9, 12}),
		In(Col("tracker_id"), []int64{12, 9}),
	))
}
