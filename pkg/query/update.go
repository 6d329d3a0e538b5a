package query

import (
	"fmt"
	"strings"
)

type assignment struct {
	column string
	expr   string
	value  any
	raw    bool
}

// UpdateBuilder renders an UPDATE statement from an explicit list of column
// assignments. Columns are named by the caller in code; values are always
// bound as parameters.
type UpdateBuilder struct {
	table       string
	assignments []assignment
}

// NewUpdate creates an UpdateBuilder for the given table name.
func NewUpdate(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set assigns a bound parameter value to column.
func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	u.assignments = append(u.assignments, assignment{column: column, value: value})
	return u
}

// SetExpr assigns a literal SQL expression, such as NOW(), to column.
func (u *UpdateBuilder) SetExpr(column, expr string) *UpdateBuilder {
	u.assignments = append(u.assignments, assignment{column: column, expr: expr, raw: true})
	return u
}

// Len returns the number of assignments, including expressions.
func (u *UpdateBuilder) Len() int {
	return len(u.assignments)
}

// Build returns "UPDATE table SET ... WHERE keyColumn = $n RETURNING returning".
// returning may be empty to omit the clause.
func (u *UpdateBuilder) Build(keyColumn string, key any, returning string) (string, []any) {
	sets := make([]string, 0, len(u.assignments))
	args := make([]any, 0, len(u.assignments)+1)

	for _, a := range u.assignments {
		if a.raw {
			sets = append(sets, fmt.Sprintf("%s = %s", a.column, a.expr))
			continue
		}
		args = append(args, a.value)
		sets = append(sets, fmt.Sprintf("%s = $%d", a.column, len(args)))
	}

	args = append(args, key)

	var sb strings.Builder
	fmt.Fprintf(&sb, "UPDATE %s SET %s WHERE %s = $%d", u.table, strings.Join(sets, ", "), keyColumn, len(args))
	if returning != "" {
		sb.WriteString(" RETURNING ")
		sb.WriteString(returning)
	}

	return sb.String(), args
}
