// Package query assembles parameterized SQL fragments from optional filter,
// search, and sort inputs so that repository list methods stay declarative.
package query

import (
	"fmt"
	"strings"
)

// Builder accumulates WHERE conditions with positional arguments. The zero
// value is ready to use; a builder with no conditions renders an empty
// WHERE clause.
type Builder struct {
	conds []string
	args  []any
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Search adds a case-insensitive substring match over one or more columns,
// combined with OR. All columns share a single bound argument.
func (b *Builder) Search(term string, columns ...string) *Builder {
	if term == "" || len(columns) == 0 {
		return b
	}

	b.args = append(b.args, "%"+term+"%")
	idx := len(b.args)

	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, idx)
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
	return b
}

// Eq adds an exact-match condition.
func (b *Builder) Eq(column string, value any) *Builder {
	b.args = append(b.args, value)
	b.conds = append(b.conds, fmt.Sprintf("%s = $%d", column, len(b.args)))
	return b
}

// EqFold adds a case-insensitive exact-match condition.
func (b *Builder) EqFold(column, value string) *Builder {
	b.args = append(b.args, value)
	b.conds = append(b.conds, fmt.Sprintf("LOWER(%s) = LOWER($%d)", column, len(b.args)))
	return b
}

// GTE adds a greater-than-or-equal condition.
func (b *Builder) GTE(column string, value any) *Builder {
	b.args = append(b.args, value)
	b.conds = append(b.conds, fmt.Sprintf("%s >= $%d", column, len(b.args)))
	return b
}

// LTE adds a less-than-or-equal condition.
func (b *Builder) LTE(column string, value any) *Builder {
	b.args = append(b.args, value)
	b.conds = append(b.conds, fmt.Sprintf("%s <= $%d", column, len(b.args)))
	return b
}

// Where renders the accumulated conditions as a WHERE clause, or an empty
// string when no conditions were added.
func (b *Builder) Where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// Args returns the bound arguments in positional order.
func (b *Builder) Args() []any {
	return b.args
}

// NextArg returns the positional index the next bound argument would get.
// Useful for appending LIMIT/OFFSET placeholders after the clause.
func (b *Builder) NextArg() int {
	return len(b.args) + 1
}
