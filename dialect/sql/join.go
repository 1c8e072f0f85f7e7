package sql

import (
	"strings"

	"github.com/syssam/sqlcraft"
)

// JoinOptions are the optional clauses of a two-table join query. They
// mirror SelectOptions minus grouping.
type JoinOptions struct {
	Where      Conds
	Predicates []Predicate
	OrderBy    string
	Order      string
	Limit      *int
	Offset     *int
}

// joinKind is a SQL join keyword.
type joinKind string

const (
	innerJoin joinKind = "INNER JOIN"
	leftJoin  joinKind = "LEFT JOIN"
	rightJoin joinKind = "RIGHT JOIN"
	crossJoin joinKind = "CROSS JOIN"
)

// join assembles SELECT ... FROM left <kind> right [ON on] with the usual
// optional clauses.
//
// The ON predicate is caller-trusted literal text: SQL requires a boolean
// expression there, typically over columns of both tables, so it is neither
// sanitized nor parameterized. Only pass structural predicate text, never
// raw user values.
func (b *Builder) join(kind joinKind, left, right, on string, columns []string, opts JoinOptions) (Fragment, error) {
	lt, err := b.Ident(left)
	if err != nil {
		return Fragment{}, err
	}
	rt, err := b.Ident(right)
	if err != nil {
		return Fragment{}, err
	}
	cols := "*"
	if len(columns) > 0 {
		if cols, err = b.idents(columns); err != nil {
			return Fragment{}, err
		}
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(lt)
	sb.WriteString(" ")
	sb.WriteString(string(kind))
	sb.WriteString(" ")
	sb.WriteString(rt)
	if kind != crossJoin && on != "" {
		sb.WriteString(" ON ")
		sb.WriteString(on)
	}
	var args []any
	where, err := b.whereClause(opts.Where, opts.Predicates)
	if err != nil {
		return Fragment{}, err
	}
	if where.expr != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where.expr)
		args = append(args, where.args...)
	}
	if opts.OrderBy != "" {
		col, err := b.Ident(opts.OrderBy)
		if err != nil {
			return Fragment{}, err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(col)
		if dir, ok := orderDirection(opts.Order); ok {
			sb.WriteString(" ")
			sb.WriteString(dir)
		}
	}
	writeLimitOffset(&sb, opts.Limit, opts.Offset)
	return NewFragment(sb.String(), args...), nil
}

// InnerJoin builds an INNER JOIN query between two tables.
func (b *Builder) InnerJoin(left, right, on string, columns []string, opts JoinOptions) (Fragment, error) {
	return b.join(innerJoin, left, right, on, columns, opts)
}

// LeftJoin builds a LEFT JOIN query between two tables.
func (b *Builder) LeftJoin(left, right, on string, columns []string, opts JoinOptions) (Fragment, error) {
	return b.join(leftJoin, left, right, on, columns, opts)
}

// RightJoin builds a RIGHT JOIN query between two tables. The embedded
// engine has no native RIGHT JOIN, so it is an UnsupportedError under the
// SQLite dialect.
func (b *Builder) RightJoin(left, right, on string, columns []string, opts JoinOptions) (Fragment, error) {
	if b.embedded() {
		return Fragment{}, sqlcraft.NewUnsupportedError("RIGHT JOIN", b.name)
	}
	return b.join(rightJoin, left, right, on, columns, opts)
}

// CrossJoin builds a CROSS JOIN query between two tables. No ON predicate
// applies.
func (b *Builder) CrossJoin(left, right string, columns []string, opts JoinOptions) (Fragment, error) {
	return b.join(crossJoin, left, right, "", columns, opts)
}
