package sql

import (
	"strconv"
	"strings"
)

// SelectOptions are the optional clauses of a SELECT statement. The zero
// value selects everything.
type SelectOptions struct {
	// Where is the ordered condition set composed into the WHERE clause.
	Where Conds
	// Predicates are additional conditions ANDed after Where, in order.
	Predicates []Predicate
	// OrderBy names the column to order by. Sanitized like any identifier.
	OrderBy string
	// Order is the sort direction. Anything other than ASC or DESC
	// (case-insensitive) is silently dropped and the engine default applies.
	Order string
	// GroupBy names the columns of the GROUP BY clause.
	GroupBy []string
	// Having is the HAVING condition, applied only with GroupBy.
	Having Predicate
	// Limit caps the row count when set to a non-negative value.
	Limit *int
	// Offset skips rows. Emitted only together with a valid Limit.
	Offset *int
	// Distinct adds the DISTINCT keyword.
	Distinct bool
}

// Select builds a SELECT statement over the given table. A nil or empty
// column list selects `*`.
func (b *Builder) Select(table string, columns []string, opts SelectOptions) (Fragment, error) {
	tbl, err := b.Ident(table)
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
	if opts.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(tbl)

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
	if len(opts.GroupBy) > 0 {
		group, err := b.idents(opts.GroupBy)
		if err != nil {
			return Fragment{}, err
		}
		sb.WriteString(" GROUP BY ")
		sb.WriteString(group)
		if opts.Having.expr != "" {
			sb.WriteString(" HAVING ")
			sb.WriteString(opts.Having.expr)
			args = append(args, opts.Having.args...)
		}
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

// whereClause merges a condition set and extra predicates into one
// predicate, conditions first.
func (b *Builder) whereClause(conds Conds, preds []Predicate) (Predicate, error) {
	where, err := b.BuildWhere(conds)
	if err != nil {
		return Predicate{}, err
	}
	if len(preds) == 0 {
		return where, nil
	}
	merged := make([]Predicate, 0, len(preds)+1)
	merged = append(merged, where)
	merged = append(merged, preds...)
	return And(merged...), nil
}

// orderDirection validates a sort direction against the fixed two-value
// set. Invalid directions are dropped, not rejected.
func orderDirection(dir string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "ASC":
		return "ASC", true
	case "DESC":
		return "DESC", true
	default:
		return "", false
	}
}

// writeLimitOffset appends LIMIT and OFFSET clauses. Unset or negative
// values are ignored, and OFFSET is only meaningful alongside LIMIT.
func writeLimitOffset(sb *strings.Builder, limit, offset *int) {
	if limit == nil || *limit < 0 {
		return
	}
	sb.WriteString(" LIMIT ")
	sb.WriteString(strconv.Itoa(*limit))
	if offset != nil && *offset >= 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(*offset))
	}
}

// Assignment pairs a column with the value assigned to it.
type Assignment struct {
	Column string
	Value  any
}

// Assignments is an ordered list of column assignments. Slice order
// determines column order in the generated SQL.
type Assignments []Assignment

// Set returns an Assignment of v to the given column.
func Set(column string, v any) Assignment {
	return Assignment{Column: column, Value: v}
}

// Insert builds an INSERT statement. Columns, placeholders, and parameters
// all follow the assignment order exactly. An empty assignment list is an
// ArgumentError.
func (b *Builder) Insert(table string, data Assignments) (Fragment, error) {
	if len(data) == 0 {
		return Fragment{}, argErr("insert into %q requires at least one column", table)
	}
	tbl, err := b.Ident(table)
	if err != nil {
		return Fragment{}, err
	}
	cols := make([]string, len(data))
	args := make([]any, len(data))
	for i, a := range data {
		if cols[i], err = b.Ident(a.Column); err != nil {
			return Fragment{}, err
		}
		args[i] = a.Value
	}
	sql := "INSERT INTO " + tbl + " (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(data)) + ")"
	return NewFragment(sql, args...), nil
}

// Update builds an UPDATE statement. Both the assignment list and the where
// condition set must be non-empty; requiring a WHERE clause prevents
// whole-table mutation by omission.
func (b *Builder) Update(table string, data Assignments, where Conds) (Fragment, error) {
	if len(data) == 0 {
		return Fragment{}, argErr("update of %q requires at least one assignment", table)
	}
	if len(where) == 0 {
		return Fragment{}, argErr("update of %q requires a non-empty where condition set", table)
	}
	tbl, err := b.Ident(table)
	if err != nil {
		return Fragment{}, err
	}
	sets := make([]string, len(data))
	args := make([]any, 0, len(data)+len(where))
	for i, a := range data {
		col, err := b.Ident(a.Column)
		if err != nil {
			return Fragment{}, err
		}
		sets[i] = col + " = ?"
		args = append(args, a.Value)
	}
	pred, err := b.BuildWhere(where)
	if err != nil {
		return Fragment{}, err
	}
	args = append(args, pred.args...)
	sql := "UPDATE " + tbl + " SET " + strings.Join(sets, ", ") + " WHERE " + pred.expr
	return NewFragment(sql, args...), nil
}

// Delete builds a DELETE statement. The where condition set must be
// non-empty, for the same reason as Update.
func (b *Builder) Delete(table string, where Conds) (Fragment, error) {
	if len(where) == 0 {
		return Fragment{}, argErr("delete from %q requires a non-empty where condition set", table)
	}
	tbl, err := b.Ident(table)
	if err != nil {
		return Fragment{}, err
	}
	pred, err := b.BuildWhere(where)
	if err != nil {
		return Fragment{}, err
	}
	sql := "DELETE FROM " + tbl + " WHERE " + pred.expr
	return NewFragment(sql, pred.args...), nil
}
