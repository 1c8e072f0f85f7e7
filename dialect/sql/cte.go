package sql

import "strings"

// CTE is a named subquery introduced by a WITH clause.
type CTE struct {
	Name  string
	Query Fragment
}

// with renders the WITH prefix shared by With and WithRecursive. Parameters
// are spliced in left-to-right textual order: each CTE's parameters in list
// order, then the main fragment's.
func (b *Builder) with(keyword string, ctes []CTE, main Fragment) (Fragment, error) {
	if len(ctes) == 0 {
		return Fragment{}, argErr("%s requires at least one common table expression", strings.ToLower(keyword))
	}
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(keyword)
	sb.WriteString(" ")
	for i, cte := range ctes {
		name, err := b.Ident(cte.Name)
		if err != nil {
			return Fragment{}, err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(" AS (")
		sb.WriteString(cte.Query.sql)
		sb.WriteString(")")
		args = append(args, cte.Query.args...)
	}
	sb.WriteString(" ")
	sb.WriteString(main.sql)
	args = append(args, main.args...)
	return NewFragment(sb.String(), args...), nil
}

// With nests the named fragments ahead of the main statement:
//
//	WITH name1 AS (...), name2 AS (...) <main>
func (b *Builder) With(ctes []CTE, main Fragment) (Fragment, error) {
	return b.with("WITH", ctes, main)
}

// WithRecursive is With prefixed by WITH RECURSIVE.
func (b *Builder) WithRecursive(ctes []CTE, main Fragment) (Fragment, error) {
	return b.with("WITH RECURSIVE", ctes, main)
}

// Exists wraps the inner fragment's text in EXISTS (...). The inner
// fragment's parameters are intentionally dropped: the predicate is meant
// for correlated subqueries whose text references outer columns, and the
// caller routes any parameters separately. Use InSubquery or ScalarSubquery
// when parameters must be preserved.
func Exists(inner Fragment) Predicate {
	return NewPredicate("EXISTS (" + inner.sql + ")")
}

// NotExists is the negated form of Exists. Parameters are dropped the same
// way.
func NotExists(inner Fragment) Predicate {
	return NewPredicate("NOT EXISTS (" + inner.sql + ")")
}

// InSubquery builds `column` IN (<inner>), preserving the inner fragment's
// parameters ahead of any outer parameters in positional order.
func (b *Builder) InSubquery(column string, inner Fragment) (Predicate, error) {
	col, err := b.Ident(column)
	if err != nil {
		return Predicate{}, err
	}
	return NewPredicate(col+" IN ("+inner.sql+")", inner.args...), nil
}

// NotInSubquery builds `column` NOT IN (<inner>), preserving parameters
// like InSubquery.
func (b *Builder) NotInSubquery(column string, inner Fragment) (Predicate, error) {
	col, err := b.Ident(column)
	if err != nil {
		return Predicate{}, err
	}
	return NewPredicate(col+" NOT IN ("+inner.sql+")", inner.args...), nil
}

// ScalarSubquery wraps a fragment in parentheses for use as a scalar value,
// preserving its parameters unchanged.
func ScalarSubquery(inner Fragment) Fragment {
	return NewFragment("("+inner.sql+")", inner.args...)
}
