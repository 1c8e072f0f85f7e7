package sql

import "strings"

// Cond is a single entry of a where condition set: a column compared for
// equality against a scalar, or for membership against a list of scalars.
type Cond struct {
	Column string
	Value  any
}

// Conds is an ordered where condition set. Slice order determines clause
// order in the generated SQL, keeping output deterministic.
type Conds []Cond

// Eq returns an equality condition: `column` = ?.
func Eq(column string, v any) Cond {
	return Cond{Column: column, Value: v}
}

// In returns a membership condition: `column` IN (?, ?, ...), one
// placeholder per value.
func In(column string, vs ...any) Cond {
	return Cond{Column: column, Value: vs}
}

// BuildWhere composes a condition set into a single predicate. List-valued
// entries emit `col IN (?, ...)` with one placeholder per element; scalar
// entries emit `col = ?`. Pieces are joined with " AND " in slice order, and
// the parameter list mirrors the placeholders left to right.
func (b *Builder) BuildWhere(conds Conds) (Predicate, error) {
	var (
		parts []string
		args  []any
	)
	for _, c := range conds {
		col, err := b.Ident(c.Column)
		if err != nil {
			return Predicate{}, err
		}
		switch v := c.Value.(type) {
		case []any:
			if len(v) == 0 {
				return Predicate{}, argErr("empty IN list for column %q", c.Column)
			}
			parts = append(parts, col+" IN ("+placeholders(len(v))+")")
			args = append(args, v...)
		default:
			parts = append(parts, col+" = ?")
			args = append(args, v)
		}
	}
	return NewPredicate(strings.Join(parts, " AND "), args...), nil
}

// placeholders returns n comma-separated `?` markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// And joins predicates with " AND ", concatenating their parameters in
// order. Empty predicates are skipped.
func And(ps ...Predicate) Predicate {
	var (
		parts []string
		args  []any
	)
	for _, p := range ps {
		if p.expr == "" {
			continue
		}
		parts = append(parts, p.expr)
		args = append(args, p.args...)
	}
	return NewPredicate(strings.Join(parts, " AND "), args...)
}

// Or joins predicates with " OR ", wrapping the result in parentheses.
func Or(ps ...Predicate) Predicate {
	var (
		parts []string
		args  []any
	)
	for _, p := range ps {
		if p.expr == "" {
			continue
		}
		parts = append(parts, p.expr)
		args = append(args, p.args...)
	}
	if len(parts) < 2 {
		return NewPredicate(strings.Join(parts, ""), args...)
	}
	return NewPredicate("("+strings.Join(parts, " OR ")+")", args...)
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	if p.expr == "" {
		return p
	}
	return NewPredicate("NOT ("+p.expr+")", p.args...)
}

// compare builds a single-placeholder predicate `col <op> ?`.
func (b *Builder) compare(column, op string, v any) (Predicate, error) {
	col, err := b.Ident(column)
	if err != nil {
		return Predicate{}, err
	}
	return NewPredicate(col+" "+op+" ?", v), nil
}

// EQ returns the predicate `column` = ?.
func (b *Builder) EQ(column string, v any) (Predicate, error) {
	return b.compare(column, "=", v)
}

// NEQ returns the predicate `column` <> ?.
func (b *Builder) NEQ(column string, v any) (Predicate, error) {
	return b.compare(column, "<>", v)
}

// GT returns the predicate `column` > ?.
func (b *Builder) GT(column string, v any) (Predicate, error) {
	return b.compare(column, ">", v)
}

// GTE returns the predicate `column` >= ?.
func (b *Builder) GTE(column string, v any) (Predicate, error) {
	return b.compare(column, ">=", v)
}

// LT returns the predicate `column` < ?.
func (b *Builder) LT(column string, v any) (Predicate, error) {
	return b.compare(column, "<", v)
}

// LTE returns the predicate `column` <= ?.
func (b *Builder) LTE(column string, v any) (Predicate, error) {
	return b.compare(column, "<=", v)
}

// Like returns the predicate `column` LIKE ?. The pattern travels as a
// bound parameter, never as statement text.
func (b *Builder) Like(column, pattern string) (Predicate, error) {
	return b.compare(column, "LIKE", pattern)
}

// NotLike returns the predicate `column` NOT LIKE ?.
func (b *Builder) NotLike(column, pattern string) (Predicate, error) {
	return b.compare(column, "NOT LIKE", pattern)
}

// Glob returns the predicate `column` GLOB ?.
func (b *Builder) Glob(column, pattern string) (Predicate, error) {
	return b.compare(column, "GLOB", pattern)
}

// Regexp returns the predicate `column` REGEXP ?.
func (b *Builder) Regexp(column, pattern string) (Predicate, error) {
	return b.compare(column, "REGEXP", pattern)
}

// Between returns the predicate `column` BETWEEN ? AND ?, binding exactly
// two parameters in the order (low, high).
func (b *Builder) Between(column string, low, high any) (Predicate, error) {
	col, err := b.Ident(column)
	if err != nil {
		return Predicate{}, err
	}
	return NewPredicate(col+" BETWEEN ? AND ?", low, high), nil
}

// StartsWith returns a LIKE predicate matching values with the given prefix.
func (b *Builder) StartsWith(column, prefix string) (Predicate, error) {
	return b.Like(column, prefix+"%")
}

// EndsWith returns a LIKE predicate matching values with the given suffix.
func (b *Builder) EndsWith(column, suffix string) (Predicate, error) {
	return b.Like(column, "%"+suffix)
}

// Contains returns a LIKE predicate matching values containing the given
// substring.
func (b *Builder) Contains(column, sub string) (Predicate, error) {
	return b.Like(column, "%"+sub+"%")
}

// IsNull returns the predicate `column` IS NULL.
func (b *Builder) IsNull(column string) (Predicate, error) {
	col, err := b.Ident(column)
	if err != nil {
		return Predicate{}, err
	}
	return NewPredicate(col + " IS NULL"), nil
}

// NotNull returns the predicate `column` IS NOT NULL.
func (b *Builder) NotNull(column string) (Predicate, error) {
	col, err := b.Ident(column)
	if err != nil {
		return Predicate{}, err
	}
	return NewPredicate(col + " IS NOT NULL"), nil
}
