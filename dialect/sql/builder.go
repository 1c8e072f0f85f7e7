package sql

import (
	"encoding/json"
	"fmt"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
)

// Builder constructs SQL fragments for a fixed dialect. A Builder is
// immutable and safe for concurrent use; every fragment it produces is a
// snapshot that never changes when other builders are created.
type Builder struct {
	name string
}

// Dialect returns a Builder that generates SQL for the given dialect.
//
//	b := sql.Dialect(dialect.SQLite)
func Dialect(name string) *Builder {
	return &Builder{name: name}
}

// DialectName returns the dialect the builder generates SQL for.
func (b *Builder) DialectName() string {
	return b.name
}

// embedded reports whether the builder targets the embedded-file engine.
func (b *Builder) embedded() bool {
	return b.name == dialect.SQLite
}

// Fragment is an immutable pairing of a SQL statement with its ordered,
// positionally-bound parameter list. The i-th `?` placeholder in the text
// binds to the i-th parameter.
type Fragment struct {
	sql  string
	args []any
}

// NewFragment returns a Fragment over the given statement text and
// parameters. The parameter slice is copied.
func NewFragment(sql string, args ...any) Fragment {
	f := Fragment{sql: sql}
	if len(args) > 0 {
		f.args = make([]any, len(args))
		copy(f.args, args)
	}
	return f
}

// SQL returns the statement text.
func (f Fragment) SQL() string { return f.sql }

// Args returns a copy of the positional parameters.
func (f Fragment) Args() []any {
	if len(f.args) == 0 {
		return nil
	}
	args := make([]any, len(f.args))
	copy(args, f.args)
	return args
}

// String returns a human-readable representation for logs and errors.
func (f Fragment) String() string {
	if len(f.args) == 0 {
		return f.sql
	}
	return fmt.Sprintf("%s %v", f.sql, f.args)
}

// MarshalJSON encodes the fragment in its wire shape:
//
//	{"sql": "...", "params": [...]}
func (f Fragment) MarshalJSON() ([]byte, error) {
	params := f.args
	if params == nil {
		params = []any{}
	}
	return json.Marshal(struct {
		SQL    string `json:"sql"`
		Params []any  `json:"params"`
	}{SQL: f.sql, Params: params})
}

// Predicate is a reusable boolean expression with its ordered parameters,
// merged into a statement's WHERE clause. Same placeholder invariant as
// Fragment, scoped to a boolean expression.
type Predicate struct {
	expr string
	args []any
}

// NewPredicate returns a Predicate over the given expression and parameters.
// The parameter slice is copied.
func NewPredicate(expr string, args ...any) Predicate {
	p := Predicate{expr: expr}
	if len(args) > 0 {
		p.args = make([]any, len(args))
		copy(p.args, args)
	}
	return p
}

// Expr returns the boolean expression text.
func (p Predicate) Expr() string { return p.expr }

// Args returns a copy of the positional parameters.
func (p Predicate) Args() []any {
	if len(p.args) == 0 {
		return nil
	}
	args := make([]any, len(p.args))
	copy(args, p.args)
	return args
}

// MarshalJSON encodes the predicate in its wire shape:
//
//	{"expression": "...", "params": [...]}
func (p Predicate) MarshalJSON() ([]byte, error) {
	params := p.args
	if params == nil {
		params = []any{}
	}
	return json.Marshal(struct {
		Expression string `json:"expression"`
		Params     []any  `json:"params"`
	}{Expression: p.expr, Params: params})
}

// Raw returns a fragment carrying the statement text verbatim. No
// sanitization is applied; the sandbox still validates the leading verb
// before execution. Intended for advanced callers running hand-written SQL.
func (b *Builder) Raw(sql string, args ...any) Fragment {
	return NewFragment(sql, args...)
}

// Int returns a pointer to v, for use in option structs whose numeric
// fields distinguish "unset" from zero.
func Int(v int) *int { return &v }

// argErr is a shorthand for the package's build-time argument failures.
func argErr(format string, args ...any) error {
	return sqlcraft.NewArgumentError(format, args...)
}
