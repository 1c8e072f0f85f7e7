// Package sql provides safe SQL statement construction and database dialect
// abstraction.
//
// The package turns structured, caller-supplied intent (table, columns,
// conditions, options) into an immutable Fragment: a textual SQL statement
// paired with an ordered, positionally-bound parameter list. Untrusted
// identifiers are sanitized before they are embedded as SQL text, and all
// caller values travel through `?` placeholders, never through the text
// itself.
//
// # Dialects
//
// SQL generation adapts to the two supported dialects:
//
//	import "github.com/syssam/sqlcraft/dialect"
//
//	// Embedded-file engine
//	b := sql.Dialect(dialect.SQLite)
//
//	// Generic client/server engine
//	b := sql.Dialect(dialect.MySQL)
//
// A Builder snapshots its dialect at creation; fragments built by it never
// change when another Builder with a different dialect is created.
//
// # Statements
//
// Each statement builder returns a Fragment and an error:
//
//	frag, err := b.Select("users", []string{"id", "name"}, sql.SelectOptions{
//	    Where:   sql.Conds{sql.Eq("status", "active")},
//	    OrderBy: "name",
//	    Limit:   sql.Int(10),
//	})
//	// frag.SQL()  == "SELECT `id`, `name` FROM `users` WHERE `status` = ? ORDER BY `name` LIMIT 10"
//	// frag.Args() == []any{"active"}
//
// # Predicates
//
// Reusable boolean conditions are built as Predicate values whose literal
// operands are always parameter-bound:
//
//	p, _ := b.Like("name", "%john%")   // `name` LIKE ?       args: ["%john%"]
//	p, _ := b.Between("age", 18, 65)   // `age` BETWEEN ? AND ?  args: [18, 65]
//
// # Expression functions
//
// The expression library maps identifiers and literal arguments to SQL text
// fragments. Identifier-position arguments are sanitized; literal-position
// arguments are embedded as quote-escaped text, not bound parameters. Do not
// pass untrusted input as a literal-position argument.
//
// # Execution
//
// Fragments are executed by the sandbox package, which validates the leading
// verb against an allow-list before handing the statement to the engine.
package sql
