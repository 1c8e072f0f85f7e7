package dialect

import "context"

// Supported dialects. The value is both the dialect name used by the
// builders and the database/sql driver name used for execution.
const (
	// SQLite is the embedded-file engine dialect.
	SQLite = "sqlite"
	// MySQL is the generic client/server engine dialect.
	MySQL = "mysql"
)

// ExecQuerier wraps the two standard database operations.
//
// The args parameter carries the positional statement parameters as []any.
// The v parameter receives the operation result: *sql.Rows for Query,
// sql.Result for Exec, or nil when the result is not needed.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all database operations.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps transaction-scoped database operations with commit and
// rollback capabilities.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}
