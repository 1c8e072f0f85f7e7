// Package dialect provides database dialect abstraction for sqlcraft.
//
// This package defines the interfaces and constants used for
// database-specific SQL generation and execution, distinguishing the
// embedded-file engine (SQLite) from the generic client/server engine
// (MySQL).
//
// # Dialect Constants
//
// Each dialect is identified by a constant string:
//
//	dialect.SQLite = "sqlite"
//	dialect.MySQL  = "mysql"
//
// The constant doubles as the database/sql driver name the dialect is
// executed with.
//
// # Driver Interface
//
// The package defines the Driver interface for database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Usage
//
// Opening a database connection:
//
//	import (
//	    "github.com/syssam/sqlcraft/dialect"
//	    "github.com/syssam/sqlcraft/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Sub-packages
//
//   - dialect/sql: statement builders and the database/sql driver wrapper
package dialect
