package sandbox

import (
	"fmt"

	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"

	// Engine drivers. The dialect constant doubles as the driver name each
	// of these registers.
	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Open opens a database connection for the given dialect and wraps it in a
// Sandbox. dialect.SQLite uses the embedded pure-Go engine; dialect.MySQL
// dials a server.
func Open(dialectName, source string, opts ...Option) (*Sandbox, error) {
	switch dialectName {
	case dialect.SQLite, dialect.MySQL:
	default:
		return nil, fmt.Errorf("sandbox: unknown dialect %q", dialectName)
	}
	drv, err := sql.Open(dialectName, source)
	if err != nil {
		return nil, fmt.Errorf("sandbox: open %s: %w", dialectName, err)
	}
	return New(drv, opts...), nil
}
