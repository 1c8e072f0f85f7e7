package sandbox_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"
	"github.com/syssam/sqlcraft/sandbox"
)

// newSandbox opens a sandbox over a fresh on-disk database in the test's
// temporary directory.
func newSandbox(t *testing.T, opts ...sandbox.Option) *sandbox.Sandbox {
	t.Helper()
	source := filepath.Join(t.TempDir(), "test.db")
	s, err := sandbox.Open(dialect.SQLite, source, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seedUsers creates and fills the users table used across the tests.
func seedUsers(t *testing.T, s *sandbox.Sandbox) *sql.Builder {
	t.Helper()
	ctx := context.Background()
	b := sql.Dialect(s.Dialect())

	create, err := b.CreateTable("users", []sql.ColumnDef{
		{Name: "id", Def: "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{Name: "name", Def: "TEXT NOT NULL"},
		{Name: "status", Def: "TEXT NOT NULL DEFAULT 'active'"},
	}, false)
	require.NoError(t, err)
	require.True(t, s.Execute(ctx, create).Success())

	for _, row := range []sql.Assignments{
		{sql.Set("name", "Alice"), sql.Set("status", "active")},
		{sql.Set("name", "Bob"), sql.Set("status", "inactive")},
		{sql.Set("name", "Carol"), sql.Set("status", "active")},
	} {
		insert, err := b.Insert("users", row)
		require.NoError(t, err)
		res := s.Execute(ctx, insert)
		require.True(t, res.Success(), res.Err())
		assert.Equal(t, int64(1), res.Affected())
	}
	return b
}

func TestSandboxLifecycle(t *testing.T) {
	s := newSandbox(t)
	b := seedUsers(t, s)
	ctx := context.Background()

	t.Run("Select", func(t *testing.T) {
		frag, err := b.Select("users", []string{"name"}, sql.SelectOptions{
			Where:   sql.Conds{sql.Eq("status", "active")},
			OrderBy: "name",
		})
		require.NoError(t, err)

		res := s.Execute(ctx, frag)
		require.True(t, res.Success(), res.Err())
		require.True(t, res.HasRows())
		assert.Equal(t, 2, res.RowCount())
		assert.Equal(t, "Alice", res.Rows()[0]["name"])
		assert.Equal(t, "Carol", res.Rows()[1]["name"])
	})

	t.Run("SelectEmpty", func(t *testing.T) {
		frag, err := b.Select("users", nil, sql.SelectOptions{
			Where: sql.Conds{sql.Eq("status", "banned")},
		})
		require.NoError(t, err)

		res := s.Execute(ctx, frag)
		require.True(t, res.Success())
		assert.True(t, res.HasRows())
		assert.Equal(t, 0, res.RowCount())
		assert.NotNil(t, res.Rows())
	})

	t.Run("Update", func(t *testing.T) {
		frag, err := b.Update("users",
			sql.Assignments{sql.Set("status", "active")},
			sql.Conds{sql.Eq("name", "Bob")},
		)
		require.NoError(t, err)

		res := s.Execute(ctx, frag)
		require.True(t, res.Success(), res.Err())
		assert.Equal(t, int64(1), res.Affected())
	})

	t.Run("Delete", func(t *testing.T) {
		frag, err := b.Delete("users", sql.Conds{sql.Eq("name", "Carol")})
		require.NoError(t, err)

		res := s.Execute(ctx, frag)
		require.True(t, res.Success(), res.Err())
		assert.Equal(t, int64(1), res.Affected())
	})

	t.Run("ParamBinding", func(t *testing.T) {
		// A hostile value travels as a bound parameter and lands as data.
		evil := "x'); DROP TABLE users; --"
		insert, err := b.Insert("users", sql.Assignments{sql.Set("name", evil)})
		require.NoError(t, err)
		require.True(t, s.Execute(ctx, insert).Success())

		frag, err := b.Select("users", []string{"name"}, sql.SelectOptions{
			Where: sql.Conds{sql.Eq("name", evil)},
		})
		require.NoError(t, err)
		res := s.Execute(ctx, frag)
		require.True(t, res.Success())
		require.Equal(t, 1, res.RowCount())
		assert.Equal(t, evil, res.Rows()[0]["name"])
	})
}

func TestSandboxDenial(t *testing.T) {
	s := newSandbox(t)
	b := seedUsers(t, s)
	ctx := context.Background()

	t.Run("DisallowedVerb", func(t *testing.T) {
		frag := b.Raw("PRAGMA journal_mode")
		res := s.Execute(ctx, frag)
		assert.False(t, res.Success())
		assert.Contains(t, res.Err(), "not allow-listed")
		assert.Equal(t, frag.SQL(), res.SQL())
	})

	t.Run("BannedFragment", func(t *testing.T) {
		res := s.Execute(ctx, b.Raw("DROP DATABASE main"))
		assert.False(t, res.Success())
		assert.Contains(t, res.Err(), "banned fragment")
	})

	t.Run("ValidateTyped", func(t *testing.T) {
		err := s.Validate(b.Raw("VACUUM"))
		require.Error(t, err)
		assert.True(t, sqlcraft.IsPermission(err))
	})

	t.Run("PolicySwap", func(t *testing.T) {
		s.SetPolicy(sandbox.Policy{AllowedVerbs: []string{"SELECT"}})
		defer s.SetPolicy(sandbox.DefaultPolicy())

		frag, err := b.Delete("users", sql.Conds{sql.Eq("name", "Alice")})
		require.NoError(t, err)
		res := s.Execute(ctx, frag)
		assert.False(t, res.Success())

		sel, err := b.Select("users", nil, sql.SelectOptions{})
		require.NoError(t, err)
		assert.True(t, s.Execute(ctx, sel).Success())
	})

	t.Run("DeniedCounted", func(t *testing.T) {
		assert.Greater(t, s.Stats().Denied, int64(0))
	})
}

func TestSandboxFailSoft(t *testing.T) {
	s := newSandbox(t)
	ctx := context.Background()

	// The verb is allowed; the engine rejects the statement. The failure
	// comes back as a Result carrying the offending statement.
	frag := sql.Dialect(s.Dialect()).Raw("SELECT * FROM missing_table")
	res := s.Execute(ctx, frag)
	assert.False(t, res.Success())
	assert.NotEmpty(t, res.Err())
	assert.Equal(t, "SELECT * FROM missing_table", res.SQL())

	snap := s.Stats()
	assert.Equal(t, int64(1), snap.Errors)
}

func TestSandboxIntrospection(t *testing.T) {
	s := newSandbox(t)
	b := seedUsers(t, s)
	ctx := context.Background()

	second, err := b.CreateTable("orders", []sql.ColumnDef{{Name: "id", Def: "INTEGER"}}, false)
	require.NoError(t, err)
	require.True(t, s.Execute(ctx, second).Success())

	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, tables)

	cols, err := s.Columns(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "status"}, cols)
}

func TestSandboxDDL(t *testing.T) {
	s := newSandbox(t)
	b := seedUsers(t, s)
	ctx := context.Background()

	add, err := b.AlterTableAdd("users", sql.ColumnDef{Name: "age", Def: "INTEGER DEFAULT 0"})
	require.NoError(t, err)
	require.True(t, s.Execute(ctx, add).Success())

	cols, err := s.Columns(ctx, "users")
	require.NoError(t, err)
	assert.Contains(t, cols, "age")

	// SQLite has no TRUNCATE; the builder emulates it with DELETE.
	trunc, err := b.Truncate("users")
	require.NoError(t, err)
	res := s.Execute(ctx, trunc)
	require.True(t, res.Success(), res.Err())
	assert.Equal(t, int64(3), res.Affected())

	drop, err := b.DropTable("users", false)
	require.NoError(t, err)
	require.True(t, s.Execute(ctx, drop).Success())

	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.NotContains(t, tables, "users")
}

func TestSandboxCTE(t *testing.T) {
	// WITH is not in the default allow-list; executing composer output
	// takes a policy that adds it.
	def := sandbox.DefaultPolicy()
	s := newSandbox(t, sandbox.WithPolicy(sandbox.Policy{
		AllowedVerbs:    append(def.AllowedVerbs, "WITH"),
		BannedFragments: def.BannedFragments,
	}))
	b := seedUsers(t, s)
	ctx := context.Background()

	inner, err := b.Select("users", []string{"name"}, sql.SelectOptions{
		Where: sql.Conds{sql.Eq("status", "active")},
	})
	require.NoError(t, err)
	frag, err := b.With([]sql.CTE{{Name: "active_users", Query: inner}},
		b.Raw("SELECT name FROM active_users ORDER BY name"))
	require.NoError(t, err)

	res := s.Execute(ctx, frag)
	require.True(t, res.Success(), res.Err())
	require.Equal(t, 2, res.RowCount())
	assert.Equal(t, "Alice", res.Rows()[0]["name"])
	assert.Equal(t, "Carol", res.Rows()[1]["name"])

	// The same fragment is denied under the default policy.
	s.SetPolicy(def)
	denied := s.Execute(ctx, frag)
	assert.False(t, denied.Success())
	assert.Contains(t, denied.Err(), "not allow-listed")
}

func TestSandboxSlowHook(t *testing.T) {
	var slow []string
	s := newSandbox(t,
		sandbox.WithSlowThreshold(time.Nanosecond),
		sandbox.WithSlowHook(func(_ context.Context, statement string, _ []any, _ time.Duration) {
			slow = append(slow, statement)
		}),
	)
	seedUsers(t, s)

	assert.NotEmpty(t, slow)
	assert.Greater(t, s.Stats().SlowStatements, int64(0))
}

func TestSandboxConcurrent(t *testing.T) {
	// Independent sandboxes over independent databases do not interfere.
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		source := filepath.Join(t.TempDir(), "test.db")
		g.Go(func() error {
			s, err := sandbox.Open(dialect.SQLite, source)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := context.Background()
			b := sql.Dialect(s.Dialect())
			create, err := b.CreateTable("items", []sql.ColumnDef{{Name: "n", Def: "INTEGER"}}, false)
			if err != nil {
				return err
			}
			if res := s.Execute(ctx, create); !res.Success() {
				return assert.AnError
			}
			for j := 0; j < 10; j++ {
				insert, err := b.Insert("items", sql.Assignments{sql.Set("n", j)})
				if err != nil {
					return err
				}
				if res := s.Execute(ctx, insert); !res.Success() {
					return assert.AnError
				}
			}
			sel, err := b.Select("items", nil, sql.SelectOptions{})
			if err != nil {
				return err
			}
			res := s.Execute(ctx, sel)
			if !res.Success() || res.RowCount() != 10 {
				return assert.AnError
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestSandboxMockedServer(t *testing.T) {
	// The server-backed dialect is exercised against a mocked connection.
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	s := sandbox.New(sql.OpenDB(dialect.MySQL, db))
	defer s.Close()
	ctx := context.Background()
	b := sql.Dialect(s.Dialect())

	t.Run("Select", func(t *testing.T) {
		mock.ExpectQuery("SELECT `name` FROM `users` WHERE `id` = ?").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice"))

		frag, err := b.Select("users", []string{"name"}, sql.SelectOptions{
			Where: sql.Conds{sql.Eq("id", 1)},
		})
		require.NoError(t, err)

		res := s.Execute(ctx, frag)
		require.True(t, res.Success(), res.Err())
		assert.Equal(t, "Alice", res.Rows()[0]["name"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Update", func(t *testing.T) {
		mock.ExpectExec("UPDATE `users` SET `name` = ? WHERE `id` = ?").
			WithArgs("Bob", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		frag, err := b.Update("users",
			sql.Assignments{sql.Set("name", "Bob")},
			sql.Conds{sql.Eq("id", 1)},
		)
		require.NoError(t, err)

		res := s.Execute(ctx, frag)
		require.True(t, res.Success(), res.Err())
		assert.Equal(t, int64(1), res.Affected())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOpenUnknownDialect(t *testing.T) {
	_, err := sandbox.Open("postgres", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}
