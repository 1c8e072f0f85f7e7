package sql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlcraft"
	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/dialect/sql"
)

func TestStringFuncs(t *testing.T) {
	b := sql.Dialect(dialect.SQLite)

	tests := []struct {
		name  string
		build func() (string, error)
		want  string
	}{
		{"Upper", func() (string, error) { return b.Upper("name") }, "UPPER(`name`)"},
		{"Lower", func() (string, error) { return b.Lower("name") }, "LOWER(`name`)"},
		{"Length", func() (string, error) { return b.Length("bio") }, "LENGTH(`bio`)"},
		{"Trim", func() (string, error) { return b.Trim("name") }, "TRIM(`name`)"},
		{"LTrim", func() (string, error) { return b.LTrim("name") }, "LTRIM(`name`)"},
		{"RTrim", func() (string, error) { return b.RTrim("name") }, "RTRIM(`name`)"},
		{"Substr", func() (string, error) { return b.Substr("name", 1, 3) }, "SUBSTR(`name`, 1, 3)"},
		{"Replace", func() (string, error) { return b.Replace("name", "a", "b") }, "REPLACE(`name`, 'a', 'b')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// Literal-position arguments are quote-escaped, not interpolated raw.
	t.Run("ReplaceEscapesLiterals", func(t *testing.T) {
		got, err := b.Replace("name", "o'brien", "x")
		require.NoError(t, err)
		assert.Equal(t, "REPLACE(`name`, 'o''brien', 'x')", got)
	})
}

func TestConcat(t *testing.T) {
	t.Run("SQLiteOperator", func(t *testing.T) {
		got, err := sql.Dialect(dialect.SQLite).Concat([]string{"first", "last"})
		require.NoError(t, err)
		assert.Equal(t, "`first` || `last`", got)
	})

	t.Run("MySQLFunction", func(t *testing.T) {
		got, err := sql.Dialect(dialect.MySQL).Concat([]string{"first", "last"})
		require.NoError(t, err)
		assert.Equal(t, "CONCAT(`first`, `last`)", got)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := sql.Dialect(dialect.SQLite).Concat(nil)
		require.Error(t, err)
		assert.True(t, sqlcraft.IsArgument(err))
	})
}

func TestMathFuncs(t *testing.T) {
	b := sql.Dialect(dialect.SQLite)

	got, err := b.Round("price", 2)
	require.NoError(t, err)
	assert.Equal(t, "ROUND(`price`, 2)", got)

	got, err = b.Power("base", 2)
	require.NoError(t, err)
	assert.Equal(t, "POWER(`base`, 2)", got)

	got, err = b.Mod("n", 7)
	require.NoError(t, err)
	assert.Equal(t, "MOD(`n`, 7)", got)

	got, err = b.Abs("delta")
	require.NoError(t, err)
	assert.Equal(t, "ABS(`delta`)", got)

	assert.Equal(t, "RANDOM()", b.Random())
	assert.Equal(t, "RAND()", sql.Dialect(dialect.MySQL).Random())
}

func TestAggregates(t *testing.T) {
	b := sql.Dialect(dialect.SQLite)

	got, err := b.Count("*")
	require.NoError(t, err)
	assert.Equal(t, "COUNT(*)", got)

	got, err = b.CountDistinct("city")
	require.NoError(t, err)
	assert.Equal(t, "COUNT(DISTINCT `city`)", got)

	got, err = b.Sum("total")
	require.NoError(t, err)
	assert.Equal(t, "SUM(`total`)", got)

	got, err = b.GroupConcat("tag")
	require.NoError(t, err)
	assert.Equal(t, "GROUP_CONCAT(`tag`)", got)
}

func TestDateFuncs(t *testing.T) {
	lite := sql.Dialect(dialect.SQLite)
	my := sql.Dialect(dialect.MySQL)

	assert.Equal(t, "datetime('now')", lite.Now())
	assert.Equal(t, "NOW()", my.Now())
	assert.Equal(t, "date('now')", lite.Today())
	assert.Equal(t, "CURDATE()", my.Today())

	got, err := lite.DateFormat("created_at", "%Y-%m")
	require.NoError(t, err)
	assert.Equal(t, "strftime('%Y-%m', `created_at`)", got)

	got, err = my.DateFormat("created_at", "%Y-%m")
	require.NoError(t, err)
	assert.Equal(t, "DATE_FORMAT(`created_at`, '%Y-%m')", got)

	got, err = lite.Year("created_at")
	require.NoError(t, err)
	assert.Equal(t, "CAST(strftime('%Y', `created_at`) AS INTEGER)", got)

	got, err = my.Year("created_at")
	require.NoError(t, err)
	assert.Equal(t, "YEAR(`created_at`)", got)

	got, err = lite.Month("created_at")
	require.NoError(t, err)
	assert.Equal(t, "CAST(strftime('%m', `created_at`) AS INTEGER)", got)

	got, err = my.Day("created_at")
	require.NoError(t, err)
	assert.Equal(t, "DAY(`created_at`)", got)
}

func TestConditionalFuncs(t *testing.T) {
	b := sql.Dialect(dialect.SQLite)

	got, err := b.Coalesce([]string{"nickname", "name"})
	require.NoError(t, err)
	assert.Equal(t, "COALESCE(`nickname`, `name`)", got)

	_, err = b.Coalesce(nil)
	require.Error(t, err)
	assert.True(t, sqlcraft.IsArgument(err))

	got, err = b.IfNull("nickname", "anonymous")
	require.NoError(t, err)
	assert.Equal(t, "IFNULL(`nickname`, 'anonymous')", got)

	got, err = b.NullIf("status", "unknown")
	require.NoError(t, err)
	assert.Equal(t, "NULLIF(`status`, 'unknown')", got)
}

func TestCase(t *testing.T) {
	b := sql.Dialect(dialect.SQLite)

	t.Run("WhenElse", func(t *testing.T) {
		got, err := b.Case().
			When("age >= 18", "adult").
			When("age >= 13", "teen").
			Else("child").
			End()
		require.NoError(t, err)
		assert.Equal(t, "CASE WHEN age >= 18 THEN 'adult' WHEN age >= 13 THEN 'teen' ELSE 'child' END", got)
	})

	t.Run("EscapesResults", func(t *testing.T) {
		got, err := b.Case().When("x = 1", "it's one").End()
		require.NoError(t, err)
		assert.Equal(t, "CASE WHEN x = 1 THEN 'it''s one' END", got)
	})

	t.Run("NoWhen", func(t *testing.T) {
		_, err := b.Case().End()
		require.Error(t, err)
		assert.True(t, sqlcraft.IsArgument(err))

		_, err = b.Case().Else("fallback").End()
		require.Error(t, err)
		assert.True(t, sqlcraft.IsArgument(err))
	})

	t.Run("EmptyCondition", func(t *testing.T) {
		_, err := b.Case().When("  ", "x").End()
		require.Error(t, err)
		assert.True(t, sqlcraft.IsArgument(err))
	})
}

func TestWindowFuncs(t *testing.T) {
	b := sql.Dialect(dialect.SQLite)

	got, err := b.RowNumber(sql.Over{PartitionBy: []string{"dept"}, OrderBy: "salary", Order: "DESC"})
	require.NoError(t, err)
	assert.Equal(t, "ROW_NUMBER() OVER (PARTITION BY `dept` ORDER BY `salary` DESC)", got)

	got, err = b.Rank(sql.Over{OrderBy: "score"})
	require.NoError(t, err)
	assert.Equal(t, "RANK() OVER (ORDER BY `score`)", got)

	got, err = b.Lag("price", 1, sql.Over{OrderBy: "day"})
	require.NoError(t, err)
	assert.Equal(t, "LAG(`price`, 1) OVER (ORDER BY `day`)", got)

	got, err = b.Lead("price", 2, sql.Over{PartitionBy: []string{"sku"}})
	require.NoError(t, err)
	assert.Equal(t, "LEAD(`price`, 2) OVER (PARTITION BY `sku`)", got)
}

func TestJSONFuncs(t *testing.T) {
	b := sql.Dialect(dialect.SQLite)

	got, err := b.JSONExtract("payload", "$.user.id")
	require.NoError(t, err)
	assert.Equal(t, "JSON_EXTRACT(`payload`, '$.user.id')", got)

	got, err = b.JSONArray([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "JSON_ARRAY(`a`, `b`)", got)

	got, err = b.JSONArray(nil)
	require.NoError(t, err)
	assert.Equal(t, "JSON_ARRAY()", got)

	got, err = b.JSONObject([]sql.JSONPair{{Key: "id", Column: "user_id"}, {Key: "name", Column: "name"}})
	require.NoError(t, err)
	assert.Equal(t, "JSON_OBJECT('id', `user_id`, 'name', `name`)", got)
}

func TestAs(t *testing.T) {
	b := sql.Dialect(dialect.SQLite)

	count, err := b.Count("*")
	require.NoError(t, err)
	got, err := b.As(count, "total")
	require.NoError(t, err)
	assert.Equal(t, "COUNT(*) AS `total`", got)
}
