package sql

import (
	"strconv"
	"strings"
)

// The expression library maps identifiers and literal arguments to SQL text
// fragments. It composes with the statement builders but never executes.
//
// Contract: identifier-position arguments pass through Ident and share its
// sanitization guarantees. Literal-position arguments (replacement text,
// default values, CASE results, format strings) are embedded as
// quote-escaped text, NOT as bound parameters. This is a narrower safety
// guarantee than the clause builder's; never pass untrusted input as a
// literal-position argument.

// fn renders name(args...) with every argument sanitized as an identifier.
func (b *Builder) fn(name string, idents ...string) (string, error) {
	args := make([]string, len(idents))
	for i, id := range idents {
		ident, err := b.Ident(id)
		if err != nil {
			return "", err
		}
		args[i] = ident
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

// As aliases an expression. The alias is sanitized; the expression is
// assumed to come from this library or the builders.
func (b *Builder) As(expr, alias string) (string, error) {
	a, err := b.Ident(alias)
	if err != nil {
		return "", err
	}
	return expr + " AS " + a, nil
}

// String functions.

// Upper maps a column to UPPER(col).
func (b *Builder) Upper(column string) (string, error) { return b.fn("UPPER", column) }

// Lower maps a column to LOWER(col).
func (b *Builder) Lower(column string) (string, error) { return b.fn("LOWER", column) }

// Length maps a column to LENGTH(col).
func (b *Builder) Length(column string) (string, error) { return b.fn("LENGTH", column) }

// Trim maps a column to TRIM(col).
func (b *Builder) Trim(column string) (string, error) { return b.fn("TRIM", column) }

// LTrim maps a column to LTRIM(col).
func (b *Builder) LTrim(column string) (string, error) { return b.fn("LTRIM", column) }

// RTrim maps a column to RTRIM(col).
func (b *Builder) RTrim(column string) (string, error) { return b.fn("RTRIM", column) }

// Replace maps a column to REPLACE(col, 'from', 'to'). The search and
// replacement text are literal-position arguments.
func (b *Builder) Replace(column, from, to string) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return "REPLACE(" + col + ", " + quoteLiteral(from) + ", " + quoteLiteral(to) + ")", nil
}

// Substr maps a column to SUBSTR(col, start, length). SQL substring
// positions are 1-based.
func (b *Builder) Substr(column string, start, length int) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return "SUBSTR(" + col + ", " + strconv.Itoa(start) + ", " + strconv.Itoa(length) + ")", nil
}

// Concat joins columns into one string expression. The embedded engine has
// no CONCAT function, so the SQLite dialect chains the || operator; MySQL
// emits CONCAT(...). Arguments are identifier-position.
func (b *Builder) Concat(columns []string) (string, error) {
	if len(columns) == 0 {
		return "", argErr("concat requires at least one column")
	}
	idents := make([]string, len(columns))
	for i, c := range columns {
		ident, err := b.Ident(c)
		if err != nil {
			return "", err
		}
		idents[i] = ident
	}
	if b.embedded() {
		return strings.Join(idents, " || "), nil
	}
	return "CONCAT(" + strings.Join(idents, ", ") + ")", nil
}

// Math functions.

// Abs maps a column to ABS(col).
func (b *Builder) Abs(column string) (string, error) { return b.fn("ABS", column) }

// Ceil maps a column to CEIL(col).
func (b *Builder) Ceil(column string) (string, error) { return b.fn("CEIL", column) }

// Floor maps a column to FLOOR(col).
func (b *Builder) Floor(column string) (string, error) { return b.fn("FLOOR", column) }

// Sqrt maps a column to SQRT(col).
func (b *Builder) Sqrt(column string) (string, error) { return b.fn("SQRT", column) }

// Sin maps a column to SIN(col).
func (b *Builder) Sin(column string) (string, error) { return b.fn("SIN", column) }

// Cos maps a column to COS(col).
func (b *Builder) Cos(column string) (string, error) { return b.fn("COS", column) }

// Tan maps a column to TAN(col).
func (b *Builder) Tan(column string) (string, error) { return b.fn("TAN", column) }

// Round maps a column to ROUND(col, decimals).
func (b *Builder) Round(column string, decimals int) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return "ROUND(" + col + ", " + strconv.Itoa(decimals) + ")", nil
}

// Power maps a column to POWER(col, exp).
func (b *Builder) Power(column string, exp float64) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return "POWER(" + col + ", " + strconv.FormatFloat(exp, 'g', -1, 64) + ")", nil
}

// Mod maps a column to MOD(col, divisor).
func (b *Builder) Mod(column string, divisor int) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return "MOD(" + col + ", " + strconv.Itoa(divisor) + ")", nil
}

// Random returns the dialect's random-number expression.
func (b *Builder) Random() string {
	if b.embedded() {
		return "RANDOM()"
	}
	return "RAND()"
}

// Aggregate functions.

// Count maps a column to COUNT(col). The wildcard passes through as
// COUNT(*).
func (b *Builder) Count(column string) (string, error) { return b.fn("COUNT", column) }

// CountDistinct maps a column to COUNT(DISTINCT col).
func (b *Builder) CountDistinct(column string) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return "COUNT(DISTINCT " + col + ")", nil
}

// Sum maps a column to SUM(col).
func (b *Builder) Sum(column string) (string, error) { return b.fn("SUM", column) }

// Avg maps a column to AVG(col).
func (b *Builder) Avg(column string) (string, error) { return b.fn("AVG", column) }

// Min maps a column to MIN(col).
func (b *Builder) Min(column string) (string, error) { return b.fn("MIN", column) }

// Max maps a column to MAX(col).
func (b *Builder) Max(column string) (string, error) { return b.fn("MAX", column) }

// GroupConcat maps a column to GROUP_CONCAT(col). Both engines support it.
func (b *Builder) GroupConcat(column string) (string, error) {
	return b.fn("GROUP_CONCAT", column)
}

// Date and time functions.

// Now returns the dialect's current-timestamp expression.
func (b *Builder) Now() string {
	if b.embedded() {
		return "datetime('now')"
	}
	return "NOW()"
}

// Today returns the dialect's current-date expression.
func (b *Builder) Today() string {
	if b.embedded() {
		return "date('now')"
	}
	return "CURDATE()"
}

// DateFormat formats a date column with the dialect's formatting function.
// The format string is a literal-position argument and uses the dialect's
// own placeholder syntax (strftime for SQLite, DATE_FORMAT for MySQL).
func (b *Builder) DateFormat(column, format string) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	if b.embedded() {
		return "strftime(" + quoteLiteral(format) + ", " + col + ")", nil
	}
	return "DATE_FORMAT(" + col + ", " + quoteLiteral(format) + ")", nil
}

// datePart extracts a date component as an integer.
func (b *Builder) datePart(column, strftimeCode, mysqlFn string) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	if b.embedded() {
		return "CAST(strftime(" + quoteLiteral(strftimeCode) + ", " + col + ") AS INTEGER)", nil
	}
	return mysqlFn + "(" + col + ")", nil
}

// Year extracts the year of a date column.
func (b *Builder) Year(column string) (string, error) { return b.datePart(column, "%Y", "YEAR") }

// Month extracts the month of a date column.
func (b *Builder) Month(column string) (string, error) { return b.datePart(column, "%m", "MONTH") }

// Day extracts the day of month of a date column.
func (b *Builder) Day(column string) (string, error) { return b.datePart(column, "%d", "DAY") }

// Conditional functions.

// Coalesce maps columns to COALESCE(col1, col2, ...).
func (b *Builder) Coalesce(columns []string) (string, error) {
	if len(columns) == 0 {
		return "", argErr("coalesce requires at least one column")
	}
	return b.fn("COALESCE", columns...)
}

// IfNull maps a column to IFNULL(col, 'default'). The default is a
// literal-position argument.
func (b *Builder) IfNull(column, def string) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return "IFNULL(" + col + ", " + quoteLiteral(def) + ")", nil
}

// NullIf maps a column to NULLIF(col, 'value'). The comparison value is a
// literal-position argument.
func (b *Builder) NullIf(column, value string) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return "NULLIF(" + col + ", " + quoteLiteral(value) + ")", nil
}

// CaseExpr builds a CASE expression. WHEN conditions are caller-trusted
// structural text; result values are literal-position arguments.
type CaseExpr struct {
	parts []string
	err   error
}

// Case starts a new CASE expression.
func (b *Builder) Case() *CaseExpr {
	return &CaseExpr{}
}

// When appends a WHEN cond THEN 'result' arm.
func (c *CaseExpr) When(cond, result string) *CaseExpr {
	if c.err != nil {
		return c
	}
	if strings.TrimSpace(cond) == "" {
		c.err = argErr("case expression requires a non-empty when condition")
		return c
	}
	c.parts = append(c.parts, "WHEN "+cond+" THEN "+quoteLiteral(result))
	return c
}

// Else sets the ELSE 'result' arm.
func (c *CaseExpr) Else(result string) *CaseExpr {
	if c.err != nil {
		return c
	}
	c.parts = append(c.parts, "ELSE "+quoteLiteral(result))
	return c
}

// End closes the expression and returns its text. A CASE without at least
// one WHEN arm is an ArgumentError.
func (c *CaseExpr) End() (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if len(c.parts) == 0 || !strings.HasPrefix(c.parts[0], "WHEN ") {
		return "", argErr("case expression requires at least one when arm")
	}
	return "CASE " + strings.Join(c.parts, " ") + " END", nil
}

// Window functions.

// Over describes a window specification.
type Over struct {
	// PartitionBy names the partitioning columns.
	PartitionBy []string
	// OrderBy names the ordering column inside the window.
	OrderBy string
	// Order is the sort direction, validated like SelectOptions.Order.
	Order string
}

// spec renders the OVER (...) clause.
func (o Over) spec(b *Builder) (string, error) {
	var parts []string
	if len(o.PartitionBy) > 0 {
		cols, err := b.idents(o.PartitionBy)
		if err != nil {
			return "", err
		}
		parts = append(parts, "PARTITION BY "+cols)
	}
	if o.OrderBy != "" {
		col, err := b.Ident(o.OrderBy)
		if err != nil {
			return "", err
		}
		clause := "ORDER BY " + col
		if dir, ok := orderDirection(o.Order); ok {
			clause += " " + dir
		}
		parts = append(parts, clause)
	}
	return "OVER (" + strings.Join(parts, " ") + ")", nil
}

// window renders fn(args) OVER (...).
func (b *Builder) window(fn string, over Over) (string, error) {
	spec, err := over.spec(b)
	if err != nil {
		return "", err
	}
	return fn + " " + spec, nil
}

// RowNumber maps a window spec to ROW_NUMBER() OVER (...).
func (b *Builder) RowNumber(over Over) (string, error) { return b.window("ROW_NUMBER()", over) }

// Rank maps a window spec to RANK() OVER (...).
func (b *Builder) Rank(over Over) (string, error) { return b.window("RANK()", over) }

// DenseRank maps a window spec to DENSE_RANK() OVER (...).
func (b *Builder) DenseRank(over Over) (string, error) { return b.window("DENSE_RANK()", over) }

// Lag maps a column to LAG(col, offset) OVER (...).
func (b *Builder) Lag(column string, offset int, over Over) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return b.window("LAG("+col+", "+strconv.Itoa(offset)+")", over)
}

// Lead maps a column to LEAD(col, offset) OVER (...).
func (b *Builder) Lead(column string, offset int, over Over) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return b.window("LEAD("+col+", "+strconv.Itoa(offset)+")", over)
}

// JSON functions.

// JSONExtract maps a column to JSON_EXTRACT(col, 'path'). The path is a
// literal-position argument.
func (b *Builder) JSONExtract(column, path string) (string, error) {
	col, err := b.Ident(column)
	if err != nil {
		return "", err
	}
	return "JSON_EXTRACT(" + col + ", " + quoteLiteral(path) + ")", nil
}

// JSONArray maps columns to JSON_ARRAY(col1, col2, ...). Modeled as an
// ordered list rather than a variadic call to keep the contract explicit.
func (b *Builder) JSONArray(columns []string) (string, error) {
	if len(columns) == 0 {
		return "JSON_ARRAY()", nil
	}
	return b.fn("JSON_ARRAY", columns...)
}

// JSONPair is one key/column entry of a JSON_OBJECT call. The key is a
// literal-position argument; the column is sanitized.
type JSONPair struct {
	Key    string
	Column string
}

// JSONObject maps key/column pairs to JSON_OBJECT('k1', col1, ...).
func (b *Builder) JSONObject(pairs []JSONPair) (string, error) {
	parts := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		col, err := b.Ident(p.Column)
		if err != nil {
			return "", err
		}
		parts = append(parts, quoteLiteral(p.Key), col)
	}
	return "JSON_OBJECT(" + strings.Join(parts, ", ") + ")", nil
}
